package usecases

import (
	"context"
	"net/mail"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"seller-onboarding.backend/internal/domain/entities"
	domainerrors "seller-onboarding.backend/internal/domain/errors"
	"seller-onboarding.backend/internal/domain/repositories"
	"seller-onboarding.backend/pkg/utils"
)

// OTPChannel is where a one-time password is delivered
type OTPChannel string

const (
	OTPChannelPhone OTPChannel = "phone"
	OTPChannelEmail OTPChannel = "email"
)

var (
	phonePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
	otpPattern   = regexp.MustCompile(`^[0-9]{4,8}$`)
)

// VerificationUsecase sends and verifies contact OTPs outside the wizard transitions
type VerificationUsecase struct {
	drafts  repositories.DraftRepository
	gateway repositories.SubmissionGateway
}

// NewVerificationUsecase creates a new verification usecase
func NewVerificationUsecase(drafts repositories.DraftRepository, gateway repositories.SubmissionGateway) *VerificationUsecase {
	return &VerificationUsecase{drafts: drafts, gateway: gateway}
}

// NormalizePhone removes spaces and dashes
func NormalizePhone(phone string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(phone))
}

// ValidEmail reports whether email is a bare address
func ValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

func (u *VerificationUsecase) open(ctx context.Context, userID uuid.UUID) (*DraftStore, error) {
	drafts := NewDraftStore(u.drafts, userID)
	if err := drafts.Load(ctx); err != nil {
		return nil, err
	}
	return drafts, nil
}

// identifier returns the validated contact of channel from the draft
func identifier(v entities.Verification, channel OTPChannel) (string, bool, error) {
	switch channel {
	case OTPChannelPhone:
		phone := NormalizePhone(v.Phone)
		if !phonePattern.MatchString(phone) {
			return "", false, domainerrors.Validation("Enter a valid phone number")
		}
		return phone, v.PhoneVerified, nil
	case OTPChannelEmail:
		email := strings.TrimSpace(v.Email)
		if !ValidEmail(email) {
			return "", false, domainerrors.Validation("Enter a valid email address")
		}
		return email, v.EmailVerified, nil
	default:
		return "", false, domainerrors.BadRequest("channel must be phone or email")
	}
}

// SendOTP sends a one-time password to the draft's phone or email
func (u *VerificationUsecase) SendOTP(ctx context.Context, userID uuid.UUID, channel OTPChannel) (*OnboardingState, error) {
	drafts, err := u.open(ctx, userID)
	if err != nil {
		return nil, err
	}

	id, verified, err := identifier(drafts.Draft().Verification, channel)
	if err != nil {
		return nil, fail(ctx, drafts, err)
	}
	if verified {
		return nil, locked("Already verified")
	}

	var sent string
	if channel == OTPChannelPhone {
		err = u.gateway.SendPhoneOTP(ctx, entities.SendPhoneOTPRequest{Phone: id})
		if err != nil {
			return nil, gatewayFailure(ctx, drafts, err, "Failed to send phone OTP")
		}
		sent = "OTP sent to " + utils.MaskTail(id, 4)
	} else {
		err = u.gateway.SendEmailOTP(ctx, entities.SendEmailOTPRequest{Email: id})
		if err != nil {
			return nil, gatewayFailure(ctx, drafts, err, "Failed to send email OTP")
		}
		sent = "OTP sent to " + utils.MaskEmail(id)
	}

	if err := drafts.SetFeedback(ctx, "", sent); err != nil {
		return nil, err
	}
	return buildState(drafts.Draft()), nil
}

// VerifyOTP checks the code and marks the channel verified
func (u *VerificationUsecase) VerifyOTP(ctx context.Context, userID uuid.UUID, channel OTPChannel, otp string) (*OnboardingState, error) {
	drafts, err := u.open(ctx, userID)
	if err != nil {
		return nil, err
	}

	id, verified, err := identifier(drafts.Draft().Verification, channel)
	if err != nil {
		return nil, fail(ctx, drafts, err)
	}
	if verified {
		return buildState(drafts.Draft()), nil
	}

	otp = strings.TrimSpace(otp)
	if !otpPattern.MatchString(otp) {
		return nil, fail(ctx, drafts, domainerrors.Validation("Enter the OTP you received"))
	}

	if err := u.gateway.VerifyOTP(ctx, entities.VerifyOTPRequest{Identifier: id, OTP: otp}); err != nil {
		return nil, gatewayFailure(ctx, drafts, err, "Failed to verify OTP")
	}

	if channel == OTPChannelPhone {
		err = drafts.MarkPhoneVerified(ctx, id)
	} else {
		err = drafts.MarkEmailVerified(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	if err := drafts.SetFeedback(ctx, "", ""); err != nil {
		return nil, err
	}
	return buildState(drafts.Draft()), nil
}
