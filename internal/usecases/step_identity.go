package usecases

import (
	"context"
	"regexp"
	"strings"

	"seller-onboarding.backend/internal/domain/entities"
	domainerrors "seller-onboarding.backend/internal/domain/errors"
)

var (
	aadhaarPattern = regexp.MustCompile(`^\d{12}$`)
	panPattern     = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
)

type identityForm struct {
	deps FormDeps
}

func newIdentityForm(deps FormDeps, _ StepInput) StepForm {
	return &identityForm{deps: deps}
}

type identityDoc struct {
	name   string
	number string
}

// NormalizeAadhaar strips the spaces sellers type between digit groups
func NormalizeAadhaar(number string) string {
	return strings.Join(strings.Fields(number), "")
}

// NormalizePAN uppercases and trims a PAN
func NormalizePAN(number string) string {
	return strings.ToUpper(strings.TrimSpace(number))
}

// Submit validates every filled, unsubmitted document before sending any of them,
// then submits Aadhaar and PAN one after the other. Each submitted flag is kept on its own.
func (f *identityForm) Submit(ctx context.Context) error {
	kyc := f.deps.Drafts.Draft().KYC
	aadhaarPending := kyc.AadhaarFilled() && !kyc.AadhaarSubmitted
	panPending := kyc.PANFilled() && !kyc.PANSubmitted
	if !aadhaarPending && !panPending {
		return nil
	}

	var aadhaar, pan identityDoc
	if aadhaarPending {
		aadhaar = identityDoc{name: strings.TrimSpace(kyc.AadhaarName), number: NormalizeAadhaar(kyc.AadhaarNumber)}
		if aadhaar.name == "" {
			return fail(ctx, f.deps.Drafts, domainerrors.Validation("Name as on Aadhaar is required"))
		}
		if !aadhaarPattern.MatchString(aadhaar.number) {
			return fail(ctx, f.deps.Drafts, domainerrors.Validation("Aadhaar number must be exactly 12 digits"))
		}
	}
	if panPending {
		pan = identityDoc{name: strings.TrimSpace(kyc.PANName), number: NormalizePAN(kyc.PANNumber)}
		if pan.name == "" {
			return fail(ctx, f.deps.Drafts, domainerrors.Validation("Name as on PAN is required"))
		}
		if !panPattern.MatchString(pan.number) {
			return fail(ctx, f.deps.Drafts, domainerrors.Validation("PAN must be 5 letters, 4 digits and 1 letter"))
		}
	}

	if aadhaarPending {
		err := f.deps.Gateway.SubmitAadhaar(ctx, entities.SubmitAadhaarRequest{Name: aadhaar.name, AadhaarNumber: aadhaar.number})
		if err != nil {
			return gatewayFailure(ctx, f.deps.Drafts, err, "Failed to submit Aadhaar details")
		}
		if err := f.deps.Drafts.MarkAadhaarSubmitted(ctx, aadhaar.name, aadhaar.number); err != nil {
			return err
		}
	}
	if panPending {
		err := f.deps.Gateway.SubmitPAN(ctx, entities.SubmitPANRequest{Name: pan.name, PANNumber: pan.number})
		if err != nil {
			return gatewayFailure(ctx, f.deps.Drafts, err, "Failed to submit PAN details")
		}
		if err := f.deps.Drafts.MarkPANSubmitted(ctx, pan.name, pan.number); err != nil {
			return err
		}
	}
	return nil
}
