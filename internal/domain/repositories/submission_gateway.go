package repositories

import (
	"context"

	"seller-onboarding.backend/internal/domain/entities"
)

// SubmissionGateway is the marketplace REST API the wizard submits to.
// Every failure, rejected or transport, is returned as an error; nothing is retried.
type SubmissionGateway interface {
	GetProfile(ctx context.Context) (*entities.UserProfile, error)
	CreateStore(ctx context.Context, req entities.CreateStoreRequest) (*entities.StoreResult, error)
	UploadLogo(ctx context.Context, req entities.UploadLogoRequest) error
	SendEmailOTP(ctx context.Context, req entities.SendEmailOTPRequest) error
	SendPhoneOTP(ctx context.Context, req entities.SendPhoneOTPRequest) error
	VerifyOTP(ctx context.Context, req entities.VerifyOTPRequest) error
	SubmitPAN(ctx context.Context, req entities.SubmitPANRequest) error
	SubmitAadhaar(ctx context.Context, req entities.SubmitAadhaarRequest) error
	SubmitBank(ctx context.Context, req entities.SubmitBankRequest) error
}

// AssetUploader stores an image on the external asset host and returns its public URL
type AssetUploader interface {
	UploadLogo(ctx context.Context, storeID int64, file *entities.LogoFile) (string, error)
}

// EventPublisher publishes onboarding lifecycle events
type EventPublisher interface {
	PublishOnboardingCompleted(ctx context.Context, event *entities.OnboardingCompletedEvent) error
}
