package usecases

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"seller-onboarding.backend/internal/domain/entities"
	domainerrors "seller-onboarding.backend/internal/domain/errors"
	"seller-onboarding.backend/internal/domain/repositories"
	"seller-onboarding.backend/pkg/logger"
)

// StepForm validates the active step against the draft and submits it.
// A nil error means the step may be marked complete.
type StepForm interface {
	Submit(ctx context.Context) error
}

// FormDeps are the collaborators shared by every step form
type FormDeps struct {
	Drafts      *DraftStore
	Gateway     repositories.SubmissionGateway
	Uploader    repositories.AssetUploader
	MaxLogoSize int64
}

// StepInput carries values that are never persisted in the draft
type StepInput struct {
	ConfirmAccountNumber string
	Logo                 *entities.LogoFile
}

// FormFactory builds the form of a step for one transition
type FormFactory func(deps FormDeps, input StepInput) StepForm

// StepDescriptor declares one wizard step. A nil NewForm means the step has nothing to submit.
type StepDescriptor struct {
	Index     int
	ID        entities.StepID
	Title     string
	Skippable bool
	NewForm   FormFactory
}

var onboardingSteps = []StepDescriptor{
	{Index: 0, ID: entities.StepStoreInfo, Title: "Store Info", Skippable: false, NewForm: newStoreInfoForm},
	{Index: 1, ID: entities.StepLogo, Title: "Logo", Skippable: true, NewForm: newLogoForm},
	{Index: 2, ID: entities.StepVerification, Title: "Verification", Skippable: false, NewForm: newVerificationForm},
	{Index: 3, ID: entities.StepIdentity, Title: "Identity", Skippable: true, NewForm: newIdentityForm},
	{Index: 4, ID: entities.StepBank, Title: "Bank", Skippable: true, NewForm: newBankForm},
}

// OnboardingSteps returns the wizard steps in order
func OnboardingSteps() []StepDescriptor {
	return append([]StepDescriptor(nil), onboardingSteps...)
}

// fail records err as the step's error message and returns it
func fail(ctx context.Context, drafts *DraftStore, err error) error {
	msg := err.Error()
	var appErr *domainerrors.AppError
	if errors.As(err, &appErr) {
		msg = appErr.Message
	}
	if recErr := drafts.SetFeedback(ctx, msg, ""); recErr != nil {
		logger.Warn(ctx, "Failed to record step error", zap.Error(recErr))
	}
	return err
}

// gatewayFailure converts a failed marketplace call into the step error shown to the seller
func gatewayFailure(ctx context.Context, drafts *DraftStore, err error, fallback string) error {
	return fail(ctx, drafts, domainerrors.StepFailed(domainerrors.UserMessage(err, fallback), err))
}
