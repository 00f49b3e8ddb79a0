package usecases

import (
	"context"

	domainerrors "seller-onboarding.backend/internal/domain/errors"
)

type verificationForm struct {
	deps FormDeps
}

func newVerificationForm(deps FormDeps, _ StepInput) StepForm {
	return &verificationForm{deps: deps}
}

// Submit only checks the verified flags; OTPs are sent and verified outside the wizard transitions
func (f *verificationForm) Submit(ctx context.Context) error {
	v := f.deps.Drafts.Draft().Verification
	if !v.PhoneVerified {
		return fail(ctx, f.deps.Drafts, domainerrors.Validation("Please verify your phone number"))
	}
	if !v.EmailVerified {
		return fail(ctx, f.deps.Drafts, domainerrors.Validation("Please verify your email address"))
	}
	return nil
}
