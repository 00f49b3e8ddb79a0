package usecases

import (
	"context"
	"regexp"
	"strings"

	"seller-onboarding.backend/internal/domain/entities"
	domainerrors "seller-onboarding.backend/internal/domain/errors"
)

var (
	accountNumberPattern = regexp.MustCompile(`^\d{9,18}$`)
	ifscPattern          = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
)

type bankForm struct {
	deps    FormDeps
	confirm string
}

func newBankForm(deps FormDeps, input StepInput) StepForm {
	return &bankForm{deps: deps, confirm: input.ConfirmAccountNumber}
}

// Submit runs every check before the single submit-bank call
func (f *bankForm) Submit(ctx context.Context) error {
	bank := f.deps.Drafts.Draft().Bank
	if bank.Submitted {
		return nil
	}

	name := strings.TrimSpace(bank.AccountName)
	number := strings.TrimSpace(bank.AccountNumber)
	ifsc := strings.ToUpper(strings.TrimSpace(bank.IFSCCode))
	confirm := strings.TrimSpace(f.confirm)
	if name == "" && number == "" && ifsc == "" && confirm == "" {
		return nil
	}

	switch {
	case name == "":
		return fail(ctx, f.deps.Drafts, domainerrors.Validation("Account holder name is required"))
	case !accountNumberPattern.MatchString(number):
		return fail(ctx, f.deps.Drafts, domainerrors.Validation("Account number must be 9 to 18 digits"))
	case confirm != number:
		return fail(ctx, f.deps.Drafts, domainerrors.Validation("Account numbers do not match"))
	case !ifscPattern.MatchString(ifsc):
		return fail(ctx, f.deps.Drafts, domainerrors.Validation("Enter a valid IFSC code"))
	}

	if err := f.deps.Gateway.SubmitBank(ctx, entities.SubmitBankRequest{Name: name, AccountNumber: number, IFSCCode: ifsc}); err != nil {
		return gatewayFailure(ctx, f.deps.Drafts, err, "Failed to submit bank details")
	}
	return f.deps.Drafts.MarkBankSubmitted(ctx, name, number, ifsc)
}
