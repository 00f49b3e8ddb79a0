package usecases

import (
	"context"
	"strings"
	"unicode/utf8"

	"seller-onboarding.backend/internal/domain/entities"
	domainerrors "seller-onboarding.backend/internal/domain/errors"
)

const minStoreNameLength = 3

type storeInfoForm struct {
	deps FormDeps
}

func newStoreInfoForm(deps FormDeps, _ StepInput) StepForm {
	return &storeInfoForm{deps: deps}
}

// Submit creates the store once; afterwards the step always succeeds
func (f *storeInfoForm) Submit(ctx context.Context) error {
	info := f.deps.Drafts.Draft().StoreInfo
	if info.Created() {
		return nil
	}

	name := strings.TrimSpace(info.Name)
	if name == "" {
		return fail(ctx, f.deps.Drafts, domainerrors.Validation("Store name is required"))
	}
	if utf8.RuneCountInString(name) < minStoreNameLength {
		return fail(ctx, f.deps.Drafts, domainerrors.Validation("Store name must be at least 3 characters"))
	}

	store, err := f.deps.Gateway.CreateStore(ctx, entities.CreateStoreRequest{
		Name:        name,
		Description: strings.TrimSpace(info.Description),
	})
	if err != nil {
		return gatewayFailure(ctx, f.deps.Drafts, err, "Failed to create store")
	}
	return f.deps.Drafts.RecordStoreCreated(ctx, store)
}
