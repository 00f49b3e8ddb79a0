package usecases

import (
	"context"
	"fmt"
	"net/http"

	"seller-onboarding.backend/internal/domain/entities"
	domainerrors "seller-onboarding.backend/internal/domain/errors"
)

var allowedLogoTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
	"image/gif":  true,
}

type logoForm struct {
	deps FormDeps
	file *entities.LogoFile
}

func newLogoForm(deps FormDeps, input StepInput) StepForm {
	return &logoForm{deps: deps, file: input.Logo}
}

// Submit uploads the chosen file to the asset host and attaches it to the store.
// Without a chosen file there is nothing to do.
func (f *logoForm) Submit(ctx context.Context) error {
	if f.file == nil {
		return nil
	}

	draft := f.deps.Drafts.Draft()
	if !draft.StoreInfo.Created() {
		return fail(ctx, f.deps.Drafts, domainerrors.Validation("Create your store before uploading a logo"))
	}
	if err := f.validate(); err != nil {
		return fail(ctx, f.deps.Drafts, err)
	}

	storeID := draft.StoreInfo.ID.Int64
	url, err := f.deps.Uploader.UploadLogo(ctx, storeID, f.file)
	if err != nil {
		return gatewayFailure(ctx, f.deps.Drafts, err, "Failed to upload logo")
	}

	if err := f.deps.Gateway.UploadLogo(ctx, entities.UploadLogoRequest{StoreID: storeID, Logo: url}); err != nil {
		return gatewayFailure(ctx, f.deps.Drafts, err, "Failed to upload logo")
	}
	return f.deps.Drafts.SetLogoURL(ctx, url)
}

func (f *logoForm) validate() error {
	if len(f.file.Data) == 0 {
		return domainerrors.Validation("Logo file is empty")
	}
	if f.deps.MaxLogoSize > 0 && int64(len(f.file.Data)) > f.deps.MaxLogoSize {
		return domainerrors.Validation(fmt.Sprintf("Logo must be at most %d MB", f.deps.MaxLogoSize>>20))
	}
	if !allowedLogoTypes[http.DetectContentType(f.file.Data)] {
		return domainerrors.Validation("Logo must be a PNG, JPEG, WebP or GIF image")
	}
	return nil
}
