package usecases

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"seller-onboarding.backend/internal/domain/entities"
	domainerrors "seller-onboarding.backend/internal/domain/errors"
	"seller-onboarding.backend/internal/domain/repositories"
)

// StoreUsecase reads and switches the store the dashboard operates on
type StoreUsecase struct {
	stores repositories.ActiveStoreRepository
}

func NewStoreUsecase(stores repositories.ActiveStoreRepository) *StoreUsecase {
	return &StoreUsecase{stores: stores}
}

func (u *StoreUsecase) GetActive(ctx context.Context, userID uuid.UUID) (*entities.ActiveStoreSelection, error) {
	selection, err := u.stores.Get(ctx, userID)
	if errors.Is(err, domainerrors.ErrNotFound) {
		return nil, domainerrors.NotFound("No active store selected")
	}
	return selection, err
}

// SwitchActive replaces the selection as a whole
func (u *StoreUsecase) SwitchActive(ctx context.Context, userID uuid.UUID, selection *entities.ActiveStoreSelection) (*entities.ActiveStoreSelection, error) {
	if selection.ID <= 0 || selection.Slug == "" || selection.Name == "" {
		return nil, domainerrors.BadRequest("id, slug and name are required")
	}
	selection.UserID = userID
	if err := u.stores.Set(ctx, selection); err != nil {
		return nil, err
	}
	return selection, nil
}
