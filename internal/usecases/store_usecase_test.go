package usecases_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"seller-onboarding.backend/internal/domain/entities"
	domainerrors "seller-onboarding.backend/internal/domain/errors"
	"seller-onboarding.backend/internal/usecases"
)

func TestStoreUsecase_GetActive(t *testing.T) {
	ctx := context.Background()
	stores := new(MockActiveStoreRepository)
	uc := usecases.NewStoreUsecase(stores)
	userID := uuid.New()

	stores.On("Get", ctx, userID).Return(nil, domainerrors.ErrNotFound).Once()
	_, err := uc.GetActive(ctx, userID)
	assert.Equal(t, http.StatusNotFound, appErrCode(t, err))

	want := &entities.ActiveStoreSelection{UserID: userID, ID: 42, Slug: "my-shop", Name: "My Shop"}
	stores.On("Get", ctx, userID).Return(want, nil).Once()
	got, err := uc.GetActive(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestStoreUsecase_SwitchActive(t *testing.T) {
	ctx := context.Background()
	stores := new(MockActiveStoreRepository)
	uc := usecases.NewStoreUsecase(stores)
	userID := uuid.New()

	_, err := uc.SwitchActive(ctx, userID, &entities.ActiveStoreSelection{ID: 1, Slug: "x"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)

	sel := &entities.ActiveStoreSelection{ID: 9, Slug: "second", Name: "Second"}
	stores.On("Set", ctx, &entities.ActiveStoreSelection{UserID: userID, ID: 9, Slug: "second", Name: "Second"}).Return(nil).Once()
	got, err := uc.SwitchActive(ctx, userID, sel)
	require.NoError(t, err)
	assert.Equal(t, userID, got.UserID)
	stores.AssertExpectations(t)
}
