package usecases

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"seller-onboarding.backend/internal/domain/repositories"
	"seller-onboarding.backend/pkg/logger"
)

// SignInRedirect is where an evicted session is sent
const SignInRedirect = "/signin"

// SessionUsecase discards the seller's local state when the marketplace rejects the session
type SessionUsecase struct {
	drafts repositories.DraftRepository
	stores repositories.ActiveStoreRepository
}

func NewSessionUsecase(drafts repositories.DraftRepository, stores repositories.ActiveStoreRepository) *SessionUsecase {
	return &SessionUsecase{drafts: drafts, stores: stores}
}

// Evict deletes the draft and the active store selection. Both deletions are attempted.
func (u *SessionUsecase) Evict(ctx context.Context, userID uuid.UUID) error {
	err := errors.Join(
		u.drafts.Delete(ctx, userID),
		u.stores.Delete(ctx, userID),
	)
	if err != nil {
		logger.Error(ctx, "Session eviction incomplete", zap.Error(err))
		return err
	}
	logger.Info(ctx, "Session evicted")
	return nil
}
