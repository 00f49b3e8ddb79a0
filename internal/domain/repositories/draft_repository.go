package repositories

import (
	"context"

	"github.com/google/uuid"
	"seller-onboarding.backend/internal/domain/entities"
)

// DraftRepository persists the onboarding draft of a seller session
type DraftRepository interface {
	// Get returns ErrNotFound when no draft exists for the user
	Get(ctx context.Context, userID uuid.UUID) (*entities.OnboardingDraft, error)
	// Save stores draft only if the stored copy still has draft.Revision, then sets the new revision.
	// It returns ErrDraftConflict when another writer got there first.
	Save(ctx context.Context, userID uuid.UUID, draft *entities.OnboardingDraft) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

// ActiveStoreRepository persists which store the dashboard operates on
type ActiveStoreRepository interface {
	Get(ctx context.Context, userID uuid.UUID) (*entities.ActiveStoreSelection, error)
	Set(ctx context.Context, selection *entities.ActiveStoreSelection) error
	Delete(ctx context.Context, userID uuid.UUID) error
}
