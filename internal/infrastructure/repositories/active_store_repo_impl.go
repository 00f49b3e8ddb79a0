package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"seller-onboarding.backend/internal/domain/entities"
	domainerrors "seller-onboarding.backend/internal/domain/errors"
	"seller-onboarding.backend/internal/infrastructure/models"
)

// ActiveStoreRepository persists the store selection of each seller
type ActiveStoreRepository struct {
	db *gorm.DB
}

func NewActiveStoreRepository(db *gorm.DB) *ActiveStoreRepository {
	return &ActiveStoreRepository{db: db}
}

func (r *ActiveStoreRepository) Get(ctx context.Context, userID uuid.UUID) (*entities.ActiveStoreSelection, error) {
	var m models.ActiveStore
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// Set writes the whole selection in one statement so it is never stored partially
func (r *ActiveStoreRepository) Set(ctx context.Context, selection *entities.ActiveStoreSelection) error {
	if selection.UserID == uuid.Nil || selection.ID <= 0 || selection.Slug == "" || selection.Name == "" {
		return domainerrors.ErrInvalidInput
	}

	m := r.toModel(selection)
	now := time.Now()
	m.CreatedAt = now
	m.UpdatedAt = now

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"store_id", "slug", "name", "logo_url", "updated_at"}),
	}).Create(m).Error
	if err != nil {
		return err
	}
	selection.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *ActiveStoreRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.ActiveStore{}, "user_id = ?", userID).Error
}

func (r *ActiveStoreRepository) toEntity(m *models.ActiveStore) *entities.ActiveStoreSelection {
	return &entities.ActiveStoreSelection{
		UserID:    m.UserID,
		ID:        m.StoreID,
		Slug:      m.Slug,
		Name:      m.Name,
		LogoURL:   m.LogoURL,
		UpdatedAt: m.UpdatedAt,
	}
}

func (r *ActiveStoreRepository) toModel(e *entities.ActiveStoreSelection) *models.ActiveStore {
	return &models.ActiveStore{
		UserID:  e.UserID,
		StoreID: e.ID,
		Slug:    e.Slug,
		Name:    e.Name,
		LogoURL: e.LogoURL,
	}
}
