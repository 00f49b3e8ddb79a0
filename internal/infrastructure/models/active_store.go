package models

import (
	"time"

	"github.com/google/uuid"
)

// ActiveStore is the dashboard's selected store, one row per seller
type ActiveStore struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	StoreID   int64     `gorm:"not null"`
	Slug      string    `gorm:"type:varchar(255);not null"`
	Name      string    `gorm:"type:varchar(255);not null"`
	LogoURL   string    `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ActiveStore) TableName() string {
	return "active_stores"
}
