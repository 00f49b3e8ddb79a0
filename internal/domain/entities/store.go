package entities

import (
	"time"

	"github.com/google/uuid"
)

// ActiveStoreSelection is the store the dashboard currently operates on
type ActiveStoreSelection struct {
	UserID    uuid.UUID `json:"-"`
	ID        int64     `json:"id" binding:"required,gt=0"`
	Slug      string    `json:"slug" binding:"required"`
	Name      string    `json:"name" binding:"required"`
	LogoURL   string    `json:"logoUrl"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OnboardingCompletedEvent is published once a seller finishes onboarding
type OnboardingCompletedEvent struct {
	EventID        uuid.UUID `json:"eventId"`
	UserID         uuid.UUID `json:"userId"`
	StoreID        int64     `json:"storeId,omitempty"`
	Slug           string    `json:"slug,omitempty"`
	Name           string    `json:"name,omitempty"`
	CompletedSteps []StepID  `json:"completedSteps"`
	CompletedAt    time.Time `json:"completedAt"`
}
