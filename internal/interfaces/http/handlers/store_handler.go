package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"seller-onboarding.backend/internal/domain/entities"
	"seller-onboarding.backend/internal/interfaces/http/response"
)

// StoreService reads and switches the active store
type StoreService interface {
	GetActive(ctx context.Context, userID uuid.UUID) (*entities.ActiveStoreSelection, error)
	SwitchActive(ctx context.Context, userID uuid.UUID, selection *entities.ActiveStoreSelection) (*entities.ActiveStoreSelection, error)
}

// StoreHandler handles the active store endpoints
type StoreHandler struct {
	stores StoreService
}

func NewStoreHandler(stores StoreService) *StoreHandler {
	return &StoreHandler{stores: stores}
}

// GetActive returns the store the dashboard operates on
// GET /api/v1/stores/active
func (h *StoreHandler) GetActive(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	selection, err := h.stores.GetActive(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, selection)
}

// SwitchActive replaces the active store
// PUT /api/v1/stores/active
func (h *StoreHandler) SwitchActive(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var selection entities.ActiveStoreSelection
	if err := c.ShouldBindJSON(&selection); err != nil {
		bindError(c, err)
		return
	}
	saved, err := h.stores.SwitchActive(c.Request.Context(), userID, &selection)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, saved)
}
