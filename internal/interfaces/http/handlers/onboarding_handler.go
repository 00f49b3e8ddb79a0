package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"seller-onboarding.backend/internal/domain/entities"
	"seller-onboarding.backend/internal/interfaces/http/response"
	"seller-onboarding.backend/internal/usecases"
)

// multipart overhead allowed on top of the logo itself
const multipartSlack = 1 << 20

// OnboardingService is the wizard as used by the HTTP layer
type OnboardingService interface {
	GetState(ctx context.Context, userID uuid.UUID) (*usecases.OnboardingState, error)
	UpdateStoreInfo(ctx context.Context, userID uuid.UUID, patch entities.StoreInfoPatch) (*usecases.OnboardingState, error)
	UpdateVerification(ctx context.Context, userID uuid.UUID, patch entities.VerificationPatch) (*usecases.OnboardingState, error)
	UpdateKYC(ctx context.Context, userID uuid.UUID, patch entities.KYCPatch) (*usecases.OnboardingState, error)
	UpdateBank(ctx context.Context, userID uuid.UUID, patch entities.BankPatch) (*usecases.OnboardingState, error)
	Next(ctx context.Context, userID uuid.UUID, input usecases.StepInput) (*usecases.TransitionResult, error)
	Back(ctx context.Context, userID uuid.UUID) (*usecases.TransitionResult, error)
	Skip(ctx context.Context, userID uuid.UUID) (*usecases.TransitionResult, error)
	Finish(ctx context.Context, userID uuid.UUID, input usecases.StepInput) (*usecases.TransitionResult, error)
	Jump(ctx context.Context, userID uuid.UUID, index int) (*usecases.TransitionResult, error)
	Reset(ctx context.Context, userID uuid.UUID) (*usecases.OnboardingState, error)
}

// OnboardingHandler handles the onboarding wizard endpoints
type OnboardingHandler struct {
	onboarding  OnboardingService
	sessions    SessionEvictor
	maxLogoSize int64
}

// NewOnboardingHandler creates a new onboarding handler
func NewOnboardingHandler(onboarding OnboardingService, sessions SessionEvictor, maxLogoSize int64) *OnboardingHandler {
	return &OnboardingHandler{onboarding: onboarding, sessions: sessions, maxLogoSize: maxLogoSize}
}

// GetState returns the wizard state
// GET /api/v1/onboarding
func (h *OnboardingHandler) GetState(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	state, err := h.onboarding.GetState(c.Request.Context(), userID)
	if err != nil {
		writeError(c, h.sessions, userID, err)
		return
	}
	response.Success(c, http.StatusOK, state)
}

// UpdateStoreInfo edits the store name and description
// PATCH /api/v1/onboarding/store-info
func (h *OnboardingHandler) UpdateStoreInfo(c *gin.Context) {
	var patch entities.StoreInfoPatch
	patchDraft(c, h, &patch, func(ctx context.Context, userID uuid.UUID) (*usecases.OnboardingState, error) {
		return h.onboarding.UpdateStoreInfo(ctx, userID, patch)
	})
}

// UpdateVerification edits the phone and email to verify
// PATCH /api/v1/onboarding/verification
func (h *OnboardingHandler) UpdateVerification(c *gin.Context) {
	var patch entities.VerificationPatch
	patchDraft(c, h, &patch, func(ctx context.Context, userID uuid.UUID) (*usecases.OnboardingState, error) {
		return h.onboarding.UpdateVerification(ctx, userID, patch)
	})
}

// UpdateKYC edits the identity documents
// PATCH /api/v1/onboarding/kyc
func (h *OnboardingHandler) UpdateKYC(c *gin.Context) {
	var patch entities.KYCPatch
	patchDraft(c, h, &patch, func(ctx context.Context, userID uuid.UUID) (*usecases.OnboardingState, error) {
		return h.onboarding.UpdateKYC(ctx, userID, patch)
	})
}

// UpdateBank edits the payout account
// PATCH /api/v1/onboarding/bank
func (h *OnboardingHandler) UpdateBank(c *gin.Context) {
	var patch entities.BankPatch
	patchDraft(c, h, &patch, func(ctx context.Context, userID uuid.UUID) (*usecases.OnboardingState, error) {
		return h.onboarding.UpdateBank(ctx, userID, patch)
	})
}

func patchDraft(c *gin.Context, h *OnboardingHandler, patch interface{}, apply func(context.Context, uuid.UUID) (*usecases.OnboardingState, error)) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	if err := c.ShouldBindJSON(patch); err != nil {
		bindError(c, err)
		return
	}
	state, err := apply(c.Request.Context(), userID)
	if err != nil {
		writeError(c, h.sessions, userID, err)
		return
	}
	response.Success(c, http.StatusOK, state)
}

// Next submits the current step and advances
// POST /api/v1/onboarding/next
func (h *OnboardingHandler) Next(c *gin.Context) {
	h.submitStep(c, h.onboarding.Next)
}

// Finish submits the last step and completes onboarding
// POST /api/v1/onboarding/finish
func (h *OnboardingHandler) Finish(c *gin.Context) {
	h.submitStep(c, h.onboarding.Finish)
}

// Back moves to the previous step
// POST /api/v1/onboarding/back
func (h *OnboardingHandler) Back(c *gin.Context) {
	h.move(c, h.onboarding.Back)
}

// Skip leaves the current optional step without submitting it
// POST /api/v1/onboarding/skip
func (h *OnboardingHandler) Skip(c *gin.Context) {
	h.move(c, h.onboarding.Skip)
}

type jumpRequest struct {
	Index *int `json:"index" binding:"required"`
}

// Jump moves to a reachable step
// POST /api/v1/onboarding/jump
func (h *OnboardingHandler) Jump(c *gin.Context) {
	var req jumpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	h.move(c, func(ctx context.Context, userID uuid.UUID) (*usecases.TransitionResult, error) {
		return h.onboarding.Jump(ctx, userID, *req.Index)
	})
}

// Reset discards the draft
// DELETE /api/v1/onboarding
func (h *OnboardingHandler) Reset(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	state, err := h.onboarding.Reset(c.Request.Context(), userID)
	if err != nil {
		writeError(c, h.sessions, userID, err)
		return
	}
	response.Success(c, http.StatusOK, state)
}

func (h *OnboardingHandler) move(c *gin.Context, fn func(context.Context, uuid.UUID) (*usecases.TransitionResult, error)) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	result, err := fn(c.Request.Context(), userID)
	if err != nil {
		writeError(c, h.sessions, userID, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

func (h *OnboardingHandler) submitStep(c *gin.Context, fn func(context.Context, uuid.UUID, usecases.StepInput) (*usecases.TransitionResult, error)) {
	input, err := h.readStepInput(c)
	if err != nil {
		bindError(c, err)
		return
	}
	h.move(c, func(ctx context.Context, userID uuid.UUID) (*usecases.TransitionResult, error) {
		return fn(ctx, userID, input)
	})
}

type stepInputRequest struct {
	ConfirmAccountNumber string `json:"confirmAccountNumber" form:"confirmAccountNumber"`
}

// readStepInput accepts a JSON body, a multipart form carrying the logo, or no body at all
func (h *OnboardingHandler) readStepInput(c *gin.Context) (usecases.StepInput, error) {
	var input usecases.StepInput
	if c.Request.ContentLength == 0 && c.ContentType() == "" {
		return input, nil
	}

	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		var req stepInputRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			return input, err
		}
		input.ConfirmAccountNumber = req.ConfirmAccountNumber
		return input, nil
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxLogoSize+multipartSlack)
	input.ConfirmAccountNumber = c.PostForm("confirmAccountNumber")

	header, err := c.FormFile("logo")
	if errors.Is(err, http.ErrMissingFile) {
		return input, nil
	}
	if err != nil {
		return input, fmt.Errorf("invalid logo upload: %w", err)
	}

	file, err := header.Open()
	if err != nil {
		return input, fmt.Errorf("invalid logo upload: %w", err)
	}
	defer file.Close()

	// one byte past the limit is enough for the size check to reject it
	data, err := io.ReadAll(io.LimitReader(file, h.maxLogoSize+1))
	if err != nil {
		return input, fmt.Errorf("invalid logo upload: %w", err)
	}
	input.Logo = &entities.LogoFile{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}
	return input, nil
}
