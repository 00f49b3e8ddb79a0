package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"seller-onboarding.backend/internal/interfaces/http/response"
	"seller-onboarding.backend/internal/usecases"
)

// VerificationService sends and checks contact OTPs
type VerificationService interface {
	SendOTP(ctx context.Context, userID uuid.UUID, channel usecases.OTPChannel) (*usecases.OnboardingState, error)
	VerifyOTP(ctx context.Context, userID uuid.UUID, channel usecases.OTPChannel, otp string) (*usecases.OnboardingState, error)
}

// VerificationHandler handles the OTP endpoints of the verification step
type VerificationHandler struct {
	verification VerificationService
	sessions     SessionEvictor
}

func NewVerificationHandler(verification VerificationService, sessions SessionEvictor) *VerificationHandler {
	return &VerificationHandler{verification: verification, sessions: sessions}
}

// SendOTP sends a one-time password to the draft's phone or email
// POST /api/v1/onboarding/otp/:channel
func (h *VerificationHandler) SendOTP(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	state, err := h.verification.SendOTP(c.Request.Context(), userID, usecases.OTPChannel(c.Param("channel")))
	if err != nil {
		writeError(c, h.sessions, userID, err)
		return
	}
	response.Success(c, http.StatusOK, state)
}

type verifyOTPRequest struct {
	OTP string `json:"otp" binding:"required"`
}

// VerifyOTP checks the code and marks the channel verified
// POST /api/v1/onboarding/otp/:channel/verify
func (h *VerificationHandler) VerifyOTP(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req verifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	state, err := h.verification.VerifyOTP(c.Request.Context(), userID, usecases.OTPChannel(c.Param("channel")), req.OTP)
	if err != nil {
		writeError(c, h.sessions, userID, err)
		return
	}
	response.Success(c, http.StatusOK, state)
}
