package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"seller-onboarding.backend/internal/domain/entities"
	"seller-onboarding.backend/internal/interfaces/http/middleware"
	"seller-onboarding.backend/internal/usecases"
)

type MockOnboardingService struct {
	mock.Mock
}

func (m *MockOnboardingService) state(args mock.Arguments) (*usecases.OnboardingState, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecases.OnboardingState), args.Error(1)
}

func (m *MockOnboardingService) result(args mock.Arguments) (*usecases.TransitionResult, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecases.TransitionResult), args.Error(1)
}

func (m *MockOnboardingService) GetState(ctx context.Context, userID uuid.UUID) (*usecases.OnboardingState, error) {
	return m.state(m.Called(ctx, userID))
}

func (m *MockOnboardingService) UpdateStoreInfo(ctx context.Context, userID uuid.UUID, patch entities.StoreInfoPatch) (*usecases.OnboardingState, error) {
	return m.state(m.Called(ctx, userID, patch))
}

func (m *MockOnboardingService) UpdateVerification(ctx context.Context, userID uuid.UUID, patch entities.VerificationPatch) (*usecases.OnboardingState, error) {
	return m.state(m.Called(ctx, userID, patch))
}

func (m *MockOnboardingService) UpdateKYC(ctx context.Context, userID uuid.UUID, patch entities.KYCPatch) (*usecases.OnboardingState, error) {
	return m.state(m.Called(ctx, userID, patch))
}

func (m *MockOnboardingService) UpdateBank(ctx context.Context, userID uuid.UUID, patch entities.BankPatch) (*usecases.OnboardingState, error) {
	return m.state(m.Called(ctx, userID, patch))
}

func (m *MockOnboardingService) Next(ctx context.Context, userID uuid.UUID, input usecases.StepInput) (*usecases.TransitionResult, error) {
	return m.result(m.Called(ctx, userID, input))
}

func (m *MockOnboardingService) Back(ctx context.Context, userID uuid.UUID) (*usecases.TransitionResult, error) {
	return m.result(m.Called(ctx, userID))
}

func (m *MockOnboardingService) Skip(ctx context.Context, userID uuid.UUID) (*usecases.TransitionResult, error) {
	return m.result(m.Called(ctx, userID))
}

func (m *MockOnboardingService) Finish(ctx context.Context, userID uuid.UUID, input usecases.StepInput) (*usecases.TransitionResult, error) {
	return m.result(m.Called(ctx, userID, input))
}

func (m *MockOnboardingService) Jump(ctx context.Context, userID uuid.UUID, index int) (*usecases.TransitionResult, error) {
	return m.result(m.Called(ctx, userID, index))
}

func (m *MockOnboardingService) Reset(ctx context.Context, userID uuid.UUID) (*usecases.OnboardingState, error) {
	return m.state(m.Called(ctx, userID))
}

type MockVerificationService struct {
	mock.Mock
}

func (m *MockVerificationService) SendOTP(ctx context.Context, userID uuid.UUID, channel usecases.OTPChannel) (*usecases.OnboardingState, error) {
	args := m.Called(ctx, userID, channel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecases.OnboardingState), args.Error(1)
}

func (m *MockVerificationService) VerifyOTP(ctx context.Context, userID uuid.UUID, channel usecases.OTPChannel, otp string) (*usecases.OnboardingState, error) {
	args := m.Called(ctx, userID, channel, otp)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecases.OnboardingState), args.Error(1)
}

type MockStoreService struct {
	mock.Mock
}

func (m *MockStoreService) GetActive(ctx context.Context, userID uuid.UUID) (*entities.ActiveStoreSelection, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ActiveStoreSelection), args.Error(1)
}

func (m *MockStoreService) SwitchActive(ctx context.Context, userID uuid.UUID, selection *entities.ActiveStoreSelection) (*entities.ActiveStoreSelection, error) {
	args := m.Called(ctx, userID, selection)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ActiveStoreSelection), args.Error(1)
}

type MockSessionEvictor struct {
	mock.Mock
}

func (m *MockSessionEvictor) Evict(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

// newRouter authenticates every request as userID unless it is uuid.Nil
func newRouter(userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != uuid.Nil {
			c.Set(middleware.UserIDKey, userID)
		}
		c.Next()
	})
	return r
}

func serve(t *testing.T, r http.Handler, method, path, contentType string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func jsonBody(s string) io.Reader {
	return strings.NewReader(s)
}
