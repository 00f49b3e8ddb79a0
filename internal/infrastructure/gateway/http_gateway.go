package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"seller-onboarding.backend/internal/domain/entities"
	domainerrors "seller-onboarding.backend/internal/domain/errors"
	"seller-onboarding.backend/pkg/jwt"
	"seller-onboarding.backend/pkg/logger"
)

// Operation names, also used as metric labels
const (
	OpGetProfile    = "get-profile"
	OpCreateStore   = "create-store"
	OpUploadLogo    = "upload-logo"
	OpSendEmailOTP  = "send-email-otp"
	OpSendPhoneOTP  = "send-phone-otp"
	OpVerifyOTP     = "verify-otp"
	OpSubmitPAN     = "submit-pan"
	OpSubmitAadhaar = "submit-aadhaar"
	OpSubmitBank    = "submit-bank"
)

type endpoint struct {
	method string
	path   string
}

var endpoints = map[string]endpoint{
	OpGetProfile:    {http.MethodGet, "/auth/profile"},
	OpCreateStore:   {http.MethodPost, "/seller/stores"},
	OpUploadLogo:    {http.MethodPut, "/seller/stores/logo"},
	OpSendEmailOTP:  {http.MethodPost, "/otp/send-email"},
	OpSendPhoneOTP:  {http.MethodPost, "/otp/send-phone"},
	OpVerifyOTP:     {http.MethodPost, "/otp/verify"},
	OpSubmitPAN:     {http.MethodPost, "/seller/kyc/pan"},
	OpSubmitAadhaar: {http.MethodPost, "/seller/kyc/aadhaar"},
	OpSubmitBank:    {http.MethodPost, "/seller/bank"},
}

const maxResponseBytes = 1 << 20

// CallObserver receives the outcome of every marketplace call
type CallObserver interface {
	ObserveGatewayCall(operation string, started time.Time, err error)
}

// HTTPGateway calls the marketplace REST API on behalf of the authenticated seller.
// The caller's bearer token is taken from the context. Calls are never retried.
type HTTPGateway struct {
	baseURL  string
	client   *http.Client
	observer CallObserver
}

func NewHTTPGateway(baseURL string, timeout time.Duration, observer CallObserver) *HTTPGateway {
	return &HTTPGateway{
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   &http.Client{Timeout: timeout},
		observer: observer,
	}
}

func (g *HTTPGateway) GetProfile(ctx context.Context) (*entities.UserProfile, error) {
	var profile entities.UserProfile
	if err := g.call(ctx, OpGetProfile, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (g *HTTPGateway) CreateStore(ctx context.Context, req entities.CreateStoreRequest) (*entities.StoreResult, error) {
	var store entities.StoreResult
	if err := g.call(ctx, OpCreateStore, req, &store); err != nil {
		return nil, err
	}
	if store.ID <= 0 {
		return nil, &domainerrors.GatewayError{Operation: OpCreateStore, StatusCode: http.StatusOK, Err: fmt.Errorf("response has no store id")}
	}
	return &store, nil
}

func (g *HTTPGateway) UploadLogo(ctx context.Context, req entities.UploadLogoRequest) error {
	return g.call(ctx, OpUploadLogo, req, nil)
}

func (g *HTTPGateway) SendEmailOTP(ctx context.Context, req entities.SendEmailOTPRequest) error {
	return g.call(ctx, OpSendEmailOTP, req, nil)
}

func (g *HTTPGateway) SendPhoneOTP(ctx context.Context, req entities.SendPhoneOTPRequest) error {
	return g.call(ctx, OpSendPhoneOTP, req, nil)
}

func (g *HTTPGateway) VerifyOTP(ctx context.Context, req entities.VerifyOTPRequest) error {
	return g.call(ctx, OpVerifyOTP, req, nil)
}

func (g *HTTPGateway) SubmitPAN(ctx context.Context, req entities.SubmitPANRequest) error {
	return g.call(ctx, OpSubmitPAN, req, nil)
}

func (g *HTTPGateway) SubmitAadhaar(ctx context.Context, req entities.SubmitAadhaarRequest) error {
	return g.call(ctx, OpSubmitAadhaar, req, nil)
}

func (g *HTTPGateway) SubmitBank(ctx context.Context, req entities.SubmitBankRequest) error {
	return g.call(ctx, OpSubmitBank, req, nil)
}

func (g *HTTPGateway) call(ctx context.Context, op string, body, out interface{}) (err error) {
	started := time.Now()
	defer func() {
		if g.observer != nil {
			g.observer.ObserveGatewayCall(op, started, err)
		}
		if err != nil {
			logger.Warn(ctx, "Marketplace call failed", zap.String("operation", op), zap.Error(err))
		}
	}()

	ep := endpoints[op]
	req, err := g.newRequest(ctx, ep, body)
	if err != nil {
		return &domainerrors.GatewayError{Operation: op, Err: err}
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return &domainerrors.GatewayError{Operation: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &domainerrors.GatewayError{Operation: op, StatusCode: resp.StatusCode, Err: err}
	}

	var env entities.Envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		gwErr := &domainerrors.GatewayError{Operation: op, StatusCode: resp.StatusCode, Message: env.Message}
		if resp.StatusCode >= http.StatusInternalServerError && env.Message == "" {
			gwErr.Err = fmt.Errorf("upstream status %d", resp.StatusCode)
		}
		return gwErr
	}
	if decodeErr != nil {
		return &domainerrors.GatewayError{Operation: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode envelope: %w", decodeErr)}
	}
	if !env.Success {
		return &domainerrors.GatewayError{Operation: op, StatusCode: http.StatusBadRequest, Message: env.Message}
	}

	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &domainerrors.GatewayError{Operation: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode data: %w", err)}
		}
	}
	return nil
}

func (g *HTTPGateway) newRequest(ctx context.Context, ep endpoint, body interface{}) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, ep.method, g.baseURL+ep.path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, ok := jwt.RawTokenFromContext(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}
