package usecases_test

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"seller-onboarding.backend/internal/domain/entities"
	domainerrors "seller-onboarding.backend/internal/domain/errors"
)

// memDraftRepo keeps drafts as JSON so callers never share memory with storage.
// Saves are compare-and-set on the revision, like the Redis repository.
type memDraftRepo struct {
	mu        sync.Mutex
	data      map[uuid.UUID][]byte
	revisions map[uuid.UUID]string
	saveErr   error
	getErr    error
	saves     int
	conflicts int
}

func newMemDraftRepo() *memDraftRepo {
	return &memDraftRepo{data: map[uuid.UUID][]byte{}, revisions: map[uuid.UUID]string{}}
}

func (r *memDraftRepo) Get(_ context.Context, userID uuid.UUID) (*entities.OnboardingDraft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	raw, ok := r.data[userID]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	d := entities.NewOnboardingDraft()
	if err := json.Unmarshal(raw, d); err != nil {
		return nil, err
	}
	d.Revision = r.revisions[userID]
	return d, nil
}

func (r *memDraftRepo) Save(_ context.Context, userID uuid.UUID, draft *entities.OnboardingDraft) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	if r.revisions[userID] != draft.Revision {
		r.conflicts++
		return domainerrors.ErrDraftConflict
	}
	raw, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	r.saves++
	draft.Revision = uuid.NewString()
	r.data[userID] = raw
	r.revisions[userID] = draft.Revision
	return nil
}

func (r *memDraftRepo) Delete(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, userID)
	delete(r.revisions, userID)
	return nil
}

func (r *memDraftRepo) put(userID uuid.UUID, draft *entities.OnboardingDraft) {
	raw, _ := json.Marshal(draft)
	r.mu.Lock()
	r.data[userID] = raw
	r.revisions[userID] = uuid.NewString()
	r.mu.Unlock()
}

func (r *memDraftRepo) has(userID uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.data[userID]
	return ok
}

// MockSubmissionGateway mocks the marketplace API
type MockSubmissionGateway struct {
	mock.Mock
}

func (m *MockSubmissionGateway) GetProfile(ctx context.Context) (*entities.UserProfile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.UserProfile), args.Error(1)
}

func (m *MockSubmissionGateway) CreateStore(ctx context.Context, req entities.CreateStoreRequest) (*entities.StoreResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.StoreResult), args.Error(1)
}

func (m *MockSubmissionGateway) UploadLogo(ctx context.Context, req entities.UploadLogoRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockSubmissionGateway) SendEmailOTP(ctx context.Context, req entities.SendEmailOTPRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockSubmissionGateway) SendPhoneOTP(ctx context.Context, req entities.SendPhoneOTPRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockSubmissionGateway) VerifyOTP(ctx context.Context, req entities.VerifyOTPRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockSubmissionGateway) SubmitPAN(ctx context.Context, req entities.SubmitPANRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockSubmissionGateway) SubmitAadhaar(ctx context.Context, req entities.SubmitAadhaarRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockSubmissionGateway) SubmitBank(ctx context.Context, req entities.SubmitBankRequest) error {
	return m.Called(ctx, req).Error(0)
}

// MockAssetUploader mocks the logo asset host
type MockAssetUploader struct {
	mock.Mock
}

func (m *MockAssetUploader) UploadLogo(ctx context.Context, storeID int64, file *entities.LogoFile) (string, error) {
	args := m.Called(ctx, storeID, file)
	return args.String(0), args.Error(1)
}

// MockActiveStoreRepository mocks active store persistence
type MockActiveStoreRepository struct {
	mock.Mock
}

func (m *MockActiveStoreRepository) Get(ctx context.Context, userID uuid.UUID) (*entities.ActiveStoreSelection, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ActiveStoreSelection), args.Error(1)
}

func (m *MockActiveStoreRepository) Set(ctx context.Context, selection *entities.ActiveStoreSelection) error {
	return m.Called(ctx, selection).Error(0)
}

func (m *MockActiveStoreRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

// MockEventPublisher mocks the completion event publisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishOnboardingCompleted(ctx context.Context, event *entities.OnboardingCompletedEvent) error {
	return m.Called(ctx, event).Error(0)
}

type transitionRecord struct {
	action, step string
	failed       bool
}

type recordingObserver struct {
	mu      sync.Mutex
	records []transitionRecord
}

func (o *recordingObserver) ObserveTransition(action, step string, err error) {
	o.mu.Lock()
	o.records = append(o.records, transitionRecord{action: action, step: step, failed: err != nil})
	o.mu.Unlock()
}
