package usecases_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"seller-onboarding.backend/internal/domain/entities"
	domainerrors "seller-onboarding.backend/internal/domain/errors"
	"seller-onboarding.backend/internal/usecases"
)

type onboardingFixture struct {
	userID       uuid.UUID
	repo         *memDraftRepo
	gw           *MockSubmissionGateway
	up           *MockAssetUploader
	stores       *MockActiveStoreRepository
	events       *MockEventPublisher
	onboarding   *usecases.OnboardingUsecase
	verification *usecases.VerificationUsecase
}

func newOnboardingFixture() *onboardingFixture {
	f := &onboardingFixture{
		userID: uuid.New(),
		repo:   newMemDraftRepo(),
		gw:     new(MockSubmissionGateway),
		up:     new(MockAssetUploader),
		stores: new(MockActiveStoreRepository),
		events: new(MockEventPublisher),
	}
	f.onboarding = usecases.NewOnboardingUsecase(f.repo, f.stores, f.gw, f.up, f.events, &recordingObserver{}, 5<<20)
	f.verification = usecases.NewVerificationUsecase(f.repo, f.gw)
	return f
}

func TestOnboardingUsecase_CompleteWizard(t *testing.T) {
	ctx := context.Background()
	f := newOnboardingFixture()

	f.gw.On("GetProfile", mock.Anything).Return(&entities.UserProfile{ID: 7, Email: "seller@example.com", Phone: "+919876543210"}, nil).Once()
	state, err := f.onboarding.GetState(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, entities.StepStoreInfo, state.CurrentStep.ID)
	assert.Len(t, state.Steps, 5)
	assert.Equal(t, "seller@example.com", state.Draft.Verification.Email)

	_, err = f.onboarding.UpdateStoreInfo(ctx, f.userID, entities.StoreInfoPatch{Name: strPtr("My Shop")})
	require.NoError(t, err)

	f.gw.On("CreateStore", mock.Anything, entities.CreateStoreRequest{Name: "My Shop"}).
		Return(&entities.StoreResult{ID: 42, Slug: "my-shop", Name: "My Shop"}, nil).Once()
	res, err := f.onboarding.Next(ctx, f.userID, usecases.StepInput{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.State.Draft.CurrentStepIndex)
	assert.Equal(t, int64(42), res.State.Draft.StoreInfo.ID.Int64)
	assert.True(t, res.State.Steps[0].Completed)

	res, err = f.onboarding.Skip(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, entities.StepVerification, res.State.CurrentStep.ID)

	f.gw.On("SendPhoneOTP", mock.Anything, mock.Anything).Return(nil).Once()
	f.gw.On("SendEmailOTP", mock.Anything, mock.Anything).Return(nil).Once()
	f.gw.On("VerifyOTP", mock.Anything, mock.Anything).Return(nil).Twice()
	for _, ch := range []usecases.OTPChannel{usecases.OTPChannelPhone, usecases.OTPChannelEmail} {
		_, err = f.verification.SendOTP(ctx, f.userID, ch)
		require.NoError(t, err)
		_, err = f.verification.VerifyOTP(ctx, f.userID, ch, "123456")
		require.NoError(t, err)
	}

	res, err = f.onboarding.Next(ctx, f.userID, usecases.StepInput{})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Transition.To)

	_, err = f.onboarding.Skip(ctx, f.userID)
	require.NoError(t, err)

	f.stores.On("Set", mock.Anything, &entities.ActiveStoreSelection{UserID: f.userID, ID: 42, Slug: "my-shop", Name: "My Shop"}).Return(nil).Once()
	f.events.On("PublishOnboardingCompleted", mock.Anything, mock.MatchedBy(func(e *entities.OnboardingCompletedEvent) bool {
		return e.UserID == f.userID && e.StoreID == 42 &&
			assert.ObjectsAreEqual([]entities.StepID{entities.StepStoreInfo, entities.StepVerification}, e.CompletedSteps)
	})).Return(nil).Once()

	res, err = f.onboarding.Skip(ctx, f.userID)
	require.NoError(t, err)
	assert.True(t, res.Transition.Finished)
	assert.Equal(t, "/my-shop/home", res.Transition.Redirect)
	assert.Equal(t, entities.NewOnboardingDraft(), res.State.Draft)
	assert.False(t, f.repo.has(f.userID))

	f.gw.AssertExpectations(t)
	f.stores.AssertExpectations(t)
	f.events.AssertExpectations(t)
	f.up.AssertExpectations(t)
}

func TestOnboardingUsecase_GetStatePrefillsOnce(t *testing.T) {
	ctx := context.Background()
	f := newOnboardingFixture()
	f.gw.On("GetProfile", mock.Anything).Return(&entities.UserProfile{Email: "a@b.io"}, nil).Once()

	_, err := f.onboarding.GetState(ctx, f.userID)
	require.NoError(t, err)
	state, err := f.onboarding.GetState(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, entities.UserData{Email: "a@b.io"}, state.Draft.UserData)
	f.gw.AssertNumberOfCalls(t, "GetProfile", 1)
}

func TestOnboardingUsecase_PrefillDuringNextKeepsCreatedStore(t *testing.T) {
	ctx := context.Background()
	f := newOnboardingFixture()
	seed := entities.NewOnboardingDraft()
	seed.StoreInfo.Name = "My Shop"
	f.repo.put(f.userID, seed)

	profileRequested := make(chan struct{})
	releaseProfile := make(chan struct{})
	f.gw.On("GetProfile", mock.Anything).Run(func(mock.Arguments) {
		close(profileRequested)
		<-releaseProfile
	}).Return(&entities.UserProfile{Email: "seller@example.com", Phone: "+919876543210"}, nil).Once()

	type result struct {
		state *usecases.OnboardingState
		err   error
	}
	done := make(chan result, 1)
	go func() {
		state, err := f.onboarding.GetState(ctx, f.userID)
		done <- result{state, err}
	}()
	<-profileRequested

	f.gw.On("CreateStore", mock.Anything, entities.CreateStoreRequest{Name: "My Shop"}).
		Return(&entities.StoreResult{ID: 42, Slug: "my-shop", Name: "My Shop"}, nil).Once()
	_, err := f.onboarding.Next(ctx, f.userID, usecases.StepInput{})
	require.NoError(t, err)

	close(releaseProfile)
	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, int64(42), res.state.Draft.StoreInfo.ID.Int64)

	stored, err := f.repo.Get(ctx, f.userID)
	require.NoError(t, err)
	assert.True(t, stored.StoreInfo.ID.Valid)
	assert.Equal(t, int64(42), stored.StoreInfo.ID.Int64)
	assert.Equal(t, 1, stored.CurrentStepIndex)
	assert.Equal(t, []int{0}, stored.CompletedSteps)
	assert.Equal(t, "seller@example.com", stored.UserData.Email)
	assert.Equal(t, 1, f.repo.conflicts)

	// the store is not created twice
	f.gw.AssertNumberOfCalls(t, "CreateStore", 1)
}

func TestOnboardingUsecase_GetStateProfileFailures(t *testing.T) {
	ctx := context.Background()

	f := newOnboardingFixture()
	f.gw.On("GetProfile", mock.Anything).Return(nil, &domainerrors.GatewayError{Operation: "get-profile", StatusCode: http.StatusUnauthorized, Message: "Session expired"})
	_, err := f.onboarding.GetState(ctx, f.userID)
	require.ErrorIs(t, err, domainerrors.ErrUnauthorized)
	assert.Equal(t, http.StatusUnauthorized, appErrCode(t, err))

	f = newOnboardingFixture()
	f.gw.On("GetProfile", mock.Anything).Return(nil, &domainerrors.GatewayError{Operation: "get-profile", Err: errors.New("connection refused")})
	state, err := f.onboarding.GetState(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, "Failed to load profile", state.Draft.Error.String)
	assert.False(t, f.repo.has(f.userID))
}

func TestOnboardingUsecase_EditsRespectLocks(t *testing.T) {
	ctx := context.Background()
	f := newOnboardingFixture()
	seed := createdDraft(1)
	seed.UserData = entities.UserData{Email: "seller@example.com"}
	f.repo.put(f.userID, seed)

	_, err := f.onboarding.UpdateStoreInfo(ctx, f.userID, entities.StoreInfoPatch{Name: strPtr("Renamed")})
	assert.ErrorIs(t, err, domainerrors.ErrFieldLocked)

	state, err := f.onboarding.UpdateKYC(ctx, f.userID, entities.KYCPatch{PANNumber: strPtr("ABCDE1234F")})
	require.NoError(t, err)
	assert.Equal(t, "ABCDE1234F", state.Draft.KYC.PANNumber)

	state, err = f.onboarding.UpdateBank(ctx, f.userID, entities.BankPatch{IFSCCode: strPtr("HDFC0001234")})
	require.NoError(t, err)
	assert.Equal(t, "HDFC0001234", state.Draft.Bank.IFSCCode)

	_, err = f.onboarding.UpdateVerification(ctx, f.userID, entities.VerificationPatch{Email: strPtr("new@example.com")})
	assert.ErrorIs(t, err, domainerrors.ErrFieldLocked)
}

func TestOnboardingUsecase_JumpBackAndReset(t *testing.T) {
	ctx := context.Background()
	f := newOnboardingFixture()
	f.repo.put(f.userID, createdDraft(3))

	res, err := f.onboarding.Jump(ctx, f.userID, 0)
	require.NoError(t, err)
	assert.Equal(t, -1, res.Transition.Direction)

	res, err = f.onboarding.Back(ctx, f.userID)
	require.Error(t, err)
	assert.Nil(t, res)

	state, err := f.onboarding.Reset(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, 0, state.CurrentStep.Index)
	assert.False(t, f.repo.has(f.userID))
}

func TestOnboardingUsecase_FinishRequiresEarlierSteps(t *testing.T) {
	ctx := context.Background()
	f := newOnboardingFixture()
	seed := createdDraft(4)
	seed.CompletedSteps = []int{0, 1}
	f.repo.put(f.userID, seed)

	_, err := f.onboarding.Finish(ctx, f.userID, usecases.StepInput{})
	require.ErrorIs(t, err, domainerrors.ErrValidation)
	assert.Contains(t, err.Error(), "Verification")
	f.stores.AssertNotCalled(t, "Set", mock.Anything, mock.Anything)
}
