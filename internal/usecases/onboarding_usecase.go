package usecases

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"seller-onboarding.backend/internal/domain/entities"
	domainerrors "seller-onboarding.backend/internal/domain/errors"
	"seller-onboarding.backend/internal/domain/repositories"
	"seller-onboarding.backend/pkg/logger"
)

// StepView is a step as shown by the wizard's progress bar
type StepView struct {
	Index     int             `json:"index"`
	ID        entities.StepID `json:"id"`
	Title     string          `json:"title"`
	Skippable bool            `json:"skippable"`
	Completed bool            `json:"completed"`
}

// OnboardingState is the wizard as seen by the dashboard
type OnboardingState struct {
	Steps       []StepView                `json:"steps"`
	CurrentStep StepView                  `json:"currentStep"`
	Draft       *entities.OnboardingDraft `json:"draft"`
}

// TransitionResult is a transition together with the state it produced
type TransitionResult struct {
	Transition *Transition      `json:"transition"`
	State      *OnboardingState `json:"state"`
}

// OnboardingUsecase hosts the wizard for authenticated sellers
type OnboardingUsecase struct {
	drafts      repositories.DraftRepository
	stores      repositories.ActiveStoreRepository
	gateway     repositories.SubmissionGateway
	uploader    repositories.AssetUploader
	events      repositories.EventPublisher
	observer    TransitionObserver
	maxLogoSize int64
}

// NewOnboardingUsecase creates a new onboarding usecase
func NewOnboardingUsecase(
	drafts repositories.DraftRepository,
	stores repositories.ActiveStoreRepository,
	gateway repositories.SubmissionGateway,
	uploader repositories.AssetUploader,
	events repositories.EventPublisher,
	observer TransitionObserver,
	maxLogoSize int64,
) *OnboardingUsecase {
	return &OnboardingUsecase{
		drafts:      drafts,
		stores:      stores,
		gateway:     gateway,
		uploader:    uploader,
		events:      events,
		observer:    observer,
		maxLogoSize: maxLogoSize,
	}
}

func (u *OnboardingUsecase) openDrafts(ctx context.Context, userID uuid.UUID) (*DraftStore, error) {
	store := NewDraftStore(u.drafts, userID)
	if err := store.Load(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func (u *OnboardingUsecase) openSequencer(ctx context.Context, userID uuid.UUID) (*Sequencer, *DraftStore, error) {
	drafts, err := u.openDrafts(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	seq := NewSequencer(onboardingSteps, SequencerDeps{
		Forms: FormDeps{
			Drafts:      drafts,
			Gateway:     u.gateway,
			Uploader:    u.uploader,
			MaxLogoSize: u.maxLogoSize,
		},
		Stores:   u.stores,
		Events:   u.events,
		Observer: u.observer,
	})
	return seq, drafts, nil
}

func buildState(draft *entities.OnboardingDraft) *OnboardingState {
	steps := make([]StepView, 0, len(onboardingSteps))
	for _, step := range onboardingSteps {
		steps = append(steps, StepView{
			Index:     step.Index,
			ID:        step.ID,
			Title:     step.Title,
			Skippable: step.Skippable,
			Completed: draft.IsCompleted(step.Index),
		})
	}
	return &OnboardingState{Steps: steps, CurrentStep: steps[draft.CurrentStepIndex], Draft: draft}
}

// GetState loads the wizard. The registration contact info is fetched once from the profile.
func (u *OnboardingUsecase) GetState(ctx context.Context, userID uuid.UUID) (*OnboardingState, error) {
	drafts, err := u.openDrafts(ctx, userID)
	if err != nil {
		return nil, err
	}

	draft := drafts.Draft()
	if draft.UserData.Email == "" && draft.UserData.Phone == "" {
		profile, err := u.gateway.GetProfile(ctx)
		switch {
		case errors.Is(err, domainerrors.ErrUnauthorized):
			return nil, domainerrors.StepFailed(domainerrors.UserMessage(err, "Failed to load profile"), err)
		case err != nil:
			logger.Warn(ctx, "Profile prefill skipped", zap.Error(err))
			draft.Error.SetValid(domainerrors.UserMessage(err, "Failed to load profile"))
			return buildState(draft), nil
		}
		if err := drafts.SetUserData(ctx, entities.UserData{Email: profile.Email, Phone: profile.Phone}); err != nil {
			return nil, err
		}
		draft = drafts.Draft()
	}
	return buildState(draft), nil
}

func (u *OnboardingUsecase) edit(ctx context.Context, userID uuid.UUID, fn func(*DraftStore) error) (*OnboardingState, error) {
	drafts, err := u.openDrafts(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := fn(drafts); err != nil {
		return nil, err
	}
	return buildState(drafts.Draft()), nil
}

func (u *OnboardingUsecase) UpdateStoreInfo(ctx context.Context, userID uuid.UUID, patch entities.StoreInfoPatch) (*OnboardingState, error) {
	return u.edit(ctx, userID, func(d *DraftStore) error { return d.MergeStoreInfo(ctx, patch) })
}

func (u *OnboardingUsecase) UpdateVerification(ctx context.Context, userID uuid.UUID, patch entities.VerificationPatch) (*OnboardingState, error) {
	return u.edit(ctx, userID, func(d *DraftStore) error { return d.MergeVerification(ctx, patch) })
}

func (u *OnboardingUsecase) UpdateKYC(ctx context.Context, userID uuid.UUID, patch entities.KYCPatch) (*OnboardingState, error) {
	return u.edit(ctx, userID, func(d *DraftStore) error { return d.MergeKYC(ctx, patch) })
}

func (u *OnboardingUsecase) UpdateBank(ctx context.Context, userID uuid.UUID, patch entities.BankPatch) (*OnboardingState, error) {
	return u.edit(ctx, userID, func(d *DraftStore) error { return d.MergeBank(ctx, patch) })
}

func (u *OnboardingUsecase) transition(ctx context.Context, userID uuid.UUID, move func(*Sequencer) (*Transition, error)) (*TransitionResult, error) {
	seq, drafts, err := u.openSequencer(ctx, userID)
	if err != nil {
		return nil, err
	}
	t, err := move(seq)
	if err != nil {
		return nil, err
	}
	return &TransitionResult{Transition: t, State: buildState(drafts.Draft())}, nil
}

func (u *OnboardingUsecase) Next(ctx context.Context, userID uuid.UUID, input StepInput) (*TransitionResult, error) {
	return u.transition(ctx, userID, func(s *Sequencer) (*Transition, error) { return s.Next(ctx, input) })
}

func (u *OnboardingUsecase) Back(ctx context.Context, userID uuid.UUID) (*TransitionResult, error) {
	return u.transition(ctx, userID, func(s *Sequencer) (*Transition, error) { return s.Back(ctx) })
}

func (u *OnboardingUsecase) Skip(ctx context.Context, userID uuid.UUID) (*TransitionResult, error) {
	return u.transition(ctx, userID, func(s *Sequencer) (*Transition, error) { return s.Skip(ctx) })
}

func (u *OnboardingUsecase) Finish(ctx context.Context, userID uuid.UUID, input StepInput) (*TransitionResult, error) {
	return u.transition(ctx, userID, func(s *Sequencer) (*Transition, error) { return s.Finish(ctx, input) })
}

func (u *OnboardingUsecase) Jump(ctx context.Context, userID uuid.UUID, index int) (*TransitionResult, error) {
	return u.transition(ctx, userID, func(s *Sequencer) (*Transition, error) { return s.Jump(ctx, index) })
}

// Reset discards the draft and starts over
func (u *OnboardingUsecase) Reset(ctx context.Context, userID uuid.UUID) (*OnboardingState, error) {
	drafts := NewDraftStore(u.drafts, userID)
	if err := drafts.Reset(ctx); err != nil {
		return nil, err
	}
	return buildState(drafts.Draft()), nil
}
