package usecases

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"seller-onboarding.backend/internal/domain/entities"
	domainerrors "seller-onboarding.backend/internal/domain/errors"
	"seller-onboarding.backend/internal/domain/repositories"
	"seller-onboarding.backend/pkg/logger"
	"seller-onboarding.backend/pkg/utils"
)

// Transition actions, also used as metric labels
const (
	ActionNext   = "next"
	ActionBack   = "back"
	ActionSkip   = "skip"
	ActionFinish = "finish"
	ActionJump   = "jump"
)

const defaultRedirect = "/dashboard"

// TransitionObserver receives the outcome of every wizard transition
type TransitionObserver interface {
	ObserveTransition(action, step string, err error)
}

// Transition describes a completed wizard move
type Transition struct {
	From      int    `json:"from"`
	To        int    `json:"to"`
	Direction int    `json:"direction"`
	Finished  bool   `json:"finished"`
	Redirect  string `json:"redirect,omitempty"`
}

// SequencerDeps wires a sequencer to its collaborators
type SequencerDeps struct {
	Forms    FormDeps
	Stores   repositories.ActiveStoreRepository
	Events   repositories.EventPublisher
	Observer TransitionObserver
}

// Sequencer drives one seller through the ordered onboarding steps
type Sequencer struct {
	steps  []StepDescriptor
	drafts *DraftStore
	deps   SequencerDeps
	now    func() time.Time

	mu      sync.Mutex
	loading bool
}

func NewSequencer(steps []StepDescriptor, deps SequencerDeps) *Sequencer {
	return &Sequencer{
		steps:  steps,
		drafts: deps.Forms.Drafts,
		deps:   deps,
		now:    time.Now,
	}
}

// Current returns the descriptor of the active step
func (s *Sequencer) Current() StepDescriptor {
	return s.steps[s.drafts.Draft().CurrentStepIndex]
}

func (s *Sequencer) last() int {
	return len(s.steps) - 1
}

// begin rejects re-entrant transitions while a submission is in flight
func (s *Sequencer) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loading {
		return domainerrors.Conflict("A submission is already in progress", domainerrors.ErrSubmissionInProgress)
	}
	s.loading = true
	return nil
}

func (s *Sequencer) end() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

func (s *Sequencer) observe(action string, step StepDescriptor, err error) {
	if s.deps.Observer != nil {
		s.deps.Observer.ObserveTransition(action, string(step.ID), err)
	}
}

func invalidTransition(message string) error {
	return domainerrors.Conflict(message, domainerrors.ErrInvalidTransition)
}

// Next submits the active step and advances on success. The last step uses Finish.
// The step is marked completed even when it was skipped before and reached again
// with Back, and any filled, unsubmitted fields on it are submitted.
func (s *Sequencer) Next(ctx context.Context, input StepInput) (t *Transition, err error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()

	i := s.drafts.Draft().CurrentStepIndex
	defer func() { s.observe(ActionNext, s.steps[i], err) }()

	if i >= s.last() {
		return nil, invalidTransition("Use Finish on the last step")
	}
	if err := s.submit(ctx, s.steps[i], input); err != nil {
		return nil, err
	}
	if err := s.drafts.Advance(ctx, i, i+1); err != nil {
		return nil, err
	}
	return &Transition{From: i, To: i + 1, Direction: 1}, nil
}

// Back moves to the previous step without submitting or un-completing anything
func (s *Sequencer) Back(ctx context.Context) (t *Transition, err error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()

	i := s.drafts.Draft().CurrentStepIndex
	defer func() { s.observe(ActionBack, s.steps[i], err) }()

	if i == 0 {
		return nil, invalidTransition("Already on the first step")
	}
	if err := s.drafts.MoveTo(ctx, i-1); err != nil {
		return nil, err
	}
	return &Transition{From: i, To: i - 1, Direction: -1}, nil
}

// Skip leaves a skippable step without submitting it. Skipping the last step finishes the wizard.
func (s *Sequencer) Skip(ctx context.Context) (t *Transition, err error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()

	i := s.drafts.Draft().CurrentStepIndex
	step := s.steps[i]
	defer func() { s.observe(ActionSkip, step, err) }()

	if !step.Skippable {
		return nil, domainerrors.Conflict(fmt.Sprintf("The %s step cannot be skipped", step.Title), domainerrors.ErrStepNotSkippable)
	}
	if i == s.last() {
		return s.finish(ctx, step, nil)
	}
	if err := s.drafts.MoveTo(ctx, i+1); err != nil {
		return nil, err
	}
	return &Transition{From: i, To: i + 1, Direction: 1}, nil
}

// Finish submits the last step and completes onboarding
func (s *Sequencer) Finish(ctx context.Context, input StepInput) (t *Transition, err error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()

	i := s.drafts.Draft().CurrentStepIndex
	step := s.steps[i]
	defer func() { s.observe(ActionFinish, step, err) }()

	if i != s.last() {
		return nil, invalidTransition("Finish is only available on the last step")
	}
	return s.finish(ctx, step, &input)
}

// Jump moves directly to index. Every required step before it must already be completed.
func (s *Sequencer) Jump(ctx context.Context, index int) (t *Transition, err error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()

	i := s.drafts.Draft().CurrentStepIndex
	defer func() { s.observe(ActionJump, s.steps[i], err) }()

	if index < 0 || index > s.last() {
		return nil, invalidTransition(fmt.Sprintf("Step %d does not exist", index))
	}
	if missing, ok := s.firstIncompleteRequired(index); ok {
		return nil, invalidTransition(fmt.Sprintf("Please complete the %s step first", missing.Title))
	}
	if index != i {
		if err := s.drafts.MoveTo(ctx, index); err != nil {
			return nil, err
		}
	}
	return &Transition{From: i, To: index, Direction: direction(i, index)}, nil
}

// firstIncompleteRequired returns the first non-skippable step before `before` that is not completed
func (s *Sequencer) firstIncompleteRequired(before int) (StepDescriptor, bool) {
	draft := s.drafts.Draft()
	for _, step := range s.steps[:before] {
		if !step.Skippable && !draft.IsCompleted(step.Index) {
			return step, true
		}
	}
	return StepDescriptor{}, false
}

// finish completes the wizard from the last step. A nil input skips the step's submit.
func (s *Sequencer) finish(ctx context.Context, step StepDescriptor, input *StepInput) (*Transition, error) {
	if missing, ok := s.firstIncompleteRequired(step.Index); ok {
		return nil, fail(ctx, s.drafts, domainerrors.Validation(
			fmt.Sprintf("Please complete the %s step before finishing", missing.Title)))
	}
	if input != nil {
		if err := s.submit(ctx, step, *input); err != nil {
			return nil, err
		}
	}

	draft := s.drafts.Draft()
	if input != nil {
		draft.MarkCompleted(step.Index)
	}

	redirect := defaultRedirect
	if draft.StoreInfo.Created() {
		selection := &entities.ActiveStoreSelection{
			UserID:  s.drafts.UserID(),
			ID:      draft.StoreInfo.ID.Int64,
			Slug:    draft.StoreInfo.Slug.String,
			Name:    draft.StoreInfo.Name,
			LogoURL: draft.StoreInfo.LogoURL.String,
		}
		if err := s.deps.Stores.Set(ctx, selection); err != nil {
			return nil, fmt.Errorf("failed to save active store: %w", err)
		}
		if selection.Slug != "" {
			redirect = "/" + selection.Slug + "/home"
		}
	}

	s.publishCompleted(ctx, draft)

	if err := s.drafts.Reset(ctx); err != nil {
		return nil, err
	}
	return &Transition{From: step.Index, To: step.Index, Direction: 0, Finished: true, Redirect: redirect}, nil
}

func (s *Sequencer) publishCompleted(ctx context.Context, draft *entities.OnboardingDraft) {
	if s.deps.Events == nil {
		return
	}

	completed := make([]entities.StepID, 0, len(draft.CompletedSteps))
	for _, idx := range draft.CompletedSteps {
		if idx >= 0 && idx < len(s.steps) {
			completed = append(completed, s.steps[idx].ID)
		}
	}
	event := &entities.OnboardingCompletedEvent{
		EventID:        utils.GenerateUUIDv7(),
		UserID:         s.drafts.UserID(),
		StoreID:        draft.StoreInfo.ID.Int64,
		Slug:           draft.StoreInfo.Slug.String,
		Name:           draft.StoreInfo.Name,
		CompletedSteps: completed,
		CompletedAt:    s.now().UTC(),
	}
	if err := s.deps.Events.PublishOnboardingCompleted(ctx, event); err != nil {
		logger.Error(ctx, "Failed to publish onboarding completion", zap.Error(err))
	}
}

// submit runs the step's form with the loading flag raised in the draft
func (s *Sequencer) submit(ctx context.Context, step StepDescriptor, input StepInput) (err error) {
	if step.NewForm == nil {
		return nil
	}

	if err := s.drafts.SetLoading(ctx, true); err != nil {
		return err
	}
	defer func() {
		if clearErr := s.drafts.SetLoading(ctx, false); clearErr != nil {
			logger.Warn(ctx, "Failed to clear loading flag", zap.Error(clearErr))
			if err == nil {
				err = clearErr
			}
		}
	}()

	form := step.NewForm(s.deps.Forms, input)
	if err := form.Submit(ctx); err != nil {
		if !errors.Is(err, domainerrors.ErrValidation) {
			logger.Info(ctx, "Step submit failed", zap.String("step", string(step.ID)), zap.Error(err))
		}
		return err
	}
	return nil
}

func direction(from, to int) int {
	switch {
	case to > from:
		return 1
	case to < from:
		return -1
	default:
		return 0
	}
}
