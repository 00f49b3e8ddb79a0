package usecases

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"seller-onboarding.backend/internal/domain/entities"
	domainerrors "seller-onboarding.backend/internal/domain/errors"
	"seller-onboarding.backend/internal/domain/repositories"
)

// DraftStore holds the onboarding draft of one seller session.
// Each mutation is applied to a copy and persisted before it becomes visible,
// so a failed save leaves the current draft untouched. Saves are compare-and-set:
// when another request saved first, the mutation is re-applied to the newer copy.
type DraftStore struct {
	repo   repositories.DraftRepository
	userID uuid.UUID

	mu    sync.RWMutex
	draft *entities.OnboardingDraft
}

// NewDraftStore creates an empty store for the user; call Load to restore the persisted draft
func NewDraftStore(repo repositories.DraftRepository, userID uuid.UUID) *DraftStore {
	return &DraftStore{repo: repo, userID: userID, draft: entities.NewOnboardingDraft()}
}

const maxDraftSaveAttempts = 5

// Load restores the persisted draft. A missing draft (never started or evicted) starts empty.
func (s *DraftStore) Load(ctx context.Context) error {
	d, err := s.fetch(ctx)
	if err != nil {
		return err
	}

	// a request that died mid-submit must not block the wizard forever
	d.Loading = false

	s.mu.Lock()
	s.draft = d
	s.mu.Unlock()
	return nil
}

// Draft returns a copy of the current draft
func (s *DraftStore) Draft() *entities.OnboardingDraft {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.draft.Clone()
}

// UserID returns the owner of the draft
func (s *DraftStore) UserID() uuid.UUID {
	return s.userID
}

func (s *DraftStore) fetch(ctx context.Context) (*entities.OnboardingDraft, error) {
	d, err := s.repo.Get(ctx, s.userID)
	if errors.Is(err, domainerrors.ErrNotFound) {
		return entities.NewOnboardingDraft(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}
	if d.CurrentStepIndex < 0 || d.CurrentStepIndex >= len(onboardingSteps) {
		d.CurrentStepIndex = 0
	}
	return d, nil
}

// update applies fn to a copy of the draft and saves it. On a revision conflict the
// stored draft is reloaded and fn runs again, so lock checks see the newest state.
func (s *DraftStore) update(ctx context.Context, fn func(d *entities.OnboardingDraft) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	base := s.draft
	for attempt := 1; ; attempt++ {
		next := base.Clone()
		if err := fn(next); err != nil {
			s.draft = base
			return err
		}

		err := s.repo.Save(ctx, s.userID, next)
		if err == nil {
			s.draft = next
			return nil
		}
		if !errors.Is(err, domainerrors.ErrDraftConflict) {
			return fmt.Errorf("failed to persist draft: %w", err)
		}
		if attempt == maxDraftSaveAttempts {
			return domainerrors.Conflict("Your onboarding progress changed, please try again", err)
		}

		fresh, err := s.fetch(ctx)
		if err != nil {
			return err
		}
		base = fresh
	}
}

func locked(message string) error {
	return domainerrors.Conflict(message, domainerrors.ErrFieldLocked)
}

// MergeStoreInfo applies a partial store-info edit. Fields are read-only once the store exists.
func (s *DraftStore) MergeStoreInfo(ctx context.Context, patch entities.StoreInfoPatch) error {
	return s.update(ctx, func(d *entities.OnboardingDraft) error {
		if d.StoreInfo.Created() {
			return locked("Store details can no longer be edited")
		}
		if patch.Name != nil {
			d.StoreInfo.Name = *patch.Name
		}
		if patch.Description != nil {
			d.StoreInfo.Description = *patch.Description
		}
		return nil
	})
}

// MergeVerification applies a partial contact edit. A verified field cannot change.
func (s *DraftStore) MergeVerification(ctx context.Context, patch entities.VerificationPatch) error {
	return s.update(ctx, func(d *entities.OnboardingDraft) error {
		v := &d.Verification
		if patch.Phone != nil && *patch.Phone != v.Phone {
			if v.PhoneVerified {
				return locked("Phone number is already verified")
			}
			v.Phone = *patch.Phone
		}
		if patch.Email != nil && *patch.Email != v.Email {
			if v.EmailVerified {
				return locked("Email address is already verified")
			}
			v.Email = *patch.Email
		}
		return nil
	})
}

// MergeKYC applies a partial identity edit. Submitted documents cannot change.
func (s *DraftStore) MergeKYC(ctx context.Context, patch entities.KYCPatch) error {
	return s.update(ctx, func(d *entities.OnboardingDraft) error {
		k := &d.KYC
		if (patch.AadhaarName != nil || patch.AadhaarNumber != nil) && k.AadhaarSubmitted {
			return locked("Aadhaar details are already submitted")
		}
		if (patch.PANName != nil || patch.PANNumber != nil) && k.PANSubmitted {
			return locked("PAN details are already submitted")
		}
		if patch.AadhaarName != nil {
			k.AadhaarName = *patch.AadhaarName
		}
		if patch.AadhaarNumber != nil {
			k.AadhaarNumber = *patch.AadhaarNumber
		}
		if patch.PANName != nil {
			k.PANName = *patch.PANName
		}
		if patch.PANNumber != nil {
			k.PANNumber = *patch.PANNumber
		}
		return nil
	})
}

// MergeBank applies a partial bank edit. Submitted details cannot change.
func (s *DraftStore) MergeBank(ctx context.Context, patch entities.BankPatch) error {
	return s.update(ctx, func(d *entities.OnboardingDraft) error {
		b := &d.Bank
		if b.Submitted {
			return locked("Bank details are already submitted")
		}
		if patch.AccountName != nil {
			b.AccountName = *patch.AccountName
		}
		if patch.AccountNumber != nil {
			b.AccountNumber = *patch.AccountNumber
		}
		if patch.IFSCCode != nil {
			b.IFSCCode = *patch.IFSCCode
		}
		return nil
	})
}

// SetUserData stores the registration contact info and prefills empty, unverified contact fields
func (s *DraftStore) SetUserData(ctx context.Context, user entities.UserData) error {
	return s.update(ctx, func(d *entities.OnboardingDraft) error {
		d.UserData = user
		if d.Verification.Phone == "" && !d.Verification.PhoneVerified {
			d.Verification.Phone = user.Phone
		}
		if d.Verification.Email == "" && !d.Verification.EmailVerified {
			d.Verification.Email = user.Email
		}
		return nil
	})
}

// RecordStoreCreated stores the server-side identity of the new store. The id never changes afterwards.
func (s *DraftStore) RecordStoreCreated(ctx context.Context, store *entities.StoreResult) error {
	return s.update(ctx, func(d *entities.OnboardingDraft) error {
		if d.StoreInfo.Created() {
			return nil
		}
		d.StoreInfo.ID = null.Int64From(store.ID)
		if store.Slug != "" {
			d.StoreInfo.Slug = null.StringFrom(store.Slug)
		}
		if store.Name != "" {
			d.StoreInfo.Name = store.Name
		}
		if store.LogoURL != "" {
			d.StoreInfo.LogoURL = null.StringFrom(store.LogoURL)
		}
		return nil
	})
}

func (s *DraftStore) SetLogoURL(ctx context.Context, url string) error {
	return s.update(ctx, func(d *entities.OnboardingDraft) error {
		d.StoreInfo.LogoURL = null.StringFrom(url)
		return nil
	})
}

// MarkPhoneVerified records the phone number the OTP was verified for
func (s *DraftStore) MarkPhoneVerified(ctx context.Context, phone string) error {
	return s.update(ctx, func(d *entities.OnboardingDraft) error {
		d.Verification.Phone = phone
		d.Verification.PhoneVerified = true
		return nil
	})
}

// MarkEmailVerified records the email address the OTP was verified for
func (s *DraftStore) MarkEmailVerified(ctx context.Context, email string) error {
	return s.update(ctx, func(d *entities.OnboardingDraft) error {
		d.Verification.Email = email
		d.Verification.EmailVerified = true
		return nil
	})
}

func (s *DraftStore) MarkAadhaarSubmitted(ctx context.Context, name, number string) error {
	return s.update(ctx, func(d *entities.OnboardingDraft) error {
		d.KYC.AadhaarName = name
		d.KYC.AadhaarNumber = number
		d.KYC.AadhaarSubmitted = true
		return nil
	})
}

func (s *DraftStore) MarkPANSubmitted(ctx context.Context, name, number string) error {
	return s.update(ctx, func(d *entities.OnboardingDraft) error {
		d.KYC.PANName = name
		d.KYC.PANNumber = number
		d.KYC.PANSubmitted = true
		return nil
	})
}

func (s *DraftStore) MarkBankSubmitted(ctx context.Context, name, number, ifsc string) error {
	return s.update(ctx, func(d *entities.OnboardingDraft) error {
		d.Bank.AccountName = name
		d.Bank.AccountNumber = number
		d.Bank.IFSCCode = ifsc
		d.Bank.Submitted = true
		return nil
	})
}

// SetFeedback replaces the transient error and success messages; empty strings clear them
func (s *DraftStore) SetFeedback(ctx context.Context, errMsg, successMsg string) error {
	return s.update(ctx, func(d *entities.OnboardingDraft) error {
		d.Error = null.NewString(errMsg, errMsg != "")
		d.SuccessMessage = null.NewString(successMsg, successMsg != "")
		return nil
	})
}

func (s *DraftStore) SetLoading(ctx context.Context, loading bool) error {
	return s.update(ctx, func(d *entities.OnboardingDraft) error {
		d.Loading = loading
		return nil
	})
}

// Advance marks step `from` completed and moves to `to`
func (s *DraftStore) Advance(ctx context.Context, from, to int) error {
	return s.update(ctx, func(d *entities.OnboardingDraft) error {
		d.MarkCompleted(from)
		d.CurrentStepIndex = to
		d.Error = null.String{}
		return nil
	})
}

// MoveTo changes the current step without completing anything
func (s *DraftStore) MoveTo(ctx context.Context, index int) error {
	return s.update(ctx, func(d *entities.OnboardingDraft) error {
		d.CurrentStepIndex = index
		d.ClearFeedback()
		return nil
	})
}

// Reset restores the empty draft and removes it from storage
func (s *DraftStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Delete(ctx, s.userID); err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	s.draft = entities.NewOnboardingDraft()
	return nil
}
