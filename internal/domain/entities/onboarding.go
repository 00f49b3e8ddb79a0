package entities

import (
	"sort"

	"github.com/volatiletech/null/v8"
)

// StepID identifies an onboarding wizard step
type StepID string

const (
	StepStoreInfo    StepID = "store_info"
	StepLogo         StepID = "logo"
	StepVerification StepID = "verification"
	StepIdentity     StepID = "identity"
	StepBank         StepID = "bank"
)

// StoreInfo is the store slice of the onboarding draft.
// ID is only set once the marketplace has created the store.
type StoreInfo struct {
	ID          null.Int64  `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Slug        null.String `json:"slug"`
	LogoURL     null.String `json:"logoUrl"`
}

// Created reports whether the store exists server-side
func (s StoreInfo) Created() bool {
	return s.ID.Valid
}

// Verification holds the contact details that must be OTP-verified
type Verification struct {
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	PhoneVerified bool   `json:"phoneVerified"`
	EmailVerified bool   `json:"emailVerified"`
}

// KYC holds the identity documents of the seller
type KYC struct {
	AadhaarName      string `json:"aadhaarName"`
	AadhaarNumber    string `json:"aadhaarNumber"`
	AadhaarSubmitted bool   `json:"aadhaarSubmitted"`
	PANName          string `json:"panName"`
	PANNumber        string `json:"panNumber"`
	PANSubmitted     bool   `json:"panSubmitted"`
}

// AadhaarFilled reports whether any Aadhaar field has a value
func (k KYC) AadhaarFilled() bool {
	return k.AadhaarName != "" || k.AadhaarNumber != ""
}

// PANFilled reports whether any PAN field has a value
func (k KYC) PANFilled() bool {
	return k.PANName != "" || k.PANNumber != ""
}

// BankDetails holds the payout account
type BankDetails struct {
	AccountName   string `json:"accountName"`
	AccountNumber string `json:"accountNumber"`
	IFSCCode      string `json:"ifscCode"`
	Submitted     bool   `json:"submitted"`
}

// UserData is the authenticated user's registration contact info
type UserData struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// OnboardingDraft is the in-progress onboarding record of one seller
type OnboardingDraft struct {
	CurrentStepIndex int          `json:"currentStepIndex"`
	CompletedSteps   []int        `json:"completedSteps"`
	StoreInfo        StoreInfo    `json:"storeInfo"`
	Verification     Verification `json:"verification"`
	KYC              KYC          `json:"kyc"`
	Bank             BankDetails  `json:"bank"`
	UserData         UserData     `json:"userData"`

	Loading        bool        `json:"loading"`
	Error          null.String `json:"error"`
	SuccessMessage null.String `json:"successMessage"`

	// Revision identifies the stored copy this draft was read from; empty when never saved
	Revision string `json:"-"`
}

// NewOnboardingDraft returns an empty draft positioned on the first step
func NewOnboardingDraft() *OnboardingDraft {
	return &OnboardingDraft{CompletedSteps: []int{}}
}

// Clone returns a deep copy of the draft
func (d *OnboardingDraft) Clone() *OnboardingDraft {
	c := *d
	c.CompletedSteps = append([]int{}, d.CompletedSteps...)
	return &c
}

// IsCompleted reports whether the step index is in the completed set
func (d *OnboardingDraft) IsCompleted(index int) bool {
	for _, i := range d.CompletedSteps {
		if i == index {
			return true
		}
	}
	return false
}

// MarkCompleted adds the step index to the completed set, keeping it sorted
func (d *OnboardingDraft) MarkCompleted(index int) {
	if d.IsCompleted(index) {
		return
	}
	d.CompletedSteps = append(d.CompletedSteps, index)
	sort.Ints(d.CompletedSteps)
}

// ClearFeedback drops the transient error and success messages
func (d *OnboardingDraft) ClearFeedback() {
	d.Error = null.String{}
	d.SuccessMessage = null.String{}
}

// StoreInfoPatch is a partial update of StoreInfo
type StoreInfoPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// VerificationPatch is a partial update of Verification contact fields
type VerificationPatch struct {
	Phone *string `json:"phone"`
	Email *string `json:"email"`
}

// KYCPatch is a partial update of KYC fields
type KYCPatch struct {
	AadhaarName   *string `json:"aadhaarName"`
	AadhaarNumber *string `json:"aadhaarNumber"`
	PANName       *string `json:"panName"`
	PANNumber     *string `json:"panNumber"`
}

// BankPatch is a partial update of bank fields
type BankPatch struct {
	AccountName   *string `json:"accountName"`
	AccountNumber *string `json:"accountNumber"`
	IFSCCode      *string `json:"ifscCode"`
}
