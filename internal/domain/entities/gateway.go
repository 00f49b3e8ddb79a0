package entities

import "encoding/json"

// Envelope is the response wrapper of every marketplace API call
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// CreateStoreRequest is the body of the create-store call
type CreateStoreRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// StoreResult is the store returned by the marketplace
type StoreResult struct {
	ID      int64  `json:"id"`
	Slug    string `json:"slug"`
	Name    string `json:"name"`
	LogoURL string `json:"logo,omitempty"`
}

// UploadLogoRequest attaches an uploaded asset URL to a store
type UploadLogoRequest struct {
	StoreID int64  `json:"storeId"`
	Logo    string `json:"logo"`
}

// SendEmailOTPRequest is the body of the send-email-otp call
type SendEmailOTPRequest struct {
	Email string `json:"email"`
}

// SendPhoneOTPRequest is the body of the send-phone-otp call
type SendPhoneOTPRequest struct {
	Phone string `json:"phone"`
}

// VerifyOTPRequest verifies an OTP sent to an email or phone identifier
type VerifyOTPRequest struct {
	Identifier string `json:"identifier"`
	OTP        string `json:"otp"`
}

// SubmitPANRequest is the body of the submit-pan call
type SubmitPANRequest struct {
	Name      string `json:"name"`
	PANNumber string `json:"pan_number"`
}

// SubmitAadhaarRequest is the body of the submit-aadhaar call
type SubmitAadhaarRequest struct {
	Name          string `json:"name"`
	AadhaarNumber string `json:"aadhaar_number"`
}

// SubmitBankRequest is the body of the submit-bank call
type SubmitBankRequest struct {
	Name          string `json:"name"`
	AccountNumber string `json:"account_number"`
	IFSCCode      string `json:"ifsc_code"`
}

// UserProfile is the authenticated user as seen by the marketplace
type UserProfile struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// LogoFile is an image chosen for the store logo
type LogoFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
