package models

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Step identifies a wizard page. Values match the SPA route numbering.
type Step int

const (
	StepPrivacy Step = 1
	StepForm    Step = 2
	StepSummary Step = 3
)

// VerificationStage tracks progress of the email verification sub-machine.
type VerificationStage string

const (
	VerificationUnverified VerificationStage = "unverified"
	VerificationCodeSent   VerificationStage = "code_sent"
	VerificationVerified   VerificationStage = "verified"
)

// VerificationState is the per-session view of the verification flow. It is
// keyed by the email it was established for; a changed address invalidates it.
type VerificationState struct {
	Stage      VerificationStage `json:"stage"`
	Email      string            `json:"email"`
	LastSentAt time.Time         `json:"last_sent_at,omitempty"`
}

// Verified reports whether the state is verified for the given address.
func (v VerificationState) Verified(email string) bool {
	return v.Stage == VerificationVerified && v.Email == email
}

// WizardSession holds one request draft and everything the wizard tracks
// alongside it between HTTP calls. Each session carries its own lock so a
// slow upstream call never stalls the other sessions.
type WizardSession struct {
	mu sync.Mutex

	ID    string       `json:"id"`
	Step  Step         `json:"step"`
	Draft RequestDraft `json:"draft"`

	// TempReferenceNumber is minted once on first entry to the form step and
	// displayed until the server-issued reference number supersedes it.
	TempReferenceNumber string `json:"temp_reference_number,omitempty"`

	Verification VerificationState `json:"verification"`

	Submitted   bool              `json:"submitted"`
	Result      *SubmittedRequest `json:"result,omitempty"`
	SubmitError string            `json:"submit_error,omitempty"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Lock acquires the session's own lock.
func (s *WizardSession) Lock() { s.mu.Lock() }

// Unlock releases the session's own lock.
func (s *WizardSession) Unlock() { s.mu.Unlock() }

// SessionClaims is the JWT payload of a wizard session token.
type SessionClaims struct {
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}
