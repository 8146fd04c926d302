package wizard

import (
	"fmt"
	"time"

	"github.com/spc-registrar/portal-api/internal/models"
	appErrors "github.com/spc-registrar/portal-api/pkg/errors"
)

// stepPaths keeps the SPA routes addressable while transitions themselves go
// through the guarded machine.
var stepPaths = map[models.Step]string{
	models.StepPrivacy: "/request/step-1",
	models.StepForm:    "/request/step-2",
	models.StepSummary: "/request/step-3",
}

// PathFor returns the SPA route for a step.
func PathFor(step models.Step) string {
	return stepPaths[step]
}

// StepFromPath resolves a SPA route back to its step.
func StepFromPath(path string) (models.Step, bool) {
	for step, p := range stepPaths {
		if p == path {
			return step, true
		}
	}
	return 0, false
}

// Machine owns the guarded transitions between wizard steps. It mutates only
// the session's step and provisional reference number; everything else stays
// with the caller.
type Machine struct {
	validator *Validator
	now       func() time.Time
}

// NewMachine constructs a Machine.
func NewMachine(validator *Validator) *Machine {
	if validator == nil {
		validator = NewValidator()
	}
	return &Machine{validator: validator, now: time.Now}
}

// ProvisionalReference derives the client-visible placeholder reference
// number from a timestamp: SPC-DOC-NNNNNN-NNNN. The authoritative number is
// whatever the registrar returns at submission time.
func ProvisionalReference(t time.Time) string {
	return fmt.Sprintf("SPC-DOC-%06d-%04d", t.Unix()%1_000_000, t.UnixMilli()%10_000)
}

// Advance attempts the forward transition from the session's current step.
// On refusal the session is left untouched and the guard's error is returned.
func (m *Machine) Advance(session *models.WizardSession) error {
	if session.Submitted {
		return appErrors.ErrAlreadySubmitted
	}

	switch session.Step {
	case models.StepPrivacy:
		if !session.Draft.AgreedToPrivacy {
			return appErrors.ErrPrivacyNotAccepted
		}
		session.Step = models.StepForm
		if session.TempReferenceNumber == "" {
			session.TempReferenceNumber = ProvisionalReference(m.now())
		}
		return nil

	case models.StepForm:
		if !session.Verification.Verified(session.Draft.Email) {
			return appErrors.ErrEmailNotVerified
		}
		if vErr := m.validator.ValidateDraft(&session.Draft); vErr != nil {
			return vErr
		}
		session.Step = models.StepSummary
		return nil

	case models.StepSummary:
		return appErrors.Clone(appErrors.ErrInvalidTransition, "already at the summary step; submit or go back")

	default:
		return appErrors.ErrInvalidTransition
	}
}

// Back performs the unconditional backward transition from the summary to
// the form step, preserving all draft state.
func (m *Machine) Back(session *models.WizardSession) error {
	if session.Submitted {
		return appErrors.ErrAlreadySubmitted
	}
	if session.Step != models.StepSummary {
		return appErrors.Clone(appErrors.ErrInvalidTransition, "can only go back from the summary step")
	}
	session.Step = models.StepForm
	return nil
}
