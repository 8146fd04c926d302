package dto

import "github.com/spc-registrar/portal-api/internal/models"

// PricingLine is the derived cost view of one selected document.
type PricingLine struct {
	DocumentID int64   `json:"document_id"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	Amount     float64 `json:"amount"`
}

// Pricing is recomputed from the draft on every state read.
type Pricing struct {
	Lines []PricingLine `json:"lines"`
	Total float64       `json:"total"`
}

// WizardState is the full view of one wizard session.
type WizardState struct {
	SessionID           string                   `json:"session_id"`
	Step                int                      `json:"step"`
	Path                string                   `json:"path"`
	Draft               models.RequestDraft      `json:"draft"`
	TempReferenceNumber string                   `json:"temp_reference_number,omitempty"`
	Verification        models.VerificationState `json:"verification"`
	Pricing             Pricing                  `json:"pricing"`
	Submitted           bool                     `json:"submitted"`
	Result              *models.SubmittedRequest `json:"result,omitempty"`
	SubmitError         string                   `json:"submit_error,omitempty"`
	FieldErrors         map[string]string        `json:"field_errors,omitempty"`
}

// StartSessionResponse carries the session token alongside the fresh state.
type StartSessionResponse struct {
	Token string      `json:"token"`
	State WizardState `json:"state"`
}

// DocumentLineUpdate is a partial update of one document line item,
// addressed by document id. Omitted fields are left untouched.
type DocumentLineUpdate struct {
	ID       int64   `json:"id" validate:"required"`
	Checked  *bool   `json:"checked,omitempty"`
	Quantity *int    `json:"quantity,omitempty" validate:"omitempty,min=0"`
	Year     *string `json:"year,omitempty"`
	Semester *string `json:"semester,omitempty"`
}

// UpdateDraftRequest is a partial update of the request draft. Pointer
// fields distinguish "not sent" from "cleared".
type UpdateDraftRequest struct {
	RequesterType *string `json:"requester_type,omitempty" validate:"omitempty,oneof=Student Alumni"`

	Surname       *string `json:"surname,omitempty"`
	FirstName     *string `json:"first_name,omitempty"`
	MiddleInitial *string `json:"middle_initial,omitempty"`
	Suffix        *string `json:"suffix,omitempty"`
	ContactNo     *string `json:"contact_no,omitempty"`
	Email         *string `json:"email,omitempty"`

	StudentNumber     *string `json:"student_number,omitempty"`
	Course            *string `json:"course,omitempty"`
	YearLevel         *string `json:"year_level,omitempty"`
	CollegeDepartment *string `json:"college_department,omitempty"`
	GraduationYear    *string `json:"graduation_year,omitempty"`

	PurposeOfRequest *string `json:"purpose_of_request,omitempty"`
	OtherPurpose     *string `json:"other_purpose,omitempty"`

	AgreedToPrivacy *bool `json:"agreed_to_privacy,omitempty"`

	Documents []DocumentLineUpdate `json:"documents,omitempty" validate:"omitempty,dive"`
}

// VerifyCodeRequest carries the one-time code entered by the requester.
type VerifyCodeRequest struct {
	Code string `json:"code" validate:"required,len=6"`
}
