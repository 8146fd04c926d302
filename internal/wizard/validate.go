package wizard

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/spc-registrar/portal-api/internal/models"
)

var (
	contactNoPattern      = regexp.MustCompile(`^(09|\+639)\d{9}$`)
	graduationYearPattern = regexp.MustCompile(`^(19|20)\d{2}$`)
)

// ValidationError is the field-keyed outcome of draft validation. Fields is
// rendered inline by the SPA; First is the message surfaced prominently.
type ValidationError struct {
	Fields map[string]string
	First  string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.First
}

type draftErrors struct {
	fields map[string]string
	first  string
}

func (d *draftErrors) add(field, msg string) {
	if d.fields == nil {
		d.fields = make(map[string]string)
	}
	if _, exists := d.fields[field]; exists {
		return
	}
	d.fields[field] = msg
	if d.first == "" {
		d.first = msg
	}
}

// Validator checks drafts before the summary step. The embedded validate
// instance handles format rules; structural rules are explicit so error
// ordering matches the form layout.
type Validator struct {
	validate *validator.Validate
}

// NewValidator constructs a draft validator.
func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// ValidateDraft returns nil when the draft is submittable, otherwise a
// field-keyed ValidationError.
func (v *Validator) ValidateDraft(draft *models.RequestDraft) *ValidationError {
	errs := &draftErrors{}

	if strings.TrimSpace(draft.Surname) == "" {
		errs.add("surname", "Surname is required")
	}
	if strings.TrimSpace(draft.FirstName) == "" {
		errs.add("firstName", "First name is required")
	}
	if strings.TrimSpace(draft.ContactNo) == "" {
		errs.add("contactNo", "Contact number is required")
	} else if !contactNoPattern.MatchString(draft.ContactNo) {
		errs.add("contactNo", "Contact number must be a valid mobile number")
	}
	if strings.TrimSpace(draft.Email) == "" {
		errs.add("email", "Email is required")
	} else if v.validate.Var(draft.Email, "email") != nil {
		errs.add("email", "Email must be a valid address")
	}

	switch draft.RequesterType {
	case models.RequesterStudent:
		if strings.TrimSpace(draft.StudentNumber) == "" {
			errs.add("studentNumber", "Student number is required")
		}
		if strings.TrimSpace(draft.YearLevel) == "" {
			errs.add("yearLevel", "Year level is required")
		}
	case models.RequesterAlumni:
		if strings.TrimSpace(draft.GraduationYear) == "" {
			errs.add("graduationYear", "Year of graduation is required")
		} else if !graduationYearPattern.MatchString(draft.GraduationYear) {
			errs.add("graduationYear", "Year of graduation must be a valid year")
		}
		if draft.AlumniVerificationFile == nil || len(draft.AlumniVerificationFile.Content) == 0 {
			errs.add("alumniVerificationFile", "Verification document is required for alumni requests")
		}
	default:
		errs.add("requesterType", "Requester type must be Student or Alumni")
	}

	if strings.TrimSpace(draft.Course) == "" {
		errs.add("course", "Course is required")
	}
	if strings.TrimSpace(draft.CollegeDepartment) == "" {
		errs.add("collegeDepartment", "Department is required")
	}

	if strings.TrimSpace(draft.PurposeOfRequest) == "" {
		errs.add("purposeOfRequest", "Purpose of request is required")
	} else if draft.PurposeOfRequest == models.PurposeOtherSentinel && strings.TrimSpace(draft.OtherPurpose) == "" {
		errs.add("otherPurpose", "Please specify the purpose of your request")
	}

	checked := 0
	for _, doc := range draft.Documents {
		if !doc.Checked {
			continue
		}
		checked++
		key := fmt.Sprintf("documents.%d", doc.ID)
		if doc.Quantity < 1 {
			errs.add(key, fmt.Sprintf("Quantity for %s must be at least 1", doc.Name))
			continue
		}
		if doc.SemesterRequired() {
			if strings.TrimSpace(doc.Year) == "" {
				errs.add(key, fmt.Sprintf("School year for %s is required", doc.Name))
			} else if strings.TrimSpace(doc.Semester) == "" {
				errs.add(key, fmt.Sprintf("Semester for %s is required", doc.Name))
			}
		}
	}
	if checked == 0 {
		errs.add("documents", "Select at least one document to request")
	}

	if errs.fields == nil {
		return nil
	}
	return &ValidationError{Fields: errs.fields, First: errs.first}
}
