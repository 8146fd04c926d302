package models

import "strings"

// RequesterType distinguishes current students from alumni. The two types
// carry disjoint academic fields and submit through different upstream
// endpoints.
type RequesterType string

const (
	RequesterStudent RequesterType = "Student"
	RequesterAlumni  RequesterType = "Alumni"
)

// EducationalLevel is the coarse academic tier derived from the selected
// year level. It adjusts document pricing and gates department options.
type EducationalLevel string

const (
	LevelElementary    EducationalLevel = "elementary"
	LevelJuniorHigh    EducationalLevel = "junior_high"
	LevelSeniorHigh    EducationalLevel = "senior_high"
	LevelUndergraduate EducationalLevel = "undergraduate"
	LevelGraduate      EducationalLevel = "graduate"
	LevelPostgraduate  EducationalLevel = "postgraduate"
)

// PurposeOtherSentinel is the purpose option that unlocks the free-text
// field. It must never reach the upstream payload verbatim.
const PurposeOtherSentinel = "Other, please specify"

// LevelForYear maps a year-level selection to its educational tier. Unknown
// selections yield an empty level, which pricing treats as the default.
func LevelForYear(year string) EducationalLevel {
	y := strings.ToLower(strings.TrimSpace(year))
	switch {
	case y == "":
		return ""
	case strings.HasPrefix(y, "kinder"), y == "grade 1", y == "grade 2", y == "grade 3",
		y == "grade 4", y == "grade 5", y == "grade 6":
		return LevelElementary
	case y == "grade 7", y == "grade 8", y == "grade 9", y == "grade 10":
		return LevelJuniorHigh
	case y == "grade 11", y == "grade 12":
		return LevelSeniorHigh
	case strings.Contains(y, "doctor"), strings.Contains(y, "postgraduate"):
		return LevelPostgraduate
	case strings.Contains(y, "master"), strings.Contains(y, "graduate school"):
		return LevelGraduate
	case strings.HasSuffix(y, "year"):
		return LevelUndergraduate
	default:
		return ""
	}
}

// DocumentLineItem is one selectable document type within a draft, with its
// own quantity, school year and semester.
type DocumentLineItem struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	Price           float64  `json:"price"`
	Checked         bool     `json:"checked"`
	Quantity        int      `json:"quantity"`
	Year            string   `json:"year"`
	Semester        string   `json:"semester"`
	SemesterOptions []string `json:"semester_options,omitempty"`
}

// semesterExempt lists the document types that waive the year/semester
// requirement.
var semesterExempt = map[string]struct{}{
	"Diploma":                   {},
	"Certificate of Graduation": {},
	"Transcript of Records":     {},
}

// SemesterRequired reports whether the line item must carry a school year
// and semester when selected.
func (d DocumentLineItem) SemesterRequired() bool {
	_, exempt := semesterExempt[d.Name]
	return !exempt
}

// Uncheck deselects the line item and clears its dependent fields. A draft
// never carries quantity, year or semester on an unchecked item.
func (d *DocumentLineItem) Uncheck() {
	d.Checked = false
	d.Quantity = 0
	d.Year = ""
	d.Semester = ""
}

// UploadedFile is an opaque handle for a relayed upload. The portal never
// stores the bytes; they are forwarded multipart to the registrar system.
type UploadedFile struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Content     []byte `json:"-"`
}

// RequestDraft is the single mutable record walked through the wizard.
type RequestDraft struct {
	RequesterType RequesterType `json:"requester_type"`

	Surname       string `json:"surname"`
	FirstName     string `json:"first_name"`
	MiddleInitial string `json:"middle_initial"`
	Suffix        string `json:"suffix"`
	ContactNo     string `json:"contact_no"`
	Email         string `json:"email"`

	StudentNumber     string           `json:"student_number"`
	Course            string           `json:"course"`
	YearLevel         string           `json:"year_level"`
	EducationalLevel  EducationalLevel `json:"educational_level"`
	CollegeDepartment string           `json:"college_department"`
	GraduationYear    string           `json:"graduation_year"`

	PurposeOfRequest string `json:"purpose_of_request"`
	OtherPurpose     string `json:"other_purpose"`

	AlumniVerificationFile *UploadedFile `json:"alumni_verification_file,omitempty"`

	Documents []DocumentLineItem `json:"documents"`

	AgreedToPrivacy bool `json:"agreed_to_privacy"`
}

// NewRequestDraft returns a draft with defaults, seeded with the available
// document types as unchecked line items.
func NewRequestDraft(documents []DocumentType) RequestDraft {
	items := make([]DocumentLineItem, 0, len(documents))
	for _, doc := range documents {
		items = append(items, DocumentLineItem{
			ID:              doc.ID,
			Name:            doc.Name,
			Price:           doc.Price,
			SemesterOptions: doc.SemesterOptions(),
		})
	}
	return RequestDraft{
		RequesterType: RequesterStudent,
		Documents:     items,
	}
}

// CheckedDocuments returns the selected line items in order.
func (d *RequestDraft) CheckedDocuments() []DocumentLineItem {
	var checked []DocumentLineItem
	for _, doc := range d.Documents {
		if doc.Checked {
			checked = append(checked, doc)
		}
	}
	return checked
}

// ClearStudentFields removes student-only data when switching to alumni.
func (d *RequestDraft) ClearStudentFields() {
	d.StudentNumber = ""
	d.YearLevel = ""
	d.EducationalLevel = ""
	d.AlumniVerificationFile = nil
}

// ClearAlumniFields removes alumni-only data when switching to student.
func (d *RequestDraft) ClearAlumniFields() {
	d.GraduationYear = ""
	d.AlumniVerificationFile = nil
}

// ResolvedPurpose substitutes the free-text purpose when the sentinel
// option was chosen.
func (d *RequestDraft) ResolvedPurpose() string {
	if d.PurposeOfRequest == PurposeOtherSentinel {
		return strings.TrimSpace(d.OtherPurpose)
	}
	return d.PurposeOfRequest
}

// SubmittedRequest is the read-only record replacing the draft after a
// successful submission. All three identifiers are server-assigned.
type SubmittedRequest struct {
	RequestID       string `json:"request_id"`
	RequestNo       string `json:"request_no"`
	ReferenceNumber string `json:"reference_number"`
}

// RequestStatus tracks a submitted request through the registrar workflow.
type RequestStatus string

const (
	StatusPending    RequestStatus = "pending"
	StatusProcessing RequestStatus = "processing"
	StatusReady      RequestStatus = "ready"
	StatusReleased   RequestStatus = "released"
	StatusDeclined   RequestStatus = "declined"
)

// ValidStatus reports whether the given value is a known workflow status.
func ValidStatus(s RequestStatus) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusReady, StatusReleased, StatusDeclined:
		return true
	}
	return false
}
