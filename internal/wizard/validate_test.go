package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spc-registrar/portal-api/internal/models"
)

func validStudentDraft() models.RequestDraft {
	return models.RequestDraft{
		RequesterType:     models.RequesterStudent,
		Surname:           "Dela Cruz",
		FirstName:         "Juan",
		ContactNo:         "09171234567",
		Email:             "juan@spc.edu.ph",
		StudentNumber:     "2021-0001",
		Course:            "BS Computer Science",
		YearLevel:         "3rd Year",
		EducationalLevel:  models.LevelUndergraduate,
		CollegeDepartment: "College of Computer Studies",
		PurposeOfRequest:  "Employment",
		Documents: []models.DocumentLineItem{
			{ID: 4, Name: "Certificate of Enrollment", Price: 75, Checked: true, Quantity: 1, Year: "2023-2024", Semester: "1st Semester"},
		},
	}
}

func TestValidateDraftAcceptsCompleteStudent(t *testing.T) {
	draft := validStudentDraft()
	assert.Nil(t, NewValidator().ValidateDraft(&draft))
}

func TestValidateDraftRequiresIdentityFields(t *testing.T) {
	draft := validStudentDraft()
	draft.Surname = ""
	draft.Email = "not-an-email"

	vErr := NewValidator().ValidateDraft(&draft)
	require.NotNil(t, vErr)
	assert.Equal(t, "Surname is required", vErr.First)
	assert.Contains(t, vErr.Fields, "surname")
	assert.Contains(t, vErr.Fields, "email")
}

func TestValidateDraftStudentNumberRequiredForStudents(t *testing.T) {
	draft := validStudentDraft()
	draft.StudentNumber = ""

	vErr := NewValidator().ValidateDraft(&draft)
	require.NotNil(t, vErr)
	assert.Equal(t, "Student number is required", vErr.Fields["studentNumber"])
}

func TestValidateDraftAlumniNeedVerificationFile(t *testing.T) {
	draft := validStudentDraft()
	draft.RequesterType = models.RequesterAlumni
	draft.StudentNumber = ""
	draft.YearLevel = ""
	draft.GraduationYear = "2015"

	vErr := NewValidator().ValidateDraft(&draft)
	require.NotNil(t, vErr)
	assert.Contains(t, vErr.Fields, "alumniVerificationFile")

	draft.AlumniVerificationFile = &models.UploadedFile{FileName: "id.jpg", Content: []byte("x")}
	assert.Nil(t, NewValidator().ValidateDraft(&draft))
}

func TestValidateDraftOtherPurposeNeedsText(t *testing.T) {
	draft := validStudentDraft()
	draft.PurposeOfRequest = models.PurposeOtherSentinel
	draft.OtherPurpose = ""

	vErr := NewValidator().ValidateDraft(&draft)
	require.NotNil(t, vErr)
	assert.Contains(t, vErr.Fields, "otherPurpose")

	draft.OtherPurpose = "Visa Application"
	assert.Nil(t, NewValidator().ValidateDraft(&draft))
}

func TestValidateDraftRequiresCheckedDocument(t *testing.T) {
	draft := validStudentDraft()
	draft.Documents[0].Uncheck()

	vErr := NewValidator().ValidateDraft(&draft)
	require.NotNil(t, vErr)
	assert.Equal(t, "Select at least one document to request", vErr.Fields["documents"])
}

func TestValidateDraftSemesterWaivedForExemptDocuments(t *testing.T) {
	draft := validStudentDraft()
	draft.Documents = []models.DocumentLineItem{
		{ID: 1, Name: "Transcript of Records", Price: 70, Checked: true, Quantity: 1},
	}

	assert.Nil(t, NewValidator().ValidateDraft(&draft), "transcript waives the year/semester requirement")

	draft.Documents = []models.DocumentLineItem{
		{ID: 6, Name: "Form 137", Price: 100, Checked: true, Quantity: 1},
	}
	vErr := NewValidator().ValidateDraft(&draft)
	require.NotNil(t, vErr)
	assert.Contains(t, vErr.Fields, "documents.6")
}

func TestValidateDraftCheckedDocumentNeedsQuantity(t *testing.T) {
	draft := validStudentDraft()
	draft.Documents[0].Quantity = 0

	vErr := NewValidator().ValidateDraft(&draft)
	require.NotNil(t, vErr)
	assert.Contains(t, vErr.Fields["documents.4"], "at least 1")
}
