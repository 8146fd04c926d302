package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spc-registrar/portal-api/internal/bus"
	"github.com/spc-registrar/portal-api/internal/dto"
	"github.com/spc-registrar/portal-api/internal/models"
	"github.com/spc-registrar/portal-api/internal/registrar"
	"github.com/spc-registrar/portal-api/internal/wizard"
)

type stubCatalogue struct {
	docs []models.DocumentType
}

func (s *stubCatalogue) Documents(ctx context.Context) []models.DocumentType {
	return s.docs
}

type stubSubmitter struct {
	studentCalls []registrar.SubmissionPayload
	alumniCalls  []registrar.SubmissionPayload
	alumniFiles  []*models.UploadedFile
	result       *models.SubmittedRequest
	err          error

	// When set, SubmitStudent closes started and parks until release is
	// closed, standing in for a slow upstream.
	started chan struct{}
	release chan struct{}
}

func (s *stubSubmitter) SubmitStudent(ctx context.Context, payload registrar.SubmissionPayload) (*models.SubmittedRequest, error) {
	if s.release != nil {
		if s.started != nil {
			close(s.started)
		}
		<-s.release
	}
	s.studentCalls = append(s.studentCalls, payload)
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubSubmitter) SubmitAlumni(ctx context.Context, payload registrar.SubmissionPayload, file *models.UploadedFile) (*models.SubmittedRequest, error) {
	s.alumniCalls = append(s.alumniCalls, payload)
	s.alumniFiles = append(s.alumniFiles, file)
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

// stubFlow marks the session verified on Verify and counts resets, without
// any upstream traffic.
type stubFlow struct {
	sendCalls    int
	changedWith  []string
	verifyResult error
}

func (s *stubFlow) Send(ctx context.Context, state *models.VerificationState, email string) error {
	s.sendCalls++
	state.Stage = models.VerificationCodeSent
	state.Email = email
	return nil
}

func (s *stubFlow) Verify(ctx context.Context, state *models.VerificationState, email, code string) error {
	if s.verifyResult != nil {
		return s.verifyResult
	}
	state.Stage = models.VerificationVerified
	state.Email = email
	return nil
}

func (s *stubFlow) EmailChanged(ctx context.Context, state *models.VerificationState, email string) {
	s.changedWith = append(s.changedWith, email)
	state.Stage = models.VerificationUnverified
	state.Email = email
}

type stubTracker struct {
	inserted []*models.TrackedRequest
	err      error
}

func (s *stubTracker) Insert(ctx context.Context, req *models.TrackedRequest) error {
	s.inserted = append(s.inserted, req)
	return s.err
}

func testCatalogue() *stubCatalogue {
	return &stubCatalogue{docs: []models.DocumentType{
		{ID: 1, Name: "Transcript of Records", Price: 70, SemesterWaived: true},
		{ID: 2, Name: "Certificate of Enrollment", Price: 75, AllowedSemesters: "1st Semester,2nd Semester,Summer"},
		{ID: 3, Name: "Good Moral Certificate", Price: 75, AllowedSemesters: "1st Semester,2nd Semester"},
	}}
}

func newTestWizardService(t *testing.T, submitter *stubSubmitter, flow *stubFlow, tracker *stubTracker) *WizardService {
	t.Helper()
	// A nil *stubTracker must become a nil interface, not a typed nil.
	var writer TrackedRequestWriter
	if tracker != nil {
		writer = tracker
	}
	svc := NewWizardService(
		wizard.NewMachine(nil),
		flow,
		testCatalogue(),
		submitter,
		writer,
		bus.New(nil),
		nil,
		nil,
		nil,
		WizardServiceConfig{TokenSecret: "test-secret", SessionTTL: time.Hour},
	)
	return svc
}

func startSession(t *testing.T, svc *WizardService) (string, string) {
	t.Helper()
	resp, err := svc.StartSession(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	return resp.State.SessionID, resp.Token
}

func str(v string) *string { return &v }

func boolPtr(v bool) *bool { return &v }

func intPtr(v int) *int { return &v }

// fillStudentDraft walks a session to a valid student draft ready for the
// summary step: two Certificate of Enrollment copies, verified email.
func fillStudentDraft(t *testing.T, svc *WizardService, sessionID string) {
	t.Helper()
	ctx := context.Background()

	_, err := svc.UpdateDraft(ctx, sessionID, dto.UpdateDraftRequest{AgreedToPrivacy: boolPtr(true)})
	require.NoError(t, err)
	_, err = svc.Advance(ctx, sessionID)
	require.NoError(t, err)

	_, err = svc.UpdateDraft(ctx, sessionID, dto.UpdateDraftRequest{
		Surname:           str("Reyes"),
		FirstName:         str("Ana"),
		ContactNo:         str("09171234567"),
		Email:             str("ana.reyes@example.com"),
		StudentNumber:     str("2021-00123"),
		Course:            str("BS Information Technology"),
		YearLevel:         str("3rd Year"),
		CollegeDepartment: str("College of Computer Studies"),
		PurposeOfRequest:  str("Scholarship Application"),
		Documents: []dto.DocumentLineUpdate{
			{ID: 2, Checked: boolPtr(true), Quantity: intPtr(2), Year: str("2023-2024"), Semester: str("1st Semester")},
		},
	})
	require.NoError(t, err)

	_, err = svc.SendVerification(ctx, sessionID)
	require.NoError(t, err)
	_, err = svc.VerifyCode(ctx, sessionID, "123456")
	require.NoError(t, err)

	_, err = svc.Advance(ctx, sessionID)
	require.NoError(t, err)
}

func TestStartSessionSeedsCatalogueAndIssuesToken(t *testing.T) {
	svc := newTestWizardService(t, &stubSubmitter{}, &stubFlow{}, nil)

	resp, err := svc.StartSession(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, resp.State.Step)
	assert.Equal(t, "/request/step-1", resp.State.Path)
	require.Len(t, resp.State.Draft.Documents, 3)
	assert.Equal(t, "Transcript of Records", resp.State.Draft.Documents[0].Name)
	assert.False(t, resp.State.Draft.Documents[0].Checked)
	assert.Equal(t, models.RequesterStudent, resp.State.Draft.RequesterType)

	sessionID, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.State.SessionID, sessionID)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newTestWizardService(t, &stubSubmitter{}, &stubFlow{}, nil)

	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestAdvanceRequiresPrivacyConsent(t *testing.T) {
	svc := newTestWizardService(t, &stubSubmitter{}, &stubFlow{}, nil)
	sessionID, _ := startSession(t, svc)

	_, err := svc.Advance(context.Background(), sessionID)
	require.Error(t, err)

	state, err := svc.GetState(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, 1, state.Step)
	assert.Empty(t, state.TempReferenceNumber)
}

func TestAdvanceMintsProvisionalReferenceOnce(t *testing.T) {
	svc := newTestWizardService(t, &stubSubmitter{}, &stubFlow{}, nil)
	sessionID, _ := startSession(t, svc)
	ctx := context.Background()

	_, err := svc.UpdateDraft(ctx, sessionID, dto.UpdateDraftRequest{AgreedToPrivacy: boolPtr(true)})
	require.NoError(t, err)

	state, err := svc.Advance(ctx, sessionID)
	require.NoError(t, err)
	require.Regexp(t, `^SPC-DOC-\d{6}-\d{4}$`, state.TempReferenceNumber)
	minted := state.TempReferenceNumber

	// A failed forward attempt and a later retry keep the same number.
	_, err = svc.Advance(ctx, sessionID)
	require.Error(t, err)
	state, err = svc.GetState(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, minted, state.TempReferenceNumber)
}

func TestUpdateDraftPricingTwoCopies(t *testing.T) {
	svc := newTestWizardService(t, &stubSubmitter{}, &stubFlow{}, nil)
	sessionID, _ := startSession(t, svc)

	state, err := svc.UpdateDraft(context.Background(), sessionID, dto.UpdateDraftRequest{
		Documents: []dto.DocumentLineUpdate{
			{ID: 2, Checked: boolPtr(true), Quantity: intPtr(2)},
		},
	})
	require.NoError(t, err)

	require.Len(t, state.Pricing.Lines, 1)
	assert.Equal(t, 75.0, state.Pricing.Lines[0].UnitPrice)
	assert.Equal(t, 150.0, state.Pricing.Lines[0].Amount)
	assert.Equal(t, 150.0, state.Pricing.Total)
}

func TestUpdateDraftGraduateTranscriptPrice(t *testing.T) {
	svc := newTestWizardService(t, &stubSubmitter{}, &stubFlow{}, nil)
	sessionID, _ := startSession(t, svc)

	state, err := svc.UpdateDraft(context.Background(), sessionID, dto.UpdateDraftRequest{
		YearLevel: str("Master's Degree"),
		Documents: []dto.DocumentLineUpdate{
			{ID: 1, Checked: boolPtr(true), Quantity: intPtr(1)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, models.LevelGraduate, state.Draft.EducationalLevel)
	require.Len(t, state.Pricing.Lines, 1)
	assert.Equal(t, 122.0, state.Pricing.Lines[0].UnitPrice)
	assert.Equal(t, 122.0, state.Pricing.Total)
}

func TestUpdateDraftUncheckClearsDependentFields(t *testing.T) {
	svc := newTestWizardService(t, &stubSubmitter{}, &stubFlow{}, nil)
	sessionID, _ := startSession(t, svc)
	ctx := context.Background()

	_, err := svc.UpdateDraft(ctx, sessionID, dto.UpdateDraftRequest{
		Documents: []dto.DocumentLineUpdate{
			{ID: 2, Checked: boolPtr(true), Quantity: intPtr(3), Year: str("2023-2024"), Semester: str("1st Semester")},
		},
	})
	require.NoError(t, err)

	state, err := svc.UpdateDraft(ctx, sessionID, dto.UpdateDraftRequest{
		Documents: []dto.DocumentLineUpdate{{ID: 2, Checked: boolPtr(false)}},
	})
	require.NoError(t, err)

	doc := state.Draft.Documents[1]
	assert.False(t, doc.Checked)
	assert.Zero(t, doc.Quantity)
	assert.Empty(t, doc.Year)
	assert.Empty(t, doc.Semester)
	assert.Zero(t, state.Pricing.Total)
}

func TestUpdateDraftRequesterSwitchClearsCounterpartFields(t *testing.T) {
	svc := newTestWizardService(t, &stubSubmitter{}, &stubFlow{}, nil)
	sessionID, _ := startSession(t, svc)
	ctx := context.Background()

	_, err := svc.UpdateDraft(ctx, sessionID, dto.UpdateDraftRequest{
		StudentNumber: str("2021-00123"),
		YearLevel:     str("3rd Year"),
	})
	require.NoError(t, err)

	state, err := svc.UpdateDraft(ctx, sessionID, dto.UpdateDraftRequest{RequesterType: str("Alumni")})
	require.NoError(t, err)
	assert.Equal(t, models.RequesterAlumni, state.Draft.RequesterType)
	assert.Empty(t, state.Draft.StudentNumber)
	assert.Empty(t, state.Draft.YearLevel)
	assert.Empty(t, state.Draft.EducationalLevel)

	_, err = svc.UpdateDraft(ctx, sessionID, dto.UpdateDraftRequest{GraduationYear: str("2015")})
	require.NoError(t, err)
	state, err = svc.UpdateDraft(ctx, sessionID, dto.UpdateDraftRequest{RequesterType: str("Student")})
	require.NoError(t, err)
	assert.Empty(t, state.Draft.GraduationYear)
}

func TestUpdateDraftEmailChangeResetsVerification(t *testing.T) {
	flow := &stubFlow{}
	svc := newTestWizardService(t, &stubSubmitter{}, flow, nil)
	sessionID, _ := startSession(t, svc)
	ctx := context.Background()

	_, err := svc.UpdateDraft(ctx, sessionID, dto.UpdateDraftRequest{Email: str("first@example.com")})
	require.NoError(t, err)
	_, err = svc.SendVerification(ctx, sessionID)
	require.NoError(t, err)
	_, err = svc.VerifyCode(ctx, sessionID, "123456")
	require.NoError(t, err)

	state, err := svc.UpdateDraft(ctx, sessionID, dto.UpdateDraftRequest{Email: str("second@example.com")})
	require.NoError(t, err)

	assert.Equal(t, []string{"first@example.com", "second@example.com"}, flow.changedWith)
	assert.Equal(t, models.VerificationUnverified, state.Verification.Stage)
}

func TestAdvanceFromFormSurfacesFieldErrors(t *testing.T) {
	svc := newTestWizardService(t, &stubSubmitter{}, &stubFlow{}, nil)
	sessionID, _ := startSession(t, svc)
	ctx := context.Background()

	_, err := svc.UpdateDraft(ctx, sessionID, dto.UpdateDraftRequest{AgreedToPrivacy: boolPtr(true)})
	require.NoError(t, err)
	_, err = svc.Advance(ctx, sessionID)
	require.NoError(t, err)

	_, err = svc.UpdateDraft(ctx, sessionID, dto.UpdateDraftRequest{Email: str("ana@example.com")})
	require.NoError(t, err)
	_, err = svc.SendVerification(ctx, sessionID)
	require.NoError(t, err)
	_, err = svc.VerifyCode(ctx, sessionID, "123456")
	require.NoError(t, err)

	// Verified but otherwise empty draft: validation must refuse.
	_, err = svc.Advance(ctx, sessionID)
	require.Error(t, err)

	state, err := svc.GetState(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, 2, state.Step)
	assert.Contains(t, state.FieldErrors, "surname")
}

func TestSubmitStudentSuccess(t *testing.T) {
	submitter := &stubSubmitter{result: &models.SubmittedRequest{
		RequestID:       "req-1",
		RequestNo:       "RN-42",
		ReferenceNumber: "SPC-2024-000042",
	}}
	tracker := &stubTracker{}
	svc := newTestWizardService(t, submitter, &stubFlow{}, tracker)
	sessionID, _ := startSession(t, svc)

	fillStudentDraft(t, svc, sessionID)

	state, err := svc.Submit(context.Background(), sessionID)
	require.NoError(t, err)

	assert.True(t, state.Submitted)
	require.NotNil(t, state.Result)
	assert.Equal(t, "SPC-2024-000042", state.Result.ReferenceNumber)

	require.Len(t, submitter.studentCalls, 1)
	payload := submitter.studentCalls[0]
	require.NotNil(t, payload.StudentNumber)
	assert.Equal(t, "2021-00123", *payload.StudentNumber)
	assert.Equal(t, 150.0, payload.TotalAmount)
	require.Len(t, payload.Documents, 1)
	assert.Equal(t, 75.0, payload.Documents[0].Price)

	require.Len(t, tracker.inserted, 1)
	assert.Equal(t, "SPC-2024-000042", tracker.inserted[0].ReferenceNumber)
	assert.Equal(t, models.StatusPending, tracker.inserted[0].Status)

	// The terminal state refuses further mutation.
	_, err = svc.Submit(context.Background(), sessionID)
	assert.Error(t, err)
	_, err = svc.UpdateDraft(context.Background(), sessionID, dto.UpdateDraftRequest{Surname: str("Changed")})
	assert.Error(t, err)
}

func TestSubmitResolvesOtherPurpose(t *testing.T) {
	submitter := &stubSubmitter{result: &models.SubmittedRequest{RequestID: "r", RequestNo: "n", ReferenceNumber: "ref"}}
	svc := newTestWizardService(t, submitter, &stubFlow{}, nil)
	sessionID, _ := startSession(t, svc)

	fillStudentDraft(t, svc, sessionID)
	ctx := context.Background()

	_, err := svc.Back(ctx, sessionID)
	require.NoError(t, err)
	_, err = svc.UpdateDraft(ctx, sessionID, dto.UpdateDraftRequest{
		PurposeOfRequest: str(models.PurposeOtherSentinel),
		OtherPurpose:     str("Visa Application"),
	})
	require.NoError(t, err)
	_, err = svc.Advance(ctx, sessionID)
	require.NoError(t, err)

	_, err = svc.Submit(ctx, sessionID)
	require.NoError(t, err)

	require.Len(t, submitter.studentCalls, 1)
	assert.Equal(t, "Visa Application", submitter.studentCalls[0].PurposeOfRequest)
}

func TestSubmitDerivesSchoolYearFromFirstCheckedDocument(t *testing.T) {
	submitter := &stubSubmitter{result: &models.SubmittedRequest{RequestID: "r", RequestNo: "n", ReferenceNumber: "ref"}}
	svc := newTestWizardService(t, submitter, &stubFlow{}, nil)
	sessionID, _ := startSession(t, svc)

	fillStudentDraft(t, svc, sessionID)
	ctx := context.Background()

	_, err := svc.Back(ctx, sessionID)
	require.NoError(t, err)
	_, err = svc.UpdateDraft(ctx, sessionID, dto.UpdateDraftRequest{
		Documents: []dto.DocumentLineUpdate{
			{ID: 3, Checked: boolPtr(true), Quantity: intPtr(1), Year: str("2022-2023"), Semester: str("2nd Semester")},
		},
	})
	require.NoError(t, err)
	_, err = svc.Advance(ctx, sessionID)
	require.NoError(t, err)

	_, err = svc.Submit(ctx, sessionID)
	require.NoError(t, err)

	require.Len(t, submitter.studentCalls, 1)
	payload := submitter.studentCalls[0]
	// Document 2 precedes document 3 in catalogue order.
	assert.Equal(t, "2023-2024", payload.SchoolYear)
	assert.Equal(t, "1st Semester", payload.RequestSemester)
	require.Len(t, payload.Documents, 2)
}

func TestSubmitSchoolYearEmptyWhenFirstCheckedDocumentWaived(t *testing.T) {
	submitter := &stubSubmitter{result: &models.SubmittedRequest{RequestID: "r", RequestNo: "n", ReferenceNumber: "ref"}}
	svc := newTestWizardService(t, submitter, &stubFlow{}, nil)
	sessionID, _ := startSession(t, svc)

	fillStudentDraft(t, svc, sessionID)
	ctx := context.Background()

	_, err := svc.Back(ctx, sessionID)
	require.NoError(t, err)
	// Document 1 is the semester-waived transcript and precedes document 2,
	// so its empty year and semester go on the wire as-is.
	_, err = svc.UpdateDraft(ctx, sessionID, dto.UpdateDraftRequest{
		Documents: []dto.DocumentLineUpdate{
			{ID: 1, Checked: boolPtr(true), Quantity: intPtr(1)},
		},
	})
	require.NoError(t, err)
	_, err = svc.Advance(ctx, sessionID)
	require.NoError(t, err)

	_, err = svc.Submit(ctx, sessionID)
	require.NoError(t, err)

	require.Len(t, submitter.studentCalls, 1)
	payload := submitter.studentCalls[0]
	assert.Equal(t, "", payload.SchoolYear)
	assert.Equal(t, "", payload.RequestSemester)
	require.Len(t, payload.Documents, 2)
	assert.Equal(t, "2023-2024", payload.Documents[1].Year)
}

func TestSubmitWithoutTrackerSucceeds(t *testing.T) {
	submitter := &stubSubmitter{result: &models.SubmittedRequest{RequestID: "r", RequestNo: "n", ReferenceNumber: "ref"}}
	svc := newTestWizardService(t, submitter, &stubFlow{}, nil)
	sessionID, _ := startSession(t, svc)

	fillStudentDraft(t, svc, sessionID)

	state, err := svc.Submit(context.Background(), sessionID)
	require.NoError(t, err)
	assert.True(t, state.Submitted)
}

func TestSubmitDoesNotBlockOtherSessions(t *testing.T) {
	submitter := &stubSubmitter{
		result:  &models.SubmittedRequest{RequestID: "r", RequestNo: "n", ReferenceNumber: "ref"},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	svc := newTestWizardService(t, submitter, &stubFlow{}, nil)

	slowID, _ := startSession(t, svc)
	fillStudentDraft(t, svc, slowID)
	otherID, _ := startSession(t, svc)

	submitDone := make(chan error, 1)
	go func() {
		_, err := svc.Submit(context.Background(), slowID)
		submitDone <- err
	}()
	<-submitter.started

	stateDone := make(chan error, 1)
	go func() {
		_, err := svc.GetState(context.Background(), otherID)
		stateDone <- err
	}()

	select {
	case err := <-stateDone:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("state read stalled behind another session's submission")
	}

	close(submitter.release)
	require.NoError(t, <-submitDone)
}

func TestSubmitAlumniSendsFileWithoutStudentNumber(t *testing.T) {
	submitter := &stubSubmitter{result: &models.SubmittedRequest{RequestID: "r", RequestNo: "n", ReferenceNumber: "ref"}}
	svc := newTestWizardService(t, submitter, &stubFlow{}, nil)
	sessionID, _ := startSession(t, svc)
	ctx := context.Background()

	_, err := svc.UpdateDraft(ctx, sessionID, dto.UpdateDraftRequest{AgreedToPrivacy: boolPtr(true)})
	require.NoError(t, err)
	_, err = svc.Advance(ctx, sessionID)
	require.NoError(t, err)

	_, err = svc.UpdateDraft(ctx, sessionID, dto.UpdateDraftRequest{
		RequesterType:     str("Alumni"),
		Surname:           str("Santos"),
		FirstName:         str("Jose"),
		ContactNo:         str("09181234567"),
		Email:             str("jose.santos@example.com"),
		Course:            str("BS Accountancy"),
		GraduationYear:    str("2015"),
		CollegeDepartment: str("College of Business"),
		PurposeOfRequest:  str("Employment"),
		Documents: []dto.DocumentLineUpdate{
			{ID: 1, Checked: boolPtr(true), Quantity: intPtr(1)},
		},
	})
	require.NoError(t, err)

	file := &models.UploadedFile{FileName: "diploma.jpg", ContentType: "image/jpeg", Content: []byte("bytes")}
	_, err = svc.AttachAlumniFile(ctx, sessionID, file)
	require.NoError(t, err)

	_, err = svc.SendVerification(ctx, sessionID)
	require.NoError(t, err)
	_, err = svc.VerifyCode(ctx, sessionID, "123456")
	require.NoError(t, err)
	_, err = svc.Advance(ctx, sessionID)
	require.NoError(t, err)

	_, err = svc.Submit(ctx, sessionID)
	require.NoError(t, err)

	require.Len(t, submitter.alumniCalls, 1)
	assert.Nil(t, submitter.alumniCalls[0].StudentNumber)
	require.Len(t, submitter.alumniFiles, 1)
	assert.Equal(t, "diploma.jpg", submitter.alumniFiles[0].FileName)
}

func TestSubmitUpstreamValidationFailureKeepsDraft(t *testing.T) {
	submitter := &stubSubmitter{err: &registrar.SubmissionError{
		StatusCode: 400,
		Errors: []registrar.FieldError{
			{Param: "email", Msg: "Invalid email"},
			{Param: "contactNo", Msg: "Invalid contact number"},
		},
	}}
	svc := newTestWizardService(t, submitter, &stubFlow{}, nil)
	sessionID, _ := startSession(t, svc)

	fillStudentDraft(t, svc, sessionID)

	_, err := svc.Submit(context.Background(), sessionID)
	require.Error(t, err)

	state, err := svc.GetState(context.Background(), sessionID)
	require.NoError(t, err)
	assert.False(t, state.Submitted)
	assert.Equal(t, "Invalid email", state.FieldErrors["email"])
	assert.Equal(t, "Invalid contact number", state.FieldErrors["contactNo"])
	assert.Equal(t, "Invalid email", state.SubmitError)
	assert.Equal(t, "Reyes", state.Draft.Surname)

	// Corrected drafts may be resubmitted.
	submitter.err = nil
	submitter.result = &models.SubmittedRequest{RequestID: "r", RequestNo: "n", ReferenceNumber: "ref"}
	state2, err := svc.Submit(context.Background(), sessionID)
	require.NoError(t, err)
	assert.True(t, state2.Submitted)
}

func TestSubmitRequiresSummaryStep(t *testing.T) {
	svc := newTestWizardService(t, &stubSubmitter{}, &stubFlow{}, nil)
	sessionID, _ := startSession(t, svc)

	_, err := svc.Submit(context.Background(), sessionID)
	assert.Error(t, err)
}

func TestSweepDropsExpiredSessions(t *testing.T) {
	svc := newTestWizardService(t, &stubSubmitter{}, &stubFlow{}, nil)
	sessionID, _ := startSession(t, svc)

	base := time.Now()
	svc.now = func() time.Time { return base.Add(2 * time.Hour) }
	removed := svc.Sweep()
	assert.Equal(t, 1, removed)

	_, err := svc.GetState(context.Background(), sessionID)
	assert.Error(t, err)
}
