package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spc-registrar/portal-api/internal/bus"
	"github.com/spc-registrar/portal-api/internal/dto"
	"github.com/spc-registrar/portal-api/internal/models"
	"github.com/spc-registrar/portal-api/internal/registrar"
	"github.com/spc-registrar/portal-api/internal/wizard"
	appErrors "github.com/spc-registrar/portal-api/pkg/errors"
)

type documentCatalogue interface {
	Documents(ctx context.Context) []models.DocumentType
}

type submissionClient interface {
	SubmitStudent(ctx context.Context, payload registrar.SubmissionPayload) (*models.SubmittedRequest, error)
	SubmitAlumni(ctx context.Context, payload registrar.SubmissionPayload, file *models.UploadedFile) (*models.SubmittedRequest, error)
}

type verificationFlow interface {
	Send(ctx context.Context, state *models.VerificationState, email string) error
	Verify(ctx context.Context, state *models.VerificationState, email, code string) error
	EmailChanged(ctx context.Context, state *models.VerificationState, email string)
}

// TrackedRequestWriter persists accepted submissions for later tracking.
// May be nil when no database is configured.
type TrackedRequestWriter interface {
	Insert(ctx context.Context, req *models.TrackedRequest) error
}

type wizardMetrics interface {
	WizardSessionStarted()
	WizardSubmission(success bool)
}

// WizardServiceConfig tunes session tokens and lifetime.
type WizardServiceConfig struct {
	TokenSecret string
	SessionTTL  time.Duration
}

// WizardService owns the wizard sessions: one mutable request draft each,
// walked through the guarded steps and finally submitted upstream.
type WizardService struct {
	machine   *wizard.Machine
	flow      verificationFlow
	catalogue documentCatalogue
	submitter submissionClient
	tracker   TrackedRequestWriter
	events    *bus.Bus
	metrics   wizardMetrics
	validator *validator.Validate
	logger    *zap.Logger
	cfg       WizardServiceConfig

	// mu guards the registry map only; mutations of an individual session
	// happen under that session's own lock.
	mu       sync.RWMutex
	sessions map[string]*models.WizardSession

	now func() time.Time
}

// NewWizardService constructs a WizardService.
func NewWizardService(
	machine *wizard.Machine,
	flow verificationFlow,
	catalogue documentCatalogue,
	submitter submissionClient,
	tracker TrackedRequestWriter,
	events *bus.Bus,
	metrics wizardMetrics,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg WizardServiceConfig,
) *WizardService {
	if machine == nil {
		machine = wizard.NewMachine(nil)
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 2 * time.Hour
	}
	return &WizardService{
		machine:   machine,
		flow:      flow,
		catalogue: catalogue,
		submitter: submitter,
		tracker:   tracker,
		events:    events,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		sessions:  make(map[string]*models.WizardSession),
		now:       time.Now,
	}
}

// StartSession creates a fresh draft seeded with the current document
// catalogue and returns its signed session token.
func (s *WizardService) StartSession(ctx context.Context) (*dto.StartSessionResponse, error) {
	now := s.now().UTC()
	session := &models.WizardSession{
		ID:    uuid.NewString(),
		Step:  models.StepPrivacy,
		Draft: models.NewRequestDraft(s.catalogue.Documents(ctx)),
		Verification: models.VerificationState{
			Stage: models.VerificationUnverified,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	token, err := s.issueToken(session.ID, now)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "could not issue session token")
	}

	if s.metrics != nil {
		s.metrics.WizardSessionStarted()
	}
	s.logger.Info("wizard_session_started", zap.String("session_id", session.ID))

	return &dto.StartSessionResponse{Token: token, State: s.stateView(session)}, nil
}

// ValidateToken resolves a session token into its session id.
func (s *WizardService) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.TokenSecret), nil
	})
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid session token")
	}

	claims, ok := token.Claims.(*models.SessionClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return "", appErrors.Clone(appErrors.ErrUnauthorized, "invalid session token claims")
	}
	return claims.SessionID, nil
}

// GetState returns the full view of a session.
func (s *WizardService) GetState(ctx context.Context, sessionID string) (*dto.WizardState, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	session.Lock()
	defer session.Unlock()
	state := s.stateView(session)
	return &state, nil
}

// UpdateDraft applies a partial update to the session's draft, maintaining
// the draft invariants along the way.
func (s *WizardService) UpdateDraft(ctx context.Context, sessionID string, req dto.UpdateDraftRequest) (*dto.WizardState, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid draft payload")
	}

	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	session.Lock()
	defer session.Unlock()

	if session.Submitted {
		return nil, appErrors.ErrAlreadySubmitted
	}

	draft := &session.Draft

	if req.RequesterType != nil {
		next := models.RequesterType(*req.RequesterType)
		if next != draft.RequesterType {
			switch next {
			case models.RequesterAlumni:
				draft.ClearStudentFields()
			case models.RequesterStudent:
				draft.ClearAlumniFields()
			}
			draft.RequesterType = next
		}
	}

	applyString(&draft.Surname, req.Surname)
	applyString(&draft.FirstName, req.FirstName)
	applyString(&draft.MiddleInitial, req.MiddleInitial)
	applyString(&draft.Suffix, req.Suffix)
	applyString(&draft.ContactNo, req.ContactNo)
	applyString(&draft.StudentNumber, req.StudentNumber)
	applyString(&draft.Course, req.Course)
	applyString(&draft.CollegeDepartment, req.CollegeDepartment)
	applyString(&draft.GraduationYear, req.GraduationYear)
	applyString(&draft.PurposeOfRequest, req.PurposeOfRequest)
	applyString(&draft.OtherPurpose, req.OtherPurpose)

	if req.YearLevel != nil && *req.YearLevel != draft.YearLevel {
		draft.YearLevel = *req.YearLevel
		draft.EducationalLevel = models.LevelForYear(draft.YearLevel)
	}

	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email != draft.Email {
			draft.Email = email
			s.flow.EmailChanged(ctx, &session.Verification, email)
		}
	}

	if req.AgreedToPrivacy != nil {
		draft.AgreedToPrivacy = *req.AgreedToPrivacy
	}

	for _, upd := range req.Documents {
		s.applyLineUpdate(draft, upd)
	}

	session.UpdatedAt = s.now().UTC()
	state := s.stateView(session)
	return &state, nil
}

// AttachAlumniFile stores the relayed verification upload on the draft.
func (s *WizardService) AttachAlumniFile(ctx context.Context, sessionID string, file *models.UploadedFile) (*dto.WizardState, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	session.Lock()
	defer session.Unlock()

	if session.Submitted {
		return nil, appErrors.ErrAlreadySubmitted
	}
	if session.Draft.RequesterType != models.RequesterAlumni {
		return nil, appErrors.Clone(appErrors.ErrValidation, "verification uploads apply to alumni requests only")
	}

	session.Draft.AlumniVerificationFile = file
	session.UpdatedAt = s.now().UTC()
	state := s.stateView(session)
	return &state, nil
}

// SendVerification dispatches a verification code for the draft's email.
func (s *WizardService) SendVerification(ctx context.Context, sessionID string) (*dto.WizardState, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	session.Lock()
	defer session.Unlock()

	email := strings.TrimSpace(session.Draft.Email)
	if email == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "enter an email address first")
	}
	if err := s.flow.Send(ctx, &session.Verification, email); err != nil {
		return nil, err
	}
	state := s.stateView(session)
	return &state, nil
}

// VerifyCode checks the submitted one-time code for the draft's email.
func (s *WizardService) VerifyCode(ctx context.Context, sessionID, code string) (*dto.WizardState, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	session.Lock()
	defer session.Unlock()

	email := strings.TrimSpace(session.Draft.Email)
	if email == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "enter an email address first")
	}
	if err := s.flow.Verify(ctx, &session.Verification, email, code); err != nil {
		return nil, err
	}
	state := s.stateView(session)
	return &state, nil
}

// Advance attempts the guarded forward transition.
func (s *WizardService) Advance(ctx context.Context, sessionID string) (*dto.WizardState, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	session.Lock()
	defer session.Unlock()

	if err := s.machine.Advance(session); err != nil {
		var vErr *wizard.ValidationError
		if errors.As(err, &vErr) {
			session.FieldErrors = vErr.Fields
		}
		return nil, err
	}

	session.FieldErrors = nil
	session.UpdatedAt = s.now().UTC()
	state := s.stateView(session)
	return &state, nil
}

// Back returns from the summary to the form step.
func (s *WizardService) Back(ctx context.Context, sessionID string) (*dto.WizardState, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	session.Lock()
	defer session.Unlock()

	if err := s.machine.Back(session); err != nil {
		return nil, err
	}
	session.UpdatedAt = s.now().UTC()
	state := s.stateView(session)
	return &state, nil
}

// Submit assembles the upstream payload from the draft and posts it. On
// success the session flips to its terminal submitted state; on failure the
// draft is left untouched for correction and resubmission.
func (s *WizardService) Submit(ctx context.Context, sessionID string) (*dto.WizardState, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	session.Lock()
	defer session.Unlock()

	if session.Submitted {
		return nil, appErrors.ErrAlreadySubmitted
	}
	if session.Step != models.StepSummary {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "submission is only possible from the summary step")
	}

	payload := assemblePayload(&session.Draft)

	var result *models.SubmittedRequest
	var submitErr error
	if session.Draft.RequesterType == models.RequesterAlumni {
		result, submitErr = s.submitter.SubmitAlumni(ctx, payload, session.Draft.AlumniVerificationFile)
	} else {
		result, submitErr = s.submitter.SubmitStudent(ctx, payload)
	}

	if submitErr != nil {
		if s.metrics != nil {
			s.metrics.WizardSubmission(false)
		}
		var subErr *registrar.SubmissionError
		if errors.As(submitErr, &subErr) {
			session.FieldErrors = subErr.FieldMap()
			session.SubmitError = subErr.First()
		} else {
			session.SubmitError = "submission failed; please try again"
		}
		s.logger.Warn("wizard_submit_failed", zap.String("session_id", session.ID), zap.Error(submitErr))
		return nil, submitErr
	}

	session.Submitted = true
	session.Result = result
	session.SubmitError = ""
	session.FieldErrors = nil
	session.UpdatedAt = s.now().UTC()

	if s.metrics != nil {
		s.metrics.WizardSubmission(true)
	}
	s.recordSubmission(ctx, session, payload)

	if s.events != nil {
		s.events.Publish(bus.Event{Topic: bus.TopicStatsRefresh, Payload: bus.StatsRefreshPayload{Audience: "staff"}})
		s.events.Publish(bus.Event{Topic: bus.TopicStatsRefresh, Payload: bus.StatsRefreshPayload{Audience: "admin"}})
	}

	state := s.stateView(session)
	return &state, nil
}

// Sweep drops sessions idle beyond the configured TTL. Intended to run on a
// ticker from main. Expiry is checked outside the registry lock so a session
// busy with an upstream call cannot stall the sweep.
func (s *WizardService) Sweep() int {
	cutoff := s.now().UTC().Add(-s.cfg.SessionTTL)

	s.mu.RLock()
	candidates := make(map[string]*models.WizardSession, len(s.sessions))
	for id, session := range s.sessions {
		candidates[id] = session
	}
	s.mu.RUnlock()

	var expired []string
	for id, session := range candidates {
		session.Lock()
		if session.UpdatedAt.Before(cutoff) {
			expired = append(expired, id)
		}
		session.Unlock()
	}

	s.mu.Lock()
	for _, id := range expired {
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	if len(expired) > 0 {
		s.logger.Info("wizard_sessions_swept", zap.Int("removed", len(expired)))
	}
	return len(expired)
}

func (s *WizardService) recordSubmission(ctx context.Context, session *models.WizardSession, payload registrar.SubmissionPayload) {
	if s.tracker == nil || session.Result == nil {
		return
	}
	record := &models.TrackedRequest{
		RequestID:       session.Result.RequestID,
		RequestNo:       session.Result.RequestNo,
		ReferenceNumber: session.Result.ReferenceNumber,
		RequesterType:   session.Draft.RequesterType,
		Surname:         session.Draft.Surname,
		FirstName:       session.Draft.FirstName,
		Email:           session.Draft.Email,
		Purpose:         payload.PurposeOfRequest,
		TotalAmount:     payload.TotalAmount,
		Status:          models.StatusPending,
		SubmittedAt:     s.now().UTC(),
	}
	if err := s.tracker.Insert(ctx, record); err != nil {
		// Tracking is best effort; the registrar already accepted the request.
		s.logger.Warn("tracked_request_insert_failed",
			zap.String("reference_number", record.ReferenceNumber), zap.Error(err))
	}
}

func (s *WizardService) applyLineUpdate(draft *models.RequestDraft, upd dto.DocumentLineUpdate) {
	for i := range draft.Documents {
		doc := &draft.Documents[i]
		if doc.ID != upd.ID {
			continue
		}

		if upd.Checked != nil {
			if *upd.Checked {
				doc.Checked = true
			} else {
				doc.Uncheck()
				return
			}
		}
		// Quantity, year and semester only exist on checked items.
		if !doc.Checked {
			return
		}
		if upd.Quantity != nil {
			doc.Quantity = *upd.Quantity
		}
		if upd.Year != nil {
			doc.Year = *upd.Year
		}
		if upd.Semester != nil {
			doc.Semester = *upd.Semester
		}
		return
	}
}

func (s *WizardService) session(sessionID string) (*models.WizardSession, error) {
	s.mu.RLock()
	session, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, appErrors.ErrSessionNotFound
	}
	return session, nil
}

func (s *WizardService) issueToken(sessionID string, issuedAt time.Time) (string, error) {
	claims := models.SessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sessionID,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.cfg.SessionTTL)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.TokenSecret))
}

func (s *WizardService) stateView(session *models.WizardSession) dto.WizardState {
	return dto.WizardState{
		SessionID:           session.ID,
		Step:                int(session.Step),
		Path:                wizard.PathFor(session.Step),
		Draft:               session.Draft,
		TempReferenceNumber: session.TempReferenceNumber,
		Verification:        session.Verification,
		Pricing:             pricingView(&session.Draft),
		Submitted:           session.Submitted,
		Result:              session.Result,
		SubmitError:         session.SubmitError,
		FieldErrors:         session.FieldErrors,
	}
}

func pricingView(draft *models.RequestDraft) dto.Pricing {
	view := dto.Pricing{Total: wizard.Total(draft)}
	for _, doc := range draft.Documents {
		if !doc.Checked || doc.Quantity <= 0 {
			continue
		}
		unit := wizard.AdjustedPrice(doc, draft.EducationalLevel)
		view.Lines = append(view.Lines, dto.PricingLine{
			DocumentID: doc.ID,
			Name:       doc.Name,
			Quantity:   doc.Quantity,
			UnitPrice:  unit,
			Amount:     unit * float64(doc.Quantity),
		})
	}
	return view
}

// assemblePayload flattens the draft into the upstream contract. School year
// and semester come from the first checked document's own fields; the
// registrar system has no dedicated top-level inputs for them.
func assemblePayload(draft *models.RequestDraft) registrar.SubmissionPayload {
	payload := registrar.SubmissionPayload{
		Surname:           draft.Surname,
		FirstName:         draft.FirstName,
		MiddleInitial:     draft.MiddleInitial,
		Suffix:            draft.Suffix,
		ContactNo:         draft.ContactNo,
		Email:             draft.Email,
		Course:            draft.Course,
		CollegeDepartment: draft.CollegeDepartment,
		PurposeOfRequest:  draft.ResolvedPurpose(),
		TotalAmount:       wizard.Total(draft),
	}

	if draft.RequesterType == models.RequesterStudent {
		studentNumber := draft.StudentNumber
		payload.StudentNumber = &studentNumber
	}

	first := true
	for _, doc := range draft.Documents {
		if !doc.Checked || doc.Quantity <= 0 {
			continue
		}
		if first {
			// The first checked document's values, even when empty for a
			// semester-waived document.
			payload.SchoolYear = doc.Year
			payload.RequestSemester = doc.Semester
			first = false
		}
		payload.Documents = append(payload.Documents, registrar.SubmissionDocument{
			ID:       doc.ID,
			Name:     doc.Name,
			Quantity: doc.Quantity,
			Price:    wizard.AdjustedPrice(doc, draft.EducationalLevel),
			Year:     doc.Year,
			Semester: doc.Semester,
		})
	}

	return payload
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
