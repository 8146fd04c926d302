package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spc-registrar/portal-api/internal/dto"
	"github.com/spc-registrar/portal-api/internal/models"
	"github.com/spc-registrar/portal-api/internal/registrar"
	"github.com/spc-registrar/portal-api/internal/wizard"
	appErrors "github.com/spc-registrar/portal-api/pkg/errors"
	"github.com/spc-registrar/portal-api/pkg/response"
)

// maxAlumniFileBytes caps the relayed verification upload at 5 MiB.
const maxAlumniFileBytes = 5 << 20

type wizardService interface {
	StartSession(ctx context.Context) (*dto.StartSessionResponse, error)
	GetState(ctx context.Context, sessionID string) (*dto.WizardState, error)
	UpdateDraft(ctx context.Context, sessionID string, req dto.UpdateDraftRequest) (*dto.WizardState, error)
	AttachAlumniFile(ctx context.Context, sessionID string, file *models.UploadedFile) (*dto.WizardState, error)
	SendVerification(ctx context.Context, sessionID string) (*dto.WizardState, error)
	VerifyCode(ctx context.Context, sessionID, code string) (*dto.WizardState, error)
	Advance(ctx context.Context, sessionID string) (*dto.WizardState, error)
	Back(ctx context.Context, sessionID string) (*dto.WizardState, error)
	Submit(ctx context.Context, sessionID string) (*dto.WizardState, error)
}

// WizardHandler exposes the request wizard over REST.
type WizardHandler struct {
	service wizardService
}

// NewWizardHandler constructs the handler.
func NewWizardHandler(service wizardService) *WizardHandler {
	return &WizardHandler{service: service}
}

// Start godoc
// @Summary Start a new request wizard session
// @Tags Wizard
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /wizard/sessions [post]
func (h *WizardHandler) Start(c *gin.Context) {
	resp, err := h.service.StartSession(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, resp, nil)
}

// State godoc
// @Summary Get the current wizard state
// @Tags Wizard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /wizard/sessions/current [get]
func (h *WizardHandler) State(c *gin.Context) {
	sessionID := sessionIDFromContext(c)
	if sessionID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	state, err := h.service.GetState(c.Request.Context(), sessionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, state, nil)
}

// UpdateDraft godoc
// @Summary Apply a partial update to the request draft
// @Tags Wizard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.UpdateDraftRequest true "Draft fields to update"
// @Success 200 {object} response.Envelope
// @Router /wizard/sessions/current/draft [put]
func (h *WizardHandler) UpdateDraft(c *gin.Context) {
	sessionID := sessionIDFromContext(c)
	if sessionID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.UpdateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid draft payload"))
		return
	}
	state, err := h.service.UpdateDraft(c.Request.Context(), sessionID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, state, nil)
}

// AttachAlumniFile godoc
// @Summary Upload the alumni verification document
// @Tags Wizard
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param alumniVerificationFile formData file true "Verification document"
// @Success 200 {object} response.Envelope
// @Router /wizard/sessions/current/alumni-file [post]
func (h *WizardHandler) AttachAlumniFile(c *gin.Context) {
	sessionID := sessionIDFromContext(c)
	if sessionID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	header, err := c.FormFile("alumniVerificationFile")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "alumniVerificationFile is required"))
		return
	}
	if header.Size > maxAlumniFileBytes {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "verification document must not exceed 5 MB"))
		return
	}

	file, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "could not read uploaded file"))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxAlumniFileBytes+1))
	if err != nil || len(content) > maxAlumniFileBytes {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "could not read uploaded file"))
		return
	}

	upload := &models.UploadedFile{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     content,
	}
	state, err := h.service.AttachAlumniFile(c.Request.Context(), sessionID, upload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, state, nil)
}

// SendVerification godoc
// @Summary Send a verification code to the draft's email
// @Tags Wizard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /wizard/sessions/current/verification/send [post]
func (h *WizardHandler) SendVerification(c *gin.Context) {
	sessionID := sessionIDFromContext(c)
	if sessionID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	state, err := h.service.SendVerification(c.Request.Context(), sessionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, state, nil)
}

// VerifyCode godoc
// @Summary Verify the emailed one-time code
// @Tags Wizard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.VerifyCodeRequest true "Verification code"
// @Success 200 {object} response.Envelope
// @Router /wizard/sessions/current/verification/verify [post]
func (h *WizardHandler) VerifyCode(c *gin.Context) {
	sessionID := sessionIDFromContext(c)
	if sessionID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "verification code is required"))
		return
	}
	state, err := h.service.VerifyCode(c.Request.Context(), sessionID, req.Code)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, state, nil)
}

// Advance godoc
// @Summary Move the wizard forward one step
// @Tags Wizard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /wizard/sessions/current/advance [post]
func (h *WizardHandler) Advance(c *gin.Context) {
	sessionID := sessionIDFromContext(c)
	if sessionID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	state, err := h.service.Advance(c.Request.Context(), sessionID)
	if err != nil {
		var vErr *wizard.ValidationError
		if errors.As(err, &vErr) {
			response.FieldErrors(c, appErrors.Clone(appErrors.ErrValidation, vErr.First), vErr.Fields)
			return
		}
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, state, nil)
}

// Back godoc
// @Summary Return from the summary to the form step
// @Tags Wizard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /wizard/sessions/current/back [post]
func (h *WizardHandler) Back(c *gin.Context) {
	sessionID := sessionIDFromContext(c)
	if sessionID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	state, err := h.service.Back(c.Request.Context(), sessionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, state, nil)
}

// Submit godoc
// @Summary Submit the completed request to the registrar system
// @Tags Wizard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /wizard/sessions/current/submit [post]
func (h *WizardHandler) Submit(c *gin.Context) {
	sessionID := sessionIDFromContext(c)
	if sessionID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	state, err := h.service.Submit(c.Request.Context(), sessionID)
	if err != nil {
		var subErr *registrar.SubmissionError
		if errors.As(err, &subErr) {
			response.FieldErrors(c, appErrors.Clone(appErrors.ErrValidation, subErr.First()), subErr.FieldMap())
			return
		}
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, state, nil)
}
