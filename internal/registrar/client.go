package registrar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/spc-registrar/portal-api/internal/models"
	"github.com/spc-registrar/portal-api/pkg/config"
)

// FieldError is one structured validation failure from the registrar system.
type FieldError struct {
	Param string `json:"param"`
	Msg   string `json:"msg"`
}

// SubmissionError carries the upstream rejection of a submission. Structured
// validation errors map onto draft fields; anything else surfaces as one
// top-level message.
type SubmissionError struct {
	StatusCode int
	Errors     []FieldError
	Message    string
}

// Error implements the error interface.
func (e *SubmissionError) Error() string {
	if first := e.First(); first != "" {
		return first
	}
	return fmt.Sprintf("submission rejected with status %d", e.StatusCode)
}

// First returns the most prominent message: the first structured error, or
// the generic message.
func (e *SubmissionError) First() string {
	if len(e.Errors) > 0 {
		return e.Errors[0].Msg
	}
	return e.Message
}

// FieldMap converts the structured errors into a field-keyed map. The first
// message per field wins.
func (e *SubmissionError) FieldMap() map[string]string {
	if len(e.Errors) == 0 {
		return nil
	}
	fields := make(map[string]string, len(e.Errors))
	for _, fe := range e.Errors {
		if _, exists := fields[fe.Param]; !exists {
			fields[fe.Param] = fe.Msg
		}
	}
	return fields
}

// SubmissionDocument is one requested document line on the wire.
type SubmissionDocument struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Year     string  `json:"year"`
	Semester string  `json:"semester"`
}

// SubmissionPayload is the assembled request body posted to /students or,
// as multipart fields, to /alumni. Field names follow the upstream contract.
type SubmissionPayload struct {
	Surname           string               `json:"surname"`
	FirstName         string               `json:"firstName"`
	MiddleInitial     string               `json:"middleInitial"`
	Suffix            string               `json:"suffix"`
	ContactNo         string               `json:"contactNo"`
	Email             string               `json:"email"`
	StudentNumber     *string              `json:"studentNumber"`
	Course            string               `json:"course"`
	CollegeDepartment string               `json:"collegeDepartment"`
	PurposeOfRequest  string               `json:"purposeOfRequest"`
	SchoolYear        string               `json:"schoolYear"`
	RequestSemester   string               `json:"requestSemester"`
	Documents         []SubmissionDocument `json:"documents"`
	TotalAmount       float64              `json:"totalAmount"`
}

type submitResponse struct {
	Request struct {
		RequestID       string `json:"requestId"`
		RequestNo       string `json:"requestNo"`
		ReferenceNumber string `json:"referenceNumber"`
	} `json:"request"`
	Message string `json:"message"`
}

type submitErrorResponse struct {
	Errors  []FieldError `json:"errors"`
	Message string       `json:"message"`
}

type verificationResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type checkVerificationResponse struct {
	Verified bool `json:"verified"`
}

type upstreamMetrics interface {
	ObserveUpstreamCall(operation string, duration time.Duration)
}

// Client talks to the upstream registrar REST API.
type Client struct {
	http          *resty.Client
	submitTimeout time.Duration
	metrics       upstreamMetrics
	logger        *zap.Logger
}

// NewClient builds a registrar client from upstream configuration. metrics
// may be nil.
func NewClient(cfg config.UpstreamConfig, metrics upstreamMetrics, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.RequestTimeout).
		SetHeader("Accept", "application/json")

	return &Client{
		http:          httpClient,
		submitTimeout: cfg.SubmitTimeout,
		metrics:       metrics,
		logger:        logger,
	}
}

func (c *Client) observe(operation string, start time.Time) {
	if c.metrics != nil {
		c.metrics.ObserveUpstreamCall(operation, time.Since(start))
	}
}

type listResponse[T any] struct {
	Data []T `json:"data"`
}

func fetchList[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	defer c.observe(strings.TrimPrefix(path, "/"), time.Now())

	var body listResponse[T]
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&body).
		Get(path)
	if err != nil {
		return nil, fmt.Errorf("registrar get %s: %w", path, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("registrar get %s: status %d", path, resp.StatusCode())
	}
	return body.Data, nil
}

// FetchDocuments returns the requestable document types.
func (c *Client) FetchDocuments(ctx context.Context) ([]models.DocumentType, error) {
	return fetchList[models.DocumentType](ctx, c, "/documents")
}

// FetchPurposes returns the purpose-of-request options.
func (c *Client) FetchPurposes(ctx context.Context) ([]models.Purpose, error) {
	return fetchList[models.Purpose](ctx, c, "/purposes")
}

// FetchDepartments returns the college departments.
func (c *Client) FetchDepartments(ctx context.Context) ([]models.Department, error) {
	return fetchList[models.Department](ctx, c, "/departments")
}

// FetchCourses returns the programs of study.
func (c *Client) FetchCourses(ctx context.Context) ([]models.Course, error) {
	return fetchList[models.Course](ctx, c, "/courses")
}

// SendVerificationCode asks the registrar system to email a one-time code.
func (c *Client) SendVerificationCode(ctx context.Context, email string) error {
	defer c.observe("send_verification_code", time.Now())

	var body verificationResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"email": email}).
		SetResult(&body).
		Post("/send-verification-code")
	if err != nil {
		return fmt.Errorf("send verification code: %w", err)
	}
	if resp.IsError() || !body.Success {
		msg := body.Message
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode())
		}
		return fmt.Errorf("send verification code: %s", msg)
	}
	return nil
}

// VerifyEmailCode checks a one-time code against the registrar system.
func (c *Client) VerifyEmailCode(ctx context.Context, email, code string) (bool, error) {
	defer c.observe("verify_email_code", time.Now())

	var body verificationResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"email": email, "code": code}).
		SetResult(&body).
		SetError(&body).
		Post("/verify-email-code")
	if err != nil {
		return false, fmt.Errorf("verify email code: %w", err)
	}
	if resp.StatusCode() >= http.StatusInternalServerError {
		return false, fmt.Errorf("verify email code: status %d", resp.StatusCode())
	}
	return body.Success, nil
}

// CheckVerification reports whether an address was already verified, for
// example in a prior session.
func (c *Client) CheckVerification(ctx context.Context, email string) (bool, error) {
	defer c.observe("check_verification", time.Now())

	var body checkVerificationResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("email", email).
		SetResult(&body).
		Get("/check-verification")
	if err != nil {
		return false, fmt.Errorf("check verification: %w", err)
	}
	if resp.IsError() {
		return false, fmt.Errorf("check verification: status %d", resp.StatusCode())
	}
	return body.Verified, nil
}

// SubmitStudent posts a student request as JSON.
func (c *Client) SubmitStudent(ctx context.Context, payload SubmissionPayload) (*models.SubmittedRequest, error) {
	defer c.observe("submit_student", time.Now())

	ctx, cancel := context.WithTimeout(ctx, c.submitTimeout)
	defer cancel()

	var body submitResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&body).
		Post("/students")
	if err != nil {
		return nil, fmt.Errorf("submit student request: %w", err)
	}
	return c.finishSubmit(resp, &body)
}

// SubmitAlumni posts an alumni request as multipart form data carrying the
// verification file.
func (c *Client) SubmitAlumni(ctx context.Context, payload SubmissionPayload, file *models.UploadedFile) (*models.SubmittedRequest, error) {
	defer c.observe("submit_alumni", time.Now())

	ctx, cancel := context.WithTimeout(ctx, c.submitTimeout)
	defer cancel()

	documents, err := json.Marshal(payload.Documents)
	if err != nil {
		return nil, fmt.Errorf("marshal alumni documents: %w", err)
	}

	fields := map[string]string{
		"surname":           payload.Surname,
		"firstName":         payload.FirstName,
		"middleInitial":     payload.MiddleInitial,
		"suffix":            payload.Suffix,
		"contactNo":         payload.ContactNo,
		"email":             payload.Email,
		"course":            payload.Course,
		"collegeDepartment": payload.CollegeDepartment,
		"purposeOfRequest":  payload.PurposeOfRequest,
		"schoolYear":        payload.SchoolYear,
		"requestSemester":   payload.RequestSemester,
		"documents":         string(documents),
		"totalAmount":       fmt.Sprintf("%.2f", payload.TotalAmount),
	}

	req := c.http.R().
		SetContext(ctx).
		SetMultipartFormData(fields)
	if file != nil {
		req.SetFileReader("alumniVerificationFile", file.FileName, bytes.NewReader(file.Content))
	}

	var body submitResponse
	resp, err := req.SetResult(&body).Post("/alumni")
	if err != nil {
		return nil, fmt.Errorf("submit alumni request: %w", err)
	}
	return c.finishSubmit(resp, &body)
}

func (c *Client) finishSubmit(resp *resty.Response, body *submitResponse) (*models.SubmittedRequest, error) {
	if resp.IsError() {
		var errBody submitErrorResponse
		if err := json.Unmarshal(resp.Body(), &errBody); err != nil || (len(errBody.Errors) == 0 && errBody.Message == "") {
			return nil, &SubmissionError{
				StatusCode: resp.StatusCode(),
				Message:    fmt.Sprintf("submission failed with status %d", resp.StatusCode()),
			}
		}
		return nil, &SubmissionError{
			StatusCode: resp.StatusCode(),
			Errors:     errBody.Errors,
			Message:    errBody.Message,
		}
	}

	c.logger.Info("request_submitted",
		zap.String("reference_number", body.Request.ReferenceNumber),
		zap.String("request_no", body.Request.RequestNo),
	)

	return &models.SubmittedRequest{
		RequestID:       body.Request.RequestID,
		RequestNo:       body.Request.RequestNo,
		ReferenceNumber: body.Request.ReferenceNumber,
	}, nil
}
