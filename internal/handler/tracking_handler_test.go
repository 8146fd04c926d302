package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spc-registrar/portal-api/internal/dto"
	"github.com/spc-registrar/portal-api/internal/models"
	appErrors "github.com/spc-registrar/portal-api/pkg/errors"
)

type fakeTrackingSrv struct {
	view       *dto.TrackedRequestView
	err        error
	lastFilter models.TrackedRequestFilter
	lastRef    string
	lastStatus models.RequestStatus
}

func (f *fakeTrackingSrv) Track(_ context.Context, reference string) (*dto.TrackedRequestView, error) {
	f.lastRef = reference
	return f.view, f.err
}

func (f *fakeTrackingSrv) List(_ context.Context, filter models.TrackedRequestFilter) ([]models.TrackedRequest, *models.Pagination, error) {
	f.lastFilter = filter
	if f.err != nil {
		return nil, nil, f.err
	}
	return []models.TrackedRequest{}, &models.Pagination{Page: 1, PageSize: 20}, nil
}

func (f *fakeTrackingSrv) UpdateStatus(_ context.Context, reference string, status models.RequestStatus) (*dto.TrackedRequestView, error) {
	f.lastRef = reference
	f.lastStatus = status
	return f.view, f.err
}

func TestTrackingHandlerTrack(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeTrackingSrv{view: &dto.TrackedRequestView{ReferenceNumber: "SPC-2024-000042", Status: "pending"}}
	handler := NewTrackingHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/requests/track/SPC-2024-000042", nil)
	c.Params = gin.Params{{Key: "reference", Value: "SPC-2024-000042"}}

	handler.Track(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "SPC-2024-000042", srv.lastRef)
	var envelope struct {
		Data dto.TrackedRequestView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "pending", envelope.Data.Status)
}

func TestTrackingHandlerTrackNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeTrackingSrv{err: appErrors.ErrNotFound}
	handler := NewTrackingHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/requests/track/unknown", nil)
	c.Params = gin.Params{{Key: "reference", Value: "unknown"}}

	handler.Track(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTrackingHandlerListParsesQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeTrackingSrv{}
	handler := NewTrackingHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/requests?status=processing&search=reyes&page=2&page_size=10", nil)

	handler.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.StatusProcessing, srv.lastFilter.Status)
	assert.Equal(t, "reyes", srv.lastFilter.Search)
	assert.Equal(t, 2, srv.lastFilter.Page)
	assert.Equal(t, 10, srv.lastFilter.PageSize)
}

func TestTrackingHandlerUpdateStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeTrackingSrv{view: &dto.TrackedRequestView{ReferenceNumber: "SPC-2024-000042", Status: "ready"}}
	handler := NewTrackingHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPatch, "/requests/SPC-2024-000042/status", strings.NewReader(`{"status":"ready"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "reference", Value: "SPC-2024-000042"}}

	handler.UpdateStatus(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.StatusReady, srv.lastStatus)
}

func TestTrackingHandlerUpdateStatusRejectsEmptyBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTrackingHandler(&fakeTrackingSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPatch, "/requests/SPC-2024-000042/status", nil)
	c.Params = gin.Params{{Key: "reference", Value: "SPC-2024-000042"}}

	handler.UpdateStatus(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
