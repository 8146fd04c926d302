package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/spc-registrar/portal-api/internal/dto"
	"github.com/spc-registrar/portal-api/internal/models"
	appErrors "github.com/spc-registrar/portal-api/pkg/errors"
	"github.com/spc-registrar/portal-api/pkg/response"
)

type trackingService interface {
	Track(ctx context.Context, reference string) (*dto.TrackedRequestView, error)
	List(ctx context.Context, filter models.TrackedRequestFilter) ([]models.TrackedRequest, *models.Pagination, error)
	UpdateStatus(ctx context.Context, reference string, status models.RequestStatus) (*dto.TrackedRequestView, error)
}

// TrackingHandler exposes the public status lookup and the staff work queue.
type TrackingHandler struct {
	service trackingService
}

// NewTrackingHandler constructs the handler.
func NewTrackingHandler(service trackingService) *TrackingHandler {
	return &TrackingHandler{service: service}
}

// Track godoc
// @Summary Look up a submitted request by reference number
// @Tags Tracking
// @Produce json
// @Param reference path string true "Reference number"
// @Success 200 {object} response.Envelope
// @Router /requests/track/{reference} [get]
func (h *TrackingHandler) Track(c *gin.Context) {
	view, err := h.service.Track(c.Request.Context(), c.Param("reference"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// List godoc
// @Summary List submitted requests for registrar staff
// @Tags Tracking
// @Produce json
// @Param status query string false "Workflow status filter"
// @Param search query string false "Reference, surname or email search"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /requests [get]
func (h *TrackingHandler) List(c *gin.Context) {
	filter := models.TrackedRequestFilter{
		Search: c.Query("search"),
		Status: models.RequestStatus(c.Query("status")),
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "20")); err == nil {
		filter.PageSize = pageSize
	}

	requests, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, requests, pagination)
}

// UpdateStatus godoc
// @Summary Move a request to a new workflow status
// @Tags Tracking
// @Accept json
// @Produce json
// @Param reference path string true "Reference number"
// @Param payload body dto.UpdateStatusRequest true "New status"
// @Success 200 {object} response.Envelope
// @Router /requests/{reference}/status [patch]
func (h *TrackingHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "status is required"))
		return
	}

	view, err := h.service.UpdateStatus(c.Request.Context(), c.Param("reference"), models.RequestStatus(req.Status))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}
