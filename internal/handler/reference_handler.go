package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spc-registrar/portal-api/internal/bus"
	"github.com/spc-registrar/portal-api/internal/dto"
	"github.com/spc-registrar/portal-api/internal/models"
	"github.com/spc-registrar/portal-api/pkg/response"
)

type referenceLoader interface {
	Documents(ctx context.Context) []models.DocumentType
	Purposes(ctx context.Context) []models.Purpose
	Departments(ctx context.Context) []models.Department
	Courses(ctx context.Context) []models.Course
	RefreshDocuments(ctx context.Context) []models.DocumentType
}

// ReferenceHandler serves the dropdown reference data backing the form step.
type ReferenceHandler struct {
	loader referenceLoader
	events *bus.Bus
}

// NewReferenceHandler constructs the handler.
func NewReferenceHandler(loader referenceLoader, events *bus.Bus) *ReferenceHandler {
	return &ReferenceHandler{loader: loader, events: events}
}

// Documents godoc
// @Summary List requestable document types
// @Tags Reference
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reference/documents [get]
func (h *ReferenceHandler) Documents(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.loader.Documents(c.Request.Context()), nil)
}

// Purposes godoc
// @Summary List purposes of request
// @Tags Reference
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reference/purposes [get]
func (h *ReferenceHandler) Purposes(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.loader.Purposes(c.Request.Context()), nil)
}

// Departments godoc
// @Summary List college departments
// @Tags Reference
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reference/departments [get]
func (h *ReferenceHandler) Departments(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.loader.Departments(c.Request.Context()), nil)
}

// Courses godoc
// @Summary List courses
// @Tags Reference
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reference/courses [get]
func (h *ReferenceHandler) Courses(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.loader.Courses(c.Request.Context()), nil)
}

// All godoc
// @Summary Fetch all reference data in one call
// @Tags Reference
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reference [get]
func (h *ReferenceHandler) All(c *gin.Context) {
	ctx := c.Request.Context()
	bundle := dto.ReferenceData{
		Documents:   h.loader.Documents(ctx),
		Purposes:    h.loader.Purposes(ctx),
		Departments: h.loader.Departments(ctx),
		Courses:     h.loader.Courses(ctx),
	}
	response.JSON(c, http.StatusOK, bundle, nil)
}

// RefreshDocuments godoc
// @Summary Invalidate and refetch the document catalogue
// @Tags Reference
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reference/documents/refresh [post]
func (h *ReferenceHandler) RefreshDocuments(c *gin.Context) {
	var docs []models.DocumentType
	if h.events != nil {
		// Publish is synchronous; the loader's bus watcher refetches the
		// catalogue before Documents reads it back.
		h.events.Publish(bus.Event{Topic: bus.TopicDocumentsUpdated})
		docs = h.loader.Documents(c.Request.Context())
	} else {
		docs = h.loader.RefreshDocuments(c.Request.Context())
	}
	response.JSON(c, http.StatusOK, docs, nil)
}
