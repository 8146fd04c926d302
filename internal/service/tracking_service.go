package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spc-registrar/portal-api/internal/bus"
	"github.com/spc-registrar/portal-api/internal/dto"
	"github.com/spc-registrar/portal-api/internal/models"
	appErrors "github.com/spc-registrar/portal-api/pkg/errors"
)

type trackedRequestStore interface {
	FindByReference(ctx context.Context, reference string) (*models.TrackedRequest, error)
	UpdateStatus(ctx context.Context, reference string, status models.RequestStatus) error
	List(ctx context.Context, filter models.TrackedRequestFilter) ([]models.TrackedRequest, int, error)
}

// TrackingService serves the public status lookup and the staff work queue
// over persisted submissions.
type TrackingService struct {
	repo   trackedRequestStore
	events *bus.Bus
	logger *zap.Logger
}

// NewTrackingService constructs a TrackingService.
func NewTrackingService(repo trackedRequestStore, events *bus.Bus, logger *zap.Logger) *TrackingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrackingService{repo: repo, events: events, logger: logger}
}

// Track returns the public view of one request by its reference number.
func (s *TrackingService) Track(ctx context.Context, reference string) (*dto.TrackedRequestView, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "reference number is required")
	}

	req, err := s.repo.FindByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no request found for that reference number")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "could not look up request")
	}
	view := publicView(req)
	return &view, nil
}

// List returns a page of tracked requests for registrar staff.
func (s *TrackingService) List(ctx context.Context, filter models.TrackedRequestFilter) ([]models.TrackedRequest, *models.Pagination, error) {
	if filter.Status != "" && !models.ValidStatus(filter.Status) {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status %q", filter.Status))
	}

	requests, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "could not list requests")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return requests, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// UpdateStatus moves a request to a new workflow status and notifies the
// dashboards.
func (s *TrackingService) UpdateStatus(ctx context.Context, reference string, status models.RequestStatus) (*dto.TrackedRequestView, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "reference number is required")
	}
	if !models.ValidStatus(status) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status %q", status))
	}

	if err := s.repo.UpdateStatus(ctx, reference, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no request found for that reference number")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "could not update request status")
	}

	s.logger.Info("request_status_updated",
		zap.String("reference_number", reference), zap.String("status", string(status)))

	if s.events != nil {
		s.events.Publish(bus.Event{Topic: bus.TopicStatsRefresh, Payload: bus.StatsRefreshPayload{Audience: "staff"}})
		s.events.Publish(bus.Event{Topic: bus.TopicStatsRefresh, Payload: bus.StatsRefreshPayload{Audience: "admin"}})
	}

	req, err := s.repo.FindByReference(ctx, reference)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "could not reload request")
	}
	view := publicView(req)
	return &view, nil
}

func publicView(req *models.TrackedRequest) dto.TrackedRequestView {
	return dto.TrackedRequestView{
		ReferenceNumber: req.ReferenceNumber,
		RequestNo:       req.RequestNo,
		RequesterName:   strings.TrimSpace(req.FirstName + " " + req.Surname),
		Purpose:         req.Purpose,
		TotalAmount:     req.TotalAmount,
		Status:          string(req.Status),
		SubmittedAt:     req.SubmittedAt,
		UpdatedAt:       req.UpdatedAt,
	}
}
