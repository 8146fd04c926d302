package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/spc-registrar/portal-api/internal/models"
)

// RequestRepository persists submitted document requests for tracking.
type RequestRepository struct {
	db *sqlx.DB
}

// NewRequestRepository constructs the repository.
func NewRequestRepository(db *sqlx.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

// Insert records a freshly submitted request with status pending.
func (r *RequestRepository) Insert(ctx context.Context, req *models.TrackedRequest) error {
	const query = `INSERT INTO tracked_requests
(request_id, request_no, reference_number, requester_type, surname, first_name, email, purpose, total_amount, status, submitted_at, updated_at)
VALUES (:request_id, :request_no, :reference_number, :requester_type, :surname, :first_name, :email, :purpose, :total_amount, :status, :submitted_at, :updated_at)`

	now := time.Now().UTC()
	if req.SubmittedAt.IsZero() {
		req.SubmittedAt = now
	}
	req.UpdatedAt = now
	if req.Status == "" {
		req.Status = models.StatusPending
	}

	if _, err := r.db.NamedExecContext(ctx, query, req); err != nil {
		return fmt.Errorf("insert tracked request: %w", err)
	}
	return nil
}

// FindByReference fetches one request by its reference number.
func (r *RequestRepository) FindByReference(ctx context.Context, reference string) (*models.TrackedRequest, error) {
	const query = `SELECT id, request_id, request_no, reference_number, requester_type, surname, first_name, email, purpose, total_amount, status, submitted_at, updated_at
FROM tracked_requests WHERE reference_number = $1`

	var req models.TrackedRequest
	if err := r.db.GetContext(ctx, &req, query, reference); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find tracked request %s: %w", reference, err)
	}
	return &req, nil
}

// UpdateStatus moves a request to a new workflow status. Returns
// sql.ErrNoRows when the reference is unknown.
func (r *RequestRepository) UpdateStatus(ctx context.Context, reference string, status models.RequestStatus) error {
	const query = `UPDATE tracked_requests SET status = $1, updated_at = $2 WHERE reference_number = $3`

	result, err := r.db.ExecContext(ctx, query, status, time.Now().UTC(), reference)
	if err != nil {
		return fmt.Errorf("update tracked request status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update tracked request status: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// List returns requests for the staff work queue, newest first.
func (r *RequestRepository) List(ctx context.Context, filter models.TrackedRequestFilter) ([]models.TrackedRequest, int, error) {
	conditions := []string{"1=1"}
	args := map[string]interface{}{}

	if filter.Status != "" {
		conditions = append(conditions, "status = :status")
		args["status"] = filter.Status
	}
	if filter.Search != "" {
		conditions = append(conditions, "(reference_number ILIKE :search OR surname ILIKE :search OR email ILIKE :search)")
		args["search"] = "%" + filter.Search + "%"
	}

	where := strings.Join(conditions, " AND ")

	countQuery := "SELECT COUNT(*) FROM tracked_requests WHERE " + where
	rows, err := r.db.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, fmt.Errorf("count tracked requests: %w", err)
	}
	var total int
	if rows.Next() {
		if err := rows.Scan(&total); err != nil {
			rows.Close()
			return nil, 0, fmt.Errorf("count tracked requests: %w", err)
		}
	}
	rows.Close()

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	args["limit"] = pageSize
	args["offset"] = (page - 1) * pageSize

	listQuery := `SELECT id, request_id, request_no, reference_number, requester_type, surname, first_name, email, purpose, total_amount, status, submitted_at, updated_at
FROM tracked_requests WHERE ` + where + ` ORDER BY submitted_at DESC LIMIT :limit OFFSET :offset`

	listRows, err := r.db.NamedQueryContext(ctx, listQuery, args)
	if err != nil {
		return nil, 0, fmt.Errorf("list tracked requests: %w", err)
	}
	defer listRows.Close()

	var requests []models.TrackedRequest
	for listRows.Next() {
		var req models.TrackedRequest
		if err := listRows.StructScan(&req); err != nil {
			return nil, 0, fmt.Errorf("scan tracked request: %w", err)
		}
		requests = append(requests, req)
	}
	return requests, total, nil
}
