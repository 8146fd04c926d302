package models

import "time"

// TrackedRequest is the persisted record of a submitted document request,
// backing the public tracking lookup and the staff work queue.
type TrackedRequest struct {
	ID              int64         `db:"id" json:"id"`
	RequestID       string        `db:"request_id" json:"request_id"`
	RequestNo       string        `db:"request_no" json:"request_no"`
	ReferenceNumber string        `db:"reference_number" json:"reference_number"`
	RequesterType   RequesterType `db:"requester_type" json:"requester_type"`
	Surname         string        `db:"surname" json:"surname"`
	FirstName       string        `db:"first_name" json:"first_name"`
	Email           string        `db:"email" json:"email"`
	Purpose         string        `db:"purpose" json:"purpose"`
	TotalAmount     float64       `db:"total_amount" json:"total_amount"`
	Status          RequestStatus `db:"status" json:"status"`
	SubmittedAt     time.Time     `db:"submitted_at" json:"submitted_at"`
	UpdatedAt       time.Time     `db:"updated_at" json:"updated_at"`
}

// TrackedRequestFilter encapsulates allowed parameters for the staff listing.
type TrackedRequestFilter struct {
	Search   string
	Status   RequestStatus
	Page     int
	PageSize int
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
