package dto

import "time"

// TrackedRequestView is the public tracking projection of a submitted
// request. It deliberately omits requester contact details.
type TrackedRequestView struct {
	ReferenceNumber string    `json:"reference_number"`
	RequestNo       string    `json:"request_no"`
	RequesterName   string    `json:"requester_name"`
	Purpose         string    `json:"purpose"`
	TotalAmount     float64   `json:"total_amount"`
	Status          string    `json:"status"`
	SubmittedAt     time.Time `json:"submitted_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// UpdateStatusRequest moves a tracked request through the registrar workflow.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending processing ready released declined"`
}
