package dto

import "github.com/spc-registrar/portal-api/internal/models"

// ReferenceData bundles the four lookup lists the wizard form needs.
type ReferenceData struct {
	Documents   []models.DocumentType `json:"documents"`
	Purposes    []models.Purpose      `json:"purposes"`
	Departments []models.Department   `json:"departments"`
	Courses     []models.Course       `json:"courses"`
}
