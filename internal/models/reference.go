package models

import "strings"

// DocumentType is a requestable document as configured by the registrar.
type DocumentType struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	Price            float64 `json:"price"`
	SemesterWaived   bool    `json:"semester_waived"`
	AllowedSemesters string  `json:"allowed_semesters"`
}

// defaultSemesters is offered when the registrar does not restrict options.
var defaultSemesters = []string{"1st Semester", "2nd Semester", "Summer"}

// SemesterOptions returns the semester choices for the document type.
func (d DocumentType) SemesterOptions() []string {
	if d.SemesterWaived {
		return nil
	}
	if d.AllowedSemesters == "" {
		return defaultSemesters
	}
	return splitCSV(d.AllowedSemesters)
}

// Purpose is a fixed purpose-of-request option.
type Purpose struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Department is a college department offering courses.
type Department struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Course is a program of study under a department.
type Course struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	DepartmentID int64  `json:"department_id,omitempty"`
}

func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
