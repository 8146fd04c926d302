package refdata

import "github.com/spc-registrar/portal-api/internal/models"

// Hardcoded fallback lists keep the wizard usable when the registrar system
// is unreachable. They mirror the catalogue as last published by the
// registrar's office.

func fallbackDocuments() []models.DocumentType {
	return []models.DocumentType{
		{ID: 1, Name: "Transcript of Records", Price: 70, SemesterWaived: true},
		{ID: 2, Name: "Diploma", Price: 500, SemesterWaived: true},
		{ID: 3, Name: "Certificate of Graduation", Price: 75, SemesterWaived: true},
		{ID: 4, Name: "Certificate of Enrollment", Price: 75},
		{ID: 5, Name: "Certificate of Good Moral Character", Price: 75},
		{ID: 6, Name: "Form 137", Price: 100},
		{ID: 7, Name: "Course Description", Price: 100},
		{ID: 8, Name: "Honorable Dismissal", Price: 150},
		{ID: 9, Name: "Certification, Authentication and Verification (CAV)", Price: 120},
	}
}

func fallbackPurposes() []models.Purpose {
	return []models.Purpose{
		{ID: 1, Name: "Employment"},
		{ID: 2, Name: "Board Examination"},
		{ID: 3, Name: "Further Studies"},
		{ID: 4, Name: "Scholarship"},
		{ID: 5, Name: "Transfer to Another School"},
		{ID: 6, Name: "Evaluation"},
		{ID: 7, Name: models.PurposeOtherSentinel},
	}
}

func fallbackDepartments() []models.Department {
	return []models.Department{
		{ID: 1, Name: "College of Arts and Sciences"},
		{ID: 2, Name: "College of Business Administration and Accountancy"},
		{ID: 3, Name: "College of Computer Studies"},
		{ID: 4, Name: "College of Education"},
		{ID: 5, Name: "College of Nursing"},
		{ID: 6, Name: "Graduate School"},
		{ID: 7, Name: "Basic Education Department"},
	}
}

func fallbackCourses() []models.Course {
	return []models.Course{
		{ID: 1, Name: "BS Computer Science", DepartmentID: 3},
		{ID: 2, Name: "BS Information Technology", DepartmentID: 3},
		{ID: 3, Name: "BS Accountancy", DepartmentID: 2},
		{ID: 4, Name: "BS Business Administration", DepartmentID: 2},
		{ID: 5, Name: "BS Nursing", DepartmentID: 5},
		{ID: 6, Name: "Bachelor of Elementary Education", DepartmentID: 4},
		{ID: 7, Name: "Bachelor of Secondary Education", DepartmentID: 4},
		{ID: 8, Name: "AB Communication", DepartmentID: 1},
		{ID: 9, Name: "Master of Arts in Education", DepartmentID: 6},
		{ID: 10, Name: "Master in Business Administration", DepartmentID: 6},
	}
}
