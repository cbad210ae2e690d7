package dto

import "github.com/schoolbook/marksdesk/internal/app/models"

// SubjectMarkInput is one subject entry of a marks request. IsActive defaults to true.
type SubjectMarkInput struct {
	SubjectName string   `json:"subjectName" binding:"required,min=1,max=50" example:"Mathematics"`
	Mark        *float64 `json:"mark" binding:"required,gte=0,lte=100" example:"78.5"`
	IsActive    *bool    `json:"isActive,omitempty"`
}

// ToSubjectMarks converts validated inputs into model subjects, preserving order
func ToSubjectMarks(in []SubjectMarkInput) []models.SubjectMark {
	out := make([]models.SubjectMark, 0, len(in))
	for _, s := range in {
		sm := models.SubjectMark{SubjectName: s.SubjectName, IsActive: true}
		if s.Mark != nil {
			sm.Mark = *s.Mark
		}
		if s.IsActive != nil {
			sm.IsActive = *s.IsActive
		}
		out = append(out, sm)
	}
	return out
}

// CreateMarksRequest represents the input for recording a student's term marks
type CreateMarksRequest struct {
	StudentID string             `json:"studentId" binding:"required,studentid" example:"STU-001"`
	Term      string             `json:"term" binding:"required,min=1,max=20" example:"Term 1"`
	Year      int                `json:"year" binding:"required,gte=2000,lte=2100" example:"2024"`
	Subjects  []SubjectMarkInput `json:"subjects" binding:"omitempty,dive"`
}

// UpdateMarksRequest is a partial update. Subjects, when present, replace the
// stored list wholesale.
type UpdateMarksRequest struct {
	Term     *string             `json:"term,omitempty" binding:"omitnil,min=1,max=20"`
	Year     *int                `json:"year,omitempty" binding:"omitnil,gte=2000,lte=2100"`
	Subjects *[]SubjectMarkInput `json:"subjects,omitempty" binding:"omitnil,dive"`
	IsActive *bool               `json:"isActive,omitempty"`
}

// ToPatch converts the request into a store patch
func (r *UpdateMarksRequest) ToPatch() models.MarksPatch {
	patch := models.MarksPatch{
		Term:     r.Term,
		Year:     r.Year,
		IsActive: r.IsActive,
	}
	if r.Subjects != nil {
		subjects := ToSubjectMarks(*r.Subjects)
		patch.Subjects = &subjects
	}
	return patch
}

// MarksListQuery holds the query parameters of the marks listing
type MarksListQuery struct {
	Term       string `form:"term"`
	Year       *int   `form:"year"`
	ActiveOnly *bool  `form:"active_only"`
}

// StudentMarksQuery holds the query parameters of the per-student listing
type StudentMarksQuery struct {
	Term string `form:"term"`
	Year *int   `form:"year"`
}

// MarksSummaryResponse holds the aggregate marks statistics
type MarksSummaryResponse struct {
	TotalStudents       int64    `json:"totalStudents" example:"5"`
	TotalMarksRecords   int64    `json:"totalMarksRecords" example:"10"`
	AverageMark         float64  `json:"averageMark" example:"71.38"`
	TotalSubjectEntries int64    `json:"totalSubjectEntries" example:"36"`
	AvailableTerms      []string `json:"availableTerms"`
	AvailableYears      []int    `json:"availableYears"`
}
