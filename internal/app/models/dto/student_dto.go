package dto

import "github.com/schoolbook/marksdesk/internal/app/models"

// CreateStudentRequest represents the input for registering a student.
// The student ID is allocated by the registry.
type CreateStudentRequest struct {
	Name          string   `json:"name" binding:"required,min=2,max=100" example:"Kamal Perera"`
	Grade         string   `json:"grade" binding:"required,min=1,max=10" example:"10"`
	MobileNumbers []string `json:"mobileNumbers" binding:"omitempty,dive,mobile" example:"+94 77 123 4567"`
}

// UpdateStudentRequest is a partial update. Absent fields are left untouched.
type UpdateStudentRequest struct {
	Name          *string   `json:"name,omitempty" binding:"omitnil,min=2,max=100"`
	Grade         *string   `json:"grade,omitempty" binding:"omitnil,min=1,max=10"`
	MobileNumbers *[]string `json:"mobileNumbers,omitempty" binding:"omitnil,dive,mobile"`
	IsActive      *bool     `json:"isActive,omitempty"`
}

// ToPatch converts the request into a store patch
func (r *UpdateStudentRequest) ToPatch() models.StudentPatch {
	return models.StudentPatch{
		Name:          r.Name,
		Grade:         r.Grade,
		MobileNumbers: r.MobileNumbers,
		IsActive:      r.IsActive,
	}
}

// StudentListQuery holds the query parameters of the student listing
type StudentListQuery struct {
	Search     string `form:"search"`
	Grade      string `form:"grade"`
	ActiveOnly *bool  `form:"active_only"`
}

// ProfileStatistics summarizes the active marks of one student
type ProfileStatistics struct {
	TotalSubjects int64   `json:"totalSubjects" example:"7"`
	AverageMark   float64 `json:"averageMark" example:"72.45"`
	TotalTerms    int     `json:"totalTerms" example:"2"`
}

// StudentProfileResponse is a student with its active marks and statistics
type StudentProfileResponse struct {
	Student    *models.Student       `json:"student"`
	Marks      []*models.MarksRecord `json:"marks"`
	Statistics ProfileStatistics     `json:"statistics"`
}
