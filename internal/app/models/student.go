package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// StudentIDPrefix is the fixed prefix of every business key
const StudentIDPrefix = "STU-"

// FormatStudentID renders an allocated sequence number as a business key,
// zero-padded to three digits: 1 -> STU-001, 100 -> STU-100, 1000 -> STU-1000.
func FormatStudentID(n int64) string {
	return fmt.Sprintf("%s%03d", StudentIDPrefix, n)
}

// Student defines the student model based on the 'students' table.
// StudentID is the business key and never changes once assigned;
// StudentNumber is its numeric part, used for ordering.
type Student struct {
	ID            uuid.UUID `json:"id" db:"id"`
	StudentID     string    `json:"studentId" db:"student_id"`
	StudentNumber int64     `json:"-" db:"student_number"`
	Name          string    `json:"name" db:"name"`
	Grade         string    `json:"grade" db:"grade"`
	MobileNumbers []string  `json:"mobileNumbers" db:"mobile_numbers"`
	IsActive      bool      `json:"isActive" db:"is_active"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

// StudentFilter selects students for listing
type StudentFilter struct {
	Search     string
	Grade      string
	ActiveOnly bool
	Limit      uint64
}

// StudentPatch holds the fields of a partial update. Nil fields are left untouched.
type StudentPatch struct {
	Name          *string
	Grade         *string
	MobileNumbers *[]string
	IsActive      *bool
}

// IsEmpty reports whether the patch changes no field
func (p StudentPatch) IsEmpty() bool {
	return p.Name == nil && p.Grade == nil && p.MobileNumbers == nil && p.IsActive == nil
}
