package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// SubjectMark is one subject entry inside a marks record
type SubjectMark struct {
	SubjectName string  `json:"subjectName"`
	Mark        float64 `json:"mark"`
	IsActive    bool    `json:"isActive"`
}

// MarksRecord defines the marks model based on the 'marks' table.
// One record holds the subject marks of a student for a term and year.
type MarksRecord struct {
	ID        uuid.UUID     `json:"id" db:"id"`
	StudentID string        `json:"studentId" db:"student_id"`
	Term      string        `json:"term" db:"term"`
	Year      int           `json:"year" db:"year"`
	Subjects  []SubjectMark `json:"subjects" db:"subjects"`
	IsActive  bool          `json:"isActive" db:"is_active"`
	CreatedAt time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time     `json:"updatedAt" db:"updated_at"`
}

// ActiveSubjects returns the count and sum of active subject marks
func (m *MarksRecord) ActiveSubjects() (count int64, sum float64) {
	for _, s := range m.Subjects {
		if s.IsActive {
			count++
			sum += s.Mark
		}
	}
	return count, sum
}

// DeactivateSubject flips the first subject whose name matches case-insensitively.
// It reports false when no subject matches.
func (m *MarksRecord) DeactivateSubject(name string) bool {
	for i := range m.Subjects {
		if strings.EqualFold(m.Subjects[i].SubjectName, name) {
			m.Subjects[i].IsActive = false
			return true
		}
	}
	return false
}

// MarksFilter selects marks records for listing
type MarksFilter struct {
	StudentID  string
	Term       string
	Year       *int
	ActiveOnly bool
	Limit      uint64
}

// MarksPatch holds the fields of a partial update. Subjects, when set, replace
// the whole list.
type MarksPatch struct {
	Term     *string
	Year     *int
	Subjects *[]SubjectMark
	IsActive *bool
}

// IsEmpty reports whether the patch changes no field
func (p MarksPatch) IsEmpty() bool {
	return p.Term == nil && p.Year == nil && p.Subjects == nil && p.IsActive == nil
}

// MarksAggregate is the store-side scan behind the summary statistics.
// Only active records and their active subjects are counted.
type MarksAggregate struct {
	Records        int64
	SubjectEntries int64
	MarkSum        float64
}
