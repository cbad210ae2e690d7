package services

import (
	"time"

	"github.com/schoolbook/marksdesk/internal/pkg/apperrors"
)

// Services defined in this package:
// - AuthService: login, token checks and admin account creation
// - StudentService: the student registry, including ID allocation and profiles
// - MarksService: the marks ledger, including subject soft-delete and summary statistics

// Result caps applied to listings
const (
	StudentListLimit  = 1000
	MarksListLimit    = 1000
	StudentMarksLimit = 100
)

// Clock returns the current time. Services stamp records with it.
type Clock func() time.Time

func utcNow() time.Time {
	return time.Now().UTC()
}

func studentNotFound(key string) error {
	return apperrors.NewResourceNotFoundError(apperrors.ErrStudentNotFound, "Student not found: "+key)
}

func marksNotFound(id string) error {
	return apperrors.NewResourceNotFoundError(apperrors.ErrMarksNotFound, "Marks not found: "+id)
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
