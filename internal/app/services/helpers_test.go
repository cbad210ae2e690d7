package services

import (
	"testing"

	"github.com/schoolbook/marksdesk/internal/app/models/dto"
	"github.com/schoolbook/marksdesk/internal/testutil"
)

func ptr[T any](v T) *T {
	return &v
}

type fixture struct {
	students    StudentService
	marks       MarksService
	studentRepo *testutil.MemoryStudentStore
	marksRepo   *testutil.MemoryMarksStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	studentRepo := testutil.NewMemoryStudentStore()
	marksRepo := testutil.NewMemoryMarksStore()
	log := testutil.MakeNoopLogger()
	marks := NewMarksService(marksRepo, studentRepo, log)
	return &fixture{
		students:    NewStudentService(studentRepo, marks, log),
		marks:       marks,
		studentRepo: studentRepo,
		marksRepo:   marksRepo,
	}
}

func subject(name string, mark float64) dto.SubjectMarkInput {
	return dto.SubjectMarkInput{SubjectName: name, Mark: ptr(mark)}
}
