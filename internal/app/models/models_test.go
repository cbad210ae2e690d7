package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatStudentID(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{1, "STU-001"},
		{42, "STU-042"},
		{99, "STU-099"},
		{100, "STU-100"},
		{1000, "STU-1000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatStudentID(tt.n))
	}
}

func TestMarksRecord_ActiveSubjects(t *testing.T) {
	record := &MarksRecord{Subjects: []SubjectMark{
		{SubjectName: "Math", Mark: 80, IsActive: true},
		{SubjectName: "Science", Mark: 60, IsActive: false},
		{SubjectName: "English", Mark: 70, IsActive: true},
	}}

	count, sum := record.ActiveSubjects()
	assert.Equal(t, int64(2), count)
	assert.Equal(t, 150.0, sum)

	count, sum = (&MarksRecord{}).ActiveSubjects()
	assert.Zero(t, count)
	assert.Zero(t, sum)
}

func TestMarksRecord_DeactivateSubject(t *testing.T) {
	record := &MarksRecord{Subjects: []SubjectMark{
		{SubjectName: "Math", Mark: 80, IsActive: true},
		{SubjectName: "Science", Mark: 60, IsActive: true},
		{SubjectName: "science", Mark: 65, IsActive: true},
	}}

	assert.True(t, record.DeactivateSubject("SCIENCE"))
	assert.True(t, record.Subjects[0].IsActive)
	assert.False(t, record.Subjects[1].IsActive)
	assert.True(t, record.Subjects[2].IsActive)

	assert.False(t, record.DeactivateSubject("History"))
}

func TestPatches_IsEmpty(t *testing.T) {
	name := "Kamal"
	assert.True(t, StudentPatch{}.IsEmpty())
	assert.False(t, StudentPatch{Name: &name}.IsEmpty())
	assert.True(t, MarksPatch{}.IsEmpty())
	assert.False(t, MarksPatch{Term: &name}.IsEmpty())
}

func TestRoleType_Valid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, RoleType("STAFF").Valid())
}
