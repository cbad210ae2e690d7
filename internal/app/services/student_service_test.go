package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolbook/marksdesk/internal/app/models/dto"
	"github.com/schoolbook/marksdesk/internal/pkg/apperrors"
)

func createStudent(t *testing.T, f *fixture, name, grade string) string {
	t.Helper()
	st, err := f.students.Create(context.Background(), &dto.CreateStudentRequest{Name: name, Grade: grade})
	require.NoError(t, err)
	return st.StudentID
}

func TestStudent_Create_AllocatesSequentialIDs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 1; i <= 101; i++ {
		st, err := f.students.Create(ctx, &dto.CreateStudentRequest{Name: fmt.Sprintf("Student %d", i), Grade: "9"})
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("STU-%03d", i), st.StudentID)
		assert.True(t, st.IsActive)
		assert.NotNil(t, st.MobileNumbers)
	}

	all, err := f.students.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 101)
	assert.Equal(t, "STU-099", all[98].StudentID)
	assert.Equal(t, "STU-100", all[99].StudentID)
	assert.Equal(t, "STU-101", all[100].StudentID)
}

func TestStudent_Create_CounterRollover(t *testing.T) {
	f := newFixture(t)
	f.studentRepo.SetCounter(98)

	assert.Equal(t, "STU-099", createStudent(t, f, "Kamal Perera", "10"))
	assert.Equal(t, "STU-100", createStudent(t, f, "Nimali Fernando", "10"))
}

func TestStudent_AllocateNextID_Concurrent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const n = 50
	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := f.students.AllocateNextID(ctx)
			assert.NoError(t, err)
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool, n)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	for i := 1; i <= n; i++ {
		assert.True(t, seen[fmt.Sprintf("STU-%03d", i)])
	}
}

func TestStudent_Create_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		req   dto.CreateStudentRequest
		field string
	}{
		{"short name", dto.CreateStudentRequest{Name: "A", Grade: "10"}, "name"},
		{"missing grade", dto.CreateStudentRequest{Name: "Kamal Perera"}, "grade"},
		{"long grade", dto.CreateStudentRequest{Name: "Kamal Perera", Grade: "12345678901"}, "grade"},
		{"bad mobile", dto.CreateStudentRequest{Name: "Kamal Perera", Grade: "10", MobileNumbers: []string{"+94 77 123 4567", "abc"}}, "mobileNumbers[1]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := f.students.Create(ctx, &tt.req)
			assert.Nil(t, st)
			require.ErrorIs(t, err, apperrors.ErrValidationFailed)
			fields := apperrors.FieldsOf(err)
			require.Len(t, fields, 1)
			assert.Equal(t, tt.field, fields[0].Field)
		})
	}

	count, err := f.studentRepo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestStudent_Get_DualResolution(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	key := createStudent(t, f, "Kamal Perera", "10")

	byKey, err := f.students.Get(ctx, key)
	require.NoError(t, err)
	byID, err := f.students.Get(ctx, byKey.ID.String())
	require.NoError(t, err)
	assert.Equal(t, byKey, byID)
}

func TestStudent_Get_NotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	createStudent(t, f, "Kamal Perera", "10")

	for _, key := range []string{"STU-999", "not-a-uuid", "3f1c2d1e-0000-4000-8000-000000000000"} {
		t.Run(key, func(t *testing.T) {
			_, err := f.students.Get(ctx, key)
			assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
			assert.NotErrorIs(t, err, apperrors.ErrInvalidID)
			assert.Equal(t, "Student not found: "+key, err.Error())
		})
	}
}

func TestStudent_Update_Partial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.students.Create(ctx, &dto.CreateStudentRequest{
		Name:          "Kamal Perera",
		Grade:         "10",
		MobileNumbers: []string{"0771234567"},
	})
	require.NoError(t, err)

	later := created.UpdatedAt.Add(time.Minute)
	f.students.(*studentServiceImpl).now = func() time.Time { return later }

	updated, err := f.students.Update(ctx, created.StudentID, &dto.UpdateStudentRequest{Name: ptr("Kamal Silva")})
	require.NoError(t, err)
	assert.Equal(t, "Kamal Silva", updated.Name)
	assert.Equal(t, "10", updated.Grade)
	assert.Equal(t, []string{"0771234567"}, updated.MobileNumbers)
	assert.Equal(t, created.StudentID, updated.StudentID)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, later, updated.UpdatedAt)

	_, err = f.students.Update(ctx, created.StudentID, &dto.UpdateStudentRequest{Grade: ptr("")})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = f.students.Update(ctx, "STU-404", &dto.UpdateStudentRequest{Name: ptr("Someone")})
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestStudent_SoftDelete_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	key := createStudent(t, f, "Kamal Perera", "10")
	createStudent(t, f, "Nimali Fernando", "11")

	first, err := f.students.SoftDelete(ctx, key)
	require.NoError(t, err)
	assert.False(t, first.IsActive)

	second, err := f.students.SoftDelete(ctx, key)
	require.NoError(t, err)
	assert.False(t, second.IsActive)

	active, err := f.students.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "STU-002", active[0].StudentID)

	everyone, err := f.students.List(ctx, &dto.StudentListQuery{ActiveOnly: ptr(false)})
	require.NoError(t, err)
	assert.Len(t, everyone, 2)

	stillThere, err := f.students.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, stillThere.IsActive)

	reactivated, err := f.students.Update(ctx, key, &dto.UpdateStudentRequest{IsActive: ptr(true)})
	require.NoError(t, err)
	assert.True(t, reactivated.IsActive)
}

func TestStudent_List_Filters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	createStudent(t, f, "Kamal Perera", "10")
	createStudent(t, f, "Nimali Fernando", "11")
	createStudent(t, f, "Ruwan Jayasuriya", "10")

	tests := []struct {
		name  string
		query dto.StudentListQuery
		want  []string
	}{
		{"no filter", dto.StudentListQuery{}, []string{"STU-001", "STU-002", "STU-003"}},
		{"name substring", dto.StudentListQuery{Search: "PER"}, []string{"STU-001"}},
		{"id substring", dto.StudentListQuery{Search: "stu-002"}, []string{"STU-002"}},
		{"grade", dto.StudentListQuery{Grade: "10"}, []string{"STU-001", "STU-003"}},
		{"search and grade", dto.StudentListQuery{Search: "a", Grade: "11"}, []string{"STU-002"}},
		{"wildcard is literal", dto.StudentListQuery{Search: "%"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.students.List(ctx, &tt.query)
			require.NoError(t, err)
			ids := make([]string, 0, len(got))
			for _, s := range got {
				ids = append(ids, s.StudentID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestStudent_Profile_Statistics(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	key := createStudent(t, f, "Kamal Perera", "10")

	record, err := f.marks.Create(ctx, &dto.CreateMarksRequest{
		StudentID: key,
		Term:      "Term 1",
		Year:      2024,
		Subjects:  []dto.SubjectMarkInput{subject("Math", 80), subject("Science", 60)},
	})
	require.NoError(t, err)

	retired, err := f.marks.Create(ctx, &dto.CreateMarksRequest{
		StudentID: key,
		Term:      "Term 2",
		Year:      2024,
		Subjects:  []dto.SubjectMarkInput{subject("Math", 10)},
	})
	require.NoError(t, err)
	_, err = f.marks.SoftDelete(ctx, retired.ID.String())
	require.NoError(t, err)

	profile, err := f.students.Profile(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, key, profile.Student.StudentID)
	require.Len(t, profile.Marks, 1)
	assert.Equal(t, dto.ProfileStatistics{TotalSubjects: 2, AverageMark: 70, TotalTerms: 1}, profile.Statistics)

	_, err = f.marks.SoftDeleteSubject(ctx, record.ID.String(), "Science")
	require.NoError(t, err)

	profile, err = f.students.Profile(ctx, profile.Student.ID.String())
	require.NoError(t, err)
	assert.Equal(t, dto.ProfileStatistics{TotalSubjects: 1, AverageMark: 80, TotalTerms: 1}, profile.Statistics)
}

func TestStudent_Profile_NoMarks(t *testing.T) {
	f := newFixture(t)
	key := createStudent(t, f, "Kamal Perera", "10")

	profile, err := f.students.Profile(context.Background(), key)
	require.NoError(t, err)
	assert.Empty(t, profile.Marks)
	assert.Equal(t, dto.ProfileStatistics{}, profile.Statistics)

	_, err = f.students.Profile(context.Background(), "STU-404")
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}

func TestStudent_Update_LastWriteWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	key := createStudent(t, f, "Kamal Perera", "10")

	names := []string{"Kamal Silva", "Kamal Dias"}
	var wg sync.WaitGroup
	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			_, err := f.students.Update(ctx, key, &dto.UpdateStudentRequest{Name: ptr(name)})
			assert.NoError(t, err)
		}(name)
	}
	wg.Wait()

	final, err := f.students.Get(ctx, key)
	require.NoError(t, err)
	assert.Contains(t, names, final.Name)
}
