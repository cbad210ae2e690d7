package seed

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolbook/marksdesk/internal/app/models/dto"
	"github.com/schoolbook/marksdesk/internal/app/services"
	"github.com/schoolbook/marksdesk/internal/pkg/auth"
	"github.com/schoolbook/marksdesk/internal/pkg/validation"
	"github.com/schoolbook/marksdesk/internal/testutil"
)

type env struct {
	seeder   *Seeder
	auth     services.AuthService
	students services.StudentService
	marks    services.MarksService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	log := testutil.MakeNoopLogger()
	jwt, err := auth.NewJWTService(auth.JWTConfig{SecretKey: "seed-secret"})
	require.NoError(t, err)

	users := testutil.NewMemoryUserStore()
	registry := testutil.NewMemoryStudentStore()
	marksRepo := testutil.NewMemoryMarksStore()

	authSvc := services.NewAuthService(users, jwt, log)
	marks := services.NewMarksService(marksRepo, registry, log)
	students := services.NewStudentService(registry, marks, log)

	return &env{
		seeder:   NewSeeder(authSvc, students, marks, registry, rand.New(rand.NewPCG(1, 2)), log),
		auth:     authSvc,
		students: students,
		marks:    marks,
	}
}

var adminOnly = Options{AdminUsername: "Admin", AdminPassword: "Abc@12345"}

func TestRunCreatesAdminOnce(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	summary, err := e.seeder.Run(ctx, adminOnly)
	require.NoError(t, err)
	assert.True(t, summary.AdminCreated)
	assert.Zero(t, summary.StudentsCount)

	summary, err = e.seeder.Run(ctx, adminOnly)
	require.NoError(t, err)
	assert.False(t, summary.AdminCreated)

	resp, err := e.auth.Login(ctx, &dto.LoginRequest{Username: "Admin", Password: "Abc@12345"})
	require.NoError(t, err)
	assert.Equal(t, "ADMIN", string(resp.User.Role))
}

func TestRunSampleData(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	opts := adminOnly
	opts.SampleData = true

	summary, err := e.seeder.Run(ctx, opts)
	require.NoError(t, err)
	assert.Equal(t, len(StudentNames), summary.StudentsCount)
	assert.Equal(t, len(StudentNames)*len(Terms), summary.MarksCount)

	students, err := e.students.List(ctx, &dto.StudentListQuery{})
	require.NoError(t, err)
	require.Len(t, students, len(StudentNames))
	assert.Equal(t, "STU-001", students[0].StudentID)
	assert.Equal(t, "STU-005", students[4].StudentID)

	for _, st := range students {
		assert.Contains(t, Grades, st.Grade)
		require.Len(t, st.MobileNumbers, 2)
		for _, m := range st.MobileNumbers {
			assert.Regexp(t, validation.CompiledPatterns.Mobile, m)
			assert.Len(t, m, 10)
		}

		records, err := e.marks.ListForStudent(ctx, st.StudentID, &dto.StudentMarksQuery{})
		require.NoError(t, err)
		require.Len(t, records, 2)
		for _, r := range records {
			assert.Contains(t, Terms, r.Term)
			assert.GreaterOrEqual(t, len(r.Subjects), 3)
			assert.LessOrEqual(t, len(r.Subjects), 4)
			seen := map[string]bool{}
			for _, sub := range r.Subjects {
				assert.Contains(t, Subjects, sub.SubjectName)
				assert.False(t, seen[sub.SubjectName], "duplicate subject %s", sub.SubjectName)
				seen[sub.SubjectName] = true
				assert.GreaterOrEqual(t, sub.Mark, 45.0)
				assert.LessOrEqual(t, sub.Mark, 100.0)
				assert.InDelta(t, sub.Mark, float64(int(sub.Mark*10+0.5))/10, 1e-9)
			}
		}
	}

	// A populated registry is left alone.
	summary, err = e.seeder.Run(ctx, opts)
	require.NoError(t, err)
	assert.Zero(t, summary.StudentsCount)
	allocated, err := e.students.AllocateNextID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "STU-006", allocated)
}

type failingCounter struct{}

func (failingCounter) Count(context.Context) (int64, error) {
	return 0, errors.New("store down")
}

func TestRunCountFailure(t *testing.T) {
	e := newEnv(t)
	e.seeder.counter = failingCounter{}

	_, err := e.seeder.Run(context.Background(), Options{AdminUsername: "Admin", AdminPassword: "Abc@12345", SampleData: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store down")
}

func TestRunRejectsInvalidAdmin(t *testing.T) {
	e := newEnv(t)

	_, err := e.seeder.Run(context.Background(), Options{AdminUsername: "ab", AdminPassword: "Abc@12345"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to ensure admin user")
}
