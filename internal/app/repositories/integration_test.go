//go:build integration

package repositories_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/schoolbook/marksdesk/internal/app/migrations"
	"github.com/schoolbook/marksdesk/internal/app/models"
	"github.com/schoolbook/marksdesk/internal/app/repositories"
	"github.com/schoolbook/marksdesk/internal/config"
	"github.com/schoolbook/marksdesk/internal/db"
	"github.com/schoolbook/marksdesk/internal/testutil"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "marksdesk_test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/marksdesk_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

// connect opens a pool on a freshly migrated, emptied schema
func connect(t *testing.T) *repositories.Repositories {
	t.Helper()
	ctx := context.Background()

	pg, err := db.NewPostgresDB(ctx, config.DatabaseConfig{URL: dsn, MaxConns: 10})
	require.NoError(t, err)
	t.Cleanup(pg.Close)

	require.NoError(t, migrations.NewMigrator(pg.Pool, testutil.MakeNoopLogger()).Up(ctx))
	_, err = pg.Pool.Exec(ctx, `TRUNCATE marks, students, id_counters, users`)
	require.NoError(t, err)

	return repositories.NewRepositories(pg.Pool)
}

func newStudent(t *testing.T, repo *repositories.StudentRepository, name, grade string) *models.Student {
	t.Helper()
	ctx := context.Background()
	n, err := repo.NextStudentNumber(ctx)
	require.NoError(t, err)
	now := time.Now().UTC().Truncate(time.Microsecond)
	s := &models.Student{
		ID:            uuid.New(),
		StudentID:     models.FormatStudentID(n),
		StudentNumber: n,
		Name:          name,
		Grade:         grade,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, repo.Create(ctx, s))
	return s
}

func TestMigrator_Idempotent(t *testing.T) {
	ctx := context.Background()
	pg, err := db.NewPostgresDB(ctx, config.DatabaseConfig{URL: dsn})
	require.NoError(t, err)
	defer pg.Close()

	m := migrations.NewMigrator(pg.Pool, testutil.MakeNoopLogger())
	require.NoError(t, m.Up(ctx))
	require.NoError(t, m.Up(ctx))
	version, err := m.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repos := connect(t)
	users := repos.UserRepository

	u := &models.User{
		ID:           uuid.New(),
		Username:     "Admin",
		PasswordHash: "hash",
		Role:         models.RoleAdmin,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, users.Create(ctx, u))

	dup := *u
	dup.ID = uuid.New()
	assert.ErrorIs(t, users.Create(ctx, &dup), repositories.ErrDuplicate)

	got, err := users.GetActiveByUsername(ctx, "Admin")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = users.GetByUsername(ctx, "admin")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestStudentRepository_ConcurrentAllocation(t *testing.T) {
	ctx := context.Background()
	repos := connect(t)

	const n = 40
	numbers := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := repos.StudentRepository.NextStudentNumber(ctx)
			assert.NoError(t, err)
			numbers <- v
		}()
	}
	wg.Wait()
	close(numbers)

	seen := make(map[int64]bool, n)
	for v := range numbers {
		assert.False(t, seen[v])
		seen[v] = true
	}
	for i := int64(1); i <= n; i++ {
		assert.True(t, seen[i], "missing %d", i)
	}
}

func TestStudentRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repos := connect(t)
	students := repos.StudentRepository

	kamal := newStudent(t, students, "Kamal Perera", "10")
	newStudent(t, students, "Nimali Fernando", "11")
	newStudent(t, students, "50% Club", "10")

	byKey, err := students.GetByStudentID(ctx, kamal.StudentID)
	require.NoError(t, err)
	assert.Equal(t, kamal.ID, byKey.ID)
	assert.Equal(t, []string{}, byKey.MobileNumbers)

	byID, err := students.GetByID(ctx, kamal.ID)
	require.NoError(t, err)
	assert.Equal(t, byKey, byID)

	found, err := students.List(ctx, models.StudentFilter{Search: "PER", ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "STU-001", found[0].StudentID)

	literal, err := students.List(ctx, models.StudentFilter{Search: "%", ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, literal, 1)
	assert.Equal(t, "50% Club", literal[0].Name)

	mobiles := []string{"+94 77 123 4567"}
	inactive := false
	updated, err := students.Update(ctx, kamal.ID, models.StudentPatch{MobileNumbers: &mobiles, IsActive: &inactive}, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, mobiles, updated.MobileNumbers)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "Kamal Perera", updated.Name)

	active, err := students.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), active)

	grade10, err := students.List(ctx, models.StudentFilter{Grade: "10"})
	require.NoError(t, err)
	require.Len(t, grade10, 2)
	assert.Equal(t, "STU-001", grade10[0].StudentID)
	assert.Equal(t, "STU-003", grade10[1].StudentID)

	_, err = students.Update(ctx, uuid.New(), models.StudentPatch{IsActive: &inactive}, time.Now())
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestMarksRepository(t *testing.T) {
	ctx := context.Background()
	repos := connect(t)
	marks := repos.MarksRepository
	student := newStudent(t, repos.StudentRepository, "Kamal Perera", "10")

	now := time.Now().UTC()
	record := &models.MarksRecord{
		ID:        uuid.New(),
		StudentID: student.StudentID,
		Term:      "Term 1",
		Year:      2024,
		Subjects: []models.SubjectMark{
			{SubjectName: "Math", Mark: 80, IsActive: true},
			{SubjectName: "Science", Mark: 60, IsActive: true},
			{SubjectName: "English", Mark: 70, IsActive: true},
		},
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, marks.Create(ctx, record))

	dup := *record
	dup.ID = uuid.New()
	assert.ErrorIs(t, marks.Create(ctx, &dup), repositories.ErrDuplicate)

	exists, err := marks.ExistsByKey(ctx, student.StudentID, "Term 1", 2024)
	require.NoError(t, err)
	assert.True(t, exists)

	older := &models.MarksRecord{
		ID: uuid.New(), StudentID: student.StudentID, Term: "Term 2", Year: 2023,
		Subjects: []models.SubjectMark{}, IsActive: true, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, marks.Create(ctx, older))

	listed, err := marks.List(ctx, models.MarksFilter{StudentID: student.StudentID, ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, 2024, listed[0].Year)
	assert.Equal(t, 2023, listed[1].Year)

	updated, err := marks.ModifySubjects(ctx, record.ID, time.Now().UTC(), func(r *models.MarksRecord) error {
		r.DeactivateSubject("science")
		return nil
	})
	require.NoError(t, err)
	assert.True(t, updated.Subjects[0].IsActive)
	assert.False(t, updated.Subjects[1].IsActive)
	assert.True(t, updated.Subjects[2].IsActive)

	agg, err := marks.Aggregate(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.MarksAggregate{Records: 2, SubjectEntries: 2, MarkSum: 150}, agg)

	year := 2024
	term := "Term 1"
	_, err = marks.Update(ctx, older.ID, models.MarksPatch{Term: &term, Year: &year}, time.Now().UTC())
	assert.ErrorIs(t, err, repositories.ErrDuplicate)

	inactive := false
	_, err = marks.Update(ctx, older.ID, models.MarksPatch{IsActive: &inactive}, time.Now().UTC())
	require.NoError(t, err)

	terms, err := marks.DistinctTerms(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Term 1", "Term 2"}, terms)

	years, err := marks.DistinctYears(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{2024, 2023}, years)

	agg, err = marks.Aggregate(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), agg.Records)
}

func TestMarksRepository_LegacySubjects(t *testing.T) {
	ctx := context.Background()
	pg, err := db.NewPostgresDB(ctx, config.DatabaseConfig{URL: dsn})
	require.NoError(t, err)
	defer pg.Close()
	repos := connect(t)
	student := newStudent(t, repos.StudentRepository, "Kamal Perera", "10")

	id := uuid.New()
	_, err = pg.Pool.Exec(ctx,
		`INSERT INTO marks (id, student_id, term, year, subjects) VALUES ($1, $2, 'Term 1', 2024, $3::jsonb)`,
		id, student.StudentID, `[{"subjectName":"Math","mark":90}]`)
	require.NoError(t, err)

	got, err := repos.MarksRepository.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []models.SubjectMark{{SubjectName: "Math", Mark: 90, IsActive: true}}, got.Subjects)

	agg, err := repos.MarksRepository.Aggregate(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), agg.SubjectEntries)
	assert.Equal(t, 90.0, agg.MarkSum)
}
