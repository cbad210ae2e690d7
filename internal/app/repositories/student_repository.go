package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/schoolbook/marksdesk/internal/app/models"
	"github.com/schoolbook/marksdesk/internal/pkg/dberrors"
	"github.com/schoolbook/marksdesk/internal/pkg/helpers"
)

// studentCounter is the id_counters row backing student ID allocation
const studentCounter = "students"

var studentColumns = []string{
	"id", "student_id", "student_number", "name", "grade", "mobile_numbers",
	"is_active", "created_at", "updated_at",
}

// StudentRepository handles database operations for students
type StudentRepository struct {
	db *pgxpool.Pool
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{db: db}
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	var s models.Student
	err := row.Scan(
		&s.ID, &s.StudentID, &s.StudentNumber, &s.Name, &s.Grade, &s.MobileNumbers,
		&s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if s.MobileNumbers == nil {
		s.MobileNumbers = []string{}
	}
	return &s, nil
}

// NextStudentNumber increments the student counter and returns the new value.
// The upsert is a single statement, so concurrent callers never share a number.
func (r *StudentRepository) NextStudentNumber(ctx context.Context) (int64, error) {
	sql, args, err := psql.Insert("id_counters").
		Columns("name", "value").
		Values(studentCounter, 1).
		Suffix("ON CONFLICT (name) DO UPDATE SET value = id_counters.value + 1 RETURNING value").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building student counter query: %w", err)
	}

	var next int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&next); err != nil {
		return 0, fmt.Errorf("error allocating student number: %w", err)
	}
	return next, nil
}

// Create inserts a new student. A reused student ID yields ErrDuplicate.
func (r *StudentRepository) Create(ctx context.Context, s *models.Student) error {
	mobiles := s.MobileNumbers
	if mobiles == nil {
		mobiles = []string{}
	}
	sql, args, err := psql.Insert("students").
		Columns(studentColumns...).
		Values(s.ID, s.StudentID, s.StudentNumber, s.Name, s.Grade, mobiles,
			s.IsActive, s.CreatedAt, s.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building create student query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsUniqueViolation(err, "") {
			return ErrDuplicate
		}
		return fmt.Errorf("error creating student: %w", err)
	}
	return nil
}

// GetByStudentID retrieves a student by business key
func (r *StudentRepository) GetByStudentID(ctx context.Context, studentID string) (*models.Student, error) {
	return r.getOne(ctx, squirrel.Eq{"student_id": studentID})
}

// GetByID retrieves a student by internal identifier
func (r *StudentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Student, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

func (r *StudentRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Student, error) {
	sql, args, err := psql.Select(studentColumns...).From("students").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building student query: %w", err)
	}
	s, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}
	return s, err
}

// List returns students matching filter ordered by student number
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]*models.Student, error) {
	q := psql.Select(studentColumns...).From("students").OrderBy("student_number ASC")

	if filter.ActiveOnly {
		q = q.Where(squirrel.Eq{"is_active": true})
	}
	if filter.Grade != "" {
		q = q.Where(squirrel.Eq{"grade": filter.Grade})
	}
	if filter.Search != "" {
		pattern := helpers.ContainsPattern(filter.Search)
		q = q.Where(squirrel.Or{
			squirrel.ILike{"student_id": pattern},
			squirrel.ILike{"name": pattern},
		})
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building list students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing students: %w", err)
	}
	defer rows.Close()

	students := make([]*models.Student, 0)
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning student: %w", err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating students: %w", err)
	}
	return students, nil
}

// Update applies patch to the student with the given id and returns the new row
func (r *StudentRepository) Update(ctx context.Context, id uuid.UUID, patch models.StudentPatch, updatedAt time.Time) (*models.Student, error) {
	q := psql.Update("students").Set("updated_at", updatedAt)
	if patch.Name != nil {
		q = q.Set("name", *patch.Name)
	}
	if patch.Grade != nil {
		q = q.Set("grade", *patch.Grade)
	}
	if patch.MobileNumbers != nil {
		mobiles := *patch.MobileNumbers
		if mobiles == nil {
			mobiles = []string{}
		}
		q = q.Set("mobile_numbers", mobiles)
	}
	if patch.IsActive != nil {
		q = q.Set("is_active", *patch.IsActive)
	}

	sql, args, err := q.Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns(studentColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building update student query: %w", err)
	}

	s, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("error updating student: %w", err)
	}
	return s, err
}

// CountActive counts students with the active flag set
func (r *StudentRepository) CountActive(ctx context.Context) (int64, error) {
	return r.count(ctx, squirrel.Eq{"is_active": true})
}

// Count counts all students
func (r *StudentRepository) Count(ctx context.Context) (int64, error) {
	return r.count(ctx, nil)
}

func (r *StudentRepository) count(ctx context.Context, where squirrel.Sqlizer) (int64, error) {
	q := psql.Select("count(*)").From("students")
	if where != nil {
		q = q.Where(where)
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building count students query: %w", err)
	}

	var n int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting students: %w", err)
	}
	return n, nil
}
