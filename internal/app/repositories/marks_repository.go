package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/schoolbook/marksdesk/internal/app/models"
	"github.com/schoolbook/marksdesk/internal/db"
	"github.com/schoolbook/marksdesk/internal/pkg/dberrors"
)

var marksColumns = []string{
	"id", "student_id", "term", "year", "subjects", "is_active", "created_at", "updated_at",
}

// ErrCorruptSubjects is returned when a stored subjects document does not decode
var ErrCorruptSubjects = errors.New("stored subjects are malformed")

// storedSubject is the persisted form of a subject entry. Fields are pointers
// so missing keys can be told apart from zero values.
type storedSubject struct {
	SubjectName *string  `json:"subjectName"`
	Mark        *float64 `json:"mark"`
	IsActive    *bool    `json:"isActive,omitempty"`
}

func encodeSubjects(subjects []models.SubjectMark) ([]byte, error) {
	out := make([]storedSubject, 0, len(subjects))
	for i := range subjects {
		s := subjects[i]
		out = append(out, storedSubject{
			SubjectName: &s.SubjectName,
			Mark:        &s.Mark,
			IsActive:    &s.IsActive,
		})
	}
	return json.Marshal(out)
}

// decodeSubjects parses a stored subjects document. A missing isActive means
// active; a missing name or mark is rejected.
func decodeSubjects(raw []byte) ([]models.SubjectMark, error) {
	subjects := make([]models.SubjectMark, 0)
	if len(raw) == 0 || string(raw) == "null" {
		return subjects, nil
	}

	var stored []storedSubject
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSubjects, err)
	}
	for i, s := range stored {
		if s.SubjectName == nil || s.Mark == nil {
			return nil, fmt.Errorf("%w: entry %d lacks subjectName or mark", ErrCorruptSubjects, i)
		}
		active := true
		if s.IsActive != nil {
			active = *s.IsActive
		}
		subjects = append(subjects, models.SubjectMark{
			SubjectName: *s.SubjectName,
			Mark:        *s.Mark,
			IsActive:    active,
		})
	}
	return subjects, nil
}

func scanMarks(row pgx.Row) (*models.MarksRecord, error) {
	var (
		m   models.MarksRecord
		raw []byte
	)
	err := row.Scan(&m.ID, &m.StudentID, &m.Term, &m.Year, &raw, &m.IsActive, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if m.Subjects, err = decodeSubjects(raw); err != nil {
		return nil, fmt.Errorf("marks %s: %w", m.ID, err)
	}
	return &m, nil
}

// MarksRepository handles database operations for marks records
type MarksRepository struct {
	db *pgxpool.Pool
}

// NewMarksRepository creates a new MarksRepository
func NewMarksRepository(db *pgxpool.Pool) *MarksRepository {
	return &MarksRepository{db: db}
}

// Create inserts a new marks record. An existing (student, term, year) yields ErrDuplicate.
func (r *MarksRepository) Create(ctx context.Context, m *models.MarksRecord) error {
	subjects, err := encodeSubjects(m.Subjects)
	if err != nil {
		return fmt.Errorf("error encoding subjects: %w", err)
	}

	sql, args, err := psql.Insert("marks").
		Columns(marksColumns...).
		Values(m.ID, m.StudentID, m.Term, m.Year, subjects, m.IsActive, m.CreatedAt, m.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building create marks query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsUniqueViolation(err, "") {
			return ErrDuplicate
		}
		return fmt.Errorf("error creating marks: %w", err)
	}
	return nil
}

// GetByID retrieves a marks record by internal identifier
func (r *MarksRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.MarksRecord, error) {
	sql, args, err := psql.Select(marksColumns...).From("marks").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building marks query: %w", err)
	}
	m, err := scanMarks(r.db.QueryRow(ctx, sql, args...))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("error retrieving marks: %w", err)
	}
	return m, err
}

// ExistsByKey reports whether any record, active or not, exists for the triple
func (r *MarksRepository) ExistsByKey(ctx context.Context, studentID, term string, year int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM marks WHERE student_id = $1 AND term = $2 AND year = $3)`,
		studentID, term, year).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking marks existence: %w", err)
	}
	return exists, nil
}

// List returns records matching filter, newest year first, then by term
func (r *MarksRepository) List(ctx context.Context, filter models.MarksFilter) ([]*models.MarksRecord, error) {
	q := psql.Select(marksColumns...).From("marks").OrderBy("year DESC", "term ASC")

	if filter.StudentID != "" {
		q = q.Where(squirrel.Eq{"student_id": filter.StudentID})
	}
	if filter.ActiveOnly {
		q = q.Where(squirrel.Eq{"is_active": true})
	}
	if filter.Term != "" {
		q = q.Where(squirrel.Eq{"term": filter.Term})
	}
	if filter.Year != nil {
		q = q.Where(squirrel.Eq{"year": *filter.Year})
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building list marks query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing marks: %w", err)
	}
	defer rows.Close()

	records := make([]*models.MarksRecord, 0)
	for rows.Next() {
		m, err := scanMarks(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning marks: %w", err)
		}
		records = append(records, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating marks: %w", err)
	}
	return records, nil
}

// Update applies patch to the record with the given id and returns the new row
func (r *MarksRepository) Update(ctx context.Context, id uuid.UUID, patch models.MarksPatch, updatedAt time.Time) (*models.MarksRecord, error) {
	q := psql.Update("marks").Set("updated_at", updatedAt)
	if patch.Term != nil {
		q = q.Set("term", *patch.Term)
	}
	if patch.Year != nil {
		q = q.Set("year", *patch.Year)
	}
	if patch.Subjects != nil {
		subjects, err := encodeSubjects(*patch.Subjects)
		if err != nil {
			return nil, fmt.Errorf("error encoding subjects: %w", err)
		}
		q = q.Set("subjects", subjects)
	}
	if patch.IsActive != nil {
		q = q.Set("is_active", *patch.IsActive)
	}

	sql, args, err := q.Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns(marksColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building update marks query: %w", err)
	}

	m, err := scanMarks(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		if dberrors.IsUniqueViolation(err, "") {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("error updating marks: %w", err)
	}
	return m, nil
}

// ModifySubjects reads the record under a row lock, applies fn and writes the
// subjects back in the same transaction
func (r *MarksRepository) ModifySubjects(ctx context.Context, id uuid.UUID, updatedAt time.Time, fn SubjectsFn) (*models.MarksRecord, error) {
	var result *models.MarksRecord

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := psql.Select(marksColumns...).From("marks").
			Where(squirrel.Eq{"id": id}).
			Suffix("FOR UPDATE").
			ToSql()
		if err != nil {
			return fmt.Errorf("error building lock marks query: %w", err)
		}

		record, err := scanMarks(tx.QueryRow(ctx, sql, args...))
		if err != nil {
			return err
		}
		if err := fn(record); err != nil {
			return err
		}

		subjects, err := encodeSubjects(record.Subjects)
		if err != nil {
			return fmt.Errorf("error encoding subjects: %w", err)
		}
		sql, args, err = psql.Update("marks").
			Set("subjects", subjects).
			Set("updated_at", updatedAt).
			Where(squirrel.Eq{"id": id}).
			Suffix("RETURNING " + joinColumns(marksColumns)).
			ToSql()
		if err != nil {
			return fmt.Errorf("error building update subjects query: %w", err)
		}

		result, err = scanMarks(tx.QueryRow(ctx, sql, args...))
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// aggregateQuery counts active records and sums the marks of their active
// subjects. Entries without an isActive key count as active.
const aggregateQuery = `
	SELECT
		(SELECT count(*) FROM marks WHERE is_active),
		count(s.value),
		coalesce(sum((s.value->>'mark')::double precision), 0)
	FROM marks m
	CROSS JOIN LATERAL jsonb_array_elements(m.subjects) AS s(value)
	WHERE m.is_active
	  AND coalesce((s.value->>'isActive')::boolean, true)`

// Aggregate computes the totals behind the marks summary
func (r *MarksRepository) Aggregate(ctx context.Context) (models.MarksAggregate, error) {
	var agg models.MarksAggregate
	err := r.db.QueryRow(ctx, aggregateQuery).Scan(&agg.Records, &agg.SubjectEntries, &agg.MarkSum)
	if err != nil {
		return models.MarksAggregate{}, fmt.Errorf("error aggregating marks: %w", err)
	}
	return agg, nil
}

// DistinctTerms lists every term present in any record, ascending
func (r *MarksRepository) DistinctTerms(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT term FROM marks ORDER BY term ASC`)
	if err != nil {
		return nil, fmt.Errorf("error listing terms: %w", err)
	}
	terms, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("error scanning terms: %w", err)
	}
	return terms, nil
}

// DistinctYears lists every year present in any record, newest first
func (r *MarksRepository) DistinctYears(ctx context.Context) ([]int, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT year FROM marks ORDER BY year DESC`)
	if err != nil {
		return nil, fmt.Errorf("error listing years: %w", err)
	}
	years, err := pgx.CollectRows(rows, pgx.RowTo[int])
	if err != nil {
		return nil, fmt.Errorf("error scanning years: %w", err)
	}
	return years, nil
}
