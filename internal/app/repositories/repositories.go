package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/schoolbook/marksdesk/internal/app/models"
)

// Store errors. Services translate these into the application taxonomy.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// psql builds PostgreSQL statements with $n placeholders
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}

// UserStore persists login accounts
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetActiveByUsername(ctx context.Context, username string) (*models.User, error)
}

// StudentStore persists student records
type StudentStore interface {
	// NextStudentNumber atomically reserves the next student sequence number
	NextStudentNumber(ctx context.Context) (int64, error)
	Create(ctx context.Context, student *models.Student) error
	GetByStudentID(ctx context.Context, studentID string) (*models.Student, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Student, error)
	List(ctx context.Context, filter models.StudentFilter) ([]*models.Student, error)
	// Update applies patch and sets updated_at in a single statement
	Update(ctx context.Context, id uuid.UUID, patch models.StudentPatch, updatedAt time.Time) (*models.Student, error)
	CountActive(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int64, error)
}

// SubjectsFn mutates a locked marks record in place
type SubjectsFn func(record *models.MarksRecord) error

// MarksStore persists marks records
type MarksStore interface {
	Create(ctx context.Context, record *models.MarksRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.MarksRecord, error)
	ExistsByKey(ctx context.Context, studentID, term string, year int) (bool, error)
	List(ctx context.Context, filter models.MarksFilter) ([]*models.MarksRecord, error)
	// Update applies patch and sets updated_at in a single statement
	Update(ctx context.Context, id uuid.UUID, patch models.MarksPatch, updatedAt time.Time) (*models.MarksRecord, error)
	// ModifySubjects locks the record, lets fn edit its subjects and saves the result
	ModifySubjects(ctx context.Context, id uuid.UUID, updatedAt time.Time, fn SubjectsFn) (*models.MarksRecord, error)
	Aggregate(ctx context.Context) (models.MarksAggregate, error)
	DistinctTerms(ctx context.Context) ([]string, error)
	DistinctYears(ctx context.Context) ([]int, error)
}

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository    *UserRepository
	StudentRepository *StudentRepository
	MarksRepository   *MarksRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:    NewUserRepository(db),
		StudentRepository: NewStudentRepository(db),
		MarksRepository:   NewMarksRepository(db),
	}
}
