package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/schoolbook/marksdesk/internal/app/models"
	"github.com/schoolbook/marksdesk/internal/app/models/dto"
	"github.com/schoolbook/marksdesk/internal/app/repositories"
	"github.com/schoolbook/marksdesk/internal/pkg/apperrors"
	"github.com/schoolbook/marksdesk/internal/pkg/helpers"
	"github.com/schoolbook/marksdesk/internal/pkg/validation"
)

// StudentService defines the interface for student registry operations.
// Lookups accept either the business key (STU-001) or the internal identifier.
type StudentService interface {
	AllocateNextID(ctx context.Context) (string, error)
	Create(ctx context.Context, req *dto.CreateStudentRequest) (*models.Student, error)
	List(ctx context.Context, q *dto.StudentListQuery) ([]*models.Student, error)
	Get(ctx context.Context, key string) (*models.Student, error)
	Update(ctx context.Context, key string, req *dto.UpdateStudentRequest) (*models.Student, error)
	SoftDelete(ctx context.Context, key string) (*models.Student, error)
	Profile(ctx context.Context, key string) (*dto.StudentProfileResponse, error)
}

// MarksLister is the part of the marks ledger the registry reads for profiles
type MarksLister interface {
	ListForStudent(ctx context.Context, studentID string, q *dto.StudentMarksQuery) ([]*models.MarksRecord, error)
}

// studentServiceImpl implements StudentService
type studentServiceImpl struct {
	studentRepo repositories.StudentStore
	marks       MarksLister
	logger      zerolog.Logger
	now         Clock
}

// NewStudentService creates a new StudentService
func NewStudentService(studentRepo repositories.StudentStore, marks MarksLister, logger zerolog.Logger) StudentService {
	return &studentServiceImpl{
		studentRepo: studentRepo,
		marks:       marks,
		logger:      logger,
		now:         utcNow,
	}
}

// AllocateNextID reserves the next business key. Numbers come from an atomic
// store counter, so concurrent callers always receive distinct IDs.
func (s *studentServiceImpl) AllocateNextID(ctx context.Context) (string, error) {
	n, err := s.studentRepo.NextStudentNumber(ctx)
	if err != nil {
		return "", err
	}
	return models.FormatStudentID(n), nil
}

func (s *studentServiceImpl) Create(ctx context.Context, req *dto.CreateStudentRequest) (*models.Student, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	n, err := s.studentRepo.NextStudentNumber(ctx)
	if err != nil {
		return nil, err
	}

	mobiles := req.MobileNumbers
	if mobiles == nil {
		mobiles = []string{}
	}
	now := s.now()
	student := &models.Student{
		ID:            uuid.New(),
		StudentID:     models.FormatStudentID(n),
		StudentNumber: n,
		Name:          req.Name,
		Grade:         req.Grade,
		MobileNumbers: mobiles,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.studentRepo.Create(ctx, student); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.NewConflictError(apperrors.ErrStudentAlreadyExists,
				"Student ID already allocated: "+student.StudentID)
		}
		return nil, err
	}

	s.logger.Info().Str("studentId", student.StudentID).Msg("Student created")
	return student, nil
}

func (s *studentServiceImpl) List(ctx context.Context, q *dto.StudentListQuery) ([]*models.Student, error) {
	filter := models.StudentFilter{ActiveOnly: true, Limit: StudentListLimit}
	if q != nil {
		filter.Search = q.Search
		filter.Grade = q.Grade
		filter.ActiveOnly = boolOr(q.ActiveOnly, true)
	}
	return s.studentRepo.List(ctx, filter)
}

// resolve looks key up as a business key first, then as an internal identifier
func (s *studentServiceImpl) resolve(ctx context.Context, key string) (*models.Student, error) {
	student, err := s.studentRepo.GetByStudentID(ctx, key)
	if err == nil {
		return student, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	id, parseErr := uuid.Parse(key)
	if parseErr != nil {
		return nil, studentNotFound(key)
	}
	student, err = s.studentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, studentNotFound(key)
		}
		return nil, err
	}
	return student, nil
}

func (s *studentServiceImpl) Get(ctx context.Context, key string) (*models.Student, error) {
	return s.resolve(ctx, key)
}

// Update applies only the fields present in req and refreshes updatedAt
func (s *studentServiceImpl) Update(ctx context.Context, key string, req *dto.UpdateStudentRequest) (*models.Student, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	return s.apply(ctx, key, req.ToPatch())
}

// SoftDelete clears the active flag. Repeating it on an inactive student succeeds.
func (s *studentServiceImpl) SoftDelete(ctx context.Context, key string) (*models.Student, error) {
	inactive := false
	return s.apply(ctx, key, models.StudentPatch{IsActive: &inactive})
}

func (s *studentServiceImpl) apply(ctx context.Context, key string, patch models.StudentPatch) (*models.Student, error) {
	student, err := s.resolve(ctx, key)
	if err != nil {
		return nil, err
	}
	updated, err := s.studentRepo.Update(ctx, student.ID, patch, s.now())
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, studentNotFound(key)
		}
		return nil, fmt.Errorf("error updating student %s: %w", student.StudentID, err)
	}
	s.logger.Info().Str("studentId", updated.StudentID).Bool("isActive", updated.IsActive).Msg("Student updated")
	return updated, nil
}

// Profile composes a student with its active marks and their statistics
func (s *studentServiceImpl) Profile(ctx context.Context, key string) (*dto.StudentProfileResponse, error) {
	student, err := s.resolve(ctx, key)
	if err != nil {
		return nil, err
	}
	records, err := s.marks.ListForStudent(ctx, student.StudentID, nil)
	if err != nil {
		return nil, fmt.Errorf("error loading marks for %s: %w", student.StudentID, err)
	}

	var (
		count int64
		sum   float64
	)
	for _, r := range records {
		c, total := r.ActiveSubjects()
		count += c
		sum += total
	}

	return &dto.StudentProfileResponse{
		Student: student,
		Marks:   records,
		Statistics: dto.ProfileStatistics{
			TotalSubjects: count,
			AverageMark:   helpers.Mean(sum, count),
			TotalTerms:    len(records),
		},
	}, nil
}
