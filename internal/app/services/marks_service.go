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

// MarksService defines the interface for marks ledger operations
type MarksService interface {
	Create(ctx context.Context, req *dto.CreateMarksRequest) (*models.MarksRecord, error)
	List(ctx context.Context, q *dto.MarksListQuery) ([]*models.MarksRecord, error)
	ListForStudent(ctx context.Context, studentID string, q *dto.StudentMarksQuery) ([]*models.MarksRecord, error)
	Get(ctx context.Context, id string) (*models.MarksRecord, error)
	Update(ctx context.Context, id string, req *dto.UpdateMarksRequest) (*models.MarksRecord, error)
	SoftDelete(ctx context.Context, id string) (*models.MarksRecord, error)
	SoftDeleteSubject(ctx context.Context, id, subjectName string) (*models.MarksRecord, error)
	Summary(ctx context.Context) (*dto.MarksSummaryResponse, error)
}

// marksServiceImpl implements MarksService
type marksServiceImpl struct {
	marksRepo   repositories.MarksStore
	studentRepo repositories.StudentStore
	logger      zerolog.Logger
	now         Clock
}

// NewMarksService creates a new MarksService
func NewMarksService(marksRepo repositories.MarksStore, studentRepo repositories.StudentStore, logger zerolog.Logger) MarksService {
	return &marksServiceImpl{
		marksRepo:   marksRepo,
		studentRepo: studentRepo,
		logger:      logger,
		now:         utcNow,
	}
}

func parseMarksID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, &apperrors.CustomError{
			Err:     apperrors.ErrInvalidMarksID,
			Message: "Invalid marks ID format",
		}
	}
	return parsed, nil
}

func conflictFor(studentID, term string, year int) error {
	return apperrors.NewConflictError(apperrors.ErrMarksAlreadyExist,
		fmt.Sprintf("Marks already exist for %s - %s %d", studentID, term, year))
}

// Create records a student's marks for a term. The student must exist, active
// or not, and no record (active or not) may already hold the same term and year.
func (s *marksServiceImpl) Create(ctx context.Context, req *dto.CreateMarksRequest) (*models.MarksRecord, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	if _, err := s.studentRepo.GetByStudentID(ctx, req.StudentID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, studentNotFound(req.StudentID)
		}
		return nil, fmt.Errorf("error checking student: %w", err)
	}

	exists, err := s.marksRepo.ExistsByKey(ctx, req.StudentID, req.Term, req.Year)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, conflictFor(req.StudentID, req.Term, req.Year)
	}

	now := s.now()
	record := &models.MarksRecord{
		ID:        uuid.New(),
		StudentID: req.StudentID,
		Term:      req.Term,
		Year:      req.Year,
		Subjects:  dto.ToSubjectMarks(req.Subjects),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.marksRepo.Create(ctx, record); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, conflictFor(req.StudentID, req.Term, req.Year)
		}
		return nil, err
	}

	s.logger.Info().Str("marksId", record.ID.String()).Str("studentId", record.StudentID).
		Str("term", record.Term).Int("year", record.Year).Msg("Marks record created")
	return record, nil
}

func (s *marksServiceImpl) List(ctx context.Context, q *dto.MarksListQuery) ([]*models.MarksRecord, error) {
	filter := models.MarksFilter{ActiveOnly: true, Limit: MarksListLimit}
	if q != nil {
		filter.Term = q.Term
		filter.Year = q.Year
		filter.ActiveOnly = boolOr(q.ActiveOnly, true)
	}
	return s.marksRepo.List(ctx, filter)
}

// ListForStudent returns the active records of one student
func (s *marksServiceImpl) ListForStudent(ctx context.Context, studentID string, q *dto.StudentMarksQuery) ([]*models.MarksRecord, error) {
	filter := models.MarksFilter{StudentID: studentID, ActiveOnly: true, Limit: StudentMarksLimit}
	if q != nil {
		filter.Term = q.Term
		filter.Year = q.Year
	}
	return s.marksRepo.List(ctx, filter)
}

func (s *marksServiceImpl) Get(ctx context.Context, id string) (*models.MarksRecord, error) {
	marksID, err := parseMarksID(id)
	if err != nil {
		return nil, err
	}
	record, err := s.marksRepo.GetByID(ctx, marksID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, marksNotFound(id)
		}
		return nil, err
	}
	return record, nil
}

// Update applies a partial patch. A subjects list replaces the stored one.
func (s *marksServiceImpl) Update(ctx context.Context, id string, req *dto.UpdateMarksRequest) (*models.MarksRecord, error) {
	marksID, err := parseMarksID(id)
	if err != nil {
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	return s.update(ctx, id, marksID, req.ToPatch())
}

// SoftDelete deactivates the record. Subject flags are left as they are.
func (s *marksServiceImpl) SoftDelete(ctx context.Context, id string) (*models.MarksRecord, error) {
	marksID, err := parseMarksID(id)
	if err != nil {
		return nil, err
	}
	inactive := false
	return s.update(ctx, id, marksID, models.MarksPatch{IsActive: &inactive})
}

func (s *marksServiceImpl) update(ctx context.Context, id string, marksID uuid.UUID, patch models.MarksPatch) (*models.MarksRecord, error) {
	record, err := s.marksRepo.Update(ctx, marksID, patch, s.now())
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return nil, marksNotFound(id)
		case errors.Is(err, repositories.ErrDuplicate):
			return nil, apperrors.NewConflictError(apperrors.ErrMarksAlreadyExist,
				"Marks already exist for this student, term and year")
		}
		return nil, err
	}
	s.logger.Info().Str("marksId", id).Bool("isActive", record.IsActive).Msg("Marks record updated")
	return record, nil
}

// SoftDeleteSubject deactivates the first subject whose name matches
// case-insensitively, leaving its siblings and the record flag untouched
func (s *marksServiceImpl) SoftDeleteSubject(ctx context.Context, id, subjectName string) (*models.MarksRecord, error) {
	marksID, err := parseMarksID(id)
	if err != nil {
		return nil, err
	}

	record, err := s.marksRepo.ModifySubjects(ctx, marksID, s.now(), func(r *models.MarksRecord) error {
		if !r.DeactivateSubject(subjectName) {
			return apperrors.NewResourceNotFoundError(apperrors.ErrSubjectNotFound, "Subject not found: "+subjectName)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, marksNotFound(id)
		}
		return nil, err
	}

	s.logger.Info().Str("marksId", id).Str("subject", subjectName).Msg("Subject deactivated")
	return record, nil
}

// Summary aggregates active records' active subjects. Terms and years are
// collected across all records regardless of their active flag.
func (s *marksServiceImpl) Summary(ctx context.Context) (*dto.MarksSummaryResponse, error) {
	students, err := s.studentRepo.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	agg, err := s.marksRepo.Aggregate(ctx)
	if err != nil {
		return nil, err
	}
	terms, err := s.marksRepo.DistinctTerms(ctx)
	if err != nil {
		return nil, err
	}
	years, err := s.marksRepo.DistinctYears(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.MarksSummaryResponse{
		TotalStudents:       students,
		TotalMarksRecords:   agg.Records,
		AverageMark:         helpers.Mean(agg.MarkSum, agg.SubjectEntries),
		TotalSubjectEntries: agg.SubjectEntries,
		AvailableTerms:      terms,
		AvailableYears:      years,
	}, nil
}
