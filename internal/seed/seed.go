package seed

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"

	"github.com/schoolbook/marksdesk/internal/app/models"
	"github.com/schoolbook/marksdesk/internal/app/models/dto"
	"github.com/schoolbook/marksdesk/internal/app/services"
	"github.com/schoolbook/marksdesk/internal/pkg/apperrors"
)

// Sample data
var (
	StudentNames = []string{
		"Kamal Perera",
		"Nimali Fernando",
		"Sahan Silva",
		"Dilini Jayawardena",
		"Ruwan Gunaratne",
	}
	Grades   = []string{"8", "9", "10", "11", "12"}
	Subjects = []string{"Mathematics", "Science", "English", "Sinhala", "History", "Geography", "ICT", "Art"}
	Terms    = []string{"Term 1", "Term 2"}
)

// StudentCounter reports how many students exist, active or not
type StudentCounter interface {
	Count(ctx context.Context) (int64, error)
}

// Options control what the seeder creates
type Options struct {
	AdminUsername string
	AdminPassword string
	SampleData    bool
}

// Summary reports what a run did
type Summary struct {
	AdminCreated  bool
	StudentsCount int
	MarksCount    int
}

// Seeder creates the admin account and optional sample data through the services
type Seeder struct {
	auth     services.AuthService
	students services.StudentService
	marks    services.MarksService
	counter  StudentCounter
	logger   zerolog.Logger
	rng      *rand.Rand
	now      func() time.Time
}

// NewSeeder creates a Seeder. A nil rng uses a time-seeded source.
func NewSeeder(
	auth services.AuthService,
	students services.StudentService,
	marks services.MarksService,
	counter StudentCounter,
	rng *rand.Rand,
	logger zerolog.Logger,
) *Seeder {
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed))
	}
	return &Seeder{
		auth:     auth,
		students: students,
		marks:    marks,
		counter:  counter,
		logger:   logger,
		rng:      rng,
		now:      time.Now,
	}
}

// Run ensures the admin exists and, when asked and the registry is empty,
// creates sample students with two terms of marks for the current year.
func (s *Seeder) Run(ctx context.Context, opts Options) (*Summary, error) {
	summary := &Summary{}

	created, err := s.ensureAdmin(ctx, opts.AdminUsername, opts.AdminPassword)
	if err != nil {
		return summary, err
	}
	summary.AdminCreated = created

	if !opts.SampleData {
		return summary, nil
	}

	count, err := s.counter.Count(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to count students: %w", err)
	}
	if count > 0 {
		s.logger.Info().Int64("count", count).Msg("Students already exist, skipping sample data")
		return summary, nil
	}

	year := s.now().Year()
	for _, name := range StudentNames {
		student, err := s.students.Create(ctx, &dto.CreateStudentRequest{
			Name:          name,
			Grade:         Grades[s.rng.IntN(len(Grades))],
			MobileNumbers: []string{s.mobileNumber(), s.mobileNumber()},
		})
		if err != nil {
			return summary, fmt.Errorf("failed to create sample student %q: %w", name, err)
		}
		summary.StudentsCount++
		s.logger.Debug().Str("studentId", student.StudentID).Str("name", name).Msg("Created sample student")

		for _, term := range Terms {
			_, err := s.marks.Create(ctx, &dto.CreateMarksRequest{
				StudentID: student.StudentID,
				Term:      term,
				Year:      year,
				Subjects:  s.sampleSubjects(),
			})
			if err != nil {
				return summary, fmt.Errorf("failed to create sample marks for %s: %w", student.StudentID, err)
			}
			summary.MarksCount++
		}
	}

	s.logger.Info().
		Int("students", summary.StudentsCount).
		Int("marks", summary.MarksCount).
		Msg("Sample data created")
	return summary, nil
}

func (s *Seeder) ensureAdmin(ctx context.Context, username, password string) (bool, error) {
	_, err := s.auth.CreateUser(ctx, &dto.CreateUserRequest{
		Username: username,
		Password: password,
		Role:     models.RoleAdmin,
	})
	switch {
	case err == nil:
		s.logger.Info().Str("username", username).Msg("Admin user created")
		return true, nil
	case errors.Is(err, apperrors.ErrConflict):
		s.logger.Info().Str("username", username).Msg("Admin user already exists")
		return false, nil
	default:
		return false, fmt.Errorf("failed to ensure admin user: %w", err)
	}
}

// sampleSubjects picks 3 or 4 distinct subjects with marks in [45, 100] at one decimal
func (s *Seeder) sampleSubjects() []dto.SubjectMarkInput {
	n := 3 + s.rng.IntN(2)
	picked := s.rng.Perm(len(Subjects))[:n]
	out := make([]dto.SubjectMarkInput, 0, n)
	for _, idx := range picked {
		mark := math.Round((45+s.rng.Float64()*55)*10) / 10
		out = append(out, dto.SubjectMarkInput{SubjectName: Subjects[idx], Mark: &mark})
	}
	return out
}

func (s *Seeder) mobileNumber() string {
	return fmt.Sprintf("07%08d", 10000000+s.rng.IntN(90000000))
}
