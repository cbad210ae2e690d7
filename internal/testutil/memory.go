package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/schoolbook/marksdesk/internal/app/models"
	"github.com/schoolbook/marksdesk/internal/app/repositories"
)

var (
	_ repositories.UserStore    = (*MemoryUserStore)(nil)
	_ repositories.StudentStore = (*MemoryStudentStore)(nil)
	_ repositories.MarksStore   = (*MemoryMarksStore)(nil)
)

// MemoryUserStore is an in-memory repositories.UserStore
type MemoryUserStore struct {
	mu    sync.Mutex
	users map[string]models.User
}

// NewMemoryUserStore creates an empty user store
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[string]models.User)}
}

func (s *MemoryUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.Username]; ok {
		return repositories.ErrDuplicate
	}
	s.users[user.Username] = *user
	return nil
}

func (s *MemoryUserStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[username]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &u, nil
}

func (s *MemoryUserStore) GetActiveByUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := s.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, repositories.ErrNotFound
	}
	return u, nil
}

// MemoryStudentStore is an in-memory repositories.StudentStore
type MemoryStudentStore struct {
	mu       sync.Mutex
	counter  int64
	students map[uuid.UUID]models.Student
}

// NewMemoryStudentStore creates an empty student store
func NewMemoryStudentStore() *MemoryStudentStore {
	return &MemoryStudentStore{students: make(map[uuid.UUID]models.Student)}
}

func cloneStudent(s models.Student) *models.Student {
	s.MobileNumbers = append([]string{}, s.MobileNumbers...)
	return &s
}

// SetCounter positions the allocation counter, so the next number is n+1
func (s *MemoryStudentStore) SetCounter(n int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counter = n
}

func (s *MemoryStudentStore) NextStudentNumber(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counter++
	return s.counter, nil
}

func (s *MemoryStudentStore) Create(_ context.Context, student *models.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.students {
		if existing.StudentID == student.StudentID || existing.ID == student.ID {
			return repositories.ErrDuplicate
		}
	}
	s.students[student.ID] = *cloneStudent(*student)
	return nil
}

func (s *MemoryStudentStore) GetByStudentID(_ context.Context, studentID string) (*models.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.students {
		if st.StudentID == studentID {
			return cloneStudent(st), nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (s *MemoryStudentStore) GetByID(_ context.Context, id uuid.UUID) (*models.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.students[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return cloneStudent(st), nil
}

func (s *MemoryStudentStore) List(_ context.Context, filter models.StudentFilter) ([]*models.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	search := strings.ToLower(filter.Search)
	out := make([]*models.Student, 0)
	for _, st := range s.students {
		if filter.ActiveOnly && !st.IsActive {
			continue
		}
		if filter.Grade != "" && st.Grade != filter.Grade {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(st.StudentID), search) &&
			!strings.Contains(strings.ToLower(st.Name), search) {
			continue
		}
		out = append(out, cloneStudent(st))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StudentNumber < out[j].StudentNumber })
	if filter.Limit > 0 && uint64(len(out)) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *MemoryStudentStore) Update(_ context.Context, id uuid.UUID, patch models.StudentPatch, updatedAt time.Time) (*models.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.students[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if patch.Name != nil {
		st.Name = *patch.Name
	}
	if patch.Grade != nil {
		st.Grade = *patch.Grade
	}
	if patch.MobileNumbers != nil {
		st.MobileNumbers = append([]string{}, (*patch.MobileNumbers)...)
	}
	if patch.IsActive != nil {
		st.IsActive = *patch.IsActive
	}
	st.UpdatedAt = updatedAt
	s.students[id] = st
	return cloneStudent(st), nil
}

func (s *MemoryStudentStore) CountActive(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, st := range s.students {
		if st.IsActive {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStudentStore) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.students)), nil
}

// MemoryMarksStore is an in-memory repositories.MarksStore
type MemoryMarksStore struct {
	mu      sync.Mutex
	records map[uuid.UUID]models.MarksRecord
}

// NewMemoryMarksStore creates an empty marks store
func NewMemoryMarksStore() *MemoryMarksStore {
	return &MemoryMarksStore{records: make(map[uuid.UUID]models.MarksRecord)}
}

func cloneMarks(m models.MarksRecord) *models.MarksRecord {
	m.Subjects = append([]models.SubjectMark{}, m.Subjects...)
	return &m
}

// hasKeyLocked reports whether another record already uses the triple
func (s *MemoryMarksStore) hasKeyLocked(except uuid.UUID, studentID, term string, year int) bool {
	for id, m := range s.records {
		if id != except && m.StudentID == studentID && m.Term == term && m.Year == year {
			return true
		}
	}
	return false
}

func (s *MemoryMarksStore) Create(_ context.Context, record *models.MarksRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[record.ID]; ok || s.hasKeyLocked(record.ID, record.StudentID, record.Term, record.Year) {
		return repositories.ErrDuplicate
	}
	s.records[record.ID] = *cloneMarks(*record)
	return nil
}

func (s *MemoryMarksStore) GetByID(_ context.Context, id uuid.UUID) (*models.MarksRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.records[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return cloneMarks(m), nil
}

func (s *MemoryMarksStore) ExistsByKey(_ context.Context, studentID, term string, year int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasKeyLocked(uuid.Nil, studentID, term, year), nil
}

func (s *MemoryMarksStore) List(_ context.Context, filter models.MarksFilter) ([]*models.MarksRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.MarksRecord, 0)
	for _, m := range s.records {
		if filter.StudentID != "" && m.StudentID != filter.StudentID {
			continue
		}
		if filter.ActiveOnly && !m.IsActive {
			continue
		}
		if filter.Term != "" && m.Term != filter.Term {
			continue
		}
		if filter.Year != nil && m.Year != *filter.Year {
			continue
		}
		out = append(out, cloneMarks(m))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		return out[i].Term < out[j].Term
	})
	if filter.Limit > 0 && uint64(len(out)) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *MemoryMarksStore) Update(_ context.Context, id uuid.UUID, patch models.MarksPatch, updatedAt time.Time) (*models.MarksRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.records[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if patch.Term != nil {
		m.Term = *patch.Term
	}
	if patch.Year != nil {
		m.Year = *patch.Year
	}
	if patch.Subjects != nil {
		m.Subjects = append([]models.SubjectMark{}, (*patch.Subjects)...)
	}
	if patch.IsActive != nil {
		m.IsActive = *patch.IsActive
	}
	if s.hasKeyLocked(id, m.StudentID, m.Term, m.Year) {
		return nil, repositories.ErrDuplicate
	}
	m.UpdatedAt = updatedAt
	s.records[id] = m
	return cloneMarks(m), nil
}

func (s *MemoryMarksStore) ModifySubjects(_ context.Context, id uuid.UUID, updatedAt time.Time, fn repositories.SubjectsFn) (*models.MarksRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.records[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	working := cloneMarks(m)
	if err := fn(working); err != nil {
		return nil, err
	}
	m.Subjects = working.Subjects
	m.UpdatedAt = updatedAt
	s.records[id] = m
	return cloneMarks(m), nil
}

func (s *MemoryMarksStore) Aggregate(_ context.Context) (models.MarksAggregate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var agg models.MarksAggregate
	for _, m := range s.records {
		if !m.IsActive {
			continue
		}
		agg.Records++
		count, sum := m.ActiveSubjects()
		agg.SubjectEntries += count
		agg.MarkSum += sum
	}
	return agg, nil
}

func (s *MemoryMarksStore) DistinctTerms(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[string]struct{})
	terms := make([]string, 0)
	for _, m := range s.records {
		if _, ok := seen[m.Term]; !ok {
			seen[m.Term] = struct{}{}
			terms = append(terms, m.Term)
		}
	}
	sort.Strings(terms)
	return terms, nil
}

func (s *MemoryMarksStore) DistinctYears(_ context.Context) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[int]struct{})
	years := make([]int, 0)
	for _, m := range s.records {
		if _, ok := seen[m.Year]; !ok {
			seen[m.Year] = struct{}{}
			years = append(years, m.Year)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years, nil
}
