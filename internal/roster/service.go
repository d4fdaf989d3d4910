// Package roster manages the students collection: CRUD and CSV bulk import.
//
// Every mutation is a read-modify-write of the whole collection. The Service
// serialises those sequences with a mutex, which protects callers inside one
// process only; another process writing the same medium still wins or loses
// silently. Mutations read through storage.Load and stop with ErrLoad when
// the collection cannot be read, so a transient read failure never turns into
// an overwrite of the stored students.
package roster

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/aanand-mishra/eduadmin/internal/storage"
	"github.com/aanand-mishra/eduadmin/internal/types"
	"github.com/aanand-mishra/eduadmin/internal/validation"
)

// Service is safe for concurrent use.
type Service struct {
	store *storage.Store
	log   *slog.Logger
	now   func() time.Time

	mu sync.Mutex
}

// New returns a Service persisting through store.
func New(store *storage.Store, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		store: store,
		log:   log.With(slog.String("component", "roster")),
		now:   time.Now,
	}
}

// List returns every student in stored order.
func (s *Service) List() []types.Student {
	return storage.Read[types.Student](s.store, storage.KeyStudents)
}

// Get returns the student with id.
func (s *Service) Get(id int64) (types.Student, error) {
	for _, st := range s.List() {
		if st.ID == id {
			return st, nil
		}
	}
	return types.Student{}, fmt.Errorf("get %d: %w", id, ErrNotFound)
}

// RegisteredEmails returns the email of every stored student.
func (s *Service) RegisteredEmails() []string {
	return emailsOf(s.List())
}

// Create validates st, assigns an id and stamps, and appends it.
// Validation failures are returned as validator.ValidationErrors.
func (s *Service) Create(st types.Student) (types.Student, error) {
	if err := validation.Validator().Struct(st); err != nil {
		return types.Student{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	students, err := s.load()
	if err != nil {
		return types.Student{}, fmt.Errorf("create %q: %w", st.Email, err)
	}
	for _, existing := range students {
		if existing.Email == st.Email {
			return types.Student{}, fmt.Errorf("create %q: %w", st.Email, ErrDuplicateEmail)
		}
	}

	now := s.now()
	st.ID = uniqueID(idsOf(students))
	st.CreatedAt = storage.FormatDateTime(now)
	if st.EnrollDate == "" {
		st.EnrollDate = storage.FormatDate(now)
	}

	if !storage.Write(s.store, storage.KeyStudents, append(students, st)) {
		return types.Student{}, fmt.Errorf("create %q: %w", st.Email, ErrPersist)
	}

	s.log.Info("student created", slog.Int64("id", st.ID))
	return st, nil
}

// Update replaces the editable fields of the student with id. ID and
// CreatedAt are kept.
func (s *Service) Update(id int64, st types.Student) (types.Student, error) {
	if err := validation.Validator().Struct(st); err != nil {
		return types.Student{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	students, err := s.load()
	if err != nil {
		return types.Student{}, fmt.Errorf("update %d: %w", id, err)
	}
	idx := slices.IndexFunc(students, func(existing types.Student) bool { return existing.ID == id })
	if idx < 0 {
		return types.Student{}, fmt.Errorf("update %d: %w", id, ErrNotFound)
	}
	for i, existing := range students {
		if i != idx && existing.Email == st.Email {
			return types.Student{}, fmt.Errorf("update %d: %w", id, ErrDuplicateEmail)
		}
	}

	st.ID = id
	st.CreatedAt = students[idx].CreatedAt
	if st.EnrollDate == "" {
		st.EnrollDate = students[idx].EnrollDate
	}
	students[idx] = st

	if !storage.Write(s.store, storage.KeyStudents, students) {
		return types.Student{}, fmt.Errorf("update %d: %w", id, ErrPersist)
	}

	s.log.Info("student updated", slog.Int64("id", id))
	return st, nil
}

// Delete removes the student with id.
func (s *Service) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	students, err := s.load()
	if err != nil {
		return fmt.Errorf("delete %d: %w", id, err)
	}
	kept := students[:0]
	for _, st := range students {
		if st.ID != id {
			kept = append(kept, st)
		}
	}
	if len(kept) == len(students) {
		return fmt.Errorf("delete %d: %w", id, ErrNotFound)
	}

	if !storage.Write(s.store, storage.KeyStudents, kept) {
		return fmt.Errorf("delete %d: %w", id, ErrPersist)
	}

	s.log.Info("student deleted", slog.Int64("id", id))
	return nil
}

// load reads the students for a read-modify-write.
func (s *Service) load() ([]types.Student, error) {
	students, err := storage.Load[types.Student](s.store, storage.KeyStudents)
	if err != nil {
		s.log.Error("students not loaded", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	return students, nil
}

func emailsOf(students []types.Student) []string {
	out := make([]string, 0, len(students))
	for _, st := range students {
		out = append(out, st.Email)
	}
	return out
}

func idsOf(students []types.Student) map[int64]struct{} {
	out := make(map[int64]struct{}, len(students))
	for _, st := range students {
		out[st.ID] = struct{}{}
	}
	return out
}

// uniqueID draws ids until one is not in taken, then records it.
func uniqueID(taken map[int64]struct{}) int64 {
	for {
		id := storage.NewID()
		if _, dup := taken[id]; !dup {
			taken[id] = struct{}{}
			return id
		}
	}
}
