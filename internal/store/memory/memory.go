// Package memory is an in-process domain.Repository, used by cmd/timetable-solve's
// demo entrypoint and by tests that need a Repository without a database.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/noah-isme/classroom-scheduler-core/internal/domain"
)

// Repository holds scheduling entities in memory. Zero value is ready to use.
type Repository struct {
	mu sync.RWMutex

	Classrooms []domain.Classroom
	Faculty    []domain.Faculty
	Subjects   []domain.Subject
	Batches    []domain.Batch

	savedRuns map[string][]domain.Assignment
}

// New returns a Repository seeded with the given entities.
func New(classrooms []domain.Classroom, faculty []domain.Faculty, subjects []domain.Subject, batches []domain.Batch) *Repository {
	return &Repository{
		Classrooms: classrooms,
		Faculty:    faculty,
		Subjects:   subjects,
		Batches:    batches,
		savedRuns:  make(map[string][]domain.Assignment),
	}
}

func (r *Repository) LoadClassrooms(ctx context.Context) ([]domain.Classroom, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.Classroom(nil), r.Classrooms...), nil
}

func (r *Repository) LoadFaculty(ctx context.Context) ([]domain.Faculty, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.Faculty(nil), r.Faculty...), nil
}

func (r *Repository) LoadSubjects(ctx context.Context) ([]domain.Subject, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.Subject(nil), r.Subjects...), nil
}

// LoadBatches returns the requested batches in batchIDs order-independent
// fashion (callers should not rely on result order; internal/domain sorts
// by id before building the problem).
func (r *Repository) LoadBatches(ctx context.Context, batchIDs []int) ([]domain.Batch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[int]bool, len(batchIDs))
	for _, id := range batchIDs {
		wanted[id] = true
	}

	var out []domain.Batch
	for _, b := range r.Batches {
		if wanted[b.ID] {
			out = append(out, b)
		}
	}
	return out, nil
}

// SaveAssignments records the run under runID, replacing any prior save.
func (r *Repository) SaveAssignments(ctx context.Context, runID string, assignments []domain.Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.savedRuns == nil {
		r.savedRuns = make(map[string][]domain.Assignment)
	}
	r.savedRuns[runID] = append([]domain.Assignment(nil), assignments...)
	return nil
}

// Run returns a previously saved run's assignments, sorted for determinism.
func (r *Repository) Run(runID string) ([]domain.Assignment, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	saved, ok := r.savedRuns[runID]
	if !ok {
		return nil, false
	}
	out := append([]domain.Assignment(nil), saved...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].BatchID != out[j].BatchID {
			return out[i].BatchID < out[j].BatchID
		}
		if out[i].Day != out[j].Day {
			return out[i].Day < out[j].Day
		}
		return out[i].Slot < out[j].Slot
	})
	return out, true
}

var _ domain.Repository = (*Repository)(nil)
