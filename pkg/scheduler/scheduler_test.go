package scheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-scheduler-core/internal/domain"
	"github.com/noah-isme/classroom-scheduler-core/internal/store/memory"
	apperrors "github.com/noah-isme/classroom-scheduler-core/pkg/errors"
)

// newTrivialFeasibleFixture mirrors spec.md §8's S1 scenario: 1 batch, 1
// subject needing 2 lecture hours, 1 qualified faculty and 1 matching
// classroom, both available all week.
func newTrivialFeasibleFixture() *memory.Repository {
	return memory.New(
		[]domain.Classroom{{ID: 1, Name: "Room A", Capacity: 30, Availability: domain.FullAvailability()}},
		[]domain.Faculty{{ID: 1, Name: "Dr. A", MaxDailyHours: 8, Availability: domain.FullAvailability()}},
		[]domain.Subject{{ID: 1, Name: "Math", WeeklyHours: 2, QualifiedFacultyIDs: []int{1}, EligibleClassroomIDs: []int{1}}},
		[]domain.Batch{{ID: 1, Name: "Batch 1", StudentCount: 25, SubjectIDs: []int{1}}},
	)
}

func TestSolveTrivialFeasible(t *testing.T) {
	repo := newTrivialFeasibleFixture()
	sched := New(repo)

	resp, err := sched.Solve(context.Background(), SolveRequest{
		BatchIDs:     []int{1},
		TimeBudgetMs: 5000,
		Seed:         42,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, resp.Status)
	require.Len(t, resp.Assignments, 2)
	assert.Empty(t, resp.Conflicts)

	for _, a := range resp.Assignments {
		assert.Equal(t, 1, a.BatchID)
		assert.Equal(t, 1, a.SubjectID)
		assert.Equal(t, 1, a.FacultyID)
		assert.Equal(t, 1, a.ClassroomID)
		assert.False(t, a.IsFixed)
		assert.False(t, a.IsApproved)
	}
	assert.NotEqual(t, resp.Assignments[0].Slot, resp.Assignments[1].Slot)

	saved, ok := repo.Run(resp.RunID)
	require.True(t, ok)
	assert.Equal(t, resp.Assignments, saved)
}

// TestSolveDeterministicAcrossRuns mirrors S6: identical input and seed
// produce identical assignment sequences.
func TestSolveDeterministicAcrossRuns(t *testing.T) {
	req := SolveRequest{BatchIDs: []int{1}, TimeBudgetMs: 5000, Seed: 7}

	resp1, err := New(newTrivialFeasibleFixture()).Solve(context.Background(), req)
	require.NoError(t, err)
	resp2, err := New(newTrivialFeasibleFixture()).Solve(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, resp1.Assignments, resp2.Assignments)
}

// TestSolveQualificationGapIsDataError mirrors S3: a subject with no
// eligible faculty is caught before the solver ever runs.
func TestSolveQualificationGapIsDataError(t *testing.T) {
	repo := memory.New(
		[]domain.Classroom{{ID: 1, Capacity: 30, Availability: domain.FullAvailability()}},
		[]domain.Faculty{{ID: 1, MaxDailyHours: 8, Availability: domain.FullAvailability()}},
		[]domain.Subject{
			{ID: 1, Name: "A", WeeklyHours: 5, QualifiedFacultyIDs: []int{1}, EligibleClassroomIDs: []int{1}},
			{ID: 2, Name: "B", WeeklyHours: 5, EligibleClassroomIDs: []int{1}},
		},
		[]domain.Batch{{ID: 1, StudentCount: 10, SubjectIDs: []int{1, 2}}},
	)

	_, err := New(repo).Solve(context.Background(), SolveRequest{BatchIDs: []int{1}, TimeBudgetMs: 5000})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrDataError.Code, apperrors.FromError(err).Code)
}

// TestSolvePigeonholeInfeasible mirrors S2: 2 batches competing for 1
// classroom, each demanding 40 hours (total 80 > supply 40).
func TestSolvePigeonholeInfeasible(t *testing.T) {
	repo := memory.New(
		[]domain.Classroom{{ID: 1, Capacity: 100, Availability: domain.FullAvailability()}},
		[]domain.Faculty{{ID: 1, MaxDailyHours: 100, Availability: domain.FullAvailability()}},
		[]domain.Subject{{ID: 1, WeeklyHours: 40, QualifiedFacultyIDs: []int{1}, EligibleClassroomIDs: []int{1}}},
		[]domain.Batch{
			{ID: 1, StudentCount: 10, SubjectIDs: []int{1}},
			{ID: 2, StudentCount: 10, SubjectIDs: []int{1}},
		},
	)

	resp, err := New(repo).Solve(context.Background(), SolveRequest{
		BatchIDs:     []int{1, 2},
		TimeBudgetMs: 5000,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusInfeasible, resp.Status)
	require.NotEmpty(t, resp.Conflicts)

	var found bool
	for _, c := range resp.Conflicts {
		if c.Kind == "resource_shortage" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestSolveRejectsInvalidRequest(t *testing.T) {
	repo := newTrivialFeasibleFixture()
	_, err := New(repo).Solve(context.Background(), SolveRequest{})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrDataError.Code, apperrors.FromError(err).Code)
}
