package solve

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-scheduler-core/internal/builder"
	"github.com/noah-isme/classroom-scheduler-core/internal/domain"
)

func newTrivialBuiltFixture(t *testing.T, cfg builder.Config) *builder.Built {
	t.Helper()
	problem := &domain.Problem{
		Classrooms: []domain.Classroom{{ID: 1, Capacity: 30, Availability: domain.FullAvailability()}},
		Faculty:    []domain.Faculty{{ID: 1, MaxDailyHours: 8, Availability: domain.FullAvailability()}},
		Subjects: map[int]domain.Subject{
			1: {ID: 1, Name: "Math", WeeklyHours: 2, QualifiedFacultyIDs: []int{1}, EligibleClassroomIDs: []int{1}},
		},
		Batches: []domain.Batch{{ID: 1, StudentCount: 25, SubjectIDs: []int{1}}},
	}
	built, err := builder.Build(problem, cfg)
	require.NoError(t, err)
	return built
}

func TestRunFeasibilityFindsSolution(t *testing.T) {
	built := newTrivialBuiltFixture(t, builder.Config{})

	result, err := Run(context.Background(), built, Options{TimeBudget: 5 * time.Second})
	require.NoError(t, err)
	assert.Equal(t, StatusFeasible, result.Status)
	assert.Len(t, result.Assignment, len(built.Placements))
}

func TestRunOptimalMinimizesMaxLoad(t *testing.T) {
	built := newTrivialBuiltFixture(t, builder.Config{MinimizeMaxLoad: true})
	require.NotNil(t, built.ObjectiveVar)

	result, err := Run(context.Background(), built, Options{TimeBudget: 5 * time.Second, Seed: 1})
	require.NoError(t, err)
	assert.Contains(t, []Status{StatusOptimal, StatusFeasible}, result.Status)
	assert.True(t, result.HasObjective)
	assert.GreaterOrEqual(t, result.MaxDailyLoad, 1)
}

func TestRunHonorsCancellation(t *testing.T) {
	built := newTrivialBuiltFixture(t, builder.Config{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := Run(ctx, built, Options{})
	require.NoError(t, err)
	assert.Contains(t, []Status{StatusUnknown, StatusFeasible, StatusInfeasible}, result.Status)
}
