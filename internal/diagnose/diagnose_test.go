package diagnose

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-scheduler-core/internal/domain"
)

// TestRunPigeonholeInfeasible mirrors spec.md §8's S2 scenario: 2 batches,
// 1 classroom, each batch requires 40 hours; demand 80 > supply 40.
func TestRunPigeonholeInfeasible(t *testing.T) {
	problem := &domain.Problem{
		Classrooms: []domain.Classroom{{ID: 1, Capacity: 100, Availability: domain.FullAvailability()}},
		Faculty:    []domain.Faculty{{ID: 1, MaxDailyHours: 100, Availability: domain.FullAvailability()}},
		Subjects: map[int]domain.Subject{
			1: {ID: 1, WeeklyHours: 40, QualifiedFacultyIDs: []int{1}, EligibleClassroomIDs: []int{1}},
		},
		Batches: []domain.Batch{
			{ID: 1, StudentCount: 10, SubjectIDs: []int{1}},
			{ID: 2, StudentCount: 10, SubjectIDs: []int{1}},
		},
	}

	conflicts := Run(problem)
	require.NotEmpty(t, conflicts)

	var found bool
	for _, c := range conflicts {
		if c.Kind == "resource_shortage" {
			assert.Contains(t, c.Message, "80")
			assert.Contains(t, c.Message, "40")
			found = true
		}
	}
	assert.True(t, found, "expected a resource_shortage conflict referencing 80 and 40")
}

func TestRunReturnsNoConflictsWhenWellSupplied(t *testing.T) {
	problem := &domain.Problem{
		Classrooms: []domain.Classroom{{ID: 1, Capacity: 30, Availability: domain.FullAvailability()}},
		Faculty:    []domain.Faculty{{ID: 1, MaxDailyHours: 8, Availability: domain.FullAvailability()}},
		Subjects: map[int]domain.Subject{
			1: {ID: 1, WeeklyHours: 2, QualifiedFacultyIDs: []int{1}, EligibleClassroomIDs: []int{1}},
		},
		Batches: []domain.Batch{{ID: 1, StudentCount: 10, SubjectIDs: []int{1}}},
	}
	assert.Empty(t, Run(problem))
}

func TestRunFlagsAvailabilityShortage(t *testing.T) {
	faculty := domain.Faculty{ID: 1, MaxDailyHours: 100, Availability: domain.FullAvailability()}
	// Faculty available only Monday (day 0): at most 8 eligible cells,
	// which is fewer than the 10 required hours.
	for d := 1; d < domain.Days; d++ {
		for t := 0; t < domain.Slots; t++ {
			faculty.Availability = faculty.Availability.Block(d, t)
		}
	}

	problem := &domain.Problem{
		Classrooms: []domain.Classroom{{ID: 1, Capacity: 30, Availability: domain.FullAvailability()}},
		Faculty:    []domain.Faculty{faculty},
		Subjects: map[int]domain.Subject{
			1: {ID: 1, WeeklyHours: 10, QualifiedFacultyIDs: []int{1}, EligibleClassroomIDs: []int{1}},
		},
		Batches: []domain.Batch{{ID: 1, StudentCount: 10, SubjectIDs: []int{1}}},
	}

	conflicts := Run(problem)
	var found bool
	for _, c := range conflicts {
		if c.Kind == "availability_shortage" {
			found = true
		}
	}
	assert.True(t, found)
}
