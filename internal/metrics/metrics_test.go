package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/classroom-scheduler-core/internal/domain"
)

// TestComputeFacultyCapBinding mirrors spec.md §8's S4 scenario: one
// classroom, D*T=40 cells, 15 assignments -> 37.50% utilization.
func TestComputeFacultyCapBinding(t *testing.T) {
	problem := &domain.Problem{
		Classrooms: []domain.Classroom{{ID: 1}},
		Faculty:    []domain.Faculty{{ID: 1}},
	}
	assignments := make([]domain.Assignment, 15)
	for i := range assignments {
		assignments[i] = domain.Assignment{ClassroomID: 1, FacultyID: 1, Day: i % domain.Days, Slot: i % domain.Slots}
	}

	report := Compute(problem, assignments)
	assert.Equal(t, 37.5, report.ClassroomUtilizationPct)
	assert.Equal(t, 15.0, report.AverageFacultyLoad)
	assert.Equal(t, 15, report.MaxFacultyLoad)
	assert.Equal(t, 15, report.FacultyWorkload[1])
}

func TestComputeZeroFacultyYieldsZeroAverage(t *testing.T) {
	problem := &domain.Problem{Classrooms: []domain.Classroom{{ID: 1}}}
	report := Compute(problem, nil)
	assert.Zero(t, report.AverageFacultyLoad)
	assert.Zero(t, report.MaxFacultyLoad)
	assert.Zero(t, report.ClassroomUtilizationPct)
}

func TestComputeIncludesIdleResourcesAtZero(t *testing.T) {
	problem := &domain.Problem{
		Classrooms: []domain.Classroom{{ID: 1}, {ID: 2}},
		Faculty:    []domain.Faculty{{ID: 1}, {ID: 2}},
	}
	assignments := []domain.Assignment{{ClassroomID: 1, FacultyID: 1}}
	report := Compute(problem, assignments)
	assert.Contains(t, report.FacultyWorkload, 2)
	assert.Equal(t, 0, report.FacultyWorkload[2])
	assert.Contains(t, report.PerClassroomUtilization, 2)
	assert.Equal(t, 0.0, report.PerClassroomUtilization[2])
}
