package obsmetrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryGathersAllCollectors(t *testing.T) {
	SolveDuration.WithLabelValues("success").Observe(0.01)
	SolveVariables.WithLabelValues().Observe(42)
	SolveOutcomes.WithLabelValues("success").Inc()

	families, err := Registry.Gather()
	assert.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["timetable_solver_solve_duration_seconds"])
	assert.True(t, names["timetable_solver_solve_variables_total"])
	assert.True(t, names["timetable_solver_solve_status_total"])
}
