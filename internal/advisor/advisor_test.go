package advisor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-scheduler-core/internal/diagnose"
	"github.com/noah-isme/classroom-scheduler-core/internal/metrics"
)

func TestNoopAdvisorReturnsNothing(t *testing.T) {
	out, err := NoopAdvisor{}.Suggest(context.Background(), metrics.Report{}, nil)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestHeuristicAdvisorFlagsUnevenUtilization(t *testing.T) {
	report := metrics.Report{
		PerClassroomUtilization: map[int]float64{1: 0.1, 2: 0.9},
	}
	out, err := HeuristicAdvisor{}.Suggest(context.Background(), report, nil)
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Equal(t, "optimization", out[0].Type)
}

func TestHeuristicAdvisorFlagsWorkloadImbalance(t *testing.T) {
	report := metrics.Report{
		AverageFacultyLoad: 2,
		MaxFacultyLoad:     10,
	}
	out, err := HeuristicAdvisor{}.Suggest(context.Background(), report, nil)
	require.NoError(t, err)
	var found bool
	for _, s := range out {
		if s.Type == "workload_balance" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestHeuristicAdvisorFlagsConflicts(t *testing.T) {
	conflicts := []diagnose.Conflict{{Kind: "resource_shortage", Message: "x", Severity: diagnose.SeverityError}}
	out, err := HeuristicAdvisor{}.Suggest(context.Background(), metrics.Report{}, conflicts)
	require.NoError(t, err)
	var found bool
	for _, s := range out {
		if s.Type == "conflict_resolution" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestHeuristicAdvisorQuietOnBalancedSchedule(t *testing.T) {
	report := metrics.Report{
		PerClassroomUtilization: map[int]float64{1: 0.5, 2: 0.55},
		AverageFacultyLoad:      5,
		MaxFacultyLoad:          5,
	}
	out, err := HeuristicAdvisor{}.Suggest(context.Background(), report, nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}
