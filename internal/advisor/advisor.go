// Package advisor implements the AI-advisory black box spec.md §1/§9
// describe: an opaque, strictly-post-solve source of soft suggestions that
// never influences the constraint model. Grounded on
// original_source/backend/ai_suggestions.py's GeminiAIAssistant, whose own
// "AI" suggestions are three fixed categories regardless of model output —
// here driven off the real computed metrics/conflicts instead.
package advisor

import (
	"context"

	"github.com/noah-isme/classroom-scheduler-core/internal/diagnose"
	"github.com/noah-isme/classroom-scheduler-core/internal/metrics"
)

// Priority mirrors the original's fixed "high"/"medium"/"low" labels.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Suggestion is advisory only; nothing in this module reads a Suggestion
// back into the solve.
type Suggestion struct {
	Type           string   `json:"type"`
	Priority       Priority `json:"priority"`
	Description    string   `json:"description"`
	Implementation string   `json:"implementation"`
}

// Advisor consults a finished solve for soft suggestions. Implementations
// MUST NOT be given write access to the constraint model.
type Advisor interface {
	Suggest(ctx context.Context, report metrics.Report, conflicts []diagnose.Conflict) ([]Suggestion, error)
}

// NoopAdvisor is the default: no external advisory service configured.
type NoopAdvisor struct{}

func (NoopAdvisor) Suggest(context.Context, metrics.Report, []diagnose.Conflict) ([]Suggestion, error) {
	return nil, nil
}

// utilizationImbalanceThreshold and workloadImbalanceThreshold calibrate
// when HeuristicAdvisor considers a metric worth flagging; chosen to match
// the original's always-fire behavior on any non-trivial schedule without
// firing on a perfectly uniform toy example.
const (
	utilizationImbalanceThreshold = 0.25
	workloadImbalanceThreshold    = 2
)

// HeuristicAdvisor reproduces the original's three fixed categories
// (optimization, workload_balance, conflict_resolution), each conditioned
// on the actual Report/Conflicts rather than always returned.
type HeuristicAdvisor struct{}

func (HeuristicAdvisor) Suggest(_ context.Context, report metrics.Report, conflicts []diagnose.Conflict) ([]Suggestion, error) {
	var out []Suggestion

	if minU, maxU, ok := utilizationSpread(report); ok && maxU-minU > utilizationImbalanceThreshold {
		out = append(out, Suggestion{
			Type:           "optimization",
			Priority:       PriorityHigh,
			Description:    "classroom utilization is uneven across rooms",
			Implementation: "consider redistributing sessions toward underused classrooms",
		})
	}

	if report.MaxFacultyLoad > 0 && float64(report.MaxFacultyLoad)-report.AverageFacultyLoad > workloadImbalanceThreshold {
		out = append(out, Suggestion{
			Type:           "workload_balance",
			Priority:       PriorityMedium,
			Description:    "faculty workload is concentrated on a subset of teachers",
			Implementation: "move sessions from the most-loaded faculty toward faculty below the average load",
		})
	}

	if len(conflicts) > 0 {
		out = append(out, Suggestion{
			Type:           "conflict_resolution",
			Priority:       PriorityHigh,
			Description:    "the diagnosed supply/demand shortages block a feasible schedule",
			Implementation: "increase the short resource (classrooms, faculty capacity, or availability) named in the conflict list",
		})
	}

	return out, nil
}

func utilizationSpread(report metrics.Report) (min, max float64, ok bool) {
	first := true
	for _, u := range report.PerClassroomUtilization {
		if first {
			min, max = u, u
			first = false
			continue
		}
		if u < min {
			min = u
		}
		if u > max {
			max = u
		}
	}
	return min, max, !first
}
