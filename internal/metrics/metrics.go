// Package metrics summarizes a solved schedule the way the teacher's
// pkg/middleware/metrics.go summarizes request traffic: counters and
// derived rates computed once over a finished result, not streamed.
package metrics

import (
	"math"

	"github.com/samber/lo"

	"github.com/noah-isme/classroom-scheduler-core/internal/domain"
)

// Report is spec.md §4.4's schedule-quality summary. ClassroomUtilizationPct
// and AverageFacultyLoad are the two formulas spec.md names explicitly,
// rounded to two decimals as it requires; PerClassroomUtilization is a
// supplemental per-room breakdown internal/advisor uses to judge whether
// utilization is merely low or actually uneven across rooms.
type Report struct {
	// ClassroomUtilizationPct = |assignments| / (|classrooms|*Days*Slots) * 100.
	ClassroomUtilizationPct float64 `json:"classroom_utilization_pct"`
	// AverageFacultyLoad = |assignments| / |faculty|; zero if no faculty.
	AverageFacultyLoad float64 `json:"average_faculty_load"`
	// MaxFacultyLoad is the max over faculty of assignment count.
	MaxFacultyLoad int `json:"max_faculty_load"`
	// FacultyWorkload maps faculty id to assigned hour count.
	FacultyWorkload map[int]int `json:"faculty_workload"`
	// PerClassroomUtilization maps classroom id to its own occupied/total ratio (0..1).
	PerClassroomUtilization map[int]float64 `json:"per_classroom_utilization"`
}

// Compute derives a Report from a finished set of assignments. problem
// supplies the universe of classrooms/faculty so idle resources show up
// with a zero count rather than being omitted.
func Compute(problem *domain.Problem, assignments []domain.Assignment) Report {
	totalSlots := domain.Days * domain.Slots

	classroomHours := make(map[int]int, len(problem.Classrooms))
	for _, c := range problem.Classrooms {
		classroomHours[c.ID] = 0
	}
	facultyHours := make(map[int]int, len(problem.Faculty))
	for _, f := range problem.Faculty {
		facultyHours[f.ID] = 0
	}

	for _, a := range assignments {
		classroomHours[a.ClassroomID]++
		facultyHours[a.FacultyID]++
	}

	perClassroom := lo.MapValues(classroomHours, func(hours int, _ int) float64 {
		if totalSlots == 0 {
			return 0
		}
		return float64(hours) / float64(totalSlots)
	})

	var overallPct float64
	if denom := len(problem.Classrooms) * totalSlots; denom > 0 {
		overallPct = round2(float64(len(assignments)) / float64(denom) * 100)
	}

	loads := lo.Values(facultyHours)
	var avg float64
	var max int
	if len(loads) > 0 {
		avg = round2(float64(len(assignments)) / float64(len(problem.Faculty)))
		max = lo.Max(loads)
	}

	return Report{
		ClassroomUtilizationPct: overallPct,
		AverageFacultyLoad:      avg,
		MaxFacultyLoad:          max,
		FacultyWorkload:         facultyHours,
		PerClassroomUtilization: perClassroom,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
