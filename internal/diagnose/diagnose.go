// Package diagnose runs spec.md §4.5's aggregate supply-vs-demand checks
// over a problem that the solver reported Infeasible or Unknown for. These
// are pigeonhole arguments, not a minimal unsat core: they explain the
// common misconfigurations, not every possible infeasibility.
package diagnose

import (
	"fmt"
	"sort"

	"github.com/samber/lo"

	"github.com/noah-isme/classroom-scheduler-core/internal/domain"
)

// Severity mirrors the two levels spec.md's Conflict carries.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Conflict is one failed supply-vs-demand check.
type Conflict struct {
	Kind     string   `json:"kind"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Run executes all four checks in a fixed order and returns only the ones
// that fail, so an empty result is a clean "nothing obviously wrong".
func Run(problem *domain.Problem) []Conflict {
	var conflicts []Conflict
	if c, ok := globalSupply(problem); ok {
		conflicts = append(conflicts, c)
	}
	conflicts = append(conflicts, classroomKindSupply(problem)...)
	conflicts = append(conflicts, facultyDemand(problem)...)
	conflicts = append(conflicts, availabilityCoverage(problem)...)
	return conflicts
}

// globalSupply is check 1: total required hours across every (batch,
// subject) pair against total classroom-slot capacity.
func globalSupply(problem *domain.Problem) (Conflict, bool) {
	demand := 0
	for _, b := range sortedBatches(problem) {
		for _, sid := range sortedInts(b.SubjectIDs) {
			if subj, ok := problem.Subjects[sid]; ok {
				demand += subj.WeeklyHours
			}
		}
	}
	supply := len(problem.Classrooms) * domain.Days * domain.Slots

	if demand > supply {
		return Conflict{
			Kind:     "resource_shortage",
			Message:  fmt.Sprintf("total required hours %d exceed classroom-slot capacity %d", demand, supply),
			Severity: SeverityError,
		}, true
	}
	return Conflict{}, false
}

// classroomKindSupply is check 2: lab-requiring demand against lab-capable
// classroom capacity, and the symmetric non-lab check.
func classroomKindSupply(problem *domain.Problem) []Conflict {
	labCapacity, plainCapacity := 0, 0
	for _, c := range problem.Classrooms {
		if c.HasLab {
			labCapacity += domain.Days * domain.Slots
		} else {
			plainCapacity += domain.Days * domain.Slots
		}
	}

	labDemand, plainDemand := 0, 0
	for _, b := range sortedBatches(problem) {
		for _, sid := range sortedInts(b.SubjectIDs) {
			subj, ok := problem.Subjects[sid]
			if !ok {
				continue
			}
			labDemand += subj.LabHours
			plainDemand += subj.WeeklyHours - subj.LabHours
		}
	}

	var conflicts []Conflict
	if labDemand > labCapacity {
		conflicts = append(conflicts, Conflict{
			Kind:     "resource_shortage",
			Message:  fmt.Sprintf("lab-hour demand %d exceeds lab classroom capacity %d", labDemand, labCapacity),
			Severity: SeverityError,
		})
	}
	if plainDemand > plainCapacity {
		conflicts = append(conflicts, Conflict{
			Kind:     "resource_shortage",
			Message:  fmt.Sprintf("non-lab hour demand %d exceeds non-lab classroom capacity %d", plainDemand, plainCapacity),
			Severity: SeverityError,
		})
	}
	return conflicts
}

// facultyDemand is check 3: for each faculty, the total required hours of
// subjects that actually demand them (i.e. are assigned to some batch and
// list this faculty as qualified) against their weekly cap.
func facultyDemand(problem *domain.Problem) []Conflict {
	demandedSubjects := make(map[int]bool)
	for _, b := range sortedBatches(problem) {
		for _, sid := range b.SubjectIDs {
			demandedSubjects[sid] = true
		}
	}

	type facultyLoad struct {
		facultyID int
		hours     int
	}
	loadsBySubject := make(map[int][]facultyLoad)
	for sid := range demandedSubjects {
		subj, ok := problem.Subjects[sid]
		if !ok {
			continue
		}
		for _, fid := range subj.QualifiedFacultyIDs {
			loadsBySubject[fid] = append(loadsBySubject[fid], facultyLoad{fid, subj.WeeklyHours})
		}
	}

	totalBySubjectFaculty := make(map[int]int)
	for fid, loads := range loadsBySubject {
		totalBySubjectFaculty[fid] = lo.SumBy(loads, func(l facultyLoad) int { return l.hours })
	}

	var conflicts []Conflict
	for _, f := range sortedFaculty(problem) {
		demand := totalBySubjectFaculty[f.ID]
		cap := f.MaxDailyHours * domain.Days
		if cap > 0 && demand > cap {
			conflicts = append(conflicts, Conflict{
				Kind:     "resource_shortage",
				Message:  fmt.Sprintf("faculty %d demanded for %d hours exceeds weekly cap %d", f.ID, demand, cap),
				Severity: SeverityWarning,
			})
		}
	}
	return conflicts
}

// availabilityCoverage is check 4: for each subject demanded by some batch,
// the number of (faculty, classroom, day, slot) cells where a qualified
// faculty and an eligible classroom are simultaneously available, against
// its weekly-hour requirement.
func availabilityCoverage(problem *domain.Problem) []Conflict {
	facultyByID := make(map[int]domain.Faculty, len(problem.Faculty))
	for _, f := range problem.Faculty {
		facultyByID[f.ID] = f
	}
	classroomByID := make(map[int]domain.Classroom, len(problem.Classrooms))
	for _, c := range problem.Classrooms {
		classroomByID[c.ID] = c
	}

	demandedSubjects := make(map[int]bool)
	for _, b := range sortedBatches(problem) {
		for _, sid := range b.SubjectIDs {
			demandedSubjects[sid] = true
		}
	}

	var conflicts []Conflict
	for _, sid := range sortedSubjectKeys(demandedSubjects) {
		subj, ok := problem.Subjects[sid]
		if !ok {
			continue
		}

		eligible := 0
		for d := 0; d < domain.Days; d++ {
			for t := 0; t < domain.Slots; t++ {
				for _, fid := range subj.QualifiedFacultyIDs {
					f, ok := facultyByID[fid]
					if !ok || !f.Availability.IsAvailable(d, t) {
						continue
					}
					for _, cid := range subj.EligibleClassroomIDs {
						c, ok := classroomByID[cid]
						if ok && c.Availability.IsAvailable(d, t) {
							eligible++
						}
					}
				}
			}
		}

		if eligible < subj.WeeklyHours {
			conflicts = append(conflicts, Conflict{
				Kind:     "availability_shortage",
				Message:  fmt.Sprintf("subject %d (%s) needs %d hours but only %d eligible cells exist", sid, subj.Name, subj.WeeklyHours, eligible),
				Severity: SeverityError,
			})
		}
	}
	return conflicts
}

func sortedBatches(problem *domain.Problem) []domain.Batch {
	out := append([]domain.Batch(nil), problem.Batches...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sortedFaculty(problem *domain.Problem) []domain.Faculty {
	out := append([]domain.Faculty(nil), problem.Faculty...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sortedInts(vals []int) []int {
	out := append([]int(nil), vals...)
	sort.Ints(out)
	return out
}

func sortedSubjectKeys(m map[int]bool) []int {
	out := lo.Keys(m)
	sort.Ints(out)
	return out
}
