// Package builder turns a domain.Problem into a constraint model on top of
// github.com/gitrdm/gokanlogic's minikanren package: the sparse
// eligible-tuple enumeration and hard-constraint posting described in
// spec.md §4.1/§4.2 and SPEC_FULL.md's Domain Stack table.
package builder

import (
	"fmt"
	"sort"

	"github.com/gitrdm/gokanlogic/pkg/minikanren"

	"github.com/noah-isme/classroom-scheduler-core/internal/domain"
	apperrors "github.com/noah-isme/classroom-scheduler-core/pkg/errors"
)

// placed is the "session happened" value in the {1=unplaced, 2=placed}
// encoding every decision and indicator variable in this package uses,
// matching minikanren.BoolSum's own boolean convention.
const (
	unplaced = 1
	placed   = 2
)

// Config gates the optional/soft constraints spec.md §4.1 point 9 and §9
// leave to the implementer.
type Config struct {
	MinimizeMaxLoad        bool
	RequireConsecutiveLabs bool
	// AllowClassroomKindMismatch widens eligibility from a subject's own
	// EligibleClassroomIDs (normally already kind-filtered by the loader)
	// to every classroom in the problem, still subject to the capacity
	// check. Mirrors spec.md §6's ConstraintConfig.allow_classroom_kind_mismatch.
	AllowClassroomKindMismatch bool
}

// Placement names one decision variable: the (batch, subject, faculty,
// classroom, day, slot) tuple it represents, plus the FD variable backing
// it. Extraction reads the tuple back out by variable ID.
type Placement struct {
	Var         *minikanren.FDVariable
	BatchID     int
	SubjectID   int
	FacultyID   int
	ClassroomID int
	Day         int
	Slot        int
}

// Built is the constraint model ready to hand to internal/solve.
type Built struct {
	Model        *minikanren.Model
	Placements   []Placement
	ObjectiveVar *minikanren.FDVariable // non-nil iff Config.MinimizeMaxLoad and some (faculty, day) has a decision variable
}

// cell keys a (batch, subject, day, slot) group of decision variables.
// Declared at package scope so Build and postConsecutiveLabs share one
// named type instead of each describing an anonymous struct.
type cell struct {
	batch, subject, day, slot int
}

// Build enumerates eligible tuples and posts every hard constraint from
// spec.md §4.1: batch/classroom/faculty exclusivity, faculty daily caps,
// exact subject-hour coverage, and — when requested — consecutive-lab
// blocks and the minimax workload objective.
//
// Returns an apperrors.ErrInfeasible-wrapped error (UnsatisfiableByConstruction,
// spec.md §4.1/§7) when a subject's weekly-hour requirement structurally
// cannot be met by its eligible tuples, without ever invoking the solver.
func Build(problem *domain.Problem, cfg Config) (*Built, error) {
	model := minikanren.NewModel()

	type fcPair struct{ faculty, classroom int }

	// The qualified (faculty, classroom) pairs are rebuilt for every
	// (batch, subject), because the capacity check depends on the batch;
	// each pair then gets one variable per cell where both are available.
	placements := make([]Placement, 0, 1024)
	byCell := make(map[cell][]*minikanren.FDVariable)
	byBatchDaySlot := make(map[[3]int][]*minikanren.FDVariable)
	byClassroomDaySlot := make(map[[3]int][]*minikanren.FDVariable)
	byFacultyDaySlot := make(map[[3]int][]*minikanren.FDVariable)
	byFacultyDay := make(map[[2]int][]*minikanren.FDVariable)
	byBatchSubject := make(map[[2]int][]*minikanren.FDVariable)

	batches := append([]domain.Batch(nil), problem.Batches...)
	sort.Slice(batches, func(i, j int) bool { return batches[i].ID < batches[j].ID })

	for _, b := range batches {
		subjectIDs := append([]int(nil), b.SubjectIDs...)
		sort.Ints(subjectIDs)
		for _, sid := range subjectIDs {
			subj, ok := problem.Subjects[sid]
			if !ok {
				return nil, apperrors.Wrap(fmt.Errorf("batch %d references unknown subject %d", b.ID, sid),
					apperrors.ErrDataError.Code, apperrors.ErrDataError.Status, "invalid scheduling data")
			}

			faculties := indexFaculty(problem.Faculty)
			classrooms := indexClassrooms(problem.Classrooms)

			// Capacity is batch-specific (spec.md §4.1: c.capacity ≥
			// b.student_count), so it cannot be pre-filtered into
			// Subject.EligibleClassroomIDs the way kind-matching can; it is
			// applied here per batch instead.
			classroomCandidates := subj.EligibleClassroomIDs
			if cfg.AllowClassroomKindMismatch {
				classroomCandidates = make([]int, 0, len(problem.Classrooms))
				for _, c := range problem.Classrooms {
					classroomCandidates = append(classroomCandidates, c.ID)
				}
			}

			var pairs []fcPair
			for _, fid := range sortedInts(subj.QualifiedFacultyIDs) {
				for _, cid := range sortedInts(classroomCandidates) {
					c, ok := classrooms[cid]
					if !ok || c.Capacity < b.StudentCount {
						continue
					}
					pairs = append(pairs, fcPair{fid, cid})
				}
			}

			coverageCount := 0
			for d := 0; d < domain.Days; d++ {
				for t := 0; t < domain.Slots; t++ {
					for _, p := range pairs {
						f := faculties[p.faculty]
						c := classrooms[p.classroom]
						if !f.Availability.IsAvailable(d, t) || !c.Availability.IsAvailable(d, t) {
							continue
						}
						name := fmt.Sprintf("x_b%d_s%d_f%d_c%d_d%d_t%d", b.ID, sid, p.faculty, p.classroom, d, t)
						v := model.IntVar(unplaced, placed, name)

						placements = append(placements, Placement{
							Var: v, BatchID: b.ID, SubjectID: sid, FacultyID: p.faculty,
							ClassroomID: p.classroom, Day: d, Slot: t,
						})

						ck := cell{b.ID, sid, d, t}
						byCell[ck] = append(byCell[ck], v)

						bdsKey := [3]int{b.ID, d, t}
						byBatchDaySlot[bdsKey] = append(byBatchDaySlot[bdsKey], v)

						cdsKey := [3]int{p.classroom, d, t}
						byClassroomDaySlot[cdsKey] = append(byClassroomDaySlot[cdsKey], v)

						fdsKey := [3]int{p.faculty, d, t}
						byFacultyDaySlot[fdsKey] = append(byFacultyDaySlot[fdsKey], v)

						fdKey := [2]int{p.faculty, d}
						byFacultyDay[fdKey] = append(byFacultyDay[fdKey], v)

						bsKey := [2]int{b.ID, sid}
						byBatchSubject[bsKey] = append(byBatchSubject[bsKey], v)

						coverageCount++
					}
				}
			}

			if coverageCount < subj.WeeklyHours {
				return nil, apperrors.Wrap(
					fmt.Errorf("batch %d subject %d (%s) needs %d weekly hours but only %d eligible slots exist",
						b.ID, sid, subj.Name, subj.WeeklyHours, coverageCount),
					apperrors.ErrInfeasible.Code, apperrors.ErrInfeasible.Status,
					"unsatisfiable by construction")
			}
		}
	}

	// Exclusivity: a batch/classroom/faculty can be in at most one place per
	// (day, slot).
	if err := postAtMostOne(model, byBatchDaySlot); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrSolverInternal.Code, apperrors.ErrSolverInternal.Status, "building model")
	}
	if err := postAtMostOne(model, byClassroomDaySlot); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrSolverInternal.Code, apperrors.ErrSolverInternal.Status, "building model")
	}
	if err := postAtMostOne(model, byFacultyDaySlot); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrSolverInternal.Code, apperrors.ErrSolverInternal.Status, "building model")
	}

	// Faculty daily cap, and the totals the minimax objective reuses.
	facultyByID := indexFaculty(problem.Faculty)
	dailyTotals := make([]*minikanren.FDVariable, 0, len(byFacultyDay))
	for _, key := range sortedKeys2(byFacultyDay) {
		vars := byFacultyDay[key]
		fac := facultyByID[key[0]]
		// MaxDailyHours == 0 is a genuine zero bound (spec.md §3: "max daily
		// classes (≥0)") — it pins total to 1 (count 0), forbidding any
		// same-day session for this faculty, not an unbounded cap.
		cap := fac.MaxDailyHours
		if cap > len(vars) {
			cap = len(vars)
		}
		total := model.IntVar(1, cap+1, fmt.Sprintf("load_f%d_d%d", key[0], key[1]))
		bs, err := minikanren.NewBoolSum(vars, total)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrSolverInternal.Code, apperrors.ErrSolverInternal.Status, "building model")
		}
		model.AddConstraint(bs)
		dailyTotals = append(dailyTotals, total)
	}

	// Exact subject-hour coverage (spec §9 Design Notes: the missing
	// mandatory constraint, now constraint 5).
	for _, key := range sortedKeys2(byBatchSubject) {
		vars := byBatchSubject[key]
		subj := problem.Subjects[key[1]]
		required := subj.WeeklyHours
		total := model.IntVar(required+1, required+1, fmt.Sprintf("cov_b%d_s%d", key[0], key[1]))
		bs, err := minikanren.NewBoolSum(vars, total)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrSolverInternal.Code, apperrors.ErrSolverInternal.Status, "building model")
		}
		model.AddConstraint(bs)
	}

	built := &Built{Model: model, Placements: placements}

	if cfg.RequireConsecutiveLabs {
		if err := postConsecutiveLabs(model, problem, byCell); err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrSolverInternal.Code, apperrors.ErrSolverInternal.Status, "building model")
		}
	}

	if cfg.MinimizeMaxLoad && len(dailyTotals) > 0 {
		maxCap := 1
		for _, f := range problem.Faculty {
			if f.MaxDailyHours > maxCap {
				maxCap = f.MaxDailyHours
			}
		}
		obj := model.IntVar(1, maxCap+1, "max_daily_load")
		mx, err := minikanren.NewMax(dailyTotals, obj)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrSolverInternal.Code, apperrors.ErrSolverInternal.Status, "building model")
		}
		model.AddConstraint(mx)
		built.ObjectiveVar = obj
	}

	return built, nil
}

// postAtMostOne posts, for every group of variables sharing a resource at a
// single (day, slot), a BoolSum bounding the number of "placed" variables to
// at most one.
func postAtMostOne(model *minikanren.Model, groups map[[3]int][]*minikanren.FDVariable) error {
	for _, key := range sortedKeys3(groups) {
		vars := groups[key]
		total := model.IntVar(1, 2, fmt.Sprintf("excl_%d_%d_%d", key[0], key[1], key[2]))
		bs, err := minikanren.NewBoolSum(vars, total)
		if err != nil {
			return err
		}
		model.AddConstraint(bs)
	}
	return nil
}

// postConsecutiveLabs implements the optional soft/configurable constraint
// from spec.md §4.1 point 9 using Stretch: for every (batch, subject, day)
// with a lab component, the slots a subject occupies that day must not
// contain an isolated single-slot run (minLen=2 forbids a lone lab hour).
// See DESIGN.md for why this, rather than a single full-day run, is the
// chosen interpretation.
func postConsecutiveLabs(model *minikanren.Model, problem *domain.Problem, byCell map[cell][]*minikanren.FDVariable) error {
	type bsd struct{ batch, subject, day int }
	grouped := make(map[bsd][]struct {
		slot int
		vars []*minikanren.FDVariable
	})
	for key, vars := range byCell {
		subj, ok := problem.Subjects[key.subject]
		if !ok || !subj.RequiresLab() {
			continue
		}
		k := bsd{key.batch, key.subject, key.day}
		grouped[k] = append(grouped[k], struct {
			slot int
			vars []*minikanren.FDVariable
		}{key.slot, vars})
	}

	for k, entries := range grouped {
		byT := make(map[int][]*minikanren.FDVariable, domain.Slots)
		for _, e := range entries {
			byT[e.slot] = e.vars
		}
		seq := make([]*minikanren.FDVariable, domain.Slots)
		for t := 0; t < domain.Slots; t++ {
			vars := byT[t]
			name := fmt.Sprintf("occ_b%d_s%d_d%d_t%d", k.batch, k.subject, k.day, t)
			if len(vars) == 0 {
				// No eligible tuple this slot: occupancy is impossible, pin to unplaced.
				seq[t] = model.IntVar(unplaced, unplaced, name)
				continue
			}
			// Global batch exclusivity already bounds the number of
			// simultaneously-true vars at a (batch, day, slot) cell to at
			// most one, across every subject — so this subject's slice of
			// that cell is safely representable in the same {1,2} alphabet.
			occ := model.IntVar(unplaced, placed, name)
			bs, err := minikanren.NewBoolSum(vars, occ)
			if err != nil {
				return err
			}
			model.AddConstraint(bs)
			seq[t] = occ
		}
		if _, err := minikanren.NewStretch(model, seq, []int{placed}, []int{2}, []int{domain.Slots}); err != nil {
			return err
		}
	}
	return nil
}

func sortedInts(vals []int) []int {
	out := append([]int(nil), vals...)
	sort.Ints(out)
	return out
}

func indexFaculty(fs []domain.Faculty) map[int]domain.Faculty {
	out := make(map[int]domain.Faculty, len(fs))
	for _, f := range fs {
		out[f.ID] = f
	}
	return out
}

func indexClassrooms(cs []domain.Classroom) map[int]domain.Classroom {
	out := make(map[int]domain.Classroom, len(cs))
	for _, c := range cs {
		out[c.ID] = c
	}
	return out
}

func sortedKeys2(m map[[2]int][]*minikanren.FDVariable) [][2]int {
	keys := make([][2]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i][0] != keys[j][0] {
			return keys[i][0] < keys[j][0]
		}
		return keys[i][1] < keys[j][1]
	})
	return keys
}

func sortedKeys3(m map[[3]int][]*minikanren.FDVariable) [][3]int {
	keys := make([][3]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		for d := 0; d < 3; d++ {
			if keys[i][d] != keys[j][d] {
				return keys[i][d] < keys[j][d]
			}
		}
		return false
	})
	return keys
}
