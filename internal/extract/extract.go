// Package extract reads a solved assignment vector back into domain
// assignments, the mirror image of internal/builder's encoding step.
package extract

import (
	"sort"

	"github.com/noah-isme/classroom-scheduler-core/internal/builder"
	"github.com/noah-isme/classroom-scheduler-core/internal/domain"
)

// placedValue must match builder's "placed" constant; duplicated here
// rather than exported so neither package needs to expose an internal
// encoding detail to the other's public surface.
const placedValue = 2

// Assignments filters solution (indexed by FDVariable.ID()) down to the
// placements the solver chose, and returns them sorted by
// (BatchID, Day, Slot) so two solves of the same model produce
// byte-identical output — spec.md §8's "sort order is the contract".
func Assignments(placements []builder.Placement, solution []int) []domain.Assignment {
	out := make([]domain.Assignment, 0, len(placements))
	for _, p := range placements {
		id := p.Var.ID()
		if id < 0 || id >= len(solution) {
			continue
		}
		if solution[id] != placedValue {
			continue
		}
		out = append(out, domain.NewAssignment(p.BatchID, p.SubjectID, p.FacultyID, p.ClassroomID, p.Day, p.Slot))
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.BatchID != b.BatchID {
			return a.BatchID < b.BatchID
		}
		if a.Day != b.Day {
			return a.Day < b.Day
		}
		return a.Slot < b.Slot
	})

	return out
}
