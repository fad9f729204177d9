package domain

import "context"

// Repository is the external collaborator boundary §6 describes: it is the
// only way the solver core ever touches storage. Implementations live
// outside this package (internal/store/memory, internal/store/postgres are
// reference adapters); production persistence is a Non-goal of this module.
type Repository interface {
	// LoadClassrooms returns every classroom eligible to host a session.
	LoadClassrooms(ctx context.Context) ([]Classroom, error)

	// LoadFaculty returns every faculty member eligible for assignment.
	LoadFaculty(ctx context.Context) ([]Faculty, error)

	// LoadSubjects returns the subject catalog, including qualification and
	// eligible-classroom pools.
	LoadSubjects(ctx context.Context) ([]Subject, error)

	// LoadBatches returns the requested batches with their expanded
	// per-batch subject lists (elective groups already fanned out).
	LoadBatches(ctx context.Context, batchIDs []int) ([]Batch, error)

	// SaveAssignments persists the solved timetable for a solve run. Called
	// only after a Feasible or Optimal result; never for Infeasible/Unknown.
	SaveAssignments(ctx context.Context, runID string, assignments []Assignment) error
}
