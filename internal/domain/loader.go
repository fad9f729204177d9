package domain

import (
	"context"
	"fmt"
	"sort"

	apperrors "github.com/noah-isme/classroom-scheduler-core/pkg/errors"
)

// Problem is the fully materialized input to the problem builder: every
// entity the solve needs, with referential integrity already verified.
type Problem struct {
	Classrooms []Classroom
	Faculty    []Faculty
	Subjects   map[int]Subject
	Batches    []Batch
}

// BuildProblem loads every entity required to solve for the given batches
// and verifies referential integrity (spec §7 DataError). It performs no
// constraint reasoning; that is internal/builder's job.
func BuildProblem(ctx context.Context, repo Repository, batchIDs []int) (*Problem, error) {
	if len(batchIDs) == 0 {
		return nil, apperrors.Wrap(fmt.Errorf("batchIDs must be non-empty"),
			apperrors.ErrDataError.Code, apperrors.ErrDataError.Status, "no batches requested")
	}

	classrooms, err := repo.LoadClassrooms(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrDataError.Code, apperrors.ErrDataError.Status, "loading classrooms")
	}
	faculty, err := repo.LoadFaculty(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrDataError.Code, apperrors.ErrDataError.Status, "loading faculty")
	}
	subjects, err := repo.LoadSubjects(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrDataError.Code, apperrors.ErrDataError.Status, "loading subjects")
	}
	batches, err := repo.LoadBatches(ctx, batchIDs)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrDataError.Code, apperrors.ErrDataError.Status, "loading batches")
	}

	if len(classrooms) == 0 {
		return nil, dataErrorf("no classrooms available")
	}
	if len(faculty) == 0 {
		return nil, dataErrorf("no faculty available")
	}
	if len(batches) != len(batchIDs) {
		return nil, dataErrorf("requested %d batches, repository returned %d", len(batchIDs), len(batches))
	}

	subjectByID := make(map[int]Subject, len(subjects))
	for _, s := range subjects {
		subjectByID[s.ID] = s
	}
	classroomIDs := idSet(classrooms, func(c Classroom) int { return c.ID })
	facultyIDs := idSet(faculty, func(f Faculty) int { return f.ID })

	for _, b := range batches {
		if len(b.SubjectIDs) == 0 {
			return nil, dataErrorf("batch %d (%s) has no subjects", b.ID, b.Name)
		}
		for _, sid := range b.SubjectIDs {
			subj, ok := subjectByID[sid]
			if !ok {
				return nil, dataErrorf("batch %d references unknown subject %d", b.ID, sid)
			}
			if subj.WeeklyHours <= 0 {
				return nil, dataErrorf("subject %d (%s) has non-positive weekly hours", subj.ID, subj.Name)
			}
			if subj.LabHours > subj.WeeklyHours {
				return nil, dataErrorf("subject %d (%s) lab hours exceed weekly hours", subj.ID, subj.Name)
			}
			for _, fid := range subj.QualifiedFacultyIDs {
				if !facultyIDs[fid] {
					return nil, dataErrorf("subject %d references unknown faculty %d", subj.ID, fid)
				}
			}
			for _, cid := range subj.EligibleClassroomIDs {
				if !classroomIDs[cid] {
					return nil, dataErrorf("subject %d references unknown classroom %d", subj.ID, cid)
				}
			}
			if len(subj.QualifiedFacultyIDs) == 0 {
				return nil, dataErrorf("subject %d (%s) has no qualified faculty", subj.ID, subj.Name)
			}
			if len(subj.EligibleClassroomIDs) == 0 {
				return nil, dataErrorf("subject %d (%s) has no eligible classroom", subj.ID, subj.Name)
			}
		}
	}

	sort.Slice(batches, func(i, j int) bool { return batches[i].ID < batches[j].ID })

	return &Problem{
		Classrooms: classrooms,
		Faculty:    faculty,
		Subjects:   subjectByID,
		Batches:    batches,
	}, nil
}

func idSet[T any](items []T, id func(T) int) map[int]bool {
	out := make(map[int]bool, len(items))
	for _, it := range items {
		out[id(it)] = true
	}
	return out
}

func dataErrorf(format string, args ...interface{}) error {
	return apperrors.Wrap(fmt.Errorf(format, args...),
		apperrors.ErrDataError.Code, apperrors.ErrDataError.Status, "invalid scheduling data")
}
