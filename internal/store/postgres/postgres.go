// Package postgres is a reference domain.Repository adapter over
// PostgreSQL, adapted from the teacher's internal/repository/schedule_repository.go
// (sqlx, $-placeholder queries, NamedExecContext bulk writes) for the
// scheduling entities' own junction-table shape instead of schedules.
package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"

	"github.com/noah-isme/classroom-scheduler-core/internal/domain"
)

// Repository persists scheduling entities in PostgreSQL.
type Repository struct {
	db *sqlx.DB
}

var _ domain.Repository = (*Repository)(nil)

// New creates a repository over an already-connected db handle (see
// pkg/database.NewPostgres).
func New(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

type classroomRow struct {
	ID           int    `db:"id"`
	Name         string `db:"name"`
	Capacity     int    `db:"capacity"`
	HasLab       bool   `db:"has_lab"`
	Availability uint64 `db:"availability_mask"`
}

// LoadClassrooms returns every classroom, ordered by id.
func (r *Repository) LoadClassrooms(ctx context.Context) ([]domain.Classroom, error) {
	const query = `SELECT id, name, capacity, has_lab, availability_mask FROM classrooms ORDER BY id`
	var rows []classroomRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("load classrooms: %w", err)
	}
	return lo.Map(rows, func(row classroomRow, _ int) domain.Classroom {
		return domain.Classroom{
			ID:           row.ID,
			Name:         row.Name,
			Capacity:     row.Capacity,
			HasLab:       row.HasLab,
			Availability: domain.AvailabilityMask(row.Availability),
		}
	}), nil
}

type facultyRow struct {
	ID            int    `db:"id"`
	Name          string `db:"name"`
	MaxDailyHours int    `db:"max_daily_hours"`
	Availability  uint64 `db:"availability_mask"`
}

// LoadFaculty returns every faculty member, ordered by id.
func (r *Repository) LoadFaculty(ctx context.Context) ([]domain.Faculty, error) {
	const query = `SELECT id, name, max_daily_hours, availability_mask FROM faculty ORDER BY id`
	var rows []facultyRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("load faculty: %w", err)
	}
	return lo.Map(rows, func(row facultyRow, _ int) domain.Faculty {
		return domain.Faculty{
			ID:            row.ID,
			Name:          row.Name,
			MaxDailyHours: row.MaxDailyHours,
			Availability:  domain.AvailabilityMask(row.Availability),
		}
	}), nil
}

type subjectRow struct {
	ID          int    `db:"id"`
	Name        string `db:"name"`
	WeeklyHours int    `db:"weekly_hours"`
	LabHours    int    `db:"lab_hours"`
}

type subjectFacultyRow struct {
	SubjectID int `db:"subject_id"`
	FacultyID int `db:"faculty_id"`
}

type subjectClassroomRow struct {
	SubjectID   int `db:"subject_id"`
	ClassroomID int `db:"classroom_id"`
}

// LoadSubjects returns every subject with its qualified-faculty and
// eligible-classroom pools attached, ordered by id.
func (r *Repository) LoadSubjects(ctx context.Context) ([]domain.Subject, error) {
	var rows []subjectRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT id, name, weekly_hours, lab_hours FROM subjects ORDER BY id`); err != nil {
		return nil, fmt.Errorf("load subjects: %w", err)
	}

	var facultyLinks []subjectFacultyRow
	if err := r.db.SelectContext(ctx, &facultyLinks, `SELECT subject_id, faculty_id FROM subject_faculty ORDER BY subject_id, faculty_id`); err != nil {
		return nil, fmt.Errorf("load subject faculty links: %w", err)
	}
	facultyBySubject := lo.GroupBy(facultyLinks, func(l subjectFacultyRow) int { return l.SubjectID })

	var classroomLinks []subjectClassroomRow
	if err := r.db.SelectContext(ctx, &classroomLinks, `SELECT subject_id, classroom_id FROM subject_classrooms ORDER BY subject_id, classroom_id`); err != nil {
		return nil, fmt.Errorf("load subject classroom links: %w", err)
	}
	classroomsBySubject := lo.GroupBy(classroomLinks, func(l subjectClassroomRow) int { return l.SubjectID })

	return lo.Map(rows, func(row subjectRow, _ int) domain.Subject {
		return domain.Subject{
			ID:          row.ID,
			Name:        row.Name,
			WeeklyHours: row.WeeklyHours,
			LabHours:    row.LabHours,
			QualifiedFacultyIDs: lo.Map(facultyBySubject[row.ID], func(l subjectFacultyRow, _ int) int {
				return l.FacultyID
			}),
			EligibleClassroomIDs: lo.Map(classroomsBySubject[row.ID], func(l subjectClassroomRow, _ int) int {
				return l.ClassroomID
			}),
		}
	}), nil
}

type batchRow struct {
	ID           int    `db:"id"`
	Name         string `db:"name"`
	StudentCount int    `db:"student_count"`
}

type batchSubjectRow struct {
	BatchID   int `db:"batch_id"`
	SubjectID int `db:"subject_id"`
}

// LoadBatches returns the requested batches, with their already-expanded
// (elective-resolved) subject lists attached.
func (r *Repository) LoadBatches(ctx context.Context, batchIDs []int) ([]domain.Batch, error) {
	if len(batchIDs) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`SELECT id, name, student_count FROM batches WHERE id IN (?) ORDER BY id`, batchIDs)
	if err != nil {
		return nil, fmt.Errorf("build batch query: %w", err)
	}
	query = r.db.Rebind(query)
	var rows []batchRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("load batches: %w", err)
	}

	subjectQuery, subjectArgs, err := sqlx.In(`SELECT batch_id, subject_id FROM batch_subjects WHERE batch_id IN (?) ORDER BY batch_id, subject_id`, batchIDs)
	if err != nil {
		return nil, fmt.Errorf("build batch subject query: %w", err)
	}
	subjectQuery = r.db.Rebind(subjectQuery)
	var subjectLinks []batchSubjectRow
	if err := r.db.SelectContext(ctx, &subjectLinks, subjectQuery, subjectArgs...); err != nil {
		return nil, fmt.Errorf("load batch subject links: %w", err)
	}
	subjectsByBatch := lo.GroupBy(subjectLinks, func(l batchSubjectRow) int { return l.BatchID })

	return lo.Map(rows, func(row batchRow, _ int) domain.Batch {
		return domain.Batch{
			ID:           row.ID,
			Name:         row.Name,
			StudentCount: row.StudentCount,
			SubjectIDs: lo.Map(subjectsByBatch[row.ID], func(l batchSubjectRow, _ int) int {
				return l.SubjectID
			}),
		}
	}), nil
}

// SaveAssignments persists one solve run's assignments within a single
// transaction, mirroring the teacher's BulkCreate/bulkInsertSchedules
// pattern.
func (r *Repository) SaveAssignments(ctx context.Context, runID string, assignments []domain.Assignment) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save assignments: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `INSERT INTO assignments (run_id, batch_id, subject_id, faculty_id, classroom_id, day, slot) VALUES (:run_id, :batch_id, :subject_id, :faculty_id, :classroom_id, :day, :slot)`
	for _, a := range assignments {
		payload := map[string]interface{}{
			"run_id":       runID,
			"batch_id":     a.BatchID,
			"subject_id":   a.SubjectID,
			"faculty_id":   a.FacultyID,
			"classroom_id": a.ClassroomID,
			"day":          a.Day,
			"slot":         a.Slot,
		}
		if _, err = tx.NamedExecContext(ctx, query, payload); err != nil {
			return fmt.Errorf("insert assignment: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit save assignments: %w", err)
	}
	return nil
}
