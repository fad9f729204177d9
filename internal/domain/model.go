// Package domain defines the scheduling entities, their availability
// bookkeeping, and the repository boundary the solver core is loaded
// through. It does not solve anything; it is the data model §3/§6 describe.
package domain

import "fmt"

// Days and Slots are fixed by the timetable grid: five weekdays of eight
// teaching periods each.
const (
	Days  = 5
	Slots = 8
)

// DayNames and TimeSlotStrings give the literal strings persisted assignments
// carry (spec §6), indexed by the same 0-based day/slot the rest of the
// package uses internally.
var DayNames = [Days]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

// TimeSlotStrings deliberately skips the 13:00-14:00 lunch period.
var TimeSlotStrings = [Slots]string{
	"09:00-10:00", "10:00-11:00", "11:00-12:00", "12:00-13:00",
	"14:00-15:00", "15:00-16:00", "16:00-17:00", "17:00-18:00",
}

// AvailabilityMask is a bitset over Days*Slots cells; bit (day*Slots+slot)
// set means the cell is available. Callers are expected to have already
// cleared approved-leave cells before handing a mask to this package — see
// DESIGN.md's "Leave effect on availability" note.
type AvailabilityMask uint64

// FullAvailability returns a mask with every cell available.
func FullAvailability() AvailabilityMask {
	return AvailabilityMask(1<<uint(Days*Slots)) - 1
}

// Block marks (day, slot) unavailable, mirroring the teacher's
// teacherAvailability.Block helper.
func (m AvailabilityMask) Block(day, slot int) AvailabilityMask {
	return m &^ (1 << uint(day*Slots+slot))
}

// IsAvailable reports whether (day, slot) is available in this mask.
func (m AvailabilityMask) IsAvailable(day, slot int) bool {
	return m&(1<<uint(day*Slots+slot)) != 0
}

// Classroom is a physical room that can host a session.
type Classroom struct {
	ID           int
	Name         string
	Capacity     int
	HasLab       bool
	Availability AvailabilityMask
}

// Faculty is a teacher eligible to be assigned to sessions.
type Faculty struct {
	ID            int
	Name          string
	MaxDailyHours int
	Availability  AvailabilityMask
}

// Subject is a course offered to one or more batches, with a weekly hour
// requirement and the faculty/classroom pools eligible to teach it.
type Subject struct {
	ID                   int
	Name                 string
	WeeklyHours          int
	LabHours             int // subset of WeeklyHours requiring a lab-capable classroom; 0 if none
	QualifiedFacultyIDs  []int
	EligibleClassroomIDs []int
}

// RequiresLab reports whether this subject has any lab component.
func (s Subject) RequiresLab() bool { return s.LabHours > 0 }

// Batch is a cohort of students following a fixed set of subjects.
//
// SubjectIDs is expected to already be the fully expanded per-batch subject
// list: elective-group fan-out (spec.md §9 Open Question) is resolved at the
// Repository/loader boundary, not here. A Batch never references an elective
// group id directly.
type Batch struct {
	ID           int
	Name         string
	StudentCount int
	SubjectIDs   []int
}

// Assignment is one scheduled (batch, subject, faculty, classroom) session
// at a specific day/slot. IsFixed and IsApproved always start false; only a
// downstream approval workflow external to this module ever sets them.
type Assignment struct {
	BatchID     int    `json:"batch_id" db:"batch_id"`
	SubjectID   int    `json:"subject_id" db:"subject_id"`
	FacultyID   int    `json:"faculty_id" db:"faculty_id"`
	ClassroomID int    `json:"classroom_id" db:"classroom_id"`
	Day         int    `json:"day" db:"day"`
	Slot        int    `json:"slot" db:"slot"`
	DayName     string `json:"day_name" db:"day_name"`
	TimeSlot    string `json:"time_slot_string" db:"time_slot_string"`
	IsFixed     bool   `json:"is_fixed" db:"is_fixed"`
	IsApproved  bool   `json:"is_approved" db:"is_approved"`
}

// NewAssignment builds an Assignment with the literal day/slot strings filled in.
func NewAssignment(batchID, subjectID, facultyID, classroomID, day, slot int) Assignment {
	return Assignment{
		BatchID:     batchID,
		SubjectID:   subjectID,
		FacultyID:   facultyID,
		ClassroomID: classroomID,
		Day:         day,
		Slot:        slot,
		DayName:     DayNames[day],
		TimeSlot:    TimeSlotStrings[slot],
	}
}

func (a Assignment) String() string {
	return fmt.Sprintf("batch=%d subject=%d faculty=%d classroom=%d %s %s",
		a.BatchID, a.SubjectID, a.FacultyID, a.ClassroomID, a.DayName, a.TimeSlot)
}
