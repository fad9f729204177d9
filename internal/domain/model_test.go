package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAvailabilityMaskBlockAndIsAvailable(t *testing.T) {
	mask := FullAvailability()
	assert.True(t, mask.IsAvailable(0, 0))
	assert.True(t, mask.IsAvailable(Days-1, Slots-1))

	mask = mask.Block(1, 3)
	assert.False(t, mask.IsAvailable(1, 3))
	assert.True(t, mask.IsAvailable(1, 2))
	assert.True(t, mask.IsAvailable(0, 3))
}

func TestNewAssignmentFillsLiteralStrings(t *testing.T) {
	a := NewAssignment(1, 2, 3, 4, 0, 0)
	assert.Equal(t, "Monday", a.DayName)
	assert.Equal(t, "09:00-10:00", a.TimeSlot)
	assert.False(t, a.IsFixed)
	assert.False(t, a.IsApproved)

	last := NewAssignment(1, 2, 3, 4, Days-1, Slots-1)
	assert.Equal(t, "Friday", last.DayName)
	assert.Equal(t, "17:00-18:00", last.TimeSlot)
}

func TestSubjectRequiresLab(t *testing.T) {
	assert.True(t, Subject{LabHours: 2}.RequiresLab())
	assert.False(t, Subject{LabHours: 0}.RequiresLab())
}
