package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-scheduler-core/internal/domain"
)

func TestRepositoryLoadAndSaveRoundTrip(t *testing.T) {
	repo := New(
		[]domain.Classroom{{ID: 1, Name: "Room A"}},
		[]domain.Faculty{{ID: 1, Name: "Dr. A"}},
		[]domain.Subject{{ID: 1, Name: "Math"}},
		[]domain.Batch{{ID: 1, Name: "Batch 1"}, {ID: 2, Name: "Batch 2"}},
	)

	ctx := context.Background()

	classrooms, err := repo.LoadClassrooms(ctx)
	require.NoError(t, err)
	assert.Len(t, classrooms, 1)

	batches, err := repo.LoadBatches(ctx, []int{2})
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, 2, batches[0].ID)

	assignments := []domain.Assignment{
		{BatchID: 1, Day: 1, Slot: 1},
		{BatchID: 1, Day: 0, Slot: 0},
	}
	require.NoError(t, repo.SaveAssignments(ctx, "run-1", assignments))

	saved, ok := repo.Run("run-1")
	require.True(t, ok)
	require.Len(t, saved, 2)
	assert.Equal(t, 0, saved[0].Day)
	assert.Equal(t, 1, saved[1].Day)

	_, ok = repo.Run("missing")
	assert.False(t, ok)
}

func TestRepositoryImplementsDomainRepository(t *testing.T) {
	var _ domain.Repository = New(nil, nil, nil, nil)
}
