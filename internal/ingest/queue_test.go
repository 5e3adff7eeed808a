package ingest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestQueue(t *testing.T) *Queue {
	t.Helper()
	q, err := OpenQueue(filepath.Join(t.TempDir(), "queue.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = q.Close() })
	return q
}

func TestQueueClaimOrder(t *testing.T) {
	q := openTestQueue(t)
	ctx := context.Background()

	first, err := q.Enqueue(ctx, "a.json", "a.pdf")
	require.NoError(t, err)
	second, err := q.Enqueue(ctx, "b.json", "b.pdf")
	require.NoError(t, err)

	item, err := q.ClaimNext(ctx)
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, first, item.ID)
	assert.Equal(t, "a.json", item.JSONPath)
	assert.Equal(t, StateProcessing, item.State)
	assert.Equal(t, 1, item.Attempts)

	// the claimed item is out of the queued pool
	item2, err := q.ClaimNext(ctx)
	require.NoError(t, err)
	require.NotNil(t, item2)
	assert.Equal(t, second, item2.ID)

	item3, err := q.ClaimNext(ctx)
	require.NoError(t, err)
	assert.Nil(t, item3)
}

func TestQueueMarkDone(t *testing.T) {
	q := openTestQueue(t)
	ctx := context.Background()

	id, err := q.Enqueue(ctx, "a.json", "a.pdf")
	require.NoError(t, err)

	item, err := q.ClaimNext(ctx)
	require.NoError(t, err)
	require.NotNil(t, item)
	require.NoError(t, q.MarkDone(ctx, id))

	pending, err := q.Pending(ctx)
	require.NoError(t, err)
	assert.Zero(t, pending)
}

func TestQueueRetriesThenParks(t *testing.T) {
	q := openTestQueue(t)
	ctx := context.Background()

	id, err := q.Enqueue(ctx, "a.json", "a.pdf")
	require.NoError(t, err)

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		item, err := q.ClaimNext(ctx)
		require.NoError(t, err)
		require.NotNil(t, item, "attempt %d should find the item", attempt)
		assert.Equal(t, id, item.ID)
		require.NoError(t, q.MarkFailed(ctx, id, "portal timeout"))
	}

	// parked after the attempt cap
	item, err := q.ClaimNext(ctx)
	require.NoError(t, err)
	assert.Nil(t, item)

	pending, err := q.Pending(ctx)
	require.NoError(t, err)
	assert.Zero(t, pending)
}
