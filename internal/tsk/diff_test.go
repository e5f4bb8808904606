package tsk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffIterator(t *testing.T) {
	tc := twoTrees(t)
	ts := newTreeSequence(t, tc)

	var d DiffIterator
	require.Equal(t, int32(0), DiffIterInit(&d, ts, 0))
	defer DiffIterFree(&d)

	var left, right float64
	var removed, inserted []int32

	require.Equal(t, int32(1), DiffIterNext(&d, &left, &right, &removed, &inserted))
	assert.Equal(t, 0.0, left)
	assert.Equal(t, 5.0, right)
	assert.Empty(t, removed)
	assert.Len(t, inserted, 4)

	require.Equal(t, int32(1), DiffIterNext(&d, &left, &right, &removed, &inserted))
	assert.Equal(t, 5.0, left)
	assert.Equal(t, 10.0, right)
	require.Len(t, removed, 2)
	require.Len(t, inserted, 2)
	for _, id := range removed {
		assert.Equal(t, int32(4), tc.Edges.Parent[id])
	}
	for _, id := range inserted {
		assert.Equal(t, int32(5), tc.Edges.Parent[id])
	}

	assert.Equal(t, int32(0), DiffIterNext(&d, &left, &right, &removed, &inserted))

	t.Run("nil tree sequence", func(t *testing.T) {
		var d DiffIterator
		assert.Equal(t, ErrBadParamValue, DiffIterInit(&d, nil, 0))
	})
}
