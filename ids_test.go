package tskit_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/tskit"
)

func TestIDs(t *testing.T) {
	t.Run("null", func(t *testing.T) {
		var id tskit.NodeID = tskit.Null
		assert.True(t, id.IsNull())
		assert.Equal(t, "NULL", id.String())
		_, err := id.Index()
		assert.ErrorIs(t, err, tskit.ErrIndex)
	})

	t.Run("index", func(t *testing.T) {
		id := tskit.EdgeID(7)
		assert.False(t, id.IsNull())
		assert.Equal(t, "7", id.String())
		i, err := id.Index()
		require.NoError(t, err)
		assert.Equal(t, 7, i)
		assert.Equal(t, int32(7), id.Raw())
	})

	t.Run("from index", func(t *testing.T) {
		id, err := tskit.IDFromIndex[tskit.SiteID](3)
		require.NoError(t, err)
		assert.Equal(t, tskit.SiteID(3), id)

		_, err = tskit.IDFromIndex[tskit.SiteID](-1)
		assert.ErrorIs(t, err, tskit.ErrIndex)
		_, err = tskit.IDFromIndex[tskit.SiteID](math.MaxInt32 + 1)
		assert.ErrorIs(t, err, tskit.ErrIndex)
	})

	t.Run("raw views", func(t *testing.T) {
		ids := []tskit.NodeID{0, tskit.Null, 4}
		raw := tskit.RawIDs(ids)
		assert.Equal(t, []int32{0, -1, 4}, raw)
		assert.Equal(t, ids, tskit.IDsFromRaw[tskit.NodeID](raw))
	})

	t.Run("unknown time", func(t *testing.T) {
		assert.True(t, tskit.UnknownTime().IsUnknown())
		assert.False(t, tskit.Time(0).IsUnknown())
		assert.False(t, tskit.Time(math.NaN()).IsUnknown())
	})
}
