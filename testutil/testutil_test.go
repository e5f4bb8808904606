package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/tskit"
)

func TestRNG(t *testing.T) {
	rng := NewRNG(4711)
	first := rng.Intn(1000)
	rng.Reset()
	assert.Equal(t, first, rng.Intn(1000))
	assert.Equal(t, int64(4711), rng.Seed())

	for range 100 {
		a, b := rng.Pair(3)
		assert.NotEqual(t, a, b)
		assert.Less(t, a, 3)
		assert.Less(t, b, 3)
		v := rng.Uniform(2, 4)
		assert.GreaterOrEqual(t, v, 2.0)
		assert.Less(t, v, 4.0)
	}
	assert.Zero(t, rng.Poisson(0))
}

func TestTwoTrees(t *testing.T) {
	tables := TwoTrees(t)
	assert.True(t, tables.IsIndexed())
	assert.Equal(t, 6, tables.Nodes().NumRows())
	assert.Equal(t, 6, tables.Edges().NumRows())

	n, err := tables.CheckIntegrity(tskit.CheckTrees)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestWrightFisher(t *testing.T) {
	cfg := DefaultWFConfig()
	a := WrightFisher(t, NewRNG(1), cfg)
	b := WrightFisher(t, NewRNG(1), cfg)
	assert.True(t, a.Equals(b, tskit.CmpIgnoreProvenance))

	assert.Len(t, a.SamplesAsVector(), cfg.PopulationSize)
	_, err := a.CheckIntegrity(tskit.CheckTrees)
	require.NoError(t, err)

	ts, err := a.TreeSequence(0)
	require.NoError(t, err)
	defer ts.Close()
	assert.Positive(t, ts.NumTrees())
	assert.Equal(t, cfg.PopulationSize, ts.NumSamples())
}
