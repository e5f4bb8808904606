package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hupe1980/tskit"
)

// TwoTrees builds sorted, indexed tables on [0, 10) with three samples and
// two trees:
//
//	[0, 5):  4(3(0, 1), 2)
//	[5, 10): 5(3(0, 1), 2)
//
// Site 0 at 2.5 carries a mutation above node 3, site 1 at 7.5 one above
// node 2. The tables are closed when the test ends.
func TwoTrees(t testing.TB, opts ...tskit.Option) *tskit.TableCollection {
	t.Helper()
	tables, err := tskit.New(10, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tables.Close() })

	for range 3 {
		_, err := tables.AddNode(tskit.NodeIsSample, 0, tskit.Null, tskit.Null)
		require.NoError(t, err)
	}
	for _, time := range []tskit.Time{1, 2, 3} {
		_, err := tables.AddNode(0, time, tskit.Null, tskit.Null)
		require.NoError(t, err)
	}
	for _, e := range []struct {
		left, right   tskit.Position
		parent, child tskit.NodeID
	}{
		{5, 10, 5, 3},
		{0, 10, 3, 0},
		{0, 5, 4, 2},
		{0, 10, 3, 1},
		{0, 5, 4, 3},
		{5, 10, 5, 2},
	} {
		_, err := tables.AddEdge(e.left, e.right, e.parent, e.child)
		require.NoError(t, err)
	}

	site, err := tables.AddSite(2.5, []byte("A"))
	require.NoError(t, err)
	_, err = tables.AddMutation(site, 3, tskit.Null, tskit.UnknownTime(), []byte("T"))
	require.NoError(t, err)
	site, err = tables.AddSite(7.5, []byte("G"))
	require.NoError(t, err)
	_, err = tables.AddMutation(site, 2, tskit.Null, tskit.UnknownTime(), []byte("C"))
	require.NoError(t, err)

	require.NoError(t, tables.Sort(nil, 0))
	require.NoError(t, tables.BuildIndex())
	return tables
}

// WFConfig parameterizes WrightFisher.
type WFConfig struct {
	PopulationSize int
	Generations    int
	SequenceLength tskit.Position

	// RecombinationProb is the chance that a child inherits from two
	// parents split at a uniform breakpoint.
	RecombinationProb float64

	// MutationRate is the expected number of mutations per unit of
	// sequence over the whole simulation.
	MutationRate float64
}

// DefaultWFConfig is a small simulation suitable for unit tests.
func DefaultWFConfig() WFConfig {
	return WFConfig{
		PopulationSize:    10,
		Generations:       20,
		SequenceLength:    100,
		RecombinationProb: 0.5,
		MutationRate:      0.1,
	}
}

// WrightFisher simulates a haploid Wright-Fisher population forward in time
// and returns the tables simplified to the final generation, sorted and
// indexed. The same rng seed yields identical tables.
func WrightFisher(t testing.TB, rng *RNG, cfg WFConfig, opts ...tskit.Option) *tskit.TableCollection {
	t.Helper()
	require.GreaterOrEqual(t, cfg.PopulationSize, 2)

	tables, err := tskit.New(cfg.SequenceLength, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tables.Close() })

	n := cfg.PopulationSize
	parents := make([]tskit.NodeID, n)
	for i := range parents {
		parents[i], err = tables.AddNode(0, tskit.Time(cfg.Generations), tskit.Null, tskit.Null)
		require.NoError(t, err)
	}

	for g := cfg.Generations - 1; g >= 0; g-- {
		var flags tskit.NodeFlags
		if g == 0 {
			flags = tskit.NodeIsSample
		}
		children := make([]tskit.NodeID, n)
		for i := range children {
			child, err := tables.AddNode(flags, tskit.Time(g), tskit.Null, tskit.Null)
			require.NoError(t, err)
			children[i] = child

			a, b := rng.Pair(n)
			if rng.Float64() < cfg.RecombinationProb {
				bp := tskit.Position(math.Floor(rng.Uniform(1, float64(cfg.SequenceLength))))
				_, err = tables.AddEdge(0, bp, parents[a], child)
				require.NoError(t, err)
				_, err = tables.AddEdge(bp, cfg.SequenceLength, parents[b], child)
			} else {
				_, err = tables.AddEdge(0, cfg.SequenceLength, parents[a], child)
			}
			require.NoError(t, err)
		}
		parents = children
	}

	require.NoError(t, tables.Sort(nil, 0))
	_, err = tables.Simplify(nil, 0, false)
	require.NoError(t, err)

	seen := make(map[tskit.Position]bool)
	nodes := tables.Nodes().NumRows()
	for range rng.Poisson(cfg.MutationRate * float64(cfg.SequenceLength)) {
		pos := tskit.Position(rng.Uniform(0, float64(cfg.SequenceLength)))
		if seen[pos] {
			continue
		}
		seen[pos] = true
		site, err := tables.AddSite(pos, []byte("0"))
		require.NoError(t, err)
		_, err = tables.AddMutation(site, tskit.NodeID(rng.Intn(nodes)), tskit.Null, tskit.UnknownTime(), []byte("1"))
		require.NoError(t, err)
	}

	require.NoError(t, tables.Sort(nil, 0))
	require.NoError(t, tables.BuildIndex())
	return tables
}
