package prom

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/tskit"
	"github.com/hupe1980/tskit/testutil"
)

func gather(t *testing.T, reg *prometheus.Registry) map[string]*dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	out := make(map[string]*dto.MetricFamily, len(families))
	for _, f := range families {
		out[f.GetName()] = f
	}
	return out
}

func counter(f *dto.MetricFamily, labels ...string) float64 {
	for _, m := range f.GetMetric() {
		if matches(m, labels) {
			if m.GetCounter() != nil {
				return m.GetCounter().GetValue()
			}
			return m.GetGauge().GetValue()
		}
	}
	return -1
}

func matches(m *dto.Metric, labels []string) bool {
	for i := 0; i+1 < len(labels); i += 2 {
		found := false
		for _, lp := range m.GetLabel() {
			if lp.GetName() == labels[i] && lp.GetValue() == labels[i+1] {
				found = true
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	require.NoError(t, err)

	c.RecordHandleOpen("table_collection")
	c.RecordHandleOpen("table_collection")
	c.RecordHandleClose("table_collection")
	c.RecordDump(100, time.Millisecond, nil)
	c.RecordLoad(50, time.Millisecond, errors.New("boom"))
	c.RecordSimplify(10, 4, time.Millisecond, nil)
	c.RecordTreeAdvance()

	m := gather(t, reg)
	assert.Equal(t, 1.0, counter(m["tskit_handles_open"], "kind", "table_collection"))
	assert.Equal(t, 2.0, counter(m["tskit_handles_opened_total"], "kind", "table_collection"))
	assert.Equal(t, 100.0, counter(m["tskit_io_bytes_total"], "op", "dump"))
	assert.Equal(t, -1.0, counter(m["tskit_io_bytes_total"], "op", "load"))
	assert.Equal(t, 6.0, counter(m["tskit_simplify_nodes_removed_total"]))
	assert.Equal(t, 1.0, counter(m["tskit_tree_advances_total"]))

	var failed uint64
	for _, metric := range m["tskit_io_duration_seconds"].GetMetric() {
		if matches(metric, []string{"op", "load", "status", "error"}) {
			failed = metric.GetHistogram().GetSampleCount()
		}
	}
	assert.Equal(t, uint64(1), failed)

	t.Run("duplicate registration", func(t *testing.T) {
		_, err := NewCollector(reg)
		assert.Error(t, err)
	})
}

func TestCollectorWithTables(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	require.NoError(t, err)

	tables := testutil.TwoTrees(t, tskit.WithMetricsCollector(c))
	path := filepath.Join(t.TempDir(), "two.trees")
	require.NoError(t, tables.Dump(path, tskit.DumpOptions{}))

	ts, err := tskit.LoadTreeSequence(path, 0, tskit.WithMetricsCollector(c))
	require.NoError(t, err)
	tree, err := ts.TreeIterator(0)
	require.NoError(t, err)
	for tree.Advance() {
	}
	require.NoError(t, tree.Close())

	m := gather(t, reg)
	assert.Equal(t, 1.0, counter(m["tskit_handles_open"], "kind", "tree_sequence"))
	assert.Equal(t, 2.0, counter(m["tskit_tree_advances_total"]))
	assert.Positive(t, counter(m["tskit_io_bytes_total"], "op", "load"))

	require.NoError(t, ts.Close())
	m = gather(t, reg)
	assert.Equal(t, 0.0, counter(m["tskit_handles_open"], "kind", "tree_sequence"))
}
