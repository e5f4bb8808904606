package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/tskit"
	"github.com/hupe1980/tskit/codec"
	"github.com/hupe1980/tskit/export/sqliteexport"
	"github.com/hupe1980/tskit/persistence"
	"github.com/hupe1980/tskit/testutil"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFixture(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, testutil.TwoTrees(t).Dump(path, tskit.DumpOptions{}))
	return path
}

func TestRootCommand(t *testing.T) {
	root := newRootCmd(&bytes.Buffer{})
	assert.Equal(t, "tskit", root.Use)
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"info", "copy", "simplify", "export", "version"})
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "tskit "+Version)
	assert.Contains(t, out, persistence.PlatformInfo())
}

func TestInfo(t *testing.T) {
	dir := t.TempDir()
	a := writeFixture(t, dir, "a.trees")
	b := writeFixture(t, dir, "b.trees")

	t.Run("table", func(t *testing.T) {
		out, err := run(t, "info", a, b)
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 3)
		assert.True(t, strings.HasPrefix(lines[0], "PATH"))
		assert.True(t, strings.HasPrefix(lines[1], a))
		assert.True(t, strings.HasPrefix(lines[2], b))
	})

	t.Run("json", func(t *testing.T) {
		out, err := run(t, "info", "--json", "--max-files", "1", a)
		require.NoError(t, err)
		var s summary
		require.NoError(t, codec.Default.Unmarshal([]byte(strings.TrimSpace(out)), &s))
		assert.Equal(t, a, s.Path)
		assert.Equal(t, 10.0, s.SequenceLength)
		assert.Equal(t, 2, s.Trees)
		assert.Equal(t, 3, s.Samples)
		assert.Equal(t, 6, s.Nodes)
		assert.Equal(t, 6, s.Edges)
		assert.Equal(t, 2, s.Sites)
		assert.Equal(t, 2, s.Mutations)
		assert.NotEmpty(t, s.FileUUID)
	})

	t.Run("check metadata", func(t *testing.T) {
		tables := testutil.TwoTrees(t)
		require.NoError(t, tables.SetTableMetadataSchema(tskit.SiteTableKind, `{"codec":"json","type":"object","properties":{"ref":{"type":"string"}}}`))
		path := filepath.Join(dir, "schema.trees")
		require.NoError(t, tables.Dump(path, tskit.DumpOptions{}))
		_, err := run(t, "info", "--check-metadata", path)
		require.NoError(t, err)

		tables = testutil.TwoTrees(t)
		require.NoError(t, tables.SetTableMetadataSchema(tskit.SiteTableKind, `{"type":"array"}`))
		require.NoError(t, tables.Dump(path, tskit.DumpOptions{}))
		_, err = run(t, "info", "--check-metadata", path)
		var ve *tskit.ValueError
		assert.ErrorAs(t, err, &ve)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := run(t, "info", a, filepath.Join(dir, "absent.trees"))
		assert.ErrorIs(t, err, tskit.ErrIO)
	})

	t.Run("bad location", func(t *testing.T) {
		_, err := run(t, "info", "ftp://host/a.trees")
		assert.ErrorContains(t, err, "unsupported scheme")
	})
}

func TestCopy(t *testing.T) {
	dir := t.TempDir()
	src := writeFixture(t, dir, "src.trees")
	dst := filepath.Join(dir, "dst.trees")

	out, err := run(t, "copy", "--compression", "lz4", src, dst)
	require.NoError(t, err)
	assert.Contains(t, out, "(lz4)")

	want, err := tskit.LoadTableCollection(src)
	require.NoError(t, err)
	defer want.Close()
	got, err := tskit.LoadTableCollection(dst)
	require.NoError(t, err)
	defer got.Close()
	assert.True(t, want.Equals(got, 0))

	_, err = run(t, "copy", "--compression", "brotli", src, dst)
	assert.ErrorIs(t, err, persistence.ErrUnknownCompression)
}

func TestSimplify(t *testing.T) {
	dir := t.TempDir()
	src := writeFixture(t, dir, "src.trees")
	dst := filepath.Join(dir, "simple.trees")
	metrics := filepath.Join(dir, "metrics.prom")

	out, err := run(t, "simplify", "--samples", "0,1", "--metrics-file", metrics, src, dst)
	require.NoError(t, err)
	assert.Contains(t, out, "6 -> 3 nodes")

	tables, err := tskit.LoadTableCollection(dst)
	require.NoError(t, err)
	defer tables.Close()
	assert.Equal(t, 3, tables.Nodes().NumRows())
	require.Equal(t, 1, tables.Provenances().NumRows())
	rec, ok := tables.Provenances().Row(0)
	require.True(t, ok)
	var doc tskit.ProvenanceRecord
	require.NoError(t, codec.Default.Unmarshal([]byte(rec.Record), &doc))
	assert.Equal(t, "tskit", doc.Software.Name)
	assert.Equal(t, "simplify", doc.Parameters["command"])

	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), "tskit_simplify_nodes_removed_total 3")
	assert.Contains(t, string(data), "tskit_io_bytes_total")
}

func TestExportParquet(t *testing.T) {
	dir := t.TempDir()
	src := writeFixture(t, dir, "src.trees")

	out, err := run(t, "export", "parquet", "--tables", "nodes,edges", src, filepath.Join(dir, "out"))
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 2)
	for _, name := range []string{"nodes.parquet", "edges.parquet"} {
		_, err := os.Stat(filepath.Join(dir, "out", name))
		assert.NoError(t, err, name)
	}

	_, err = run(t, "export", "parquet", "--tables", "trees", src, filepath.Join(dir, "out"))
	assert.Error(t, err)
}

func TestExportSQLite(t *testing.T) {
	dir := t.TempDir()
	a := writeFixture(t, dir, "a.trees")
	b := writeFixture(t, dir, "b.trees")
	dbPath := filepath.Join(dir, "export.db")

	_, err := run(t, "export", "sqlite", dbPath, a, b)
	require.NoError(t, err)
	_, err = run(t, "export", "sqlite", dbPath, a)
	assert.ErrorIs(t, err, sqliteexport.ErrDatasetExists)
	_, err = run(t, "export", "sqlite", "--replace", dbPath, a)
	require.NoError(t, err)

	db, err := sqliteexport.Open(dbPath)
	require.NoError(t, err)
	defer db.Close()
	datasets, err := db.Datasets(context.Background())
	require.NoError(t, err)
	var names []string
	for _, d := range datasets {
		names = append(names, d.Name)
	}
	assert.ElementsMatch(t, []string{"a", "b"}, names)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	t.Run("defaults", func(t *testing.T) {
		cfg, err := loadConfig("")
		require.NoError(t, err)
		assert.Equal(t, defaultConfig().Dump, cfg.Dump)
		assert.Equal(t, int64(4), cfg.Resources.MaxConcurrentFiles)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(dir, "tskit.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: debug
  format: json
resources:
  memory_limit_bytes: 1048576
  max_concurrent_files: 2
storage:
  minio:
    endpoint: localhost:9000
dump:
  compression: lz4
`), 0o600))
		t.Setenv("TSKIT_MINIO_SECRET_KEY", "secret")

		cfg, err := loadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "json", cfg.Log.Format)
		assert.Equal(t, int64(1<<20), cfg.Resources.MemoryLimitBytes)
		assert.Equal(t, int64(2), cfg.Resources.MaxConcurrentFiles)
		assert.Equal(t, "localhost:9000", cfg.Storage.Minio.Endpoint)
		assert.Equal(t, "secret", cfg.Storage.Minio.SecretKey)
		c, err := cfg.compression()
		require.NoError(t, err)
		assert.Equal(t, persistence.CompressionLZ4, c)
	})

	t.Run("invalid", func(t *testing.T) {
		for name, body := range map[string]string{
			"level":       "log:\n  level: loud\n",
			"format":      "log:\n  format: xml\n",
			"compression": "dump:\n  compression: brotli\n",
			"limits":      "resources:\n  memory_limit_bytes: -1\n",
			"yaml":        "log: [",
		} {
			path := filepath.Join(dir, name+".yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
			_, err := loadConfig(path)
			assert.Error(t, err, name)
		}
	})

	t.Run("via flag", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("log:\n  level: loud\n"), 0o600))
		_, err := run(t, "--config", path, "version")
		assert.ErrorContains(t, err, "unknown log level")
	})
}

func TestParseLocation(t *testing.T) {
	tests := []struct {
		raw    string
		scheme string
		bucket string
		name   string
		base   string
	}{
		{raw: "data/chr1.trees", name: "data/chr1.trees", base: "chr1.trees"},
		{raw: "file:///tmp/chr1.trees", name: "/tmp/chr1.trees", base: "chr1.trees"},
		{raw: "s3://genomes/runs/chr1.trees", scheme: "s3", bucket: "genomes", name: "runs/chr1.trees", base: "chr1.trees"},
		{raw: "minio://genomes/chr2.trees", scheme: "minio", bucket: "genomes", name: "chr2.trees", base: "chr2.trees"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			loc, err := parseLocation(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.scheme, loc.scheme)
			assert.Equal(t, tt.bucket, loc.bucket)
			assert.Equal(t, tt.name, loc.name)
			assert.Equal(t, tt.base, loc.base())
			assert.Equal(t, tt.scheme == "", loc.local())
		})
	}

	for _, raw := range []string{"gs://bucket/key", "s3://bucket", "s3:///key"} {
		_, err := parseLocation(raw)
		assert.Error(t, err, raw)
	}

	t.Run("minio needs an endpoint", func(t *testing.T) {
		loc, err := parseLocation("minio://genomes/chr2.trees")
		require.NoError(t, err)
		_, _, err = loc.store(context.Background(), defaultConfig())
		assert.ErrorContains(t, err, "endpoint")
	})
}
