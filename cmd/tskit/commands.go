package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/tskit"
	"github.com/hupe1980/tskit/codec"
	"github.com/hupe1980/tskit/export/arrowexport"
	"github.com/hupe1980/tskit/export/sqliteexport"
	"github.com/hupe1980/tskit/persistence"
)

// forEachFile runs fn for every location, at most MaxConcurrentFiles at a
// time.
func (a *app) forEachFile(ctx context.Context, args []string, fn func(ctx context.Context, i int, loc location) error) error {
	locs := make([]location, len(args))
	for i, arg := range args {
		loc, err := parseLocation(arg)
		if err != nil {
			return err
		}
		locs[i] = loc
	}

	g, ctx := errgroup.WithContext(ctx)
	for i, loc := range locs {
		g.Go(func() error {
			if err := a.rc.AcquireFile(ctx); err != nil {
				return err
			}
			defer a.rc.ReleaseFile()
			if err := fn(ctx, i, loc); err != nil {
				return fmt.Errorf("%s: %w", loc, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// summary describes one file for the info command.
type summary struct {
	Path           string  `json:"path"`
	SequenceLength float64 `json:"sequence_length"`
	TimeUnits      string  `json:"time_units"`
	FileUUID       string  `json:"file_uuid"`
	Trees          int     `json:"trees"`
	Samples        int     `json:"samples"`
	Nodes          int     `json:"nodes"`
	Edges          int     `json:"edges"`
	Sites          int     `json:"sites"`
	Mutations      int     `json:"mutations"`
	Populations    int     `json:"populations"`
	Individuals    int     `json:"individuals"`
	Migrations     int     `json:"migrations"`
	Provenances    int     `json:"provenances"`
}

func summarize(path string, ts *tskit.TreeSequence) summary {
	t := ts.Tables()
	return summary{
		Path:           path,
		SequenceLength: float64(t.SequenceLength()),
		TimeUnits:      t.TimeUnits(),
		FileUUID:       t.FileUUID(),
		Trees:          ts.NumTrees(),
		Samples:        ts.NumSamples(),
		Nodes:          t.Nodes().NumRows(),
		Edges:          t.Edges().NumRows(),
		Sites:          t.Sites().NumRows(),
		Mutations:      t.Mutations().NumRows(),
		Populations:    t.Populations().NumRows(),
		Individuals:    t.Individuals().NumRows(),
		Migrations:     t.Migrations().NumRows(),
		Provenances:    t.Provenances().NumRows(),
	}
}

func newInfoCmd(a *app) *cobra.Command {
	var asJSON, checkMetadata bool
	cmd := &cobra.Command{
		Use:   "info FILE...",
		Short: "Print a summary of each tree sequence",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := make([]summary, len(args))
			err := a.forEachFile(cmd.Context(), args, func(ctx context.Context, i int, loc location) error {
				ts, err := loc.loadTreeSequence(ctx, a.cfg, a.options()...)
				if err != nil {
					return err
				}
				defer ts.Close()
				if checkMetadata {
					for table := tskit.NodeTableKind; table <= tskit.MigrationTableKind; table++ {
						if err := tskit.ValidateMetadata(ts.Tables(), table); err != nil {
							return err
						}
					}
				}
				out[i] = summarize(loc.String(), ts)
				return nil
			})
			if err != nil {
				return err
			}

			if asJSON {
				for _, s := range out {
					line, err := codec.Default.Marshal(s)
					if err != nil {
						return err
					}
					fmt.Fprintf(a.out, "%s\n", line)
				}
				return nil
			}
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PATH\tLENGTH\tTREES\tSAMPLES\tNODES\tEDGES\tSITES\tMUTATIONS")
			for _, s := range out {
				fmt.Fprintf(tw, "%s\t%g\t%d\t%d\t%d\t%d\t%d\t%d\n",
					s.Path, s.SequenceLength, s.Trees, s.Samples, s.Nodes, s.Edges, s.Sites, s.Mutations)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print one JSON object per file")
	cmd.Flags().BoolVar(&checkMetadata, "check-metadata", false, "validate row metadata against the table schemas")
	return cmd
}

func (a *app) dumpOptions(cmd *cobra.Command) (tskit.DumpOptions, error) {
	c, err := a.cfg.compression()
	if cmd.Flags().Changed("compression") {
		name, _ := cmd.Flags().GetString("compression")
		c, err = persistence.ParseCompression(name)
	}
	if err != nil {
		return tskit.DumpOptions{}, err
	}
	return tskit.DumpOptions{Compression: c}, nil
}

func newCopyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "copy SRC DST",
		Short: "Copy a tree sequence between locations, re-encoding it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := parseLocation(args[0])
			if err != nil {
				return err
			}
			dst, err := parseLocation(args[1])
			if err != nil {
				return err
			}
			opts, err := a.dumpOptions(cmd)
			if err != nil {
				return err
			}

			tables, err := src.loadTables(cmd.Context(), a.cfg, a.options()...)
			if err != nil {
				return err
			}
			defer tables.Close()
			if err := dst.dump(cmd.Context(), a.cfg, tables, opts); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "copied %s to %s (%s)\n", src, dst, opts.Compression)
			return nil
		},
	}
	cmd.Flags().String("compression", "zstd", "payload compression (none, zstd, lz4)")
	return cmd
}

func newSimplifyCmd(a *app) *cobra.Command {
	var (
		samples           []int32
		filterSites       bool
		filterPopulations bool
		filterIndividuals bool
		keepUnary         bool
		keepInputRoots    bool
	)
	cmd := &cobra.Command{
		Use:   "simplify SRC DST",
		Short: "Simplify a tree sequence to a subset of its samples",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := parseLocation(args[0])
			if err != nil {
				return err
			}
			dst, err := parseLocation(args[1])
			if err != nil {
				return err
			}
			dumpOpts, err := a.dumpOptions(cmd)
			if err != nil {
				return err
			}

			var opts tskit.SimplifyOptions
			if filterSites {
				opts |= tskit.SimplifyFilterSites
			}
			if filterPopulations {
				opts |= tskit.SimplifyFilterPopulations
			}
			if filterIndividuals {
				opts |= tskit.SimplifyFilterIndividuals
			}
			if keepUnary {
				opts |= tskit.SimplifyKeepUnary
			}
			if keepInputRoots {
				opts |= tskit.SimplifyKeepInputRoots
			}

			tables, err := src.loadTables(cmd.Context(), a.cfg, a.options()...)
			if err != nil {
				return err
			}
			defer tables.Close()

			ids := tskit.IDsFromRaw[tskit.NodeID](samples)
			if len(ids) == 0 {
				ids = tables.SamplesAsVector()
			}
			before := tables.Nodes().NumRows()
			if _, err := tables.Simplify(ids, opts, false); err != nil {
				return err
			}
			rec := tskit.NewProvenanceRecord("tskit", Version, map[string]any{
				"command": "simplify",
				"samples": tskit.RawIDs(ids),
				"options": uint32(opts),
			})
			if _, err := tables.AddProvenanceRecord(rec); err != nil {
				return err
			}
			if err := dst.dump(cmd.Context(), a.cfg, tables, dumpOpts); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "simplified %s: %d -> %d nodes\n", src, before, tables.Nodes().NumRows())
			return nil
		},
	}
	f := cmd.Flags()
	f.Int32SliceVar(&samples, "samples", nil, "sample node ids to keep (default: all samples)")
	f.BoolVar(&filterSites, "filter-sites", false, "drop sites without mutations")
	f.BoolVar(&filterPopulations, "filter-populations", false, "drop unreferenced populations")
	f.BoolVar(&filterIndividuals, "filter-individuals", false, "drop unreferenced individuals")
	f.BoolVar(&keepUnary, "keep-unary", false, "keep unary nodes")
	f.BoolVar(&keepInputRoots, "keep-input-roots", false, "keep the roots of the input trees")
	f.String("compression", "zstd", "payload compression (none, zstd, lz4)")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export tables to other formats",
	}
	cmd.AddCommand(newExportParquetCmd(a), newExportSQLiteCmd(a))
	return cmd
}

func newExportParquetCmd(a *app) *cobra.Command {
	var (
		tables      []string
		compression string
	)
	cmd := &cobra.Command{
		Use:   "parquet SRC DST",
		Short: "Write one Parquet file per table under DST",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := parseLocation(args[0])
			if err != nil {
				return err
			}
			dst, err := parseLocation(args[1])
			if err != nil {
				return err
			}
			opts := arrowexport.Options{Compression: compression}
			for _, name := range tables {
				t, err := arrowexport.ParseTable(name)
				if err != nil {
					return err
				}
				opts.Tables = append(opts.Tables, t)
			}

			ctx := cmd.Context()
			tc, err := src.loadTables(ctx, a.cfg, a.options()...)
			if err != nil {
				return err
			}
			defer tc.Close()

			store, prefix, err := dst.store(ctx, a.cfg)
			if err != nil {
				return err
			}
			written, err := arrowexport.Export(ctx, tc, store, prefix, opts)
			if err != nil {
				return err
			}
			for _, name := range written {
				fmt.Fprintln(a.out, name)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&tables, "tables", nil, "tables to export (default: all)")
	cmd.Flags().StringVar(&compression, "compression", "zstd", "parquet compression (zstd, snappy, gzip, none)")
	return cmd
}

func newExportSQLiteCmd(a *app) *cobra.Command {
	var replace bool
	cmd := &cobra.Command{
		Use:   "sqlite DB FILE...",
		Short: "Load tables into a SQLite database, one dataset per file",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := sqliteexport.Open(args[0])
			if err != nil {
				return err
			}
			defer db.Close()

			var mu sync.Mutex
			return a.forEachFile(cmd.Context(), args[1:], func(ctx context.Context, _ int, loc location) error {
				tables, err := loc.loadTables(ctx, a.cfg, a.options()...)
				if err != nil {
					return err
				}
				defer tables.Close()

				name := strings.TrimSuffix(loc.base(), filepath.Ext(loc.base()))
				mu.Lock()
				defer mu.Unlock()
				id, err := db.Export(ctx, name, tables, replace)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "%s\t%d\n", name, id)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&replace, "replace", false, "replace datasets that already exist")
	return cmd
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and platform information",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			fmt.Fprintf(a.out, "tskit %s\n%s\n", Version, persistence.PlatformInfo())
			return nil
		},
	}
}
