package tskit

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/hupe1980/tskit/blobstore"
	"github.com/hupe1980/tskit/internal/tsk"
	"github.com/hupe1980/tskit/persistence"
	"github.com/hupe1980/tskit/resource"
)

// DumpOptions control how tables are written.
type DumpOptions struct {
	// Compression applied to the payload. Payloads that do not shrink are
	// stored uncompressed.
	Compression persistence.Compression

	// NoBuildIndexes writes the tables without building missing edge
	// indexes first. Such files load as table collections but need
	// TreeSequenceBuildIndexes to load as tree sequences.
	NoBuildIndexes bool

	// IORateLimit caps this dump at the given bytes per second. If 0, the
	// limit of the resource controller applies.
	IORateLimit int64
}

func (d DumpOptions) flags() uint32 {
	flags := uint32(d.Compression) & tsk.DumpCompressionMask
	if d.NoBuildIndexes {
		flags |= tsk.DumpNoBuildIndexes
	}
	return flags
}

// ioController returns the controller pacing one stream.
func (o options) ioController(limit int64) *resource.Controller {
	if limit > 0 {
		return resource.NewController(resource.Config{IOLimitBytesPerSec: limit})
	}
	return o.resources
}

func (o options) ioLimited() bool {
	return o.resources.Config().IOLimitBytesPerSec > 0
}

// ioError classifies a failure outside the engine: container errors are
// KindFileFormat, everything else KindIO. The original error stays
// reachable through errors.Is and errors.As.
func ioError(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) || errors.Is(err, ErrHandleReleased) {
		return err
	}
	code := tsk.PersistenceCode(err)
	return &Error{Op: op, Code: code, Kind: classify(code), cause: err}
}

// countingWriter remembers the first error of w so it can be reported as
// the cause of the engine's IO status.
type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	if err != nil && c.err == nil {
		c.err = err
	}
	return n, err
}

type countingReader struct {
	r   io.Reader
	n   int64
	err error
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	if err != nil && err != io.EOF && c.err == nil {
		c.err = err
	}
	return n, err
}

// dumpTables encodes raw through save, which supplies the destination.
func dumpTables(ctx context.Context, o options, raw *tsk.TableCollection, target string, opts DumpOptions, save func(func(io.Writer) error) error) error {
	start := time.Now()
	var written int64
	err := save(func(w io.Writer) error {
		cw := &countingWriter{w: resource.NewRateLimitedWriter(ctx, w, o.ioController(opts.IORateLimit))}
		code := tsk.TableCollectionDump(raw, cw, opts.flags())
		written = cw.n
		return checkCodeCause("dump", code, cw.err)
	})
	err = ioError("dump", err)
	o.metricsCollector.RecordDump(written, time.Since(start), err)
	o.logger.LogDump(ctx, target, time.Since(start), err)
	return err
}

func saveFile(path string) func(func(io.Writer) error) error {
	return func(fn func(io.Writer) error) error { return persistence.SaveToFile(path, fn) }
}

func saveBlob(ctx context.Context, store blobstore.BlobStore, name string) func(func(io.Writer) error) error {
	return func(fn func(io.Writer) error) error { return blobstore.Write(ctx, store, name, fn) }
}

// Dump writes the tables to path atomically. Missing edge indexes are built
// first unless opts.NoBuildIndexes is set.
func (tc *TableCollection) Dump(path string, opts DumpOptions) error {
	raw, err := tc.mut()
	if err != nil {
		return err
	}
	return dumpTables(context.Background(), tc.opts, raw, path, opts, saveFile(path))
}

// DumpTo writes the tables to the blob name in store.
func (tc *TableCollection) DumpTo(ctx context.Context, store blobstore.BlobStore, name string, opts DumpOptions) error {
	raw, err := tc.mut()
	if err != nil {
		return err
	}
	return dumpTables(ctx, tc.opts, raw, name, opts, saveBlob(ctx, store, name))
}

// Dump writes the tree sequence's tables to path atomically.
func (ts *TreeSequence) Dump(path string, opts DumpOptions) error {
	raw, err := ts.ref()
	if err != nil {
		return err
	}
	opts.NoBuildIndexes = true
	return dumpTables(context.Background(), ts.opts, raw.Tables, path, opts, saveFile(path))
}

// DumpTo writes the tree sequence's tables to the blob name in store.
func (ts *TreeSequence) DumpTo(ctx context.Context, store blobstore.BlobStore, name string, opts DumpOptions) error {
	raw, err := ts.ref()
	if err != nil {
		return err
	}
	opts.NoBuildIndexes = true
	return dumpTables(ctx, ts.opts, raw.Tables, name, opts, saveBlob(ctx, store, name))
}

// loader fills raw from a source and reports the bytes consumed.
type loader func(raw *tsk.TableCollection) (int64, error)

func fileLoader(ctx context.Context, o options, path string) loader {
	return func(raw *tsk.TableCollection) (int64, error) {
		if !o.ioLimited() {
			var size int64
			err := persistence.OpenFile(path, func(f *persistence.File) error {
				size = int64(f.Header.PayloadSize)
				return checkCode("load", tsk.TableCollectionLoadFile(raw, f, 0))
			})
			return size, err
		}
		var read int64
		err := persistence.LoadFromFile(path, func(r io.Reader) error {
			cr := &countingReader{r: resource.NewRateLimitedReader(ctx, r, o.resources)}
			code := tsk.TableCollectionLoad(raw, cr, 0)
			read = cr.n
			return checkCodeCause("load", code, cr.err)
		})
		return read, err
	}
}

func blobLoader(ctx context.Context, o options, store blobstore.BlobStore, name string) loader {
	return func(raw *tsk.TableCollection) (int64, error) {
		blob, err := store.Open(ctx, name)
		if err != nil {
			return 0, err
		}
		defer func() { _ = blob.Close() }()

		if m, ok := blob.(blobstore.Mappable); ok && !o.ioLimited() {
			data, err := m.Bytes()
			if err != nil {
				return 0, err
			}
			return int64(len(data)), checkCode("load", tsk.TableCollectionLoadBytes(raw, data, 0))
		}

		rc, err := blob.ReadRange(ctx, 0, blob.Size())
		if err != nil {
			return 0, err
		}
		defer func() { _ = rc.Close() }()
		cr := &countingReader{r: resource.NewRateLimitedReader(ctx, rc, o.resources)}
		code := tsk.TableCollectionLoad(raw, cr, 0)
		return cr.n, checkCodeCause("load", code, cr.err)
	}
}

// status is the engine code to report for a loader error.
func status(err error) int32 {
	if err == nil {
		return 0
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return tsk.PersistenceCode(err)
}

func loadTableCollection(ctx context.Context, o options, source string, load loader) (*TableCollection, error) {
	start := time.Now()
	var (
		read int64
		lerr error
	)
	tc, err := newTableCollection(o, func(raw *tsk.TableCollection) int32 {
		read, lerr = load(raw)
		return status(lerr)
	})
	if lerr != nil {
		err = ioError("load", lerr)
	}
	o.metricsCollector.RecordLoad(read, time.Since(start), err)
	o.logger.LogLoad(ctx, source, time.Since(start), err)
	return tc, err
}

func loadTreeSequence(ctx context.Context, o options, source string, flags TreeSequenceFlags, load loader) (*TreeSequence, error) {
	start := time.Now()
	var (
		read int64
		lerr error
	)
	ts, err := openTreeSequence(o, "load tree sequence", func(ts *tsk.TreeSequence) int32 {
		raw := &tsk.TableCollection{}
		if rv := tsk.TableCollectionInit(raw, 0); rv < 0 {
			return rv
		}
		if o.resources != nil {
			tsk.TableCollectionSetBudget(raw, o.resources)
		}
		if read, lerr = load(raw); lerr != nil {
			tsk.TableCollectionFree(raw)
			return status(lerr)
		}
		return tsk.TreeseqInit(ts, raw, uint32(flags)|tsk.TSTakeOwnership)
	})
	if lerr != nil {
		err = ioError("load", lerr)
	}
	o.metricsCollector.RecordLoad(read, time.Since(start), err)
	o.logger.LogLoad(ctx, source, time.Since(start), err)
	return ts, err
}

// LoadTableCollection reads tables written by Dump. Without an IO limit the
// file is decoded from a read-only memory mapping.
func LoadTableCollection(path string, opts ...Option) (*TableCollection, error) {
	o := applyOptions(opts)
	ctx := context.Background()
	return loadTableCollection(ctx, o, path, fileLoader(ctx, o, path))
}

// LoadTableCollectionFrom reads tables from the blob name in store.
func LoadTableCollectionFrom(ctx context.Context, store blobstore.BlobStore, name string, opts ...Option) (*TableCollection, error) {
	o := applyOptions(opts)
	return loadTableCollection(ctx, o, name, blobLoader(ctx, o, store, name))
}

// LoadTreeSequence reads a file written by Dump as a tree sequence. Files
// dumped without edge indexes need TreeSequenceBuildIndexes.
func LoadTreeSequence(path string, flags TreeSequenceFlags, opts ...Option) (*TreeSequence, error) {
	o := applyOptions(opts)
	ctx := context.Background()
	return loadTreeSequence(ctx, o, path, flags, fileLoader(ctx, o, path))
}

// LoadTreeSequenceFrom reads a tree sequence from the blob name in store.
func LoadTreeSequenceFrom(ctx context.Context, store blobstore.BlobStore, name string, flags TreeSequenceFlags, opts ...Option) (*TreeSequence, error) {
	o := applyOptions(opts)
	return loadTreeSequence(ctx, o, name, flags, blobLoader(ctx, o, store, name))
}
