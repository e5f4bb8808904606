package arrowexport

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/hupe1980/tskit"
	"github.com/hupe1980/tskit/blobstore"
)

// Options control Parquet output.
type Options struct {
	// Compression is one of "zstd" (default), "snappy", "gzip" or "none".
	Compression string

	// Tables selects what Export writes. Empty means AllTables.
	Tables []Table

	// Allocator backs the Arrow records. Nil uses the Go allocator.
	Allocator memory.Allocator
}

func (o Options) codec() (compress.Compression, error) {
	switch o.Compression {
	case "", "zstd":
		return compress.Codecs.Zstd, nil
	case "snappy":
		return compress.Codecs.Snappy, nil
	case "gzip":
		return compress.Codecs.Gzip, nil
	case "none":
		return compress.Codecs.Uncompressed, nil
	}
	return compress.Codecs.Uncompressed, fmt.Errorf("arrowexport: unknown compression %q", o.Compression)
}

// WriteParquet writes rec to w as a single Parquet file.
func WriteParquet(w io.Writer, rec arrow.Record, opts Options) error {
	codec, err := opts.codec()
	if err != nil {
		return err
	}
	props := parquet.NewWriterProperties(parquet.WithCompression(codec))
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())

	// The parquet writer closes a sink that implements io.Closer; the
	// caller owns w.
	fw, err := pqarrow.NewFileWriter(rec.Schema(), struct{ io.Writer }{w}, props, arrowProps)
	if err != nil {
		return fmt.Errorf("arrowexport: create parquet writer: %w", err)
	}
	if err := fw.Write(rec); err != nil {
		_ = fw.Close()
		return fmt.Errorf("arrowexport: write %d rows: %w", rec.NumRows(), err)
	}
	return fw.Close()
}

// WriteTable converts one table and writes it to w as Parquet.
func WriteTable(w io.Writer, tables tskit.TableReader, table Table, opts Options) error {
	rec, err := Record(tables, table, opts.Allocator)
	if err != nil {
		return err
	}
	defer rec.Release()
	return WriteParquet(w, rec, opts)
}

// Export writes each selected table to store as prefix/<table>.parquet and
// returns the blob names written.
func Export(ctx context.Context, tables tskit.TableReader, store blobstore.BlobStore, prefix string, opts Options) ([]string, error) {
	if _, err := opts.codec(); err != nil {
		return nil, err
	}
	selected := opts.Tables
	if len(selected) == 0 {
		selected = AllTables
	}
	names := make([]string, 0, len(selected))
	for _, table := range selected {
		if err := ctx.Err(); err != nil {
			return names, err
		}
		name := path.Join(prefix, string(table)+".parquet")
		err := blobstore.Write(ctx, store, name, func(w io.Writer) error {
			return WriteTable(w, tables, table, opts)
		})
		if err != nil {
			return names, fmt.Errorf("arrowexport: %s: %w", table, err)
		}
		names = append(names, name)
	}
	return names, nil
}
