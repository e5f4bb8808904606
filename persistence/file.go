package persistence

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hupe1980/tskit/internal/mmap"
)

const fileBufferSize = 256 << 10

// SaveToFile streams write into a temporary file next to path and renames it
// over path once everything is synced, so readers never see a partial file.
func SaveToFile(path string, write func(io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err := tmp.Chmod(0o644); err != nil {
		return err
	}
	w := bufio.NewWriterSize(tmp, fileBufferSize)
	if err := write(w); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("persistence: replace %s: %w", path, err)
	}

	// Persist the rename. Not every platform can sync a directory.
	if d, derr := os.Open(dir); derr == nil {
		_ = d.Sync()
		_ = d.Close()
	}
	return nil
}

// LoadFromFile streams path through read.
func LoadFromFile(path string, read func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return read(bufio.NewReaderSize(f, fileBufferSize))
}

// OpenFile maps path read-only and decodes it. fn runs while the mapping is
// alive; slices obtained from the File must not escape it.
func OpenFile(path string, fn func(*File) error) error {
	m, err := mmap.Open(path)
	if err != nil {
		return err
	}
	defer m.Close()

	f, err := Decode(m.Bytes())
	if err != nil {
		return err
	}
	return fn(f)
}
