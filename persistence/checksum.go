package persistence

import (
	"bytes"
	"encoding/hex"
	"errors"
	"hash"
	"io"

	"lukechampine.com/blake3"
)

// Checksum utilities for container integrity verification.
//
// Containers end with a BLAKE3-256 digest of the header and the stored
// payload. A mismatch means the file was truncated or modified.

// ErrChecksumMismatch matches any *ChecksumMismatchError via errors.Is.
var ErrChecksumMismatch = errors.New("checksum mismatch")

// Digest is a BLAKE3-256 content digest.
type Digest [DigestSize]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// ComputeDigest calculates the BLAKE3-256 digest of data.
func ComputeDigest(data []byte) Digest {
	return blake3.Sum256(data)
}

// ChecksumWriter wraps an io.Writer and computes a running BLAKE3 digest.
type ChecksumWriter struct {
	w    io.Writer
	hash hash.Hash
}

// NewChecksumWriter creates a new checksumming writer.
func NewChecksumWriter(w io.Writer) *ChecksumWriter {
	return &ChecksumWriter{
		w:    w,
		hash: blake3.New(DigestSize, nil),
	}
}

// Write implements io.Writer.
func (cw *ChecksumWriter) Write(p []byte) (int, error) {
	if _, err := cw.hash.Write(p); err != nil {
		return 0, err
	}
	return cw.w.Write(p)
}

// Sum returns the digest of everything written so far.
func (cw *ChecksumWriter) Sum() Digest {
	var d Digest
	cw.hash.Sum(d[:0])
	return d
}

// ChecksumReader wraps an io.Reader and computes a running BLAKE3 digest.
type ChecksumReader struct {
	r    io.Reader
	hash hash.Hash
}

// NewChecksumReader creates a new checksumming reader.
func NewChecksumReader(r io.Reader) *ChecksumReader {
	return &ChecksumReader{
		r:    r,
		hash: blake3.New(DigestSize, nil),
	}
}

// Read implements io.Reader.
func (cr *ChecksumReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	if n > 0 {
		if _, hashErr := cr.hash.Write(p[:n]); hashErr != nil {
			return n, hashErr
		}
	}
	return n, err
}

// Sum returns the digest of everything read so far.
func (cr *ChecksumReader) Sum() Digest {
	var d Digest
	cr.hash.Sum(d[:0])
	return d
}

// Verify checks if the computed digest matches the expected value.
func (cr *ChecksumReader) Verify(expected Digest) error {
	actual := cr.Sum()
	if !bytes.Equal(actual[:], expected[:]) {
		return &ChecksumMismatchError{
			Expected: expected,
			Actual:   actual,
		}
	}
	return nil
}

// ChecksumMismatchError is returned when checksum verification fails.
type ChecksumMismatchError struct {
	Expected Digest
	Actual   Digest
}

func (e *ChecksumMismatchError) Error() string {
	return "checksum mismatch: expected " + e.Expected.String() + ", got " + e.Actual.String()
}

// Is reports whether target is ErrChecksumMismatch.
func (e *ChecksumMismatchError) Is(target error) bool {
	return target == ErrChecksumMismatch
}

// IsChecksumMismatch returns true if err is a checksum mismatch error.
func IsChecksumMismatch(err error) bool {
	return errors.Is(err, ErrChecksumMismatch)
}
