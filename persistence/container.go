package persistence

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// Writer collects key/array items and serializes them as one container.
// Items are written in insertion order.
type Writer struct {
	buf   bytes.Buffer
	bw    *BinaryWriter
	keys  map[string]struct{}
	count uint32
	err   error
}

// NewWriter creates an empty container writer.
func NewWriter() *Writer {
	w := &Writer{keys: make(map[string]struct{})}
	w.bw = NewBinaryWriter(&w.buf)
	return w
}

func (w *Writer) put(key string, fn func() error) {
	if w.err != nil {
		return
	}
	if _, dup := w.keys[key]; dup {
		w.err = fmt.Errorf("%w: %q", ErrDuplicateKey, key)
		return
	}
	w.keys[key] = struct{}{}
	w.count++
	w.err = fn()
}

// PutText stores UTF-8 text as an int8 array.
func (w *Writer) PutText(key string, text []byte) {
	w.put(key, func() error { return w.bw.WriteBytes(key, TypeInt8, text) })
}

// PutBytes stores opaque bytes as a uint8 array.
func (w *Writer) PutBytes(key string, data []byte) {
	w.put(key, func() error { return w.bw.WriteBytes(key, TypeUint8, data) })
}

func (w *Writer) PutInt32s(key string, s []int32) {
	w.put(key, func() error { return w.bw.WriteInt32Slice(key, s) })
}

func (w *Writer) PutUint32s(key string, s []uint32) {
	w.put(key, func() error { return w.bw.WriteUint32Slice(key, s) })
}

func (w *Writer) PutUint64s(key string, s []uint64) {
	w.put(key, func() error { return w.bw.WriteUint64Slice(key, s) })
}

func (w *Writer) PutFloat64s(key string, s []float64) {
	w.put(key, func() error { return w.bw.WriteFloat64Slice(key, s) })
}

// Len returns the number of items added so far.
func (w *Writer) Len() int { return int(w.count) }

// WriteOptions controls how a container is encoded.
type WriteOptions struct {
	Compression Compression
	UUID        uuid.UUID
}

// WriteTo encodes the container: header, stored payload, digest. A zero
// UUID is replaced by a fresh random one.
func (w *Writer) WriteTo(dst io.Writer, opts WriteOptions) (uuid.UUID, error) {
	if w.err != nil {
		return uuid.Nil, w.err
	}
	id := opts.UUID
	if id == uuid.Nil {
		var err error
		if id, err = uuid.NewRandom(); err != nil {
			return uuid.Nil, err
		}
	}
	raw := w.buf.Bytes()
	stored, codec, err := compress(raw, opts.Compression)
	if err != nil {
		return uuid.Nil, err
	}
	header := FileHeader{
		Magic:       MagicNumber,
		Version:     Version,
		Compression: uint8(codec),
		ItemCount:   w.count,
		UUID:        id,
		PayloadSize: uint64(len(stored)),
		RawSize:     uint64(len(raw)),
	}
	cw := NewChecksumWriter(dst)
	if err := binary.Write(cw, binary.LittleEndian, &header); err != nil {
		return uuid.Nil, err
	}
	if _, err := cw.Write(stored); err != nil {
		return uuid.Nil, err
	}
	digest := cw.Sum()
	if _, err := dst.Write(digest[:]); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// File is a decoded container.
type File struct {
	Header FileHeader
	Digest Digest
	items  map[string]rawItem
}

// UUID returns the file UUID stored in the header.
func (f *File) UUID() uuid.UUID { return uuid.UUID(f.Header.UUID) }

// Has reports whether key is present.
func (f *File) Has(key string) bool {
	_, ok := f.items[key]
	return ok
}

// Len returns the number of stored items.
func (f *File) Len() int { return len(f.items) }

func (f *File) item(key string, types ...ColumnType) (rawItem, error) {
	it, ok := f.items[key]
	if !ok {
		return rawItem{}, fmt.Errorf("%w: %s", ErrMissingColumn, key)
	}
	for _, t := range types {
		if it.typ == t {
			return it, nil
		}
	}
	return rawItem{}, fmt.Errorf("%w: %s is %s", ErrBadColumnType, key, it.typ)
}

// Bytes returns an int8 or uint8 item. The slice aliases the decoded payload.
func (f *File) Bytes(key string) ([]byte, error) {
	it, err := f.item(key, TypeInt8, TypeUint8)
	if err != nil {
		return nil, err
	}
	return it.data, nil
}

func (f *File) Int32s(key string) ([]int32, error) {
	it, err := f.item(key, TypeInt32)
	if err != nil {
		return nil, err
	}
	return decodeSlice[int32](it), nil
}

func (f *File) Uint32s(key string) ([]uint32, error) {
	it, err := f.item(key, TypeUint32)
	if err != nil {
		return nil, err
	}
	return decodeSlice[uint32](it), nil
}

func (f *File) Uint64s(key string) ([]uint64, error) {
	it, err := f.item(key, TypeUint64)
	if err != nil {
		return nil, err
	}
	return decodeSlice[uint64](it), nil
}

func (f *File) Float64s(key string) ([]float64, error) {
	it, err := f.item(key, TypeFloat64)
	if err != nil {
		return nil, err
	}
	return decodeSlice[float64](it), nil
}

// ReadHeader reads and validates a container header.
func ReadHeader(r io.Reader) (*FileHeader, error) {
	var header FileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: short header", ErrCorrupt)
		}
		return nil, err
	}
	if header.Magic != MagicNumber {
		return nil, fmt.Errorf("%w: got 0x%08x", ErrInvalidMagic, header.Magic)
	}
	if header.Version>>16 > Version>>16 {
		return nil, fmt.Errorf("%w: got 0x%08x", ErrVersionTooNew, header.Version)
	}
	return &header, nil
}

// Read decodes a container from r, verifying its digest.
func Read(r io.Reader) (*File, error) {
	cr := NewChecksumReader(r)
	header, err := ReadHeader(cr)
	if err != nil {
		return nil, err
	}
	var stored bytes.Buffer
	if _, err := io.CopyN(&stored, cr, int64(header.PayloadSize)); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: short payload", ErrCorrupt)
		}
		return nil, err
	}
	var expected Digest
	if _, err := io.ReadFull(r, expected[:]); err != nil {
		return nil, fmt.Errorf("%w: missing digest", ErrCorrupt)
	}
	if err := cr.Verify(expected); err != nil {
		return nil, err
	}
	return decode(header, stored.Bytes(), expected)
}

// Decode parses a container held entirely in memory, for example a
// read-only file mapping. Uncompressed payload items alias data.
func Decode(data []byte) (*File, error) {
	if len(data) < HeaderSize+DigestSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrCorrupt, len(data))
	}
	header, err := ReadHeader(bytes.NewReader(data[:HeaderSize]))
	if err != nil {
		return nil, err
	}
	end := uint64(HeaderSize) + header.PayloadSize
	if end+DigestSize != uint64(len(data)) {
		return nil, fmt.Errorf("%w: payload size %d does not match file size %d", ErrCorrupt, header.PayloadSize, len(data))
	}
	var expected Digest
	copy(expected[:], data[end:])
	if actual := ComputeDigest(data[:end]); actual != expected {
		return nil, &ChecksumMismatchError{Expected: expected, Actual: actual}
	}
	return decode(header, data[HeaderSize:end], expected)
}

func decode(header *FileHeader, stored []byte, digest Digest) (*File, error) {
	raw, err := decompress(stored, Compression(header.Compression), header.RawSize)
	if err != nil {
		return nil, err
	}
	items, err := parseItems(raw, header.ItemCount)
	if err != nil {
		return nil, err
	}
	return &File{Header: *header, Digest: digest, items: items}, nil
}
