package persistence

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"unsafe"
)

// itemHeaderSize is the fixed part of an item: key length, type, count.
const itemHeaderSize = 2 + 1 + 8

// BinaryWriter writes key/array items in the container payload layout.
type BinaryWriter struct {
	w         io.Writer
	byteOrder binary.ByteOrder
	scratch   [itemHeaderSize]byte
}

// NewBinaryWriter creates a new item writer.
func NewBinaryWriter(w io.Writer) *BinaryWriter {
	return &BinaryWriter{
		w:         w,
		byteOrder: binary.LittleEndian, // Native on x86/ARM
	}
}

func (bw *BinaryWriter) writeItemHeader(key string, typ ColumnType, count int) error {
	if len(key) == 0 || len(key) > math.MaxUint16 {
		return fmt.Errorf("%w: key length %d", ErrCorrupt, len(key))
	}
	bw.byteOrder.PutUint16(bw.scratch[0:], uint16(len(key)))
	if _, err := bw.w.Write(bw.scratch[:2]); err != nil {
		return err
	}
	if _, err := io.WriteString(bw.w, key); err != nil {
		return err
	}
	bw.scratch[0] = byte(typ)
	bw.byteOrder.PutUint64(bw.scratch[1:], uint64(count))
	_, err := bw.w.Write(bw.scratch[:9])
	return err
}

// WriteBytes writes a byte array item of the given byte type.
func (bw *BinaryWriter) WriteBytes(key string, typ ColumnType, data []byte) error {
	if typ != TypeInt8 && typ != TypeUint8 {
		return fmt.Errorf("%w: %s is not a byte type", ErrBadColumnType, typ)
	}
	if err := bw.writeItemHeader(key, typ, len(data)); err != nil {
		return err
	}
	_, err := bw.w.Write(data)
	return err
}

// WriteInt32Slice writes an int32 array item as raw bytes.
// Safety: Validates alignment before unsafe conversion.
func (bw *BinaryWriter) WriteInt32Slice(key string, s []int32) error {
	if err := bw.writeItemHeader(key, TypeInt32, len(s)); err != nil {
		return err
	}
	if len(s) == 0 {
		return nil
	}
	if err := validateAlignment(unsafe.Pointer(&s[0]), 4); err != nil {
		return err
	}
	_, err := bw.w.Write(unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*4))
	return err
}

// WriteUint32Slice writes a uint32 array item as raw bytes.
// Safety: Validates alignment before unsafe conversion.
func (bw *BinaryWriter) WriteUint32Slice(key string, s []uint32) error {
	if err := bw.writeItemHeader(key, TypeUint32, len(s)); err != nil {
		return err
	}
	if len(s) == 0 {
		return nil
	}
	if err := validateAlignment(unsafe.Pointer(&s[0]), 4); err != nil {
		return err
	}
	_, err := bw.w.Write(unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*4))
	return err
}

// WriteUint64Slice writes a uint64 array item as raw bytes.
// Safety: Validates alignment before unsafe conversion.
func (bw *BinaryWriter) WriteUint64Slice(key string, s []uint64) error {
	if err := bw.writeItemHeader(key, TypeUint64, len(s)); err != nil {
		return err
	}
	if len(s) == 0 {
		return nil
	}
	if err := validateAlignment(unsafe.Pointer(&s[0]), 8); err != nil {
		return err
	}
	_, err := bw.w.Write(unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*8))
	return err
}

// WriteFloat64Slice writes a float64 array item as raw bytes.
// Safety: Validates alignment before unsafe conversion.
func (bw *BinaryWriter) WriteFloat64Slice(key string, s []float64) error {
	if err := bw.writeItemHeader(key, TypeFloat64, len(s)); err != nil {
		return err
	}
	if len(s) == 0 {
		return nil
	}
	if err := validateAlignment(unsafe.Pointer(&s[0]), 8); err != nil {
		return err
	}
	_, err := bw.w.Write(unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*8))
	return err
}

// rawItem is an undecoded payload item. data aliases the payload.
type rawItem struct {
	typ   ColumnType
	count int
	data  []byte
}

// parseItems splits a payload into its items. Keys must be unique.
func parseItems(payload []byte, want uint32) (map[string]rawItem, error) {
	items := make(map[string]rawItem, want)
	le := binary.LittleEndian
	off := 0
	for off < len(payload) {
		if len(payload)-off < 2 {
			return nil, fmt.Errorf("%w: truncated item at offset %d", ErrCorrupt, off)
		}
		klen := int(le.Uint16(payload[off:]))
		off += 2
		if len(payload)-off < klen+9 {
			return nil, fmt.Errorf("%w: truncated item at offset %d", ErrCorrupt, off)
		}
		key := string(payload[off : off+klen])
		off += klen
		typ := ColumnType(payload[off])
		count := le.Uint64(payload[off+1:])
		off += 9
		size := typ.size()
		if size == 0 {
			return nil, fmt.Errorf("%w: item %q has unknown type %d", ErrBadColumnType, key, typ)
		}
		if count > uint64(len(payload)-off)/uint64(size) {
			return nil, fmt.Errorf("%w: item %q overruns payload", ErrCorrupt, key)
		}
		n := int(count) * size
		if _, dup := items[key]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateKey, key)
		}
		items[key] = rawItem{typ: typ, count: int(count), data: payload[off : off+n : off+n]}
		off += n
	}
	if uint32(len(items)) != want {
		return nil, fmt.Errorf("%w: header declares %d items, found %d", ErrCorrupt, want, len(items))
	}
	return items, nil
}

// decodeSlice copies an item's bytes into a freshly allocated typed slice.
func decodeSlice[T int32 | uint32 | uint64 | float64](it rawItem) []T {
	out := make([]T, it.count)
	if it.count > 0 {
		copy(unsafe.Slice((*byte)(unsafe.Pointer(&out[0])), len(it.data)), it.data)
	}
	return out
}
