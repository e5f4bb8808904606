package persistence

import (
	"errors"
	"fmt"
)

const (
	// MagicNumber identifies tree sequence container files (ASCII: "TSK1")
	MagicNumber = 0x54534B31
	// Version is the current container format version (v1.0)
	Version = 0x00010000

	// HeaderSize is the encoded size of FileHeader in bytes.
	HeaderSize = 64
	// DigestSize is the size of the trailing BLAKE3 digest.
	DigestSize = 32
)

// Compression selects the whole-payload compression codec.
type Compression uint8

const (
	// CompressionNone stores the payload as is.
	CompressionNone Compression = 0
	// CompressionZstd compresses the payload with zstd.
	CompressionZstd Compression = 1
	// CompressionLZ4 compresses the payload with LZ4 block compression.
	CompressionLZ4 Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

// ParseCompression maps a codec name to its Compression value.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "", "none":
		return CompressionNone, nil
	case "zstd":
		return CompressionZstd, nil
	case "lz4":
		return CompressionLZ4, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCompression, name)
}

// ColumnType is the element type of a stored array.
type ColumnType uint8

const (
	TypeInt8    ColumnType = 1
	TypeUint8   ColumnType = 2
	TypeInt32   ColumnType = 3
	TypeUint32  ColumnType = 4
	TypeUint64  ColumnType = 5
	TypeFloat64 ColumnType = 6
)

func (t ColumnType) size() int {
	switch t {
	case TypeInt8, TypeUint8:
		return 1
	case TypeInt32, TypeUint32:
		return 4
	case TypeUint64, TypeFloat64:
		return 8
	}
	return 0
}

func (t ColumnType) String() string {
	switch t {
	case TypeInt8:
		return "int8"
	case TypeUint8:
		return "uint8"
	case TypeInt32:
		return "int32"
	case TypeUint32:
		return "uint32"
	case TypeUint64:
		return "uint64"
	case TypeFloat64:
		return "float64"
	}
	return fmt.Sprintf("type(%d)", uint8(t))
}

var (
	ErrInvalidMagic       = errors.New("invalid magic number")
	ErrVersionTooNew      = errors.New("container version too new")
	ErrMissingColumn      = errors.New("required column not found")
	ErrBadColumnType      = errors.New("bad column type")
	ErrCorrupt            = errors.New("corrupt container")
	ErrUnknownCompression = errors.New("unknown compression")
	ErrDuplicateKey       = errors.New("duplicate key")
)

// FileHeader is the 64-byte header at the start of every container.
type FileHeader struct {
	Magic       uint32   // 0x54534B31 ("TSK1")
	Version     uint32   // Container format version
	Compression uint8    // Compression codec of the payload
	Padding1    [3]byte  // Reserved, zero
	ItemCount   uint32   // Number of key/array items
	UUID        [16]byte // File UUID
	PayloadSize uint64   // Stored (possibly compressed) payload size
	RawSize     uint64   // Uncompressed payload size
	Reserved    [16]byte // Future use
}
