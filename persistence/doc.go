// Package persistence implements the binary container used for tree sequence
// files.
//
// A container is a 64-byte header, a payload of key/array items and a
// trailing BLAKE3-256 digest over header and payload:
//
//	[FileHeader][payload][digest]
//
// Each payload item is a key, an element type and a little-endian array. The
// payload as a whole may be compressed with zstd or LZ4.
//
// PLATFORM REQUIREMENTS:
// - Endianness: Little-endian (native on x86_64 and ARM64)
// - Alignment: 4-byte for int32/uint32, 8-byte for uint64/float64
package persistence
