package persistence

import (
	"encoding/binary"
	"errors"
	"fmt"
	"runtime"
	"unsafe"
)

var (
	// ErrBigEndian is raised at init on big-endian hosts. Column arrays are
	// little-endian on disk and are viewed in place.
	ErrBigEndian = errors.New("big-endian hosts are not supported")

	// ErrUnalignedAccess is returned when a column cannot be viewed in place
	// because its bytes are not aligned for the element type.
	ErrUnalignedAccess = errors.New("unaligned column data")
)

func init() {
	if !littleEndian() {
		panic(fmt.Sprintf("tskit/persistence: %v", ErrBigEndian))
	}
}

func littleEndian() bool {
	var probe [2]byte
	*(*uint16)(unsafe.Pointer(&probe[0])) = 0x0102
	return binary.LittleEndian.Uint16(probe[:]) == 0x0102
}

func validateAlignment(p unsafe.Pointer, align uintptr) error {
	if addr := uintptr(p); addr%align != 0 {
		return fmt.Errorf("%w: %d-byte element at 0x%x", ErrUnalignedAccess, align, addr)
	}
	return nil
}

// PlatformInfo describes the host for version output and bug reports.
func PlatformInfo() string {
	return fmt.Sprintf("GOOS=%s GOARCH=%s endianness=little-endian go=%s", runtime.GOOS, runtime.GOARCH, runtime.Version())
}
