package conv

import (
	"fmt"
	"math"
	"unsafe"
)

// IntToInt32 converts int to int32 safely.
func IntToInt32(v int) (int32, error) {
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to int32", v)
	}
	return int32(v), nil
}

// Int32ToIndex converts a row id to a slice index. Negative values fail.
func Int32ToIndex(v int32) (int, error) {
	if v < 0 {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to an index (negative)", v)
	}
	return int(v), nil
}

// Uint64ToInt converts uint64 to int safely.
func Uint64ToInt(v uint64) (int, error) {
	if v > uint64(math.MaxInt) {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to int (too large)", v)
	}
	return int(v), nil
}

// Reinterpret views s as a slice of To without copying. To and From must
// have the same size and alignment; the function panics otherwise.
func Reinterpret[To, From any](s []From) []To {
	var to To
	var from From
	if unsafe.Sizeof(to) != unsafe.Sizeof(from) || unsafe.Alignof(to) != unsafe.Alignof(from) {
		panic(fmt.Sprintf("conv: cannot reinterpret %T as %T", from, to))
	}
	if s == nil {
		return nil
	}
	return unsafe.Slice((*To)(unsafe.Pointer(unsafe.SliceData(s))), len(s))
}
