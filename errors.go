package tskit

import (
	"errors"
	"fmt"
	"sync"

	"github.com/hupe1980/tskit/internal/tsk"
)

// Kind classifies a status code returned by the table engine.
type Kind uint8

const (
	// KindUnknown is used for codes outside the known catalog.
	KindUnknown Kind = iota
	KindOutOfMemory
	KindOutOfBounds
	KindBadArgument
	KindIntegrity
	KindIO
	KindFileFormat
	KindLibrary
)

var kindNames = [...]string{
	KindUnknown:     "unknown",
	KindOutOfMemory: "out of memory",
	KindOutOfBounds: "out of bounds",
	KindBadArgument: "bad argument",
	KindIntegrity:   "integrity",
	KindIO:          "io",
	KindFileFormat:  "file format",
	KindLibrary:     "library",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Sentinels matched by errors.Is against an *Error of the same Kind.
var (
	ErrUnknown     = errors.New("tskit: unknown error")
	ErrOutOfMemory = errors.New("tskit: out of memory")
	ErrOutOfBounds = errors.New("tskit: out of bounds")
	ErrBadArgument = errors.New("tskit: bad argument")
	ErrIntegrity   = errors.New("tskit: table integrity violated")
	ErrIO          = errors.New("tskit: io error")
	ErrFileFormat  = errors.New("tskit: file format error")
	ErrLibrary     = errors.New("tskit: library error")
)

var kindSentinels = [...]error{
	KindUnknown:     ErrUnknown,
	KindOutOfMemory: ErrOutOfMemory,
	KindOutOfBounds: ErrOutOfBounds,
	KindBadArgument: ErrBadArgument,
	KindIntegrity:   ErrIntegrity,
	KindIO:          ErrIO,
	KindFileFormat:  ErrFileFormat,
	KindLibrary:     ErrLibrary,
}

var (
	// ErrIndex is matched by every *RangeError.
	ErrIndex = errors.New("tskit: index out of range")

	// ErrNotTrackingSamples is returned by tree sample queries when the
	// iterator was created without TreeSampleLists.
	ErrNotTrackingSamples = errors.New("tskit: tree is not tracking samples")

	// ErrHandleReleased is returned by fallible methods of a collection that
	// was closed or consumed by TreeSequence.
	ErrHandleReleased = errors.New("tskit: handle released")
)

// Error is a failed engine call.
type Error struct {
	Op   string
	Code int32
	Kind Kind

	once  sync.Once
	msg   string
	cause error
}

// Message returns the engine's description of Code. It is looked up on
// first use.
func (e *Error) Message() string {
	e.once.Do(func() { e.msg = tsk.Strerror(e.Code) })
	return e.msg
}

func (e *Error) Error() string {
	return fmt.Sprintf("tskit: %s: %s", e.Op, e.Message())
}

// Is matches the sentinel of e's Kind.
func (e *Error) Is(target error) bool {
	return int(e.Kind) < len(kindSentinels) && kindSentinels[e.Kind] == target
}

func (e *Error) Unwrap() error { return e.cause }

// MetadataError is a metadata decode failure. The decoder's own error can be
// accessed via errors.Unwrap.
type MetadataError struct {
	Table string
	Row   int32
	cause error
}

func (e *MetadataError) Error() string {
	return fmt.Sprintf("tskit: decoding %s metadata of row %d: %v", e.Table, e.Row, e.cause)
}

func (e *MetadataError) Unwrap() error { return e.cause }

// RangeError is an identifier or index that does not convert.
type RangeError struct {
	Kind  string
	Value int64
	cause error
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("tskit: %s %d out of range", e.Kind, e.Value)
}

func (e *RangeError) Is(target error) bool { return target == ErrIndex }

func (e *RangeError) Unwrap() error { return e.cause }

// ValueError is an argument rejected before reaching the engine.
type ValueError struct {
	Field  string
	Reason string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("tskit: invalid %s: %s", e.Field, e.Reason)
}

func classify(code int32) Kind {
	switch code {
	case tsk.ErrNoMemory:
		return KindOutOfMemory
	case tsk.ErrIO, tsk.ErrEOF, tsk.ErrGenerateUUID:
		return KindIO
	case tsk.ErrFileFormat, tsk.ErrFileVersionTooOld, tsk.ErrFileVersionTooNew,
		tsk.ErrRequiredColNotFound, tsk.ErrBothColumnsRequired, tsk.ErrBadColumnType,
		tsk.ErrChecksumMismatch:
		return KindFileFormat
	case tsk.ErrBadOffset, tsk.ErrOutOfBounds, tsk.ErrNodeOutOfBounds, tsk.ErrEdgeOutOfBounds,
		tsk.ErrPopulationOutOfBounds, tsk.ErrSiteOutOfBounds, tsk.ErrMutationOutOfBounds,
		tsk.ErrIndividualOutOfBounds, tsk.ErrMigrationOutOfBounds, tsk.ErrProvenanceOutOfBounds,
		tsk.ErrSeekOutOfBounds, tsk.ErrKeepRowsMapToDeleted, tsk.ErrPositionOutOfBounds,
		tsk.ErrTreeIndexOutOfBounds, tsk.ErrBadTablePosition:
		return KindOutOfBounds
	case tsk.ErrBadParamValue, tsk.ErrBufferOverflow, tsk.ErrUnsupportedOperation,
		tsk.ErrDuplicateSample, tsk.ErrBadSamples, tsk.ErrBadSequenceLength,
		tsk.ErrSortOffsetNotSupported, tsk.ErrSimplifyMigrationsNotSupported,
		tsk.ErrMigrationsNotSupported, tsk.ErrSampleSizeMismatch, tsk.ErrSamplesNotEqual,
		tsk.ErrMultipleRoots, tsk.ErrUnaryNodes, tsk.ErrSequenceLengthMismatch,
		tsk.ErrNoSampleLists, tsk.ErrNoSampleCounts, tsk.ErrNotTracking, tsk.ErrNullTree,
		tsk.ErrBadTreeSequence:
		return KindBadArgument
	case tsk.ErrGeneric, tsk.ErrTableOverflow, tsk.ErrColumnOverflow, tsk.ErrTreeOverflow:
		return KindLibrary
	}
	if tsk.Known(code) {
		return KindIntegrity
	}
	return KindUnknown
}

// checkCode turns an engine status into an error. Non-negative codes are
// success.
func checkCode(op string, code int32) error {
	if code >= 0 {
		return nil
	}
	return &Error{Op: op, Code: code, Kind: classify(code)}
}

// checkCodeCause is checkCode for calls that stream through an io.Reader or
// io.Writer, whose own failure is kept as the cause.
func checkCodeCause(op string, code int32, cause error) error {
	if code >= 0 {
		return nil
	}
	return &Error{Op: op, Code: code, Kind: classify(code), cause: cause}
}
