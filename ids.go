package tskit

import (
	"strconv"

	"github.com/hupe1980/tskit/internal/conv"
	"github.com/hupe1980/tskit/internal/tsk"
)

// Null is the raw value of every null identifier. As an untyped constant it
// converts to any identifier kind: NodeID(Null), or simply -1.
const Null = -1

// RowID is satisfied by the eight identifier kinds and nothing else.
type RowID interface {
	~int32
	rowID()
}

// NodeID identifies a row of the node table.
type NodeID int32

// EdgeID identifies a row of the edge table.
type EdgeID int32

// SiteID identifies a row of the site table.
type SiteID int32

// MutationID identifies a row of the mutation table.
type MutationID int32

// PopulationID identifies a row of the population table.
type PopulationID int32

// IndividualID identifies a row of the individual table.
type IndividualID int32

// MigrationID identifies a row of the migration table.
type MigrationID int32

// ProvenanceID identifies a row of the provenance table.
type ProvenanceID int32

func (NodeID) rowID()       {}
func (EdgeID) rowID()       {}
func (SiteID) rowID()       {}
func (MutationID) rowID()   {}
func (PopulationID) rowID() {}
func (IndividualID) rowID() {}
func (MigrationID) rowID()  {}
func (ProvenanceID) rowID() {}

func idIndex(kind string, v int32) (int, error) {
	i, err := conv.Int32ToIndex(v)
	if err != nil {
		return 0, &RangeError{Kind: kind, Value: int64(v), cause: err}
	}
	return i, nil
}

func idString(v int32) string {
	if v == tsk.Null {
		return "NULL"
	}
	return strconv.FormatInt(int64(v), 10)
}

// IsNull reports whether id is the null node.
func (id NodeID) IsNull() bool { return id == Null }

// Index converts id to a slice index. Null and other negative ids fail.
func (id NodeID) Index() (int, error) { return idIndex("node", int32(id)) }

// Raw returns the underlying value.
func (id NodeID) Raw() int32 { return int32(id) }

func (id NodeID) String() string { return idString(int32(id)) }

// IsNull reports whether id is the null edge.
func (id EdgeID) IsNull() bool { return id == Null }

// Index converts id to a slice index. Null and other negative ids fail.
func (id EdgeID) Index() (int, error) { return idIndex("edge", int32(id)) }

// Raw returns the underlying value.
func (id EdgeID) Raw() int32 { return int32(id) }

func (id EdgeID) String() string { return idString(int32(id)) }

// IsNull reports whether id is the null site.
func (id SiteID) IsNull() bool { return id == Null }

// Index converts id to a slice index. Null and other negative ids fail.
func (id SiteID) Index() (int, error) { return idIndex("site", int32(id)) }

// Raw returns the underlying value.
func (id SiteID) Raw() int32 { return int32(id) }

func (id SiteID) String() string { return idString(int32(id)) }

// IsNull reports whether id is the null mutation.
func (id MutationID) IsNull() bool { return id == Null }

// Index converts id to a slice index. Null and other negative ids fail.
func (id MutationID) Index() (int, error) { return idIndex("mutation", int32(id)) }

// Raw returns the underlying value.
func (id MutationID) Raw() int32 { return int32(id) }

func (id MutationID) String() string { return idString(int32(id)) }

// IsNull reports whether id is the null population.
func (id PopulationID) IsNull() bool { return id == Null }

// Index converts id to a slice index. Null and other negative ids fail.
func (id PopulationID) Index() (int, error) { return idIndex("population", int32(id)) }

// Raw returns the underlying value.
func (id PopulationID) Raw() int32 { return int32(id) }

func (id PopulationID) String() string { return idString(int32(id)) }

// IsNull reports whether id is the null individual.
func (id IndividualID) IsNull() bool { return id == Null }

// Index converts id to a slice index. Null and other negative ids fail.
func (id IndividualID) Index() (int, error) { return idIndex("individual", int32(id)) }

// Raw returns the underlying value.
func (id IndividualID) Raw() int32 { return int32(id) }

func (id IndividualID) String() string { return idString(int32(id)) }

// IsNull reports whether id is the null migration.
func (id MigrationID) IsNull() bool { return id == Null }

// Index converts id to a slice index. Null and other negative ids fail.
func (id MigrationID) Index() (int, error) { return idIndex("migration", int32(id)) }

// Raw returns the underlying value.
func (id MigrationID) Raw() int32 { return int32(id) }

func (id MigrationID) String() string { return idString(int32(id)) }

// IsNull reports whether id is the null provenance.
func (id ProvenanceID) IsNull() bool { return id == Null }

// Index converts id to a slice index. Null and other negative ids fail.
func (id ProvenanceID) Index() (int, error) { return idIndex("provenance", int32(id)) }

// Raw returns the underlying value.
func (id ProvenanceID) Raw() int32 { return int32(id) }

func (id ProvenanceID) String() string { return idString(int32(id)) }

// IDFromIndex converts a slice index to an identifier of kind T. It fails
// when i does not fit in 32 bits or is negative.
func IDFromIndex[T RowID](i int) (T, error) {
	if i < 0 {
		return 0, &RangeError{Kind: "index", Value: int64(i)}
	}
	v, err := conv.IntToInt32(i)
	if err != nil {
		return 0, &RangeError{Kind: "index", Value: int64(i), cause: err}
	}
	return T(v), nil
}

// RawIDs views ids as raw int32 values without copying.
func RawIDs[T RowID](ids []T) []int32 { return conv.Reinterpret[int32](ids) }

// IDsFromRaw views raw int32 values as ids of kind T without copying.
func IDsFromRaw[T RowID](raw []int32) []T { return conv.Reinterpret[T](raw) }

// Time is a node, mutation or migration time.
type Time float64

// Position is a coordinate along the genome.
type Position float64

// Location is one coordinate of an individual's location.
type Location float64

// UnknownTime returns the value recorded for mutations whose time is not
// known. It is a NaN, so compare with IsUnknown rather than ==.
func UnknownTime() Time { return Time(tsk.UnknownTime()) }

// IsUnknown reports whether t is the unknown-time value.
func (t Time) IsUnknown() bool { return tsk.IsUnknownTime(float64(t)) }

func rawFloats[T ~float64](v []T) []float64 { return conv.Reinterpret[float64](v) }

func typedFloats[T ~float64](raw []float64) []T { return conv.Reinterpret[T](raw) }
