package tsk

import (
	"math"
	"slices"
)

// Bookmark holds per-table row offsets. Sorting starts at these rows.
type Bookmark struct {
	Individuals int
	Nodes       int
	Edges       int
	Migrations  int
	Sites       int
	Mutations   int
	Populations int
	Provenances int
}

// TableIndexes holds the edge insertion and removal orders.
type TableIndexes struct {
	EdgeInsertionOrder []int32
	EdgeRemovalOrder   []int32
}

// TableCollection is the set of tables describing a tree sequence.
type TableCollection struct {
	SequenceLength float64
	TimeUnits      string
	Metadata       []byte
	MetadataSchema string
	FileUUID       string
	Individuals    IndividualTable
	Nodes          NodeTable
	Edges          EdgeTable
	Migrations     MigrationTable
	Sites          SiteTable
	Mutations      MutationTable
	Populations    PopulationTable
	Provenances    ProvenanceTable
	Indexes        TableIndexes
	account
}

func (tc *TableCollection) accounts() []*account {
	return []*account{
		&tc.Individuals.account, &tc.Nodes.account, &tc.Edges.account, &tc.Migrations.account,
		&tc.Sites.account, &tc.Mutations.account, &tc.Populations.account, &tc.Provenances.account,
		&tc.account,
	}
}

// TableCollectionInit initializes an empty collection.
func TableCollectionInit(tc *TableCollection, options uint32) int32 {
	acct := &accountant{}
	*tc = TableCollection{TimeUnits: "unknown"}
	for _, a := range tc.accounts() {
		a.acct = acct
	}
	tc.Individuals.Init(options)
	tc.Nodes.Init(options)
	tc.Edges.Init(options)
	tc.Migrations.Init(options)
	tc.Sites.Init(options)
	tc.Mutations.Init(options)
	tc.Populations.Init(options)
	tc.Provenances.Init(options)
	return 0
}

// TableCollectionSetBudget attaches a memory budget. Rows added afterwards
// fail with ErrNoMemory when the budget denies the allocation.
func TableCollectionSetBudget(tc *TableCollection, b Budget) {
	if tc.acct != nil {
		tc.acct.budget = b
	}
}

// TableCollectionFree releases everything held by tc.
func TableCollectionFree(tc *TableCollection) int32 {
	for _, a := range tc.accounts() {
		a.releaseAll()
	}
	*tc = TableCollection{}
	return 0
}

// TableCollectionClear removes all rows. Options select whether schemas,
// top-level metadata and provenance go too.
func TableCollectionClear(tc *TableCollection, options uint32) int32 {
	tc.Individuals.Truncate(0)
	tc.Nodes.Truncate(0)
	tc.Edges.Truncate(0)
	tc.Migrations.Truncate(0)
	tc.Sites.Truncate(0)
	tc.Mutations.Truncate(0)
	tc.Populations.Truncate(0)
	if options&ClearProvenance != 0 {
		tc.Provenances.Truncate(0)
	}
	if options&ClearMetadataSchemas != 0 {
		tc.Individuals.MetadataSchema = ""
		tc.Nodes.MetadataSchema = ""
		tc.Edges.MetadataSchema = ""
		tc.Migrations.MetadataSchema = ""
		tc.Sites.MetadataSchema = ""
		tc.Mutations.MetadataSchema = ""
		tc.Populations.MetadataSchema = ""
	}
	if options&ClearTSMetadataAndSchema != 0 {
		tc.Metadata = nil
		tc.MetadataSchema = ""
	}
	TableCollectionDropIndex(tc)
	return 0
}

// settle hands a bulk reservation made at collection level to the tables
// whose rows it covers, so that truncating a table returns its share.
func (tc *TableCollection) settle() bool {
	tables := []struct {
		a  *account
		fp int64
	}{
		{&tc.Individuals.account, tc.Individuals.footprint()},
		{&tc.Nodes.account, tc.Nodes.footprint()},
		{&tc.Edges.account, tc.Edges.footprint()},
		{&tc.Migrations.account, tc.Migrations.footprint()},
		{&tc.Sites.account, tc.Sites.footprint()},
		{&tc.Mutations.account, tc.Mutations.footprint()},
		{&tc.Populations.account, tc.Populations.footprint()},
		{&tc.Provenances.account, tc.Provenances.footprint()},
	}
	need := int64(0)
	for _, t := range tables {
		need += max(t.fp-t.a.held, 0)
	}
	if need > tc.held && !tc.reserve(need-tc.held) {
		return false
	}
	tc.shrinkTo(need)
	for _, t := range tables {
		t.a.held += max(t.fp-t.a.held, 0)
	}
	tc.held = 0
	return true
}

// Bytes returns an estimate of the memory held by tc's columns.
func (tc *TableCollection) Bytes() int64 {
	n := int64(0)
	for _, a := range tc.accounts() {
		n += a.held
	}
	return n
}

// TableCollectionCopy deep-copies src into dst, which is initialized here.
func TableCollectionCopy(src, dst *TableCollection, options uint32) int32 {
	TableCollectionInit(dst, options)
	if src.acct != nil {
		dst.acct.budget = src.acct.budget
	}
	if !dst.reserve(src.Bytes()) {
		TableCollectionFree(dst)
		return ErrNoMemory
	}
	dst.SequenceLength = src.SequenceLength
	dst.TimeUnits = src.TimeUnits
	dst.Metadata = slices.Clone(src.Metadata)
	dst.MetadataSchema = src.MetadataSchema
	dst.FileUUID = src.FileUUID
	src.Individuals.CopyTo(&dst.Individuals)
	src.Nodes.CopyTo(&dst.Nodes)
	src.Edges.CopyTo(&dst.Edges)
	src.Migrations.CopyTo(&dst.Migrations)
	src.Sites.CopyTo(&dst.Sites)
	src.Mutations.CopyTo(&dst.Mutations)
	src.Populations.CopyTo(&dst.Populations)
	src.Provenances.CopyTo(&dst.Provenances)
	dst.Indexes.EdgeInsertionOrder = slices.Clone(src.Indexes.EdgeInsertionOrder)
	dst.Indexes.EdgeRemovalOrder = slices.Clone(src.Indexes.EdgeRemovalOrder)
	if !dst.settle() {
		TableCollectionFree(dst)
		return ErrNoMemory
	}
	return 0
}

// TableCollectionEquals compares two collections column by column.
func TableCollectionEquals(a, b *TableCollection, options uint32) bool {
	if options&CmpIgnoreTimestamps != 0 {
		options |= CmpIgnoreProvenance
	}
	if a.SequenceLength != b.SequenceLength || a.TimeUnits != b.TimeUnits {
		return false
	}
	if options&(CmpIgnoreMetadata|CmpIgnoreTSMetadata) == 0 {
		if !slices.Equal(a.Metadata, b.Metadata) || a.MetadataSchema != b.MetadataSchema {
			return false
		}
	}
	eq := a.Individuals.Equals(&b.Individuals, options) &&
		a.Nodes.Equals(&b.Nodes, options) &&
		a.Edges.Equals(&b.Edges, options) &&
		a.Migrations.Equals(&b.Migrations, options) &&
		a.Sites.Equals(&b.Sites, options) &&
		a.Mutations.Equals(&b.Mutations, options) &&
		a.Populations.Equals(&b.Populations, options)
	if eq && options&CmpIgnoreProvenance == 0 {
		eq = a.Provenances.Equals(&b.Provenances, options)
	}
	return eq
}

// TableCollectionHasIndex reports whether the edge indexes are present and
// sized to the edge table.
func TableCollectionHasIndex(tc *TableCollection) bool {
	n := tc.Edges.NumRows()
	return tc.Indexes.EdgeInsertionOrder != nil &&
		len(tc.Indexes.EdgeInsertionOrder) == n &&
		len(tc.Indexes.EdgeRemovalOrder) == n
}

// TableCollectionDropIndex removes the edge indexes.
func TableCollectionDropIndex(tc *TableCollection) int32 {
	tc.Indexes = TableIndexes{}
	return 0
}

// TableCollectionSetSequenceLength validates and sets the sequence length.
func TableCollectionSetSequenceLength(tc *TableCollection, length float64) int32 {
	if !(length > 0) || math.IsInf(length, 0) {
		return ErrBadSequenceLength
	}
	tc.SequenceLength = length
	return 0
}

// Samples returns the ids of all nodes flagged as samples.
func (tc *TableCollection) Samples() []int32 {
	var out []int32
	for i, f := range tc.Nodes.Flags {
		if f&NodeIsSample != 0 {
			out = append(out, int32(i))
		}
	}
	return out
}
