package tsk

import (
	"math"
	"slices"
)

// Budget limits the number of bytes the tables of one collection may hold.
// resource.Controller satisfies it.
type Budget interface {
	TryAcquireMemory(bytes int64) bool
	ReleaseMemory(bytes int64)
}

type accountant struct {
	budget Budget
}

type account struct {
	acct *accountant
	held int64
}

func (a *account) reserve(n int64) bool {
	if a.acct != nil && a.acct.budget != nil && !a.acct.budget.TryAcquireMemory(n) {
		return false
	}
	a.held += n
	return true
}

func (a *account) releaseAll() {
	if a.acct != nil && a.acct.budget != nil && a.held > 0 {
		a.acct.budget.ReleaseMemory(a.held)
	}
	a.held = 0
}

// shrinkTo lowers the reservation to n bytes, returning the rest to the
// budget.
func (a *account) shrinkTo(n int64) {
	if n >= a.held {
		return
	}
	if a.acct != nil && a.acct.budget != nil {
		a.acct.budget.ReleaseMemory(a.held - n)
	}
	a.held = n
}

func appendRagged[T any](data []T, offset []uint64, v []T) ([]T, []uint64) {
	data = append(data, v...)
	return data, append(offset, uint64(len(data)))
}

func truncateRagged[T any](data []T, offset []uint64, n int) ([]T, []uint64) {
	offset = offset[:n+1]
	return data[:offset[n]], offset
}

func raggedEqual[T comparable](a []T, ao []uint64, b []T, bo []uint64) bool {
	return slices.Equal(a, b) && slices.Equal(ao, bo)
}

func floatsEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Float64bits(a[i]) != math.Float64bits(b[i]) && a[i] != b[i] {
			return false
		}
	}
	return true
}

func rowBytes(fixed int, ragged ...int) int64 {
	n := int64(fixed)
	for _, r := range ragged {
		n += int64(r) + 8
	}
	return n
}

// footprint is the sum of rowBytes over rows rows whose ragged columns hold
// the given total lengths.
func footprint(fixed, rows int, ragged ...int) int64 {
	n := int64(fixed) * int64(rows)
	for _, r := range ragged {
		n += int64(r) + 8*int64(rows)
	}
	return n
}

func checkCapacity(rows int) int32 {
	if rows >= math.MaxInt32 {
		return ErrTableOverflow
	}
	return 0
}

// NodeTable holds one row per node.
type NodeTable struct {
	Flags          []uint32
	Time           []float64
	Population     []int32
	Individual     []int32
	Metadata       []byte
	MetadataOffset []uint64
	MetadataSchema string
	account
}

func (t *NodeTable) Init(uint32) int32 {
	*t = NodeTable{MetadataOffset: []uint64{0}, account: t.account}
	return 0
}

func (t *NodeTable) NumRows() int { return len(t.Time) }

func (t *NodeTable) AddRow(flags uint32, time float64, population, individual int32, metadata []byte) int32 {
	id := t.NumRows()
	if rv := checkCapacity(id); rv != 0 {
		return rv
	}
	if !t.reserve(rowBytes(20, len(metadata))) {
		return ErrNoMemory
	}
	t.Flags = append(t.Flags, flags)
	t.Time = append(t.Time, time)
	t.Population = append(t.Population, population)
	t.Individual = append(t.Individual, individual)
	t.Metadata, t.MetadataOffset = appendRagged(t.Metadata, t.MetadataOffset, metadata)
	return int32(id)
}

func (t *NodeTable) Truncate(n int) int32 {
	if n < 0 || n > t.NumRows() {
		return ErrBadTablePosition
	}
	t.Flags, t.Time = t.Flags[:n], t.Time[:n]
	t.Population, t.Individual = t.Population[:n], t.Individual[:n]
	t.Metadata, t.MetadataOffset = truncateRagged(t.Metadata, t.MetadataOffset, n)
	t.shrinkTo(t.footprint())
	return 0
}

func (t *NodeTable) footprint() int64 { return footprint(20, t.NumRows(), len(t.Metadata)) }

func (t *NodeTable) Free() int32 {
	t.releaseAll()
	*t = NodeTable{}
	return 0
}

func (t *NodeTable) CopyTo(dst *NodeTable) {
	dst.Flags = slices.Clone(t.Flags)
	dst.Time = slices.Clone(t.Time)
	dst.Population = slices.Clone(t.Population)
	dst.Individual = slices.Clone(t.Individual)
	dst.Metadata = slices.Clone(t.Metadata)
	dst.MetadataOffset = slices.Clone(t.MetadataOffset)
	dst.MetadataSchema = t.MetadataSchema
}

func (t *NodeTable) Equals(o *NodeTable, options uint32) bool {
	eq := slices.Equal(t.Flags, o.Flags) && floatsEqual(t.Time, o.Time) &&
		slices.Equal(t.Population, o.Population) && slices.Equal(t.Individual, o.Individual)
	if options&CmpIgnoreMetadata == 0 {
		eq = eq && raggedEqual(t.Metadata, t.MetadataOffset, o.Metadata, o.MetadataOffset) &&
			t.MetadataSchema == o.MetadataSchema
	}
	return eq
}

// EdgeTable holds one row per parent/child relationship over an interval.
type EdgeTable struct {
	Left           []float64
	Right          []float64
	Parent         []int32
	Child          []int32
	Metadata       []byte
	MetadataOffset []uint64
	MetadataSchema string
	account
}

func (t *EdgeTable) Init(uint32) int32 {
	*t = EdgeTable{MetadataOffset: []uint64{0}, account: t.account}
	return 0
}

func (t *EdgeTable) NumRows() int { return len(t.Left) }

func (t *EdgeTable) AddRow(left, right float64, parent, child int32, metadata []byte) int32 {
	id := t.NumRows()
	if rv := checkCapacity(id); rv != 0 {
		return rv
	}
	if !t.reserve(rowBytes(24, len(metadata))) {
		return ErrNoMemory
	}
	t.Left = append(t.Left, left)
	t.Right = append(t.Right, right)
	t.Parent = append(t.Parent, parent)
	t.Child = append(t.Child, child)
	t.Metadata, t.MetadataOffset = appendRagged(t.Metadata, t.MetadataOffset, metadata)
	return int32(id)
}

func (t *EdgeTable) Truncate(n int) int32 {
	if n < 0 || n > t.NumRows() {
		return ErrBadTablePosition
	}
	t.Left, t.Right = t.Left[:n], t.Right[:n]
	t.Parent, t.Child = t.Parent[:n], t.Child[:n]
	t.Metadata, t.MetadataOffset = truncateRagged(t.Metadata, t.MetadataOffset, n)
	t.shrinkTo(t.footprint())
	return 0
}

func (t *EdgeTable) footprint() int64 { return footprint(24, t.NumRows(), len(t.Metadata)) }

func (t *EdgeTable) Free() int32 {
	t.releaseAll()
	*t = EdgeTable{}
	return 0
}

func (t *EdgeTable) CopyTo(dst *EdgeTable) {
	dst.Left = slices.Clone(t.Left)
	dst.Right = slices.Clone(t.Right)
	dst.Parent = slices.Clone(t.Parent)
	dst.Child = slices.Clone(t.Child)
	dst.Metadata = slices.Clone(t.Metadata)
	dst.MetadataOffset = slices.Clone(t.MetadataOffset)
	dst.MetadataSchema = t.MetadataSchema
}

func (t *EdgeTable) Equals(o *EdgeTable, options uint32) bool {
	eq := floatsEqual(t.Left, o.Left) && floatsEqual(t.Right, o.Right) &&
		slices.Equal(t.Parent, o.Parent) && slices.Equal(t.Child, o.Child)
	if options&CmpIgnoreMetadata == 0 {
		eq = eq && raggedEqual(t.Metadata, t.MetadataOffset, o.Metadata, o.MetadataOffset) &&
			t.MetadataSchema == o.MetadataSchema
	}
	return eq
}

// SiteTable holds one row per variable site.
type SiteTable struct {
	Position             []float64
	AncestralState       []byte
	AncestralStateOffset []uint64
	Metadata             []byte
	MetadataOffset       []uint64
	MetadataSchema       string
	account
}

func (t *SiteTable) Init(uint32) int32 {
	*t = SiteTable{AncestralStateOffset: []uint64{0}, MetadataOffset: []uint64{0}, account: t.account}
	return 0
}

func (t *SiteTable) NumRows() int { return len(t.Position) }

func (t *SiteTable) AddRow(position float64, ancestralState, metadata []byte) int32 {
	id := t.NumRows()
	if rv := checkCapacity(id); rv != 0 {
		return rv
	}
	if !t.reserve(rowBytes(8, len(ancestralState), len(metadata))) {
		return ErrNoMemory
	}
	t.Position = append(t.Position, position)
	t.AncestralState, t.AncestralStateOffset = appendRagged(t.AncestralState, t.AncestralStateOffset, ancestralState)
	t.Metadata, t.MetadataOffset = appendRagged(t.Metadata, t.MetadataOffset, metadata)
	return int32(id)
}

func (t *SiteTable) Truncate(n int) int32 {
	if n < 0 || n > t.NumRows() {
		return ErrBadTablePosition
	}
	t.Position = t.Position[:n]
	t.AncestralState, t.AncestralStateOffset = truncateRagged(t.AncestralState, t.AncestralStateOffset, n)
	t.Metadata, t.MetadataOffset = truncateRagged(t.Metadata, t.MetadataOffset, n)
	t.shrinkTo(t.footprint())
	return 0
}

func (t *SiteTable) footprint() int64 { return footprint(8, t.NumRows(), len(t.AncestralState), len(t.Metadata)) }

func (t *SiteTable) Free() int32 {
	t.releaseAll()
	*t = SiteTable{}
	return 0
}

func (t *SiteTable) CopyTo(dst *SiteTable) {
	dst.Position = slices.Clone(t.Position)
	dst.AncestralState = slices.Clone(t.AncestralState)
	dst.AncestralStateOffset = slices.Clone(t.AncestralStateOffset)
	dst.Metadata = slices.Clone(t.Metadata)
	dst.MetadataOffset = slices.Clone(t.MetadataOffset)
	dst.MetadataSchema = t.MetadataSchema
}

func (t *SiteTable) Equals(o *SiteTable, options uint32) bool {
	eq := floatsEqual(t.Position, o.Position) &&
		raggedEqual(t.AncestralState, t.AncestralStateOffset, o.AncestralState, o.AncestralStateOffset)
	if options&CmpIgnoreMetadata == 0 {
		eq = eq && raggedEqual(t.Metadata, t.MetadataOffset, o.Metadata, o.MetadataOffset) &&
			t.MetadataSchema == o.MetadataSchema
	}
	return eq
}

// MutationTable holds one row per state change at a site.
type MutationTable struct {
	Site               []int32
	Node               []int32
	Parent             []int32
	Time               []float64
	DerivedState       []byte
	DerivedStateOffset []uint64
	Metadata           []byte
	MetadataOffset     []uint64
	MetadataSchema     string
	account
}

func (t *MutationTable) Init(uint32) int32 {
	*t = MutationTable{DerivedStateOffset: []uint64{0}, MetadataOffset: []uint64{0}, account: t.account}
	return 0
}

func (t *MutationTable) NumRows() int { return len(t.Site) }

func (t *MutationTable) AddRow(site, node, parent int32, time float64, derivedState, metadata []byte) int32 {
	id := t.NumRows()
	if rv := checkCapacity(id); rv != 0 {
		return rv
	}
	if !t.reserve(rowBytes(20, len(derivedState), len(metadata))) {
		return ErrNoMemory
	}
	t.Site = append(t.Site, site)
	t.Node = append(t.Node, node)
	t.Parent = append(t.Parent, parent)
	t.Time = append(t.Time, time)
	t.DerivedState, t.DerivedStateOffset = appendRagged(t.DerivedState, t.DerivedStateOffset, derivedState)
	t.Metadata, t.MetadataOffset = appendRagged(t.Metadata, t.MetadataOffset, metadata)
	return int32(id)
}

func (t *MutationTable) Truncate(n int) int32 {
	if n < 0 || n > t.NumRows() {
		return ErrBadTablePosition
	}
	t.Site, t.Node, t.Parent, t.Time = t.Site[:n], t.Node[:n], t.Parent[:n], t.Time[:n]
	t.DerivedState, t.DerivedStateOffset = truncateRagged(t.DerivedState, t.DerivedStateOffset, n)
	t.Metadata, t.MetadataOffset = truncateRagged(t.Metadata, t.MetadataOffset, n)
	t.shrinkTo(t.footprint())
	return 0
}

func (t *MutationTable) footprint() int64 { return footprint(20, t.NumRows(), len(t.DerivedState), len(t.Metadata)) }

func (t *MutationTable) Free() int32 {
	t.releaseAll()
	*t = MutationTable{}
	return 0
}

func (t *MutationTable) CopyTo(dst *MutationTable) {
	dst.Site = slices.Clone(t.Site)
	dst.Node = slices.Clone(t.Node)
	dst.Parent = slices.Clone(t.Parent)
	dst.Time = slices.Clone(t.Time)
	dst.DerivedState = slices.Clone(t.DerivedState)
	dst.DerivedStateOffset = slices.Clone(t.DerivedStateOffset)
	dst.Metadata = slices.Clone(t.Metadata)
	dst.MetadataOffset = slices.Clone(t.MetadataOffset)
	dst.MetadataSchema = t.MetadataSchema
}

func (t *MutationTable) Equals(o *MutationTable, options uint32) bool {
	eq := slices.Equal(t.Site, o.Site) && slices.Equal(t.Node, o.Node) &&
		slices.Equal(t.Parent, o.Parent) && floatsEqual(t.Time, o.Time) &&
		raggedEqual(t.DerivedState, t.DerivedStateOffset, o.DerivedState, o.DerivedStateOffset)
	if options&CmpIgnoreMetadata == 0 {
		eq = eq && raggedEqual(t.Metadata, t.MetadataOffset, o.Metadata, o.MetadataOffset) &&
			t.MetadataSchema == o.MetadataSchema
	}
	return eq
}

// PopulationTable holds one row per population. Rows carry metadata only.
type PopulationTable struct {
	Metadata       []byte
	MetadataOffset []uint64
	MetadataSchema string
	account
}

func (t *PopulationTable) Init(uint32) int32 {
	*t = PopulationTable{MetadataOffset: []uint64{0}, account: t.account}
	return 0
}

func (t *PopulationTable) NumRows() int { return len(t.MetadataOffset) - 1 }

func (t *PopulationTable) AddRow(metadata []byte) int32 {
	id := t.NumRows()
	if rv := checkCapacity(id); rv != 0 {
		return rv
	}
	if !t.reserve(rowBytes(0, len(metadata))) {
		return ErrNoMemory
	}
	t.Metadata, t.MetadataOffset = appendRagged(t.Metadata, t.MetadataOffset, metadata)
	return int32(id)
}

func (t *PopulationTable) Truncate(n int) int32 {
	if n < 0 || n > t.NumRows() {
		return ErrBadTablePosition
	}
	t.Metadata, t.MetadataOffset = truncateRagged(t.Metadata, t.MetadataOffset, n)
	t.shrinkTo(t.footprint())
	return 0
}

func (t *PopulationTable) footprint() int64 { return footprint(0, t.NumRows(), len(t.Metadata)) }

func (t *PopulationTable) Free() int32 {
	t.releaseAll()
	*t = PopulationTable{}
	return 0
}

func (t *PopulationTable) CopyTo(dst *PopulationTable) {
	dst.Metadata = slices.Clone(t.Metadata)
	dst.MetadataOffset = slices.Clone(t.MetadataOffset)
	dst.MetadataSchema = t.MetadataSchema
}

func (t *PopulationTable) Equals(o *PopulationTable, options uint32) bool {
	if options&CmpIgnoreMetadata != 0 {
		return t.NumRows() == o.NumRows()
	}
	return raggedEqual(t.Metadata, t.MetadataOffset, o.Metadata, o.MetadataOffset) &&
		t.MetadataSchema == o.MetadataSchema
}

// IndividualTable holds one row per individual.
type IndividualTable struct {
	Flags          []uint32
	Location       []float64
	LocationOffset []uint64
	Parents        []int32
	ParentsOffset  []uint64
	Metadata       []byte
	MetadataOffset []uint64
	MetadataSchema string
	account
}

func (t *IndividualTable) Init(uint32) int32 {
	*t = IndividualTable{
		LocationOffset: []uint64{0},
		ParentsOffset:  []uint64{0},
		MetadataOffset: []uint64{0},
		account:        t.account,
	}
	return 0
}

func (t *IndividualTable) NumRows() int { return len(t.Flags) }

func (t *IndividualTable) AddRow(flags uint32, location []float64, parents []int32, metadata []byte) int32 {
	id := t.NumRows()
	if rv := checkCapacity(id); rv != 0 {
		return rv
	}
	if !t.reserve(rowBytes(4, 8*len(location), 4*len(parents), len(metadata))) {
		return ErrNoMemory
	}
	t.Flags = append(t.Flags, flags)
	t.Location, t.LocationOffset = appendRagged(t.Location, t.LocationOffset, location)
	t.Parents, t.ParentsOffset = appendRagged(t.Parents, t.ParentsOffset, parents)
	t.Metadata, t.MetadataOffset = appendRagged(t.Metadata, t.MetadataOffset, metadata)
	return int32(id)
}

func (t *IndividualTable) Truncate(n int) int32 {
	if n < 0 || n > t.NumRows() {
		return ErrBadTablePosition
	}
	t.Flags = t.Flags[:n]
	t.Location, t.LocationOffset = truncateRagged(t.Location, t.LocationOffset, n)
	t.Parents, t.ParentsOffset = truncateRagged(t.Parents, t.ParentsOffset, n)
	t.Metadata, t.MetadataOffset = truncateRagged(t.Metadata, t.MetadataOffset, n)
	t.shrinkTo(t.footprint())
	return 0
}

func (t *IndividualTable) footprint() int64 { return footprint(4, t.NumRows(), 8*len(t.Location), 4*len(t.Parents), len(t.Metadata)) }

func (t *IndividualTable) Free() int32 {
	t.releaseAll()
	*t = IndividualTable{}
	return 0
}

func (t *IndividualTable) CopyTo(dst *IndividualTable) {
	dst.Flags = slices.Clone(t.Flags)
	dst.Location = slices.Clone(t.Location)
	dst.LocationOffset = slices.Clone(t.LocationOffset)
	dst.Parents = slices.Clone(t.Parents)
	dst.ParentsOffset = slices.Clone(t.ParentsOffset)
	dst.Metadata = slices.Clone(t.Metadata)
	dst.MetadataOffset = slices.Clone(t.MetadataOffset)
	dst.MetadataSchema = t.MetadataSchema
}

func (t *IndividualTable) Equals(o *IndividualTable, options uint32) bool {
	eq := slices.Equal(t.Flags, o.Flags) &&
		floatsEqual(t.Location, o.Location) && slices.Equal(t.LocationOffset, o.LocationOffset) &&
		raggedEqual(t.Parents, t.ParentsOffset, o.Parents, o.ParentsOffset)
	if options&CmpIgnoreMetadata == 0 {
		eq = eq && raggedEqual(t.Metadata, t.MetadataOffset, o.Metadata, o.MetadataOffset) &&
			t.MetadataSchema == o.MetadataSchema
	}
	return eq
}

// MigrationTable holds one row per migration event.
type MigrationTable struct {
	Left           []float64
	Right          []float64
	Node           []int32
	Source         []int32
	Dest           []int32
	Time           []float64
	Metadata       []byte
	MetadataOffset []uint64
	MetadataSchema string
	account
}

func (t *MigrationTable) Init(uint32) int32 {
	*t = MigrationTable{MetadataOffset: []uint64{0}, account: t.account}
	return 0
}

func (t *MigrationTable) NumRows() int { return len(t.Left) }

func (t *MigrationTable) AddRow(left, right float64, node, source, dest int32, time float64, metadata []byte) int32 {
	id := t.NumRows()
	if rv := checkCapacity(id); rv != 0 {
		return rv
	}
	if !t.reserve(rowBytes(36, len(metadata))) {
		return ErrNoMemory
	}
	t.Left = append(t.Left, left)
	t.Right = append(t.Right, right)
	t.Node = append(t.Node, node)
	t.Source = append(t.Source, source)
	t.Dest = append(t.Dest, dest)
	t.Time = append(t.Time, time)
	t.Metadata, t.MetadataOffset = appendRagged(t.Metadata, t.MetadataOffset, metadata)
	return int32(id)
}

func (t *MigrationTable) Truncate(n int) int32 {
	if n < 0 || n > t.NumRows() {
		return ErrBadTablePosition
	}
	t.Left, t.Right, t.Time = t.Left[:n], t.Right[:n], t.Time[:n]
	t.Node, t.Source, t.Dest = t.Node[:n], t.Source[:n], t.Dest[:n]
	t.Metadata, t.MetadataOffset = truncateRagged(t.Metadata, t.MetadataOffset, n)
	t.shrinkTo(t.footprint())
	return 0
}

func (t *MigrationTable) footprint() int64 { return footprint(36, t.NumRows(), len(t.Metadata)) }

func (t *MigrationTable) Free() int32 {
	t.releaseAll()
	*t = MigrationTable{}
	return 0
}

func (t *MigrationTable) CopyTo(dst *MigrationTable) {
	dst.Left = slices.Clone(t.Left)
	dst.Right = slices.Clone(t.Right)
	dst.Node = slices.Clone(t.Node)
	dst.Source = slices.Clone(t.Source)
	dst.Dest = slices.Clone(t.Dest)
	dst.Time = slices.Clone(t.Time)
	dst.Metadata = slices.Clone(t.Metadata)
	dst.MetadataOffset = slices.Clone(t.MetadataOffset)
	dst.MetadataSchema = t.MetadataSchema
}

func (t *MigrationTable) Equals(o *MigrationTable, options uint32) bool {
	eq := floatsEqual(t.Left, o.Left) && floatsEqual(t.Right, o.Right) &&
		slices.Equal(t.Node, o.Node) && slices.Equal(t.Source, o.Source) &&
		slices.Equal(t.Dest, o.Dest) && floatsEqual(t.Time, o.Time)
	if options&CmpIgnoreMetadata == 0 {
		eq = eq && raggedEqual(t.Metadata, t.MetadataOffset, o.Metadata, o.MetadataOffset) &&
			t.MetadataSchema == o.MetadataSchema
	}
	return eq
}

// ProvenanceTable records the operations applied to a collection.
type ProvenanceTable struct {
	Timestamp       []byte
	TimestampOffset []uint64
	Record          []byte
	RecordOffset    []uint64
	account
}

func (t *ProvenanceTable) Init(uint32) int32 {
	*t = ProvenanceTable{TimestampOffset: []uint64{0}, RecordOffset: []uint64{0}, account: t.account}
	return 0
}

func (t *ProvenanceTable) NumRows() int { return len(t.RecordOffset) - 1 }

func (t *ProvenanceTable) AddRow(timestamp, record []byte) int32 {
	id := t.NumRows()
	if rv := checkCapacity(id); rv != 0 {
		return rv
	}
	if !t.reserve(rowBytes(0, len(timestamp), len(record))) {
		return ErrNoMemory
	}
	t.Timestamp, t.TimestampOffset = appendRagged(t.Timestamp, t.TimestampOffset, timestamp)
	t.Record, t.RecordOffset = appendRagged(t.Record, t.RecordOffset, record)
	return int32(id)
}

func (t *ProvenanceTable) Truncate(n int) int32 {
	if n < 0 || n > t.NumRows() {
		return ErrBadTablePosition
	}
	t.Timestamp, t.TimestampOffset = truncateRagged(t.Timestamp, t.TimestampOffset, n)
	t.Record, t.RecordOffset = truncateRagged(t.Record, t.RecordOffset, n)
	t.shrinkTo(t.footprint())
	return 0
}

func (t *ProvenanceTable) footprint() int64 { return footprint(0, t.NumRows(), len(t.Timestamp), len(t.Record)) }

func (t *ProvenanceTable) Free() int32 {
	t.releaseAll()
	*t = ProvenanceTable{}
	return 0
}

func (t *ProvenanceTable) CopyTo(dst *ProvenanceTable) {
	dst.Timestamp = slices.Clone(t.Timestamp)
	dst.TimestampOffset = slices.Clone(t.TimestampOffset)
	dst.Record = slices.Clone(t.Record)
	dst.RecordOffset = slices.Clone(t.RecordOffset)
}

func (t *ProvenanceTable) Equals(o *ProvenanceTable, options uint32) bool {
	eq := raggedEqual(t.Record, t.RecordOffset, o.Record, o.RecordOffset)
	if options&CmpIgnoreTimestamps == 0 {
		eq = eq && raggedEqual(t.Timestamp, t.TimestampOffset, o.Timestamp, o.TimestampOffset)
	}
	return eq
}

// Ragged returns row i of a ragged column.
func Ragged[T any](data []T, offset []uint64, i int) []T {
	return data[offset[i]:offset[i+1]:offset[i+1]]
}
