package tskit

import (
	"context"
	"math"
	"time"

	"github.com/hupe1980/tskit/internal/handle"
	"github.com/hupe1980/tskit/internal/tsk"
	"github.com/hupe1980/tskit/metadata"
)

const (
	kindTableCollection = "table_collection"
	kindTreeSequence    = "tree_sequence"
)

// Bookmark holds per-table row offsets. Sort leaves the rows before the
// offsets in place.
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

// Interval is a half-open genomic interval [Left, Right).
type Interval struct {
	Left, Right Position
}

// TableCollection owns a mutable set of tables. It is not safe for
// concurrent use. Views obtained from it (tables, rows, lending iterators)
// are valid until the next mutation or Close.
type TableCollection struct {
	tableReader
	h    *handle.Handle[tsk.TableCollection]
	opts options
}

// New creates empty tables for a genome of the given length.
func New(sequenceLength Position, opts ...Option) (*TableCollection, error) {
	if !(sequenceLength > 0) || math.IsInf(float64(sequenceLength), 1) {
		return nil, &ValueError{Field: "sequence length", Reason: "must be positive and finite"}
	}
	return newTableCollection(applyOptions(opts), func(raw *tsk.TableCollection) int32 {
		return tsk.TableCollectionSetSequenceLength(raw, float64(sequenceLength))
	})
}

func (o options) onClose(kind string) func(code int32) {
	return func(code int32) {
		o.metricsCollector.RecordHandleClose(kind)
		o.logger.LogHandleClose(context.Background(), kind, code)
	}
}

// newTableCollection initializes a collection, attaches the memory budget
// and runs fill on it.
func newTableCollection(o options, fill func(*tsk.TableCollection) int32) (*TableCollection, error) {
	h, code := handle.New(func(raw *tsk.TableCollection) int32 {
		if rv := tsk.TableCollectionInit(raw, 0); rv < 0 {
			return rv
		}
		if o.resources != nil {
			tsk.TableCollectionSetBudget(raw, o.resources)
		}
		if fill == nil {
			return 0
		}
		return fill(raw)
	}, tsk.TableCollectionFree,
		handle.WithFree(func(raw *tsk.TableCollection) { tsk.TableCollectionFree(raw) }),
		handle.WithOnClose[tsk.TableCollection](o.onClose(kindTableCollection)),
	)
	err := checkCode("init table collection", code)
	o.logger.LogHandleOpen(context.Background(), kindTableCollection, err)
	if err != nil {
		return nil, err
	}
	o.metricsCollector.RecordHandleOpen(kindTableCollection)
	return wrapTableCollection(h, o), nil
}

func wrapTableCollection(h *handle.Handle[tsk.TableCollection], o options) *TableCollection {
	tc := &TableCollection{h: h, opts: o}
	tc.tableReader = tableReader{src: tc}
	return tc
}

func (tc *TableCollection) tables() *tsk.TableCollection { return tc.h.Ref() }
func (tc *TableCollection) generation() uint64           { return tc.h.Generation() }

func (tc *TableCollection) mut() (*tsk.TableCollection, error) {
	if !tc.h.Valid() {
		return nil, ErrHandleReleased
	}
	return tc.h.Mut(), nil
}

func (tc *TableCollection) ref() (*tsk.TableCollection, error) {
	if !tc.h.Valid() {
		return nil, ErrHandleReleased
	}
	return tc.h.Ref(), nil
}

// Close releases the tables. It is safe to call more than once and after
// the collection was consumed by TreeSequence.
func (tc *TableCollection) Close() error {
	return checkCode("close table collection", tc.h.Close())
}

// SetTimeUnits sets the unit of node and mutation times.
func (tc *TableCollection) SetTimeUnits(units string) error {
	raw, err := tc.mut()
	if err != nil {
		return err
	}
	raw.TimeUnits = units
	return nil
}

// SetMetadata sets the top-level metadata bytes.
func (tc *TableCollection) SetMetadata(md []byte) error {
	raw, err := tc.mut()
	if err != nil {
		return err
	}
	raw.Metadata = append([]byte(nil), md...)
	return nil
}

// SetMetadataSchema sets the schema of the top-level metadata.
func (tc *TableCollection) SetMetadataSchema(schema string) error {
	raw, err := tc.mut()
	if err != nil {
		return err
	}
	raw.MetadataSchema = schema
	return nil
}

// SetTableMetadataSchema sets the metadata schema of one table.
func (tc *TableCollection) SetTableMetadataSchema(table Table, schema string) error {
	raw, err := tc.mut()
	if err != nil {
		return err
	}
	slot := schemaSlot(raw, table)
	if slot == nil {
		return &ValueError{Field: "table", Reason: table.String() + " has no metadata schema"}
	}
	*slot = schema
	return nil
}

func rowID[I RowID](op string, code int32) (I, error) {
	if err := checkCode(op, code); err != nil {
		return I(Null), err
	}
	return I(code), nil
}

// AddNode appends a node row.
func (tc *TableCollection) AddNode(flags NodeFlags, time Time, population PopulationID, individual IndividualID) (NodeID, error) {
	return tc.addNode(flags, time, population, individual, nil)
}

// AddNodeWithMetadata appends a node row with encoded metadata.
func (tc *TableCollection) AddNodeWithMetadata(flags NodeFlags, time Time, population PopulationID, individual IndividualID, md metadata.NodeEncoder) (NodeID, error) {
	return tc.addNode(flags, time, population, individual, metadata.Encode(md))
}

func (tc *TableCollection) addNode(flags NodeFlags, time Time, population PopulationID, individual IndividualID, md []byte) (NodeID, error) {
	raw, err := tc.mut()
	if err != nil {
		return Null, err
	}
	code := raw.Nodes.AddRow(uint32(flags), float64(time), int32(population), int32(individual), md)
	return rowID[NodeID]("add node", code)
}

// AddEdge appends an edge row.
func (tc *TableCollection) AddEdge(left, right Position, parent, child NodeID) (EdgeID, error) {
	return tc.addEdge(left, right, parent, child, nil)
}

// AddEdgeWithMetadata appends an edge row with encoded metadata.
func (tc *TableCollection) AddEdgeWithMetadata(left, right Position, parent, child NodeID, md metadata.EdgeEncoder) (EdgeID, error) {
	return tc.addEdge(left, right, parent, child, metadata.Encode(md))
}

func (tc *TableCollection) addEdge(left, right Position, parent, child NodeID, md []byte) (EdgeID, error) {
	raw, err := tc.mut()
	if err != nil {
		return Null, err
	}
	code := raw.Edges.AddRow(float64(left), float64(right), int32(parent), int32(child), md)
	return rowID[EdgeID]("add edge", code)
}

// AddSite appends a site row. ancestralState may be nil.
func (tc *TableCollection) AddSite(position Position, ancestralState []byte) (SiteID, error) {
	return tc.addSite(position, ancestralState, nil)
}

// AddSiteWithMetadata appends a site row with encoded metadata.
func (tc *TableCollection) AddSiteWithMetadata(position Position, ancestralState []byte, md metadata.SiteEncoder) (SiteID, error) {
	return tc.addSite(position, ancestralState, metadata.Encode(md))
}

func (tc *TableCollection) addSite(position Position, ancestralState, md []byte) (SiteID, error) {
	raw, err := tc.mut()
	if err != nil {
		return Null, err
	}
	return rowID[SiteID]("add site", raw.Sites.AddRow(float64(position), ancestralState, md))
}

// AddMutation appends a mutation row. Use UnknownTime when the time is not
// known.
func (tc *TableCollection) AddMutation(site SiteID, node NodeID, parent MutationID, time Time, derivedState []byte) (MutationID, error) {
	return tc.addMutation(site, node, parent, time, derivedState, nil)
}

// AddMutationWithMetadata appends a mutation row with encoded metadata.
func (tc *TableCollection) AddMutationWithMetadata(site SiteID, node NodeID, parent MutationID, time Time, derivedState []byte, md metadata.MutationEncoder) (MutationID, error) {
	return tc.addMutation(site, node, parent, time, derivedState, metadata.Encode(md))
}

func (tc *TableCollection) addMutation(site SiteID, node NodeID, parent MutationID, time Time, derivedState, md []byte) (MutationID, error) {
	raw, err := tc.mut()
	if err != nil {
		return Null, err
	}
	code := raw.Mutations.AddRow(int32(site), int32(node), int32(parent), float64(time), derivedState, md)
	return rowID[MutationID]("add mutation", code)
}

// AddPopulation appends a population row.
func (tc *TableCollection) AddPopulation() (PopulationID, error) {
	return tc.addPopulation(nil)
}

// AddPopulationWithMetadata appends a population row with encoded metadata.
func (tc *TableCollection) AddPopulationWithMetadata(md metadata.PopulationEncoder) (PopulationID, error) {
	return tc.addPopulation(metadata.Encode(md))
}

func (tc *TableCollection) addPopulation(md []byte) (PopulationID, error) {
	raw, err := tc.mut()
	if err != nil {
		return Null, err
	}
	return rowID[PopulationID]("add population", raw.Populations.AddRow(md))
}

// AddIndividual appends an individual row.
func (tc *TableCollection) AddIndividual(flags IndividualFlags, location []Location, parents []IndividualID) (IndividualID, error) {
	return tc.addIndividual(flags, location, parents, nil)
}

// AddIndividualWithMetadata appends an individual row with encoded metadata.
func (tc *TableCollection) AddIndividualWithMetadata(flags IndividualFlags, location []Location, parents []IndividualID, md metadata.IndividualEncoder) (IndividualID, error) {
	return tc.addIndividual(flags, location, parents, metadata.Encode(md))
}

func (tc *TableCollection) addIndividual(flags IndividualFlags, location []Location, parents []IndividualID, md []byte) (IndividualID, error) {
	raw, err := tc.mut()
	if err != nil {
		return Null, err
	}
	code := raw.Individuals.AddRow(uint32(flags), rawFloats(location), RawIDs(parents), md)
	return rowID[IndividualID]("add individual", code)
}

// AddMigration appends a migration row.
func (tc *TableCollection) AddMigration(span Interval, node NodeID, source, dest PopulationID, time Time) (MigrationID, error) {
	return tc.addMigration(span, node, source, dest, time, nil)
}

// AddMigrationWithMetadata appends a migration row with encoded metadata.
func (tc *TableCollection) AddMigrationWithMetadata(span Interval, node NodeID, source, dest PopulationID, time Time, md metadata.MigrationEncoder) (MigrationID, error) {
	return tc.addMigration(span, node, source, dest, time, metadata.Encode(md))
}

func (tc *TableCollection) addMigration(span Interval, node NodeID, source, dest PopulationID, time Time, md []byte) (MigrationID, error) {
	raw, err := tc.mut()
	if err != nil {
		return Null, err
	}
	code := raw.Migrations.AddRow(float64(span.Left), float64(span.Right), int32(node), int32(source), int32(dest), float64(time), md)
	return rowID[MigrationID]("add migration", code)
}

// AddProvenanceRow appends a provenance row verbatim. AddProvenance stamps
// the current time instead.
func (tc *TableCollection) AddProvenanceRow(timestamp, record string) (ProvenanceID, error) {
	raw, err := tc.mut()
	if err != nil {
		return Null, err
	}
	return rowID[ProvenanceID]("add provenance", raw.Provenances.AddRow([]byte(timestamp), []byte(record)))
}

// AddProvenance appends a provenance row stamped with the current time.
func (tc *TableCollection) AddProvenance(record string) (ProvenanceID, error) {
	return tc.AddProvenanceRow(provenanceTimestamp(), record)
}

// Sort sorts the tables into the order required for a tree sequence,
// leaving rows before the bookmark in place. A nil bookmark sorts
// everything. The edge indexes are dropped.
func (tc *TableCollection) Sort(start *Bookmark, opts SortOptions) error {
	raw, err := tc.mut()
	if err != nil {
		return err
	}
	var bm *tsk.Bookmark
	if start != nil {
		b := tsk.Bookmark(*start)
		bm = &b
	}
	err = checkCode("sort", tsk.TableCollectionSort(raw, bm, uint32(opts)))
	tc.opts.logger.LogSort(context.Background(), raw.Edges.NumRows(), err)
	return err
}

// FullSort sorts every row.
func (tc *TableCollection) FullSort(opts SortOptions) error {
	return tc.Sort(nil, opts)
}

// TopologicalSortIndividuals reorders individuals so parents precede their
// children, remapping every reference.
func (tc *TableCollection) TopologicalSortIndividuals() error {
	raw, err := tc.mut()
	if err != nil {
		return err
	}
	return checkCode("sort individuals", tsk.TableCollectionIndividualTopologicalSort(raw, 0))
}

// BuildIndex builds the edge insertion and removal indexes.
func (tc *TableCollection) BuildIndex() error {
	raw, err := tc.mut()
	if err != nil {
		return err
	}
	return checkCode("build index", tsk.TableCollectionBuildIndex(raw, 0))
}

// IsIndexed reports whether the edge indexes are present.
func (tc *TableCollection) IsIndexed() bool {
	return tsk.TableCollectionHasIndex(tc.tables())
}

// EdgeInsertionOrder returns the edge insertion index, or nil when the
// tables are not indexed.
func (tc *TableCollection) EdgeInsertionOrder() []EdgeID {
	return IDsFromRaw[EdgeID](tc.tables().Indexes.EdgeInsertionOrder)
}

// EdgeRemovalOrder returns the edge removal index, or nil when the tables
// are not indexed.
func (tc *TableCollection) EdgeRemovalOrder() []EdgeID {
	return IDsFromRaw[EdgeID](tc.tables().Indexes.EdgeRemovalOrder)
}

// CheckIntegrity validates the tables. With CheckTrees the result is the
// number of trees; otherwise it is zero.
func (tc *TableCollection) CheckIntegrity(flags IntegrityFlags) (int, error) {
	raw, err := tc.ref()
	if err != nil {
		return 0, err
	}
	code := tsk.TableCollectionCheckIntegrity(raw, uint32(flags))
	if err := checkCode("check integrity", code); err != nil {
		return 0, err
	}
	return int(code), nil
}

// Clear removes every row. Options choose whether provenance, metadata
// schemas and top-level metadata go too.
func (tc *TableCollection) Clear(opts ClearOptions) error {
	raw, err := tc.mut()
	if err != nil {
		return err
	}
	return checkCode("clear", tsk.TableCollectionClear(raw, uint32(opts)))
}

// Equals compares two collections. A nil or released collection is equal
// to nothing.
func (tc *TableCollection) Equals(other *TableCollection, opts EqualsOptions) bool {
	a, err := tc.ref()
	if err != nil || other == nil {
		return false
	}
	b, err := other.ref()
	if err != nil {
		return false
	}
	return tsk.TableCollectionEquals(a, b, uint32(opts))
}

// DeepCopy returns an independent copy carrying the same options.
func (tc *TableCollection) DeepCopy() (*TableCollection, error) {
	raw, err := tc.ref()
	if err != nil {
		return nil, err
	}
	return newTableCollection(tc.opts, func(dst *tsk.TableCollection) int32 {
		return tsk.TableCollectionCopy(raw, dst, 0)
	})
}

// Simplify reduces the tables to the history of samples. A nil samples
// slice keeps every sample node. With idmap the returned slice maps each
// input node to its output node, or Null.
func (tc *TableCollection) Simplify(samples []NodeID, opts SimplifyOptions, idmap bool) ([]NodeID, error) {
	raw, err := tc.mut()
	if err != nil {
		return nil, err
	}
	before := raw.Nodes.NumRows()
	var nodeMap []int32
	if idmap {
		nodeMap = make([]int32, before)
	}
	start := time.Now()
	err = checkCode("simplify", tsk.TableCollectionSimplify(raw, RawIDs(samples), uint32(opts), nodeMap))
	after := raw.Nodes.NumRows()
	tc.opts.metricsCollector.RecordSimplify(before, after, time.Since(start), err)
	tc.opts.logger.LogSimplify(context.Background(), len(samples), before, after, err)
	if err != nil {
		return nil, err
	}
	return IDsFromRaw[NodeID](nodeMap), nil
}

// KeepIntervals removes everything outside intervals, which must be sorted
// and disjoint. It reports false and leaves the tables unchanged when
// intervals is empty.
func (tc *TableCollection) KeepIntervals(intervals []Interval, simplify bool) (bool, error) {
	raw, err := tc.mut()
	if err != nil {
		return false, err
	}
	if len(intervals) == 0 {
		return false, nil
	}
	var opts uint32
	if simplify {
		opts = tsk.KeepIntervalsSimplify
	}
	if err := checkCode("keep intervals", tsk.TableCollectionKeepIntervals(raw, rawIntervals(intervals), opts)); err != nil {
		return false, err
	}
	return true, nil
}

func rawIntervals(intervals []Interval) [][2]float64 {
	out := make([][2]float64, len(intervals))
	for i, iv := range intervals {
		out[i] = [2]float64{float64(iv.Left), float64(iv.Right)}
	}
	return out
}

// SamplesAsVector returns the ids of the sample nodes.
func (tc *TableCollection) SamplesAsVector() []NodeID {
	return IDsFromRaw[NodeID](tc.tables().Samples())
}

// CreateNodeIDVector returns the ids of the nodes for which keep is true.
func (tc *TableCollection) CreateNodeIDVector(keep func(*NodeRowView) bool) []NodeID {
	var out []NodeID
	it := tc.Nodes().Lending()
	for it.Advance() {
		if v := it.Get(); keep(v) {
			out = append(out, v.ID)
		}
	}
	return out
}

// TreeSequence consumes the tables and builds a tree sequence from them.
// The collection is unusable afterwards, whether or not this succeeds:
// fallible methods return ErrHandleReleased and accessors panic.
func (tc *TableCollection) TreeSequence(flags TreeSequenceFlags) (*TreeSequence, error) {
	if !tc.h.Valid() {
		return nil, ErrHandleReleased
	}
	raw := tc.h.IntoRaw()
	tc.opts.metricsCollector.RecordHandleClose(kindTableCollection)
	return newTreeSequence(tc.opts, raw, uint32(flags)|tsk.TSTakeOwnership)
}
