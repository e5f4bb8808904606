package tskit

import "github.com/hupe1980/tskit/internal/tsk"

// NodeFlags are the bit flags of a node row.
type NodeFlags uint32

// NodeIsSample marks a node as a sample.
const NodeIsSample NodeFlags = NodeFlags(tsk.NodeIsSample)

// IsSample reports whether the sample bit is set.
func (f NodeFlags) IsSample() bool { return f&NodeIsSample != 0 }

// IndividualFlags are the bit flags of an individual row. The engine assigns
// them no meaning.
type IndividualFlags uint32

// SimplifyOptions select simplification behavior.
type SimplifyOptions uint32

const (
	SimplifyFilterSites       SimplifyOptions = SimplifyOptions(tsk.FilterSites)
	SimplifyFilterPopulations SimplifyOptions = SimplifyOptions(tsk.FilterPopulations)
	SimplifyFilterIndividuals SimplifyOptions = SimplifyOptions(tsk.FilterIndividuals)
	SimplifyKeepUnary         SimplifyOptions = SimplifyOptions(tsk.KeepUnary)
	SimplifyKeepInputRoots    SimplifyOptions = SimplifyOptions(tsk.KeepInputRoots)

	// SimplifyReduceToSiteTopology and SimplifyKeepUnaryInIndividuals are
	// rejected with KindBadArgument.
	SimplifyReduceToSiteTopology   SimplifyOptions = SimplifyOptions(tsk.ReduceToSiteTopology)
	SimplifyKeepUnaryInIndividuals SimplifyOptions = SimplifyOptions(tsk.KeepUnaryInIndividuals)
)

// IntegrityFlags select the checks run by CheckIntegrity.
type IntegrityFlags uint32

const (
	CheckEdgeOrdering       IntegrityFlags = IntegrityFlags(tsk.CheckEdgeOrdering)
	CheckSiteOrdering       IntegrityFlags = IntegrityFlags(tsk.CheckSiteOrdering)
	CheckSiteDuplicates     IntegrityFlags = IntegrityFlags(tsk.CheckSiteDuplicates)
	CheckMutationOrdering   IntegrityFlags = IntegrityFlags(tsk.CheckMutationOrdering)
	CheckIndividualOrdering IntegrityFlags = IntegrityFlags(tsk.CheckIndividualOrdering)
	CheckMigrationOrdering  IntegrityFlags = IntegrityFlags(tsk.CheckMigrationOrdering)
	CheckIndexes            IntegrityFlags = IntegrityFlags(tsk.CheckIndexes)

	// CheckTrees implies every other check and makes CheckIntegrity return
	// the number of trees.
	CheckTrees IntegrityFlags = IntegrityFlags(tsk.CheckTrees)
)

// SortOptions modify Sort.
type SortOptions uint32

// SortNoCheckIntegrity skips the integrity check run before sorting.
const SortNoCheckIntegrity SortOptions = SortOptions(tsk.NoCheckIntegrity)

// ClearOptions select what Clear removes besides rows.
type ClearOptions uint32

const (
	ClearMetadataSchemas     ClearOptions = ClearOptions(tsk.ClearMetadataSchemas)
	ClearTSMetadataAndSchema ClearOptions = ClearOptions(tsk.ClearTSMetadataAndSchema)
	ClearProvenance          ClearOptions = ClearOptions(tsk.ClearProvenance)
)

// EqualsOptions relax Equals.
type EqualsOptions uint32

const (
	CmpIgnoreMetadata   EqualsOptions = EqualsOptions(tsk.CmpIgnoreMetadata)
	CmpIgnoreTSMetadata EqualsOptions = EqualsOptions(tsk.CmpIgnoreTSMetadata)
	CmpIgnoreProvenance EqualsOptions = EqualsOptions(tsk.CmpIgnoreProvenance)
	CmpIgnoreTimestamps EqualsOptions = EqualsOptions(tsk.CmpIgnoreTimestamps)
)

// TreeSequenceFlags modify tree sequence construction.
type TreeSequenceFlags uint32

// TreeSequenceBuildIndexes builds the edge indexes if they are missing.
const TreeSequenceBuildIndexes TreeSequenceFlags = TreeSequenceFlags(tsk.TSBuildIndexes)

// TreeFlags modify tree iterators.
type TreeFlags uint32

const (
	// TreeSampleLists maintains per-node sample lists, needed by Samples
	// and KCDistance.
	TreeSampleLists TreeFlags = TreeFlags(tsk.TreeSampleLists)

	// TreeNoSampleCounts disables per-node sample counting.
	TreeNoSampleCounts TreeFlags = TreeFlags(tsk.TreeNoSampleCounts)
)

// Table names one of the metadata-bearing tables.
type Table uint8

const (
	NodeTableKind Table = iota
	EdgeTableKind
	SiteTableKind
	MutationTableKind
	PopulationTableKind
	IndividualTableKind
	MigrationTableKind
)

var tableNames = [...]string{
	NodeTableKind:       "node",
	EdgeTableKind:       "edge",
	SiteTableKind:       "site",
	MutationTableKind:   "mutation",
	PopulationTableKind: "population",
	IndividualTableKind: "individual",
	MigrationTableKind:  "migration",
}

func (t Table) String() string {
	if int(t) < len(tableNames) {
		return tableNames[t]
	}
	return "table?"
}

// TraversalOrder selects how TraverseNodes walks a tree.
type TraversalOrder uint8

const (
	Preorder TraversalOrder = iota
	Postorder
)
