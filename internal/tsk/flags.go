package tsk

import "math"

// Null is the id used for "no row".
const Null int32 = -1

// NodeIsSample marks a node as a sample.
const NodeIsSample uint32 = 1 << 0

// Simplify options.
const (
	FilterSites            uint32 = 1 << 0
	FilterPopulations      uint32 = 1 << 1
	FilterIndividuals      uint32 = 1 << 2
	ReduceToSiteTopology   uint32 = 1 << 3
	KeepUnary              uint32 = 1 << 4
	KeepInputRoots         uint32 = 1 << 5
	KeepUnaryInIndividuals uint32 = 1 << 6

	simplifySupported = FilterSites | FilterPopulations | FilterIndividuals | KeepUnary | KeepInputRoots
)

// Integrity check options.
const (
	CheckEdgeOrdering       uint32 = 1 << 0
	CheckSiteOrdering       uint32 = 1 << 1
	CheckSiteDuplicates     uint32 = 1 << 2
	CheckMutationOrdering   uint32 = 1 << 3
	CheckIndividualOrdering uint32 = 1 << 4
	CheckMigrationOrdering  uint32 = 1 << 5
	CheckIndexes            uint32 = 1 << 6
	CheckTrees              uint32 = 1 << 7
)

// Sort options.
const NoCheckIntegrity uint32 = 1 << 0

// Clear options.
const (
	ClearMetadataSchemas     uint32 = 1 << 0
	ClearTSMetadataAndSchema uint32 = 1 << 1
	ClearProvenance          uint32 = 1 << 2
)

// Equality options.
const (
	CmpIgnoreMetadata   uint32 = 1 << 0
	CmpIgnoreTSMetadata uint32 = 1 << 1
	CmpIgnoreProvenance uint32 = 1 << 2
	CmpIgnoreTimestamps uint32 = 1 << 3
)

// KeepIntervalsSimplify simplifies the collection after trimming it.
const KeepIntervalsSimplify uint32 = 1 << 0

// Tree sequence init options.
const (
	TSBuildIndexes  uint32 = 1 << 0
	TSTakeOwnership uint32 = 1 << 1
)

// Tree init options.
const (
	TreeSampleLists    uint32 = 1 << 1
	TreeNoSampleCounts uint32 = 1 << 2
)

// Dump options. The compression codec occupies the low byte.
const (
	DumpCompressNone uint32 = 0
	DumpCompressZstd uint32 = 1
	DumpCompressLZ4  uint32 = 2

	DumpCompressionMask uint32 = 0xff
	DumpNoBuildIndexes  uint32 = 1 << 8
)

var unknownTime = math.Float64frombits(0x7FF80000000001A2)

// UnknownTime returns the sentinel used for mutations without a known time.
func UnknownTime() float64 { return unknownTime }

// IsUnknownTime reports whether t is the unknown-time sentinel.
func IsUnknownTime(t float64) bool {
	return math.Float64bits(t) == math.Float64bits(unknownTime)
}
