package tsk

// Status codes. Functions in this package return zero (or a non-negative
// value such as a new row id) on success and one of these on failure.
const (
	ErrGeneric              int32 = -1
	ErrNoMemory             int32 = -2
	ErrIO                   int32 = -3
	ErrBadParamValue        int32 = -4
	ErrBufferOverflow       int32 = -5
	ErrUnsupportedOperation int32 = -6
	ErrGenerateUUID         int32 = -7
	ErrEOF                  int32 = -8

	ErrFileFormat          int32 = -100
	ErrFileVersionTooOld   int32 = -101
	ErrFileVersionTooNew   int32 = -102
	ErrRequiredColNotFound int32 = -103
	ErrBothColumnsRequired int32 = -104
	ErrBadColumnType       int32 = -105
	ErrChecksumMismatch    int32 = -106

	ErrBadOffset             int32 = -200
	ErrOutOfBounds           int32 = -201
	ErrNodeOutOfBounds       int32 = -202
	ErrEdgeOutOfBounds       int32 = -203
	ErrPopulationOutOfBounds int32 = -204
	ErrSiteOutOfBounds       int32 = -205
	ErrMutationOutOfBounds   int32 = -206
	ErrIndividualOutOfBounds int32 = -207
	ErrMigrationOutOfBounds  int32 = -208
	ErrProvenanceOutOfBounds int32 = -209
	ErrTimeNonfinite         int32 = -210
	ErrGenomeCoordsNonfinite int32 = -211
	ErrSeekOutOfBounds       int32 = -212
	ErrKeepRowsMapToDeleted  int32 = -213
	ErrPositionOutOfBounds   int32 = -214
	ErrIndividualSelfParent  int32 = -215
	ErrIndividualParentCycle int32 = -216
	ErrTreeIndexOutOfBounds  int32 = -217

	ErrNullParent                 int32 = -300
	ErrNullChild                  int32 = -301
	ErrEdgesNotSortedParentTime   int32 = -302
	ErrEdgesNoncontiguousParents  int32 = -303
	ErrEdgesNotSortedChild        int32 = -304
	ErrEdgesNotSortedLeft         int32 = -305
	ErrBadNodeTimeOrdering        int32 = -306
	ErrBadEdgeInterval            int32 = -307
	ErrDuplicateEdges             int32 = -308
	ErrRightGreaterSeqLength      int32 = -309
	ErrLeftLessZero               int32 = -310
	ErrBadEdgesContradictoryChild int32 = -311

	ErrUnsortedSites         int32 = -500
	ErrDuplicateSitePosition int32 = -501
	ErrBadSitePosition       int32 = -502

	ErrMutationParentDifferentSite int32 = -600
	ErrMutationParentEqual         int32 = -601
	ErrMutationParentAfterChild    int32 = -602
	ErrUnsortedMutations           int32 = -604
	ErrMutationTimeYoungerThanNode int32 = -606
	ErrMutationTimeOlderThanParent int32 = -607
	ErrMutationTimeKnownAndUnknown int32 = -609

	ErrDuplicateSample int32 = -700
	ErrBadSamples      int32 = -701

	ErrBadTablePosition    int32 = -800
	ErrBadSequenceLength   int32 = -801
	ErrTablesNotIndexed    int32 = -802
	ErrTablesBadIndexes    int32 = -803
	ErrTableOverflow       int32 = -804
	ErrColumnOverflow      int32 = -805
	ErrTreeOverflow        int32 = -806
	ErrUnsortedIndividuals int32 = -807
	ErrUnsortedMigrations  int32 = -808

	ErrSimplifyMigrationsNotSupported int32 = -901
	ErrSortOffsetNotSupported         int32 = -903
	ErrMigrationsNotSupported         int32 = -905

	ErrSampleSizeMismatch     int32 = -1200
	ErrSamplesNotEqual        int32 = -1201
	ErrMultipleRoots          int32 = -1202
	ErrUnaryNodes             int32 = -1203
	ErrSequenceLengthMismatch int32 = -1204
	ErrNoSampleLists          int32 = -1205

	ErrNoSampleCounts  int32 = -1500
	ErrNotTracking     int32 = -1501
	ErrNullTree        int32 = -1502
	ErrBadTreeSequence int32 = -1503
)

var messages = map[int32]string{
	ErrGeneric:              "Generic error; please file a bug report. (TSK_ERR_GENERIC)",
	ErrNoMemory:             "Out of memory. (TSK_ERR_NO_MEMORY)",
	ErrIO:                   "I/O error. (TSK_ERR_IO)",
	ErrBadParamValue:        "Bad parameter value provided. (TSK_ERR_BAD_PARAM_VALUE)",
	ErrBufferOverflow:       "Supplied buffer is too small. (TSK_ERR_BUFFER_OVERFLOW)",
	ErrUnsupportedOperation: "Operation cannot be performed in current configuration. (TSK_ERR_UNSUPPORTED_OPERATION)",
	ErrGenerateUUID:         "Error generating UUID. (TSK_ERR_GENERATE_UUID)",
	ErrEOF:                  "End of file. (TSK_ERR_EOF)",

	ErrFileFormat:          "File format error. (TSK_ERR_FILE_FORMAT)",
	ErrFileVersionTooOld:   "File format version is too old. (TSK_ERR_FILE_VERSION_TOO_OLD)",
	ErrFileVersionTooNew:   "File format version is too new. (TSK_ERR_FILE_VERSION_TOO_NEW)",
	ErrRequiredColNotFound: "A required table column was not found in the file. (TSK_ERR_REQUIRED_COL_NOT_FOUND)",
	ErrBothColumnsRequired: "Both columns in a related pair must be provided. (TSK_ERR_BOTH_COLUMNS_REQUIRED)",
	ErrBadColumnType:       "An incompatible type for a column was found in the file. (TSK_ERR_BAD_COLUMN_TYPE)",
	ErrChecksumMismatch:    "File content does not match its stored digest. (TSK_ERR_CHECKSUM_MISMATCH)",

	ErrBadOffset:             "Bad offset provided in input array. (TSK_ERR_BAD_OFFSET)",
	ErrOutOfBounds:           "Object reference out of bounds. (TSK_ERR_OUT_OF_BOUNDS)",
	ErrNodeOutOfBounds:       "Node out of bounds. (TSK_ERR_NODE_OUT_OF_BOUNDS)",
	ErrEdgeOutOfBounds:       "Edge out of bounds. (TSK_ERR_EDGE_OUT_OF_BOUNDS)",
	ErrPopulationOutOfBounds: "Population out of bounds. (TSK_ERR_POPULATION_OUT_OF_BOUNDS)",
	ErrSiteOutOfBounds:       "Site out of bounds. (TSK_ERR_SITE_OUT_OF_BOUNDS)",
	ErrMutationOutOfBounds:   "Mutation out of bounds. (TSK_ERR_MUTATION_OUT_OF_BOUNDS)",
	ErrIndividualOutOfBounds: "Individual out of bounds. (TSK_ERR_INDIVIDUAL_OUT_OF_BOUNDS)",
	ErrMigrationOutOfBounds:  "Migration out of bounds. (TSK_ERR_MIGRATION_OUT_OF_BOUNDS)",
	ErrProvenanceOutOfBounds: "Provenance out of bounds. (TSK_ERR_PROVENANCE_OUT_OF_BOUNDS)",
	ErrTimeNonfinite:         "Times must be finite. (TSK_ERR_TIME_NONFINITE)",
	ErrGenomeCoordsNonfinite: "Genome coordinates must be finite numbers. (TSK_ERR_GENOME_COORDS_NONFINITE)",
	ErrSeekOutOfBounds:       "Tree seek position out of bounds. (TSK_ERR_SEEK_OUT_OF_BOUNDS)",
	ErrKeepRowsMapToDeleted:  "One of the kept rows refers to a deleted row. (TSK_ERR_KEEP_ROWS_MAP_TO_DELETED)",
	ErrPositionOutOfBounds:   "Position out of bounds. (TSK_ERR_POSITION_OUT_OF_BOUNDS)",
	ErrIndividualSelfParent:  "Individuals cannot be their own parents. (TSK_ERR_INDIVIDUAL_SELF_PARENT)",
	ErrIndividualParentCycle: "Individuals cannot be their own ancestor. (TSK_ERR_INDIVIDUAL_PARENT_CYCLE)",
	ErrTreeIndexOutOfBounds:  "Tree index out of bounds. (TSK_ERR_TREE_INDEX_OUT_OF_BOUNDS)",

	ErrNullParent:                 "Edge in parent is null. (TSK_ERR_NULL_PARENT)",
	ErrNullChild:                  "Edge in child is null. (TSK_ERR_NULL_CHILD)",
	ErrEdgesNotSortedParentTime:   "Edges must be listed in (time[parent], child, left) order; time[parent] order violated. (TSK_ERR_EDGES_NOT_SORTED_PARENT_TIME)",
	ErrEdgesNoncontiguousParents:  "All edges for a given parent must be contiguous. (TSK_ERR_EDGES_NONCONTIGUOUS_PARENTS)",
	ErrEdgesNotSortedChild:        "Edges must be listed in (time[parent], child, left) order; child order violated. (TSK_ERR_EDGES_NOT_SORTED_CHILD)",
	ErrEdgesNotSortedLeft:         "Edges must be listed in (time[parent], child, left) order; left order violated. (TSK_ERR_EDGES_NOT_SORTED_LEFT)",
	ErrBadNodeTimeOrdering:        "time[parent] must be greater than time[child]. (TSK_ERR_BAD_NODE_TIME_ORDERING)",
	ErrBadEdgeInterval:            "Bad edge interval where right <= left. (TSK_ERR_BAD_EDGE_INTERVAL)",
	ErrDuplicateEdges:             "Duplicate edges provided. (TSK_ERR_DUPLICATE_EDGES)",
	ErrRightGreaterSeqLength:      "Right coordinate > sequence length. (TSK_ERR_RIGHT_GREATER_SEQ_LENGTH)",
	ErrLeftLessZero:               "Left coordinate must be >= 0. (TSK_ERR_LEFT_LESS_ZERO)",
	ErrBadEdgesContradictoryChild: "Bad edges: contradictory children for a given parent over an interval. (TSK_ERR_BAD_EDGES_CONTRADICTORY_CHILDREN)",

	ErrUnsortedSites:         "Sites must be provided in strictly increasing position order. (TSK_ERR_UNSORTED_SITES)",
	ErrDuplicateSitePosition: "Duplicate site positions. (TSK_ERR_DUPLICATE_SITE_POSITION)",
	ErrBadSitePosition:       "Site positions must be between 0 and sequence_length. (TSK_ERR_BAD_SITE_POSITION)",

	ErrMutationParentDifferentSite: "Specified parent mutation is at a different site. (TSK_ERR_MUTATION_PARENT_DIFFERENT_SITE)",
	ErrMutationParentEqual:         "Parent mutation refers to itself. (TSK_ERR_MUTATION_PARENT_EQUAL)",
	ErrMutationParentAfterChild:    "Parent mutation ID must be < current ID. (TSK_ERR_MUTATION_PARENT_AFTER_CHILD)",
	ErrUnsortedMutations:           "Mutations must be provided in non-decreasing site order and non-increasing time order within each site. (TSK_ERR_UNSORTED_MUTATIONS)",
	ErrMutationTimeYoungerThanNode: "A mutation's time must be >= the node time, or be marked as 'unknown'. (TSK_ERR_MUTATION_TIME_YOUNGER_THAN_NODE)",
	ErrMutationTimeOlderThanParent: "A mutation's time must be <= the parent mutation time (if known), or be marked as 'unknown'. (TSK_ERR_MUTATION_TIME_OLDER_THAN_PARENT_MUTATION)",
	ErrMutationTimeKnownAndUnknown: "Mutation times must either be all marked 'unknown', or all be known values for any single site. (TSK_ERR_MUTATION_TIME_HAS_BOTH_KNOWN_AND_UNKNOWN)",

	ErrDuplicateSample: "Duplicate sample value. (TSK_ERR_DUPLICATE_SAMPLE)",
	ErrBadSamples:      "Bad sample configuration provided. (TSK_ERR_BAD_SAMPLES)",

	ErrBadTablePosition:    "Bad table position provided to truncate/reset. (TSK_ERR_BAD_TABLE_POSITION)",
	ErrBadSequenceLength:   "Sequence length must be > 0. (TSK_ERR_BAD_SEQUENCE_LENGTH)",
	ErrTablesNotIndexed:    "Table collection must be indexed. (TSK_ERR_TABLES_NOT_INDEXED)",
	ErrTablesBadIndexes:    "Table collection indexes inconsistent. (TSK_ERR_TABLES_BAD_INDEXES)",
	ErrTableOverflow:       "Table too large; cannot allocate more than 2**31 rows. (TSK_ERR_TABLE_OVERFLOW)",
	ErrColumnOverflow:      "Table column too large; cannot be more than 2**64 bytes. (TSK_ERR_COLUMN_OVERFLOW)",
	ErrTreeOverflow:        "Too many trees; cannot be more than 2**31. (TSK_ERR_TREE_OVERFLOW)",
	ErrUnsortedIndividuals: "Individuals must be provided in an order where children are after their parent individuals. (TSK_ERR_UNSORTED_INDIVIDUALS)",
	ErrUnsortedMigrations:  "Migrations must be sorted by time. (TSK_ERR_UNSORTED_MIGRATIONS)",

	ErrSimplifyMigrationsNotSupported: "Migrations not currently supported by simplify. (TSK_ERR_SIMPLIFY_MIGRATIONS_NOT_SUPPORTED)",
	ErrSortOffsetNotSupported:         "Sort offsets for sites and mutations must be either 0 or the length of the respective tables. (TSK_ERR_SORT_OFFSET_NOT_SUPPORTED)",
	ErrMigrationsNotSupported:         "Migrations not currently supported by this operation. (TSK_ERR_MIGRATIONS_NOT_SUPPORTED)",

	ErrSampleSizeMismatch:     "Cannot compare trees with different numbers of samples. (TSK_ERR_SAMPLE_SIZE_MISMATCH)",
	ErrSamplesNotEqual:        "Samples must be identical in trees to compare. (TSK_ERR_SAMPLES_NOT_EQUAL)",
	ErrMultipleRoots:          "Trees with multiple roots not supported. (TSK_ERR_MULTIPLE_ROOTS)",
	ErrUnaryNodes:             "Unsimplified trees with unary nodes are not supported. (TSK_ERR_UNARY_NODES)",
	ErrSequenceLengthMismatch: "Sequence lengths must be identical to compare. (TSK_ERR_SEQUENCE_LENGTH_MISMATCH)",
	ErrNoSampleLists:          "The sample_lists option must be enabled on the tree to perform this operation. (TSK_ERR_NO_SAMPLE_LISTS)",

	ErrNoSampleCounts:  "Operation not supported when sample counts are not calculated. (TSK_ERR_NO_SAMPLE_COUNTS)",
	ErrNotTracking:     "Tracked samples have not been set on this tree. (TSK_ERR_NOT_TRACKING_SAMPLES)",
	ErrNullTree:        "The tree is in the null state; advance it before use. (TSK_ERR_NULL_TREE)",
	ErrBadTreeSequence: "Tree belongs to a different tree sequence. (TSK_ERR_BAD_TREE_SEQUENCE)",
}

// Strerror returns the message for a status code. It never returns an empty
// string.
func Strerror(code int32) string {
	if code == 0 {
		return "Normal exit condition. This is not an error!"
	}
	if msg, ok := messages[code]; ok {
		return msg
	}
	return "Unknown error"
}

// Known reports whether code belongs to the catalog.
func Known(code int32) bool {
	_, ok := messages[code]
	return ok
}
