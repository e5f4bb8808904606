// Package tskit stores and analyzes tree sequences: the genealogies of a set
// of sampled genomes, encoded as tables of nodes, edges, sites, mutations,
// populations, individuals, migrations and provenance records.
//
// # Quick Start
//
// Build tables, then turn them into a tree sequence:
//
//	tables, _ := tskit.New(10)
//	defer tables.Close()
//	a, _ := tables.AddNode(tskit.NodeIsSample, 0, tskit.Null, tskit.Null)
//	b, _ := tables.AddNode(tskit.NodeIsSample, 0, tskit.Null, tskit.Null)
//	p, _ := tables.AddNode(0, 1, tskit.Null, tskit.Null)
//	tables.AddEdge(0, 10, p, a)
//	tables.AddEdge(0, 10, p, b)
//	tables.Sort(nil, 0)
//	tables.BuildIndex()
//
//	ts, _ := tables.TreeSequence(0) // consumes tables
//	defer ts.Close()
//
// # Ownership
//
// TableCollection, TreeSequence and Tree own their storage and must be
// closed. TreeSequence consumes the collection it is built from: every later
// fallible call on the collection returns ErrHandleReleased. Closing twice
// is a no-op.
//
// # Row Identifiers
//
// Every table has its own id type (NodeID, EdgeID, SiteID, ...). The
// untyped constant Null converts to all of them. Ids never convert between
// kinds; Index and IDFromIndex convert to and from slice indexes.
//
// # Iterating Trees
//
// A Tree is a lending iterator. It is repositioned in place:
//
//	tree, _ := ts.TreeIterator(0)
//	defer tree.Close()
//	for tree.Advance() {
//	    for root := range tree.Roots() {
//	        n, _ := tree.NumSamples(root)
//	        fmt.Println(tree.Interval(), root, n)
//	    }
//	}
//
// Table rows are read with Row (an owned copy), RowView (borrowing table
// storage) or Lending, which reuses one view and panics if the tables were
// mutated since it was created.
//
// # Metadata
//
// Metadata types embed exactly one tag from package metadata, which binds
// them to a table kind:
//
//	type PopulationInfo struct {
//	    metadata.PopulationTag
//	    Name string `json:"name"`
//	}
//
//	id, _ := tables.AddPopulationWithMetadata(PopulationInfo{Name: "YRI"})
//	info, ok, err := tskit.PopulationMetadata[PopulationInfo](tables.Populations(), id)
//
// # Persistence
//
// Dump writes a checksummed .trees file, optionally compressed with zstd or
// lz4. DumpTo and LoadTableCollectionFrom use a blobstore.BlobStore (local
// disk, S3, MinIO).
//
// # Errors
//
// Engine failures are *Error values classified by Kind and matched with
// errors.Is against ErrOutOfMemory, ErrOutOfBounds, ErrBadArgument,
// ErrIntegrity, ErrIO, ErrFileFormat, ErrLibrary and ErrUnknown. Absence
// (an out of range row, a null parent) is reported with ok=false, never as
// an error.
package tskit
