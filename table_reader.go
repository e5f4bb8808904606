package tskit

import "github.com/hupe1980/tskit/internal/tsk"

// TableReader is read access to a set of tables. TableCollection implements
// it directly; TreeSequence.Tables returns one.
type TableReader interface {
	SequenceLength() Position
	TimeUnits() string
	Metadata() []byte
	MetadataSchema() string
	TableMetadataSchema(table Table) string
	FileUUID() string

	Nodes() NodeTable
	Edges() EdgeTable
	Sites() SiteTable
	Mutations() MutationTable
	Populations() PopulationTable
	Individuals() IndividualTable
	Migrations() MigrationTable
	Provenances() ProvenanceTable
}

type tableReader struct {
	src tableSource
}

var _ TableReader = tableReader{}

func (r tableReader) SequenceLength() Position { return Position(r.src.tables().SequenceLength) }
func (r tableReader) TimeUnits() string        { return r.src.tables().TimeUnits }

// Metadata returns the top-level metadata, borrowed.
func (r tableReader) Metadata() []byte { return r.src.tables().Metadata }

func (r tableReader) MetadataSchema() string { return r.src.tables().MetadataSchema }

// FileUUID is the UUID of the file the tables were loaded from, or empty.
func (r tableReader) FileUUID() string { return r.src.tables().FileUUID }

// TableMetadataSchema returns the metadata schema of one table.
func (r tableReader) TableMetadataSchema(table Table) string {
	if s := schemaSlot(r.src.tables(), table); s != nil {
		return *s
	}
	return ""
}

func schemaSlot(tc *tsk.TableCollection, table Table) *string {
	switch table {
	case NodeTableKind:
		return &tc.Nodes.MetadataSchema
	case EdgeTableKind:
		return &tc.Edges.MetadataSchema
	case SiteTableKind:
		return &tc.Sites.MetadataSchema
	case MutationTableKind:
		return &tc.Mutations.MetadataSchema
	case PopulationTableKind:
		return &tc.Populations.MetadataSchema
	case IndividualTableKind:
		return &tc.Individuals.MetadataSchema
	case MigrationTableKind:
		return &tc.Migrations.MetadataSchema
	}
	return nil
}

func (r tableReader) Nodes() NodeTable             { return NodeTable{src: r.src} }
func (r tableReader) Edges() EdgeTable             { return EdgeTable{src: r.src} }
func (r tableReader) Sites() SiteTable             { return SiteTable{src: r.src} }
func (r tableReader) Mutations() MutationTable     { return MutationTable{src: r.src} }
func (r tableReader) Populations() PopulationTable { return PopulationTable{src: r.src} }
func (r tableReader) Individuals() IndividualTable { return IndividualTable{src: r.src} }
func (r tableReader) Migrations() MigrationTable   { return MigrationTable{src: r.src} }
func (r tableReader) Provenances() ProvenanceTable { return ProvenanceTable{src: r.src} }
