package tskit

import "github.com/hupe1980/tskit/metadata"

type rawMetadataReader[I RowID] interface {
	RawMetadata(row I) ([]byte, bool)
}

// decodeMetadata decodes row into a fresh T. Empty metadata is absent.
func decodeMetadata[T any, PT interface {
	*T
	metadata.Decoder
}, I RowID](t rawMetadataReader[I], table Table, row I) (T, bool, error) {
	var v T
	raw, ok := t.RawMetadata(row)
	if !ok || len(raw) == 0 {
		return v, false, nil
	}
	if err := PT(&v).UnmarshalMetadata(raw); err != nil {
		return v, false, &MetadataError{Table: table.String(), Row: int32(row), cause: err}
	}
	return v, true, nil
}

// NodeMetadata decodes the metadata of a node row. Absent metadata, and rows
// out of range, give ok == false with no error.
//
//	md, ok, err := tskit.NodeMetadata[MyNodeMetadata](tables.Nodes(), 0)
func NodeMetadata[T any, PT interface {
	*T
	metadata.NodeDecoder
}](t NodeTable, row NodeID) (T, bool, error) {
	return decodeMetadata[T, PT, NodeID](t, NodeTableKind, row)
}

// EdgeMetadata decodes the metadata of an edge row.
func EdgeMetadata[T any, PT interface {
	*T
	metadata.EdgeDecoder
}](t EdgeTable, row EdgeID) (T, bool, error) {
	return decodeMetadata[T, PT, EdgeID](t, EdgeTableKind, row)
}

// SiteMetadata decodes the metadata of a site row.
func SiteMetadata[T any, PT interface {
	*T
	metadata.SiteDecoder
}](t SiteTable, row SiteID) (T, bool, error) {
	return decodeMetadata[T, PT, SiteID](t, SiteTableKind, row)
}

// MutationMetadata decodes the metadata of a mutation row.
func MutationMetadata[T any, PT interface {
	*T
	metadata.MutationDecoder
}](t MutationTable, row MutationID) (T, bool, error) {
	return decodeMetadata[T, PT, MutationID](t, MutationTableKind, row)
}

// PopulationMetadata decodes the metadata of a population row.
func PopulationMetadata[T any, PT interface {
	*T
	metadata.PopulationDecoder
}](t PopulationTable, row PopulationID) (T, bool, error) {
	return decodeMetadata[T, PT, PopulationID](t, PopulationTableKind, row)
}

// IndividualMetadata decodes the metadata of an individual row.
func IndividualMetadata[T any, PT interface {
	*T
	metadata.IndividualDecoder
}](t IndividualTable, row IndividualID) (T, bool, error) {
	return decodeMetadata[T, PT, IndividualID](t, IndividualTableKind, row)
}

// MigrationMetadata decodes the metadata of a migration row.
func MigrationMetadata[T any, PT interface {
	*T
	metadata.MigrationDecoder
}](t MigrationTable, row MigrationID) (T, bool, error) {
	return decodeMetadata[T, PT, MigrationID](t, MigrationTableKind, row)
}

type metadataRows[I RowID] interface {
	rawMetadataReader[I]
	NumRows() int
}

func validateRows[I RowID](t metadataRows[I], table Table, s metadata.Schema) error {
	for i := range t.NumRows() {
		raw, _ := t.RawMetadata(I(i))
		if len(raw) == 0 {
			continue
		}
		if err := s.Validate(raw); err != nil {
			return &MetadataError{Table: table.String(), Row: int32(i), cause: err}
		}
	}
	return nil
}

// ValidateMetadata checks every row of table against the metadata schema set
// for it. Tables without a schema, and rows without metadata, always pass.
// The first offending row is reported as a *MetadataError.
func ValidateMetadata(r TableReader, table Table) error {
	if table > MigrationTableKind {
		return &ValueError{Field: "table", Reason: table.String()}
	}
	raw := r.TableMetadataSchema(table)
	if raw == "" {
		return nil
	}
	s, err := metadata.ParseSchema(raw)
	if err != nil {
		return &ValueError{Field: table.String() + " metadata schema", Reason: err.Error()}
	}
	switch table {
	case NodeTableKind:
		return validateRows[NodeID](r.Nodes(), table, s)
	case EdgeTableKind:
		return validateRows[EdgeID](r.Edges(), table, s)
	case SiteTableKind:
		return validateRows[SiteID](r.Sites(), table, s)
	case MutationTableKind:
		return validateRows[MutationID](r.Mutations(), table, s)
	case PopulationTableKind:
		return validateRows[PopulationID](r.Populations(), table, s)
	case IndividualTableKind:
		return validateRows[IndividualID](r.Individuals(), table, s)
	default:
		return validateRows[MigrationID](r.Migrations(), table, s)
	}
}
