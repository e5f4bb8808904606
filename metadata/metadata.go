package metadata

// Encoder produces the bytes stored in a metadata column. Encoding cannot
// fail; types whose encoding can fail must be validated before they are
// added to a table.
type Encoder interface {
	MarshalMetadata() []byte
}

// Decoder restores a value from a metadata column.
type Decoder interface {
	UnmarshalMetadata(data []byte) error
}

// Every tag has a registration method with the same name and a kind-specific
// result. A type embedding tags at different depths is registered for the
// shallowest one only; tags at the same depth make the selector ambiguous
// and register nothing.
type (
	nodeKind       struct{}
	edgeKind       struct{}
	siteKind       struct{}
	mutationKind   struct{}
	populationKind struct{}
	individualKind struct{}
	migrationKind  struct{}
)

// NodeTag registers the embedding type as node metadata.
type NodeTag struct{}

// EdgeTag registers the embedding type as edge metadata.
type EdgeTag struct{}

// SiteTag registers the embedding type as site metadata.
type SiteTag struct{}

// MutationTag registers the embedding type as mutation metadata.
type MutationTag struct{}

// PopulationTag registers the embedding type as population metadata.
type PopulationTag struct{}

// IndividualTag registers the embedding type as individual metadata.
type IndividualTag struct{}

// MigrationTag registers the embedding type as migration metadata.
type MigrationTag struct{}

func (NodeTag) registration() nodeKind             { return nodeKind{} }
func (EdgeTag) registration() edgeKind             { return edgeKind{} }
func (SiteTag) registration() siteKind             { return siteKind{} }
func (MutationTag) registration() mutationKind     { return mutationKind{} }
func (PopulationTag) registration() populationKind { return populationKind{} }
func (IndividualTag) registration() individualKind { return individualKind{} }
func (MigrationTag) registration() migrationKind   { return migrationKind{} }

// NodeEncoder is an Encoder registered for the node table.
type NodeEncoder interface {
	Encoder
	registration() nodeKind
}

// NodeDecoder is a Decoder registered for the node table.
type NodeDecoder interface {
	Decoder
	registration() nodeKind
}

// EdgeEncoder is an Encoder registered for the edge table.
type EdgeEncoder interface {
	Encoder
	registration() edgeKind
}

// EdgeDecoder is a Decoder registered for the edge table.
type EdgeDecoder interface {
	Decoder
	registration() edgeKind
}

// SiteEncoder is an Encoder registered for the site table.
type SiteEncoder interface {
	Encoder
	registration() siteKind
}

// SiteDecoder is a Decoder registered for the site table.
type SiteDecoder interface {
	Decoder
	registration() siteKind
}

// MutationEncoder is an Encoder registered for the mutation table.
type MutationEncoder interface {
	Encoder
	registration() mutationKind
}

// MutationDecoder is a Decoder registered for the mutation table.
type MutationDecoder interface {
	Decoder
	registration() mutationKind
}

// PopulationEncoder is an Encoder registered for the population table.
type PopulationEncoder interface {
	Encoder
	registration() populationKind
}

// PopulationDecoder is a Decoder registered for the population table.
type PopulationDecoder interface {
	Decoder
	registration() populationKind
}

// IndividualEncoder is an Encoder registered for the individual table.
type IndividualEncoder interface {
	Encoder
	registration() individualKind
}

// IndividualDecoder is a Decoder registered for the individual table.
type IndividualDecoder interface {
	Decoder
	registration() individualKind
}

// MigrationEncoder is an Encoder registered for the migration table.
type MigrationEncoder interface {
	Encoder
	registration() migrationKind
}

// MigrationDecoder is a Decoder registered for the migration table.
type MigrationDecoder interface {
	Decoder
	registration() migrationKind
}

// Encode returns the bytes for md, or nil when md is nil.
func Encode(md Encoder) []byte {
	if md == nil {
		return nil
	}
	return md.MarshalMetadata()
}
