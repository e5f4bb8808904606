// Package arrowexport converts tables to Arrow records and writes them as
// Parquet.
//
// Identifier columns are nullable: a Null id becomes an Arrow null, as does
// an unknown mutation time. Metadata columns carry the raw bytes.
package arrowexport

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/hupe1980/tskit"
)

// Table names a table that can be exported.
type Table string

const (
	Nodes       Table = "nodes"
	Edges       Table = "edges"
	Sites       Table = "sites"
	Mutations   Table = "mutations"
	Populations Table = "populations"
	Individuals Table = "individuals"
	Migrations  Table = "migrations"
	Provenances Table = "provenances"
)

// AllTables lists every exportable table in dump order.
var AllTables = []Table{Nodes, Edges, Sites, Mutations, Populations, Individuals, Migrations, Provenances}

func id(name string) arrow.Field {
	return arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Int32, Nullable: true}
}

func float(name string) arrow.Field {
	return arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Float64}
}

func binary(name string) arrow.Field {
	return arrow.Field{Name: name, Type: arrow.BinaryTypes.Binary}
}

var schemas = map[Table]*arrow.Schema{
	Nodes: arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int32},
		{Name: "flags", Type: arrow.PrimitiveTypes.Uint32},
		float("time"), id("population"), id("individual"), binary("metadata"),
	}, nil),
	Edges: arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int32},
		float("left"), float("right"), id("parent"), id("child"), binary("metadata"),
	}, nil),
	Sites: arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int32},
		float("position"), binary("ancestral_state"), binary("metadata"),
	}, nil),
	Mutations: arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int32},
		id("site"), id("node"), id("parent"),
		{Name: "time", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
		binary("derived_state"), binary("metadata"),
	}, nil),
	Populations: arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int32},
		binary("metadata"),
	}, nil),
	Individuals: arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int32},
		{Name: "flags", Type: arrow.PrimitiveTypes.Uint32},
		{Name: "location", Type: arrow.ListOf(arrow.PrimitiveTypes.Float64)},
		{Name: "parents", Type: arrow.ListOf(arrow.PrimitiveTypes.Int32)},
		binary("metadata"),
	}, nil),
	Migrations: arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int32},
		float("left"), float("right"), id("node"), id("source"), id("dest"), float("time"),
		binary("metadata"),
	}, nil),
	Provenances: arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int32},
		{Name: "timestamp", Type: arrow.BinaryTypes.String},
		{Name: "record", Type: arrow.BinaryTypes.String},
	}, nil),
}

// Schema returns the Arrow schema of table, or nil for an unknown name.
func Schema(table Table) *arrow.Schema { return schemas[table] }

// ParseTable resolves a table name.
func ParseTable(name string) (Table, error) {
	t := Table(name)
	if _, ok := schemas[t]; !ok {
		return "", &UnknownTableError{Name: name}
	}
	return t, nil
}

// UnknownTableError is a table name with no schema.
type UnknownTableError struct {
	Name string
}

func (e *UnknownTableError) Error() string { return "arrowexport: unknown table " + e.Name }

func appendID[T tskit.RowID](b *array.Int32Builder, v T) {
	if v == tskit.Null {
		b.AppendNull()
		return
	}
	b.Append(int32(v))
}

// Record builds an Arrow record holding every row of table. The caller
// releases it. A nil mem uses the Go allocator.
func Record(tables tskit.TableReader, table Table, mem memory.Allocator) (arrow.Record, error) {
	schema, ok := schemas[table]
	if !ok {
		return nil, &UnknownTableError{Name: string(table)}
	}
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()

	switch table {
	case Nodes:
		buildNodes(b, tables.Nodes())
	case Edges:
		buildEdges(b, tables.Edges())
	case Sites:
		buildSites(b, tables.Sites())
	case Mutations:
		buildMutations(b, tables.Mutations())
	case Populations:
		buildPopulations(b, tables.Populations())
	case Individuals:
		buildIndividuals(b, tables.Individuals())
	case Migrations:
		buildMigrations(b, tables.Migrations())
	case Provenances:
		buildProvenances(b, tables.Provenances())
	}
	return b.NewRecord(), nil
}

func buildNodes(b *array.RecordBuilder, t tskit.NodeTable) {
	ids := b.Field(0).(*array.Int32Builder)
	flags := b.Field(1).(*array.Uint32Builder)
	times := b.Field(2).(*array.Float64Builder)
	pops := b.Field(3).(*array.Int32Builder)
	inds := b.Field(4).(*array.Int32Builder)
	md := b.Field(5).(*array.BinaryBuilder)

	b.Reserve(t.NumRows())
	it := t.Lending()
	for it.Advance() {
		v := it.Get()
		ids.Append(int32(v.ID))
		flags.Append(uint32(v.Flags))
		times.Append(float64(v.Time))
		appendID(pops, v.Population)
		appendID(inds, v.Individual)
		md.Append(v.Metadata)
	}
}

func buildEdges(b *array.RecordBuilder, t tskit.EdgeTable) {
	ids := b.Field(0).(*array.Int32Builder)
	left := b.Field(1).(*array.Float64Builder)
	right := b.Field(2).(*array.Float64Builder)
	parent := b.Field(3).(*array.Int32Builder)
	child := b.Field(4).(*array.Int32Builder)
	md := b.Field(5).(*array.BinaryBuilder)

	b.Reserve(t.NumRows())
	it := t.Lending()
	for it.Advance() {
		v := it.Get()
		ids.Append(int32(v.ID))
		left.Append(float64(v.Left))
		right.Append(float64(v.Right))
		appendID(parent, v.Parent)
		appendID(child, v.Child)
		md.Append(v.Metadata)
	}
}

func buildSites(b *array.RecordBuilder, t tskit.SiteTable) {
	ids := b.Field(0).(*array.Int32Builder)
	pos := b.Field(1).(*array.Float64Builder)
	state := b.Field(2).(*array.BinaryBuilder)
	md := b.Field(3).(*array.BinaryBuilder)

	b.Reserve(t.NumRows())
	it := t.Lending()
	for it.Advance() {
		v := it.Get()
		ids.Append(int32(v.ID))
		pos.Append(float64(v.Position))
		state.Append(v.AncestralState)
		md.Append(v.Metadata)
	}
}

func buildMutations(b *array.RecordBuilder, t tskit.MutationTable) {
	ids := b.Field(0).(*array.Int32Builder)
	site := b.Field(1).(*array.Int32Builder)
	node := b.Field(2).(*array.Int32Builder)
	parent := b.Field(3).(*array.Int32Builder)
	times := b.Field(4).(*array.Float64Builder)
	state := b.Field(5).(*array.BinaryBuilder)
	md := b.Field(6).(*array.BinaryBuilder)

	b.Reserve(t.NumRows())
	it := t.Lending()
	for it.Advance() {
		v := it.Get()
		ids.Append(int32(v.ID))
		appendID(site, v.Site)
		appendID(node, v.Node)
		appendID(parent, v.Parent)
		if v.Time.IsUnknown() {
			times.AppendNull()
		} else {
			times.Append(float64(v.Time))
		}
		state.Append(v.DerivedState)
		md.Append(v.Metadata)
	}
}

func buildPopulations(b *array.RecordBuilder, t tskit.PopulationTable) {
	ids := b.Field(0).(*array.Int32Builder)
	md := b.Field(1).(*array.BinaryBuilder)

	it := t.Lending()
	for it.Advance() {
		v := it.Get()
		ids.Append(int32(v.ID))
		md.Append(v.Metadata)
	}
}

func buildIndividuals(b *array.RecordBuilder, t tskit.IndividualTable) {
	ids := b.Field(0).(*array.Int32Builder)
	flags := b.Field(1).(*array.Uint32Builder)
	loc := b.Field(2).(*array.ListBuilder)
	locValues := loc.ValueBuilder().(*array.Float64Builder)
	parents := b.Field(3).(*array.ListBuilder)
	parentValues := parents.ValueBuilder().(*array.Int32Builder)
	md := b.Field(4).(*array.BinaryBuilder)

	it := t.Lending()
	for it.Advance() {
		v := it.Get()
		ids.Append(int32(v.ID))
		flags.Append(uint32(v.Flags))
		loc.Append(true)
		for _, x := range v.Location {
			locValues.Append(float64(x))
		}
		parents.Append(true)
		for _, p := range v.Parents {
			appendID(parentValues, p)
		}
		md.Append(v.Metadata)
	}
}

func buildMigrations(b *array.RecordBuilder, t tskit.MigrationTable) {
	ids := b.Field(0).(*array.Int32Builder)
	left := b.Field(1).(*array.Float64Builder)
	right := b.Field(2).(*array.Float64Builder)
	node := b.Field(3).(*array.Int32Builder)
	source := b.Field(4).(*array.Int32Builder)
	dest := b.Field(5).(*array.Int32Builder)
	times := b.Field(6).(*array.Float64Builder)
	md := b.Field(7).(*array.BinaryBuilder)

	it := t.Lending()
	for it.Advance() {
		v := it.Get()
		ids.Append(int32(v.ID))
		left.Append(float64(v.Left))
		right.Append(float64(v.Right))
		appendID(node, v.Node)
		appendID(source, v.Source)
		appendID(dest, v.Dest)
		times.Append(float64(v.Time))
		md.Append(v.Metadata)
	}
}

func buildProvenances(b *array.RecordBuilder, t tskit.ProvenanceTable) {
	ids := b.Field(0).(*array.Int32Builder)
	stamps := b.Field(1).(*array.StringBuilder)
	records := b.Field(2).(*array.StringBuilder)

	it := t.Lending()
	for it.Advance() {
		v := it.Get()
		ids.Append(int32(v.ID))
		stamps.Append(string(v.Timestamp))
		records.Append(string(v.Record))
	}
}
