package tsk

import (
	"errors"
	"io"
	"slices"

	"github.com/hupe1980/tskit/persistence"
)

const (
	formatName         = "tskit.trees"
	formatVersionMajor = 12
	formatVersionMinor = 7
)

type raggedCol[T any] struct {
	data   *[]T
	offset *[]uint64
}

type tableCols struct {
	prefix  string
	bytes   map[string]raggedCol[byte]
	int32s  map[string]*[]int32
	uint32s map[string]*[]uint32
	floats  map[string]*[]float64
	floatRg map[string]raggedCol[float64]
	int32Rg map[string]raggedCol[int32]
	schema  *string
}

func collectionColumns(tc *TableCollection) []tableCols {
	n, e, s, m := &tc.Nodes, &tc.Edges, &tc.Sites, &tc.Mutations
	ind, mig, pop, prov := &tc.Individuals, &tc.Migrations, &tc.Populations, &tc.Provenances
	return []tableCols{
		{
			prefix:  "nodes/",
			uint32s: map[string]*[]uint32{"flags": &n.Flags},
			floats:  map[string]*[]float64{"time": &n.Time},
			int32s:  map[string]*[]int32{"population": &n.Population, "individual": &n.Individual},
			bytes:   map[string]raggedCol[byte]{"metadata": {&n.Metadata, &n.MetadataOffset}},
			schema:  &n.MetadataSchema,
		},
		{
			prefix: "edges/",
			floats: map[string]*[]float64{"left": &e.Left, "right": &e.Right},
			int32s: map[string]*[]int32{"parent": &e.Parent, "child": &e.Child},
			bytes:  map[string]raggedCol[byte]{"metadata": {&e.Metadata, &e.MetadataOffset}},
			schema: &e.MetadataSchema,
		},
		{
			prefix: "sites/",
			floats: map[string]*[]float64{"position": &s.Position},
			bytes: map[string]raggedCol[byte]{
				"ancestral_state": {&s.AncestralState, &s.AncestralStateOffset},
				"metadata":        {&s.Metadata, &s.MetadataOffset},
			},
			schema: &s.MetadataSchema,
		},
		{
			prefix: "mutations/",
			int32s: map[string]*[]int32{"site": &m.Site, "node": &m.Node, "parent": &m.Parent},
			floats: map[string]*[]float64{"time": &m.Time},
			bytes: map[string]raggedCol[byte]{
				"derived_state": {&m.DerivedState, &m.DerivedStateOffset},
				"metadata":      {&m.Metadata, &m.MetadataOffset},
			},
			schema: &m.MetadataSchema,
		},
		{
			prefix: "populations/",
			bytes:  map[string]raggedCol[byte]{"metadata": {&pop.Metadata, &pop.MetadataOffset}},
			schema: &pop.MetadataSchema,
		},
		{
			prefix:  "individuals/",
			uint32s: map[string]*[]uint32{"flags": &ind.Flags},
			floatRg: map[string]raggedCol[float64]{"location": {&ind.Location, &ind.LocationOffset}},
			int32Rg: map[string]raggedCol[int32]{"parents": {&ind.Parents, &ind.ParentsOffset}},
			bytes:   map[string]raggedCol[byte]{"metadata": {&ind.Metadata, &ind.MetadataOffset}},
			schema:  &ind.MetadataSchema,
		},
		{
			prefix: "migrations/",
			floats: map[string]*[]float64{"left": &mig.Left, "right": &mig.Right, "time": &mig.Time},
			int32s: map[string]*[]int32{"node": &mig.Node, "source": &mig.Source, "dest": &mig.Dest},
			bytes:  map[string]raggedCol[byte]{"metadata": {&mig.Metadata, &mig.MetadataOffset}},
			schema: &mig.MetadataSchema,
		},
		{
			prefix: "provenances/",
			bytes: map[string]raggedCol[byte]{
				"timestamp": {&prov.Timestamp, &prov.TimestampOffset},
				"record":    {&prov.Record, &prov.RecordOffset},
			},
		},
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (c *tableCols) put(w *persistence.Writer) {
	for _, k := range sortedKeys(c.uint32s) {
		w.PutUint32s(c.prefix+k, *c.uint32s[k])
	}
	for _, k := range sortedKeys(c.int32s) {
		w.PutInt32s(c.prefix+k, *c.int32s[k])
	}
	for _, k := range sortedKeys(c.floats) {
		w.PutFloat64s(c.prefix+k, *c.floats[k])
	}
	for _, k := range sortedKeys(c.bytes) {
		col := c.bytes[k]
		w.PutText(c.prefix+k, *col.data)
		w.PutUint64s(c.prefix+k+"_offset", *col.offset)
	}
	for _, k := range sortedKeys(c.floatRg) {
		col := c.floatRg[k]
		w.PutFloat64s(c.prefix+k, *col.data)
		w.PutUint64s(c.prefix+k+"_offset", *col.offset)
	}
	for _, k := range sortedKeys(c.int32Rg) {
		col := c.int32Rg[k]
		w.PutInt32s(c.prefix+k, *col.data)
		w.PutUint64s(c.prefix+k+"_offset", *col.offset)
	}
	if c.schema != nil {
		w.PutText(c.prefix+"metadata_schema", []byte(*c.schema))
	}
}

func (c *tableCols) get(f *persistence.File) error {
	var err error
	for k, dst := range c.uint32s {
		if *dst, err = f.Uint32s(c.prefix + k); err != nil {
			return err
		}
	}
	for k, dst := range c.int32s {
		if *dst, err = f.Int32s(c.prefix + k); err != nil {
			return err
		}
	}
	for k, dst := range c.floats {
		if *dst, err = f.Float64s(c.prefix + k); err != nil {
			return err
		}
	}
	for k, col := range c.bytes {
		data, err := f.Bytes(c.prefix + k)
		if err != nil {
			return err
		}
		*col.data = slices.Clone(data)
		if *col.offset, err = f.Uint64s(c.prefix + k + "_offset"); err != nil {
			return err
		}
	}
	for k, col := range c.floatRg {
		if *col.data, err = f.Float64s(c.prefix + k); err != nil {
			return err
		}
		if *col.offset, err = f.Uint64s(c.prefix + k + "_offset"); err != nil {
			return err
		}
	}
	for k, col := range c.int32Rg {
		if *col.data, err = f.Int32s(c.prefix + k); err != nil {
			return err
		}
		if *col.offset, err = f.Uint64s(c.prefix + k + "_offset"); err != nil {
			return err
		}
	}
	if c.schema != nil {
		if f.Has(c.prefix + "metadata_schema") {
			b, err := f.Bytes(c.prefix + "metadata_schema")
			if err != nil {
				return err
			}
			*c.schema = string(b)
		}
	}
	return nil
}

// PersistenceCode maps a container error to a status code. Errors that are
// not container errors are ErrIO.
func PersistenceCode(err error) int32 {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, persistence.ErrChecksumMismatch):
		return ErrChecksumMismatch
	case errors.Is(err, persistence.ErrVersionTooNew):
		return ErrFileVersionTooNew
	case errors.Is(err, persistence.ErrMissingColumn):
		return ErrRequiredColNotFound
	case errors.Is(err, persistence.ErrBadColumnType):
		return ErrBadColumnType
	case errors.Is(err, persistence.ErrInvalidMagic), errors.Is(err, persistence.ErrCorrupt),
		errors.Is(err, persistence.ErrDuplicateKey), errors.Is(err, persistence.ErrUnknownCompression):
		return ErrFileFormat
	}
	return ErrIO
}

// TableCollectionDump writes tc to w as a container. Edge indexes are built
// first unless DumpNoBuildIndexes is given; the compression codec is taken
// from the low byte of options.
func TableCollectionDump(tc *TableCollection, w io.Writer, options uint32) int32 {
	if options&DumpNoBuildIndexes == 0 && !TableCollectionHasIndex(tc) {
		if rv := TableCollectionBuildIndex(tc, 0); rv != 0 {
			return rv
		}
	}
	cw := persistence.NewWriter()
	cw.PutText("format/name", []byte(formatName))
	cw.PutUint32s("format/version", []uint32{formatVersionMajor, formatVersionMinor})
	cw.PutFloat64s("sequence_length", []float64{tc.SequenceLength})
	cw.PutText("time_units", []byte(tc.TimeUnits))
	cw.PutBytes("metadata", tc.Metadata)
	cw.PutText("metadata_schema", []byte(tc.MetadataSchema))
	for _, c := range collectionColumns(tc) {
		c.put(cw)
	}
	if TableCollectionHasIndex(tc) {
		cw.PutInt32s("indexes/edge_insertion_order", tc.Indexes.EdgeInsertionOrder)
		cw.PutInt32s("indexes/edge_removal_order", tc.Indexes.EdgeRemovalOrder)
	}
	opts := persistence.WriteOptions{Compression: persistence.Compression(options & DumpCompressionMask)}
	if _, err := cw.WriteTo(w, opts); err != nil {
		return PersistenceCode(err)
	}
	return 0
}

// TableCollectionLoadFile replaces the contents of tc with those of f. The
// collection keeps its memory budget, which is charged for the loaded rows.
func TableCollectionLoadFile(tc *TableCollection, f *persistence.File, options uint32) int32 {
	name, err := f.Bytes("format/name")
	if err != nil {
		return PersistenceCode(err)
	}
	if string(name) != formatName {
		return ErrFileFormat
	}
	version, err := f.Uint32s("format/version")
	if err != nil {
		return PersistenceCode(err)
	}
	if len(version) != 2 {
		return ErrFileFormat
	}
	if version[0] > formatVersionMajor {
		return ErrFileVersionTooNew
	}
	if version[0] < formatVersionMajor {
		return ErrFileVersionTooOld
	}

	var budget Budget
	if tc.acct != nil {
		budget = tc.acct.budget
	}
	TableCollectionFree(tc)
	TableCollectionInit(tc, options)
	TableCollectionSetBudget(tc, budget)
	if rv := loadFile(tc, f); rv != 0 {
		TableCollectionFree(tc)
		TableCollectionInit(tc, options)
		TableCollectionSetBudget(tc, budget)
		return rv
	}
	return 0
}

func loadFile(tc *TableCollection, f *persistence.File) int32 {
	seqlen, err := f.Float64s("sequence_length")
	if err != nil {
		return PersistenceCode(err)
	}
	if len(seqlen) != 1 {
		return ErrFileFormat
	}
	if rv := TableCollectionSetSequenceLength(tc, seqlen[0]); rv != 0 {
		return rv
	}
	for key, dst := range map[string]*string{"time_units": &tc.TimeUnits, "metadata_schema": &tc.MetadataSchema} {
		b, err := f.Bytes(key)
		if err != nil {
			return PersistenceCode(err)
		}
		*dst = string(b)
	}
	md, err := f.Bytes("metadata")
	if err != nil {
		return PersistenceCode(err)
	}
	tc.Metadata = slices.Clone(md)
	for _, c := range collectionColumns(tc) {
		if err := c.get(f); err != nil {
			return PersistenceCode(err)
		}
	}

	hasIns, hasRem := f.Has("indexes/edge_insertion_order"), f.Has("indexes/edge_removal_order")
	if hasIns != hasRem {
		return ErrBothColumnsRequired
	}
	if hasIns {
		if tc.Indexes.EdgeInsertionOrder, err = f.Int32s("indexes/edge_insertion_order"); err != nil {
			return PersistenceCode(err)
		}
		if tc.Indexes.EdgeRemovalOrder, err = f.Int32s("indexes/edge_removal_order"); err != nil {
			return PersistenceCode(err)
		}
	}
	if rv := checkAllOffsets(tc); rv != 0 {
		return rv
	}
	if !tc.reserve(int64(f.Header.RawSize)) || !tc.settle() {
		return ErrNoMemory
	}
	tc.FileUUID = f.UUID().String()
	return 0
}

// TableCollectionLoad reads a container from r into tc.
func TableCollectionLoad(tc *TableCollection, r io.Reader, options uint32) int32 {
	f, err := persistence.Read(r)
	if err != nil {
		return PersistenceCode(err)
	}
	return TableCollectionLoadFile(tc, f, options)
}

// TableCollectionLoadBytes decodes a container held in memory into tc. data
// may be a read-only mapping; nothing in tc aliases it afterwards.
func TableCollectionLoadBytes(tc *TableCollection, data []byte, options uint32) int32 {
	f, err := persistence.Decode(data)
	if err != nil {
		return PersistenceCode(err)
	}
	return TableCollectionLoadFile(tc, f, options)
}
