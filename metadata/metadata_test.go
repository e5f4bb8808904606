package metadata

import (
	"errors"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/tskit/codec"
)

type nodeMeta struct {
	NodeTag
	Name string `json:"name"`
}

func (m nodeMeta) MarshalMetadata() []byte { return codec.MustMarshal(codec.Default, m) }

func (m *nodeMeta) UnmarshalMetadata(b []byte) error { return codec.Default.Unmarshal(b, m) }

type mutationMeta struct {
	MutationTag
	Effect float64
}

func (m mutationMeta) MarshalMetadata() []byte { return []byte{byte(m.Effect)} }

func (m *mutationMeta) UnmarshalMetadata(b []byte) error {
	if len(b) != 1 {
		return errors.New("bad length")
	}
	m.Effect = float64(b[0])
	return nil
}

// confused embeds two tags and is registered for no kind.
type confused struct {
	NodeTag
	EdgeTag
}

func (confused) MarshalMetadata() []byte { return nil }

type nodeWrap struct{ NodeTag }

// layered embeds the node tag one level deeper than the mutation tag and is
// registered as mutation metadata only.
type layered struct {
	nodeWrap
	MutationTag
}

func (layered) MarshalMetadata() []byte           { return nil }
func (*layered) UnmarshalMetadata(b []byte) error { return nil }

func TestTagsSelectOneKind(t *testing.T) {
	var enc any = nodeMeta{Name: "a"}
	_, isNode := enc.(NodeEncoder)
	_, isMutation := enc.(MutationEncoder)
	assert.True(t, isNode)
	assert.False(t, isMutation)

	var dec any = &mutationMeta{}
	_, isMutationDecoder := dec.(MutationDecoder)
	_, isNodeDecoder := dec.(NodeDecoder)
	assert.True(t, isMutationDecoder)
	assert.False(t, isNodeDecoder)

	var both any = confused{}
	_, isNode = both.(NodeEncoder)
	_, isEdge := both.(EdgeEncoder)
	assert.False(t, isNode)
	assert.False(t, isEdge)
	_, isEncoder := both.(Encoder)
	assert.True(t, isEncoder)

	var nested any = &layered{}
	_, isNodeDecoder = nested.(NodeDecoder)
	_, isMutationDecoder = nested.(MutationDecoder)
	assert.False(t, isNodeDecoder)
	assert.True(t, isMutationDecoder)
}

// TestRegistrationIsExclusive type-checks client declarations against this
// package's source and asserts that no type satisfies two kinds.
func TestRegistrationIsExclusive(t *testing.T) {
	const client = `package metadata

type clientBytes struct{}

func (*clientBytes) UnmarshalMetadata([]byte) error { return nil }

type wrappedNode struct{ NodeTag }

type sameDepth struct {
	clientBytes
	NodeTag
	MutationTag
}

type nodeDeeper struct {
	clientBytes
	wrappedNode
	MutationTag
}

type mutationDeeper struct {
	clientBytes
	NodeTag
	wrappedMutation
}

type wrappedMutation struct{ MutationTag }

var _ MutationDecoder = (*nodeDeeper)(nil)
var _ NodeDecoder = (*mutationDeeper)(nil)
`
	fset := token.NewFileSet()
	src, err := parser.ParseFile(fset, "metadata.go", nil, 0)
	require.NoError(t, err)
	extra, err := parser.ParseFile(fset, "client.go", client, 0)
	require.NoError(t, err)

	pkg, err := (&types.Config{Importer: importer.Default()}).Check("metadata", fset, []*ast.File{src, extra}, nil)
	require.NoError(t, err)

	decoders := []string{"NodeDecoder", "EdgeDecoder", "SiteDecoder", "MutationDecoder",
		"PopulationDecoder", "IndividualDecoder", "MigrationDecoder"}
	kinds := func(name string) []string {
		ptr := types.NewPointer(pkg.Scope().Lookup(name).Type())
		var got []string
		for _, d := range decoders {
			iface := pkg.Scope().Lookup(d).Type().Underlying().(*types.Interface)
			if types.Implements(ptr, iface) {
				got = append(got, d)
			}
		}
		return got
	}

	assert.Empty(t, kinds("sameDepth"))
	assert.Equal(t, []string{"MutationDecoder"}, kinds("nodeDeeper"))
	assert.Equal(t, []string{"NodeDecoder"}, kinds("mutationDeeper"))

	t.Run("dual registration rejected", func(t *testing.T) {
		bad, err := parser.ParseFile(fset, "bad.go", `package metadata

var _ NodeDecoder = (*sameDepth)(nil)
`, 0)
		require.NoError(t, err)
		_, err = (&types.Config{Importer: importer.Default()}).Check("metadata", fset, []*ast.File{src, extra, bad}, nil)
		assert.Error(t, err)
	})
}

func TestEncode(t *testing.T) {
	assert.Nil(t, Encode(nil))
	var none NodeEncoder
	assert.Nil(t, Encode(none))

	b := Encode(nodeMeta{Name: "x"})
	var out nodeMeta
	require.NoError(t, out.UnmarshalMetadata(b))
	assert.Equal(t, "x", out.Name)
}

func TestSchema(t *testing.T) {
	s := Schema{Fields: map[string]FieldType{"name": FieldTypeString, "age": FieldTypeInt, "w": FieldTypeFloat}}
	js, err := s.JSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"codec":"json","type":"object","properties":{"name":{"type":"string"},"age":{"type":"integer"},"w":{"type":"number"}}}`, js)

	parsed, err := ParseSchema(js)
	require.NoError(t, err)
	assert.Equal(t, "json", parsed.Codec)
	assert.Equal(t, s.Fields, parsed.Fields)

	t.Run("validate", func(t *testing.T) {
		assert.NoError(t, s.Validate([]byte(`{"name":"a","age":3,"w":1,"extra":true}`)))
		assert.Error(t, s.Validate([]byte(`{"age":1.5}`)))
		assert.Error(t, s.Validate([]byte(`{"name":7}`)))
		assert.Error(t, s.Validate([]byte(`not json`)))
		assert.NoError(t, s.ValidateMap(map[string]any{"name": nil}))
	})

	t.Run("parse errors", func(t *testing.T) {
		_, err := ParseSchema(`{"codec":"json","type":"array"}`)
		assert.Error(t, err)
		_, err = ParseSchema(`{`)
		assert.Error(t, err)

		got, err := ParseSchema(`{"codec":"struct","properties":{"x":{"type":"tuple"}}}`)
		require.NoError(t, err)
		assert.Equal(t, FieldTypeAny, got.Fields["x"])
	})
}

func TestFieldTypeString(t *testing.T) {
	assert.Equal(t, "Int", FieldTypeInt.String())
	assert.Equal(t, "Unknown", FieldType(99).String())
}
