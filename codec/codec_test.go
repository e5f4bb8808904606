package codec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Software   string            `json:"software"`
	Version    string            `json:"version"`
	Parameters map[string]string `json:"parameters"`
	Samples    []int32           `json:"samples"`
}

func TestCodecs(t *testing.T) {
	in := record{
		Software:   "tskit",
		Version:    "1.0",
		Parameters: map[string]string{"command": "simplify"},
		Samples:    []int32{0, 1, 5},
	}

	for _, c := range []Codec{JSON{}, GoJSON{}} {
		t.Run(c.Name(), func(t *testing.T) {
			data, err := c.Marshal(in)
			require.NoError(t, err)

			var out record
			require.NoError(t, c.Unmarshal(data, &out))
			assert.Equal(t, in, out)

			byName, ok := ByName(c.Name())
			require.True(t, ok)
			assert.Equal(t, c, byName)
		})
	}

	t.Run("interchangeable", func(t *testing.T) {
		data, err := GoJSON{}.Marshal(in)
		require.NoError(t, err)
		var out record
		require.NoError(t, JSON{}.Unmarshal(data, &out))
		assert.Equal(t, in, out)
	})
}

func TestByNameUnknown(t *testing.T) {
	_, ok := ByName("msgpack")
	assert.False(t, ok)
}

func TestMustMarshal(t *testing.T) {
	assert.JSONEq(t, `{"a":1}`, string(MustMarshal(nil, map[string]int{"a": 1})))
	assert.Panics(t, func() { MustMarshal(JSON{}, math.Inf(1)) })
}

func TestGoJSONAppend(t *testing.T) {
	out, err := GoJSON{}.Append([]byte("x="), []int{1, 2})
	require.NoError(t, err)
	assert.Equal(t, "x=[1,2]", string(out))
}

func BenchmarkMarshal(b *testing.B) {
	in := record{Software: "tskit", Parameters: map[string]string{"k": "v"}, Samples: make([]int32, 64)}
	for _, c := range []Codec{JSON{}, GoJSON{}} {
		b.Run(c.Name(), func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				if _, err := c.Marshal(in); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
