// Package metadata defines how client types are stored in the per-row
// metadata columns.
//
// A metadata column holds opaque bytes. A type becomes metadata for exactly
// one table kind by implementing Encoder and/or Decoder and embedding that
// kind's tag:
//
//	type Individual struct {
//	    metadata.IndividualTag
//	    Name string `json:"name"`
//	}
//
//	func (m Individual) MarshalMetadata() []byte {
//	    return codec.MustMarshal(codec.Default, m)
//	}
//
//	func (m *Individual) UnmarshalMetadata(b []byte) error {
//	    return codec.Default.Unmarshal(b, m)
//	}
//
// Individual now satisfies IndividualEncoder and *Individual satisfies
// IndividualDecoder. It satisfies no other kind's interfaces, so passing it
// where node metadata is expected is a compile error. Embedding two tags
// makes the shared tag method ambiguous and the type satisfies no kind at
// all.
//
// Nothing here prescribes an encoding. Schema describes JSON-encoded
// metadata in the form stored in a table's metadata schema string.
package metadata
