package rpcapi

import (
	"bytes"
	"encoding/gob"

	"google.golang.org/grpc/encoding"
)

// codecName is advertised to grpc-go via encoding.RegisterCodec and must
// match the content-subtype grpc-go negotiates. grpc-go's default proto
// codec stays registered alongside it, so a client selects this one by
// requesting the "gob" content-subtype (for example with
// grpc.CallContentSubtype(codecName)).
const codecName = "gob"

// gobCodec implements encoding.Codec (formerly encoding.Codec's
// predecessor "Codec" interface) using encoding/gob instead of protobuf.
// gob round-trips plain Go structs without a schema compiler, which is
// what lets this transport avoid depending on protoc-generated code.
type gobCodec struct{}

func (gobCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (gobCodec) Unmarshal(data []byte, v any) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}

func (gobCodec) Name() string { return codecName }

func init() {
	encoding.RegisterCodec(gobCodec{})
}
