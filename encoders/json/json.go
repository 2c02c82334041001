// Package json provides a JSON encoder for typed values.
// It uses Go's standard encoding/json package for serialization.
package json

import (
	"encoding/json"

	"github.com/transcodekit/lz4msgpack"
)

// Encoder implements lz4msgpack.Encoder using JSON serialization.
// Note that decoding through struct types does not preserve object member
// order; use the transcoder itself when order matters.
type Encoder struct{}

var _ lz4msgpack.Encoder = &Encoder{}

// Encode serializes v to compact JSON bytes.
func (e *Encoder) Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

// EncodeIndent serializes v to pretty printed JSON bytes.
func (e *Encoder) EncodeIndent(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// Decode deserializes JSON bytes into v.
func (e *Encoder) Decode(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// New creates a new JSON encoder.
func New() *Encoder {
	return &Encoder{}
}
