// Package msgpack provides a MessagePack encoder for typed values, backed
// by github.com/vmihailenco/msgpack. It is the encoding used for route
// models and for transport frames.
package msgpack

import (
	"github.com/vmihailenco/msgpack/v5"

	"github.com/transcodekit/lz4msgpack"
)

// Encoder implements lz4msgpack.Encoder using MessagePack serialization.
type Encoder struct{}

var _ lz4msgpack.Encoder = &Encoder{}

// Encode serializes v to MessagePack bytes.
func (e *Encoder) Encode(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

// Decode deserializes MessagePack bytes into v.
func (e *Encoder) Decode(data []byte, v any) error {
	return msgpack.Unmarshal(data, v)
}

// New creates a new MessagePack encoder.
func New() *Encoder {
	return &Encoder{}
}
