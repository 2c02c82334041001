package lz4msgpack

// Encoder defines the interface for typed value serialization, used by the
// route models and the transport framing. Implementations include the JSON
// and MessagePack encoders under encoders/.
type Encoder interface {
	// Encode serializes v into bytes.
	Encode(v any) ([]byte, error)

	// Decode deserializes data into v.
	Decode(data []byte, v any) error
}
