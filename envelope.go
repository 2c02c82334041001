package lz4msgpack

import (
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// ExtLZ4BlockArray is the msgpack-lite extension id marking a payload as an
// array of LZ4 block compressed buffers.
const ExtLZ4BlockArray = 98

// sizeTag is the byte that prefixes the uncompressed size in a block header.
const sizeTag = 0xcc

func init() {
	msgpack.RegisterExt(ExtLZ4BlockArray, (*BlockHeader)(nil))
}

// BlockHeader is the extension payload of an LZ4BlockArray envelope. It
// carries the uncompressed size of the block as a 0xcc tag byte followed by
// the size in minimal big-endian form (one to four bytes).
type BlockHeader struct {
	UncompressedSize int

	// raw holds the payload exactly as parsed so a round-tripped envelope
	// reserializes byte for byte even when the source header is not in the
	// canonical form this package writes.
	raw []byte
}

var (
	_ msgpack.Marshaler   = (*BlockHeader)(nil)
	_ msgpack.Unmarshaler = (*BlockHeader)(nil)
)

// MarshalMsgpack encodes the header payload.
func (h *BlockHeader) MarshalMsgpack() ([]byte, error) {
	if h.raw != nil {
		return h.raw, nil
	}
	size := h.UncompressedSize
	if size < 0 {
		return nil, fmt.Errorf("%w: negative uncompressed size", ErrMalformedEnvelope)
	}
	out := []byte{sizeTag}
	switch {
	case size <= 0xFF:
		out = append(out, byte(size))
	case size <= 0xFFFF:
		out = append(out, byte(size>>8), byte(size))
	case size <= 0xFFFFFF:
		out = append(out, byte(size>>16), byte(size>>8), byte(size))
	default:
		out = append(out, byte(size>>24), byte(size>>16), byte(size>>8), byte(size))
	}
	return out, nil
}

// UnmarshalMsgpack decodes a header payload. Single-byte fixint headers and
// headers tagged 0xcd/0xce (proper MessagePack uints, which msgpack-lite
// also writes) are accepted alongside the 0xcc form.
func (h *BlockHeader) UnmarshalMsgpack(data []byte) error {
	h.raw = append([]byte(nil), data...)
	h.UncompressedSize = 0

	switch {
	case len(data) == 0:
		return nil
	case len(data) == 1:
		if data[0] < 0x80 {
			h.UncompressedSize = int(data[0])
		}
		return nil
	case len(data) > 9:
		return fmt.Errorf("%w: header payload too long (%d bytes)", ErrMalformedEnvelope, len(data))
	}

	var size uint64
	for _, b := range data[1:] {
		size = size<<8 | uint64(b)
	}
	if size > uint64(MaxUncompressedSize) {
		return fmt.Errorf("%w: header declares %d bytes", ErrTooLarge, size)
	}
	h.UncompressedSize = int(size)
	return nil
}

// Envelope is the LZ4BlockArray container: a two element MessagePack array
// of the extension header and the compressed block.
type Envelope struct {
	ExtType int8
	Header  BlockHeader
	Data    []byte
}

// MarshalBinary encodes the envelope as MessagePack: [Ext(98, header), Bin(data)].
func (e *Envelope) MarshalBinary() ([]byte, error) {
	if e.ExtType != ExtLZ4BlockArray {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedExtension, e.ExtType)
	}
	data := e.Data
	if data == nil {
		data = []byte{}
	}
	out, err := msgpack.Marshal([]any{&e.Header, data})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	return out, nil
}

// UnmarshalBinary decodes a MessagePack envelope produced by MarshalBinary.
func (e *Envelope) UnmarshalBinary(data []byte) error {
	var parts []any
	if err := msgpack.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	if len(parts) < 2 {
		return fmt.Errorf("%w: expected 2 elements, got %d", ErrMalformedEnvelope, len(parts))
	}

	switch h := parts[0].(type) {
	case *BlockHeader:
		e.Header = *h
	case BlockHeader:
		e.Header = h
	default:
		return fmt.Errorf("%w: first element is %T, not a block header", ErrMalformedEnvelope, parts[0])
	}
	block, ok := parts[1].([]byte)
	if !ok {
		return fmt.Errorf("%w: second element is %T, not binary", ErrMalformedEnvelope, parts[1])
	}
	e.ExtType = ExtLZ4BlockArray
	e.Data = block
	return nil
}

// extJSON and bufferJSON mirror how Node's msgpack-lite serializes the
// envelope when it passes through JSON.parse/stringify: byte buffers become
// {"type":"Buffer","data":[...]} objects.
type extJSON struct {
	Buffer bufferJSON `json:"buffer"`
	Type   int8       `json:"type"`
}

type bufferJSON struct {
	Type string   `json:"type"`
	Data byteList `json:"data"`
}

// MarshalJSON renders the envelope in the Node Buffer form.
func (e *Envelope) MarshalJSON() ([]byte, error) {
	header, err := e.Header.MarshalMsgpack()
	if err != nil {
		return nil, err
	}
	data := e.Data
	if data == nil {
		data = []byte{}
	}
	return json.Marshal([]any{
		extJSON{
			Buffer: bufferJSON{Type: "Buffer", Data: header},
			Type:   e.ExtType,
		},
		bufferJSON{Type: "Buffer", Data: data},
	})
}

// UnmarshalJSON parses the Node Buffer form of an envelope.
func (e *Envelope) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	if len(parts) < 2 {
		return fmt.Errorf("%w: expected 2 elements, got %d", ErrMalformedEnvelope, len(parts))
	}

	var ext extJSON
	if err := json.Unmarshal(parts[0], &ext); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	var block bufferJSON
	if err := json.Unmarshal(parts[1], &block); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}

	var header BlockHeader
	if err := header.UnmarshalMsgpack(ext.Buffer.Data); err != nil {
		return err
	}

	e.ExtType = ext.Type
	e.Header = header
	e.Data = block.Data
	return nil
}
