// Package lz4msgpack transcodes JSON documents into LZ4 compressed
// MessagePack and back.
//
// A document is parsed into an order-preserving value tree, encoded as
// MessagePack, compressed as a single LZ4 block, and wrapped in the
// msgpack-lite LZ4BlockArray envelope: a two element MessagePack array of an
// extension header (id 98, carrying the uncompressed size) and the
// compressed block. The envelope also has a JSON rendering compatible with
// Node's Buffer serialization for callers that exchange it as text.
package lz4msgpack

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/transcodekit/lz4msgpack/compressors/lz4"
)

// MaxUncompressedSize caps how many bytes a decode is allowed to produce.
var MaxUncompressedSize = int64(64 * 1024 * 1024) // 64 MB

// Transcoder converts JSON documents to LZ4BlockArray envelopes and back.
// It holds no per-call state and is safe for concurrent use.
type Transcoder struct {
	compressor Compressor
}

// New creates a Transcoder using LZ4 block compression.
func New() *Transcoder {
	return NewWithCompressor(lz4.New())
}

// NewWithCompressor creates a Transcoder using the given compressor for the
// block compression stage.
func NewWithCompressor(compressor Compressor) *Transcoder {
	return &Transcoder{compressor: compressor}
}

// Transcode converts a JSON document into a binary LZ4BlockArray envelope.
// The returned buffer is freshly allocated and owned by the caller. On any
// failure the result is nil and the error wraps one of the package
// sentinels.
func (t *Transcoder) Transcode(src []byte) ([]byte, error) {
	envelope, err := t.envelope(src)
	if err != nil {
		return nil, err
	}
	return envelope.MarshalBinary()
}

// TranscodeToJSON converts a JSON document into the Node Buffer rendering of
// the envelope, pretty printed.
func (t *Transcoder) TranscodeToJSON(src []byte) ([]byte, error) {
	envelope, err := t.envelope(src)
	if err != nil {
		return nil, err
	}
	compact, err := json.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", "  "); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func (t *Transcoder) envelope(src []byte) (*Envelope, error) {
	value, err := parseJSON(src)
	if err != nil {
		return nil, err
	}

	packed, err := marshalValue(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}

	compressed, err := t.compressor.Compress(packed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompress, err)
	}

	return &Envelope{
		ExtType: ExtLZ4BlockArray,
		Header:  BlockHeader{UncompressedSize: len(packed)},
		Data:    compressed,
	}, nil
}

// Decode reverses Transcode: it unwraps a binary envelope, decompresses the
// block, and renders the MessagePack payload back to compact JSON text.
func (t *Transcoder) Decode(envelope []byte) ([]byte, error) {
	if len(envelope) == 0 {
		return nil, ErrEmptyInput
	}

	var env Envelope
	if err := env.UnmarshalBinary(envelope); err != nil {
		return nil, err
	}
	return t.decodeEnvelope(&env)
}

// DecodeJSON is like Decode but accepts the Node Buffer JSON rendering of
// an envelope.
func (t *Transcoder) DecodeJSON(envelopeJSON []byte) ([]byte, error) {
	if len(envelopeJSON) == 0 {
		return nil, ErrEmptyInput
	}

	var env Envelope
	if err := json.Unmarshal(envelopeJSON, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	if env.ExtType != ExtLZ4BlockArray {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedExtension, env.ExtType)
	}
	return t.decodeEnvelope(&env)
}

func (t *Transcoder) decodeEnvelope(env *Envelope) ([]byte, error) {
	packed, _, err := t.uncompress(env.Data, env.Header.UncompressedSize)
	if err != nil {
		return nil, err
	}
	if len(packed) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrMalformedPayload)
	}

	value, err := unmarshalValue(packed)
	if err != nil {
		return nil, err
	}
	return renderJSON(value)
}

// uncompress recovers a block using the declared size first and then a set
// of fallback strategies for envelopes written by sloppier encoders: a
// growing output buffer, then the block with one or two leading bytes
// stripped (some producers prepend their own size prefix). It reports which
// strategy succeeded, starting at 1.
func (t *Transcoder) uncompress(data []byte, size int) ([]byte, int, error) {
	if len(data) == 0 {
		return []byte{}, 0, nil
	}

	if size > 0 && int64(size) <= MaxUncompressedSize {
		if out, err := t.compressor.Uncompress(data, size); err == nil {
			return out, 1, nil
		}
	}

	for guess := int64(len(data)) * 4; guess <= MaxUncompressedSize; guess *= 4 {
		if out, err := t.compressor.Uncompress(data, int(guess)); err == nil {
			return out, 2, nil
		}
	}

	for offset := 1; offset <= 2 && offset < len(data); offset++ {
		for guess := int64(len(data)) * 4; guess <= MaxUncompressedSize; guess *= 4 {
			if out, err := t.compressor.Uncompress(data[offset:], int(guess)); err == nil {
				return out, 2 + offset, nil
			}
		}
	}

	return nil, 0, fmt.Errorf("%w: all strategies exhausted", ErrDecompress)
}

var defaultTranscoder = New()

// Transcode converts a JSON document into a binary LZ4BlockArray envelope
// using the default Transcoder.
func Transcode(src []byte) ([]byte, error) {
	return defaultTranscoder.Transcode(src)
}

// TranscodeToJSON converts a JSON document into the Node Buffer rendering of
// the envelope using the default Transcoder.
func TranscodeToJSON(src []byte) ([]byte, error) {
	return defaultTranscoder.TranscodeToJSON(src)
}

// Decode converts a binary envelope back to JSON text using the default
// Transcoder.
func Decode(envelope []byte) ([]byte, error) {
	return defaultTranscoder.Decode(envelope)
}
