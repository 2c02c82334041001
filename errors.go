package lz4msgpack

import "errors"

// Sentinel errors returned by the transcoding pipeline.
// They may be wrapped with additional context, so callers should use
// errors.Is() rather than direct comparison.
var (
	// ErrEmptyInput is returned when the input document is empty or nil.
	ErrEmptyInput = errors.New("lz4msgpack: empty input")

	// ErrInvalidUTF8 is returned when the input document is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("lz4msgpack: input is not valid UTF-8")

	// ErrMalformedJSON is returned when the input cannot be parsed as a
	// single JSON document, including trailing data after the top-level value.
	ErrMalformedJSON = errors.New("lz4msgpack: malformed JSON")

	// ErrMalformedEnvelope is returned when an envelope is structurally
	// invalid: wrong element count, bad extension payload, or a buffer
	// description that is not byte-valued.
	ErrMalformedEnvelope = errors.New("lz4msgpack: malformed envelope")

	// ErrUnsupportedExtension is returned when an envelope carries a
	// MessagePack extension id other than ExtLZ4BlockArray.
	ErrUnsupportedExtension = errors.New("lz4msgpack: unsupported extension type")

	// ErrCompress is returned when block compression fails.
	ErrCompress = errors.New("lz4msgpack: compression failed")

	// ErrDecompress is returned when the envelope payload cannot be
	// decompressed as an LZ4 block.
	ErrDecompress = errors.New("lz4msgpack: decompression failed")

	// ErrMalformedPayload is returned when decompressed data cannot be
	// decoded as MessagePack.
	ErrMalformedPayload = errors.New("lz4msgpack: malformed MessagePack payload")

	// ErrUnknownHandle is returned by Registry operations for handles that
	// were never issued, were already released, or belong to another registry.
	ErrUnknownHandle = errors.New("lz4msgpack: unknown or released handle")

	// ErrTooLarge is returned when a decode would exceed MaxUncompressedSize.
	ErrTooLarge = errors.New("lz4msgpack: uncompressed size exceeds limit")
)
