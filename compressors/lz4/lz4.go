// Package lz4 provides an LZ4 block compressor for lz4msgpack envelopes.
// It uses the raw block format without a size prefix; the uncompressed size
// travels in the envelope header instead.
package lz4

import (
	"errors"
	"fmt"

	"github.com/pierrec/lz4/v4"
)

// Compressor implements lz4msgpack.Compressor using LZ4 block compression.
type Compressor struct{}

// New creates a new LZ4 block compressor.
func New() *Compressor {
	return &Compressor{}
}

// Compress compresses src as a single LZ4 block. Incompressible input is
// emitted as a literal-only block so the result always decompresses.
func (c *Compressor) Compress(src []byte) ([]byte, error) {
	if len(src) == 0 {
		return []byte{}, nil
	}

	dst := make([]byte, lz4.CompressBlockBound(len(src)))
	n, err := lz4.CompressBlock(src, dst, nil)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// CompressBlock reports incompressible data as a zero length.
		return literalBlock(src), nil
	}
	return dst[:n], nil
}

// Uncompress decompresses a single LZ4 block of uncompressedSize bytes.
func (c *Compressor) Uncompress(src []byte, uncompressedSize int) ([]byte, error) {
	if len(src) == 0 {
		return []byte{}, nil
	}
	if uncompressedSize <= 0 {
		return nil, errors.New("lz4: unknown uncompressed size")
	}

	dst := make([]byte, uncompressedSize)
	n, err := lz4.UncompressBlock(src, dst)
	if err != nil {
		return nil, fmt.Errorf("lz4: %w", err)
	}
	return dst[:n], nil
}

// literalBlock builds a block consisting of a single literal-only sequence.
// The final sequence of a block may omit the match part, so this is a valid
// encoding of src at a one to three byte overhead.
func literalBlock(src []byte) []byte {
	n := len(src)
	out := make([]byte, 0, n+n/255+2)

	if n < 15 {
		out = append(out, byte(n)<<4)
	} else {
		out = append(out, 0xF0)
		rest := n - 15
		for rest >= 255 {
			out = append(out, 255)
			rest -= 255
		}
		out = append(out, byte(rest))
	}
	return append(out, src...)
}
