package lz4msgpack

// Compressor defines the interface for the block compression stage of the
// pipeline. Implementations must be safe for concurrent use and must
// allocate independently per call.
type Compressor interface {
	// Compress compresses src into a freshly allocated buffer. The output
	// must always be a valid block, even for incompressible input.
	Compress(src []byte) ([]byte, error)

	// Uncompress decompresses src. uncompressedSize is the expected output
	// size; implementations may treat it as a hint when it is zero.
	Uncompress(src []byte, uncompressedSize int) ([]byte, error)
}
