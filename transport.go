package lz4msgpack

// Handler services one transcode request: it receives a JSON document and
// returns the binary envelope, or an error to be relayed to the caller.
type Handler func(input []byte) ([]byte, error)

// Transport defines the interface for exposing a transcoder to remote
// callers. Implementations handle request delivery and response framing.
type Transport interface {
	// Serve registers the handler invoked for each transcode request.
	// It must be called at most once.
	Serve(handler Handler)

	// Close cleans up resources and closes connections.
	Close() error
}
