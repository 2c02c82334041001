package lz4msgpack

// Service binds a Transcoder to a Transport so remote callers can submit
// JSON documents and receive envelopes.
type Service struct {
	transcoder *Transcoder
	transport  Transport
}

// NewService creates a service and starts handling requests on the transport.
func NewService(transcoder *Transcoder, transport Transport) *Service {
	s := &Service{
		transcoder: transcoder,
		transport:  transport,
	}
	transport.Serve(s.handle)
	return s
}

func (s *Service) handle(input []byte) ([]byte, error) {
	return s.transcoder.Transcode(input)
}

// Close shuts down the underlying transport.
func (s *Service) Close() error {
	return s.transport.Close()
}
