package nats

// Response is the reply frame for a transcode request. Exactly one of Data
// and Error is set.
type Response struct {
	Data  []byte `msgpack:"data,omitempty"`
	Error string `msgpack:"error,omitempty"`
}
