package lz4msgpack

import "sync"

// Handle is an opaque reference to a buffer owned by a Registry. The zero
// Handle never refers to a buffer and is always safe to release.
type Handle uint64

// Registry tracks ownership of transcoded buffers through opaque handles.
// It is the memory-safe rendition of an allocate/free boundary: every
// successful Transcode issues a handle that must be released exactly once,
// and misuse (double release, foreign handles) is reported as
// ErrUnknownHandle instead of being undefined.
//
// A Registry is safe for concurrent use.
type Registry struct {
	transcoder *Transcoder

	mu   sync.Mutex
	next Handle
	bufs map[Handle][]byte
}

// NewRegistry creates a Registry backed by the default Transcoder.
func NewRegistry() *Registry {
	return NewRegistryWithTranscoder(New())
}

// NewRegistryWithTranscoder creates a Registry backed by the given Transcoder.
func NewRegistryWithTranscoder(transcoder *Transcoder) *Registry {
	return &Registry{
		transcoder: transcoder,
		bufs:       make(map[Handle][]byte),
	}
}

// Transcode converts a JSON document into a binary envelope owned by the
// registry and returns a handle to it. The caller must release the handle
// exactly once when done.
func (r *Registry) Transcode(src []byte) (Handle, error) {
	buf, err := r.transcoder.Transcode(src)
	if err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	r.bufs[r.next] = buf
	return r.next, nil
}

// Bytes returns the buffer a handle refers to. The buffer stays valid until
// the handle is released.
func (r *Registry) Bytes(h Handle) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	buf, ok := r.bufs[h]
	if !ok {
		return nil, ErrUnknownHandle
	}
	return buf, nil
}

// Release frees the buffer a handle refers to. Releasing the zero handle is
// a no-op. Releasing a handle twice, or a handle this registry never issued,
// returns ErrUnknownHandle.
func (r *Registry) Release(h Handle) error {
	if h == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bufs[h]; !ok {
		return ErrUnknownHandle
	}
	delete(r.bufs, h)
	return nil
}

// Live reports how many buffers are currently held. Zero means every issued
// handle has been released.
func (r *Registry) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bufs)
}
