package detection

import "sync"

// handle serializes calls into a native resource with its release. release
// waits for any fn in progress; after it, use returns ErrClosed without
// running fn.
type handle struct {
	mu     sync.Mutex
	closed bool
}

func (h *handle) use(fn func() error) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrClosed
	}
	return fn()
}

// release runs fn once. Later calls are no-ops.
func (h *handle) release(fn func() error) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	return fn()
}
