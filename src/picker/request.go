package picker

import "sync"

type requestState int

const (
	requestPending requestState = iota
	requestCompleted
	requestCancelled
)

// Request is a single-shot pick: it completes exactly once or is cancelled.
type Request struct {
	mu       sync.Mutex
	state    requestState
	onResult func(Result)
}

func NewRequest(onResult func(Result)) *Request {
	return &Request{onResult: onResult}
}

// Complete delivers res unless the request already completed or was cancelled.
func (r *Request) Complete(res Result) bool {
	r.mu.Lock()
	if r.state != requestPending {
		r.mu.Unlock()
		return false
	}
	r.state = requestCompleted
	cb := r.onResult
	r.onResult = nil
	r.mu.Unlock()

	if cb != nil {
		cb(res)
	}
	return true
}

// Cancel prevents delivery. Returns false if the result was already delivered.
func (r *Request) Cancel() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != requestPending {
		return r.state == requestCancelled
	}
	r.state = requestCancelled
	r.onResult = nil
	return true
}

func (r *Request) Pending() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state == requestPending
}

// Tracker owns the in-flight request of a capability.
type Tracker struct {
	mu       sync.Mutex
	current  *Request
	disposed bool
}

// Begin starts a request, cancelling any stale one. Nil after Dispose.
func (t *Tracker) Begin(onResult func(Result)) *Request {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.disposed {
		return nil
	}
	if t.current != nil {
		t.current.Cancel()
	}
	t.current = NewRequest(onResult)
	return t.current
}

// Reset cancels the pending request, if any.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current != nil {
		t.current.Cancel()
		t.current = nil
	}
}

// Dispose cancels the pending request and refuses new ones.
func (t *Tracker) Dispose() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.disposed = true
	if t.current != nil {
		t.current.Cancel()
		t.current = nil
	}
}

func (t *Tracker) Disposed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.disposed
}
