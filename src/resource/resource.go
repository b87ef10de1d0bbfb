// Package resource turns picked file content into session-scoped, in-memory
// handles that a playback collaborator can load.
package resource

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"github.com/google/uuid"
)

const (
	DefaultMaxSize = 20 * 1024 * 1024
	uriScheme      = "mem"
)

var (
	ErrDerivation = errors.New("resource derivation failed")
	ErrEmpty      = errors.New("file has no content")
	ErrTooLarge   = errors.New("file exceeds size limit")
)

// DerivationError reports a chosen file that could not become a Handle.
type DerivationError struct {
	Name string
	Err  error
}

func (e *DerivationError) Error() string {
	return fmt.Sprintf("derive %q: %v", e.Name, e.Err)
}

func (e *DerivationError) Unwrap() error { return e.Err }

func (e *DerivationError) Is(target error) bool { return target == ErrDerivation }

// Handle references loaded audio bytes for the current session only.
type Handle struct {
	id       uuid.UUID
	name     string
	mimeType string
	created  time.Time

	mu       sync.Mutex
	data     []byte
	released bool
}

func (h *Handle) ID() string         { return h.id.String() }
func (h *Handle) Name() string       { return h.name }
func (h *Handle) MIMEType() string   { return h.mimeType }
func (h *Handle) Created() time.Time { return h.created }

// URI is the in-memory address of the handle, e.g. mem://ringtone/<id>.
func (h *Handle) URI() string {
	return fmt.Sprintf("%s://ringtone/%s", uriScheme, h.id)
}

func (h *Handle) Size() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.data)
}

func (h *Handle) Released() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.released
}

// Resource exposes the bytes for playback. Nil once released.
func (h *Handle) Resource() fyne.Resource {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.released {
		return nil
	}
	return fyne.NewStaticResource(h.name, h.data)
}

func (h *Handle) release() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.released {
		return false
	}
	h.released = true
	h.data = nil
	return true
}

// Store derives handles and tracks which ones are still live.
type Store struct {
	maxSize int64

	mu   sync.Mutex
	live map[uuid.UUID]*Handle
}

// NewStore creates a store; maxSize<=0 uses DefaultMaxSize.
func NewStore(maxSize int64) *Store {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Store{maxSize: maxSize, live: make(map[uuid.UUID]*Handle)}
}

// Derive reads r fully into memory and returns a live handle.
func (s *Store) Derive(name, mimeType string, r io.Reader) (*Handle, error) {
	if r == nil {
		return nil, &DerivationError{Name: name, Err: ErrEmpty}
	}
	data, err := io.ReadAll(io.LimitReader(r, s.maxSize+1))
	if err != nil {
		return nil, &DerivationError{Name: name, Err: err}
	}
	if len(data) == 0 {
		return nil, &DerivationError{Name: name, Err: ErrEmpty}
	}
	if int64(len(data)) > s.maxSize {
		return nil, &DerivationError{Name: name, Err: fmt.Errorf("%w (%d bytes)", ErrTooLarge, s.maxSize)}
	}

	h := &Handle{
		id:       uuid.New(),
		name:     name,
		mimeType: mimeType,
		created:  time.Now(),
		data:     data,
	}
	s.mu.Lock()
	s.live[h.id] = h
	s.mu.Unlock()
	return h, nil
}

// Release drops the handle's bytes. Releasing twice is a no-op.
func (s *Store) Release(h *Handle) {
	if h == nil {
		return
	}
	s.mu.Lock()
	delete(s.live, h.id)
	s.mu.Unlock()
	h.release()
}

// ReleaseAll ends the session for every live handle.
func (s *Store) ReleaseAll() {
	s.mu.Lock()
	handles := make([]*Handle, 0, len(s.live))
	for id, h := range s.live {
		handles = append(handles, h)
		delete(s.live, id)
	}
	s.mu.Unlock()
	for _, h := range handles {
		h.release()
	}
}

func (s *Store) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.live)
}
