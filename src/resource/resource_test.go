package resource

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("permission denied") }

func TestDerive(t *testing.T) {
	s := NewStore(1024)
	h, err := s.Derive("bell.mp3", "audio/mpeg", strings.NewReader("ID3fake"))
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	if h.Name() != "bell.mp3" || h.MIMEType() != "audio/mpeg" {
		t.Errorf("unexpected handle metadata: %q %q", h.Name(), h.MIMEType())
	}
	if h.Size() != len("ID3fake") {
		t.Errorf("Size = %d, want %d", h.Size(), len("ID3fake"))
	}
	if !strings.HasPrefix(h.URI(), "mem://ringtone/") || !strings.HasSuffix(h.URI(), h.ID()) {
		t.Errorf("URI = %q", h.URI())
	}
	res := h.Resource()
	if res == nil || !bytes.Equal(res.Content(), []byte("ID3fake")) {
		t.Errorf("Resource content mismatch")
	}
	if s.Live() != 1 {
		t.Errorf("Live = %d, want 1", s.Live())
	}
}

func TestDeriveFailures(t *testing.T) {
	tests := []struct {
		name    string
		input   func() *Store
		reader  func() io.Reader
		wantErr error
	}{
		{
			name:    "empty",
			input:   func() *Store { return NewStore(16) },
			reader:  func() io.Reader { return strings.NewReader("") },
			wantErr: ErrEmpty,
		},
		{
			name:    "too large",
			input:   func() *Store { return NewStore(4) },
			reader:  func() io.Reader { return strings.NewReader("12345") },
			wantErr: ErrTooLarge,
		},
		{
			name:   "read error",
			input:  func() *Store { return NewStore(16) },
			reader: func() io.Reader { return failingReader{} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.input()
			h, err := s.Derive("x.mp3", "audio/mpeg", tt.reader())
			if h != nil {
				t.Fatalf("expected no handle on failure")
			}
			if !errors.Is(err, ErrDerivation) {
				t.Errorf("expected ErrDerivation, got %v", err)
			}
			var de *DerivationError
			if !errors.As(err, &de) || de.Name != "x.mp3" {
				t.Errorf("expected *DerivationError for x.mp3, got %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if s.Live() != 0 {
				t.Errorf("failed derivation must not leave a live handle")
			}
		})
	}
}

func TestDeriveNilReader(t *testing.T) {
	_, err := NewStore(0).Derive("x.mp3", "audio/mpeg", nil)
	if !errors.Is(err, ErrEmpty) {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
}

func TestDeriveExactLimit(t *testing.T) {
	s := NewStore(4)
	if _, err := s.Derive("x.mp3", "audio/mpeg", strings.NewReader("1234")); err != nil {
		t.Errorf("content at the limit should load: %v", err)
	}
}

func TestReleaseIdempotent(t *testing.T) {
	s := NewStore(0)
	h, err := s.Derive("a.mp3", "audio/mpeg", strings.NewReader("abc"))
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	s.Release(h)
	s.Release(h)
	s.Release(nil)

	if !h.Released() {
		t.Errorf("handle should be released")
	}
	if h.Resource() != nil {
		t.Errorf("released handle must not expose a resource")
	}
	if h.Size() != 0 {
		t.Errorf("released handle should drop its bytes")
	}
	if s.Live() != 0 {
		t.Errorf("Live = %d, want 0", s.Live())
	}
}

func TestReleaseAll(t *testing.T) {
	s := NewStore(0)
	a, _ := s.Derive("a.mp3", "audio/mpeg", strings.NewReader("a"))
	b, _ := s.Derive("b.mp3", "audio/mpeg", strings.NewReader("b"))
	if a.ID() == b.ID() {
		t.Fatalf("handles must have distinct IDs")
	}

	s.ReleaseAll()

	if !a.Released() || !b.Released() {
		t.Errorf("ReleaseAll must release every live handle")
	}
	if s.Live() != 0 {
		t.Errorf("Live = %d, want 0", s.Live())
	}
}
