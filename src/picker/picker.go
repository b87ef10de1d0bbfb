// Package picker wraps the platform file-selection capability behind a small
// interface: open a picker, receive at most one result, dispose.
package picker

import (
	"errors"
	"io"
	"mime"
	"path/filepath"
	"strings"
)

// MIMETypes restricts every picker to MP3 audio.
var MIMETypes = []string{"audio/mp3", "audio/mpeg"}

var ErrNoContent = errors.New("file content is not accessible")

// File is a picked file: its name plus an accessor for its bytes.
type File struct {
	Name     string
	MIMEType string
	open     func() (io.ReadCloser, error)
}

func NewFile(name, mimeType string, open func() (io.ReadCloser, error)) *File {
	return &File{Name: name, MIMEType: mimeType, open: open}
}

// Open returns a reader for the file content.
func (f *File) Open() (io.ReadCloser, error) {
	if f == nil || f.open == nil {
		return nil, ErrNoContent
	}
	return f.open()
}

// Result is the single completion of a pick. File is nil when the user
// closed the picker without choosing.
type Result struct {
	File *File
	Err  error
}

// Capability is the platform file picker.
type Capability interface {
	// Open shows the picker; onResult fires at most once, possibly later.
	Open(onResult func(Result))
	// Reset forgets any previous selection so the next Open starts fresh.
	Reset()
	// Dispose detaches the picker; pending results are never delivered.
	Dispose()
}

// Accepts reports whether mimeType passes the picker filter.
func Accepts(mimeType string) bool {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	for _, allowed := range MIMETypes {
		if mt == allowed {
			return true
		}
	}
	return false
}

// MIMETypeFor guesses a MIME type from the file extension.
func MIMETypeFor(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == ".mp3" {
		return "audio/mpeg"
	}
	return mime.TypeByExtension(ext)
}
