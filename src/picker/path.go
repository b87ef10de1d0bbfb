package picker

import (
	"io"
	"os"
	"path/filepath"
)

// PathCapability "picks" a fixed file without any UI. Files outside the MIME
// filter are reported as no selection, as the native picker would not offer them.
type PathCapability struct {
	Tracker
	path  string
	stdin io.Reader
}

// NewPathCapability picks path; "-" reads the content from stdin.
func NewPathCapability(path string, stdin io.Reader) *PathCapability {
	return &PathCapability{path: path, stdin: stdin}
}

func (p *PathCapability) Open(onResult func(Result)) {
	req := p.Begin(onResult)
	if req == nil {
		return
	}
	req.Complete(p.pick())
}

func (p *PathCapability) pick() Result {
	if p.path == "-" {
		if p.stdin == nil {
			return Result{Err: ErrNoContent}
		}
		stdin := p.stdin
		return Result{File: NewFile("stdin.mp3", "audio/mpeg", func() (io.ReadCloser, error) {
			return io.NopCloser(stdin), nil
		})}
	}

	st, err := os.Stat(p.path)
	if err != nil {
		return Result{Err: err}
	}
	if st.IsDir() {
		return Result{}
	}
	name := filepath.Base(p.path)
	mimeType := MIMETypeFor(name)
	if !Accepts(mimeType) {
		return Result{}
	}
	path := p.path
	return Result{File: NewFile(name, mimeType, func() (io.ReadCloser, error) {
		return os.Open(path)
	})}
}
