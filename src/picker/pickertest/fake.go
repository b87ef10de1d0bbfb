// Package pickertest provides a picker.Capability driven by tests.
package pickertest

import (
	"io"
	"strings"
	"sync"

	"ringtone-picker/src/picker"
)

// Fake records every Open and lets the test complete requests on demand.
type Fake struct {
	picker.Tracker

	mu       sync.Mutex
	requests []*picker.Request
	resets   int
	disposes int
}

func (f *Fake) Open(onResult func(picker.Result)) {
	req := f.Begin(onResult)
	if req == nil {
		return
	}
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
}

func (f *Fake) Reset() {
	f.mu.Lock()
	f.resets++
	f.mu.Unlock()
	f.Tracker.Reset()
}

func (f *Fake) Dispose() {
	f.mu.Lock()
	f.disposes++
	f.mu.Unlock()
	f.Tracker.Dispose()
}

// Opens is the number of requests the fake accepted.
func (f *Fake) Opens() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *Fake) Resets() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resets
}

func (f *Fake) Disposes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.disposes
}

// Last returns the most recent request, or nil.
func (f *Fake) Last() *picker.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return nil
	}
	return f.requests[len(f.requests)-1]
}

// Choose completes the latest request with an in-memory file.
func (f *Fake) Choose(name, content string) bool {
	req := f.Last()
	if req == nil {
		return false
	}
	return req.Complete(picker.Result{File: File(name, content)})
}

// Cancel completes the latest request with no file.
func (f *Fake) Cancel() bool {
	req := f.Last()
	if req == nil {
		return false
	}
	return req.Complete(picker.Result{})
}

// File builds an in-memory MP3 picker.File.
func File(name, content string) *picker.File {
	return picker.NewFile(name, "audio/mpeg", func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(content)), nil
	})
}

// Unreadable builds a picker.File whose bytes cannot be opened.
func Unreadable(name string, err error) *picker.File {
	return picker.NewFile(name, "audio/mpeg", func() (io.ReadCloser, error) {
		return nil, err
	})
}
