// Package fynepicker implements picker.Capability with the fyne file-open dialog.
package fynepicker

import (
	"io"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"

	"ringtone-picker/src/picker"
)

// Dialog is the native file-open dialog limited to picker.MIMETypes.
type Dialog struct {
	picker.Tracker
	window fyne.Window
	filter storage.FileFilter
	active *dialog.FileDialog
}

func New(window fyne.Window) *Dialog {
	return &Dialog{
		window: window,
		filter: storage.NewMimeTypeFileFilter(picker.MIMETypes),
	}
}

// Open builds a fresh dialog per request so no stale selection is reused.
func (d *Dialog) Open(onResult func(picker.Result)) {
	req := d.Begin(onResult)
	if req == nil {
		return
	}
	d.hide()
	fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		req.Complete(resultFromReader(rc, err))
	}, d.window)
	fd.SetFilter(d.filter)
	d.active = fd
	fd.Show()
}

func (d *Dialog) Reset() {
	d.Tracker.Reset()
	d.hide()
}

func (d *Dialog) Dispose() {
	d.Tracker.Dispose()
	d.hide()
}

func (d *Dialog) hide() {
	if d.active != nil {
		d.active.Hide()
		d.active = nil
	}
}

func resultFromReader(rc fyne.URIReadCloser, err error) picker.Result {
	if err != nil {
		return picker.Result{Err: err}
	}
	if rc == nil {
		return picker.Result{}
	}
	uri := rc.URI()
	_ = rc.Close()
	mimeType := uri.MimeType()
	if mimeType == "" {
		mimeType = picker.MIMETypeFor(uri.Name())
	}
	return picker.Result{File: picker.NewFile(uri.Name(), mimeType, func() (io.ReadCloser, error) {
		return storage.Reader(uri)
	})}
}
