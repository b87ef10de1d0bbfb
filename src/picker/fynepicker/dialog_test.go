package fynepicker

import (
	"errors"
	"testing"

	"fyne.io/fyne/v2/test"

	"ringtone-picker/src/picker"
)

var _ picker.Capability = (*Dialog)(nil)

func TestResultFromReaderBranches(t *testing.T) {
	boom := errors.New("portal unavailable")
	if res := resultFromReader(nil, boom); !errors.Is(res.Err, boom) || res.File != nil {
		t.Errorf("error branch = %+v", res)
	}
	if res := resultFromReader(nil, nil); res.Err != nil || res.File != nil {
		t.Errorf("cancel branch = %+v", res)
	}
}

func TestDisposedDialogDoesNotOpen(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()
	w := test.NewWindow(nil)
	defer w.Close()

	d := New(w)
	d.Open(func(picker.Result) {})
	if d.active == nil {
		t.Fatalf("Open should show a dialog")
	}
	d.Reset()
	if d.active != nil {
		t.Errorf("Reset should hide the active dialog")
	}

	d.Dispose()
	d.Open(func(picker.Result) {})
	if d.active != nil {
		t.Errorf("disposed capability must not show a dialog")
	}
}
