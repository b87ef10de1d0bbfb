package prompt

import (
	"testing"

	"fyne.io/fyne/v2/test"

	"ringtone-picker/src/picker"
	"ringtone-picker/src/picker/pickertest"
	"ringtone-picker/src/selection"
)

func newView(t *testing.T) (*View, *selection.Controller, *pickertest.Fake) {
	t.Helper()
	test.NewTempApp(t)
	w := test.NewWindow(nil)
	t.Cleanup(w.Close)

	fake := &pickertest.Fake{}
	ctrl := selection.New(selection.Options{
		Acquire: func() (picker.Capability, error) { return fake, nil },
	})
	ctrl.Init()
	t.Cleanup(ctrl.Close)

	v := New(w, ctrl)
	w.SetContent(v.Content())
	t.Cleanup(v.Close)
	return v, ctrl, fake
}

func TestInitialRender(t *testing.T) {
	v, _, _ := newView(t)
	if !v.PromptShown() {
		t.Errorf("prompt should be shown on startup")
	}
	if v.StatusText() != noRingtoneText {
		t.Errorf("status = %q", v.StatusText())
	}
	if !v.changeBtn.Disabled() {
		t.Errorf("change button should be disabled without a ringtone")
	}
}

func TestChooseFlow(t *testing.T) {
	v, ctrl, fake := newView(t)

	test.Tap(v.chooseBtn)
	if fake.Opens() != 1 {
		t.Fatalf("choose button should open the picker")
	}
	fake.Choose("bell.mp3", "ID3bell")

	if v.PromptShown() {
		t.Errorf("prompt should hide after a successful pick")
	}
	if v.StatusText() != "bell.mp3 (7 B)" {
		t.Errorf("status = %q", v.StatusText())
	}

	test.Tap(v.changeBtn)
	if !v.PromptShown() {
		t.Errorf("change should re-open the prompt")
	}
	if !ctrl.State().Ready {
		t.Errorf("change must keep the current ringtone")
	}
	if v.current.Text != "Current: bell.mp3" {
		t.Errorf("current label = %q", v.current.Text)
	}
}

func TestCloseUnsubscribes(t *testing.T) {
	v, ctrl, fake := newView(t)
	v.Close()

	ctrl.TriggerSelection()
	fake.Choose("bell.mp3", "x")

	if !v.PromptShown() {
		t.Errorf("closed view must not re-render")
	}
}

func TestHumanSize(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{12, "12 B"},
		{2048, "2.0 KB"},
		{3 * 1024 * 1024, "3.0 MB"},
	}
	for _, tt := range tests {
		if got := humanSize(tt.n); got != tt.want {
			t.Errorf("humanSize(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
