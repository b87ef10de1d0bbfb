// Package prompt renders the ringtone selection state with fyne widgets. It
// only reads controller state and calls controller actions.
package prompt

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"ringtone-picker/src/selection"
)

const (
	noRingtoneText = "No ringtone selected"
	promptTitle    = "Choose a ringtone"
	promptText     = "Pick an MP3 file to use as your ringtone.\nIt stays loaded for this session only."
)

type Controller interface {
	State() selection.State
	Subscribe(fn func(selection.State)) func()
	TriggerSelection()
	RequestChange()
}

type View struct {
	ctrl   Controller
	window fyne.Window

	status    *widget.Label
	changeBtn *widget.Button
	chooseBtn *widget.Button
	current   *widget.Label
	prompt    *dialog.CustomDialog
	shown     bool

	unsubscribe func()
	content     fyne.CanvasObject
}

// New builds the view and subscribes it to ctrl. Renders must happen on the
// fyne main goroutine.
func New(window fyne.Window, ctrl Controller) *View {
	v := &View{ctrl: ctrl, window: window}

	v.status = widget.NewLabel(noRingtoneText)
	v.status.Wrapping = fyne.TextWrapWord
	v.changeBtn = widget.NewButtonWithIcon("Change ringtone", theme.ViewRefreshIcon(), ctrl.RequestChange)
	v.content = container.NewPadded(container.NewVBox(
		widget.NewLabelWithStyle("Ringtone", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		v.status,
		v.changeBtn,
	))

	v.chooseBtn = widget.NewButtonWithIcon("Choose MP3…", theme.FolderOpenIcon(), ctrl.TriggerSelection)
	v.chooseBtn.Importance = widget.HighImportance
	v.current = widget.NewLabel("")
	v.prompt = dialog.NewCustomWithoutButtons(promptTitle, container.NewVBox(
		widget.NewLabel(promptText),
		v.current,
		v.chooseBtn,
	), window)

	v.unsubscribe = ctrl.Subscribe(v.Render)
	v.Render(ctrl.State())
	return v
}

func (v *View) Content() fyne.CanvasObject { return v.content }

// Render updates the widgets and the prompt visibility from st.
func (v *View) Render(st selection.State) {
	if st.Ready && st.Resource != nil {
		v.status.SetText(describe(st))
		v.current.SetText("Current: " + st.Resource.Name())
		v.current.Show()
		v.changeBtn.Enable()
	} else {
		v.status.SetText(noRingtoneText)
		v.current.SetText("")
		v.current.Hide()
		v.changeBtn.Disable()
	}

	switch {
	case st.PromptVisible && !v.shown:
		v.prompt.Show()
		v.shown = true
	case !st.PromptVisible && v.shown:
		v.prompt.Hide()
		v.shown = false
	}
}

// PromptShown reports whether the selection dialog is on screen.
func (v *View) PromptShown() bool { return v.shown }

func (v *View) StatusText() string { return v.status.Text }

// Close stops listening for state changes.
func (v *View) Close() {
	if v.unsubscribe != nil {
		v.unsubscribe()
		v.unsubscribe = nil
	}
}

func describe(st selection.State) string {
	return fmt.Sprintf("%s (%s)", st.Resource.Name(), humanSize(st.Resource.Size()))
}

func humanSize(n int) string {
	switch {
	case n >= 1024*1024:
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	case n >= 1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%d B", n)
	}
}
