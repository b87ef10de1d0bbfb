package tray

import (
	_ "embed"

	"fyne.io/fyne/v2"
)

//go:embed icon.svg
var iconSVG []byte

// Icon is the bell icon shared by the window and the system tray.
var Icon fyne.Resource = fyne.NewStaticResource("ringtone.svg", iconSVG)
