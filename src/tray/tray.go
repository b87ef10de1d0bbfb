package tray

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"go.uber.org/zap"
)

type Config struct {
	Title    string
	OnShow   func()
	OnChange func()
	Logger   *zap.Logger
}

// Install adds the tray menu when the driver supports one. Returns false otherwise.
func Install(app fyne.App, cfg Config) bool {
	desk, ok := app.(desktop.App)
	if !ok {
		if cfg.Logger != nil {
			cfg.Logger.Info("driver has no system tray support")
		}
		return false
	}
	desk.SetSystemTrayMenu(Menu(cfg))
	desk.SetSystemTrayIcon(Icon)
	return true
}

// Menu builds the tray menu. fyne appends Quit itself.
func Menu(cfg Config) *fyne.Menu {
	var items []*fyne.MenuItem
	if cfg.OnShow != nil {
		items = append(items, fyne.NewMenuItem("Show", cfg.OnShow))
	}
	if cfg.OnChange != nil {
		items = append(items, fyne.NewMenuItem("Change ringtone", cfg.OnChange))
	}
	title := cfg.Title
	if title == "" {
		title = "Ringtone"
	}
	return fyne.NewMenu(title, items...)
}
