package runtimeinit

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"ringtone-picker/src/config"
)

func TestBootstrap(t *testing.T) {
	t.Setenv("ENABLE_FILE_LOGGING", "true")
	t.Setenv("HOTKEY", "")

	core, logs := observer.New(zapcore.InfoLevel)
	var gotEnable bool
	cfg, logger, err := Bootstrap(Options{SetupLogging: func(enable bool) *zap.Logger {
		gotEnable = enable
		return zap.New(core)
	}})
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if !gotEnable {
		t.Errorf("SetupLogging should receive ENABLE_FILE_LOGGING")
	}
	if cfg.Hotkey != config.DefaultHotkey {
		t.Errorf("hotkey = %q", cfg.Hotkey)
	}
	if logger == nil || logs.FilterMessage("configuration loaded").Len() != 1 {
		t.Errorf("expected configuration log entry")
	}
}

func TestBootstrapRejectsBadHotkey(t *testing.T) {
	t.Setenv("HOTKEY", "Ctrl+Hyper")
	if _, _, err := Bootstrap(Options{}); err == nil {
		t.Errorf("expected invalid hotkey error")
	}
}

func TestBootstrapHotkeyDisabled(t *testing.T) {
	_, logger, err := Bootstrap(Options{LoadOptions: config.LoadOptions{HotkeyOverride: "none"}})
	if err != nil {
		t.Fatalf("disabled hotkey must not be parsed: %v", err)
	}
	if logger == nil {
		t.Errorf("Bootstrap must always return a logger")
	}
}
