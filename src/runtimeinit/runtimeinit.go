package runtimeinit

import (
	"fmt"

	"go.uber.org/zap"

	"ringtone-picker/src/config"
	"ringtone-picker/src/hotkey"
)

type Options struct {
	LoadOptions  config.LoadOptions
	SetupLogging func(bool) *zap.Logger
}

// Bootstrap loads configuration, sets up logging and validates what the
// resident needs before any window is created.
func Bootstrap(opts Options) (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadWithOptions(opts.LoadOptions)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := zap.NewNop()
	if opts.SetupLogging != nil {
		if l := opts.SetupLogging(cfg.EnableFileLogging); l != nil {
			logger = l
		}
	}

	if cfg.HotkeyEnabled() {
		if _, err := hotkey.Parse(cfg.Hotkey); err != nil {
			return nil, nil, fmt.Errorf("invalid HOTKEY: %w", err)
		}
	}

	logger.Info("configuration loaded",
		zap.String("env_path", cfg.EnvPath),
		zap.String("hotkey", cfg.Hotkey),
		zap.Int("max_file_size_mb", cfg.MaxFileSizeMB),
	)
	return cfg, logger, nil
}
