package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultHotkey        = "Ctrl+Alt+R"
	DefaultMaxFileSizeMB = 20
	DefaultWindowTitle   = "Ringtone"
	AppID                = "io.github.ringtonepicker"
	EnvPathEnvVar        = "RINGTONE_PICKER"
	HotkeyDisabled       = "none"
)

type LoadOptions struct {
	EnvPathOverride string
	HotkeyOverride  string
}

type Config struct {
	EnableFileLogging bool
	Hotkey            string
	MaxFileSizeMB     int
	WindowTitle       string
	EnvPath           string
}

// MaxFileSize returns the derivation limit in bytes.
func (c *Config) MaxFileSize() int64 {
	return int64(c.MaxFileSizeMB) * 1024 * 1024
}

// HotkeyEnabled reports whether a global change hotkey should be registered.
func (c *Config) HotkeyEnabled() bool {
	h := strings.TrimSpace(c.Hotkey)
	return h != "" && !strings.EqualFold(h, HotkeyDisabled)
}

func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{})
}

func LoadWithOptions(opts LoadOptions) (*Config, error) {
	// Sources in priority order:
	// 1) explicit override path
	// 2) .env in the executable directory
	// 3) file named by RINGTONE_PICKER
	envPath := resolveEnvPath(opts.EnvPathOverride)
	if envPath != "" {
		_ = godotenv.Load(envPath)
	}

	maxSizeMB := DefaultMaxFileSizeMB
	if v := os.Getenv("MAX_FILE_SIZE_MB"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
			maxSizeMB = n
		}
	}

	hotkey := getEnvWithDefault("HOTKEY", DefaultHotkey)
	if override := strings.TrimSpace(opts.HotkeyOverride); override != "" {
		hotkey = override
	}

	cfg := &Config{
		EnableFileLogging: strings.ToLower(os.Getenv("ENABLE_FILE_LOGGING")) == "true",
		Hotkey:            hotkey,
		MaxFileSizeMB:     maxSizeMB,
		WindowTitle:       getEnvWithDefault("WINDOW_TITLE", DefaultWindowTitle),
		EnvPath:           envPath,
	}

	return cfg, nil
}

func resolveEnvPath(override string) string {
	if override = strings.TrimSpace(override); override != "" {
		if _, err := os.Stat(override); err == nil {
			return override
		}
	}

	if execPath, err := os.Executable(); err == nil {
		exeEnv := filepath.Join(filepath.Dir(execPath), ".env")
		if _, err := os.Stat(exeEnv); err == nil {
			return exeEnv
		}
	}

	if alt := os.Getenv(EnvPathEnvVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	return ""
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}
