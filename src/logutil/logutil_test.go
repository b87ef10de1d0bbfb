package logutil

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, zapcore.InfoLevel)
	logger.Info("resource loaded", zap.String("file", "ring.mp3"))
	logger.Debug("dropped below level")
	_ = logger.Sync()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line, got %d: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["msg"] != "resource loaded" {
		t.Errorf("msg = %v, want %q", entry["msg"], "resource loaded")
	}
	if entry["file"] != "ring.mp3" {
		t.Errorf("file = %v, want %q", entry["file"], "ring.mp3")
	}
}

func TestRotate(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "app.log")
	for i, name := range []string{base, archiveName(base, 1), archiveName(base, 2), archiveName(base, 3)} {
		if err := os.WriteFile(name, []byte{byte('0' + i)}, 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	rotate(base)

	if _, err := os.Stat(base); !os.IsNotExist(err) {
		t.Errorf("expected base log to be moved away, stat err=%v", err)
	}
	want := map[int]string{1: "0", 2: "1", 3: "2"}
	for n, content := range want {
		b, err := os.ReadFile(archiveName(base, n))
		if err != nil {
			t.Fatalf("read archive %d: %v", n, err)
		}
		if string(b) != content {
			t.Errorf("archive %d = %q, want %q", n, b, content)
		}
	}
}

func TestRotatingWriterAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	w, err := newRotatingWriter(path)
	if err != nil {
		t.Fatalf("newRotatingWriter: %v", err)
	}
	if _, err := w.Write([]byte("hello\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Sync(); err != nil {
		t.Fatalf("sync: %v", err)
	}
	_ = w.f.Close()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != "hello\n" {
		t.Errorf("log content = %q", b)
	}
}

func TestTruncateForLog(t *testing.T) {
	if got := TruncateForLog("short.mp3", 20); got != "short.mp3" {
		t.Errorf("TruncateForLog short = %q", got)
	}
	if got := TruncateForLog("a-very-long-ringtone-name.mp3", 6); got != "a-very..." {
		t.Errorf("TruncateForLog long = %q", got)
	}
}

func TestConsoleQuiet(t *testing.T) {
	logger, err := Console(false)
	if err != nil {
		t.Fatalf("Console: %v", err)
	}
	if logger.Core().Enabled(zapcore.ErrorLevel) {
		t.Errorf("expected quiet console logger to drop everything")
	}
}
