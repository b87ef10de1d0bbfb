package singleinstance

import (
	"context"
	"strconv"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line    string
		want    Command
		wantErr bool
	}{
		{"SHOW\n", CommandShow, false},
		{"change", CommandChange, false},
		{"STDOUT\n", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseCommand(tt.line)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseCommand(%q) = %q, %v", tt.line, got, err)
		}
	}
}

func TestPortRange(t *testing.T) {
	t.Setenv("RINGTONE_PORT_START", "70000")
	t.Setenv("RINGTONE_PORT_END", "80")
	start, end := PortRange()
	if start != 1024 || end != 65535 {
		t.Errorf("clamped range = %d..%d", start, end)
	}

	t.Setenv("RINGTONE_PORT_START", "")
	t.Setenv("RINGTONE_PORT_END", "")
	start, end = PortRange()
	if start != defaultPortStart || end != defaultPortEnd {
		t.Errorf("default range = %d..%d", start, end)
	}
}

func useTestPort(t *testing.T, port int) {
	t.Helper()
	t.Setenv("RINGTONE_PORT_START", strconv.Itoa(port))
	t.Setenv("RINGTONE_PORT_END", strconv.Itoa(port))
}

func TestServerClientRoundTrip(t *testing.T) {
	useTestPort(t, 49591)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	core, logs := observer.New(zapcore.InfoLevel)
	srv := NewServer(zap.New(core))
	if err := srv.Start(ctx); err != nil {
		t.Skipf("loopback TCP unavailable in this environment: %v", err)
	}
	defer srv.Close()
	if logs.FilterMessage("listening").Len() != 1 {
		t.Errorf("expected a listening log entry, got %v", logs.All())
	}

	type sendResult struct {
		delegated bool
		err       error
	}
	resCh := make(chan sendResult, 1)
	go func() {
		delegated, err := NewClient().Send(ctx, CommandChange)
		resCh <- sendResult{delegated, err}
	}()

	conn, err := srv.Next(ctx)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if conn.Command() != CommandChange {
		t.Errorf("command = %q, want CHANGE", conn.Command())
	}
	if err := conn.Ack(); err != nil {
		t.Fatalf("ack: %v", err)
	}
	_ = conn.Close()

	res := <-resCh
	if !res.delegated || res.err != nil {
		t.Errorf("client result = %+v", res)
	}
}

func TestServerFailReachesClient(t *testing.T) {
	useTestPort(t, 49592)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv := NewServer(zap.NewNop())
	if err := srv.Start(ctx); err != nil {
		t.Skipf("loopback TCP unavailable in this environment: %v", err)
	}
	defer srv.Close()

	errCh := make(chan error, 1)
	go func() {
		_, err := NewClient().Send(ctx, CommandShow)
		errCh <- err
	}()

	conn, err := srv.Next(ctx)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	_ = conn.Fail("window unavailable")
	_ = conn.Close()

	if err := <-errCh; err == nil || err.Error() != "window unavailable" {
		t.Errorf("client err = %v", err)
	}
}

func TestClientWithoutResident(t *testing.T) {
	useTestPort(t, 49593)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	delegated, err := NewClient().Send(ctx, CommandShow)
	if delegated || err != nil {
		t.Errorf("expected no resident, got delegated=%v err=%v", delegated, err)
	}
}

func TestNextAfterClose(t *testing.T) {
	srv := NewServer(zap.NewNop())
	_ = srv.Close()
	if _, err := srv.Next(context.Background()); err != ErrServerClosed {
		t.Errorf("Next after Close = %v, want ErrServerClosed", err)
	}
	if err := srv.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}
