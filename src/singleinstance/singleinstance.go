package singleinstance

// This file defines the API for single-instance ownership and command delegation.

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Command is what a second launch asks the resident to do.
type Command string

const (
	// CommandShow brings the resident window forward.
	CommandShow Command = "SHOW"
	// CommandChange re-opens the ringtone prompt in the resident.
	CommandChange Command = "CHANGE"
)

// ParseCommand accepts one protocol line, with or without the newline.
func ParseCommand(line string) (Command, error) {
	switch c := Command(strings.ToUpper(strings.TrimSpace(line))); c {
	case CommandShow, CommandChange:
		return c, nil
	default:
		return "", fmt.Errorf("unknown command %q", strings.TrimSpace(line))
	}
}

// Server owns the TCP endpoint and answers delegated commands.
type Server interface {
	// Start begins listening on the first port of the configured range.
	Start(ctx context.Context) error
	// Port returns the bound TCP port, or 0 if not started.
	Port() int
	// Next returns the next accepted connection as a Conn, or ctx error.
	Next(ctx context.Context) (Conn, error)
	// Close releases ownership and stops accepting clients.
	Close() error
}

// Conn represents one client connection carrying a single command.
type Conn interface {
	Command() Command
	// Ack tells the client the command was handled.
	Ack() error
	// Fail sends a human-readable error.
	Fail(msg string) error
	Close() error
}

// Client delegates a command to a resident instance.
type Client interface {
	// Send scans the port range, performs the handshake and delivers cmd.
	// If no resident is found, returns delegated=false, err=nil.
	Send(ctx context.Context, cmd Command) (delegated bool, err error)
}

// NewServer returns the TCP implementation. A nil logger discards output.
func NewServer(logger *zap.Logger) Server { return newTcpServer(logger) }

// NewClient returns TCP implementation.
func NewClient() Client { return newTcpClient() }
