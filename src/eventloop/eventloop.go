package eventloop

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"ringtone-picker/src/singleinstance"
)

// Actions are the UI-side operations the loop can request.
type Actions interface {
	RequestChange()
}

// Loop funnels input that arrives off the UI thread (second launches, global
// hotkey) into UI actions. Every action runs through post.
type Loop struct {
	srv      singleinstance.Server
	actions  Actions
	post     func(func())
	show     func()
	logger   *zap.Logger
	hotkeyCh chan struct{}
}

type Options struct {
	Server  singleinstance.Server
	Actions Actions
	// Post schedules fn on the UI thread (fyne.Do in the app).
	Post func(fn func())
	// Show brings the main window forward.
	Show   func()
	Logger *zap.Logger
}

func New(opts Options) *Loop {
	post := opts.Post
	if post == nil {
		post = func(fn func()) { fn() }
	}
	show := opts.Show
	if show == nil {
		show = func() {}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loop{
		srv:      opts.Server,
		actions:  opts.Actions,
		post:     post,
		show:     show,
		logger:   logger.Named("eventloop"),
		hotkeyCh: make(chan struct{}, 4),
	}
}

// HotkeyPressed is safe to call from any goroutine; extra presses are dropped
// while the loop is busy.
func (l *Loop) HotkeyPressed() {
	select {
	case l.hotkeyCh <- struct{}{}:
	default:
	}
}

// Run processes commands and hotkey presses until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	conns := make(chan singleinstance.Conn)
	if l.srv != nil {
		go l.acceptConns(ctx, conns)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.hotkeyCh:
			l.logger.Info("hotkey pressed, requesting change")
			l.postAndWait(ctx, func() {
				l.show()
				l.actions.RequestChange()
			})
		case conn := <-conns:
			l.handleConn(ctx, conn)
		}
	}
}

func (l *Loop) acceptConns(ctx context.Context, out chan<- singleinstance.Conn) {
	for {
		conn, err := l.srv.Next(ctx)
		if err != nil {
			if !errors.Is(err, context.Canceled) && !errors.Is(err, singleinstance.ErrServerClosed) {
				l.logger.Warn("accept stopped", zap.Error(err))
			}
			return
		}
		select {
		case out <- conn:
		case <-ctx.Done():
			_ = conn.Close()
			return
		}
	}
}

func (l *Loop) handleConn(ctx context.Context, conn singleinstance.Conn) {
	defer conn.Close()
	cmd := conn.Command()
	l.logger.Info("delegated command", zap.String("command", string(cmd)))

	var fn func()
	switch cmd {
	case singleinstance.CommandShow:
		fn = l.show
	case singleinstance.CommandChange:
		fn = func() {
			l.show()
			l.actions.RequestChange()
		}
	default:
		_ = conn.Fail("unsupported command")
		return
	}

	if !l.postAndWait(ctx, fn) {
		_ = conn.Fail("shutting down")
		return
	}
	if err := conn.Ack(); err != nil {
		l.logger.Warn("ack failed", zap.String("command", string(cmd)), zap.Error(err))
	}
}

// postAndWait runs fn via post and waits for it. False if ctx ended first.
func (l *Loop) postAndWait(ctx context.Context, fn func()) bool {
	done := make(chan struct{})
	l.post(func() {
		defer close(done)
		fn()
	})
	select {
	case <-done:
		return true
	case <-ctx.Done():
		return false
	}
}
