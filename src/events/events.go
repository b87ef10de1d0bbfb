// Package events carries structured selection events out of the controller.
package events

import (
	"sync"

	"go.uber.org/zap"
)

type Kind string

const (
	Initialized        Kind = "initialized"
	CapabilityAcquired Kind = "capability_acquired"
	CapabilityFailed   Kind = "capability_failed"
	PickerOpened       Kind = "picker_opened"
	PickerCancelled    Kind = "picker_cancelled"
	PickerError        Kind = "picker_error"
	ResourceLoaded     Kind = "resource_loaded"
	ResourceReleased   Kind = "resource_released"
	DerivationFailed   Kind = "derivation_failed"
	ChangeRequested    Kind = "change_requested"
	LateResult         Kind = "late_result"
	Disposed           Kind = "disposed"
)

// Event is one observable step of the selection flow.
type Event struct {
	Kind     Kind
	File     string
	HandleID string
	Err      error
}

type Sink interface {
	Emit(Event)
}

// Discard drops every event.
type Discard struct{}

func (Discard) Emit(Event) {}

// ZapSink writes events as structured log entries.
type ZapSink struct {
	logger *zap.Logger
}

func NewZapSink(logger *zap.Logger) *ZapSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapSink{logger: logger.Named("selection")}
}

func (s *ZapSink) Emit(ev Event) {
	fields := []zap.Field{zap.String("event", string(ev.Kind))}
	if ev.File != "" {
		fields = append(fields, zap.String("file", ev.File))
	}
	if ev.HandleID != "" {
		fields = append(fields, zap.String("handle", ev.HandleID))
	}
	if ev.Err != nil {
		fields = append(fields, zap.Error(ev.Err))
	}

	switch ev.Kind {
	case CapabilityFailed, PickerError, DerivationFailed:
		s.logger.Warn(message(ev.Kind), fields...)
	case LateResult:
		s.logger.Debug(message(ev.Kind), fields...)
	default:
		s.logger.Info(message(ev.Kind), fields...)
	}
}

func message(k Kind) string {
	switch k {
	case Initialized:
		return "session started, prompting for ringtone"
	case CapabilityAcquired:
		return "file picker ready"
	case CapabilityFailed:
		return "file picker unavailable"
	case PickerOpened:
		return "file picker opened"
	case PickerCancelled:
		return "file picker closed without a selection"
	case PickerError:
		return "file picker reported an error"
	case ResourceLoaded:
		return "ringtone loaded (session only)"
	case ResourceReleased:
		return "ringtone released"
	case DerivationFailed:
		return "failed to process ringtone file"
	case ChangeRequested:
		return "ringtone change requested"
	case LateResult:
		return "ignored picker result after teardown"
	case Disposed:
		return "selection controller disposed"
	default:
		return string(k)
	}
}

// Recorder keeps every emitted event in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Emit(ev Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Count returns how many events of kind k were recorded.
func (r *Recorder) Count(k Kind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ev := range r.events {
		if ev.Kind == k {
			n++
		}
	}
	return n
}
