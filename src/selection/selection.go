// Package selection owns the ringtone prompt state: whether the prompt is
// shown, which resource handle is active, and how a picked file becomes one.
package selection

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"ringtone-picker/src/events"
	"ringtone-picker/src/logutil"
	"ringtone-picker/src/picker"
	"ringtone-picker/src/resource"
)

var errNoPicker = errors.New("no file picker available")

// State is what the UI renders. Ready is true iff Resource is non-nil.
type State struct {
	Resource      *resource.Handle
	Ready         bool
	PromptVisible bool
}

// Resources derives handles from file content and releases them.
type Resources interface {
	Derive(name, mimeType string, r io.Reader) (*resource.Handle, error)
	Release(h *resource.Handle)
}

type Options struct {
	// Acquire builds the file picker; called once from Init.
	Acquire   func() (picker.Capability, error)
	Resources Resources
	Events    events.Sink
}

type Controller struct {
	acquire   func() (picker.Capability, error)
	resources Resources
	events    events.Sink
	initOnce  sync.Once

	mu       sync.Mutex
	capab    picker.Capability
	state    State
	disposed bool
	subs     map[int]func(State)
	nextSub  int
}

func New(opts Options) *Controller {
	c := &Controller{
		acquire:   opts.Acquire,
		resources: opts.Resources,
		events:    opts.Events,
		state:     State{PromptVisible: true},
		subs:      make(map[int]func(State)),
	}
	if c.resources == nil {
		c.resources = resource.NewStore(resource.DefaultMaxSize)
	}
	if c.events == nil {
		c.events = events.Discard{}
	}
	return c
}

// Init starts the session: nothing is carried over, the prompt is shown and
// the file picker is acquired. Only the first call has any effect.
func (c *Controller) Init() {
	c.initOnce.Do(c.init)
}

func (c *Controller) init() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.state = State{PromptVisible: true}
	st := c.state
	c.mu.Unlock()
	c.events.Emit(events.Event{Kind: events.Initialized})
	c.notify(st)

	if c.acquire == nil {
		c.events.Emit(events.Event{Kind: events.CapabilityFailed, Err: errNoPicker})
		return
	}
	capab, err := c.acquire()
	if err != nil || capab == nil {
		if err == nil {
			err = errNoPicker
		}
		c.events.Emit(events.Event{Kind: events.CapabilityFailed, Err: err})
		return
	}

	c.mu.Lock()
	if c.disposed {
		// closed while acquiring
		c.mu.Unlock()
		capab.Dispose()
		return
	}
	c.capab = capab
	c.mu.Unlock()
	c.events.Emit(events.Event{Kind: events.CapabilityAcquired})
}

// State returns a snapshot of the current state. After Close it is the zero
// State.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe registers fn for every state change. The returned func removes it.
func (c *Controller) Subscribe(fn func(State)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed || fn == nil {
		return func() {}
	}
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// TriggerSelection opens the picker. It is a no-op before the picker is
// acquired or after Close.
func (c *Controller) TriggerSelection() {
	c.mu.Lock()
	capab := c.capab
	disposed := c.disposed
	c.mu.Unlock()
	if disposed || capab == nil {
		return
	}

	capab.Reset()
	c.events.Emit(events.Event{Kind: events.PickerOpened})
	capab.Open(c.OnFileChosen)
}

// OnFileChosen applies the picker's result. No file means no state change.
func (c *Controller) OnFileChosen(res picker.Result) {
	if c.isDisposed() {
		c.events.Emit(events.Event{Kind: events.LateResult})
		return
	}
	if res.Err != nil {
		c.events.Emit(events.Event{Kind: events.PickerError, Err: res.Err})
	}
	if res.File == nil {
		if res.Err == nil {
			c.events.Emit(events.Event{Kind: events.PickerCancelled})
		}
		return
	}

	name := logutil.TruncateForLog(res.File.Name, 80)
	h, err := c.derive(res.File)

	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		if h != nil {
			c.resources.Release(h)
		}
		c.events.Emit(events.Event{Kind: events.LateResult, File: name})
		return
	}
	prev := c.state.Resource
	if err != nil {
		c.state = State{PromptVisible: true}
	} else {
		c.state = State{Resource: h, Ready: true, PromptVisible: false}
	}
	st := c.state
	c.mu.Unlock()

	if prev != nil && prev != h {
		c.resources.Release(prev)
		c.events.Emit(events.Event{Kind: events.ResourceReleased, File: prev.Name(), HandleID: prev.ID()})
	}
	if err != nil {
		c.events.Emit(events.Event{Kind: events.DerivationFailed, File: name, Err: err})
	} else {
		c.events.Emit(events.Event{Kind: events.ResourceLoaded, File: name, HandleID: h.ID()})
	}
	c.notify(st)
}

// RequestChange shows the prompt again; the current resource stays active
// until a new one replaces it.
func (c *Controller) RequestChange() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.state.PromptVisible = true
	st := c.state
	c.mu.Unlock()

	c.events.Emit(events.Event{Kind: events.ChangeRequested})
	c.notify(st)
}

// Close detaches the picker and releases the live handle. The state is
// cleared and later picker results are ignored. Safe to call more than once.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.disposed = true
	capab := c.capab
	c.capab = nil
	h := c.state.Resource
	c.state = State{}
	c.subs = make(map[int]func(State))
	c.mu.Unlock()

	if capab != nil {
		capab.Dispose()
	}
	if h != nil {
		c.resources.Release(h)
		c.events.Emit(events.Event{Kind: events.ResourceReleased, File: h.Name(), HandleID: h.ID()})
	}
	c.events.Emit(events.Event{Kind: events.Disposed})
}

func (c *Controller) isDisposed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disposed
}

func (c *Controller) derive(f *picker.File) (h *resource.Handle, err error) {
	rc, err := f.Open()
	if err != nil {
		return nil, &resource.DerivationError{Name: f.Name, Err: err}
	}
	defer rc.Close()

	// a panicking reader must not leave a half-installed handle behind
	defer func() {
		if r := recover(); r != nil {
			h = nil
			err = &resource.DerivationError{Name: f.Name, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	return c.resources.Derive(f.Name, f.MIMEType, rc)
}

func (c *Controller) notify(st State) {
	c.mu.Lock()
	subs := make([]func(State), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()
	for _, fn := range subs {
		fn(st)
	}
}
