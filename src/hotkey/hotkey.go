package hotkey

import (
	"fmt"
	"strings"
	"sync"

	gohook "github.com/robotn/gohook"
	"go.uber.org/zap"
)

// Combo is a parsed hotkey such as Ctrl+Alt+R.
type Combo struct {
	Raw  string
	keys []key
}

type key struct {
	name     string
	rawcodes []uint16
}

// Parse turns "Ctrl+Alt+R" into a Combo. Unknown key names are an error.
func Parse(s string) (Combo, error) {
	combo := Combo{Raw: s}
	for _, part := range strings.Split(strings.ToLower(s), "+") {
		name := normalizeKeyName(part)
		if name == "" {
			return Combo{}, fmt.Errorf("hotkey %q: empty key", s)
		}
		codes := keyNameToRawcodes(name)
		if len(codes) == 0 {
			return Combo{}, fmt.Errorf("hotkey %q: unknown key %q", s, name)
		}
		combo.keys = append(combo.keys, key{name: name, rawcodes: codes})
	}
	return combo, nil
}

// Keys returns the normalized key names.
func (c Combo) Keys() []string {
	names := make([]string, len(c.keys))
	for i, k := range c.keys {
		names[i] = k.name
	}
	return names
}

// matcher tracks pressed keys and reports when the whole combo is down.
type matcher struct {
	mu      sync.Mutex
	combo   Combo
	pressed []bool
}

func newMatcher(c Combo) *matcher {
	return &matcher{combo: c, pressed: make([]bool, len(c.keys))}
}

// keyDown returns true when rawcode completes the combination; state resets then.
func (m *matcher) keyDown(rawcode uint16) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, k := range m.combo.keys {
		if hasCode(k.rawcodes, rawcode) {
			m.pressed[i] = true
		}
	}
	for _, p := range m.pressed {
		if !p {
			return false
		}
	}
	for i := range m.pressed {
		m.pressed[i] = false
	}
	return true
}

func (m *matcher) keyUp(rawcode uint16) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, k := range m.combo.keys {
		if hasCode(k.rawcodes, rawcode) {
			m.pressed[i] = false
		}
	}
}

func hasCode(codes []uint16, c uint16) bool {
	for _, code := range codes {
		if code == c {
			return true
		}
	}
	return false
}

// Listen registers a global hotkey and calls callback from the hook goroutine
// each time the combo is pressed. The returned stop func ends the hook.
// A nil logger discards output.
func Listen(hotkeyConfig string, logger *zap.Logger, callback func()) (func(), error) {
	combo, err := Parse(hotkeyConfig)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("hotkey")
	logger.Info("listener configured", zap.String("combo", combo.Raw), zap.Any("keys", combo.Keys()))

	m := newMatcher(combo)
	evChan := gohook.Start()
	if evChan == nil {
		return nil, fmt.Errorf("hotkey %q: gohook.Start returned nil channel", hotkeyConfig)
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic in hook goroutine", zap.Any("panic", r))
			}
		}()
		for ev := range evChan {
			switch ev.Kind {
			case gohook.KeyDown:
				if m.keyDown(ev.Rawcode) && callback != nil {
					logger.Debug("activated", zap.String("combo", combo.Raw))
					callback()
				}
			case gohook.KeyUp:
				m.keyUp(ev.Rawcode)
			}
		}
		logger.Debug("event channel closed")
	}()

	var once sync.Once
	return func() { once.Do(gohook.End) }, nil
}

func normalizeKeyName(part string) string {
	part = strings.ToLower(strings.TrimSpace(part))
	switch part {
	case "control":
		return "ctrl"
	case "option":
		return "alt"
	case "win", "super", "meta":
		return "cmd"
	case "return":
		return "enter"
	case "escape":
		return "esc"
	case "del":
		return "delete"
	case "ins":
		return "insert"
	case "pgup":
		return "pageup"
	case "pgdn":
		return "pagedown"
	}
	return part
}

// Windows virtual key codes; modifiers list both left and right variants.
var namedKeys = map[string][]uint16{
	"ctrl":  {162, 163}, // VK_LCONTROL, VK_RCONTROL
	"alt":   {164, 165}, // VK_LMENU, VK_RMENU
	"shift": {160, 161}, // VK_LSHIFT, VK_RSHIFT
	"cmd":   {91, 92},   // VK_LWIN, VK_RWIN

	"space":     {32},
	"enter":     {13},
	"esc":       {27},
	"tab":       {9},
	"backspace": {8},
	"delete":    {46},
	"insert":    {45},
	"home":      {36},
	"end":       {35},
	"pageup":    {33},
	"pagedown":  {34},
	"left":      {37},
	"up":        {38},
	"right":     {39},
	"down":      {40},
}

func keyNameToRawcodes(name string) []uint16 {
	if codes, ok := namedKeys[name]; ok {
		return codes
	}
	if len(name) == 1 {
		c := name[0]
		switch {
		case c >= 'a' && c <= 'z':
			return []uint16{uint16(c-'a') + 65}
		case c >= '0' && c <= '9':
			return []uint16{uint16(c-'0') + 48}
		}
	}
	var n int
	if _, err := fmt.Sscanf(name, "f%d", &n); err == nil && n >= 1 && n <= 24 && name == fmt.Sprintf("f%d", n) {
		return []uint16{uint16(111 + n)} // VK_F1 = 112
	}
	return nil
}
