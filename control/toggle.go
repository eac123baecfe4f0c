package control

import "sync"

// Toggle is a boolean switch.
type Toggle struct {
	notifier
	name   string
	mu     sync.Mutex
	active bool
}

// NewToggle returns an inactive toggle.
func NewToggle(name string) *Toggle {
	return &Toggle{name: name}
}

// Name identifies the control.
func (t *Toggle) Name() string { return t.name }

// Active reports the switch state.
func (t *Toggle) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// Value returns the switch state as a bool.
func (t *Toggle) Value() interface{} { return t.Active() }

// SetActive flips the switch, emitting a change when the state differs.
func (t *Toggle) SetActive(active bool) {
	t.mu.Lock()
	if t.active == active {
		t.mu.Unlock()
		return
	}
	t.active = active
	t.mu.Unlock()
	t.emit(active)
}

// SetValue accepts a bool.
func (t *Toggle) SetValue(v interface{}) error {
	b, ok := v.(bool)
	if !ok {
		return typeError(t.name, "bool", v)
	}
	t.SetActive(b)
	return nil
}
