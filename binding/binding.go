// Package binding keeps settings keys and controls synchronized.
//
// Each binding owns a unique settings.Origin. Control edits are written to the
// store under that origin, and store notifications carrying it are not pushed
// back into the control. Pushes from the store into a control happen inside an
// in-flight guard so the control's own change event is not turned into a
// second store write. Together these keep every user action at exactly one
// store write.
package binding

import (
	stderrors "errors"
	"sync"
	"sync/atomic"

	"github.com/grovetools/wallprefs/schema"
	"github.com/grovetools/wallprefs/settings"
	"github.com/sirupsen/logrus"
)

// Settable is a control whose value can be set programmatically.
type Settable interface {
	SetValue(v interface{}) error
}

// Valued is a control with a readable value.
type Valued interface {
	Value() interface{}
}

// Notifier is a control that emits change events.
type Notifier interface {
	OnChange(fn func(value interface{})) func()
}

// Control is the minimum a bound control provides.
type Control interface {
	Settable
	Valued
}

// Direction of a binding.
type Direction int

const (
	// Bidirectional bindings write control edits to the store.
	Bidirectional Direction = iota
	// StoreToControl bindings only display the stored value.
	StoreToControl
)

func (d Direction) String() string {
	if d == StoreToControl {
		return "store-to-control"
	}
	return "bidirectional"
}

// errSkip is returned by a ToStore transform to drop a control event
// without writing, e.g. a drop-down with nothing selected.
var errSkip = stderrors.New("skip write")

// Option configures a binding.
type Option func(*Binding)

// WithTransform converts values on their way into the control and back into
// the store. Either function may be nil.
func WithTransform(toControl func(interface{}) interface{}, toStore func(interface{}) (interface{}, error)) Option {
	return func(b *Binding) {
		if toControl != nil {
			b.toControl = toControl
		}
		if toStore != nil {
			b.toStore = toStore
		}
	}
}

// Binding links one key with one control.
type Binding struct {
	registry  *Registry
	key       schema.Key
	control   Control
	direction Direction
	origin    settings.Origin
	logger    *logrus.Entry

	toControl func(interface{}) interface{}
	toStore   func(interface{}) (interface{}, error)

	inFlight atomic.Bool
	mu       sync.Mutex
	cancels  []func()
	closed   bool
}

// Key returns the bound settings key.
func (b *Binding) Key() schema.Key { return b.key }

// Control returns the bound control.
func (b *Binding) Control() Control { return b.control }

// Direction returns the binding direction.
func (b *Binding) Direction() Direction { return b.direction }

// Origin returns the origin tag of writes made by this binding.
func (b *Binding) Origin() settings.Origin { return b.origin }

// Unbind detaches the binding from both sides.
func (b *Binding) Unbind() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	cancels := b.cancels
	b.cancels = nil
	b.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	b.registry.forget(b)
}

// push writes a store value into the control under the in-flight guard.
func (b *Binding) push(value interface{}) {
	b.inFlight.Store(true)
	defer b.inFlight.Store(false)

	if err := b.control.SetValue(b.toControl(value)); err != nil {
		b.logger.WithError(err).Warn("Control rejected stored value")
	}
}

func (b *Binding) onStoreChange(c settings.Change) {
	if c.Origin == b.origin {
		return
	}
	b.push(c.New)
}

func (b *Binding) onControlChange(value interface{}) {
	if b.inFlight.Load() {
		return
	}

	v, err := b.toStore(value)
	if err == errSkip {
		return
	}
	if err == nil {
		err = b.registry.store.Set(b.key, v, b.origin)
	}
	if err != nil {
		b.logger.WithError(err).Warn("Failed to write control value, restoring stored value")
		b.push(b.registry.store.Get(b.key))
		return
	}
	b.registry.writes.Add(1)
}

func identity(v interface{}) interface{} { return v }

func identityErr(v interface{}) (interface{}, error) { return v, nil }
