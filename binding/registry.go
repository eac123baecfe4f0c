package binding

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/grovetools/wallprefs/control"
	"github.com/grovetools/wallprefs/errors"
	"github.com/grovetools/wallprefs/logging"
	"github.com/grovetools/wallprefs/schema"
	"github.com/grovetools/wallprefs/settings"
	"github.com/sirupsen/logrus"
)

type ownerKey struct {
	key     schema.Key
	control Control
}

// Registry creates and tracks the bindings of one store.
type Registry struct {
	store  *settings.Store
	logger *logrus.Entry
	writes atomic.Int64

	mu       sync.Mutex
	bindings []*Binding
	owners   map[ownerKey]*Binding
}

// NewRegistry returns a registry for store.
func NewRegistry(store *settings.Store) *Registry {
	return &Registry{
		store:  store,
		logger: logging.NewLogger("binding").WithField("schema", store.Schema().ID()),
		owners: make(map[ownerKey]*Binding),
	}
}

// Bind links key and ctrl. The control is initialised from the store before
// Bind returns. Enum keys bound to an empty ComboBox get the key's domain as
// choices.
func (r *Registry) Bind(key schema.Key, ctrl Control, direction Direction, opts ...Option) (*Binding, error) {
	def, err := r.store.Schema().MustLookup(key)
	if err != nil {
		return nil, err
	}

	var notifier Notifier
	if direction == Bidirectional {
		n, ok := ctrl.(Notifier)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				fmt.Sprintf("control %T bound to %s cannot report edits", ctrl, key))
		}
		notifier = n
	}

	if cb, ok := ctrl.(*control.ComboBox); ok && def.Domain != nil && cb.Len() == 0 {
		cb.SetChoices(def.Domain.Choices())
	}

	b := &Binding{
		registry:  r,
		key:       key,
		control:   ctrl,
		direction: direction,
		origin:    settings.NewOrigin("binding:" + string(key)),
		toControl: identity,
		toStore:   identityErr,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = r.logger.WithFields(logrus.Fields{
		"key":       key,
		"direction": direction.String(),
		"origin":    b.origin,
	})

	r.mu.Lock()
	if direction == Bidirectional {
		owner := ownerKey{key: key, control: ctrl}
		if _, taken := r.owners[owner]; taken {
			r.mu.Unlock()
			return nil, errors.BindingConflict(string(key))
		}
		r.owners[owner] = b
	}
	r.bindings = append(r.bindings, b)
	r.mu.Unlock()

	b.push(r.store.Get(key))

	unsubscribe, err := r.store.Subscribe(key, b.onStoreChange)
	if err != nil {
		b.Unbind()
		return nil, err
	}
	b.mu.Lock()
	b.cancels = append(b.cancels, unsubscribe)
	if notifier != nil {
		b.cancels = append(b.cancels, notifier.OnChange(b.onControlChange))
	}
	b.mu.Unlock()

	b.logger.Debug("Bound control")
	return b, nil
}

// BindIndexed links an enum key with a position-based drop-down through
// domain, which is the only mapping between positions and values. A stored
// value outside the domain leaves the drop-down without a selection; the
// validator is responsible for repairing it.
func (r *Registry) BindIndexed(key schema.Key, dd *control.DropDown, domain *schema.DomainList) (*Binding, error) {
	if dd.Len() == 0 {
		dd.SetItems(domain.Labels())
	}
	return r.Bind(key, dd, Bidirectional, WithTransform(
		func(v interface{}) interface{} {
			s, _ := v.(string)
			return domain.IndexOf(s)
		},
		func(v interface{}) (interface{}, error) {
			i, _ := v.(int)
			value, ok := domain.ValueAt(i)
			if !ok {
				return nil, errSkip
			}
			return value, nil
		},
	))
}

// BindLabel displays key in label. format may be nil.
func (r *Registry) BindLabel(key schema.Key, label Control, format func(interface{}) string) (*Binding, error) {
	var opts []Option
	if format != nil {
		opts = append(opts, WithTransform(func(v interface{}) interface{} { return format(v) }, nil))
	}
	return r.Bind(key, label, StoreToControl, opts...)
}

// Bindings returns the live bindings.
func (r *Registry) Bindings() []*Binding {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Binding(nil), r.bindings...)
}

// Writes counts store writes made by bindings on behalf of controls.
func (r *Registry) Writes() int64 { return r.writes.Load() }

// Close unbinds everything.
func (r *Registry) Close() {
	for _, b := range r.Bindings() {
		b.Unbind()
	}
}

func (r *Registry) forget(b *Binding) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.owners[ownerKey{key: b.key, control: b.control}] == b {
		delete(r.owners, ownerKey{key: b.key, control: b.control})
	}
	for i, other := range r.bindings {
		if other == b {
			r.bindings = append(r.bindings[:i], r.bindings[i+1:]...)
			break
		}
	}
}
