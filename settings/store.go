// Package settings implements the typed settings store: a persistent
// key/value mapping with per-key change notification. Every write carries an
// Origin so listeners (bindings, the validator) can suppress echoes.
//
// Notifications are queued and drained by a single dispatcher. A handler that
// writes to the store enqueues its own change instead of recursing, so
// handlers never run concurrently and always observe changes in commit order.
package settings

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/grovetools/wallprefs/errors"
	"github.com/grovetools/wallprefs/logging"
	"github.com/grovetools/wallprefs/schema"
	"github.com/sirupsen/logrus"
)

// Store is a typed settings store bound to one schema.
type Store struct {
	schema  *schema.Schema
	backend Backend
	logger  *logrus.Entry

	// ioMu serialises backend access: a reload's load and diff never
	// interleave with a batch's commit and save.
	ioMu   sync.Mutex
	mu     sync.RWMutex
	values map[schema.Key]interface{}

	subMu   sync.Mutex
	subs    map[schema.Key]map[int]Handler
	allSubs map[int]Handler
	nextSub int

	queueMu     sync.Mutex
	queue       []Change
	dispatching bool
}

// Open creates a store for s backed by backend and loads its values. Missing
// keys take their defaults; values of the wrong type are reset to the default
// and logged. A nil backend keeps values in memory only.
func Open(s *schema.Schema, backend Backend) (*Store, error) {
	if backend == nil {
		backend = NewMemoryBackend(nil)
	}
	st := &Store{
		schema:  s,
		backend: backend,
		logger:  logging.NewLogger("settings").WithField("schema", s.ID()),
		values:  s.Defaults(),
		subs:    make(map[schema.Key]map[int]Handler),
		allSubs: make(map[int]Handler),
	}

	raw, err := backend.Load()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to load settings").
			WithDetail("schema", s.ID())
	}
	for key, value := range st.coerceRaw(raw) {
		st.values[key] = value
	}
	return st, nil
}

// Schema returns the store's schema.
func (s *Store) Schema() *schema.Schema { return s.schema }

// Get returns the current value of key, or nil for keys outside the schema.
func (s *Store) Get(key schema.Key) interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key]
}

// GetString returns a string or enum value.
func (s *Store) GetString(key schema.Key) string { return GetString(s, key) }

// GetBool returns a boolean value.
func (s *Store) GetBool(key schema.Key) bool { return GetBool(s, key) }

// GetInt returns an integer value.
func (s *Store) GetInt(key schema.Key) int { return GetInt(s, key) }

// GetDouble returns a floating point value.
func (s *Store) GetDouble(key schema.Key) float64 { return GetDouble(s, key) }

// Snapshot returns a copy of every value.
func (s *Store) Snapshot() map[schema.Key]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[schema.Key]interface{}, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Set writes one value. The value is coerced to the key's declared type; a
// value that cannot be coerced is rejected with TYPE_MISMATCH. Writing the
// current value is a no-op and emits nothing.
func (s *Store) Set(key schema.Key, value interface{}, origin Origin) error {
	return s.SetMany(map[schema.Key]interface{}{key: value}, origin)
}

// SetMany writes several values as one batch. Either every value is committed
// or none is; notifications are emitted only after the whole batch is visible,
// so a listener reacting to one key reads the batch's values for the others.
func (s *Store) SetMany(values map[schema.Key]interface{}, origin Origin) error {
	coerced := make(map[schema.Key]interface{}, len(values))
	for key, value := range values {
		def, err := s.schema.MustLookup(key)
		if err != nil {
			return err
		}
		v, err := def.Coerce(value)
		if err != nil {
			return err
		}
		coerced[key] = v
	}

	s.ioMu.Lock()
	s.mu.Lock()
	var changes []Change
	for _, key := range s.schema.Keys() {
		v, ok := coerced[key]
		if !ok {
			continue
		}
		old := s.values[key]
		if reflect.DeepEqual(old, v) {
			continue
		}
		changes = append(changes, Change{Key: key, Old: old, New: v, Origin: origin})
	}
	if len(changes) == 0 {
		s.mu.Unlock()
		s.ioMu.Unlock()
		return nil
	}

	for _, c := range changes {
		s.values[c.Key] = c.New
	}
	if err := s.backend.Save(s.rawLocked()); err != nil {
		for _, c := range changes {
			s.values[c.Key] = c.Old
		}
		s.mu.Unlock()
		s.ioMu.Unlock()
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to persist settings").
			WithDetail("schema", s.schema.ID())
	}
	s.mu.Unlock()
	s.ioMu.Unlock()

	for _, c := range changes {
		s.logger.WithFields(logrus.Fields{
			"key":    c.Key,
			"value":  c.New,
			"origin": c.Origin,
		}).Debug("Setting changed")
	}
	s.enqueue(changes)
	return nil
}

// Reset restores key to its default.
func (s *Store) Reset(key schema.Key, origin Origin) error {
	def, err := s.schema.MustLookup(key)
	if err != nil {
		return err
	}
	return s.Set(key, def.Default, origin)
}

// Reload re-reads the backend and emits an external change for every key
// whose value differs from memory. Writes made by this store reload as no-ops.
func (s *Store) Reload() error {
	s.ioMu.Lock()
	raw, err := s.backend.Load()
	if err != nil {
		s.ioMu.Unlock()
		return errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to reload settings").
			WithDetail("schema", s.schema.ID())
	}
	loaded := s.coerceRaw(raw)

	s.mu.Lock()
	var changes []Change
	for _, key := range s.schema.Keys() {
		def, _ := s.schema.Lookup(key)
		v, ok := loaded[key]
		if !ok {
			// Removed from the file: the default applies again.
			v = def.Default
		}
		old := s.values[key]
		if reflect.DeepEqual(old, v) {
			continue
		}
		s.values[key] = v
		changes = append(changes, Change{Key: key, Old: old, New: v, Origin: OriginExternal})
	}
	s.mu.Unlock()
	s.ioMu.Unlock()

	if len(changes) > 0 {
		s.logger.WithField("changed", len(changes)).Debug("Reloaded settings from backend")
		s.enqueue(changes)
	}
	return nil
}

// Subscribe registers h for changes of key. The returned function removes it.
func (s *Store) Subscribe(key schema.Key, h Handler) (func(), error) {
	if !s.schema.Has(key) {
		return nil, errors.UnknownKey(s.schema.ID(), string(key))
	}

	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	if s.subs[key] == nil {
		s.subs[key] = make(map[int]Handler)
	}
	s.subs[key][id] = h

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs[key], id)
	}, nil
}

// SubscribeAll registers h for changes of every key.
func (s *Store) SubscribeAll(h Handler) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.allSubs[id] = h

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.allSubs, id)
	}
}

func (s *Store) enqueue(changes []Change) {
	s.queueMu.Lock()
	s.queue = append(s.queue, changes...)
	if s.dispatching {
		s.queueMu.Unlock()
		return
	}
	s.dispatching = true
	for len(s.queue) > 0 {
		c := s.queue[0]
		s.queue = s.queue[1:]
		s.queueMu.Unlock()
		s.deliver(c)
		s.queueMu.Lock()
	}
	s.dispatching = false
	s.queueMu.Unlock()
}

func (s *Store) deliver(c Change) {
	s.subMu.Lock()
	handlers := make([]Handler, 0, len(s.subs[c.Key])+len(s.allSubs))
	for _, id := range sortedIDs(s.subs[c.Key]) {
		handlers = append(handlers, s.subs[c.Key][id])
	}
	for _, id := range sortedIDs(s.allSubs) {
		handlers = append(handlers, s.allSubs[id])
	}
	s.subMu.Unlock()

	for _, h := range handlers {
		s.invoke(h, c)
	}
}

// invoke isolates handler panics so one faulty listener cannot take down the
// dispatcher or the hosting process.
func (s *Store) invoke(h Handler, c Change) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.WithField("key", c.Key).Errorf("Change handler panicked: %v", r)
		}
	}()
	h(c)
}

func (s *Store) coerceRaw(raw map[string]interface{}) map[schema.Key]interface{} {
	out := make(map[schema.Key]interface{}, len(raw))
	for name, value := range raw {
		key := schema.Key(name)
		def, ok := s.schema.Lookup(key)
		if !ok {
			s.logger.WithField("key", name).Debug("Ignoring unknown key in settings backend")
			continue
		}
		v, err := def.Coerce(value)
		if err != nil {
			s.logger.WithField("key", name).
				WithField("value", fmt.Sprint(value)).
				Warn("Stored value has the wrong type, using default")
			continue
		}
		out[key] = v
	}
	return out
}

func (s *Store) rawLocked() map[string]interface{} {
	out := make(map[string]interface{}, len(s.values))
	for k, v := range s.values {
		out[string(k)] = v
	}
	return out
}
