// Package validate detects and repairs settings values that are of the right
// type but outside their domain. Repairs are written back with the validator
// origin and logged at debug level; validation never fails loudly.
package validate

import (
	"sync"

	"github.com/grovetools/wallprefs/logging"
	"github.com/grovetools/wallprefs/schema"
	"github.com/grovetools/wallprefs/settings"
	"github.com/sirupsen/logrus"
)

// Result is the outcome of validating one key.
type Result struct {
	Key       schema.Key
	Valid     bool
	Corrected interface{}
}

// Validator runs the rules of one store.
type Validator struct {
	store    *settings.Store
	logger   *logrus.Entry
	rules    map[schema.Key]Rule
	triggers map[schema.Key][]schema.Key

	mu      sync.Mutex
	cancels []func()
}

// Option configures a Validator.
type Option func(*Validator)

// WithRule adds or replaces the rule of key.
func WithRule(key schema.Key, rule Rule) Option {
	return func(v *Validator) {
		if _, ok := v.rules[key]; !ok {
			v.triggers[key] = append(v.triggers[key], key)
		}
		v.rules[key] = rule
	}
}

// New returns a validator for store with the rules derived from its schema.
func New(store *settings.Store, opts ...Option) *Validator {
	rules, triggers := defaultRules(store.Schema())
	v := &Validator{
		store:    store,
		logger:   logging.NewLogger("validator").WithField("schema", store.Schema().ID()),
		rules:    rules,
		triggers: triggers,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Keys returns the validated keys in schema order.
func (v *Validator) Keys() []schema.Key {
	var keys []schema.Key
	for _, key := range v.store.Schema().Keys() {
		if _, ok := v.rules[key]; ok {
			keys = append(keys, key)
		}
	}
	return keys
}

// Validate checks key against the current store value and repairs it.
// Keys without a rule are always valid.
func (v *Validator) Validate(key schema.Key) Result {
	rule, ok := v.rules[key]
	if !ok {
		return Result{Key: key, Valid: true}
	}

	valid, corrected := rule(v.store)
	if valid {
		return Result{Key: key, Valid: true}
	}

	old := v.store.Get(key)
	if err := v.store.Set(key, corrected, settings.OriginValidator); err != nil {
		v.logger.WithError(err).WithField("key", key).Warn("Failed to write repaired value")
	} else {
		v.logger.WithFields(logrus.Fields{
			"key":       key,
			"invalid":   old,
			"corrected": corrected,
		}).Debug("Repaired invalid setting")
	}
	return Result{Key: key, Corrected: corrected}
}

// ValidateAll checks every validated key.
func (v *Validator) ValidateAll() []Result {
	keys := v.Keys()
	results := make([]Result, 0, len(keys))
	for _, key := range keys {
		results = append(results, v.Validate(key))
	}
	return results
}

// Watch re-validates keys whenever they, or the keys they depend on, change.
// Changes written by the validator itself are not re-checked.
func (v *Validator) Watch() func() {
	for trigger, keys := range v.triggers {
		keys := keys
		cancel, err := v.store.Subscribe(trigger, func(c settings.Change) {
			if c.Origin == settings.OriginValidator && len(keys) == 1 && keys[0] == c.Key {
				return
			}
			for _, key := range keys {
				v.Validate(key)
			}
		})
		if err != nil {
			v.logger.WithError(err).WithField("key", trigger).Warn("Cannot watch key")
			continue
		}
		v.mu.Lock()
		v.cancels = append(v.cancels, cancel)
		v.mu.Unlock()
	}

	return v.Stop
}

// Stop ends every watch started by Watch.
func (v *Validator) Stop() {
	v.mu.Lock()
	cancels := v.cancels
	v.cancels = nil
	v.mu.Unlock()
	for _, cancel := range cancels {
		cancel()
	}
}

// Sanitize runs the rules over staged values layered on the store and returns
// the staged values with every repair applied. The store is not modified.
func (v *Validator) Sanitize(staged map[schema.Key]interface{}) map[schema.Key]interface{} {
	out := make(map[schema.Key]interface{}, len(staged))
	for k, val := range staged {
		out[k] = val
	}
	view := settings.Overlay(v.store, out)

	for _, key := range v.Keys() {
		valid, corrected := v.rules[key](view)
		if valid {
			continue
		}
		v.logger.WithFields(logrus.Fields{
			"key":       key,
			"invalid":   view.Get(key),
			"corrected": corrected,
		}).Debug("Repaired staged setting")
		out[key] = corrected
	}
	return out
}
