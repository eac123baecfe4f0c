// Package control provides headless models of the interactive controls the
// preferences surface binds to settings. A toolkit adapter mirrors each model
// onto a real widget; tests drive the models directly.
//
// Every control emits a change event when its value changes, whether the
// change came from the user or from a programmatic SetValue, the same way
// toolkit property notifications behave.
package control

import (
	"fmt"
	"sort"
	"sync"

	"github.com/grovetools/wallprefs/errors"
)

// notifier is embedded by controls that emit change events.
type notifier struct {
	lmu       sync.Mutex
	listeners map[int]func(value interface{})
	nextID    int
}

// OnChange registers fn and returns a function that removes it.
func (n *notifier) OnChange(fn func(value interface{})) func() {
	n.lmu.Lock()
	defer n.lmu.Unlock()
	if n.listeners == nil {
		n.listeners = make(map[int]func(value interface{}))
	}
	id := n.nextID
	n.nextID++
	n.listeners[id] = fn
	return func() {
		n.lmu.Lock()
		defer n.lmu.Unlock()
		delete(n.listeners, id)
	}
}

func (n *notifier) emit(value interface{}) {
	n.lmu.Lock()
	ids := make([]int, 0, len(n.listeners))
	for id := range n.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(value interface{}), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, n.listeners[id])
	}
	n.lmu.Unlock()

	for _, fn := range fns {
		fn(value)
	}
}

func typeError(name, want string, got interface{}) error {
	return errors.New(errors.ErrCodeTypeMismatch,
		fmt.Sprintf("control %q expects %s, got %T", name, want, got))
}
