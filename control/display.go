package control

import (
	"fmt"
	"sync"
)

// Label displays text. It has no change event of its own.
type Label struct {
	name string
	mu   sync.Mutex
	text string
}

// NewLabel returns an empty label.
func NewLabel(name string) *Label {
	return &Label{name: name}
}

// Name identifies the control.
func (l *Label) Name() string { return l.name }

// Text returns the displayed text.
func (l *Label) Text() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.text
}

// Value returns the displayed text.
func (l *Label) Value() interface{} { return l.Text() }

// SetText replaces the displayed text.
func (l *Label) SetText(text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.text = text
}

// SetValue displays any value using its default format.
func (l *Label) SetValue(v interface{}) error {
	if s, ok := v.(string); ok {
		l.SetText(s)
		return nil
	}
	l.SetText(fmt.Sprint(v))
	return nil
}

// FolderButton is an opaque directory selector: a button labelled with the
// current folder that opens a picker. Browsing inside the picker is private
// to it; only a confirmed choice is reported.
type FolderButton struct {
	Label

	mu        sync.Mutex
	pending   string
	onConfirm []func(path string)
}

// NewFolderButton returns a folder button labelled with path.
func NewFolderButton(name, path string) *FolderButton {
	fb := &FolderButton{Label: Label{name: name}}
	fb.SetText(path)
	return fb
}

// OnConfirm registers fn for confirmed selections.
func (f *FolderButton) OnConfirm(fn func(path string)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onConfirm = append(f.onConfirm, fn)
}

// Navigate records the picker's current location without reporting it.
func (f *FolderButton) Navigate(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending = path
}

// Pending returns the location last navigated to.
func (f *FolderButton) Pending() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending
}

// Confirm accepts path: the label shows it immediately and every confirm
// handler runs in registration order. An empty path confirms the pending
// location.
func (f *FolderButton) Confirm(path string) {
	f.mu.Lock()
	if path == "" {
		path = f.pending
	}
	f.pending = ""
	handlers := append([]func(string){}, f.onConfirm...)
	f.mu.Unlock()

	if path == "" {
		return
	}
	f.SetText(path)
	for _, fn := range handlers {
		fn(path)
	}
}

// Button reports clicks. It holds no value.
type Button struct {
	name string

	mu      sync.Mutex
	onClick []func()
}

// NewButton returns a button with no handlers.
func NewButton(name string) *Button {
	return &Button{name: name}
}

// Name identifies the control.
func (b *Button) Name() string { return b.name }

// OnClick registers fn for clicks.
func (b *Button) OnClick(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onClick = append(b.onClick, fn)
}

// Click runs every click handler in registration order.
func (b *Button) Click() {
	b.mu.Lock()
	handlers := append([]func(){}, b.onClick...)
	b.mu.Unlock()
	for _, fn := range handlers {
		fn()
	}
}
