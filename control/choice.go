package control

import (
	"strings"
	"sync"

	"github.com/grovetools/wallprefs/schema"
)

// ComboBox selects a value by id from an ordered list of choices. An id that
// is not in the list leaves the combo without an active entry ("").
type ComboBox struct {
	notifier
	name     string
	mu       sync.Mutex
	choices  []schema.Choice
	activeID string
}

// NewComboBox returns a combo box with the given choices.
func NewComboBox(name string, choices ...schema.Choice) *ComboBox {
	return &ComboBox{name: name, choices: append([]schema.Choice(nil), choices...)}
}

// Name identifies the control.
func (c *ComboBox) Name() string { return c.name }

// Len returns the number of choices.
func (c *ComboBox) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.choices)
}

// SetChoices replaces the entries. The active id is kept only when it is
// still present.
func (c *ComboBox) SetChoices(choices []schema.Choice) {
	c.mu.Lock()
	c.choices = append([]schema.Choice(nil), choices...)
	keep := c.hasLocked(c.activeID)
	c.mu.Unlock()
	if !keep {
		c.SetActiveID("")
	}
}

// Choices returns a copy of the entries.
func (c *ComboBox) Choices() []schema.Choice {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]schema.Choice(nil), c.choices...)
}

// ActiveID returns the selected id or "".
func (c *ComboBox) ActiveID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeID
}

// Value returns the active id.
func (c *ComboBox) Value() interface{} { return c.ActiveID() }

// SetActiveID selects id and reports whether it is one of the choices.
func (c *ComboBox) SetActiveID(id string) bool {
	c.mu.Lock()
	found := c.hasLocked(id)
	if !found {
		id = ""
	}
	if c.activeID == id {
		c.mu.Unlock()
		return found
	}
	c.activeID = id
	c.mu.Unlock()
	c.emit(id)
	return found
}

// SetValue accepts a string id.
func (c *ComboBox) SetValue(v interface{}) error {
	s, ok := v.(string)
	if !ok {
		return typeError(c.name, "string", v)
	}
	c.SetActiveID(s)
	return nil
}

func (c *ComboBox) hasLocked(id string) bool {
	for _, ch := range c.choices {
		if ch.Value == id {
			return true
		}
	}
	return false
}

// NoSelection is the DropDown position meaning nothing is selected.
const NoSelection = -1

// DropDown selects an entry by position in a list of display strings. It
// knows nothing about the values behind the strings.
type DropDown struct {
	notifier
	name     string
	mu       sync.Mutex
	items    []string
	selected int
}

// NewDropDown returns a drop-down with nothing selected.
func NewDropDown(name string, items ...string) *DropDown {
	return &DropDown{name: name, items: append([]string(nil), items...), selected: NoSelection}
}

// Name identifies the control.
func (d *DropDown) Name() string { return d.name }

// Len returns the number of entries.
func (d *DropDown) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.items)
}

// SetItems replaces the entries and clears the selection.
func (d *DropDown) SetItems(items []string) {
	d.mu.Lock()
	d.items = append([]string(nil), items...)
	d.mu.Unlock()
	d.Select(NoSelection)
}

// Selected returns the selected position or NoSelection.
func (d *DropDown) Selected() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.selected
}

// SelectedItem returns the selected display string, or "".
func (d *DropDown) SelectedItem() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.selected < 0 || d.selected >= len(d.items) {
		return ""
	}
	return d.items[d.selected]
}

// Value returns the selected position.
func (d *DropDown) Value() interface{} { return d.Selected() }

// Select moves the selection; out of range positions select nothing.
func (d *DropDown) Select(i int) {
	d.mu.Lock()
	if i < 0 || i >= len(d.items) {
		i = NoSelection
	}
	if d.selected == i {
		d.mu.Unlock()
		return
	}
	d.selected = i
	d.mu.Unlock()
	d.emit(i)
}

// SetValue accepts an int position.
func (d *DropDown) SetValue(v interface{}) error {
	i, ok := v.(int)
	if !ok {
		return typeError(d.name, "int", v)
	}
	d.Select(i)
	return nil
}

// Search returns the positions of entries containing query, case-insensitively.
func (d *DropDown) Search(query string) []int {
	d.mu.Lock()
	defer d.mu.Unlock()
	q := strings.ToLower(strings.TrimSpace(query))
	var out []int
	for i, item := range d.items {
		if q == "" || strings.Contains(strings.ToLower(item), q) {
			out = append(out, i)
		}
	}
	return out
}
