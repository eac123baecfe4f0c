// Package preset applies named bundles of lock screen blur settings.
package preset

import (
	"github.com/grovetools/wallprefs/errors"
	"github.com/grovetools/wallprefs/schema"
	"github.com/grovetools/wallprefs/settings"
)

// Value is one key of a preset.
type Value struct {
	Key   schema.Key
	Value interface{}
}

// Preset is a named, fixed set of values.
type Preset struct {
	Name   string
	Label  string
	Values []Value
}

const (
	GnomeDefault = "gnome-default"
	NoBlur       = "no-blur"
	SlightBlur   = "slight-blur"
)

var presets = []Preset{
	{
		Name:  GnomeDefault,
		Label: "GNOME default",
		Values: []Value{
			{schema.LockscreenBlurStrength, 60},
			{schema.LockscreenBlurBrightness, 0.55},
		},
	},
	{
		Name:  NoBlur,
		Label: "No blur, slight dim",
		Values: []Value{
			{schema.LockscreenBlurStrength, 0},
			{schema.LockscreenBlurBrightness, 1.0},
		},
	},
	{
		Name:  SlightBlur,
		Label: "Slight blur, slight dim",
		Values: []Value{
			{schema.LockscreenBlurStrength, 2},
			{schema.LockscreenBlurBrightness, 0.6},
		},
	},
}

// Names lists the presets in display order.
func Names() []string {
	names := make([]string, len(presets))
	for i, p := range presets {
		names[i] = p.Name
	}
	return names
}

// Lookup returns the preset called name.
func Lookup(name string) (Preset, bool) {
	for _, p := range presets {
		if p.Name == name {
			values := append([]Value(nil), p.Values...)
			return Preset{Name: p.Name, Label: p.Label, Values: values}, true
		}
	}
	return Preset{}, false
}

// Apply writes every value of the named preset as one batch. Listeners see
// the preset either not at all or completely.
func Apply(store *settings.Store, name string) error {
	p, ok := Lookup(name)
	if !ok {
		return errors.UnknownPreset(name)
	}
	values := make(map[schema.Key]interface{}, len(p.Values))
	for _, v := range p.Values {
		values[v.Key] = v.Value
	}
	return store.SetMany(values, settings.OriginPreset)
}
