package settings

import "github.com/grovetools/wallprefs/schema"

// Reader is the read side of a settings store. Validation rules are written
// against it so they can run on staged values as well as on a live store.
type Reader interface {
	Schema() *schema.Schema
	Get(key schema.Key) interface{}
}

// GetString returns the value of key as a string, or "".
func GetString(r Reader, key schema.Key) string {
	s, _ := r.Get(key).(string)
	return s
}

// GetBool returns the value of key as a bool, or false.
func GetBool(r Reader, key schema.Key) bool {
	b, _ := r.Get(key).(bool)
	return b
}

// GetInt returns the value of key as an int, or 0.
func GetInt(r Reader, key schema.Key) int {
	n, _ := r.Get(key).(int)
	return n
}

// GetDouble returns the value of key as a float64, or 0.
func GetDouble(r Reader, key schema.Key) float64 {
	f, _ := r.Get(key).(float64)
	return f
}

// Overlay exposes staged values on top of a base reader.
func Overlay(base Reader, staged map[schema.Key]interface{}) Reader {
	return &overlay{base: base, staged: staged}
}

type overlay struct {
	base   Reader
	staged map[schema.Key]interface{}
}

func (o *overlay) Schema() *schema.Schema { return o.base.Schema() }

func (o *overlay) Get(key schema.Key) interface{} {
	if v, ok := o.staged[key]; ok {
		return v
	}
	return o.base.Get(key)
}
