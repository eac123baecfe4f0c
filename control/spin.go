package control

import (
	"math"
	"sync"
)

// SpinButton is a bounded numeric entry. With zero digits it holds an int,
// otherwise a float64 rounded to the given number of decimals. Values outside
// the bounds are clamped, never rejected.
type SpinButton struct {
	notifier
	name     string
	min, max float64
	digits   int
	mu       sync.Mutex
	value    float64
}

// NewSpinButton returns a spin button positioned at min.
func NewSpinButton(name string, min, max float64, digits int) *SpinButton {
	if max < min {
		min, max = max, min
	}
	return &SpinButton{name: name, min: min, max: max, digits: digits, value: min}
}

// Name identifies the control.
func (s *SpinButton) Name() string { return s.name }

// Bounds returns the inclusive range.
func (s *SpinButton) Bounds() (float64, float64) { return s.min, s.max }

// Digits returns the number of decimals; zero means integer.
func (s *SpinButton) Digits() int { return s.digits }

// Value returns an int for integer spin buttons and a float64 otherwise.
func (s *SpinButton) Value() interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.typed(s.value)
}

// SetNumber clamps and rounds f, emitting a change when the value differs.
func (s *SpinButton) SetNumber(f float64) {
	f = math.Max(s.min, math.Min(s.max, f))
	scale := math.Pow(10, float64(s.digits))
	f = math.Round(f*scale) / scale

	s.mu.Lock()
	if s.value == f {
		s.mu.Unlock()
		return
	}
	s.value = f
	v := s.typed(f)
	s.mu.Unlock()
	s.emit(v)
}

// SetValue accepts any integer or floating point number.
func (s *SpinButton) SetValue(v interface{}) error {
	var f float64
	switch n := v.(type) {
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case float64:
		f = n
	case float32:
		f = float64(n)
	default:
		return typeError(s.name, "number", v)
	}
	if math.IsNaN(f) {
		return typeError(s.name, "number", v)
	}
	s.SetNumber(f)
	return nil
}

func (s *SpinButton) typed(f float64) interface{} {
	if s.digits == 0 {
		return int(f)
	}
	return f
}
