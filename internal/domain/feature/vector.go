package feature

import (
	"errors"
	"fmt"
)

var ErrDuplicateFeature = errors.New("duplicate feature name")

// Vector is an insertion-ordered mapping from feature name to value.
type Vector struct {
	names  []string
	values map[string]float64
}

func NewVector(capacity int) Vector {
	return Vector{
		names:  make([]string, 0, capacity),
		values: make(map[string]float64, capacity),
	}
}

// Set adds a feature. Names are write-once.
func (v *Vector) Set(name string, value float64) error {
	if v.values == nil {
		v.values = make(map[string]float64)
	}
	if _, exists := v.values[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateFeature, name)
	}
	v.names = append(v.names, name)
	v.values[name] = value
	return nil
}

func (v Vector) Get(name string) (float64, bool) {
	value, ok := v.values[name]
	return value, ok
}

func (v Vector) Len() int {
	return len(v.names)
}

// Names returns feature names in insertion order.
func (v Vector) Names() []string {
	return append([]string(nil), v.names...)
}

// Select returns values for names in the given order. Names absent from the
// vector read as 0 and are counted in missing.
func (v Vector) Select(names []string) (values []float64, missing int) {
	values = make([]float64, len(names))
	for i, name := range names {
		value, ok := v.values[name]
		if !ok {
			missing++
			continue
		}
		values[i] = value
	}
	return values, missing
}

// Map returns a copy of the vector as a plain map.
func (v Vector) Map() map[string]float64 {
	out := make(map[string]float64, len(v.values))
	for name, value := range v.values {
		out[name] = value
	}
	return out
}

// writer accumulates the first Set error so aggregators can emit features
// without checking every call.
type writer struct {
	v   *Vector
	err error
}

func (w *writer) put(name string, value float64) {
	if w.err != nil {
		return
	}
	w.err = w.v.Set(name, value)
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
