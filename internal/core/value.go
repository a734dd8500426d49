package core

import "math"

// Value is an optional float64. The zero Value is undefined, which is how
// rolling indicators mark entries that do not yet have enough history.
type Value struct {
	v  float64
	ok bool
}

// Of returns a defined Value. Non-finite inputs yield an undefined Value.
func Of(v float64) Value {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Value{}
	}
	return Value{v: v, ok: true}
}

// Undefined returns the undefined Value.
func Undefined() Value {
	return Value{}
}

// Get returns the value and whether it is defined.
func (x Value) Get() (float64, bool) {
	return x.v, x.ok
}

// Defined reports whether the value carries a number.
func (x Value) Defined() bool {
	return x.ok
}

// Floats extracts the defined entries of vs. The second result is false when
// any entry is undefined.
func Floats(vs []Value) ([]float64, bool) {
	out := make([]float64, len(vs))
	for i, x := range vs {
		if !x.ok {
			return nil, false
		}
		out[i] = x.v
	}
	return out, true
}
