package openmetricz

import (
	"math"

	"go.uber.org/atomic"
)

// Number is the set of scalar types Counter and Gauge can hold.
type Number interface {
	int64 | uint64 | float64
}

// atomicValue stores a Number as raw bits so every T shares one CAS path.
// This is the shared implementation used by Counter, Gauge and Untyped.
type atomicValue[T Number] struct {
	bits atomic.Uint64
}

// load atomically gets the current value.
func (a *atomicValue[T]) load() T {
	return fromBits[T](a.bits.Load())
}

// store atomically sets the value.
func (a *atomicValue[T]) store(v T) {
	a.bits.Store(toBits(v))
}

// add atomically adds delta and returns the new value.
func (a *atomicValue[T]) add(delta T) T {
	if !isFloat[T]() {
		// Two's complement addition on the raw bits is exact for both integer types.
		return fromBits[T](a.bits.Add(toBits(delta)))
	}
	for {
		old := a.bits.Load()
		next := fromBits[T](old) + delta
		if a.bits.CompareAndSwap(old, toBits(next)) {
			return next
		}
	}
}

// sub atomically subtracts delta and returns the new value.
func (a *atomicValue[T]) sub(delta T) T {
	if !isFloat[T]() {
		return fromBits[T](a.bits.Sub(toBits(delta)))
	}
	for {
		old := a.bits.Load()
		next := fromBits[T](old) - delta
		if a.bits.CompareAndSwap(old, toBits(next)) {
			return next
		}
	}
}

func isFloat[T Number]() bool {
	var zero T
	_, ok := any(zero).(float64)
	return ok
}

func toBits[T Number](v T) uint64 {
	switch x := any(v).(type) {
	case float64:
		return math.Float64bits(x)
	case int64:
		return uint64(x)
	case uint64:
		return x
	}
	return 0
}

func fromBits[T Number](b uint64) T {
	if isFloat[T]() {
		return T(math.Float64frombits(b))
	}
	return T(b)
}

// finite reports whether v can be stored; NaN and infinities are rejected.
func finite[T Number](v T) bool {
	f, ok := any(v).(float64)
	if !ok {
		return true
	}
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
