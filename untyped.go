package openmetricz

import (
	"bufio"

	"github.com/zoobzio/clockz"
)

// Untyped holds a value whose semantics are not known to the registry.
type Untyped struct {
	desc
	value atomicValue[float64]
}

func newUntyped(name Key, help, unit string, labels Labels, clock clockz.Clock) (*Untyped, error) {
	u := &Untyped{}
	if err := u.init(KindUntyped, name, help, unit, labels, clock); err != nil {
		return nil, err
	}
	return u, nil
}

// Set stores value. NaN and infinities are ignored.
func (u *Untyped) Set(value float64) {
	if !finite(value) {
		return
	}
	u.value.store(value)
	u.touch()
}

// Value returns the current value.
func (u *Untyped) Value() float64 {
	return u.value.load()
}

func (u *Untyped) render(w *bufio.Writer) {
	writeSample(w, u.metricName, FormatFloat(u.Value()))
}

func (u *Untyped) clone(labels Labels) (Metric, error) {
	cloned, err := newUntyped(u.name, u.help, u.unit, labels, u.clock)
	if err != nil {
		return nil, err
	}
	return cloned, nil
}
