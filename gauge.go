package openmetricz

import (
	"bufio"
	"sync"

	"github.com/zoobzio/clockz"
)

// Gauge is a value that can go up and down.
// Decrementing an unsigned gauge below zero wraps; avoiding that is up to the caller.
type Gauge[T Number] struct {
	desc
	value atomicValue[T]
}

func newGauge[T Number](name Key, help, unit string, labels Labels, clock clockz.Clock) (*Gauge[T], error) {
	g := &Gauge[T]{}
	if err := g.init(KindGauge, name, help, unit, labels, clock); err != nil {
		return nil, err
	}
	return g, nil
}

// Set sets the gauge to a specific value.
func (g *Gauge[T]) Set(value T) {
	if !finite(value) {
		return
	}
	g.value.store(value)
	g.touch()
}

// Add changes the gauge by delta.
func (g *Gauge[T]) Add(delta T) {
	if !finite(delta) {
		return
	}
	g.value.add(delta)
	g.touch()
}

// Sub decreases the gauge by delta.
func (g *Gauge[T]) Sub(delta T) {
	if !finite(delta) {
		return
	}
	g.value.sub(delta)
	g.touch()
}

// Inc increments the gauge by 1.
func (g *Gauge[T]) Inc() {
	g.Add(1)
}

// Dec decrements the gauge by 1.
func (g *Gauge[T]) Dec() {
	g.Sub(1)
}

// Value returns the current gauge value.
func (g *Gauge[T]) Value() T {
	return g.value.load()
}

// Track increments the gauge and returns a func that undoes it exactly once.
//
//	defer sessions.Track()()
func (g *Gauge[T]) Track() func() {
	g.Inc()
	var once sync.Once
	return func() {
		once.Do(g.Dec)
	}
}

func (g *Gauge[T]) render(w *bufio.Writer) {
	writeSample(w, g.metricName, formatNumber(g.Value()))
	g.renderCreated(w)
}

func (g *Gauge[T]) clone(labels Labels) (Metric, error) {
	cloned, err := newGauge[T](g.name, g.help, g.unit, labels, g.clock)
	if err != nil {
		return nil, err
	}
	return cloned, nil
}
