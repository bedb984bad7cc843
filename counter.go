package openmetricz

import (
	"bufio"

	"github.com/zoobzio/clockz"
)

// Counter is a monotonically non-decreasing value.
type Counter[T Number] struct {
	desc
	value     atomicValue[T]
	totalName string
}

func newCounter[T Number](name Key, help, unit string, labels Labels, clock clockz.Clock) (*Counter[T], error) {
	c := &Counter[T]{}
	if err := c.init(KindCounter, name, help, unit, labels, clock); err != nil {
		return nil, err
	}
	c.totalName = MakeNameWithSuffixAndLabels(name, "total", c.labels, false)
	return c, nil
}

// Inc increments the counter by 1.
func (c *Counter[T]) Inc() {
	c.Add(1)
}

// Add increases the counter by delta. Negative, NaN and infinite deltas are ignored.
func (c *Counter[T]) Add(delta T) {
	if delta < 0 || !finite(delta) {
		return
	}
	c.value.add(delta)
	c.touch()
}

// Value returns the current counter value.
func (c *Counter[T]) Value() T {
	return c.value.load()
}

func (c *Counter[T]) render(w *bufio.Writer) {
	writeSample(w, c.totalName, formatNumber(c.Value()))
	c.renderCreated(w)
}

func (c *Counter[T]) clone(labels Labels) (Metric, error) {
	cloned, err := newCounter[T](c.name, c.help, c.unit, labels, c.clock)
	if err != nil {
		return nil, err
	}
	return cloned, nil
}
