package openmetricz

import (
	"time"

	"github.com/zoobzio/clockz"
)

// Observer is anything that accepts observations, such as a Histogram or Summary.
type Observer interface {
	Observe(float64)
}

// Stopwatch times one operation and reports it to an Observer in seconds.
//
//	defer latency.Start().Stop()
type Stopwatch struct {
	start  time.Time
	clock  clockz.Clock
	target Observer
}

func newStopwatch(clock clockz.Clock, target Observer) *Stopwatch {
	return &Stopwatch{
		start:  clock.Now(),
		clock:  clock,
		target: target,
	}
}

// Stop observes the elapsed time since Start and returns it.
// Uses the registry clock for deterministic timing.
func (s *Stopwatch) Stop() time.Duration {
	elapsed := s.clock.Now().Sub(s.start)
	s.target.Observe(elapsed.Seconds())
	return elapsed
}
