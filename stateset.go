package openmetricz

import (
	"bufio"
	"fmt"
	"slices"
	"sync"

	"github.com/zoobzio/clockz"
)

// Stateset is a fixed set of named boolean states.
type Stateset struct {
	desc
	states     []string
	stateNames []string
	mu         sync.RWMutex
	values     []bool
	capacity   int
}

func newStateset(name Key, help, unit string, labels Labels, capacity int, states []string, clock clockz.Clock) (*Stateset, error) {
	switch {
	case capacity < 1:
		return nil, fmt.Errorf("%w: %s: stateset capacity %d", ErrInvalidArgument, name, capacity)
	case len(states) == 0:
		return nil, fmt.Errorf("%w: %s: stateset needs at least one state", ErrInvalidArgument, name)
	case len(states) > capacity:
		return nil, fmt.Errorf("%w: %s: %d states exceed capacity %d", ErrInvalidArgument, name, len(states), capacity)
	}
	seen := make(map[string]struct{}, len(states))
	for _, state := range states {
		if state == "" {
			return nil, fmt.Errorf("%w: %s: empty state name", ErrInvalidArgument, name)
		}
		if _, dup := seen[state]; dup {
			return nil, fmt.Errorf("%w: %s: duplicate state %q", ErrInvalidArgument, name, state)
		}
		seen[state] = struct{}{}
	}

	s := &Stateset{
		states:   slices.Clone(states),
		values:   make([]bool, len(states)),
		capacity: capacity,
	}
	if err := s.init(KindStateset, name, help, unit, labels, clock); err != nil {
		return nil, err
	}

	s.stateNames = make([]string, len(states))
	for i, state := range states {
		s.stateNames[i] = s.sampleName("stateset", Label{Key: "state", Value: state})
	}
	return s, nil
}

// States returns the state names in configuration order.
func (s *Stateset) States() []string {
	return slices.Clone(s.states)
}

// Capacity returns the maximum number of states the set was built for.
func (s *Stateset) Capacity() int {
	return s.capacity
}

// SetState sets the named state.
func (s *Stateset) SetState(state string, value bool) error {
	i, err := s.index(state)
	if err != nil {
		return err
	}
	return s.SetStateAt(i, value)
}

// SetStateAt sets the state at index.
func (s *Stateset) SetStateAt(index int, value bool) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	s.mu.Lock()
	s.values[index] = value
	s.mu.Unlock()
	s.touch()
	return nil
}

// SetExclusiveState enables the state at index and disables every other state.
func (s *Stateset) SetExclusiveState(index int) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	s.mu.Lock()
	for i := range s.values {
		s.values[i] = i == index
	}
	s.mu.Unlock()
	s.touch()
	return nil
}

// State returns the named state.
func (s *Stateset) State(state string) (bool, error) {
	i, err := s.index(state)
	if err != nil {
		return false, err
	}
	return s.StateAt(i)
}

// StateAt returns the state at index.
func (s *Stateset) StateAt(index int) (bool, error) {
	if err := s.checkIndex(index); err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[index], nil
}

func (s *Stateset) index(state string) (int, error) {
	i := slices.Index(s.states, state)
	if i < 0 {
		return 0, fmt.Errorf("%w: %s: unknown state %q", ErrOutOfRange, s.name, state)
	}
	return i, nil
}

func (s *Stateset) checkIndex(index int) error {
	if index < 0 || index >= len(s.states) {
		return fmt.Errorf("%w: %s: state index %d", ErrOutOfRange, s.name, index)
	}
	return nil
}

func (s *Stateset) render(w *bufio.Writer) {
	s.mu.RLock()
	values := slices.Clone(s.values)
	s.mu.RUnlock()

	for i, on := range values {
		v := "0"
		if on {
			v = "1"
		}
		writeSample(w, s.stateNames[i], v)
	}
}

func (s *Stateset) clone(labels Labels) (Metric, error) {
	cloned, err := newStateset(s.name, s.help, s.unit, labels, s.capacity, s.states, s.clock)
	if err != nil {
		return nil, err
	}
	return cloned, nil
}
