package testing

import (
	"strings"
	"testing"
	"time"

	"github.com/zoobzio/clockz"
	"github.com/zoobzio/openmetricz"
)

// NewTestRegistry creates a registry for one test.
// When the test fails, the registry's exposition is logged to help diagnose it.
func NewTestRegistry(t *testing.T) *openmetricz.Registry {
	t.Helper()
	r := openmetricz.New()
	logOnFailure(t, r)
	return r
}

// NewTestRegistryWithClock creates a registry with a specific clock.
// Used for deterministic timestamps and stopwatches with FakeClock.
func NewTestRegistryWithClock(t *testing.T, clock clockz.Clock) *openmetricz.Registry {
	t.Helper()
	r := openmetricz.New().WithClock(clock)
	logOnFailure(t, r)
	return r
}

// NewTestRegistries creates multiple isolated registries.
func NewTestRegistries(t *testing.T, count int) []*openmetricz.Registry {
	t.Helper()
	registries := make([]*openmetricz.Registry, count)
	for i := range registries {
		registries[i] = NewTestRegistry(t)
	}
	return registries
}

// PinnedClock returns a fake clock stopped at at.
func PinnedClock(at time.Time) *clockz.FakeClock {
	return clockz.NewFakeClockAt(at)
}

// Snapshot renders r and fails the test if rendering fails.
func Snapshot(t *testing.T, r *openmetricz.Registry) string {
	t.Helper()
	var b strings.Builder
	if _, err := r.WriteTo(&b); err != nil {
		t.Fatalf("rendering registry: %v", err)
	}
	return b.String()
}

func logOnFailure(t *testing.T, r *openmetricz.Registry) {
	t.Cleanup(func() {
		if !t.Failed() {
			return
		}
		var b strings.Builder
		if _, err := r.WriteTo(&b); err == nil {
			t.Logf("registry at failure:\n%s", b.String())
		}
	})
}
