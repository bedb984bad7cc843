package testing

import (
	"testing"

	"github.com/sourcegraph/conc"
)

// LoadConfig configures concurrent load generation for stress testing.
// Provides standardized patterns for concurrent metric operations.
type LoadConfig struct {
	Setup      func(workerID int)       // Optional per-worker setup
	Operation  func(workerID, opID int) // Operation to execute
	Workers    int                      // Number of concurrent workers
	Operations int                      // Operations per worker
}

// GenerateLoad runs concurrent operations using the provided configuration.
// A panic in any worker is re-raised here once every worker has finished.
func GenerateLoad(_ *testing.T, config LoadConfig) {
	wg := conc.NewWaitGroup()

	for w := 0; w < config.Workers; w++ {
		workerID := w
		wg.Go(func() {
			// Optional per-worker setup (e.g., local variables)
			if config.Setup != nil {
				config.Setup(workerID)
			}

			for op := 0; op < config.Operations; op++ {
				config.Operation(workerID, op)
			}
		})
	}

	wg.Wait()
}
