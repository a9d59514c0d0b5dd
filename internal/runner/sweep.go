package runner

import (
	"context"
	"sync"

	"github.com/decsim/decsim/internal/config"
)

// Sweep runs the same scenario at several precisions concurrently.
// Results come back in the order the precisions were given. Each run
// builds its own simulator, so the goroutines share nothing.
func Sweep(ctx context.Context, scn *config.Scenario, precisions []int) ([]*Result, error) {
	results := make([]*Result, len(precisions))
	errs := make([]error, len(precisions))

	var wg sync.WaitGroup
	for i, prec := range precisions {
		wg.Add(1)
		go func(idx, precision int) {
			defer wg.Done()

			scnCopy := *scn
			scnCopy.Precision = precision

			results[idx], errs[idx] = Run(ctx, &scnCopy)
		}(i, prec)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
