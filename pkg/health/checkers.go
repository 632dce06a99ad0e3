package health

import (
	"runtime"

	"github.com/go-faster/errors"
)

// GoroutineCountCheck returns a CheckFunc that fails when the goroutine
// count exceeds threshold, a cheap liveness guard against leaks.
func GoroutineCountCheck(threshold int) CheckFunc {
	return func() error {
		if count := runtime.NumGoroutine(); count > threshold {
			return errors.Errorf("goroutine count %d exceeds threshold %d", count, threshold)
		}
		return nil
	}
}
