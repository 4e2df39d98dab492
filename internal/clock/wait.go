package clock

import (
	"context"
	"time"
)

// WaitOrSignal waits for the duration, a value on signal, or context cancellation,
// whichever comes first. It reports whether the wait ended because of the signal.
// A nil or closed signal channel never fires.
func WaitOrSignal(ctx context.Context, d time.Duration, signal <-chan struct{}) (bool, error) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case <-timer.C:
		return false, nil
	case _, ok := <-signal:
		if ok {
			return true, nil
		}
	}

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case <-timer.C:
		return false, nil
	}
}
