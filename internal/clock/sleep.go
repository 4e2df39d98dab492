// Package clock holds context-aware waiting helpers used by the schedulers.
package clock

import (
	"context"
	"time"
)

// Sleep pauses for d. It returns ctx.Err() if ctx ends first.
func Sleep(ctx context.Context, d time.Duration) error {
	_, err := WaitOrSignal(ctx, d, nil)
	return err
}
