package context

import (
	"context"
	"errors"
)

// WaitClosed blocks until done is closed or ctx ends, returning ctx.Err() in
// the latter case.
func WaitClosed(ctx context.Context, done <-chan struct{}) error {
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsTimedOut reports whether ctx ended because its deadline passed, as
// opposed to an explicit cancel.
func IsTimedOut(ctx context.Context) bool {
	return errors.Is(ctx.Err(), context.DeadlineExceeded)
}
