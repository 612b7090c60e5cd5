package context

import (
	"context"
	"testing"
	"time"

	"github.com/vnykmshr/uthreads/internal/testutil"
)

func TestWaitClosed(t *testing.T) {
	t.Run("closed before deadline", func(t *testing.T) {
		done := make(chan struct{})
		go func() {
			time.Sleep(10 * time.Millisecond)
			close(done)
		}()

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		testutil.AssertNoError(t, WaitClosed(ctx, done))
		if IsTimedOut(ctx) {
			t.Error("IsTimedOut() = true before the deadline")
		}
	})

	t.Run("deadline first", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		err := WaitClosed(ctx, make(chan struct{}))
		testutil.AssertError(t, err)
		testutil.AssertEqual(t, err, context.DeadlineExceeded)
		if !IsTimedOut(ctx) {
			t.Error("IsTimedOut() = false, want true")
		}
	})

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if err := WaitClosed(ctx, make(chan struct{})); err != context.Canceled {
			t.Fatalf("WaitClosed() = %v, want Canceled", err)
		}
		if IsTimedOut(ctx) {
			t.Error("IsTimedOut() = true for plain cancel")
		}
	})
}

func TestIsTimedOutInheritsParentDeadline(t *testing.T) {
	parent, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	child, cancelChild := context.WithCancel(parent)
	defer cancelChild()

	<-child.Done()
	testutil.AssertEqual(t, IsTimedOut(child), true)
}
