package testutil

import (
	"runtime"
	"sync/atomic"
	"testing"
	"time"
)

func TestEventually(t *testing.T) {
	t.Run("condition met immediately", func(t *testing.T) {
		called := false
		Eventually(t, func() bool {
			called = true
			return true
		}, 100*time.Millisecond, 10*time.Millisecond)

		if !called {
			t.Error("condition function should be called")
		}
	})

	t.Run("condition met after delay", func(t *testing.T) {
		var counter int32
		go func() {
			time.Sleep(50 * time.Millisecond)
			atomic.StoreInt32(&counter, 1)
		}()

		Eventually(t, func() bool {
			return atomic.LoadInt32(&counter) == 1
		}, 200*time.Millisecond, 10*time.Millisecond)
	})
}

func TestRunBootstrap(t *testing.T) {
	t.Run("returns", func(t *testing.T) {
		ran := false
		RunBootstrap(t, func() { ran = true })
		AssertEqual(t, ran, true)
	})

	t.Run("goexit", func(t *testing.T) {
		after := false
		RunBootstrap(t, func() {
			runtime.Goexit()
			after = true
		})
		AssertEqual(t, after, false)
	})
}

func TestWithTimeout(t *testing.T) {
	ctx, cancel := WithTimeout(t)
	defer cancel()

	deadline, ok := ctx.Deadline()
	AssertEqual(t, ok, true)
	if time.Until(deadline) > TestTimeout {
		t.Errorf("deadline too far: %v", deadline)
	}
}

func TestAssertClosed(t *testing.T) {
	ch := make(chan struct{})
	go func() {
		time.Sleep(10 * time.Millisecond)
		close(ch)
	}()
	AssertClosed(t, ch)
}
