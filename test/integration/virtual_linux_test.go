package integration

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vnykmshr/uthreads/pkg/scheduling/scheduler"
	"github.com/vnykmshr/uthreads/pkg/scheduling/timer"
)

// TestVirtualTimerPreemptsBusyThreads runs busy threads against the
// process CPU-time clock, the way a signal-driven scheduler would.
func TestVirtualTimerPreemptsBusyThreads(t *testing.T) {
	var total int
	done := 0

	code := runPreemptive(t, timer.NewVirtual(), func(s *scheduler.Scheduler) {
		for i := 0; i < 2; i++ {
			_, _ = s.Spawn(func() {
				spin(s, 2)
				done++
			})
		}

		for len(s.Threads()) > 1 {
			s.Checkpoint()
		}
		total = s.GetTotalQuantums()
	})

	assert.Equal(t, 0, code)
	assert.Equal(t, 2, done)
	assert.GreaterOrEqual(t, total, 5)
}
