package thread

import (
	"fmt"

	"github.com/vnykmshr/uthreads/pkg/scheduling/fiber"
)

// BootstrapID is the id of the thread created implicitly at init.
const BootstrapID = 0

// State is the scheduling state of a living thread. Terminated threads are
// removed from the table and have no state.
type State int

const (
	Ready State = iota
	Running
	Blocked
	Sleeping
)

// String returns the state name used in logs and metric labels.
func (s State) String() string {
	switch s {
	case Ready:
		return "READY"
	case Running:
		return "RUNNING"
	case Blocked:
		return "BLOCKED"
	case Sleeping:
		return "SLEEPING"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// States lists every state in declaration order.
var States = []State{Ready, Running, Blocked, Sleeping}

// Thread is the thread control block. Setters perform no legality checks;
// the dispatcher owns the state machine.
type Thread struct {
	id          int
	state       State
	context     *fiber.Fiber
	runCount    int
	wakeQuantum int

	// Exiting is set once the thread has begun terminating itself.
	Exiting bool
}

// New creates a READY thread whose context starts at entry when first resumed.
func New(id int, entry func()) *Thread {
	return &Thread{
		id:      id,
		state:   Ready,
		context: fiber.New(entry),
	}
}

// NewBootstrap creates thread 0 from the calling goroutine. It is RUNNING and
// has already run for one quantum.
func NewBootstrap() *Thread {
	return &Thread{
		id:       BootstrapID,
		state:    Running,
		context:  fiber.Bootstrap(),
		runCount: 1,
	}
}

func (t *Thread) ID() int { return t.id }

func (t *Thread) State() State { return t.state }

func (t *Thread) SetState(s State) { t.state = s }

// MarkRunning moves the thread to RUNNING and counts the quantum it starts.
func (t *Thread) MarkRunning() {
	t.state = Running
	t.runCount++
}

// RunCount is the number of quanta the thread has started in RUNNING.
func (t *Thread) RunCount() int { return t.runCount }

func (t *Thread) WakeQuantum() int { return t.wakeQuantum }

func (t *Thread) SetWakeQuantum(q int) { t.wakeQuantum = q }

// Context returns the saved execution context.
func (t *Thread) Context() *fiber.Fiber { return t.context }

// Info is a point-in-time copy of a thread's bookkeeping.
type Info struct {
	ID          int
	State       State
	RunCount    int
	WakeQuantum int
}

// Snapshot returns the thread's current bookkeeping.
func (t *Thread) Snapshot() Info {
	return Info{
		ID:          t.id,
		State:       t.state,
		RunCount:    t.runCount,
		WakeQuantum: t.wakeQuantum,
	}
}
