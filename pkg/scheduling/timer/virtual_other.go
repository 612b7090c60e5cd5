//go:build !linux

package timer

import (
	"fmt"
	"runtime"
	"time"

	uterrors "github.com/vnykmshr/uthreads/pkg/common/errors"
)

// Virtual is only available on linux. Elsewhere Start fails with a platform
// error.
type Virtual struct{}

// NewVirtual creates a Virtual timer that cannot be started on this platform.
func NewVirtual() *Virtual {
	return &Virtual{}
}

func (v *Virtual) Start(time.Duration, func()) error {
	return uterrors.NewOperationError("timer", "Start",
		fmt.Errorf("%w: ITIMER_VIRTUAL unsupported on %s", uterrors.ErrPlatform, runtime.GOOS))
}

func (v *Virtual) Reset() error { return ErrNotStarted }

func (v *Virtual) Stop() error { return nil }
