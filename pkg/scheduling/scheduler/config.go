package scheduler

import (
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/vnykmshr/uthreads/pkg/common/validation"
	"github.com/vnykmshr/uthreads/pkg/metrics"
	"github.com/vnykmshr/uthreads/pkg/scheduling/timer"
)

const (
	// DefaultMaxThreads is the default number of concurrently living threads,
	// thread 0 included.
	DefaultMaxThreads = 100

	// MaxThreadsLimit bounds Config.MaxThreads.
	MaxThreadsLimit = 4096

	// DefaultName labels the metrics of an unnamed scheduler.
	DefaultName = "uthreads"

	module = "scheduler"
)

// Config holds scheduler configuration.
type Config struct {
	Quantum    time.Duration   // Length of one quantum (required)
	MaxThreads int             // Living thread capacity including thread 0 (default: 100)
	Timer      timer.Timer     // Quantum timer (default: timer.NewTicker())
	Logger     *zerolog.Logger // Structured logger (default: disabled)
	Name       string          // Metric label (default: "uthreads")
	Metrics    metrics.Config  // Metrics collection (default: disabled)

	// Exit ends the process after terminating thread 0 (code 0) or after a
	// platform failure (code 1). Defaults to os.Exit.
	Exit func(code int)
}

// withDefaults validates cfg and fills in zero fields.
func (cfg Config) withDefaults() (Config, error) {
	if err := validation.ValidatePositiveDuration(module, "quantum", cfg.Quantum); err != nil {
		return cfg, err
	}

	if cfg.MaxThreads == 0 {
		cfg.MaxThreads = DefaultMaxThreads
	}
	if err := validation.ValidateRange(module, "max_threads", cfg.MaxThreads, 1, MaxThreadsLimit); err != nil {
		return cfg, err
	}

	if cfg.Timer == nil {
		cfg.Timer = timer.NewTicker()
	}

	if cfg.Logger == nil {
		nop := zerolog.Nop()
		cfg.Logger = &nop
	}

	if cfg.Name == "" {
		cfg.Name = DefaultName
	}

	if cfg.Exit == nil {
		cfg.Exit = os.Exit
	}

	return cfg, nil
}
