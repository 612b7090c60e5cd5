package scheduler

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnykmshr/uthreads/pkg/metrics"
	"github.com/vnykmshr/uthreads/pkg/scheduling/timer"
)

func TestSchedulerMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	cfg := Config{
		Name:    "metrics-test",
		Metrics: metrics.Config{Enabled: true, Registry: reg},
	}

	var m *metrics.Registry
	var total int
	var readyGauge, blockedGauge, queueGauge float64

	runScheduler(t, cfg, func(s *Scheduler, tm *timer.Manual) {
		m = s.metrics.Load()
		blocked, _ := s.Spawn(func() {})
		_, _ = s.Spawn(func() {})
		_, _ = s.Spawn(func() { panic("boom") })
		_ = s.Block(blocked)
		_ = s.Block(0)

		readyGauge = promtestutil.ToFloat64(m.Threads.WithLabelValues("metrics-test", "READY"))
		blockedGauge = promtestutil.ToFloat64(m.Threads.WithLabelValues("metrics-test", "BLOCKED"))
		queueGauge = promtestutil.ToFloat64(m.ReadyQueueLength.WithLabelValues("metrics-test"))

		tm.Expire()
		s.Checkpoint()
		total = s.GetTotalQuantums()
	})
	require.NotNil(t, m)

	assert.Equal(t, 2.0, readyGauge)
	assert.Equal(t, 1.0, blockedGauge)
	assert.Equal(t, 2.0, queueGauge)

	assert.Equal(t, float64(total), promtestutil.ToFloat64(m.Quanta.WithLabelValues("metrics-test")))
	assert.Equal(t, 3.0, promtestutil.ToFloat64(m.ContextSwitches.WithLabelValues("metrics-test")))
	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.QuantumExpiries.WithLabelValues("metrics-test")))
	assert.Equal(t, 3.0, promtestutil.ToFloat64(m.ThreadsSpawned.WithLabelValues("metrics-test")))
	assert.Equal(t, 2.0, promtestutil.ToFloat64(m.ThreadsTerminated.WithLabelValues("metrics-test")))
	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.ThreadsPanicked.WithLabelValues("metrics-test")))
	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.UsageErrors.WithLabelValues("metrics-test", "Block")))
}

func TestSchedulersShareRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	cfg := metrics.Config{Enabled: true, Registry: reg}

	first, err := InitWithConfig(Config{Quantum: time.Millisecond, Timer: timer.NewManual(), Name: "first", Metrics: cfg})
	require.NoError(t, err)
	second, err := InitWithConfig(Config{Quantum: time.Millisecond, Timer: timer.NewManual(), Name: "second", Metrics: cfg})
	require.NoError(t, err)

	require.NoError(t, first.EnableMetrics(cfg))
	require.NoError(t, first.EnableMetrics(cfg))

	m := first.metrics.Load()
	assert.Same(t, m, second.metrics.Load())
	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.Quanta.WithLabelValues("first")))
	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.Quanta.WithLabelValues("second")))

	count, err := promtestutil.GatherAndCount(reg, "uthreads_scheduler_quanta_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestEnableDisableMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()

	runScheduler(t, Config{Name: "toggle"}, func(s *Scheduler, tm *timer.Manual) {
		assert.False(t, s.MetricsEnabled())

		assert.NoError(t, s.EnableMetrics(metrics.Config{Enabled: true, Registry: reg}))
		assert.True(t, s.MetricsEnabled())
		m := s.metrics.Load()
		assert.Equal(t, 1.0, promtestutil.ToFloat64(m.Threads.WithLabelValues("toggle", "RUNNING")))

		_ = s.Yield()
		assert.Equal(t, 1.0, promtestutil.ToFloat64(m.Quanta.WithLabelValues("toggle")))

		s.DisableMetrics()
		assert.False(t, s.MetricsEnabled())
		_ = s.Yield()
		assert.Equal(t, 1.0, promtestutil.ToFloat64(m.Quanta.WithLabelValues("toggle")))

		assert.NoError(t, s.EnableMetrics(metrics.Config{Enabled: false}))
		assert.False(t, s.MetricsEnabled())
	})
}

func TestSchedulerLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	runScheduler(t, Config{Name: "logged", Logger: &logger}, func(s *Scheduler, tm *timer.Manual) {
		_, _ = s.Spawn(func() { panic("boom") })
		_ = s.Yield()
		_ = s.Block(0)
	})

	var messages []string
	var panicked map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry), line)
		assert.Equal(t, "logged", entry["scheduler"])
		msg, _ := entry["message"].(string)
		messages = append(messages, msg)
		if msg == "thread panicked" {
			panicked = entry
		}
	}

	assert.Equal(t, "scheduler started", messages[0])
	assert.Contains(t, messages, "thread spawned")
	assert.Contains(t, messages, "usage error")
	assert.Equal(t, "scheduler terminated", messages[len(messages)-1])
	assert.NotContains(t, messages, "dispatch", "dispatch is logged at trace level")

	require.NotNil(t, panicked)
	assert.Equal(t, "error", panicked["level"])
	assert.Equal(t, "boom", panicked["panic"])
	assert.EqualValues(t, 1, panicked["tid"])
}
