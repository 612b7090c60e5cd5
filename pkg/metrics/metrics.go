// Package metrics provides Prometheus instrumentation for uthreads schedulers.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metric instances for uthreads components.
type Registry struct {
	// Dispatch Metrics
	Quanta          *prometheus.CounterVec
	ContextSwitches *prometheus.CounterVec
	QuantumExpiries *prometheus.CounterVec

	// Thread Lifecycle Metrics
	ThreadsSpawned    *prometheus.CounterVec
	ThreadsTerminated *prometheus.CounterVec
	ThreadsPanicked   *prometheus.CounterVec
	UsageErrors       *prometheus.CounterVec

	// Occupancy Metrics
	Threads          *prometheus.GaugeVec
	ReadyQueueLength *prometheus.GaugeVec
}

// DefaultRegistry is the default metrics registry used by uthreads components.
var DefaultRegistry *Registry

func init() {
	DefaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	return NewRegistryWithNamespace(reg, DefaultNamespace)
}

// NewRegistryWithNamespace is NewRegistry with a custom metric namespace.
func NewRegistryWithNamespace(reg prometheus.Registerer, namespace string) *Registry {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	factory := promauto.With(reg)

	return &Registry{
		Quanta: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "scheduler",
				Name:      "quanta_total",
				Help:      "Total number of quanta started, including the first one",
			},
			[]string{"scheduler_name"},
		),

		ContextSwitches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "scheduler",
				Name:      "context_switches_total",
				Help:      "Total number of dispatches that resumed a different thread",
			},
			[]string{"scheduler_name"},
		),

		QuantumExpiries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "scheduler",
				Name:      "quantum_expiries_total",
				Help:      "Total number of quantum expiry events raised by the timer",
			},
			[]string{"scheduler_name"},
		),

		ThreadsSpawned: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "scheduler",
				Name:      "threads_spawned_total",
				Help:      "Total number of threads spawned",
			},
			[]string{"scheduler_name"},
		),

		ThreadsTerminated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "scheduler",
				Name:      "threads_terminated_total",
				Help:      "Total number of threads terminated",
			},
			[]string{"scheduler_name"},
		),

		ThreadsPanicked: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "scheduler",
				Name:      "threads_panicked_total",
				Help:      "Total number of threads whose entry function panicked",
			},
			[]string{"scheduler_name"},
		),

		UsageErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "scheduler",
				Name:      "usage_errors_total",
				Help:      "Total number of API calls rejected with a usage error",
			},
			[]string{"scheduler_name", "operation"},
		),

		Threads: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "scheduler",
				Name:      "threads",
				Help:      "Number of living threads by state",
			},
			[]string{"scheduler_name", "state"},
		),

		ReadyQueueLength: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "scheduler",
				Name:      "ready_queue_length",
				Help:      "Number of threads waiting in the ready queue",
			},
			[]string{"scheduler_name"},
		),
	}
}
