package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// DefaultNamespace is the metric namespace used when none is configured.
const DefaultNamespace = "uthreads"

// Config holds configuration for metrics collection.
type Config struct {
	// Enabled controls whether metrics collection is active.
	Enabled bool

	// Registry is the Prometheus registry to use. If nil,
	// prometheus.DefaultRegisterer is used.
	Registry prometheus.Registerer

	// Namespace overrides the default "uthreads" namespace for metrics.
	Namespace string
}

// DefaultConfig returns a default metrics configuration.
func DefaultConfig() Config {
	return Config{
		Enabled:   true,
		Registry:  prometheus.DefaultRegisterer,
		Namespace: DefaultNamespace,
	}
}

type registryKey struct {
	reg       prometheus.Registerer
	namespace string
}

var (
	registriesMu sync.Mutex
	registries   = map[registryKey]*Registry{}
)

// Resolve returns the Registry described by the configuration. Every
// (registerer, namespace) pair maps to a single Registry, so any number of
// schedulers may resolve the same configuration; their series are told
// apart by the scheduler_name label. A nil Registry means
// prometheus.DefaultRegisterer, and the default namespace on it resolves
// to DefaultRegistry.
//
// Registerers must be comparable, which holds for *prometheus.Registry and
// the wrappers returned by prometheus.WrapRegistererWith.
func (c Config) Resolve() *Registry {
	reg := c.Registry
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	namespace := c.Namespace
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if reg == prometheus.DefaultRegisterer && namespace == DefaultNamespace {
		return DefaultRegistry
	}

	key := registryKey{reg: reg, namespace: namespace}

	registriesMu.Lock()
	defer registriesMu.Unlock()

	if r, ok := registries[key]; ok {
		return r
	}
	r := NewRegistryWithNamespace(reg, namespace)
	registries[key] = r
	return r
}

// Instrumentable is an interface for components that can be instrumented with metrics.
type Instrumentable interface {
	// EnableMetrics enables metrics collection for this component.
	EnableMetrics(config Config) error

	// DisableMetrics disables metrics collection for this component.
	DisableMetrics()

	// MetricsEnabled returns true if metrics are currently enabled.
	MetricsEnabled() bool
}
