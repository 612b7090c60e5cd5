package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewRegistryNames(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRegistry(reg)

	r.Quanta.WithLabelValues("s").Inc()
	r.Threads.WithLabelValues("s", "READY").Set(2)
	r.UsageErrors.WithLabelValues("s", "Block").Inc()

	expected := `
# HELP uthreads_scheduler_threads Number of living threads by state
# TYPE uthreads_scheduler_threads gauge
uthreads_scheduler_threads{scheduler_name="s",state="READY"} 2
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "uthreads_scheduler_threads"); err != nil {
		t.Fatal(err)
	}

	if got := testutil.ToFloat64(r.UsageErrors.WithLabelValues("s", "Block")); got != 1 {
		t.Errorf("usage errors = %v, want 1", got)
	}
}

func TestNamespaceOverride(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRegistryWithNamespace(reg, "green")
	r.Quanta.WithLabelValues("s").Add(5)

	count, err := testutil.GatherAndCount(reg, "green_scheduler_quanta_total")
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("series = %d, want 1", count)
	}
}

func TestConfigResolve(t *testing.T) {
	if got := (Config{}).Resolve(); got != DefaultRegistry {
		t.Error("nil registry should resolve to DefaultRegistry")
	}
	if got := DefaultConfig().Resolve(); got != DefaultRegistry {
		t.Error("default registerer should resolve to DefaultRegistry")
	}

	custom := Config{Enabled: true, Registry: prometheus.NewRegistry()}
	if got := custom.Resolve(); got == DefaultRegistry || got == nil {
		t.Error("custom registerer should get its own Registry")
	}
}

func TestConfigResolveReusesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	cfg := Config{Enabled: true, Registry: reg}

	first := cfg.Resolve()
	second := cfg.Resolve()
	if first != second {
		t.Fatal("same registerer should resolve to the same Registry")
	}

	other := Config{Enabled: true, Registry: reg, Namespace: "green"}.Resolve()
	if other == first {
		t.Error("a different namespace should get its own Registry")
	}

	first.Quanta.WithLabelValues("a").Inc()
	second.Quanta.WithLabelValues("b").Inc()
	count, err := testutil.GatherAndCount(reg, "uthreads_scheduler_quanta_total")
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("series = %d, want 2", count)
	}
}

func TestConfigResolveNamespaceOnDefaultRegisterer(t *testing.T) {
	cfg := Config{Enabled: true, Namespace: "uthreads_resolve_test"}

	r := cfg.Resolve()
	if r == DefaultRegistry {
		t.Fatal("custom namespace on the default registerer should not be ignored")
	}
	if again := DefaultConfig().Resolve(); again != DefaultRegistry {
		t.Error("default namespace should still resolve to DefaultRegistry")
	}
	if cfg.Resolve() != r {
		t.Error("repeated resolution should reuse the Registry")
	}

	r.Quanta.WithLabelValues("ns").Inc()
	count, err := testutil.GatherAndCount(prometheus.DefaultGatherer, "uthreads_resolve_test_scheduler_quanta_total")
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("series = %d, want 1", count)
	}
}
