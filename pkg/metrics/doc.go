// Package metrics provides Prometheus instrumentation for uthreads schedulers.
//
// A Registry groups the counters and gauges a scheduler updates on every
// dispatch and lifecycle operation. All series carry a scheduler_name label
// so several scheduler instances can share one Registry. Config.Resolve
// hands out one Registry per registerer and namespace, including a
// non-default namespace on prometheus.DefaultRegisterer.
//
// # Quick Start
//
//	s, err := scheduler.InitWithConfig(scheduler.Config{
//		Quantum: 10 * time.Millisecond,
//		Name:    "workers",
//		Metrics: metrics.DefaultConfig(),
//	})
//
// Then expose metrics via HTTP:
//
//	http.Handle("/metrics", promhttp.Handler())
//
// # Custom Registry
//
// Use a custom Prometheus registry for isolation, for example in tests:
//
//	registry := prometheus.NewRegistry()
//	config := metrics.Config{
//		Enabled:  true,
//		Registry: registry,
//	}
//
// # Available Metrics
//
//	uthreads_scheduler_quanta_total{scheduler_name}
//	uthreads_scheduler_context_switches_total{scheduler_name}
//	uthreads_scheduler_quantum_expiries_total{scheduler_name}
//	uthreads_scheduler_threads_spawned_total{scheduler_name}
//	uthreads_scheduler_threads_terminated_total{scheduler_name}
//	uthreads_scheduler_threads_panicked_total{scheduler_name}
//	uthreads_scheduler_usage_errors_total{scheduler_name,operation}
//	uthreads_scheduler_threads{scheduler_name,state}
//	uthreads_scheduler_ready_queue_length{scheduler_name}
package metrics
