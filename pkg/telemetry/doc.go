// Package telemetry exposes Prometheus metrics and OpenTelemetry spans for
// the binding engine and the live transport.
//
// Metrics implements binding.Hooks, so wiring it into a compiler is one
// option:
//
//	reg := prometheus.NewRegistry()
//	m := telemetry.NewMetrics(telemetry.WithRegistry(reg))
//	c := binding.NewCompiler(binding.WithHooks(m))
//
// Tracer resolves its tracer from the global OpenTelemetry provider unless
// one is given with WithTracerProvider. Configure the provider in main()
// before compiling.
package telemetry
