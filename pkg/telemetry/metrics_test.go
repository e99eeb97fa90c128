package telemetry

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/vango-dev/vbind/pkg/binding"
	"github.com/vango-dev/vbind/pkg/dom"
	"github.com/vango-dev/vbind/pkg/reactive"
)

func metricCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	if m.Counter == nil {
		t.Fatal("expected counter metric to have Counter field")
	}
	return m.GetCounter().GetValue()
}

func metricGaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("gauge Write() error: %v", err)
	}
	if m.Gauge == nil {
		t.Fatal("expected gauge metric to have Gauge field")
	}
	return m.GetGauge().GetValue()
}

func metricHistogramCount(t *testing.T, h prometheus.Histogram) uint64 {
	t.Helper()
	var m dto.Metric
	if err := h.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestMetricsAsCompilerHooks(t *testing.T) {
	m := NewMetrics(WithRegistry(prometheus.NewRegistry()))

	root, err := dom.ParseString(`<p>{{ a }}</p><input v-model="a"><div v-nope="a"></div>`)
	if err != nil {
		t.Fatal(err)
	}
	store := reactive.NewStore(map[string]any{"a": "x"})
	binding.NewCompiler(binding.WithHooks(m)).Compile(root, store, nil)

	if got := metricCounterValue(t, m.watchersCreated.WithLabelValues("interpolation")); got != 1 {
		t.Errorf("watchers_created_total{interpolation} = %v, want 1", got)
	}
	if got := metricCounterValue(t, m.watchersCreated.WithLabelValues("model")); got != 1 {
		t.Errorf("watchers_created_total{model} = %v, want 1", got)
	}
	if got := metricCounterValue(t, m.diagnostics.WithLabelValues("W001")); got != 1 {
		t.Errorf("diagnostics_total{W001} = %v, want 1", got)
	}

	store.Set("a", "x")
	store.Set("a", "y")
	if got := metricCounterValue(t, m.watcherUpdates.WithLabelValues("skipped")); got != 2 {
		t.Errorf("watcher_updates_total{skipped} = %v, want 2", got)
	}
	if got := metricCounterValue(t, m.watcherUpdates.WithLabelValues("fired")); got != 2 {
		t.Errorf("watcher_updates_total{fired} = %v, want 2", got)
	}
}

func TestMetricsLiveAndCompile(t *testing.T) {
	m := NewMetrics(WithRegistry(prometheus.NewRegistry()), WithNamespace("test"))

	m.SessionOpened()
	m.SessionOpened()
	m.SessionClosed()
	if got := metricGaugeValue(t, m.liveSessions); got != 1 {
		t.Errorf("live_sessions = %v, want 1", got)
	}

	m.FrameReceived()
	m.FramesSent(3)
	m.FramesSent(0)
	if got := metricCounterValue(t, m.liveFrames.WithLabelValues("in")); got != 1 {
		t.Errorf("live_frames_total{in} = %v, want 1", got)
	}
	if got := metricCounterValue(t, m.liveFrames.WithLabelValues("out")); got != 3 {
		t.Errorf("live_frames_total{out} = %v, want 3", got)
	}

	m.ObserveCompile(5 * time.Millisecond)
	if got := metricHistogramCount(t, m.compileDuration); got != 1 {
		t.Errorf("compile_duration_seconds count = %d, want 1", got)
	}
}

func TestMetricsRegisteredNames(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg), WithSubsystem("engine"))
	m.Diagnostic("W002")
	m.SessionOpened()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{"vbind_engine_diagnostics_total", "vbind_engine_live_sessions"} {
		if !names[want] {
			t.Errorf("missing metric %s in %v", want, names)
		}
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.WatcherCreated("text")
	m.WatcherUpdated("k", true)
	m.Diagnostic("W001")
	m.ObserveCompile(time.Second)
	m.SessionOpened()
	m.SessionClosed()
	m.FrameReceived()
	m.FramesSent(1)
}
