package observe

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type recordingSetup struct {
	spans  *tracetest.SpanRecorder
	reader *sdkmetric.ManualReader
	logs   *bytes.Buffer
	mw     *Middleware
}

func newRecordingSetup(t *testing.T) recordingSetup {
	t.Helper()
	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := newMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("newMetrics failed: %v", err)
	}

	var logs bytes.Buffer
	mw := NewMiddleware(NewTracer(tp.Tracer("test")), metrics, NewLoggerWithWriter("debug", &logs))
	return recordingSetup{spans: spans, reader: reader, logs: &logs, mw: mw}
}

func (s recordingSetup) collect(t *testing.T) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := s.reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("failed to collect metrics: %v", err)
	}
	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func sumValue(t *testing.T, m *metricdata.Metrics) int64 {
	t.Helper()
	if m == nil {
		t.Fatal("metric not found")
	}
	sum, ok := m.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("metric %s has data %T, want Sum[int64]", m.Name, m.Data)
	}
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func spanBool(attrs []attribute.KeyValue, key string) bool {
	for _, a := range attrs {
		if string(a.Key) == key {
			return a.Value.AsBool()
		}
	}
	return false
}

func TestMiddleware_Run_Success(t *testing.T) {
	s := newRecordingSetup(t)

	var gotID string
	err := s.mw.Run(context.Background(), CallMeta{Op: "quad", Method: "gauss-legendre", Bits: 64},
		func(ctx context.Context, meta CallMeta) error {
			gotID = meta.ID
			return nil
		})
	if err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}
	if gotID == "" {
		t.Error("Run should assign a call id")
	}

	spans := s.spans.Ended()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	if spans[0].Name() != "calc.quad.gauss-legendre" {
		t.Errorf("span name = %q, want calc.quad.gauss-legendre", spans[0].Name())
	}
	if spanBool(spans[0].Attributes(), "calc.error") {
		t.Error("calc.error should be false on success")
	}

	rm := s.collect(t)
	if got := sumValue(t, findMetric(rm, "calc.call.total")); got != 1 {
		t.Errorf("calc.call.total = %d, want 1", got)
	}
	if findMetric(rm, "calc.call.duration_ms") == nil {
		t.Error("calc.call.duration_ms not recorded")
	}

	entries := decodeLines(t, s.logs)
	if len(entries) != 1 || entries[0]["msg"] != "call completed" {
		t.Fatalf("logs = %v, want one completion line", entries)
	}
	if entries[0]["call.id"] != gotID {
		t.Errorf("logged call.id = %v, want %s", entries[0]["call.id"], gotID)
	}
}

func TestMiddleware_Run_Error(t *testing.T) {
	s := newRecordingSetup(t)
	boom := errors.New("boom")

	err := s.mw.Run(context.Background(), CallMeta{ID: "fixed", Op: "sum"},
		func(context.Context, CallMeta) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("Run() = %v, want %v", err, boom)
	}

	spans := s.spans.Ended()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	if spans[0].Name() != "calc.sum" {
		t.Errorf("span name = %q, want calc.sum", spans[0].Name())
	}
	if !spanBool(spans[0].Attributes(), "calc.error") {
		t.Error("calc.error should be true on failure")
	}

	if got := sumValue(t, findMetric(s.collect(t), "calc.call.errors")); got != 1 {
		t.Errorf("calc.call.errors = %d, want 1", got)
	}

	entries := decodeLines(t, s.logs)
	if len(entries) != 1 || entries[0]["level"] != "error" || entries[0]["error"] != "boom" {
		t.Errorf("logs = %v, want one error line", entries)
	}
	if entries[0]["call.id"] != "fixed" {
		t.Errorf("call.id = %v, want fixed", entries[0]["call.id"])
	}
}

func TestMiddleware_Run_MissingOp(t *testing.T) {
	called := false
	err := NopMiddleware().Run(context.Background(), CallMeta{}, func(context.Context, CallMeta) error {
		called = true
		return nil
	})
	if !errors.Is(err, ErrMissingOp) {
		t.Errorf("Run() = %v, want ErrMissingOp", err)
	}
	if called {
		t.Error("fn must not run without an operation")
	}
}

func TestMetrics_RefinementAndCache(t *testing.T) {
	s := newRecordingSetup(t)
	ctx := context.Background()
	meta := CallMeta{Op: "quad", Method: "tanh-sinh", Bits: 100}

	m := s.mw.Metrics()
	m.RecordRefinement(ctx, meta, 4, true)
	m.RecordRefinement(ctx, meta, 7, false)
	m.RecordCacheLookup(ctx, meta, LookupMiss)
	m.RecordCacheLookup(ctx, meta, LookupExact)
	m.RecordCacheLookup(ctx, meta, LookupExact)

	rm := s.collect(t)
	if got := sumValue(t, findMetric(rm, "calc.quad.nonconverged")); got != 1 {
		t.Errorf("calc.quad.nonconverged = %d, want 1", got)
	}
	if got := sumValue(t, findMetric(rm, "calc.cache.lookups")); got != 3 {
		t.Errorf("calc.cache.lookups = %d, want 3", got)
	}
	hist := findMetric(rm, "calc.quad.degree")
	if hist == nil {
		t.Fatal("calc.quad.degree not recorded")
	}
	h, ok := hist.Data.(metricdata.Histogram[int64])
	if !ok || len(h.DataPoints) != 1 || h.DataPoints[0].Count != 2 {
		t.Errorf("calc.quad.degree = %+v, want one data point with count 2", hist.Data)
	}
}

func TestNopMiddleware_Run(t *testing.T) {
	err := NopMiddleware().Run(context.Background(), CallMeta{Op: "diff"}, func(context.Context, CallMeta) error {
		return nil
	})
	if err != nil {
		t.Errorf("Run() = %v, want nil", err)
	}
}
