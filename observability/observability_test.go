package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/quorumbot/logger"
)

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Endpoint != "localhost:4318" || cfg.SampleRate != 1.0 || cfg.ExportInterval != 15*time.Second {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestInitDisabled(t *testing.T) {
	metrics, shutdown, err := Init(context.Background(), Config{}, Resource{ServiceName: "quorumbot"}, logger.Nop())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if metrics != nil {
		t.Error("disabled telemetry should return nil metrics")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown: %v", err)
	}

	// nil metrics are safe to use
	metrics.RecordOperation(context.Background(), "backend", "execute", "ok", time.Second)
	metrics.RecordError(context.Background(), "timeout", "backend")
	metrics.RecordCommand(context.Background(), "q1")
}

func TestSpanHelpers(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	ctx, span := StartSpan(context.Background(), "backend.grok")
	SetSpanAttribute(ctx, AttrBackend, "grok")
	SetSpanAttribute(ctx, AttrChatID, int64(-100))
	SetSpanAttribute(ctx, AttrBackends, []string{"deepseek", "grok"})
	SetSpanAttribute(ctx, "quorum.duration", 1.5)
	SetSpanError(ctx, errors.New("HTTP 502"))
	span.End()

	spans := rec.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	s := spans[0]
	if s.Name() != "backend.grok" {
		t.Errorf("span name = %q", s.Name())
	}
	if s.Status().Code != codes.Error {
		t.Errorf("status = %v", s.Status())
	}
	attrs := map[string]string{}
	for _, kv := range s.Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	if attrs[AttrBackend] != "grok" || attrs[AttrChatID] != "-100" || attrs["quorum.duration"] != "1.5" {
		t.Errorf("attributes = %v", attrs)
	}
	if len(s.Events()) != 1 {
		t.Errorf("expected recorded error event, got %d events", len(s.Events()))
	}
}

func TestSpanHelpersWithoutSpan(t *testing.T) {
	SetSpanAttribute(context.Background(), "k", "v")
	SetSpanError(context.Background(), errors.New("ignored"))
}

func TestMetricsRecorded(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	ctx := context.Background()
	m.RecordOperation(ctx, "backend", "deepseek", "ok", 200*time.Millisecond)
	m.RecordOperation(ctx, "backend", "grok", "error", time.Second)
	m.RecordError(ctx, "execute", "grok")
	m.RecordCommand(ctx, "q2")

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}

	sums := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			if data, ok := md.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range data.DataPoints {
					sums[md.Name] += dp.Value
				}
			}
		}
	}
	want := map[string]int64{
		"quorum.operation.total": 2,
		"quorum.error.total":     1,
		"quorum.command.total":   1,
	}
	for name, v := range want {
		if sums[name] != v {
			t.Errorf("%s = %d, want %d", name, sums[name], v)
		}
	}
}
