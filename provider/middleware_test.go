package provider_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/quorumbot/logger"
	"github.com/kbukum/quorumbot/observability"
	"github.com/kbukum/quorumbot/provider"
)

func echo(name string) provider.RequestResponse[string, string] {
	return provider.Func(name, func(_ context.Context, in string) (string, error) {
		return "echo:" + in, nil
	})
}

func failing(name string) provider.RequestResponse[string, string] {
	return provider.Func(name, func(_ context.Context, _ string) (string, error) {
		return "", errors.New("intentional failure")
	})
}

func testMetrics(t *testing.T) *observability.Metrics {
	t.Helper()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(sdkmetric.NewManualReader()))
	m, err := observability.NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	return m
}

func TestChain_Empty(t *testing.T) {
	wrapped := provider.Chain[string, string]()(echo("test"))
	if wrapped.Name() != "test" {
		t.Fatalf("expected 'test', got %q", wrapped.Name())
	}
	result, err := wrapped.Execute(context.Background(), "hello")
	if err != nil || result != "echo:hello" {
		t.Fatalf("expected echo:hello, got %q, err %v", result, err)
	}
}

func TestChain_SkipsNil(t *testing.T) {
	wrapped := provider.Chain[string, string](nil, provider.WithLogging[string, string](logger.Nop()))(echo("test"))
	if result, err := wrapped.Execute(context.Background(), "x"); err != nil || result != "echo:x" {
		t.Fatalf("got %q, %v", result, err)
	}
}

func TestChain_Order(t *testing.T) {
	var order []string
	mw := func(tag string) provider.Middleware[string, string] {
		return func(inner provider.RequestResponse[string, string]) provider.RequestResponse[string, string] {
			return provider.Func(inner.Name(), func(ctx context.Context, in string) (string, error) {
				order = append(order, tag+":before")
				out, err := inner.Execute(ctx, in)
				order = append(order, tag+":after")
				return out, err
			})
		}
	}

	if _, err := provider.Chain(mw("A"), mw("B"), mw("C"))(echo("test")).Execute(context.Background(), "x"); err != nil {
		t.Fatal(err)
	}
	want := "A:before B:before C:before C:after B:after A:after"
	if got := strings.Join(order, " "); got != want {
		t.Errorf("order = %q, want %q", got, want)
	}
}

func TestMiddlewares_PassThrough(t *testing.T) {
	metrics := testMetrics(t)
	tests := []struct {
		name string
		mw   provider.Middleware[string, string]
	}{
		{"logging", provider.WithLogging[string, string](logger.Nop())},
		{"tracing", provider.WithTracing[string, string]("backend")},
		{"metrics", provider.WithMetrics[string, string](metrics, "backend")},
		{"nil metrics", provider.WithMetrics[string, string](nil, "backend")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			wrapped := tc.mw(echo("grok"))
			if wrapped.Name() != "grok" {
				t.Errorf("Name() = %q", wrapped.Name())
			}
			if !wrapped.IsAvailable(context.Background()) {
				t.Error("expected IsAvailable to delegate")
			}
			if out, err := wrapped.Execute(context.Background(), "hi"); err != nil || out != "echo:hi" {
				t.Errorf("Execute() = %q, %v", out, err)
			}

			failed := tc.mw(failing("grok"))
			if _, err := failed.Execute(context.Background(), "hi"); err == nil {
				t.Error("expected error to propagate")
			}
		})
	}
}

func TestChain_AllMiddlewares(t *testing.T) {
	wrapped := provider.Chain(
		provider.WithLogging[string, string](logger.Nop()),
		provider.WithMetrics[string, string](testMetrics(t), "backend"),
		provider.WithTracing[string, string]("backend"),
	)(echo("full-stack"))

	result, err := wrapped.Execute(context.Background(), "hello")
	if err != nil || result != "echo:hello" {
		t.Fatalf("got %q, %v", result, err)
	}
}
