package provider

import (
	"context"
	"time"

	"github.com/kbukum/quorumbot/logger"
	"github.com/kbukum/quorumbot/observability"
)

// WithLogging logs every call with its duration. Failures log at error
// level, successes at debug.
func WithLogging[I, O any](log *logger.Logger) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return intercept(inner, func(ctx context.Context, input I, next RequestResponse[I, O]) (O, error) {
			start := time.Now()
			out, err := next.Execute(ctx, input)
			fields := logger.DurationFields("execute", time.Since(start))
			fields["provider"] = next.Name()
			if err != nil {
				fields[logger.FieldError] = err.Error()
				log.WithContext(ctx).Error("provider call failed", fields)
			} else {
				log.WithContext(ctx).Debug("provider call finished", fields)
			}
			return out, err
		})
	}
}

// WithMetrics counts calls and errors and records durations, labelled
// with component and the provider name. Nil metrics record nothing.
func WithMetrics[I, O any](metrics *observability.Metrics, component string) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return intercept(inner, func(ctx context.Context, input I, next RequestResponse[I, O]) (O, error) {
			start := time.Now()
			out, err := next.Execute(ctx, input)
			status := "ok"
			if err != nil {
				status = "error"
				metrics.RecordError(ctx, "execute", component)
			}
			metrics.RecordOperation(ctx, component, next.Name(), status, time.Since(start))
			return out, err
		})
	}
}

// WithTracing runs every call inside a span named "<prefix>.<provider>".
func WithTracing[I, O any](prefix string) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return intercept(inner, func(ctx context.Context, input I, next RequestResponse[I, O]) (O, error) {
			ctx, span := observability.StartSpan(ctx, prefix+"."+next.Name())
			defer span.End()
			observability.SetSpanAttribute(ctx, observability.AttrOperation, "execute")
			out, err := next.Execute(ctx, input)
			if err != nil {
				observability.SetSpanError(ctx, err)
			}
			return out, err
		})
	}
}
