package provider

import "context"

// Middleware wraps a RequestResponse, e.g. to log or trace each call.
type Middleware[I, O any] func(RequestResponse[I, O]) RequestResponse[I, O]

// Chain applies middlewares so that the first one listed sees the call
// first. Nil entries are ignored.
func Chain[I, O any](middlewares ...Middleware[I, O]) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		for i := len(middlewares) - 1; i >= 0; i-- {
			if mw := middlewares[i]; mw != nil {
				inner = mw(inner)
			}
		}
		return inner
	}
}

// interceptor keeps the wrapped provider's Name and IsAvailable and
// replaces Execute.
type interceptor[I, O any] struct {
	RequestResponse[I, O]
	execute func(ctx context.Context, input I) (O, error)
}

func (w *interceptor[I, O]) Execute(ctx context.Context, input I) (O, error) {
	return w.execute(ctx, input)
}

func intercept[I, O any](inner RequestResponse[I, O],
	fn func(ctx context.Context, input I, next RequestResponse[I, O]) (O, error)) RequestResponse[I, O] {
	return &interceptor[I, O]{
		RequestResponse: inner,
		execute: func(ctx context.Context, input I) (O, error) {
			return fn(ctx, input, inner)
		},
	}
}
