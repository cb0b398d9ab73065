package bootstrap

import "time"

// Option tunes NewApp.
type Option func(*appOptions)

type appOptions struct {
	gracefulTimeout time.Duration
}

func resolveOptions(opts []Option) appOptions {
	o := appOptions{gracefulTimeout: defaultGracefulTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithGracefulTimeout bounds the whole shutdown: stop hooks plus every
// component's Stop. Non-positive values keep the default.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *appOptions) {
		if d > 0 {
			o.gracefulTimeout = d
		}
	}
}
