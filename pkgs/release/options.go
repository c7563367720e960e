package release

import "go.uber.org/zap"

// defaultConcurrency bounds the pull request lookups in flight
const defaultConcurrency = 4

// Option configures a Changelog or a Releaser
type Option func(*options)

type options struct {
	logger      *zap.Logger
	concurrency int
}

func newOptions(opts []Option) options {
	o := options{
		logger:      zap.NewNop(),
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger; the default discards everything
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithConcurrency sets how many pull request titles are fetched at once
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}
