package memory

import "log/slog"

type options struct {
	logger *slog.Logger
}

// Option configures ambient dependencies shared by all strategies.
type Option func(*options)

// WithLogger sets the logger used for consolidation and eviction events.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
