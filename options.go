package sobel

import (
	"time"

	"github.com/pkg/errors"

	"github.com/dudk/sobel/metric"
)

// Option provides a way to set functional parameters to pool.
type Option func(p *Pool) error

// WithWorkers sets number of workers. It must be in range [1, MaxWorkers].
func WithWorkers(n int) Option {
	return func(p *Pool) error {
		if n < 1 || n > MaxWorkers {
			return errors.Wrapf(ErrWorkers, "%d not in range [1, %d]", n, MaxWorkers)
		}
		p.workers = n
		return nil
	}
}

// WithLogger sets logger to Pool. If this option is not provided, silent
// logger is used.
func WithLogger(logger Logger) Option {
	return func(p *Pool) error {
		p.log = logger
		return nil
	}
}

// WithName sets name to Pool.
func WithName(n string) Option {
	return func(p *Pool) error {
		p.name = n
		return nil
	}
}

// WithMetric adds metrics for every worker of the pool.
func WithMetric(m *metric.Metric) Option {
	return func(p *Pool) error {
		p.metric = m
		return nil
	}
}

// WithConverter sets color to intensity converter. Luma is used by
// default.
func WithConverter(c Converter) Option {
	return func(p *Pool) error {
		if c == nil {
			return errors.New("nil converter")
		}
		p.converter = c
		return nil
	}
}

// WithStallTimeout enables a warning when owner waits for helpers longer
// than d. Zero disables it.
func WithStallTimeout(d time.Duration) Option {
	return func(p *Pool) error {
		if d < 0 {
			return errors.Errorf("negative stall timeout %v", d)
		}
		p.stallTimeout = d
		return nil
	}
}
