package solver

import "github.com/rs/zerolog"

type options struct {
	workers          int
	logSpace         bool
	strictOverflow   bool
	replayFromPeriod int
	log              zerolog.Logger
}

// Option configures a Solve call.
type Option func(*options)

func defaultOptions() options {
	return options{
		workers:          1,
		replayFromPeriod: 1,
		log:              zerolog.Nop(),
	}
}

// WithWorkers splits the inventory scan of each period across n goroutines.
// Values below 2 keep the scan sequential.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = 1
		}
		o.workers = n
	}
}

// WithLogSpace stores additive log-costs (sum of Hamiltonians) instead of the
// exponentiated product. Log-space cells saturate only when one period's cost is
// itself beyond float64 range.
func WithLogSpace() Option {
	return func(o *options) { o.logSpace = true }
}

// WithStrictOverflow makes Solve return ErrNumericOverflow alongside the result
// when any cell saturated.
func WithStrictOverflow() Option {
	return func(o *options) { o.strictOverflow = true }
}

// WithReplayFromPeriodZero applies policy[t-1] for transition t during trajectory
// extraction, so the period-0 decision is exercised. The default replays from period 1.
func WithReplayFromPeriodZero() Option {
	return func(o *options) { o.replayFromPeriod = 0 }
}

func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}
