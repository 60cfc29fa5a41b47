package dispatch

import "github.com/voluntr/voluntr/pkg/logger"

// Option applies a configuration option to the Dispatcher.
type Option func(*Dispatcher)

// WithWorkerCount sets the number of delivery workers.
func WithWorkerCount(count int) Option {
	return func(d *Dispatcher) {
		if count > 0 {
			d.workerCount = count
		}
	}
}

// WithQueueSize bounds the job queue.
func WithQueueSize(size int) Option {
	return func(d *Dispatcher) {
		if size > 0 {
			d.queueSize = size
		}
	}
}

// WithSynchronous makes Handle deliver inline on the caller's goroutine.
// Used by tests that need deterministic delivery order.
func WithSynchronous(synchronous bool) Option {
	return func(d *Dispatcher) {
		d.synchronous = synchronous
	}
}

// WithLogger sets a custom logger for the dispatcher.
func WithLogger(l logger.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.log = l
		}
	}
}
