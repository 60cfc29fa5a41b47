package eventstore

import "time"

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithClock overrides the timestamp source. Used by tests that need
// deterministic event times.
func WithClock(clock func() time.Time) Option {
	return func(s *MemoryStore) {
		if clock != nil {
			s.clock = clock
		}
	}
}
