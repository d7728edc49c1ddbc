package booking

import (
	"time"

	"github.com/ryderx/ryderx-go-sdk/booking/internal/clock"
)

type (
	// Option represents a function that modifies a property of the session.
	Option func(s *Session)
)

// WithStorePath sets the file countdown records persist to. In most
// circumstances, the default value is reasonable to use.
func WithStorePath(path string) Option {
	return func(s *Session) {
		s.storePath = path
	}
}

// WithRecordStore sets a custom record store. Countdowns kept in a memory
// store do not survive a restart of the process.
func WithRecordStore(store RecordStore) Option {
	return func(s *Session) {
		s.store = store
	}
}

// WithSessionClock sets the clock the session and its monitor read time from.
func WithSessionClock(clk clock.Clock) Option {
	return func(s *Session) {
		s.clk = clk
	}
}

// WithSessionPaymentWindow overrides the payment window the monitor applies to
// pending reservations.
func WithSessionPaymentWindow(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.window = d
		}
	}
}

// WithSessionTickInterval overrides how often the monitor re-evaluates
// countdowns.
func WithSessionTickInterval(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.tickEvery = d
		}
	}
}
