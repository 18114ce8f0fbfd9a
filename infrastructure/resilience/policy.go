package resilience

import "time"

// Config controls how many times an operation is attempted and whether a
// circuit breaker guards it. Attempts are made back to back with no delay.
type Config struct {
	Attempts int

	BreakerEnabled      bool
	BreakerMinRequests  uint32
	BreakerFailureRatio float64
	BreakerOpenTimeout  time.Duration
}

// DefaultConfig returns three attempts with the breaker off
func DefaultConfig() Config {
	return Config{
		Attempts: 3,

		BreakerEnabled:      false,
		BreakerMinRequests:  5,
		BreakerFailureRatio: 0.6,
		BreakerOpenTimeout:  time.Minute,
	}
}

func (c Config) normalize() Config {
	out := c
	def := DefaultConfig()

	if out.Attempts <= 0 {
		out.Attempts = def.Attempts
	}
	if out.BreakerMinRequests == 0 {
		out.BreakerMinRequests = def.BreakerMinRequests
	}
	if out.BreakerFailureRatio <= 0 || out.BreakerFailureRatio > 1 {
		out.BreakerFailureRatio = def.BreakerFailureRatio
	}
	if out.BreakerOpenTimeout <= 0 {
		out.BreakerOpenTimeout = def.BreakerOpenTimeout
	}

	return out
}
