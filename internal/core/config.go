package core

import "time"

// RuntimeConfig contains configuration passed to the engine at initialization.
type RuntimeConfig struct {
	TickRate   int    // Gravity ticks per second (default 60)
	Seed       int64  // RNG seed for the shape generator
	FirstShape string // Optional fixed first piece, e.g. "T"; empty draws from the bag
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		TickRate: 60,
		Seed:     0, // 0 means use current time
	}
}

// TickInterval returns the wall-clock duration of one tick.
// Non-positive tick rates fall back to the default rate.
func (c RuntimeConfig) TickInterval() time.Duration {
	rate := c.TickRate
	if rate <= 0 {
		rate = DefaultConfig().TickRate
	}
	return time.Second / time.Duration(rate)
}
