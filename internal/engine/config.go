package engine

import "ecosystem-server/internal/systems"

// Config holds the engine parameters.
type Config struct {
	// Seed is the master seed of every simulate call. 0 means a fresh,
	// time-based seed per call.
	Seed int64

	// Hunt tuning
	ReattackChance float64
	MaxExchanges   int

	// Batches longer than AsyncThreshold ticks are dispatched as background tasks
	// by the calling layer.
	AsyncThreshold int
	// MaxTicks caps a single simulate request.
	MaxTicks int

	// Background runner sizing
	Workers   int
	QueueSize int
}

// NewConfig returns the default engine configuration.
func NewConfig() Config {
	return Config{
		Seed:           0,
		ReattackChance: systems.DefaultHuntOptions.ReattackChance,
		MaxExchanges:   systems.DefaultHuntOptions.MaxExchanges,
		AsyncThreshold: 10,
		MaxTicks:       1000,
		Workers:        4,
		QueueSize:      64,
	}
}

// HuntOptions returns the hunt tuning, falling back to defaults for zero values.
func (c Config) HuntOptions() systems.HuntOptions {
	opts := systems.DefaultHuntOptions
	if c.ReattackChance > 0 {
		opts.ReattackChance = c.ReattackChance
	}
	if c.MaxExchanges > 0 {
		opts.MaxExchanges = c.MaxExchanges
	}
	return opts
}
