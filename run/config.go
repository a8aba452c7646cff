package run

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// PoolConfig holds configuration for a Pool.
type PoolConfig struct {
	// Workers is the number of worker goroutines.
	Workers int `env:"PULSE_POOL_WORKERS" envDefault:"4"`

	// QueueSize is the capacity of the task queue. Post fails with
	// ErrQueueFull once the queue is at capacity.
	QueueSize int `env:"PULSE_POOL_QUEUE_SIZE" envDefault:"1024"`

	// ShutdownTimeout is the maximum time Stop waits for queued tasks to
	// drain before giving up.
	ShutdownTimeout time.Duration `env:"PULSE_POOL_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// DefaultPoolConfig returns a PoolConfig with sensible defaults.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		Workers:         4,
		QueueSize:       1024,
		ShutdownTimeout: 5 * time.Second,
	}
}

// PoolConfigFromEnv loads pool configuration from PULSE_POOL_* environment
// variables, falling back to the defaults for unset variables.
func PoolConfigFromEnv() (PoolConfig, error) {
	var cfg PoolConfig
	if err := env.Parse(&cfg); err != nil {
		return PoolConfig{}, fmt.Errorf("parse pool env: %w", err)
	}
	return cfg, nil
}
