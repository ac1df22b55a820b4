package retry

import (
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig indicates an invalid retry configuration.
var ErrInvalidConfig = errors.New("invalid retry configuration")

// Config holds the per consumer retry and backoff settings. It is immutable
// after construction and safe to share between concurrent deliveries.
type Config struct {
	// MaxAttempts is the total number of delivery attempts including the
	// first one.
	MaxAttempts int

	// BackOffInitialInterval is the wait before the second attempt.
	BackOffInitialInterval time.Duration

	// BackOffMultiplier is the geometric growth factor applied to the wait
	// between subsequent attempts.
	BackOffMultiplier float64

	// BackOffMaxInterval caps every single wait.
	BackOffMaxInterval time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxAttempts:            3,
		BackOffInitialInterval: time.Second,
		BackOffMultiplier:      2.0,
		BackOffMaxInterval:     10 * time.Second,
	}
}

func (c Config) Validate() error {
	if c.MaxAttempts < 1 {
		return fmt.Errorf("%w: maxAttempts must be at least 1, got %d", ErrInvalidConfig, c.MaxAttempts)
	}

	if c.BackOffInitialInterval < 0 {
		return fmt.Errorf("%w: backOffInitialInterval must not be negative, got %v", ErrInvalidConfig, c.BackOffInitialInterval)
	}

	if c.BackOffMultiplier < 1.0 {
		return fmt.Errorf("%w: backOffMultiplier must be at least 1.0, got %v", ErrInvalidConfig, c.BackOffMultiplier)
	}

	if c.BackOffMaxInterval < c.BackOffInitialInterval {
		return fmt.Errorf(
			"%w: backOffMaxInterval %v is smaller than backOffInitialInterval %v",
			ErrInvalidConfig,
			c.BackOffMaxInterval,
			c.BackOffInitialInterval,
		)
	}

	return nil
}

// consumerOptions is the wire form of Config. Interval values are given in
// milliseconds, matching the consumer property format of the original system.
type consumerOptions struct {
	MaxAttempts            *int     `yaml:"maxAttempts"`
	BackOffInitialInterval *int64   `yaml:"backOffInitialInterval"`
	BackOffMultiplier      *float64 `yaml:"backOffMultiplier"`
	BackOffMaxInterval     *int64   `yaml:"backOffMaxInterval"`
}

// ParseConfig reads a YAML consumer options document. Absent options keep
// their defaults; the resulting config is validated before it is returned.
func ParseConfig(data []byte) (Config, error) {
	var opts consumerOptions
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Config{}, fmt.Errorf("parse consumer options: %w", err)
	}

	c := DefaultConfig()

	if opts.MaxAttempts != nil {
		c.MaxAttempts = *opts.MaxAttempts
	}

	if opts.BackOffInitialInterval != nil {
		c.BackOffInitialInterval = time.Duration(*opts.BackOffInitialInterval) * time.Millisecond
	}

	if opts.BackOffMultiplier != nil {
		c.BackOffMultiplier = *opts.BackOffMultiplier
	}

	if opts.BackOffMaxInterval != nil {
		c.BackOffMaxInterval = time.Duration(*opts.BackOffMaxInterval) * time.Millisecond
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}
