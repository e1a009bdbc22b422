package cli

import (
	"os"
	"time"

	"github.com/mcoot/apextrack/internal/services/tracker"
)

// Config holds CLI configuration
type Config struct {
	EnvFile    string
	Interval   time.Duration
	StatusAddr string
	Output     string
	Verbose    bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		Output:  "text",
		Verbose: false,
	}
}

// ResolveInterval returns the poll interval, falling back to the
// POLL_INTERVAL env var and then the built-in default. Called after the
// env file has been loaded so file-provided values are visible.
func (c *Config) ResolveInterval() (time.Duration, error) {
	if c.Interval > 0 {
		return c.Interval, nil
	}
	if raw := os.Getenv("POLL_INTERVAL"); raw != "" {
		return time.ParseDuration(raw)
	}
	return tracker.DefaultPollInterval, nil
}

// ResolveStatusAddr returns the status API listen address, falling back
// to the STATUS_ADDR env var. Empty means the status API stays off.
func (c *Config) ResolveStatusAddr() string {
	if c.StatusAddr != "" {
		return c.StatusAddr
	}
	return os.Getenv("STATUS_ADDR")
}
