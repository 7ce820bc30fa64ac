package solver

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Config is a serialisable representation of the runtime configuration. It
// can be populated from YAML or JSON; the zero value inherits the package
// defaults.
type Config struct {
	Runtime RuntimeConfig `json:"runtime" yaml:"runtime"`
}

// RuntimeConfig configures the batch worker pool.
type RuntimeConfig struct {
	// Workers is the number of problems solved in parallel.
	Workers int `json:"workers" yaml:"workers"`
	// QueueBuffer bounds the number of submitted, not yet consumed cases.
	QueueBuffer int `json:"queueBuffer" yaml:"queueBuffer"`
}

// DefaultConfig returns a Config populated with the package defaults.
func DefaultConfig() *Config {
	return &Config{
		Runtime: RuntimeConfig{
			Workers:     4,
			QueueBuffer: 128,
		},
	}
}

// Validate returns an error describing invalid settings, or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.Runtime.Workers <= 0 {
		return fmt.Errorf("runtime.workers must be > 0")
	}
	if c.Runtime.QueueBuffer <= 0 {
		return fmt.Errorf("runtime.queueBuffer must be > 0")
	}
	return nil
}

// ParseConfig decodes YAML configuration on top of the defaults.
func ParseConfig(data []byte) (*Config, error) {
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}
