// Package config handles nameplate configuration loading and management.
package config

import (
	"errors"

	"github.com/soypat/nameplate/tag"
)

// Config holds all settings of a nameplate run.
type Config struct {
	Tag     tag.Spec      `yaml:"tag"`
	Output  OutputConfig  `yaml:"output"`
	Batch   BatchConfig   `yaml:"batch"`
	Logging LoggingConfig `yaml:"logging"`
	// Fonts maps extra font ids to TrueType or OpenType files.
	Fonts map[string]string `yaml:"fonts"`

	// SavePath is set from the command line only. When not empty the
	// resolved configuration is written there instead of building tags.
	SavePath string `yaml:"-"`
}

// OutputConfig holds where built tags are written.
type OutputConfig struct {
	Dir string `yaml:"dir"`
	// Prefix is prepended to the serial number to name each output file.
	Prefix string `yaml:"prefix"`
}

// BatchConfig holds how many tags are built and with which serials.
type BatchConfig struct {
	// Count is the number of tags with random serials to build when
	// Serials is empty.
	Count   int      `yaml:"count"`
	Serials []string `yaml:"serials"`
	Workers int      `yaml:"workers"`
	// Seed seeds the serial number generator. Zero seeds from the clock.
	Seed int64 `yaml:"seed"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config building one Hudson River Psychiatric Center tag.
func Default() *Config {
	return &Config{
		Tag: tag.HRSH(),
		Output: OutputConfig{
			Dir:    ".",
			Prefix: "tag-",
		},
		Batch: BatchConfig{
			Count: 1,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Serials returns the serial of every tag to build. Empty entries stand for
// random serials. Without explicit batch serials the first tag takes
// Tag.Serial and the rest of the batch is random.
func (c *Config) Serials() []string {
	if len(c.Batch.Serials) > 0 {
		return c.Batch.Serials
	}
	serials := make([]string, max(c.Batch.Count, 1))
	serials[0] = c.Tag.Serial
	return serials
}

// Validate checks the configuration, including the tag parameters.
func (c *Config) Validate() error {
	if c.Batch.Count < 0 {
		return errors.New("batch count must not be negative")
	}
	if c.Batch.Workers < 0 {
		return errors.New("batch workers must not be negative")
	}
	for _, s := range c.Batch.Serials {
		if s == "" {
			return errors.New("batch serials must not be empty")
		}
	}
	return c.Tag.Validate()
}
