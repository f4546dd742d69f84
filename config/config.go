// Package config loads pool settings from yaml file and environment.
package config

import (
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/dudk/sobel"
	"github.com/dudk/sobel/log"
)

// Config holds pool settings. Environment variables take precedence over
// values from file.
type Config struct {
	Workers          int           `yaml:"workers" env:"SOBEL_WORKERS"`
	ConverterWorkers int           `yaml:"converter_workers" env:"SOBEL_CONVERTER_WORKERS"`
	StallTimeout     time.Duration `yaml:"stall_timeout" env:"SOBEL_STALL_TIMEOUT"`
	Debug            bool          `yaml:"debug" env:"SOBEL_DEBUG"`
}

// Default returns config with default values.
func Default() Config {
	return Config{
		Workers:      sobel.DefaultWorkers,
		StallTimeout: time.Second,
	}
}

// Load reads config from yaml file at path and then applies environment
// overrides. Empty path skips the file.
func Load(path string) (Config, error) {
	c := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrap(err, "read config")
		}
		if err := yaml.UnmarshalStrict(b, &c); err != nil {
			return Config{}, errors.Wrapf(err, "parse config %v", path)
		}
	}
	if err := env.Parse(&c); err != nil {
		return Config{}, errors.Wrap(err, "parse environment")
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks config values.
func (c Config) Validate() error {
	if c.Workers < 1 || c.Workers > sobel.MaxWorkers {
		return errors.Wrapf(sobel.ErrWorkers, "%d not in range [1, %d]", c.Workers, sobel.MaxWorkers)
	}
	if c.ConverterWorkers < 0 {
		return errors.Errorf("negative converter workers %d", c.ConverterWorkers)
	}
	if c.StallTimeout < 0 {
		return errors.Errorf("negative stall timeout %v", c.StallTimeout)
	}
	return nil
}

// Options translates config into pool options.
func (c Config) Options() []sobel.Option {
	l := log.GetLogger()
	if c.Debug {
		l.SetLevel(logrus.DebugLevel)
	}
	options := []sobel.Option{
		sobel.WithWorkers(c.Workers),
		sobel.WithStallTimeout(c.StallTimeout),
		sobel.WithLogger(l),
	}
	if c.ConverterWorkers > 0 {
		options = append(options, sobel.WithConverter(sobel.ParallelLuma{Workers: c.ConverterWorkers}))
	}
	return options
}
