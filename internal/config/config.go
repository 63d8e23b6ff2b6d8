// Package config loads the optional YAML configuration file for the
// eqwatch command. Everything in it can also be set with flags; flags win.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// MaxFileSize bounds the config file read.
const MaxFileSize = 1 * 1024 * 1024

// Duration wraps time.Duration so YAML values like "15s" parse directly.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// SinkConfig is one remote collector address.
type SinkConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Config is the full configuration file.
type Config struct {
	LogDir        string       `yaml:"log_dir"`
	Server        string       `yaml:"server"`
	Heartbeat     Duration     `yaml:"heartbeat"`
	PollInterval  Duration     `yaml:"poll_interval"`
	Sinks         []SinkConfig `yaml:"sinks"`
	DetectorFiles []string     `yaml:"detector_files"`
	PetTracking   *bool        `yaml:"pet_tracking"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Server:       "project1999",
		Heartbeat:    Duration(15 * time.Second),
		PollInterval: Duration(100 * time.Millisecond),
	}
}

// Load reads and validates a configuration file. Fields left unset keep
// their defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("opening config file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return cfg, fmt.Errorf("stat config file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return cfg, errors.New("config file must be a regular file")
	}
	if info.Size() > MaxFileSize {
		return cfg, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), MaxFileSize)
	}

	data, err := io.ReadAll(io.LimitReader(f, MaxFileSize))
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks field ranges.
func (c *Config) Validate() error {
	if c.Server == "" {
		return errors.New("server must not be empty")
	}
	if c.Heartbeat <= 0 {
		return fmt.Errorf("heartbeat must be positive, got %v", c.Heartbeat.Std())
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive, got %v", c.PollInterval.Std())
	}
	for i, s := range c.Sinks {
		if s.Host == "" {
			return fmt.Errorf("sink %d: host must not be empty", i)
		}
		if s.Port < 1 || s.Port > 65535 {
			return fmt.Errorf("sink %d: port %d out of range", i, s.Port)
		}
	}
	return nil
}

// PetTrackingEnabled resolves the optional pet_tracking field; enabled by
// default.
func (c *Config) PetTrackingEnabled() bool {
	if c.PetTracking == nil {
		return true
	}
	return *c.PetTracking
}
