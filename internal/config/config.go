// Package config holds the CLI settings: step size, run length, frame rate,
// catalog location, logging and tutor backend.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt        = 1.0 / 60
	DefaultDuration  = 10.0
	DefaultFPS       = 60
	DefaultSpeed     = 1.0
	DefaultCatalog   = ".poelab/scenarios"
	DefaultLogLevel  = "info"
	DefaultBackend   = "scripted"
	DefaultTimeout   = 30 * time.Second
	DefaultThinkTime = 800 * time.Millisecond
)

type Config struct {
	Scenario   string      `yaml:"scenario,omitempty"`
	Dt         float64     `yaml:"dt"`
	Duration   float64     `yaml:"duration"`
	FPS        int         `yaml:"fps"`
	Speed      float64     `yaml:"speed"`
	CatalogDir string      `yaml:"catalog_dir"`
	Log        LogConfig   `yaml:"log"`
	Tutor      TutorConfig `yaml:"tutor"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"`
}

type TutorConfig struct {
	Backend   string        `yaml:"backend"`
	Endpoint  string        `yaml:"endpoint,omitempty"`
	Timeout   time.Duration `yaml:"timeout"`
	ThinkTime time.Duration `yaml:"think_time"`
}

func DefaultConfig() *Config {
	return &Config{
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		FPS:        DefaultFPS,
		Speed:      DefaultSpeed,
		CatalogDir: DefaultCatalog,
		Log:        LogConfig{Level: DefaultLogLevel},
		Tutor: TutorConfig{
			Backend:   DefaultBackend,
			Timeout:   DefaultTimeout,
			ThinkTime: DefaultThinkTime,
		},
	}
}

// Load reads a settings file over the defaults; keys missing from the file
// keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %v", c.Dt)
	}
	if c.Duration < 0 {
		return fmt.Errorf("duration must not be negative, got %v", c.Duration)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.FPS)
	}
	if c.Speed <= 0 {
		return fmt.Errorf("speed must be positive, got %v", c.Speed)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Tutor.Backend {
	case "scripted":
	case "remote":
		if c.Tutor.Endpoint == "" {
			return fmt.Errorf("tutor backend remote needs an endpoint")
		}
	default:
		return fmt.Errorf("unknown tutor backend %q", c.Tutor.Backend)
	}
	return nil
}

// Steps is the number of ticks a run of Duration seconds takes.
func (c *Config) Steps() int {
	return int(c.Duration/c.Dt + 0.5)
}

// FrameTicks is how many ticks one rendered frame advances. It may be
// fractional; the live view carries the remainder over.
func (c *Config) FrameTicks() float64 {
	return c.Speed / (float64(c.FPS) * c.Dt)
}

func (c *Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.FPS)
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}
