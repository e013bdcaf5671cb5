package config

import (
	"sort"
	"time"
)

var Presets = map[string]*Config{
	"realtime": {
		Dt: 1.0 / 60, Duration: 10, FPS: 60, Speed: 1,
	},
	"slowmo": {
		Dt: 1.0 / 240, Duration: 10, FPS: 60, Speed: 0.25,
	},
	"classroom": {
		Scenario: "friction", Dt: 1.0 / 60, Duration: 30, FPS: 30, Speed: 1,
		Tutor: TutorConfig{ThinkTime: 1500 * time.Millisecond},
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply copies the preset's non-zero fields onto c.
func (c *Config) Apply(p *Config) {
	if p.Scenario != "" {
		c.Scenario = p.Scenario
	}
	if p.Dt > 0 {
		c.Dt = p.Dt
	}
	if p.Duration > 0 {
		c.Duration = p.Duration
	}
	if p.FPS > 0 {
		c.FPS = p.FPS
	}
	if p.Speed > 0 {
		c.Speed = p.Speed
	}
	if p.CatalogDir != "" {
		c.CatalogDir = p.CatalogDir
	}
	if p.Log.Level != "" {
		c.Log.Level = p.Log.Level
	}
	if p.Tutor.Backend != "" {
		c.Tutor.Backend = p.Tutor.Backend
	}
	if p.Tutor.Endpoint != "" {
		c.Tutor.Endpoint = p.Tutor.Endpoint
	}
	if p.Tutor.Timeout > 0 {
		c.Tutor.Timeout = p.Tutor.Timeout
	}
	if p.Tutor.ThinkTime > 0 {
		c.Tutor.ThinkTime = p.Tutor.ThinkTime
	}
}
