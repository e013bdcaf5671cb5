package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Duration <= 0 {
		t.Error("duration should be positive")
	}
	if cfg.Tutor.Backend != "scripted" {
		t.Errorf("expected scripted tutor, got %s", cfg.Tutor.Backend)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	if cfg.Steps() != 600 {
		t.Errorf("expected 600 steps, got %d", cfg.Steps())
	}
	if cfg.FrameTicks() < 0.999 || cfg.FrameTicks() > 1.001 {
		t.Errorf("expected one tick per frame, got %f", cfg.FrameTicks())
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "poelab.yaml")
	data := "duration: 4\nlog:\n  level: debug\ntutor:\n  backend: remote\n  endpoint: http://localhost:3001/api/tutor\n  timeout: 5s\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Duration != 4 {
		t.Errorf("expected duration 4, got %f", cfg.Duration)
	}
	if cfg.Dt != DefaultDt {
		t.Errorf("missing keys should keep defaults, dt = %f", cfg.Dt)
	}
	if cfg.Tutor.Timeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %v", cfg.Tutor.Timeout)
	}
	if cfg.Tutor.ThinkTime != DefaultThinkTime {
		t.Errorf("expected default think time, got %v", cfg.Tutor.ThinkTime)
	}
	level, err := ParseLevel(cfg.Log.Level)
	if err != nil || level != slog.LevelDebug {
		t.Errorf("expected debug level, got %v (%v)", level, err)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"negative dt", "dt: -1\n"},
		{"bad level", "log:\n  level: loud\n"},
		{"remote without endpoint", "tutor:\n  backend: remote\n"},
		{"unknown backend", "tutor:\n  backend: oracle\n"},
		{"not yaml", "dt: [\n"},
	}

	for _, tt := range tests {
		path := filepath.Join(t.TempDir(), "poelab.yaml")
		if err := os.WriteFile(path, []byte(tt.data), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "poelab.yaml")
	cfg := DefaultConfig()
	cfg.Scenario = "third-law"
	cfg.Tutor.ThinkTime = 2 * time.Second

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Scenario != "third-law" || loaded.Tutor.ThinkTime != 2*time.Second {
		t.Errorf("unexpected config after round trip: %+v", loaded)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("slowmo")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Speed != 0.25 {
		t.Errorf("expected speed 0.25, got %f", cfg.Speed)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) != 3 || presets[0] != "classroom" {
		t.Errorf("unexpected presets %v", presets)
	}
}

func TestApply(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Apply(GetPreset("classroom"))

	if cfg.Scenario != "friction" {
		t.Errorf("expected friction scenario, got %q", cfg.Scenario)
	}
	if cfg.FPS != 30 || cfg.Duration != 30 {
		t.Errorf("preset fields not applied: %+v", cfg)
	}
	if cfg.Tutor.Backend != DefaultBackend || cfg.Tutor.Timeout != DefaultTimeout {
		t.Errorf("zero preset fields should keep defaults: %+v", cfg.Tutor)
	}
	if cfg.Tutor.ThinkTime != 1500*time.Millisecond {
		t.Errorf("expected think time 1.5s, got %v", cfg.Tutor.ThinkTime)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("preset produced invalid config: %v", err)
	}
}
