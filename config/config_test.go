package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "viewer.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
	if cfg.Window.Title != "Robot Controller" || cfg.Transition.DefaultAction != "Idle" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if len(cfg.Environment.Platforms) != 3 {
		t.Errorf("len(Platforms) = %d, want 3", len(cfg.Environment.Platforms))
	}
	if got, want := cfg.ManifestPath(), filepath.Join("public", "models.yaml"); got != want {
		t.Errorf("ManifestPath() = %q, want %q", got, want)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
window:
  title: Bot
controller:
  run_speed: 7
  script: scripts/strafe.tengo
environment:
  grid: false
  platforms:
    - position: [0, 1, 0]
      size: [1, 2, 1]
      color: "#ffffff"
persist: false
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q) error = %v", path, err)
	}
	if cfg.Window.Title != "Bot" || cfg.Window.Width != 1280 {
		t.Errorf("Window = %+v", cfg.Window)
	}
	if cfg.Controller.RunSpeed != 7 || cfg.Controller.WalkSpeed != 2 || cfg.Controller.Script != "scripts/strafe.tengo" {
		t.Errorf("Controller = %+v", cfg.Controller)
	}
	if cfg.Environment.Grid || len(cfg.Environment.Platforms) != 1 || cfg.Persist {
		t.Errorf("Environment = %+v persist=%v", cfg.Environment, cfg.Persist)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"negative speed", "controller:\n  walk_speed: -1\n"},
		{"empty label", "controller:\n  idle_label: \"\"\n"},
		{"zero fade", "transition:\n  fade: 0\n"},
		{"flat platform", "environment:\n  platforms:\n    - size: [1, 0, 1]\n"},
		{"bad colour", "environment:\n  platforms:\n    - size: [1, 1, 1]\n      color: blue\n"},
		{"inverted camera bounds", "camera:\n  min_elevation: 1\n  max_elevation: 0.5\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Load() error = %v, want %v", err, ErrInvalidConfig)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load(missing) error = nil")
	}
	if _, err := Load(writeConfig(t, "window: [")); err == nil {
		t.Error("Load(malformed) error = nil")
	}
}
