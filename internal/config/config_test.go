package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Planet.Radius != 20 {
		t.Errorf("expected radius 20, got %v", cfg.Planet.Radius)
	}
	if cfg.Locomotion.WalkSpeed != 3 || cfg.Locomotion.RunSpeed != 6 {
		t.Errorf("unexpected speeds walk=%v run=%v", cfg.Locomotion.WalkSpeed, cfg.Locomotion.RunSpeed)
	}
	if cfg.Locomotion.Response != "block" {
		t.Errorf("expected block response, got %s", cfg.Locomotion.Response)
	}
	if cfg.Simulation.MaxDelta != 0.1 {
		t.Errorf("expected max delta 0.1, got %v", cfg.Simulation.MaxDelta)
	}
	if cfg.Camera.SwayAmount != 0 {
		t.Errorf("expected sway disabled by default, got %v", cfg.Camera.SwayAmount)
	}
	if cfg.Window.Enabled {
		t.Error("expected window to be disabled by default")
	}
	if len(cfg.Animation.Blends) != 6 {
		t.Errorf("expected 6 blend entries, got %d", len(cfg.Animation.Blends))
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
planet:
  radius: 50

locomotion:
  walk_speed: 2.5
  run_speed: 7
  response: slide

camera:
  follow_distance: 8
  sway_amount: 0.2

animation:
  blends:
    walk->run: 0.4

window:
  enabled: true
  width: 1920
  height: 1080

logging:
  level: "debug"
  log_file: "planetwalk.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Planet.Radius != 50 {
		t.Errorf("expected radius 50, got %v", cfg.Planet.Radius)
	}
	if cfg.Locomotion.WalkSpeed != 2.5 {
		t.Errorf("expected walk speed 2.5, got %v", cfg.Locomotion.WalkSpeed)
	}
	if cfg.Locomotion.Response != "slide" {
		t.Errorf("expected slide response, got %s", cfg.Locomotion.Response)
	}
	// Untouched fields keep their defaults.
	if cfg.Locomotion.TurnSpeed != 10 {
		t.Errorf("expected default turn speed 10, got %v", cfg.Locomotion.TurnSpeed)
	}
	if cfg.Camera.FollowDistance != 8 || cfg.Camera.SwayAmount != 0.2 {
		t.Errorf("unexpected camera %+v", cfg.Camera)
	}
	if cfg.Animation.Blends["walk->run"] != 0.4 {
		t.Errorf("expected walk->run blend 0.4, got %v", cfg.Animation.Blends["walk->run"])
	}
	if !cfg.Window.Enabled || cfg.Window.Width != 1920 {
		t.Errorf("unexpected window %+v", cfg.Window)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "planetwalk.log" {
		t.Errorf("expected log file 'planetwalk.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
planet:
  radius: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero radius", func(c *Config) { c.Planet.Radius = 0 }},
		{"run slower than walk", func(c *Config) { c.Locomotion.RunSpeed = 1 }},
		{"unknown response", func(c *Config) { c.Locomotion.Response = "bounce" }},
		{"zero agent radius", func(c *Config) { c.Collision.AgentRadius = 0 }},
		{"fov out of range", func(c *Config) { c.Camera.FOV = 200 }},
		{"bad blend key", func(c *Config) { c.Animation.Blends["walk"] = 0.1 }},
		{"negative blend", func(c *Config) { c.Animation.Blends["walk->run"] = -1 }},
		{"step above max delta", func(c *Config) { c.Simulation.FixedStep = 1 }},
		{"window without size", func(c *Config) { c.Window.Enabled = true; c.Window.Width = 0 }},
		{"screenshot format", func(c *Config) { c.Window.Screenshot = "gif" }},
		{"loud audio", func(c *Config) { c.Audio.SFXVolume = 1.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestSplitBlend(t *testing.T) {
	from, to, ok := SplitBlend(" idle -> run ")
	if !ok || from != "idle" || to != "run" {
		t.Errorf("got %q %q %v", from, to, ok)
	}
	if _, _, ok := SplitBlend("idle"); ok {
		t.Error("expected missing arrow to fail")
	}
	if _, _, ok := SplitBlend("->run"); ok {
		t.Error("expected empty side to fail")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	t.Setenv("HOME", tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("planet:\n  radius: 30\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "scene and model flags",
			setup: func() { *flagScene = "worlds/tiny.yaml"; *flagModel = "models/explorer.yaml" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Scene.Path != "worlds/tiny.yaml" {
					t.Errorf("expected scene path, got %s", cfg.Scene.Path)
				}
				if cfg.Scene.Model != "models/explorer.yaml" {
					t.Errorf("expected model path, got %s", cfg.Scene.Model)
				}
			},
			teardown: func() { *flagScene = ""; *flagModel = "" },
		},
		{
			name:  "window flag",
			setup: func() { *flagWindow = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Window.Enabled {
					t.Error("expected window to be enabled with window flag")
				}
			},
			teardown: func() { *flagWindow = false },
		},
		{
			name:  "ticks flag",
			setup: func() { *flagTicks = 42 },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Simulation.Ticks != 42 {
					t.Errorf("expected 42 ticks, got %d", cfg.Simulation.Ticks)
				}
			},
			teardown: func() { *flagTicks = 0 },
		},
		{
			name:  "script flag",
			setup: func() { *flagScript = "forward:10,idle:5" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Simulation.Script != "forward:10,idle:5" {
					t.Errorf("expected script override, got %q", cfg.Simulation.Script)
				}
			},
			teardown: func() { *flagScript = "" },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Width != 2560 {
					t.Errorf("expected width 2560, got %d", cfg.Window.Width)
				}
				if cfg.Window.Height != 1440 {
					t.Errorf("expected height 1440, got %d", cfg.Window.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name:  "watch flag",
			setup: func() { *flagWatch = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Scene.Watch {
					t.Error("expected watch to be enabled")
				}
			},
			teardown: func() { *flagWatch = false },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)

			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
window:
  width: 1600
  height: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Set flag to override config file
	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width should be from flag (1920), not file (1600)
	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Window.Width)
	}
	// Height should be from file (900) since no flag override
	if cfg.Window.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Window.Height)
	}
	if cfg.Source() != configPath {
		t.Errorf("expected source %s, got %s", configPath, cfg.Source())
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("planet:\n  radius: -1\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := LoadFrom(configPath)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Locomotion.WalkSpeed = 4.5
	cfg.Animation.Blends["run->idle"] = 0.5
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Locomotion.WalkSpeed != 4.5 {
		t.Errorf("expected walk speed 4.5, got %v", loaded.Locomotion.WalkSpeed)
	}
	if loaded.Animation.Blends["run->idle"] != 0.5 {
		t.Errorf("expected run->idle 0.5, got %v", loaded.Animation.Blends["run->idle"])
	}
}

func TestWatchReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("planet:\n  radius: 20\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	w, err := Watch(path)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("planet:\n  radius: 35\n"), 0644); err != nil {
		t.Fatalf("failed to rewrite test config: %v", err)
	}

	select {
	case cfg := <-w.Updates:
		if cfg.Planet.Radius != 35 {
			t.Errorf("expected reloaded radius 35, got %v", cfg.Planet.Radius)
		}
	case err := <-w.Errors:
		t.Fatalf("unexpected watch error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestWatchReportsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("planet:\n  radius: 20\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	w, err := Watch(path)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	if err := os.WriteFile(path, []byte("planet:\n  radius: 0\n"), 0644); err != nil {
		t.Fatalf("failed to rewrite test config: %v", err)
	}

	select {
	case err := <-w.Errors:
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	case <-w.Updates:
		t.Fatal("invalid config should not be delivered")
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for error")
	}

	if err := w.Close(); err != nil {
		t.Errorf("close: %v", err)
	}
	// Channels are closed after Close.
	if _, ok := <-w.Updates; ok {
		t.Error("expected Updates to be closed")
	}
}
