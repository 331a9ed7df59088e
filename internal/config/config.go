// Package config handles simulation configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all settings.
type Config struct {
	Planet      PlanetConfig      `yaml:"planet"`
	Locomotion  LocomotionConfig  `yaml:"locomotion"`
	Collision   CollisionConfig   `yaml:"collision"`
	Camera      CameraConfig      `yaml:"camera"`
	Animation   AnimationConfig   `yaml:"animation"`
	Interaction InteractionConfig `yaml:"interaction"`
	Simulation  SimulationConfig  `yaml:"simulation"`
	Window      WindowConfig      `yaml:"window"`
	Audio       AudioConfig       `yaml:"audio"`
	Scene       SceneConfig       `yaml:"scene"`
	Logging     LoggingConfig     `yaml:"logging"`

	source string
}

// PlanetConfig holds the world sphere settings. A scene file may override
// the radius.
type PlanetConfig struct {
	Radius float32 `yaml:"radius"`
}

// LocomotionConfig holds agent movement tuning.
type LocomotionConfig struct {
	WalkSpeed    float32 `yaml:"walk_speed"`   // Units per second
	RunSpeed     float32 `yaml:"run_speed"`    // Units per second
	Acceleration float32 `yaml:"acceleration"` // Speed smoothing rate (1/s)
	TurnSpeed    float32 `yaml:"turn_speed"`   // Heading smoothing rate (1/s)
	Response     string  `yaml:"response"`     // Collision response: block or slide
}

// CollisionConfig holds the agent footprint.
type CollisionConfig struct {
	AgentRadius float32 `yaml:"agent_radius"`
	AgentHeight float32 `yaml:"agent_height"` // Probe height above the surface
	Epsilon     float32 `yaml:"epsilon"`
}

// CameraConfig holds follow camera framing.
type CameraConfig struct {
	FollowDistance float32 `yaml:"follow_distance"`
	FollowHeight   float32 `yaml:"follow_height"`
	Smoothing      float32 `yaml:"smoothing"` // Exponential rate (1/s)
	SwayAmount     float32 `yaml:"sway_amount"`
	SwayRate       float32 `yaml:"sway_rate"`
	FOV            float32 `yaml:"fov"` // Vertical field of view (degrees)
}

// AnimationConfig holds procedural cycle tuning. Blends maps a transition
// written as "from->to" (e.g. "walk->run") to its cross-fade in seconds.
type AnimationConfig struct {
	WalkCycleRate     float32            `yaml:"walk_cycle_rate"`
	RunCycleRate      float32            `yaml:"run_cycle_rate"`
	ThighAmplitude    float32            `yaml:"thigh_amplitude"`
	ShinAmplitude     float32            `yaml:"shin_amplitude"`
	ArmAmplitude      float32            `yaml:"arm_amplitude"`
	RunAmplitudeScale float32            `yaml:"run_amplitude_scale"`
	BobAmount         float32            `yaml:"bob_amount"`
	BreathRate        float32            `yaml:"breath_rate"`
	BreathAmount      float32            `yaml:"breath_amount"`
	RelaxRate         float32            `yaml:"relax_rate"`
	PhaseDecayRate    float32            `yaml:"phase_decay_rate"`
	Blends            map[string]float32 `yaml:"blends"`
}

// InteractionConfig holds the interactable range settings.
type InteractionConfig struct {
	Hysteresis float32 `yaml:"hysteresis"` // Exit margin as a fraction of range
}

// SimulationConfig holds the frame stepping settings.
type SimulationConfig struct {
	MaxDelta  float32 `yaml:"max_delta"`  // Upper bound on one tick (s)
	FixedStep float32 `yaml:"fixed_step"` // Tick length for headless runs (s)
	Ticks     int     `yaml:"ticks"`      // Headless run length
	Script    string  `yaml:"script"`     // Headless input, e.g. "forward:120,left:30"
	Loop      bool    `yaml:"loop"`       // Repeat the script until Ticks run out
}

// WindowConfig holds debug viewer settings.
type WindowConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	VSync      bool   `yaml:"vsync"`
	FPSLimit   int    `yaml:"fps_limit"`
	Screenshot string `yaml:"screenshot_format"` // png or bmp
}

// AudioConfig holds viewer sound settings. Paths point at WAV files.
type AudioConfig struct {
	Enabled       bool    `yaml:"enabled"`
	Footstep      string  `yaml:"footstep"` // Played on each footfall
	Ambient       string  `yaml:"ambient"`  // Looped while the viewer runs
	MasterVolume  float64 `yaml:"master_volume"`
	SFXVolume     float64 `yaml:"sfx_volume"`
	AmbientVolume float64 `yaml:"ambient_volume"`
}

// SceneConfig points at scene data.
type SceneConfig struct {
	Path  string `yaml:"path"`  // Scene YAML; empty uses the built-in scene
	Model string `yaml:"model"` // Model manifest; empty uses the procedural look
	Watch bool   `yaml:"watch"` // Hot-reload tuning when the config file changes
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Planet: PlanetConfig{Radius: 20},
		Locomotion: LocomotionConfig{
			WalkSpeed:    3,
			RunSpeed:     6,
			Acceleration: 8,
			TurnSpeed:    10,
			Response:     "block",
		},
		Collision: CollisionConfig{
			AgentRadius: 0.4,
			AgentHeight: 0.5,
			Epsilon:     0.05,
		},
		Camera: CameraConfig{
			FollowDistance: 6,
			FollowHeight:   3,
			Smoothing:      5,
			SwayAmount:     0,
			SwayRate:       0.7,
			FOV:            60,
		},
		Animation: AnimationConfig{
			WalkCycleRate:     8,
			RunCycleRate:      12,
			ThighAmplitude:    0.5,
			ShinAmplitude:     0.6,
			ArmAmplitude:      0.4,
			RunAmplitudeScale: 1.5,
			BobAmount:         0.06,
			BreathRate:        2,
			BreathAmount:      0.02,
			RelaxRate:         10,
			PhaseDecayRate:    5,
			Blends: map[string]float32{
				"idle->walk": 0.2,
				"walk->idle": 0.25,
				"walk->run":  0.15,
				"run->walk":  0.2,
				"idle->run":  0.2,
				"run->idle":  0.3,
			},
		},
		Interaction: InteractionConfig{Hysteresis: 0.15},
		Simulation: SimulationConfig{
			MaxDelta:  0.1,
			FixedStep: 1.0 / 60.0,
			Ticks:     600,
			Script:    "forward:240,forward+left:60,forward+run:180,idle:120",
			Loop:      true,
		},
		Window: WindowConfig{
			Enabled:    false,
			Width:      1280,
			Height:     720,
			VSync:      true,
			FPSLimit:   60,
			Screenshot: "png",
		},
		Audio: AudioConfig{
			MasterVolume:  1,
			SFXVolume:     0.8,
			AmbientVolume: 0.5,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Source returns the file the config was loaded from, if any.
func (c *Config) Source() string {
	return c.source
}

// SplitBlend parses a "from->to" blend key.
func SplitBlend(key string) (from, to string, ok bool) {
	from, to, ok = strings.Cut(key, "->")
	if !ok {
		return "", "", false
	}
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	return from, to, from != "" && to != ""
}

// Validate checks value ranges and returns every problem found.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
		}
	}

	check(c.Planet.Radius > 0, "planet.radius must be positive, got %v", c.Planet.Radius)

	l := c.Locomotion
	check(l.WalkSpeed > 0, "locomotion.walk_speed must be positive, got %v", l.WalkSpeed)
	check(l.RunSpeed >= l.WalkSpeed, "locomotion.run_speed %v below walk_speed %v", l.RunSpeed, l.WalkSpeed)
	check(l.Acceleration > 0, "locomotion.acceleration must be positive, got %v", l.Acceleration)
	check(l.TurnSpeed > 0, "locomotion.turn_speed must be positive, got %v", l.TurnSpeed)
	check(l.Response == "block" || l.Response == "slide", "locomotion.response must be block or slide, got %q", l.Response)

	check(c.Collision.AgentRadius > 0, "collision.agent_radius must be positive, got %v", c.Collision.AgentRadius)
	check(c.Collision.AgentHeight >= 0, "collision.agent_height must not be negative, got %v", c.Collision.AgentHeight)
	check(c.Collision.Epsilon >= 0, "collision.epsilon must not be negative, got %v", c.Collision.Epsilon)

	check(c.Camera.FollowDistance > 0, "camera.follow_distance must be positive, got %v", c.Camera.FollowDistance)
	check(c.Camera.Smoothing > 0, "camera.smoothing must be positive, got %v", c.Camera.Smoothing)
	check(c.Camera.FOV > 0 && c.Camera.FOV < 180, "camera.fov must be in (0, 180), got %v", c.Camera.FOV)

	for key, d := range c.Animation.Blends {
		_, _, ok := SplitBlend(key)
		check(ok, "animation.blends key %q is not from->to", key)
		check(d >= 0, "animation.blends[%s] must not be negative, got %v", key, d)
	}

	check(c.Interaction.Hysteresis >= 0, "interaction.hysteresis must not be negative, got %v", c.Interaction.Hysteresis)

	s := c.Simulation
	check(s.MaxDelta > 0, "simulation.max_delta must be positive, got %v", s.MaxDelta)
	check(s.FixedStep > 0 && s.FixedStep <= s.MaxDelta, "simulation.fixed_step must be in (0, max_delta], got %v", s.FixedStep)
	check(s.Ticks >= 0, "simulation.ticks must not be negative, got %d", s.Ticks)

	if c.Window.Enabled {
		check(c.Window.Width > 0 && c.Window.Height > 0, "window size %dx%d", c.Window.Width, c.Window.Height)
	}
	check(c.Window.Screenshot == "png" || c.Window.Screenshot == "bmp", "window.screenshot_format must be png or bmp, got %q", c.Window.Screenshot)

	volume := func(name string, v float64) {
		check(v >= 0 && v <= 1, "audio.%s must be in [0, 1], got %v", name, v)
	}
	volume("master_volume", c.Audio.MasterVolume)
	volume("sfx_volume", c.Audio.SFXVolume)
	volume("ambient_volume", c.Audio.AmbientVolume)

	return errors.Join(errs...)
}
