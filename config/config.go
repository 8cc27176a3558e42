package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the viewer configuration, read from YAML.
type Config struct {
	Window      WindowConfig      `yaml:"window"`
	Assets      AssetsConfig      `yaml:"assets"`
	Controller  ControllerConfig  `yaml:"controller"`
	Transition  TransitionConfig  `yaml:"transition"`
	Environment EnvironmentConfig `yaml:"environment"`
	Camera      CameraConfig      `yaml:"camera"`
	Engine      EngineConfig      `yaml:"engine"`

	// Persist stores environment and movement settings between runs.
	Persist bool `yaml:"persist"`
}

type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// AssetsConfig locates the character assets. Manifest is resolved relative to Dir when not absolute.
type AssetsConfig struct {
	Manifest string  `yaml:"manifest"`
	Dir      string  `yaml:"dir"`
	Base     string  `yaml:"base"`
	Scale    float32 `yaml:"scale"`
}

type ControllerConfig struct {
	WalkSpeed   float32 `yaml:"walk_speed"`
	RunSpeed    float32 `yaml:"run_speed"`
	RotateSpeed float32 `yaml:"rotate_speed"`
	IdleLabel   string  `yaml:"idle_label"`
	WalkLabel   string  `yaml:"walk_label"`
	RunLabel    string  `yaml:"run_label"`
	Script      string  `yaml:"script"`
}

type TransitionConfig struct {
	Fade          float32 `yaml:"fade"`
	DefaultAction string  `yaml:"default_action"`
}

// Platform is a static box the character can stand on.
type Platform struct {
	Position [3]float32 `yaml:"position"`
	Size     [3]float32 `yaml:"size"`
	Color    string     `yaml:"color"`
}

type EnvironmentConfig struct {
	Ambient       float32    `yaml:"ambient"`
	Directional   float32    `yaml:"directional"`
	Grid          bool       `yaml:"grid"`
	LightPosition [3]float32 `yaml:"light_position"`
	GroundSize    float32    `yaml:"ground_size"`
	Platforms     []Platform `yaml:"platforms"`
}

// CameraConfig places the orbit camera. Elevation is measured from the horizon in radians.
type CameraConfig struct {
	Radius       float32 `yaml:"radius"`
	Elevation    float32 `yaml:"elevation"`
	Fov          float32 `yaml:"fov"`
	MinElevation float32 `yaml:"min_elevation"`
	MaxElevation float32 `yaml:"max_elevation"`
}

type EngineConfig struct {
	TickRate   int  `yaml:"tick_rate"`
	FrameLimit int  `yaml:"frame_limit"`
	VSync      bool `yaml:"vsync"`
	Profiling  bool `yaml:"profiling"`
}

// DefaultPlatforms returns the three platforms of the default scene.
func DefaultPlatforms() []Platform {
	return []Platform{
		{Position: [3]float32{3, 0.5, 0}, Size: [3]float32{2, 1, 2}, Color: "#44aa88"},
		{Position: [3]float32{-3, 0.25, 2}, Size: [3]float32{2, 0.5, 2}, Color: "#aa4488"},
		{Position: [3]float32{0, 0.25, -3}, Size: [3]float32{4, 0.5, 2}, Color: "#4488aa"},
	}
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Window: WindowConfig{Title: "Robot Controller", Width: 1280, Height: 720},
		Assets: AssetsConfig{Manifest: "models.yaml", Dir: "public", Base: "X-Bot", Scale: 0.01},
		Controller: ControllerConfig{
			WalkSpeed:   2,
			RunSpeed:    5,
			RotateSpeed: 3,
			IdleLabel:   "Base_Idle",
			WalkLabel:   "Start Walking",
			RunLabel:    "Jogging",
		},
		Transition: TransitionConfig{Fade: 0.5, DefaultAction: "Idle"},
		Environment: EnvironmentConfig{
			Ambient:       0.5,
			Directional:   1,
			Grid:          true,
			LightPosition: [3]float32{10, 10, 5},
			GroundSize:    100,
			Platforms:     DefaultPlatforms(),
		},
		// (0, 2, 5) from the origin
		Camera: CameraConfig{
			Radius:       float32(math.Hypot(2, 5)),
			Elevation:    float32(math.Atan2(2, 5)),
			Fov:          50,
			MinElevation: 0,
			MaxElevation: math.Pi / 2,
		},
		Engine:  EngineConfig{TickRate: 60, VSync: true},
		Persist: true,
	}
}

// Load reads the YAML file at path over the defaults and validates the result.
// An empty path returns the defaults.
//
// Parameters:
//   - path: config file path, may be empty
//
// Returns:
//   - *Config: the configuration
//   - error: read, parse or validation failure
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks speeds, labels, the fade and platform sizes.
func (c *Config) Validate() error {
	ctl := c.Controller
	if ctl.WalkSpeed <= 0 || ctl.RunSpeed <= 0 || ctl.RotateSpeed <= 0 {
		return fmt.Errorf("%w: controller speeds must be positive, got walk=%v run=%v rotate=%v",
			ErrInvalidConfig, ctl.WalkSpeed, ctl.RunSpeed, ctl.RotateSpeed)
	}
	if ctl.IdleLabel == "" || ctl.WalkLabel == "" || ctl.RunLabel == "" {
		return fmt.Errorf("%w: controller labels must not be empty", ErrInvalidConfig)
	}
	if c.Transition.Fade <= 0 {
		return fmt.Errorf("%w: transition fade must be positive, got %v", ErrInvalidConfig, c.Transition.Fade)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Window.Width, c.Window.Height)
	}
	if c.Assets.Scale <= 0 {
		return fmt.Errorf("%w: asset scale must be positive, got %v", ErrInvalidConfig, c.Assets.Scale)
	}
	if c.Camera.MinElevation > c.Camera.MaxElevation {
		return fmt.Errorf("%w: camera elevation bounds [%v, %v]", ErrInvalidConfig, c.Camera.MinElevation, c.Camera.MaxElevation)
	}
	for i, p := range c.Environment.Platforms {
		if p.Size[0] <= 0 || p.Size[1] <= 0 || p.Size[2] <= 0 {
			return fmt.Errorf("%w: platform %d size %v", ErrInvalidConfig, i, p.Size)
		}
		if p.Color != "" {
			if _, err := common.ParseHexColor(p.Color); err != nil {
				return fmt.Errorf("%w: platform %d: %v", ErrInvalidConfig, i, err)
			}
		}
	}
	return nil
}

// ManifestPath returns the manifest location, joined to the asset dir when relative.
func (c *Config) ManifestPath() string {
	if filepath.IsAbs(c.Assets.Manifest) {
		return c.Assets.Manifest
	}
	return filepath.Join(c.Assets.Dir, c.Assets.Manifest)
}
