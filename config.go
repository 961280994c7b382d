package backdrop

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config holds every tunable of the backdrop. Start from DefaultConfig and
// override fields, or load a TOML file with LoadConfig.
type Config struct {
	Mode Mode `toml:"mode"`
	// TPS is the number of driver ticks per second.
	TPS   int  `toml:"tps"`
	Debug bool `toml:"debug"`

	Scene      SceneConfig      `toml:"scene"`
	Camera     CameraConfig     `toml:"camera"`
	Navigation NavigationConfig `toml:"navigation"`
}

// SceneConfig controls the object population built by NewScene.
type SceneConfig struct {
	Field      FieldConfig       `toml:"field"`
	Wireframes []WireframeConfig `toml:"wireframes"`
	Stars      StarConfig        `toml:"stars"`
	Nebula     NebulaConfig      `toml:"nebula"`
}

// FieldConfig controls the ambient particle field.
type FieldConfig struct {
	Count       int     `toml:"count"`
	Extent      float64 `toml:"extent"`
	InnerRadius float64 `toml:"inner_radius"`
	OuterRadius float64 `toml:"outer_radius"`
	Near        float64 `toml:"near"`
	Far         float64 `toml:"far"`
	MarchStep   float64 `toml:"march_step"`
	Spin        Vec3    `toml:"spin"`
	Opacity     float64 `toml:"opacity"`
	PointSize   float64 `toml:"point_size"`
}

// WireframeConfig places one wireframe shape.
type WireframeConfig struct {
	Shape    ShapeKind `toml:"shape"`
	Size     float64   `toml:"size"`
	Position Vec3      `toml:"position"`
	Spin     Vec3      `toml:"spin"`
	Opacity  float64   `toml:"opacity"`
}

// StarConfig controls floating and shooting stars.
type StarConfig struct {
	FloatingCount int     `toml:"floating_count"`
	Bound         float64 `toml:"bound"`
	MaxSpeed      float64 `toml:"max_speed"`

	ShootingCount int `toml:"shooting_count"`
	// OriginX, OriginY and OriginZ bound the respawn position.
	OriginX Range `toml:"origin_x"`
	OriginY Range `toml:"origin_y"`
	OriginZ Range `toml:"origin_z"`
	// Speed is the streak speed in units per tick.
	Speed Range `toml:"speed"`
	// ResetJitter is the delay in seconds before a star is respawned.
	ResetJitter Range   `toml:"reset_jitter"`
	FadeWindow  float64 `toml:"fade_window"`
	Tail        float64 `toml:"tail"`
}

// NebulaConfig controls the pulsing nebula cloud.
type NebulaConfig struct {
	Count     int     `toml:"count"`
	Radius    Vec3    `toml:"radius"`
	Center    Vec3    `toml:"center"`
	Opacity   float64 `toml:"opacity"`
	Amplitude float64 `toml:"amplitude"`
	Frequency float64 `toml:"frequency"`
	// Roughness scales the noise used to clump the cloud; 0 gives a
	// uniform ellipsoid.
	Roughness float64 `toml:"roughness"`
	PointSize float64 `toml:"point_size"`
}

// CameraConfig controls the camera response to pointer and scroll input.
type CameraConfig struct {
	FOV  float64 `toml:"fov"`
	Near float64 `toml:"near"`
	Far  float64 `toml:"far"`
	// Distance is the camera Z at zero scroll.
	Distance float64 `toml:"distance"`
	// ParallaxScale maps the pointer signal to a target offset.
	ParallaxScale float64 `toml:"parallax_scale"`
	// Smoothing is the per-tick exponential smoothing factor in (0, 1].
	Smoothing float64 `toml:"smoothing"`
	// ScrollLift and ScrollDepth map scroll pixels to camera Y and Z.
	ScrollLift  float64 `toml:"scroll_lift"`
	ScrollDepth float64 `toml:"scroll_depth"`
	// ScrollSpan is the scroll distance in pixels that maps to progress 1.
	ScrollSpan float64 `toml:"scroll_span"`
	// RollAmplitude and RollFrequency shape the crawl-mode roll.
	RollAmplitude float64 `toml:"roll_amplitude"`
	RollFrequency float64 `toml:"roll_frequency"`
	// TiltAmplitude shifts the crawl-mode look-at target vertically.
	TiltAmplitude float64 `toml:"tilt_amplitude"`
	// LookAhead is the crawl-mode look-at distance in front of the camera.
	LookAhead float64 `toml:"look_ahead"`
}

// NavigationConfig describes the page sections and scroll behavior.
type NavigationConfig struct {
	Sections []Section `toml:"sections"`
	// ScrollDuration is the smooth-scroll time in seconds.
	ScrollDuration float64 `toml:"scroll_duration"`
	// WheelStep is the scroll distance in pixels per wheel notch.
	WheelStep float64 `toml:"wheel_step"`
}

// DefaultConfig returns the tuned defaults for the given mode.
func DefaultConfig(mode Mode) Config {
	cfg := Config{
		Mode: mode,
		TPS:  60,
		Scene: SceneConfig{
			Wireframes: DefaultWireframes(),
		},
		Camera: CameraConfig{
			FOV:           75,
			Near:          0.1,
			Far:           1000,
			Distance:      5,
			ParallaxScale: 0.05,
			Smoothing:     0.05,
			ScrollLift:    0.002,
			ScrollDepth:   0.001,
			ScrollSpan:    3000,
		},
		Navigation: NavigationConfig{
			Sections:       StackedSections(800, "hero", "about", "projects", "skills", "contact").Sections(),
			ScrollDuration: 0.6,
			WheelStep:      60,
		},
	}
	switch mode {
	case ModeOrbit:
		cfg.Scene.Field = FieldConfig{
			Count:     1000,
			Extent:    20,
			Spin:      Vec3{X: 0.0003, Y: 0.0005},
			Opacity:   0.6,
			PointSize: 2,
		}
	case ModeCrawl:
		cfg.Scene.Field = FieldConfig{
			Count:       3000,
			InnerRadius: 2,
			OuterRadius: 25,
			Near:        5,
			Far:         -60,
			MarchStep:   0.05,
			Spin:        Vec3{Z: 0.0003},
			Opacity:     0.6,
			PointSize:   2,
		}
		cfg.Scene.Stars = StarConfig{
			FloatingCount: 200,
			Bound:         15,
			MaxSpeed:      0.02,
			ShootingCount: 6,
			OriginX:       Range{Min: 0, Max: 20},
			OriginY:       Range{Min: 5, Max: 15},
			OriginZ:       Range{Min: -20, Max: -5},
			Speed:         Range{Min: 0.15, Max: 0.3},
			ResetJitter:   Range{Min: 5, Max: 15},
			FadeWindow:    2,
			Tail:          8,
		}
		cfg.Scene.Nebula = NebulaConfig{
			Count:     400,
			Radius:    Vec3{X: 12, Y: 4, Z: 6},
			Center:    Vec3{Y: -2, Z: -30},
			Opacity:   0.15,
			Amplitude: 0.1,
			Frequency: 0.5,
			Roughness: 0.15,
			PointSize: 3,
		}
		cfg.Camera.RollAmplitude = 0.05
		cfg.Camera.RollFrequency = twoPi
		cfg.Camera.TiltAmplitude = 1.5
		cfg.Camera.LookAhead = 10
	}
	return cfg
}

// DefaultWireframes returns the baseline cube, torus, sphere and octahedron.
func DefaultWireframes() []WireframeConfig {
	return []WireframeConfig{
		{Shape: ShapeCube, Size: 1, Position: Vec3{-3, 2, -2}, Spin: Vec3{X: 0.005, Y: 0.005}, Opacity: 0.3},
		{Shape: ShapeTorus, Size: 0.7, Position: Vec3{3, -2, -3}, Spin: Vec3{X: 0.003, Y: 0.007}, Opacity: 0.3},
		{Shape: ShapeSphere, Size: 0.8, Position: Vec3{2, 3, -4}, Spin: Vec3{Y: 0.004}, Opacity: 0.3},
		{Shape: ShapeOctahedron, Size: 0.8, Position: Vec3{-2, -3, -3}, Spin: Vec3{X: 0.006, Z: 0.004}, Opacity: 0.3},
	}
}

// LoadConfig reads a TOML file. The file's mode (default crawl) selects the
// defaults that the remaining keys override.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes TOML data over the defaults for the mode it names.
func ParseConfig(data []byte) (Config, error) {
	probe := struct {
		Mode  Mode `toml:"mode"`
		Scene struct {
			Wireframes []WireframeConfig `toml:"wireframes"`
		} `toml:"scene"`
		Navigation struct {
			Sections []Section `toml:"sections"`
		} `toml:"navigation"`
	}{Mode: ModeCrawl}
	if err := toml.Unmarshal(data, &probe); err != nil {
		return Config{}, err
	}
	cfg := DefaultConfig(probe.Mode)
	// Lists in the file replace the defaults rather than extending them.
	if probe.Scene.Wireframes != nil {
		cfg.Scene.Wireframes = nil
	}
	if probe.Navigation.Sections != nil {
		cfg.Navigation.Sections = nil
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid setting, joined into one error.
func (c Config) Validate() error {
	var errs []error
	if c.TPS <= 0 {
		errs = append(errs, fmt.Errorf("tps must be positive, got %d", c.TPS))
	}
	if c.Scene.Field.Count < 0 || c.Scene.Stars.FloatingCount < 0 ||
		c.Scene.Stars.ShootingCount < 0 || c.Scene.Nebula.Count < 0 {
		errs = append(errs, errors.New("object counts must not be negative"))
	}
	if c.Scene.Stars.FloatingCount > 0 && c.Scene.Stars.Bound <= 0 {
		errs = append(errs, errors.New("stars.bound must be positive"))
	}
	if c.Scene.Stars.ShootingCount > 0 && c.Scene.Stars.ResetJitter.Min <= 0 {
		errs = append(errs, errors.New("stars.reset_jitter must be positive"))
	}
	if f := c.Scene.Field; c.Mode == ModeCrawl && f.Count > 0 {
		if f.Near <= f.Far {
			errs = append(errs, errors.New("field.near must be greater than field.far"))
		} else if f.MarchStep < 0 || f.MarchStep >= f.Near-f.Far {
			errs = append(errs, fmt.Errorf("field.march_step must be in [0, %g), got %g", f.Near-f.Far, f.MarchStep))
		}
	}
	if s := c.Camera.Smoothing; s <= 0 || s > 1 {
		errs = append(errs, fmt.Errorf("camera.smoothing must be in (0, 1], got %g", s))
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		errs = append(errs, errors.New("camera near/far planes are invalid"))
	}
	if _, err := NewSectionRegistry(c.Navigation.Sections...); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
