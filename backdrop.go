package backdrop

import (
	"fmt"
	"math"
	"math/rand/v2"

	"cogentcore.org/core/math32"
	"github.com/hajimehoshi/ebiten/v2"
)

// Vec3 is a 3D vector used for positions, rotations (Euler angles in
// radians), scales and velocities throughout the API.
type Vec3 struct {
	X float64 `toml:"x"`
	Y float64 `toml:"y"`
	Z float64 `toml:"z"`
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v multiplied by s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Finite reports whether no component is NaN or infinite.
func (v Vec3) Finite() bool {
	return finite(v.X) && finite(v.Y) && finite(v.Z)
}

func (v Vec3) vector3() math32.Vector3 {
	return math32.Vec3(float32(v.X), float32(v.Y), float32(v.Z))
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R float64 `toml:"r"`
	G float64 `toml:"g"`
	B float64 `toml:"b"`
	A float64 `toml:"a"`
}

// ColorWhite is the default tint.
var ColorWhite = Color{1, 1, 1, 1}

// Range is a general-purpose min/max range used by scene construction.
type Range struct {
	Min float64 `toml:"min"`
	Max float64 `toml:"max"`
}

// Random returns a random float64 in [Min, Max].
func (r Range) Random(rng *rand.Rand) float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// Contains reports whether v lies in [Min, Max].
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Mode selects the visual variant of the backdrop.
type Mode uint8

const (
	ModeOrbit Mode = iota // particle cube and wireframe shapes orbiting the origin
	ModeCrawl             // starfield tunnel with floating and shooting stars
)

// String returns the mode name used in config files.
func (m Mode) String() string {
	switch m {
	case ModeOrbit:
		return "orbit"
	case ModeCrawl:
		return "crawl"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "orbit":
		*m = ModeOrbit
	case "crawl":
		*m = ModeCrawl
	default:
		return fmt.Errorf("unknown mode %q", text)
	}
	return nil
}

// BlendMode selects a compositing operation. Each maps to a specific ebiten.Blend value.
type BlendMode uint8

const (
	BlendNormal BlendMode = iota // source-over (standard alpha blending)
	BlendAdd                     // additive / lighter
	BlendScreen                  // screen (1 - (1-src)*(1-dst); only brightens)
)

// EbitenBlend returns the ebiten.Blend value corresponding to this BlendMode.
func (b BlendMode) EbitenBlend() ebiten.Blend {
	switch b {
	case BlendAdd:
		return ebiten.BlendLighter
	case BlendScreen:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorOne,
			BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceColor,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	default:
		return ebiten.BlendSourceOver
	}
}

// EventType identifies a kind of backdrop event.
type EventType uint8

const (
	EventSectionChange    EventType = iota // the active navigation section changed
	EventVisibilityChange                  // the driver was paused or resumed
	EventShootingStarReset                 // a pooled shooting star was respawned
)

// Event carries lifecycle data for an EventSink.
type Event struct {
	Type EventType
	// Section fields (valid for EventSectionChange). -1 means no section.
	Section     int
	PrevSection int
	// Visible is valid for EventVisibilityChange.
	Visible bool
	// ObjectID is valid for EventShootingStarReset.
	ObjectID uint32
	// Time is the scene clock in seconds when the event was emitted.
	Time float64
}

// EventSink is the interface for optional event forwarding (see the ecs
// module for a Donburi-backed implementation).
type EventSink interface {
	EmitEvent(event Event)
}
