package backdrop

import (
	"fmt"
	"math"
)

// Category names the five kinds of renderable object. It is used for
// counting and debug output only; per-object behavior is selected from the
// object's Kind payload.
type Category uint8

const (
	CategoryParticleField Category = iota // ambient particle field
	CategoryWireframe                     // rotating wireframe shape
	CategoryFloatingStar                  // drifting star with elastic bounds
	CategoryShootingStar                  // pooled streak with a reset timer
	CategoryNebula                        // pulsing nebula cloud
	categoryCount
)

// String returns a short lower-case name.
func (c Category) String() string {
	switch c {
	case CategoryParticleField:
		return "particle-field"
	case CategoryWireframe:
		return "wireframe"
	case CategoryFloatingStar:
		return "floating-star"
	case CategoryShootingStar:
		return "shooting-star"
	case CategoryNebula:
		return "nebula"
	default:
		return fmt.Sprintf("Category(%d)", uint8(c))
	}
}

// Transform is an object's position, Euler rotation (radians) and scale.
type Transform struct {
	Position Vec3
	Rotation Vec3
	Scale    Vec3
}

// Finite reports whether every component of the transform is finite.
func (t Transform) Finite() bool {
	return t.Position.Finite() && t.Rotation.Finite() && t.Scale.Finite()
}

// Kind is the category-specific payload of an Object. The set of
// implementations is closed: *ParticleField, *Wireframe, *FloatingStar,
// *ShootingStar and *NebulaField.
type Kind interface {
	Category() Category
	isKind()
}

// Object is a single renderable entity. Objects are created once by
// NewScene and mutated in place every tick; they are never destroyed.
type Object struct {
	ID        uint32
	Name      string
	Transform Transform
	// Opacity is the current opacity in [0, 1], written by the driver for
	// categories that animate it.
	Opacity float64
	Color   Color
	Blend   BlendMode
	Kind    Kind
}

// Category returns the category of the object's payload.
func (o *Object) Category() Category {
	return o.Kind.Category()
}

// FieldShape selects the spawn volume of a ParticleField.
type FieldShape uint8

const (
	FieldBox   FieldShape = iota // cube centred on the origin
	FieldShell                   // cylindrical shell around the Z axis
)

// ParticleField is a large set of points sharing one rotation.
type ParticleField struct {
	// Points are in field-local space.
	Points []Vec3
	// Spin is added to the object's rotation every tick.
	Spin  Vec3
	Shape FieldShape
	// Extent is the edge length of the FieldBox volume.
	Extent float64
	// InnerRadius, OuterRadius, Near and Far bound the FieldShell volume.
	// Near > Far: points travel from Far towards Near.
	InnerRadius float64
	OuterRadius float64
	Near        float64
	Far         float64
	// MarchStep is the per-tick depth advance of every point. Zero disables
	// the crawl.
	MarchStep float64
	// PointSize is the rendered point size in pixels.
	PointSize float64
}

// Wireframe is a hand-placed shape spinning at a fixed rate forever.
type Wireframe struct {
	Shape    ShapeKind
	Spin     Vec3
	Geometry Geometry
}

// FloatingStar drifts at constant velocity and reflects off the faces of
// the cube [-Bound, Bound]^3.
type FloatingStar struct {
	Velocity Vec3
	Bound    float64
	// Flips counts velocity reflections per axis.
	Flips [3]int
}

// ShootingStar is a pooled streak. When the scene clock passes ResetAt the
// star is moved to a fresh origin instead of being reallocated.
type ShootingStar struct {
	Velocity    Vec3
	BaseOpacity float64
	// FadeWindow is the time in seconds to fade from opacity 1 to 0.
	FadeWindow float64
	// LastReset and ResetAt are scene clock times in seconds.
	LastReset float64
	ResetAt   float64
	// Tail is the streak length in velocity steps.
	Tail float64
}

// NebulaField is a cloud of points whose opacity pulses over time.
type NebulaField struct {
	Points      []Vec3
	BaseOpacity float64
	Amplitude   float64
	// Frequency is the pulse frequency in Hz.
	Frequency float64
	PointSize float64
}

func (*ParticleField) Category() Category { return CategoryParticleField }
func (*Wireframe) Category() Category     { return CategoryWireframe }
func (*FloatingStar) Category() Category  { return CategoryFloatingStar }
func (*ShootingStar) Category() Category  { return CategoryShootingStar }
func (*NebulaField) Category() Category   { return CategoryNebula }

func (*ParticleField) isKind() {}
func (*Wireframe) isKind()     {}
func (*FloatingStar) isKind()  {}
func (*ShootingStar) isKind()  {}
func (*NebulaField) isKind()   {}

const twoPi = 2 * math.Pi

// wrapAngle maps a into [0, 2π).
func wrapAngle(a float64) float64 {
	a = math.Mod(a, twoPi)
	if a < 0 {
		a += twoPi
	}
	// A tiny negative input rounds up to exactly 2π.
	if a >= twoPi {
		a = 0
	}
	return a
}

// wrapRotation wraps every component of r into [0, 2π).
func wrapRotation(r Vec3) Vec3 {
	return Vec3{wrapAngle(r.X), wrapAngle(r.Y), wrapAngle(r.Z)}
}

// FadeOpacity returns max(0, base - age/window). The result is exactly zero
// once age >= window*base.
func FadeOpacity(base, age, window float64) float64 {
	if window <= 0 || age >= window*base {
		return 0
	}
	if age < 0 {
		age = 0
	}
	o := base - age/window
	if o < 0 {
		return 0
	}
	return o
}

// PulseOpacity returns base + amplitude*sin(2π*frequency*t) clamped to [0, 1].
func PulseOpacity(base, amplitude, frequency, t float64) float64 {
	o := base + amplitude*math.Sin(twoPi*frequency*t)
	return math.Max(0, math.Min(1, o))
}
