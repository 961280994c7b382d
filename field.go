package backdrop

import (
	"math"
	"math/rand/v2"

	"github.com/aquilax/go-perlin"
)

var unitScale = Vec3{1, 1, 1}

func newParticleField(mode Mode, cfg FieldConfig, rng *rand.Rand) *Object {
	f := &ParticleField{
		Points:    make([]Vec3, cfg.Count),
		Spin:      cfg.Spin,
		PointSize: cfg.PointSize,
	}
	switch mode {
	case ModeCrawl:
		f.Shape = FieldShell
		f.InnerRadius = cfg.InnerRadius
		f.OuterRadius = cfg.OuterRadius
		f.Near = cfg.Near
		f.Far = cfg.Far
		f.MarchStep = cfg.MarchStep
		for i := range f.Points {
			x, y := f.lateral(rng)
			f.Points[i] = Vec3{x, y, f.Far + rng.Float64()*(f.Near-f.Far)}
		}
	default:
		f.Shape = FieldBox
		f.Extent = cfg.Extent
		for i := range f.Points {
			f.Points[i] = Vec3{
				X: (rng.Float64() - 0.5) * cfg.Extent,
				Y: (rng.Float64() - 0.5) * cfg.Extent,
				Z: (rng.Float64() - 0.5) * cfg.Extent,
			}
		}
	}
	return &Object{
		Name:      "field",
		Transform: Transform{Scale: unitScale},
		Opacity:   cfg.Opacity,
		Color:     ColorWhite,
		Blend:     BlendAdd,
		Kind:      f,
	}
}

// lateral returns a point uniformly distributed over the shell's annulus.
func (f *ParticleField) lateral(rng *rand.Rand) (x, y float64) {
	r2min := f.InnerRadius * f.InnerRadius
	r2max := f.OuterRadius * f.OuterRadius
	r := math.Sqrt(r2min + rng.Float64()*(r2max-r2min))
	theta := rng.Float64() * twoPi
	return r * math.Cos(theta), r * math.Sin(theta)
}

// march advances every point towards the camera and respawns points that
// pass the near plane at the far plane with a fresh lateral position. The
// overshoot wraps modulo the shell depth, so any step keeps Z in [Far, Near].
func (f *ParticleField) march(rng *rand.Rand) {
	depth := f.Near - f.Far
	if f.MarchStep == 0 || f.Shape != FieldShell || depth <= 0 {
		return
	}
	for i := range f.Points {
		p := &f.Points[i]
		p.Z += f.MarchStep
		if p.Z > f.Near || p.Z < f.Far {
			p.X, p.Y = f.lateral(rng)
			p.Z = f.Far + math.Mod(p.Z-f.Far, depth)
			if p.Z < f.Far {
				p.Z += depth
			}
		}
	}
}

func newWireframe(cfg WireframeConfig) *Object {
	size := cfg.Size
	if size <= 0 {
		size = 1
	}
	return &Object{
		Name: cfg.Shape.String(),
		Transform: Transform{
			Position: cfg.Position,
			Scale:    unitScale,
		},
		Opacity: cfg.Opacity,
		Color:   ColorWhite,
		Blend:   BlendNormal,
		Kind: &Wireframe{
			Shape:    cfg.Shape,
			Spin:     cfg.Spin,
			Geometry: NewShapeGeometry(cfg.Shape, size),
		},
	}
}

// maxNebulaAttempts bounds rejection sampling per point so a harsh noise
// configuration cannot stall construction.
const maxNebulaAttempts = 16

func newNebulaField(cfg NebulaConfig, rng *rand.Rand) *Object {
	noise := perlin.NewPerlin(2, 2, 3, rng.Int64())
	n := &NebulaField{
		Points:      make([]Vec3, cfg.Count),
		BaseOpacity: cfg.Opacity,
		Amplitude:   cfg.Amplitude,
		Frequency:   cfg.Frequency,
		PointSize:   cfg.PointSize,
	}
	for i := range n.Points {
		var p Vec3
		for attempt := 0; attempt < maxNebulaAttempts; attempt++ {
			p = randomInEllipsoid(cfg.Radius, rng)
			if cfg.Roughness <= 0 {
				break
			}
			// Noise is roughly in [-1, 1]; keep denser where it is high.
			density := 0.5 + noise.Noise3D(p.X*cfg.Roughness, p.Y*cfg.Roughness, p.Z*cfg.Roughness)
			if rng.Float64() < density {
				break
			}
		}
		n.Points[i] = p.Add(cfg.Center)
	}
	return &Object{
		Name:      "nebula",
		Transform: Transform{Scale: unitScale},
		Opacity:   cfg.Opacity,
		Color:     Color{R: 0.55, G: 0.45, B: 0.9, A: 1},
		Blend:     BlendScreen,
		Kind:      n,
	}
}

// randomInEllipsoid samples uniformly inside the ellipsoid with the given
// semi-axes.
func randomInEllipsoid(radius Vec3, rng *rand.Rand) Vec3 {
	for {
		p := Vec3{rng.Float64()*2 - 1, rng.Float64()*2 - 1, rng.Float64()*2 - 1}
		if p.X*p.X+p.Y*p.Y+p.Z*p.Z <= 1 {
			return Vec3{p.X * radius.X, p.Y * radius.Y, p.Z * radius.Z}
		}
	}
}
