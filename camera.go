package backdrop

import (
	"math"

	"cogentcore.org/core/math32"
)

// Camera is a perspective camera driven by the input signals.
type Camera struct {
	// Position is the world-space eye position.
	Position Vec3
	// Target is the world-space look-at point.
	Target Vec3
	// Roll is the rotation about the view axis in radians.
	Roll float64

	FOV    float64
	Near   float64
	Far    float64
	Aspect float64

	// parallax is the smoothed pointer offset, kept separately so that the
	// scroll mapping can be applied on top of it without being smoothed.
	parallax Vec3

	view       math32.Matrix4
	projection math32.Matrix4
	viewProj   math32.Matrix4
	dirty      bool
	projDirty  bool
}

// newCamera creates a camera for the given viewport size.
func newCamera(cfg CameraConfig, width, height int) *Camera {
	c := &Camera{
		Position:  Vec3{Z: cfg.Distance},
		FOV:       cfg.FOV,
		Near:      cfg.Near,
		Far:       cfg.Far,
		Aspect:    1,
		dirty:     true,
		projDirty: true,
	}
	c.Resize(width, height)
	return c
}

// Resize recomputes the aspect ratio and marks the projection dirty.
func (c *Camera) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float64(width) / float64(height)
	c.projDirty = true
	c.dirty = true
}

// Parallax returns the current smoothed pointer offset.
func (c *Camera) Parallax() (x, y float64) {
	return c.parallax.X, c.parallax.Y
}

// update eases the parallax offset towards the pointer target, applies the
// scroll mapping, and aims the camera.
func (c *Camera) update(in *Input, cfg CameraConfig, mode Mode) {
	px, py := in.Pointer()
	target := Vec3{X: px * cfg.ParallaxScale, Y: -py * cfg.ParallaxScale}
	c.parallax.X += (target.X - c.parallax.X) * cfg.Smoothing
	c.parallax.Y += (target.Y - c.parallax.Y) * cfg.Smoothing

	scroll := float64(in.ScrollY())
	c.Position = Vec3{
		X: c.parallax.X,
		Y: c.parallax.Y + scroll*cfg.ScrollLift,
		Z: cfg.Distance + scroll*cfg.ScrollDepth,
	}

	switch mode {
	case ModeCrawl:
		progress := 0.0
		if cfg.ScrollSpan > 0 {
			progress = scroll / cfg.ScrollSpan
		}
		c.Roll = cfg.RollAmplitude * math.Sin(progress*cfg.RollFrequency)
		c.Target = Vec3{
			X: c.Position.X,
			Y: c.Position.Y + cfg.TiltAmplitude*math.Sin(progress*math.Pi),
			Z: c.Position.Z - cfg.LookAhead,
		}
	default:
		c.Roll = 0
		c.Target = Vec3{}
	}
	c.dirty = true
}

// ViewProjection returns the combined projection * view matrix.
func (c *Camera) ViewProjection() *math32.Matrix4 {
	if !c.dirty {
		return &c.viewProj
	}
	c.dirty = false
	if c.projDirty {
		c.projection.SetPerspective(float32(c.FOV), float32(c.Aspect), float32(c.Near), float32(c.Far))
		c.projDirty = false
	}

	up := math32.Vec3(float32(math.Sin(c.Roll)), float32(math.Cos(c.Roll)), 0)
	eye := c.Position.vector3()
	var lookq math32.Quat
	lookq.SetFromRotationMatrix(math32.NewLookAt(eye, c.Target.vector3(), up))
	var cview math32.Matrix4
	cview.SetTransform(eye, lookq, math32.Vec3(1, 1, 1))
	view, err := cview.Inverse()
	if err == nil {
		c.view = *view
	}
	c.viewProj.MulMatrices(&c.projection, &c.view)
	return &c.viewProj
}

// modelMatrix returns the object-to-world matrix of a transform.
func modelMatrix(t Transform) math32.Matrix4 {
	var q math32.Quat
	q.SetFromEuler(t.Rotation.vector3())
	var m math32.Matrix4
	m.SetTransform(t.Position.vector3(), q, t.Scale.vector3())
	return m
}

// projector maps object-local points to screen pixels.
type projector struct {
	mvp           math32.Matrix4
	width, height float64
}

func newProjector(c *Camera, t Transform, width, height int) projector {
	model := modelMatrix(t)
	var p projector
	p.mvp.MulMatrices(c.ViewProjection(), &model)
	p.width = float64(width)
	p.height = float64(height)
	return p
}

// project returns the screen position and view depth of a local point. ok
// is false for points behind the camera or outside the depth range.
func (p *projector) project(v Vec3) (x, y, depth float64, ok bool) {
	clip := math32.Vector4{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z), W: 1}.MulMatrix4(&p.mvp)
	if clip.W <= 0 {
		return 0, 0, 0, false
	}
	ndc := clip.PerspDiv()
	if ndc.Z < -1 || ndc.Z > 1 {
		return 0, 0, 0, false
	}
	x = (float64(ndc.X) + 1) / 2 * p.width
	y = (1 - float64(ndc.Y)) / 2 * p.height
	return x, y, float64(clip.W), true
}

// Project returns the screen position of a world-space point for a
// viewport of the given size.
func (c *Camera) Project(world Vec3, width, height int) (x, y float64, ok bool) {
	p := newProjector(c, Transform{Scale: unitScale}, width, height)
	x, y, _, ok = p.project(world)
	return x, y, ok
}
