package backdrop

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// frame is the mutable context handed to every per-object update. It
// replaces package-level scene, camera and input state.
type frame struct {
	scene  *Scene
	camera *Camera
	input  *Input
	clock  SceneClock
	cfg    *Config
	rng    *rand.Rand
	sink   EventSink
}

// Driver advances the scene once per tick. The host calls Tick from its
// frame callback; the driver never schedules itself.
type Driver struct {
	cfg     Config
	frame   frame
	dt      float64
	visible bool
	debug   bool
	stats   debugStats
	resize  CallbackHandle
}

// NewDriver creates a driver reading from input. Attach scene state with
// SetScene; ticks before that only move the camera.
func NewDriver(cfg Config, input *Input, rng *rand.Rand) *Driver {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	tps := cfg.TPS
	if tps <= 0 {
		tps = 60
	}
	w, h := input.Viewport()
	d := &Driver{
		cfg:     cfg,
		dt:      1 / float64(tps),
		visible: true,
		debug:   cfg.Debug,
	}
	d.frame = frame{
		camera: newCamera(cfg.Camera, w, h),
		input:  input,
		cfg:    &d.cfg,
		rng:    rng,
	}
	d.resize = input.OnResize(d.frame.camera.Resize)
	return d
}

// SetScene attaches the scene state. It may be called after ticking has
// started.
func (d *Driver) SetScene(s *Scene) {
	d.frame.scene = s
}

// Scene returns the attached scene, or nil.
func (d *Driver) Scene() *Scene {
	return d.frame.scene
}

// BuildScene constructs a scene from the driver's config at the current
// scene time and attaches it.
func (d *Driver) BuildScene() *Scene {
	s := NewScene(d.cfg, d.frame.rng, d.frame.clock.Now())
	d.SetScene(s)
	return s
}

// Camera returns the driver's camera.
func (d *Driver) Camera() *Camera {
	return d.frame.camera
}

// Input returns the input the driver reads.
func (d *Driver) Input() *Input {
	return d.frame.input
}

// Config returns the driver's config.
func (d *Driver) Config() Config {
	return d.cfg
}

// Clock returns the scene clock.
func (d *Driver) Clock() SceneClock {
	return d.frame.clock
}

// SetEventSink sets the optional event forwarder.
func (d *Driver) SetEventSink(sink EventSink) {
	d.frame.sink = sink
}

// SetDebugMode enables or disables per-tick timing output and finiteness
// checks on stderr.
func (d *Driver) SetDebugMode(enabled bool) {
	d.debug = enabled
}

// Visible reports whether the driver is ticking.
func (d *Driver) Visible() bool {
	return d.visible
}

// SetVisible stops (false) or resumes (true) ticking. While hidden, Tick is
// a no-op and the scene clock does not advance.
func (d *Driver) SetVisible(visible bool) {
	if d.visible == visible {
		return
	}
	d.visible = visible
	d.emit(Event{Type: EventVisibilityChange, Visible: visible})
}

// Close detaches the driver from its input.
func (d *Driver) Close() {
	d.resize.Remove()
}

// Tick advances every object by one step and updates the camera.
func (d *Driver) Tick() {
	if !d.visible {
		return
	}
	var t0 time.Time
	if d.debug {
		t0 = time.Now()
	}

	f := &d.frame
	f.clock.advance(d.dt)
	if f.scene != nil {
		for _, o := range f.scene.objects {
			f.updateObject(o)
		}
	}
	f.camera.update(f.input, f.cfg.Camera, f.cfg.Mode)

	if d.debug {
		d.stats.tickTime = time.Since(t0)
		d.stats.objects = 0
		if f.scene != nil {
			d.stats.objects = len(f.scene.objects)
			debugCheckFinite(f.scene, f.clock.Ticks())
		}
		d.debugLogTick()
	}
}

// updateObject applies the per-category rule for one object.
func (f *frame) updateObject(o *Object) {
	switch k := o.Kind.(type) {
	case *ParticleField:
		o.Transform.Rotation = wrapRotation(o.Transform.Rotation.Add(k.Spin))
		k.march(f.rng)
	case *Wireframe:
		o.Transform.Rotation = wrapRotation(o.Transform.Rotation.Add(k.Spin))
	case *FloatingStar:
		k.step(o)
	case *ShootingStar:
		now := f.clock.Now()
		o.Transform.Position = o.Transform.Position.Add(k.Velocity)
		if now >= k.ResetAt {
			k.respawn(o, f.cfg.Scene.Stars, f.rng, now)
			f.emit(Event{Type: EventShootingStarReset, ObjectID: o.ID})
		}
		o.Opacity = FadeOpacity(k.BaseOpacity, k.Age(now), k.FadeWindow)
	case *NebulaField:
		o.Opacity = PulseOpacity(k.BaseOpacity, k.Amplitude, k.Frequency, f.clock.Now())
	default:
		panic(fmt.Sprintf("backdrop: unhandled object kind %T", o.Kind))
	}
}

// Shake nudges every wireframe's X and Y rotation by a random amount in
// [-0.05, 0.05).
func (d *Driver) Shake() {
	s := d.frame.scene
	if s == nil {
		return
	}
	rng := d.frame.rng
	s.Each(CategoryWireframe, func(o *Object) {
		r := &o.Transform.Rotation
		r.X = wrapAngle(r.X + rng.Float64()*0.1 - 0.05)
		r.Y = wrapAngle(r.Y + rng.Float64()*0.1 - 0.05)
	})
}

// Burst kicks the ambient field's X and Y rotation by 0.1 rad.
func (d *Driver) Burst() {
	s := d.frame.scene
	if s == nil || s.field == nil {
		return
	}
	r := &s.field.Transform.Rotation
	r.X = wrapAngle(r.X + 0.1)
	r.Y = wrapAngle(r.Y + 0.1)
}

func (d *Driver) emit(e Event) {
	d.frame.emit(e)
}

func (f *frame) emit(e Event) {
	if f.sink == nil {
		return
	}
	e.Time = f.clock.Now()
	f.sink.EmitEvent(e)
}
