package backdrop

import (
	"math"
	"math/rand/v2"
	"strings"
	"testing"
)

type recordingSink struct {
	events []Event
}

func (r *recordingSink) EmitEvent(e Event) {
	r.events = append(r.events, e)
}

func (r *recordingSink) ofType(t EventType) []Event {
	var out []Event
	for _, e := range r.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

type bogusKind struct{}

func (bogusKind) Category() Category { return CategoryWireframe }
func (bogusKind) isKind()            {}

func smallCrawlConfig() Config {
	cfg := DefaultConfig(ModeCrawl)
	cfg.Scene.Field.Count = 200
	cfg.Scene.Stars.FloatingCount = 20
	cfg.Scene.Nebula.Count = 50
	return cfg
}

func newTestDriver(cfg Config) *Driver {
	return NewDriver(cfg, NewInput(1280, 800), rand.New(rand.NewPCG(1, 2)))
}

// angleClose compares two angles modulo 2π.
func angleClose(a, b, eps float64) bool {
	d := math.Mod(math.Abs(a-b), twoPi)
	return d < eps || twoPi-d < eps
}

func TestDriverWireframeRotationAccumulates(t *testing.T) {
	d := newTestDriver(smallCrawlConfig())
	s := d.BuildScene()

	const ticks = 5000
	for i := 0; i < ticks; i++ {
		d.Tick()
	}
	s.Each(CategoryWireframe, func(o *Object) {
		w := o.Kind.(*Wireframe)
		want := w.Spin.Scale(ticks)
		r := o.Transform.Rotation
		if !angleClose(r.X, want.X, 1e-9) || !angleClose(r.Y, want.Y, 1e-9) || !angleClose(r.Z, want.Z, 1e-9) {
			t.Errorf("%s rotation = %v, want %v mod 2π", o.Name, r, want)
		}
		for _, c := range []float64{r.X, r.Y, r.Z} {
			if c < 0 || c >= twoPi {
				t.Errorf("%s rotation component %v outside [0, 2π)", o.Name, c)
			}
		}
	})
}

func TestFloatingStarStaysNearBounds(t *testing.T) {
	d := newTestDriver(smallCrawlConfig())
	s := d.BuildScene()
	for i := 0; i < 20000; i++ {
		d.Tick()
		if i%97 != 0 {
			continue
		}
		s.Each(CategoryFloatingStar, func(o *Object) {
			k := o.Kind.(*FloatingStar)
			p, v := o.Transform.Position, k.Velocity
			if math.Abs(p.X) > k.Bound+math.Abs(v.X) ||
				math.Abs(p.Y) > k.Bound+math.Abs(v.Y) ||
				math.Abs(p.Z) > k.Bound+math.Abs(v.Z) {
				t.Fatalf("tick %d: star %d at %v escaped bound %v", i, o.ID, p, k.Bound)
			}
		})
	}
}

func TestFloatingStarReflection(t *testing.T) {
	o := &Object{Transform: Transform{Position: Vec3{X: 0.9}}}
	k := &FloatingStar{Velocity: Vec3{X: 0.3}, Bound: 1}
	o.Kind = k

	k.step(o) // 1.2, outside and moving outward
	if k.Velocity.X != -0.3 || k.Flips[0] != 1 {
		t.Fatalf("after crossing: v=%v flips=%v", k.Velocity.X, k.Flips)
	}
	k.step(o) // 0.9, back inside
	if k.Velocity.X != -0.3 || k.Flips[0] != 1 {
		t.Errorf("inside step flipped: v=%v flips=%v", k.Velocity.X, k.Flips)
	}
	if k.Flips[1] != 0 || k.Flips[2] != 0 {
		t.Errorf("idle axes flipped: %v", k.Flips)
	}
}

func TestFloatingStarOutsideMovingInwardKeepsVelocity(t *testing.T) {
	o := &Object{Transform: Transform{Position: Vec3{Y: -5}}}
	k := &FloatingStar{Velocity: Vec3{Y: 0.1}, Bound: 1}
	o.Kind = k
	for i := 0; i < 10; i++ {
		k.step(o)
	}
	if k.Velocity.Y != 0.1 || k.Flips[1] != 0 {
		t.Errorf("inward-moving star flipped: v=%v flips=%v", k.Velocity.Y, k.Flips)
	}
}

func TestShootingStarFadeAndReset(t *testing.T) {
	cfg := smallCrawlConfig()
	cfg.Scene.Stars.FadeWindow = 2
	d := newTestDriver(cfg)
	sink := &recordingSink{}
	d.SetEventSink(sink)

	s := &Scene{}
	star := s.add(newShootingStar(cfg.Scene.Stars, d.frame.rng, 0))
	k := star.Kind.(*ShootingStar)
	k.ResetAt = 3
	d.SetScene(s)

	prev := math.Inf(1)
	resetTick := -1
	for i := 0; i < 400 && resetTick < 0; i++ {
		before := star.Transform.Position
		d.Tick()
		if len(sink.events) > 0 {
			resetTick = i
			break
		}
		if star.Opacity < 0 || star.Opacity > prev {
			t.Fatalf("tick %d: opacity %v after %v", i, star.Opacity, prev)
		}
		prev = star.Opacity
		if star.Transform.Position != before.Add(k.Velocity) {
			t.Fatalf("tick %d: star did not move by its velocity", i)
		}
		if d.Clock().Now() >= 2 && star.Opacity != 0 {
			t.Fatalf("tick %d: opacity %v past the fade window", i, star.Opacity)
		}
	}
	if resetTick < 0 {
		t.Fatal("shooting star never reset")
	}

	resets := sink.ofType(EventShootingStarReset)
	if len(resets) != 1 || resets[0].ObjectID != star.ID {
		t.Fatalf("reset events = %+v, want one for ID %d", resets, star.ID)
	}
	now := d.Clock().Now()
	if now < 3 || resets[0].Time != now {
		t.Errorf("reset at %v (event time %v), want >= 3", now, resets[0].Time)
	}
	if k.LastReset != now || k.ResetAt <= now {
		t.Errorf("timers not rescheduled: last %v next %v now %v", k.LastReset, k.ResetAt, now)
	}
	if star.Opacity != 1 {
		t.Errorf("opacity after reset = %v, want 1", star.Opacity)
	}
	if s.Count(CategoryShootingStar) != 1 || len(s.Objects()) != 1 {
		t.Error("reset must reuse the pooled object")
	}
}

func TestNebulaPulse(t *testing.T) {
	d := newTestDriver(smallCrawlConfig())
	s := d.BuildScene()
	var neb *Object
	s.Each(CategoryNebula, func(o *Object) { neb = o })
	if neb == nil {
		t.Fatal("crawl scene has no nebula")
	}
	k := neb.Kind.(*NebulaField)
	lo, hi := math.Inf(1), math.Inf(-1)
	for i := 0; i < 240; i++ {
		d.Tick()
		want := PulseOpacity(k.BaseOpacity, k.Amplitude, k.Frequency, d.Clock().Now())
		if neb.Opacity != want {
			t.Fatalf("tick %d: opacity %v, want %v", i, neb.Opacity, want)
		}
		lo = math.Min(lo, neb.Opacity)
		hi = math.Max(hi, neb.Opacity)
	}
	if hi-lo < k.Amplitude {
		t.Errorf("pulse range [%v, %v] narrower than expected", lo, hi)
	}
}

func TestDriverHiddenDoesNotAdvance(t *testing.T) {
	d := newTestDriver(smallCrawlConfig())
	sink := &recordingSink{}
	d.SetEventSink(sink)
	s := d.BuildScene()
	for i := 0; i < 10; i++ {
		d.Tick()
	}

	snapshot := make([]Transform, len(s.Objects()))
	for i, o := range s.Objects() {
		snapshot[i] = o.Transform
	}
	now := d.Clock().Now()
	ticks := d.Clock().Ticks()

	d.SetVisible(false)
	d.SetVisible(false) // no duplicate event
	for i := 0; i < 100; i++ {
		d.Tick()
	}
	if d.Clock().Now() != now || d.Clock().Ticks() != ticks {
		t.Fatalf("clock advanced while hidden")
	}
	for i, o := range s.Objects() {
		if o.Transform != snapshot[i] {
			t.Fatalf("object %d mutated while hidden", o.ID)
		}
	}

	d.SetVisible(true)
	d.Tick()
	if got, want := d.Clock().Now(), now+1.0/60; !approxEqual(got, want, 1e-12) {
		t.Errorf("clock after resume = %v, want %v", got, want)
	}

	vis := sink.ofType(EventVisibilityChange)
	if len(vis) != 2 || vis[0].Visible || !vis[1].Visible {
		t.Errorf("visibility events = %+v", vis)
	}
}

func TestDriverWithoutScene(t *testing.T) {
	d := newTestDriver(smallCrawlConfig())
	for i := 0; i < 5; i++ {
		d.Tick()
	}
	if d.Scene() != nil {
		t.Error("Scene should be nil")
	}
	if d.Clock().Ticks() != 5 {
		t.Errorf("Ticks = %d, want 5", d.Clock().Ticks())
	}
	d.Shake()
	d.Burst()
}

func TestDriverPanicsOnUnknownKind(t *testing.T) {
	d := newTestDriver(smallCrawlConfig())
	s := &Scene{}
	s.add(&Object{Name: "bogus", Transform: Transform{Scale: unitScale}, Kind: bogusKind{}})
	d.SetScene(s)

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic")
		}
		msg, ok := r.(string)
		if !ok || !strings.Contains(msg, "unhandled object kind") {
			t.Errorf("panic = %v", r)
		}
	}()
	d.Tick()
}

func TestDriverShake(t *testing.T) {
	d := newTestDriver(smallCrawlConfig())
	s := d.BuildScene()
	before := map[uint32]Vec3{}
	s.Each(CategoryWireframe, func(o *Object) { before[o.ID] = o.Transform.Rotation })

	d.Shake()
	s.Each(CategoryWireframe, func(o *Object) {
		b, r := before[o.ID], o.Transform.Rotation
		if !angleClose(r.X, b.X, 0.05+1e-12) || !angleClose(r.Y, b.Y, 0.05+1e-12) {
			t.Errorf("%s shaken too far: %v -> %v", o.Name, b, r)
		}
		if r.Z != b.Z {
			t.Errorf("%s Z rotation changed", o.Name)
		}
	})
}

func TestDriverBurst(t *testing.T) {
	d := newTestDriver(smallCrawlConfig())
	s := d.BuildScene()
	field := s.Field()
	before := field.Transform.Rotation
	d.Burst()
	r := field.Transform.Rotation
	if !angleClose(r.X, before.X+0.1, 1e-12) || !angleClose(r.Y, before.Y+0.1, 1e-12) || r.Z != before.Z {
		t.Errorf("burst rotation %v -> %v", before, r)
	}
}

func TestFieldMarchStaysInShell(t *testing.T) {
	d := newTestDriver(smallCrawlConfig())
	s := d.BuildScene()
	f := s.Field().Kind.(*ParticleField)
	n := len(f.Points)

	// Enough ticks for every point to cross the whole depth range.
	for i := 0; i < 2000; i++ {
		d.Tick()
	}
	if len(f.Points) != n {
		t.Fatalf("point count changed from %d to %d", n, len(f.Points))
	}
	for i, p := range f.Points {
		if p.Z < f.Far || p.Z > f.Near {
			t.Fatalf("point %d depth %v outside [%v, %v]", i, p.Z, f.Far, f.Near)
		}
		r := math.Hypot(p.X, p.Y)
		if r < f.InnerRadius-1e-9 || r > f.OuterRadius+1e-9 {
			t.Fatalf("point %d radius %v outside shell", i, r)
		}
	}
	if !s.Finite() {
		t.Error("scene is not finite")
	}
}

func TestFieldMarchWrapsAnyStep(t *testing.T) {
	for _, step := range []float64{-0.05, 0.05, 64.9, 100} {
		f := &ParticleField{
			Points:      []Vec3{{X: 3, Z: -30}},
			Shape:       FieldShell,
			InnerRadius: 2,
			OuterRadius: 25,
			Near:        5,
			Far:         -60,
			MarchStep:   step,
		}
		rng := rand.New(rand.NewPCG(1, 2))
		for i := 0; i < 2000; i++ {
			f.march(rng)
			if z := f.Points[0].Z; z < f.Far || z > f.Near {
				t.Fatalf("step %v: tick %d depth %v outside [%v, %v]", step, i, z, f.Far, f.Near)
			}
		}
	}
}

func TestOrbitFieldDoesNotMarch(t *testing.T) {
	d := newTestDriver(DefaultConfig(ModeOrbit))
	s := d.BuildScene()
	f := s.Field().Kind.(*ParticleField)
	first := append([]Vec3(nil), f.Points...)
	for i := 0; i < 100; i++ {
		d.Tick()
	}
	for i := range first {
		if f.Points[i] != first[i] {
			t.Fatalf("orbit field point %d moved", i)
		}
	}
	spin := f.Spin.Scale(100)
	r := s.Field().Transform.Rotation
	if !angleClose(r.X, spin.X, 1e-9) || !angleClose(r.Y, spin.Y, 1e-9) {
		t.Errorf("field rotation %v, want %v", r, spin)
	}
}

func TestDriverResizeFollowsInput(t *testing.T) {
	in := NewInput(1280, 800)
	d := NewDriver(smallCrawlConfig(), in, nil)
	in.Resize(1000, 1000)
	if d.Camera().Aspect != 1 {
		t.Errorf("Aspect = %v, want 1", d.Camera().Aspect)
	}
	d.Close()
	in.Resize(2000, 1000)
	if d.Camera().Aspect != 1 {
		t.Errorf("closed driver still follows resize")
	}
}
