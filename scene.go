package backdrop

import (
	"math/rand/v2"
)

// Scene owns the fixed population of renderable objects. It is built once
// by NewScene and then mutated only by a Driver.
type Scene struct {
	objects []*Object
	field   *Object
	counts  [categoryCount]int
	nextID  uint32
}

// NewScene builds the object population for cfg.Mode. The structure is
// deterministic; positions, velocities and timers are drawn from rng. now is
// the scene clock time used for the first shooting-star reset deadlines.
func NewScene(cfg Config, rng *rand.Rand, now float64) *Scene {
	s := &Scene{}
	sc := cfg.Scene

	if sc.Field.Count > 0 {
		s.field = s.add(newParticleField(cfg.Mode, sc.Field, rng))
	}
	for _, wc := range sc.Wireframes {
		s.add(newWireframe(wc))
	}
	if cfg.Mode == ModeCrawl {
		for i := 0; i < sc.Stars.FloatingCount; i++ {
			s.add(newFloatingStar(sc.Stars, rng))
		}
		for i := 0; i < sc.Stars.ShootingCount; i++ {
			s.add(newShootingStar(sc.Stars, rng, now))
		}
		if sc.Nebula.Count > 0 {
			s.add(newNebulaField(sc.Nebula, rng))
		}
	}
	return s
}

func (s *Scene) add(o *Object) *Object {
	s.nextID++
	o.ID = s.nextID
	s.objects = append(s.objects, o)
	s.counts[o.Category()]++
	return o
}

// Objects returns every object in construction order. The returned slice
// MUST NOT be mutated.
func (s *Scene) Objects() []*Object {
	return s.objects
}

// Field returns the ambient particle field, or nil if the scene has none.
func (s *Scene) Field() *Object {
	return s.field
}

// Count returns the number of objects in category c.
func (s *Scene) Count(c Category) int {
	if c >= categoryCount {
		return 0
	}
	return s.counts[c]
}

// Each calls fn for every object in category c.
func (s *Scene) Each(c Category, fn func(*Object)) {
	for _, o := range s.objects {
		if o.Category() == c {
			fn(o)
		}
	}
}

// Finite reports whether every object transform and every field point is
// finite.
func (s *Scene) Finite() bool {
	for _, o := range s.objects {
		if !objectFinite(o) {
			return false
		}
	}
	return true
}

func objectFinite(o *Object) bool {
	if !o.Transform.Finite() || !finite(o.Opacity) {
		return false
	}
	var pts []Vec3
	switch k := o.Kind.(type) {
	case *ParticleField:
		pts = k.Points
	case *NebulaField:
		pts = k.Points
	}
	for _, p := range pts {
		if !p.Finite() {
			return false
		}
	}
	return true
}
