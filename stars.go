package backdrop

import (
	"math"
	"math/rand/v2"
)

func newFloatingStar(cfg StarConfig, rng *rand.Rand) *Object {
	b := cfg.Bound
	return &Object{
		Name: "floating-star",
		Transform: Transform{
			Position: Vec3{
				X: (rng.Float64()*2 - 1) * b,
				Y: (rng.Float64()*2 - 1) * b,
				Z: (rng.Float64()*2 - 1) * b,
			},
			Scale: unitScale,
		},
		Opacity: 0.4 + rng.Float64()*0.6,
		Color:   ColorWhite,
		Blend:   BlendAdd,
		Kind: &FloatingStar{
			Velocity: Vec3{
				X: (rng.Float64()*2 - 1) * cfg.MaxSpeed,
				Y: (rng.Float64()*2 - 1) * cfg.MaxSpeed,
				Z: (rng.Float64()*2 - 1) * cfg.MaxSpeed,
			},
			Bound: b,
		},
	}
}

// step integrates one tick and reflects the velocity on every axis whose
// position has crossed the bound while still moving outward.
func (s *FloatingStar) step(o *Object) {
	p := &o.Transform.Position
	*p = p.Add(s.Velocity)
	reflect := func(pos float64, vel *float64, axis int) {
		if (pos > s.Bound && *vel > 0) || (pos < -s.Bound && *vel < 0) {
			*vel = -*vel
			s.Flips[axis]++
		}
	}
	reflect(p.X, &s.Velocity.X, 0)
	reflect(p.Y, &s.Velocity.Y, 1)
	reflect(p.Z, &s.Velocity.Z, 2)
}

func newShootingStar(cfg StarConfig, rng *rand.Rand, now float64) *Object {
	o := &Object{
		Name:      "shooting-star",
		Transform: Transform{Scale: unitScale},
		Color:     ColorWhite,
		Blend:     BlendAdd,
		Kind: &ShootingStar{
			BaseOpacity: 1,
			FadeWindow:  cfg.FadeWindow,
			Tail:        cfg.Tail,
		},
	}
	o.Kind.(*ShootingStar).respawn(o, cfg, rng, now)
	return o
}

// respawn moves the star to a new origin and schedules its next reset. The
// object itself is reused.
func (s *ShootingStar) respawn(o *Object, cfg StarConfig, rng *rand.Rand, now float64) {
	o.Transform.Position = Vec3{
		X: cfg.OriginX.Random(rng),
		Y: cfg.OriginY.Random(rng),
		Z: cfg.OriginZ.Random(rng),
	}
	speed := cfg.Speed.Random(rng)
	// Mostly leftward and downward, with a little spread.
	angle := math.Pi + math.Pi/8 + rng.Float64()*math.Pi/8
	s.Velocity = Vec3{X: math.Cos(angle) * speed, Y: math.Sin(angle) * speed}
	s.LastReset = now
	s.ResetAt = now + cfg.ResetJitter.Random(rng)
	o.Opacity = s.BaseOpacity
}

// Age returns the seconds since the last reset.
func (s *ShootingStar) Age(now float64) float64 {
	return now - s.LastReset
}
