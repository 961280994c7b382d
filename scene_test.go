package backdrop

import (
	"math"
	"math/rand/v2"
	"testing"
)

func TestNewSceneCounts(t *testing.T) {
	tests := []struct {
		mode                                    Mode
		fields, wires, floating, shooting, nebs int
	}{
		{ModeOrbit, 1, 4, 0, 0, 0},
		{ModeCrawl, 1, 4, 200, 6, 1},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			s := NewScene(DefaultConfig(tt.mode), rand.New(rand.NewPCG(3, 4)), 0)
			want := map[Category]int{
				CategoryParticleField: tt.fields,
				CategoryWireframe:     tt.wires,
				CategoryFloatingStar:  tt.floating,
				CategoryShootingStar:  tt.shooting,
				CategoryNebula:        tt.nebs,
			}
			total := 0
			for c, n := range want {
				if got := s.Count(c); got != n {
					t.Errorf("Count(%v) = %d, want %d", c, got, n)
				}
				total += n
			}
			if len(s.Objects()) != total {
				t.Errorf("len(Objects) = %d, want %d", len(s.Objects()), total)
			}
			if s.Field() == nil {
				t.Error("Field() = nil")
			}
			if !s.Finite() {
				t.Error("new scene is not finite")
			}
		})
	}
}

func TestNewSceneIDsUnique(t *testing.T) {
	s := NewScene(DefaultConfig(ModeCrawl), rand.New(rand.NewPCG(5, 6)), 0)
	seen := map[uint32]bool{}
	for _, o := range s.Objects() {
		if o.ID == 0 || seen[o.ID] {
			t.Fatalf("duplicate or zero ID %d", o.ID)
		}
		seen[o.ID] = true
	}
	if s.Count(Category(200)) != 0 {
		t.Error("unknown category should count 0")
	}
}

func TestNewSceneShootingStarTimers(t *testing.T) {
	cfg := DefaultConfig(ModeCrawl)
	s := NewScene(cfg, rand.New(rand.NewPCG(7, 8)), 10)
	s.Each(CategoryShootingStar, func(o *Object) {
		k := o.Kind.(*ShootingStar)
		if k.LastReset != 10 {
			t.Errorf("LastReset = %v, want 10", k.LastReset)
		}
		delay := k.ResetAt - 10
		if !cfg.Scene.Stars.ResetJitter.Contains(delay) {
			t.Errorf("reset delay %v outside %v", delay, cfg.Scene.Stars.ResetJitter)
		}
		if o.Opacity != 1 {
			t.Errorf("initial opacity %v, want 1", o.Opacity)
		}
		speed := math.Hypot(k.Velocity.X, k.Velocity.Y)
		if !cfg.Scene.Stars.Speed.Contains(speed) {
			t.Errorf("speed %v outside %v", speed, cfg.Scene.Stars.Speed)
		}
		if k.Velocity.X >= 0 || k.Velocity.Y >= 0 {
			t.Errorf("velocity %v should head left and down", k.Velocity)
		}
	})
}

func TestNewSceneDeterministic(t *testing.T) {
	cfg := DefaultConfig(ModeCrawl)
	a := NewScene(cfg, rand.New(rand.NewPCG(9, 9)), 0)
	b := NewScene(cfg, rand.New(rand.NewPCG(9, 9)), 0)
	oa, ob := a.Objects(), b.Objects()
	if len(oa) != len(ob) {
		t.Fatal("object counts differ")
	}
	for i := range oa {
		if oa[i].Transform != ob[i].Transform || oa[i].Name != ob[i].Name {
			t.Fatalf("object %d differs for the same seed", i)
		}
	}
}

func TestNebulaPointsInsideEllipsoid(t *testing.T) {
	cfg := DefaultConfig(ModeCrawl).Scene.Nebula
	o := newNebulaField(cfg, rand.New(rand.NewPCG(1, 1)))
	k := o.Kind.(*NebulaField)
	if len(k.Points) != cfg.Count {
		t.Fatalf("points = %d, want %d", len(k.Points), cfg.Count)
	}
	for i, p := range k.Points {
		d := p.Sub(cfg.Center)
		n := d.X*d.X/(cfg.Radius.X*cfg.Radius.X) +
			d.Y*d.Y/(cfg.Radius.Y*cfg.Radius.Y) +
			d.Z*d.Z/(cfg.Radius.Z*cfg.Radius.Z)
		if n > 1+1e-9 {
			t.Fatalf("point %d %v outside the ellipsoid", i, p)
		}
	}
}

func TestOrbitFieldInsideBox(t *testing.T) {
	cfg := DefaultConfig(ModeOrbit).Scene.Field
	o := newParticleField(ModeOrbit, cfg, rand.New(rand.NewPCG(2, 2)))
	k := o.Kind.(*ParticleField)
	h := cfg.Extent / 2
	for i, p := range k.Points {
		if math.Abs(p.X) > h || math.Abs(p.Y) > h || math.Abs(p.Z) > h {
			t.Fatalf("point %d %v outside the box", i, p)
		}
	}
	if k.Shape != FieldBox {
		t.Errorf("Shape = %v, want FieldBox", k.Shape)
	}
}

func TestSceneFiniteDetectsNaN(t *testing.T) {
	s := NewScene(DefaultConfig(ModeOrbit), rand.New(rand.NewPCG(1, 2)), 0)
	s.Field().Kind.(*ParticleField).Points[3].Y = math.NaN()
	if s.Finite() {
		t.Error("Finite() = true with a NaN field point")
	}
}
