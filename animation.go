package backdrop

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Fade animates a single float64 field after an optional delay. Create one
// with NewFade or IntroFade and call Update(dt) each frame.
//
// There is no global animation manager; the owner calls Update itself.
type Fade struct {
	tween  *gween.Tween
	delay  float32
	target *float64
	Done   bool
}

// NewFade creates a Fade that writes from to *target immediately, waits
// delay seconds, then animates to the given value over duration seconds.
func NewFade(target *float64, from, to float64, delay, duration float32, fn ease.TweenFunc) *Fade {
	*target = from
	return &Fade{
		tween:  gween.New(float32(from), float32(to), duration, fn),
		delay:  delay,
		target: target,
	}
}

// IntroFade fades *target in from 0 to 1 over one second after a short
// delay.
func IntroFade(target *float64) *Fade {
	return NewFade(target, 0, 1, 0.1, 1, ease.OutQuad)
}

// Update advances the fade by dt seconds and writes the value to the target
// field.
func (f *Fade) Update(dt float32) {
	if f.Done {
		return
	}
	if f.delay > 0 {
		f.delay -= dt
		if f.delay > 0 {
			return
		}
		// Carry the remainder of this step into the tween.
		dt = -f.delay
		f.delay = 0
	}
	val, finished := f.tween.Update(dt)
	*f.target = float64(val)
	f.Done = finished
}
