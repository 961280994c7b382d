package backdrop

// SceneClock is the animation time base. It only advances when the driver
// ticks, so time spent hidden is never observed by the scene and a resumed
// driver continues exactly where it stopped.
type SceneClock struct {
	elapsed float64
	ticks   uint64
}

// Now returns the elapsed scene time in seconds.
func (c SceneClock) Now() float64 {
	return c.elapsed
}

// Ticks returns the number of ticks advanced so far.
func (c SceneClock) Ticks() uint64 {
	return c.ticks
}

func (c *SceneClock) advance(dt float64) {
	c.elapsed += dt
	c.ticks++
}
