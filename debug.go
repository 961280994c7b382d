package backdrop

import (
	"fmt"
	"os"
	"time"
)

// debugStats holds per-frame timing and draw metrics.
// Only populated when debug mode is on.
type debugStats struct {
	tickTime  time.Duration
	drawTime  time.Duration
	objects   int
	vertices  int
	drawCalls int
}

// debugLogInterval limits timing output to once per this many ticks.
const debugLogInterval = 60

// debugLogTick prints update timing to stderr.
func (d *Driver) debugLogTick() {
	if !d.debug || d.frame.clock.Ticks()%debugLogInterval != 0 {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr,
		"[backdrop] tick %d: update %v | objects: %d | scene time %.2fs\n",
		d.frame.clock.Ticks(), d.stats.tickTime, d.stats.objects, d.frame.clock.Now())
}

// debugLogDraw prints render timing to stderr.
func debugLogDraw(ticks uint64, stats debugStats) {
	if ticks%debugLogInterval != 0 {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr,
		"[backdrop] draw: %v | vertices: %d | draw calls: %d\n",
		stats.drawTime, stats.vertices, stats.drawCalls)
}

// debugCheckFinite warns on stderr about objects whose transform or points
// became non-finite.
func debugCheckFinite(s *Scene, tick uint64) {
	for _, o := range s.objects {
		if !objectFinite(o) {
			_, _ = fmt.Fprintf(os.Stderr, "[backdrop] warning: tick %d: object %q (ID %d, %s) is not finite\n",
				tick, o.Name, o.ID, o.Category())
		}
	}
}
