package backdrop

type syntheticKind uint8

const (
	syntheticMove syntheticKind = iota
	syntheticWheel
	syntheticScroll
	syntheticJump
	syntheticNext
	syntheticPrevious
	syntheticShake
	syntheticBurst
)

// syntheticEvent represents a single injected input event. Pointer
// positions are viewport pixels, identical to real cursor input.
type syntheticEvent struct {
	kind  syntheticKind
	x, y  float64
	dy    int
	index int
}

func (g *Game) inject(e syntheticEvent) {
	g.injectQueue = append(g.injectQueue, e)
}

// InjectMove queues a pointer move to the given viewport coordinates. The
// event is consumed on the next frame's Update.
func (g *Game) InjectMove(x, y float64) {
	g.inject(syntheticEvent{kind: syntheticMove, x: x, y: y})
}

// InjectPointerPath queues a pointer sweep from (fromX, fromY) to (toX, toY),
// linearly interpolated over frames moves. Minimum frames is 1.
func (g *Game) InjectPointerPath(fromX, fromY, toX, toY float64, frames int) {
	if frames < 1 {
		frames = 1
	}
	if frames == 1 {
		g.InjectMove(toX, toY)
		return
	}
	for i := 0; i < frames; i++ {
		t := float64(i) / float64(frames-1)
		g.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
}

// InjectWheel queues a wheel scroll of dy pixels (positive scrolls down).
func (g *Game) InjectWheel(dy int) {
	g.inject(syntheticEvent{kind: syntheticWheel, dy: dy})
}

// InjectScroll queues an absolute scroll to y pixels, as a page scroll
// event would report it.
func (g *Game) InjectScroll(y int) {
	g.inject(syntheticEvent{kind: syntheticScroll, dy: y})
}

// InjectJump queues a navigation jump to section i.
func (g *Game) InjectJump(i int) {
	g.inject(syntheticEvent{kind: syntheticJump, index: i})
}

// InjectNext queues a jump to the next section.
func (g *Game) InjectNext() {
	g.inject(syntheticEvent{kind: syntheticNext})
}

// InjectPrevious queues a jump to the previous section.
func (g *Game) InjectPrevious() {
	g.inject(syntheticEvent{kind: syntheticPrevious})
}

// processInjectedInput pops one event from the inject queue and feeds it to
// the input sampler, navigator or driver. Returns true if an event was
// consumed (real input should be skipped).
func (g *Game) processInjectedInput() bool {
	if len(g.injectQueue) == 0 {
		return false
	}
	evt := g.injectQueue[0]
	copy(g.injectQueue, g.injectQueue[1:])
	g.injectQueue = g.injectQueue[:len(g.injectQueue)-1]

	switch evt.kind {
	case syntheticMove:
		g.input.PointerMove(evt.x, evt.y)
	case syntheticWheel:
		g.nav.ScrollBy(evt.dy)
	case syntheticScroll:
		g.input.Scroll(evt.dy)
	case syntheticJump:
		_ = g.nav.JumpTo(evt.index)
	case syntheticNext:
		g.nav.Next()
	case syntheticPrevious:
		g.nav.Previous()
	case syntheticShake:
		g.driver.Shake()
	case syntheticBurst:
		g.driver.Burst()
	}
	return true
}
