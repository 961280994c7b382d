package backdrop

import (
	"math"
	"slices"
)

// --- Listener registry ---

type scrollListener struct {
	id uint32
	fn func(scrollY int)
}

type resizeListener struct {
	id uint32
	fn func(width, height int)
}

type listenerRegistry struct {
	scroll []scrollListener
	resize []resizeListener
	nextID uint32
}

type listenerKind uint8

const (
	listenScroll listenerKind = iota
	listenResize
)

// CallbackHandle allows removing a registered input listener.
type CallbackHandle struct {
	id   uint32
	reg  *listenerRegistry
	kind listenerKind
}

// Remove unregisters the listener so it no longer fires. The registry is
// rebuilt rather than shifted in place, so a dispatch already in progress
// still visits every listener once.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	switch h.kind {
	case listenScroll:
		for i, l := range h.reg.scroll {
			if l.id == h.id {
				h.reg.scroll = slices.Delete(slices.Clone(h.reg.scroll), i, i+1)
				return
			}
		}
	case listenResize:
		for i, l := range h.reg.resize {
			if l.id == h.id {
				h.reg.resize = slices.Delete(slices.Clone(h.reg.resize), i, i+1)
				return
			}
		}
	}
}

// Input samples pointer, scroll and viewport signals. It is written only by
// its event methods and read by the driver and the navigator; all access
// happens on the update goroutine.
type Input struct {
	pointerX, pointerY float64
	scrollY            int
	width, height      int
	handlers           listenerRegistry
}

// NewInput creates an Input for a viewport of the given size.
func NewInput(width, height int) *Input {
	return &Input{width: width, height: height}
}

// Pointer returns the pointer offset from the viewport centre, each
// component in [-1, 1].
func (in *Input) Pointer() (x, y float64) {
	return in.pointerX, in.pointerY
}

// ScrollY returns the vertical scroll offset in pixels.
func (in *Input) ScrollY() int {
	return in.scrollY
}

// Viewport returns the viewport size in pixels.
func (in *Input) Viewport() (width, height int) {
	return in.width, in.height
}

// PointerMove records a pointer position given in viewport pixels. The
// stored signal is normalised to [-1, 1] and clamped for positions outside
// the viewport. No smoothing is applied here.
func (in *Input) PointerMove(clientX, clientY float64) {
	if in.width <= 0 || in.height <= 0 {
		return
	}
	in.pointerX = normalizeAxis(clientX, float64(in.width))
	in.pointerY = normalizeAxis(clientY, float64(in.height))
}

func normalizeAxis(v, size float64) float64 {
	n := v/size*2 - 1
	if math.IsNaN(n) {
		return 0
	}
	return math.Max(-1, math.Min(1, n))
}

// Scroll records the scroll offset and synchronously notifies scroll
// listeners in registration order. Negative offsets are clamped to zero.
func (in *Input) Scroll(y int) {
	if y < 0 {
		y = 0
	}
	in.scrollY = y
	for _, l := range in.handlers.scroll {
		l.fn(y)
	}
}

// Resize records a new viewport size and synchronously notifies resize
// listeners. Non-positive sizes are ignored.
func (in *Input) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if width == in.width && height == in.height {
		return
	}
	in.width, in.height = width, height
	for _, l := range in.handlers.resize {
		l.fn(width, height)
	}
}

// OnScroll registers fn to run after every Scroll call.
func (in *Input) OnScroll(fn func(scrollY int)) CallbackHandle {
	in.handlers.nextID++
	id := in.handlers.nextID
	in.handlers.scroll = append(in.handlers.scroll, scrollListener{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &in.handlers, kind: listenScroll}
}

// OnResize registers fn to run after every viewport size change.
func (in *Input) OnResize(fn func(width, height int)) CallbackHandle {
	in.handlers.nextID++
	id := in.handlers.nextID
	in.handlers.resize = append(in.handlers.resize, resizeListener{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &in.handlers, kind: listenResize}
}
