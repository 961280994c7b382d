package backdrop

import (
	"errors"
	"fmt"
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Section is one vertical band of the page.
type Section struct {
	Name   string `toml:"name"`
	Top    int    `toml:"top"`
	Height int    `toml:"height"`
}

// Bottom returns the exclusive lower edge of the section.
func (s Section) Bottom() int {
	return s.Top + s.Height
}

// Contains reports whether y lies in [Top, Bottom).
func (s Section) Contains(y int) bool {
	return y >= s.Top && y < s.Bottom()
}

// SectionRegistry is an ordered, read-only list of sections.
type SectionRegistry struct {
	sections []Section
}

// NewSectionRegistry validates that sections have positive heights and are
// ordered without overlap.
func NewSectionRegistry(sections ...Section) (SectionRegistry, error) {
	for i, s := range sections {
		if s.Height <= 0 {
			return SectionRegistry{}, fmt.Errorf("section %d (%q): height must be positive", i, s.Name)
		}
		if i > 0 && s.Top < sections[i-1].Bottom() {
			return SectionRegistry{}, fmt.Errorf("section %d (%q): overlaps previous section", i, s.Name)
		}
	}
	return SectionRegistry{sections: append([]Section(nil), sections...)}, nil
}

// StackedSections returns contiguous sections of equal height starting at 0.
func StackedSections(height int, names ...string) SectionRegistry {
	secs := make([]Section, len(names))
	for i, name := range names {
		secs[i] = Section{Name: name, Top: i * height, Height: height}
	}
	return SectionRegistry{sections: secs}
}

// Len returns the number of sections.
func (r SectionRegistry) Len() int {
	return len(r.sections)
}

// At returns the section at index i.
func (r SectionRegistry) At(i int) Section {
	return r.sections[i]
}

// Sections returns a copy of the section list.
func (r SectionRegistry) Sections() []Section {
	return append([]Section(nil), r.sections...)
}

// IndexAt returns the index of the section containing y, or -1.
func (r SectionRegistry) IndexAt(y int) int {
	for i, s := range r.sections {
		if s.Contains(y) {
			return i
		}
	}
	return -1
}

// Height returns the bottom of the last section.
func (r SectionRegistry) Height() int {
	if len(r.sections) == 0 {
		return 0
	}
	return r.sections[len(r.sections)-1].Bottom()
}

// ErrNoSection is returned by JumpTo for an index outside the registry.
var ErrNoSection = errors.New("no such section")

const (
	defaultScrollDuration = 0.6
	scrollIndicatorShown  = 0.5
)

// Navigator tracks the active section from the scroll signal and issues
// smooth scroll commands.
type Navigator struct {
	reg      SectionRegistry
	input    *Input
	active   int
	duration float32
	easeFn   ease.TweenFunc

	scroll    *gween.Tween
	scrollTo  int
	listeners []func(from, to int)
	handles   [2]CallbackHandle
}

// NewNavigator subscribes to the input's scroll and resize signals and
// computes the initial active section.
func NewNavigator(reg SectionRegistry, input *Input) *Navigator {
	n := &Navigator{
		reg:      reg,
		input:    input,
		active:   -1,
		duration: defaultScrollDuration,
		easeFn:   ease.OutCubic,
	}
	n.handles[0] = input.OnScroll(func(int) { n.recompute() })
	n.handles[1] = input.OnResize(func(int, int) { n.recompute() })
	n.active = n.compute()
	return n
}

// SetScrollDuration sets the smooth-scroll duration in seconds.
func (n *Navigator) SetScrollDuration(seconds float64) {
	if seconds > 0 {
		n.duration = float32(seconds)
	}
}

// SetEase sets the smooth-scroll easing function.
func (n *Navigator) SetEase(fn ease.TweenFunc) {
	if fn != nil {
		n.easeFn = fn
	}
}

// Registry returns the navigator's sections.
func (n *Navigator) Registry() SectionRegistry {
	return n.reg
}

// Active returns the index of the active section, or -1 if the viewport
// midpoint is outside every section.
func (n *Navigator) Active() int {
	return n.active
}

// OnChange registers fn to run whenever the active section changes.
func (n *Navigator) OnChange(fn func(from, to int)) {
	n.listeners = append(n.listeners, fn)
}

// Detach unsubscribes the navigator from its input.
func (n *Navigator) Detach() {
	for _, h := range n.handles {
		h.Remove()
	}
}

func (n *Navigator) midpoint() int {
	_, h := n.input.Viewport()
	return n.input.ScrollY() + h/2
}

func (n *Navigator) compute() int {
	return n.reg.IndexAt(n.midpoint())
}

func (n *Navigator) recompute() {
	next := n.compute()
	if next == n.active {
		return
	}
	prev := n.active
	n.active = next
	for _, fn := range n.listeners {
		fn(prev, next)
	}
}

// maxScroll is the largest scroll offset that keeps the viewport on the page.
func (n *Navigator) maxScroll() int {
	_, h := n.input.Viewport()
	return max(0, n.reg.Height()-h)
}

// ScrollBy scrolls by dy pixels immediately, clamped to the page, and
// cancels any smooth scroll in progress.
func (n *Navigator) ScrollBy(dy int) {
	n.scroll = nil
	y := n.input.ScrollY() + dy
	n.input.Scroll(min(max(0, y), n.maxScroll()))
}

// JumpTo starts a smooth scroll to the top of section i.
func (n *Navigator) JumpTo(i int) error {
	if i < 0 || i >= n.reg.Len() {
		return fmt.Errorf("jump to %d: %w", i, ErrNoSection)
	}
	from := n.input.ScrollY()
	to := min(n.reg.At(i).Top, n.maxScroll())
	n.scrollTo = to
	n.scroll = gween.New(float32(from), float32(to), n.duration, n.easeFn)
	return nil
}

// Next jumps to the section after the active one. It does nothing on the
// last section.
func (n *Navigator) Next() bool {
	target := n.active + 1
	if n.active < 0 {
		target = -1
		mid := n.midpoint()
		for i := 0; i < n.reg.Len(); i++ {
			if n.reg.At(i).Top > mid {
				target = i
				break
			}
		}
	}
	if target < 0 || target >= n.reg.Len() {
		return false
	}
	return n.JumpTo(target) == nil
}

// Previous jumps to the section before the active one. It does nothing on
// the first section.
func (n *Navigator) Previous() bool {
	target := n.active - 1
	if n.active < 0 {
		target = -1
		mid := n.midpoint()
		for i := n.reg.Len() - 1; i >= 0; i-- {
			if n.reg.At(i).Bottom() <= mid {
				target = i
				break
			}
		}
	}
	if target < 0 {
		return false
	}
	return n.JumpTo(target) == nil
}

// Scrolling reports whether a smooth scroll is in progress.
func (n *Navigator) Scrolling() bool {
	return n.scroll != nil
}

// Update advances the smooth scroll by dt seconds, writing each step
// through the input so the active section follows as with user scrolling.
func (n *Navigator) Update(dt float32) {
	if n.scroll == nil {
		return
	}
	val, done := n.scroll.Update(dt)
	y := int(math.Round(float64(val)))
	if done {
		y = n.scrollTo
		n.scroll = nil
	}
	if y != n.input.ScrollY() {
		n.input.Scroll(y)
	}
}

// ScrollIndicatorOpacity returns the opacity of the "scroll down" hint: it
// hides once the page has scrolled past half a viewport.
func (n *Navigator) ScrollIndicatorOpacity() float64 {
	_, h := n.input.Viewport()
	if float64(n.input.ScrollY()) > float64(h)*0.5 {
		return 0
	}
	return scrollIndicatorShown
}
