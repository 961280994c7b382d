package backdrop

import (
	"fmt"
	"image/color"
	"math"
	"math/rand/v2"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// RunConfig holds optional window settings for Run.
type RunConfig struct {
	// Title sets the window title. Defaults to "backdrop".
	Title string
	// Width and Height set the window size in pixels. Default 1280x800.
	Width, Height int
	// ShowFPS draws an FPS/TPS overlay with the active section name.
	ShowFPS bool
}

const (
	defaultWindowW = 1280
	defaultWindowH = 800

	navDotRadius  = 4
	navDotSpacing = 18
	navDotMargin  = 24
)

var digitKeys = [...]ebiten.Key{
	ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5,
	ebiten.Key6, ebiten.Key7, ebiten.Key8, ebiten.Key9,
}

// Game hosts a backdrop as an ebiten.Game. Each Update polls the cursor,
// wheel, keyboard and window focus, feeds the input sampler and navigator,
// and ticks the driver once.
type Game struct {
	// ClearColor fills the screen before the scene is drawn.
	ClearColor Color
	// ScreenshotDir is where Screenshot writes PNGs. Defaults to
	// "screenshots".
	ScreenshotDir string

	cfg      Config
	input    *Input
	driver   *Driver
	nav      *Navigator
	renderer *Renderer
	fade     *Fade
	fps      *fpsOverlay

	injectQueue     []syntheticEvent
	testRunner      *TestRunner
	screenshotQueue []string

	cursorX, cursorY int
	cursorSeen       bool

	updateFunc func() error
}

// NewGame validates cfg and builds the input sampler, driver, scene,
// navigator and renderer. A nil rng is seeded randomly.
func NewGame(cfg Config, rng *rand.Rand) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new game: %w", err)
	}
	reg, err := NewSectionRegistry(cfg.Navigation.Sections...)
	if err != nil {
		return nil, fmt.Errorf("new game: %w", err)
	}

	input := NewInput(0, 0)
	g := &Game{
		ClearColor:    Color{R: 0.01, G: 0.01, B: 0.04, A: 1},
		ScreenshotDir: defaultScreenshotDir,
		cfg:           cfg,
		input:         input,
		renderer:      NewRenderer(),
	}
	g.driver = NewDriver(cfg, input, rng)
	g.driver.BuildScene()
	g.nav = NewNavigator(reg, input)
	g.nav.SetScrollDuration(cfg.Navigation.ScrollDuration)
	g.nav.OnChange(func(from, to int) {
		g.driver.emit(Event{Type: EventSectionChange, Section: to, PrevSection: from})
	})
	g.fade = IntroFade(&g.renderer.Alpha)
	g.renderer.SetDebugMode(cfg.Debug)
	return g, nil
}

// Input returns the game's input sampler.
func (g *Game) Input() *Input { return g.input }

// Driver returns the game's animation driver.
func (g *Game) Driver() *Driver { return g.driver }

// Navigator returns the game's navigation controller.
func (g *Game) Navigator() *Navigator { return g.nav }

// Renderer returns the game's renderer.
func (g *Game) Renderer() *Renderer { return g.renderer }

// SetEventSink forwards driver and navigation events to sink.
func (g *Game) SetEventSink(sink EventSink) {
	g.driver.SetEventSink(sink)
}

// SetUpdateFunc registers a callback invoked at the end of every Update.
// A non-nil error stops the game loop.
func (g *Game) SetUpdateFunc(fn func() error) {
	g.updateFunc = fn
}

// ActiveSection returns the name of the active section, or "".
func (g *Game) ActiveSection() string {
	i := g.nav.Active()
	if i < 0 {
		return ""
	}
	return g.nav.Registry().At(i).Name
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	dt := float32(1.0 / float64(g.cfg.TPS))

	if g.testRunner != nil {
		g.testRunner.step(g)
	}
	if !g.processInjectedInput() && g.testRunner == nil {
		g.pollInput()
	}

	g.nav.Update(dt)
	if g.fade != nil && g.driver.Visible() {
		g.fade.Update(dt)
		if g.fade.Done {
			g.fade = nil
		}
	}
	g.driver.Tick()

	if g.fps != nil {
		g.fps.update(float64(dt), g.ActiveSection())
	}
	if g.updateFunc != nil {
		return g.updateFunc()
	}
	return nil
}

// pollInput reads real cursor, wheel, keyboard and focus state.
func (g *Game) pollInput() {
	g.driver.SetVisible(ebiten.IsFocused())

	cx, cy := ebiten.CursorPosition()
	if !g.cursorSeen || cx != g.cursorX || cy != g.cursorY {
		g.cursorX, g.cursorY, g.cursorSeen = cx, cy, true
		g.input.PointerMove(float64(cx), float64(cy))
	}

	if _, wy := ebiten.Wheel(); wy != 0 {
		g.nav.ScrollBy(int(math.Round(-wy * g.cfg.Navigation.WheelStep)))
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown), inpututil.IsKeyJustPressed(ebiten.KeyPageDown):
		g.nav.Next()
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp), inpututil.IsKeyJustPressed(ebiten.KeyPageUp):
		g.nav.Previous()
	case inpututil.IsKeyJustPressed(ebiten.KeyHome):
		_ = g.nav.JumpTo(0)
	case inpututil.IsKeyJustPressed(ebiten.KeyEnd):
		_ = g.nav.JumpTo(g.nav.Registry().Len() - 1)
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		g.driver.Shake()
	case inpututil.IsKeyJustPressed(ebiten.KeyB):
		g.driver.Burst()
	case inpututil.IsKeyJustPressed(ebiten.KeyF12):
		g.Screenshot(g.ActiveSection())
	}
	for i, k := range digitKeys {
		if inpututil.IsKeyJustPressed(k) {
			_ = g.nav.JumpTo(i)
		}
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if i := g.navDotAt(float64(cx), float64(cy)); i >= 0 {
			_ = g.nav.JumpTo(i)
		}
	}
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(nrgba(g.ClearColor, 1))
	g.renderer.Draw(screen, g.driver)
	g.drawNavigation(screen)
	if g.fps != nil {
		g.fps.draw(screen)
	}
	g.flushScreenshots(screen)
}

// Layout implements ebiten.Game. The outside size is the viewport.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.input.Resize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

// navDotPosition returns the centre of section i's dot on the right edge,
// with the column of n dots centred vertically.
func navDotPosition(i, n, width, height int) (x, y float64) {
	x = float64(width - navDotMargin)
	y = float64(height)/2 + (float64(i)-float64(n-1)/2)*navDotSpacing
	return x, y
}

// navDotAt returns the index of the dot under (x, y), or -1.
func (g *Game) navDotAt(x, y float64) int {
	w, h := g.input.Viewport()
	n := g.nav.Registry().Len()
	const hit = navDotRadius * 2
	for i := 0; i < n; i++ {
		dx, dy := navDotPosition(i, n, w, h)
		if math.Abs(x-dx) <= hit && math.Abs(y-dy) <= hit {
			return i
		}
	}
	return -1
}

func (g *Game) drawNavigation(screen *ebiten.Image) {
	w, h := g.input.Viewport()
	alpha := g.renderer.Alpha
	n := g.nav.Registry().Len()
	for i := 0; i < n; i++ {
		x, y := navDotPosition(i, n, w, h)
		if i == g.nav.Active() {
			vector.DrawFilledCircle(screen, float32(x), float32(y), navDotRadius, nrgba(ColorWhite, 0.9*alpha), true)
		} else {
			vector.StrokeCircle(screen, float32(x), float32(y), navDotRadius, 1, nrgba(ColorWhite, 0.5*alpha), true)
		}
	}

	// Scroll-down chevron.
	if a := g.nav.ScrollIndicatorOpacity() * alpha; a > 0 {
		cx, cy := float32(w)/2, float32(h)-32
		c := nrgba(ColorWhite, a)
		vector.StrokeLine(screen, cx-8, cy-4, cx, cy+4, 1.5, c, true)
		vector.StrokeLine(screen, cx, cy+4, cx+8, cy-4, 1.5, c, true)
	}
}

func nrgba(c Color, alpha float64) color.NRGBA {
	to8 := func(v float64) uint8 {
		return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
	}
	return color.NRGBA{R: to8(c.R), G: to8(c.G), B: to8(c.B), A: to8(c.A * alpha)}
}

// Run opens a window and runs g until the window is closed or the update
// callback returns an error.
func Run(g *Game, cfg RunConfig) error {
	title := cfg.Title
	if title == "" {
		title = "backdrop"
	}
	w, h := cfg.Width, cfg.Height
	if w <= 0 || h <= 0 {
		w, h = defaultWindowW, defaultWindowH
	}
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(g.cfg.TPS)
	// Keep Update running without focus so losing focus pauses the driver
	// through SetVisible instead of stalling the loop.
	ebiten.SetRunnableOnUnfocused(true)
	if cfg.ShowFPS {
		g.fps = newFPSOverlay()
	}
	g.input.Resize(w, h)
	return ebiten.RunGame(g)
}
