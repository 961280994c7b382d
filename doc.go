// Package backdrop is an animated 3D starfield background for
// [Ebitengine]: a particle field, rotating wireframe shapes, drifting and
// shooting stars, and a pulsing nebula, viewed through a camera that
// follows the pointer and the page scroll.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	game, err := backdrop.NewGame(backdrop.DefaultConfig(backdrop.ModeCrawl), nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	backdrop.Run(game, backdrop.RunConfig{Title: "Portfolio", ShowFPS: true})
//
// For full control, build the pieces yourself and call [Driver.Tick] and
// [Renderer.Draw] from your own [ebiten.Game]:
//
//	in := backdrop.NewInput(1280, 800)
//	drv := backdrop.NewDriver(cfg, in, nil)
//	drv.BuildScene()
//	r := backdrop.NewRenderer()
//
//	func (g *Game) Update() error        { g.drv.Tick(); return nil }
//	func (g *Game) Draw(s *ebiten.Image) { g.r.Draw(s, g.drv) }
//
// # Modes
//
// [ModeOrbit] shows a slowly spinning cube of particles around the
// wireframes. [ModeCrawl] flies the camera through a cylindrical tunnel of
// marching particles with floating stars, pooled shooting stars and a
// nebula, rolling the camera as the page scrolls. Both modes share one
// [Driver]; [DefaultConfig] picks the population and camera tuning, and
// [LoadConfig] overrides it from TOML.
//
// # Input and navigation
//
// [Input] normalises pointer positions to [-1, 1] and carries the scroll
// offset and viewport size. [Navigator] maps the scroll offset to the
// active page [Section] and smooth-scrolls between sections with [gween].
//
// # Time
//
// The scene clock advances only when the driver ticks. A hidden driver
// (see [Driver.SetVisible]) does not tick, so animations resume where they
// stopped.
//
// # Events
//
// Section changes, visibility changes and shooting-star resets can be
// forwarded through an [EventSink]. The backdrop/ecs module provides a
// [Donburi] implementation.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package backdrop
