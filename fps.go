package backdrop

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// fpsOverlay displays the current FPS and TPS in the top-left corner.
// The text is redrawn every ~0.5 seconds into a small cached image.
type fpsOverlay struct {
	img        *ebiten.Image
	lastUpdate float64
	section    string
}

func newFPSOverlay() *fpsOverlay {
	// 120x48 is enough for "FPS: 60.0\nTPS: 60.0\nsection"
	return &fpsOverlay{img: ebiten.NewImage(120, 48), lastUpdate: 0.5}
}

func (o *fpsOverlay) update(dt float64, section string) {
	o.lastUpdate += dt
	if o.lastUpdate < 0.5 && section == o.section {
		return
	}
	o.lastUpdate = 0
	o.section = section

	o.img.Clear()
	// Semi-transparent background for readability
	o.img.Fill(color.RGBA{0, 0, 0, 128})

	fps := ebiten.ActualFPS()
	tps := ebiten.ActualTPS()
	ebitenutil.DebugPrint(o.img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f\n%s", fps, tps, section))
}

func (o *fpsOverlay) draw(dst *ebiten.Image) {
	dst.DrawImage(o.img, nil)
}
