package backdrop

import (
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// color32 is a compact premultiplied RGBA color, for vertex submission only.
type color32 struct {
	R, G, B, A float32
}

// premultiply returns c with every channel scaled by alpha.
func premultiply(c Color, alpha float64) color32 {
	a := float32(c.A * alpha)
	return color32{float32(c.R) * a, float32(c.G) * a, float32(c.B) * a, a}
}

const (
	// pointReferenceDepth is the view depth at which a point is drawn at its
	// configured size. Nearer points grow and farther points shrink.
	pointReferenceDepth = 5
	maxPointGrowth      = 3
	minPointSize        = 1

	starPointSize     = 1.5
	wireframeWidth    = 1
	shootingStarWidth = 1.5
)

// renderBatch is a run of consecutive objects that share a blend mode and
// are submitted in a single DrawTriangles32 call.
type renderBatch struct {
	blend          BlendMode
	vstart, istart int
}

// Renderer projects the scene through the driver's camera and draws every
// object as screen-space quads sampled from a white pixel.
type Renderer struct {
	// Alpha multiplies every object's opacity. The game host animates it for
	// the intro fade.
	Alpha float64

	verts   []ebiten.Vertex
	inds    []uint32
	batches []renderBatch
	vbase   int

	debug bool
	stats debugStats
}

// NewRenderer creates a renderer at full opacity.
func NewRenderer() *Renderer {
	return &Renderer{Alpha: 1}
}

// SetDebugMode enables draw timing output on stderr.
func (r *Renderer) SetDebugMode(enabled bool) {
	r.debug = enabled
}

// Draw renders the driver's scene onto dst.
func (r *Renderer) Draw(dst *ebiten.Image, d *Driver) {
	var t0 time.Time
	if r.debug {
		t0 = time.Now()
	}

	b := dst.Bounds()
	r.build(d, b.Dx(), b.Dy())

	img := ensureWhitePixel()
	drawCalls := 0
	for i, batch := range r.batches {
		vend, iend := len(r.verts), len(r.inds)
		if i+1 < len(r.batches) {
			vend, iend = r.batches[i+1].vstart, r.batches[i+1].istart
		}
		if iend == batch.istart {
			continue
		}
		var op ebiten.DrawTrianglesOptions
		op.Blend = batch.blend.EbitenBlend()
		op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
		dst.DrawTriangles32(r.verts[batch.vstart:vend], r.inds[batch.istart:iend], img, &op)
		drawCalls++
	}

	if r.debug {
		r.stats.drawTime = time.Since(t0)
		r.stats.vertices = len(r.verts)
		r.stats.drawCalls = drawCalls
		debugLogDraw(d.Clock().Ticks(), r.stats)
	}
}

// build fills the vertex, index and batch buffers for a viewport of the
// given size. Buffers are reused across frames.
func (r *Renderer) build(d *Driver, width, height int) {
	r.verts = r.verts[:0]
	r.inds = r.inds[:0]
	r.batches = r.batches[:0]

	s := d.Scene()
	if s == nil || width <= 0 || height <= 0 {
		return
	}
	cam := d.Camera()
	for _, o := range s.objects {
		alpha := o.Opacity * r.Alpha
		if alpha <= 0 {
			continue
		}
		r.begin(o.Blend)
		c := premultiply(o.Color, alpha)
		switch k := o.Kind.(type) {
		case *ParticleField:
			r.appendPoints(newProjector(cam, o.Transform, width, height), k.Points, k.PointSize, c)
		case *NebulaField:
			r.appendPoints(newProjector(cam, o.Transform, width, height), k.Points, k.PointSize, c)
		case *FloatingStar:
			p := newProjector(cam, o.Transform, width, height)
			if x, y, depth, ok := p.project(Vec3{}); ok {
				r.appendQuad(x, y, attenuate(starPointSize, depth)/2, c)
			}
		case *Wireframe:
			r.appendEdges(newProjector(cam, o.Transform, width, height), k.Geometry, c)
		case *ShootingStar:
			p := newProjector(cam, Transform{Scale: unitScale}, width, height)
			head := o.Transform.Position
			tail := head.Sub(k.Velocity.Scale(k.Tail))
			hx, hy, _, ok1 := p.project(head)
			tx, ty, _, ok2 := p.project(tail)
			if ok1 && ok2 {
				r.appendLine(hx, hy, tx, ty, shootingStarWidth, c, color32{})
			}
		}
	}
}

// begin starts a new batch unless the current one already uses blend.
func (r *Renderer) begin(blend BlendMode) {
	if n := len(r.batches); n > 0 && r.batches[n-1].blend == blend {
		return
	}
	r.vbase = len(r.verts)
	r.batches = append(r.batches, renderBatch{blend: blend, vstart: r.vbase, istart: len(r.inds)})
}

// attenuate scales a point size by view depth.
func attenuate(size, depth float64) float64 {
	if depth <= 0 {
		return size
	}
	s := size * pointReferenceDepth / depth
	return math.Max(minPointSize, math.Min(s, size*maxPointGrowth))
}

func (r *Renderer) appendPoints(p projector, points []Vec3, size float64, c color32) {
	for _, pt := range points {
		x, y, depth, ok := p.project(pt)
		if !ok {
			continue
		}
		r.appendQuad(x, y, attenuate(size, depth)/2, c)
	}
}

func (r *Renderer) appendEdges(p projector, g Geometry, c color32) {
	for _, e := range g.Edges {
		ax, ay, _, ok1 := p.project(g.Vertices[e[0]])
		bx, by, _, ok2 := p.project(g.Vertices[e[1]])
		if !ok1 || !ok2 {
			continue
		}
		r.appendLine(ax, ay, bx, by, wireframeWidth, c, c)
	}
}

// appendQuad appends an axis-aligned square of half-size half centred on
// (x, y).
func (r *Renderer) appendQuad(x, y, half float64, c color32) {
	base := uint32(len(r.verts) - r.vbase)
	xs := [4]float64{x - half, x + half, x - half, x + half}
	ys := [4]float64{y - half, y - half, y + half, y + half}
	for i := 0; i < 4; i++ {
		r.verts = append(r.verts, vertex(xs[i], ys[i], c))
	}
	// Two triangles: TL-TR-BL, TR-BR-BL
	r.inds = append(r.inds,
		base+0, base+1, base+2,
		base+1, base+3, base+2,
	)
}

// appendLine appends a quad of the given width from (ax, ay) to (bx, by).
// Colors are interpolated from ca at the start to cb at the end.
func (r *Renderer) appendLine(ax, ay, bx, by, width float64, ca, cb color32) {
	nx, ny := perpendicular(ax, ay, bx, by)
	hw := width / 2
	nx *= hw
	ny *= hw
	base := uint32(len(r.verts) - r.vbase)
	r.verts = append(r.verts,
		vertex(ax+nx, ay+ny, ca),
		vertex(ax-nx, ay-ny, ca),
		vertex(bx+nx, by+ny, cb),
		vertex(bx-nx, by-ny, cb),
	)
	r.inds = append(r.inds,
		base+0, base+1, base+2,
		base+1, base+3, base+2,
	)
}

func vertex(x, y float64, c color32) ebiten.Vertex {
	return ebiten.Vertex{
		DstX:   float32(x),
		DstY:   float32(y),
		SrcX:   0.5,
		SrcY:   0.5,
		ColorR: c.R,
		ColorG: c.G,
		ColorB: c.B,
		ColorA: c.A,
	}
}

// --- White pixel singleton (no sync.Once; drawing is single-threaded) ---

var whitePixelImage *ebiten.Image

// ensureWhitePixel returns a lazily-initialized 1x1 white pixel image.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return whitePixelImage
}
