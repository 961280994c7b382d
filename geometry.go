package backdrop

import (
	"fmt"
	"math"
)

// ShapeKind identifies a wireframe shape.
type ShapeKind uint8

const (
	ShapeCube ShapeKind = iota
	ShapeTorus
	ShapeSphere
	ShapeOctahedron
)

var shapeNames = [...]string{"cube", "torus", "sphere", "octahedron"}

// String returns the shape name used in config files.
func (s ShapeKind) String() string {
	if int(s) < len(shapeNames) {
		return shapeNames[s]
	}
	return fmt.Sprintf("ShapeKind(%d)", uint8(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s ShapeKind) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *ShapeKind) UnmarshalText(text []byte) error {
	for i, name := range shapeNames {
		if name == string(text) {
			*s = ShapeKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown shape %q", text)
}

// Geometry is an indexed edge list in object-local space.
type Geometry struct {
	Vertices []Vec3
	Edges    [][2]uint32
}

// NewShapeGeometry builds the edge geometry for a shape. size is the cube
// edge, the sphere and octahedron radius, or the torus ring radius (the tube
// radius is size*2/7, matching a 0.7/0.2 torus).
func NewShapeGeometry(kind ShapeKind, size float64) Geometry {
	switch kind {
	case ShapeCube:
		return cubeGeometry(size)
	case ShapeTorus:
		return torusGeometry(size, size*2/7, 16, 24)
	case ShapeSphere:
		return sphereGeometry(size, 16, 12)
	case ShapeOctahedron:
		return octahedronGeometry(size)
	default:
		return Geometry{}
	}
}

func cubeGeometry(size float64) Geometry {
	h := size / 2
	g := Geometry{Vertices: make([]Vec3, 0, 8), Edges: make([][2]uint32, 0, 12)}
	for i := 0; i < 8; i++ {
		g.Vertices = append(g.Vertices, Vec3{
			X: sign(i&1 != 0) * h,
			Y: sign(i&2 != 0) * h,
			Z: sign(i&4 != 0) * h,
		})
	}
	// Connect vertices that differ in exactly one bit.
	for i := 0; i < 8; i++ {
		for bit := 1; bit < 8; bit <<= 1 {
			j := i | bit
			if j != i {
				g.Edges = append(g.Edges, [2]uint32{uint32(i), uint32(j)})
			}
		}
	}
	return g
}

func sign(positive bool) float64 {
	if positive {
		return 1
	}
	return -1
}

func octahedronGeometry(r float64) Geometry {
	g := Geometry{
		Vertices: []Vec3{
			{r, 0, 0}, {-r, 0, 0},
			{0, r, 0}, {0, -r, 0},
			{0, 0, r}, {0, 0, -r},
		},
	}
	// Every vertex connects to the four vertices not on its own axis.
	for i := 0; i < 6; i++ {
		for j := i + 1; j < 6; j++ {
			if i/2 != j/2 {
				g.Edges = append(g.Edges, [2]uint32{uint32(i), uint32(j)})
			}
		}
	}
	return g
}

// sphereGeometry builds latitude rings and meridians. The pole rows collapse
// to a single vertex each.
func sphereGeometry(r float64, widthSegs, heightSegs int) Geometry {
	var g Geometry
	north := uint32(0)
	g.Vertices = append(g.Vertices, Vec3{0, r, 0})
	ring := func(row, col int) uint32 {
		return 1 + uint32((row-1)*widthSegs+col%widthSegs)
	}
	for row := 1; row < heightSegs; row++ {
		phi := math.Pi * float64(row) / float64(heightSegs)
		y := r * math.Cos(phi)
		rr := r * math.Sin(phi)
		for col := 0; col < widthSegs; col++ {
			theta := twoPi * float64(col) / float64(widthSegs)
			g.Vertices = append(g.Vertices, Vec3{rr * math.Cos(theta), y, rr * math.Sin(theta)})
		}
	}
	south := uint32(len(g.Vertices))
	g.Vertices = append(g.Vertices, Vec3{0, -r, 0})

	for row := 1; row < heightSegs; row++ {
		for col := 0; col < widthSegs; col++ {
			// Along the ring.
			g.Edges = append(g.Edges, [2]uint32{ring(row, col), ring(row, col+1)})
			// Down the meridian.
			if row == 1 {
				g.Edges = append(g.Edges, [2]uint32{north, ring(row, col)})
			}
			if row == heightSegs-1 {
				g.Edges = append(g.Edges, [2]uint32{ring(row, col), south})
			} else {
				g.Edges = append(g.Edges, [2]uint32{ring(row, col), ring(row+1, col)})
			}
		}
	}
	return g
}

// torusGeometry builds a grid of tube rings around the main ring in the XY
// plane.
func torusGeometry(ringR, tubeR float64, radialSegs, tubularSegs int) Geometry {
	var g Geometry
	idx := func(i, j int) uint32 {
		return uint32((i%tubularSegs)*radialSegs + j%radialSegs)
	}
	for i := 0; i < tubularSegs; i++ {
		u := twoPi * float64(i) / float64(tubularSegs)
		for j := 0; j < radialSegs; j++ {
			v := twoPi * float64(j) / float64(radialSegs)
			g.Vertices = append(g.Vertices, Vec3{
				X: (ringR + tubeR*math.Cos(v)) * math.Cos(u),
				Y: (ringR + tubeR*math.Cos(v)) * math.Sin(u),
				Z: tubeR * math.Sin(v),
			})
		}
	}
	for i := 0; i < tubularSegs; i++ {
		for j := 0; j < radialSegs; j++ {
			g.Edges = append(g.Edges,
				[2]uint32{idx(i, j), idx(i, j+1)},
				[2]uint32{idx(i, j), idx(i+1, j)},
			)
		}
	}
	return g
}

// perpendicular returns the unit left-perpendicular of the screen-space
// segment from (ax, ay) to (bx, by).
func perpendicular(ax, ay, bx, by float64) (float64, float64) {
	dx := bx - ax
	dy := by - ay
	ln := math.Sqrt(dx*dx + dy*dy)
	if ln < 1e-10 {
		return 0, -1
	}
	return -dy / ln, dx / ln
}
