package backdrop

import (
	"math/rand/v2"
	"testing"
)

func TestPointerMoveNormalises(t *testing.T) {
	in := NewInput(800, 600)
	tests := []struct {
		x, y   float64
		wx, wy float64
	}{
		{400, 300, 0, 0},
		{0, 0, -1, -1},
		{800, 600, 1, 1},
		{200, 450, -0.5, 0.5},
		// Outside the viewport clamps.
		{-100, 10000, -1, 1},
	}
	for _, tt := range tests {
		in.PointerMove(tt.x, tt.y)
		px, py := in.Pointer()
		if !approxEqual(px, tt.wx, 1e-12) || !approxEqual(py, tt.wy, 1e-12) {
			t.Errorf("PointerMove(%v, %v) -> (%v, %v), want (%v, %v)", tt.x, tt.y, px, py, tt.wx, tt.wy)
		}
	}
}

func TestPointerAlwaysInBounds(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	in := NewInput(1280, 800)
	for i := 0; i < 10000; i++ {
		if i%1000 == 0 {
			in.Resize(1+rng.IntN(4000), 1+rng.IntN(4000))
		}
		in.PointerMove(rng.Float64()*20000-10000, rng.Float64()*20000-10000)
		px, py := in.Pointer()
		if px < -1 || px > 1 || py < -1 || py > 1 {
			t.Fatalf("event %d: pointer (%v, %v) out of [-1, 1]", i, px, py)
		}
	}
}

func TestPointerMoveIgnoredWithoutViewport(t *testing.T) {
	in := NewInput(0, 0)
	in.PointerMove(100, 100)
	if px, py := in.Pointer(); px != 0 || py != 0 {
		t.Errorf("pointer = (%v, %v), want unchanged", px, py)
	}
}

func TestScrollClampsAndNotifiesInOrder(t *testing.T) {
	in := NewInput(800, 600)
	var order []int
	in.OnScroll(func(y int) { order = append(order, 1) })
	in.OnScroll(func(y int) { order = append(order, 2) })

	in.Scroll(-50)
	if in.ScrollY() != 0 {
		t.Errorf("ScrollY = %d, want 0", in.ScrollY())
	}
	in.Scroll(120)
	if in.ScrollY() != 120 {
		t.Errorf("ScrollY = %d, want 120", in.ScrollY())
	}
	want := []int{1, 2, 1, 2}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestCallbackHandleRemove(t *testing.T) {
	in := NewInput(800, 600)
	var a, b int
	ha := in.OnScroll(func(int) { a++ })
	in.OnScroll(func(int) { b++ })

	in.Scroll(1)
	ha.Remove()
	in.Scroll(2)
	ha.Remove() // second remove is a no-op

	if a != 1 || b != 2 {
		t.Errorf("a=%d b=%d, want 1 and 2", a, b)
	}

	var zero CallbackHandle
	zero.Remove() // must not panic
}

func TestListenerRemovesItselfDuringDispatch(t *testing.T) {
	in := NewInput(800, 600)
	calls := make([]int, 3)
	var self CallbackHandle
	self = in.OnScroll(func(int) {
		calls[0]++
		self.Remove()
	})
	in.OnScroll(func(int) { calls[1]++ })
	in.OnScroll(func(int) { calls[2]++ })

	in.Scroll(10)
	if calls[0] != 1 || calls[1] != 1 || calls[2] != 1 {
		t.Fatalf("first scroll calls = %v, want [1 1 1]", calls)
	}
	in.Scroll(20)
	if calls[0] != 1 || calls[1] != 2 || calls[2] != 2 {
		t.Errorf("second scroll calls = %v, want [1 2 2]", calls)
	}

	sizes := make([]int, 3)
	var selfResize CallbackHandle
	selfResize = in.OnResize(func(int, int) {
		sizes[0]++
		selfResize.Remove()
	})
	in.OnResize(func(int, int) { sizes[1]++ })
	in.OnResize(func(int, int) { sizes[2]++ })

	in.Resize(1024, 768)
	in.Resize(640, 480)
	if sizes[0] != 1 || sizes[1] != 2 || sizes[2] != 2 {
		t.Errorf("resize calls = %v, want [1 2 2]", sizes)
	}
}

func TestResize(t *testing.T) {
	in := NewInput(800, 600)
	calls := 0
	var gotW, gotH int
	h := in.OnResize(func(w, h int) {
		calls++
		gotW, gotH = w, h
	})

	in.Resize(1024, 768)
	in.Resize(1024, 768) // unchanged
	in.Resize(0, 500)    // ignored
	in.Resize(500, -1)   // ignored

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if gotW != 1024 || gotH != 768 {
		t.Errorf("listener got %dx%d", gotW, gotH)
	}
	if w, hh := in.Viewport(); w != 1024 || hh != 768 {
		t.Errorf("Viewport = %dx%d", w, hh)
	}

	h.Remove()
	in.Resize(640, 480)
	if calls != 1 {
		t.Errorf("removed listener fired")
	}
}
