package backdrop

import (
	"bytes"
	"math"
	"os"
	"strings"
	"testing"
)

// captureStderr runs fn with os.Stderr redirected and returns what it wrote.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	oldStderr := os.Stderr
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stderr = w

	fn()

	w.Close()
	os.Stderr = oldStderr

	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String()
}

func TestDebugMode_NonFiniteWarning(t *testing.T) {
	d := newTestDriver(DefaultConfig(ModeOrbit))
	s := d.BuildScene()
	d.SetDebugMode(true)

	var wire *Object
	s.Each(CategoryWireframe, func(o *Object) {
		if wire == nil {
			wire = o
		}
	})
	wire.Transform.Position.X = math.Inf(1)

	output := captureStderr(t, func() { d.Tick() })
	if !strings.Contains(output, "is not finite") {
		t.Errorf("expected non-finite warning in stderr, got: %q", output)
	}
	if !strings.Contains(output, wire.Name) {
		t.Errorf("warning should name the object, got: %q", output)
	}
}

func TestDebugMode_TickTiming(t *testing.T) {
	d := newTestDriver(DefaultConfig(ModeOrbit))
	d.BuildScene()
	d.SetDebugMode(true)

	output := captureStderr(t, func() {
		for i := 0; i < debugLogInterval; i++ {
			d.Tick()
		}
	})
	if !strings.Contains(output, "[backdrop] tick 60") {
		t.Errorf("expected timing line in stderr, got: %q", output)
	}
	if d.stats.objects != len(d.Scene().Objects()) {
		t.Errorf("stats.objects = %d, want %d", d.stats.objects, len(d.Scene().Objects()))
	}
}

func TestReleaseMode_Silent(t *testing.T) {
	d := newTestDriver(DefaultConfig(ModeOrbit))
	s := d.BuildScene()
	s.Field().Transform.Rotation.X = math.NaN()

	output := captureStderr(t, func() {
		for i := 0; i < debugLogInterval; i++ {
			d.Tick()
		}
	})
	if output != "" {
		t.Errorf("release mode wrote to stderr: %q", output)
	}
}
