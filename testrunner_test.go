package backdrop

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"
)

func newTestGame(t *testing.T) *Game {
	t.Helper()
	g, err := NewGame(DefaultConfig(ModeOrbit), rand.New(rand.NewPCG(1, 1)))
	if err != nil {
		t.Fatal(err)
	}
	g.Layout(1280, 800)
	return g
}

func runScript(t *testing.T, g *Game, script string) *TestRunner {
	t.Helper()
	runner, err := LoadTestScript([]byte(script))
	if err != nil {
		t.Fatal(err)
	}
	g.SetTestRunner(runner)
	for i := 0; i < 2000 && !runner.Done(); i++ {
		if err := g.Update(); err != nil {
			t.Fatal(err)
		}
	}
	if !runner.Done() {
		t.Fatal("script did not finish")
	}
	return runner
}

func TestLoadTestScriptErrors(t *testing.T) {
	tests := []struct {
		name, data, want string
	}{
		{"invalid json", `{`, "parse test script"},
		{"no steps", `{"steps": []}`, "no steps"},
		{"unknown action", `{"steps": [{"action": "teleport"}]}`, `"teleport"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTestScript([]byte(tt.data))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want mention of %s", err, tt.want)
			}
		})
	}
}

func TestScriptNavigatesSections(t *testing.T) {
	g := newTestGame(t)
	runner := runScript(t, g, `{"steps": [
		{"action": "expect", "label": "hero"},
		{"action": "jump", "index": 2},
		{"action": "wait", "frames": 60},
		{"action": "expect", "label": "projects"},
		{"action": "next"},
		{"action": "wait", "frames": 60},
		{"action": "expect", "label": "skills"},
		{"action": "previous"},
		{"action": "wait", "frames": 60},
		{"action": "expect", "label": "projects"},
		{"action": "scroll", "dy": 3200},
		{"action": "expect", "label": "contact"}
	]}`)
	if f := runner.Failures(); len(f) != 0 {
		t.Errorf("failures: %v", f)
	}
	if g.Input().ScrollY() != 3200 {
		t.Errorf("ScrollY = %d, want 3200", g.Input().ScrollY())
	}
}

func TestScriptReportsFailures(t *testing.T) {
	g := newTestGame(t)
	runner := runScript(t, g, `{"steps": [
		{"action": "expect", "label": "about"},
		{"action": "wheel", "dy": 500},
		{"action": "expect", "label": "about"}
	]}`)
	f := runner.Failures()
	if len(f) != 1 {
		t.Fatalf("failures = %v, want exactly one", f)
	}
	if !strings.Contains(f[0], `"hero"`) || !strings.Contains(f[0], "step 0") {
		t.Errorf("failure message = %q", f[0])
	}
}

func TestScriptHideShow(t *testing.T) {
	g := newTestGame(t)
	runner, err := LoadTestScript([]byte(`{"steps": [
		{"action": "hide"},
		{"action": "wait", "frames": 30},
		{"action": "show"},
		{"action": "wait", "frames": 10}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	g.SetTestRunner(runner)

	g.Update() // hide
	ticksWhileHidden := g.Driver().Clock().Ticks()
	for i := 0; i < 30; i++ {
		g.Update()
	}
	if got := g.Driver().Clock().Ticks(); got != ticksWhileHidden {
		t.Errorf("driver ticked while hidden: %d -> %d", ticksWhileHidden, got)
	}
	for i := 0; i < 20 && !runner.Done(); i++ {
		g.Update()
	}
	if g.Driver().Clock().Ticks() <= ticksWhileHidden {
		t.Error("driver did not resume after show")
	}
}

func TestScriptResize(t *testing.T) {
	g := newTestGame(t)
	runScript(t, g, `{"steps": [
		{"action": "resize", "width": 800, "height": 400},
		{"action": "scroll", "dy": 700},
		{"action": "expect", "label": "about"}
	]}`)
	if w, h := g.Input().Viewport(); w != 800 || h != 400 {
		t.Errorf("Viewport = %dx%d, want 800x400", w, h)
	}
	if g.Driver().Camera().Aspect != 2 {
		t.Errorf("camera aspect = %v, want 2", g.Driver().Camera().Aspect)
	}
}

func TestGameEmitsSectionEvents(t *testing.T) {
	g := newTestGame(t)
	sink := &recordingSink{}
	g.SetEventSink(sink)
	runScript(t, g, `{"steps": [
		{"action": "scroll", "dy": 800},
		{"action": "scroll", "dy": 1600}
	]}`)
	ev := sink.ofType(EventSectionChange)
	if len(ev) != 2 {
		t.Fatalf("section events = %+v, want 2", ev)
	}
	if ev[0].PrevSection != 0 || ev[0].Section != 1 || ev[1].Section != 2 {
		t.Errorf("section events = %+v", ev)
	}
}

func TestGameUpdateFuncStopsLoop(t *testing.T) {
	g := newTestGame(t)
	runner, err := LoadTestScript([]byte(`{"steps": [{"action": "wait", "frames": 5}]}`))
	if err != nil {
		t.Fatal(err)
	}
	g.SetTestRunner(runner)
	errStop := errors.New("stop")
	calls := 0
	g.SetUpdateFunc(func() error {
		calls++
		if calls == 3 {
			return errStop
		}
		return nil
	})
	var err2 error
	for i := 0; i < 10 && err2 == nil; i++ {
		err2 = g.Update()
	}
	if err2 != errStop || calls != 3 {
		t.Errorf("err = %v after %d calls", err2, calls)
	}
}
