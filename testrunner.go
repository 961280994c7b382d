package backdrop

import (
	"encoding/json"
	"fmt"
)

// testStep represents a single action in a test script.
type testStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	DY     int     `json:"dy,omitempty"`
	Index  int     `json:"index,omitempty"`
	Width  int     `json:"width,omitempty"`
	Height int     `json:"height,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

// TestRunner sequences injected input, visibility changes, screenshots and
// section assertions across frames for automated testing. Attach to a Game via
// SetTestRunner; real input polling is skipped while a runner is attached.
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
	failures  []string
}

// LoadTestScript parses a JSON test script and returns a TestRunner ready
// to be attached to a Game via SetTestRunner.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		if !knownActions[st.Action] {
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

var knownActions = map[string]bool{
	"move": true, "sweep": true, "wheel": true, "scroll": true,
	"jump": true, "next": true, "previous": true,
	"shake": true, "burst": true,
	"hide": true, "show": true, "resize": true, "screenshot": true,
	"wait": true, "expect": true,
}

// SetTestRunner attaches a TestRunner to the game. The runner's step method
// is called from Game.Update before input processing each frame.
func (g *Game) SetTestRunner(runner *TestRunner) {
	g.testRunner = runner
}

// Done reports whether all steps in the test script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// Failures returns the messages of every failed "expect" step.
func (r *TestRunner) Failures() []string {
	return r.failures
}

// step advances the test runner by one frame. Called from Game.Update.
func (r *TestRunner) step(g *Game) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(g.injectQueue) > 0 {
		return
	}
	// Count down wait frames.
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "move":
		g.InjectMove(st.X, st.Y)
	case "sweep":
		g.InjectPointerPath(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "wheel":
		g.InjectWheel(st.DY)
	case "scroll":
		g.InjectScroll(st.DY)
	case "jump":
		g.InjectJump(st.Index)
	case "next":
		g.InjectNext()
	case "previous":
		g.InjectPrevious()
	case "shake":
		g.inject(syntheticEvent{kind: syntheticShake})
	case "burst":
		g.inject(syntheticEvent{kind: syntheticBurst})
	case "hide":
		g.driver.SetVisible(false)
	case "show":
		g.driver.SetVisible(true)
	case "resize":
		g.input.Resize(st.Width, st.Height)
	case "screenshot":
		g.Screenshot(st.Label)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "expect":
		if got := g.ActiveSection(); got != st.Label {
			r.failures = append(r.failures,
				fmt.Sprintf("step %d: active section %q, want %q", r.cursor-1, got, st.Label))
		}
	}

	// Check if we've reached the end after executing.
	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(g.injectQueue) == 0 {
		r.done = true
	}
}
