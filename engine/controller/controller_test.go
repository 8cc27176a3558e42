package controller

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

type fakeBody struct {
	yaw      float32
	distance float32
}

func (b *fakeBody) Rotate(angle float32)              { b.yaw += angle }
func (b *fakeBody) TranslateForward(distance float32) { b.distance += distance }

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func TestUpdateMovement(t *testing.T) {
	tests := []struct {
		name         string
		controls     Controls
		mode         MovementMode
		dt           float32
		wantDistance float32
		wantYaw      float32
		wantAction   string
	}{
		{"run forward", Controls{Forward: true}, MovementRun, 1, 5, 0, "Jogging"},
		{"forward wins over backward", Controls{Forward: true, Backward: true}, MovementRun, 1, 5, 0, "Jogging"},
		{"walk backward", Controls{Backward: true}, MovementWalk, 0.5, -1, 0, "Start Walking"},
		{"turn left", Controls{Left: true}, MovementWalk, 0.5, 0, 1.5, "Base_Idle"},
		{"turn right", Controls{Right: true}, MovementRun, 1, 0, -3, "Base_Idle"},
		{"left and right cancel", Controls{Left: true, Right: true}, MovementWalk, 1, 0, 0, "Base_Idle"},
		{"zero dt", Controls{Forward: true, Left: true}, MovementWalk, 0, 0, 0, "Start Walking"},
	}

	c := NewController()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := &fakeBody{}
			in := Input{Enabled: true, Controls: tt.controls, Mode: tt.mode, Requested: "Idle"}
			action, changed := c.Update(body, in, tt.dt)
			if !near(body.distance, tt.wantDistance) {
				t.Errorf("distance = %v, want %v", body.distance, tt.wantDistance)
			}
			if !near(body.yaw, tt.wantYaw) {
				t.Errorf("yaw = %v, want %v", body.yaw, tt.wantYaw)
			}
			if action != tt.wantAction || !changed {
				t.Errorf("Update() = %q, %v, want %q, true", action, changed, tt.wantAction)
			}
		})
	}
}

func TestUpdateDisabled(t *testing.T) {
	body := &fakeBody{}
	in := Input{Controls: Controls{Forward: true, Left: true}, Mode: MovementRun, Requested: "Wave"}
	action, changed := NewController().Update(body, in, 1)
	if action != "Wave" || changed || body.distance != 0 || body.yaw != 0 {
		t.Errorf("disabled Update() = %q, %v, body %+v", action, changed, body)
	}
}

func TestUpdateUnchangedAction(t *testing.T) {
	in := Input{Enabled: true, Controls: Controls{Forward: true}, Requested: "Start Walking"}
	if _, changed := NewController().Update(&fakeBody{}, in, 0.016); changed {
		t.Error("Update() reported a change for the already requested action")
	}
}

func TestOptions(t *testing.T) {
	c := NewController(WithSpeeds(1, 0, 0), WithLabels("Rest", "", "Sprint"))
	if got := c.Speed(MovementWalk); got != 1 {
		t.Errorf("Speed(walk) = %v, want 1", got)
	}
	if got := c.Speed(MovementRun); got != DefaultRunSpeed {
		t.Errorf("Speed(run) = %v, want %v", got, DefaultRunSpeed)
	}
	tests := []struct {
		in   Input
		want string
	}{
		{Input{}, "Rest"},
		{Input{Controls: Controls{Backward: true}}, DefaultWalkLabel},
		{Input{Controls: Controls{Forward: true}, Mode: MovementRun}, "Sprint"},
	}
	for _, tt := range tests {
		if got := c.DesiredAction(tt.in); got != tt.want {
			t.Errorf("DesiredAction(%+v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseMovementMode(t *testing.T) {
	tests := []struct {
		in   string
		want MovementMode
	}{
		{"run", MovementRun},
		{" RUN ", MovementRun},
		{"walk", MovementWalk},
		{"", MovementWalk},
	}
	for _, tt := range tests {
		if got := ParseMovementMode(tt.in); got != tt.want {
			t.Errorf("ParseMovementMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

const strafeScript = `
action = label
if moving && left {
	action = mode == "run" ? "Fast Strafe" : "Strafe"
}
`

func TestActionScript(t *testing.T) {
	script, err := CompileActionScript([]byte(strafeScript))
	if err != nil {
		t.Fatalf("CompileActionScript() error = %v", err)
	}
	c := NewController(WithActionScript(script))

	tests := []struct {
		controls Controls
		mode     MovementMode
		want     string
	}{
		{Controls{Forward: true, Left: true}, MovementWalk, "Strafe"},
		{Controls{Forward: true, Left: true}, MovementRun, "Fast Strafe"},
		{Controls{Forward: true}, MovementRun, "Jogging"},
		{Controls{}, MovementRun, "Base_Idle"},
	}
	for _, tt := range tests {
		in := Input{Enabled: true, Controls: tt.controls, Mode: tt.mode}
		if got, _ := c.Update(&fakeBody{}, in, 0.1); got != tt.want {
			t.Errorf("Update(%+v, %v) = %q, want %q", tt.controls, tt.mode, got, tt.want)
		}
	}
}

func TestActionScriptFallback(t *testing.T) {
	script, err := CompileActionScript([]byte(`action = 1 / (moving ? 0 : 1)`))
	if err != nil {
		t.Fatalf("CompileActionScript() error = %v", err)
	}
	c := NewController(WithActionScript(script))
	in := Input{Enabled: true, Controls: Controls{Forward: true}}
	if got, _ := c.Update(&fakeBody{}, in, 0.1); got != DefaultWalkLabel {
		t.Errorf("failing script Update() = %q, want %q", got, DefaultWalkLabel)
	}
}

func TestLoadActionScript(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.tengo")
	bad := filepath.Join(dir, "bad.tengo")
	if err := os.WriteFile(good, []byte(`action = "Wave"`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte(`action = (`), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadActionScript(good)
	if err != nil {
		t.Fatalf("LoadActionScript(%q) error = %v", good, err)
	}
	if got, _ := s.Desired(Input{}, "x"); got != "Wave" {
		t.Errorf("Desired() = %q, want Wave", got)
	}
	if _, err := LoadActionScript(bad); err == nil {
		t.Errorf("LoadActionScript(%q) error = nil, want compile error", bad)
	}
	if _, err := LoadActionScript(filepath.Join(dir, "missing.tengo")); err == nil {
		t.Error("LoadActionScript(missing) error = nil")
	}
}
