package overlay

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/controller"
	"github.com/Carmen-Shannon/oxy-viewer/engine/store"
	"github.com/Carmen-Shannon/oxy-viewer/engine/window"
)

type fakeClipboard struct {
	written []string
	err     error
}

func (c *fakeClipboard) Write(text string) error {
	if c.err != nil {
		return c.err
	}
	c.written = append(c.written, text)
	return nil
}

type fakeTitle struct{ title string }

func (f *fakeTitle) SetTitle(title string) { f.title = title }

func newTestOverlay(state store.State, options ...OverlayBuilderOption) (Overlay, store.Store, *fakeClipboard) {
	st := store.NewStore(store.WithState(state))
	cb := &fakeClipboard{}
	options = append([]OverlayBuilderOption{WithClipboard(cb)}, options...)
	return NewOverlay(st, options...), st, cb
}

func presetState(actions ...string) store.State {
	s := store.DefaultState()
	s.AvailableActions = actions
	if len(actions) > 0 {
		s.CurrentAction = actions[0]
	}
	return s
}

func TestStatusLine(t *testing.T) {
	tests := []struct {
		name  string
		state store.State
		want  string
	}{
		{"preset", store.State{CurrentAction: "Wave"}, "Status: Wave"},
		{"control walk", store.State{CurrentAction: "Wave", ControlMode: true}, "Status: Moving (walk)"},
		{"control run", store.State{ControlMode: true, MovementMode: controller.MovementRun}, "Status: Moving (run)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusLine(tt.state); got != tt.want {
				t.Errorf("StatusLine(%+v) = %q, want %q", tt.state, got, tt.want)
			}
		})
	}
}

func TestPanelLinesPresets(t *testing.T) {
	s := presetState("Idle", "Wave", "Dance")
	s.CurrentAction = "Wave"
	got := PanelLines(DefaultHeader, s)
	want := []string{
		"Robot Controller",
		"Status: Wave",
		"Mode: Animation Presets",
		"  1. Idle",
		"> 2. Wave",
		"  3. Dance",
		"Grid: on  Debug: off  Ambient: 0.5  Directional: 1.0",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("PanelLines() = %q, want %q", got, want)
	}
}

func TestPanelLinesLoading(t *testing.T) {
	got := PanelLines(DefaultHeader, store.DefaultState())
	if got[3] != LoadingText {
		t.Errorf("PanelLines()[3] = %q, want %q", got[3], LoadingText)
	}
}

func TestPanelLinesControl(t *testing.T) {
	s := store.DefaultState()
	s.ControlMode = true
	s.MovementMode = controller.MovementRun
	s.Controls = controller.Controls{Forward: true, Left: true}
	got := PanelLines(DefaultHeader, s)
	if got[2] != "Mode: Directional Control" {
		t.Errorf("PanelLines()[2] = %q, want directional control", got[2])
	}
	if !strings.Contains(got[3], "[run]") {
		t.Errorf("PanelLines()[3] = %q, want run marked", got[3])
	}
	if got[4] != "Controls: forward left" {
		t.Errorf("PanelLines()[4] = %q, want %q", got[4], "Controls: forward left")
	}
}

func TestHandleKeySelectAndCycle(t *testing.T) {
	o, st, _ := newTestOverlay(presetState("Idle", "Wave", "Dance"))

	tests := []struct {
		name string
		key  uint32
		want string
	}{
		{"select 3", common.Key1 + 2, "Dance"},
		{"select out of range", common.Key1 + 5, "Dance"},
		{"next wraps", common.KeyRightBracket, "Idle"},
		{"previous wraps", common.KeyLeftBracket, "Dance"},
		{"previous", common.KeyLeftBracket, "Wave"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !o.HandleKey(tt.key, window.KeyPress) {
				t.Fatalf("HandleKey(%d) = false, want bound", tt.key)
			}
			if got := st.Get().CurrentAction; got != tt.want {
				t.Errorf("CurrentAction = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHandleKeyPresetsIgnoredInControlMode(t *testing.T) {
	o, st, _ := newTestOverlay(presetState("Idle", "Wave"))
	o.HandleKey(common.KeyTab, window.KeyPress)
	o.HandleKey(common.Key1+1, window.KeyPress)
	if got := st.Get().CurrentAction; got != "Idle" {
		t.Errorf("CurrentAction = %q, want Idle", got)
	}
}

func TestHandleKeyDirections(t *testing.T) {
	o, st, _ := newTestOverlay(store.DefaultState())

	o.HandleKey(common.KeyW, window.KeyPress)
	if st.Get().Controls.Forward {
		t.Error("Forward set outside control mode")
	}

	o.HandleKey(common.KeyTab, window.KeyPress)
	o.HandleKey(common.KeyUp, window.KeyPress)
	o.HandleKey(common.KeyA, window.KeyRepeat)
	want := controller.Controls{Forward: true, Left: true}
	if got := st.Get().Controls; got != want {
		t.Errorf("Controls = %+v, want %+v", got, want)
	}

	o.HandleKey(common.KeyW, window.KeyRelease)
	want = controller.Controls{Left: true}
	if got := st.Get().Controls; got != want {
		t.Errorf("Controls after release = %+v, want %+v", got, want)
	}

	o.HandleKey(common.KeyTab, window.KeyPress)
	if got := st.Get().Controls; got != (controller.Controls{}) {
		t.Errorf("Controls after leaving control mode = %+v, want none", got)
	}
}

func TestHandleKeyToggles(t *testing.T) {
	o, st, _ := newTestOverlay(store.DefaultState())

	o.HandleKey(common.KeyR, window.KeyPress)
	if got := st.Get().MovementMode; got != controller.MovementRun {
		t.Errorf("MovementMode = %v, want run", got)
	}
	o.HandleKey(common.KeyR, window.KeyRepeat)
	if got := st.Get().MovementMode; got != controller.MovementRun {
		t.Errorf("MovementMode after repeat = %v, want run", got)
	}
	o.HandleKey(common.KeyR, window.KeyPress)
	if got := st.Get().MovementMode; got != controller.MovementWalk {
		t.Errorf("MovementMode = %v, want walk", got)
	}

	o.HandleKey(common.KeyG, window.KeyPress)
	o.HandleKey(common.KeyP, window.KeyPress)
	s := st.Get()
	if s.Environment.GridVisible || !s.DebugPhysics {
		t.Errorf("Grid = %v, Debug = %v, want false, true", s.Environment.GridVisible, s.DebugPhysics)
	}

	if o.HandleKey(common.KeyEsc, window.KeyPress) {
		t.Error("HandleKey(Esc) = true, want unbound")
	}
}

func TestHandleKeyIntensityClamps(t *testing.T) {
	state := store.DefaultState()
	state.Environment.AmbientIntensity = 1.95
	state.Environment.DirectionalIntensity = 0.05
	o, st, _ := newTestOverlay(state)

	o.HandleKey(common.KeyEqual, window.KeyPress)
	o.HandleKey(common.KeyComma, window.KeyPress)
	env := st.Get().Environment
	if env.AmbientIntensity != 2 {
		t.Errorf("AmbientIntensity = %v, want 2", env.AmbientIntensity)
	}
	if env.DirectionalIntensity != 0 {
		t.Errorf("DirectionalIntensity = %v, want 0", env.DirectionalIntensity)
	}
}

func TestCopy(t *testing.T) {
	o, _, cb := newTestOverlay(presetState("Wave"))
	o.HandleKey(common.KeyC, window.KeyPress)
	if !reflect.DeepEqual(cb.written, []string{"Wave"}) {
		t.Errorf("clipboard = %q, want [Wave]", cb.written)
	}

	cb.err = errors.New("no display")
	if err := o.Copy(); !errors.Is(err, cb.err) {
		t.Errorf("Copy() = %v, want %v", err, cb.err)
	}
}

func TestAttachMirrorsTitleAndPrintsChanges(t *testing.T) {
	var out bytes.Buffer
	title := &fakeTitle{}
	o, st, _ := newTestOverlay(presetState("Idle", "Wave"), WithOutput(&out), WithTitleSetter(title))

	unsubscribe := o.Attach()
	if title.title != "Robot Controller | Status: Idle" {
		t.Errorf("title = %q, want %q", title.title, "Robot Controller | Status: Idle")
	}
	printed := strings.Count(out.String(), DefaultHeader)

	st.SetAction("Wave")
	if title.title != "Robot Controller | Status: Wave" {
		t.Errorf("title = %q, want %q", title.title, "Robot Controller | Status: Wave")
	}
	if got := strings.Count(out.String(), DefaultHeader); got != printed+1 {
		t.Errorf("panels printed = %d, want %d", got, printed+1)
	}

	unsubscribe()
	st.SetAction("Idle")
	if title.title != "Robot Controller | Status: Wave" {
		t.Errorf("title after unsubscribe = %q, want unchanged", title.title)
	}
}
