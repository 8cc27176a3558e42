package engine

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
)

func TestSceneRegistry(t *testing.T) {
	first := scene.NewScene("first", nil)
	second := scene.NewScene("second", nil)
	hidden := scene.NewScene("hidden", nil, scene.WithActive(false))
	e := NewEngine(WithScene(5, second), WithScene(1, first)).(*engine)
	e.AddScene(3, hidden)

	active := e.activeScenes()
	if len(active) != 2 || active[0].Name() != "first" || active[1].Name() != "second" {
		names := make([]string, len(active))
		for i, s := range active {
			names[i] = s.Name()
		}
		t.Errorf("activeScenes() = %q, want [first second]", names)
	}

	scenes := e.Scenes()
	delete(scenes, 1)
	if e.Scene(1) == nil {
		t.Error("deleting from Scenes() changed the engine")
	}
	e.RemoveScene(1)
	if e.Scene(1) != nil {
		t.Error("Scene(1) after RemoveScene = non-nil, want nil")
	}
}

func TestTickCallsCallback(t *testing.T) {
	e := NewEngine(WithScene(0, scene.NewScene("viewer", nil)))
	var got []float32
	e.SetTickCallback(func(dt float32) { got = append(got, dt) })
	e.Tick(0.25)
	e.Tick(0.5)
	if len(got) != 2 || got[0] != 0.25 || got[1] != 0.5 {
		t.Errorf("tick callback received %v, want [0.25 0.5]", got)
	}
}

func TestRates(t *testing.T) {
	tests := []struct {
		name string
		fps  float64
		want time.Duration
	}{
		{"default", 0, time.Second / 60},
		{"30", 30, time.Second / 30},
		{"fractional", 0.5, 2 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(WithTickRate(tt.fps)).(*engine)
			if e.engineTickRate != tt.want {
				t.Errorf("WithTickRate(%v) = %v, want %v", tt.fps, e.engineTickRate, tt.want)
			}
		})
	}

	e := NewEngine(WithRenderFrameLimit(120)).(*engine)
	e.SetRenderFrameLimit(0)
	if e.renderFrameLimit != 0 {
		t.Errorf("SetRenderFrameLimit(0) = %v, want uncapped", e.renderFrameLimit)
	}
}

func TestQuitIsIdempotent(t *testing.T) {
	e := NewEngine()
	e.Quit()
	e.Quit()
	select {
	case <-e.(*engine).quitChannel:
	default:
		t.Error("quit channel still open after Quit")
	}
}
