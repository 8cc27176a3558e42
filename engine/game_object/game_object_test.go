package game_object

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/controller"
)

func near(a, b [3]float32) bool {
	for i := range a {
		if math.Abs(float64(a[i]-b[i])) > 1e-5 {
			return false
		}
	}
	return true
}

func TestTranslateForward(t *testing.T) {
	tests := []struct {
		name string
		yaw  float32
		dist float32
		want [3]float32
	}{
		{"facing +z", 0, 5, [3]float32{0, 0, 5}},
		{"backwards", 0, -2, [3]float32{0, 0, -2}},
		{"quarter turn left faces +x", math.Pi / 2, 1, [3]float32{1, 0, 0}},
		{"half turn", math.Pi, 3, [3]float32{0, 0, -3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj := NewGameObject(WithYaw(tt.yaw))
			obj.TranslateForward(tt.dist)
			if got := obj.Position(); !near(got, tt.want) {
				t.Errorf("Position() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestControllerDrivesObject(t *testing.T) {
	obj := NewGameObject(WithPosition(1, 0, 1))
	c := controller.NewController()
	in := controller.Input{Enabled: true, Controls: controller.Controls{Forward: true}, Mode: controller.MovementRun}
	c.Update(obj, in, 1)
	if got := obj.Position(); !near(got, [3]float32{1, 0, 6}) {
		t.Errorf("Position() = %v, want [1 0 6]", got)
	}

	in.Controls = controller.Controls{Left: true}
	c.Update(obj, in, 0.5)
	if got := obj.Yaw(); math.Abs(float64(got-1.5)) > 1e-6 {
		t.Errorf("Yaw() = %v, want 1.5", got)
	}
}

func TestModelMatrix(t *testing.T) {
	obj := NewGameObject(WithPosition(1, 2, 3), WithYaw(math.Pi/2), WithScale(0.01, 0.01, 0.01))
	var m [16]float32
	obj.ModelMatrix(m[:])
	if got := common.TransformPoint(m[:], common.Vec3{0, 0, 100}); !near(got, [3]float32{2, 2, 3}) {
		t.Errorf("TransformPoint = %v, want [2 2 3]", got)
	}
}

func TestDefaults(t *testing.T) {
	obj := NewGameObject(WithID(7))
	if obj.ID() != 7 || !obj.Enabled() || obj.Scale() != [3]float32{1, 1, 1} {
		t.Errorf("defaults id=%d enabled=%v scale=%v", obj.ID(), obj.Enabled(), obj.Scale())
	}
	obj.SetEnabled(false)
	if obj.Enabled() {
		t.Error("SetEnabled(false) ignored")
	}
}
