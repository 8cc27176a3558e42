package light

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/common"
)

func near(a, b [3]float32) bool {
	for i := range a {
		if math.Abs(float64(a[i]-b[i])) > 1e-5 {
			return false
		}
	}
	return true
}

func TestDirection(t *testing.T) {
	l := NewLight(LightTypeDirectional, WithPosition(10, 10, 5))
	want := common.Normalize3(common.Vec3{-10, -10, -5})
	if got := l.Direction(); !near(got, want) {
		t.Errorf("Direction() = %v, want %v", got, want)
	}
	l.SetTarget(10, 0, 5)
	if got := l.Direction(); !near(got, [3]float32{0, -1, 0}) {
		t.Errorf("Direction() = %v, want straight down", got)
	}
}

func TestRadiance(t *testing.T) {
	l := NewLight(LightTypeAmbient, WithIntensity(0.5), WithColor(1, 0.5, 0))
	if got := l.Radiance(); !near(got, [3]float32{0.5, 0.25, 0}) {
		t.Errorf("Radiance() = %v", got)
	}
	l.SetIntensity(-1)
	if l.Intensity() != 0 {
		t.Errorf("Intensity() = %v, want 0", l.Intensity())
	}
	l.SetIntensity(2)
	l.SetEnabled(false)
	if got := l.Radiance(); got != ([3]float32{}) {
		t.Errorf("disabled Radiance() = %v", got)
	}
}

func TestPlanarShadowMatrix(t *testing.T) {
	var m [16]float32
	if !PlanarShadowMatrix(m[:], common.Normalize3(common.Vec3{-1, -1, 0}), 0) {
		t.Fatal("PlanarShadowMatrix() = false for a downward light")
	}
	if got := common.TransformPoint(m[:], common.Vec3{0, 2, 3}); !near(got, [3]float32{-2, 0, 3}) {
		t.Errorf("shadow of (0,2,3) = %v, want [-2 0 3]", got)
	}
	if PlanarShadowMatrix(m[:], common.Vec3{0, 1, 0}, 0) {
		t.Error("PlanarShadowMatrix() = true for an upward light")
	}
}
