package camera

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/common"
)

func near(a, b [3]float32) bool {
	for i := range a {
		if math.Abs(float64(a[i]-b[i])) > 1e-4 {
			return false
		}
	}
	return true
}

func TestDefaultPosition(t *testing.T) {
	cc := NewCameraController()
	if got := cc.Position(); !near(got, [3]float32{0, 2, 5}) {
		t.Errorf("Position() = %v, want [0 2 5]", got)
	}
}

func TestOrbitClampsElevation(t *testing.T) {
	tests := []struct {
		name string
		dy   float32
		want float32
	}{
		{"above zenith", 10000, math.Pi / 2},
		{"below horizon", -10000, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cc := NewCameraController()
			cc.Orbit(0, tt.dy)
			if got := cc.Elevation(); math.Abs(float64(got-tt.want)) > 1e-6 {
				t.Errorf("Elevation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFollowKeepsOffset(t *testing.T) {
	cc := NewCameraController()
	cc.Follow([3]float32{3, 0, 1}, 1)
	if got := cc.Position(); !near(got, [3]float32{3, 2, 6}) {
		t.Errorf("Position() = %v, want [3 2 6]", got)
	}
	cc.Follow([3]float32{5, 0, 1}, 0.5)
	if got := cc.Target(); !near(got, [3]float32{4, 0, 1}) {
		t.Errorf("Target() = %v, want [4 0 1]", got)
	}
}

func TestZoomClamps(t *testing.T) {
	cc := NewCameraController(WithRadiusBounds(2, 10))
	cc.Zoom(1000)
	if cc.Radius() != 2 {
		t.Errorf("Radius() = %v, want 2", cc.Radius())
	}
	cc.Zoom(-1000)
	if cc.Radius() != 10 {
		t.Errorf("Radius() = %v, want 10", cc.Radius())
	}
}

func TestCameraProjectsTargetToCentre(t *testing.T) {
	c := NewCamera(WithFovDegrees(50), WithAspect(16.0/9), WithController(NewCameraController()))
	vp := c.ViewProjectionMatrix()
	// the origin maps to the translation column
	clip := common.Vec3{vp[12] / vp[15], vp[13] / vp[15], vp[14] / vp[15]}
	if math.Abs(float64(clip[0])) > 1e-5 || math.Abs(float64(clip[1])) > 1e-5 {
		t.Errorf("target projects to %v, want screen centre", clip)
	}
	if got := c.Position(); !near(got, [3]float32{0, 2, 5}) {
		t.Errorf("Position() = %v", got)
	}
}
