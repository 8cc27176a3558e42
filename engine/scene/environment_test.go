package scene

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/config"
	"github.com/Carmen-Shannon/oxy-viewer/engine/physics"
)

func TestPlatforms(t *testing.T) {
	cfg := config.Default()
	cfg.Environment.Platforms = append(cfg.Environment.Platforms, config.Platform{
		Position: [3]float32{0, 1, 0},
		Size:     [3]float32{1, 1, 1},
		Color:    "not-a-colour",
	})
	got := platforms(cfg)
	if len(got) != 4 {
		t.Fatalf("len(platforms()) = %d, want 4", len(got))
	}
	if want := common.MustParseHexColor("#44aa88"); got[0].color != want {
		t.Errorf("platforms()[0].color = %v, want %v", got[0].color, want)
	}
	if got[3].color != platformDefault {
		t.Errorf("platforms()[3].color = %v, want fallback %v", got[3].color, platformDefault)
	}
	if got[1].box.Top() != 0.5 {
		t.Errorf("platforms()[1].box.Top() = %v, want 0.5", got[1].box.Top())
	}
}

func TestBoxModel(t *testing.T) {
	b := physics.Box{Center: [3]float32{3, 0.5, 0}, Size: [3]float32{2, 1, 2}}
	m := boxModel(b)
	corner := common.TransformPoint(m[:], [3]float32{0.5, 0.5, 0.5})
	if corner != b.Max() {
		t.Errorf("boxModel() maps the unit corner to %v, want %v", corner, b.Max())
	}
}

func TestShadowDraw(t *testing.T) {
	var identity [16]float32
	common.Identity(identity[:])

	if _, ok := shadowDraw(identity, [3]float32{0, 1, 0}); ok {
		t.Error("shadowDraw() with an upward light = ok, want false")
	}

	dir := common.Normalize3([3]float32{-1, -1, 0})
	params, ok := shadowDraw(identity, dir)
	if !ok {
		t.Fatal("shadowDraw() = false, want true")
	}
	if !params.Shadow || params.Lit {
		t.Errorf("shadowDraw() params = %+v, want unlit shadow", params)
	}
	p := common.TransformPoint(params.Model[:], [3]float32{0, 2, 3})
	want := [3]float32{-1.995, 0.005, 3}
	for i := range p {
		if math.Abs(float64(p[i]-want[i])) > 1e-4 {
			t.Errorf("shadowDraw() projects (0, 2, 3) to %v, want %v", p, want)
			break
		}
	}
}

func TestGridAndColliderLines(t *testing.T) {
	grid := gridLines(10)
	if len(grid) != 4*(gridDivisions+1) {
		t.Errorf("len(gridLines()) = %d, want %d", len(grid), 4*(gridDivisions+1))
	}
	for _, v := range grid {
		if v.Position[1] != gridLift {
			t.Fatalf("grid vertex y = %v, want %v", v.Position[1], gridLift)
		}
	}

	boxes := []physics.Box{{Size: [3]float32{1, 1, 1}}, {Size: [3]float32{2, 2, 2}}}
	if got := len(colliderLines(boxes)); got != 48 {
		t.Errorf("len(colliderLines()) = %d, want 48", got)
	}
}
