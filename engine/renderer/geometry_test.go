package renderer

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
)

func TestBoxGeometry(t *testing.T) {
	vertices, indices := BoxGeometry([3]float32{2, 1, 4})
	if len(vertices) != 24 || len(indices) != 36 {
		t.Fatalf("BoxGeometry() = %d vertices, %d indices, want 24, 36", len(vertices), len(indices))
	}
	for _, v := range vertices {
		for axis, half := range [3]float32{1, 0.5, 2} {
			if p := v.Position[axis]; p != half && p != -half {
				t.Fatalf("vertex %v not on the box surface", v.Position)
			}
		}
	}

	// every triangle winds counter-clockwise seen from outside
	for i := 0; i < len(indices); i += 3 {
		a, b, c := vertices[indices[i]], vertices[indices[i+1]], vertices[indices[i+2]]
		n := common.Cross3(common.Sub3(b.Position, a.Position), common.Sub3(c.Position, a.Position))
		if common.Dot3(n, a.Normal) <= 0 {
			t.Errorf("triangle %d winds against its normal %v", i/3, a.Normal)
		}
	}
}

func TestPlaneGeometry(t *testing.T) {
	vertices, indices := PlaneGeometry(100)
	if len(vertices) != 4 || len(indices) != 6 {
		t.Fatalf("PlaneGeometry() = %d vertices, %d indices", len(vertices), len(indices))
	}
	if vertices[1].Position != [3]float32{50, 0, 50} {
		t.Errorf("corner = %v, want [50 0 50]", vertices[1].Position)
	}
	a, b, c := vertices[0].Position, vertices[1].Position, vertices[2].Position
	if n := common.Cross3(common.Sub3(b, a), common.Sub3(c, a)); n[1] <= 0 {
		t.Errorf("plane normal %v does not face up", n)
	}
}

func TestGridLines(t *testing.T) {
	red := [4]float32{1, 0, 0, 1}
	grey := common.MustParseHexColor("#666666")
	lines := GridLines(100, 100, red, grey)
	if got, want := len(lines), 4*101; got != want {
		t.Fatalf("len(GridLines()) = %d, want %d", got, want)
	}
	centre := 0
	for i := 0; i < len(lines); i += 2 {
		if lines[i].Color == red {
			centre++
			if lines[i].Position[0] != 0 && lines[i].Position[2] != 0 {
				t.Errorf("red line at %v does not pass through the origin", lines[i].Position)
			}
		}
	}
	if centre != 2 {
		t.Errorf("centre lines = %d, want 2", centre)
	}
}

func TestBoxOutline(t *testing.T) {
	lines := BoxOutline([3]float32{0, 0, 0}, [3]float32{1, 2, 3}, [4]float32{0, 1, 0, 1})
	if len(lines) != 24 {
		t.Fatalf("len(BoxOutline()) = %d, want 24", len(lines))
	}
	for i := 0; i < len(lines); i += 2 {
		d := common.Sub3(lines[i+1].Position, lines[i].Position)
		nonzero := 0
		for _, c := range d {
			if c != 0 {
				nonzero++
			}
		}
		if nonzero != 1 {
			t.Errorf("edge %v -> %v is not axis aligned", lines[i].Position, lines[i+1].Position)
		}
	}
}

func TestMeshVertices(t *testing.T) {
	mesh := &model.ImportedMesh{
		Positions: [][3]float32{{1, 2, 3}},
		Normals:   [][3]float32{{0, 1, 0}},
	}
	if got := MeshVertices(mesh, nil, nil); got[0].Position != mesh.Positions[0] || got[0].Normal != mesh.Normals[0] {
		t.Errorf("MeshVertices() = %v", got)
	}
	got := MeshVertices(mesh, [][3]float32{{4, 5, 6}}, nil)
	if got[0].Position != [3]float32{4, 5, 6} {
		t.Errorf("MeshVertices() override = %v, want [4 5 6]", got[0].Position)
	}
}

func TestTransformLines(t *testing.T) {
	var m [16]float32
	common.ComposeTRS(m[:], common.Vec3{1, 0, 0}, common.Quat{0, 0, 0, 1}, common.Vec3{1, 1, 1})
	out := TransformLines([]LineVertex{{Position: [3]float32{0, 1, 0}}}, m[:])
	if out[0].Position != [3]float32{1, 1, 0} {
		t.Errorf("TransformLines() = %v, want [1 1 0]", out[0].Position)
	}
}
