package renderer

import (
	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
)

// Vertex is the interleaved layout of shaded triangle geometry.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
}

// LineVertex is the interleaved layout of debug line geometry.
type LineVertex struct {
	Position [3]float32
	Color    [4]float32
}

const (
	vertexStride     = 24
	lineVertexStride = 28
)

// BoxGeometry builds a box centred on the origin with flat-shaded faces.
//
// Parameters:
//   - size: full extent along each axis
//
// Returns:
//   - []Vertex: 24 vertices, four per face
//   - []uint32: 36 indices, counter-clockwise from outside
func BoxGeometry(size [3]float32) ([]Vertex, []uint32) {
	hx, hy, hz := size[0]/2, size[1]/2, size[2]/2
	faces := []struct {
		normal  [3]float32
		corners [4][3]float32
	}{
		{[3]float32{1, 0, 0}, [4][3]float32{{hx, -hy, hz}, {hx, -hy, -hz}, {hx, hy, -hz}, {hx, hy, hz}}},
		{[3]float32{-1, 0, 0}, [4][3]float32{{-hx, -hy, -hz}, {-hx, -hy, hz}, {-hx, hy, hz}, {-hx, hy, -hz}}},
		{[3]float32{0, 1, 0}, [4][3]float32{{-hx, hy, hz}, {hx, hy, hz}, {hx, hy, -hz}, {-hx, hy, -hz}}},
		{[3]float32{0, -1, 0}, [4][3]float32{{-hx, -hy, -hz}, {hx, -hy, -hz}, {hx, -hy, hz}, {-hx, -hy, hz}}},
		{[3]float32{0, 0, 1}, [4][3]float32{{-hx, -hy, hz}, {hx, -hy, hz}, {hx, hy, hz}, {-hx, hy, hz}}},
		{[3]float32{0, 0, -1}, [4][3]float32{{hx, -hy, -hz}, {-hx, -hy, -hz}, {-hx, hy, -hz}, {hx, hy, -hz}}},
	}
	vertices := make([]Vertex, 0, 24)
	indices := make([]uint32, 0, 36)
	for _, f := range faces {
		base := uint32(len(vertices))
		for _, c := range f.corners {
			vertices = append(vertices, Vertex{Position: c, Normal: f.normal})
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	return vertices, indices
}

// PlaneGeometry builds a square on the XZ plane at y=0 facing up.
func PlaneGeometry(size float32) ([]Vertex, []uint32) {
	h := size / 2
	up := [3]float32{0, 1, 0}
	vertices := []Vertex{
		{Position: [3]float32{-h, 0, h}, Normal: up},
		{Position: [3]float32{h, 0, h}, Normal: up},
		{Position: [3]float32{h, 0, -h}, Normal: up},
		{Position: [3]float32{-h, 0, -h}, Normal: up},
	}
	return vertices, []uint32{0, 1, 2, 0, 2, 3}
}

// GridLines builds a square grid on the XZ plane. The two lines through the origin use
// centerColor and all others use lineColor.
//
// Parameters:
//   - size: full width of the grid
//   - divisions: number of cells along each axis
//   - centerColor: colour of the centre lines
//   - lineColor: colour of the remaining lines
//
// Returns:
//   - []LineVertex: a line list, two vertices per line
func GridLines(size float32, divisions int, centerColor, lineColor [4]float32) []LineVertex {
	if divisions < 1 {
		divisions = 1
	}
	h := size / 2
	step := size / float32(divisions)
	center := divisions / 2
	lines := make([]LineVertex, 0, 4*(divisions+1))
	for i := 0; i <= divisions; i++ {
		k := -h + float32(i)*step
		color := lineColor
		if i == center && divisions%2 == 0 {
			color = centerColor
		}
		lines = append(lines,
			LineVertex{Position: [3]float32{-h, 0, k}, Color: color},
			LineVertex{Position: [3]float32{h, 0, k}, Color: color},
			LineVertex{Position: [3]float32{k, 0, -h}, Color: color},
			LineVertex{Position: [3]float32{k, 0, h}, Color: color},
		)
	}
	return lines
}

// BoxOutline builds the twelve edges of an axis-aligned box.
func BoxOutline(bmin, bmax [3]float32, color [4]float32) []LineVertex {
	corner := func(i int) [3]float32 {
		c := bmin
		if i&1 != 0 {
			c[0] = bmax[0]
		}
		if i&2 != 0 {
			c[1] = bmax[1]
		}
		if i&4 != 0 {
			c[2] = bmax[2]
		}
		return c
	}
	lines := make([]LineVertex, 0, 24)
	for i := 0; i < 8; i++ {
		for _, bit := range []int{1, 2, 4} {
			if i&bit == 0 {
				lines = append(lines,
					LineVertex{Position: corner(i), Color: color},
					LineVertex{Position: corner(i | bit), Color: color},
				)
			}
		}
	}
	return lines
}

// MeshVertices interleaves positions and normals for upload. The overrides replace the mesh's
// own attributes when non-nil, which is how skinned results are streamed each frame.
func MeshVertices(mesh *model.ImportedMesh, positions, normals [][3]float32) []Vertex {
	if positions == nil {
		positions = mesh.Positions
	}
	if normals == nil {
		normals = mesh.Normals
	}
	vertices := make([]Vertex, len(positions))
	for i := range positions {
		vertices[i].Position = positions[i]
		if i < len(normals) {
			vertices[i].Normal = normals[i]
		}
	}
	return vertices
}

// TransformLines applies a column-major matrix to every line vertex position.
func TransformLines(lines []LineVertex, m []float32) []LineVertex {
	out := make([]LineVertex, len(lines))
	for i, l := range lines {
		out[i] = LineVertex{Position: common.TransformPoint(m, l.Position), Color: l.Color}
	}
	return out
}
