package loader

import (
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
)

// gltfMeshExtractorImpl is the implementation of the gltfMeshExtractor interface.
type gltfMeshExtractorImpl struct {
	parser gltfParser
}

// gltfMeshExtractor converts mesh nodes into ImportedMesh values, one per triangle primitive.
type gltfMeshExtractor interface {
	// ExtractMeshNodes walks every node that instances a mesh.
	// Static meshes are baked into world space; skinned meshes stay in bind space since
	// glTF ignores the node transform of skinned meshes.
	//
	// Parameters:
	//   - materials: extracted materials, used for each primitive's base colour
	//
	// Returns:
	//   - []model.ImportedMesh: the primitives in node order
	//   - error: when a primitive cannot be read
	ExtractMeshNodes(materials []model.ImportedMaterial) ([]model.ImportedMesh, error)
}

var _ gltfMeshExtractor = &gltfMeshExtractorImpl{}

func newGLTFMeshExtractor(parser gltfParser) gltfMeshExtractor {
	return &gltfMeshExtractorImpl{parser: parser}
}

func (e *gltfMeshExtractorImpl) ExtractMeshNodes(materials []model.ImportedMaterial) ([]model.ImportedMesh, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, fmt.Errorf("no document loaded")
	}

	var result []model.ImportedMesh
	for nodeIdx, node := range doc.Nodes {
		if node.Mesh == nil {
			continue
		}
		if *node.Mesh < 0 || *node.Mesh >= len(doc.Meshes) {
			return nil, fmt.Errorf("node %d: mesh index %d out of range", nodeIdx, *node.Mesh)
		}
		mesh := &doc.Meshes[*node.Mesh]
		name := common.Coalesce(node.Name, mesh.Name, fmt.Sprintf("mesh_%d", *node.Mesh))

		var world *[16]float32
		if node.Skin == nil {
			m := gltfNodeWorldMatrix(e.parser, nodeIdx)
			world = &m
		}

		for primIdx := range mesh.Primitives {
			prim := &mesh.Primitives[primIdx]
			if prim.Mode != nil && *prim.Mode != gltfPrimitiveModeTriangles {
				continue
			}
			imported, err := e.extractPrimitive(prim, world)
			if err != nil {
				return nil, fmt.Errorf("mesh %q primitive %d: %w", name, primIdx, err)
			}
			imported.Name = name
			if primIdx > 0 {
				imported.Name = fmt.Sprintf("%s_prim%d", name, primIdx)
			}
			imported.BaseColor = [4]float32{0.8, 0.8, 0.8, 1}
			if imported.MaterialIndex >= 0 && imported.MaterialIndex < len(materials) {
				imported.BaseColor = materials[imported.MaterialIndex].BaseColor
			}
			result = append(result, *imported)
		}
	}
	return result, nil
}

func (e *gltfMeshExtractorImpl) extractPrimitive(prim *gltfPrimitive, world *[16]float32) (*model.ImportedMesh, error) {
	posAccessor, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, fmt.Errorf("primitive has no POSITION attribute")
	}
	positions, err := e.parser.ReadVec3Accessor(posAccessor)
	if err != nil {
		return nil, fmt.Errorf("failed to read positions: %w", err)
	}
	mesh := &model.ImportedMesh{Positions: positions, MaterialIndex: -1}

	if idx, ok := prim.Attributes["NORMAL"]; ok {
		if mesh.Normals, err = e.parser.ReadVec3Accessor(idx); err != nil {
			return nil, fmt.Errorf("failed to read normals: %w", err)
		}
	}
	if idx, ok := prim.Attributes["JOINTS_0"]; ok {
		if mesh.Joints, err = e.parser.ReadJointsAccessor(idx); err != nil {
			return nil, fmt.Errorf("failed to read joints: %w", err)
		}
	}
	if idx, ok := prim.Attributes["WEIGHTS_0"]; ok {
		if mesh.Weights, err = e.parser.ReadVec4Accessor(idx); err != nil {
			return nil, fmt.Errorf("failed to read weights: %w", err)
		}
	}

	if prim.Indices != nil {
		if mesh.Indices, err = e.parser.ReadIndicesAccessor(*prim.Indices); err != nil {
			return nil, fmt.Errorf("failed to read indices: %w", err)
		}
	} else {
		mesh.Indices = make([]uint32, len(positions))
		for i := range mesh.Indices {
			mesh.Indices[i] = uint32(i)
		}
	}
	for _, idx := range mesh.Indices {
		if int(idx) >= len(positions) {
			return nil, fmt.Errorf("index %d out of range for %d vertices", idx, len(positions))
		}
	}

	if len(mesh.Normals) != len(positions) {
		mesh.Normals = generateNormals(positions, mesh.Indices)
	}

	if world != nil {
		for i := range mesh.Positions {
			mesh.Positions[i] = common.TransformPoint(world[:], mesh.Positions[i])
			mesh.Normals[i] = common.Normalize3(common.TransformDir(world[:], mesh.Normals[i]))
		}
	}

	if prim.Material != nil {
		mesh.MaterialIndex = *prim.Material
	}
	mesh.BoundingMin, mesh.BoundingMax = gltfCalculateBoundingBox(mesh.Positions)
	return mesh, nil
}

func gltfCalculateBoundingBox(positions [][3]float32) ([3]float32, [3]float32) {
	if len(positions) == 0 {
		return [3]float32{}, [3]float32{}
	}
	inf := float32(math.Inf(1))
	bmin := [3]float32{inf, inf, inf}
	bmax := [3]float32{-inf, -inf, -inf}
	for _, p := range positions {
		for i := 0; i < 3; i++ {
			bmin[i] = min(bmin[i], p[i])
			bmax[i] = max(bmax[i], p[i])
		}
	}
	return bmin, bmax
}

// generateNormals accumulates area-weighted face normals per vertex.
func generateNormals(positions [][3]float32, indices []uint32) [][3]float32 {
	normals := make([][3]float32, len(positions))
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		n := common.Cross3(
			common.Sub3(positions[b], positions[a]),
			common.Sub3(positions[c], positions[a]),
		)
		normals[a] = common.Add3(normals[a], n)
		normals[b] = common.Add3(normals[b], n)
		normals[c] = common.Add3(normals[c], n)
	}
	for i := range normals {
		if normals[i] == ([3]float32{}) {
			normals[i] = [3]float32{0, 1, 0}
			continue
		}
		normals[i] = common.Normalize3(normals[i])
	}
	return normals
}
