package loader

import (
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
)

// gltfSkeletonExtractorImpl is the implementation of the gltfSkeletonExtractor interface.
type gltfSkeletonExtractorImpl struct {
	parser gltfParser
}

// gltfSkeletonExtractor builds engine skeletons from glTF skins.
type gltfSkeletonExtractor interface {
	// ExtractSkeleton builds the skeleton for a skin with bones sorted parents-first.
	//
	// Parameters:
	//   - skinIndex: index into the document's skins
	//
	// Returns:
	//   - *model.Skeleton: the sorted skeleton
	//   - map[int]int32: glTF node index to sorted bone index
	//   - map[int32]int32: skin joint slot to sorted bone index, for remapping vertex joints
	//   - error: when the skin is malformed
	ExtractSkeleton(skinIndex int) (*model.Skeleton, map[int]int32, map[int32]int32, error)

	// FindSkinForMesh returns the skin used by the first node that instances the mesh, or -1.
	FindSkinForMesh(meshIndex int) int
}

var _ gltfSkeletonExtractor = &gltfSkeletonExtractorImpl{}

func newGLTFSkeletonExtractor(parser gltfParser) gltfSkeletonExtractor {
	return &gltfSkeletonExtractorImpl{parser: parser}
}

func (e *gltfSkeletonExtractorImpl) FindSkinForMesh(meshIndex int) int {
	doc := e.parser.Document()
	if doc == nil {
		return -1
	}
	for _, node := range doc.Nodes {
		if node.Mesh != nil && *node.Mesh == meshIndex && node.Skin != nil {
			return *node.Skin
		}
	}
	return -1
}

func (e *gltfSkeletonExtractorImpl) ExtractSkeleton(skinIndex int) (*model.Skeleton, map[int]int32, map[int32]int32, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, nil, nil, fmt.Errorf("no document loaded")
	}
	if skinIndex < 0 || skinIndex >= len(doc.Skins) {
		return nil, nil, nil, fmt.Errorf("skin index %d out of range", skinIndex)
	}
	skin := &doc.Skins[skinIndex]

	var inverseBind [][16]float32
	if skin.InverseBindMatrices != nil {
		var err error
		if inverseBind, err = e.parser.ReadMat4Accessor(*skin.InverseBindMatrices); err != nil {
			return nil, nil, nil, fmt.Errorf("failed to read inverse bind matrices: %w", err)
		}
	}

	slotOfNode := make(map[int]int32, len(skin.Joints))
	for slot, nodeIdx := range skin.Joints {
		if nodeIdx < 0 || nodeIdx >= len(doc.Nodes) {
			return nil, nil, nil, fmt.Errorf("joint %d: invalid node index %d", slot, nodeIdx)
		}
		slotOfNode[nodeIdx] = int32(slot)
	}

	bones := make([]model.Bone, len(skin.Joints))
	var roots []int32
	for slot, nodeIdx := range skin.Joints {
		node := &doc.Nodes[nodeIdx]
		bone := &bones[slot]
		bone.Name = gltfNodeName(doc, nodeIdx)
		bone.LocalTransform = gltfExtractNodeTransform(node)
		bone.InverseBindMatrix = gltfIdentityMatrix()
		if slot < len(inverseBind) {
			bone.InverseBindMatrix = inverseBind[slot]
		}

		// the nearest joint ancestor becomes the parent; non-joint ancestors fold into ParentWorld
		bone.ParentIndex = -1
		ancestor := e.parser.ParentOf(nodeIdx)
		for ancestor >= 0 {
			if parentSlot, ok := slotOfNode[ancestor]; ok {
				bone.ParentIndex = parentSlot
				break
			}
			ancestor = e.parser.ParentOf(ancestor)
		}
		if bone.ParentIndex < 0 {
			bone.ParentWorld = gltfNodeWorldMatrix(e.parser, e.parser.ParentOf(nodeIdx))
			roots = append(roots, int32(slot))
		}
	}

	sorted, slotToBone := gltfTopologicalSortBones(bones, roots)

	nodeToBone := make(map[int]int32, len(skin.Joints))
	for slot, nodeIdx := range skin.Joints {
		nodeToBone[nodeIdx] = slotToBone[int32(slot)]
	}

	return sorted, nodeToBone, slotToBone, nil
}

// gltfNodeWorldMatrix accumulates the transforms from the scene root down to nodeIdx.
// A negative index yields the identity.
func gltfNodeWorldMatrix(parser gltfParser, nodeIdx int) [16]float32 {
	world := gltfIdentityMatrix()
	doc := parser.Document()
	for nodeIdx >= 0 {
		t := gltfExtractNodeTransform(&doc.Nodes[nodeIdx])
		var local [16]float32
		common.ComposeTRS(local[:], t.Translation, t.Rotation, t.Scale)
		common.Mul4(world[:], local[:], world[:])
		nodeIdx = parser.ParentOf(nodeIdx)
	}
	return world
}

// gltfNodeName returns the node's name, or a stable placeholder for unnamed nodes.
func gltfNodeName(doc *gltfDocument, nodeIdx int) string {
	if name := doc.Nodes[nodeIdx].Name; name != "" {
		return name
	}
	return fmt.Sprintf("node_%d", nodeIdx)
}

func gltfExtractNodeTransform(node *gltfNode) model.Transform {
	if node.Matrix != nil {
		return gltfDecomposeMatrix(*node.Matrix)
	}
	t := model.IdentityTransform()
	if node.Translation != nil {
		t.Translation = *node.Translation
	}
	if node.Rotation != nil {
		t.Rotation = *node.Rotation
	}
	if node.Scale != nil {
		t.Scale = *node.Scale
	}
	return t
}

func gltfIdentityMatrix() [16]float32 {
	var m [16]float32
	common.Identity(m[:])
	return m
}

// gltfDecomposeMatrix splits a column-major TRS matrix into its parts. Shear is discarded.
func gltfDecomposeMatrix(m [16]float32) model.Transform {
	length := func(x, y, z float32) float32 {
		return float32(math.Sqrt(float64(x*x + y*y + z*z)))
	}
	sx, sy, sz := length(m[0], m[1], m[2]), length(m[4], m[5], m[6]), length(m[8], m[9], m[10])
	t := model.Transform{
		Translation: [3]float32{m[12], m[13], m[14]},
		Scale:       [3]float32{sx, sy, sz},
	}
	if sx < 1e-4 {
		sx = 1
	}
	if sy < 1e-4 {
		sy = 1
	}
	if sz < 1e-4 {
		sz = 1
	}

	// rotation rows, r[row][col]
	r00, r10, r20 := m[0]/sx, m[1]/sx, m[2]/sx
	r01, r11, r21 := m[4]/sy, m[5]/sy, m[6]/sy
	r02, r12, r22 := m[8]/sz, m[9]/sz, m[10]/sz

	var x, y, z, w float32
	switch trace := r00 + r11 + r22; {
	case trace > 0:
		s := float32(math.Sqrt(float64(trace+1))) * 2
		w, x, y, z = 0.25*s, (r21-r12)/s, (r02-r20)/s, (r10-r01)/s
	case r00 > r11 && r00 > r22:
		s := float32(math.Sqrt(float64(1+r00-r11-r22))) * 2
		w, x, y, z = (r21-r12)/s, 0.25*s, (r01+r10)/s, (r02+r20)/s
	case r11 > r22:
		s := float32(math.Sqrt(float64(1+r11-r00-r22))) * 2
		w, x, y, z = (r02-r20)/s, (r01+r10)/s, 0.25*s, (r12+r21)/s
	default:
		s := float32(math.Sqrt(float64(1+r22-r00-r11))) * 2
		w, x, y, z = (r10-r01)/s, (r02+r20)/s, (r12+r21)/s, 0.25*s
	}
	t.Rotation = common.QuatNormalize(common.Quat{x, y, z, w})
	return t
}

// gltfTopologicalSortBones orders bones breadth-first from the roots so parents precede children.
// Bones unreachable from a root are appended in their original order.
//
// Returns:
//   - *model.Skeleton: the reordered skeleton
//   - map[int32]int32: original bone index to sorted bone index
func gltfTopologicalSortBones(bones []model.Bone, roots []int32) (*model.Skeleton, map[int32]int32) {
	children := make(map[int32][]int32)
	for i, bone := range bones {
		if bone.ParentIndex >= 0 {
			children[bone.ParentIndex] = append(children[bone.ParentIndex], int32(i))
		}
	}

	order := make([]int32, 0, len(bones))
	visited := make([]bool, len(bones))
	queue := append([]int32(nil), roots...)
	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]
		if visited[idx] {
			continue
		}
		visited[idx] = true
		order = append(order, idx)
		queue = append(queue, children[idx]...)
	}
	for i := range bones {
		if !visited[i] {
			order = append(order, int32(i))
		}
	}

	oldToNew := make(map[int32]int32, len(order))
	for newIdx, oldIdx := range order {
		oldToNew[oldIdx] = int32(newIdx)
	}

	skeleton := &model.Skeleton{
		Bones:           make([]model.Bone, len(order)),
		BoneNameToIndex: make(map[string]int32, len(order)),
	}
	for newIdx, oldIdx := range order {
		bone := bones[oldIdx]
		if bone.ParentIndex >= 0 {
			bone.ParentIndex = oldToNew[bone.ParentIndex]
		} else {
			skeleton.RootBoneIndices = append(skeleton.RootBoneIndices, int32(newIdx))
		}
		skeleton.Bones[newIdx] = bone
		if _, dup := skeleton.BoneNameToIndex[bone.Name]; !dup {
			skeleton.BoneNameToIndex[bone.Name] = int32(newIdx)
		}
	}
	return skeleton, oldToNew
}
