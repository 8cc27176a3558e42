package model

// Transform represents a decomposed local transform for a bone or node.
type Transform struct {
	Translation [3]float32
	Rotation    [4]float32 // quaternion x, y, z, w
	Scale       [3]float32
}

// IdentityTransform returns a transform with no translation, no rotation and unit scale.
func IdentityTransform() Transform {
	return Transform{Rotation: [4]float32{0, 0, 0, 1}, Scale: [3]float32{1, 1, 1}}
}

// --- Skeleton ---

// Bone represents a single joint in a skeleton hierarchy.
type Bone struct {
	Name              string
	ParentIndex       int32 // -1 for root bones
	InverseBindMatrix [16]float32
	LocalTransform    Transform // bind pose
	// ParentWorld is the world matrix of the non-joint nodes above a root bone.
	// It is only read when ParentIndex is -1.
	ParentWorld [16]float32
}

// Skeleton holds bones sorted so that every parent precedes its children.
type Skeleton struct {
	Bones           []Bone
	RootBoneIndices []int32
	BoneNameToIndex map[string]int32
}

// BoneIndex returns the index of the named bone, or -1 when the skeleton has no such bone.
func (s *Skeleton) BoneIndex(name string) int32 {
	if s == nil {
		return -1
	}
	if idx, ok := s.BoneNameToIndex[name]; ok {
		return idx
	}
	return -1
}

// --- Animation ---

// VectorKeyframe is a timed translation or scale sample.
type VectorKeyframe struct {
	Time  float32
	Value [3]float32
}

// QuaternionKeyframe is a timed rotation sample.
type QuaternionKeyframe struct {
	Time  float32
	Value [4]float32
}

// AnimationChannel holds the keyframes that target one bone.
// BoneName is the binding key when a clip drives a different asset's skeleton.
type AnimationChannel struct {
	BoneIndex    int32
	BoneName     string
	PositionKeys []VectorKeyframe
	RotationKeys []QuaternionKeyframe
	ScaleKeys    []VectorKeyframe
}

// AnimationClip is a named animation playable against a skeleton.
type AnimationClip struct {
	Name     string
	Duration float32 // seconds
	Channels []AnimationChannel
}

// Clone returns a copy of the clip that can be renamed or retimed without touching the original.
// Keyframe data is shared since clips are never edited after import.
//
// Returns:
//   - *AnimationClip: the copy, or nil when the receiver is nil
func (c *AnimationClip) Clone() *AnimationClip {
	if c == nil {
		return nil
	}
	clone := *c
	clone.Channels = append([]AnimationChannel(nil), c.Channels...)
	return &clone
}

// --- Meshes ---

// ImportedMesh is one triangle primitive with optional skinning data.
type ImportedMesh struct {
	Name          string
	Positions     [][3]float32
	Normals       [][3]float32
	Joints        [][4]uint32  // skin joint indices, already remapped to skeleton bone indices
	Weights       [][4]float32 // matching skin weights
	Indices       []uint32
	MaterialIndex int
	BaseColor     [4]float32
	BoundingMin   [3]float32
	BoundingMax   [3]float32

	CastShadow    bool
	ReceiveShadow bool
}

// Skinned reports whether the mesh carries per-vertex joint influences.
func (m *ImportedMesh) Skinned() bool {
	return len(m.Joints) == len(m.Positions) && len(m.Weights) == len(m.Positions) && len(m.Positions) > 0
}

// ImportedMaterial is the subset of a glTF material the viewer shades with.
type ImportedMaterial struct {
	Name      string
	BaseColor [4]float32
}

// ImportedModel is the engine-neutral result of an import.
type ImportedModel struct {
	Name       string
	Source     string
	Meshes     []ImportedMesh
	Skeleton   *Skeleton
	Animations []*AnimationClip
	Materials  []ImportedMaterial
}
