package model

import "testing"

func TestCloneLeavesOriginalUntouched(t *testing.T) {
	orig := &AnimationClip{
		Name:     "mixamo.com",
		Duration: 1.5,
		Channels: []AnimationChannel{{BoneName: "Hips"}},
	}

	clone := orig.Clone()
	clone.Name = "Jogging"
	clone.Channels[0].BoneName = "Spine"

	if orig.Name != "mixamo.com" {
		t.Errorf("original Name = %q, want %q", orig.Name, "mixamo.com")
	}
	if orig.Channels[0].BoneName != "Hips" {
		t.Errorf("original channel BoneName = %q, want %q", orig.Channels[0].BoneName, "Hips")
	}
	if clone.Duration != orig.Duration {
		t.Errorf("clone Duration = %v, want %v", clone.Duration, orig.Duration)
	}
}

func TestCloneNil(t *testing.T) {
	var c *AnimationClip
	if got := c.Clone(); got != nil {
		t.Errorf("nil.Clone() = %v, want nil", got)
	}
}

func TestSetShadows(t *testing.T) {
	meshes := []ImportedMesh{{Name: "Body"}, {Name: "Joints"}}
	m := NewModel(WithName("X-Bot"), WithMeshes(meshes))

	m.SetShadows(true, true)

	for _, mesh := range m.Meshes() {
		if !mesh.CastShadow || !mesh.ReceiveShadow {
			t.Errorf("mesh %q shadows = (%v, %v), want (true, true)", mesh.Name, mesh.CastShadow, mesh.ReceiveShadow)
		}
	}
	if meshes[0].CastShadow {
		t.Error("SetShadows mutated the caller's mesh slice")
	}
}

func TestAnimationLookup(t *testing.T) {
	m := NewModel(WithAnimations([]*AnimationClip{{Name: "Idle"}, {Name: "Walk"}, {Name: "Walk"}}))

	tests := []struct {
		name string
		want int
	}{
		{"Idle", 0},
		{"Walk", 1},
		{"walk", -1},
		{"Run", -1},
	}
	for _, tt := range tests {
		if got := m.GetAnimationIndex(tt.name); got != tt.want {
			t.Errorf("GetAnimationIndex(%q) = %d, want %d", tt.name, got, tt.want)
		}
	}
	if got := m.AnimationNames(); len(got) != 3 || got[2] != "Walk" {
		t.Errorf("AnimationNames() = %v, want [Idle Walk Walk]", got)
	}
}

func TestSkeletonBoneIndex(t *testing.T) {
	s := &Skeleton{BoneNameToIndex: map[string]int32{"Hips": 0, "Spine": 1}}
	if got := s.BoneIndex("Spine"); got != 1 {
		t.Errorf("BoneIndex(%q) = %d, want 1", "Spine", got)
	}
	if got := s.BoneIndex("Head"); got != -1 {
		t.Errorf("BoneIndex(%q) = %d, want -1", "Head", got)
	}
	var nilSkel *Skeleton
	if got := nilSkel.BoneIndex("Hips"); got != -1 {
		t.Errorf("nil.BoneIndex = %d, want -1", got)
	}
}
