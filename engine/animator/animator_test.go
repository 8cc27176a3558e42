package animator

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func nearVec(a, b [3]float32) bool {
	return near(a[0], b[0]) && near(a[1], b[1]) && near(a[2], b[2])
}

// testSkeleton is Hips at y=1 with Spine one unit above it.
func testSkeleton() *model.Skeleton {
	identity := [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
	hips := model.Transform{Translation: [3]float32{0, 1, 0}, Rotation: [4]float32{0, 0, 0, 1}, Scale: [3]float32{1, 1, 1}}
	spine := hips
	return &model.Skeleton{
		Bones: []model.Bone{
			{Name: "Hips", ParentIndex: -1, InverseBindMatrix: identity, LocalTransform: hips},
			{Name: "Spine", ParentIndex: 0, InverseBindMatrix: identity, LocalTransform: spine},
		},
		RootBoneIndices: []int32{0},
		BoneNameToIndex: map[string]int32{"Hips": 0, "Spine": 1},
	}
}

// slideClip moves Hips from the origin to x=2 over one second.
func slideClip(name string) *model.AnimationClip {
	return &model.AnimationClip{
		Name:     name,
		Duration: 1,
		Channels: []model.AnimationChannel{{
			BoneIndex: 7,
			BoneName:  "Hips",
			PositionKeys: []model.VectorKeyframe{
				{Time: 0, Value: [3]float32{0, 0, 0}},
				{Time: 1, Value: [3]float32{2, 0, 0}},
			},
		}},
	}
}

func translation(m [16]float32) [3]float32 {
	return [3]float32{m[12], m[13], m[14]}
}

func TestMixerBindPose(t *testing.T) {
	m := NewMixer(WithSkeleton(testSkeleton()))
	world := m.BoneMatrices()
	if len(world) != 2 {
		t.Fatalf("len(BoneMatrices()) = %d, want 2", len(world))
	}
	if got, want := translation(world[1]), [3]float32{0, 2, 0}; !nearVec(got, want) {
		t.Errorf("Spine world translation = %v, want %v", got, want)
	}
}

func TestMixerClipActionIsCached(t *testing.T) {
	m := NewMixer(WithSkeleton(testSkeleton()))
	clip := slideClip("Walk")
	if m.ClipAction(clip) != m.ClipAction(clip) {
		t.Error("ClipAction returned different actions for the same clip")
	}
	if m.ClipAction(nil) != nil {
		t.Error("ClipAction(nil) should return nil")
	}
	if len(m.Actions()) != 1 {
		t.Errorf("len(Actions()) = %d, want 1", len(m.Actions()))
	}
}

func TestMixerSamplesByBoneName(t *testing.T) {
	tests := []struct {
		name string
		dt   []float32
		loop bool
		want [3]float32
	}{
		{"midpoint", []float32{0.5}, true, [3]float32{1, 0, 0}},
		{"wraps when looping", []float32{1.25}, true, [3]float32{0.5, 0, 0}},
		{"clamps when not looping", []float32{0.75, 0.75}, false, [3]float32{2, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMixer(WithSkeleton(testSkeleton()))
			m.ClipAction(slideClip("Walk")).SetLoop(tt.loop).Play()
			for _, dt := range tt.dt {
				m.Update(dt)
			}
			if got := m.Pose()[0].Translation; !nearVec(got, tt.want) {
				t.Errorf("Hips translation = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMixerBlendsWithBindPose(t *testing.T) {
	hold := &model.AnimationClip{
		Name:     "Hold",
		Duration: 1,
		Channels: []model.AnimationChannel{{
			BoneName:     "Hips",
			PositionKeys: []model.VectorKeyframe{{Time: 0, Value: [3]float32{2, 0, 0}}},
		}},
	}
	m := NewMixer(WithSkeleton(testSkeleton()))
	a := m.ClipAction(hold).Reset().FadeIn(1).Play()
	m.Update(0.5)

	if !near(a.Weight(), 0.5) {
		t.Fatalf("Weight() = %v, want 0.5", a.Weight())
	}
	if got, want := m.Pose()[0].Translation, [3]float32{1, 0.5, 0}; !nearVec(got, want) {
		t.Errorf("Hips translation = %v, want %v", got, want)
	}
}

func TestActionFades(t *testing.T) {
	m := NewMixer(WithSkeleton(testSkeleton()))
	in := m.ClipAction(slideClip("Walk")).Reset().FadeIn(0.5).Play()
	out := m.ClipAction(slideClip("Run")).Play()

	if in.Weight() != 0 {
		t.Errorf("FadeIn start weight = %v, want 0", in.Weight())
	}
	out.FadeOut(0.5)
	if !out.IsFading() {
		t.Error("FadeOut should start a fade")
	}

	m.Update(0.25)
	if !near(in.Weight(), 0.5) || !near(out.Weight(), 0.5) {
		t.Errorf("weights at 0.25s = %v, %v, want 0.5, 0.5", in.Weight(), out.Weight())
	}

	m.Update(0.25)
	if !near(in.Weight(), 1) || in.IsFading() {
		t.Errorf("fade in ended at weight %v fading=%v, want 1 false", in.Weight(), in.IsFading())
	}
	if out.IsRunning() || out.Weight() != 0 || out.Time() != 0 {
		t.Errorf("faded out action running=%v weight=%v time=%v, want stopped", out.IsRunning(), out.Weight(), out.Time())
	}
	if !in.IsRunning() {
		t.Error("faded in action should keep running")
	}
}

func TestActionFadeOutFromPartialWeight(t *testing.T) {
	m := NewMixer(WithSkeleton(testSkeleton()))
	a := m.ClipAction(slideClip("Walk")).Reset().FadeIn(1).Play()
	m.Update(0.5)
	a.FadeOut(1)
	m.Update(0.5)
	if !near(a.Weight(), 0.25) {
		t.Errorf("Weight() = %v, want 0.25", a.Weight())
	}
}

func TestActionResetKeepsRunning(t *testing.T) {
	m := NewMixer(WithSkeleton(testSkeleton()))
	a := m.ClipAction(slideClip("Walk")).Play()
	m.Update(0.3)
	a.Reset()
	if a.Time() != 0 || a.Weight() != 1 || !a.IsRunning() {
		t.Errorf("after Reset time=%v weight=%v running=%v", a.Time(), a.Weight(), a.IsRunning())
	}
}

func TestUnboundChannelIsIgnored(t *testing.T) {
	clip := &model.AnimationClip{
		Name:     "Tail",
		Duration: 1,
		Channels: []model.AnimationChannel{{
			BoneIndex:    0,
			BoneName:     "Tail",
			PositionKeys: []model.VectorKeyframe{{Time: 0, Value: [3]float32{9, 9, 9}}},
		}},
	}
	m := NewMixer(WithSkeleton(testSkeleton()))
	m.ClipAction(clip).Play()
	m.Update(0.1)
	if got, want := m.Pose()[0].Translation, [3]float32{0, 1, 0}; !nearVec(got, want) {
		t.Errorf("Hips translation = %v, want bind %v", got, want)
	}
}

func TestSkin(t *testing.T) {
	for _, count := range []int{1, 3*skinChunkSize + 5} {
		mesh := &model.ImportedMesh{
			Positions: make([][3]float32, count),
			Normals:   make([][3]float32, count),
			Joints:    make([][4]uint32, count),
			Weights:   make([][4]float32, count),
		}
		for i := range mesh.Positions {
			mesh.Positions[i] = [3]float32{float32(i), 0, 0}
			mesh.Normals[i] = [3]float32{0, 0, 1}
			mesh.Joints[i] = [4]uint32{1, 0, 0, 0}
			mesh.Weights[i] = [4]float32{1, 0, 0, 0}
		}

		m := NewMixer(WithSkeleton(testSkeleton()), WithSkinWorkers(2))
		positions := make([][3]float32, count)
		normals := make([][3]float32, count)
		m.Skin(mesh, positions, normals)

		last := count - 1
		if got, want := positions[last], [3]float32{float32(last), 2, 0}; !nearVec(got, want) {
			t.Errorf("Skin(%d vertices) last position = %v, want %v", count, got, want)
		}
		if got, want := normals[0], [3]float32{0, 0, 1}; !nearVec(got, want) {
			t.Errorf("Skin(%d vertices) normal = %v, want %v", count, got, want)
		}
	}
}

func TestSampleRotationClamps(t *testing.T) {
	s := float32(math.Sqrt2 / 2)
	keys := []model.QuaternionKeyframe{
		{Time: 1, Value: [4]float32{0, 0, 0, 1}},
		{Time: 2, Value: [4]float32{0, s, 0, s}},
	}
	tests := []struct {
		t    float32
		want [4]float32
	}{
		{0, [4]float32{0, 0, 0, 1}},
		{3, [4]float32{0, s, 0, s}},
	}
	for _, tt := range tests {
		got := sampleRotation(keys, tt.t)
		for i := range got {
			if !near(got[i], tt.want[i]) {
				t.Errorf("sampleRotation(%v) = %v, want %v", tt.t, got, tt.want)
				break
			}
		}
	}
}
