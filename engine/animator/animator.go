package animator

import (
	"sync"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
)

// mixer is the implementation of the Mixer interface.
type mixer struct {
	mu       sync.Mutex
	skeleton *model.Skeleton

	actions []*action
	byClip  map[*model.AnimationClip]*action

	time  float32
	accum poseAccumulator
	world [][16]float32
	skin  [][16]float32

	skinWorkers int
	pool        worker.DynamicWorkerPool
	poolOnce    sync.Once
	taskID      int
}

// Mixer plays any number of clip actions against one skeleton and blends them by weight.
// Each Update advances running actions, samples them, and produces bone and skinning matrices.
type Mixer interface {
	// ClipAction returns the action bound to clip, creating it on first use.
	// Repeated calls with the same clip return the same action.
	//
	// Parameters:
	//   - clip: the clip to bind; channels are matched to bones by name
	//
	// Returns:
	//   - Action: the action for the clip, or nil when clip is nil
	ClipAction(clip *model.AnimationClip) Action

	// Update advances every running action and its fade by dt seconds, then recomputes the pose.
	//
	// Parameters:
	//   - dt: elapsed seconds, negative values are treated as zero
	Update(dt float32)

	// Time returns the total seconds the mixer has been advanced.
	Time() float32

	// Actions returns every action created so far, in creation order.
	Actions() []Action

	// Skeleton returns the skeleton actions are bound to.
	Skeleton() *model.Skeleton

	// Pose returns a copy of the local bone transforms from the last Update.
	Pose() []model.Transform

	// BoneMatrices returns a copy of the model-space bone matrices from the last Update.
	BoneMatrices() [][16]float32

	// SkinMatrices returns a copy of bone world times inverse bind matrices from the last Update.
	SkinMatrices() [][16]float32

	// Skin deforms a skinned mesh with the matrices from the last Update.
	// Vertices are split into chunks processed on the mixer's worker pool.
	//
	// Parameters:
	//   - mesh: a mesh with joints and weights indexing this mixer's skeleton
	//   - positions: destination for skinned positions, len(mesh.Positions)
	//   - normals: destination for skinned normals, len(mesh.Normals)
	Skin(mesh *model.ImportedMesh, positions, normals [][3]float32)
}

var _ Mixer = &mixer{}

// NewMixer creates a Mixer.
//
// Parameters:
//   - options: a variadic list of MixerBuilderOption functions
//
// Returns:
//   - Mixer: the mixer, holding the bind pose until an action plays
func NewMixer(options ...MixerBuilderOption) Mixer {
	m := &mixer{
		byClip:      make(map[*model.AnimationClip]*action),
		skinWorkers: 4,
	}
	for _, option := range options {
		option(m)
	}
	if m.skeleton == nil {
		m.skeleton = &model.Skeleton{BoneNameToIndex: map[string]int32{}}
	}
	m.computePose()
	return m
}

func (m *mixer) ClipAction(clip *model.AnimationClip) Action {
	if clip == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.byClip[clip]; ok {
		return a
	}
	a := newAction(clip, m.skeleton)
	m.byClip[clip] = a
	m.actions = append(m.actions, a)
	return a
}

func (m *mixer) Update(dt float32) {
	if dt < 0 {
		dt = 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.time += dt
	for _, a := range m.actions {
		a.advance(dt)
	}
	m.computePose()
}

func (m *mixer) Time() float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.time
}

func (m *mixer) Actions() []Action {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Action, len(m.actions))
	for i, a := range m.actions {
		out[i] = a
	}
	return out
}

func (m *mixer) Skeleton() *model.Skeleton {
	return m.skeleton
}

func (m *mixer) Pose() []model.Transform {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Transform(nil), m.accum.pose...)
}

func (m *mixer) BoneMatrices() [][16]float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][16]float32(nil), m.world...)
}

func (m *mixer) SkinMatrices() [][16]float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][16]float32(nil), m.skin...)
}

// computePose blends running actions into local transforms, then resolves world and skin matrices.
// Callers hold m.mu.
func (m *mixer) computePose() {
	bones := m.skeleton.Bones
	m.accum.reset(len(bones))
	for _, a := range m.actions {
		if !a.running || a.weight <= 0 {
			continue
		}
		m.accum.add(a, a.weight)
	}
	m.accum.finish(m.skeleton)

	if len(m.world) != len(bones) {
		m.world = make([][16]float32, len(bones))
		m.skin = make([][16]float32, len(bones))
	}

	var local [16]float32
	for i := range bones {
		bone := &bones[i]
		t := m.accum.pose[i]
		common.ComposeTRS(local[:], t.Translation, t.Rotation, t.Scale)

		// bones are stored parents first
		switch {
		case bone.ParentIndex >= 0:
			common.Mul4(m.world[i][:], m.world[bone.ParentIndex][:], local[:])
		case bone.ParentWorld == [16]float32{}:
			m.world[i] = local
		default:
			common.Mul4(m.world[i][:], bone.ParentWorld[:], local[:])
		}
		common.Mul4(m.skin[i][:], m.world[i][:], bone.InverseBindMatrix[:])
	}
}
