package animator

import (
	"sort"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
)

// sampleVector linearly interpolates a vector track at time t, clamping outside the key range.
func sampleVector(keys []model.VectorKeyframe, t float32) [3]float32 {
	n := len(keys)
	i := sort.Search(n, func(i int) bool { return keys[i].Time > t })
	switch {
	case i == 0:
		return keys[0].Value
	case i == n:
		return keys[n-1].Value
	}
	a, b := keys[i-1], keys[i]
	return common.Lerp3(a.Value, b.Value, segment(a.Time, b.Time, t))
}

// sampleRotation spherically interpolates a rotation track at time t.
func sampleRotation(keys []model.QuaternionKeyframe, t float32) [4]float32 {
	n := len(keys)
	i := sort.Search(n, func(i int) bool { return keys[i].Time > t })
	switch {
	case i == 0:
		return keys[0].Value
	case i == n:
		return keys[n-1].Value
	}
	a, b := keys[i-1], keys[i]
	return common.QuatSlerp(a.Value, b.Value, segment(a.Time, b.Time, t))
}

func segment(start, end, t float32) float32 {
	if end <= start {
		return 0
	}
	return (t - start) / (end - start)
}

// poseAccumulator blends weighted samples per bone and component.
type poseAccumulator struct {
	pose             []model.Transform
	accT, accR, accS []float32
}

func (p *poseAccumulator) reset(boneCount int) {
	if cap(p.pose) < boneCount {
		p.pose = make([]model.Transform, boneCount)
		p.accT = make([]float32, boneCount)
		p.accR = make([]float32, boneCount)
		p.accS = make([]float32, boneCount)
	}
	p.pose = p.pose[:boneCount]
	p.accT, p.accR, p.accS = p.accT[:boneCount], p.accR[:boneCount], p.accS[:boneCount]
	clear(p.accT)
	clear(p.accR)
	clear(p.accS)
}

// add folds one running action into the pose with weight w.
func (p *poseAccumulator) add(a *action, w float32) {
	for ci := range a.clip.Channels {
		bone := a.binding[ci]
		if bone < 0 || int(bone) >= len(p.pose) {
			continue
		}
		ch := &a.clip.Channels[ci]
		if len(ch.PositionKeys) > 0 {
			mixVector(&p.pose[bone].Translation, &p.accT[bone], sampleVector(ch.PositionKeys, a.time), w)
		}
		if len(ch.RotationKeys) > 0 {
			v := sampleRotation(ch.RotationKeys, a.time)
			if p.accR[bone] == 0 {
				p.pose[bone].Rotation = v
			} else {
				p.pose[bone].Rotation = common.QuatSlerp(p.pose[bone].Rotation, v, w/(p.accR[bone]+w))
			}
			p.accR[bone] += w
		}
		if len(ch.ScaleKeys) > 0 {
			mixVector(&p.pose[bone].Scale, &p.accS[bone], sampleVector(ch.ScaleKeys, a.time), w)
		}
	}
}

func mixVector(dst *[3]float32, acc *float32, v [3]float32, w float32) {
	if *acc == 0 {
		*dst = v
	} else {
		*dst = common.Lerp3(*dst, v, w/(*acc+w))
	}
	*acc += w
}

// finish fills whatever weight is missing below 1 with the bind pose.
func (p *poseAccumulator) finish(skeleton *model.Skeleton) {
	for i := range p.pose {
		bind := skeleton.Bones[i].LocalTransform
		pose := &p.pose[i]
		pose.Translation = blendBind(bind.Translation, pose.Translation, p.accT[i])
		if p.accR[i] == 0 {
			pose.Rotation = bind.Rotation
		} else if p.accR[i] < 1 {
			pose.Rotation = common.QuatSlerp(bind.Rotation, pose.Rotation, p.accR[i])
		}
		pose.Scale = blendBind(bind.Scale, pose.Scale, p.accS[i])
	}
}

func blendBind(bind, sampled [3]float32, weight float32) [3]float32 {
	switch {
	case weight <= 0:
		return bind
	case weight >= 1:
		return sampled
	}
	return common.Lerp3(bind, sampled, weight)
}
