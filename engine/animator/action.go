package animator

import (
	"math"

	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// action is the implementation of the Action interface.
type action struct {
	clip    *model.AnimationClip
	binding []int32 // bone index per clip channel, -1 when the bone is absent

	time    float32
	weight  float32
	loop    bool
	running bool

	fade          *gween.Tween
	stopAfterFade bool
}

// Action is one clip bound to a mixer's skeleton, carrying its own play time and weight.
// Mutators return the action so calls can be chained: a.Reset().FadeIn(0.5).Play().
type Action interface {
	// Clip returns the bound clip.
	Clip() *model.AnimationClip

	// Reset rewinds to time zero, restores full weight and abandons any in-flight fade.
	Reset() Action

	// Play marks the action as running. The mixer advances and samples only running actions.
	Play() Action

	// Stop deactivates the action: not running, time zero, weight zero, no fade.
	Stop() Action

	// FadeIn tweens the weight from 0 to 1 over duration seconds, replacing any current fade.
	FadeIn(duration float32) Action

	// FadeOut tweens the weight from its current value to 0 over duration seconds,
	// replacing any current fade. The action stops once the fade completes.
	FadeOut(duration float32) Action

	// SetLoop selects looping (time wraps at the clip duration) or clamped playback.
	SetLoop(loop bool) Action

	// Time returns the local play time in seconds.
	Time() float32

	// Weight returns the current blend weight in [0, 1].
	Weight() float32

	// IsRunning reports whether the action is being advanced and sampled.
	IsRunning() bool

	// IsFading reports whether a fade is in flight.
	IsFading() bool
}

var _ Action = &action{}

func newAction(clip *model.AnimationClip, skeleton *model.Skeleton) *action {
	a := &action{clip: clip, weight: 1, loop: true}
	a.binding = make([]int32, len(clip.Channels))
	for i, ch := range clip.Channels {
		a.binding[i] = bindChannel(ch, skeleton)
	}
	return a
}

// bindChannel resolves a channel to a bone by name, falling back to the index for unnamed channels.
func bindChannel(ch model.AnimationChannel, skeleton *model.Skeleton) int32 {
	if skeleton == nil {
		return -1
	}
	if ch.BoneName != "" {
		return skeleton.BoneIndex(ch.BoneName)
	}
	if ch.BoneIndex >= 0 && int(ch.BoneIndex) < len(skeleton.Bones) {
		return ch.BoneIndex
	}
	return -1
}

func (a *action) Clip() *model.AnimationClip {
	return a.clip
}

func (a *action) Reset() Action {
	a.time = 0
	a.weight = 1
	a.fade = nil
	a.stopAfterFade = false
	return a
}

func (a *action) Play() Action {
	a.running = true
	return a
}

func (a *action) Stop() Action {
	a.running = false
	a.time = 0
	a.weight = 0
	a.fade = nil
	a.stopAfterFade = false
	return a
}

func (a *action) FadeIn(duration float32) Action {
	a.stopAfterFade = false
	if duration <= 0 {
		a.fade = nil
		a.weight = 1
		return a
	}
	a.weight = 0
	a.fade = gween.New(0, 1, duration, ease.Linear)
	return a
}

func (a *action) FadeOut(duration float32) Action {
	if duration <= 0 {
		return a.Stop()
	}
	a.fade = gween.New(a.weight, 0, duration, ease.Linear)
	a.stopAfterFade = true
	return a
}

func (a *action) SetLoop(loop bool) Action {
	a.loop = loop
	return a
}

func (a *action) Time() float32 {
	return a.time
}

func (a *action) Weight() float32 {
	return a.weight
}

func (a *action) IsRunning() bool {
	return a.running
}

func (a *action) IsFading() bool {
	return a.fade != nil
}

// advance moves play time and the fade tween forward by dt seconds.
func (a *action) advance(dt float32) {
	if !a.running {
		return
	}

	a.time += dt
	if d := a.clip.Duration; d > 0 {
		if a.loop {
			a.time = float32(math.Mod(float64(a.time), float64(d)))
		} else if a.time > d {
			a.time = d
		}
	}

	if a.fade != nil {
		value, finished := a.fade.Update(dt)
		a.weight = value
		if finished {
			a.fade = nil
			if a.stopAfterFade {
				a.Stop()
			}
		}
	}
}
