package loader

import (
	"fmt"
	"sort"

	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
)

// gltfAnimationExtractorImpl is the implementation of the gltfAnimationExtractor interface.
type gltfAnimationExtractorImpl struct {
	parser gltfParser
}

// gltfAnimationExtractor converts glTF animations into engine clips.
// Channels are keyed by target node name so a clip can be bound to any skeleton that shares
// the naming, which is how animation-only assets drive the base character.
type gltfAnimationExtractor interface {
	// ExtractAnimation extracts one animation.
	//
	// Parameters:
	//   - animIndex: index into the document's animations
	//   - nodeToBone: glTF node index to local bone index; nodes absent from it get BoneIndex -1
	//
	// Returns:
	//   - *model.AnimationClip: the clip, named "animation_<i>" when the source is unnamed
	//   - error: when accessors are malformed
	ExtractAnimation(animIndex int, nodeToBone map[int]int32) (*model.AnimationClip, error)

	// ExtractAllAnimations extracts every animation in document order.
	ExtractAllAnimations(nodeToBone map[int]int32) ([]*model.AnimationClip, error)
}

var _ gltfAnimationExtractor = &gltfAnimationExtractorImpl{}

func newGLTFAnimationExtractor(parser gltfParser) gltfAnimationExtractor {
	return &gltfAnimationExtractorImpl{parser: parser}
}

func (e *gltfAnimationExtractorImpl) ExtractAllAnimations(nodeToBone map[int]int32) ([]*model.AnimationClip, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, fmt.Errorf("no document loaded")
	}
	clips := make([]*model.AnimationClip, 0, len(doc.Animations))
	for i := range doc.Animations {
		clip, err := e.ExtractAnimation(i, nodeToBone)
		if err != nil {
			return nil, fmt.Errorf("animation %d: %w", i, err)
		}
		clips = append(clips, clip)
	}
	return clips, nil
}

func (e *gltfAnimationExtractorImpl) ExtractAnimation(animIndex int, nodeToBone map[int]int32) (*model.AnimationClip, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, fmt.Errorf("no document loaded")
	}
	if animIndex < 0 || animIndex >= len(doc.Animations) {
		return nil, fmt.Errorf("animation index %d out of range", animIndex)
	}
	anim := &doc.Animations[animIndex]

	byNode := make(map[int]*model.AnimationChannel)
	var duration float32

	for i := range anim.Channels {
		ch := &anim.Channels[i]
		if ch.Target.Node == nil || *ch.Target.Node < 0 || *ch.Target.Node >= len(doc.Nodes) {
			continue
		}
		switch ch.Target.Path {
		case gltfAnimPathTranslation, gltfAnimPathRotation, gltfAnimPathScale:
		default:
			// morph target weights do not affect the skeleton
			continue
		}
		if ch.Sampler < 0 || ch.Sampler >= len(anim.Samplers) {
			return nil, fmt.Errorf("animation %q channel %d: invalid sampler index %d", anim.Name, i, ch.Sampler)
		}
		sampler := &anim.Samplers[ch.Sampler]

		times, err := e.parser.ReadScalarAccessor(sampler.Input)
		if err != nil {
			return nil, fmt.Errorf("animation %q channel %d: failed to read timestamps: %w", anim.Name, i, err)
		}
		if n := len(times); n > 0 && times[n-1] > duration {
			duration = times[n-1]
		}

		nodeIdx := *ch.Target.Node
		out, ok := byNode[nodeIdx]
		if !ok {
			boneIdx, mapped := nodeToBone[nodeIdx]
			if !mapped {
				boneIdx = -1
			}
			out = &model.AnimationChannel{BoneIndex: boneIdx, BoneName: gltfNodeName(doc, nodeIdx)}
			byNode[nodeIdx] = out
		}

		// cubic spline outputs hold (in-tangent, value, out-tangent) triplets; keep the values
		cubic := sampler.Interpolation == gltfInterpolationCubic
		if ch.Target.Path == gltfAnimPathRotation {
			values, err := e.parser.ReadVec4Accessor(sampler.Output)
			if err != nil {
				return nil, fmt.Errorf("animation %q channel %d: failed to read rotation values: %w", anim.Name, i, err)
			}
			values = gltfSplineValues(values, cubic)
			keys := make([]model.QuaternionKeyframe, min(len(times), len(values)))
			for j := range keys {
				keys[j] = model.QuaternionKeyframe{Time: times[j], Value: values[j]}
			}
			out.RotationKeys = keys
			continue
		}

		values, err := e.parser.ReadVec3Accessor(sampler.Output)
		if err != nil {
			return nil, fmt.Errorf("animation %q channel %d: failed to read %s values: %w", anim.Name, i, ch.Target.Path, err)
		}
		values = gltfSplineValues(values, cubic)
		keys := make([]model.VectorKeyframe, min(len(times), len(values)))
		for j := range keys {
			keys[j] = model.VectorKeyframe{Time: times[j], Value: values[j]}
		}
		if ch.Target.Path == gltfAnimPathTranslation {
			out.PositionKeys = keys
		} else {
			out.ScaleKeys = keys
		}
	}

	nodes := make([]int, 0, len(byNode))
	for nodeIdx := range byNode {
		nodes = append(nodes, nodeIdx)
	}
	sort.Ints(nodes)

	channels := make([]model.AnimationChannel, len(nodes))
	for i, nodeIdx := range nodes {
		channels[i] = *byNode[nodeIdx]
	}

	name := anim.Name
	if name == "" {
		name = fmt.Sprintf("animation_%d", animIndex)
	}

	return &model.AnimationClip{
		Name:     name,
		Duration: duration,
		Channels: channels,
	}, nil
}

func gltfSplineValues[T any](values []T, cubic bool) []T {
	if !cubic {
		return values
	}
	out := make([]T, 0, len(values)/3)
	for i := 1; i < len(values); i += 3 {
		out = append(out, values[i])
	}
	return out
}
