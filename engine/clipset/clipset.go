package clipset

import (
	"errors"
	"strings"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
)

const (
	// DefaultExporterName is the clip name Mixamo writes when a clip is left unnamed.
	DefaultExporterName = "mixamo.com"

	// BaseIdleLabel replaces DefaultExporterName on the base asset's clips.
	BaseIdleLabel = "Base_Idle"
)

// ErrEmptyClipSet is returned when aggregation produces no clips at all.
var ErrEmptyClipSet = errors.New("aggregated clip set is empty")

// clipSet is the implementation of the ClipSet interface.
type clipSet struct {
	clips []*model.AnimationClip
}

// ClipSet is the ordered, read-only collection of playable clips built from a base asset and
// its auxiliary animation assets. Names are not deduplicated; lookups return the first match.
type ClipSet interface {
	// Clips returns the clips in aggregation order. The slice is a copy; the clips are shared.
	Clips() []*model.AnimationClip

	// Names returns the clip names in aggregation order.
	Names() []string

	// Len returns the number of clips.
	Len() int

	// At returns the clip at index i, or nil when i is out of range.
	At(i int) *model.AnimationClip

	// Find returns the first clip named exactly name, or nil.
	Find(name string) *model.AnimationClip

	// FindFold returns the first clip whose name contains substr, ignoring case, or nil.
	FindFold(substr string) *model.AnimationClip
}

var _ ClipSet = &clipSet{}

// Aggregate builds the clip set for one character load.
// Base clips come first in their own order, with DefaultExporterName renamed to the idle label.
// Each auxiliary asset then contributes its clips in load order; the first clip of an asset is
// renamed after the asset's file stem and any further clips keep their own names.
// Source clips are never modified: renamed clips are clones.
// Every mesh of the base asset is switched to cast and receive shadows.
//
// Parameters:
//   - base: the asset supplying the visible mesh, may be nil
//   - auxiliary: animation-only assets in load order, nil entries are skipped
//   - options: a variadic list of AggregateOption functions
//
// Returns:
//   - ClipSet: the aggregated clips, never nil
//   - error: ErrEmptyClipSet when no asset contributed a clip
func Aggregate(base model.Model, auxiliary []model.Model, options ...AggregateOption) (ClipSet, error) {
	opts := aggregateOptions{
		placeholder: DefaultExporterName,
		idleLabel:   BaseIdleLabel,
	}
	for _, option := range options {
		option(&opts)
	}

	set := &clipSet{}
	if base != nil {
		base.SetShadows(true, true)
		for _, clip := range base.Animations() {
			if clip == nil {
				continue
			}
			if clip.Name == opts.placeholder {
				clip = renamed(clip, opts.idleLabel)
			}
			set.clips = append(set.clips, clip)
		}
	}

	for _, asset := range auxiliary {
		if asset == nil {
			continue
		}
		stem := common.Coalesce(common.FileStem(asset.Source()), asset.Name())
		for i, clip := range asset.Animations() {
			if clip == nil {
				continue
			}
			if i == 0 && stem != "" {
				clip = renamed(clip, stem)
			}
			set.clips = append(set.clips, clip)
		}
	}

	if len(set.clips) == 0 {
		return set, ErrEmptyClipSet
	}
	return set, nil
}

func renamed(clip *model.AnimationClip, name string) *model.AnimationClip {
	c := clip.Clone()
	c.Name = name
	return c
}

func (s *clipSet) Clips() []*model.AnimationClip {
	return append([]*model.AnimationClip(nil), s.clips...)
}

func (s *clipSet) Names() []string {
	names := make([]string, len(s.clips))
	for i, c := range s.clips {
		names[i] = c.Name
	}
	return names
}

func (s *clipSet) Len() int {
	return len(s.clips)
}

func (s *clipSet) At(i int) *model.AnimationClip {
	if i < 0 || i >= len(s.clips) {
		return nil
	}
	return s.clips[i]
}

func (s *clipSet) Find(name string) *model.AnimationClip {
	for _, c := range s.clips {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (s *clipSet) FindFold(substr string) *model.AnimationClip {
	needle := strings.ToLower(substr)
	for _, c := range s.clips {
		if strings.Contains(strings.ToLower(c.Name), needle) {
			return c
		}
	}
	return nil
}
