package action

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-viewer/engine/clipset"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
)

// ErrActionNotFound is returned when a requested name matches no clip exactly or by substring.
var ErrActionNotFound = errors.New("action not found")

// Resolve finds the clip for a requested action name.
// An exact, case-sensitive match wins; otherwise the first clip in set order whose name
// contains name, ignoring case, is returned.
//
// Parameters:
//   - set: the aggregated clips, may be nil
//   - name: the requested action name
//
// Returns:
//   - *model.AnimationClip: the matched clip
//   - error: ErrActionNotFound wrapped with the name
func Resolve(set clipset.ClipSet, name string) (*model.AnimationClip, error) {
	if set != nil {
		if clip := set.Find(name); clip != nil {
			return clip, nil
		}
		if clip := set.FindFold(name); clip != nil {
			return clip, nil
		}
	}
	return nil, fmt.Errorf("%q: %w", name, ErrActionNotFound)
}

// InitialAction picks the action to start with once clips are available.
// requested is kept when it is one of names. Otherwise the first name containing "idle",
// ignoring case, is chosen, falling back to the first name.
//
// Parameters:
//   - names: available action names in set order
//   - requested: the current requested action
//
// Returns:
//   - string: the action to request, empty when names is empty
func InitialAction(names []string, requested string) string {
	if len(names) == 0 {
		return ""
	}
	for _, n := range names {
		if n == requested {
			return requested
		}
	}
	for _, n := range names {
		if strings.Contains(strings.ToLower(n), "idle") {
			return n
		}
	}
	return names[0]
}
