package action

import (
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-viewer/engine/animator"
	"github.com/Carmen-Shannon/oxy-viewer/engine/clipset"
)

// DefaultFadeDuration is the crossfade length in seconds.
const DefaultFadeDuration float32 = 0.5

// driver is the implementation of the Driver interface.
type driver struct {
	mu        sync.Mutex
	mixer     animator.Mixer
	set       clipset.ClipSet
	current   animator.Action
	requested string
	fade      float32
}

// Driver turns requested action names into crossfades on a mixer.
// At most one action is driving the character; the one it replaced may still be fading out.
type Driver interface {
	// Load installs a new clip set and starts the initial action chosen by InitialAction.
	//
	// Parameters:
	//   - set: the aggregated clips
	//   - requested: the action requested before the clips were available
	//
	// Returns:
	//   - string: the action name now requested, empty when set has no clips
	//   - error: clipset.ErrEmptyClipSet when set is empty
	Load(set clipset.ClipSet, requested string) (string, error)

	// Request resolves name and crossfades to it.
	// Resolving to the clip already driving the character does nothing. On ErrActionNotFound
	// the playback state is left untouched.
	//
	// Parameters:
	//   - name: the requested action
	//
	// Returns:
	//   - error: ErrActionNotFound wrapped with the name
	Request(name string) error

	// Requested returns the last requested name, whether or not it resolved.
	Requested() string

	// Current returns the action driving the character, or nil before the first transition.
	Current() animator.Action

	// CurrentName returns the name of the clip driving the character, or "".
	CurrentName() string

	// ClipSet returns the installed clip set, or nil before Load.
	ClipSet() clipset.ClipSet
}

var _ Driver = &driver{}

// NewDriver creates a Driver that plays clips through mixer.
//
// Parameters:
//   - mixer: the character's animation mixer
//   - options: a variadic list of DriverBuilderOption functions
//
// Returns:
//   - Driver: the driver
func NewDriver(mixer animator.Mixer, options ...DriverBuilderOption) Driver {
	d := &driver{
		mixer: mixer,
		fade:  DefaultFadeDuration,
	}
	for _, option := range options {
		option(d)
	}
	return d
}

func (d *driver) Load(set clipset.ClipSet, requested string) (string, error) {
	d.mu.Lock()
	d.set = set
	d.mu.Unlock()

	if set == nil || set.Len() == 0 {
		return "", clipset.ErrEmptyClipSet
	}
	log.Printf("Found combined animations: %q", set.Names())

	initial := InitialAction(set.Names(), requested)
	if err := d.Request(initial); err != nil {
		return "", err
	}
	return initial, nil
}

func (d *driver) Request(name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.requested = name

	clip, err := Resolve(d.set, name)
	if err != nil {
		log.Printf("Action not found: %s", name)
		return err
	}

	next := d.mixer.ClipAction(clip)
	if next == d.current && next.IsRunning() {
		return nil
	}

	next.Reset().SetLoop(true).FadeIn(d.fade).Play()
	if d.current != nil && d.current != next {
		d.current.FadeOut(d.fade)
	}
	d.current = next
	log.Printf("Playing: %s", clip.Name)
	return nil
}

func (d *driver) Requested() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.requested
}

func (d *driver) Current() animator.Action {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

func (d *driver) CurrentName() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.current == nil {
		return ""
	}
	return d.current.Clip().Name
}

func (d *driver) ClipSet() clipset.ClipSet {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.set
}
