package overlay

import (
	"fmt"
	"io"
	"log"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/controller"
	"github.com/Carmen-Shannon/oxy-viewer/engine/store"
	"github.com/Carmen-Shannon/oxy-viewer/engine/window"
)

// DefaultHeader is the panel heading and window title prefix.
const DefaultHeader = "Robot Controller"

// LoadingText is shown in place of the action list until clips are published.
const LoadingText = "Loading animations..."

const (
	intensityStep  float32 = 0.1
	maxAmbient     float32 = 2
	maxDirectional float32 = 3
)

// TitleSetter receives the window title; window.Window satisfies it.
type TitleSetter interface {
	SetTitle(title string)
}

// overlay is the implementation of the Overlay interface.
type overlay struct {
	mu        sync.Mutex
	store     store.Store
	header    string
	clipboard Clipboard
	out       io.Writer
	title     TitleSetter
	lastPanel string
}

// Overlay is the text interface of the viewer: it renders the panel from the store, mirrors
// the status line into the window title and maps key presses onto store mutations.
type Overlay interface {
	// Status returns the status line for the current state.
	Status() string

	// Lines returns the full panel, one entry per line.
	Lines() []string

	// HandleKey applies a key binding.
	//
	// Parameters:
	//   - key: key code, see common.Key*
	//   - action: press, repeat or release
	//
	// Returns:
	//   - bool: whether the key is bound
	HandleKey(key uint32, action window.KeyAction) bool

	// Copy writes the current action name to the clipboard.
	//
	// Returns:
	//   - error: when the clipboard is unavailable
	Copy() error

	// Attach subscribes to the store: every change refreshes the title and, when the panel
	// text changed, writes it to the output.
	//
	// Returns:
	//   - func(): unsubscribes
	Attach() func()
}

var _ Overlay = &overlay{}

// NewOverlay creates an overlay over st.
//
// Parameters:
//   - st: the viewer store
//   - options: functional options
//
// Returns:
//   - Overlay: the overlay
func NewOverlay(st store.Store, options ...OverlayBuilderOption) Overlay {
	o := &overlay{
		store:     st,
		header:    DefaultHeader,
		clipboard: SystemClipboard(),
	}
	for _, opt := range options {
		opt(o)
	}
	return o
}

// StatusLine formats the status for s.
func StatusLine(s store.State) string {
	if s.ControlMode {
		return fmt.Sprintf("Status: Moving (%s)", s.MovementMode)
	}
	return "Status: " + s.CurrentAction
}

func (o *overlay) Status() string {
	return StatusLine(o.store.Get())
}

func (o *overlay) Lines() []string {
	return PanelLines(o.header, o.store.Get())
}

// PanelLines renders the panel for s.
func PanelLines(header string, s store.State) []string {
	lines := []string{header, StatusLine(s)}
	if s.ControlMode {
		lines = append(lines, "Mode: Directional Control")
		walk, run := " walk ", " run "
		if s.MovementMode == controller.MovementRun {
			run = "[run]"
		} else {
			walk = "[walk]"
		}
		lines = append(lines, "Movement: "+walk+" "+run)
		lines = append(lines, "Controls: "+controlsLine(s.Controls))
	} else {
		lines = append(lines, "Mode: Animation Presets")
		if len(s.AvailableActions) == 0 {
			lines = append(lines, LoadingText)
		}
		for i, name := range s.AvailableActions {
			marker := " "
			if name == s.CurrentAction {
				marker = ">"
			}
			lines = append(lines, fmt.Sprintf("%s %d. %s", marker, i+1, name))
		}
	}
	lines = append(lines, fmt.Sprintf("Grid: %s  Debug: %s  Ambient: %.1f  Directional: %.1f",
		onOff(s.Environment.GridVisible), onOff(s.DebugPhysics),
		s.Environment.AmbientIntensity, s.Environment.DirectionalIntensity))
	return lines
}

func controlsLine(c controller.Controls) string {
	keys := []struct {
		label string
		held  bool
	}{
		{"forward", c.Forward},
		{"backward", c.Backward},
		{"left", c.Left},
		{"right", c.Right},
	}
	var held []string
	for _, k := range keys {
		if k.held {
			held = append(held, k.label)
		}
	}
	if len(held) == 0 {
		return "-"
	}
	return strings.Join(held, " ")
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func (o *overlay) Attach() func() {
	o.refresh(o.store.Get())
	return o.store.Subscribe(o.refresh)
}

func (o *overlay) refresh(s store.State) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.title != nil {
		o.title.SetTitle(o.header + " | " + StatusLine(s))
	}
	if o.out == nil {
		return
	}
	panel := strings.Join(PanelLines(o.header, s), "\n")
	if panel == o.lastPanel {
		return
	}
	o.lastPanel = panel
	fmt.Fprintf(o.out, "%s\n\n", panel)
}

func (o *overlay) Copy() error {
	name := o.store.Get().CurrentAction
	if err := o.clipboard.Write(name); err != nil {
		log.Printf("Warning: failed to copy action name: %v", err)
		return err
	}
	log.Printf("Copied: %s", name)
	return nil
}

func (o *overlay) HandleKey(key uint32, action window.KeyAction) bool {
	if direction, ok := directionKeys[key]; ok {
		s := o.store.Get()
		held := action != window.KeyRelease
		if s.ControlMode || !held {
			o.store.SetControlState(direction(s.Controls, held))
		}
		return true
	}
	if !isBound(key) {
		return false
	}

	// everything except direction keys fires once per press
	if action != window.KeyPress {
		return true
	}
	if key >= common.Key1 && key <= common.Key9 {
		o.selectIndex(int(key - common.Key1))
		return true
	}
	pressBindings[key](o)
	return true
}

func isBound(key uint32) bool {
	if key >= common.Key1 && key <= common.Key9 {
		return true
	}
	_, ok := pressBindings[key]
	return ok
}

func (o *overlay) selectIndex(i int) {
	s := o.store.Get()
	if s.ControlMode || i < 0 || i >= len(s.AvailableActions) {
		return
	}
	o.store.SetAction(s.AvailableActions[i])
}

// cycle moves the selection by step through the available actions, wrapping at both ends.
func (o *overlay) cycle(step int) {
	s := o.store.Get()
	n := len(s.AvailableActions)
	if s.ControlMode || n == 0 {
		return
	}
	current := -1
	for i, name := range s.AvailableActions {
		if name == s.CurrentAction {
			current = i
			break
		}
	}
	next := 0
	if current >= 0 {
		next = ((current+step)%n + n) % n
	} else if step < 0 {
		next = n - 1
	}
	o.store.SetAction(s.AvailableActions[next])
}

func (o *overlay) adjustEnvironment(fn func(*store.Environment)) {
	env := o.store.Get().Environment
	fn(&env)
	o.store.UpdateEnvironment(env)
}

// --- Bindings ---

type directionFunc func(c controller.Controls, held bool) controller.Controls

var directionKeys = map[uint32]directionFunc{}

var pressBindings = map[uint32]func(o *overlay){}

func init() {
	forward := func(c controller.Controls, held bool) controller.Controls { c.Forward = held; return c }
	backward := func(c controller.Controls, held bool) controller.Controls { c.Backward = held; return c }
	left := func(c controller.Controls, held bool) controller.Controls { c.Left = held; return c }
	right := func(c controller.Controls, held bool) controller.Controls { c.Right = held; return c }
	for _, k := range []uint32{common.KeyW, common.KeyUp} {
		directionKeys[k] = forward
	}
	for _, k := range []uint32{common.KeyS, common.KeyDown} {
		directionKeys[k] = backward
	}
	for _, k := range []uint32{common.KeyA, common.KeyLeft} {
		directionKeys[k] = left
	}
	for _, k := range []uint32{common.KeyD, common.KeyRight} {
		directionKeys[k] = right
	}

	pressBindings[common.KeyTab] = func(o *overlay) { o.store.ToggleControlMode() }
	pressBindings[common.KeyR] = func(o *overlay) {
		mode := controller.MovementRun
		if o.store.Get().MovementMode == controller.MovementRun {
			mode = controller.MovementWalk
		}
		o.store.SetMovementMode(mode)
	}
	pressBindings[common.KeyLeftBracket] = func(o *overlay) { o.cycle(-1) }
	pressBindings[common.KeyRightBracket] = func(o *overlay) { o.cycle(1) }
	pressBindings[common.KeyG] = func(o *overlay) {
		o.adjustEnvironment(func(e *store.Environment) { e.GridVisible = !e.GridVisible })
	}
	pressBindings[common.KeyP] = func(o *overlay) { o.store.ToggleDebugPhysics() }
	pressBindings[common.KeyMinus] = func(o *overlay) {
		o.adjustEnvironment(func(e *store.Environment) {
			e.AmbientIntensity = common.Clamp(e.AmbientIntensity-intensityStep, 0, maxAmbient)
		})
	}
	pressBindings[common.KeyEqual] = func(o *overlay) {
		o.adjustEnvironment(func(e *store.Environment) {
			e.AmbientIntensity = common.Clamp(e.AmbientIntensity+intensityStep, 0, maxAmbient)
		})
	}
	pressBindings[common.KeyComma] = func(o *overlay) {
		o.adjustEnvironment(func(e *store.Environment) {
			e.DirectionalIntensity = common.Clamp(e.DirectionalIntensity-intensityStep, 0, maxDirectional)
		})
	}
	pressBindings[common.KeyPeriod] = func(o *overlay) {
		o.adjustEnvironment(func(e *store.Environment) {
			e.DirectionalIntensity = common.Clamp(e.DirectionalIntensity+intensityStep, 0, maxDirectional)
		})
	}
	pressBindings[common.KeyC] = func(o *overlay) { _ = o.Copy() }
}
