package controller

import (
	"log"
	"strings"
)

// MovementMode selects the translation speed and the moving action label.
type MovementMode int

const (
	MovementWalk MovementMode = iota
	MovementRun
)

// String returns "walk" or "run".
func (m MovementMode) String() string {
	if m == MovementRun {
		return "run"
	}
	return "walk"
}

// ParseMovementMode maps "run" (any case) to MovementRun and everything else to MovementWalk.
func ParseMovementMode(s string) MovementMode {
	if strings.EqualFold(strings.TrimSpace(s), "run") {
		return MovementRun
	}
	return MovementWalk
}

const (
	DefaultWalkSpeed   float32 = 2
	DefaultRunSpeed    float32 = 5
	DefaultRotateSpeed float32 = 3

	DefaultIdleLabel = "Base_Idle"
	DefaultWalkLabel = "Start Walking"
	DefaultRunLabel  = "Jogging"
)

// Controls are the held direction flags.
type Controls struct {
	Forward  bool `json:"forward"`
	Backward bool `json:"backward"`
	Left     bool `json:"left"`
	Right    bool `json:"right"`
}

// Moving reports whether a translation key is held.
func (c Controls) Moving() bool {
	return c.Forward || c.Backward
}

// Input is what the controller reads each frame.
type Input struct {
	Enabled   bool // directional control mode
	Controls  Controls
	Mode      MovementMode
	Requested string // the current requested action
}

// Body is the character transform the controller drives.
type Body interface {
	// Rotate turns the body about the vertical axis by angle radians, counter-clockwise from above.
	Rotate(angle float32)

	// TranslateForward moves the body along its local forward axis.
	TranslateForward(distance float32)
}

// controller is the implementation of the Controller interface.
type controller struct {
	walkSpeed   float32
	runSpeed    float32
	rotateSpeed float32

	idleLabel string
	walkLabel string
	runLabel  string

	script       ActionScript
	scriptFailed bool
}

// Controller integrates heading and position from held direction flags and derives the action
// the character should be playing.
type Controller interface {
	// Update runs one frame. Nothing happens unless in.Enabled is set.
	// Left adds rotateSpeed*dt to the heading and right subtracts it; both may apply.
	// Forward wins over backward and moves at the speed of the movement mode.
	//
	// Parameters:
	//   - body: the character transform
	//   - in: the frame input
	//   - dt: elapsed seconds since the previous frame
	//
	// Returns:
	//   - string: the desired action, or in.Requested when disabled
	//   - bool: whether the desired action differs from in.Requested
	Update(body Body, in Input, dt float32) (string, bool)

	// DesiredAction returns the action label for a movement state without moving anything.
	//
	// Parameters:
	//   - in: the frame input
	//
	// Returns:
	//   - string: the action label
	DesiredAction(in Input) string

	// Speed returns the translation speed for a movement mode in units per second.
	Speed(mode MovementMode) float32
}

var _ Controller = &controller{}

// NewController creates a Controller with the default speeds and labels.
//
// Parameters:
//   - options: a variadic list of ControllerBuilderOption functions
//
// Returns:
//   - Controller: the controller
func NewController(options ...ControllerBuilderOption) Controller {
	c := &controller{
		walkSpeed:   DefaultWalkSpeed,
		runSpeed:    DefaultRunSpeed,
		rotateSpeed: DefaultRotateSpeed,
		idleLabel:   DefaultIdleLabel,
		walkLabel:   DefaultWalkLabel,
		runLabel:    DefaultRunLabel,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *controller) Speed(mode MovementMode) float32 {
	if mode == MovementRun {
		return c.runSpeed
	}
	return c.walkSpeed
}

func (c *controller) Update(body Body, in Input, dt float32) (string, bool) {
	if !in.Enabled {
		return in.Requested, false
	}
	if dt < 0 {
		dt = 0
	}

	if in.Controls.Left {
		body.Rotate(c.rotateSpeed * dt)
	}
	if in.Controls.Right {
		body.Rotate(-c.rotateSpeed * dt)
	}

	speed := c.Speed(in.Mode)
	switch {
	case in.Controls.Forward:
		body.TranslateForward(speed * dt)
	case in.Controls.Backward:
		body.TranslateForward(-speed * dt)
	}

	desired := c.DesiredAction(in)
	return desired, desired != in.Requested
}

func (c *controller) DesiredAction(in Input) string {
	label := c.fixedLabel(in)
	if c.script == nil {
		return label
	}
	scripted, err := c.script.Desired(in, label)
	if err != nil {
		if !c.scriptFailed {
			log.Printf("Warning: action script failed, using %q: %v", label, err)
		}
		c.scriptFailed = true
		return label
	}
	c.scriptFailed = false
	if scripted == "" {
		return label
	}
	return scripted
}

func (c *controller) fixedLabel(in Input) string {
	switch {
	case !in.Controls.Moving():
		return c.idleLabel
	case in.Mode == MovementRun:
		return c.runLabel
	default:
		return c.walkLabel
	}
}
