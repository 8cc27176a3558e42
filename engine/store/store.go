package store

import (
	"reflect"
	"sync"

	"github.com/Carmen-Shannon/oxy-viewer/engine/controller"
)

// Environment holds the scene lighting and helper toggles.
type Environment struct {
	AmbientIntensity     float32 `json:"ambientIntensity"`
	DirectionalIntensity float32 `json:"directionalIntensity"`
	GridVisible          bool    `json:"gridVisible"`
}

// DefaultEnvironment returns the startup lighting.
func DefaultEnvironment() Environment {
	return Environment{AmbientIntensity: 0.5, DirectionalIntensity: 1, GridVisible: true}
}

// State is the viewer state shared between the scene, the controller and the overlay.
type State struct {
	CurrentAction    string
	AvailableActions []string
	DebugPhysics     bool
	Environment      Environment
	ControlMode      bool
	MovementMode     controller.MovementMode
	Controls         controller.Controls
}

// DefaultState returns the state the viewer starts in.
func DefaultState() State {
	return State{
		CurrentAction: "Idle",
		Environment:   DefaultEnvironment(),
		MovementMode:  controller.MovementWalk,
	}
}

func (s State) clone() State {
	s.AvailableActions = append([]string(nil), s.AvailableActions...)
	return s
}

// store is the implementation of the Store interface.
type store struct {
	mu          sync.Mutex
	state       State
	subscribers []subscriber
	nextID      int
}

type subscriber struct {
	id int
	fn func(State)
}

// Store is an observable State. Subscribers are called synchronously, in subscription order,
// after every change, and never while the store is locked, so they may call back into it.
type Store interface {
	// Get returns a copy of the current state.
	Get() State

	// Set applies fn to a copy of the state and publishes the result if it differs.
	//
	// Parameters:
	//   - fn: mutates the state in place
	//
	// Returns:
	//   - bool: whether the state changed
	Set(fn func(*State)) bool

	// Subscribe registers fn to receive the new state after each change.
	//
	// Parameters:
	//   - fn: the listener
	//
	// Returns:
	//   - func(): removes the listener, safe to call more than once
	Subscribe(fn func(State)) func()

	// SetAction sets the requested action.
	SetAction(name string) bool

	// SetAvailableActions publishes the playable action names.
	SetAvailableActions(names []string) bool

	// ToggleDebugPhysics flips collider drawing.
	ToggleDebugPhysics() bool

	// UpdateEnvironment replaces the environment settings.
	UpdateEnvironment(env Environment) bool

	// ToggleControlMode flips directional control. Leaving control mode clears held directions.
	ToggleControlMode() bool

	// SetMovementMode selects walk or run.
	SetMovementMode(mode controller.MovementMode) bool

	// SetControlState replaces the held direction flags.
	SetControlState(controls controller.Controls) bool
}

var _ Store = &store{}

// NewStore creates a Store holding DefaultState.
//
// Parameters:
//   - options: a variadic list of StoreBuilderOption functions
//
// Returns:
//   - Store: the store
func NewStore(options ...StoreBuilderOption) Store {
	s := &store{state: DefaultState()}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *store) Get() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

func (s *store) Set(fn func(*State)) bool {
	s.mu.Lock()
	next := s.state.clone()
	fn(&next)
	if reflect.DeepEqual(next, s.state) {
		s.mu.Unlock()
		return false
	}
	s.state = next
	subs := append([]subscriber(nil), s.subscribers...)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(next.clone())
	}
	return true
}

func (s *store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.subscribers = append(s.subscribers, subscriber{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subscribers {
			if sub.id == id {
				s.subscribers = append(s.subscribers[:i:i], s.subscribers[i+1:]...)
				return
			}
		}
	}
}

// --- Mutators ---

func (s *store) SetAction(name string) bool {
	return s.Set(func(st *State) { st.CurrentAction = name })
}

func (s *store) SetAvailableActions(names []string) bool {
	return s.Set(func(st *State) { st.AvailableActions = append([]string(nil), names...) })
}

func (s *store) ToggleDebugPhysics() bool {
	return s.Set(func(st *State) { st.DebugPhysics = !st.DebugPhysics })
}

func (s *store) UpdateEnvironment(env Environment) bool {
	return s.Set(func(st *State) { st.Environment = env })
}

func (s *store) ToggleControlMode() bool {
	return s.Set(func(st *State) {
		st.ControlMode = !st.ControlMode
		if !st.ControlMode {
			st.Controls = controller.Controls{}
		}
	})
}

func (s *store) SetMovementMode(mode controller.MovementMode) bool {
	return s.Set(func(st *State) { st.MovementMode = mode })
}

func (s *store) SetControlState(controls controller.Controls) bool {
	return s.Set(func(st *State) { st.Controls = controls })
}
