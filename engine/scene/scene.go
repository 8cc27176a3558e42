package scene

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-viewer/config"
	"github.com/Carmen-Shannon/oxy-viewer/engine/action"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/clipset"
	"github.com/Carmen-Shannon/oxy-viewer/engine/controller"
	"github.com/Carmen-Shannon/oxy-viewer/engine/game_object"
	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
	"github.com/Carmen-Shannon/oxy-viewer/engine/loader"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
	"github.com/Carmen-Shannon/oxy-viewer/engine/overlay"
	"github.com/Carmen-Shannon/oxy-viewer/engine/physics"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/settings"
	"github.com/Carmen-Shannon/oxy-viewer/engine/store"
	"github.com/Carmen-Shannon/oxy-viewer/engine/window"
)

// cameraFollow is the fraction of the distance to the character the camera target covers per tick.
const cameraFollow float32 = 0.15

// Scene hosts the character viewer: the loaded character with its clip set, mixer and
// transition driver, the static environment, lights, camera and physics world.
//
// Update runs on the engine tick goroutine; FrameUniforms and Draw run on the render goroutine,
// which owns every GPU resource. Input handlers may be called from the window thread.
// Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// Active returns whether this scene is currently active for rendering.
	Active() bool

	// SetActive sets whether this scene is active for rendering.
	SetActive(active bool)

	// Camera returns the scene's camera.
	Camera() camera.Camera

	// Renderer returns the scene's renderer, nil for a headless scene.
	Renderer() renderer.Renderer

	// Store returns the viewer state the scene reads and publishes to.
	Store() store.Store

	// Overlay returns the text overlay bound to the store.
	Overlay() overlay.Overlay

	// Character returns the character object, or nil before assets are installed.
	Character() game_object.GameObject

	// Driver returns the transition driver, or nil before assets are installed.
	Driver() action.Driver

	// ClipSet returns the aggregated clips, or nil before assets are installed.
	ClipSet() clipset.ClipSet

	// World returns the physics world.
	World() physics.World

	// Load imports the assets at paths, the base asset first, and installs the character.
	//
	// Parameters:
	//   - paths: asset paths, index 0 is the base asset
	//
	// Returns:
	//   - error: the first load error, or the install error
	Load(paths []string) error

	// LoadAsync runs Load on its own goroutine. Failures are logged; the overlay keeps showing
	// the loading state.
	//
	// Parameters:
	//   - paths: asset paths, index 0 is the base asset
	//
	// Returns:
	//   - <-chan error: receives the Load result once, then closes
	LoadAsync(paths []string) <-chan error

	// Install aggregates the clips of already loaded models, replaces the character, publishes the
	// action names and starts the initial action. An empty clip set is logged and leaves the
	// action list empty; it is not returned as an error.
	//
	// Parameters:
	//   - models: loaded assets, index 0 is the base asset
	//
	// Returns:
	//   - error: ErrNoBaseModel when models is empty
	Install(models []model.Model) error

	// Update advances the scene by one tick: applies action requests from the store, runs the
	// kinematic controller in directional control mode, resolves physics, follows the character
	// with the camera, and advances the animation mixer.
	//
	// Parameters:
	//   - dt: elapsed seconds since the previous tick
	Update(dt float32)

	// FrameUniforms returns the camera and lighting state for the next frame.
	FrameUniforms() renderer.FrameUniforms

	// Draw issues every draw call of the scene. Must be called between BeginFrame and EndFrame
	// on the scene's renderer.
	Draw()

	// HandleKey forwards a key event to the overlay bindings.
	HandleKey(key uint32, action window.KeyAction)

	// HandleMouseButton starts or stops orbiting on the middle button.
	HandleMouseButton(button window.MouseButton, pressed bool, x, y float32)

	// HandleCursor orbits the camera while the middle button is held.
	HandleCursor(x, y float32)

	// HandleScroll zooms the camera.
	HandleScroll(delta float32)

	// Release frees the scene's GPU meshes and stops its store subscriptions.
	Release()
}

// scene is the implementation of the Scene interface.
type scene struct {
	mu     sync.Mutex
	name   string
	active bool

	cfg        *config.Config
	r          renderer.Renderer
	cam        camera.Camera
	store      store.Store
	overlay    overlay.Overlay
	loader     loader.Loader
	controller controller.Controller
	world      physics.World
	persister  settings.Persister

	ambient     light.Light
	directional light.Light

	character game_object.GameObject
	driver    action.Driver
	set       clipset.ClipSet

	gpu gpuState

	orbiting   bool
	lastCursor [2]float32

	subscriptions []func()
}

var _ Scene = &scene{}

// NewScene creates the viewer scene. Collaborators not supplied through options are built from
// the configuration: a store with the configured environment, a glTF loader, the controller with
// the configured speeds, labels and action script, the platform world, the lights and the orbit
// camera.
//
// Parameters:
//   - name: the scene's identifier
//   - r: the renderer, or nil for a headless scene
//   - options: a variadic list of SceneBuilderOption functions
//
// Returns:
//   - Scene: the scene
func NewScene(name string, r renderer.Renderer, options ...SceneBuilderOption) Scene {
	s := &scene{
		name:   name,
		active: true,
		r:      r,
		cfg:    config.Default(),
	}
	for _, opt := range options {
		opt(s)
	}
	cfg := s.cfg

	if s.store == nil {
		state := store.DefaultState()
		state.CurrentAction = cfg.Transition.DefaultAction
		state.Environment = store.Environment{
			AmbientIntensity:     cfg.Environment.Ambient,
			DirectionalIntensity: cfg.Environment.Directional,
			GridVisible:          cfg.Environment.Grid,
		}
		s.store = store.NewStore(store.WithState(state))
	}
	if s.overlay == nil {
		s.overlay = overlay.NewOverlay(s.store, overlay.WithHeader(cfg.Window.Title))
	}
	if s.loader == nil {
		s.loader = loader.NewLoader(loader.BackendTypeGLTF)
	}
	if s.controller == nil {
		s.controller = newController(cfg)
	}
	if s.world == nil {
		s.world = newWorld(cfg)
	}
	if s.cam == nil {
		s.cam = newCamera(cfg)
	}

	lp := cfg.Environment.LightPosition
	s.ambient = light.NewLight(light.LightTypeAmbient)
	s.directional = light.NewLight(light.LightTypeDirectional,
		light.WithPosition(lp[0], lp[1], lp[2]),
		light.WithTarget(0, 0, 0),
		light.WithCastsShadows(true),
	)
	if s.persister != nil {
		s.persister.Apply(s.store, s.persister.Load())
		s.subscriptions = append(s.subscriptions, s.persister.Bind(s.store))
	}
	s.subscriptions = append(s.subscriptions, s.overlay.Attach())
	s.syncLights(s.store.Get().Environment)
	return s
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Camera() camera.Camera {
	return s.cam
}

func (s *scene) Renderer() renderer.Renderer {
	return s.r
}

func (s *scene) Store() store.Store {
	return s.store
}

func (s *scene) Overlay() overlay.Overlay {
	return s.overlay
}

func (s *scene) World() physics.World {
	return s.world
}

func (s *scene) Character() game_object.GameObject {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.character
}

func (s *scene) Driver() action.Driver {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.driver
}

func (s *scene) ClipSet() clipset.ClipSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set
}

func (s *scene) Update(dt float32) {
	if dt < 0 {
		dt = 0
	}
	st := s.store.Get()
	s.syncLights(st.Environment)

	s.mu.Lock()
	if s.character == nil {
		s.mu.Unlock()
		return
	}

	// the requested action lives in the store; the driver only sees changes
	if s.driver != nil && st.CurrentAction != s.driver.Requested() {
		_ = s.driver.Request(st.CurrentAction)
	}

	prev := s.character.Position()
	desired, changed := s.controller.Update(s.character, controller.Input{
		Enabled:   st.ControlMode,
		Controls:  st.Controls,
		Mode:      st.MovementMode,
		Requested: st.CurrentAction,
	}, dt)
	resolved := s.world.Resolve(prev, s.character.Position(), dt)
	s.character.SetPosition(resolved[0], resolved[1], resolved[2])
	if ctrl := s.cam.Controller(); ctrl != nil {
		ctrl.Follow(resolved, cameraFollow)
	}

	if mixer := s.character.Mixer(); mixer != nil {
		mixer.Update(dt)
	}
	s.mu.Unlock()

	// subscribers run synchronously, so publish outside the scene lock
	if changed {
		s.store.SetAction(desired)
	}
}

func (s *scene) syncLights(env store.Environment) {
	s.ambient.SetIntensity(env.AmbientIntensity)
	s.directional.SetIntensity(env.DirectionalIntensity)
}

func (s *scene) FrameUniforms() renderer.FrameUniforms {
	s.cam.Update()
	return renderer.FrameUniforms{
		ViewProjection: s.cam.ViewProjectionMatrix(),
		LightDirection: s.directional.Direction(),
		Ambient:        s.ambient.Radiance(),
		Directional:    s.directional.Radiance(),
	}
}

// --- Input ---

func (s *scene) HandleKey(key uint32, action window.KeyAction) {
	s.overlay.HandleKey(key, action)
}

func (s *scene) HandleMouseButton(button window.MouseButton, pressed bool, x, y float32) {
	if button != window.MouseMiddle {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orbiting = pressed
	s.lastCursor = [2]float32{x, y}
}

func (s *scene) HandleCursor(x, y float32) {
	s.mu.Lock()
	orbiting := s.orbiting
	dx, dy := x-s.lastCursor[0], y-s.lastCursor[1]
	s.lastCursor = [2]float32{x, y}
	s.mu.Unlock()

	if !orbiting {
		return
	}
	if ctrl := s.cam.Controller(); ctrl != nil {
		ctrl.Orbit(dx, dy)
	}
}

func (s *scene) HandleScroll(delta float32) {
	if ctrl := s.cam.Controller(); ctrl != nil {
		ctrl.Zoom(delta)
	}
}

func (s *scene) Release() {
	s.mu.Lock()
	subs := s.subscriptions
	s.subscriptions = nil
	s.mu.Unlock()
	for _, unsubscribe := range subs {
		unsubscribe()
	}
	s.gpu.release()
}
