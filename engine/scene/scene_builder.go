package scene

import (
	"github.com/Carmen-Shannon/oxy-viewer/config"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/controller"
	"github.com/Carmen-Shannon/oxy-viewer/engine/loader"
	"github.com/Carmen-Shannon/oxy-viewer/engine/overlay"
	"github.com/Carmen-Shannon/oxy-viewer/engine/physics"
	"github.com/Carmen-Shannon/oxy-viewer/engine/settings"
	"github.com/Carmen-Shannon/oxy-viewer/engine/store"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithActive sets whether the scene is active for rendering.
//
// Parameters:
//   - active: whether the scene is active
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active = active
	}
}

// WithConfig sets the configuration the default collaborators are built from.
// A nil config keeps the defaults.
//
// Parameters:
//   - cfg: the viewer configuration
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithConfig(cfg *config.Config) SceneBuilderOption {
	return func(s *scene) {
		if cfg != nil {
			s.cfg = cfg
		}
	}
}

// WithStore shares an existing store instead of creating one from the configuration.
//
// Parameters:
//   - st: the viewer store
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithStore(st store.Store) SceneBuilderOption {
	return func(s *scene) {
		s.store = st
	}
}

// WithOverlay sets the overlay. It must be bound to the scene's store.
//
// Parameters:
//   - o: the overlay
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithOverlay(o overlay.Overlay) SceneBuilderOption {
	return func(s *scene) {
		s.overlay = o
	}
}

// WithLoader sets the asset loader, for sharing its cache between scenes.
//
// Parameters:
//   - l: the loader
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLoader(l loader.Loader) SceneBuilderOption {
	return func(s *scene) {
		s.loader = l
	}
}

// WithController replaces the kinematic controller built from the configuration.
//
// Parameters:
//   - c: the controller
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithController(c controller.Controller) SceneBuilderOption {
	return func(s *scene) {
		s.controller = c
	}
}

// WithWorld replaces the physics world built from the configured platforms.
//
// Parameters:
//   - w: the world
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithWorld(w physics.World) SceneBuilderOption {
	return func(s *scene) {
		s.world = w
	}
}

// WithCamera replaces the orbit camera built from the configuration.
//
// Parameters:
//   - cam: the camera
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCamera(cam camera.Camera) SceneBuilderOption {
	return func(s *scene) {
		s.cam = cam
	}
}

// WithPersister loads saved settings into the store at construction and saves them on change.
//
// Parameters:
//   - p: the settings persister
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithPersister(p settings.Persister) SceneBuilderOption {
	return func(s *scene) {
		s.persister = p
	}
}
