package scene

import (
	"errors"
	"fmt"
	"log"

	"github.com/Carmen-Shannon/oxy-viewer/config"
	"github.com/Carmen-Shannon/oxy-viewer/engine/action"
	"github.com/Carmen-Shannon/oxy-viewer/engine/animator"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/clipset"
	"github.com/Carmen-Shannon/oxy-viewer/engine/controller"
	"github.com/Carmen-Shannon/oxy-viewer/engine/game_object"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
)

// ErrNoBaseModel is returned by Install when no asset was given.
var ErrNoBaseModel = errors.New("no base model")

func (s *scene) Load(paths []string) error {
	models, err := s.loader.LoadAll(paths)
	if err != nil {
		return fmt.Errorf("failed to load models: %w", err)
	}
	return s.Install(models)
}

func (s *scene) LoadAsync(paths []string) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		err := s.Load(paths)
		if err != nil {
			log.Printf("%v", err)
		}
		done <- err
	}()
	return done
}

func (s *scene) Install(models []model.Model) error {
	if len(models) == 0 || models[0] == nil {
		return ErrNoBaseModel
	}
	base, auxiliary := models[0], models[1:]
	cfg := s.cfg

	set, err := clipset.Aggregate(base, auxiliary, clipset.WithIdleLabel(cfg.Controller.IdleLabel))
	emptySet := errors.Is(err, clipset.ErrEmptyClipSet)
	if err != nil && !emptySet {
		return err
	}

	mixer := animator.NewMixer(animator.WithSkeleton(base.Skeleton()))
	driver := action.NewDriver(mixer, action.WithFadeDuration(cfg.Transition.Fade))
	scale := cfg.Assets.Scale
	character := game_object.NewGameObject(
		game_object.WithModel(base),
		game_object.WithMixer(mixer),
		game_object.WithScale(scale, scale, scale),
	)

	requested := s.store.Get().CurrentAction
	initial, err := driver.Load(set, requested)
	if err != nil && !errors.Is(err, clipset.ErrEmptyClipSet) {
		log.Printf("Warning: initial action %q could not start: %v", requested, err)
	}
	mixer.Update(0)

	s.mu.Lock()
	if s.character != nil {
		p := s.character.Position()
		character.SetPosition(p[0], p[1], p[2])
		character.SetYaw(s.character.Yaw())
	}
	s.character = character
	s.driver = driver
	s.set = set
	s.mu.Unlock()

	if emptySet {
		log.Printf("Warning: %s has no animations", base.Name())
		s.store.SetAvailableActions(nil)
		return nil
	}
	s.store.SetAvailableActions(set.Names())
	if initial != "" {
		s.store.SetAction(initial)
	}
	return nil
}

func newController(cfg *config.Config) controller.Controller {
	c := cfg.Controller
	options := []controller.ControllerBuilderOption{
		controller.WithSpeeds(c.WalkSpeed, c.RunSpeed, c.RotateSpeed),
		controller.WithLabels(c.IdleLabel, c.WalkLabel, c.RunLabel),
	}
	if c.Script != "" {
		script, err := controller.LoadActionScript(c.Script)
		if err != nil {
			log.Printf("Warning: action script disabled: %v", err)
		} else {
			options = append(options, controller.WithActionScript(script))
		}
	}
	return controller.NewController(options...)
}

func newCamera(cfg *config.Config) camera.Camera {
	c := cfg.Camera
	aspect := float32(1)
	if cfg.Window.Height > 0 {
		aspect = float32(cfg.Window.Width) / float32(cfg.Window.Height)
	}
	return camera.NewCamera(
		camera.WithFovDegrees(c.Fov),
		camera.WithAspect(aspect),
		camera.WithController(camera.NewCameraController(
			camera.WithOrbit(c.Radius, 0, c.Elevation),
			camera.WithElevationBounds(c.MinElevation, c.MaxElevation),
		)),
	)
}
