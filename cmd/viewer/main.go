package main

import (
	"flag"
	"log"
	"os"

	"github.com/Carmen-Shannon/oxy-viewer/config"
	"github.com/Carmen-Shannon/oxy-viewer/engine"
	"github.com/Carmen-Shannon/oxy-viewer/engine/loader"
	"github.com/Carmen-Shannon/oxy-viewer/engine/manifest"
	"github.com/Carmen-Shannon/oxy-viewer/engine/overlay"
	"github.com/Carmen-Shannon/oxy-viewer/engine/profiler"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/Carmen-Shannon/oxy-viewer/engine/settings"
	"github.com/Carmen-Shannon/oxy-viewer/engine/store"
	"github.com/Carmen-Shannon/oxy-viewer/engine/window"
)

func main() {
	configPath := flag.String("config", "", "Viewer config file (empty = defaults)")
	software := flag.Bool("software", false, "Force the software (fallback) GPU adapter")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// ── Window + Renderer ───────────────────────────────────────────────
	win, err := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
	)
	if err != nil {
		log.Fatalf("Failed to create window: %v", err)
	}

	presentMode := renderer.PresentModeUncapped
	if cfg.Engine.VSync {
		presentMode = renderer.PresentModeVSync
	}
	r, err := renderer.NewRenderer(renderer.BackendTypeWGPU, win,
		renderer.WithPresentMode(presentMode),
		renderer.WithForceSoftwareRenderer(*software),
		renderer.WithClearColor([4]float32{0.53, 0.81, 0.92, 1}),
	)
	if err != nil {
		log.Fatalf("Failed to create renderer: %v", err)
	}
	defer r.Release()

	// ── Scene ───────────────────────────────────────────────────────────
	state := store.DefaultState()
	state.CurrentAction = cfg.Transition.DefaultAction
	state.Environment = store.Environment{
		AmbientIntensity:     cfg.Environment.Ambient,
		DirectionalIntensity: cfg.Environment.Directional,
		GridVisible:          cfg.Environment.Grid,
	}
	st := store.NewStore(store.WithState(state))

	persister := settings.Disabled()
	if cfg.Persist {
		persister = settings.Open()
	}

	sc := scene.NewScene("Viewer", r,
		scene.WithConfig(cfg),
		scene.WithStore(st),
		scene.WithPersister(persister),
		scene.WithLoader(loader.NewLoader(loader.BackendTypeGLTF)),
		scene.WithOverlay(overlay.NewOverlay(st,
			overlay.WithHeader(cfg.Window.Title),
			overlay.WithOutput(os.Stdout),
			overlay.WithTitleSetter(win),
		)),
	)
	defer sc.Release()

	// ── Engine ──────────────────────────────────────────────────────────
	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithScene(0, sc),
		engine.WithTickRate(float64(cfg.Engine.TickRate)),
		engine.WithRenderFrameLimit(float64(cfg.Engine.FrameLimit)),
		engine.WithProfiling(cfg.Engine.Profiling),
		engine.WithProfilerOptions(profiler.WithDetail(sc.Overlay().Status)),
	)

	paths, err := modelPaths(cfg)
	if err != nil {
		log.Fatalf("Failed to read model list: %v", err)
	}
	if len(paths) == 0 {
		log.Printf("Warning: no models found in %s", cfg.Assets.Dir)
	} else {
		sc.LoadAsync(paths)
	}

	eng.Run()
}

// modelPaths reads the manifest, or scans the asset directory when there is none.
func modelPaths(cfg *config.Config) ([]string, error) {
	m, err := manifest.Load(cfg.ManifestPath())
	if err != nil {
		log.Printf("Warning: %v, scanning %s", err, cfg.Assets.Dir)
		if m, err = manifest.Generate(cfg.Assets.Dir, cfg.Assets.Base); err != nil {
			return nil, err
		}
	}
	return m.Paths(cfg.Assets.Dir), nil
}
