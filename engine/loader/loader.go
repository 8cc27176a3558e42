package loader

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
)

// LoaderBackendType selects the asset format a Loader imports.
type LoaderBackendType int

const (
	BackendTypeGLTF LoaderBackendType = iota
)

// ErrUnsupportedFormat is returned for paths whose extension the backend does not handle.
var ErrUnsupportedFormat = errors.New("unsupported asset format")

// loader is the implementation of the Loader interface.
type loader struct {
	mu         sync.RWMutex
	modelCache map[string]model.Model
	backend    loaderBackend

	workers  int
	pool     worker.DynamicWorkerPool
	poolOnce sync.Once
	taskID   int
}

// Loader imports assets and caches the results by path.
// All methods are safe for concurrent use.
type Loader interface {
	// Load imports the asset at path, or returns the cached model for that path.
	//
	// Parameters:
	//   - path: .gltf or .glb file path
	//
	// Returns:
	//   - model.Model: the loaded asset
	//   - error: ErrUnsupportedFormat or the wrapped import error
	Load(path string) (model.Model, error)

	// LoadAnimations imports only the skeleton and clips of the asset at path.
	// The result is cached under the same path key as Load.
	//
	// Parameters:
	//   - path: .gltf or .glb file path
	//
	// Returns:
	//   - model.Model: an asset without meshes
	//   - error: ErrUnsupportedFormat or the wrapped import error
	LoadAnimations(path string) (model.Model, error)

	// LoadAll imports a base asset list in parallel on the loader's worker pool.
	// paths[0] is loaded in full; the remaining paths are loaded animation-only.
	// The result preserves input order. On failure the first error in list order is returned.
	//
	// Parameters:
	//   - paths: ordered asset list, base asset first
	//
	// Returns:
	//   - []model.Model: one model per path
	//   - error: the first failure, wrapped with its path
	LoadAll(paths []string) ([]model.Model, error)

	// LoadReader imports an asset from r and caches it under name.
	//
	// Parameters:
	//   - name: cache key and Source of the model
	//   - r: the data source
	//   - isGLB: whether r holds the binary container
	//
	// Returns:
	//   - model.Model: the loaded asset
	//   - error: the wrapped import error
	LoadReader(name string, r io.Reader, isGLB bool) (model.Model, error)

	// Get returns the cached model for a key, or nil.
	Get(name string) model.Model

	// Models returns a snapshot of the cache.
	Models() map[string]model.Model
}

var _ Loader = &loader{}

// NewLoader creates a Loader for the given asset format.
//
// Parameters:
//   - backendType: the asset format
//   - options: a variadic list of LoaderBuilderOption functions
//
// Returns:
//   - Loader: the loader
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		modelCache: make(map[string]model.Model),
		workers:    max(runtime.NumCPU()-1, 1),
	}
	switch backendType {
	case BackendTypeGLTF:
		l.backend = newGLTFLoaderBackend()
	}
	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) Get(name string) model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.modelCache[name]
}

func (l *loader) Models() map[string]model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[string]model.Model, len(l.modelCache))
	for k, v := range l.modelCache {
		out[k] = v
	}
	return out
}

func (l *loader) Load(path string) (model.Model, error) {
	return l.load(path, l.backend.Load)
}

func (l *loader) LoadAnimations(path string) (model.Model, error) {
	return l.load(path, l.backend.LoadAnimationsOnly)
}

func (l *loader) load(path string, importFn func(string) (*model.ImportedModel, error)) (model.Model, error) {
	if cached := l.Get(path); cached != nil {
		return cached, nil
	}
	if !l.backend.Supports(path) {
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}

	imported, err := importFn(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return l.store(path, model.FromImported(imported)), nil
}

func (l *loader) LoadReader(name string, r io.Reader, isGLB bool) (model.Model, error) {
	if cached := l.Get(name); cached != nil {
		return cached, nil
	}
	imported, err := l.backend.LoadReader(name, r, isGLB)
	if err != nil {
		return nil, fmt.Errorf("failed to load from reader %q: %w", name, err)
	}
	return l.store(name, model.FromImported(imported)), nil
}

// store caches m under key unless a concurrent load got there first, and returns the winner.
func (l *loader) store(key string, m model.Model) model.Model {
	l.mu.Lock()
	defer l.mu.Unlock()
	if existing, ok := l.modelCache[key]; ok {
		return existing
	}
	l.modelCache[key] = m
	return m
}

func (l *loader) LoadAll(paths []string) ([]model.Model, error) {
	models := make([]model.Model, len(paths))
	errs := make([]error, len(paths))
	pool := l.workerPool()

	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		idx, p := i, path
		pool.SubmitTask(worker.Task{
			ID: l.nextTaskID(),
			Do: func() (any, error) {
				defer wg.Done()
				if idx == 0 {
					models[idx], errs[idx] = l.Load(p)
				} else {
					models[idx], errs[idx] = l.LoadAnimations(p)
				}
				return models[idx], errs[idx]
			},
		})
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return models, nil
}

func (l *loader) workerPool() worker.DynamicWorkerPool {
	l.poolOnce.Do(func() {
		l.pool = worker.NewDynamicWorkerPool(l.workers, 256, 1*time.Second)
	})
	return l.pool
}

func (l *loader) nextTaskID() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.taskID++
	return l.taskID
}
