package loader

import "github.com/Carmen-Shannon/oxy-viewer/engine/model"

// LoaderBuilderOption is a function that configures a loader.
type LoaderBuilderOption func(*loader)

// WithModel pre-populates the cache with a model under key.
func WithModel(key string, m model.Model) LoaderBuilderOption {
	return func(l *loader) {
		l.modelCache[key] = m
	}
}

// WithWorkers sets the number of workers LoadAll imports on.
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		if n > 0 {
			l.workers = n
		}
	}
}
