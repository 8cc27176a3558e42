package loader

import (
	"io"

	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
)

// loaderBackend is the format-specific import strategy behind a Loader.
type loaderBackend interface {
	// Load imports a full asset from disk.
	Load(path string) (*model.ImportedModel, error)

	// LoadAnimationsOnly imports an asset's skeleton and clips without mesh data.
	LoadAnimationsOnly(path string) (*model.ImportedModel, error)

	// LoadReader imports a full asset from an in-memory source.
	LoadReader(name string, r io.Reader, isGLB bool) (*model.ImportedModel, error)

	// Supports reports whether the backend understands the file extension of path.
	Supports(path string) bool
}
