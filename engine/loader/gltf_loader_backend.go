package loader

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
)

// gltfLoaderBackendImpl is the glTF 2.0 implementation of loaderBackend.
type gltfLoaderBackendImpl struct {
	importer gltfImporter
}

var _ loaderBackend = &gltfLoaderBackendImpl{}

func newGLTFLoaderBackend() loaderBackend {
	return &gltfLoaderBackendImpl{importer: newGLTFImporter()}
}

func (b *gltfLoaderBackendImpl) Load(path string) (*model.ImportedModel, error) {
	return b.importer.Import(path)
}

func (b *gltfLoaderBackendImpl) LoadAnimationsOnly(path string) (*model.ImportedModel, error) {
	return b.importer.ImportAnimationsOnly(path)
}

func (b *gltfLoaderBackendImpl) LoadReader(name string, r io.Reader, isGLB bool) (*model.ImportedModel, error) {
	return b.importer.ImportReader(name, r, isGLB)
}

func (b *gltfLoaderBackendImpl) Supports(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gltf", ".glb":
		return true
	}
	return false
}
