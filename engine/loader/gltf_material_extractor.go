package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
)

// gltfExtractMaterials reads each material's name and base colour factor.
// Textures are not sampled; the viewer shades with flat base colours.
func gltfExtractMaterials(doc *gltfDocument) []model.ImportedMaterial {
	materials := make([]model.ImportedMaterial, len(doc.Materials))
	for i, m := range doc.Materials {
		materials[i] = model.ImportedMaterial{
			Name:      m.Name,
			BaseColor: [4]float32{1, 1, 1, 1},
		}
		if materials[i].Name == "" {
			materials[i].Name = fmt.Sprintf("material_%d", i)
		}
		if m.PbrMetallicRoughness != nil && m.PbrMetallicRoughness.BaseColorFactor != nil {
			materials[i].BaseColor = *m.PbrMetallicRoughness.BaseColorFactor
		}
	}
	return materials
}
