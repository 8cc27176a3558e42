package loader

import (
	"fmt"
	"io"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
)

// gltfImporterImpl is the implementation of the gltfImporter interface.
type gltfImporterImpl struct{}

// gltfImporter runs the extractors over a parsed document and assembles an ImportedModel.
type gltfImporter interface {
	// Import parses and imports the file at path with meshes, skeleton and clips.
	Import(path string) (*model.ImportedModel, error)

	// ImportAnimationsOnly imports the skeleton and clips but skips mesh data.
	// Used for auxiliary assets whose geometry is discarded.
	ImportAnimationsOnly(path string) (*model.ImportedModel, error)

	// ImportReader imports from an in-memory source. name becomes the Source of the result.
	ImportReader(name string, r io.Reader, isGLB bool) (*model.ImportedModel, error)
}

var _ gltfImporter = &gltfImporterImpl{}

func newGLTFImporter() gltfImporter {
	return &gltfImporterImpl{}
}

func (imp *gltfImporterImpl) Import(path string) (*model.ImportedModel, error) {
	parser := newGLTFParser()
	if err := parser.Parse(path); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return imp.importFromParser(parser, path, true)
}

func (imp *gltfImporterImpl) ImportAnimationsOnly(path string) (*model.ImportedModel, error) {
	parser := newGLTFParser()
	if err := parser.Parse(path); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return imp.importFromParser(parser, path, false)
}

func (imp *gltfImporterImpl) ImportReader(name string, r io.Reader, isGLB bool) (*model.ImportedModel, error) {
	parser := newGLTFParser()
	if err := parser.ParseReader(r, isGLB, ""); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return imp.importFromParser(parser, name, true)
}

func (imp *gltfImporterImpl) importFromParser(parser gltfParser, source string, withMeshes bool) (*model.ImportedModel, error) {
	doc := parser.Document()
	if doc == nil {
		return nil, fmt.Errorf("no document after parsing")
	}

	result := &model.ImportedModel{
		Name:   gltfExtractModelName(doc, source),
		Source: source,
	}

	var nodeToBone map[int]int32
	var slotToBone map[int32]int32
	if len(doc.Skins) > 0 {
		skeletons := newGLTFSkeletonExtractor(parser)
		skinIndex := 0
		for meshIdx := range doc.Meshes {
			if si := skeletons.FindSkinForMesh(meshIdx); si >= 0 {
				skinIndex = si
				break
			}
		}
		var err error
		result.Skeleton, nodeToBone, slotToBone, err = skeletons.ExtractSkeleton(skinIndex)
		if err != nil {
			return nil, fmt.Errorf("skeleton extraction failed: %w", err)
		}
	}

	if withMeshes {
		result.Materials = gltfExtractMaterials(doc)
		meshes, err := newGLTFMeshExtractor(parser).ExtractMeshNodes(result.Materials)
		if err != nil {
			return nil, fmt.Errorf("mesh extraction failed: %w", err)
		}
		gltfRemapMeshJoints(meshes, slotToBone)
		result.Meshes = meshes
	}

	animations, err := newGLTFAnimationExtractor(parser).ExtractAllAnimations(nodeToBone)
	if err != nil {
		return nil, fmt.Errorf("animation extraction failed: %w", err)
	}
	result.Animations = animations

	return result, nil
}

// gltfRemapMeshJoints rewrites skin joint slots into sorted skeleton bone indices.
func gltfRemapMeshJoints(meshes []model.ImportedMesh, slotToBone map[int32]int32) {
	if len(slotToBone) == 0 {
		return
	}
	for i := range meshes {
		for j := range meshes[i].Joints {
			joints := &meshes[i].Joints[j]
			for k := range joints {
				if bone, ok := slotToBone[int32(joints[k])]; ok {
					joints[k] = uint32(bone)
				}
			}
		}
	}
}

// gltfExtractModelName prefers the default scene's name, then the file stem of the source.
func gltfExtractModelName(doc *gltfDocument, source string) string {
	var sceneName string
	if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
		sceneName = doc.Scenes[*doc.Scene].Name
	}
	return common.Coalesce(sceneName, common.FileStem(source), "unnamed_model")
}
