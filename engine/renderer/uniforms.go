package renderer

import (
	"github.com/Carmen-Shannon/oxy-viewer/common"
)

// FrameUniforms is the per-frame camera and lighting state shared by every draw.
type FrameUniforms struct {
	ViewProjection [16]float32
	LightDirection [3]float32
	Ambient        [3]float32
	Directional    [3]float32
}

// DrawParams describes a single mesh draw.
type DrawParams struct {
	Model [16]float32
	Color [4]float32

	// Lit selects ambient + directional shading; unlit draws output Color unchanged.
	Lit bool

	// Shadow draws with alpha blending and without depth writes.
	Shadow bool
}

func (f *FrameUniforms) bytes() []byte {
	data := make([]float32, 0, frameUniformSize/4)
	data = append(data, f.ViewProjection[:]...)
	data = append(data, f.LightDirection[0], f.LightDirection[1], f.LightDirection[2], 0)
	data = append(data, f.Ambient[0], f.Ambient[1], f.Ambient[2], 1)
	data = append(data, f.Directional[0], f.Directional[1], f.Directional[2], 1)
	return common.SliceToBytes(data)
}

func (p *DrawParams) bytes() []byte {
	data := make([]float32, 0, objectUniformSize/4)
	data = append(data, p.Model[:]...)
	data = append(data, p.Color[:]...)
	var lit float32
	if p.Lit {
		lit = 1
	}
	data = append(data, lit, 0, 0, 0)
	return common.SliceToBytes(data)
}
