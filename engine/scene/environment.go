package scene

import (
	"log"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/config"
	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
	"github.com/Carmen-Shannon/oxy-viewer/engine/physics"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
)

// Grid and environment colours.
var (
	groundColor     = common.MustParseHexColor("#303030")
	gridCenterColor = [4]float32{1, 0, 0, 1}
	gridLineColor   = common.MustParseHexColor("#666666")
	platformDefault = common.MustParseHexColor("#888888")
	colliderColor   = [4]float32{0, 1, 0, 1}
	shadowColor     = [4]float32{0, 0, 0, light.ShadowOpacity}
)

const (
	gridDivisions = 100

	// gridLift keeps the grid above the ground plane to avoid depth fighting.
	gridLift float32 = 0.002
)

// platform is a static box with its draw colour.
type platform struct {
	box   physics.Box
	color [4]float32
}

// platforms converts the configured platforms. Invalid colours fall back to grey.
func platforms(cfg *config.Config) []platform {
	out := make([]platform, 0, len(cfg.Environment.Platforms))
	for _, p := range cfg.Environment.Platforms {
		color := platformDefault
		if p.Color != "" {
			c, err := common.ParseHexColor(p.Color)
			if err != nil {
				log.Printf("Warning: platform colour %q: %v", p.Color, err)
			} else {
				color = c
			}
		}
		out = append(out, platform{
			box:   physics.Box{Center: p.Position, Size: p.Size},
			color: color,
		})
	}
	return out
}

func newWorld(cfg *config.Config) physics.World {
	var options []physics.WorldBuilderOption
	for _, p := range platforms(cfg) {
		options = append(options, physics.WithPlatform(p.box))
	}
	return physics.NewWorld(cfg.Environment.GroundSize, options...)
}

// boxModel scales a unit cube to b.
func boxModel(b physics.Box) [16]float32 {
	var m [16]float32
	common.ComposeTRS(m[:], b.Center, common.QuatIdentity, b.Size)
	return m
}

// gridLines builds the ground grid lifted just above the ground plane.
func gridLines(size float32) []renderer.LineVertex {
	var lift [16]float32
	common.ComposeTRS(lift[:], common.Vec3{0, gridLift, 0}, common.QuatIdentity, common.Vec3{1, 1, 1})
	return renderer.TransformLines(renderer.GridLines(size, gridDivisions, gridCenterColor, gridLineColor), lift[:])
}

// colliderLines outlines every collision box.
func colliderLines(boxes []physics.Box) []renderer.LineVertex {
	lines := make([]renderer.LineVertex, 0, len(boxes)*24)
	for _, b := range boxes {
		lines = append(lines, renderer.BoxOutline(b.Min(), b.Max(), colliderColor)...)
	}
	return lines
}

// shadowDraw flattens a model onto the ground along the light direction.
// It reports false when the light does not point downwards.
func shadowDraw(model [16]float32, lightDir [3]float32) (renderer.DrawParams, bool) {
	var flatten [16]float32
	if !light.PlanarShadowMatrix(flatten[:], lightDir, light.ShadowOffset) {
		return renderer.DrawParams{}, false
	}
	params := renderer.DrawParams{Color: shadowColor, Shadow: true}
	common.Mul4(params.Model[:], flatten[:], model[:])
	return params, true
}
