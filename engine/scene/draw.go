package scene

import (
	"fmt"
	"log"

	"github.com/Carmen-Shannon/oxy-viewer/engine/game_object"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
)

// gpuState is owned by the render goroutine.
type gpuState struct {
	ready     bool
	failed    bool
	ground    renderer.Mesh
	box       renderer.Mesh
	grid      []renderer.LineVertex
	platforms []platform

	owner  game_object.GameObject // character whose meshes are uploaded
	meshes []*characterMesh
}

// characterMesh is one uploaded primitive of the character with its skinning scratch space.
type characterMesh struct {
	source    model.ImportedMesh
	mesh      renderer.Mesh
	positions [][3]float32
	normals   [][3]float32
}

func (g *gpuState) release() {
	for _, m := range []renderer.Mesh{g.ground, g.box} {
		if m != nil {
			m.Release()
		}
	}
	g.ground, g.box, g.ready = nil, nil, false
	g.releaseCharacter()
}

func (g *gpuState) releaseCharacter() {
	for _, cm := range g.meshes {
		cm.mesh.Release()
	}
	g.meshes = nil
	g.owner = nil
}

// ensureStatic uploads the ground and the unit cube used for platforms.
func (s *scene) ensureStatic() bool {
	g := &s.gpu
	if g.ready || g.failed {
		return g.ready
	}
	size := s.cfg.Environment.GroundSize
	groundVerts, groundIdx := renderer.PlaneGeometry(size)
	ground, err := s.r.UploadMesh("ground", groundVerts, groundIdx)
	if err != nil {
		log.Printf("Warning: failed to upload ground: %v", err)
		g.failed = true
		return false
	}
	boxVerts, boxIdx := renderer.BoxGeometry([3]float32{1, 1, 1})
	box, err := s.r.UploadMesh("platform", boxVerts, boxIdx)
	if err != nil {
		ground.Release()
		log.Printf("Warning: failed to upload platform mesh: %v", err)
		g.failed = true
		return false
	}
	g.ground, g.box = ground, box
	g.grid = gridLines(size)
	g.platforms = platforms(s.cfg)
	g.ready = true
	return true
}

// syncCharacter uploads the meshes of a newly installed character.
func (s *scene) syncCharacter(character game_object.GameObject) {
	g := &s.gpu
	if character == g.owner {
		return
	}
	g.releaseCharacter()
	g.owner = character
	if character == nil || character.Model() == nil {
		return
	}

	for i, src := range character.Model().Meshes() {
		vertices := renderer.MeshVertices(&src, nil, nil)
		mesh, err := s.r.UploadMesh(fmt.Sprintf("%s/%s", character.Model().Name(), src.Name), vertices, src.Indices)
		if err != nil {
			log.Printf("Warning: failed to upload mesh %d of %s: %v", i, character.Model().Name(), err)
			continue
		}
		cm := &characterMesh{source: src, mesh: mesh}
		if src.Skinned() {
			cm.positions = make([][3]float32, len(src.Positions))
			cm.normals = make([][3]float32, len(src.Normals))
		}
		g.meshes = append(g.meshes, cm)
	}
}

func (s *scene) Draw() {
	if s.r == nil || !s.ensureStatic() {
		return
	}
	st := s.store.Get()
	character := s.Character()
	s.syncCharacter(character)
	g := &s.gpu

	s.r.DrawMesh(g.ground, renderer.DrawParams{Color: groundColor, Lit: true})
	if st.Environment.GridVisible {
		s.r.DrawLines(g.grid)
	}

	type caster struct {
		mesh  renderer.Mesh
		model [16]float32
	}
	var casters []caster
	for _, p := range g.platforms {
		m := boxModel(p.box)
		s.r.DrawMesh(g.box, renderer.DrawParams{Model: m, Color: p.color, Lit: true})
		casters = append(casters, caster{g.box, m})
	}

	if character != nil && character.Enabled() {
		var m [16]float32
		character.ModelMatrix(m[:])
		mixer := character.Mixer()
		for _, cm := range g.meshes {
			if cm.positions != nil && mixer != nil {
				mixer.Skin(&cm.source, cm.positions, cm.normals)
				cm.mesh.Update(renderer.MeshVertices(&cm.source, cm.positions, cm.normals))
			}
			s.r.DrawMesh(cm.mesh, renderer.DrawParams{Model: m, Color: cm.source.BaseColor, Lit: true})
			if cm.source.CastShadow {
				casters = append(casters, caster{cm.mesh, m})
			}
		}
	}

	// shadows blend over the opaque pass
	if s.directional.CastsShadows() && s.directional.Enabled() && s.directional.Intensity() > 0 {
		dir := s.directional.Direction()
		for _, c := range casters {
			if params, ok := shadowDraw(c.model, dir); ok {
				s.r.DrawMesh(c.mesh, params)
			}
		}
	}

	if st.DebugPhysics {
		s.r.DrawLines(colliderLines(s.world.Colliders()))
	}
}
