package physics

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/solarlune/resolv"
)

const (
	// cellsPerUnit is the resolv space resolution: one world unit spans this many space units.
	cellsPerUnit = 16

	platformTag  = "platform"
	characterTag = "character"

	DefaultGravity    float32 = 9.8
	DefaultStepHeight float32 = 0.55
	DefaultFootprint  float32 = 0.5
	DefaultHeight     float32 = 1.8
)

// Box is an axis-aligned box given by its centre and full size.
type Box struct {
	Center common.Vec3
	Size   common.Vec3
}

// Min returns the lowest corner.
func (b Box) Min() common.Vec3 {
	return common.Sub3(b.Center, common.Scale3(b.Size, 0.5))
}

// Max returns the highest corner.
func (b Box) Max() common.Vec3 {
	return common.Add3(b.Center, common.Scale3(b.Size, 0.5))
}

// Top returns the height of the upper face.
func (b Box) Top() float32 {
	return b.Center[1] + b.Size[1]/2
}

// overlapsXZ reports whether two boxes overlap on the ground plane. Touching edges do not count.
func (b Box) overlapsXZ(o Box) bool {
	bmin, bmax := b.Min(), b.Max()
	omin, omax := o.Min(), o.Max()
	return bmin[0] < omax[0] && bmax[0] > omin[0] && bmin[2] < omax[2] && bmax[2] > omin[2]
}

// world is the implementation of the World interface.
type world struct {
	mu sync.Mutex

	space     *resolv.Space
	halfSize  float32
	platforms []Box
	objects   map[*resolv.Object]int

	character  *resolv.Object
	footprint  float32
	height     float32
	stepHeight float32
	gravity    float32

	fallSpeed float32
	grounded  bool
	last      common.Vec3
}

// World is the static collision world the character walks in: the ground plane y=0 and a set
// of box platforms. Horizontal queries run through a resolv space over the XZ plane.
type World interface {
	// Resolve moves the character from prev towards next.
	// Platforms whose top is within the step height above the feet are climbed; taller ones block
	// the horizontal move. Without support below the feet the character falls under gravity.
	//
	// Parameters:
	//   - prev: foot position at the start of the frame
	//   - next: foot position requested by the controller; its Y is ignored
	//   - dt: elapsed seconds
	//
	// Returns:
	//   - common.Vec3: the resolved foot position
	Resolve(prev, next common.Vec3, dt float32) common.Vec3

	// SupportHeight returns the highest surface under a footprint at (x, z) that can be reached
	// from footY, counting the ground at zero.
	SupportHeight(x, z, footY float32) float32

	// Grounded reports whether the last Resolve ended standing on a surface.
	Grounded() bool

	// Platforms returns the platform boxes.
	Platforms() []Box

	// Colliders returns every collision box for debug drawing, the character's last box included.
	Colliders() []Box
}

var _ World = &world{}

// NewWorld creates a World. The resolv space covers a square of the given side centred on the origin.
//
// Parameters:
//   - size: side length of the walkable area in world units
//   - options: a variadic list of WorldBuilderOption functions
//
// Returns:
//   - World: the world
func NewWorld(size float32, options ...WorldBuilderOption) World {
	if size <= 0 {
		size = 100
	}
	w := &world{
		halfSize:   size / 2,
		objects:    make(map[*resolv.Object]int),
		footprint:  DefaultFootprint,
		height:     DefaultHeight,
		stepHeight: DefaultStepHeight,
		gravity:    DefaultGravity,
		grounded:   true,
	}
	side := int(math.Ceil(float64(size))) * cellsPerUnit
	w.space = resolv.NewSpace(side, side, cellsPerUnit, cellsPerUnit)

	for _, option := range options {
		option(w)
	}

	foot := float64(w.footprint) * cellsPerUnit
	w.character = resolv.NewObject(0, 0, foot, foot, characterTag)
	w.space.Add(w.character)
	w.placeCharacter(0, 0)
	return w
}

// toSpace converts a world XZ point to resolv space coordinates.
func (w *world) toSpace(x, z float32) (float64, float64) {
	return float64(x+w.halfSize) * cellsPerUnit, float64(z+w.halfSize) * cellsPerUnit
}

func (w *world) addPlatform(b Box) {
	x, y := w.toSpace(b.Center[0]-b.Size[0]/2, b.Center[2]-b.Size[2]/2)
	obj := resolv.NewObject(x, y, float64(b.Size[0])*cellsPerUnit, float64(b.Size[2])*cellsPerUnit, platformTag)
	w.space.Add(obj)
	w.objects[obj] = len(w.platforms)
	w.platforms = append(w.platforms, b)
}

func (w *world) placeCharacter(x, z float32) {
	half := w.footprint / 2
	w.character.X, w.character.Y = w.toSpace(x-half, z-half)
	w.character.Update()
}

func (w *world) footBox(x, y, z float32) Box {
	return Box{
		Center: common.Vec3{x, y + w.height/2, z},
		Size:   common.Vec3{w.footprint, w.height, w.footprint},
	}
}

// candidates returns platforms sharing resolv cells with the footprint at (x, z).
// Callers hold w.mu.
func (w *world) candidates(x, z float32) []Box {
	sx, sz := w.toSpace(x-w.footprint/2, z-w.footprint/2)
	check := w.character.Check(sx-w.character.X, sz-w.character.Y, platformTag)
	if check == nil {
		return nil
	}
	found := check.ObjectsByTags(platformTag)
	out := make([]Box, 0, len(found))
	for _, obj := range found {
		if i, ok := w.objects[obj]; ok {
			out = append(out, w.platforms[i])
		}
	}
	return out
}

func (w *world) Resolve(prev, next common.Vec3, dt float32) common.Vec3 {
	w.mu.Lock()
	defer w.mu.Unlock()
	if dt < 0 {
		dt = 0
	}

	foot := prev[1]
	x, z := next[0], next[2]
	if w.blocked(x, z, foot) {
		x, z = prev[0], prev[2]
	}
	support := w.supportHeight(x, z, foot)

	y := foot
	switch {
	case support >= foot:
		y = support
		w.fallSpeed = 0
	default:
		w.fallSpeed += w.gravity * dt
		y = foot - w.fallSpeed*dt
		if y <= support {
			y = support
			w.fallSpeed = 0
		}
	}
	w.grounded = y == support

	w.placeCharacter(x, z)
	w.last = common.Vec3{x, y, z}
	return w.last
}

// blocked reports whether a platform too tall to step onto overlaps the footprint at (x, z).
func (w *world) blocked(x, z, foot float32) bool {
	probe := w.footBox(x, foot, z)
	for _, p := range w.candidates(x, z) {
		if probe.overlapsXZ(p) && p.Top() > foot+w.stepHeight && p.Min()[1] < foot+w.height {
			return true
		}
	}
	return false
}

func (w *world) SupportHeight(x, z, footY float32) float32 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.supportHeight(x, z, footY)
}

func (w *world) supportHeight(x, z, foot float32) float32 {
	probe := w.footBox(x, foot, z)
	var support float32
	for _, p := range w.candidates(x, z) {
		top := p.Top()
		if probe.overlapsXZ(p) && top <= foot+w.stepHeight && top > support {
			support = top
		}
	}
	return support
}

func (w *world) Grounded() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.grounded
}

func (w *world) Platforms() []Box {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]Box(nil), w.platforms...)
}

func (w *world) Colliders() []Box {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := append([]Box(nil), w.platforms...)
	return append(out, w.footBox(w.last[0], w.last[1], w.last[2]))
}
