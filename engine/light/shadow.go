package light

// ShadowOffset lifts projected shadows above the ground to avoid depth fighting.
const ShadowOffset float32 = 0.005

// ShadowOpacity is the alpha of projected shadow geometry.
const ShadowOpacity float32 = 0.35

// PlanarShadowMatrix writes the matrix that flattens geometry onto the plane y = planeY along
// the direction of a directional light. Returns false, leaving out untouched, when the light
// does not point downward.
//
// Parameters:
//   - out: destination, at least 16 floats, column-major
//   - dir: light ray direction
//   - planeY: height of the receiving plane
//
// Returns:
//   - bool: whether a projection exists
func PlanarShadowMatrix(out []float32, dir [3]float32, planeY float32) bool {
	if dir[1] >= -1e-4 {
		return false
	}
	sx, sz := dir[0]/dir[1], dir[2]/dir[1]
	copy(out, []float32{
		1, 0, 0, 0,
		-sx, 0, -sz, 0,
		0, 0, 1, 0,
		sx * planeY, planeY, sz * planeY, 1,
	})
	return true
}
