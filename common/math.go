package common

import (
	"math"
	"unsafe"
)

// Vec3 is a three component vector used for positions, scales and directions.
type Vec3 = [3]float32

// Quat is a unit quaternion stored as x, y, z, w (glTF order).
type Quat = [4]float32

// QuatIdentity is the rotation that leaves a vector unchanged.
var QuatIdentity = Quat{0, 0, 0, 1}

// --- Matrices (column-major, 16 elements) ---

// Identity resets a 4x4 matrix (flat slice) to the identity matrix.
//
// Parameters:
//   - m: destination slice (must be at least 16 elements)
func Identity(m []float32) {
	clear(m[:16])
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
}

// Mul4 stores a * b in out. out may alias a or b.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - a: left-hand matrix
//   - b: right-hand matrix
func Mul4(out, a, b []float32) {
	var buf [16]float32
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += a[k*4+row] * b[col*4+k]
			}
			buf[col*4+row] = sum
		}
	}
	copy(out, buf[:])
}

// Perspective writes a right-handed perspective projection with WebGPU clip depth [0, 1].
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - fovY: vertical field of view in radians
//   - aspect: viewport width divided by height
//   - near: near plane distance (> 0)
//   - far: far plane distance (> near)
func Perspective(out []float32, fovY, aspect, near, far float32) {
	f := 1 / float32(math.Tan(float64(fovY)/2))
	clear(out[:16])
	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1
	out[14] = near * far / (near - far)
}

// LookAt writes a view matrix for an eye looking at center with the given up vector.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - eye: camera position
//   - center: point the camera looks at
//   - up: world up direction
func LookAt(out []float32, eye, center, up Vec3) {
	z := Normalize3(Sub3(eye, center))
	x := Normalize3(Cross3(up, z))
	y := Cross3(z, x)

	out[0], out[4], out[8], out[12] = x[0], x[1], x[2], -Dot3(x, eye)
	out[1], out[5], out[9], out[13] = y[0], y[1], y[2], -Dot3(y, eye)
	out[2], out[6], out[10], out[14] = z[0], z[1], z[2], -Dot3(z, eye)
	out[3], out[7], out[11], out[15] = 0, 0, 0, 1
}

// ComposeTRS writes the matrix T * R * S.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - t: translation
//   - r: rotation quaternion (x, y, z, w)
//   - s: scale
func ComposeTRS(out []float32, t Vec3, r Quat, s Vec3) {
	x, y, z, w := r[0], r[1], r[2], r[3]
	x2, y2, z2 := x+x, y+y, z+z
	xx, xy, xz := x*x2, x*y2, x*z2
	yy, yz, zz := y*y2, y*z2, z*z2
	wx, wy, wz := w*x2, w*y2, w*z2

	out[0] = (1 - (yy + zz)) * s[0]
	out[1] = (xy + wz) * s[0]
	out[2] = (xz - wy) * s[0]
	out[3] = 0

	out[4] = (xy - wz) * s[1]
	out[5] = (1 - (xx + zz)) * s[1]
	out[6] = (yz + wx) * s[1]
	out[7] = 0

	out[8] = (xz + wy) * s[2]
	out[9] = (yz - wx) * s[2]
	out[10] = (1 - (xx + yy)) * s[2]
	out[11] = 0

	out[12], out[13], out[14], out[15] = t[0], t[1], t[2], 1
}

// TransformPoint applies m to p (w = 1).
func TransformPoint(m []float32, p Vec3) Vec3 {
	return Vec3{
		m[0]*p[0] + m[4]*p[1] + m[8]*p[2] + m[12],
		m[1]*p[0] + m[5]*p[1] + m[9]*p[2] + m[13],
		m[2]*p[0] + m[6]*p[1] + m[10]*p[2] + m[14],
	}
}

// TransformDir applies the upper 3x3 of m to d (w = 0).
func TransformDir(m []float32, d Vec3) Vec3 {
	return Vec3{
		m[0]*d[0] + m[4]*d[1] + m[8]*d[2],
		m[1]*d[0] + m[5]*d[1] + m[9]*d[2],
		m[2]*d[0] + m[6]*d[1] + m[10]*d[2],
	}
}

// --- Vectors ---

func Add3(a, b Vec3) Vec3 { return Vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]} }

func Sub3(a, b Vec3) Vec3 { return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]} }

func Scale3(a Vec3, s float32) Vec3 { return Vec3{a[0] * s, a[1] * s, a[2] * s} }

func Dot3(a, b Vec3) float32 { return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] }

func Cross3(a, b Vec3) Vec3 {
	return Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// Normalize3 returns a unit-length copy of v, or v unchanged when its length is zero.
func Normalize3(v Vec3) Vec3 {
	l := float32(math.Sqrt(float64(Dot3(v, v))))
	if l == 0 {
		return v
	}
	return Scale3(v, 1/l)
}

// Lerp3 linearly interpolates between a and b.
func Lerp3(a, b Vec3, t float32) Vec3 {
	return Vec3{
		a[0] + (b[0]-a[0])*t,
		a[1] + (b[1]-a[1])*t,
		a[2] + (b[2]-a[2])*t,
	}
}

// --- Quaternions ---

// QuatFromYaw returns the rotation of angle radians around +Y.
func QuatFromYaw(angle float32) Quat {
	s, c := math.Sincos(float64(angle) / 2)
	return Quat{0, float32(s), 0, float32(c)}
}

// QuatNormalize returns q scaled to unit length. A zero quaternion becomes the identity.
func QuatNormalize(q Quat) Quat {
	l := float32(math.Sqrt(float64(q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3])))
	if l == 0 {
		return QuatIdentity
	}
	return Quat{q[0] / l, q[1] / l, q[2] / l, q[3] / l}
}

// QuatSlerp spherically interpolates between a and b along the shortest arc.
// Nearly parallel inputs fall back to normalized linear interpolation.
//
// Parameters:
//   - a: start rotation (t = 0)
//   - b: end rotation (t = 1)
//   - t: interpolation factor
//
// Returns:
//   - Quat: the interpolated unit quaternion
func QuatSlerp(a, b Quat, t float32) Quat {
	cos := a[0]*b[0] + a[1]*b[1] + a[2]*b[2] + a[3]*b[3]
	if cos < 0 {
		cos = -cos
		b = Quat{-b[0], -b[1], -b[2], -b[3]}
	}

	wa, wb := 1-t, t
	if cos < 0.9995 {
		theta := math.Acos(float64(cos))
		sin := math.Sin(theta)
		wa = float32(math.Sin(float64(1-t)*theta) / sin)
		wb = float32(math.Sin(float64(t)*theta) / sin)
	}

	return QuatNormalize(Quat{
		a[0]*wa + b[0]*wb,
		a[1]*wa + b[1]*wb,
		a[2]*wa + b[2]*wb,
		a[3]*wa + b[3]*wb,
	})
}

// --- Buffers ---

// SliceToBytes views a slice as raw bytes for GPU buffer uploads.
// The returned slice shares memory with data.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte view of data, or nil if data is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), int(unsafe.Sizeof(zero))*len(data))
}

// StructToBytes views a struct as raw bytes for uniform uploads.
func StructToBytes[T any](v *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), int(unsafe.Sizeof(*v)))
}
