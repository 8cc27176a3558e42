package common

import (
	"fmt"
	"strconv"
	"strings"
)

// Coalesce returns the first non-zero value from the provided values, or the zero value if all are zero.
//
// Parameters:
//   - values: a variadic list of values to check for non-zero status
//
// Returns:
//   - T: the first non-zero value from the input, or the zero value if all are zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// Clamp limits v to the closed range [lo, hi].
func Clamp[T ~float32 | ~float64 | ~int](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// FileStem strips any directory prefix and the final extension from an asset identifier.
// Both slash styles are treated as separators so manifest entries written on any platform
// resolve to the same name.
//
// Parameters:
//   - path: asset path or URL-like identifier, e.g. "/models/Crouch To Stand.glb"
//
// Returns:
//   - string: the bare descriptive name, e.g. "Crouch To Stand"
func FileStem(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		path = path[i+1:]
	}
	if i := strings.LastIndex(path, "."); i > 0 {
		path = path[:i]
	}
	return path
}

// ParseHexColor converts "#rrggbb" (the leading '#' is optional) to an opaque RGBA colour.
func ParseHexColor(s string) ([4]float32, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return [4]float32{}, fmt.Errorf("invalid hex colour %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return [4]float32{}, fmt.Errorf("invalid hex colour %q: %w", s, err)
	}
	return [4]float32{
		float32(v>>16&0xff) / 255,
		float32(v>>8&0xff) / 255,
		float32(v&0xff) / 255,
		1,
	}, nil
}

// MustParseHexColor is ParseHexColor for compile-time constants. It panics on malformed input.
func MustParseHexColor(s string) [4]float32 {
	c, err := ParseHexColor(s)
	if err != nil {
		panic(err)
	}
	return c
}
