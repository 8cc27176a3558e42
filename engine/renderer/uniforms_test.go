package renderer

import (
	"encoding/binary"
	"math"
	"testing"
)

func floatAt(b []byte, i int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
}

func TestFrameUniformsBytes(t *testing.T) {
	f := FrameUniforms{
		LightDirection: [3]float32{0, -1, 0},
		Ambient:        [3]float32{0.5, 0.5, 0.5},
		Directional:    [3]float32{1, 1, 1},
	}
	f.ViewProjection[0] = 2
	b := f.bytes()
	if len(b) != frameUniformSize {
		t.Fatalf("len(bytes()) = %d, want %d", len(b), frameUniformSize)
	}
	tests := []struct {
		index int
		want  float32
	}{
		{0, 2},
		{17, -1},
		{20, 0.5},
		{24, 1},
	}
	for _, tt := range tests {
		if got := floatAt(b, tt.index); got != tt.want {
			t.Errorf("float %d = %v, want %v", tt.index, got, tt.want)
		}
	}
}

func TestDrawParamsBytes(t *testing.T) {
	p := DrawParams{Color: [4]float32{0.25, 0.5, 0.75, 1}, Lit: true}
	b := p.bytes()
	if len(b) != objectUniformSize {
		t.Fatalf("len(bytes()) = %d, want %d", len(b), objectUniformSize)
	}
	if got := floatAt(b, 17); got != 0.5 {
		t.Errorf("colour g = %v, want 0.5", got)
	}
	if got := floatAt(b, 20); got != 1 {
		t.Errorf("lit flag = %v, want 1", got)
	}
	p.Lit = false
	if got := floatAt(p.bytes(), 20); got != 0 {
		t.Errorf("unlit flag = %v, want 0", got)
	}
}
