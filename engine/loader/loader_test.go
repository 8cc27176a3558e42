package loader

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testBuffer builds the binary payload shared by the fixture documents.
func testBuffer() []byte {
	var buf bytes.Buffer
	w := func(v any) { _ = binary.Write(&buf, binary.LittleEndian, v) }

	w([9]float32{0, 0, 0, 1, 0, 0, 0, 1, 0})                        // positions @0
	w([12]uint8{0, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0})                // joints @36
	w([12]float32{1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0})              // weights @48
	w([3]uint16{0, 1, 2})                                           // indices @96
	w([2]byte{})                                                    // pad to 104
	w([16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, -1, 0, 1}) // IBM joint slot 0 (Spine) @104
	w([16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1})  // IBM joint slot 1 (Hips) @168
	w([2]float32{0, 1})                                             // times @232
	s := float32(math.Sqrt2 / 2)
	w([8]float32{0, 0, 0, 1, 0, s, 0, s}) // rotations @240
	w([6]float32{0, 0, 0, 0, 0, 2})       // translations @272
	return buf.Bytes()
}

func testDocument(bufferURI string, byteLength int) string {
	return fmt.Sprintf(`{
  "asset": {"version": "2.0"},
  "scene": 0,
  "scenes": [{"nodes": [0, 3, 4]}],
  "nodes": [
    {"name": "Armature", "translation": [0, 1, 0], "children": [1]},
    {"name": "Hips", "children": [2]},
    {"name": "Spine", "translation": [0, 1, 0]},
    {"name": "Body", "mesh": 0, "skin": 0},
    {"name": "Prop"}
  ],
  "meshes": [{"name": "BodyMesh", "primitives": [{"attributes": {"POSITION": 0, "JOINTS_0": 1, "WEIGHTS_0": 2}, "indices": 3, "material": 0}]}],
  "materials": [{"name": "Skin", "pbrMetallicRoughness": {"baseColorFactor": [0.2, 0.4, 0.6, 1]}}],
  "skins": [{"joints": [2, 1], "inverseBindMatrices": 4}],
  "animations": [
    {"name": "Wave", "channels": [{"sampler": 0, "target": {"node": 2, "path": "rotation"}}], "samplers": [{"input": 5, "output": 6}]},
    {"channels": [{"sampler": 0, "target": {"node": 4, "path": "translation"}}], "samplers": [{"input": 5, "output": 7}]}
  ],
  "accessors": [
    {"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3"},
    {"bufferView": 1, "componentType": 5121, "count": 3, "type": "VEC4"},
    {"bufferView": 2, "componentType": 5126, "count": 3, "type": "VEC4"},
    {"bufferView": 3, "componentType": 5123, "count": 3, "type": "SCALAR"},
    {"bufferView": 4, "componentType": 5126, "count": 2, "type": "MAT4"},
    {"bufferView": 5, "componentType": 5126, "count": 2, "type": "SCALAR"},
    {"bufferView": 6, "componentType": 5126, "count": 2, "type": "VEC4"},
    {"bufferView": 7, "componentType": 5126, "count": 2, "type": "VEC3"}
  ],
  "bufferViews": [
    {"buffer": 0, "byteOffset": 0, "byteLength": 36},
    {"buffer": 0, "byteOffset": 36, "byteLength": 12},
    {"buffer": 0, "byteOffset": 48, "byteLength": 48},
    {"buffer": 0, "byteOffset": 96, "byteLength": 6},
    {"buffer": 0, "byteOffset": 104, "byteLength": 128},
    {"buffer": 0, "byteOffset": 232, "byteLength": 8},
    {"buffer": 0, "byteOffset": 240, "byteLength": 32},
    {"buffer": 0, "byteOffset": 272, "byteLength": 24}
  ],
  "buffers": [{"uri": %q, "byteLength": %d}]
}`, bufferURI, byteLength)
}

func embeddedDocument() string {
	data := testBuffer()
	return testDocument("data:application/octet-stream;base64,"+base64.StdEncoding.EncodeToString(data), len(data))
}

// glbContainer wraps a JSON document and binary chunk in a GLB container.
func glbContainer(jsonDoc string, bin []byte, magic uint32) []byte {
	for len(jsonDoc)%4 != 0 {
		jsonDoc += " "
	}
	var buf bytes.Buffer
	total := 12 + 8 + len(jsonDoc) + 8 + len(bin)
	_ = binary.Write(&buf, binary.LittleEndian, gltfGLBHeader{Magic: magic, Version: 2, Length: uint32(total)})
	_ = binary.Write(&buf, binary.LittleEndian, gltfGLBChunkHeader{ChunkLength: uint32(len(jsonDoc)), ChunkType: gltfGLBChunkJSON})
	buf.WriteString(jsonDoc)
	_ = binary.Write(&buf, binary.LittleEndian, gltfGLBChunkHeader{ChunkLength: uint32(len(bin)), ChunkType: gltfGLBChunkBIN})
	buf.Write(bin)
	return buf.Bytes()
}

func TestLoadReaderImportsSkeletonMeshesAndClips(t *testing.T) {
	l := NewLoader(BackendTypeGLTF)
	m, err := l.LoadReader("robot", strings.NewReader(embeddedDocument()), false)
	if err != nil {
		t.Fatalf("LoadReader() error = %v", err)
	}

	skel := m.Skeleton()
	if skel == nil || len(skel.Bones) != 2 {
		t.Fatalf("Skeleton() = %+v, want 2 bones", skel)
	}
	hips, spine := skel.BoneIndex("Hips"), skel.BoneIndex("Spine")
	if hips != 0 || spine != 1 {
		t.Errorf("bone order = (Hips %d, Spine %d), want parents first (0, 1)", hips, spine)
	}
	if got := skel.Bones[spine].ParentIndex; got != hips {
		t.Errorf("Spine.ParentIndex = %d, want %d", got, hips)
	}
	if got := skel.Bones[hips].ParentWorld[13]; got != 1 {
		t.Errorf("Hips.ParentWorld translation y = %v, want 1 (Armature offset)", got)
	}
	if got := skel.Bones[spine].InverseBindMatrix[13]; got != -1 {
		t.Errorf("Spine inverse bind y = %v, want -1", got)
	}

	meshes := m.Meshes()
	if len(meshes) != 1 {
		t.Fatalf("len(Meshes()) = %d, want 1", len(meshes))
	}
	mesh := meshes[0]
	if mesh.Name != "Body" || !mesh.Skinned() {
		t.Errorf("mesh = (%q, skinned %v), want (\"Body\", true)", mesh.Name, mesh.Skinned())
	}
	// vertex 0 was bound to joint slot 0 (Spine), which sorts to bone 1
	if got := mesh.Joints[0][0]; got != uint32(spine) {
		t.Errorf("vertex 0 joint = %d, want %d", got, spine)
	}
	if got := mesh.BaseColor; got != [4]float32{0.2, 0.4, 0.6, 1} {
		t.Errorf("BaseColor = %v, want material colour", got)
	}
	if len(mesh.Normals) != 3 {
		t.Errorf("len(Normals) = %d, want generated normals for 3 vertices", len(mesh.Normals))
	}

	clips := m.Animations()
	if len(clips) != 2 {
		t.Fatalf("len(Animations()) = %d, want 2", len(clips))
	}
	if clips[0].Name != "Wave" || clips[1].Name != "animation_1" {
		t.Errorf("clip names = [%q %q], want [Wave animation_1]", clips[0].Name, clips[1].Name)
	}
	if clips[0].Duration != 1 {
		t.Errorf("Wave.Duration = %v, want 1", clips[0].Duration)
	}
	ch := clips[0].Channels[0]
	if ch.BoneName != "Spine" || ch.BoneIndex != spine || len(ch.RotationKeys) != 2 {
		t.Errorf("Wave channel = %+v, want Spine rotation with 2 keys", ch)
	}
	prop := clips[1].Channels[0]
	if prop.BoneName != "Prop" || prop.BoneIndex != -1 || prop.PositionKeys[1].Value[2] != 2 {
		t.Errorf("animation_1 channel = %+v, want unbound Prop translation", prop)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		data  []byte
		isGLB bool
		want  error
	}{
		{"gltf 1.0", []byte(`{"asset": {"version": "1.0"}}`), false, errInvalidGLTFVersion},
		{"bad magic", glbContainer(`{"asset": {"version": "2.0"}}`, nil, 0xdeadbeef), true, errInvalidGLBMagic},
		{"bad data uri", []byte(`{"asset": {"version": "2.0"}, "buffers": [{"uri": "data:nocomma", "byteLength": 1}]}`), false, errInvalidBufferURI},
		{"short buffer", []byte(`{"asset": {"version": "2.0"}, "buffers": [{"uri": "data:application/octet-stream;base64,AAAA", "byteLength": 64}]}`), false, errBufferSizeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newGLTFParser().ParseReader(bytes.NewReader(tt.data), tt.isGLB, "")
			if !errors.Is(err, tt.want) {
				t.Errorf("ParseReader() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseGLB(t *testing.T) {
	bin := testBuffer()
	doc := strings.Replace(testDocument("", len(bin)), `"uri": "", `, "", 1)
	m, err := NewLoader(BackendTypeGLTF).LoadReader("robot.glb", bytes.NewReader(glbContainer(doc, bin, gltfGLBMagic)), true)
	if err != nil {
		t.Fatalf("LoadReader(glb) error = %v", err)
	}
	if got := len(m.Animations()); got != 2 {
		t.Errorf("len(Animations()) = %d, want 2", got)
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	_, err := NewLoader(BackendTypeGLTF).Load("X-Bot.fbx")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Load(.fbx) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestLoadAllPreservesOrderAndCaches(t *testing.T) {
	dir := t.TempDir()
	bin := testBuffer()
	if err := os.WriteFile(filepath.Join(dir, "robot.bin"), bin, 0o644); err != nil {
		t.Fatal(err)
	}
	names := []string{"X-Bot.gltf", "Jogging.gltf", "Start Walking.gltf"}
	var paths []string
	for _, name := range names {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(testDocument("robot.bin", len(bin))), 0o644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, p)
	}

	l := NewLoader(BackendTypeGLTF, WithWorkers(2))
	models, err := l.LoadAll(paths)
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	for i, m := range models {
		if m.Source() != paths[i] {
			t.Errorf("models[%d].Source() = %q, want %q", i, m.Source(), paths[i])
		}
	}
	if models[0].MeshCount() != 1 {
		t.Errorf("base MeshCount() = %d, want 1", models[0].MeshCount())
	}
	if models[1].MeshCount() != 0 {
		t.Errorf("auxiliary MeshCount() = %d, want 0 (animation-only)", models[1].MeshCount())
	}
	if again, _ := l.Load(paths[0]); again != models[0] {
		t.Error("Load() after LoadAll() did not return the cached model")
	}
}

func TestLoadAllReportsFirstError(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "Missing.gltf")
	_, err := NewLoader(BackendTypeGLTF).LoadAll([]string{missing})
	if err == nil || !strings.Contains(err.Error(), "Missing.gltf") {
		t.Errorf("LoadAll() error = %v, want error naming the missing file", err)
	}
}
