package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestOrder(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		base  string
		want  []string
	}{
		{"base first", []string{"Jogging.glb", "X-Bot.glb", "Idle.glb"}, "X-Bot", []string{"X-Bot.glb", "Idle.glb", "Jogging.glb"}},
		{"byte order", []string{"b.glb", "B.glb", "a.gltf"}, "X-Bot", []string{"B.glb", "a.gltf", "b.glb"}},
		{"no files", nil, "X-Bot", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Order(tt.files, tt.base)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Order(%q, %q) = %q, want %q", tt.files, tt.base, got, tt.want)
			}
		})
	}
}

func TestGenerateSaveLoad(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"Walking.GLB", "X-Bot.glb", "notes.txt", "Idle.gltf"} {
		touch(t, filepath.Join(dir, name))
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.glb"), 0o755); err != nil {
		t.Fatal(err)
	}

	m, err := Generate(dir, "X-Bot")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	want := []string{"X-Bot.glb", "Idle.gltf", "Walking.GLB"}
	if !reflect.DeepEqual(m.Models, want) {
		t.Fatalf("Generate() = %q, want %q", m.Models, want)
	}

	path := filepath.Join(dir, "models.yaml")
	if err := Save(path, m); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(loaded.Models, want) {
		t.Errorf("Load() = %q, want %q", loaded.Models, want)
	}
	if got := loaded.Paths(dir)[0]; got != filepath.Join(dir, "X-Bot.glb") {
		t.Errorf("Paths()[0] = %q", got)
	}
}

func TestScanMissingDir(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "public"))
	if !errors.Is(err, ErrNoAssetDir) {
		t.Errorf("Scan() error = %v, want %v", err, ErrNoAssetDir)
	}
}

func TestPathsStripsLeadingSlash(t *testing.T) {
	m := &Manifest{Models: []string{"/X-Bot.glb"}}
	if got, want := m.Paths("public")[0], filepath.Join("public", "X-Bot.glb"); got != want {
		t.Errorf("Paths() = %q, want %q", got, want)
	}
}

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Close()

	touch(t, filepath.Join(dir, "ignored.txt"))
	target := filepath.Join(dir, "Wave.glb")
	touch(t, target)

	select {
	case got := <-w.Events:
		if got != target {
			t.Errorf("event = %q, want %q", got, target)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no event for new asset")
	}

	if err := w.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	for range w.Events {
	}
}
