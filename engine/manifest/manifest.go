package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"gopkg.in/yaml.v3"
)

// ErrNoAssetDir is returned when the asset directory does not exist.
var ErrNoAssetDir = errors.New("asset directory not found")

// Manifest is the ordered asset list: the base character first, animation assets after it.
type Manifest struct {
	Models []string `yaml:"models"`
}

// IsAsset reports whether path names a loadable glTF file.
func IsAsset(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".gltf" || ext == ".glb"
}

// Scan lists the glTF files directly inside dir, by file name.
//
// Parameters:
//   - dir: the asset directory
//
// Returns:
//   - []string: file names in directory order
//   - error: ErrNoAssetDir or the read error
func Scan(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", dir, ErrNoAssetDir)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() && IsAsset(e.Name()) {
			files = append(files, e.Name())
		}
	}
	return files, nil
}

// Order sorts files with the one whose stem is base first and the rest in byte order.
// The input is not modified.
func Order(files []string, base string) []string {
	out := append([]string(nil), files...)
	sort.SliceStable(out, func(i, j int) bool {
		bi, bj := common.FileStem(out[i]) == base, common.FileStem(out[j]) == base
		if bi != bj {
			return bi
		}
		return out[i] < out[j]
	})
	return out
}

// Generate scans dir and returns the ordered manifest.
func Generate(dir, base string) (*Manifest, error) {
	files, err := Scan(dir)
	if err != nil {
		return nil, err
	}
	return &Manifest{Models: Order(files, base)}, nil
}

// Save writes m as YAML.
func Save(path string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// Load reads a YAML manifest.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	return &m, nil
}

// Paths joins each entry to dir. Absolute entries are kept as they are.
func (m *Manifest) Paths(dir string) []string {
	out := make([]string, len(m.Models))
	for i, f := range m.Models {
		if filepath.IsAbs(f) {
			out[i] = f
			continue
		}
		out[i] = filepath.Join(dir, strings.TrimPrefix(f, "/"))
	}
	return out
}
