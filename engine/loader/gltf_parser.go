package loader

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
)

var (
	errInvalidGLTFVersion = errors.New("invalid glTF version: must be 2.0")
	errInvalidGLBMagic    = errors.New("invalid GLB magic number")
	errInvalidGLBVersion  = errors.New("invalid GLB version: must be 2")
	errMissingJSONChunk   = errors.New("GLB file missing JSON chunk")
	errInvalidBufferURI   = errors.New("invalid buffer URI")
	errBufferSizeMismatch = errors.New("buffer size mismatch")
	errAccessorOutOfRange = errors.New("accessor reads past the end of its buffer")
)

// gltfParserImpl is the implementation of the gltfParser interface.
type gltfParserImpl struct {
	baseDir        string
	document       *gltfDocument
	glbBinaryChunk []byte
	parents        []int
}

// gltfParser decodes .gltf / .glb containers and reads typed accessor data from their buffers.
type gltfParser interface {
	// Parse reads and decodes the file at path. External buffers resolve relative to its directory.
	//
	// Parameters:
	//   - path: .gltf or .glb file path
	//
	// Returns:
	//   - error: read, container or JSON errors
	Parse(path string) error

	// ParseReader decodes a document from r. External buffer URIs are resolved against baseDir.
	//
	// Parameters:
	//   - r: the data source
	//   - isGLB: whether r holds the binary container
	//   - baseDir: directory for relative buffer URIs (may be empty)
	//
	// Returns:
	//   - error: read, container or JSON errors
	ParseReader(r io.Reader, isGLB bool, baseDir string) error

	// Document returns the decoded document, or nil before a successful parse.
	Document() *gltfDocument

	// ParentOf returns the parent node index of a node, or -1 for scene roots.
	ParentOf(nodeIndex int) int

	ReadScalarAccessor(accessorIndex int) ([]float32, error)
	ReadVec3Accessor(accessorIndex int) ([][3]float32, error)
	ReadVec4Accessor(accessorIndex int) ([][4]float32, error)
	ReadMat4Accessor(accessorIndex int) ([][16]float32, error)
	ReadIndicesAccessor(accessorIndex int) ([]uint32, error)
	ReadJointsAccessor(accessorIndex int) ([][4]uint32, error)
}

var _ gltfParser = &gltfParserImpl{}

func newGLTFParser() gltfParser {
	return &gltfParserImpl{}
}

func (p *gltfParserImpl) Document() *gltfDocument {
	return p.document
}

func (p *gltfParserImpl) ParentOf(nodeIndex int) int {
	if nodeIndex < 0 || nodeIndex >= len(p.parents) {
		return -1
	}
	return p.parents[nodeIndex]
}

func (p *gltfParserImpl) Parse(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	isGLB := strings.EqualFold(filepath.Ext(path), ".glb") ||
		(len(data) >= 4 && binary.LittleEndian.Uint32(data[:4]) == gltfGLBMagic)
	return p.decode(data, isGLB, filepath.Dir(path))
}

func (p *gltfParserImpl) ParseReader(r io.Reader, isGLB bool, baseDir string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read data: %w", err)
	}
	return p.decode(data, isGLB, baseDir)
}

func (p *gltfParserImpl) decode(data []byte, isGLB bool, baseDir string) error {
	p.baseDir = baseDir
	jsonData := data
	if isGLB {
		var err error
		if jsonData, p.glbBinaryChunk, err = splitGLB(data); err != nil {
			return err
		}
	}

	var doc gltfDocument
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return fmt.Errorf("failed to parse glTF JSON: %w", err)
	}
	if !strings.HasPrefix(doc.Asset.Version, "2.") {
		return errInvalidGLTFVersion
	}
	if err := p.loadBuffers(&doc); err != nil {
		return fmt.Errorf("failed to load buffers: %w", err)
	}

	p.parents = make([]int, len(doc.Nodes))
	for i := range p.parents {
		p.parents[i] = -1
	}
	for i, node := range doc.Nodes {
		for _, child := range node.Children {
			if child >= 0 && child < len(p.parents) {
				p.parents[child] = i
			}
		}
	}

	p.document = &doc
	return nil
}

// splitGLB returns the JSON and BIN chunks of a GLB container.
func splitGLB(data []byte) ([]byte, []byte, error) {
	r := bytes.NewReader(data)

	var header gltfGLBHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, nil, fmt.Errorf("failed to read GLB header: %w", err)
	}
	if header.Magic != gltfGLBMagic {
		return nil, nil, errInvalidGLBMagic
	}
	if header.Version != gltfGLBVersion {
		return nil, nil, errInvalidGLBVersion
	}

	var jsonData, binData []byte
	for {
		var chunk gltfGLBChunkHeader
		if err := binary.Read(r, binary.LittleEndian, &chunk); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, nil, fmt.Errorf("failed to read chunk header: %w", err)
		}
		payload := make([]byte, chunk.ChunkLength)
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, nil, fmt.Errorf("failed to read chunk data: %w", err)
		}
		switch chunk.ChunkType {
		case gltfGLBChunkJSON:
			jsonData = payload
		case gltfGLBChunkBIN:
			binData = payload
		}
	}

	if jsonData == nil {
		return nil, nil, errMissingJSONChunk
	}
	return jsonData, binData, nil
}

func (p *gltfParserImpl) loadBuffers(doc *gltfDocument) error {
	for i := range doc.Buffers {
		buf := &doc.Buffers[i]

		switch {
		case buf.URI == "" && i == 0 && p.glbBinaryChunk != nil:
			buf.Data = p.glbBinaryChunk
		case buf.URI == "":
			return fmt.Errorf("buffer %d has no URI and no GLB binary chunk", i)
		case strings.HasPrefix(buf.URI, "data:"):
			data, err := decodeDataURI(buf.URI)
			if err != nil {
				return fmt.Errorf("buffer %d: %w", i, err)
			}
			buf.Data = data
		default:
			data, err := os.ReadFile(filepath.Join(p.baseDir, buf.URI))
			if err != nil {
				return fmt.Errorf("buffer %d: failed to load %q: %w", i, buf.URI, err)
			}
			buf.Data = data
		}

		if len(buf.Data) < buf.ByteLength {
			return fmt.Errorf("buffer %d: %w", i, errBufferSizeMismatch)
		}
	}
	return nil
}

func decodeDataURI(uri string) ([]byte, error) {
	header, payload, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok {
		return nil, errInvalidBufferURI
	}
	if !strings.HasSuffix(header, ";base64") {
		return nil, fmt.Errorf("unsupported data URI encoding: %s", header)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}
	return data, nil
}

// --- Accessors ---

// accessorView resolves an accessor to its raw element bytes.
type accessorView struct {
	acc        *gltfAccessor
	data       []byte
	offset     int
	stride     int
	components int
	compSize   int
}

func (p *gltfParserImpl) view(accessorIndex int, wantType string) (*accessorView, error) {
	if p.document == nil {
		return nil, errors.New("no document loaded")
	}
	if accessorIndex < 0 || accessorIndex >= len(p.document.Accessors) {
		return nil, fmt.Errorf("accessor index %d out of range", accessorIndex)
	}
	acc := &p.document.Accessors[accessorIndex]
	if acc.Type != wantType {
		return nil, fmt.Errorf("accessor %d is %s, want %s", accessorIndex, acc.Type, wantType)
	}
	if acc.Sparse != nil {
		return nil, fmt.Errorf("accessor %d: sparse accessors are not supported", accessorIndex)
	}
	if acc.BufferView == nil || *acc.BufferView >= len(p.document.BufferViews) {
		return nil, fmt.Errorf("accessor %d has no bufferView", accessorIndex)
	}

	bv := &p.document.BufferViews[*acc.BufferView]
	if bv.Buffer < 0 || bv.Buffer >= len(p.document.Buffers) {
		return nil, fmt.Errorf("bufferView %d: buffer %d out of range", *acc.BufferView, bv.Buffer)
	}

	v := &accessorView{
		acc:        acc,
		data:       p.document.Buffers[bv.Buffer].Data,
		offset:     bv.ByteOffset + acc.ByteOffset,
		components: gltfAccessorTypeComponentCount(acc.Type),
		compSize:   gltfComponentTypeSize(acc.ComponentType),
	}
	if v.compSize == 0 {
		return nil, fmt.Errorf("accessor %d: unknown component type %d", accessorIndex, acc.ComponentType)
	}
	v.stride = v.components * v.compSize
	if bv.ByteStride != nil && *bv.ByteStride > 0 {
		v.stride = *bv.ByteStride
	}
	if acc.Count > 0 {
		end := v.offset + (acc.Count-1)*v.stride + v.components*v.compSize
		if end > len(v.data) {
			return nil, fmt.Errorf("accessor %d: %w", accessorIndex, errAccessorOutOfRange)
		}
	}
	return v, nil
}

// float reads component c of element i, applying normalization for integer types.
func (v *accessorView) float(i, c int) float32 {
	at := v.offset + i*v.stride + c*v.compSize
	b := v.data[at:]
	switch v.acc.ComponentType {
	case gltfComponentTypeFloat:
		return math.Float32frombits(binary.LittleEndian.Uint32(b))
	case gltfComponentTypeUnsignedByte:
		if v.acc.Normalized {
			return float32(b[0]) / 255
		}
		return float32(b[0])
	case gltfComponentTypeByte:
		if v.acc.Normalized {
			return max(float32(int8(b[0]))/127, -1)
		}
		return float32(int8(b[0]))
	case gltfComponentTypeUnsignedShort:
		u := binary.LittleEndian.Uint16(b)
		if v.acc.Normalized {
			return float32(u) / 65535
		}
		return float32(u)
	case gltfComponentTypeShort:
		s := int16(binary.LittleEndian.Uint16(b))
		if v.acc.Normalized {
			return max(float32(s)/32767, -1)
		}
		return float32(s)
	case gltfComponentTypeUnsignedInt:
		return float32(binary.LittleEndian.Uint32(b))
	}
	return 0
}

// unsigned reads component c of element i as an unsigned integer.
func (v *accessorView) unsigned(i, c int) (uint32, error) {
	at := v.offset + i*v.stride + c*v.compSize
	b := v.data[at:]
	switch v.acc.ComponentType {
	case gltfComponentTypeUnsignedByte:
		return uint32(b[0]), nil
	case gltfComponentTypeUnsignedShort:
		return uint32(binary.LittleEndian.Uint16(b)), nil
	case gltfComponentTypeUnsignedInt:
		return binary.LittleEndian.Uint32(b), nil
	}
	return 0, fmt.Errorf("component type %d is not an unsigned integer", v.acc.ComponentType)
}

func readFloats[T any](p *gltfParserImpl, accessorIndex int, accType string, fill func(v *accessorView, i int) T) ([]T, error) {
	v, err := p.view(accessorIndex, accType)
	if err != nil {
		return nil, err
	}
	out := make([]T, v.acc.Count)
	for i := range out {
		out[i] = fill(v, i)
	}
	return out, nil
}

func (p *gltfParserImpl) ReadScalarAccessor(accessorIndex int) ([]float32, error) {
	v, err := p.view(accessorIndex, gltfAccessorTypeScalar)
	if err != nil {
		return nil, err
	}
	out := make([]float32, v.acc.Count)
	for i := range out {
		out[i] = v.float(i, 0)
	}
	return out, nil
}

func (p *gltfParserImpl) ReadVec3Accessor(accessorIndex int) ([][3]float32, error) {
	return readFloats(p, accessorIndex, gltfAccessorTypeVec3, func(v *accessorView, i int) [3]float32 {
		return [3]float32{v.float(i, 0), v.float(i, 1), v.float(i, 2)}
	})
}

func (p *gltfParserImpl) ReadVec4Accessor(accessorIndex int) ([][4]float32, error) {
	return readFloats(p, accessorIndex, gltfAccessorTypeVec4, func(v *accessorView, i int) [4]float32 {
		return [4]float32{v.float(i, 0), v.float(i, 1), v.float(i, 2), v.float(i, 3)}
	})
}

func (p *gltfParserImpl) ReadMat4Accessor(accessorIndex int) ([][16]float32, error) {
	return readFloats(p, accessorIndex, gltfAccessorTypeMat4, func(v *accessorView, i int) [16]float32 {
		var m [16]float32
		for c := range m {
			m[c] = v.float(i, c)
		}
		return m
	})
}

func (p *gltfParserImpl) ReadIndicesAccessor(accessorIndex int) ([]uint32, error) {
	v, err := p.view(accessorIndex, gltfAccessorTypeScalar)
	if err != nil {
		return nil, err
	}
	out := make([]uint32, v.acc.Count)
	for i := range out {
		if out[i], err = v.unsigned(i, 0); err != nil {
			return nil, fmt.Errorf("indices accessor %d: %w", accessorIndex, err)
		}
	}
	return out, nil
}

func (p *gltfParserImpl) ReadJointsAccessor(accessorIndex int) ([][4]uint32, error) {
	v, err := p.view(accessorIndex, gltfAccessorTypeVec4)
	if err != nil {
		return nil, err
	}
	out := make([][4]uint32, v.acc.Count)
	for i := range out {
		for c := 0; c < 4; c++ {
			if out[i][c], err = v.unsigned(i, c); err != nil {
				return nil, fmt.Errorf("joints accessor %d: %w", accessorIndex, err)
			}
		}
	}
	return out, nil
}

func gltfComponentTypeSize(componentType int) int {
	switch componentType {
	case gltfComponentTypeByte, gltfComponentTypeUnsignedByte:
		return 1
	case gltfComponentTypeShort, gltfComponentTypeUnsignedShort:
		return 2
	case gltfComponentTypeUnsignedInt, gltfComponentTypeFloat:
		return 4
	}
	return 0
}

func gltfAccessorTypeComponentCount(accessorType string) int {
	switch accessorType {
	case gltfAccessorTypeScalar:
		return 1
	case gltfAccessorTypeVec2:
		return 2
	case gltfAccessorTypeVec3:
		return 3
	case gltfAccessorTypeVec4:
		return 4
	case gltfAccessorTypeMat4:
		return 16
	}
	return 0
}
