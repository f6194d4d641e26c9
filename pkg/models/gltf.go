package models

import (
	"encoding/binary"
	"fmt"
	"math"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/tinyrasta/pkg/math3d"
)

// GLTFLoader loads the triangle primitives of GLTF/GLB files.
// Positions get the same Y inversion and winding swap as OBJ faces so both
// formats come out facing the same way.
type GLTFLoader struct {
	// MaxVertices caps the vertex pool across all primitives. Vertices
	// past it are dropped and counted in Mesh.VerticesDropped; faces that
	// reference them are rejected. Zero or less means unlimited.
	MaxVertices int

	// MaxTriangles caps the triangle pool. Zero or less means unlimited.
	MaxTriangles int
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		MaxVertices:  DefaultMaxVertices,
		MaxTriangles: DefaultMaxTriangles,
	}
}

// LoadGLB loads a binary GLTF (.glb) file.
func LoadGLB(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load loads a GLTF or GLB file and returns a Mesh.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	return l.FromDocument(doc, filepath.Base(path))
}

// FromDocument converts every triangle primitive of an already decoded
// document.
func (l *GLTFLoader) FromDocument(doc *gltf.Document, name string) (*Mesh, error) {
	mesh := NewMesh(name)

	for _, m := range doc.Meshes {
		if err := l.processMesh(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}

	mesh.SetColor(math3d.V4(1, 1, 1, 1))
	return mesh, nil
}

// processMesh extracts geometry from a GLTF mesh.
func (l *GLTFLoader) processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Skip non-triangle primitives (lines, points, etc)
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := readVec3Accessor(doc, posIdx)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}
		if l.MaxVertices > 0 {
			room := max(0, l.MaxVertices-mesh.VerticesRead)
			if len(positions) > room {
				mesh.VerticesDropped += len(positions) - room
				positions = positions[:room]
			}
		}
		for i := range positions {
			positions[i].Y = -positions[i].Y
		}
		mesh.VerticesRead += len(positions)

		var indices []int
		if prim.Indices != nil {
			indices, err = readIndices(doc, *prim.Indices)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			// No indices, assume sequential triangles
			indices = make([]int, len(positions))
			for i := range indices {
				indices[i] = i
			}
		}

		for i := 0; i+2 < len(indices); i += 3 {
			i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
			if i0 >= len(positions) || i1 >= len(positions) || i2 >= len(positions) {
				mesh.FacesRejected++
				continue
			}
			if l.MaxTriangles > 0 && len(mesh.Triangles) >= l.MaxTriangles {
				mesh.FacesDropped++
				continue
			}
			// Swap the last two indices, as the OBJ importer does
			mesh.Triangles = append(mesh.Triangles, Tri(positions[i0], positions[i2], positions[i1]))
		}
	}

	return nil
}

// readVec3Accessor reads Vec3 data from a GLTF accessor.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", accessorIdx)
	}
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 {
		return nil, fmt.Errorf("expected VEC3, got %v", accessor.Type)
	}

	data, err := readAccessorData(doc, accessor)
	if err != nil {
		return nil, err
	}

	floats, ok := data.([][3]float32)
	if !ok {
		return nil, fmt.Errorf("unexpected data type for VEC3")
	}

	result := make([]math3d.Vec3, len(floats))
	for i, f := range floats {
		result[i] = math3d.V3(f[0], f[1], f[2])
	}

	return result, nil
}

// readIndices reads index data from a GLTF accessor.
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", accessorIdx)
	}
	accessor := doc.Accessors[accessorIdx]

	data, err := readAccessorData(doc, accessor)
	if err != nil {
		return nil, err
	}

	switch v := data.(type) {
	case []uint8:
		return widen(v), nil
	case []uint16:
		return widen(v), nil
	case []uint32:
		return widen(v), nil
	default:
		return nil, fmt.Errorf("unexpected index type: %T", data)
	}
}

func widen[T uint8 | uint16 | uint32](in []T) []int {
	out := make([]int, len(in))
	for i, x := range in {
		out[i] = int(x)
	}
	return out
}

// readAccessorData reads raw data from a GLTF accessor.
func readAccessorData(doc *gltf.Document, accessor *gltf.Accessor) (any, error) {
	if accessor.BufferView == nil {
		return nil, fmt.Errorf("accessor has no buffer view")
	}

	if *accessor.BufferView < 0 || *accessor.BufferView >= len(doc.BufferViews) {
		return nil, fmt.Errorf("buffer view %d out of range", *accessor.BufferView)
	}
	bufferView := doc.BufferViews[*accessor.BufferView]
	if bufferView.Buffer < 0 || bufferView.Buffer >= len(doc.Buffers) {
		return nil, fmt.Errorf("buffer %d out of range", bufferView.Buffer)
	}
	buffer := doc.Buffers[bufferView.Buffer]

	var bufData []byte
	if buffer.URI == "" || len(buffer.Data) > 0 {
		// Embedded data (GLB) or already resolved by gltf.Open
		bufData = buffer.Data
	} else {
		return nil, fmt.Errorf("unresolved external buffer %q", buffer.URI)
	}

	if bufData == nil {
		return nil, fmt.Errorf("buffer has no data")
	}

	start := bufferView.ByteOffset + accessor.ByteOffset
	stride := bufferView.ByteStride
	count := accessor.Count

	switch accessor.Type {
	case gltf.AccessorVec3:
		if stride == 0 {
			stride = 12 // 3 floats * 4 bytes
		}
		if count > 0 && start+(count-1)*stride+12 > len(bufData) {
			return nil, fmt.Errorf("VEC3 accessor overruns buffer")
		}
		result := make([][3]float32, count)
		for i := range count {
			offset := start + i*stride
			for j := range 3 {
				result[i][j] = readFloat32(bufData[offset+j*4:])
			}
		}
		return result, nil

	case gltf.AccessorScalar:
		var size int
		switch accessor.ComponentType {
		case gltf.ComponentUbyte:
			size = 1
		case gltf.ComponentUshort:
			size = 2
		case gltf.ComponentUint:
			size = 4
		}
		if size == 0 {
			break
		}
		if stride == 0 {
			stride = size
		}
		if count > 0 && start+(count-1)*stride+size > len(bufData) {
			return nil, fmt.Errorf("index accessor overruns buffer")
		}

		switch accessor.ComponentType {
		case gltf.ComponentUbyte:
			result := make([]uint8, count)
			for i := range count {
				result[i] = bufData[start+i*stride]
			}
			return result, nil
		case gltf.ComponentUshort:
			result := make([]uint16, count)
			for i := range count {
				result[i] = binary.LittleEndian.Uint16(bufData[start+i*stride:])
			}
			return result, nil
		case gltf.ComponentUint:
			result := make([]uint32, count)
			for i := range count {
				result[i] = binary.LittleEndian.Uint32(bufData[start+i*stride:])
			}
			return result, nil
		}
	}

	return nil, fmt.Errorf("unsupported accessor type: %v / %v", accessor.Type, accessor.ComponentType)
}

// readFloat32 reads a little-endian float32.
func readFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}
