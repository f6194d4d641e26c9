package models

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned by Load for unknown file extensions.
var ErrUnsupportedFormat = errors.New("unsupported mesh format")

// Options configures Load.
type Options struct {
	// Pool capacities for every format. Zero or less means unlimited.
	MaxVertices  int
	MaxTriangles int

	// Progress, when set, receives a copy of the OBJ bytes as they are read.
	Progress io.Writer
}

// DefaultOptions returns the default importer capacities.
func DefaultOptions() Options {
	return Options{
		MaxVertices:  DefaultMaxVertices,
		MaxTriangles: DefaultMaxTriangles,
	}
}

// Load imports a mesh, choosing the importer by file extension
// (.obj, .glb or .gltf). A file that yields no triangles is reported as
// ErrEmptyMesh since there is nothing to render.
func Load(path string, opts Options) (*Mesh, error) {
	var (
		mesh *Mesh
		err  error
	)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		loader := &OBJLoader{MaxVertices: opts.MaxVertices, MaxTriangles: opts.MaxTriangles, Progress: opts.Progress}
		mesh, err = loader.Load(path)
	case ".glb", ".gltf":
		loader := &GLTFLoader{MaxVertices: opts.MaxVertices, MaxTriangles: opts.MaxTriangles}
		mesh, err = loader.Load(path)
	default:
		return nil, fmt.Errorf("%w: %q (use .obj, .glb or .gltf)", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}

	if mesh.TriangleCount() == 0 {
		return nil, fmt.Errorf("load %s: %w", filepath.Base(path), ErrEmptyMesh)
	}
	return mesh, nil
}
