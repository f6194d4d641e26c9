package models

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/tinyrasta/pkg/math3d"
)

// Default pool capacities for the OBJ importer.
const (
	DefaultMaxVertices  = 50000
	DefaultMaxTriangles = 100000
)

// maxLineSize bounds a single OBJ line.
const maxLineSize = 1 << 20

// ErrEmptyMesh is returned when a file was read but produced no triangles.
var ErrEmptyMesh = errors.New("mesh has no triangles")

// OBJLoader reads the vertex and face records of Wavefront OBJ text.
type OBJLoader struct {
	// MaxVertices caps the vertex pool. Further vertices are dropped and
	// counted in Mesh.VerticesDropped. Zero or less means unlimited.
	MaxVertices int

	// MaxTriangles caps the triangle pool. Further faces are dropped and
	// counted in Mesh.FacesDropped. Zero or less means unlimited.
	MaxTriangles int

	// Progress, when set, receives a copy of every byte read by Load.
	Progress io.Writer
}

// NewOBJLoader creates an OBJ loader with the default capacities.
func NewOBJLoader() *OBJLoader {
	return &OBJLoader{
		MaxVertices:  DefaultMaxVertices,
		MaxTriangles: DefaultMaxTriangles,
	}
}

// LoadOBJ loads an OBJ file with the default loader.
func LoadOBJ(path string) (*Mesh, error) {
	return NewOBJLoader().Load(path)
}

// Load opens and parses an OBJ file.
func (l *OBJLoader) Load(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if l.Progress != nil {
		r = io.TeeReader(f, l.Progress)
	}
	return l.Parse(r, filepath.Base(path))
}

// Parse reads OBJ text from r.
//
// "v x y z" lines append a vertex with Y negated. "f a b c" lines append a
// triangle built from the leading integer of the first three index tokens,
// stored as (a, c, b) to flip the winding. Every other line is ignored.
// Unparseable numbers read as zero.
func (l *OBJLoader) Parse(r io.Reader, name string) (*Mesh, error) {
	mesh := NewMesh(name)
	verts := make([]math3d.Vec3, 0, initialCap(l.MaxVertices))

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		line := scanner.Text()
		if len(line) < 2 || line[1] != ' ' {
			continue
		}

		switch line[0] {
		case 'v':
			fields := strings.Fields(line[2:])
			v := math3d.V3(floatField(fields, 0), floatField(fields, 1), floatField(fields, 2))
			// Invert Y axis
			v.Y = -v.Y

			if l.MaxVertices > 0 && len(verts) >= l.MaxVertices {
				mesh.VerticesDropped++
				continue
			}
			verts = append(verts, v)

		case 'f':
			fields := strings.Fields(line[2:])
			i0, i1, i2 := indexField(fields, 0), indexField(fields, 1), indexField(fields, 2)

			if !validIndex(i0, len(verts)) || !validIndex(i1, len(verts)) || !validIndex(i2, len(verts)) {
				mesh.FacesRejected++
				continue
			}
			if l.MaxTriangles > 0 && len(mesh.Triangles) >= l.MaxTriangles {
				mesh.FacesDropped++
				continue
			}

			// Swap the last two indices to invert winding (flip normals)
			mesh.Triangles = append(mesh.Triangles, Tri(verts[i0-1], verts[i2-1], verts[i1-1]))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read obj %s: %w", name, err)
	}

	mesh.VerticesRead = len(verts)
	mesh.SetColor(math3d.V4(1, 1, 1, 1))

	return mesh, nil
}

func initialCap(limit int) int {
	const fallback = 1024
	if limit > 0 && limit < fallback {
		return limit
	}
	return fallback
}

// validIndex reports whether a 1-based index refers to a stored vertex.
func validIndex(i, count int) bool {
	return i > 0 && i <= count
}

// floatField parses fields[i] as a float, reading missing or malformed
// tokens as zero. Out-of-range values saturate to ±Inf.
func floatField(fields []string, i int) float32 {
	if i >= len(fields) {
		return 0
	}
	f, err := strconv.ParseFloat(fields[i], 32)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0
	}
	return float32(f)
}

// indexField returns the leading integer of fields[i]. Anything from the
// first non-digit on ("/vt/vn" attributes included) is ignored; a token with
// no leading digits reads as zero.
func indexField(fields []string, i int) int {
	if i >= len(fields) {
		return 0
	}
	tok := fields[i]

	end := 0
	if end < len(tok) && (tok[end] == '-' || tok[end] == '+') {
		end++
	}
	for end < len(tok) && tok[end] >= '0' && tok[end] <= '9' {
		end++
	}

	n, err := strconv.Atoi(tok[:end])
	if err != nil {
		return 0
	}
	return n
}
