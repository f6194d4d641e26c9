// Package models provides triangle mesh loading and representation for tinyrasta.
package models

import (
	"math/rand/v2"

	"github.com/taigrr/tinyrasta/pkg/math3d"
)

// Vertex holds a single position. There are no normals or UVs: triangles
// are flat shaded.
type Vertex struct {
	Position math3d.Vec3
}

// Triangle holds three vertices by value. The stored order is the
// corrected winding produced by the importers, so cross(V1-V0, V2-V0)
// points out of the front face.
type Triangle struct {
	V [3]Vertex
}

// Tri creates a triangle from three positions in stored order.
func Tri(a, b, c math3d.Vec3) Triangle {
	return Triangle{V: [3]Vertex{{a}, {b}, {c}}}
}

// Normal returns the unnormalized face normal cross(V1-V0, V2-V0).
func (t Triangle) Normal() math3d.Vec3 {
	return t.V[1].Position.Sub(t.V[0].Position).Cross(t.V[2].Position.Sub(t.V[0].Position))
}

// Centroid returns the average of the three positions.
func (t Triangle) Centroid() math3d.Vec3 {
	return t.V[0].Position.Add(t.V[1].Position).Add(t.V[2].Position).Scale(1.0 / 3.0)
}

// Mesh owns an imported triangle array and the parallel per-triangle colour
// array, together with what the importer had to drop to produce it.
type Mesh struct {
	Name      string
	Triangles []Triangle
	Colors    []math3d.Vec4 // RGBA in 0-1 range, one per triangle

	VerticesRead    int // vertices stored in the pool
	VerticesDropped int // vertices past the pool capacity
	FacesRejected   int // faces with a non-positive or unknown index
	FacesDropped    int // valid faces past the triangle capacity
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:      name,
		Triangles: make([]Triangle, 0),
		Colors:    make([]math3d.Vec4, 0),
	}
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles)
}

// Truncated reports whether a capacity limit discarded any input.
func (m *Mesh) Truncated() bool {
	return m.VerticesDropped > 0 || m.FacesDropped > 0
}

// AddTriangle appends a triangle with the given colour.
func (m *Mesh) AddTriangle(t Triangle, color math3d.Vec4) {
	m.Triangles = append(m.Triangles, t)
	m.Colors = append(m.Colors, color)
}

// SetColor assigns one colour to every triangle.
func (m *Mesh) SetColor(c math3d.Vec4) {
	m.Colors = resize(m.Colors, len(m.Triangles))
	for i := range m.Colors {
		m.Colors[i] = c
	}
}

// AssignRandomColors gives every triangle an opaque colour with each RGB
// channel drawn from the 256 byte levels.
func (m *Mesh) AssignRandomColors(rng *rand.Rand) {
	m.Colors = resize(m.Colors, len(m.Triangles))
	for i := range m.Colors {
		m.Colors[i] = math3d.V4(
			float32(rng.IntN(256))/255,
			float32(rng.IntN(256))/255,
			float32(rng.IntN(256))/255,
			1,
		)
	}
}

// Bounds returns the axis-aligned bounding box of all triangle vertices.
func (m *Mesh) Bounds() (lo, hi math3d.Vec3) {
	if len(m.Triangles) == 0 {
		return math3d.Zero3(), math3d.Zero3()
	}

	lo = m.Triangles[0].V[0].Position
	hi = lo
	for _, t := range m.Triangles {
		for _, v := range t.V {
			lo = lo.Min(v.Position)
			hi = hi.Max(v.Position)
		}
	}
	return lo, hi
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	lo, hi := m.Bounds()
	return lo.Add(hi).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	lo, hi := m.Bounds()
	return hi.Sub(lo)
}

// Transform applies a transformation matrix to every vertex in place.
func (m *Mesh) Transform(mat math3d.Mat4) {
	for i := range m.Triangles {
		for j := range m.Triangles[i].V {
			m.Triangles[i].V[j].Position = mat.MulVec3(m.Triangles[i].V[j].Position)
		}
	}
}

func resize(colors []math3d.Vec4, n int) []math3d.Vec4 {
	if cap(colors) >= n {
		return colors[:n]
	}
	out := make([]math3d.Vec4, n)
	copy(out, colors)
	return out
}
