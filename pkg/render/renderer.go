package render

import (
	"github.com/taigrr/tinyrasta/pkg/math3d"
	"github.com/taigrr/tinyrasta/pkg/models"
)

var white = math3d.V4(1, 1, 1, 1)

// Renderer owns the framebuffer and rasterizer for the lifetime of a
// viewer and turns a camera plus a mesh into a frame.
type Renderer struct {
	Lens  Lens
	Model math3d.Mat4 // Object-to-world transform, identity by default

	// Wireframe draws triangle edges instead of filling them.
	Wireframe bool

	fb   *Framebuffer
	rast *Rasterizer
}

// NewRenderer creates a renderer with a width x height framebuffer and the
// default lens.
func NewRenderer(width, height int) *Renderer {
	fb := NewFramebuffer(width, height)
	return &Renderer{
		Lens:  DefaultLens(width, height),
		Model: math3d.Identity(),
		fb:    fb,
		rast:  NewRasterizer(fb),
	}
}

// Framebuffer returns the buffer RenderFrame draws into.
func (r *Renderer) Framebuffer() *Framebuffer {
	return r.fb
}

// Resize changes the framebuffer size and the lens aspect ratio.
func (r *Renderer) Resize(width, height int) {
	r.fb.Resize(width, height)
	r.Lens.SetSize(width, height)
}

// RenderFrame clears the framebuffer and draws every front-facing triangle
// of mesh as seen from cam. Triangles without a colour are drawn white.
func (r *Renderer) RenderFrame(cam Camera, mesh *models.Mesh) Stats {
	r.fb.Clear()
	r.rast.ResetStats()
	if mesh == nil {
		return r.rast.Stats
	}

	view := cam.ViewMatrix()
	proj := r.Lens.Matrix()
	mvp := proj.Mul(view.Mul(r.Model))

	for i, tri := range mesh.Triangles {
		r.rast.Stats.Submitted++

		world := models.Tri(
			r.Model.MulVec3(tri.V[0].Position),
			r.Model.MulVec3(tri.V[1].Position),
			r.Model.MulVec3(tri.V[2].Position),
		)
		if IsBackface(world, cam.Position) {
			r.rast.Stats.Backfaced++
			continue
		}

		color := white
		if i < len(mesh.Colors) {
			color = mesh.Colors[i]
		}
		if r.Wireframe {
			r.rast.DrawEdges(tri, mvp, color)
			continue
		}
		r.rast.DrawTriangle(tri, mvp, color)
	}

	return r.rast.Stats
}

// IsBackface reports whether a world-space triangle faces away from eye:
// its unit normal points away from the vector centroid→eye. Triangles seen
// exactly edge-on, or with no area, are kept.
func IsBackface(tri models.Triangle, eye math3d.Vec3) bool {
	normal := tri.Normal().Normalize()
	return normal.Dot(eye.Sub(tri.Centroid())) < 0
}
