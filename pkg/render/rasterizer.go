package render

import (
	"github.com/chewxy/math32"
	"github.com/taigrr/tinyrasta/pkg/math3d"
	"github.com/taigrr/tinyrasta/pkg/models"
)

// Stats counts what happened to the triangles of a frame.
type Stats struct {
	Submitted    int // Triangles handed to the renderer
	Backfaced    int // Skipped by the world-space facing test
	BehindCamera int // Rejected because a vertex had clip w >= 0
	Degenerate   int // Zero screen-space area
	Drawn        int // Rasterized (may still have written no fragment)
	Fragments    int // Pixels that passed the depth test
}

// Rasterizer fills flat-coloured triangles into a Framebuffer with a depth
// test.
type Rasterizer struct {
	fb    *Framebuffer
	Stats Stats
}

// NewRasterizer creates a rasterizer drawing into fb.
func NewRasterizer(fb *Framebuffer) *Rasterizer {
	return &Rasterizer{fb: fb}
}

// ResetStats zeroes the counters (call once per frame).
func (r *Rasterizer) ResetStats() {
	r.Stats = Stats{}
}

// screenVertex holds a vertex transformed to screen space.
type screenVertex struct {
	X, Y float32 // Screen coordinates, origin top-left
	Z    float32 // NormalizeDepth of NDC z
}

// DrawTriangle projects tri through mvp and fills the pixels whose centres
// lie inside it and whose interpolated depth beats the stored one.
//
// A triangle is dropped whole if any vertex has clip w >= 0 or its screen
// area is zero. Both windings are filled; facing is decided by the caller.
func (r *Rasterizer) DrawTriangle(tri models.Triangle, mvp math3d.Mat4, color math3d.Vec4) {
	width, height := r.fb.Width, r.fb.Height
	if width == 0 || height == 0 {
		return
	}

	sv, ok := r.project(tri, mvp)
	if !ok {
		r.Stats.BehindCamera++
		return
	}

	s0, s1, s2 := sv[0], sv[1], sv[2]

	area := (s1.X-s0.X)*(s2.Y-s0.Y) - (s1.Y-s0.Y)*(s2.X-s0.X)
	if area == 0 || math32.IsNaN(area) || math32.IsInf(area, 0) {
		r.Stats.Degenerate++
		return
	}

	r.Stats.Drawn++

	// Bounding box clamped to the framebuffer in float space; converting an
	// unclamped far off-screen coordinate to int would overflow.
	fminX := math32.Max(0, math32.Floor(min(s0.X, s1.X, s2.X)))
	fmaxX := math32.Min(float32(width-1), math32.Ceil(max(s0.X, s1.X, s2.X)))
	fminY := math32.Max(0, math32.Floor(min(s0.Y, s1.Y, s2.Y)))
	fmaxY := math32.Min(float32(height-1), math32.Ceil(max(s0.Y, s1.Y, s2.Y)))
	if fminX > fmaxX || fminY > fmaxY {
		return
	}
	minX, maxX := int(fminX), int(fmaxX)
	minY, maxY := int(fminY), int(fmaxY)

	packed := PackARGB(color)

	for y := minY; y <= maxY; y++ {
		zrow := r.fb.Depth[y*width : (y+1)*width]
		prow := r.fb.Pixels[y*width : (y+1)*width]
		py := float32(y) + 0.5

		for x := minX; x <= maxX; x++ {
			px := float32(x) + 0.5

			w0 := ((s1.X-px)*(s2.Y-py) - (s1.Y-py)*(s2.X-px)) / area
			w1 := ((s2.X-px)*(s0.Y-py) - (s2.Y-py)*(s0.X-px)) / area
			w2 := 1 - w0 - w1
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}

			depth := w0*s0.Z + w1*s1.Z + w2*s2.Z
			if DepthNearer(depth, zrow[x]) {
				zrow[x] = depth
				prow[x] = packed
				r.Stats.Fragments++
			}
		}
	}
}

// project maps the vertices of tri to screen space. It fails if any vertex
// has clip w >= 0; visible geometry has negative w.
func (r *Rasterizer) project(tri models.Triangle, mvp math3d.Mat4) ([3]screenVertex, bool) {
	var sv [3]screenVertex
	for i := range 3 {
		clip := mvp.MulVec4(math3d.V4FromV3(tri.V[i].Position, 1))
		if !(clip.W < 0) {
			return sv, false
		}

		ndc := clip.PerspectiveDivide()
		sv[i] = screenVertex{
			X: (ndc.X + 1) * 0.5 * float32(r.fb.Width),
			Y: (1 - ndc.Y) * 0.5 * float32(r.fb.Height), // Y flipped
			Z: NormalizeDepth(ndc.Z),
		}
	}
	return sv, true
}
