package render

import (
	"github.com/chewxy/math32"
	"github.com/taigrr/tinyrasta/pkg/math3d"
	"github.com/taigrr/tinyrasta/pkg/models"
)

// DrawEdges projects tri like DrawTriangle and draws its three edges
// without a depth test. Triangles rejected by the w test are skipped.
func (r *Rasterizer) DrawEdges(tri models.Triangle, mvp math3d.Mat4, color math3d.Vec4) {
	if r.fb.Width == 0 || r.fb.Height == 0 {
		return
	}

	sv, ok := r.project(tri, mvp)
	if !ok {
		r.Stats.BehindCamera++
		return
	}

	r.Stats.Drawn++
	packed := PackARGB(color)
	for i := range 3 {
		a, b := sv[i], sv[(i+1)%3]
		r.drawLine(a.X, a.Y, b.X, b.Y, packed)
	}
}

// drawLine clips a screen-space segment to the framebuffer and draws it.
func (r *Rasterizer) drawLine(x0, y0, x1, y1 float32, c uint32) {
	maxX, maxY := float32(r.fb.Width-1), float32(r.fb.Height-1)
	x0, y0, x1, y1, ok := clipSegment(x0, y0, x1, y1, maxX, maxY)
	if !ok {
		return
	}
	r.fb.DrawLine(int(x0), int(y0), int(x1), int(y1), c)
}

// clipSegment clips a segment to [0,maxX]x[0,maxY] (Liang-Barsky).
func clipSegment(x0, y0, x1, y1, maxX, maxY float32) (float32, float32, float32, float32, bool) {
	dx, dy := x1-x0, y1-y0
	t0, t1 := float32(0), float32(1)

	edges := [4][2]float32{
		{-dx, x0},
		{dx, maxX - x0},
		{-dy, y0},
		{dy, maxY - y0},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			t0 = math32.Max(t0, t)
		} else {
			t1 = math32.Min(t1, t)
		}
		if t0 > t1 {
			return 0, 0, 0, 0, false
		}
	}

	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}

// DrawLine draws a line from (x0, y0) to (x1, y1) using Bresenham's
// algorithm. Pixels outside the framebuffer are skipped.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c uint32) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		fb.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// SetPixel sets a pixel at (x, y). Bounds checking is performed.
func (fb *Framebuffer) SetPixel(x, y int, c uint32) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
