// Package render rasterizes triangle meshes into a CPU framebuffer.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
)

// Framebuffer holds packed ARGB pixels and the matching depth buffer, both
// row-major with row 0 at the top. It is allocated once and cleared every
// frame.
type Framebuffer struct {
	Width  int
	Height int
	Pixels []uint32  // A<<24 | R<<16 | G<<8 | B
	Depth  []float32 // NormalizeDepth values, DepthClear when empty

	// Presentation scratch, reused across Draw calls.
	scaled *image.NRGBA
	src    *image.NRGBA
}

// NewFramebuffer creates a cleared framebuffer of the given size.
func NewFramebuffer(width, height int) *Framebuffer {
	fb := &Framebuffer{}
	fb.Resize(width, height)
	return fb
}

// Resize reallocates the buffers if the size changed and clears them.
func (fb *Framebuffer) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	if width != fb.Width || height != fb.Height || fb.Pixels == nil {
		fb.Width = width
		fb.Height = height
		fb.Pixels = make([]uint32, width*height)
		fb.Depth = make([]float32, width*height)
		fb.src = nil
	}
	fb.Clear()
}

// Clear sets every pixel to 0 (transparent black) and every depth to
// DepthClear.
func (fb *Framebuffer) Clear() {
	clear(fb.Pixels)

	// Use copy-doubling for faster clearing
	n := len(fb.Depth)
	if n == 0 {
		return
	}
	fb.Depth[0] = DepthClear
	for i := 1; i < n; i *= 2 {
		copy(fb.Depth[i:], fb.Depth[:i])
	}
}

// PixelAt returns the packed pixel at (x, y), or 0 if out of bounds.
func (fb *Framebuffer) PixelAt(x, y int) uint32 {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return 0
	}
	return fb.Pixels[y*fb.Width+x]
}

// DepthAt returns the stored depth at (x, y), or DepthClear if out of
// bounds.
func (fb *Framebuffer) DepthAt(x, y int) float32 {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return DepthClear
	}
	return fb.Depth[y*fb.Width+x]
}

// ColorAt returns the pixel at (x, y) as a colour.
func (fb *Framebuffer) ColorAt(x, y int) color.NRGBA {
	return UnpackARGB(fb.PixelAt(x, y))
}

// CopyRGBA writes the pixels as premultiplied RGBA bytes, the layout
// expected by image.RGBA and ebiten.Image.WritePixels. dst must hold at
// least 4*Width*Height bytes.
func (fb *Framebuffer) CopyRGBA(dst []byte) {
	_ = dst[4*len(fb.Pixels)-1]
	for i, p := range fb.Pixels {
		a := p >> 24
		r, g, b := (p>>16)&0xff, (p>>8)&0xff, p&0xff
		if a != 0xff {
			r, g, b = r*a/0xff, g*a/0xff, b*a/0xff
		}
		o := dst[i*4 : i*4+4 : i*4+4]
		o[0], o[1], o[2], o[3] = byte(r), byte(g), byte(b), byte(a)
	}
}

// ToImage converts the framebuffer to a new image.NRGBA.
func (fb *Framebuffer) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	fb.fillImage(img)
	return img
}

func (fb *Framebuffer) fillImage(img *image.NRGBA) {
	for y := range fb.Height {
		row := fb.Pixels[y*fb.Width : (y+1)*fb.Width]
		off := y * img.Stride
		for x, p := range row {
			o := img.Pix[off+x*4 : off+x*4+4 : off+x*4+4]
			o[0], o[1], o[2], o[3] = byte(p>>16), byte(p>>8), byte(p), byte(p>>24)
		}
	}
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := png.Encode(f, fb.ToImage()); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}
