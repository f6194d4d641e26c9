package render

import (
	"image"
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
	"golang.org/x/image/draw"
)

// Draw scales the framebuffer to fit area and draws it as terminal cells.
// Each cell is an upper half block (▀) whose foreground is the top pixel
// and background the bottom one, so a cell row covers two pixel rows.
// Cleared pixels have no colour and show the terminal background.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	cols, rows := area.Dx(), area.Dy()
	if cols <= 0 || rows <= 0 || fb.Width == 0 || fb.Height == 0 {
		return
	}

	if fb.src == nil || fb.src.Rect.Dx() != fb.Width || fb.src.Rect.Dy() != fb.Height {
		fb.src = image.NewNRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	}
	fb.fillImage(fb.src)

	if fb.scaled == nil || fb.scaled.Rect.Dx() != cols || fb.scaled.Rect.Dy() != rows*2 {
		fb.scaled = image.NewNRGBA(image.Rect(0, 0, cols, rows*2))
	}
	draw.NearestNeighbor.Scale(fb.scaled, fb.scaled.Rect, fb.src, fb.src.Rect, draw.Src, nil)

	for row := range rows {
		for col := range cols {
			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: cellColor(fb.scaled.NRGBAAt(col, row*2)),
					Bg: cellColor(fb.scaled.NRGBAAt(col, row*2+1)),
				},
			}
			scr.SetCell(area.Min.X+col, area.Min.Y+row, cell)
		}
	}
}

// cellColor converts a pixel to a cell colour.
func cellColor(c color.NRGBA) color.Color {
	if c.A == 0 {
		return nil // Transparent = no color
	}
	return c
}
