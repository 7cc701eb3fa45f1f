package render

import (
	"fmt"
	"image/color"
	"io"

	uv "github.com/charmbracelet/ultraviolet"
)

// Draw converts the framebuffer to terminal cells and draws them on the
// screen. Each terminal row shows two framebuffer rows with an upper half
// block: foreground is the top pixel, background the bottom one.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := (row - area.Min.Y) * 2
		botY := topY + 1
		if topY >= fb.Height {
			break
		}

		for col := area.Min.X; col < area.Max.X; col++ {
			x := col - area.Min.X
			if x >= fb.Width {
				break
			}

			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: cellColor(fb.GetPixel(x, topY)),
					Bg: cellColor(fb.GetPixel(x, botY)),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

func cellColor(c Color) color.Color {
	px := c.Bytes()
	return color.RGBA{px[0], px[1], px[2], 255}
}

// Downsample returns a framebuffer of at most cols × rows pixels, sampling
// the nearest source pixel. Terminal previews use it to fit the image into
// the window.
func (fb *Framebuffer) Downsample(cols, rows int) *Framebuffer {
	if cols <= 0 || rows <= 0 || (cols >= fb.Width && rows >= fb.Height) {
		return fb
	}
	sx := float64(fb.Width) / float64(cols)
	sy := float64(fb.Height) / float64(rows)
	s := max(sx, sy)
	w := max(1, int(float64(fb.Width)/s))
	h := max(1, int(float64(fb.Height)/s))

	out := NewFramebuffer(w, h)
	for y := range h {
		for x := range w {
			out.Pixels[y*w+x] = fb.GetPixel(int(float64(x)*s), int(float64(y)*s))
		}
	}
	return out
}

// Preview writes the framebuffer to w as styled half-block text, cols
// characters wide at most.
func (fb *Framebuffer) Preview(w io.Writer, cols int) error {
	small := fb.Downsample(cols, fb.Height*cols/max(1, fb.Width))
	rows := (small.Height + 1) / 2

	buf := uv.NewScreenBuffer(small.Width, rows)
	small.Draw(buf, uv.Rect(0, 0, small.Width, rows))
	_, err := fmt.Fprintln(w, buf.Render())
	return err
}
