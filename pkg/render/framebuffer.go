// Package render turns projected geometry into pixels: it owns the
// framebuffer and its encoders, the scanline polygon rasterizer with its
// z-buffer, and line and point drawing.
package render

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// ErrUnknownFormat is returned by Save for an unsupported file extension.
var ErrUnknownFormat = errors.New("unknown image format")

// Framebuffer is a row-major grid of float colors.
type Framebuffer struct {
	Width  int     // Columns
	Height int     // Rows
	Pixels []Color // Row-major pixel data
}

// NewFramebuffer creates a black framebuffer with the given dimensions.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

// Clear fills the framebuffer with a solid color.
func (fb *Framebuffer) Clear(c Color) {
	for i := range fb.Pixels {
		fb.Pixels[i] = c
	}
}

// SetPixel sets a pixel at (x, y) to the given color.
// Writes outside the framebuffer are dropped.
func (fb *Framebuffer) SetPixel(x, y int, c Color) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the color at (x, y).
// Returns black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) Color {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return Color{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// DrawLine draws a line from (x0, y0) to (x1, y1) using Bresenham's algorithm.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c Color) {
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

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ToImage converts the framebuffer to a standard Go image.RGBA using the
// same channel quantization as the PPM writer.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for i, c := range fb.Pixels {
		px := c.Bytes()
		copy(img.Pix[i*4:], []byte{px[0], px[1], px[2], 255})
	}
	return img
}

// WritePPM writes the framebuffer as a binary P6 portable pixmap.
func (fb *Framebuffer) WritePPM(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P6\n%d %d\n255\n", fb.Width, fb.Height); err != nil {
		return err
	}
	for _, c := range fb.Pixels {
		px := c.Bytes()
		if _, err := bw.Write(px[:]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Encode writes the framebuffer in the named format: ppm, png, bmp or tiff.
func (fb *Framebuffer) Encode(w io.Writer, format string) error {
	switch strings.ToLower(format) {
	case "ppm":
		return fb.WritePPM(w)
	case "png":
		return png.Encode(w, fb.ToImage())
	case "bmp":
		return bmp.Encode(w, fb.ToImage())
	case "tif", "tiff":
		return tiff.Encode(w, fb.ToImage(), &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Save writes the framebuffer to path, choosing the format from the file
// extension.
func (fb *Framebuffer) Save(path string) error {
	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch format {
	case "ppm", "png", "bmp", "tif", "tiff":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, path)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fb.Encode(f, format); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
