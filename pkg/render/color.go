package render

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a linear RGB color with float channels. Channels are not clamped
// while shading; Bytes clamps them when a pixel leaves the framebuffer.
type Color struct {
	R, G, B float64
}

// Colors for convenience
var (
	ColorBlack   = Color{0, 0, 0}
	ColorWhite   = Color{1, 1, 1}
	ColorRed     = Color{1, 0, 0}
	ColorGreen   = Color{0, 1, 0}
	ColorBlue    = Color{0, 0, 1}
	ColorYellow  = Color{1, 1, 0}
	ColorCyan    = Color{0, 1, 1}
	ColorMagenta = Color{1, 0, 1}
	ColorGray    = Color{0.5, 0.5, 0.5}
)

// RGB creates a color from float channels.
func RGB(r, g, b float64) Color {
	return Color{r, g, b}
}

// Add returns the channel-wise sum.
func (c Color) Add(o Color) Color {
	return Color{c.R + o.R, c.G + o.G, c.B + o.B}
}

// Sub returns the channel-wise difference.
func (c Color) Sub(o Color) Color {
	return Color{c.R - o.R, c.G - o.G, c.B - o.B}
}

// Mul returns the channel-wise product.
func (c Color) Mul(o Color) Color {
	return Color{c.R * o.R, c.G * o.G, c.B * o.B}
}

// Scale multiplies every channel by s.
func (c Color) Scale(s float64) Color {
	return Color{c.R * s, c.G * s, c.B * s}
}

// ApproxEqual reports whether every channel of c and o is within eps.
func (c Color) ApproxEqual(o Color, eps float64) bool {
	return math.Abs(c.R-o.R) <= eps &&
		math.Abs(c.G-o.G) <= eps &&
		math.Abs(c.B-o.B) <= eps
}

// Bytes converts the color to 8-bit channels: each channel is clamped to
// [0, 1], scaled by 255 and truncated.
func (c Color) Bytes() [3]byte {
	return [3]byte{channelByte(c.R), channelByte(c.G), channelByte(c.B)}
}

func channelByte(v float64) byte {
	if v > 1 || math.IsInf(v, 1) {
		v = 1
	}
	if v < 0 || math.IsNaN(v) {
		v = 0
	}
	return byte(v * 255)
}

// RGBA implements color.Color so a Color can be handed to image and
// terminal code directly.
func (c Color) RGBA() (r, g, b, a uint32) {
	px := c.Bytes()
	r = uint32(px[0]) * 0x101
	g = uint32(px[1]) * 0x101
	b = uint32(px[2]) * 0x101
	return r, g, b, 0xffff
}

// ParseColor parses a hex color such as "#1e1e28" or "#fff".
func ParseColor(s string) (Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return Color{c.R, c.G, c.B}, nil
}

// Hex formats the clamped color as "#rrggbb".
func (c Color) Hex() string {
	return colorful.Color{R: clamp01(c.R), G: clamp01(c.G), B: clamp01(c.B)}.Hex()
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
