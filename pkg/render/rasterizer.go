package render

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// ErrOddEdgeCount is returned when the active edge list of a scanline holds
// an odd number of edges. The polygon's remaining fill is abandoned.
var ErrOddEdgeCount = errors.New("odd number of active edges")

// Stats counts rasterizer work, for debugging and benchmarking.
type Stats struct {
	PolygonsFilled    int // Polygons swept to completion
	PolygonsAbandoned int // Fills stopped by an invariant violation
	PixelsWritten     int // Pixels that passed the depth test
}

// Rasterizer fills polygons into a framebuffer with a scanline sweep and a
// z-buffer holding inverse depth (1/z) per pixel.
type Rasterizer struct {
	fb      *Framebuffer
	zbuffer []float64 // Inverse depth (1D array, row-major)
	Stats   Stats
}

// NewRasterizer creates a rasterizer drawing into fb with a cleared depth
// buffer.
func NewRasterizer(fb *Framebuffer) *Rasterizer {
	r := &Rasterizer{fb: fb}
	r.Resize()
	return r
}

// Resize resizes the depth buffer to match the framebuffer and clears it.
func (r *Rasterizer) Resize() {
	if r.fb == nil {
		r.zbuffer = nil
		return
	}
	r.zbuffer = make([]float64, r.fb.Width*r.fb.Height)
	r.ClearDepth()
}

// Framebuffer returns the target framebuffer.
func (r *Rasterizer) Framebuffer() *Framebuffer {
	return r.fb
}

// Width returns the framebuffer width.
func (r *Rasterizer) Width() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Width
}

// Height returns the framebuffer height.
func (r *Rasterizer) Height() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Height
}

// ClearDepth resets every pixel to inverse depth 1, the back clip plane of
// the canonical view volume. Anything behind it fails the depth test.
func (r *Rasterizer) ClearDepth() {
	// Use copy-doubling for faster clearing
	n := len(r.zbuffer)
	if n == 0 {
		return
	}
	r.zbuffer[0] = 1
	for i := 1; i < n; i *= 2 {
		copy(r.zbuffer[i:], r.zbuffer[:i])
	}
}

// Depth returns the stored inverse depth at (x, y), or 0 outside the
// framebuffer.
func (r *Rasterizer) Depth(x, y int) float64 {
	if x < 0 || x >= r.Width() || y < 0 || y >= r.Height() {
		return 0
	}
	return r.zbuffer[y*r.Width()+x]
}

// round maps a coordinate to the pixel whose center is nearest.
func round(v float64) int {
	return int(math.Floor(v + 0.5))
}

// scanVertex is a screen-space vertex carrying the attributes the sweep
// interpolates.
type scanVertex struct {
	X, Y, Z float64
	C       Color
}

// edge is one entry of the edge table.
type edge struct {
	yStart, yEnd int     // First and last scanline covered
	xIntersect   float64 // x at the center of the current scanline
	dxPerScan    float64
	xEnd         float64 // x at the lower endpoint, for overshoot clamping
	zIntersect   float64 // Inverse depth at the current scanline
	dzPerScan    float64
	cIntersect   Color // Color, premultiplied by inverse depth when interpolated
	dcPerScan    Color
}

func inverseDepth(z float64) float64 {
	if z == 0 {
		return math.MaxFloat64
	}
	return 1 / z
}

// makeEdge builds the edge from start to end, start.Y <= end.Y. It reports
// false when the edge covers no scanline of the image.
func (r *Rasterizer) makeEdge(start, end scanVertex, interpolate bool) (edge, bool) {
	rows := r.Height()
	e := edge{
		yStart: round(start.Y),
		yEnd:   round(end.Y) - 1,
		xEnd:   end.X,
	}
	if e.yStart >= rows || e.yEnd < 0 || e.yEnd < e.yStart {
		return e, false
	}
	if e.yEnd >= rows {
		e.yEnd = rows - 1
	}

	dscan := end.Y - start.Y
	invZ0, invZ1 := inverseDepth(start.Z), inverseDepth(end.Z)

	e.dxPerScan = (end.X - start.X) / dscan
	e.dzPerScan = (invZ1 - invZ0) / dscan

	// Sample at the center of the first covered scanline.
	adjust := float64(e.yStart) + 0.5 - start.Y
	e.xIntersect = start.X + adjust*e.dxPerScan
	e.zIntersect = invZ0 + adjust*e.dzPerScan

	if interpolate {
		c0 := start.C.Scale(invZ0)
		c1 := end.C.Scale(invZ1)
		e.dcPerScan = c1.Sub(c0).Scale(1 / dscan)
		e.cIntersect = c0.Add(e.dcPerScan.Scale(adjust))
	} else {
		e.cIntersect = start.C
	}

	if e.yStart < 0 {
		e.advance(float64(-e.yStart))
		e.yStart = 0
	}
	e.clampX()
	return e, true
}

func (e *edge) advance(n float64) {
	e.xIntersect += n * e.dxPerScan
	e.zIntersect += n * e.dzPerScan
	e.cIntersect = e.cIntersect.Add(e.dcPerScan.Scale(n))
}

// clampX keeps the intersection from running past the edge's end point.
func (e *edge) clampX() {
	if e.dxPerScan > 0 && e.xIntersect > e.xEnd {
		e.xIntersect = e.xEnd
	}
	if e.dxPerScan < 0 && e.xIntersect < e.xEnd {
		e.xIntersect = e.xEnd
	}
}

func byX(a, b *edge) int {
	switch {
	case a.xIntersect < b.xIntersect:
		return -1
	case a.xIntersect > b.xIntersect:
		return 1
	}
	return 0
}

// FillPolygon scan-converts p, whose vertices must be in screen space with z
// in the canonical view volume, using the shade mode of ds. Flat shading
// reads ds.FlatColor; Gouraud and Phong interpolate p.Colors (or ds.Color
// when the polygon has no colors) perspective-correctly.
func (r *Rasterizer) FillPolygon(p *Polygon, ds *DrawState) error {
	if len(p.Vertices) < 3 {
		return ErrTooFewVertices
	}
	if r.fb == nil || r.Width() == 0 || r.Height() == 0 {
		return nil
	}
	if ds.Shade == ShadeFrame {
		r.DrawPolygonFrame(p, ds.Color)
		return nil
	}

	interpolate := ds.Shade == ShadeGouraud || ds.Shade == ShadePhong
	edges := r.buildEdgeList(p, ds, interpolate)
	if len(edges) == 0 {
		return nil
	}

	if err := r.processEdgeList(edges, p, ds); err != nil {
		r.Stats.PolygonsAbandoned++
		return err
	}
	r.Stats.PolygonsFilled++
	return nil
}

// buildEdgeList walks the vertex loop, closing edge included, and returns
// the visible edges sorted by starting scanline.
func (r *Rasterizer) buildEdgeList(p *Polygon, ds *DrawState, interpolate bool) []*edge {
	n := len(p.Vertices)
	vertex := func(i int) scanVertex {
		v := p.Vertices[i]
		c := ds.Color
		if i < len(p.Colors) {
			c = p.Colors[i]
		}
		return scanVertex{X: v.X, Y: v.Y, Z: v.Z, C: c}
	}

	edges := make([]*edge, 0, n)
	prev := vertex(n - 1)
	for i := range n {
		cur := vertex(i)
		start, end := prev, cur
		prev = cur

		if round(start.Y) == round(end.Y) {
			continue
		}
		if start.Y > end.Y {
			start, end = end, start
		}
		if e, ok := r.makeEdge(start, end, interpolate); ok {
			edges = append(edges, &e)
		}
	}

	slices.SortStableFunc(edges, func(a, b *edge) int {
		return a.yStart - b.yStart
	})
	return edges
}

// processEdgeList sweeps scanlines from the first edge's start row down the
// image, keeping the active edge list sorted by x.
func (r *Rasterizer) processEdgeList(edges []*edge, p *Polygon, ds *DrawState) error {
	rows := r.Height()
	active := make([]*edge, 0, len(edges))
	next := 0

	for scan := edges[0].yStart; scan < rows; scan++ {
		for next < len(edges) && edges[next].yStart == scan {
			e := edges[next]
			i, _ := slices.BinarySearchFunc(active, e, byX)
			active = slices.Insert(active, i, e)
			next++
		}

		if len(active) == 0 {
			if next == len(edges) {
				break
			}
			// Jump to the next pending edge.
			scan = edges[next].yStart - 1
			continue
		}
		if len(active)%2 != 0 {
			return fmt.Errorf("%w: %d at scanline %d", ErrOddEdgeCount, len(active), scan)
		}

		r.fillScan(scan, active, p, ds)

		kept := active[:0]
		for _, e := range active {
			if e.yEnd > scan {
				e.advance(1)
				e.clampX()
				kept = append(kept, e)
			}
		}
		active = kept
		slices.SortStableFunc(active, byX)
	}
	return nil
}

// fillScan fills the spans between consecutive pairs of active edges on one
// scanline. A span covers columns [round(left), round(right)).
func (r *Rasterizer) fillScan(scan int, active []*edge, p *Polygon, ds *DrawState) {
	cols := r.Width()
	row := scan * cols
	depthTest := ds.ZBuffer && p.ZBuffer && ds.Shade != ShadeConstant

	for i := 0; i+1 < len(active); i += 2 {
		p1, p2 := active[i], active[i+1]
		if p1.xIntersect == p2.xIntersect {
			continue
		}

		width := p2.xIntersect - p1.xIntersect
		startCol := round(p1.xIntersect)
		endCol := min(round(p2.xIntersect), cols)

		curZ, dzPerCol := p1.zIntersect, (p2.zIntersect-p1.zIntersect)/width
		var color, dcPerCol Color
		switch ds.Shade {
		case ShadeConstant:
			curZ, dzPerCol = 1, 0
			color = ds.Color
		case ShadeFlat:
			color = ds.FlatColor
		case ShadeGouraud, ShadePhong:
			color = p1.cIntersect
			dcPerCol = p2.cIntersect.Sub(p1.cIntersect).Scale(1 / width)
		}

		// Move from the intersection to the center of the first column.
		offset := float64(startCol) + 0.5 - p1.xIntersect
		if startCol < 0 {
			offset -= float64(startCol)
			startCol = 0
		}
		curZ += offset * dzPerCol
		color = color.Add(dcPerCol.Scale(offset))

		for x := startCol; x < endCol; x++ {
			if !depthTest || curZ > r.zbuffer[row+x] {
				r.fb.Pixels[row+x] = shadePixel(ds, color, curZ)
				r.zbuffer[row+x] = curZ
				r.Stats.PixelsWritten++
			}
			curZ += dzPerCol
			color = color.Add(dcPerCol)
		}
	}
}

func shadePixel(ds *DrawState, c Color, invZ float64) Color {
	switch ds.Shade {
	case ShadeDepth:
		d := 1 - 1/invZ
		return Color{d, d, d}
	case ShadeGouraud, ShadePhong:
		return c.Scale(1 / invZ)
	default:
		return c
	}
}
