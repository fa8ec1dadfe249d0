package ribbon

import (
	"fmt"
	"math"

	"github.com/imld/giant"
)

// Triangle holds three vertex indexes.
type Triangle [3]int

// Builder turns a centerline and per-point distances into a ribbon mesh.
// SetValues replaces all geometry; SetHighlights appends to it.
type Builder struct {
	opts options

	pts          []giant.Point
	vertexCoords []giant.Point
	colors       []giant.RGBA8
	triangles    []Triangle
}

// New creates a Builder with no geometry.
func New(opts ...Option) *Builder {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Builder{opts: o}
}

// MaxWidth returns the configured maximum width contribution.
func (b *Builder) MaxWidth() float64 { return b.opts.maxWidth }

// SetValues rebuilds the ribbon for the centerline pts. dists holds one
// distance per point; values outside [0, 1] are clamped and NaN counts as
// 1. n points produce 2n vertices and 2(n-1) triangles.
func (b *Builder) SetValues(pts []giant.Point, dists []float64) error {
	if len(pts) != len(dists) {
		return fmt.Errorf("ribbon: %d points, %d distances: %w", len(pts), len(dists), ErrLengthMismatch)
	}
	n := len(pts)
	b.pts = append(b.pts[:0], pts...)
	b.vertexCoords = b.vertexCoords[:0]
	b.colors = b.colors[:0]
	b.triangles = b.triangles[:0]
	color := b.opts.host.Color()

	clamped := make([]float64, n)
	widths := make([]float64, n)
	for i, d := range dists {
		clamped[i] = clampDist(d)
		widths[i] = b.calcWidth(clamped[i])
	}

	// sum covers widths[max(0, i-half) .. min(n-1, i+half)]
	half := b.opts.widthWindow / 2
	sum := 0.0
	for i := 0; i < min(half, n); i++ {
		sum += widths[i]
	}

	for i, pt := range pts {
		vi := len(b.vertexCoords)

		if i+half < n {
			sum += widths[i+half]
		}
		if i-half-1 >= 0 {
			sum -= widths[i-half-1]
		}
		visWidth := widths[i]
		if i-half >= 0 && i+half <= n-1 {
			visWidth = sum / float64(2*half+1)
		}

		offset := giant.Pt(0, visWidth)
		b.vertexCoords = append(b.vertexCoords, pt.Sub(offset), pt.Add(offset))
		b.appendColors(2, color.WithAlpha(calcOpacity(clamped[i])))

		if i > 0 {
			b.triangles = append(b.triangles,
				Triangle{vi - 2, vi, vi - 1},
				Triangle{vi - 1, vi, vi + 1})
		}
	}

	b.opts.host.SetDrawNeeded()
	giant.Logger().Debug("ribbon: values set",
		"points", n, "vertices", len(b.vertexCoords), "triangles", len(b.triangles))
	return nil
}

// SetHighlights stamps markers onto the ribbon built by the last
// SetValues. Highlight i covers [xs[i], xs[i]+max(widths[i], 2)) with a
// marker every unit, ending at the end of the centerline unless that
// leaves less than 2 units. Markers are appended after the existing
// geometry.
func (b *Builder) SetHighlights(xs, widths []float64) error {
	if len(b.pts) == 0 {
		return ErrNoGeometry
	}
	if len(xs) != len(widths) {
		return fmt.Errorf("ribbon: %d highlight positions, %d widths: %w", len(xs), len(widths), ErrLengthMismatch)
	}
	start := len(b.vertexCoords)
	lastX := b.pts[len(b.pts)-1].X
	extent := math.Max(lastX-b.pts[0].X, 0) + minHighlightWidth
	for i, leftX := range xs {
		span := math.Max(widths[i], minHighlightWidth)
		span = math.Min(span, math.Max(lastX-leftX, minHighlightWidth))
		span = math.Min(span, extent)
		b.appendMarker(b.PosOnLine(leftX))
		for k := 1; float64(k) < span; k++ {
			vi := len(b.vertexCoords)
			b.appendMarker(b.PosOnLine(leftX + float64(k)))
			b.triangles = append(b.triangles,
				Triangle{vi - 2, vi + 1, vi - 1},
				Triangle{vi - 2, vi, vi + 1})
		}
	}

	b.opts.host.SetDrawNeeded()
	giant.Logger().Debug("ribbon: highlights set",
		"highlights", len(xs), "vertices", len(b.vertexCoords)-start)
	return nil
}

// PosOnLine returns the centerline point at horizontal position x. Before
// the first and after the last point the line is extended flat.
// PosOnLine panics if no centerline has been set.
func (b *Builder) PosOnLine(x float64) giant.Point {
	pts := b.pts
	if len(pts) == 0 {
		panic("ribbon: PosOnLine called before SetValues")
	}
	last := len(pts) - 1
	i := 0
	for i < last && pts[i].X < x {
		i++
	}
	if i == 0 || pts[i].X < x {
		return giant.Pt(x, pts[i].Y)
	}
	prev, cur := pts[i-1], pts[i]
	part := (x - prev.X) / (cur.X - prev.X)
	if !(part >= 0 && part <= 1) {
		panic(fmt.Sprintf("ribbon: interpolation fraction %g at x=%g outside [0, 1]", part, x))
	}
	return giant.Pt(x, (1-part)*prev.Y+part*cur.Y)
}

// Points returns a copy of the current centerline.
func (b *Builder) Points() []giant.Point {
	return append([]giant.Point(nil), b.pts...)
}

func (b *Builder) appendMarker(pt giant.Point) {
	h := b.opts.highlightHalfHeight
	b.vertexCoords = append(b.vertexCoords, pt.Add(giant.Pt(0, -h)), pt.Add(giant.Pt(0, h)))
	b.appendColors(2, b.opts.highlightColor)
}

func (b *Builder) appendColors(n int, c giant.RGBA8) {
	for i := 0; i < n; i++ {
		b.colors = append(b.colors, c)
	}
}

func (b *Builder) calcWidth(dist float64) float64 {
	return 1 + dist*b.opts.maxWidth
}

func calcOpacity(dist float64) float64 {
	return math.Pow(1-dist, 2)
}

func clampDist(d float64) float64 {
	if math.IsNaN(d) {
		return 1
	}
	return math.Max(0, math.Min(1, d))
}
