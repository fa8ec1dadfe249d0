// Package preview rasterizes ribbon meshes on the CPU, for checking
// generated geometry and for rendering plots without a scene graph.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"

	"github.com/imld/giant"
	"github.com/imld/giant/ribbon"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// NewCanvas returns a w×h image filled with bg.
func NewCanvas(w, h int, bg giant.RGBA8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	return img
}

// Render composites every triangle of m onto dst, translated by offset.
// A triangle is filled with the mean of its vertex colors. It returns the
// number of triangles drawn; triangles outside dst are skipped.
func Render(dst draw.Image, m ribbon.Mesh, offset giant.Point) int {
	if err := m.Validate(); err != nil {
		giant.Logger().Warn("preview: invalid mesh", "err", err)
		return 0
	}
	bounds := dst.Bounds()
	var z vector.Rasterizer
	drawn := 0
	for _, t := range m.Triangles {
		a := m.Vertices[t[0]].Add(offset)
		b := m.Vertices[t[1]].Add(offset)
		c := m.Vertices[t[2]].Add(offset)
		lo, hi := a.Min(b).Min(c), a.Max(b).Max(c)
		// rasterize only the triangle's box clipped to dst
		r := image.Rect(
			int(math.Floor(lo.X)), int(math.Floor(lo.Y)),
			int(math.Ceil(hi.X)), int(math.Ceil(hi.Y)),
		).Intersect(bounds)
		if r.Empty() {
			continue
		}
		col := meanColor(m.Colors[t[0]], m.Colors[t[1]], m.Colors[t[2]])
		if col.A == 0 {
			continue
		}

		z.Reset(r.Dx(), r.Dy())
		z.DrawOp = draw.Over
		ox, oy := float64(r.Min.X), float64(r.Min.Y)
		z.MoveTo(float32(a.X-ox), float32(a.Y-oy))
		z.LineTo(float32(b.X-ox), float32(b.Y-oy))
		z.LineTo(float32(c.X-ox), float32(c.Y-oy))
		z.ClosePath()
		z.Draw(dst, r, image.NewUniform(col), image.Point{})
		drawn++
	}
	giant.Logger().Debug("preview: rendered", "triangles", drawn, "of", len(m.Triangles))
	return drawn
}

func meanColor(cs ...giant.RGBA8) color.NRGBA {
	var r, g, b, a int
	for _, c := range cs {
		r += int(c.R)
		g += int(c.G)
		b += int(c.B)
		a += int(c.A)
	}
	n := len(cs)
	return color.NRGBA{R: uint8(r / n), G: uint8(g / n), B: uint8(b / n), A: uint8(a / n)}
}

// Label draws text with its baseline starting at (x, y).
func Label(dst draw.Image, x, y int, text string, c giant.RGBA8) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// LabelWidth returns the advance of text in pixels.
func LabelWidth(text string) int {
	return font.MeasureString(basicfont.Face7x13, text).Ceil()
}

// SavePNG writes img to path as PNG.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("preview: create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("preview: encode %s: %w", path, err)
	}
	return f.Close()
}
