package giant

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// RGBA represents a color with red, green, blue, and alpha components.
// Each component is in the range [0, 1].
type RGBA struct {
	R, G, B, A float64
}

// RGB creates an opaque color from RGB components.
func RGB(r, g, b float64) RGBA {
	return RGBA{R: r, G: g, B: b, A: 1.0}
}

// RGBA8 quantizes c to 8 bits per channel, non-premultiplied.
func (c RGBA) RGBA8() RGBA8 {
	return RGBA8{
		R: uint8(clamp255(math.Round(c.R * 255))),
		G: uint8(clamp255(math.Round(c.G * 255))),
		B: uint8(clamp255(math.Round(c.B * 255))),
		A: uint8(clamp255(math.Round(c.A * 255))),
	}
}

// RGBA8 is a non-premultiplied 8-bit-per-channel color, the per-vertex
// color format of generated meshes.
type RGBA8 struct {
	R, G, B, A uint8
}

// RGBA implements color.Color.
func (c RGBA8) RGBA() (r, g, b, a uint32) {
	return color.NRGBA(c).RGBA()
}

// WithAlpha returns c with its alpha channel replaced by opacity*255.
// Opacity is clamped to [0, 1].
func (c RGBA8) WithAlpha(opacity float64) RGBA8 {
	c.A = uint8(clamp255(opacity * 255))
	return c
}

// Float returns c as normalized float components.
func (c RGBA8) Float() RGBA {
	return RGBA{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
		A: float64(c.A) / 255,
	}
}

// ErrBadHex is returned by ParseHex for malformed color strings.
var ErrBadHex = errors.New("giant: malformed hex color")

// ParseHex parses "#rgb", "#rgba", "#rrggbb" or "#rrggbbaa"; the leading
// '#' is optional. Colors without alpha are opaque.
func ParseHex(s string) (RGBA8, error) {
	h := strings.TrimPrefix(s, "#")
	switch len(h) {
	case 3, 4:
		// each nibble is doubled: "f80" is "ff8800"
		var b strings.Builder
		for _, r := range h {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		h = b.String()
	case 6, 8:
	default:
		return RGBA8{}, fmt.Errorf("%w: %q", ErrBadHex, s)
	}
	if len(h) == 6 {
		h += "ff"
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return RGBA8{}, fmt.Errorf("%w: %q", ErrBadHex, s)
	}
	return RGBA8{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// Hex formats c as "#rrggbbaa".
func (c RGBA8) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// clamp255 restricts a value to [0, 255] range.
func clamp255(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return x
}

// Common colors
var (
	White      = RGBA8{R: 255, G: 255, B: 255, A: 255}
	Black      = RGBA8{A: 255}
	Background = RGBA8{R: 32, G: 32, B: 32, A: 255}
)

// HSL creates a color from HSL values.
// h is hue [0, 360), s is saturation [0, 1], l is lightness [0, 1].
func HSL(h, s, l float64) RGBA {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	h /= 360

	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h*6, 2)-1))
	m := l - c/2

	var r, g, b float64
	switch {
	case h < 1.0/6:
		r, g, b = c, x, 0
	case h < 2.0/6:
		r, g, b = x, c, 0
	case h < 3.0/6:
		r, g, b = 0, c, x
	case h < 4.0/6:
		r, g, b = 0, x, c
	case h < 5.0/6:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return RGB(r+m, g+m, b+m)
}

// UserColor returns the line color of a user. Hues are spread by the
// golden angle so neighbouring user ids stay distinguishable.
func UserColor(userID int) RGBA8 {
	const goldenAngle = 137.508
	return HSL(float64(userID)*goldenAngle+30, 0.75, 0.55).RGBA8()
}
