// Package plot maps the head track of one user over a time window to the
// centerline, distances and highlights a ribbon.Builder consumes.
//
// Time runs along x: a window [start, end] is spread over Width units.
// The y coordinate is the user's normalized horizontal position (or wall
// viewpoint) scaled to Height, and the distance scalar is the normalized
// distance from the wall, so users near the wall draw thin opaque lines
// and users far from it draw wide faint ones. Touches become highlights.
package plot

import (
	"errors"
	"fmt"

	"github.com/imld/giant"
	"github.com/imld/giant/ribbon"
	"github.com/imld/giant/track"
	"github.com/ungerik/go3d/float64/vec2"
	"github.com/ungerik/go3d/float64/vec3"
)

// ErrEmptyWindow is returned for windows without time or columns.
var ErrEmptyWindow = errors.New("plot: empty window")

// Mode selects what the y axis shows.
type Mode int

const (
	// ModePosition plots the smoothed head x position, one point per column.
	ModePosition Mode = iota
	// ModeViewpoint plots the smoothed wall viewpoint x, one point per column.
	ModeViewpoint
	// ModeRaw plots every recorded sample in the window without smoothing.
	ModeRaw
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	switch m {
	case ModePosition:
		return "position"
	case ModeViewpoint:
		return "viewpoint"
	case ModeRaw:
		return "raw"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Ranges are the value ranges normalized to [0, 1] for plotting.
type Ranges struct {
	// PosMin and PosMax bound head positions in meters.
	PosMin, PosMax vec3.T
	// WallMin and WallMax bound wall viewpoints in meters.
	WallMin, WallMax vec2.T
}

// DefaultRanges returns the ranges of the recording room.
func DefaultRanges() Ranges {
	return Ranges{
		PosMin:  vec3.T{-0.5, 0, 0.5},
		PosMax:  vec3.T{5.5, 2.5, 2.5},
		WallMin: vec2.T{0, 0},
		WallMax: vec2.T{4.9, 2.06},
	}
}

func (r Ranges) normPos(p vec3.T) vec3.T {
	var n vec3.T
	for i := range n {
		n[i] = (p[i] - r.PosMin[i]) / (r.PosMax[i] - r.PosMin[i])
	}
	return n
}

func (r Ranges) normWallX(x float64) float64 {
	return (x - r.WallMin[0]) / (r.WallMax[0] - r.WallMin[0])
}

// Line describes one ribbon plot.
type Line struct {
	Width, Height float64
	// SamplesPerPixel sets the number of centerline points per unit of
	// Width in the smoothed modes.
	SamplesPerPixel float64
	// Smoothness is the averaging window in samples.
	Smoothness int
	Mode       Mode
	Ranges     Ranges
}

// DefaultLine returns a position plot of the given size.
func DefaultLine(width, height float64) Line {
	return Line{
		Width:           width,
		Height:          height,
		SamplesPerPixel: 1,
		Smoothness:      50,
		Mode:            ModePosition,
		Ranges:          DefaultRanges(),
	}
}

// Values returns the centerline and distances of tr in [start, end].
func (l Line) Values(tr *track.UserTrack, start, end float64) ([]giant.Point, []float64, error) {
	if end <= start || l.Width <= 0 {
		return nil, nil, fmt.Errorf("plot: window [%g, %g] width %g: %w", start, end, l.Width, ErrEmptyWindow)
	}
	if l.Mode == ModeRaw {
		return l.rawValues(tr, start, end)
	}

	n := int(l.Width * l.SamplesPerPixel)
	if n <= 0 {
		return nil, nil, fmt.Errorf("plot: %g samples per pixel: %w", l.SamplesPerPixel, ErrEmptyWindow)
	}
	pts := make([]giant.Point, 0, n)
	dists := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		t := start + (end-start)*float64(i)/float64(n)
		pos, err := tr.HeadPosAvg(t, l.Smoothness)
		if err != nil {
			return nil, nil, fmt.Errorf("plot: user %d: %w", tr.UserID(), err)
		}
		norm := l.Ranges.normPos(pos)
		y := norm[0]
		if l.Mode == ModeViewpoint {
			vp, err := tr.WallViewpointAvg(t, l.Smoothness)
			if err != nil {
				return nil, nil, fmt.Errorf("plot: user %d: %w", tr.UserID(), err)
			}
			y = l.Ranges.normWallX(vp[0])
		}
		pts = append(pts, giant.Pt(float64(i)/l.SamplesPerPixel, y*l.Height))
		dists = append(dists, norm[2])
	}
	return pts, dists, nil
}

func (l Line) rawValues(tr *track.UserTrack, start, end float64) ([]giant.Point, []float64, error) {
	posns, err := tr.HeadXZPosns(start, end)
	if err != nil {
		return nil, nil, fmt.Errorf("plot: user %d: %w", tr.UserID(), err)
	}
	pts := make([]giant.Point, len(posns))
	dists := make([]float64, len(posns))
	for i, p := range posns {
		norm := l.Ranges.normPos(vec3.T{p[0], 0, p[1]})
		pts[i] = giant.Pt(float64(i)*l.Width/float64(len(posns)), norm[0]*l.Height)
		dists[i] = norm[2]
	}
	return pts, dists, nil
}

// Highlights returns the x positions and widths of the touches of tr in
// [start, end].
func (l Line) Highlights(tr *track.UserTrack, start, end float64) (xs, widths []float64) {
	if end <= start {
		return nil, nil
	}
	scale := l.Width / (end - start)
	for _, t := range tr.Touches(start, end) {
		xs = append(xs, (t.Time-start)*scale)
		widths = append(widths, t.Duration*scale)
	}
	return xs, widths
}

// Build sets the ribbon and touch highlights of tr in [start, end] on b.
func (l Line) Build(b *ribbon.Builder, tr *track.UserTrack, start, end float64) error {
	pts, dists, err := l.Values(tr, start, end)
	if err != nil {
		return err
	}
	if err := b.SetValues(pts, dists); err != nil {
		return err
	}
	if len(pts) == 0 {
		return nil
	}
	xs, widths := l.Highlights(tr, start, end)
	return b.SetHighlights(xs, widths)
}
