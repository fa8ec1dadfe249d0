package ribbon

import "github.com/imld/giant"

// Default parameters.
const (
	DefaultMaxWidth            = 1.0
	DefaultWidthWindow         = 5
	DefaultHighlightHalfHeight = 3.0

	// minHighlightWidth is the narrowest highlight stamped, so that
	// instantaneous events still show at least two markers.
	minHighlightWidth = 2.0
)

// Host is the scene-graph node that owns a Builder. It supplies the base
// line color, queried on every SetValues, and is told when the geometry
// changed and needs to be drawn again.
type Host interface {
	Color() giant.RGBA8
	SetDrawNeeded()
}

// staticHost is the Host used when none is configured.
type staticHost struct {
	color giant.RGBA8
}

func (h staticHost) Color() giant.RGBA8 { return h.color }
func (staticHost) SetDrawNeeded()       {}

// Option configures a Builder during creation.
//
// Example:
//
//	b := ribbon.New(ribbon.WithMaxWidth(5), ribbon.WithHost(node))
type Option func(*options)

type options struct {
	maxWidth            float64
	widthWindow         int
	host                Host
	highlightHalfHeight float64
	highlightColor      giant.RGBA8
}

func defaultOptions() options {
	return options{
		maxWidth:            DefaultMaxWidth,
		widthWindow:         DefaultWidthWindow,
		host:                staticHost{color: giant.White},
		highlightHalfHeight: DefaultHighlightHalfHeight,
		highlightColor:      giant.White,
	}
}

// WithMaxWidth sets how much a distance of 1 adds to the half-width.
func WithMaxWidth(w float64) Option {
	return func(o *options) {
		o.maxWidth = w
	}
}

// WithWidthWindow sets the number of points the half-width is averaged
// over. Even sizes are rounded up to the next odd size; sizes below 1 are
// ignored.
func WithWidthWindow(n int) Option {
	return func(o *options) {
		if n >= 1 {
			o.widthWindow = n
		}
	}
}

// WithHost attaches the builder to a scene-graph node.
func WithHost(h Host) Option {
	return func(o *options) {
		if h != nil {
			o.host = h
		}
	}
}

// WithColor sets a fixed base color for builders without a Host.
func WithColor(c giant.RGBA8) Option {
	return func(o *options) {
		o.host = staticHost{color: c}
	}
}

// WithHighlightHalfHeight sets the half-height of highlight markers.
func WithHighlightHalfHeight(h float64) Option {
	return func(o *options) {
		o.highlightHalfHeight = h
	}
}

// WithHighlightColor sets the color of highlight markers.
func WithHighlightColor(c giant.RGBA8) Option {
	return func(o *options) {
		o.highlightColor = c
	}
}
