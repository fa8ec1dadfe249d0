// Package ribbon generates variable-width, variable-opacity ribbon meshes
// from a centerline and a per-point distance scalar.
//
// # Algorithm Overview
//
// Every centerline point becomes two vertices offset vertically by the
// point's half-width, and consecutive vertex pairs are joined by two
// triangles:
//
//	top:     t0 ---- t1 ---- t2
//	          |  \    |  \    |
//	bottom:  b0 ---- b1 ---- b2
//
// The distance scalar d is clamped to [0, 1] and drives both encodings:
//   - half-width: 1 + d*maxWidth, smoothed by a sliding window in the
//     interior of the line
//   - opacity: (1-d)^2, so near points are opaque and far points fade out
//
// The offset is applied along the y axis rather than the line normal,
// which is accurate for lines that run roughly left to right, such as
// time series.
//
// # Highlights
//
// After SetValues, SetHighlights stamps short opaque markers onto the
// centerline at 1-unit steps, for example to mark touch intervals. The
// markers are appended to the existing geometry.
//
// # Usage
//
//	b := ribbon.New(ribbon.WithMaxWidth(5), ribbon.WithColor(giant.UserColor(0)))
//	if err := b.SetValues(points, dists); err != nil {
//	    return err
//	}
//	if err := b.SetHighlights(touchX, touchWidths); err != nil {
//	    return err
//	}
//	mesh := b.Mesh()
//	vertices, indexes := mesh.VertexBytes(), mesh.IndexBytes()
//
// A Builder is not safe for concurrent use.
package ribbon
