package ribbon

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/imld/giant"
)

// VertexStride is the byte stride per vertex in VertexBytes:
// position (float32x2) + texcoord (float32x2) + color (float32x4) = 32 bytes.
const VertexStride = 32

// IndexFormat is the element format of IndexBytes.
var IndexFormat = gputypes.IndexFormatUint32

// Mesh is a triangle list with one color per vertex.
type Mesh struct {
	Vertices  []giant.Point
	Colors    []giant.RGBA8
	Triangles []Triangle
}

// VertexSink receives mesh data in the host's upload format.
type VertexSink interface {
	AppendPos(pos, texCoord giant.Point, color giant.RGBA8)
	AppendTriIndexes(v0, v1, v2 int)
}

// Mesh returns a copy of the current geometry.
func (b *Builder) Mesh() Mesh {
	return Mesh{
		Vertices:  append([]giant.Point(nil), b.vertexCoords...),
		Colors:    append([]giant.RGBA8(nil), b.colors...),
		Triangles: append([]Triangle(nil), b.triangles...),
	}
}

// CalcVertexes pushes the current geometry into sink.
func (b *Builder) CalcVertexes(sink VertexSink) {
	m := Mesh{Vertices: b.vertexCoords, Colors: b.colors, Triangles: b.triangles}
	m.CalcVertexes(sink)
}

// CalcVertexes pushes every vertex with a zero texture coordinate, then
// every triangle, into sink.
func (m Mesh) CalcVertexes(sink VertexSink) {
	for i, v := range m.Vertices {
		sink.AppendPos(v, giant.Point{}, m.Colors[i])
	}
	for _, t := range m.Triangles {
		sink.AppendTriIndexes(t[0], t[1], t[2])
	}
}

// Validate checks that every vertex has a color and every triangle index
// refers to a vertex.
func (m Mesh) Validate() error {
	if len(m.Vertices) != len(m.Colors) {
		return fmt.Errorf("ribbon: %d vertices, %d colors", len(m.Vertices), len(m.Colors))
	}
	for i, t := range m.Triangles {
		for _, v := range t {
			if v < 0 || v >= len(m.Vertices) {
				return fmt.Errorf("ribbon: triangle %d index %d outside [0, %d)", i, v, len(m.Vertices))
			}
		}
	}
	return nil
}

// Bounds returns the axis-aligned bounding box of the vertices. An empty
// mesh returns two zero points.
func (m Mesh) Bounds() (lo, hi giant.Point) {
	if len(m.Vertices) == 0 {
		return giant.Point{}, giant.Point{}
	}
	lo, hi = m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		lo = lo.Min(v)
		hi = hi.Max(v)
	}
	return lo, hi
}

// VertexLayout returns the vertex buffer layout of VertexBytes.
func VertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: VertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},  // position
				{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},  // texcoord
				{Format: gputypes.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 2}, // color
			},
		},
	}
}

// PrimitiveState returns the primitive state meshes are drawn with.
// Highlights and ribbon strips are wound the same way, but culling is off
// so mirrored node transforms still draw.
func PrimitiveState() gputypes.PrimitiveState {
	return gputypes.PrimitiveState{
		Topology: gputypes.PrimitiveTopologyTriangleList,
		CullMode: gputypes.CullModeNone,
	}
}

// VertexBytes packs the vertices little endian as described by
// VertexLayout. Colors are normalized to [0, 1], not premultiplied.
func (m Mesh) VertexBytes() []byte {
	buf := make([]byte, len(m.Vertices)*VertexStride)
	for i, v := range m.Vertices {
		c := m.Colors[i].Float()
		writeVertex(buf[i*VertexStride:], float32(v.X), float32(v.Y),
			[4]float32{float32(c.R), float32(c.G), float32(c.B), float32(c.A)})
	}
	return buf
}

// IndexBytes packs the triangle indexes as little endian uint32.
func (m Mesh) IndexBytes() []byte {
	buf := make([]byte, 0, len(m.Triangles)*3*4)
	for _, t := range m.Triangles {
		for _, v := range t {
			buf = binary.LittleEndian.AppendUint32(buf, uint32(v))
		}
	}
	return buf
}

func writeVertex(buf []byte, px, py float32, color [4]float32) {
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(px))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(py))
	binary.LittleEndian.PutUint32(buf[8:12], 0)
	binary.LittleEndian.PutUint32(buf[12:16], 0)
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(color[0]))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(color[1]))
	binary.LittleEndian.PutUint32(buf[24:28], math.Float32bits(color[2]))
	binary.LittleEndian.PutUint32(buf[28:32], math.Float32bits(color[3]))
}
