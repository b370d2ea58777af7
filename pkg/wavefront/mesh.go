package wavefront

import "fmt"

// VertexLayout identifies which attributes are interleaved in a mesh's
// vertex buffer. The layout is fixed when the mesh is created and every
// face routed to the mesh must conform to it.
type VertexLayout int

const (
	LayoutPosition               VertexLayout = iota // position only
	LayoutPositionTexCoord                           // position + texture coordinate
	LayoutPositionNormal                             // position + normal
	LayoutPositionTexCoordNormal                     // position + texture coordinate + normal
)

// Attribute widths in floats.
const (
	positionSize = 3
	normalSize   = 3
	texCoordSize = 2
)

// layoutInfo precomputes the stride and per-attribute float offsets for
// a layout. An offset of -1 means the attribute is absent. Positions
// always come first, then normals, then texture coordinates.
type layoutInfo struct {
	stride         int
	normalOffset   int
	texCoordOffset int
}

var layouts = [...]layoutInfo{
	LayoutPosition:               {stride: positionSize, normalOffset: -1, texCoordOffset: -1},
	LayoutPositionTexCoord:       {stride: positionSize + texCoordSize, normalOffset: -1, texCoordOffset: positionSize},
	LayoutPositionNormal:         {stride: positionSize + normalSize, normalOffset: positionSize, texCoordOffset: -1},
	LayoutPositionTexCoordNormal: {stride: positionSize + normalSize + texCoordSize, normalOffset: positionSize, texCoordOffset: positionSize + normalSize},
}

// Stride returns the size of one interleaved vertex in floats.
func (l VertexLayout) Stride() int { return layouts[l].stride }

// PositionOffset returns the float offset of the position attribute.
func (l VertexLayout) PositionOffset() int { return 0 }

// NormalOffset returns the float offset of the normal attribute within
// a vertex, or -1 if the layout has none.
func (l VertexLayout) NormalOffset() int { return layouts[l].normalOffset }

// TexCoordOffset returns the float offset of the texture coordinate
// within a vertex, or -1 if the layout has none.
func (l VertexLayout) TexCoordOffset() int { return layouts[l].texCoordOffset }

// HasNormal reports whether vertices carry a normal.
func (l VertexLayout) HasNormal() bool { return layouts[l].normalOffset >= 0 }

// HasTexCoord reports whether vertices carry a texture coordinate.
func (l VertexLayout) HasTexCoord() bool { return layouts[l].texCoordOffset >= 0 }

// String returns a human-readable layout name.
func (l VertexLayout) String() string {
	switch l {
	case LayoutPosition:
		return "position"
	case LayoutPositionTexCoord:
		return "position+texcoord"
	case LayoutPositionNormal:
		return "position+normal"
	case LayoutPositionTexCoordNormal:
		return "position+texcoord+normal"
	default:
		return fmt.Sprintf("unknown(%d)", int(l))
	}
}

// Mesh holds the render-ready geometry associated with one material.
// The vertex buffer interleaves attributes according to Layout; the
// index buffer is a triangle list, so its length is always a multiple
// of 3 and every index is below VertexCount.
type Mesh struct {
	Layout   VertexLayout // interleaved attribute set, fixed at creation
	Material string       // usemtl name the mesh belongs to ("" before any usemtl)
	Vertices []float32    // interleaved attributes, len = VertexCount() * Layout.Stride()
	Indices  []uint32     // triangle list, every 3 entries form one triangle
}

func newMesh(layout VertexLayout, material string) *Mesh {
	return &Mesh{Layout: layout, Material: material}
}

// VertexCount returns the number of interleaved vertices.
func (m *Mesh) VertexCount() int { return len(m.Vertices) / m.Layout.Stride() }

// TriangleCount returns the number of triangles in the index buffer.
func (m *Mesh) TriangleCount() int { return len(m.Indices) / 3 }
