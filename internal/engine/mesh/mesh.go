// Package mesh holds CPU-side geometry before it is uploaded to the GPU.
package mesh

import (
	"github.com/Faultbox/normalmap-demo/pkg/math"
)

// Topology is the primitive type a mesh is drawn with.
type Topology int

const (
	TriangleStrip Topology = iota
	Triangles
)

func (t Topology) String() string {
	switch t {
	case TriangleStrip:
		return "triangle-strip"
	case Triangles:
		return "triangles"
	default:
		return "unknown"
	}
}

// Vertex is the interleaved vertex layout shared by every shader:
// location 0 position, 1 normal, 2 texture coordinate.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// FloatsPerVertex is the number of float32 values in one Vertex.
const FloatsPerVertex = 8

// Mesh is immutable geometry; it is built once at startup and uploaded.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32 // empty means draw Vertices in order
	Topology Topology

	BoundsMin math.Vec3
	BoundsMax math.Vec3
}

// Quad returns the unit quad of the normal-mapping scene: a 2x2 square in
// the z=0 plane facing -Z, drawn as a four-vertex triangle strip.
func Quad() *Mesh {
	n := [3]float32{0, 0, -1}
	m := &Mesh{
		Name: "quad",
		Vertices: []Vertex{
			{Position: [3]float32{-1, 1, 0}, Normal: n, TexCoord: [2]float32{0, 1}},
			{Position: [3]float32{1, 1, 0}, Normal: n, TexCoord: [2]float32{1, 1}},
			{Position: [3]float32{-1, -1, 0}, Normal: n, TexCoord: [2]float32{0, 0}},
			{Position: [3]float32{1, -1, 0}, Normal: n, TexCoord: [2]float32{1, 0}},
		},
		Topology: TriangleStrip,
	}
	m.CalculateBounds()
	return m
}

// DrawCount returns the element count for the draw call.
func (m *Mesh) DrawCount() int {
	if len(m.Indices) > 0 {
		return len(m.Indices)
	}
	return len(m.Vertices)
}

// Interleaved flattens the vertices into the buffer layout.
func (m *Mesh) Interleaved() []float32 {
	out := make([]float32, 0, len(m.Vertices)*FloatsPerVertex)
	for _, v := range m.Vertices {
		out = append(out, v.Position[:]...)
		out = append(out, v.Normal[:]...)
		out = append(out, v.TexCoord[:]...)
	}
	return out
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}
	m.BoundsMin = math.Vec3FromArray(m.Vertices[0].Position)
	m.BoundsMax = m.BoundsMin
	for _, v := range m.Vertices[1:] {
		p := math.Vec3FromArray(v.Position)
		m.BoundsMin = math.V3(min(m.BoundsMin.X, p.X), min(m.BoundsMin.Y, p.Y), min(m.BoundsMin.Z, p.Z))
		m.BoundsMax = math.V3(max(m.BoundsMax.X, p.X), max(m.BoundsMax.Y, p.Y), max(m.BoundsMax.Z, p.Z))
	}
}

// triangles calls fn for each triangle's vertex indices.
func (m *Mesh) triangles(fn func(a, b, c uint32)) {
	idx := m.Indices
	if len(idx) == 0 {
		idx = make([]uint32, len(m.Vertices))
		for i := range idx {
			idx[i] = uint32(i)
		}
	}
	switch m.Topology {
	case Triangles:
		for i := 0; i+2 < len(idx); i += 3 {
			fn(idx[i], idx[i+1], idx[i+2])
		}
	case TriangleStrip:
		for i := 0; i+2 < len(idx); i++ {
			if i%2 == 0 {
				fn(idx[i], idx[i+1], idx[i+2])
			} else {
				fn(idx[i+1], idx[i], idx[i+2])
			}
		}
	}
}

// CalculateSmoothNormals replaces vertex normals with the area-weighted
// average of the adjacent face normals. Vertices on no face keep a zero
// normal.
func (m *Mesh) CalculateSmoothNormals() {
	acc := make([]math.Vec3, len(m.Vertices))
	m.triangles(func(a, b, c uint32) {
		p0 := math.Vec3FromArray(m.Vertices[a].Position)
		p1 := math.Vec3FromArray(m.Vertices[b].Position)
		p2 := math.Vec3FromArray(m.Vertices[c].Position)
		// Unnormalized cross product weights by triangle area.
		n := p1.Sub(p0).Cross(p2.Sub(p0))
		acc[a] = acc[a].Add(n)
		acc[b] = acc[b].Add(n)
		acc[c] = acc[c].Add(n)
	})
	for i := range m.Vertices {
		n, err := acc[i].Normalize()
		if err != nil {
			n = math.Vec3{}
		}
		m.Vertices[i].Normal = n.Array()
	}
}
