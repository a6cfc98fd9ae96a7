package mesh

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// ErrNoGeometry is returned when a glTF file has no triangle primitives.
var ErrNoGeometry = errors.New("no triangle geometry")

// LoadGLTF loads every triangle primitive of a .gltf or .glb file into a
// single indexed mesh. Missing normals are computed; missing texture
// coordinates are zero.
func LoadGLTF(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	m := &Mesh{Name: filepath.Base(path), Topology: Triangles}
	hasNormals := true
	for _, gm := range doc.Meshes {
		for i, prim := range gm.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			n, err := appendPrimitive(doc, prim, m)
			if err != nil {
				return nil, fmt.Errorf("mesh %q primitive %d: %w", gm.Name, i, err)
			}
			hasNormals = hasNormals && n
		}
	}
	if len(m.Indices) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoGeometry)
	}

	if !hasNormals {
		m.CalculateSmoothNormals()
	}
	m.CalculateBounds()
	return m, nil
}

// appendPrimitive adds one primitive's vertices and indices to m and
// reports whether it carried normals.
func appendPrimitive(doc *gltf.Document, prim *gltf.Primitive, m *Mesh) (bool, error) {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return true, nil
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return false, fmt.Errorf("read positions: %w", err)
	}

	var normals [][3]float32
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil)
		if err != nil {
			return false, fmt.Errorf("read normals: %w", err)
		}
	}

	var uvs [][2]float32
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
		if err != nil {
			return false, fmt.Errorf("read texcoords: %w", err)
		}
	}

	base := uint32(len(m.Vertices))
	for i, p := range positions {
		v := Vertex{Position: p}
		if i < len(normals) {
			v.Normal = normals[i]
		}
		if i < len(uvs) {
			// glTF puts V=0 at the top of the image.
			v.TexCoord = [2]float32{uvs[i][0], 1 - uvs[i][1]}
		}
		m.Vertices = append(m.Vertices, v)
	}

	if prim.Indices != nil {
		indices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return false, fmt.Errorf("read indices: %w", err)
		}
		for _, i := range indices {
			if int(i) >= len(positions) {
				return false, fmt.Errorf("index %d out of range (%d vertices)", i, len(positions))
			}
			m.Indices = append(m.Indices, base+i)
		}
	} else {
		for i := range positions {
			m.Indices = append(m.Indices, base+uint32(i))
		}
	}

	return len(normals) == len(positions), nil
}
