package mesh

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

func TestQuad(t *testing.T) {
	q := Quad()
	if q.Topology != TriangleStrip {
		t.Errorf("topology = %v, want triangle-strip", q.Topology)
	}
	if q.DrawCount() != 4 {
		t.Errorf("DrawCount() = %d, want 4", q.DrawCount())
	}
	for i, v := range q.Vertices {
		if v.Normal != [3]float32{0, 0, -1} {
			t.Errorf("vertex %d normal = %v, want (0,0,-1)", i, v.Normal)
		}
		if v.Position[2] != 0 {
			t.Errorf("vertex %d not in z=0 plane", i)
		}
	}
	// Texture coordinates follow position: u = (x+1)/2, v = (y+1)/2.
	for i, v := range q.Vertices {
		u := (v.Position[0] + 1) / 2
		w := (v.Position[1] + 1) / 2
		if v.TexCoord != [2]float32{u, w} {
			t.Errorf("vertex %d texcoord = %v, want (%v,%v)", i, v.TexCoord, u, w)
		}
	}
	if q.BoundsMin.X != -1 || q.BoundsMax.Y != 1 {
		t.Errorf("bounds = %v..%v", q.BoundsMin, q.BoundsMax)
	}
}

func TestInterleaved(t *testing.T) {
	q := Quad()
	data := q.Interleaved()
	if len(data) != 4*FloatsPerVertex {
		t.Fatalf("len = %d, want %d", len(data), 4*FloatsPerVertex)
	}
	// Second vertex: position (1,1,0), normal (0,0,-1), uv (1,1).
	want := []float32{1, 1, 0, 0, 0, -1, 1, 1}
	got := data[FloatsPerVertex : 2*FloatsPerVertex]
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("vertex 1 = %v, want %v", got, want)
		}
	}
}

func TestCalculateSmoothNormalsStrip(t *testing.T) {
	q := Quad()
	for i := range q.Vertices {
		q.Vertices[i].Normal = [3]float32{}
	}
	q.CalculateSmoothNormals()
	// The strip's first triangle winds (-1,1),(1,1),(-1,-1): clockwise seen
	// from +Z, so its normal is -Z. Strip parity keeps the second consistent.
	for i, v := range q.Vertices {
		if v.Normal != [3]float32{0, 0, -1} {
			t.Errorf("vertex %d normal = %v, want (0,0,-1)", i, v.Normal)
		}
	}
}

func writeGLB(t *testing.T, positions [][3]float32, uvs [][2]float32, indices []uint32) string {
	t.Helper()
	doc := gltf.NewDocument()
	attrs := map[string]int{
		gltf.POSITION: modeler.WritePosition(doc, positions),
	}
	if uvs != nil {
		attrs[gltf.TEXCOORD_0] = modeler.WriteTextureCoord(doc, uvs)
	}
	prim := &gltf.Primitive{Attributes: attrs}
	if indices != nil {
		prim.Indices = gltf.Index(modeler.WriteIndices(doc, indices))
	}
	doc.Meshes = []*gltf.Mesh{{Name: "test", Primitives: []*gltf.Primitive{prim}}}

	path := filepath.Join(t.TempDir(), "test.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatalf("SaveBinary: %v", err)
	}
	return path
}

func TestLoadGLTF(t *testing.T) {
	positions := [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}}
	uvs := [][2]float32{{0, 1}, {1, 1}, {0, 0}, {1, 0}}
	indices := []uint32{0, 1, 2, 2, 1, 3}
	path := writeGLB(t, positions, uvs, indices)

	m, err := LoadGLTF(path)
	if err != nil {
		t.Fatalf("LoadGLTF: %v", err)
	}
	if m.Topology != Triangles {
		t.Errorf("topology = %v, want triangles", m.Topology)
	}
	if len(m.Vertices) != 4 || len(m.Indices) != 6 {
		t.Fatalf("got %d vertices, %d indices", len(m.Vertices), len(m.Indices))
	}
	for i, want := range indices {
		if m.Indices[i] != want {
			t.Errorf("index %d = %d, want %d", i, m.Indices[i], want)
		}
	}
	// V is flipped to a bottom-left origin.
	if m.Vertices[0].TexCoord != [2]float32{0, 0} {
		t.Errorf("uv 0 = %v, want (0,0)", m.Vertices[0].TexCoord)
	}
	if m.Vertices[3].TexCoord != [2]float32{1, 1} {
		t.Errorf("uv 3 = %v, want (1,1)", m.Vertices[3].TexCoord)
	}
	// No normals in the file: counter-clockwise triangles face +Z.
	for i, v := range m.Vertices {
		if v.Normal != [3]float32{0, 0, 1} {
			t.Errorf("vertex %d normal = %v, want (0,0,1)", i, v.Normal)
		}
	}
	if m.BoundsMax.X != 1 || m.BoundsMax.Y != 1 {
		t.Errorf("bounds max = %v", m.BoundsMax)
	}
}

func TestLoadGLTFUnindexed(t *testing.T) {
	positions := [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	path := writeGLB(t, positions, nil, nil)

	m, err := LoadGLTF(path)
	if err != nil {
		t.Fatalf("LoadGLTF: %v", err)
	}
	if m.DrawCount() != 3 {
		t.Errorf("DrawCount() = %d, want 3", m.DrawCount())
	}
	if m.Vertices[1].TexCoord != [2]float32{} {
		t.Errorf("missing uvs should be zero, got %v", m.Vertices[1].TexCoord)
	}
}

func TestLoadGLTFNoGeometry(t *testing.T) {
	doc := gltf.NewDocument()
	path := filepath.Join(t.TempDir(), "empty.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatalf("SaveBinary: %v", err)
	}
	_, err := LoadGLTF(path)
	if !errors.Is(err, ErrNoGeometry) {
		t.Errorf("err = %v, want ErrNoGeometry", err)
	}
}

func TestLoadGLTFMissing(t *testing.T) {
	if _, err := LoadGLTF("/nonexistent/model.glb"); err == nil {
		t.Error("expected error for missing file")
	}
}
