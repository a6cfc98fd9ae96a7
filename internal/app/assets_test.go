package app

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/normalmap-demo/internal/config"
	"github.com/Faultbox/normalmap-demo/internal/engine/frame"
	"github.com/Faultbox/normalmap-demo/internal/engine/mesh"
	"github.com/Faultbox/normalmap-demo/internal/engine/texture"
	"github.com/Faultbox/normalmap-demo/pkg/math"
)

func TestLoadAssetsNormalMapFallbacks(t *testing.T) {
	a, err := loadAssets(config.Default().Scene)
	if err != nil {
		t.Fatalf("loadAssets: %v", err)
	}
	if a.mesh.Topology != mesh.TriangleStrip || len(a.mesh.Vertices) != 4 {
		t.Errorf("mesh = %s with %d vertices, want the quad", a.mesh.Topology, len(a.mesh.Vertices))
	}
	if a.diffuse == nil || a.normal == nil {
		t.Fatal("fallback textures missing")
	}
	if a.diffuse.Rect.Dx() != fallbackSize {
		t.Errorf("diffuse size = %v", a.diffuse.Rect)
	}
}

func TestLoadAssetsNormalMapFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "normal.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, texture.FlatNormalMap(4)); err != nil {
		t.Fatal(err)
	}
	f.Close()

	sc := config.Default().Scene
	sc.NormalTexture = path
	a, err := loadAssets(sc)
	if err != nil {
		t.Fatalf("loadAssets: %v", err)
	}
	if got := a.normal.RGBAAt(1, 1); got != (color.RGBA{128, 128, 255, 255}) {
		t.Errorf("normal texel = %v", got)
	}

	sc.DiffuseTexture = filepath.Join(dir, "missing.png")
	if _, err := loadAssets(sc); err == nil {
		t.Error("expected error for missing diffuse texture")
	}
}

func TestLoadAssetsMesh(t *testing.T) {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	idx := modeler.WriteIndices(doc, []uint32{0, 1, 2})
	doc.Meshes = []*gltf.Mesh{{
		Name:       "tri",
		Primitives: []*gltf.Primitive{{Indices: gltf.Index(idx), Attributes: map[string]int{gltf.POSITION: pos}}},
	}}
	path := filepath.Join(t.TempDir(), "tri.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatalf("SaveBinary: %v", err)
	}

	sc := config.DefaultMesh().Scene
	sc.Mesh = path
	a, err := loadAssets(sc)
	if err != nil {
		t.Fatalf("loadAssets: %v", err)
	}
	if a.mesh.Topology != mesh.Triangles || a.mesh.DrawCount() != 3 {
		t.Errorf("mesh = %s, %d elements", a.mesh.Topology, a.mesh.DrawCount())
	}
	if a.diffuse != nil || a.normal != nil {
		t.Error("mesh scene should not load textures")
	}
}

func TestLoadAssetsUnknownKind(t *testing.T) {
	sc := config.Default().Scene
	sc.Kind = "voxel"
	if _, err := loadAssets(sc); err == nil {
		t.Error("expected error for unknown scene kind")
	}
}

func TestSceneFor(t *testing.T) {
	cfg := config.DefaultMesh()
	s := sceneFor(cfg, mesh.Triangles, 0, 0)

	if s.Topology != mesh.Triangles {
		t.Errorf("topology = %v", s.Topology)
	}
	if s.Animator.Scale != 0.01 || s.Animator.Offset != math.V3(0, 0, 2.5) {
		t.Errorf("animator = %+v", s.Animator)
	}
	if s.LightDirection != math.V3(-1, 0.4, 0.9) {
		t.Errorf("light = %v", s.LightDirection)
	}
	if s.ClearColor != cfg.Graphics.ClearColor {
		t.Errorf("clear color = %v", s.ClearColor)
	}

	// The assembled scene is accepted by the frame driver.
	if _, err := frame.NewSession(nopRenderer{}, s); err != nil {
		t.Errorf("NewSession: %v", err)
	}
}

type nopRenderer struct{}

func (nopRenderer) Clear([4]float32, float32)                   {}
func (nopRenderer) Draw(frame.Uniforms, frame.DrawParams) error { return nil }
func (nopRenderer) Present() error                              { return nil }
