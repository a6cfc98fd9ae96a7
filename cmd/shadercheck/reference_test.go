package main

import (
	"errors"
	"testing"

	"github.com/Faultbox/normalmap-demo/internal/config"
	"github.com/Faultbox/normalmap-demo/internal/engine/camera"
	"github.com/Faultbox/normalmap-demo/internal/engine/shading"
	"github.com/Faultbox/normalmap-demo/pkg/math"
)

func newFlatReference(t *testing.T, elapsed float32) *reference {
	t.Helper()
	r, err := newReference(config.Default().Scene, 1024, 768, elapsed,
		shading.Constant{X: 1, Y: 1, Z: 1}, shading.FlatNormal)
	if err != nil {
		t.Fatalf("newReference: %v", err)
	}
	return r
}

func TestReferenceCenterOnViewAxis(t *testing.T) {
	// The default camera looks from its eye straight at the origin.
	r := newFlatReference(t, 0)
	c := r.ndc(math.Vec2{X: 0.5, Y: 0.5})
	if c.X > 1e-5 || c.X < -1e-5 || c.Y > 1e-5 || c.Y < -1e-5 {
		t.Errorf("center ndc = %v, want x=y=0", c)
	}
}

func TestReferenceFlatNormalMap(t *testing.T) {
	r := newFlatReference(t, 0.3)
	uv := math.Vec2{X: 0.5, Y: 0.5}
	frag := r.fragment(uv)

	tbn, err := shading.CotangentFrame(frag.Normal, frag.DPdx, frag.DPdy, frag.DUVdx, frag.DUVdy)
	if err != nil {
		t.Fatalf("CotangentFrame: %v", err)
	}
	got, err := shading.PerturbNormal(tbn, math.Vec3(shading.FlatNormal))
	if err != nil {
		t.Fatalf("PerturbNormal: %v", err)
	}
	want := frag.Normal.MustNormalize().Negate()
	if !got.ApproxEqual(want, 1e-5) {
		t.Errorf("flat map normal = %v, want %v", got, want)
	}

	terms, err := r.shade(uv)
	if err != nil {
		t.Fatalf("shade: %v", err)
	}
	if !terms.Ambient.ApproxEqual(math.V3(0.1, 0.1, 0.1), 1e-6) {
		t.Errorf("ambient = %v, want 0.1", terms.Ambient)
	}
	wantDiffuse := max(want.Dot(r.light.MustNormalize()), 0)
	if d := terms.DiffuseIntensity - wantDiffuse; d > 1e-5 || d < -1e-5 {
		t.Errorf("diffuse = %v, want %v", terms.DiffuseIntensity, wantDiffuse)
	}
}

func TestReferenceGrid(t *testing.T) {
	r := newFlatReference(t, 1.2)
	for _, v := range referenceGrid {
		for _, u := range referenceGrid {
			if _, err := r.shade(math.Vec2{X: u, Y: v}); err != nil {
				t.Errorf("uv (%v, %v): %v", u, v, err)
			}
		}
	}
}

func TestReferenceInvalidViewport(t *testing.T) {
	_, err := newReference(config.Default().Scene, 0, 768, 0, shading.FlatNormal, shading.FlatNormal)
	if !errors.Is(err, camera.ErrInvalidViewport) {
		t.Errorf("err = %v, want ErrInvalidViewport", err)
	}
}

func TestReferenceSamplers(t *testing.T) {
	sc := config.Default().Scene
	sc.DiffuseTexture = ""
	sc.NormalTexture = ""
	d, n, err := referenceSamplers(sc)
	if err != nil {
		t.Fatalf("referenceSamplers: %v", err)
	}
	if d != (shading.Constant{X: 1, Y: 1, Z: 1}) || n != shading.FlatNormal {
		t.Errorf("fallbacks = %v, %v", d, n)
	}

	sc.NormalTexture = "/nonexistent/normal.png"
	if _, _, err := referenceSamplers(sc); err == nil {
		t.Error("expected error for missing normal map")
	}
}

func TestReferenceShininessFromConfig(t *testing.T) {
	sc := config.Default().Scene
	sc.Shininess = 48
	r, err := newReference(sc, 800, 600, 0, shading.FlatNormal, shading.FlatNormal)
	if err != nil {
		t.Fatalf("newReference: %v", err)
	}
	if r.mat.Shininess != 48 {
		t.Errorf("shininess = %v, want 48", r.mat.Shininess)
	}

	for _, bad := range []float32{0, -1} {
		sc.Shininess = bad
		if _, err := newReference(sc, 800, 600, 0, shading.FlatNormal, shading.FlatNormal); !errors.Is(err, config.ErrInvalidShininess) {
			t.Errorf("shininess %v: err = %v, want ErrInvalidShininess", bad, err)
		}
	}
}
