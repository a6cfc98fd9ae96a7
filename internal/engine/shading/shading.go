// Package shading is the host-side reference of the fragment stage used by
// the normal-mapping scene. Every function is pure and works on values, so
// the lighting math can be exercised without a GL context. The GLSL in
// internal/engine/shader mirrors these formulas line for line.
package shading

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/Faultbox/normalmap-demo/pkg/math"
)

// ErrDegenerateTangentFrame is returned when the screen-space derivatives
// of a fragment cannot span a tangent frame (for example a UV mapping that
// collapses to a point).
var ErrDegenerateTangentFrame = errors.New("degenerate tangent frame")

const (
	// AmbientFactor scales the diffuse texel into the ambient term.
	AmbientFactor = 0.1
	// DefaultShininess is the Blinn-Phong exponent.
	DefaultShininess = 16
)

// Sampler looks up a color at a texture coordinate. Components are in
// [0, 1].
type Sampler interface {
	Sample(uv math.Vec2) math.Vec3
}

// Constant is a Sampler returning the same color everywhere.
type Constant math.Vec3

// Sample implements Sampler.
func (c Constant) Sample(math.Vec2) math.Vec3 {
	return math.Vec3(c)
}

// FlatNormal is the normal-map texel for an unperturbed surface.
var FlatNormal = Constant{X: 0.5, Y: 0.5, Z: 1}

// Material holds the textures and specular response of a surface.
type Material struct {
	Diffuse   Sampler
	NormalMap Sampler
	Specular  math.Vec3
	Shininess float32
}

// DefaultMaterial returns a material with a white specular highlight and
// the default shininess.
func DefaultMaterial(diffuse, normalMap Sampler) Material {
	return Material{
		Diffuse:   diffuse,
		NormalMap: normalMap,
		Specular:  math.V3(1, 1, 1),
		Shininess: DefaultShininess,
	}
}

// Fragment is the interpolated input of one fragment. Position is the
// normalized device coordinate (clip position divided by w) the vertex
// stage emits, and the view direction is taken as -Position in that space.
// Normal is in camera space, transformed by the normal matrix of
// view*model. The D fields are the screen-space partial derivatives of
// Position and TexCoord the GPU provides through dFdx/dFdy.
type Fragment struct {
	TexCoord math.Vec2
	Position math.Vec3
	Normal   math.Vec3

	DPdx, DPdy   math.Vec3
	DUVdx, DUVdy math.Vec2
}

// Terms is the lit color split into its components. The final color is
// their plain sum; nothing is clamped, so highlights may exceed 1 and are
// left for the display to clip.
type Terms struct {
	Ambient  math.Vec3
	Diffuse  math.Vec3
	Specular math.Vec3

	// DiffuseIntensity and SpecularIntensity are the scalar factors before
	// they are multiplied by a color.
	DiffuseIntensity  float32
	SpecularIntensity float32
}

// Color returns Ambient + Diffuse + Specular.
func (t Terms) Color() math.Vec3 {
	return t.Ambient.Add(t.Diffuse).Add(t.Specular)
}

// CotangentFrame builds a per-fragment tangent basis from screen-space
// derivatives of position and texture coordinate. Columns are T, B and the
// given normal. T and B share one scale factor so the frame stays
// proportional to the UV mapping.
func CotangentFrame(normal, dpdx, dpdy math.Vec3, duvdx, duvdy math.Vec2) (math.Mat3, error) {
	dp2perp := dpdy.Cross(normal)
	dp1perp := normal.Cross(dpdx)
	t := dp2perp.Scale(duvdx.X).Add(dp1perp.Scale(duvdy.X))
	b := dp2perp.Scale(duvdx.Y).Add(dp1perp.Scale(duvdy.Y))

	m := t.Dot(t)
	if bb := b.Dot(b); bb > m {
		m = bb
	}
	if m == 0 || gomath.IsNaN(float64(m)) || gomath.IsInf(float64(m), 0) {
		return math.Mat3{}, fmt.Errorf("dP=(%v, %v) dUV=(%v, %v): %w", dpdx, dpdy, duvdx, duvdy, ErrDegenerateTangentFrame)
	}
	invmax := float32(1 / gomath.Sqrt(float64(m)))

	return math.Mat3FromColumns(t.Scale(invmax), b.Scale(invmax), normal), nil
}

// PerturbNormal maps a normal-map texel from [0,1] to [-1,1], moves it into
// camera space through the tangent frame and negates it: the maps encode
// normals pointing into the surface.
func PerturbNormal(tbn math.Mat3, texel math.Vec3) (math.Vec3, error) {
	mapped := texel.Scale(2).Sub(math.V3(1, 1, 1))
	n, err := tbn.MulVec3(mapped.Negate()).Normalize()
	if err != nil {
		return math.Vec3{}, fmt.Errorf("perturbed normal: %w", err)
	}
	return n, nil
}

// ShadeTerms evaluates the lighting model for one fragment.
func ShadeTerms(frag Fragment, mat Material, lightDirection math.Vec3) (Terms, error) {
	diffuseColor := mat.Diffuse.Sample(frag.TexCoord)
	ambient := diffuseColor.Scale(AmbientFactor)

	tbn, err := CotangentFrame(frag.Normal, frag.DPdx, frag.DPdy, frag.DUVdx, frag.DUVdy)
	if err != nil {
		return Terms{}, err
	}
	normal, err := PerturbNormal(tbn, mat.NormalMap.Sample(frag.TexCoord))
	if err != nil {
		return Terms{}, err
	}

	light, err := lightDirection.Normalize()
	if err != nil {
		return Terms{}, fmt.Errorf("light direction: %w", err)
	}
	diffuse := max(normal.Dot(light), 0)

	cameraDir, err := frag.Position.Negate().Normalize()
	if err != nil {
		return Terms{}, fmt.Errorf("fragment at device origin: %w", err)
	}

	var specular float32
	// Light exactly opposite the viewer has no half vector and no highlight.
	if half, err := light.Add(cameraDir).Normalize(); err == nil {
		specular = float32(gomath.Pow(float64(max(half.Dot(normal), 0)), float64(mat.Shininess)))
	}

	return Terms{
		Ambient:           ambient,
		Diffuse:           diffuseColor.Scale(diffuse),
		Specular:          mat.Specular.Scale(specular),
		DiffuseIntensity:  diffuse,
		SpecularIntensity: specular,
	}, nil
}

// Shade returns the final color of one fragment.
func Shade(frag Fragment, mat Material, lightDirection math.Vec3) (math.Vec3, error) {
	terms, err := ShadeTerms(frag, mat, lightDirection)
	if err != nil {
		return math.Vec3{}, err
	}
	return terms.Color(), nil
}

// LambertMix is the lighting of the mesh scene: the brightness
// dot(normal, light) blends linearly from dark to regular. Brightness is
// not clamped, so back faces extrapolate past dark.
func LambertMix(normal, lightDirection, dark, regular math.Vec3) (math.Vec3, error) {
	n, err := normal.Normalize()
	if err != nil {
		return math.Vec3{}, fmt.Errorf("normal: %w", err)
	}
	l, err := lightDirection.Normalize()
	if err != nil {
		return math.Vec3{}, fmt.Errorf("light direction: %w", err)
	}
	brightness := n.Dot(l)
	return dark.Add(regular.Sub(dark).Scale(brightness)), nil
}
