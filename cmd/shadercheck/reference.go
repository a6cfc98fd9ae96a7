package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/normalmap-demo/internal/config"
	"github.com/Faultbox/normalmap-demo/internal/engine/camera"
	"github.com/Faultbox/normalmap-demo/internal/engine/shading"
	"github.com/Faultbox/normalmap-demo/internal/engine/texture"
	"github.com/Faultbox/normalmap-demo/internal/logger"
	"github.com/Faultbox/normalmap-demo/pkg/math"
)

// referenceStep is the texture-space step of the finite differences that
// stand in for dFdx/dFdy.
const referenceStep = 1.0 / 512

// reference evaluates the normal-mapping fragment stage on the host for
// points of the quad, giving colors to compare against a screenshot.
type reference struct {
	mvp       math.Mat4
	normalMat math.Mat3
	mat       shading.Material
	light     math.Vec3
}

func newReference(sc config.SceneConfig, width, height int, elapsed float32, diffuse, normalMap shading.Sampler) (*reference, error) {
	cam := sc.CameraValue()
	view, err := cam.View()
	if err != nil {
		return nil, err
	}
	aspect, err := camera.AspectRatio(width, height)
	if err != nil {
		return nil, err
	}
	proj, err := cam.Projection(aspect)
	if err != nil {
		return nil, err
	}

	model := sc.AnimatorValue().Model(elapsed)
	modelView := view.Mul(model)
	nm, err := math.TransposeInverse3x3(modelView)
	if err != nil {
		return nil, fmt.Errorf("normal matrix: %w", err)
	}

	// Same exponent the renderer uploads as u_shininess.
	if sc.Shininess <= 0 {
		return nil, fmt.Errorf("shininess %v: %w", sc.Shininess, config.ErrInvalidShininess)
	}
	mat := shading.DefaultMaterial(diffuse, normalMap)
	mat.Specular = math.Vec3FromArray(sc.Specular)
	mat.Shininess = sc.Shininess

	return &reference{
		mvp:       proj.Mul(modelView),
		normalMat: nm,
		mat:       mat,
		light:     sc.LightDirection(),
	}, nil
}

// ndc mirrors the vertex shader's v_position: clip position over w.
func (r *reference) ndc(uv math.Vec2) math.Vec3 {
	c := r.mvp.MulVec4(math.Vec4{2*uv.X - 1, 2*uv.Y - 1, 0, 1})
	return math.V3(c[0]/c[3], c[1]/c[3], c[2]/c[3])
}

// fragment reconstructs the interpolated inputs of the quad at uv.
func (r *reference) fragment(uv math.Vec2) shading.Fragment {
	pos := r.ndc(uv)
	return shading.Fragment{
		TexCoord: uv,
		Position: pos,
		Normal:   r.normalMat.MulVec3(math.V3(0, 0, -1)),
		DPdx:     r.ndc(uv.Add(math.Vec2{X: referenceStep})).Sub(pos),
		DPdy:     r.ndc(uv.Add(math.Vec2{Y: referenceStep})).Sub(pos),
		DUVdx:    math.Vec2{X: referenceStep},
		DUVdy:    math.Vec2{Y: referenceStep},
	}
}

func (r *reference) shade(uv math.Vec2) (shading.Terms, error) {
	return shading.ShadeTerms(r.fragment(uv), r.mat, r.light)
}

// referenceSamplers loads the configured textures as samplers. Missing paths
// fall back to a white diffuse and a flat normal map.
func referenceSamplers(sc config.SceneConfig) (diffuse, normalMap shading.Sampler, err error) {
	diffuse = shading.Constant{X: 1, Y: 1, Z: 1}
	normalMap = shading.FlatNormal
	if sc.DiffuseTexture != "" {
		img, err := texture.Load(sc.DiffuseTexture)
		if err != nil {
			return nil, nil, fmt.Errorf("diffuse texture: %w", err)
		}
		// The GPU samples the diffuse map as sRGB.
		diffuse = texture.NewSampler(img, true)
	}
	if sc.NormalTexture != "" {
		img, err := texture.Load(sc.NormalTexture)
		if err != nil {
			return nil, nil, fmt.Errorf("normal texture: %w", err)
		}
		normalMap = texture.NewSampler(img, false)
	}
	return diffuse, normalMap, nil
}

// referenceGrid is the set of texture coordinates logged by runReference.
var referenceGrid = []float32{0.25, 0.5, 0.75}

func runReference(sc config.SceneConfig, width, height int, elapsed float32) error {
	diffuse, normalMap, err := referenceSamplers(sc)
	if err != nil {
		return err
	}
	r, err := newReference(sc, width, height, elapsed, diffuse, normalMap)
	if err != nil {
		return err
	}
	for _, v := range referenceGrid {
		for _, u := range referenceGrid {
			terms, err := r.shade(math.Vec2{X: u, Y: v})
			if err != nil {
				return fmt.Errorf("uv (%v, %v): %w", u, v, err)
			}
			c := terms.Color()
			logger.Info("reference",
				zap.Float32("u", u),
				zap.Float32("v", v),
				zap.Float32s("color", []float32{c.X, c.Y, c.Z}),
				zap.Float32("diffuse", terms.DiffuseIntensity),
				zap.Float32("specular", terms.SpecularIntensity),
			)
		}
	}
	return nil
}
