package app

import (
	"fmt"
	"image"
	"image/color"

	"github.com/Faultbox/normalmap-demo/internal/config"
	"github.com/Faultbox/normalmap-demo/internal/engine/frame"
	"github.com/Faultbox/normalmap-demo/internal/engine/mesh"
	"github.com/Faultbox/normalmap-demo/internal/engine/texture"
)

// Fallback texture parameters when no file is configured.
const (
	fallbackSize   = 256
	fallbackChecks = 8
	fallbackBumps  = 4
)

// assets is everything decoded on the host before upload.
type assets struct {
	mesh    *mesh.Mesh
	diffuse *image.RGBA // nil for scenes without textures
	normal  *image.RGBA
}

// loadAssets decodes the geometry and textures of the configured scene.
func loadAssets(sc config.SceneConfig) (*assets, error) {
	switch sc.Kind {
	case config.SceneMesh:
		m, err := mesh.LoadGLTF(sc.Mesh)
		if err != nil {
			return nil, fmt.Errorf("loading mesh: %w", err)
		}
		return &assets{mesh: m}, nil

	case config.SceneNormalMap:
		a := &assets{mesh: mesh.Quad()}
		var err error
		if a.diffuse, err = loadOr(sc.DiffuseTexture, func() *image.RGBA {
			return texture.Checker(fallbackSize, fallbackSize/fallbackChecks,
				color.RGBA{R: 200, G: 200, B: 200, A: 255},
				color.RGBA{R: 90, G: 70, B: 60, A: 255})
		}); err != nil {
			return nil, fmt.Errorf("diffuse texture: %w", err)
		}
		if a.normal, err = loadOr(sc.NormalTexture, func() *image.RGBA {
			return texture.BumpNormalMap(fallbackSize, fallbackBumps)
		}); err != nil {
			return nil, fmt.Errorf("normal texture: %w", err)
		}
		return a, nil

	default:
		return nil, fmt.Errorf("unknown scene kind %q", sc.Kind)
	}
}

func loadOr(path string, fallback func() *image.RGBA) (*image.RGBA, error) {
	if path == "" {
		return fallback(), nil
	}
	return texture.Load(path)
}

// sceneFor assembles the per-run frame input from config and uploaded
// handles.
func sceneFor(cfg *config.Config, topology mesh.Topology, diffuse, normal frame.TextureHandle) frame.Scene {
	sc := cfg.Scene
	return frame.Scene{
		Camera:         sc.CameraValue(),
		Animator:       sc.AnimatorValue(),
		LightDirection: sc.LightDirection(),
		DiffuseTexture: diffuse,
		NormalTexture:  normal,
		Topology:       topology,
		ClearColor:     cfg.Graphics.ClearColor,
	}
}
