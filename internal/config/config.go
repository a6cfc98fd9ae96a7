// Package config handles demo configuration loading and management.
package config

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/Faultbox/normalmap-demo/internal/engine/animation"
	"github.com/Faultbox/normalmap-demo/internal/engine/camera"
	"github.com/Faultbox/normalmap-demo/internal/engine/lighting"
	"github.com/Faultbox/normalmap-demo/internal/logger"
	"github.com/Faultbox/normalmap-demo/pkg/math"
)

// ErrInvalidShininess is returned for a specular exponent that is not
// positive. An exponent of 0 turns the highlight into a flat wash.
var ErrInvalidShininess = errors.New("shininess must be positive")

// Scene kinds.
const (
	SceneNormalMap = "normalmap"
	SceneMesh      = "mesh"
)

// Config holds all demo settings.
type Config struct {
	Graphics    GraphicsConfig   `yaml:"graphics"`
	Scene       SceneConfig      `yaml:"scene"`
	Logging     LoggingConfig    `yaml:"logging"`
	Screenshots ScreenshotConfig `yaml:"screenshots"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	Fullscreen bool       `yaml:"fullscreen"`
	VSync      bool       `yaml:"vsync"`
	ClearColor [4]float32 `yaml:"clear_color"`
}

// CameraConfig describes the fixed camera. FOV is in degrees.
type CameraConfig struct {
	Eye  [3]float32 `yaml:"eye"`
	Look [3]float32 `yaml:"look"`
	Up   [3]float32 `yaml:"up"`
	FOV  float32    `yaml:"fov"`
	Near float32    `yaml:"near"`
	Far  float32    `yaml:"far"`
}

// SceneConfig selects what is drawn and how it is lit.
type SceneConfig struct {
	Kind   string       `yaml:"kind"`
	Camera CameraConfig `yaml:"camera"`

	RotationRate float32    `yaml:"rotation_rate"` // radians per second
	ModelScale   float32    `yaml:"model_scale"`
	ModelOffset  [3]float32 `yaml:"model_offset"`

	// Light is the direction towards the light in camera space.
	// LightAngles, when set, overrides it with azimuth/elevation degrees.
	Light       [3]float32  `yaml:"light"`
	LightAngles *[2]float32 `yaml:"light_angles,omitempty"`

	// normalmap scene; empty paths use procedural textures
	DiffuseTexture string     `yaml:"diffuse_texture"`
	NormalTexture  string     `yaml:"normal_texture"`
	Specular       [3]float32 `yaml:"specular"`
	Shininess      float32    `yaml:"shininess"`

	// mesh scene
	Mesh    string     `yaml:"mesh"`
	Dark    [3]float32 `yaml:"dark"`
	Regular [3]float32 `yaml:"regular"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// ScreenshotConfig holds screenshot output settings.
type ScreenshotConfig struct {
	Dir    string `yaml:"dir"`
	Prefix string `yaml:"prefix"`
}

// Default returns a Config for the normal-mapping scene.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1024,
			Height:     768,
			Fullscreen: false,
			VSync:      true,
			ClearColor: [4]float32{0, 0, 1, 1},
		},
		Scene: SceneConfig{
			Kind: SceneNormalMap,
			Camera: CameraConfig{
				Eye:  [3]float32{0.5, 0.2, -3.0},
				Look: [3]float32{-0.5, -0.2, 3.0},
				Up:   [3]float32{0, 1, 0},
				FOV:  60,
				Near: 0.1,
				Far:  1024,
			},
			RotationRate: 1.0,
			ModelScale:   1,
			Light:        [3]float32{1.4, 0.4, 0.7},
			Specular:     [3]float32{1, 1, 1},
			Shininess:    16,
			Dark:         [3]float32{0.6, 0, 0},
			Regular:      [3]float32{1, 0, 0},
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
		Screenshots: ScreenshotConfig{
			Dir:    "screenshots",
			Prefix: "normalmap",
		},
	}
}

// DefaultMesh returns a Config for the mesh scene: the camera sits at the
// origin looking down +Z and the model is scaled down and pushed forward.
func DefaultMesh() *Config {
	cfg := Default()
	cfg.Scene.Kind = SceneMesh
	cfg.Scene.Camera.Eye = [3]float32{0, 0, 0}
	cfg.Scene.Camera.Look = [3]float32{0, 0, 1}
	cfg.Scene.ModelScale = 0.01
	cfg.Scene.ModelOffset = [3]float32{0, 0, 2.5}
	cfg.Scene.Light = [3]float32{-1, 0.4, 0.9}
	cfg.Scene.Mesh = "teapot.glb"
	cfg.Screenshots.Prefix = "mesh"
	return cfg
}

// DefaultFor returns the defaults of a scene kind, or nil if unknown.
func DefaultFor(kind string) *Config {
	switch kind {
	case SceneNormalMap, "":
		return Default()
	case SceneMesh:
		return DefaultMesh()
	default:
		return nil
	}
}

// CameraValue converts the camera settings, FOV to radians.
func (s SceneConfig) CameraValue() camera.Camera {
	return camera.Camera{
		Eye:           math.Vec3FromArray(s.Camera.Eye),
		LookDirection: math.Vec3FromArray(s.Camera.Look),
		Up:            math.Vec3FromArray(s.Camera.Up),
		FovY:          s.Camera.FOV * gomath.Pi / 180,
		Near:          s.Camera.Near,
		Far:           s.Camera.Far,
	}
}

// AnimatorValue returns the model animator for the scene.
func (s SceneConfig) AnimatorValue() animation.Animator {
	return animation.Animator{
		Rate:   s.RotationRate,
		Scale:  s.ModelScale,
		Offset: math.Vec3FromArray(s.ModelOffset),
	}
}

// LightDirection returns the configured light direction.
func (s SceneConfig) LightDirection() math.Vec3 {
	if s.LightAngles != nil {
		return lighting.SunDirection(s.LightAngles[0], s.LightAngles[1])
	}
	return math.Vec3FromArray(s.Light)
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		errs = append(errs, fmt.Errorf("graphics: window size %dx%d: %w",
			c.Graphics.Width, c.Graphics.Height, camera.ErrInvalidViewport))
	}

	s := c.Scene
	switch s.Kind {
	case SceneNormalMap:
		if s.Shininess <= 0 || gomath.IsNaN(float64(s.Shininess)) {
			errs = append(errs, fmt.Errorf("scene: shininess %v: %w", s.Shininess, ErrInvalidShininess))
		}
	case SceneMesh:
		if s.Mesh == "" {
			errs = append(errs, errors.New("scene: mesh path required for mesh scene"))
		}
	default:
		errs = append(errs, fmt.Errorf("scene: unknown kind %q", s.Kind))
	}
	if err := s.CameraValue().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("scene camera: %w", err))
	}
	if _, err := s.LightDirection().Normalize(); err != nil {
		errs = append(errs, fmt.Errorf("scene light: %w", err))
	}
	if s.ModelScale <= 0 {
		errs = append(errs, fmt.Errorf("scene: model scale %v must be positive", s.ModelScale))
	}
	if gomath.IsNaN(float64(s.RotationRate)) || gomath.IsInf(float64(s.RotationRate), 0) {
		errs = append(errs, fmt.Errorf("scene: rotation rate %v", s.RotationRate))
	}

	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}
	return errors.Join(errs...)
}
