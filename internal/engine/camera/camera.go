// Package camera builds the view and perspective matrices for the demo.
//
// Camera space is left-handed: the camera looks down +Z, +Y is up and +X
// is right. BuildView and BuildPerspective agree on that convention, so a
// point in front of the camera ends up with a positive clip-space w.
package camera

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/Faultbox/normalmap-demo/pkg/math"
)

// ErrInvalidFrustum is returned for near/far planes, field of view or
// aspect ratios that would give a degenerate or inverted projection.
var ErrInvalidFrustum = errors.New("invalid frustum")

// ErrInvalidViewport is returned for a zero or negative viewport size.
var ErrInvalidViewport = errors.New("invalid viewport")

// BuildView returns the world-to-camera matrix for a camera at eye looking
// along lookDirection. up only needs to be roughly up; the camera's own up
// axis is recomputed so the basis is orthonormal.
func BuildView(eye, lookDirection, up math.Vec3) (math.Mat4, error) {
	f, err := lookDirection.Normalize()
	if err != nil {
		return math.Mat4{}, fmt.Errorf("look direction: %w", err)
	}
	s, err := up.Cross(f).Normalize()
	if err != nil {
		return math.Mat4{}, fmt.Errorf("up vector parallel to look direction: %w", err)
	}
	u := f.Cross(s)

	return math.Mat4{
		s.X, u.X, f.X, 0,
		s.Y, u.Y, f.Y, 0,
		s.Z, u.Z, f.Z, 0,
		-eye.Dot(s), -eye.Dot(u), -eye.Dot(f), 1,
	}, nil
}

// BuildPerspective returns a symmetric perspective projection.
// aspectRatio is height/width (see AspectRatio) and scales X; fovY is the
// vertical field of view in radians. Camera-space z in [zNear, zFar] maps
// to NDC depth [-1, 1], and clip w equals camera-space z.
func BuildPerspective(aspectRatio, fovY, zNear, zFar float32) (math.Mat4, error) {
	if err := validateFrustum(aspectRatio, fovY, zNear, zFar); err != nil {
		return math.Mat4{}, err
	}

	f := float32(1.0 / gomath.Tan(float64(fovY)/2.0))
	depth := zFar - zNear

	return math.Mat4{
		f * aspectRatio, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (zFar + zNear) / depth, 1,
		0, 0, -(2 * zFar * zNear) / depth, 0,
	}, nil
}

func validateFrustum(aspectRatio, fovY, zNear, zFar float32) error {
	for _, v := range []float32{aspectRatio, fovY, zNear, zFar} {
		if gomath.IsNaN(float64(v)) || gomath.IsInf(float64(v), 0) {
			return fmt.Errorf("non-finite parameter %v: %w", v, ErrInvalidFrustum)
		}
	}
	switch {
	case zNear <= 0:
		return fmt.Errorf("zNear %v must be positive: %w", zNear, ErrInvalidFrustum)
	case zFar <= zNear:
		return fmt.Errorf("zFar %v must exceed zNear %v: %w", zFar, zNear, ErrInvalidFrustum)
	case fovY <= 0 || fovY >= gomath.Pi:
		return fmt.Errorf("fovY %v outside (0, pi): %w", fovY, ErrInvalidFrustum)
	case aspectRatio <= 0:
		return fmt.Errorf("aspect ratio %v must be positive: %w", aspectRatio, ErrInvalidFrustum)
	}
	return nil
}

// AspectRatio returns height/width for a viewport, the form
// BuildPerspective multiplies into the X scale.
func AspectRatio(width, height int) (float32, error) {
	if width <= 0 || height <= 0 {
		return 0, fmt.Errorf("%dx%d: %w", width, height, ErrInvalidViewport)
	}
	return float32(height) / float32(width), nil
}

// Camera is a fixed camera described by position, look direction and
// lens parameters.
type Camera struct {
	Eye           math.Vec3
	LookDirection math.Vec3
	Up            math.Vec3

	FovY float32 // radians
	Near float32
	Far  float32
}

// Default returns the camera used by the normal-mapping scene.
func Default() Camera {
	return Camera{
		Eye:           math.V3(0.5, 0.2, -3.0),
		LookDirection: math.V3(-0.5, -0.2, 3.0),
		Up:            math.V3(0, 1, 0),
		FovY:          gomath.Pi / 3,
		Near:          0.1,
		Far:           1024,
	}
}

// View returns the camera's view matrix.
func (c Camera) View() (math.Mat4, error) {
	return BuildView(c.Eye, c.LookDirection, c.Up)
}

// Projection returns the camera's perspective matrix for the given
// aspect ratio (height/width).
func (c Camera) Projection(aspectRatio float32) (math.Mat4, error) {
	return BuildPerspective(aspectRatio, c.FovY, c.Near, c.Far)
}

// Validate checks the camera without needing a viewport.
func (c Camera) Validate() error {
	if _, err := c.View(); err != nil {
		return err
	}
	return validateFrustum(1, c.FovY, c.Near, c.Far)
}
