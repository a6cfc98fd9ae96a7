package frame

import (
	"github.com/Faultbox/normalmap-demo/internal/engine/mesh"
	"github.com/Faultbox/normalmap-demo/pkg/math"
)

// TextureHandle is an opaque reference to an uploaded texture.
type TextureHandle uint32

// Uniforms is the per-frame input of the shading program.
type Uniforms struct {
	Model          math.Mat4
	View           math.Mat4
	Perspective    math.Mat4
	LightDirection math.Vec3
	DiffuseTexture TextureHandle
	NormalTexture  TextureHandle
}

// DepthTest is the depth comparison function.
type DepthTest int

const (
	DepthAlways DepthTest = iota
	DepthLess
)

// Culling selects which faces are discarded before rasterization.
type Culling int

const (
	CullNone Culling = iota
	CullBack
)

// DrawParams is the fixed-function state of a draw call.
type DrawParams struct {
	Topology   mesh.Topology
	DepthTest  DepthTest
	DepthWrite bool
	Culling    Culling
}

// DefaultDrawParams returns depth-tested, depth-writing, unculled state.
// Culling stays off because the demo geometry is not closed.
func DefaultDrawParams(topology mesh.Topology) DrawParams {
	return DrawParams{
		Topology:   topology,
		DepthTest:  DepthLess,
		DepthWrite: true,
		Culling:    CullNone,
	}
}

// Renderer is the graphics backend a Session draws through. Geometry and
// textures are uploaded before the first frame; Draw covers all of it.
type Renderer interface {
	// Clear clears the color buffer to color and the depth buffer to depth.
	Clear(color [4]float32, depth float32)
	// Draw issues one draw call over the uploaded geometry.
	Draw(u Uniforms, p DrawParams) error
	// Present shows the finished frame.
	Present() error
}
