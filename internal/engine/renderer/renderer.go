// Package renderer implements frame.Renderer on OpenGL 4.1 core.
package renderer

import (
	"errors"
	"fmt"
	"image"
	"unsafe"

	"go.uber.org/zap"

	"github.com/Faultbox/normalmap-demo/internal/engine/frame"
	"github.com/Faultbox/normalmap-demo/internal/engine/mesh"
	"github.com/Faultbox/normalmap-demo/internal/engine/shader"
	"github.com/Faultbox/normalmap-demo/internal/engine/texture"
	"github.com/Faultbox/normalmap-demo/internal/logger"
	"github.com/Faultbox/normalmap-demo/pkg/math"
	"github.com/go-gl/gl/v4.1-core/gl"
)

// ErrNoGeometry is returned by Draw before UploadMesh.
var ErrNoGeometry = errors.New("no geometry uploaded")

// Config holds renderer configuration.
type Config struct {
	Width   int
	Height  int
	Program shader.Source

	// Constant uniforms, uploaded once. Programs ignore the ones they
	// do not declare.
	Specular  math.Vec3
	Shininess float32
	Dark      math.Vec3
	Regular   math.Vec3
}

// Swapper presents the back buffer.
type Swapper interface {
	SwapBuffers()
}

// Renderer draws one uploaded mesh with one program.
type Renderer struct {
	config  Config
	swapper Swapper
	program *shader.Program
	log     *zap.Logger

	vao, vbo, ebo uint32
	count         int32
	indexed       bool

	textures []uint32
	capture  func(pixels []byte, width, height int)
}

var _ frame.Renderer = (*Renderer)(nil)

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config, swapper Swapper) (*Renderer, error) {
	r := &Renderer{
		config:  cfg,
		swapper: swapper,
		log:     logger.Named("renderer"),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	r.log.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
	)

	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	var err error
	r.program, err = shader.NewProgram(cfg.Program)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}

	r.program.Use()
	gl.Uniform1i(r.program.Uniform("diffuse_tex"), 0)
	gl.Uniform1i(r.program.Uniform("normal_tex"), 1)
	setVec3(r.program.Uniform("u_specular"), cfg.Specular)
	gl.Uniform1f(r.program.Uniform("u_shininess"), cfg.Shininess)
	setVec3(r.program.Uniform("u_dark"), cfg.Dark)
	setVec3(r.program.Uniform("u_regular"), cfg.Regular)
	gl.UseProgram(0)

	r.log.Debug("shader program created",
		zap.String("name", r.program.Name),
		zap.Uint32("program", r.program.ID),
	)
	return r, nil
}

// UploadMesh uploads interleaved vertices and, when present, indices.
// It replaces any previously uploaded mesh.
func (r *Renderer) UploadMesh(m *mesh.Mesh) error {
	if len(m.Vertices) == 0 {
		return fmt.Errorf("mesh %q: %w", m.Name, ErrNoGeometry)
	}
	r.deleteMesh()

	vertices := m.Interleaved()
	stride := int32(mesh.FloatsPerVertex * 4)

	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)

	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	// Position (location = 0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	// Normal (location = 1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)
	// TexCoord (location = 2)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, stride, 6*4)
	gl.EnableVertexAttribArray(2)

	r.indexed = len(m.Indices) > 0
	if r.indexed {
		gl.GenBuffers(1, &r.ebo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, unsafe.Pointer(&m.Indices[0]), gl.STATIC_DRAW)
	}
	r.count = int32(m.DrawCount())

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	r.log.Debug("mesh uploaded",
		zap.String("name", m.Name),
		zap.Int("vertices", len(m.Vertices)),
		zap.Int("indices", len(m.Indices)),
		zap.Stringer("topology", m.Topology),
	)
	return glError("upload mesh")
}

// UploadTexture uploads img with mipmaps. sRGB textures are stored as
// SRGB8_ALPHA8 so sampling returns linear values; normal maps must not be.
func (r *Renderer) UploadTexture(img *image.RGBA, srgb bool) (frame.TextureHandle, error) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if w == 0 || h == 0 {
		return 0, errors.New("empty texture")
	}
	// GL's first row is the bottom of the image.
	flipped := texture.FlipVertical(img)

	internal := int32(gl.RGBA8)
	if srgb {
		internal = gl.SRGB8_ALPHA8
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internal, int32(w), int32(h), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&flipped.Pix[0]))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if err := glError("upload texture"); err != nil {
		gl.DeleteTextures(1, &id)
		return 0, err
	}
	r.textures = append(r.textures, id)
	r.log.Debug("texture uploaded",
		zap.Uint32("id", id),
		zap.Int("width", w),
		zap.Int("height", h),
		zap.Bool("srgb", srgb),
	)
	return frame.TextureHandle(id), nil
}

// DeleteTexture releases a texture uploaded by UploadTexture.
func (r *Renderer) DeleteTexture(h frame.TextureHandle) {
	id := uint32(h)
	for i, t := range r.textures {
		if t == id {
			gl.DeleteTextures(1, &id)
			r.textures = append(r.textures[:i], r.textures[i+1:]...)
			return
		}
	}
}

// Clear clears color and depth. Depth writes are enabled first; a
// disabled depth mask would make the clear a no-op for depth.
func (r *Renderer) Clear(color [4]float32, depth float32) {
	gl.DepthMask(true)
	gl.ClearColor(color[0], color[1], color[2], color[3])
	gl.ClearDepthf(depth)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Draw issues one draw call over the uploaded mesh.
func (r *Renderer) Draw(u frame.Uniforms, p frame.DrawParams) error {
	if r.vao == 0 {
		return ErrNoGeometry
	}
	applyState(p)

	r.program.Use()
	gl.UniformMatrix4fv(r.program.Uniform("model"), 1, false, u.Model.Ptr())
	gl.UniformMatrix4fv(r.program.Uniform("view"), 1, false, u.View.Ptr())
	gl.UniformMatrix4fv(r.program.Uniform("perspective"), 1, false, u.Perspective.Ptr())
	setVec3(r.program.Uniform("u_light"), u.LightDirection)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, uint32(u.DiffuseTexture))
	gl.ActiveTexture(gl.TEXTURE1)
	gl.BindTexture(gl.TEXTURE_2D, uint32(u.NormalTexture))

	gl.BindVertexArray(r.vao)
	mode := primitive(p.Topology)
	if r.indexed {
		gl.DrawElementsWithOffset(mode, r.count, gl.UNSIGNED_INT, 0)
	} else {
		gl.DrawArrays(mode, 0, r.count)
	}
	gl.BindVertexArray(0)

	return glError("draw")
}

// RequestCapture makes the next Present hand the finished frame to fn
// before swapping. The back buffer is undefined after a swap.
func (r *Renderer) RequestCapture(fn func(pixels []byte, width, height int)) {
	r.capture = fn
}

// Present swaps the back buffer.
func (r *Renderer) Present() error {
	if r.swapper == nil {
		return errors.New("no swapper")
	}
	if r.capture != nil {
		if pixels, w, h := r.ReadPixels(); pixels != nil {
			r.capture(pixels, w, h)
		}
		r.capture = nil
	}
	r.swapper.SwapBuffers()
	return nil
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// ReadPixels reads the current framebuffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	if w <= 0 || h <= 0 {
		return nil, 0, 0
	}
	pixels := make([]byte, w*h*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	return pixels, w, h
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	r.deleteMesh()
	if len(r.textures) > 0 {
		gl.DeleteTextures(int32(len(r.textures)), &r.textures[0])
		r.textures = nil
	}
	if r.program != nil {
		r.program.Delete()
	}
}

func (r *Renderer) deleteMesh() {
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
		r.vao = 0
	}
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
		r.vbo = 0
	}
	if r.ebo != 0 {
		gl.DeleteBuffers(1, &r.ebo)
		r.ebo = 0
	}
}

func applyState(p frame.DrawParams) {
	switch p.DepthTest {
	case frame.DepthLess:
		gl.Enable(gl.DEPTH_TEST)
		gl.DepthFunc(gl.LESS)
	default:
		gl.Disable(gl.DEPTH_TEST)
	}
	gl.DepthMask(p.DepthWrite)

	switch p.Culling {
	case frame.CullBack:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	default:
		gl.Disable(gl.CULL_FACE)
	}
}

func primitive(t mesh.Topology) uint32 {
	if t == mesh.TriangleStrip {
		return gl.TRIANGLE_STRIP
	}
	return gl.TRIANGLES
}

func setVec3(loc int32, v math.Vec3) {
	gl.Uniform3f(loc, v.X, v.Y, v.Z)
}

func glError(op string) error {
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("%s: GL error 0x%04X", op, code)
	}
	return nil
}
