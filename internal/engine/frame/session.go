// Package frame drives one render pass per redraw: it turns the current
// viewport and elapsed time into uniforms and hands them to a Renderer.
package frame

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/Faultbox/normalmap-demo/internal/engine/animation"
	"github.com/Faultbox/normalmap-demo/internal/engine/camera"
	"github.com/Faultbox/normalmap-demo/internal/engine/mesh"
	"github.com/Faultbox/normalmap-demo/pkg/math"
)

var (
	// ErrFrameInProgress is returned when RenderFrame is re-entered before
	// the previous frame was presented.
	ErrFrameInProgress = errors.New("frame in progress")
	// ErrInvalidViewport is returned for a viewport with no area.
	ErrInvalidViewport = camera.ErrInvalidViewport
)

// State is the frame state of a Session.
type State int32

const (
	Idle State = iota
	Rendering
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Rendering:
		return "rendering"
	default:
		return "unknown"
	}
}

// Viewport is the drawable size in pixels.
type Viewport struct {
	Width  int
	Height int
}

// Scene is everything a Session draws that does not change per frame.
type Scene struct {
	Camera         camera.Camera
	Animator       animation.Animator
	LightDirection math.Vec3
	DiffuseTexture TextureHandle
	NormalTexture  TextureHandle
	Topology       mesh.Topology
	ClearColor     [4]float32
}

// Session owns the per-run state of the demo: the renderer, the scene, the
// clock origin and the frame state.
type Session struct {
	renderer Renderer
	scene    Scene
	params   DrawParams

	now   func() time.Time
	start time.Time
	state atomic.Int32
}

// Option configures a Session.
type Option func(*Session)

// WithClock replaces time.Now as the Session clock.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// NewSession validates the scene camera and starts the clock.
func NewSession(r Renderer, scene Scene, opts ...Option) (*Session, error) {
	if r == nil {
		return nil, errors.New("nil renderer")
	}
	if err := scene.Camera.Validate(); err != nil {
		return nil, fmt.Errorf("scene camera: %w", err)
	}
	s := &Session{
		renderer: r,
		scene:    scene,
		params:   DefaultDrawParams(scene.Topology),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.start = s.now()
	return s, nil
}

// State returns the current frame state.
func (s *Session) State() State {
	return State(s.state.Load())
}

// Scene returns the scene the session draws.
func (s *Session) Scene() Scene {
	return s.scene
}

// Elapsed returns the seconds since the session started. time.Time keeps a
// monotonic reading, so wall clock jumps do not affect it.
func (s *Session) Elapsed() float32 {
	return float32(s.now().Sub(s.start).Seconds())
}

// SetTextures replaces the texture handles used from the next frame on.
// It fails while a frame is being rendered.
func (s *Session) SetTextures(diffuse, normal TextureHandle) error {
	if s.State() != Idle {
		return ErrFrameInProgress
	}
	s.scene.DiffuseTexture = diffuse
	s.scene.NormalTexture = normal
	return nil
}

// Uniforms computes the uniform set for a viewport at elapsed seconds.
func (s *Session) Uniforms(vp Viewport, elapsed float32) (Uniforms, error) {
	aspect, err := camera.AspectRatio(vp.Width, vp.Height)
	if err != nil {
		return Uniforms{}, err
	}
	view, err := s.scene.Camera.View()
	if err != nil {
		return Uniforms{}, err
	}
	perspective, err := s.scene.Camera.Projection(aspect)
	if err != nil {
		return Uniforms{}, err
	}
	return Uniforms{
		Model:          s.scene.Animator.Model(elapsed),
		View:           view,
		Perspective:    perspective,
		LightDirection: s.scene.LightDirection,
		DiffuseTexture: s.scene.DiffuseTexture,
		NormalTexture:  s.scene.NormalTexture,
	}, nil
}

// RenderFrame draws one complete frame: clear, one draw, present. The
// matrices are computed before the clear so a bad viewport leaves the
// previous frame on screen. A cancelled ctx returns before anything is
// drawn. A failed draw is not presented. The Session is Idle again when
// RenderFrame returns.
func (s *Session) RenderFrame(ctx context.Context, vp Viewport, elapsed float32) error {
	if !s.state.CompareAndSwap(int32(Idle), int32(Rendering)) {
		return ErrFrameInProgress
	}
	defer s.state.Store(int32(Idle))

	if err := ctx.Err(); err != nil {
		return err
	}

	u, err := s.Uniforms(vp, elapsed)
	if err != nil {
		return err
	}

	s.renderer.Clear(s.scene.ClearColor, 1.0)
	if err := s.renderer.Draw(u, s.params); err != nil {
		return fmt.Errorf("draw: %w", err)
	}
	if err := s.renderer.Present(); err != nil {
		return fmt.Errorf("present: %w", err)
	}
	return nil
}
