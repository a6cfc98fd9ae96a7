package frame

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Faultbox/normalmap-demo/internal/engine/animation"
	"github.com/Faultbox/normalmap-demo/internal/engine/camera"
	"github.com/Faultbox/normalmap-demo/internal/engine/mesh"
	"github.com/Faultbox/normalmap-demo/pkg/math"
)

// recordingRenderer records every call in order.
type recordingRenderer struct {
	calls      []string
	uniforms   []Uniforms
	params     []DrawParams
	clearColor [4]float32
	clearDepth float32

	drawErr    error
	presentErr error
	onDraw     func()
}

func (r *recordingRenderer) Clear(color [4]float32, depth float32) {
	r.calls = append(r.calls, "clear")
	r.clearColor, r.clearDepth = color, depth
}

func (r *recordingRenderer) Draw(u Uniforms, p DrawParams) error {
	r.calls = append(r.calls, "draw")
	r.uniforms = append(r.uniforms, u)
	r.params = append(r.params, p)
	if r.onDraw != nil {
		r.onDraw()
	}
	return r.drawErr
}

func (r *recordingRenderer) Present() error {
	r.calls = append(r.calls, "present")
	return r.presentErr
}

func testScene() Scene {
	return Scene{
		Camera:         camera.Default(),
		Animator:       animation.New(animation.DefaultRate),
		LightDirection: math.V3(1.4, 0.4, 0.7),
		DiffuseTexture: 1,
		NormalTexture:  2,
		Topology:       mesh.TriangleStrip,
		ClearColor:     [4]float32{0, 0, 0, 1},
	}
}

func newTestSession(t *testing.T, r Renderer) *Session {
	t.Helper()
	s, err := NewSession(r, testScene())
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

func equalCalls(got []string, want ...string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestRenderFrameSequence(t *testing.T) {
	r := &recordingRenderer{}
	s := newTestSession(t, r)

	if err := s.RenderFrame(context.Background(), Viewport{800, 600}, 0); err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
	if !equalCalls(r.calls, "clear", "draw", "present") {
		t.Errorf("calls = %v, want [clear draw present]", r.calls)
	}
	if r.clearDepth != 1 || r.clearColor != testScene().ClearColor {
		t.Errorf("clear(%v, %v)", r.clearColor, r.clearDepth)
	}
	if s.State() != Idle {
		t.Errorf("state after frame = %v, want idle", s.State())
	}
}

func TestRenderFrameDrawParams(t *testing.T) {
	r := &recordingRenderer{}
	s := newTestSession(t, r)
	if err := s.RenderFrame(context.Background(), Viewport{640, 480}, 1); err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
	want := DrawParams{Topology: mesh.TriangleStrip, DepthTest: DepthLess, DepthWrite: true, Culling: CullNone}
	if r.params[0] != want {
		t.Errorf("params = %+v, want %+v", r.params[0], want)
	}
}

func TestRenderFrameUniforms(t *testing.T) {
	r := &recordingRenderer{}
	s := newTestSession(t, r)

	const elapsed = 0.7
	if err := s.RenderFrame(context.Background(), Viewport{800, 600}, elapsed); err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
	u := r.uniforms[0]

	if want := animation.BuildModelRotation(elapsed, animation.DefaultRate); u.Model != want {
		t.Errorf("model = %v, want %v", u.Model, want)
	}
	eye := u.View.TransformPoint(camera.Default().Eye)
	if !eye.ApproxEqual(math.Vec3{}, 1e-5) {
		t.Errorf("view maps eye to %v, want origin", eye)
	}
	wantP, _ := camera.BuildPerspective(600.0/800.0, camera.Default().FovY, 0.1, 1024)
	if u.Perspective != wantP {
		t.Errorf("perspective = %v, want %v", u.Perspective, wantP)
	}
	if u.LightDirection != math.V3(1.4, 0.4, 0.7) {
		t.Errorf("light = %v", u.LightDirection)
	}
	if u.DiffuseTexture != 1 || u.NormalTexture != 2 {
		t.Errorf("textures = %d, %d, want 1, 2", u.DiffuseTexture, u.NormalTexture)
	}
}

func TestRenderFrameAspectFollowsViewport(t *testing.T) {
	r := &recordingRenderer{}
	s := newTestSession(t, r)
	ctx := context.Background()
	if err := s.RenderFrame(ctx, Viewport{800, 600}, 0); err != nil {
		t.Fatal(err)
	}
	if err := s.RenderFrame(ctx, Viewport{600, 800}, 0); err != nil {
		t.Fatal(err)
	}
	if r.uniforms[0].Perspective == r.uniforms[1].Perspective {
		t.Error("perspective did not change after resize")
	}
}

func TestRenderFrameReentry(t *testing.T) {
	r := &recordingRenderer{}
	s := newTestSession(t, r)

	var inner error
	r.onDraw = func() {
		if s.State() != Rendering {
			t.Errorf("state during draw = %v, want rendering", s.State())
		}
		inner = s.RenderFrame(context.Background(), Viewport{800, 600}, 0)
	}
	if err := s.RenderFrame(context.Background(), Viewport{800, 600}, 0); err != nil {
		t.Fatalf("outer RenderFrame: %v", err)
	}
	if !errors.Is(inner, ErrFrameInProgress) {
		t.Errorf("re-entrant RenderFrame = %v, want ErrFrameInProgress", inner)
	}
	if !equalCalls(r.calls, "clear", "draw", "present") {
		t.Errorf("calls = %v, want a single frame", r.calls)
	}
}

func TestRenderFrameCancelled(t *testing.T) {
	r := &recordingRenderer{}
	s := newTestSession(t, r)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.RenderFrame(ctx, Viewport{800, 600}, 0)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if len(r.calls) != 0 {
		t.Errorf("calls = %v, want none", r.calls)
	}
	if s.State() != Idle {
		t.Errorf("state = %v, want idle", s.State())
	}
}

func TestRenderFrameDrawError(t *testing.T) {
	drawErr := errors.New("gl error")
	r := &recordingRenderer{drawErr: drawErr}
	s := newTestSession(t, r)

	err := s.RenderFrame(context.Background(), Viewport{800, 600}, 0)
	if !errors.Is(err, drawErr) {
		t.Errorf("err = %v, want wrapped draw error", err)
	}
	if !equalCalls(r.calls, "clear", "draw") {
		t.Errorf("calls = %v, want [clear draw] with no present", r.calls)
	}
	if s.State() != Idle {
		t.Errorf("state = %v, want idle", s.State())
	}

	// The session recovers on the next frame.
	r.drawErr = nil
	if err := s.RenderFrame(context.Background(), Viewport{800, 600}, 0); err != nil {
		t.Errorf("next frame: %v", err)
	}
}

func TestRenderFrameInvalidViewport(t *testing.T) {
	tests := []struct {
		name string
		vp   Viewport
	}{
		{"zero width", Viewport{0, 600}},
		{"zero height", Viewport{800, 0}},
		{"negative", Viewport{-1, -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &recordingRenderer{}
			s := newTestSession(t, r)
			err := s.RenderFrame(context.Background(), tt.vp, 0)
			if !errors.Is(err, ErrInvalidViewport) {
				t.Errorf("err = %v, want ErrInvalidViewport", err)
			}
			if len(r.calls) != 0 {
				t.Errorf("calls = %v, want none", r.calls)
			}
		})
	}
}

func TestNewSessionInvalidCamera(t *testing.T) {
	scene := testScene()
	scene.Camera.Near = 0
	if _, err := NewSession(&recordingRenderer{}, scene); !errors.Is(err, camera.ErrInvalidFrustum) {
		t.Errorf("err = %v, want ErrInvalidFrustum", err)
	}

	scene = testScene()
	scene.Camera.LookDirection = math.Vec3{}
	if _, err := NewSession(&recordingRenderer{}, scene); !errors.Is(err, math.ErrDegenerateVector) {
		t.Errorf("err = %v, want ErrDegenerateVector", err)
	}

	if _, err := NewSession(nil, testScene()); err == nil {
		t.Error("expected error for nil renderer")
	}
}

func TestElapsed(t *testing.T) {
	start := time.Unix(1000, 0)
	now := start
	s, err := NewSession(&recordingRenderer{}, testScene(), WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if got := s.Elapsed(); got != 0 {
		t.Errorf("Elapsed() at start = %v, want 0", got)
	}
	now = start.Add(2500 * time.Millisecond)
	if got := s.Elapsed(); got != 2.5 {
		t.Errorf("Elapsed() = %v, want 2.5", got)
	}
}

func TestSetTextures(t *testing.T) {
	r := &recordingRenderer{}
	s := newTestSession(t, r)

	if err := s.SetTextures(7, 8); err != nil {
		t.Fatalf("SetTextures: %v", err)
	}
	if err := s.RenderFrame(context.Background(), Viewport{800, 600}, 0); err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
	if u := r.uniforms[0]; u.DiffuseTexture != 7 || u.NormalTexture != 8 {
		t.Errorf("textures = %d, %d, want 7, 8", u.DiffuseTexture, u.NormalTexture)
	}

	var inner error
	r.onDraw = func() { inner = s.SetTextures(1, 1) }
	if err := s.RenderFrame(context.Background(), Viewport{800, 600}, 0); err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
	if !errors.Is(inner, ErrFrameInProgress) {
		t.Errorf("SetTextures during frame = %v, want ErrFrameInProgress", inner)
	}
}
