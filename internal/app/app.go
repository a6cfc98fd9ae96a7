// Package app wires the window, renderer and frame driver into the demo's
// main loop.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/normalmap-demo/internal/config"
	"github.com/Faultbox/normalmap-demo/internal/engine/debug"
	"github.com/Faultbox/normalmap-demo/internal/engine/frame"
	"github.com/Faultbox/normalmap-demo/internal/engine/input"
	"github.com/Faultbox/normalmap-demo/internal/engine/renderer"
	"github.com/Faultbox/normalmap-demo/internal/engine/shader"
	"github.com/Faultbox/normalmap-demo/internal/engine/texture"
	"github.com/Faultbox/normalmap-demo/internal/engine/window"
	"github.com/Faultbox/normalmap-demo/internal/logger"
	"github.com/Faultbox/normalmap-demo/pkg/math"
)

// idleDelay throttles the loop while the window has no drawable area.
const idleDelay = 50 * time.Millisecond

// App is the running demo.
type App struct {
	config   *config.Config
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	session  *frame.Session
	shots    *debug.ScreenshotCapture
	picker   *picker
	viewport frame.Viewport

	diffuse, normal frame.TextureHandle
}

// New opens the window, uploads the scene and starts the session clock.
func New(cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	logger.Info("initializing demo",
		zap.String("scene", cfg.Scene.Kind),
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
	)

	// Decode before opening a window so bad paths fail fast.
	a, err := loadAssets(cfg.Scene)
	if err != nil {
		return nil, err
	}

	app := &App{
		config: cfg,
		input:  input.New(),
		shots:  debug.NewScreenshotCapture(cfg.Screenshots.Dir, cfg.Screenshots.Prefix),
		picker: newPicker(),
	}

	app.window, err = window.New(window.Config{
		Title:      "Normal mapping - " + cfg.Scene.Kind,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	w, h := app.window.DrawableSize()
	app.viewport = frame.Viewport{Width: w, Height: h}

	program := shader.NormalMap
	if cfg.Scene.Kind == config.SceneMesh {
		program = shader.Mesh
	}
	app.renderer, err = renderer.New(renderer.Config{
		Width:     w,
		Height:    h,
		Program:   program,
		Specular:  math.Vec3FromArray(cfg.Scene.Specular),
		Shininess: cfg.Scene.Shininess,
		Dark:      math.Vec3FromArray(cfg.Scene.Dark),
		Regular:   math.Vec3FromArray(cfg.Scene.Regular),
	}, app.window)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	if err := app.renderer.UploadMesh(a.mesh); err != nil {
		app.Close()
		return nil, err
	}
	if a.diffuse != nil {
		if app.diffuse, err = app.renderer.UploadTexture(a.diffuse, true); err != nil {
			app.Close()
			return nil, fmt.Errorf("diffuse texture: %w", err)
		}
	}
	if a.normal != nil {
		if app.normal, err = app.renderer.UploadTexture(a.normal, false); err != nil {
			app.Close()
			return nil, fmt.Errorf("normal texture: %w", err)
		}
	}

	app.session, err = frame.NewSession(app.renderer, sceneFor(cfg, a.mesh.Topology, app.diffuse, app.normal))
	if err != nil {
		app.Close()
		return nil, err
	}

	logger.Info("demo initialized successfully")
	return app, nil
}

// Run draws frames until the window closes, Escape is pressed or ctx is
// cancelled.
func (a *App) Run(ctx context.Context) error {
	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting render loop")

	for {
		if ctx.Err() != nil {
			return nil
		}

		actions := a.input.Update()
		if actions.Quit {
			return nil
		}
		if actions.Resized {
			w, h := a.window.DrawableSize()
			a.viewport = frame.Viewport{Width: w, Height: h}
			a.renderer.Resize(w, h)
		}
		if actions.Screenshot {
			a.renderer.RequestCapture(a.saveScreenshot)
		}
		if a.config.Scene.Kind == config.SceneNormalMap {
			if actions.PickDiffuse {
				a.picker.request(slotDiffuse)
			} else if actions.PickNormal {
				a.picker.request(slotNormal)
			}
			if pk, ok := a.picker.poll(); ok {
				a.replaceTexture(pk)
			}
		}

		err := a.session.RenderFrame(ctx, a.viewport, a.session.Elapsed())
		switch {
		case err == nil:
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return nil
		case errors.Is(err, frame.ErrInvalidViewport):
			// Minimized; keep polling events.
			time.Sleep(idleDelay)
			continue
		default:
			return fmt.Errorf("render error: %w", err)
		}

		frameCount++
		if elapsed := time.Since(fpsTimer); elapsed >= time.Second {
			logger.Debug("fps",
				zap.Int("count", frameCount),
				zap.Duration("frame", elapsed/time.Duration(frameCount)),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}
	}
}

// replaceTexture loads a picked file and swaps it in. Failures are logged
// and keep the current texture.
func (a *App) replaceTexture(pk pick) {
	img, err := texture.Load(pk.path)
	if err != nil {
		logger.Warn("texture not loaded", zap.Stringer("slot", pk.slot), zap.Error(err))
		return
	}
	h, err := a.renderer.UploadTexture(img, pk.slot == slotDiffuse)
	if err != nil {
		logger.Warn("texture not uploaded", zap.Stringer("slot", pk.slot), zap.Error(err))
		return
	}

	diffuse, normal := a.diffuse, a.normal
	old := &diffuse
	if pk.slot == slotNormal {
		old = &normal
	}
	prev := *old
	*old = h
	if err := a.session.SetTextures(diffuse, normal); err != nil {
		a.renderer.DeleteTexture(h)
		logger.Warn("texture not swapped", zap.Error(err))
		return
	}
	a.renderer.DeleteTexture(prev)
	a.diffuse, a.normal = diffuse, normal
	logger.Info("texture replaced", zap.Stringer("slot", pk.slot), zap.String("file", pk.path))
}

func (a *App) saveScreenshot(pixels []byte, width, height int) {
	name, err := a.shots.CaptureFromPixels(pixels, width, height)
	if err != nil {
		logger.Error("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("file", name))
}

// Close releases GPU resources and the window.
func (a *App) Close() {
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}
