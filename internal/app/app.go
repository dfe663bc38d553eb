// Package app implements the viewer main loop.
package app

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/objview/internal/config"
	"github.com/Faultbox/objview/internal/engine/debug"
	"github.com/Faultbox/objview/internal/engine/input"
	"github.com/Faultbox/objview/internal/engine/renderer"
	"github.com/Faultbox/objview/internal/engine/window"
	"github.com/Faultbox/objview/internal/logger"
	"github.com/Faultbox/objview/internal/viewer/action"
	"github.com/Faultbox/objview/internal/viewer/loader"
	"github.com/Faultbox/objview/internal/viewer/mesh"
	"github.com/Faultbox/objview/internal/viewer/scene"
	"github.com/Faultbox/objview/internal/viewer/session"
	"github.com/Faultbox/objview/internal/viewer/transform"
)

// boundsColor is the colour of the bounds overlay.
var boundsColor = mgl32.Vec3{1, 0.8, 0}

// App is the viewer instance.
type App struct {
	cfg     *config.Config
	log     *zap.Logger
	running bool

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	keymap   *input.Keymap

	loader  *loader.Loader
	watcher *loader.Watcher
	session *session.Session
	shots   *debug.ScreenshotCapture

	title          string
	wantScreenshot bool
}

// New creates the window and GL state, loads the primary mesh and builds
// the session around it.
func New(cfg *config.Config) (*App, error) {
	a := &App{
		cfg:   cfg,
		log:   logger.Named("app"),
		input: input.New(),
		shots: debug.NewScreenshotCapture(cfg.Render.ScreenshotDir, "objview"),
	}
	if err := a.init(); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) init() error {
	cfg := a.cfg

	a.log.Info("initializing viewer",
		zap.String("model", cfg.Scene.Model),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
	)

	var err error
	a.keymap, err = input.NewKeymap(cfg.Controls.Keys)
	if err != nil {
		return err
	}

	a.loader, err = loader.NewWithLoadFunc(
		loader.Config{Workers: cfg.Loader.Workers},
		mesh.Loader(cfg.Scene.Simplify),
		logger.Named("loader"),
	)
	if err != nil {
		return err
	}
	first := a.loader.Load(loader.RolePrimary, cfg.Scene.Model)
	if first.Err != nil {
		return first.Err
	}

	// Window before renderer, since the OpenGL context must exist.
	a.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	}, logger.Named("window"))
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}

	width, height := a.window.DrawableSize()
	a.renderer, err = renderer.New(renderer.Config{
		Width:      width,
		Height:     height,
		Wireframe:  cfg.Render.Wireframe,
		ClearColor: cfg.Render.ClearColor,
	}, logger.Named("renderer"))
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	ctrl := transform.New(controllerConfig(cfg, width, height), logger.Named("transform"))

	opts := session.Options{
		SecondPath: cfg.Scene.SecondModel,
		Picker: loader.DialogPicker{
			Title: "Open second object",
			Dir:   filepath.Dir(cfg.Scene.Model),
		},
		Composer: scene.New(cfg.Scene.Clearance),
		Logger:   logger.Named("session"),
	}
	if cfg.Scene.Watch {
		a.watcher, err = loader.NewWatcher(cfg.Loader.WatchSettle, logger.Named("watcher"))
		if err != nil {
			return err
		}
		opts.Watcher = a.watcher
	}

	a.session, err = session.New(ctrl, first.Mesh, a.loader, opts)
	if err != nil {
		return err
	}

	a.log.Info("viewer initialized",
		zap.Int("vertices", first.Mesh.VertexCount()),
		zap.String("spawn_key", a.keymap.KeyFor(action.SpawnSecond)),
	)
	return nil
}

func controllerConfig(cfg *config.Config, width, height int) transform.Config {
	c := transform.DefaultConfig()
	c.RotateDegrees = cfg.Controls.RotateDegrees
	c.ScaleStep = cfg.Controls.ScaleStep
	c.TranslateStep = cfg.Controls.TranslateStep
	c.FovDegrees = cfg.Camera.FovDegrees
	c.Near = cfg.Camera.Near
	c.Far = cfg.Camera.Far
	c.Eye = mgl32.Vec3(cfg.Camera.Eye)
	c.Target = mgl32.Vec3(cfg.Camera.Target)
	c.Up = mgl32.Vec3(cfg.Camera.Up)
	if width > 0 && height > 0 {
		c.Aspect = float32(width) / float32(height)
	}
	return c
}

// Run starts the main loop. It returns when a quit action or window close
// is received.
func (a *App) Run() error {
	a.running = true

	frameCount := 0
	fpsTimer := time.Now()

	a.log.Info("starting main loop")

	for a.running {
		if a.input.Update() {
			a.running = false
			break
		}
		for _, event := range a.input.Events() {
			a.handleEvent(event)
		}

		a.drainLoads()

		a.render()

		if a.wantScreenshot {
			a.wantScreenshot = false
			a.screenshot()
		}
		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			a.log.Debug("fps", zap.Int("count", frameCount))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (a *App) handleEvent(event input.Event) {
	switch event.Type {
	case input.EventWindowResize:
		width, height := a.window.DrawableSize()
		a.renderer.Resize(width, height)
		if height > 0 {
			a.session.Controller().SetAspect(float32(width) / float32(height))
		}
	case input.EventKeyDown:
		act := a.keymap.Lookup(event.Key)
		switch act {
		case action.None:
		case action.Screenshot:
			a.wantScreenshot = true
		default:
			if !a.session.HandleAction(act) {
				a.running = false
			}
		}
	case input.EventMouseMove:
		a.session.HandleMotion(event.DeltaY)
	}
}

// drainLoads applies finished loads and file changes without blocking.
func (a *App) drainLoads() {
	for {
		select {
		case res := <-a.loader.Results():
			if err := a.session.Accept(res); err != nil {
				a.log.Warn("mesh load failed", zap.String("path", res.Path), zap.Error(err))
			}
			continue
		case change := <-a.changes():
			if err := a.session.Reload(change); err != nil {
				a.log.Warn("mesh reload failed", zap.String("path", change.Path), zap.Error(err))
			}
			continue
		default:
		}
		return
	}
}

// changes returns the watcher channel, or nil (which never fires) when
// watching is off.
func (a *App) changes() <-chan loader.Change {
	if a.watcher == nil {
		return nil
	}
	return a.watcher.Changes()
}

func (a *App) render() {
	if m, changed := a.session.Geometry(); changed {
		a.renderer.Upload(m)
	}

	ctrl := a.session.Controller()
	mvp := ctrl.MVP()

	a.renderer.Begin()
	a.renderer.Draw(mvp, ctrl.FrameColor())
	if a.session.ShowBounds() {
		lines := debug.BoundsLines(a.session.Combined().PartBounds(), debug.DefaultBoxPadding)
		a.renderer.DrawLines(mvp, boundsColor, lines)
	}
	a.renderer.End()

	a.updateTitle(ctrl)
}

func (a *App) updateTitle(ctrl *transform.Controller) {
	title := windowTitle(a.cfg.Window.Title, ctrl.Mode(), ctrl.Axis(), a.session.Spawning())
	if title != a.title {
		a.title = title
		a.window.SetTitle(title)
	}
}

// windowTitle shows the active mode, and its axis when the mode has one.
func windowTitle(base string, mode transform.Mode, axis transform.Axis, loading bool) string {
	title := fmt.Sprintf("%s - %s", base, mode)
	if mode.UsesAxis() {
		title += " " + axis.String()
	}
	if loading {
		title += " (loading)"
	}
	return title
}

func (a *App) screenshot() {
	pixels, width, height := a.renderer.ReadPixels()
	path, err := a.shots.CaptureFromPixels(pixels, width, height)
	if err != nil {
		a.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", zap.String("path", path))
}

// Close releases viewer resources. It is safe to call on a partially
// constructed App.
func (a *App) Close() {
	a.log.Info("closing viewer")

	var errs []error
	if a.watcher != nil {
		errs = append(errs, a.watcher.Close())
	}
	if a.loader != nil {
		a.loader.Close()
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
	if err := errors.Join(errs...); err != nil {
		a.log.Warn("shutdown", zap.Error(err))
	}
}
