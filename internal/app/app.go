// Package app runs the interactive viewer: window, GPU renderer, controls
// and background volume reloads.
package app

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/nimbus/internal/assets"
	"github.com/Faultbox/nimbus/internal/config"
	"github.com/Faultbox/nimbus/internal/engine/debug"
	"github.com/Faultbox/nimbus/internal/engine/input"
	"github.com/Faultbox/nimbus/internal/engine/renderer"
	"github.com/Faultbox/nimbus/internal/engine/resource"
	"github.com/Faultbox/nimbus/internal/engine/window"
	"github.com/Faultbox/nimbus/internal/logger"
	"github.com/Faultbox/nimbus/internal/scene"
	"github.com/Faultbox/nimbus/internal/volume"
)

// App is the viewer instance.
type App struct {
	cfg *config.Config
	log *zap.Logger

	window   *window.Window
	renderer *renderer.Renderer
	arena    *resource.Arena
	input    *input.Input
	files    *assets.Manager

	store      *scene.Store
	controls   *Controls
	screenshot *debug.ScreenshotCapture

	source  atomic.Pointer[scene.FieldSource]
	loading atomic.Bool
	// Paths picked in the file dialog, drained on the main thread.
	pending chan string

	running bool
	start   time.Time
}

// New opens the window, builds the first field and the renderer.
func New(cfg *config.Config) (*App, error) {
	a := &App{
		cfg:        cfg,
		log:        logger.Named("app"),
		arena:      resource.NewArena(),
		input:      input.New(),
		files:      assets.NewManager(cfg.Data.Paths...),
		screenshot: debug.NewScreenshotCapture(cfg.Data.ScreenshotDir, "nimbus"),
		pending:    make(chan string, 1),
	}

	source := scene.Procedural(cfg.Volume.ProceduralSize)
	if cfg.Volume.Source == config.SourceFile {
		src, err := cfg.VolumeSource()
		if err != nil {
			return nil, err
		}
		source = scene.FromFile(src)
	}
	a.source.Store(&source)

	field, err := source.Load(a.files)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", source, err)
	}
	tf, err := cfg.TransferFunction()
	if err != nil {
		return nil, err
	}
	a.store, err = scene.NewStore(field, tf, cfg.Params())
	if err != nil {
		return nil, err
	}

	a.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Renderer after the window: it needs the GL context.
	w, h := a.window.DrawableSize()
	a.renderer, err = renderer.New(renderer.Config{Width: w, Height: h}, a.arena, a.files)
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	cam := cfg.NewCamera()
	cam.SetAspectRatio(w, h)
	a.controls = NewControls(cam, a.store, a.log)

	a.log.Info("viewer initialized",
		zap.Stringer("source", source),
		zap.Stringer("dims", field.Dims))
	return a, nil
}

// Run drives the frame loop until quit.
func (a *App) Run() error {
	a.running = true
	a.start = time.Now()
	last := a.start
	titleTimer := a.start

	a.log.Info("starting render loop")

	for a.running {
		now := time.Now()
		dt := float32(now.Sub(last).Seconds())
		last = now

		if a.input.Update() {
			break
		}
		for _, ev := range a.input.Events() {
			a.dispatch(a.controls.HandleEvent(ev))
		}
		a.controls.Move(dt, a.input.IsKeyDown)
		a.drainPending()

		snap := a.store.Load()
		if err := a.renderer.Sync(snap); err != nil {
			a.log.Error("texture upload failed", zap.Error(err))
		}
		elapsed := float32(now.Sub(a.start).Seconds())
		a.renderer.Draw(snap, a.controls.Camera.State(), elapsed)
		a.window.SwapBuffers()

		if now.Sub(titleTimer) >= time.Second {
			titleTimer = now
			st := a.renderer.Stats()
			a.window.SetTitle(fmt.Sprintf("%s - %.0f FPS (%.2f ms)", a.window.Title(), st.FPS, st.FrameTimeMs))
		}
	}
	return nil
}

func (a *App) dispatch(act Action) {
	switch act {
	case ActionQuit:
		a.running = false
	case ActionResize:
		w, h := a.window.DrawableSize()
		a.controls.Camera.SetAspectRatio(w, h)
		a.renderer.Resize(w, h)
	case ActionScreenshot:
		a.takeScreenshot()
	case ActionOpenVolume:
		a.openFileDialog()
	case ActionRegenerate:
		a.reload(scene.Procedural(a.cfg.Volume.ProceduralSize))
	case ActionFullscreen:
		a.window.ToggleFullscreen()
	case ActionLookStart:
		a.window.SetRelativeMouse(true)
	case ActionLookEnd:
		a.window.SetRelativeMouse(false)
	}
}

func (a *App) takeScreenshot() {
	img := a.renderer.Capture()
	if a.cfg.Window.ShowStats {
		st := a.renderer.Stats()
		snap := a.store.Load()
		debug.DrawOverlay(img, []string{
			fmt.Sprintf("%.0f fps  %.2f ms", st.FPS, st.FrameTimeMs),
			fmt.Sprintf("%s  %s", a.source.Load(), snap.Field.Dims),
		})
	}
	path, err := a.screenshot.Capture(img)
	if err != nil {
		a.log.Error("screenshot failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", zap.String("path", path))
}

// openFileDialog runs the native picker off the main thread and queues the
// chosen path.
func (a *App) openFileDialog() {
	go func() {
		path, err := dialog.File().
			Filter("Raw volumes", "raw", "zst").
			Filter("All Files", "*").
			Title("Open Volume").
			Load()
		if err != nil {
			if err != dialog.ErrCancelled {
				a.log.Warn("file dialog failed", zap.Error(err))
			}
			return
		}
		select {
		case a.pending <- path:
		default:
			a.log.Warn("volume open already pending", zap.String("path", path))
		}
	}()
}

func (a *App) drainPending() {
	select {
	case path := <-a.pending:
		a.reload(scene.FromFile(a.sourceFor(path)))
	default:
	}
}

// sourceFor describes a picked file: a .meta sidecar means float32,
// anything else uses the configured format and dims.
func (a *App) sourceFor(path string) volume.Source {
	if _, err := a.files.Resolve(volume.MetaPath(path)); err == nil {
		return volume.Source{Path: path, Format: volume.FormatFloat32}
	}
	d := a.cfg.Volume.Dims
	return volume.Source{
		Path:   path,
		Format: volume.Format(a.cfg.Volume.Format),
		Dims:   volume.Dims{Width: d[0], Height: d[1], Depth: d[2]},
	}
}

// reload builds a field in the background and publishes it. The renderer
// picks it up on the next Sync. A failed load keeps the current field.
func (a *App) reload(src scene.FieldSource) {
	if !a.loading.CompareAndSwap(false, true) {
		a.log.Info("reload already in progress")
		return
	}
	a.log.Info("reloading volume", zap.Stringer("source", src))
	go func() {
		defer a.loading.Store(false)
		if err := a.store.Reload(src.Loader(a.files)); err != nil {
			a.log.Error("volume reload failed", zap.Stringer("source", src), zap.Error(err))
			return
		}
		a.source.Store(&src)
	}()
}

// Close releases GPU objects and the window.
func (a *App) Close() {
	a.log.Info("closing viewer")
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
	a.files.Close()
}
