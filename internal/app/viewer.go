package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/cubeforge/internal/config"
	"github.com/Faultbox/cubeforge/internal/engine/debug"
	"github.com/Faultbox/cubeforge/internal/engine/input"
	"github.com/Faultbox/cubeforge/internal/engine/window"
	"github.com/Faultbox/cubeforge/internal/pipeline"
	"github.com/Faultbox/cubeforge/internal/watch"
)

// Viewer shows the live preview in an SDL window. E exports, F12 saves a
// screenshot, Esc quits.
type Viewer struct {
	log     *zap.Logger
	window  *window.Window
	input   *input.Input
	session *Session
	shots   *debug.ScreenshotCapture
	updates <-chan watch.Event
}

// NewViewer opens the window and a gl session on it.
func NewViewer(cfg *config.Config, log *zap.Logger) (*Viewer, error) {
	if cfg.Backend != config.BackendGL {
		return nil, errors.New("the viewer needs the gl backend")
	}
	if log == nil {
		log = zap.NewNop()
	}

	win, err := window.New(window.Config{
		Title:  cfg.Preview.Title,
		Width:  cfg.Preview.Width,
		Height: cfg.Preview.Height,
		VSync:  cfg.Preview.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	s, err := Attach(cfg, log)
	if err != nil {
		win.Close()
		return nil, err
	}

	return &Viewer{
		log:     log.Named("viewer"),
		window:  win,
		input:   input.New(),
		session: s,
		shots:   debug.NewScreenshotCapture(cfg.Export.Dir, "preview"),
	}, nil
}

// Session returns the viewer's session.
func (v *Viewer) Session() *Session {
	return v.session
}

// Watch applies every event from updates while the viewer runs.
func (v *Viewer) Watch(updates <-chan watch.Event) {
	v.updates = updates
}

// errClosed ends the preview loop when the window is closed.
var errClosed = errors.New("viewer closed")

// Run renders the initial settings and runs the preview loop until the
// window closes or ctx is done. Frame errors are logged and the last good
// texture stays on screen.
func (v *Viewer) Run(ctx context.Context) error {
	if err := v.session.Start(ctx); err != nil {
		v.log.Error("initial render failed", zap.Error(err))
	}

	loop := v.session.Controller.Preview()
	v.session.Targets.GLPreview.SetDisplaySize(v.window.DrawableSize())

	// settings changes run on the loop goroutine, which owns the GL context
	if updates := v.updates; updates != nil {
		go func() {
			for ev := range updates {
				loop.Post(func() { v.applyUpdate(ctx, ev) })
			}
		}()
	}

	frames := &viewerFrames{v: v, loop: loop, fpsTimer: time.Now()}
	if cfg := v.session.Config.Preview; !cfg.VSync && cfg.FPSLimit > 0 {
		frames.pace = pipeline.NewTickerScheduler(cfg.FPSLimit)
		defer frames.pace.Stop()
	}

	err := loop.RunWith(ctx, frames)
	if errors.Is(err, errClosed) {
		return nil
	}
	return err
}

// viewerFrames ends each preview frame: it presents the frame, paces the
// loop and handles window input before the next one.
type viewerFrames struct {
	v    *Viewer
	loop *pipeline.PreviewLoop
	pace *pipeline.TickerScheduler

	frameCount int
	fpsTimer   time.Time
}

func (f *viewerFrames) Wait(ctx context.Context) error {
	v := f.v
	preview := v.session.Targets.GLPreview

	dw, dh := v.window.DrawableSize()
	preview.BlitToScreen(dw, dh)
	v.window.SwapBuffers()

	f.frameCount++
	if time.Since(f.fpsTimer) >= time.Second {
		v.log.Debug("fps", zap.Int("count", f.frameCount))
		f.frameCount = 0
		f.fpsTimer = time.Now()
	}

	if f.pace != nil {
		if err := f.pace.Wait(ctx); err != nil {
			return err
		}
	}

	if v.input.Update() {
		return errClosed
	}
	for _, ev := range v.input.Events() {
		switch ev.Type {
		case input.EventKeyDown:
			if v.handleKey(ev.Key) {
				return errClosed
			}
		case input.EventPointerMove:
			v.pointerMoved(f.loop, ev.X, ev.Y)
		}
	}

	preview.SetDisplaySize(v.window.DrawableSize())
	return ctx.Err()
}

// handleKey reports whether the viewer should close.
func (v *Viewer) handleKey(key sdl.Keycode) bool {
	switch key {
	case sdl.K_ESCAPE:
		return true
	case sdl.K_e:
		path := v.session.ExportPath()
		if err := v.session.ExportFile(path); err != nil {
			v.log.Error("export failed", zap.Error(err))
			v.setStatus("export failed")
			return false
		}
		v.setStatus("exported " + path)
	case sdl.K_F12:
		img, err := v.session.Targets.PreviewImage()
		if err != nil {
			v.log.Error("screenshot failed", zap.Error(err))
			return false
		}
		name, err := v.shots.CaptureFromImage(img)
		if err != nil {
			v.log.Error("screenshot failed", zap.Error(err))
			return false
		}
		v.log.Info("screenshot saved", zap.String("path", name))
	}
	return false
}

// setStatus shows text after the window title.
func (v *Viewer) setStatus(text string) {
	v.window.SetTitle(fmt.Sprintf("%s - %s", v.session.Config.Preview.Title, text))
}

// pointerMoved converts window coordinates to drawable pixels, the space the
// preview surface is sized in.
func (v *Viewer) pointerMoved(loop *pipeline.PreviewLoop, x, y float32) {
	ww, wh := v.window.Size()
	dw, dh := v.window.DrawableSize()
	if ww == 0 || wh == 0 {
		return
	}
	sx, sy := float32(dw)/float32(ww), float32(dh)/float32(wh)
	loop.PointerMoved(x*sx, y*sy, pipeline.Bounds{Width: float32(dw), Height: float32(dh)})
}

func (v *Viewer) applyUpdate(ctx context.Context, ev watch.Event) {
	if ev.Err != nil {
		v.log.Warn("settings file unreadable", zap.Error(ev.Err))
		v.setStatus("settings file unreadable")
		return
	}
	if err := v.session.Controller.ApplySettings(ctx, ev.Raw); err != nil {
		v.log.Warn("settings not applied", zap.Error(err))
		v.setStatus(err.Error())
		return
	}
	v.window.SetTitle(v.session.Config.Preview.Title)
}

// Close releases the session and the window.
func (v *Viewer) Close() {
	v.session.Close()
	v.window.Close()
}
