// Package app wires configuration, render targets and the pipeline into the
// sessions the command-line tools run.
package app

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/cubeforge/internal/config"
	"github.com/Faultbox/cubeforge/internal/engine/renderer"
	"github.com/Faultbox/cubeforge/internal/engine/soft"
	"github.com/Faultbox/cubeforge/internal/engine/window"
	"github.com/Faultbox/cubeforge/internal/pipeline"
	"github.com/Faultbox/cubeforge/pkg/settings"
)

// Targets holds the generator and preview surfaces of one backend.
type Targets struct {
	Generator pipeline.GeneratorTarget
	Preview   pipeline.PreviewTarget
	// GLPreview is set for the gl backend, SoftPreview for soft.
	GLPreview   *renderer.Preview
	SoftPreview *soft.Preview

	destroy []func()
}

// OpenTargets creates the surfaces of backend with a preview of the given
// size. The gl backend needs a current context.
func OpenTargets(backend string, width, height int) (*Targets, error) {
	switch backend {
	case config.BackendSoft:
		p := soft.NewPreview(width, height)
		return &Targets{Generator: soft.NewGenerator(), Preview: p, SoftPreview: p}, nil

	case config.BackendGL:
		if err := renderer.Init(); err != nil {
			return nil, err
		}
		gen, err := renderer.NewGenerator()
		if err != nil {
			return nil, err
		}
		p, err := renderer.NewPreview(width, height)
		if err != nil {
			gen.Destroy()
			return nil, err
		}
		return &Targets{
			Generator: gen,
			Preview:   p,
			GLPreview: p,
			destroy:   []func(){p.Destroy, gen.Destroy},
		}, nil
	}
	return nil, fmt.Errorf("unknown backend %q", backend)
}

// SetDisplaySize sets the size the preview surface follows.
func (t *Targets) SetDisplaySize(width, height int) {
	if t.GLPreview != nil {
		t.GLPreview.SetDisplaySize(width, height)
	} else {
		t.SoftPreview.SetDisplaySize(width, height)
	}
}

// PreviewImage reads back the last preview frame, top row first.
func (t *Targets) PreviewImage() (image.Image, error) {
	if t.GLPreview != nil {
		return t.GLPreview.ReadImage()
	}
	return t.SoftPreview.Image(), nil
}

// Close releases backend resources.
func (t *Targets) Close() {
	for _, fn := range t.destroy {
		fn()
	}
	t.destroy = nil
}

// Session is one configured controller with its targets.
type Session struct {
	Config     *config.Config
	Targets    *Targets
	Controller *pipeline.Controller

	log    *zap.Logger
	window *window.Window
	sched  *pipeline.TickerScheduler
}

// Open creates a headless session. The gl backend gets a hidden window to
// own its context.
func Open(cfg *config.Config, log *zap.Logger) (*Session, error) {
	var win *window.Window
	if cfg.Backend == config.BackendGL {
		var err error
		win, err = window.New(window.Config{Title: cfg.Preview.Title, Width: 64, Height: 64, Hidden: true})
		if err != nil {
			return nil, fmt.Errorf("creating GL context: %w", err)
		}
	}
	s, err := Attach(cfg, log)
	if err != nil {
		if win != nil {
			win.Close()
		}
		return nil, err
	}
	s.window = win
	return s, nil
}

// Attach creates a session on the current context. Use it when the caller
// owns the window.
func Attach(cfg *config.Config, log *zap.Logger) (*Session, error) {
	if log == nil {
		log = zap.NewNop()
	}

	initial, err := settings.Validate(cfg.Generator)
	if err != nil {
		return nil, fmt.Errorf("generator settings: %w", err)
	}
	sampler, err := cfg.Sampler()
	if err != nil {
		return nil, err
	}
	policy, err := cfg.Policy()
	if err != nil {
		return nil, err
	}
	format, err := cfg.Format()
	if err != nil {
		return nil, err
	}

	targets, err := OpenTargets(cfg.Backend, cfg.Preview.Width, cfg.Preview.Height)
	if err != nil {
		return nil, fmt.Errorf("opening %s backend: %w", cfg.Backend, err)
	}

	opts := pipeline.Options{
		Logger:    log.Named("pipeline"),
		Generator: targets.Generator,
		Preview:   targets.Preview,
		Sampler:   &sampler,
		Policy:    policy,
		Format:    format,
		Initial:   initial,
	}
	var sched *pipeline.TickerScheduler
	if cfg.Preview.FPSLimit > 0 {
		sched = pipeline.NewTickerScheduler(cfg.Preview.FPSLimit)
		opts.Scheduler = sched
	}
	c, err := pipeline.New(opts)
	if err != nil {
		if sched != nil {
			sched.Stop()
		}
		targets.Close()
		return nil, err
	}

	log.Info("session ready",
		zap.String("backend", cfg.Backend),
		zap.String("format", string(format)),
		zap.Stringer("policy", policy))

	return &Session{Config: cfg, Targets: targets, Controller: c, log: log, sched: sched}, nil
}

// Start renders the initial settings.
func (s *Session) Start(ctx context.Context) error {
	return s.Controller.Regenerate(ctx)
}

// ExportPath is the archive path from the export config.
func (s *Session) ExportPath() string {
	return filepath.Join(s.Config.Export.Dir, s.Config.Export.Name)
}

// ExportFile writes the current faces to path. The archive is written next
// to path and renamed into place, so an existing file is only replaced by a
// complete one.
func (s *Session) ExportFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".export-*.zip")
	if err != nil {
		return err
	}
	if err := s.Controller.Export(tmp); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	s.log.Info("exported", zap.String("path", path), zap.Uint64("seq", s.Controller.Faces().Seq))
	return nil
}

// Close waits for pending assemblies and releases the backend.
func (s *Session) Close() {
	s.Controller.Wait()
	if s.sched != nil {
		s.sched.Stop()
	}
	s.Targets.Close()
	if s.window != nil {
		s.window.Close()
	}
}
