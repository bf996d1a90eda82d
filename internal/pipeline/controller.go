package pipeline

import (
	"context"
	"errors"
	"io"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/cubeforge/pkg/cubemap"
	"github.com/Faultbox/cubeforge/pkg/facepack"
	"github.com/Faultbox/cubeforge/pkg/settings"
)

// Options configures a Controller.
type Options struct {
	Logger    *zap.Logger
	Generator GeneratorTarget
	Preview   PreviewTarget
	Clock     Clock
	Scheduler FrameScheduler
	// Sampler is used as given; DefaultSamplerOptions() if nil.
	Sampler *SamplerOptions
	Policy  Policy
	Format  facepack.Format
	// Initial is the starting snapshot; settings.Default() if nil.
	Initial *settings.Settings
}

// Controller owns both render targets and runs the generate, assemble and
// preview steps. Generation is serialized; the active settings, faces and
// cube texture are swapped atomically.
type Controller struct {
	log       *zap.Logger
	generator GeneratorTarget
	preview   *PreviewLoop
	store     *settings.Store
	sampler   SamplerOptions
	format    facepack.Format

	genMu    sync.Mutex
	uniforms GeneratorUniforms
	genTime  atomic.Uint32

	faces atomic.Pointer[cubemap.FaceSet]
	seq   atomic.Uint64

	pending sync.WaitGroup
}

// New creates a controller. Nothing is rendered until Regenerate or
// ApplySettings is called.
func New(opts Options) (*Controller, error) {
	if opts.Generator == nil {
		return nil, errors.New("pipeline: generator target is required")
	}
	if opts.Preview == nil {
		return nil, errors.New("pipeline: preview target is required")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	sampler := DefaultSamplerOptions()
	if opts.Sampler != nil {
		sampler = *opts.Sampler
	}
	if opts.Format == "" {
		opts.Format = facepack.DefaultFormat
	}

	c := &Controller{
		log:       opts.Logger,
		generator: opts.Generator,
		store:     settings.NewStore(opts.Initial),
		sampler:   sampler,
		format:    opts.Format,
	}
	c.preview = NewPreviewLoop(opts.Preview, PreviewOptions{
		Logger:    opts.Logger.Named("preview"),
		Clock:     opts.Clock,
		Scheduler: opts.Scheduler,
		Policy:    opts.Policy,
		OnTime:    c.setTime,
	})
	return c, nil
}

func (c *Controller) setTime(seconds float32) {
	c.genTime.Store(math.Float32bits(seconds))
}

// ApplySettings validates raw and, if valid, makes it the active snapshot and
// regenerates. An invalid raw leaves everything unchanged and returns a
// *settings.ValidationError. Overlapping calls are serialized, so the active
// snapshot always matches the faces being rendered.
func (c *Controller) ApplySettings(ctx context.Context, raw settings.Raw) error {
	s, err := settings.Validate(raw)
	if err != nil {
		c.log.Warn("settings rejected", zap.Error(err))
		return err
	}

	c.genMu.Lock()
	defer c.genMu.Unlock()

	version := c.store.Apply(s)
	c.log.Debug("settings applied",
		zap.Uint64("version", version),
		zap.Int("size", s.Width),
		zap.String("model", string(s.Model.Kind())))
	return c.generateLocked(ctx, s)
}

// Regenerate renders the active snapshot again.
func (c *Controller) Regenerate(ctx context.Context) error {
	c.genMu.Lock()
	defer c.genMu.Unlock()
	return c.generateLocked(ctx, c.store.Current())
}

// generateLocked renders s. genMu must be held.
func (c *Controller) generateLocked(ctx context.Context, s *settings.Settings) error {
	start := time.Now()

	if w, h := c.generator.Size(); w != s.Width || h != s.Height {
		if err := c.generator.Resize(s.Width, s.Height); err != nil {
			err = &RenderFailure{Face: cubemap.PositiveX, Err: err}
			c.log.Error("generator resize failed", zap.Error(err))
			return err
		}
	}

	Bind(s, &c.uniforms)
	c.uniforms.Time = math.Float32frombits(c.genTime.Load())

	faces, err := RenderFaces(ctx, c.generator, &c.uniforms)
	if err != nil {
		c.log.Error("face render failed", zap.Error(err))
		return err
	}

	faces.Seq = c.seq.Add(1)
	c.faces.Store(faces)
	c.log.Info("faces rendered",
		zap.Uint64("seq", faces.Seq),
		zap.Int("size", s.Width),
		zap.Duration("took", time.Since(start)))

	c.assemble(ctx, faces)
	return nil
}

func (c *Controller) assemble(ctx context.Context, faces *cubemap.FaceSet) {
	fut := AssembleAsync(ctx, faces, c.sampler)
	c.pending.Add(1)
	go func() {
		defer c.pending.Done()
		tex, err := fut.Wait(context.Background())
		if err != nil {
			c.log.Warn("cube texture assembly failed", zap.Uint64("seq", faces.Seq), zap.Error(err))
			return
		}
		if c.preview.Offer(tex) {
			c.log.Debug("cube texture active", zap.Uint64("seq", tex.Seq), zap.Int("levels", len(tex.Levels)))
		}
	}()
}

// Wait blocks until all started assemblies have finished.
func (c *Controller) Wait() {
	c.pending.Wait()
}

// Export writes the most recently rendered faces as an archive. It never
// triggers a render.
func (c *Controller) Export(w io.Writer) error {
	err := Export(w, c.faces.Load(), c.format)
	if err != nil {
		c.log.Error("export failed", zap.Error(err))
	}
	return err
}

// Format returns the archive image format.
func (c *Controller) Format() facepack.Format {
	return c.format
}

// Settings returns the active snapshot.
func (c *Controller) Settings() *settings.Settings {
	return c.store.Current()
}

// Faces returns the last rendered face set, or nil.
func (c *Controller) Faces() *cubemap.FaceSet {
	return c.faces.Load()
}

// Active returns the cube texture shown by the preview, or nil.
func (c *Controller) Active() *CubeTexture {
	return c.preview.Active()
}

// Preview returns the preview loop.
func (c *Controller) Preview() *PreviewLoop {
	return c.preview
}

// GeneratorUniforms returns a copy of the last bound generator uniforms.
func (c *Controller) GeneratorUniforms() GeneratorUniforms {
	c.genMu.Lock()
	defer c.genMu.Unlock()
	return c.uniforms
}
