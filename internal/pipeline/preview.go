package pipeline

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Policy decides which completed assembly becomes the active texture.
type Policy int

const (
	// PolicyNewest applies a texture only if it comes from a newer
	// generation than the active one. Late results of older requests are
	// dropped.
	PolicyNewest Policy = iota
	// PolicyLastCompleted applies whatever finishes last.
	PolicyLastCompleted
)

// ParsePolicy maps a config value to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "newest":
		return PolicyNewest, nil
	case "last-completed":
		return PolicyLastCompleted, nil
	}
	return 0, fmt.Errorf("unknown assembly policy: %q", s)
}

func (p Policy) String() string {
	if p == PolicyLastCompleted {
		return "last-completed"
	}
	return "newest"
}

// Clock returns the time elapsed since the preview started.
type Clock func() time.Duration

// WallClock returns a Clock starting now.
func WallClock() Clock {
	start := time.Now()
	return func() time.Duration { return time.Since(start) }
}

// FrameScheduler paces the preview loop, one Wait per frame.
type FrameScheduler interface {
	Wait(ctx context.Context) error
}

// TickerScheduler paces frames with a ticker.
type TickerScheduler struct {
	ticker *time.Ticker
}

// NewTickerScheduler returns a scheduler running at fps frames per second.
func NewTickerScheduler(fps int) *TickerScheduler {
	if fps <= 0 {
		fps = 60
	}
	return &TickerScheduler{ticker: time.NewTicker(time.Second / time.Duration(fps))}
}

// Wait blocks until the next tick.
func (s *TickerScheduler) Wait(ctx context.Context) error {
	select {
	case <-s.ticker.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop releases the ticker.
func (s *TickerScheduler) Stop() {
	s.ticker.Stop()
}

// Bounds is the on-screen rectangle of the preview surface in pointer
// coordinates (origin top-left, y down).
type Bounds struct {
	Left, Top     float32
	Width, Height float32
}

// PreviewLoop draws the preview once per frame with the active texture.
// Frame and posted tasks run on the goroutine calling Run; PointerMoved and
// Offer may be called from any goroutine.
type PreviewLoop struct {
	log    *zap.Logger
	target PreviewTarget
	clock  Clock
	sched  FrameScheduler
	policy Policy
	onTime func(seconds float32)

	// uniforms is written by Frame under uniMu and read by Draw on the same
	// goroutine.
	uniMu    sync.Mutex
	uniforms PreviewUniforms
	pointer  atomic.Pointer[mgl32.Vec4]
	active   atomic.Pointer[CubeTexture]
	frames   atomic.Uint64

	mu    sync.Mutex
	tasks []func()
}

// PreviewOptions configures a PreviewLoop.
type PreviewOptions struct {
	Logger    *zap.Logger
	Clock     Clock
	Scheduler FrameScheduler
	Policy    Policy
	// OnTime receives the time uniform of every frame.
	OnTime func(seconds float32)
}

// NewPreviewLoop creates a loop drawing into target.
func NewPreviewLoop(target PreviewTarget, opts PreviewOptions) *PreviewLoop {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Clock == nil {
		opts.Clock = WallClock()
	}
	if opts.Scheduler == nil {
		opts.Scheduler = NewTickerScheduler(60)
	}
	p := &PreviewLoop{
		log:    opts.Logger,
		target: target,
		clock:  opts.Clock,
		sched:  opts.Scheduler,
		policy: opts.Policy,
		onTime: opts.OnTime,
	}
	p.pointer.Store(&mgl32.Vec4{})
	return p
}

// Frame renders one frame: resize to the display size if it changed, update
// resolution, time and pointer uniforms, then draw.
func (p *PreviewLoop) Frame() error {
	dw, dh := p.target.DisplaySize()
	if w, h := p.target.Size(); w != dw || h != dh {
		if err := p.target.Resize(dw, dh); err != nil {
			return fmt.Errorf("resizing preview to %dx%d: %w", dw, dh, err)
		}
	}

	w, h := p.target.Size()
	ms := float64(p.clock()) / float64(time.Millisecond)
	seconds := float32(ms * 0.001)

	p.uniMu.Lock()
	p.uniforms.Resolution = mgl32.Vec3{float32(w), float32(h), 1}
	p.uniforms.Time = seconds
	p.uniforms.Mouse = *p.pointer.Load()
	p.uniMu.Unlock()

	if p.onTime != nil {
		p.onTime(seconds)
	}

	p.frames.Add(1)
	return p.target.Draw(&p.uniforms, p.active.Load())
}

// Run renders frames paced by the configured scheduler until ctx is
// cancelled. Frame errors are logged and the loop keeps going.
func (p *PreviewLoop) Run(ctx context.Context) error {
	return p.RunWith(ctx, p.sched)
}

// RunWith is Run paced by sched. A scheduler error other than cancellation
// stops the loop and is returned.
func (p *PreviewLoop) RunWith(ctx context.Context, sched FrameScheduler) error {
	p.log.Debug("preview loop started")
	defer func() {
		p.log.Debug("preview loop stopped", zap.Uint64("frames", p.frames.Load()))
	}()

	for {
		p.runTasks()
		if err := p.Frame(); err != nil {
			p.log.Warn("preview frame failed", zap.Error(err))
		}
		if err := sched.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}

// Post queues fn to run on the loop goroutine before the next frame.
func (p *PreviewLoop) Post(fn func()) {
	p.mu.Lock()
	p.tasks = append(p.tasks, fn)
	p.mu.Unlock()
}

func (p *PreviewLoop) runTasks() {
	p.mu.Lock()
	tasks := p.tasks
	p.tasks = nil
	p.mu.Unlock()

	for _, fn := range tasks {
		fn()
	}
}

// PointerMoved records a pointer position given in client coordinates. The
// stored value has its origin at the bottom-left of bounds.
func (p *PreviewLoop) PointerMoved(clientX, clientY float32, bounds Bounds) {
	x := clientX - bounds.Left
	y := bounds.Top + bounds.Height - clientY
	p.pointer.Store(&mgl32.Vec4{x, y, 0, 0})
}

// Pointer returns the last recorded pointer uniform.
func (p *PreviewLoop) Pointer() mgl32.Vec4 {
	return *p.pointer.Load()
}

// Offer proposes tex as the active texture and reports whether it was
// applied.
func (p *PreviewLoop) Offer(tex *CubeTexture) bool {
	if tex == nil {
		return false
	}
	for {
		cur := p.active.Load()
		if p.policy == PolicyNewest && cur != nil && tex.Seq <= cur.Seq {
			p.log.Debug("dropping stale cube texture",
				zap.Uint64("seq", tex.Seq),
				zap.Uint64("active", cur.Seq))
			return false
		}
		if p.active.CompareAndSwap(cur, tex) {
			return true
		}
	}
}

// Active returns the texture currently sampled by the preview.
func (p *PreviewLoop) Active() *CubeTexture {
	return p.active.Load()
}

// Uniforms returns a copy of the uniforms used by the last frame. It is safe
// to call from any goroutine.
func (p *PreviewLoop) Uniforms() PreviewUniforms {
	p.uniMu.Lock()
	defer p.uniMu.Unlock()
	return p.uniforms
}

// Frames returns the number of frames drawn.
func (p *PreviewLoop) Frames() uint64 {
	return p.frames.Load()
}
