package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameResizesOnlyOnChange(t *testing.T) {
	p := &fakePreview{}
	p.setDisplay(320, 200)
	loop := NewPreviewLoop(p, PreviewOptions{Clock: func() time.Duration { return 0 }})

	require.NoError(t, loop.Frame())
	require.NoError(t, loop.Frame())
	assert.Equal(t, 1, p.resizes)
	assert.Equal(t, mgl32.Vec3{320, 200, 1}, loop.Uniforms().Resolution)

	p.setDisplay(640, 480)
	require.NoError(t, loop.Frame())
	assert.Equal(t, 2, p.resizes)
	assert.Equal(t, mgl32.Vec3{640, 480, 1}, p.lastUnis.Resolution)
	assert.Equal(t, 3, p.draws)
	assert.Nil(t, p.lastTex)
}

func TestFrameTime(t *testing.T) {
	clock := &manualClock{}
	var synced []float32
	p := &fakePreview{}
	loop := NewPreviewLoop(p, PreviewOptions{
		Clock:  clock.now,
		OnTime: func(s float32) { synced = append(synced, s) },
	})

	clock.set(1500 * time.Millisecond)
	require.NoError(t, loop.Frame())
	assert.InDelta(t, 1.5, loop.Uniforms().Time, 1e-6)

	clock.set(2250 * time.Millisecond)
	require.NoError(t, loop.Frame())
	assert.InDelta(t, 2.25, p.lastUnis.Time, 1e-6)
	assert.InDeltaSlice(t, []float32{1.5, 2.25}, synced, 1e-6)
}

func TestPointerMoved(t *testing.T) {
	p := &fakePreview{}
	loop := NewPreviewLoop(p, PreviewOptions{})

	bounds := Bounds{Left: 10, Top: 20, Width: 200, Height: 100}
	loop.PointerMoved(60, 30, bounds)
	assert.Equal(t, mgl32.Vec4{50, 90, 0, 0}, loop.Pointer())

	loop.PointerMoved(10, 120, bounds)
	loop.PointerMoved(110, 70, bounds)
	assert.Equal(t, mgl32.Vec4{100, 50, 0, 0}, loop.Pointer())

	require.NoError(t, loop.Frame())
	assert.Equal(t, mgl32.Vec4{100, 50, 0, 0}, p.lastUnis.Mouse)
}

func TestOfferNewest(t *testing.T) {
	loop := NewPreviewLoop(&fakePreview{}, PreviewOptions{})

	assert.False(t, loop.Offer(nil))
	assert.True(t, loop.Offer(&CubeTexture{Seq: 2}))
	// a slow assembly of an older request finishes late
	assert.False(t, loop.Offer(&CubeTexture{Seq: 1}))
	assert.Equal(t, uint64(2), loop.Active().Seq)
	assert.True(t, loop.Offer(&CubeTexture{Seq: 3}))
	assert.Equal(t, uint64(3), loop.Active().Seq)
}

func TestOfferLastCompleted(t *testing.T) {
	loop := NewPreviewLoop(&fakePreview{}, PreviewOptions{Policy: PolicyLastCompleted})

	assert.True(t, loop.Offer(&CubeTexture{Seq: 2}))
	assert.True(t, loop.Offer(&CubeTexture{Seq: 1}))
	assert.Equal(t, uint64(1), loop.Active().Seq)
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyNewest, p)

	p, err = ParsePolicy("last-completed")
	require.NoError(t, err)
	assert.Equal(t, PolicyLastCompleted, p)
	assert.Equal(t, "last-completed", p.String())

	_, err = ParsePolicy("oldest")
	assert.Error(t, err)
}

func TestRunUntilCancelled(t *testing.T) {
	p := &fakePreview{drawErr: errors.New("context lost")}
	sched := newStepScheduler()
	loop := NewPreviewLoop(p, PreviewOptions{Scheduler: sched, Clock: func() time.Duration { return 0 }})

	var ran []uint64
	loop.Post(func() { ran = append(ran, loop.Frames()) })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	// draw errors do not stop the loop
	<-sched.waits
	sched.ticks <- struct{}{}
	<-sched.waits
	sched.ticks <- struct{}{}
	<-sched.waits

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("preview loop did not stop")
	}

	assert.Equal(t, uint64(3), loop.Frames())
	assert.Equal(t, []uint64{0}, ran)
}

func TestTickerScheduler(t *testing.T) {
	s := NewTickerScheduler(1000)
	defer s.Stop()
	require.NoError(t, s.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	slow := NewTickerScheduler(1)
	defer slow.Stop()
	assert.ErrorIs(t, slow.Wait(ctx), context.Canceled)
}

func TestRunRecoversFromFrameError(t *testing.T) {
	p := &fakePreview{dw: 8, dh: 8, failDraws: 1}
	sched := newStepScheduler()
	loop := NewPreviewLoop(p, PreviewOptions{Scheduler: sched, Clock: func() time.Duration { return 0 }})

	tex := &CubeTexture{Seq: 1, Size: 4}
	require.True(t, loop.Offer(tex))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	// first frame fails, the next ones still draw the active texture
	<-sched.waits
	sched.ticks <- struct{}{}
	<-sched.waits
	sched.ticks <- struct{}{}
	<-sched.waits

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("preview loop did not stop")
	}

	assert.Equal(t, 3, p.draws)
	assert.Same(t, tex, p.lastTex)
}

func TestRunWithStopsOnSchedulerError(t *testing.T) {
	p := &fakePreview{dw: 8, dh: 8}
	loop := NewPreviewLoop(p, PreviewOptions{Clock: func() time.Duration { return 0 }})

	errQuit := errors.New("window closed")
	err := loop.RunWith(context.Background(), &stopScheduler{n: 2, err: errQuit})
	assert.ErrorIs(t, err, errQuit)
	assert.Equal(t, uint64(3), loop.Frames())
}

func TestUniformsFromOtherGoroutine(t *testing.T) {
	p := &fakePreview{dw: 8, dh: 8}
	sched := newStepScheduler()
	loop := NewPreviewLoop(p, PreviewOptions{Scheduler: sched, Clock: func() time.Duration { return time.Second }})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	<-sched.waits
	u := loop.Uniforms()
	sched.ticks <- struct{}{}
	_ = loop.Uniforms()
	<-sched.waits
	cancel()
	<-done

	assert.Equal(t, mgl32.Vec3{8, 8, 1}, u.Resolution)
	assert.Equal(t, float32(1), u.Time)
}
