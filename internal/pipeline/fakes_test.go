package pipeline

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sync"
	"time"
)

type fakeGenerator struct {
	w, h    int
	sides   []int32
	resizes int
	failAt  int32
	readBad bool
	last    int32
}

func newFakeGenerator() *fakeGenerator {
	return &fakeGenerator{failAt: -1}
}

func (g *fakeGenerator) Resize(w, h int) error {
	g.w, g.h = w, h
	g.resizes++
	return nil
}

func (g *fakeGenerator) Size() (int, int) { return g.w, g.h }

func (g *fakeGenerator) Draw(u *GeneratorUniforms) error {
	if u.Side == g.failAt {
		return errors.New("device lost")
	}
	g.sides = append(g.sides, u.Side)
	g.last = u.Side
	return nil
}

func (g *fakeGenerator) ReadPixels() (*image.RGBA, error) {
	w := g.w
	if g.readBad {
		w++
	}
	img := image.NewRGBA(image.Rect(0, 0, w, g.h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = uint8(g.last * 10)
		img.Pix[i+3] = 255
	}
	return img, nil
}

type fakePreview struct {
	mu       sync.Mutex
	dw, dh   int
	w, h     int
	resizes  int
	draws    int
	lastTex  *CubeTexture
	lastUnis PreviewUniforms
	drawErr  error
	// failDraws makes that many draws fail before drawErr applies.
	failDraws int
}

func (p *fakePreview) DisplaySize() (int, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dw, p.dh
}

func (p *fakePreview) setDisplay(w, h int) {
	p.mu.Lock()
	p.dw, p.dh = w, h
	p.mu.Unlock()
}

func (p *fakePreview) Size() (int, int) { return p.w, p.h }

func (p *fakePreview) Resize(w, h int) error {
	p.w, p.h = w, h
	p.resizes++
	return nil
}

func (p *fakePreview) Draw(u *PreviewUniforms, tex *CubeTexture) error {
	p.draws++
	if p.failDraws > 0 {
		p.failDraws--
		return errors.New("upload failed")
	}
	p.lastTex = tex
	p.lastUnis = *u
	return p.drawErr
}

// stopScheduler lets n frames through, then fails.
type stopScheduler struct {
	n   int
	err error
}

func (s *stopScheduler) Wait(ctx context.Context) error {
	if s.n == 0 {
		return s.err
	}
	s.n--
	return nil
}

// stepScheduler lets a test drive the preview loop one frame at a time.
type stepScheduler struct {
	ticks chan struct{}
	waits chan struct{}
}

func newStepScheduler() *stepScheduler {
	return &stepScheduler{ticks: make(chan struct{}), waits: make(chan struct{}, 16)}
}

func (s *stepScheduler) Wait(ctx context.Context) error {
	s.waits <- struct{}{}
	select {
	case <-s.ticks:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type manualClock struct {
	mu sync.Mutex
	d  time.Duration
}

func (c *manualClock) now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.d
}

func (c *manualClock) set(d time.Duration) {
	c.mu.Lock()
	c.d = d
	c.mu.Unlock()
}

func solidFaces(size int, seq uint64) [6]*image.RGBA {
	var out [6]*image.RGBA
	for i := range out {
		img := image.NewRGBA(image.Rect(0, 0, size, size))
		c := color.RGBA{R: uint8(i * 40), G: uint8(seq), A: 255}
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				img.SetRGBA(x, y, c)
			}
		}
		out[i] = img
	}
	return out
}
