package soft

import (
	"errors"
	"fmt"
	"image"
	"runtime"
	"sync"

	"github.com/Faultbox/cubeforge/internal/pipeline"
	"github.com/Faultbox/cubeforge/pkg/cubemap"
)

// Generator renders cube faces on the CPU. Each Draw shades the whole
// surface before returning.
type Generator struct {
	shader  NoiseShader
	workers int
	surface *image.RGBA
}

// NewGenerator creates a generator using one worker per CPU.
func NewGenerator() *Generator {
	return &Generator{workers: runtime.NumCPU()}
}

// Resize reallocates the surface.
func (g *Generator) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid surface size %dx%d", width, height)
	}
	if g.surface != nil && g.surface.Rect.Dx() == width && g.surface.Rect.Dy() == height {
		return nil
	}
	g.surface = image.NewRGBA(image.Rect(0, 0, width, height))
	return nil
}

// Size returns the surface size.
func (g *Generator) Size() (int, int) {
	if g.surface == nil {
		return 0, 0
	}
	return g.surface.Rect.Dx(), g.surface.Rect.Dy()
}

// Draw shades every pixel of the face selected by u.Side. Row 0 of the
// surface is t near 0.
func (g *Generator) Draw(u *pipeline.GeneratorUniforms) error {
	if g.surface == nil {
		return errors.New("generator surface not allocated")
	}
	face := cubemap.Face(u.Side)
	if !face.Valid() {
		return fmt.Errorf("invalid face index %d", u.Side)
	}

	g.shader.Prepare(u.Seed)

	w, h := g.Size()
	rows := make(chan int, h)
	for y := 0; y < h; y++ {
		rows <- y
	}
	close(rows)

	var wg sync.WaitGroup
	for i := 0; i < max(1, g.workers); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for y := range rows {
				t := (float32(y) + 0.5) / float32(h)
				off := y * g.surface.Stride
				for x := 0; x < w; x++ {
					s := (float32(x) + 0.5) / float32(w)
					v := uint8(g.shader.Eval(face.Direction(s, t), u)*255 + 0.5)
					p := g.surface.Pix[off+x*4 : off+x*4+4 : off+x*4+4]
					p[0], p[1], p[2], p[3] = v, v, v, 255
				}
			}
		}()
	}
	wg.Wait()
	return nil
}

// ReadPixels returns a copy of the surface.
func (g *Generator) ReadPixels() (*image.RGBA, error) {
	if g.surface == nil {
		return nil, errors.New("generator surface not allocated")
	}
	out := image.NewRGBA(g.surface.Rect)
	copy(out.Pix, g.surface.Pix)
	return out, nil
}
