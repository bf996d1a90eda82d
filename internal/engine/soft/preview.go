package soft

import (
	"image"
	"image/color"
	"sync"

	"github.com/Faultbox/cubeforge/internal/engine/camera"
	"github.com/Faultbox/cubeforge/internal/pipeline"
)

// Preview renders the preview into an image. The display size is set by the
// host with SetDisplaySize, independently of the generator.
type Preview struct {
	mu         sync.Mutex
	dw, dh     int
	surface    *image.RGBA
	camera     *camera.ViewCamera
	Background color.RGBA
}

// NewPreview creates a preview whose display is width×height.
func NewPreview(width, height int) *Preview {
	return &Preview{
		dw:         width,
		dh:         height,
		camera:     camera.NewViewCamera(),
		Background: color.RGBA{A: 255},
	}
}

// SetDisplaySize changes the size the surface should follow.
func (p *Preview) SetDisplaySize(width, height int) {
	p.mu.Lock()
	p.dw, p.dh = width, height
	p.mu.Unlock()
}

// DisplaySize implements pipeline.PreviewTarget.
func (p *Preview) DisplaySize() (int, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dw, p.dh
}

// Size returns the surface size.
func (p *Preview) Size() (int, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.surface == nil {
		return 0, 0
	}
	return p.surface.Rect.Dx(), p.surface.Rect.Dy()
}

// Resize reallocates the surface.
func (p *Preview) Resize(width, height int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.surface = image.NewRGBA(image.Rect(0, 0, max(0, width), max(0, height)))
	return nil
}

// Draw casts one ray per pixel from the camera and samples tex along it.
func (p *Preview) Draw(u *pipeline.PreviewUniforms, tex *pipeline.CubeTexture) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.surface == nil {
		return nil
	}

	w, h := p.surface.Rect.Dx(), p.surface.Rect.Dy()
	if tex == nil {
		for i := 0; i < len(p.surface.Pix); i += 4 {
			p.surface.Pix[i], p.surface.Pix[i+1], p.surface.Pix[i+2], p.surface.Pix[i+3] =
				p.Background.R, p.Background.G, p.Background.B, p.Background.A
		}
		return nil
	}

	p.camera.Aim(u.Mouse, u.Resolution, u.Time)
	right, up, forward := p.camera.Basis()
	for y := 0; y < h; y++ {
		// image rows run top-down, surface coordinates bottom-up
		fy := float32(h-y) - 0.5
		for x := 0; x < w; x++ {
			dir := camera.RayFromBasis(right, up, forward, p.camera.FOV, float32(x)+0.5, fy, w, h)
			p.surface.SetRGBA(x, y, tex.Sample(dir))
		}
	}
	return nil
}

// ColorAt returns the surface color under a point given in surface
// coordinates with origin bottom-left, as the pointer uniform uses.
func (p *Preview) ColorAt(x, y float32) color.RGBA {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.surface == nil {
		return color.RGBA{}
	}
	h := p.surface.Rect.Dy()
	return p.surface.RGBAAt(int(x), h-1-int(y))
}

// Image returns a copy of the last frame.
func (p *Preview) Image() *image.RGBA {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.surface == nil {
		return image.NewRGBA(image.Rectangle{})
	}
	out := image.NewRGBA(p.surface.Rect)
	copy(out.Pix, p.surface.Pix)
	return out
}
