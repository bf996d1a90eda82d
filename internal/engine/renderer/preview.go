package renderer

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/cubeforge/internal/engine/framebuffer"
	"github.com/Faultbox/cubeforge/internal/engine/shader"
	"github.com/Faultbox/cubeforge/internal/engine/texture"
	"github.com/Faultbox/cubeforge/internal/logger"
	"github.com/Faultbox/cubeforge/internal/pipeline"
	"github.com/Faultbox/cubeforge/internal/shaders"
)

// Preview draws the preview shader into an offscreen framebuffer, which the
// host shows in a UI panel or blits to the window.
type Preview struct {
	fb      *framebuffer.Framebuffer
	program *shader.Program
	quad    *quad

	timeLoc, resolutionLoc, mouseLoc, channelLoc int32

	cube    *texture.Cube
	cubeSeq uint64
	cubeSrc *pipeline.CubeTexture

	displayW, displayH int
}

// NewPreview builds the preview program. Requires a current context and Init.
func NewPreview(width, height int) (*Preview, error) {
	prog, err := shader.Build(shaders.QuadVertexShader, shaders.PreviewFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("preview program: %w", err)
	}
	fb, err := framebuffer.New(width, height)
	if err != nil {
		prog.Delete()
		return nil, err
	}
	return &Preview{
		fb:            fb,
		program:       prog,
		quad:          newQuad(),
		timeLoc:       prog.Uniform("iTime"),
		resolutionLoc: prog.Uniform("iResolution"),
		mouseLoc:      prog.Uniform("iMouse"),
		channelLoc:    prog.Uniform("iChannel0"),
		displayW:      width,
		displayH:      height,
	}, nil
}

// SetDisplaySize sets the size the framebuffer should follow.
func (p *Preview) SetDisplaySize(width, height int) {
	p.displayW, p.displayH = width, height
}

// DisplaySize implements pipeline.PreviewTarget.
func (p *Preview) DisplaySize() (int, int) {
	return p.displayW, p.displayH
}

// Size returns the framebuffer size.
func (p *Preview) Size() (int, int) {
	return p.fb.Size()
}

// Resize reallocates the framebuffer.
func (p *Preview) Resize(width, height int) error {
	p.fb.Resize(width, height)
	return glError("resizing preview")
}

// Draw renders one preview frame.
func (p *Preview) Draw(u *pipeline.PreviewUniforms, tex *pipeline.CubeTexture) error {
	if err := p.sync(tex); err != nil {
		return err
	}

	restore := p.fb.BindWithViewport()
	defer restore()

	p.fb.Clear(0, 0, 0, 1)
	if p.cube == nil {
		return nil
	}

	p.program.Use()
	p.cube.Bind(0)
	gl.Uniform1i(p.channelLoc, 0)
	gl.Uniform1f(p.timeLoc, u.Time)
	gl.Uniform3f(p.resolutionLoc, u.Resolution[0], u.Resolution[1], u.Resolution[2])
	gl.Uniform4f(p.mouseLoc, u.Mouse[0], u.Mouse[1], u.Mouse[2], u.Mouse[3])
	p.quad.draw()
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)

	return glError("drawing preview")
}

// sync uploads tex if it is not the texture already on the GPU.
func (p *Preview) sync(tex *pipeline.CubeTexture) error {
	if tex == nil || tex == p.cubeSrc {
		return nil
	}
	cube, err := texture.NewCube(tex.Levels, texture.CubeOptions{
		Repeat:          tex.WrapS == pipeline.WrapRepeat,
		GenerateMipmaps: tex.Mipmaps,
	})
	if err != nil {
		return fmt.Errorf("uploading cube texture %d: %w", tex.Seq, err)
	}
	if p.cube != nil {
		p.cube.Delete()
	}
	p.cube, p.cubeSrc, p.cubeSeq = cube, tex, tex.Seq
	logger.Debug("cube texture uploaded", zap.Uint64("seq", tex.Seq), zap.Int("size", cube.Size), zap.Int("levels", cube.Levels))
	return nil
}

// ColorTexture returns the framebuffer texture for display in a UI.
func (p *Preview) ColorTexture() uint32 {
	return p.fb.ColorTexture()
}

// ReadImage reads the last frame back as a top-down image.
func (p *Preview) ReadImage() (*image.RGBA, error) {
	return p.fb.ReadImage()
}

// BlitToScreen copies the frame to the default framebuffer at the given
// drawable size.
func (p *Preview) BlitToScreen(width, height int) {
	w, h := p.fb.Size()
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, p.fb.FBO())
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
	gl.BlitFramebuffer(0, 0, int32(w), int32(h), 0, 0, int32(width), int32(height), gl.COLOR_BUFFER_BIT, gl.LINEAR)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// Destroy releases GL resources.
func (p *Preview) Destroy() {
	if p.cube != nil {
		p.cube.Delete()
	}
	p.quad.delete()
	p.program.Delete()
	p.fb.Destroy()
}
