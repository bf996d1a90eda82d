package renderer

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/cubeforge/internal/engine/framebuffer"
	"github.com/Faultbox/cubeforge/internal/engine/shader"
	"github.com/Faultbox/cubeforge/internal/pipeline"
	"github.com/Faultbox/cubeforge/internal/shaders"
)

type generatorLocs struct {
	time, resolution, side, seed, shape, layerCount, layers, octaves, lacunarity, gain int32
}

// Generator runs the generator shader into an offscreen framebuffer.
type Generator struct {
	fb      *framebuffer.Framebuffer
	program *shader.Program
	quad    *quad
	locs    generatorLocs
}

// NewGenerator builds the generator program. Requires a current context and
// Init.
func NewGenerator() (*Generator, error) {
	prog, err := shader.Build(shaders.QuadVertexShader, shaders.GeneratorFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("generator program: %w", err)
	}
	fb, err := framebuffer.New(1, 1)
	if err != nil {
		prog.Delete()
		return nil, err
	}

	g := &Generator{fb: fb, program: prog, quad: newQuad()}
	g.locs = generatorLocs{
		time:       prog.Uniform("iTime"),
		resolution: prog.Uniform("iResolution"),
		side:       prog.Uniform("side"),
		seed:       prog.Uniform("seed"),
		shape:      prog.Uniform("shape"),
		layerCount: prog.Uniform("layerCount"),
		layers:     prog.Uniform("layers"),
		octaves:    prog.Uniform("octaves"),
		lacunarity: prog.Uniform("lacunarity"),
		gain:       prog.Uniform("gain"),
	}
	return g, nil
}

// Resize reallocates the framebuffer.
func (g *Generator) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid surface size %dx%d", width, height)
	}
	g.fb.Resize(width, height)
	return glError("resizing generator")
}

// Size returns the framebuffer size.
func (g *Generator) Size() (int, int) {
	return g.fb.Size()
}

// Draw renders one face into the framebuffer.
func (g *Generator) Draw(u *pipeline.GeneratorUniforms) error {
	restore := g.fb.BindWithViewport()
	defer restore()

	g.fb.Clear(0, 0, 0, 1)
	g.program.Use()

	gl.Uniform1f(g.locs.time, u.Time)
	gl.Uniform3f(g.locs.resolution, u.Resolution[0], u.Resolution[1], u.Resolution[2])
	gl.Uniform1i(g.locs.side, u.Side)
	gl.Uniform1i(g.locs.seed, u.Seed)
	gl.Uniform1i(g.locs.shape, int32(u.Shape))
	gl.Uniform1i(g.locs.layerCount, u.LayerCount)
	gl.Uniform2fv(g.locs.layers, pipeline.MaxLayers, &u.Layers[0][0])
	gl.Uniform1i(g.locs.octaves, u.Octaves)
	gl.Uniform1f(g.locs.lacunarity, u.Lacunarity)
	gl.Uniform1f(g.locs.gain, u.Gain)

	g.quad.draw()
	gl.Finish()
	return glError("drawing face")
}

// ReadPixels reads the framebuffer back.
func (g *Generator) ReadPixels() (*image.RGBA, error) {
	return g.fb.ReadImage()
}

// Destroy releases GL resources.
func (g *Generator) Destroy() {
	g.quad.delete()
	g.program.Delete()
	g.fb.Destroy()
}
