package soft

import (
	"context"
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/cubeforge/internal/pipeline"
	"github.com/Faultbox/cubeforge/pkg/cubemap"
	"github.com/Faultbox/cubeforge/pkg/settings"
)

func bound(s *settings.Settings) *pipeline.GeneratorUniforms {
	u := &pipeline.GeneratorUniforms{}
	pipeline.Bind(s, u)
	return u
}

func renderFace(t *testing.T, g *Generator, u *pipeline.GeneratorUniforms, f cubemap.Face) []byte {
	t.Helper()
	u.Side = int32(f)
	require.NoError(t, g.Draw(u))
	img, err := g.ReadPixels()
	require.NoError(t, err)
	return img.Pix
}

func TestGeneratorDeterministic(t *testing.T) {
	g := NewGenerator()
	require.NoError(t, g.Resize(32, 32))
	u := bound(settings.Default())

	a := renderFace(t, g, u, cubemap.PositiveZ)
	b := renderFace(t, g, u, cubemap.PositiveZ)
	assert.Equal(t, a, b)

	// time does not affect faces
	u.Time = 42
	assert.Equal(t, a, renderFace(t, g, u, cubemap.PositiveZ))

	other := NewGenerator()
	require.NoError(t, other.Resize(32, 32))
	assert.Equal(t, a, renderFace(t, other, bound(settings.Default()), cubemap.PositiveZ))
}

func TestGeneratorVaries(t *testing.T) {
	g := NewGenerator()
	require.NoError(t, g.Resize(32, 32))

	s := settings.Default()
	u := bound(s)
	base := renderFace(t, g, u, cubemap.PositiveX)
	assert.NotEqual(t, base, renderFace(t, g, u, cubemap.NegativeX))

	s2 := *s
	s2.Seed = 99
	assert.NotEqual(t, base, renderFace(t, g, bound(&s2), cubemap.PositiveX))

	s3 := *s
	s3.Model = settings.FractalModel{Octaves: 4, Lacunarity: 2, Gain: 0.5}
	assert.NotEqual(t, base, renderFace(t, g, bound(&s3), cubemap.PositiveX))
}

func TestGeneratorNoLayersIsFlat(t *testing.T) {
	g := NewGenerator()
	require.NoError(t, g.Resize(8, 8))
	s := &settings.Settings{Width: 8, Height: 8, Seed: 1, Model: settings.LayeredModel{}}

	pix := renderFace(t, g, bound(s), cubemap.PositiveY)
	for i := 0; i < len(pix); i += 4 {
		require.Equal(t, []byte{128, 128, 128, 255}, pix[i:i+4])
	}
}

func TestGeneratorErrors(t *testing.T) {
	g := NewGenerator()
	assert.Error(t, g.Draw(&pipeline.GeneratorUniforms{}))
	_, err := g.ReadPixels()
	assert.Error(t, err)
	assert.Error(t, g.Resize(0, 4))

	require.NoError(t, g.Resize(4, 4))
	assert.Error(t, g.Draw(&pipeline.GeneratorUniforms{Side: 6}))
}

func assembled(t *testing.T, size int) *pipeline.CubeTexture {
	t.Helper()
	g := NewGenerator()
	require.NoError(t, g.Resize(size, size))
	u := bound(&settings.Settings{
		Width: size, Height: size, Seed: 5,
		Model: settings.LayeredModel{Layers: []settings.Layer{{Frequency: 4, Amplitude: 1}}},
	})
	faces, err := pipeline.RenderFaces(context.Background(), g, u)
	require.NoError(t, err)
	tex, err := pipeline.Assemble(context.Background(), faces, pipeline.DefaultSamplerOptions())
	require.NoError(t, err)
	return tex
}

func TestPreviewBackgroundWithoutTexture(t *testing.T) {
	p := NewPreview(4, 4)
	require.NoError(t, p.Resize(4, 4))
	require.NoError(t, p.Draw(&pipeline.PreviewUniforms{}, nil))
	assert.Equal(t, color.RGBA{A: 255}, p.ColorAt(1, 1))
}

func TestPreviewFollowsTime(t *testing.T) {
	tex := assembled(t, 64)
	p := NewPreview(64, 64)
	require.NoError(t, p.Resize(64, 64))

	u := &pipeline.PreviewUniforms{
		Resolution: mgl32.Vec3{64, 64, 1},
		Mouse:      mgl32.Vec4{32, 32, 0, 0},
	}
	require.NoError(t, p.Draw(u, tex))
	first := p.Image()

	require.NoError(t, p.Draw(u, tex))
	assert.Equal(t, first.Pix, p.Image().Pix)

	u.Time = 20
	require.NoError(t, p.Draw(u, tex))
	assert.NotEqual(t, first.Pix, p.Image().Pix)
}
