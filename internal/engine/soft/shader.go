// Package soft is a CPU implementation of the generator and preview render
// targets, used for headless runs and tests.
package soft

import (
	"math"
	"sync"

	"github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/ojrac/opensimplex-go"

	"github.com/Faultbox/cubeforge/internal/pipeline"
)

// Perlin parameters for the fractal model; octaves are summed in Eval so the
// generator itself runs a single octave.
const (
	perlinAlpha = 2
	perlinBeta  = 2
	perlinN     = 1
)

// NoiseShader evaluates the generator shader for one direction. The noise
// sources are rebuilt when the seed changes.
type NoiseShader struct {
	mu      sync.Mutex
	seed    int32
	ready   bool
	simplex opensimplex.Noise
	perlin  *perlin.Perlin
}

// Prepare sets up the noise sources for seed. Call it before a batch of
// concurrent Eval calls.
func (s *NoiseShader) Prepare(seed int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ready && s.seed == seed {
		return
	}
	s.seed = seed
	s.simplex = opensimplex.New(int64(seed))
	s.perlin = perlin.NewPerlin(perlinAlpha, perlinBeta, perlinN, int64(seed))
	s.ready = true
}

// Eval returns the shaded value in [0, 1] for dir. Time is ignored so faces
// are reproducible.
func (s *NoiseShader) Eval(dir mgl32.Vec3, u *pipeline.GeneratorUniforms) float64 {
	x, y, z := float64(dir[0]), float64(dir[1]), float64(dir[2])

	var v float64
	switch u.Shape {
	case pipeline.ShapeFractal:
		freq, amp := 1.0, 1.0
		for o := int32(0); o < u.Octaves; o++ {
			v += amp * s.perlin.Noise3D(x*freq, y*freq, z*freq)
			freq *= float64(u.Lacunarity)
			amp *= float64(u.Gain)
		}
	default:
		n := min(int(u.LayerCount), pipeline.MaxLayers)
		for i := 0; i < n; i++ {
			l := u.Layers[i]
			f := float64(l[0])
			v += float64(l[1]) * s.simplex.Eval3(x*f, y*f, z*f)
		}
	}

	return clamp01(0.5 + 0.5*v)
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
