package pipeline

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/cubeforge/pkg/settings"
)

// MaxLayers is the number of layer slots in the generator parameter block.
const MaxLayers = settings.MaxLayers

// PlaceholderLayer fills unused layer slots as (frequency, amplitude).
var PlaceholderLayer = mgl32.Vec2{0.5, 0.5}

// ShapeKind selects the noise model in the generator shader.
type ShapeKind int32

const (
	ShapeLayered ShapeKind = iota
	ShapeFractal
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeLayered:
		return "layered"
	case ShapeFractal:
		return "fractal"
	}
	return fmt.Sprintf("ShapeKind(%d)", int32(k))
}

// GeneratorUniforms is the generator shader's parameter block. Layers always
// holds MaxLayers slots; only the first LayerCount are summed.
type GeneratorUniforms struct {
	Time       float32
	Resolution mgl32.Vec3
	Side       int32
	Seed       int32
	Shape      ShapeKind
	LayerCount int32
	Layers     [MaxLayers]mgl32.Vec2
	Octaves    int32
	Lacunarity float32
	Gain       float32
}

// PreviewUniforms is the preview shader's parameter block.
type PreviewUniforms struct {
	Time       float32
	Resolution mgl32.Vec3
	Mouse      mgl32.Vec4
}

// Bind writes s into u in place. Every layer slot is rewritten; slots past
// the active layers get PlaceholderLayer. Time and Side are left alone.
func Bind(s *settings.Settings, u *GeneratorUniforms) {
	u.Resolution = mgl32.Vec3{float32(s.Width), float32(s.Height), 1}
	u.Seed = s.Seed

	for i := range u.Layers {
		u.Layers[i] = PlaceholderLayer
	}

	switch m := s.Model.(type) {
	case settings.LayeredModel:
		n := min(len(m.Layers), MaxLayers)
		for i := 0; i < n; i++ {
			u.Layers[i] = mgl32.Vec2{float32(m.Layers[i].Frequency), float32(m.Layers[i].Amplitude)}
		}
		u.Shape = ShapeLayered
		u.LayerCount = int32(n)
		u.Octaves = 0
		u.Lacunarity = 0
		u.Gain = 0

	case settings.FractalModel:
		u.Shape = ShapeFractal
		u.LayerCount = 0
		u.Octaves = int32(m.Octaves)
		u.Lacunarity = float32(m.Lacunarity)
		u.Gain = float32(m.Gain)

	default:
		panic(fmt.Sprintf("pipeline: unhandled noise model %T", s.Model))
	}
}
