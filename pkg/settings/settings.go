// Package settings holds the generation parameters for a cube texture and
// validates raw form input into immutable snapshots.
package settings

import (
	"fmt"
	"math"
)

// MaxLayers is the fixed capacity of the layered noise model.
const MaxLayers = 16

// MaxSize is the largest accepted face dimension in pixels.
const MaxSize = 8192

// Layer is one noise octave of the layered model.
type Layer struct {
	Frequency float64 `yaml:"frequency"`
	Amplitude float64 `yaml:"amplitude"`
}

// ModelKind names a NoiseModel variant.
type ModelKind string

const (
	KindLayered ModelKind = "layered"
	KindFractal ModelKind = "fractal"
)

// NoiseModel is either LayeredModel or FractalModel.
type NoiseModel interface {
	Kind() ModelKind
	noiseModel()
}

// LayeredModel sums up to MaxLayers noise layers in order.
type LayeredModel struct {
	Layers []Layer
}

// Kind implements NoiseModel.
func (LayeredModel) Kind() ModelKind { return KindLayered }
func (LayeredModel) noiseModel()     {}

// FractalModel is fractal Brownian motion driven by three scalars.
type FractalModel struct {
	Octaves    int
	Lacunarity float64
	Gain       float64
}

// Kind implements NoiseModel.
func (FractalModel) Kind() ModelKind { return KindFractal }
func (FractalModel) noiseModel()     {}

// Settings is a validated parameter snapshot. Treat it as read-only once it
// has been handed to a Store.
type Settings struct {
	Width  int
	Height int
	Seed   int32
	Model  NoiseModel
}

// Default returns the startup parameters: 256x256, seed 1 and a single layer.
func Default() *Settings {
	return &Settings{
		Width:  256,
		Height: 256,
		Seed:   1,
		Model:  LayeredModel{Layers: []Layer{{Frequency: 1.0, Amplitude: 0.5}}},
	}
}

// Size returns the face edge length.
func (s *Settings) Size() int {
	return s.Width
}

// Raw converts the snapshot back into form state.
func (s *Settings) Raw() Raw {
	r := Raw{
		Width:  float64(s.Width),
		Height: float64(s.Height),
		Seed:   float64(s.Seed),
	}
	switch m := s.Model.(type) {
	case LayeredModel:
		r.Model = string(KindLayered)
		r.Layers = append([]Layer(nil), m.Layers...)
	case FractalModel:
		r.Model = string(KindFractal)
		r.Octaves = float64(m.Octaves)
		r.Lacunarity = m.Lacunarity
		r.Gain = m.Gain
	}
	return r
}

// Raw is unvalidated form state. Numbers are float64 so that NaN and
// infinities coming from a form or a file can be detected and rejected.
type Raw struct {
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	Seed       float64 `yaml:"seed"`
	Model      string  `yaml:"model,omitempty"`
	Layers     []Layer `yaml:"layers,omitempty"`
	Octaves    float64 `yaml:"octaves,omitempty"`
	Lacunarity float64 `yaml:"lacunarity,omitempty"`
	Gain       float64 `yaml:"gain,omitempty"`
}

// ValidationError reports a rejected settings field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Validate checks raw form state and builds a snapshot from it. Layers past
// MaxLayers are dropped without being validated.
func Validate(raw Raw) (*Settings, error) {
	w, err := dimension("width", raw.Width)
	if err != nil {
		return nil, err
	}
	h, err := dimension("height", raw.Height)
	if err != nil {
		return nil, err
	}
	if w != h {
		return nil, invalid("height", "faces must be square, got %dx%d", w, h)
	}

	if !isFinite(raw.Seed) {
		return nil, invalid("seed", "not a finite number")
	}
	if raw.Seed != math.Trunc(raw.Seed) {
		return nil, invalid("seed", "%v is not an integer", raw.Seed)
	}
	if raw.Seed < math.MinInt32 || raw.Seed > math.MaxInt32 {
		return nil, invalid("seed", "%v out of range", raw.Seed)
	}

	s := &Settings{Width: w, Height: h, Seed: int32(raw.Seed)}

	switch ModelKind(raw.Model) {
	case "", KindLayered:
		layers := raw.Layers
		if len(layers) > MaxLayers {
			layers = layers[:MaxLayers]
		}
		out := make([]Layer, len(layers))
		for i, l := range layers {
			if !isFinite(l.Frequency) || l.Frequency <= 0 {
				return nil, invalid(fmt.Sprintf("layers[%d].frequency", i), "must be a positive number, got %v", l.Frequency)
			}
			if !isFinite(l.Amplitude) || l.Amplitude < 0 {
				return nil, invalid(fmt.Sprintf("layers[%d].amplitude", i), "must be a non-negative number, got %v", l.Amplitude)
			}
			out[i] = l
		}
		s.Model = LayeredModel{Layers: out}

	case KindFractal:
		if !isFinite(raw.Octaves) || raw.Octaves < 0 || raw.Octaves != math.Trunc(raw.Octaves) {
			return nil, invalid("octaves", "must be a non-negative integer, got %v", raw.Octaves)
		}
		if raw.Octaves > math.MaxInt32 {
			return nil, invalid("octaves", "%v out of range", raw.Octaves)
		}
		if !isFinite(raw.Lacunarity) {
			return nil, invalid("lacunarity", "not a finite number")
		}
		if !isFinite(raw.Gain) {
			return nil, invalid("gain", "not a finite number")
		}
		s.Model = FractalModel{
			Octaves:    int(raw.Octaves),
			Lacunarity: raw.Lacunarity,
			Gain:       raw.Gain,
		}

	default:
		return nil, invalid("model", "unknown model %q", raw.Model)
	}

	return s, nil
}

func dimension(field string, v float64) (int, error) {
	if !isFinite(v) {
		return 0, invalid(field, "not a finite number")
	}
	if v != math.Trunc(v) {
		return 0, invalid(field, "%v is not an integer", v)
	}
	if v <= 0 {
		return 0, invalid(field, "must be positive, got %v", v)
	}
	if v > MaxSize {
		return 0, invalid(field, "%v exceeds maximum of %d", v, MaxSize)
	}
	return int(v), nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
