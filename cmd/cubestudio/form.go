package main

import (
	"github.com/Faultbox/cubeforge/pkg/settings"
)

// form is the editable state behind the settings panel. Every edit produces
// a complete settings.Raw.
type form struct {
	size       int32
	seed       int32
	fractal    bool
	layers     []settings.Layer
	octaves    int32
	lacunarity float32
	gain       float32
}

func formFromRaw(raw settings.Raw) *form {
	f := &form{
		size:       int32(raw.Width),
		seed:       int32(raw.Seed),
		fractal:    raw.Model == string(settings.KindFractal),
		layers:     append([]settings.Layer(nil), raw.Layers...),
		octaves:    int32(raw.Octaves),
		lacunarity: float32(raw.Lacunarity),
		gain:       float32(raw.Gain),
	}
	if f.octaves == 0 {
		f.octaves = 5
	}
	if f.lacunarity == 0 {
		f.lacunarity = 2
	}
	if f.gain == 0 {
		f.gain = 0.5
	}
	return f
}

// raw returns the form as square settings.
func (f *form) raw() settings.Raw {
	r := settings.Raw{
		Width:  float64(f.size),
		Height: float64(f.size),
		Seed:   float64(f.seed),
	}
	if f.fractal {
		r.Model = string(settings.KindFractal)
		r.Octaves = float64(f.octaves)
		r.Lacunarity = float64(f.lacunarity)
		r.Gain = float64(f.gain)
	} else {
		r.Model = string(settings.KindLayered)
		r.Layers = append([]settings.Layer(nil), f.layers...)
	}
	return r
}

// addLayer appends a layer unless the form is full.
func (f *form) addLayer() bool {
	if len(f.layers) >= settings.MaxLayers {
		return false
	}
	f.layers = settings.AddLayer(f.layers)
	return true
}

func (f *form) removeLayer(i int) bool {
	if i < 0 || i >= len(f.layers) {
		return false
	}
	f.layers = settings.RemoveLayer(f.layers, i)
	return true
}
