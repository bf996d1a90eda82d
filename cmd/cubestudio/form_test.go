package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/cubeforge/pkg/settings"
)

func TestFormRoundTrip(t *testing.T) {
	f := formFromRaw(settings.Default().Raw())
	raw := f.raw()

	s, err := settings.Validate(raw)
	require.NoError(t, err)
	assert.Equal(t, settings.Default().Size(), s.Size())
	assert.Equal(t, settings.Default().Model, s.Model)
}

func TestFormIsSquare(t *testing.T) {
	f := formFromRaw(settings.Raw{Width: 64, Height: 64})
	f.size = 100
	raw := f.raw()
	assert.Equal(t, raw.Width, raw.Height)
}

func TestFormLayers(t *testing.T) {
	f := formFromRaw(settings.Raw{Width: 32, Height: 32})
	require.True(t, f.addLayer())
	require.True(t, f.addLayer())
	assert.Equal(t, []settings.Layer{{Frequency: 1, Amplitude: 0.5}, {Frequency: 2, Amplitude: 0.25}}, f.layers)

	assert.False(t, f.removeLayer(5))
	require.True(t, f.removeLayer(0))
	assert.Equal(t, []settings.Layer{{Frequency: 2, Amplitude: 0.25}}, f.layers)

	for f.addLayer() {
	}
	assert.Len(t, f.layers, settings.MaxLayers)
}

func TestFormFractal(t *testing.T) {
	f := formFromRaw(settings.Raw{Width: 32, Height: 32, Layers: []settings.Layer{{Frequency: 1, Amplitude: 1}}})
	assert.Equal(t, int32(5), f.octaves)

	f.fractal = true
	raw := f.raw()
	assert.Empty(t, raw.Layers)

	s, err := settings.Validate(raw)
	require.NoError(t, err)
	assert.Equal(t, settings.FractalModel{Octaves: 5, Lacunarity: 2, Gain: 0.5}, s.Model)
}
