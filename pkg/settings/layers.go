package settings

// AddLayer returns layers with one more entry appended. The first layer is
// {1.0, 0.5}; each later one doubles the frequency and halves the amplitude
// of the current last layer.
func AddLayer(layers []Layer) []Layer {
	next := Layer{Frequency: 1.0, Amplitude: 0.5}
	if n := len(layers); n > 0 {
		last := layers[n-1]
		next = Layer{Frequency: last.Frequency * 2, Amplitude: last.Amplitude / 2}
	}
	out := make([]Layer, len(layers), len(layers)+1)
	copy(out, layers)
	return append(out, next)
}

// RemoveLayer returns layers without entry i. Out of range indices return an
// unchanged copy.
func RemoveLayer(layers []Layer, i int) []Layer {
	out := make([]Layer, 0, len(layers))
	for j, l := range layers {
		if j != i {
			out = append(out, l)
		}
	}
	return out
}
