package shaders

import (
	"strings"
	"testing"
)

func TestUniformsDeclared(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		uniforms []string
	}{
		{"generator", GeneratorFragmentShader, []string{"iTime", "iResolution", "side", "seed", "shape", "layerCount", "layers[MAX_LAYERS]", "octaves", "lacunarity", "gain"}},
		{"preview", PreviewFragmentShader, []string{"iTime", "iResolution", "iMouse", "iChannel0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.HasPrefix(tt.source, "#version 300 es") {
				t.Errorf("expected WebGL2 source")
			}
			for _, u := range tt.uniforms {
				if !strings.Contains(tt.source, " "+u+";") {
					t.Errorf("uniform %s not declared", u)
				}
			}
		})
	}

	if !strings.HasPrefix(QuadVertexShader, "#version 410 core") {
		t.Errorf("expected desktop vertex shader")
	}
}
