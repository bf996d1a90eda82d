// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// QuadVertexShader draws a full-surface quad. It is desktop GLSL and is used
// as is.
//
//go:embed quad.vert
var QuadVertexShader string

// GeneratorFragmentShader evaluates the noise model for one cube face.
// It is WebGL2 GLSL and must be translated before compiling.
//
//go:embed generator.frag
var GeneratorFragmentShader string

// PreviewFragmentShader samples the cube texture along the view ray.
// It is WebGL2 GLSL and must be translated before compiling.
//
//go:embed preview.frag
var PreviewFragmentShader string
