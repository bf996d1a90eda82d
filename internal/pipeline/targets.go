// Package pipeline drives cube texture generation: it binds validated
// settings to shader uniforms, renders the six faces, assembles them into a
// cube texture and keeps the live preview running.
package pipeline

import "image"

// GeneratorTarget is the off-screen surface the generator shader draws into.
// Its pixels must persist after a draw so they can be read back.
type GeneratorTarget interface {
	Resize(width, height int) error
	Size() (width, height int)
	// Draw runs the generator shader once over the whole surface.
	Draw(u *GeneratorUniforms) error
	// ReadPixels returns a new top-down copy of the surface.
	ReadPixels() (*image.RGBA, error)
}

// PreviewTarget is the visible surface. Its size tracks the display size of
// the window or panel it is shown in.
type PreviewTarget interface {
	DisplaySize() (width, height int)
	Size() (width, height int)
	Resize(width, height int) error
	// Draw renders one preview frame. tex is nil until the first cube
	// texture has been assembled.
	Draw(u *PreviewUniforms, tex *CubeTexture) error
}
