// Package ui wraps the Dear ImGui SDL backend for the desktop tools.
package ui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/backend"
	"github.com/AllenDang/cimgui-go/backend/sdlbackend"
	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/Faultbox/cubeforge/internal/engine/renderer"
)

// Backend owns the ImGui window and its GL context.
type Backend struct {
	backend backend.Backend[sdlbackend.SDLWindowFlags]
	title   string
}

// NewBackend creates the window and loads GL for its context.
func NewBackend(title string, width, height int) (*Backend, error) {
	b := &Backend{title: title}

	var err error
	b.backend, err = backend.CreateBackend(sdlbackend.NewSDLBackend())
	if err != nil {
		return nil, fmt.Errorf("create backend: %w", err)
	}

	b.backend.SetBgColor(imgui.NewVec4(0.1, 0.1, 0.12, 1.0))
	b.backend.CreateWindow(title, width, height)

	if err := renderer.Init(); err != nil {
		return nil, fmt.Errorf("init opengl: %w", err)
	}

	return b, nil
}

// Run starts the main render loop.
func (b *Backend) Run(renderFunc func()) {
	b.backend.Run(renderFunc)
}

// SetSubtitle shows text after the window title.
func (b *Backend) SetSubtitle(text string) {
	if text == "" {
		b.backend.SetWindowTitle(b.title)
		return
	}
	b.backend.SetWindowTitle(b.title + " - " + text)
}

// Viewport returns the main viewport work area.
func Viewport() (pos, size imgui.Vec2) {
	viewport := imgui.MainViewport()
	return viewport.WorkPos(), viewport.WorkSize()
}

// IsKeyPressed checks if a key was pressed this frame.
func IsKeyPressed(key imgui.Key) bool {
	return imgui.IsKeyChordPressed(imgui.KeyChord(key))
}

// Surface is where an offscreen texture was drawn this frame.
type Surface struct {
	Origin  imgui.Vec2
	Size    imgui.Vec2
	Hovered bool
	// Mouse is the pointer position in the same coordinates as Origin.
	Mouse imgui.Vec2
}

// TextureSurface draws a GL color texture filling width x height. The
// texture is flipped vertically, as framebuffer textures are stored bottom
// row first.
func TextureSurface(textureID uint32, width, height float32) Surface {
	texRef := imgui.NewTextureRefTextureID(imgui.TextureID(textureID))
	imgui.ImageWithBgV(
		*texRef,
		imgui.NewVec2(width, height),
		imgui.NewVec2(0, 1),
		imgui.NewVec2(1, 0),
		imgui.NewVec4(0, 0, 0, 1),
		imgui.NewVec4(1, 1, 1, 1),
	)
	return Surface{
		Origin:  imgui.ItemRectMin(),
		Size:    imgui.ItemRectSize(),
		Hovered: imgui.IsItemHovered(),
		Mouse:   imgui.MousePos(),
	}
}
