// Package texture uploads cube textures to OpenGL.
package texture

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/cubeforge/pkg/cubemap"
)

// Cube is an OpenGL cube map texture.
type Cube struct {
	ID     uint32
	Size   int
	Levels int
}

// CubeOptions controls sampling of an uploaded cube map.
type CubeOptions struct {
	Repeat bool
	// GenerateMipmaps asks the driver to build the mip chain when only one
	// level is uploaded.
	GenerateMipmaps bool
}

// NewCube uploads levels, each holding the six faces in face order, with
// level 0 at full size. Row 0 of each image is t = 0.
func NewCube(levels [][cubemap.FaceCount]*image.RGBA, opts CubeOptions) (*Cube, error) {
	if len(levels) == 0 {
		return nil, fmt.Errorf("cube texture has no levels")
	}
	size := levels[0][0].Rect.Dx()

	c := &Cube{Size: size, Levels: len(levels)}
	gl.GenTextures(1, &c.ID)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, c.ID)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)

	for lvl, faces := range levels {
		for _, f := range cubemap.Faces() {
			img := faces[f]
			if img == nil {
				c.Delete()
				return nil, fmt.Errorf("level %d face %s: missing image", lvl, f)
			}
			w, h := img.Rect.Dx(), img.Rect.Dy()
			gl.TexImage2D(gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(f), int32(lvl), gl.RGBA8,
				int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(tightPixels(img)))
		}
	}

	wrap := int32(gl.CLAMP_TO_EDGE)
	if opts.Repeat {
		wrap = gl.REPEAT
	}
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, wrap)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, wrap)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, wrap)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	switch {
	case len(levels) > 1:
		gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAX_LEVEL, int32(len(levels)-1))
		gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	case opts.GenerateMipmaps:
		gl.GenerateMipmap(gl.TEXTURE_CUBE_MAP)
		gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	default:
		gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAX_LEVEL, 0)
		gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	}

	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)
	if e := gl.GetError(); e != gl.NO_ERROR {
		c.Delete()
		return nil, fmt.Errorf("uploading cube texture: 0x%x", e)
	}
	return c, nil
}

// Bind binds the cube map to texture unit.
func (c *Cube) Bind(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, c.ID)
}

// Delete releases the texture.
func (c *Cube) Delete() {
	if c.ID != 0 {
		gl.DeleteTextures(1, &c.ID)
		c.ID = 0
	}
}

// tightPixels returns img's pixels without row padding.
func tightPixels(img *image.RGBA) []byte {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if img.Stride == w*4 && img.Rect.Min == (image.Point{}) {
		return img.Pix[:w*h*4]
	}
	out := make([]byte, 0, w*h*4)
	for y := img.Rect.Min.Y; y < img.Rect.Max.Y; y++ {
		off := img.PixOffset(img.Rect.Min.X, y)
		out = append(out, img.Pix[off:off+w*4]...)
	}
	return out
}
