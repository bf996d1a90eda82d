package pipeline

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/draw"

	"github.com/Faultbox/cubeforge/pkg/cubemap"
)

// WrapMode is the texture addressing mode of one axis.
type WrapMode int

const (
	WrapRepeat WrapMode = iota
	WrapClamp
)

func (m WrapMode) String() string {
	if m == WrapClamp {
		return "clamp"
	}
	return "repeat"
}

// ParseWrapMode parses "repeat" or "clamp". Empty selects repeat.
func ParseWrapMode(s string) (WrapMode, error) {
	switch s {
	case "", "repeat":
		return WrapRepeat, nil
	case "clamp":
		return WrapClamp, nil
	}
	return 0, fmt.Errorf("unknown wrap mode %q", s)
}

// SamplerOptions configures how assembled cube textures are sampled.
type SamplerOptions struct {
	Wrap    WrapMode
	Repeat  mgl32.Vec2
	Mipmaps bool
}

// DefaultSamplerOptions repeats on both axes, tiles 4x4 and builds mipmaps.
func DefaultSamplerOptions() SamplerOptions {
	return SamplerOptions{Wrap: WrapRepeat, Repeat: mgl32.Vec2{4, 4}, Mipmaps: true}
}

// CubeTexture is a sampler-ready cube built from one FaceSet. It is never
// modified after assembly.
type CubeTexture struct {
	Seq  uint64
	Size int
	// Levels[0] holds the faces at full size; further levels halve the size
	// down to 1x1 when mipmaps are enabled.
	Levels  [][cubemap.FaceCount]*image.RGBA
	WrapS   WrapMode
	WrapT   WrapMode
	Repeat  mgl32.Vec2
	Mipmaps bool
}

// Face returns the full-size image of f.
func (t *CubeTexture) Face(f cubemap.Face) *image.RGBA {
	return t.Levels[0][f]
}

// Sample returns the nearest level 0 texel in direction dir. Directions on a
// face boundary resolve to the edge texel of the face Lookup picks; like a GL
// cube map, sampling by direction ignores the wrap mode.
func (t *CubeTexture) Sample(dir mgl32.Vec3) color.RGBA {
	f, s, tc := cubemap.Lookup(dir)
	img := t.Levels[0][f]
	x := t.texel(s)
	y := t.texel(tc)
	return img.RGBAAt(img.Rect.Min.X+x, img.Rect.Min.Y+y)
}

// texel maps a face coordinate in [0, 1] to a pixel index.
func (t *CubeTexture) texel(c float32) int {
	return max(0, min(int(c*float32(t.Size)), t.Size-1))
}

// Assemble builds a cube texture from faces. It fails if any face is missing
// or malformed; nothing partial is returned.
func Assemble(ctx context.Context, faces *cubemap.FaceSet, opts SamplerOptions) (*CubeTexture, error) {
	if faces == nil {
		return nil, &AssemblyFailure{Err: fmt.Errorf("no faces")}
	}
	if err := faces.Validate(); err != nil {
		return nil, &AssemblyFailure{Seq: faces.Seq, Err: err}
	}

	size := faces.Size()
	tex := &CubeTexture{
		Seq:     faces.Seq,
		Size:    size,
		WrapS:   opts.Wrap,
		WrapT:   opts.Wrap,
		Repeat:  opts.Repeat,
		Mipmaps: opts.Mipmaps,
	}

	var base [cubemap.FaceCount]*image.RGBA
	for _, f := range cubemap.Faces() {
		if err := ctx.Err(); err != nil {
			return nil, &AssemblyFailure{Seq: faces.Seq, Err: err}
		}
		src := faces.Images[f]
		dst := image.NewRGBA(image.Rect(0, 0, size, size))
		draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
		base[f] = dst
	}
	tex.Levels = append(tex.Levels, base)

	if opts.Mipmaps {
		prev := base
		for s := size / 2; s >= 1; s /= 2 {
			if err := ctx.Err(); err != nil {
				return nil, &AssemblyFailure{Seq: faces.Seq, Err: err}
			}
			var level [cubemap.FaceCount]*image.RGBA
			for _, f := range cubemap.Faces() {
				dst := image.NewRGBA(image.Rect(0, 0, s, s))
				draw.BiLinear.Scale(dst, dst.Bounds(), prev[f], prev[f].Bounds(), draw.Src, nil)
				level[f] = dst
			}
			tex.Levels = append(tex.Levels, level)
			prev = level
		}
	}

	return tex, nil
}

// Future is a pending assembly.
type Future struct {
	done chan struct{}
	tex  *CubeTexture
	err  error
}

// AssembleAsync starts Assemble on its own goroutine.
func AssembleAsync(ctx context.Context, faces *cubemap.FaceSet, opts SamplerOptions) *Future {
	fut := &Future{done: make(chan struct{})}
	go func() {
		defer close(fut.done)
		fut.tex, fut.err = Assemble(ctx, faces, opts)
	}()
	return fut
}

// Done is closed once the assembly has finished.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the assembly finishes or ctx is cancelled.
func (f *Future) Wait(ctx context.Context) (*CubeTexture, error) {
	select {
	case <-f.done:
		return f.tex, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
