// Package cubemap defines the six cube faces, their fixed order and the
// mapping between face texels and directions.
package cubemap

import (
	"fmt"
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// Face identifies one side of the cube. The numeric value is the face index
// used by the generator shader and the order of every face sequence.
type Face int

const (
	PositiveX Face = iota
	NegativeX
	PositiveY
	NegativeY
	PositiveZ
	NegativeZ
)

// FaceCount is the number of cube faces.
const FaceCount = 6

var faceNames = [FaceCount]string{"px", "nx", "py", "ny", "pz", "nz"}

// Faces returns all faces in index order.
func Faces() [FaceCount]Face {
	return [FaceCount]Face{PositiveX, NegativeX, PositiveY, NegativeY, PositiveZ, NegativeZ}
}

// Valid reports whether f is one of the six faces.
func (f Face) Valid() bool {
	return f >= 0 && f < FaceCount
}

// Name returns the short name used for exported files (px, nx, ...).
func (f Face) Name() string {
	if !f.Valid() {
		return fmt.Sprintf("face%d", int(f))
	}
	return faceNames[f]
}

func (f Face) String() string {
	return f.Name()
}

// FaceByName maps a short name back to its face.
func FaceByName(name string) (Face, bool) {
	for i, n := range faceNames {
		if n == name {
			return Face(i), true
		}
	}
	return 0, false
}

// Direction returns the unit direction through texel coordinates (s, t) of
// the face, both in [0, 1], using the OpenGL cube map layout.
func (f Face) Direction(s, t float32) mgl32.Vec3 {
	sc := 2*s - 1
	tc := 2*t - 1

	var d mgl32.Vec3
	switch f {
	case PositiveX:
		d = mgl32.Vec3{1, -tc, -sc}
	case NegativeX:
		d = mgl32.Vec3{-1, -tc, sc}
	case PositiveY:
		d = mgl32.Vec3{sc, 1, tc}
	case NegativeY:
		d = mgl32.Vec3{sc, -1, -tc}
	case PositiveZ:
		d = mgl32.Vec3{sc, -tc, 1}
	default:
		d = mgl32.Vec3{-sc, -tc, -1}
	}
	return d.Normalize()
}

// Lookup selects the face hit by dir and the texel coordinates on it.
// dir does not need to be normalized but must not be zero.
func Lookup(dir mgl32.Vec3) (Face, float32, float32) {
	ax, ay, az := abs(dir[0]), abs(dir[1]), abs(dir[2])

	var (
		face   Face
		sc, tc float32
		ma     float32
	)
	switch {
	case ax >= ay && ax >= az:
		ma = ax
		if dir[0] >= 0 {
			face, sc, tc = PositiveX, -dir[2], -dir[1]
		} else {
			face, sc, tc = NegativeX, dir[2], -dir[1]
		}
	case ay >= az:
		ma = ay
		if dir[1] >= 0 {
			face, sc, tc = PositiveY, dir[0], dir[2]
		} else {
			face, sc, tc = NegativeY, dir[0], -dir[2]
		}
	default:
		ma = az
		if dir[2] >= 0 {
			face, sc, tc = PositiveZ, dir[0], -dir[1]
		} else {
			face, sc, tc = NegativeZ, -dir[0], -dir[1]
		}
	}

	if ma == 0 {
		return PositiveX, 0.5, 0.5
	}
	return face, (sc/ma + 1) / 2, (tc/ma + 1) / 2
}

// TexelCenter returns the (s, t) coordinates of pixel (x, y) on a size×size
// face. Row 0 is t near 0.
func TexelCenter(x, y, size int) (float32, float32) {
	return (float32(x) + 0.5) / float32(size), (float32(y) + 0.5) / float32(size)
}

// FaceSet is the six face images of one generation, indexed by Face.
type FaceSet struct {
	Seq    uint64
	Images [FaceCount]*image.RGBA
}

// Face returns the image for f.
func (fs *FaceSet) Face(f Face) *image.RGBA {
	return fs.Images[f]
}

// Size returns the edge length of the faces.
func (fs *FaceSet) Size() int {
	if fs.Images[0] == nil {
		return 0
	}
	return fs.Images[0].Bounds().Dx()
}

// Validate checks that all six faces are present, square and equally sized.
func (fs *FaceSet) Validate() error {
	size := -1
	for _, f := range Faces() {
		img := fs.Images[f]
		if img == nil {
			return fmt.Errorf("face %s: missing image", f)
		}
		b := img.Bounds()
		if b.Dx() != b.Dy() {
			return fmt.Errorf("face %s: not square (%dx%d)", f, b.Dx(), b.Dy())
		}
		if b.Dx() == 0 {
			return fmt.Errorf("face %s: empty image", f)
		}
		if size >= 0 && b.Dx() != size {
			return fmt.Errorf("face %s: size %d differs from %d", f, b.Dx(), size)
		}
		size = b.Dx()
	}
	return nil
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
