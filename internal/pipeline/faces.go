package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/Faultbox/cubeforge/pkg/cubemap"
)

// RenderFaces draws and reads back the six faces in face order. The side
// uniform is set before each draw. Any failure discards the whole set.
func RenderFaces(ctx context.Context, target GeneratorTarget, u *GeneratorUniforms) (*cubemap.FaceSet, error) {
	w, h := target.Size()
	faces := &cubemap.FaceSet{}

	for _, f := range cubemap.Faces() {
		if err := ctx.Err(); err != nil {
			return nil, &RenderFailure{Face: f, Err: err}
		}

		u.Side = int32(f)
		if err := target.Draw(u); err != nil {
			return nil, &RenderFailure{Face: f, Err: fmt.Errorf("draw: %w", err)}
		}

		img, err := target.ReadPixels()
		if err != nil {
			return nil, &RenderFailure{Face: f, Err: fmt.Errorf("read back: %w", err)}
		}
		if img == nil {
			return nil, &RenderFailure{Face: f, Err: errors.New("read back: no image")}
		}
		if b := img.Bounds(); b.Dx() != w || b.Dy() != h {
			return nil, &RenderFailure{Face: f, Err: fmt.Errorf("read back: got %dx%d, expected %dx%d", b.Dx(), b.Dy(), w, h)}
		}
		faces.Images[f] = img
	}

	return faces, nil
}
