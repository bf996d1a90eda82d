package pipeline

import (
	"errors"
	"image"
	"io"

	"github.com/Faultbox/cubeforge/pkg/cubemap"
	"github.com/Faultbox/cubeforge/pkg/facepack"
)

// ErrNoFaces is returned when exporting before any generation completed.
var ErrNoFaces = errors.New("no faces have been generated")

// Export writes faces as a face archive in format.
func Export(w io.Writer, faces *cubemap.FaceSet, format facepack.Format) error {
	if faces == nil {
		return &ExportFailure{Err: ErrNoFaces}
	}
	var imgs [cubemap.FaceCount]image.Image
	for i, img := range faces.Images {
		if img != nil {
			imgs[i] = img
		}
	}
	if err := facepack.Write(w, imgs, format); err != nil {
		return &ExportFailure{Err: err}
	}
	return nil
}
