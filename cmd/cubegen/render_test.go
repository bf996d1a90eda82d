package main

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/cubeforge/pkg/cubemap"
	"github.com/Faultbox/cubeforge/pkg/facepack"
)

func testFaceSet(size int) *cubemap.FaceSet {
	fs := &cubemap.FaceSet{Seq: 1}
	for _, f := range cubemap.Faces() {
		img := image.NewRGBA(image.Rect(0, 0, size, size))
		for i := range img.Pix {
			img.Pix[i] = uint8(int(f)*40 + i%7)
		}
		img.Set(0, 0, color.RGBA{255, 0, 0, 255})
		fs.Images[f] = img
	}
	return fs
}

func TestURIsPackRoundTrip(t *testing.T) {
	dir := t.TempDir()
	urisPath := filepath.Join(dir, "faces.txt")
	zipPath := filepath.Join(dir, "faces.zip")

	faces := testFaceSet(8)
	require.NoError(t, writeURIs(faces, facepack.PNG, urisPath))

	uris, err := readURIs(urisPath)
	require.NoError(t, err)
	require.NoError(t, packURIs(uris, zipPath))

	a, err := facepack.Open(zipPath)
	require.NoError(t, err)
	defer a.Close()
	size, err := a.Verify()
	require.NoError(t, err)
	assert.Equal(t, 8, size)

	img, err := a.Image(cubemap.NegativeZ)
	require.NoError(t, err)
	r, g, b, _ := img.At(0, 0).RGBA()
	assert.Equal(t, []uint32{0xffff, 0, 0}, []uint32{r, g, b})
}

func TestReadURIsErrors(t *testing.T) {
	dir := t.TempDir()
	write := func(content string) string {
		p := filepath.Join(dir, "uris.txt")
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
		return p
	}

	_, err := readURIs(write("px data:image/png;base64,AA==\n"))
	assert.ErrorContains(t, err, "missing")

	_, err = readURIs(write("qx data:image/png;base64,AA==\n"))
	assert.ErrorContains(t, err, "unknown face")

	_, err = readURIs(write("px a\npx b\n"))
	assert.ErrorContains(t, err, "twice")

	_, err = readURIs(write("px\n"))
	assert.Error(t, err)
}
