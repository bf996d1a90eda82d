package facepack

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/cubeforge/pkg/cubemap"
)

func testFaces(size int) [cubemap.FaceCount]image.Image {
	var faces [cubemap.FaceCount]image.Image
	for i := range faces {
		img := image.NewRGBA(image.Rect(0, 0, size, size))
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				img.Set(x, y, color.RGBA{R: uint8(i * 40), G: uint8(x), B: uint8(y), A: 255})
			}
		}
		faces[i] = img
	}
	return faces
}

func TestWriteEntryOrder(t *testing.T) {
	for _, size := range []int{1, 16, 64} {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, testFaces(size), PNG))

		a, err := OpenBytes(buf.Bytes())
		require.NoError(t, err)
		assert.Equal(t, []string{"px.png", "nx.png", "py.png", "ny.png", "pz.png", "nz.png"}, a.List())

		got, err := a.Verify()
		require.NoError(t, err)
		assert.Equal(t, size, got)
	}
}

func TestWriteFormats(t *testing.T) {
	faces := testFaces(8)
	for _, format := range []Format{PNG, BMP, TIFF} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Write(&buf, faces, format))

			a, err := OpenBytes(buf.Bytes())
			require.NoError(t, err)
			assert.Equal(t, EntryNames(format), a.List())

			got, err := a.Format()
			require.NoError(t, err)
			assert.Equal(t, format, got)

			img, err := a.Image(cubemap.NegativeY)
			require.NoError(t, err)
			r, g, b, _ := img.At(3, 5).RGBA()
			assert.Equal(t, uint32(3*40)*0x101, r)
			assert.Equal(t, uint32(3)*0x101, g)
			assert.Equal(t, uint32(5)*0x101, b)
		})
	}
}

func TestWriteMissingFace(t *testing.T) {
	faces := testFaces(4)
	faces[cubemap.PositiveZ] = nil
	err := Write(&bytes.Buffer{}, faces, PNG)
	assert.ErrorContains(t, err, "pz")
}

func TestDataURIs(t *testing.T) {
	faces := testFaces(4)
	var uris [cubemap.FaceCount]string
	for i, img := range faces {
		uri, err := EncodeDataURI(img, PNG)
		require.NoError(t, err)
		assert.Contains(t, uri, "data:image/png;base64,")
		uris[i] = uri
	}

	var buf bytes.Buffer
	require.NoError(t, WriteDataURIs(&buf, uris))

	a, err := OpenBytes(buf.Bytes())
	require.NoError(t, err)
	size, err := a.Verify()
	require.NoError(t, err)
	assert.Equal(t, 4, size)

	// entries hold exactly the decoded payload
	_, want, err := DecodeDataURI(uris[cubemap.PositiveY])
	require.NoError(t, err)
	got, err := a.Read("py.png")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDecodeDataURIErrors(t *testing.T) {
	for _, uri := range []string{
		"image/png;base64,AAAA",
		"data:image/png;base64",
		"data:image/png,AAAA",
		"data:image/png;base64,!!!",
	} {
		_, _, err := DecodeDataURI(uri)
		assert.Error(t, err, uri)
	}
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{"": PNG, "PNG": PNG, ".bmp": BMP, "tif": TIFF, "tiff": TIFF}
	for in, want := range cases {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("gif")
	assert.Error(t, err)
}

func TestArchiveLookup(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, testFaces(2), PNG))
	a, err := OpenBytes(buf.Bytes())
	require.NoError(t, err)
	defer a.Close()

	assert.True(t, a.Contains("PX.png"))
	assert.False(t, a.Contains("top.png"))
	_, err = a.Read("top.png")
	assert.Error(t, err)
}
