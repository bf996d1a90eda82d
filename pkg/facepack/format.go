// Package facepack writes and reads cube face archives: a zip holding one
// image per face named px, nx, py, ny, pz, nz.
package facepack

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Format is the image encoding of archive entries.
type Format string

const (
	PNG  Format = "png"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
)

// DefaultFormat is used when no format is configured.
const DefaultFormat = PNG

// ParseFormat accepts a format name or file extension, case-insensitively.
// An empty string yields DefaultFormat.
func ParseFormat(name string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(name), ".") {
	case "":
		return DefaultFormat, nil
	case "png":
		return PNG, nil
	case "bmp":
		return BMP, nil
	case "tif", "tiff":
		return TIFF, nil
	}
	return "", fmt.Errorf("unsupported image format: %q", name)
}

// Ext returns the file extension without the dot.
func (f Format) Ext() string {
	return string(f)
}

// MIME returns the media type used in data URIs.
func (f Format) MIME() string {
	return "image/" + string(f)
}

// Encode writes img to w in format f.
func (f Format) Encode(w io.Writer, img image.Image) error {
	switch f {
	case PNG:
		return png.Encode(w, img)
	case BMP:
		return bmp.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("unsupported image format: %q", string(f))
}

// EncodeBytes encodes img in format f.
func (f Format) EncodeBytes(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads an image in format f.
func (f Format) Decode(r io.Reader) (image.Image, error) {
	switch f {
	case PNG:
		return png.Decode(r)
	case BMP:
		return bmp.Decode(r)
	case TIFF:
		return tiff.Decode(r)
	}
	return nil, fmt.Errorf("unsupported image format: %q", string(f))
}
