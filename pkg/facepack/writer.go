package facepack

import (
	"archive/zip"
	"fmt"
	"image"
	"io"

	"github.com/Faultbox/cubeforge/pkg/cubemap"
)

// EntryName returns the archive entry name for face f, e.g. "px.png".
func EntryName(f cubemap.Face, format Format) string {
	return f.Name() + "." + format.Ext()
}

// EntryNames returns the six entry names in face order.
func EntryNames(format Format) []string {
	names := make([]string, 0, cubemap.FaceCount)
	for _, f := range cubemap.Faces() {
		names = append(names, EntryName(f, format))
	}
	return names
}

// Write encodes the six faces in format and writes them as a zip archive to
// w, one entry per face in face order.
func Write(w io.Writer, faces [cubemap.FaceCount]image.Image, format Format) error {
	var entries [cubemap.FaceCount][]byte
	for _, f := range cubemap.Faces() {
		if faces[f] == nil {
			return fmt.Errorf("face %s: missing image", f)
		}
		data, err := format.EncodeBytes(faces[f])
		if err != nil {
			return fmt.Errorf("encoding face %s: %w", f, err)
		}
		entries[f] = data
	}
	return writeEntries(w, entries, format)
}

// WriteDataURIs packages six faces given as base64 data URIs. The decoded
// bytes are stored unchanged; the entry extension follows the URI media type
// of the first face.
func WriteDataURIs(w io.Writer, uris [cubemap.FaceCount]string) error {
	var (
		entries [cubemap.FaceCount][]byte
		format  Format
	)
	for _, f := range cubemap.Faces() {
		mime, data, err := DecodeDataURI(uris[f])
		if err != nil {
			return fmt.Errorf("face %s: %w", f, err)
		}
		if f == cubemap.PositiveX {
			format, err = formatFromMIME(mime)
			if err != nil {
				return fmt.Errorf("face %s: %w", f, err)
			}
		}
		entries[f] = data
	}
	return writeEntries(w, entries, format)
}

func writeEntries(w io.Writer, entries [cubemap.FaceCount][]byte, format Format) error {
	zw := zip.NewWriter(w)
	for _, f := range cubemap.Faces() {
		ew, err := zw.Create(EntryName(f, format))
		if err != nil {
			return fmt.Errorf("creating entry %s: %w", f, err)
		}
		if _, err := ew.Write(entries[f]); err != nil {
			return fmt.Errorf("writing entry %s: %w", f, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finishing archive: %w", err)
	}
	return nil
}
