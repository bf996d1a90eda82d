package facepack

import (
	"archive/zip"
	"bytes"
	"fmt"
	"image"
	"io"
	"path"
	"strings"

	"github.com/Faultbox/cubeforge/pkg/cubemap"
)

// Archive is an opened face archive.
type Archive struct {
	closer  io.Closer
	order   []string
	entries map[string]*zip.File
}

// Open opens a face archive from disk.
func Open(path string) (*Archive, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	a := newArchive(&rc.Reader)
	a.closer = rc
	return a, nil
}

// OpenReader reads a face archive from r.
func OpenReader(r io.ReaderAt, size int64) (*Archive, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("reading archive: %w", err)
	}
	return newArchive(zr), nil
}

// OpenBytes reads a face archive held in memory.
func OpenBytes(data []byte) (*Archive, error) {
	return OpenReader(bytes.NewReader(data), int64(len(data)))
}

func newArchive(zr *zip.Reader) *Archive {
	a := &Archive{entries: make(map[string]*zip.File, len(zr.File))}
	for _, f := range zr.File {
		name := normalizeName(f.Name)
		a.order = append(a.order, name)
		a.entries[name] = f
	}
	return a
}

// Close releases the underlying file, if any.
func (a *Archive) Close() error {
	if a.closer != nil {
		return a.closer.Close()
	}
	return nil
}

// List returns the entry names in archive order.
func (a *Archive) List() []string {
	return append([]string(nil), a.order...)
}

// Contains reports whether the archive has an entry with this name.
func (a *Archive) Contains(name string) bool {
	_, ok := a.entries[normalizeName(name)]
	return ok
}

// Read returns the raw bytes of an entry.
func (a *Archive) Read(name string) ([]byte, error) {
	f, ok := a.entries[normalizeName(name)]
	if !ok {
		return nil, fmt.Errorf("entry not found: %s", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening entry %s: %w", name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading entry %s: %w", name, err)
	}
	return data, nil
}

// Format reports the image format of the archive, taken from the extension
// of the px entry.
func (a *Archive) Format() (Format, error) {
	prefix := cubemap.PositiveX.Name() + "."
	for _, name := range a.order {
		if ext, ok := strings.CutPrefix(name, prefix); ok {
			return ParseFormat(ext)
		}
	}
	return "", fmt.Errorf("archive has no %s entry", cubemap.PositiveX)
}

// Image decodes the entry for face f.
func (a *Archive) Image(f cubemap.Face) (image.Image, error) {
	format, err := a.Format()
	if err != nil {
		return nil, err
	}
	data, err := a.Read(EntryName(f, format))
	if err != nil {
		return nil, err
	}
	img, err := format.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding face %s: %w", f, err)
	}
	return img, nil
}

// Faces decodes all six faces in face order.
func (a *Archive) Faces() ([cubemap.FaceCount]image.Image, error) {
	var out [cubemap.FaceCount]image.Image
	for _, f := range cubemap.Faces() {
		img, err := a.Image(f)
		if err != nil {
			return out, err
		}
		out[f] = img
	}
	return out, nil
}

// Verify checks that the archive holds exactly the six face entries in face
// order and that every one decodes to a square image of the same size.
// It returns the face size.
func (a *Archive) Verify() (int, error) {
	format, err := a.Format()
	if err != nil {
		return 0, err
	}
	want := EntryNames(format)
	if len(a.order) != len(want) {
		return 0, fmt.Errorf("expected %d entries, found %d", len(want), len(a.order))
	}
	for i, name := range want {
		if a.order[i] != name {
			return 0, fmt.Errorf("entry %d: expected %s, found %s", i, name, a.order[i])
		}
	}

	faces, err := a.Faces()
	if err != nil {
		return 0, err
	}
	size := faces[0].Bounds().Dx()
	for _, f := range cubemap.Faces() {
		b := faces[f].Bounds()
		if b.Dx() != size || b.Dy() != size {
			return 0, fmt.Errorf("face %s: size %dx%d, expected %dx%d", f, b.Dx(), b.Dy(), size, size)
		}
	}
	return size, nil
}

func normalizeName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	return strings.ToLower(path.Clean(name))
}
