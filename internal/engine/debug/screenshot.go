// Package debug saves preview screenshots and raw face dumps.
package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/Faultbox/cubeforge/pkg/cubemap"
)

// ScreenshotCapture writes timestamped PNG files into a directory.
type ScreenshotCapture struct {
	outputDir string
	prefix    string
	now       func() time.Time
}

// NewScreenshotCapture creates a new screenshot capture handler.
func NewScreenshotCapture(outputDir, prefix string) *ScreenshotCapture {
	return &ScreenshotCapture{
		outputDir: outputDir,
		prefix:    prefix,
		now:       time.Now,
	}
}

// CaptureFromImage saves img and returns the file name.
func (sc *ScreenshotCapture) CaptureFromImage(img image.Image) (string, error) {
	if err := sc.ensureDir(); err != nil {
		return "", err
	}
	filename := sc.GenerateFilename()
	if err := writePNG(filename, img); err != nil {
		return "", err
	}
	return filename, nil
}

// DumpFaces saves each face as <prefix>_<timestamp>_<face>.png and returns
// the file names in face order.
func (sc *ScreenshotCapture) DumpFaces(faces *cubemap.FaceSet) ([]string, error) {
	if err := sc.ensureDir(); err != nil {
		return nil, err
	}
	stamp := sc.now().Format("2006-01-02_15-04-05")
	names := make([]string, 0, cubemap.FaceCount)
	for _, f := range cubemap.Faces() {
		img := faces.Face(f)
		if img == nil {
			return names, fmt.Errorf("face %s: missing image", f)
		}
		name := filepath.Join(sc.outputDir, fmt.Sprintf("%s_%s_%s.png", sc.prefix, stamp, f))
		if err := writePNG(name, img); err != nil {
			return names, err
		}
		names = append(names, name)
	}
	return names, nil
}

// GenerateFilename generates a screenshot filename without saving.
func (sc *ScreenshotCapture) GenerateFilename() string {
	timestamp := sc.now().Format("2006-01-02_15-04-05")
	filename := fmt.Sprintf("%s_%s.png", sc.prefix, timestamp)
	if sc.outputDir != "" {
		filename = filepath.Join(sc.outputDir, filename)
	}
	return filename
}

func (sc *ScreenshotCapture) ensureDir() error {
	if sc.outputDir == "" {
		return nil
	}
	if err := os.MkdirAll(sc.outputDir, 0755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	return nil
}

func writePNG(filename string, img image.Image) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return nil
}
