package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/cubeforge/internal/pipeline"
	"github.com/Faultbox/cubeforge/pkg/facepack"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Backend != BackendGL {
		t.Errorf("expected backend gl, got %s", cfg.Backend)
	}
	if cfg.Preview.Width != 1280 || cfg.Preview.Height != 720 {
		t.Errorf("expected preview 1280x720, got %dx%d", cfg.Preview.Width, cfg.Preview.Height)
	}
	if cfg.Generator.Width != 256 || cfg.Generator.Height != 256 {
		t.Errorf("expected 256 faces, got %vx%v", cfg.Generator.Width, cfg.Generator.Height)
	}
	if len(cfg.Generator.Layers) != 1 {
		t.Errorf("expected one default layer, got %d", len(cfg.Generator.Layers))
	}
	if cfg.Export.Format != "png" {
		t.Errorf("expected png export, got %s", cfg.Export.Format)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
backend: soft
preview:
  width: 640
  height: 480
generator:
  width: 128
  height: 128
  seed: 7
  model: fractal
  octaves: 5
  lacunarity: 2
  gain: 0.5
assembly:
  policy: last-completed
  wrap: clamp
  repeat: [2, 3]
  mipmaps: false
export:
  format: tiff
logging:
  level: debug
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Backend != BackendSoft {
		t.Errorf("expected soft backend, got %s", cfg.Backend)
	}
	if cfg.Preview.Width != 640 || cfg.Preview.Height != 480 {
		t.Errorf("expected preview 640x480, got %dx%d", cfg.Preview.Width, cfg.Preview.Height)
	}
	// unset fields keep their defaults
	if !cfg.Preview.VSync {
		t.Error("expected vsync default to survive")
	}
	if cfg.Generator.Model != "fractal" || cfg.Generator.Octaves != 5 {
		t.Errorf("unexpected generator section: %+v", cfg.Generator)
	}
	if cfg.Generator.Seed != 7 {
		t.Errorf("expected seed 7, got %v", cfg.Generator.Seed)
	}

	policy, err := cfg.Policy()
	if err != nil || policy != pipeline.PolicyLastCompleted {
		t.Errorf("expected last-completed policy, got %v (%v)", policy, err)
	}
	sampler, err := cfg.Sampler()
	if err != nil {
		t.Fatalf("Sampler failed: %v", err)
	}
	if sampler.Wrap != pipeline.WrapClamp || sampler.Mipmaps {
		t.Errorf("unexpected sampler: %+v", sampler)
	}
	if sampler.Repeat != (mgl32.Vec2{2, 3}) {
		t.Errorf("expected repeat 2x3, got %v", sampler.Repeat)
	}
	format, err := cfg.Format()
	if err != nil || format != facepack.TIFF {
		t.Errorf("expected tiff, got %v (%v)", format, err)
	}
}

func TestLoadFileInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"yaml", "preview: [not, a, map", "loading config"},
		{"backend", "backend: vulkan", "backend"},
		{"policy", "assembly:\n  policy: oldest", "assembly.policy"},
		{"wrap", "assembly:\n  wrap: mirror", "assembly.wrap"},
		{"format", "export:\n  format: gif", "export.format"},
		{"preview", "preview:\n  width: 0", "preview"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected %q in error, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile("/nonexistent/cubeforge.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSamplerZeroRepeat(t *testing.T) {
	cfg := Default()
	cfg.Assembly.Repeat = [2]float32{}
	sampler, err := cfg.Sampler()
	if err != nil {
		t.Fatalf("Sampler failed: %v", err)
	}
	if sampler.Repeat != (mgl32.Vec2{1, 1}) {
		t.Errorf("expected repeat 1x1, got %v", sampler.Repeat)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !strings.Contains(strings.ToLower(dir), "cubeforge") {
		t.Errorf("expected cubeforge in config dir, got %s", dir)
	}
}

func TestFlagsOverride(t *testing.T) {
	path := writeConfig(t, "backend: gl\nexport:\n  format: bmp\n")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	flags := BindFlags(fs)
	args := []string{"-config", path, "-backend", "soft", "-size", "64", "-seed", "-3", "-debug", "-width", "800"}
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse: %v", err)
	}

	cfg, err := Load(flags)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Backend != BackendSoft {
		t.Errorf("flag should override backend, got %s", cfg.Backend)
	}
	if cfg.Export.Format != "bmp" {
		t.Errorf("file value should survive, got %s", cfg.Export.Format)
	}
	if cfg.Generator.Width != 64 || cfg.Generator.Height != 64 {
		t.Errorf("expected 64 faces, got %vx%v", cfg.Generator.Width, cfg.Generator.Height)
	}
	if cfg.Generator.Seed != -3 {
		t.Errorf("expected seed -3, got %v", cfg.Generator.Seed)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected debug level, got %s", cfg.Logging.Level)
	}
	if cfg.Preview.Width != 800 || cfg.Preview.Height != 720 {
		t.Errorf("expected preview 800x720, got %dx%d", cfg.Preview.Width, cfg.Preview.Height)
	}
}

func TestFlagsBadSeed(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))
	BindFlags(fs)
	if err := fs.Parse([]string{"-seed", "1.5"}); err == nil {
		t.Error("expected parse error for fractional seed")
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)

	cfg := Default()
	cfg.Backend = BackendSoft
	cfg.Generator.Seed = 99
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if loaded.Backend != BackendSoft || loaded.Generator.Seed != 99 {
		t.Errorf("unexpected reloaded config: %+v", loaded)
	}
}
