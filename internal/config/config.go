// Package config handles cubeforge configuration loading and management.
package config

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/cubeforge/internal/pipeline"
	"github.com/Faultbox/cubeforge/pkg/facepack"
	"github.com/Faultbox/cubeforge/pkg/settings"
)

// Backends understood by the tools.
const (
	BackendSoft = "soft"
	BackendGL   = "gl"
)

// Config holds all tool settings.
type Config struct {
	Backend   string         `yaml:"backend"`
	Preview   PreviewConfig  `yaml:"preview"`
	Generator settings.Raw   `yaml:"generator"`
	Assembly  AssemblyConfig `yaml:"assembly"`
	Export    ExportConfig   `yaml:"export"`
	Logging   LoggingConfig  `yaml:"logging"`
}

// PreviewConfig holds the preview window settings.
type PreviewConfig struct {
	Title    string `yaml:"title"`
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	VSync    bool   `yaml:"vsync"`
	FPSLimit int    `yaml:"fps_limit"`
}

// AssemblyConfig holds cube texture sampling and swap settings.
type AssemblyConfig struct {
	Policy  string     `yaml:"policy"`
	Wrap    string     `yaml:"wrap"`
	Repeat  [2]float32 `yaml:"repeat,flow"`
	Mipmaps bool       `yaml:"mipmaps"`
}

// ExportConfig holds archive export settings.
type ExportConfig struct {
	Dir    string `yaml:"dir"`
	Name   string `yaml:"name"`
	Format string `yaml:"format"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Backend: BackendGL,
		Preview: PreviewConfig{
			Title:    "cubeforge",
			Width:    1280,
			Height:   720,
			VSync:    true,
			FPSLimit: 60,
		},
		Generator: settings.Default().Raw(),
		Assembly: AssemblyConfig{
			Policy:  pipeline.PolicyNewest.String(),
			Wrap:    pipeline.WrapRepeat.String(),
			Repeat:  [2]float32{4, 4},
			Mipmaps: true,
		},
		Export: ExportConfig{
			Dir:    ".",
			Name:   "cubemap.zip",
			Format: string(facepack.DefaultFormat),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks every enumerated field. Generator settings are validated
// when they are submitted.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendSoft, BackendGL:
	default:
		return fmt.Errorf("backend: unknown backend %q", c.Backend)
	}
	if _, err := c.Policy(); err != nil {
		return fmt.Errorf("assembly.policy: %w", err)
	}
	if _, err := c.Sampler(); err != nil {
		return fmt.Errorf("assembly.wrap: %w", err)
	}
	if _, err := c.Format(); err != nil {
		return fmt.Errorf("export.format: %w", err)
	}
	if c.Preview.Width <= 0 || c.Preview.Height <= 0 {
		return fmt.Errorf("preview: size %dx%d must be positive", c.Preview.Width, c.Preview.Height)
	}
	return nil
}

// Policy returns the configured swap policy.
func (c *Config) Policy() (pipeline.Policy, error) {
	return pipeline.ParsePolicy(c.Assembly.Policy)
}

// Sampler returns the configured sampler options.
func (c *Config) Sampler() (pipeline.SamplerOptions, error) {
	wrap, err := pipeline.ParseWrapMode(c.Assembly.Wrap)
	if err != nil {
		return pipeline.SamplerOptions{}, err
	}
	repeat := mgl32.Vec2(c.Assembly.Repeat)
	if repeat == (mgl32.Vec2{}) {
		repeat = mgl32.Vec2{1, 1}
	}
	return pipeline.SamplerOptions{Wrap: wrap, Repeat: repeat, Mipmaps: c.Assembly.Mipmaps}, nil
}

// Format returns the configured face image format.
func (c *Config) Format() (facepack.Format, error) {
	return facepack.ParseFormat(c.Export.Format)
}
