package config

import (
	"flag"
	"strconv"
)

// Flags are the command-line overrides shared by the tools. Zero values
// leave the loaded config untouched.
type Flags struct {
	ConfigPath string
	Debug      bool
	Backend    string
	Width      int
	Height     int
	Size       int
	Seed       *int32
	Format     string
	Policy     string
}

// BindFlags registers the shared flags on fs.
func BindFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.ConfigPath, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.Backend, "backend", "", "Render backend: soft or gl")
	fs.IntVar(&f.Width, "width", 0, "Preview width")
	fs.IntVar(&f.Height, "height", 0, "Preview height")
	fs.IntVar(&f.Size, "size", 0, "Face size in pixels")
	fs.Func("seed", "Noise seed", func(v string) error {
		seed, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return err
		}
		s := int32(seed)
		f.Seed = &s
		return nil
	})
	fs.StringVar(&f.Format, "format", "", "Face image format: png, bmp or tiff")
	fs.StringVar(&f.Policy, "policy", "", "Texture swap policy: newest or last-completed")
	return f
}

// apply applies flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.Backend != "" {
		cfg.Backend = f.Backend
	}
	if f.Width > 0 {
		cfg.Preview.Width = f.Width
	}
	if f.Height > 0 {
		cfg.Preview.Height = f.Height
	}
	if f.Size > 0 {
		cfg.Generator.Width = float64(f.Size)
		cfg.Generator.Height = float64(f.Size)
	}
	if f.Seed != nil {
		cfg.Generator.Seed = float64(*f.Seed)
	}
	if f.Format != "" {
		cfg.Export.Format = f.Format
	}
	if f.Policy != "" {
		cfg.Assembly.Policy = f.Policy
	}
}
