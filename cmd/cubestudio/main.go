// cubestudio is a desktop editor for procedural cube textures with a live
// preview.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/Faultbox/cubeforge/internal/config"
	"github.com/Faultbox/cubeforge/internal/logger"
	"github.com/Faultbox/cubeforge/pkg/settings"
)

func main() {
	runtime.LockOSThread()

	flags := config.BindFlags(flag.CommandLine)
	settingsPath := flag.String("settings", "", "YAML settings file to open and save")
	flag.Parse()

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	// the preview is drawn into the UI's GL context
	cfg.Backend = config.BackendGL

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *settingsPath != "" {
		raw, err := settings.ReadFile(*settingsPath)
		switch {
		case err == nil:
			cfg.Generator = raw
		case os.IsNotExist(err):
			logger.Sugar.Infof("%s does not exist yet, starting from defaults", *settingsPath)
		default:
			fmt.Fprintf(os.Stderr, "Error reading settings: %v\n", err)
			os.Exit(1)
		}
	}

	st, err := NewStudio(cfg, *settingsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	st.Run()
}
