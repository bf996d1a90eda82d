package main

import (
	"flag"

	"github.com/Faultbox/cubeforge/internal/app"
	"github.com/Faultbox/cubeforge/internal/config"
	"github.com/Faultbox/cubeforge/internal/logger"
	"github.com/Faultbox/cubeforge/internal/watch"
	"github.com/Faultbox/cubeforge/pkg/settings"
)

func cmdView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	settingsPath := fs.String("settings", "", "YAML settings file to watch")
	cfg := setup(fs, args)
	defer logger.Sync()

	cfg.Backend = config.BackendGL
	if *settingsPath != "" {
		if raw, err := settings.ReadFile(*settingsPath); err == nil {
			cfg.Generator = raw
		}
	}

	v, err := app.NewViewer(cfg, logger.Log)
	if err != nil {
		fatalf("Error: %v", err)
	}
	defer v.Close()

	ctx, cancel := signalContext()
	defer cancel()

	if *settingsPath != "" {
		w, err := watch.New(*settingsPath, logger.Named("watch"))
		if err != nil {
			fatalf("Error: %v", err)
		}
		go w.Run(ctx)
		v.Watch(w.Events())
	}

	if err := v.Run(ctx); err != nil {
		logger.Sugar.Errorf("viewer: %v", err)
	}
	// stop the watcher before the window goes away
	cancel()
}
