package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/cubeforge/internal/app"
	"github.com/Faultbox/cubeforge/internal/logger"
	"github.com/Faultbox/cubeforge/internal/watch"
)

func cmdWatch(args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	out := fs.String("o", "", "Output archive (default from export config)")
	settingsPath := fs.String("settings", "", "YAML settings file to watch")
	cfg := setup(fs, args)
	defer logger.Sync()

	if *settingsPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: cubegen watch -settings <file> [-o out.zip]")
		os.Exit(1)
	}

	s, err := app.Open(cfg, logger.Log)
	if err != nil {
		fatalf("Error: %v", err)
	}
	defer s.Close()

	w, err := watch.New(*settingsPath, logger.Named("watch"))
	if err != nil {
		fatalf("Error: %v", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	errc := make(chan error, 1)
	go func() { errc <- w.Run(ctx) }()

	path := *out
	if path == "" {
		path = s.ExportPath()
	}
	logger.Info("watching settings", zap.String("file", w.Path()), zap.String("output", path))

	// Rendering stays on this goroutine, which owns the GL context.
	for ev := range w.Events() {
		if ev.Err != nil {
			continue
		}
		if err := s.Controller.ApplySettings(ctx, ev.Raw); err != nil {
			continue
		}
		if err := s.ExportFile(path); err != nil {
			logger.Error("export failed", zap.Error(err))
		}
	}

	if err := <-errc; err != nil {
		fatalf("Error: %v", err)
	}
}
