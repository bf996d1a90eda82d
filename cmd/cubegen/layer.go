package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/Faultbox/cubeforge/pkg/settings"
)

func cmdLayer(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: cubegen layer add <file> | cubegen layer remove <file> <index>")
		os.Exit(1)
	}
	action, path := args[0], args[1]

	raw, err := settings.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		raw = settings.Default().Raw()
		raw.Layers = nil
	case err != nil:
		fatalf("Error: %v", err)
	}

	switch action {
	case "add":
		if len(raw.Layers) >= settings.MaxLayers {
			fatalf("Error: already %d layers", settings.MaxLayers)
		}
		raw.Layers = settings.AddLayer(raw.Layers)
	case "remove", "rm":
		if len(args) < 3 {
			fatalf("Usage: cubegen layer remove <file> <index>")
		}
		i, err := strconv.Atoi(args[2])
		if err != nil || i < 0 || i >= len(raw.Layers) {
			fatalf("Error: layer index %q out of range (0-%d)", args[2], len(raw.Layers)-1)
		}
		raw.Layers = settings.RemoveLayer(raw.Layers, i)
	default:
		fatalf("Unknown layer action: %s", action)
	}

	if _, err := settings.Validate(raw); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	if err := settings.WriteFile(path, raw); err != nil {
		fatalf("Error: %v", err)
	}

	for i, l := range raw.Layers {
		fmt.Printf("  %2d  frequency %-8g amplitude %g\n", i, l.Frequency, l.Amplitude)
	}
}
