package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/cubeforge/internal/app"
	"github.com/Faultbox/cubeforge/internal/engine/debug"
	"github.com/Faultbox/cubeforge/internal/logger"
	"github.com/Faultbox/cubeforge/pkg/cubemap"
	"github.com/Faultbox/cubeforge/pkg/facepack"
	"github.com/Faultbox/cubeforge/pkg/settings"
)

func cmdRender(args []string) {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	out := fs.String("o", "", "Output archive (default from export config, - for stdout)")
	settingsPath := fs.String("settings", "", "YAML settings file (default: generator config)")
	dumpDir := fs.String("dump", "", "Also write each face as PNG into this directory")
	urisPath := fs.String("uris", "", "Also write the faces as data URIs, one per line")
	cfg := setup(fs, args)
	defer logger.Sync()

	if *settingsPath != "" {
		raw, err := settings.ReadFile(*settingsPath)
		if err != nil {
			fatalf("Error: %v", err)
		}
		cfg.Generator = raw
	}

	s, err := app.Open(cfg, logger.Log)
	if err != nil {
		fatalf("Error: %v", err)
	}
	defer s.Close()

	ctx, cancel := signalContext()
	defer cancel()

	if err := s.Start(ctx); err != nil {
		fatalf("Error: %v", err)
	}

	if err := writeArchive(s, *out); err != nil {
		fatalf("Error: %v", err)
	}

	if *dumpDir != "" {
		names, err := debug.NewScreenshotCapture(*dumpDir, "face").DumpFaces(s.Controller.Faces())
		if err != nil {
			fatalf("Error: %v", err)
		}
		for _, name := range names {
			logger.Info("face written", zap.String("path", name))
		}
	}

	if *urisPath != "" {
		if err := writeURIs(s.Controller.Faces(), s.Controller.Format(), *urisPath); err != nil {
			fatalf("Error: %v", err)
		}
	}
}

// writeArchive exports to path, stdout for "-", or the configured location.
func writeArchive(s *app.Session, path string) error {
	switch path {
	case "-":
		return s.Controller.Export(os.Stdout)
	case "":
		path = s.ExportPath()
	}
	if err := s.ExportFile(path); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Wrote %s (%dx%d faces, %s)\n", path,
		s.Controller.Faces().Size(), s.Controller.Faces().Size(), s.Controller.Format())
	return nil
}

// writeURIs writes "<face> <data uri>" lines in face order.
func writeURIs(faces *cubemap.FaceSet, format facepack.Format, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	for _, face := range cubemap.Faces() {
		uri, err := facepack.EncodeDataURI(faces.Face(face), format)
		if err != nil {
			f.Close()
			return fmt.Errorf("face %s: %w", face, err)
		}
		fmt.Fprintf(w, "%s %s\n", face.Name(), uri)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// readURIs parses the output of writeURIs. Every face must appear once.
func readURIs(path string) ([cubemap.FaceCount]string, error) {
	var uris [cubemap.FaceCount]string

	f, err := os.Open(path)
	if err != nil {
		return uris, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 1<<20), 1<<30)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		name, uri, ok := strings.Cut(text, " ")
		if !ok {
			return uris, fmt.Errorf("line %d: expected \"<face> <uri>\"", line)
		}
		face, ok := cubemap.FaceByName(name)
		if !ok {
			return uris, fmt.Errorf("line %d: unknown face %q", line, name)
		}
		if uris[face] != "" {
			return uris, fmt.Errorf("line %d: face %s given twice", line, name)
		}
		uris[face] = strings.TrimSpace(uri)
	}
	if err := sc.Err(); err != nil {
		return uris, err
	}
	for _, face := range cubemap.Faces() {
		if uris[face] == "" {
			return uris, fmt.Errorf("face %s missing", face)
		}
	}
	return uris, nil
}

func cmdPack(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: cubegen pack <uris.txt> <out.zip>")
		os.Exit(1)
	}
	uris, err := readURIs(args[0])
	if err != nil {
		fatalf("Error: %v", err)
	}
	if err := packURIs(uris, args[1]); err != nil {
		fatalf("Error: %v", err)
	}
	fmt.Printf("Wrote %s\n", args[1])
}

func packURIs(uris [cubemap.FaceCount]string, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := facepack.WriteDataURIs(f, uris); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
