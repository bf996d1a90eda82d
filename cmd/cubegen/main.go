// cubegen renders, watches, previews and inspects procedural cube textures.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Faultbox/cubeforge/internal/config"
	"github.com/Faultbox/cubeforge/internal/logger"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "render":
		cmdRender(args)
	case "pack":
		cmdPack(args)
	case "watch":
		cmdWatch(args)
	case "view":
		cmdView(args)
	case "inspect", "info":
		cmdInspect(args)
	case "layer":
		cmdLayer(args)
	case "config":
		cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`cubegen - procedural cube texture generator

Usage:
  cubegen <command> [options]

Commands:
  render [-o out.zip] [-settings file] [-dump dir] [-uris file]
                                      Render six faces and export them
  pack <uris.txt> <out.zip>           Package face data URIs as an archive
  watch -settings file [-o out.zip]   Re-render and export on every change
  view [-settings file]               Live preview window (E export, F12 screenshot, Esc quit)
  inspect <file.zip>                  List and verify an exported archive
  layer add <file>                    Append a noise layer to a settings file
  layer remove <file> <index>         Remove a noise layer from a settings file
  config [-save] [-o file]            Print or store the effective configuration

Shared options:
  -config file   -backend soft|gl   -size N   -seed N   -format png|bmp|tiff
  -policy newest|last-completed   -width N   -height N   -debug

Examples:
  cubegen render -backend soft -size 512 -o sky.zip
  cubegen layer add noise.yaml
  cubegen watch -settings noise.yaml -o sky.zip
  cubegen inspect sky.zip`)
}

// setup parses args on fs, loads the config and starts logging.
func setup(fs *flag.FlagSet, args []string) *config.Config {
	flags := config.BindFlags(fs)
	fs.Parse(args)

	cfg, err := config.Load(flags)
	if err != nil {
		fatalf("Config error: %v", err)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fatalf("Logger error: %v", err)
	}
	logger.Sugar.Debugf("Config: %+v", cfg)
	return cfg
}

// signalContext is cancelled on interrupt.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func fatalf(format string, args ...any) {
	logger.Sync()
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
