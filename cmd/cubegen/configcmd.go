package main

import (
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// cmdConfig prints the effective configuration, or stores it so later runs
// pick it up without flags.
func cmdConfig(args []string) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	save := fs.Bool("save", false, "Write the effective config to the user config directory")
	out := fs.String("o", "", "Write the effective config to this file instead")
	cfg := setup(fs, args)

	switch {
	case *out != "":
		if err := cfg.SaveTo(*out); err != nil {
			fatalf("Error: %v", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", *out)
	case *save:
		path, err := cfg.Save()
		if err != nil {
			fatalf("Error: %v", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", path)
	default:
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fatalf("Error: %v", err)
		}
		os.Stdout.Write(data)
	}
}
