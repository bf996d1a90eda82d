package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Faultbox/cubeforge/pkg/facepack"
)

func cmdInspect(args []string) {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	verbose := fs.Bool("v", false, "Show per-entry sizes")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: cubegen inspect [-v] <file.zip>")
		os.Exit(1)
	}
	path := fs.Arg(0)

	archive, err := facepack.Open(path)
	if err != nil {
		fatalf("Error: %v", err)
	}
	defer archive.Close()

	entries := archive.List()
	fmt.Printf("Archive: %s\n", path)
	fmt.Printf("Entries: %d\n", len(entries))
	if format, err := archive.Format(); err == nil {
		fmt.Printf("Format:  %s\n", format)
	}

	if *verbose {
		fmt.Println()
		for _, name := range entries {
			data, err := archive.Read(name)
			if err != nil {
				fmt.Printf("  %-8s error: %v\n", name, err)
				continue
			}
			fmt.Printf("  %-8s %10d bytes\n", name, len(data))
		}
		fmt.Println()
	}

	size, err := archive.Verify()
	if err != nil {
		archive.Close()
		fatalf("Invalid: %v", err)
	}
	fmt.Printf("Faces:   6 x %dx%d\n", size, size)
	fmt.Println("OK")
}
