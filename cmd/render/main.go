// SPDX-License-Identifier: MIT

// render prints the resolved configuration document to stdout, exactly as the
// application will see it. Secrets are masked unless --reveal is given, so
// the output is safe to paste into bug reports.
//
// Usage:
//
//	render -f config.yml
//	render -f config.yml --reveal
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ManuGH/envconf/internal/config"
	"gopkg.in/yaml.v3"
)

var Version = "dev"

func main() {
	var file string
	var reveal bool
	var showVersion bool

	flag.StringVar(&file, "file", "", "path to YAML configuration file")
	flag.StringVar(&file, "f", "", "path to YAML configuration file (shorthand)")
	flag.BoolVar(&reveal, "reveal", false, "print secret values instead of masking them")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Println(Version)
		os.Exit(0)
	}

	if file == "" {
		fmt.Fprintln(os.Stderr, "Error: --file is required")
		os.Exit(2)
	}

	cfg, err := config.NewLoader(file, Version).Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error in %s:\n", file)
		fmt.Fprintf(os.Stderr, "  %v\n", err)
		os.Exit(1)
	}

	doc := cfg.Document()
	if doc == nil {
		return
	}
	if !reveal {
		doc = config.MaskDocument(doc)
	}

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		fmt.Fprintf(os.Stderr, "Encode error: %v\n", err)
		os.Exit(1)
	}
	_ = enc.Close()
}
