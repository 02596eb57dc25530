// SPDX-License-Identifier: MIT

// validate is a CLI tool to validate YAML configuration files and report the
// status of every environment variable they reference.
//
// Usage:
//
//	validate -f config.yml
//	validate -f config.yml --required DEEPSEEK_API_KEY,ALI_ACCESS_KEY_ID
//	validate -f config.yml --strict
//
// Exit codes:
//   - 0: Configuration is valid and all required variables are set
//   - 1: Configuration is invalid or required variables are missing
//   - 2: Usage error (missing required flag)
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/ManuGH/envconf/internal/config"
)

var Version = "dev"

func main() {
	var file string
	var example string
	var requiredCSV string
	var strict bool
	var showVersion bool

	flag.StringVar(&file, "file", "", "path to YAML configuration file")
	flag.StringVar(&file, "f", "", "path to YAML configuration file (shorthand)")
	flag.StringVar(&example, "example", "", "example file used to seed a missing config file")
	flag.StringVar(&requiredCSV, "required", "", "comma-separated variables that must be set")
	flag.BoolVar(&strict, "strict", false, "fail when any referenced variable is unset")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Println(Version)
		os.Exit(0)
	}

	if file == "" {
		fmt.Fprintln(os.Stderr, "Error: --file is required")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  validate -f config.yml")
		fmt.Fprintln(os.Stderr, "  validate --file config.yml --required DEEPSEEK_API_KEY")
		os.Exit(2)
	}

	var required []string
	for _, name := range strings.Split(requiredCSV, ",") {
		if name = strings.TrimSpace(name); name != "" {
			required = append(required, name)
		}
	}

	loader := config.NewLoader(file, Version)
	if example != "" {
		loader = loader.WithExample(example)
	}

	raw, err := loader.LoadRaw()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error in %s:\n", file)
		fmt.Fprintf(os.Stderr, "  %v\n", err)
		os.Exit(1)
	}

	env := config.SnapshotEnviron()
	report := config.BuildReport(raw, env, required)
	printReport(file, report)

	// Full resolve catches malformed documents the scan does not.
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error in %s:\n", file)
		fmt.Fprintf(os.Stderr, "  %v\n", err)
		os.Exit(1)
	}

	if missing := report.MissingRequired(); len(missing) > 0 {
		fmt.Fprintf(os.Stderr, "Missing required variables: %s\n", strings.Join(missing, ", "))
		os.Exit(1)
	}
	if strict && len(cfg.Unresolved()) > 0 {
		fmt.Fprintln(os.Stderr, "Unresolved variables remain (strict mode)")
		os.Exit(1)
	}

	fmt.Printf("✓ %s is valid\n", file)
}

func printReport(file string, report config.Report) {
	fmt.Printf("Variables referenced by %s:\n", file)
	for _, v := range report.Variables {
		status := "❌"
		detail := "not set"
		if v.Set {
			status = "✅"
			detail = v.Masked
		}
		kind := ""
		if v.Required {
			kind = "  (required)"
		}
		fmt.Printf("  %s %s: %s%s\n", status, v.Name, detail, kind)
		for _, path := range v.Paths {
			fmt.Printf("       %s\n", path)
		}
	}

	reqSet, reqTotal, optSet, optTotal := report.Summary()
	fmt.Printf("Summary: required %d/%d set, optional %d/%d set\n", reqSet, reqTotal, optSet, optTotal)
}
