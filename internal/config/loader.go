// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ManuGH/envconf/internal/log"
	"github.com/google/renameio/v2"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Loader loads a YAML configuration document, substitutes environment
// variables and returns an immutable Config handle.
type Loader struct {
	configPath  string
	examplePath string
	version     string
	env         *Environment
	logger      zerolog.Logger
}

// NewLoader creates a new configuration loader.
func NewLoader(configPath, version string) *Loader {
	return &Loader{
		configPath: configPath,
		version:    version,
		logger:     log.WithComponent("config"),
	}
}

// WithExample sets an example file that seeds the config file when it does
// not exist yet.
func (l *Loader) WithExample(path string) *Loader {
	l.examplePath = path
	return l
}

// WithEnvironment pins the environment snapshot used for resolution. Without
// it, Load snapshots the process environment on every call.
func (l *Loader) WithEnvironment(env Environment) *Loader {
	l.env = &env
	return l
}

// Load reads the config file, resolves ${VAR_NAME} tokens against the
// environment and returns the resolved configuration. Missing variables are
// non-fatal: their tokens stay in place and each emits one warning.
func (l *Loader) Load() (*Config, error) {
	doc, err := l.LoadRaw()
	if err != nil {
		return nil, err
	}

	env := l.environment()
	resolved, err := NewResolver(env).WithLogger(l.logger).Resolve(doc)
	if err != nil {
		return nil, fmt.Errorf("resolve config: %w", err)
	}

	return &Config{doc: resolved, path: l.configPath, version: l.version}, nil
}

// LoadRaw parses the config file without substitution. Used by reporting
// tooling that needs to see the original tokens.
func (l *Loader) LoadRaw() (*yaml.Node, error) {
	if err := l.bootstrap(); err != nil {
		return nil, fmt.Errorf("bootstrap config file: %w", err)
	}
	doc, err := l.loadFile(l.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config file: %w", err)
	}
	return doc, nil
}

func (l *Loader) environment() Environment {
	if l.env != nil {
		return *l.env
	}
	return SnapshotEnviron()
}

// bootstrap seeds the config file from the example file on first run.
func (l *Loader) bootstrap() error {
	if l.examplePath == "" {
		return nil
	}
	if _, err := os.Stat(l.configPath); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	// #nosec G304 -- example file paths are provided by the operator
	data, err := os.ReadFile(l.examplePath)
	if err != nil {
		return fmt.Errorf("read example file: %w", err)
	}
	if err := renameio.WriteFile(l.configPath, data, 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	l.logger.Info().
		Str(log.FieldPath, l.configPath).
		Str(log.FieldSource, l.examplePath).
		Msg("config file created from example")
	return nil
}

// loadFile parses a single-document YAML file into a node tree. The node
// representation preserves key order and scalar styles for round-trip saves.
func (l *Loader) loadFile(path string) (*yaml.Node, error) {
	path = filepath.Clean(path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("unsupported config format: %s (only YAML supported)", ext)
	}

	// #nosec G304 -- configuration file paths are provided by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))

	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return &yaml.Node{Kind: yaml.DocumentNode}, nil
		}
		return nil, fmt.Errorf("parse error: %w", err)
	}

	// Strict: ensure no multiple documents or trailing content
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("config file contains multiple documents or trailing content")
	}

	return &doc, nil
}
