// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"fmt"

	"github.com/google/renameio/v2"
	"gopkg.in/yaml.v3"
)

// Config is the resolved configuration handle. It is constructed once by the
// Loader and treated as immutable afterwards: accessors hand out copies, not
// internal state. Pass it to whoever needs it instead of holding a package
// level singleton.
type Config struct {
	doc     *yaml.Node
	path    string
	version string
}

// Path returns the file the configuration was loaded from.
func (c *Config) Path() string {
	return c.path
}

// Version returns the application version the loader was created with.
func (c *Config) Version() string {
	return c.version
}

// Decode unmarshals the resolved document into out.
func (c *Config) Decode(out any) error {
	if c.doc == nil || len(c.doc.Content) == 0 {
		return nil
	}
	return c.doc.Decode(out)
}

// Lookup returns the string scalar at the given mapping path, e.g.
// Lookup("llm", "DeepSeek", "api_key"). The second return is false when the
// path does not exist or does not end in a scalar.
func (c *Config) Lookup(path ...string) (string, bool) {
	n := c.root()
	for _, key := range path {
		n = mappingValue(n, key)
		if n == nil {
			return "", false
		}
	}
	if n == nil || n.Kind != yaml.ScalarNode {
		return "", false
	}
	return n.Value, true
}

// IsConfigured reports whether the scalar at path holds a usable value: it
// exists, is non-empty and is not a leftover ${VAR_NAME} placeholder.
func (c *Config) IsConfigured(path ...string) bool {
	v, ok := c.Lookup(path...)
	return ok && v != "" && !HasPlaceholder(v)
}

// Unresolved returns the ${VAR_NAME} tokens still present in the resolved
// document, i.e. the variables that were not set at load time.
func (c *Config) Unresolved() []VariableRef {
	if c.doc == nil {
		return nil
	}
	return ScanVariables(c.doc)
}

// Document returns a deep copy of the resolved document. Callers may modify
// the copy freely without affecting the shared configuration.
func (c *Config) Document() *yaml.Node {
	if c.doc == nil {
		return nil
	}
	// The held document is acyclic by construction, cloning cannot fail.
	clone, _ := cloneTree(c.doc)
	return clone
}

// Save writes the document to path atomically.
func (c *Config) Save(path string) error {
	var data []byte
	if c.doc != nil && len(c.doc.Content) > 0 {
		out, err := yaml.Marshal(c.doc)
		if err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
		data = out
	}
	if err := renameio.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c *Config) root() *yaml.Node {
	if c.doc == nil {
		return nil
	}
	if c.doc.Kind == yaml.DocumentNode {
		if len(c.doc.Content) == 0 {
			return nil
		}
		return c.doc.Content[0]
	}
	return c.doc
}

// mappingValue returns the value node for key within mapping node n,
// following alias indirection.
func mappingValue(n *yaml.Node, key string) *yaml.Node {
	n = deref(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return deref(n.Content[i+1])
		}
	}
	return nil
}

func deref(n *yaml.Node) *yaml.Node {
	if n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		return n.Alias
	}
	return n
}
