// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"os"
	"strings"
)

// Environment is a read-only snapshot of named variables taken at resolution
// time. It is safe for concurrent use; resolution never writes back to the
// process environment.
type Environment struct {
	values map[string]string
}

// SnapshotEnviron captures the current process environment.
func SnapshotEnviron() Environment {
	environ := os.Environ()
	values := make(map[string]string, len(environ))
	for _, pair := range environ {
		if k, v, ok := strings.Cut(pair, "="); ok {
			values[k] = v
		}
	}
	return Environment{values: values}
}

// EnvironmentFromMap builds an Environment from an explicit variable map.
// The input is copied, so later mutation of m does not leak into the snapshot.
func EnvironmentFromMap(m map[string]string) Environment {
	values := make(map[string]string, len(m))
	for k, v := range m {
		values[k] = v
	}
	return Environment{values: values}
}

// Lookup returns the value of the named variable and whether it is set.
func (e Environment) Lookup(name string) (string, bool) {
	v, ok := e.values[name]
	return v, ok
}

// Len returns the number of variables in the snapshot.
func (e Environment) Len() int {
	return len(e.values)
}
