// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"fmt"
	"reflect"
	"time"

	"github.com/ManuGH/envconf/internal/log"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Resolver substitutes ${VAR_NAME} tokens in configuration documents with
// values from an Environment snapshot. Tokens without an environment value are
// kept literally and reported as a warning; a substituted value is never
// re-scanned for further tokens.
//
// A Resolver carries no per-call state, so concurrent Resolve calls on
// independent documents are safe.
type Resolver struct {
	env    Environment
	logger zerolog.Logger
}

// NewResolver creates a resolver over the given environment snapshot.
func NewResolver(env Environment) *Resolver {
	return &Resolver{env: env, logger: log.WithComponent("config")}
}

// WithLogger returns a copy of the resolver emitting diagnostics to logger.
func (r *Resolver) WithLogger(logger zerolog.Logger) *Resolver {
	return &Resolver{env: r.env, logger: logger}
}

// Resolve returns a resolved deep copy of doc. The input document is never
// modified, which keeps re-resolution and testing against alternate
// environments safe. A cyclic document yields *MalformedDocumentError.
func (r *Resolver) Resolve(doc *yaml.Node) (*yaml.Node, error) {
	out, err := cloneTree(doc)
	if err != nil {
		return nil, err
	}
	r.substitute(out, "")
	return out, nil
}

// substitute walks the cloned tree depth-first and rewrites string scalars in
// place. Mapping keys are passed through untouched.
func (r *Resolver) substitute(n *yaml.Node, path string) {
	switch n.Kind {
	case yaml.DocumentNode:
		for _, child := range n.Content {
			r.substitute(child, path)
		}
	case yaml.SequenceNode:
		for i, child := range n.Content {
			r.substitute(child, indexPath(path, i))
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			r.substitute(n.Content[i+1], joinPath(path, n.Content[i].Value))
		}
	case yaml.ScalarNode:
		if n.Tag != strTag || !HasPlaceholder(n.Value) {
			return
		}
		whole := IsPlaceholder(n.Value)
		resolved := r.expand(n.Value, path)
		if resolved == n.Value {
			return
		}
		n.Value = resolved
		if whole {
			// A full-token scalar resolves to a string, never re-parsed
			// as number or boolean. Quoting keeps that true on round-trip.
			n.Style = yaml.DoubleQuotedStyle
		}
	}
}

// expand replaces all tokens in s left to right in a single pass. Unset
// variables keep their literal token text and emit one warning each.
func (r *Resolver) expand(s, path string) string {
	return tokenPattern.ReplaceAllStringFunc(s, func(tok string) string {
		name := tok[2 : len(tok)-1]
		if v, ok := r.env.Lookup(name); ok {
			return v
		}
		evt := r.logger.Warn().Str(log.FieldVariable, name)
		if path != "" {
			evt = evt.Str(log.FieldPath, path)
		}
		evt.Msg("environment variable not set, keeping placeholder")
		return tok
	})
}

// ResolveValue applies the same substitution to an already decoded value tree
// as produced by yaml.Unmarshal into any: nested map[string]any, []any and
// scalar leaves. The input is not modified.
func (r *Resolver) ResolveValue(v any) (any, error) {
	return r.resolveValue(v, "", make(map[uintptr]struct{}))
}

func (r *Resolver) resolveValue(v any, path string, onStack map[uintptr]struct{}) (any, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		return r.expand(val, path), nil
	case bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, time.Time:
		return val, nil
	case map[string]any:
		if len(val) == 0 {
			return val, nil
		}
		ptr := reflect.ValueOf(val).Pointer()
		if _, ok := onStack[ptr]; ok {
			return nil, &MalformedDocumentError{Path: path, Reason: "cycle detected"}
		}
		onStack[ptr] = struct{}{}
		defer delete(onStack, ptr)

		out := make(map[string]any, len(val))
		for k, child := range val {
			res, err := r.resolveValue(child, joinPath(path, k), onStack)
			if err != nil {
				return nil, err
			}
			out[k] = res
		}
		return out, nil
	case []any:
		if len(val) == 0 {
			return val, nil
		}
		ptr := reflect.ValueOf(val).Pointer()
		if _, ok := onStack[ptr]; ok {
			return nil, &MalformedDocumentError{Path: path, Reason: "cycle detected"}
		}
		onStack[ptr] = struct{}{}
		defer delete(onStack, ptr)

		out := make([]any, len(val))
		for i, child := range val {
			res, err := r.resolveValue(child, indexPath(path, i), onStack)
			if err != nil {
				return nil, err
			}
			out[i] = res
		}
		return out, nil
	default:
		return nil, &MalformedDocumentError{Path: path, Reason: fmt.Sprintf("unsupported node type %T", v)}
	}
}
