// SPDX-License-Identifier: MIT

package config

import "gopkg.in/yaml.v3"

// VariableRef locates one ${VAR_NAME} token occurrence in a document.
type VariableRef struct {
	Name string
	Path string
}

// ScanVariables returns every ${VAR_NAME} token in the document with the key
// path it occurs at, in document order. The set of recognized variable names
// is defined entirely by the document; there is no hard-coded list.
func ScanVariables(doc *yaml.Node) []VariableRef {
	var refs []VariableRef
	scanNode(doc, "", &refs)
	return refs
}

func scanNode(n *yaml.Node, path string, refs *[]VariableRef) {
	if n == nil {
		return
	}
	switch n.Kind {
	case yaml.DocumentNode:
		for _, child := range n.Content {
			scanNode(child, path, refs)
		}
	case yaml.SequenceNode:
		for i, child := range n.Content {
			scanNode(child, indexPath(path, i), refs)
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			scanNode(n.Content[i+1], joinPath(path, n.Content[i].Value), refs)
		}
	case yaml.ScalarNode:
		for _, name := range Placeholders(n.Value) {
			*refs = append(*refs, VariableRef{Name: name, Path: path})
		}
	}
}

// VariableStatus describes one environment variable referenced by a document.
type VariableStatus struct {
	Name     string
	Required bool
	Set      bool
	Masked   string   // masked value, only populated when set
	Paths    []string // key paths referencing the variable
}

// Report is the per-variable view of a document against an environment
// snapshot, as shown by the validate command.
type Report struct {
	Variables []VariableStatus
}

// BuildReport scans doc for variable references, checks each against env and
// marks the names listed in required. Required names that do not occur in the
// document are still included so operators see them in the output.
func BuildReport(doc *yaml.Node, env Environment, required []string) Report {
	requiredSet := make(map[string]bool, len(required))
	for _, name := range required {
		requiredSet[name] = true
	}

	index := make(map[string]int)
	var vars []VariableStatus
	add := func(name string) int {
		if i, ok := index[name]; ok {
			return i
		}
		index[name] = len(vars)
		vars = append(vars, VariableStatus{Name: name, Required: requiredSet[name]})
		return len(vars) - 1
	}

	for _, ref := range ScanVariables(doc) {
		i := add(ref.Name)
		vars[i].Paths = append(vars[i].Paths, ref.Path)
	}
	for _, name := range required {
		add(name)
	}

	for i := range vars {
		if v, ok := env.Lookup(vars[i].Name); ok && v != "" {
			vars[i].Set = true
			vars[i].Masked = MaskValue(v)
		}
	}

	return Report{Variables: vars}
}

// MissingRequired returns the required variables that are not set.
func (r Report) MissingRequired() []string {
	var missing []string
	for _, v := range r.Variables {
		if v.Required && !v.Set {
			missing = append(missing, v.Name)
		}
	}
	return missing
}

// Summary returns set/total counts for required and optional variables.
func (r Report) Summary() (requiredSet, requiredTotal, optionalSet, optionalTotal int) {
	for _, v := range r.Variables {
		if v.Required {
			requiredTotal++
			if v.Set {
				requiredSet++
			}
		} else {
			optionalTotal++
			if v.Set {
				optionalSet++
			}
		}
	}
	return requiredSet, requiredTotal, optionalSet, optionalTotal
}
