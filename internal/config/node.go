// SPDX-License-Identifier: MIT

package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

const strTag = "!!str"

// cloneTree returns an alias-safe deep copy of doc. Anchored nodes are copied
// once and alias pointers are remapped to the copies, so the result shares no
// nodes with the input. A cyclic node graph is rejected with
// *MalformedDocumentError instead of recursing forever.
func cloneTree(doc *yaml.Node) (*yaml.Node, error) {
	onStack := make(map[*yaml.Node]bool)
	copies := make(map[*yaml.Node]*yaml.Node)
	return cloneNode(doc, "", onStack, copies)
}

func cloneNode(n *yaml.Node, path string, onStack map[*yaml.Node]bool, copies map[*yaml.Node]*yaml.Node) (*yaml.Node, error) {
	if n == nil {
		return nil, &MalformedDocumentError{Path: path, Reason: "nil node"}
	}
	if onStack[n] {
		return nil, &MalformedDocumentError{Path: path, Reason: "cycle detected"}
	}
	onStack[n] = true
	defer delete(onStack, n)

	out := *n
	copies[n] = &out

	// Anchors precede their aliases in document order, so the target has
	// already been copied by the time the alias node is reached.
	if n.Alias != nil {
		if target, ok := copies[n.Alias]; ok {
			out.Alias = target
		}
	}

	if len(n.Content) > 0 {
		out.Content = make([]*yaml.Node, len(n.Content))
		for i, child := range n.Content {
			c, err := cloneNode(child, childPath(n, path, i), onStack, copies)
			if err != nil {
				return nil, err
			}
			out.Content[i] = c
		}
	}
	return &out, nil
}

// childPath derives the key path of the i-th content entry of n.
func childPath(n *yaml.Node, path string, i int) string {
	switch n.Kind {
	case yaml.MappingNode:
		if i%2 == 1 {
			return joinPath(path, n.Content[i-1].Value)
		}
		return path
	case yaml.SequenceNode:
		return indexPath(path, i)
	default:
		return path
	}
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func indexPath(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}
