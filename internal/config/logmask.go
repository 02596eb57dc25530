// SPDX-License-Identifier: MIT

package config

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// sensitiveKeywords contains keywords that indicate sensitive fields.
// Any key name containing these keywords (case-insensitive) will be masked.
var sensitiveKeywords = []string{
	"password",
	"passwd",
	"secret",
	"token",
	"apikey",
	"api_key",
	"credential",
	"access_key",
	"speech_key",
}

// isSensitiveKey checks if a key name contains any sensitive keyword.
func isSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)
	for _, keyword := range sensitiveKeywords {
		if strings.Contains(lowerKey, keyword) {
			return true
		}
	}
	return false
}

// MaskValue masks a credential for display: values longer than eight
// characters keep their first and last four characters, shorter values are
// fully starred.
func MaskValue(s string) string {
	if s == "" {
		return ""
	}
	if len(s) > 8 {
		return s[:4] + strings.Repeat("*", len(s)-8) + s[len(s)-4:]
	}
	return strings.Repeat("*", len(s))
}

// MaskDocument returns a deep copy of doc with scalar values under sensitive
// keys replaced by "***". Unresolved ${VAR_NAME} placeholders are left
// visible: they are not credentials and hide the actual misconfiguration
// when masked.
func MaskDocument(doc *yaml.Node) *yaml.Node {
	if doc == nil {
		return nil
	}
	clone, err := cloneTree(doc)
	if err != nil {
		return nil
	}
	maskNode(clone, false)
	return clone
}

func maskNode(n *yaml.Node, sensitive bool) {
	switch n.Kind {
	case yaml.DocumentNode, yaml.SequenceNode:
		for _, child := range n.Content {
			maskNode(child, sensitive)
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			maskNode(n.Content[i+1], sensitive || isSensitiveKey(n.Content[i].Value))
		}
	case yaml.ScalarNode:
		if sensitive && n.Tag == strTag && n.Value != "" && !HasPlaceholder(n.Value) {
			n.Value = "***"
		}
	}
}
