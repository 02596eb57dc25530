// SPDX-License-Identifier: MIT

package config

import "fmt"

// MalformedDocumentError reports a document that is not a tree of supported
// node kinds, e.g. a cyclic structure that would make traversal non-terminating.
// It is fatal to the resolve call and propagated to the caller.
type MalformedDocumentError struct {
	Path   string
	Reason string
}

func (e *MalformedDocumentError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("malformed config document: %s", e.Reason)
	}
	return fmt.Sprintf("malformed config document at %q: %s", e.Path, e.Reason)
}
