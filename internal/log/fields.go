// SPDX-License-Identifier: MIT

package log

// Canonical field name constants for structured logging.
const (
	FieldComponent = "component"
	FieldEvent     = "event"
	FieldPath      = "path"
	FieldVariable  = "variable"
	FieldSource    = "source"
	FieldKey       = "key"
)
