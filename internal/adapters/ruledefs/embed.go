// Package ruledefs embeds the YAML rule definitions for pattern extraction.
// This is a standalone package with no imports to avoid circular dependencies.
package ruledefs

import "embed"

//go:embed rules/*.yaml
var FS embed.FS

// Dir is the directory inside FS holding the rule files.
const Dir = "rules"
