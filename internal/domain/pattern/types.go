// Package pattern defines the rule registry and the occurrence/aggregation
// model for code pattern extraction. All types are pure Go with no external
// dependencies beyond the YAML rule loader.
package pattern

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
)

// Category classifies what kind of code pattern a rule detects.
// The set is closed: rules referencing an unknown category fail to load.
type Category int

const (
	CategoryPerformance Category = iota
	CategoryTypeSafety
	CategoryArchitecture
	CategoryErrorHandling
	CategoryAsyncPatterns
	CategoryFrameworkPatterns
	CategoryFileOperations
	CategoryCodeQuality
)

// CategoryCount is the number of defined categories.
const CategoryCount = 8

// CategoryName returns the string label for a category constant.
func CategoryName(c Category) string {
	switch c {
	case CategoryPerformance:
		return "performance"
	case CategoryTypeSafety:
		return "type-safety"
	case CategoryArchitecture:
		return "architecture"
	case CategoryErrorHandling:
		return "error-handling"
	case CategoryAsyncPatterns:
		return "async-patterns"
	case CategoryFrameworkPatterns:
		return "framework-patterns"
	case CategoryFileOperations:
		return "file-operations"
	case CategoryCodeQuality:
		return "code-quality"
	default:
		return "unknown"
	}
}

// CategoryFromName maps a string category name to its Category constant.
// Returns -1 for unknown names.
func CategoryFromName(name string) Category {
	switch name {
	case "performance":
		return CategoryPerformance
	case "type-safety":
		return CategoryTypeSafety
	case "architecture":
		return CategoryArchitecture
	case "error-handling":
		return CategoryErrorHandling
	case "async-patterns":
		return CategoryAsyncPatterns
	case "framework-patterns":
		return CategoryFrameworkPatterns
	case "file-operations":
		return CategoryFileOperations
	case "code-quality":
		return CategoryCodeQuality
	default:
		return -1
	}
}

// Severity is a fixed per-rule confidence tier. Every occurrence of a rule
// carries the rule's severity score as its confidence.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

// Score returns the numeric confidence value for a severity tier.
func (s Severity) Score() float64 {
	switch s {
	case SeverityLow:
		return 0.3
	case SeverityMedium:
		return 0.6
	case SeverityHigh:
		return 0.9
	case SeverityCritical:
		return 1.0
	default:
		return 0
	}
}

// SeverityName returns the string label for a severity constant.
func SeverityName(s Severity) string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// SeverityFromName maps a string severity name to its Severity constant.
// Returns -1 for unknown names.
func SeverityFromName(name string) Severity {
	switch name {
	case "low":
		return SeverityLow
	case "medium":
		return SeverityMedium
	case "high":
		return SeverityHigh
	case "critical":
		return SeverityCritical
	default:
		return -1
	}
}

// SeverityFromScore maps a confidence score back onto the tier whose
// threshold it clears. Reports recompute tiers from scores rather than
// trusting the originating rule, so a rule with an arbitrary score still
// lands in a well-defined bucket.
func SeverityFromScore(score float64) Severity {
	switch {
	case score >= 1.0:
		return SeverityCritical
	case score >= 0.9:
		return SeverityHigh
	case score >= 0.6:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// Rule is an immutable pattern-matching definition. Rules are loaded once at
// startup and never mutated; the compiled regex is safe for concurrent use.
type Rule struct {
	ID          string
	Pattern     *regexp.Regexp // compiled with (?ms): matches span lines, . crosses newlines
	Category    Category
	Subcategory string
	Description string
	Severity    Severity
	Tags        []string
}

// Occurrence is one concrete match of a rule at a specific file location.
type Occurrence struct {
	RuleID        string         `json:"rule_id"`
	MatchedText   string         `json:"matched_text"`
	Description   string         `json:"description"`
	Category      Category       `json:"-"`
	Subcategory   string         `json:"subcategory,omitempty"`
	FilePath      string         `json:"file_path"`
	LineStart     int            `json:"line_start"`
	LineEnd       int            `json:"line_end"`
	Language      string         `json:"language"`
	Framework     string         `json:"framework,omitempty"` // empty = no framework detected
	Confidence    float64        `json:"confidence_score"`
	ContextBefore string         `json:"context_before"`
	ContextAfter  string         `json:"context_after"`
	Tags          []string       `json:"tags"`
	Metadata      map[string]any `json:"metadata"`
}

// Hash returns the deterministic identity digest of an occurrence.
// Two occurrences hash equal iff rule ID, matched text, and category are
// equal; file and line positions are deliberately excluded so the same
// pattern sighted in several places collapses to one aggregate.
func (o *Occurrence) Hash() string {
	h := sha256.New()
	h.Write([]byte(o.RuleID))
	h.Write([]byte{':'})
	h.Write([]byte(o.MatchedText))
	h.Write([]byte{':'})
	h.Write([]byte(CategoryName(o.Category)))
	return hex.EncodeToString(h.Sum(nil))
}

// Aggregated is one hash-group of occurrences: the first-seen occurrence as
// representative, the total sighting count, and the distinct files involved.
type Aggregated struct {
	Representative Occurrence `json:"pattern"`
	Hash           string     `json:"pattern_hash"`
	UsageCount     int        `json:"usage_count"`
	Files          []string   `json:"files"`
}
