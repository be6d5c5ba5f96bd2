// Package classify derives a language tag and an optional framework tag for
// a source file. Language comes purely from the file extension; framework
// comes from content heuristics evaluated in strict priority order.
package classify

import (
	"path/filepath"
	"regexp"
	"strings"
)

// LanguageUnknown is returned for extensions outside the lookup table.
const LanguageUnknown = "unknown"

// languageByExt maps file extensions to language tags.
var languageByExt = map[string]string{
	".ts":  "typescript",
	".tsx": "typescript",
	".js":  "javascript",
	".jsx": "javascript",
}

// Language returns the language tag for a file path. Unknown extensions map
// to LanguageUnknown; this never fails.
func Language(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if lang, ok := languageByExt[ext]; ok {
		return lang
	}
	return LanguageUnknown
}

// frameworkHeuristic pairs a predicate with the framework it indicates.
// The list is evaluated in order and the first match wins, which makes the
// priority contract explicit: UI framework imports beat server frameworks,
// which beat the generic module-system indicator.
type frameworkHeuristic struct {
	name  string
	match func(path, content string) bool
}

var (
	reReactImport   = regexp.MustCompile(`(?i)import.*react|from\s+["']react["']`)
	reVueImport     = regexp.MustCompile(`(?i)import.*vue|from\s+["']vue["']`)
	reAngularImport = regexp.MustCompile(`(?i)import.*angular|from\s+["']@angular`)
	reExpressCalls  = regexp.MustCompile(`express\(|app\.get|app\.post`)
	reCommonJS      = regexp.MustCompile(`require\(|module\.exports`)
)

var frameworkHeuristics = []frameworkHeuristic{
	{"react", func(_, content string) bool { return reReactImport.MatchString(content) }},
	{"vue", func(_, content string) bool { return reVueImport.MatchString(content) }},
	{"angular", func(_, content string) bool { return reAngularImport.MatchString(content) }},
	{"express", func(_, content string) bool { return reExpressCalls.MatchString(content) }},
	{"nodejs", func(path, content string) bool {
		return strings.Contains(path, "node") || reCommonJS.MatchString(content)
	}},
}

// Framework returns the framework tag for a file, or ok=false when none of
// the heuristics apply. "No framework" is distinct from an unknown language.
func Framework(path, content string) (string, bool) {
	for _, h := range frameworkHeuristics {
		if h.match(path, content) {
			return h.name, true
		}
	}
	return "", false
}
