package extract

import (
	"sort"
	"strings"

	"github.com/refactorforge/patternscan/internal/domain/classify"
	"github.com/refactorforge/patternscan/internal/domain/pattern"
)

// Lines of surrounding source captured with each occurrence.
const (
	contextLinesBefore = 2
	contextLinesAfter  = 2
)

// ScanContent applies every rule to a file's full content and returns one
// occurrence per raw match position. Matches are not deduplicated here;
// identical sightings collapse later during aggregation.
//
// Matching runs over the content as a single string with rules compiled so
// the wildcard crosses newlines, so one match may cover several lines
// (a whole try/catch block, for example).
func ScanContent(rules []pattern.Rule, relPath, content string) []pattern.Occurrence {
	language := classify.Language(relPath)
	framework, _ := classify.Framework(relPath, content)

	newlines := newlineOffsets(content)
	lines := splitLines(content)

	var occurrences []pattern.Occurrence
	for i := range rules {
		rule := &rules[i]
		for _, span := range rule.Pattern.FindAllStringIndex(content, -1) {
			occurrences = append(occurrences, buildOccurrence(rule, content, span, newlines, lines, relPath, language, framework))
		}
	}
	return occurrences
}

// buildOccurrence shapes one raw match into a structured occurrence record.
// Pure: no side effects, no failure modes.
func buildOccurrence(rule *pattern.Rule, content string, span []int, newlines []int, lines []string, relPath, language, framework string) pattern.Occurrence {
	matched := content[span[0]:span[1]]
	lineStart := lineForOffset(newlines, span[0])
	lineEnd := lineForOffset(newlines, span[1])

	return pattern.Occurrence{
		RuleID:        rule.ID,
		MatchedText:   strings.TrimSpace(matched),
		Description:   rule.Description,
		Category:      rule.Category,
		Subcategory:   rule.Subcategory,
		FilePath:      relPath,
		LineStart:     lineStart,
		LineEnd:       lineEnd,
		Language:      language,
		Framework:     framework,
		Confidence:    rule.Severity.Score(),
		ContextBefore: contextBefore(lines, lineStart),
		ContextAfter:  contextAfter(lines, lineEnd),
		Tags:          append([]string(nil), rule.Tags...),
		Metadata: map[string]any{
			"match_length": len(matched),
			"file_size":    len(content),
			"total_lines":  len(lines),
		},
	}
}

// newlineOffsets returns the sorted byte offsets of every newline in content.
func newlineOffsets(content string) []int {
	var offsets []int
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			offsets = append(offsets, i)
		}
	}
	return offsets
}

// lineForOffset converts a byte offset to a 1-indexed line number: one plus
// the count of newlines strictly before the offset.
func lineForOffset(newlines []int, offset int) int {
	return sort.SearchInts(newlines, offset) + 1
}

// splitLines splits content on newlines, dropping the phantom empty element
// a trailing newline would otherwise produce.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// contextBefore joins up to contextLinesBefore lines preceding lineStart,
// clamped at the start of the file.
func contextBefore(lines []string, lineStart int) string {
	end := lineStart - 1 // index of the match's first line
	if end > len(lines) {
		end = len(lines)
	}
	start := lineStart - 1 - contextLinesBefore
	if start < 0 {
		start = 0
	}
	if start >= end {
		return ""
	}
	return strings.Join(lines[start:end], "\n")
}

// contextAfter joins up to contextLinesAfter lines following lineEnd,
// clamped at the end of the file.
func contextAfter(lines []string, lineEnd int) string {
	start := lineEnd // index just past the match's last line
	if start >= len(lines) {
		return ""
	}
	end := lineEnd + contextLinesAfter
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[start:end], "\n")
}
