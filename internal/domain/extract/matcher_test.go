package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refactorforge/patternscan/internal/adapters/ruledefs"
	"github.com/refactorforge/patternscan/internal/domain/pattern"
)

func loadTestRules(t *testing.T) []pattern.Rule {
	t.Helper()
	rules, err := pattern.LoadRules(ruledefs.FS, ruledefs.Dir)
	require.NoError(t, err)
	return rules
}

func findByRule(occurrences []pattern.Occurrence, ruleID string) []pattern.Occurrence {
	var out []pattern.Occurrence
	for _, o := range occurrences {
		if o.RuleID == ruleID {
			out = append(out, o)
		}
	}
	return out
}

func TestScanContent_SyncFilesystemCall(t *testing.T) {
	content := "const fs = require('fs')\nconst data = fs.readFileSync(path)\nprocess(data)\n"

	occurrences := ScanContent(loadTestRules(t), "src/loader.ts", content)
	matches := findByRule(occurrences, "fs_sync_operations")
	require.Len(t, matches, 1)

	occ := matches[0]
	assert.Equal(t, "fs.readFileSync", occ.MatchedText)
	assert.Equal(t, 0.9, occ.Confidence)
	assert.Equal(t, 2, occ.LineStart)
	assert.Equal(t, 2, occ.LineEnd)
	assert.Equal(t, "typescript", occ.Language)
	assert.Equal(t, []string{"blocking", "filesystem", "performance"}, occ.Tags)
	assert.Equal(t, "src/loader.ts", occ.FilePath)

	assert.Equal(t, "const fs = require('fs')", occ.ContextBefore)
	assert.Equal(t, "process(data)", occ.ContextAfter)

	assert.Equal(t, len("fs.readFileSync"), occ.Metadata["match_length"])
	assert.Equal(t, len(content), occ.Metadata["file_size"])
	assert.Equal(t, 3, occ.Metadata["total_lines"])
}

func TestScanContent_SingleLineFile(t *testing.T) {
	occurrences := ScanContent(loadTestRules(t), "one.js", "fs.readFileSync(path)")
	matches := findByRule(occurrences, "fs_sync_operations")
	require.Len(t, matches, 1)

	assert.Equal(t, 1, matches[0].LineStart)
	assert.Equal(t, 1, matches[0].LineEnd)
	assert.Empty(t, matches[0].ContextBefore)
	assert.Empty(t, matches[0].ContextAfter)
}

func TestScanContent_MultilineMatch(t *testing.T) {
	content := strings.Join([]string{
		"function load() {",
		"  try {",
		"    risky()",
		"  } catch (err) {",
		"    report(err)",
		"  }",
		"}",
	}, "\n")

	occurrences := ScanContent(loadTestRules(t), "src/load.ts", content)
	matches := findByRule(occurrences, "try_catch_blocks")
	require.Len(t, matches, 1)

	occ := matches[0]
	assert.Equal(t, 2, occ.LineStart)
	assert.Equal(t, 4, occ.LineEnd, "a try/catch match covers several lines")
	assert.Greater(t, occ.LineEnd, occ.LineStart)
}

// Every match must fall entirely inside the substring spanned by its
// reported line range.
func TestScanContent_LineRangeContainsMatch(t *testing.T) {
	content := strings.Join([]string{
		"import React from 'react'",
		"const {a, b} = props",
		"const run = async () => {",
		"  await fetch(url)",
		"  try {",
		"    console.log(`value ${a}`)",
		"  } catch (e) {",
		"    throw new Error('nope')",
		"  }",
		"}",
	}, "\n")

	lines := strings.Split(content, "\n")
	occurrences := ScanContent(loadTestRules(t), "src/app.tsx", content)
	require.NotEmpty(t, occurrences)

	for _, occ := range occurrences {
		require.GreaterOrEqual(t, occ.LineStart, 1, occ.RuleID)
		require.LessOrEqual(t, occ.LineStart, occ.LineEnd, occ.RuleID)
		require.LessOrEqual(t, occ.LineEnd, len(lines), occ.RuleID)

		span := strings.Join(lines[occ.LineStart-1:occ.LineEnd], "\n")
		assert.Contains(t, span, occ.MatchedText,
			"%s: lines %d-%d must contain the match", occ.RuleID, occ.LineStart, occ.LineEnd)
	}
}

func TestScanContent_NoPerFileDedup(t *testing.T) {
	content := "await a()\nawait b()\nawait c()\n"

	occurrences := ScanContent(loadTestRules(t), "a.ts", content)
	matches := findByRule(occurrences, "await_usage")
	assert.Len(t, matches, 3, "every match position produces one occurrence")
}

func TestScanContent_FrameworkTag(t *testing.T) {
	content := "import React from 'react'\nconst x = useState(0)\n"

	occurrences := ScanContent(loadTestRules(t), "src/App.tsx", content)
	matches := findByRule(occurrences, "react_hooks")
	require.NotEmpty(t, matches)
	assert.Equal(t, "react", matches[0].Framework)
}

func TestScanContent_NoFramework(t *testing.T) {
	occurrences := ScanContent(loadTestRules(t), "plain.ts", "const x: any = load()\n")
	matches := findByRule(occurrences, "any_type_usage")
	require.NotEmpty(t, matches)
	assert.Empty(t, matches[0].Framework)
}

func TestContextWindows(t *testing.T) {
	lines := []string{"l1", "l2", "l3", "l4", "l5", "l6"}

	assert.Equal(t, "", contextBefore(lines, 1))
	assert.Equal(t, "l1", contextBefore(lines, 2))
	assert.Equal(t, "l1\nl2", contextBefore(lines, 3))
	assert.Equal(t, "l2\nl3", contextBefore(lines, 4))

	assert.Equal(t, "l5\nl6", contextAfter(lines, 4))
	assert.Equal(t, "l6", contextAfter(lines, 5))
	assert.Equal(t, "", contextAfter(lines, 6))
}

func TestLineForOffset(t *testing.T) {
	content := "aaa\nbbb\nccc"
	nl := newlineOffsets(content)

	assert.Equal(t, 1, lineForOffset(nl, 0))
	assert.Equal(t, 1, lineForOffset(nl, 3)) // the newline itself belongs to line 1
	assert.Equal(t, 2, lineForOffset(nl, 4))
	assert.Equal(t, 3, lineForOffset(nl, len(content)))
}

func TestSplitLines(t *testing.T) {
	assert.Nil(t, splitLines(""))
	assert.Equal(t, []string{"a"}, splitLines("a"))
	assert.Equal(t, []string{"a"}, splitLines("a\n"))
	assert.Equal(t, []string{"a", "b"}, splitLines("a\nb\n"))
	assert.Equal(t, []string{"a", ""}, splitLines("a\n\n"))
}
