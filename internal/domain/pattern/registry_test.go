package pattern

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refactorforge/patternscan/internal/adapters/ruledefs"
)

func TestLoadRules_Embedded(t *testing.T) {
	rules, err := LoadRules(ruledefs.FS, ruledefs.Dir)
	require.NoError(t, err)
	require.NotEmpty(t, rules)

	seen := make(map[string]bool)
	for _, r := range rules {
		assert.False(t, seen[r.ID], "duplicate rule id %q", r.ID)
		seen[r.ID] = true
		assert.NotNil(t, r.Pattern)
		assert.NotEmpty(t, r.Description)
		assert.GreaterOrEqual(t, int(r.Category), 0)
	}

	assert.True(t, seen["fs_sync_operations"])
	assert.True(t, seen["try_catch_blocks"])
	assert.True(t, seen["todo_comments"])
}

func TestLoadRules_SyncFilesystemRule(t *testing.T) {
	rules, err := LoadRules(ruledefs.FS, ruledefs.Dir)
	require.NoError(t, err)

	var rule *Rule
	for i := range rules {
		if rules[i].ID == "fs_sync_operations" {
			rule = &rules[i]
			break
		}
	}
	require.NotNil(t, rule)

	assert.Equal(t, CategoryPerformance, rule.Category)
	assert.Equal(t, "synchronous-io", rule.Subcategory)
	assert.Equal(t, SeverityHigh, rule.Severity)
	assert.Equal(t, 0.9, rule.Severity.Score())
	assert.Equal(t, []string{"blocking", "filesystem", "performance"}, rule.Tags)
	assert.True(t, rule.Pattern.MatchString("fs.readFileSync(path)"))
	assert.False(t, rule.Pattern.MatchString("fs.readFile(path, cb)"))
}

func TestLoadRules_DeterministicOrder(t *testing.T) {
	first, err := LoadRules(ruledefs.FS, ruledefs.Dir)
	require.NoError(t, err)
	second, err := LoadRules(ruledefs.FS, ruledefs.Dir)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
}

func TestLoadRules_DuplicateID(t *testing.T) {
	fsys := fstest.MapFS{
		"rules/a.yaml": {Data: []byte("- id: dup\n  regex: 'x'\n  category: code-quality\n  description: a\n  severity: low\n")},
		"rules/b.yaml": {Data: []byte("- id: dup\n  regex: 'y'\n  category: code-quality\n  description: b\n  severity: low\n")},
	}
	_, err := LoadRules(fsys, "rules")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate rule ID")
}

func TestLoadRules_UnknownCategory(t *testing.T) {
	fsys := fstest.MapFS{
		"rules/a.yaml": {Data: []byte("- id: r\n  regex: 'x'\n  category: mystery\n  description: a\n  severity: low\n")},
	}
	_, err := LoadRules(fsys, "rules")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown category")
}

func TestLoadRules_UnknownSeverity(t *testing.T) {
	fsys := fstest.MapFS{
		"rules/a.yaml": {Data: []byte("- id: r\n  regex: 'x'\n  category: code-quality\n  description: a\n  severity: extreme\n")},
	}
	_, err := LoadRules(fsys, "rules")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown severity")
}

func TestLoadRules_BadRegex(t *testing.T) {
	fsys := fstest.MapFS{
		"rules/a.yaml": {Data: []byte("- id: r\n  regex: '['\n  category: code-quality\n  description: a\n  severity: low\n")},
	}
	_, err := LoadRules(fsys, "rules")
	require.Error(t, err)
}

func TestLoadRules_MultilineWildcard(t *testing.T) {
	fsys := fstest.MapFS{
		"rules/a.yaml": {Data: []byte("- id: block\n  regex: 'begin.*end'\n  category: architecture\n  description: spans lines\n  severity: low\n")},
	}
	rules, err := LoadRules(fsys, "rules")
	require.NoError(t, err)
	require.Len(t, rules, 1)

	// The wildcard must cross newlines.
	assert.True(t, rules[0].Pattern.MatchString("begin\nmiddle\nend"))
}
