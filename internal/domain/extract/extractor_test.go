package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_SkipsExcludedDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "app.ts"), "fs.readFileSync(p)\n")
	writeFile(t, filepath.Join(root, "node_modules", "dep", "index.js"), "fs.readFileSync(p)\n")

	result, err := Run(Config{Root: root}, loadTestRules(t), nil)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Stats.FilesScanned)
	matches := findByRule(result.Occurrences, "fs_sync_operations")
	require.Len(t, matches, 1)
	assert.Equal(t, filepath.Join("src", "app.ts"), matches[0].FilePath)
}

func TestRun_FilePathsRelativeToRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "deep", "nested", "mod.ts"), "await go()\n")

	result, err := Run(Config{Root: root}, loadTestRules(t), nil)
	require.NoError(t, err)

	matches := findByRule(result.Occurrences, "await_usage")
	require.NotEmpty(t, matches)
	assert.Equal(t, filepath.Join("deep", "nested", "mod.ts"), matches[0].FilePath)
}

func TestRun_DeterministicAcrossRuns(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 20; i++ {
		content := fmt.Sprintf("const v%d: any = load()\nawait use(v%d)\nconsole.log(v%d)\n", i, i, i)
		writeFile(t, filepath.Join(root, fmt.Sprintf("f%02d.ts", i)), content)
	}

	rules := loadTestRules(t)
	first, err := Run(Config{Root: root, Workers: 4}, rules, nil)
	require.NoError(t, err)
	second, err := Run(Config{Root: root, Workers: 4}, rules, nil)
	require.NoError(t, err)

	require.Equal(t, first.Stats.FilesScanned, second.Stats.FilesScanned)
	require.Equal(t, len(first.Occurrences), len(second.Occurrences))
	for i := range first.Occurrences {
		assert.Equal(t, first.Occurrences[i], second.Occurrences[i])
	}
}

func TestRun_OccurrencesFollowWalkOrder(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.ts"), "await one()\n")
	writeFile(t, filepath.Join(root, "b.ts"), "await two()\n")
	writeFile(t, filepath.Join(root, "c.ts"), "await three()\n")

	result, err := Run(Config{Root: root, Workers: 3}, loadTestRules(t), nil)
	require.NoError(t, err)

	matches := findByRule(result.Occurrences, "await_usage")
	require.Len(t, matches, 3)
	assert.Equal(t, "a.ts", matches[0].FilePath)
	assert.Equal(t, "b.ts", matches[1].FilePath)
	assert.Equal(t, "c.ts", matches[2].FilePath)
}

func TestRun_UnreadableFileSkipped(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "ok.ts"), "await go()\n")
	// A dangling symlink reads as a missing file regardless of privileges.
	require.NoError(t, os.Symlink(filepath.Join(root, "gone"), filepath.Join(root, "broken.ts")))

	result, err := Run(Config{Root: root}, loadTestRules(t), nil)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Stats.FilesScanned)
	assert.Equal(t, 1, result.Stats.FilesSkipped)
	assert.NotEmpty(t, findByRule(result.Occurrences, "await_usage"))
}

func TestRun_MissingRoot(t *testing.T) {
	_, err := Run(Config{Root: filepath.Join(t.TempDir(), "absent")}, loadTestRules(t), nil)
	assert.ErrorIs(t, err, ErrCorpusNotFound)
}

func TestRun_EmptyCorpus(t *testing.T) {
	result, err := Run(Config{Root: t.TempDir()}, loadTestRules(t), nil)
	require.NoError(t, err)
	assert.Zero(t, result.Stats.FilesScanned)
	assert.Empty(t, result.Occurrences)
}
