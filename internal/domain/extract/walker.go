// Package extract walks a corpus of source files and runs every registry
// rule against each file's raw content, producing pattern occurrences.
package extract

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrCorpusNotFound is returned when the corpus root is missing or unreadable.
// It is fatal: no matching happens without a corpus.
var ErrCorpusNotFound = errors.New("corpus root not found")

// supportedExtensions is the set of file extensions scanned by default.
var supportedExtensions = map[string]bool{
	".ts":  true,
	".tsx": true,
	".js":  true,
	".jsx": true,
}

// defaultExcludeDirs are directory names skipped during the walk. Build
// output and vendored dependencies would otherwise dominate the results.
var defaultExcludeDirs = []string{"node_modules", "dist"}

// Walk enumerates candidate source files under root, in lexicographic order.
// Every call re-walks the tree, so the sequence is restartable. Directories
// whose name contains any of excludeDirs are pruned entirely.
func Walk(root string, excludeDirs []string) ([]string, error) {
	if excludeDirs == nil {
		excludeDirs = defaultExcludeDirs
	}

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrCorpusNotFound, root)
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return fmt.Errorf("%w: %s", ErrCorpusNotFound, root)
			}
			return nil // skip unreadable subtrees
		}
		if d.IsDir() {
			if path != root && isExcludedDir(d.Name(), excludeDirs) {
				return filepath.SkipDir
			}
			return nil
		}
		if supportedExtensions[strings.ToLower(filepath.Ext(path))] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

func isExcludedDir(name string, excludeDirs []string) bool {
	for _, ex := range excludeDirs {
		if strings.Contains(name, ex) {
			return true
		}
	}
	return false
}
