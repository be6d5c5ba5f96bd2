package extract

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/felixgeelhaar/bolt/v3"

	"github.com/refactorforge/patternscan/internal/domain/pattern"
)

// Config controls one extraction run.
type Config struct {
	// Root is the corpus root directory. Must exist and be readable.
	Root string

	// Workers is the number of concurrent file scanners.
	// Zero means one per CPU.
	Workers int

	// ExcludeDirs overrides the default directory-name exclusions
	// (node_modules, dist) when non-nil.
	ExcludeDirs []string
}

// Stats summarizes one extraction run.
type Stats struct {
	FilesScanned int           `json:"files_scanned"`
	FilesSkipped int           `json:"files_skipped"`
	Elapsed      time.Duration `json:"elapsed_ns"`
}

// Result holds the full occurrence set for a corpus, in walk order.
type Result struct {
	Root        string
	Occurrences []pattern.Occurrence
	Stats       Stats
}

// Run walks the corpus and scans every file against every rule.
//
// Files are dispatched across a worker pool; each file's occurrences land in
// a dedicated slot and the slots are merged in walk order after all workers
// finish. No ordering requirement exists among files, but the merged order
// is deterministic, which keeps aggregation output (and therefore
// persistence) idempotent across runs. Unreadable files are logged and
// skipped; they never abort the scan of other files.
func Run(cfg Config, rules []pattern.Rule, log *bolt.Logger) (*Result, error) {
	start := time.Now()

	absRoot, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, err
	}

	files, err := Walk(absRoot, cfg.ExcludeDirs)
	if err != nil {
		return nil, err
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(files) {
		workers = len(files)
	}

	perFile := make([][]pattern.Occurrence, len(files))
	skipped := make([]bool, len(files))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				path := files[i]
				content, err := os.ReadFile(path)
				if err != nil {
					skipped[i] = true
					if log != nil {
						log.Warn().Str("file", path).Err(err).Msg("skipping unreadable file")
					}
					continue
				}
				relPath, err := filepath.Rel(absRoot, path)
				if err != nil {
					relPath = path
				}
				perFile[i] = ScanContent(rules, relPath, string(content))
			}
		}()
	}
	for i := range files {
		jobs <- i
	}
	close(jobs)
	wg.Wait() // barrier: collection starts only once every file completed

	result := &Result{Root: absRoot}
	for i := range perFile {
		if skipped[i] {
			result.Stats.FilesSkipped++
			continue
		}
		result.Stats.FilesScanned++
		result.Occurrences = append(result.Occurrences, perFile[i]...)
	}
	result.Stats.Elapsed = time.Since(start)

	return result, nil
}
