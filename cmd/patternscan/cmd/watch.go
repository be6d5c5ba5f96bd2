package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/refactorforge/patternscan/internal/adapters/fsnotify"
	"github.com/refactorforge/patternscan/internal/adapters/ruledefs"
	"github.com/refactorforge/patternscan/internal/app"
	"github.com/refactorforge/patternscan/internal/domain/extract"
	"github.com/refactorforge/patternscan/internal/domain/pattern"
	"github.com/refactorforge/patternscan/internal/logging"
)

var watchRepoPath string

// rescanWindow coalesces change bursts into one re-extraction.
const rescanWindow = 2 * time.Second

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-extract patterns when the repository changes",
	Long: `Watches the repository for source file changes and re-runs extraction
(report only, no persistence) after each burst of edits. Stop with Ctrl-C.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchRepoPath, "repo-path", "", "path to repository to watch (required)")
	_ = watchCmd.MarkFlagRequired("repo-path")
}

func runWatch(cmd *cobra.Command, args []string) error {
	log := logging.Get()

	rules, err := pattern.LoadRules(ruledefs.FS, ruledefs.Dir)
	if err != nil {
		return fmt.Errorf("load rules: %w", err)
	}

	// Initial pass validates the corpus root before watching starts.
	out, err := app.Scan(extract.Config{Root: watchRepoPath}, rules, log)
	if err != nil {
		return err
	}
	fmt.Print(formatReport(out.Report, out.Stats))

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer watcher.Stop()

	var pending atomic.Bool
	err = watcher.Watch(watchRepoPath, func(filePath string) {
		log.Debug().Str("file", filePath).Msg("change detected")
		pending.Store(true)
	})
	if err != nil {
		return fmt.Errorf("watch %s: %w", watchRepoPath, err)
	}

	fmt.Printf("\n%swatching%s %s (Ctrl-C to stop)\n", colorGreen, colorReset, watchRepoPath)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	ticker := time.NewTicker(rescanWindow)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if !pending.Swap(false) {
				continue
			}
			out, err := app.Scan(extract.Config{Root: watchRepoPath}, rules, log)
			if err != nil {
				log.Error().Err(err).Msg("re-extraction failed")
				continue
			}
			fmt.Print("\n" + formatReport(out.Report, out.Stats))
		case <-sig:
			fmt.Println("\nstopped")
			return nil
		}
	}
}
