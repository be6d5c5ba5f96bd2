package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/refactorforge/patternscan/internal/adapters/forgeapi"
	"github.com/refactorforge/patternscan/internal/app"
	"github.com/refactorforge/patternscan/internal/logging"
)

var (
	batchBaseURL string
	batchJSON    bool
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Generate recommendations for every repository",
	Long: `Lists all repositories from the RefactorForge backend, triggers
recommendation generation for each, verifies the generated recommendations
carry populated metrics, and prints a summary. Per-repository failures are
recorded and do not stop the batch.`,
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVar(&batchBaseURL, "base-url", "http://localhost:8001", "RefactorForge backend base URL")
	batchCmd.Flags().BoolVar(&batchJSON, "json", false, "emit the summary as JSON")
}

func runBatch(cmd *cobra.Command, args []string) error {
	client := forgeapi.NewClient(batchBaseURL)
	batch := app.NewBatch(client, logging.Get(), 0)

	result, err := batch.Run(context.Background())
	if err != nil {
		return fmt.Errorf("list repositories: %w", err)
	}

	if batchJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Print(formatBatchResult(result))
	return nil
}
