package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/refactorforge/patternscan/internal/adapters/ruledefs"
	"github.com/refactorforge/patternscan/internal/domain/pattern"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the pattern rule registry",
	RunE:  runRules,
}

func runRules(cmd *cobra.Command, args []string) error {
	rules, err := pattern.LoadRules(ruledefs.FS, ruledefs.Dir)
	if err != nil {
		return fmt.Errorf("load rules: %w", err)
	}

	fmt.Printf("%s%d rules%s\n", colorBold, len(rules), colorReset)
	for _, r := range rules {
		fmt.Printf("  %s%-24s%s %-18s %s%-8s%s %s\n",
			colorCyan, r.ID, colorReset,
			pattern.CategoryName(r.Category),
			severityColor(pattern.SeverityName(r.Severity)), pattern.SeverityName(r.Severity), colorReset,
			r.Description)
		if len(r.Tags) > 0 {
			fmt.Printf("    %s#%s%s\n", colorGray, strings.Join(r.Tags, " #"), colorReset)
		}
	}
	return nil
}
