package cmd

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/refactorforge/patternscan/internal/app"
	"github.com/refactorforge/patternscan/internal/domain/extract"
	"github.com/refactorforge/patternscan/internal/domain/report"
)

// ANSI color codes for terminal output.
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorCyan   = "\033[36m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorGray   = "\033[90m"
)

// formatReport renders an extraction report for terminal display.
func formatReport(r *report.Report, stats extract.Stats) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%sPattern extraction report%s │ %s\n",
		colorBold, colorReset, r.RepositoryPath))
	sb.WriteString(fmt.Sprintf("  files scanned: %d  skipped: %d  elapsed: %s\n",
		stats.FilesScanned, stats.FilesSkipped, stats.Elapsed.Round(time.Millisecond)))

	if r.TotalPatterns == 0 {
		sb.WriteString(fmt.Sprintf("\n  %s%s%s\n", colorYellow, r.Message, colorReset))
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("  total patterns: %s%d%s\n", colorBold, r.TotalPatterns, colorReset))

	sb.WriteString(fmt.Sprintf("\n%sBy category%s\n", colorBold, colorReset))
	for _, line := range sortedCounts(r.CategoryBreakdown) {
		sb.WriteString("  " + line + "\n")
	}

	sb.WriteString(fmt.Sprintf("\n%sBy severity%s\n", colorBold, colorReset))
	for _, tier := range []string{"critical", "high", "medium", "low"} {
		if n, ok := r.SeverityBreakdown[tier]; ok {
			sb.WriteString(fmt.Sprintf("  %s%-10s%s %d\n", severityColor(tier), tier, colorReset, n))
		}
	}

	sb.WriteString(fmt.Sprintf("\n%sBy rule%s\n", colorBold, colorReset))
	for _, rc := range r.RuleBreakdown {
		sb.WriteString(fmt.Sprintf("  %-24s %d\n", rc.RuleID, rc.Count))
	}

	sb.WriteString(fmt.Sprintf("\n%sTop files%s\n", colorBold, colorReset))
	for _, fc := range r.TopFiles {
		sb.WriteString(fmt.Sprintf("  %s%s%s %d\n", colorCyan, fc.Path, colorReset, fc.Count))
	}

	return sb.String()
}

// sortedCounts renders a count map as "name count" lines, descending by
// count with name ties alphabetical, so output is stable.
func sortedCounts(counts map[string]int) []string {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})

	lines := make([]string, len(names))
	for i, name := range names {
		lines[i] = fmt.Sprintf("%-20s %d", name, counts[name])
	}
	return lines
}

func severityColor(tier string) string {
	switch tier {
	case "critical":
		return colorRed
	case "high":
		return colorYellow
	default:
		return colorGray
	}
}

// formatBatchResult renders a batch generation summary.
func formatBatchResult(result *app.BatchResult) string {
	var sb strings.Builder

	var successes, failures, totalRecs int
	for _, r := range result.Results {
		if r.Success {
			successes++
			totalRecs += r.RecommendationsCount
		} else {
			failures++
		}
	}

	sb.WriteString(fmt.Sprintf("%sBatch recommendation generation%s\n", colorBold, colorReset))
	sb.WriteString(fmt.Sprintf("  repositories: %d  ok: %s%d%s  failed: %s%d%s  recommendations: %d  elapsed: %s\n",
		len(result.Results),
		colorGreen, successes, colorReset,
		colorRed, failures, colorReset,
		totalRecs, result.TotalTime.Round(time.Millisecond)))

	sb.WriteString(fmt.Sprintf("\n%s%-35s %-20s %6s  %-6s %s%s\n",
		colorBold, "Repository", "Tech Stack", "Recs", "Status", "Time", colorReset))
	for _, r := range result.Results {
		status := colorGreen + "ok  " + colorReset
		if !r.Success {
			status = colorRed + "fail" + colorReset
		}
		sb.WriteString(fmt.Sprintf("%-35s %-20s %6d  %s   %s\n",
			r.RepositoryName, r.TechStack, r.RecommendationsCount, status,
			r.GenerationTime.Round(time.Millisecond)))
	}

	if failures > 0 {
		sb.WriteString(fmt.Sprintf("\n%sFailures%s\n", colorBold, colorReset))
		for _, r := range result.Results {
			if !r.Success {
				sb.WriteString(fmt.Sprintf("  %s: %s\n", r.RepositoryName, r.ErrorMessage))
			}
		}
	}

	if len(result.Verifications) > 0 {
		var withMetrics, totalVerified int
		for _, v := range result.Verifications {
			withMetrics += v.WithMetrics
			totalVerified += v.TotalRecommendations
		}
		sb.WriteString(fmt.Sprintf("\n%sMetrics verification%s\n", colorBold, colorReset))
		sb.WriteString(fmt.Sprintf("  recommendations with metrics: %d/%d\n", withMetrics, totalVerified))
		for _, v := range result.Verifications {
			mark := colorGreen + "✓" + colorReset
			if !v.MetricsPopulated {
				mark = colorRed + "✗" + colorReset
			}
			sb.WriteString(fmt.Sprintf("  %s %-35s %d/%d\n", mark, v.RepositoryName, v.WithMetrics, v.TotalRecommendations))
		}
	}

	return sb.String()
}
