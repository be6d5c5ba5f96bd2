// Package report computes summary statistics over an occurrence set.
// Everything here is pure and stateless: a valid occurrence collection in,
// a summary out. An empty collection is a valid input, not an error.
package report

import (
	"sort"
	"time"

	"github.com/refactorforge/patternscan/internal/domain/pattern"
)

// topFileCount caps the top-files-by-occurrence list.
const topFileCount = 10

// FileCount pairs a file path with its occurrence count. Emitted as an
// ordered list so ranking (and tie order) survives JSON round-trips.
type FileCount struct {
	Path  string `json:"path"`
	Count int    `json:"count"`
}

// RuleCount pairs a rule ID with its occurrence count.
type RuleCount struct {
	RuleID string `json:"rule_id"`
	Count  int    `json:"count"`
}

// Report is the structured summary of one extraction run.
type Report struct {
	Message             string         `json:"message,omitempty"`
	TotalPatterns       int            `json:"total_patterns"`
	CategoryBreakdown   map[string]int `json:"category_breakdown"`
	SeverityBreakdown   map[string]int `json:"severity_breakdown"`
	TopFiles            []FileCount    `json:"top_files_by_pattern_count"`
	RuleBreakdown       []RuleCount    `json:"pattern_type_breakdown"`
	ExtractionTimestamp time.Time      `json:"extraction_timestamp"`
	RepositoryPath      string         `json:"repository_path"`
}

// Build computes category, severity, file, and rule breakdowns over a raw
// occurrence set. Severity tiers are recomputed from each occurrence's
// confidence score rather than trusted from the rule, so a future rule with
// an arbitrary score still lands in a well-defined bucket.
func Build(occurrences []pattern.Occurrence, repositoryPath string) *Report {
	r := &Report{
		TotalPatterns:       len(occurrences),
		CategoryBreakdown:   make(map[string]int),
		SeverityBreakdown:   make(map[string]int),
		ExtractionTimestamp: time.Now().UTC(),
		RepositoryPath:      repositoryPath,
	}

	if len(occurrences) == 0 {
		r.Message = "No patterns found"
		return r
	}

	fileCounts := make(map[string]int)
	fileFirstSeen := make(map[string]int)
	ruleCounts := make(map[string]int)
	ruleFirstSeen := make(map[string]int)

	for i, occ := range occurrences {
		r.CategoryBreakdown[pattern.CategoryName(occ.Category)]++
		r.SeverityBreakdown[pattern.SeverityName(pattern.SeverityFromScore(occ.Confidence))]++

		if _, ok := fileCounts[occ.FilePath]; !ok {
			fileFirstSeen[occ.FilePath] = i
		}
		fileCounts[occ.FilePath]++

		if _, ok := ruleCounts[occ.RuleID]; !ok {
			ruleFirstSeen[occ.RuleID] = i
		}
		ruleCounts[occ.RuleID]++
	}

	r.TopFiles = rankFiles(fileCounts, fileFirstSeen)
	if len(r.TopFiles) > topFileCount {
		r.TopFiles = r.TopFiles[:topFileCount]
	}
	r.RuleBreakdown = rankRules(ruleCounts, ruleFirstSeen)

	return r
}

// rankFiles orders files by descending count, ties broken by first-encountered order.
func rankFiles(counts, firstSeen map[string]int) []FileCount {
	out := make([]FileCount, 0, len(counts))
	for path, n := range counts {
		out = append(out, FileCount{Path: path, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return firstSeen[out[i].Path] < firstSeen[out[j].Path]
	})
	return out
}

// rankRules orders rules by descending count, ties broken by first-encountered order.
func rankRules(counts, firstSeen map[string]int) []RuleCount {
	out := make([]RuleCount, 0, len(counts))
	for id, n := range counts {
		out = append(out, RuleCount{RuleID: id, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return firstSeen[out[i].RuleID] < firstSeen[out[j].RuleID]
	})
	return out
}
