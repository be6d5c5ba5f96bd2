package pattern

import (
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// yamlRule is the YAML-serialized form of a Rule.
type yamlRule struct {
	ID          string   `yaml:"id"`
	Regex       string   `yaml:"regex"`
	Category    string   `yaml:"category"`
	Subcategory string   `yaml:"subcategory,omitempty"`
	Description string   `yaml:"description"`
	Severity    string   `yaml:"severity"`
	Tags        []string `yaml:"tags,omitempty"`
}

// LoadRules loads all YAML rule files from a filesystem (normally the
// embedded ruledefs.FS). Files are read in sorted name order so the registry
// enumerates deterministically. Rule IDs must be unique across all files.
func LoadRules(fsys fs.FS, dir string) ([]Rule, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read rules dir %q: %w", dir, err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	var rules []Rule
	seenIDs := make(map[string]string) // id → source file

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		path := dir + "/" + entry.Name()
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		var yamlRules []yamlRule
		if err := yaml.Unmarshal(data, &yamlRules); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}

		for _, yr := range yamlRules {
			rule, err := convertRule(yr)
			if err != nil {
				return nil, fmt.Errorf("%s: rule %q: %w", entry.Name(), yr.ID, err)
			}

			if prev, ok := seenIDs[rule.ID]; ok {
				return nil, fmt.Errorf("duplicate rule ID %q (first in %s, again in %s)", rule.ID, prev, entry.Name())
			}
			seenIDs[rule.ID] = entry.Name()

			rules = append(rules, rule)
		}
	}

	return rules, nil
}

// convertRule validates a YAML rule and compiles its regex.
// The (?ms) prefix makes matches able to span multiple lines, with the
// any-character wildcard also matching newlines. Capturing a whole
// try/catch block in one match is intentional.
func convertRule(yr yamlRule) (Rule, error) {
	if yr.ID == "" {
		return Rule{}, fmt.Errorf("missing id")
	}
	if yr.Regex == "" {
		return Rule{}, fmt.Errorf("missing regex")
	}

	category := CategoryFromName(yr.Category)
	if category < 0 {
		return Rule{}, fmt.Errorf("unknown category %q", yr.Category)
	}

	severity := SeverityFromName(yr.Severity)
	if severity < 0 {
		return Rule{}, fmt.Errorf("unknown severity %q", yr.Severity)
	}

	re, err := regexp.Compile("(?ms)" + yr.Regex)
	if err != nil {
		return Rule{}, fmt.Errorf("compile regex: %w", err)
	}

	return Rule{
		ID:          yr.ID,
		Pattern:     re,
		Category:    category,
		Subcategory: yr.Subcategory,
		Description: yr.Description,
		Severity:    severity,
		Tags:        yr.Tags,
	}, nil
}
