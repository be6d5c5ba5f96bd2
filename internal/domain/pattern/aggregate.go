package pattern

import "sort"

// Aggregate groups occurrences by their identity hash. The first occurrence
// seen for a hash becomes the representative; later occurrences only bump
// the usage count and the distinct-file set, their context and metadata are
// discarded. Output is in first-seen order, so a fixed input order always
// yields the same output and persistence stays idempotent across runs.
//
// Each group's representative metadata gains two keys before emission:
// "file_count" and "files" (sorted distinct paths).
func Aggregate(occurrences []Occurrence) []Aggregated {
	groups := make(map[string]int) // hash → index into out
	var out []Aggregated
	fileSets := make([]map[string]struct{}, 0)

	for _, occ := range occurrences {
		h := occ.Hash()
		idx, ok := groups[h]
		if !ok {
			idx = len(out)
			groups[h] = idx
			out = append(out, Aggregated{
				Representative: occ,
				Hash:           h,
			})
			fileSets = append(fileSets, make(map[string]struct{}))
		}
		out[idx].UsageCount++
		fileSets[idx][occ.FilePath] = struct{}{}
	}

	for i := range out {
		files := make([]string, 0, len(fileSets[i]))
		for f := range fileSets[i] {
			files = append(files, f)
		}
		sort.Strings(files)
		out[i].Files = files

		// Fold the file set into the representative's metadata without
		// mutating the source occurrence's map.
		meta := make(map[string]any, len(out[i].Representative.Metadata)+2)
		for k, v := range out[i].Representative.Metadata {
			meta[k] = v
		}
		meta["file_count"] = len(files)
		meta["files"] = files
		out[i].Representative.Metadata = meta
	}

	return out
}
