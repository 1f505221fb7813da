package results

import "slices"

// Diff returns the records of candidate, in order, that are released and not
// present in baseline. Records only in baseline are never reported.
func Diff(candidate, baseline []Record) []Record {
	var fresh []Record
	for _, r := range candidate {
		if !r.Released {
			continue
		}
		if slices.Contains(baseline, r) {
			continue
		}
		fresh = append(fresh, r)
	}
	return fresh
}

// Merge returns baseline followed by fresh in a new slice.
func Merge(baseline, fresh []Record) []Record {
	merged := make([]Record, 0, len(baseline)+len(fresh))
	merged = append(merged, baseline...)
	merged = append(merged, fresh...)
	return merged
}
