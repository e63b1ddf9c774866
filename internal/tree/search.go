package tree

import "strings"

// ParseSearch splits a comma separated query into trimmed, non-empty patterns.
// It returns nil (no search) when nothing remains.
func ParseSearch(q string) []string {
	var out []string
	for _, p := range strings.Split(q, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// MatchSearch reports whether any pattern is a case-insensitive substring of one of the texts.
// An empty pattern list matches everything.
func MatchSearch(patterns []string, texts ...string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, p := range patterns {
		p = strings.ToLower(strings.TrimSpace(p))
		for _, t := range texts {
			if strings.Contains(strings.ToLower(t), p) {
				return true
			}
		}
	}
	return false
}

// SearchRow matches against the title and the description.
func SearchRow(patterns []string, r Row) bool {
	return MatchSearch(patterns, r.Title, r.Description)
}
