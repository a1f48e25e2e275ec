package domain

import "strings"

// CoalesceStr returns the first non-empty string from vals.
func CoalesceStr(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// CleanKeywords trims each keyword and drops empty entries, preserving order.
func CleanKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.TrimSpace(k)
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}

// SplitKeywords parses a comma separated keyword list.
func SplitKeywords(s string) []string {
	return CleanKeywords(strings.Split(s, ","))
}
