package dto

import "strings"

func lowercase(s string) string {
	return strings.ToLower(s)
}

// cleanStringList trims every element and drops the empty ones. A nil input
// becomes an empty list, never nil, so it serializes as [] and not null.
func cleanStringList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

func lowercaseList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" {
			continue
		}
		out = append(out, strings.ToLower(s))
	}
	return out
}
