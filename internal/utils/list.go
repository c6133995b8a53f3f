package utils

import "strings"

// CleanList trims every entry and drops the blank ones.
// A single entry holding commas is split, so "a, b" and ["a", "b"] are equivalent.
func CleanList(items []string) []string {
	out := []string{}
	for _, item := range items {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// ShortName extracts the last segment after ":" or "/" from an ARN.
// Returns the input unchanged if neither separator is found.
func ShortName(arn string) string {
	if i := strings.LastIndexAny(arn, ":/"); i >= 0 {
		return arn[i+1:]
	}
	return arn
}
