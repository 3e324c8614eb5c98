package textutil

import "strings"

// SplitList splits a delimited field, trimming entries and dropping empty or
// "N/A" values.
func SplitList(value, sep string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, sep)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" || strings.EqualFold(part, "N/A") {
			continue
		}
		out = append(out, part)
	}
	return out
}

// LeadingInt parses the digits at the start of value ("148 min" -> 148).
// Returns 0 when value does not start with a digit.
func LeadingInt(value string) int {
	value = strings.TrimSpace(value)
	n := 0
	for _, r := range value {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
		if n > 1_000_000 {
			return 0
		}
	}
	return n
}
