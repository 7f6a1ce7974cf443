package views

import (
	"fmt"
	"strings"
)

// NormalizeLabel trims and collapses internal whitespace.
func NormalizeLabel(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// AddLabel appends a label unless an equal one (case-insensitive) is
// already present. The original casing of the first insertion wins.
func AddLabel(labels []string, s string) []string {
	s = NormalizeLabel(s)
	if s == "" {
		return labels
	}
	for _, l := range labels {
		if strings.EqualFold(l, s) {
			return labels
		}
	}
	return append(labels, s)
}

// RemoveLabel drops a label by case-insensitive match.
func RemoveLabel(labels []string, s string) []string {
	out := labels[:0]
	for _, l := range labels {
		if !strings.EqualFold(l, s) {
			out = append(out, l)
		}
	}
	return out
}

// NormalizeLabels dedupes a label list the same way AddLabel does.
func NormalizeLabels(labels []string) []string {
	var out []string
	for _, l := range labels {
		out = AddLabel(out, l)
	}
	return out
}

// FormatEstimate renders an estimated-minutes value as "45m", "2h" or
// "2h 30m".
func FormatEstimate(mins int) string {
	if mins < 60 {
		return fmt.Sprintf("%dm", mins)
	}
	h, m := mins/60, mins%60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}
