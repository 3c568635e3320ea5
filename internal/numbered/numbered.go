// Package numbered builds and parses the numbered-list format used to send
// several strings to the model in one prompt.
//
// Parsing is a best-effort heuristic over free-form model output: entries are
// taken in order of appearance and the only correctness check is that the
// number of entries equals the number of strings sent.
package numbered

import (
	"regexp"
	"strconv"
	"strings"

	"gp-deepseek-translate/internal/apierr"
)

// linePattern matches "1. text", "1) text" and "1: text".
var linePattern = regexp.MustCompile(`^(\d+)[.):]\s*(.+)$`)

// Format renders items as a 1-based numbered list, one item per line.
func Format(items []string) string {
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(". ")
		b.WriteString(item)
	}
	return b.String()
}

// Parse extracts the entries of a numbered list from text. Lines that do not
// look like list entries are dropped. The captured numbers are ignored; when
// the entry count differs from expected, Parse returns a
// KindParseCountMismatch error and no entries.
func Parse(text string, expected int) ([]string, error) {
	lines := strings.Split(strings.TrimSpace(text), "\n")

	entries := make([]string, 0, expected)
	for _, line := range lines {
		m := linePattern.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		entries = append(entries, strings.TrimSpace(m[2]))
	}

	if len(entries) != expected {
		return nil, apierr.CountMismatch(expected, len(entries))
	}
	return entries, nil
}
