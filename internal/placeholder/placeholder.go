// Package placeholder repairs printf-style placeholders (%s, %d, %1$s) that
// a model has broken up with whitespace, and reports placeholders that went
// missing in a translation.
package placeholder

import (
	"regexp"
	"sort"
	"strings"
)

var (
	// "% s", "%  D"
	reSpaced = regexp.MustCompile(`(?i)%\s+([sd])`)
	// "% 1 $ s", "%1 $s", "%1$S"
	rePositional = regexp.MustCompile(`(?i)%\s*(\d+)\s*\$\s*([sd])`)
	// well-formed placeholders, used for warnings
	reToken = regexp.MustCompile(`%(?:\d+\$)?[sd]`)
)

// Clean collapses whitespace inside placeholders and lower-cases their
// conversion letter. Clean is idempotent.
func Clean(text string) string {
	text = reSpaced.ReplaceAllStringFunc(text, func(m string) string {
		sub := reSpaced.FindStringSubmatch(m)
		return "%" + strings.ToLower(sub[1])
	})
	text = rePositional.ReplaceAllStringFunc(text, func(m string) string {
		sub := rePositional.FindStringSubmatch(m)
		return "%" + sub[1] + "$" + strings.ToLower(sub[2])
	})
	return text
}

// Tokens returns the placeholders in text in order of appearance.
func Tokens(text string) []string {
	return reToken.FindAllString(text, -1)
}

// Warnings compares the placeholders of original and translation and returns
// one message per placeholder that is missing or unexpected. The result is
// empty when both carry the same multiset of placeholders.
func Warnings(original, translation string) []string {
	want := countTokens(Tokens(original))
	got := countTokens(Tokens(translation))

	var warnings []string
	for _, tok := range sortedKeys(want) {
		if got[tok] < want[tok] {
			warnings = append(warnings, "Missing "+tok+" placeholder in translation.")
		}
	}
	for _, tok := range sortedKeys(got) {
		if got[tok] > want[tok] {
			warnings = append(warnings, "Extra "+tok+" placeholder in translation.")
		}
	}
	return warnings
}

func countTokens(tokens []string) map[string]int {
	m := make(map[string]int, len(tokens))
	for _, t := range tokens {
		m[t]++
	}
	return m
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
