// Package search implements the Instagram discovery heuristics: search-query
// generation for facility profiles and monthly-schedule posts, candidate
// scoring, result processing strategies, schedule-candidate extraction, and
// the decision policies that turn a candidate set into adopt/skip/not_found.
//
// Everything in this package is deterministic, synchronous and free of
// side effects; the only I/O lives in the Client type (cse.go), which talks
// to the external search provider.
package search

import (
	"strings"

	"golang.org/x/text/width"
)

// waveDashes are the two wave-dash codepoints that appear interchangeably in
// facility names (e.g. "あおぞらわらばぁ～"). They are stripped before any
// comparison because search-result text is inconsistent about them.
const waveDashes = "〜～"

// normalizeText folds full/half width, lowercases, and strips whitespace and
// wave dashes. Search snippets mix full-width alphanumerics and stray spaces
// into Japanese text, so all matching happens on this canonical form.
func normalizeText(s string) string {
	s = width.Fold.String(s)
	s = strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '　', '〜', '～':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// nameTokens splits a facility name into matchable tokens. Separators are
// spaces, middle dots, parentheses and wave dashes; tokens of a single rune
// are dropped since they match almost anything in Japanese text.
func nameTokens(name string) []string {
	fields := strings.FieldsFunc(name, func(r rune) bool {
		switch r {
		case ' ', '　', '・', '･', '(', ')', '（', '）', '〜', '～':
			return true
		}
		return false
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		norm := normalizeText(f)
		if len([]rune(norm)) > 1 {
			tokens = append(tokens, norm)
		}
	}
	return tokens
}

// containsAny reports whether text contains at least one of the needles.
func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}
