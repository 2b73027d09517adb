package search

import (
	"fmt"
	"strings"
)

// maxQueries caps how many queries a single discovery pass may issue against
// the search provider. Priority order matters: callers run queries first to
// last and merge, so the most specific query always comes first.
const maxQueries = 4

// genericNameMaxRunes is the threshold under which a facility name is
// considered "generic": short names (≤3 runes after normalization) produce
// excessive false positives with naive substring matching, so both query
// generation and scoring branch on it. The exact threshold is a long-standing
// tuning constant; downstream score deltas depend on it.
const genericNameMaxRunes = 3

// keywordGroup is the OR-group of schedule-post vocabulary used by the
// monthly-schedule queries.
const keywordGroup = "(カレンダー OR おたより OR スケジュール OR 予定表 OR スケジュール表)"

// NameVariants derives up to three spelling variants of a facility name:
// the raw name, the name with wave dashes stripped, the name with any
// parenthesized part removed, and the name with parentheses characters
// dropped but their content kept. Duplicates and empty variants are removed,
// order is preserved.
func NameVariants(name string) []string {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	noWave := strings.Map(func(r rune) rune {
		if strings.ContainsRune(waveDashes, r) {
			return -1
		}
		return r
	}, name)

	noParen := stripParenthesized(name)
	parenContent := strings.Map(func(r rune) rune {
		switch r {
		case '(', ')', '（', '）':
			return -1
		}
		return r
	}, name)

	variants := make([]string, 0, 3)
	seen := make(map[string]struct{}, 4)
	for _, v := range []string{name, noWave, noParen, parenContent} {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		variants = append(variants, v)
		if len(variants) == 3 {
			break
		}
	}
	return variants
}

// stripParenthesized removes parenthesized runs (both ASCII and full-width)
// including their content.
func stripParenthesized(s string) string {
	var b strings.Builder
	depth := 0
	for _, r := range s {
		switch r {
		case '(', '（':
			depth++
		case ')', '）':
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 {
				b.WriteRune(r)
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// IsGenericName reports whether a facility name is too short to match
// reliably (normalized length ≤ genericNameMaxRunes).
func IsGenericName(name string) bool {
	return len([]rune(normalizeText(name))) <= genericNameMaxRunes
}

// nameTerm renders the variants as a quoted search term: a single quoted
// string for one variant, or a parenthesized OR-group for several.
func nameTerm(variants []string) string {
	if len(variants) == 0 {
		return ""
	}
	if len(variants) == 1 {
		return fmt.Sprintf("%q", variants[0])
	}
	quoted := make([]string, len(variants))
	for i, v := range variants {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return "(" + strings.Join(quoted, " OR ") + ")"
}

// BuildProfileQueries generates the ordered profile-search queries for a
// facility. Ward may be empty.
//
// Generic names with a known ward get geography-anchored queries in
// decreasing specificity, ending in a ward-less fallback. All other names
// get a "子育て拠点"-anchored site: query that is progressively relaxed, a
// ward-qualified variant when the ward is known, and a final query without
// the site: restriction. At most four deduplicated queries are returned;
// an empty name yields nil (callers must guard upstream).
func BuildProfileQueries(name, ward string) []string {
	variants := NameVariants(name)
	if len(variants) == 0 {
		return nil
	}
	term := nameTerm(variants)

	var queries []string
	if IsGenericName(name) && ward != "" {
		queries = []string{
			fmt.Sprintf("site:instagram.com %s %s 名古屋 子育て", term, ward),
			fmt.Sprintf("site:instagram.com %s %s 子育て", term, ward),
			fmt.Sprintf("site:instagram.com %s 名古屋 子育て", term),
			fmt.Sprintf("site:instagram.com %s 子育て", term),
		}
	} else {
		queries = []string{
			fmt.Sprintf("site:instagram.com %s 子育て拠点", term),
			fmt.Sprintf("site:instagram.com %s 子育て", term),
			fmt.Sprintf("site:instagram.com %s", term),
		}
		if ward != "" {
			queries = append(queries, fmt.Sprintf("site:instagram.com %s %s", term, ward))
		}
		queries = append(queries, variants[0]+" instagram")
	}
	return dedupeQueries(queries)
}

// BuildScheduleQueries generates the ordered queries that look for a
// facility's monthly-schedule post for month ("YYYY-MM"). Username is the
// Instagram account name when known (derived from the stored profile URL);
// ward may be empty.
//
// The "N月号" issue-header hint is the single highest-precision signal
// municipal accounts use, so it anchors every month-hinted query. When the
// month string is malformed no month hints are produced and only the
// ungated fallback survives. At most four deduplicated queries are returned.
func BuildScheduleQueries(name, ward, username, month string) []string {
	_, mon, monthOK := ParseMonth(month)

	const inurl = "(inurl:/p/ OR inurl:/reel/)"

	if username != "" {
		base := fmt.Sprintf("site:instagram.com %s %q", inurl, username)
		if !monthOK {
			return dedupeQueries([]string{base + " " + keywordGroup})
		}
		gou := fmt.Sprintf("%q", fmt.Sprintf("%d月号", mon))
		plain := fmt.Sprintf("%q", fmt.Sprintf("%d月", mon))
		queries := []string{
			base + " " + gou + " カレンダー",
			base + " " + gou + " おたより",
			base + " " + gou + " " + keywordGroup,
			base + " " + gou,
			base + " " + plain + " " + keywordGroup,
			fmt.Sprintf("%q %q %s %s", name, username, plain, keywordGroup),
		}
		return dedupeQueries(queries)
	}

	variants := NameVariants(name)
	if len(variants) == 0 {
		return nil
	}
	term := nameTerm(variants)
	base := fmt.Sprintf("site:instagram.com %s %s", inurl, term)
	fallback := fmt.Sprintf("%s %s 子育て拠点", term, keywordGroup)
	if !monthOK {
		return dedupeQueries([]string{fallback})
	}
	gou := fmt.Sprintf("%q", fmt.Sprintf("%d月号", mon))

	var queries []string
	if ward != "" {
		queries = []string{
			base + " " + ward + " " + gou,
			base + " " + gou + " カレンダー",
			base + " " + gou + " " + keywordGroup,
			fallback,
		}
	} else {
		queries = []string{
			base + " " + gou + " カレンダー",
			base + " " + gou + " おたより",
			base + " " + gou + " " + keywordGroup,
			fallback,
		}
	}
	return dedupeQueries(queries)
}

// dedupeQueries removes duplicates preserving order and caps the result at
// maxQueries.
func dedupeQueries(queries []string) []string {
	out := make([]string, 0, maxQueries)
	seen := make(map[string]struct{}, len(queries))
	for _, q := range queries {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		if _, dup := seen[q]; dup {
			continue
		}
		seen[q] = struct{}{}
		out = append(out, q)
		if len(out) == maxQueries {
			break
		}
	}
	return out
}
