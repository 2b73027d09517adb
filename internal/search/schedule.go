package search

import (
	"sort"
	"strings"

	"github.com/kosodate-map/go-kosodate-backend/internal/instagram"
)

// maxScheduleCandidates caps the schedule-candidate list per search.
const maxScheduleCandidates = 10

// ScheduleCandidate is an ephemeral monthly-schedule post candidate.
type ScheduleCandidate struct {
	URL     string             `json:"url"`
	Kind    instagram.PostKind `json:"type"`
	Title   string             `json:"title"`
	Snippet string             `json:"snippet"`
	// MatchedMonthHints lists the month-hint strings literally present in
	// the result's title+snippet; an empty list means the post gave no
	// indication of belonging to the target month.
	MatchedMonthHints []string `json:"matched_month_hints"`
}

// hasGouHint reports whether any matched hint is an issue-header hint
// ("N月号"), the single highest-precision month signal.
func (c ScheduleCandidate) hasGouHint() bool {
	for _, h := range c.MatchedMonthHints {
		if strings.Contains(h, "月号") {
			return true
		}
	}
	return false
}

// ExtractScheduleCandidates turns raw search results into an ordered list of
// schedule-post candidates for the given "YYYY-MM" month.
//
// Per item: the link must normalize as a post permalink (non-post and
// duplicate URLs are skipped silently), and each candidate is tagged with
// the month hints found verbatim in its title+snippet. The output is capped
// at ten candidates and stably ordered by:
//
//  1. any "月号" hint matched,
//  2. any hint matched at all,
//  3. feed posts (/p/) before reels (/reel/).
func ExtractScheduleCandidates(items []Item, month string) []ScheduleCandidate {
	hints := MonthHints(month)

	out := make([]ScheduleCandidate, 0, maxScheduleCandidates)
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if len(out) == maxScheduleCandidates {
			break
		}
		post, ok := instagram.NormalizePostURL(it.Link)
		if !ok {
			continue
		}
		if _, dup := seen[post.Normalized]; dup {
			continue
		}
		seen[post.Normalized] = struct{}{}

		text := it.Title + " " + it.Snippet
		var matched []string
		for _, h := range hints {
			if strings.Contains(text, h) {
				matched = append(matched, h)
			}
		}
		out = append(out, ScheduleCandidate{
			URL:               post.Normalized,
			Kind:              post.Kind,
			Title:             it.Title,
			Snippet:           it.Snippet,
			MatchedMonthHints: matched,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.hasGouHint() != b.hasGouHint() {
			return a.hasGouHint()
		}
		if (len(a.MatchedMonthHints) > 0) != (len(b.MatchedMonthHints) > 0) {
			return len(a.MatchedMonthHints) > 0
		}
		if a.Kind != b.Kind {
			return a.Kind == instagram.PostKindP
		}
		return false
	})
	return out
}
