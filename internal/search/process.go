package search

import (
	"sort"

	"github.com/kosodate-map/go-kosodate-backend/internal/instagram"
)

// Strategy selects how raw profile-search results are turned into a
// candidate list.
type Strategy string

const (
	// StrategyScore keeps only candidates at or above the auto-adoption
	// threshold, sorted by descending score. Meant for unattended adoption
	// of a clear winner.
	StrategyScore Strategy = "score"
	// StrategyRank preserves search-engine order and returns the first few
	// distinct candidates; the score is advisory. Meant for human review.
	StrategyRank Strategy = "rank"
	// StrategyHybrid preserves search-engine order for collection but
	// orders the final list by score.
	StrategyHybrid Strategy = "hybrid"
)

// ParseStrategy maps a user-supplied string onto a Strategy.
func ParseStrategy(s string) (Strategy, bool) {
	switch Strategy(s) {
	case StrategyScore, StrategyRank, StrategyHybrid:
		return Strategy(s), true
	}
	return "", false
}

const (
	// scoreThreshold is the minimum score StrategyScore accepts.
	scoreThreshold = 5
	// rankLimit caps the candidate list for StrategyRank.
	rankLimit = 3
	// hybridLimit caps the candidate list for StrategyHybrid.
	hybridLimit = 10
)

// Candidate is an ephemeral profile candidate: produced per search call,
// handed to the decision policy, and discarded after logging. It is never
// persisted.
type Candidate struct {
	URL     string   `json:"url"`
	Title   string   `json:"title"`
	Snippet string   `json:"snippet"`
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
}

// normalizeAndScore is the shared first pass of every strategy: items whose
// link does not normalize as a profile URL are silently dropped, the rest
// are scored. Order is preserved.
func normalizeAndScore(items []Item, name, ward string) []Candidate {
	out := make([]Candidate, 0, len(items))
	for _, it := range items {
		normalized, ok := instagram.NormalizeProfileURL(it.Link)
		if !ok {
			continue
		}
		sc := ScoreProfileResult(it, name, ward)
		out = append(out, Candidate{
			URL:     normalized,
			Title:   it.Title,
			Snippet: it.Snippet,
			Score:   sc.Score,
			Reasons: sc.Reasons,
		})
	}
	return out
}

// dedupeByURL keeps the first candidate per normalized URL, stopping once
// limit candidates are collected (limit <= 0 disables the cap).
func dedupeByURL(cands []Candidate, limit int) []Candidate {
	seen := make(map[string]struct{}, len(cands))
	out := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		if _, dup := seen[c.URL]; dup {
			continue
		}
		seen[c.URL] = struct{}{}
		out = append(out, c)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// sortByScoreDesc orders candidates by descending score, stable otherwise.
func sortByScoreDesc(cands []Candidate) {
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].Score > cands[j].Score })
}

// ProcessResults applies the named strategy to one query's raw results.
//
//   - score:  keep score ≥ 5, sort descending; cross-query deduplication is
//     the caller's job via MergeByMaxScore.
//   - rank:   search-engine order, dedupe by URL, at most 3 candidates,
//     no threshold, no sorting.
//   - hybrid: like rank with a limit of 10, then a final sort by score.
//
// Items that fail URL normalization are silently excluded in every strategy.
func ProcessResults(items []Item, name, ward string, strategy Strategy) []Candidate {
	scored := normalizeAndScore(items, name, ward)
	switch strategy {
	case StrategyRank:
		return dedupeByURL(scored, rankLimit)
	case StrategyHybrid:
		out := dedupeByURL(scored, hybridLimit)
		sortByScoreDesc(out)
		return out
	default: // StrategyScore
		out := scored[:0:0]
		for _, c := range scored {
			if c.Score >= scoreThreshold {
				out = append(out, c)
			}
		}
		sortByScoreDesc(out)
		return out
	}
}

// ProcessAllResults folds the results of several queries (one batch per
// query, in priority order) into a single candidate list.
//
//   - score:  per-query processing, then a max-score merge per URL and a
//     final descending sort — rerunning a query can only improve a URL.
//   - rank:   batches are walked in query order and the first three distinct
//     URLs win; earlier (more specific) queries therefore dominate.
//   - hybrid: like rank with a limit of 10, reordered by score at the end.
func ProcessAllResults(batches [][]Item, name, ward string, strategy Strategy) []Candidate {
	switch strategy {
	case StrategyRank, StrategyHybrid:
		var all []Candidate
		for _, items := range batches {
			all = append(all, normalizeAndScore(items, name, ward)...)
		}
		limit := rankLimit
		if strategy == StrategyHybrid {
			limit = hybridLimit
		}
		out := dedupeByURL(all, limit)
		if strategy == StrategyHybrid {
			sortByScoreDesc(out)
		}
		return out
	default: // StrategyScore
		var acc []Candidate
		for _, items := range batches {
			acc = MergeByMaxScore(acc, ProcessResults(items, name, ward, StrategyScore))
		}
		sortByScoreDesc(acc)
		return acc
	}
}

// MergeByMaxScore folds one query's candidates into an accumulated set,
// keeping the highest score seen per URL. Order follows first appearance;
// callers sort afterwards when the strategy demands it.
func MergeByMaxScore(acc, next []Candidate) []Candidate {
	index := make(map[string]int, len(acc))
	for i, c := range acc {
		index[c.URL] = i
	}
	for _, c := range next {
		if i, ok := index[c.URL]; ok {
			if c.Score > acc[i].Score {
				acc[i] = c
			}
			continue
		}
		index[c.URL] = len(acc)
		acc = append(acc, c)
	}
	return acc
}
