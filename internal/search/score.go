package search

import (
	"fmt"
	"strings"

	"github.com/kosodate-map/go-kosodate-backend/internal/instagram"
)

// Item is one raw result returned by the search provider.
type Item struct {
	Link    string `json:"link"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// ScoreResult carries the additive score of a profile candidate together
// with one human-readable reason per applied signal, kept for audit logs.
type ScoreResult struct {
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
}

// Signal vocabularies. Matching runs on normalizeText output, so every
// entry here must already be in normalized form.
var (
	// geoKeywords anchor a result to the municipality.
	geoKeywords = []string{"名古屋市", "名古屋", "愛知"}
	// otherRegionKeywords mark results that clearly belong elsewhere.
	otherRegionKeywords = []string{"札幌", "北海道", "東京", "大阪", "福岡", "沖縄"}
	// childcareKeywords are the facility-domain vocabulary; only the first
	// match contributes to the score.
	childcareKeywords = []string{"子育て", "応援拠点", "支援拠点", "子育て応援", "地域子育て"}
)

// ScoreProfileResult scores one search result against a facility name and
// ward. The deltas and their order are an exact contract: the auto-adoption
// thresholds applied downstream (≥5, ≥8) depend on these totals, so the
// table must not be retuned casually.
//
//	full name match        generic +2 / non-generic +4
//	partial token match    generic +1 / non-generic +3
//	no name match          generic −3 / non-generic −2
//	ward matched           +2 (strictly additive)
//	geo context            +1
//	no geo, generic+ward   −4
//	other region, no geo   −4
//	childcare keyword      +1 (first match only)
//	generic, no childcare  −1
//	valid profile link     +1
//	post/share link        −10
func ScoreProfileResult(item Item, name, ward string) ScoreResult {
	text := normalizeText(item.Title + " " + item.Snippet)
	generic := IsGenericName(name)

	var res ScoreResult
	add := func(delta int, label string) {
		res.Score += delta
		res.Reasons = append(res.Reasons, fmt.Sprintf("%s(%+d)", label, delta))
	}

	// 1) Name match: full > partial > none.
	fullMatch := false
	for _, v := range NameVariants(name) {
		if norm := normalizeText(v); norm != "" && strings.Contains(text, norm) {
			fullMatch = true
			break
		}
	}
	switch {
	case fullMatch && generic:
		add(2, "名称完全一致")
	case fullMatch:
		add(4, "名称完全一致")
	default:
		partial := false
		for _, tok := range nameTokens(name) {
			if strings.Contains(text, tok) {
				partial = true
				break
			}
		}
		switch {
		case partial && generic:
			add(1, "名称部分一致")
		case partial:
			add(3, "名称部分一致")
		case generic:
			add(-3, "名称不一致")
		default:
			add(-2, "名称不一致")
		}
	}

	// 2) Ward.
	wardNorm := normalizeText(ward)
	if wardNorm != "" && strings.Contains(text, wardNorm) {
		add(2, "区名一致")
	}

	// 3) Geography.
	hasGeo := containsAny(text, geoKeywords)
	if hasGeo {
		add(1, "地域一致")
	} else {
		if generic && ward != "" {
			add(-4, "地域情報なし")
		}
		if containsAny(text, otherRegionKeywords) {
			add(-4, "他地域キーワード")
		}
	}

	// 4) Childcare vocabulary (first match only).
	childcare := false
	for _, kw := range childcareKeywords {
		if strings.Contains(text, kw) {
			add(1, "子育てキーワード")
			childcare = true
			break
		}
	}
	if !childcare && generic {
		add(-1, "子育てキーワードなし")
	}

	// 5) Link shape.
	if _, ok := instagram.NormalizeProfileURL(item.Link); ok {
		add(1, "プロフィールURL")
	} else {
		add(-10, "投稿URL")
	}

	return res
}
