package instagram

import "regexp"

// PostKind tells a feed post ("p") apart from a reel ("reel").
type PostKind string

const (
	// PostKindP is a regular feed post permalink (/p/<code>/).
	PostKindP PostKind = "p"
	// PostKindReel is a reel permalink (/reel/<code>/).
	PostKindReel PostKind = "reel"
)

// PostURL is the canonical form of an Instagram post permalink.
type PostURL struct {
	// Normalized is the canonical URL, always
	// https://www.instagram.com/{p|reel}/<code>/.
	Normalized string `json:"normalized"`
	// Kind is "p" for feed posts and "reel" for reels.
	Kind PostKind `json:"kind"`
}

// postCodeRE constrains a shortcode to the characters Instagram actually
// uses in permalinks.
var postCodeRE = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// NormalizePostURL canonicalizes raw into an Instagram post permalink.
//
// The input is rejected (ok == false) when:
//   - the URL is malformed or not hosted on Instagram,
//   - the path does not consist of exactly two non-empty segments,
//   - the first segment is not literally "p" or "reel",
//   - the shortcode is empty or contains characters outside [A-Za-z0-9_-].
//
// Query string, fragment and userinfo are stripped, http is upgraded to
// https, and m.instagram.com is rewritten to www.instagram.com. The result
// always carries a trailing slash and is idempotent under renormalization.
func NormalizePostURL(raw string) (PostURL, bool) {
	u, ok := parseInstagramURL(raw)
	if !ok {
		return PostURL{}, false
	}
	segs := pathSegments(u.Path)
	if len(segs) != 2 {
		return PostURL{}, false
	}
	var kind PostKind
	switch segs[0] {
	case "p":
		kind = PostKindP
	case "reel":
		kind = PostKindReel
	default:
		return PostURL{}, false
	}
	code := segs[1]
	if !postCodeRE.MatchString(code) {
		return PostURL{}, false
	}
	u.Path = "/" + string(kind) + "/" + code + "/"
	return PostURL{Normalized: u.String(), Kind: kind}, true
}
