package instagram

import "strings"

// reservedSegments are first path segments that can never be a username.
// They belong to Instagram's own navigation and would otherwise slip through
// the single-segment check (e.g. https://www.instagram.com/explore/).
var reservedSegments = map[string]struct{}{
	"explore":  {},
	"about":    {},
	"accounts": {},
	"direct":   {},
	"reels":    {},
	"stories":  {},
}

// excludedPathPrefixes mark post/media URLs that must not be treated as
// profiles even before full parsing (/p/, /reel/, /tv/, /stories/).
var excludedPathPrefixes = []string{"/p/", "/reel/", "/tv/", "/stories/"}

// NormalizeProfileURL canonicalizes raw into an Instagram profile URL of the
// form https://www.instagram.com/<username>/.
//
// The input is rejected (ok == false) when any of the following holds:
//   - the URL is malformed or not hosted on Instagram,
//   - the path is a post/media URL (/p/, /reel/, /tv/, /stories/),
//   - the path does not consist of exactly one non-empty segment,
//   - the segment is a reserved Instagram route (explore, about, accounts,
//     direct, reels, stories; matched case-insensitively).
//
// Query string, fragment and userinfo are stripped, http is upgraded to
// https, and m.instagram.com is rewritten to www.instagram.com. The result
// always carries a trailing slash. Normalizing an already-normalized URL
// returns the same string.
func NormalizeProfileURL(raw string) (string, bool) {
	u, ok := parseInstagramURL(raw)
	if !ok {
		return "", false
	}
	for _, prefix := range excludedPathPrefixes {
		if strings.HasPrefix(u.Path, prefix) {
			return "", false
		}
	}
	segs := pathSegments(u.Path)
	if len(segs) != 1 {
		return "", false
	}
	if _, reserved := reservedSegments[strings.ToLower(segs[0])]; reserved {
		return "", false
	}
	u.Path = "/" + segs[0] + "/"
	return u.String(), true
}

// Username extracts the account name from a profile URL previously accepted
// by NormalizeProfileURL. It returns "" when rawOrNormalized is not a valid
// profile URL.
func Username(rawOrNormalized string) string {
	normalized, ok := NormalizeProfileURL(rawOrNormalized)
	if !ok {
		return ""
	}
	segs := pathSegments(strings.TrimPrefix(normalized, "https://"+canonicalHost))
	if len(segs) != 1 {
		return ""
	}
	return segs[0]
}
