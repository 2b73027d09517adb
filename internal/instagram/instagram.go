// Package instagram canonicalizes Instagram URLs found in search results and
// admin input. It distinguishes profile URLs (https://www.instagram.com/<user>/)
// from post permalinks (https://www.instagram.com/{p|reel}/<code>/) and rejects
// anything off-platform or structurally invalid.
//
// All functions in this package are pure and total: malformed input is
// reported through the boolean/zero-value return, never via panic or error.
package instagram

import (
	"net/url"
	"strings"
)

// instagramHosts enumerates the hostnames accepted as Instagram.
// Every accepted host is rewritten to the canonical "www.instagram.com".
var instagramHosts = map[string]struct{}{
	"instagram.com":     {},
	"www.instagram.com": {},
	"m.instagram.com":   {},
}

const canonicalHost = "www.instagram.com"

// parseInstagramURL parses raw and returns it when it is a well-formed
// http(s) URL on an Instagram host. The scheme is upgraded to https and the
// host is rewritten to the canonical one; query string and fragment are
// dropped. Returns false for anything else.
func parseInstagramURL(raw string) (*url.URL, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, false
	}
	switch u.Scheme {
	case "http", "https":
	default:
		return nil, false
	}
	host := strings.ToLower(u.Hostname())
	if _, ok := instagramHosts[host]; !ok {
		return nil, false
	}
	u.Scheme = "https"
	u.Host = canonicalHost
	u.RawQuery = ""
	u.Fragment = ""
	u.User = nil
	return u, true
}

// pathSegments splits an URL path into its non-empty segments.
func pathSegments(p string) []string {
	parts := strings.Split(p, "/")
	segs := make([]string, 0, len(parts))
	for _, s := range parts {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}
