package instagram

import "testing"

func TestNormalizeProfileURL_Canonicalizes(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"already canonical", "https://www.instagram.com/aozora_warabaa/", "https://www.instagram.com/aozora_warabaa/"},
		{"missing trailing slash", "https://www.instagram.com/aozora_warabaa", "https://www.instagram.com/aozora_warabaa/"},
		{"http upgraded", "http://www.instagram.com/aozora_warabaa/", "https://www.instagram.com/aozora_warabaa/"},
		{"mobile host rewritten", "http://m.instagram.com/x?y=1", "https://www.instagram.com/x/"},
		{"bare host rewritten", "https://instagram.com/someuser", "https://www.instagram.com/someuser/"},
		{"query and fragment stripped", "https://www.instagram.com/someuser/?hl=ja#top", "https://www.instagram.com/someuser/"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := NormalizeProfileURL(tc.in)
			if !ok {
				t.Fatalf("NormalizeProfileURL(%q) rejected, want %q", tc.in, tc.want)
			}
			if got != tc.want {
				t.Fatalf("NormalizeProfileURL(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeProfileURL_Idempotent(t *testing.T) {
	first, ok := NormalizeProfileURL("HTTP://m.instagram.com/aozora_warabaa?utm=x")
	if !ok {
		t.Fatalf("first normalization rejected")
	}
	second, ok := NormalizeProfileURL(first)
	if !ok {
		t.Fatalf("renormalization rejected %q", first)
	}
	if first != second {
		t.Fatalf("not idempotent: %q != %q", first, second)
	}
}

func TestNormalizeProfileURL_Rejects(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"garbage", "not a url"},
		{"missing scheme", "www.instagram.com/user/"},
		{"other scheme", "ftp://www.instagram.com/user/"},
		{"off platform", "https://www.facebook.com/user/"},
		{"lookalike host", "https://www.instagram.com.evil.example/user/"},
		{"post path", "https://www.instagram.com/p/ABC123/"},
		{"reel path", "https://www.instagram.com/reel/ABC123/"},
		{"tv path", "https://www.instagram.com/tv/ABC123/"},
		{"story path", "https://www.instagram.com/stories/user/12345/"},
		{"root", "https://www.instagram.com/"},
		{"two segments", "https://www.instagram.com/user/followers/"},
		{"reserved explore", "https://www.instagram.com/explore/"},
		{"reserved uppercase", "https://www.instagram.com/EXPLORE/"},
		{"reserved about", "https://www.instagram.com/about/"},
		{"reserved accounts", "https://www.instagram.com/accounts/"},
		{"reserved direct", "https://www.instagram.com/direct/"},
		{"reserved reels", "https://www.instagram.com/reels/"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got, ok := NormalizeProfileURL(tc.in); ok {
				t.Fatalf("NormalizeProfileURL(%q) = %q, want rejection", tc.in, got)
			}
		})
	}
}

func TestUsername(t *testing.T) {
	if got := Username("http://m.instagram.com/aozora_warabaa?x=1"); got != "aozora_warabaa" {
		t.Fatalf("Username = %q, want %q", got, "aozora_warabaa")
	}
	if got := Username("https://www.instagram.com/p/ABC/"); got != "" {
		t.Fatalf("Username on post URL = %q, want empty", got)
	}
}
