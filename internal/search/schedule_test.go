package search

import (
	"fmt"
	"testing"

	"github.com/kosodate-map/go-kosodate-backend/internal/instagram"
)

func TestParseMonth(t *testing.T) {
	cases := []struct {
		in        string
		wantYear  int
		wantMonth int
		wantOK    bool
	}{
		{"2025-05", 2025, 5, true},
		{"2025-12", 2025, 12, true},
		{"2025-01", 2025, 1, true},
		{"2025-13", 0, 0, false},
		{"2025-00", 0, 0, false},
		{"2025-5", 0, 0, false},
		{"2025/05", 0, 0, false},
		{"garbage", 0, 0, false},
		{"", 0, 0, false},
	}
	for _, tc := range cases {
		y, m, ok := ParseMonth(tc.in)
		if y != tc.wantYear || m != tc.wantMonth || ok != tc.wantOK {
			t.Fatalf("ParseMonth(%q) = (%d, %d, %v), want (%d, %d, %v)",
				tc.in, y, m, ok, tc.wantYear, tc.wantMonth, tc.wantOK)
		}
	}
}

func TestMonthHints(t *testing.T) {
	hints := MonthHints("2025-05")
	if len(hints) != maxMonthHints {
		t.Fatalf("got %d hints, want %d: %v", len(hints), maxMonthHints, hints)
	}
	want := []string{"2025年5月", "5月号", "5月", "5月予定", "5月の予定", "5月スケジュール", "5月カレンダー", "5月おたより"}
	for i, w := range want {
		if hints[i] != w {
			t.Fatalf("hints[%d] = %q, want %q", i, hints[i], w)
		}
	}
}

func TestMonthHints_MalformedMonth(t *testing.T) {
	for _, in := range []string{"2025-13", "2025-5", "not-a-month", ""} {
		if hints := MonthHints(in); hints != nil {
			t.Fatalf("MonthHints(%q) = %v, want nil", in, hints)
		}
	}
}

func TestExtractScheduleCandidates_PostBeforeReel(t *testing.T) {
	items := []Item{
		{Link: "https://www.instagram.com/reel/REEL123/", Title: "5月号のおしらせ", Snippet: ""},
		{Link: "https://www.instagram.com/p/POST123/", Title: "5月号カレンダー", Snippet: ""},
	}
	got := ExtractScheduleCandidates(items, "2025-05")
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2", len(got))
	}
	if got[0].Kind != instagram.PostKindP || got[0].URL != "https://www.instagram.com/p/POST123/" {
		t.Fatalf("the /p/ permalink must sort first, got %+v", got[0])
	}
	if got[1].Kind != instagram.PostKindReel {
		t.Fatalf("reel must keep its type, got %+v", got[1])
	}
}

func TestExtractScheduleCandidates_GouHintBeatsType(t *testing.T) {
	items := []Item{
		{Link: "https://www.instagram.com/p/NOHINT/", Title: "日常のようす", Snippet: ""},
		{Link: "https://www.instagram.com/reel/GOU5/", Title: "5月号スケジュール", Snippet: ""},
	}
	got := ExtractScheduleCandidates(items, "2025-05")
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2", len(got))
	}
	if got[0].Kind != instagram.PostKindReel {
		t.Fatalf("a 月号-hinted reel must outrank an unhinted post, got %+v first", got[0])
	}
}

func TestExtractScheduleCandidates_HintTagging(t *testing.T) {
	items := []Item{
		{Link: "https://www.instagram.com/p/ABC/", Title: "2025年5月", Snippet: "5月の予定はこちら"},
	}
	got := ExtractScheduleCandidates(items, "2025-05")
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1", len(got))
	}
	matched := got[0].MatchedMonthHints
	// "2025年5月", "5月" and "5月の予定" are all literal substrings.
	if len(matched) < 3 {
		t.Fatalf("matched hints = %v, want at least 3", matched)
	}
}

func TestExtractScheduleCandidates_DedupesAndSkipsNonPosts(t *testing.T) {
	items := []Item{
		{Link: "https://www.instagram.com/p/ABC/", Title: "5月号", Snippet: ""},
		{Link: "http://m.instagram.com/p/ABC?igsh=1", Title: "5月号", Snippet: ""}, // same permalink
		{Link: "https://www.instagram.com/someuser/", Title: "5月号", Snippet: ""}, // profile, not a post
		{Link: "https://example.com/p/ABC/", Title: "5月号", Snippet: ""},          // off platform
	}
	got := ExtractScheduleCandidates(items, "2025-05")
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1: %+v", len(got), got)
	}
}

func TestExtractScheduleCandidates_CapsAtTen(t *testing.T) {
	var items []Item
	for i := 0; i < 12; i++ {
		items = append(items, Item{
			Link:  fmt.Sprintf("https://www.instagram.com/p/POST%02d/", i),
			Title: "5月号",
		})
	}
	if got := ExtractScheduleCandidates(items, "2025-05"); len(got) != 10 {
		t.Fatalf("got %d candidates, want cap of 10", len(got))
	}
}

func TestExtractScheduleCandidates_MalformedMonthNoHints(t *testing.T) {
	items := []Item{
		{Link: "https://www.instagram.com/p/ABC/", Title: "5月号カレンダー", Snippet: ""},
	}
	got := ExtractScheduleCandidates(items, "bad-month")
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1", len(got))
	}
	if len(got[0].MatchedMonthHints) != 0 {
		t.Fatalf("malformed month must produce no hints, got %v", got[0].MatchedMonthHints)
	}
}
