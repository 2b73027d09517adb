package search

import (
	"fmt"
	"regexp"
	"strconv"
)

// monthRE accepts the canonical "YYYY-MM" target-month format.
var monthRE = regexp.MustCompile(`^(\d{4})-(\d{2})$`)

// maxMonthHints caps the number of hint strings generated for one month.
const maxMonthHints = 8

// ParseMonth parses a "YYYY-MM" month string. ok is false for anything that
// is not a four-digit year, a dash, and a zero-padded month in 01–12.
func ParseMonth(s string) (year, month int, ok bool) {
	m := monthRE.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, false
	}
	year, _ = strconv.Atoi(m[1])
	month, _ = strconv.Atoi(m[2])
	if month < 1 || month > 12 {
		return 0, 0, false
	}
	return year, month, true
}

// MonthHints builds the literal Japanese substrings whose presence in a
// search result's text suggests it pertains to the given "YYYY-MM" month.
// The month number carries no leading zero ("2025-05" → "5月号").
//
// Month-specific hints come first, generic schedule vocabulary last, and the
// list is capped at eight entries. A malformed month yields no hints at all
// rather than an error, keeping the extractor total.
func MonthHints(month string) []string {
	year, mon, ok := ParseMonth(month)
	if !ok {
		return nil
	}
	hints := []string{
		fmt.Sprintf("%d年%d月", year, mon),
		fmt.Sprintf("%d月号", mon),
		fmt.Sprintf("%d月", mon),
		fmt.Sprintf("%d月予定", mon),
		fmt.Sprintf("%d月の予定", mon),
		fmt.Sprintf("%d月スケジュール", mon),
		fmt.Sprintf("%d月カレンダー", mon),
		fmt.Sprintf("%d月おたより", mon),
		"月間スケジュール",
		"カレンダー",
		"おたより",
	}
	if len(hints) > maxMonthHints {
		hints = hints[:maxMonthHints]
	}
	return hints
}
