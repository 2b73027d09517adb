// Package review accumulates the outcome of a discovery batch run into a
// report an operator can act on. Automatic adoption is deliberately
// conservative, so most value comes out of these reports: every facility the
// batch could not settle is listed with its queries, candidates, and the
// reason code the decision policy produced.
package review

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/kosodate-map/go-kosodate-backend/internal/search"
)

// Entry is the outcome for a single facility.
type Entry struct {
	FacilityID   string `json:"facility_id"`
	FacilityName string `json:"facility_name"`
	WardName     string `json:"ward_name,omitempty"`
	// Action is the decision outcome: adopt, skip, or not_found.
	Action string `json:"action"`
	// Reason is the decision policy's reason code.
	Reason string `json:"reason"`
	// SelectedURL is set when a candidate was adopted.
	SelectedURL string   `json:"selected_url,omitempty"`
	Queries     []string `json:"queries,omitempty"`
	// Candidates carries the ranked profile list for human review; scores
	// and reasons are preserved from the scorer.
	Candidates []search.Candidate `json:"candidates,omitempty"`
	// ScheduleCandidates is the schedule-run counterpart of Candidates.
	ScheduleCandidates []search.ScheduleCandidate `json:"schedule_candidates,omitempty"`
	Err                string                     `json:"error,omitempty"`
}

// Report collects entries over one batch run.
type Report struct {
	StartedAt time.Time `json:"started_at"`
	Strategy  string    `json:"strategy"`
	// Month is set for schedule runs ("YYYY-MM"), empty for profile runs.
	Month   string  `json:"month,omitempty"`
	Entries []Entry `json:"entries"`
}

// NewReport starts an empty report for the given strategy.
func NewReport(strategy string) *Report {
	return &Report{StartedAt: time.Now().UTC(), Strategy: strategy}
}

// Add appends one facility outcome.
func (r *Report) Add(e Entry) {
	r.Entries = append(r.Entries, e)
}

// Counts returns how many entries ended in each action.
func (r *Report) Counts() map[string]int {
	out := make(map[string]int, 3)
	for _, e := range r.Entries {
		out[e.Action]++
	}
	return out
}

// JSON renders the report as indented JSON for machine consumption.
func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Markdown renders the report for human review: a summary header, then one
// section per facility that needs attention (skips first, adoptions last).
func (r *Report) Markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Discovery report (%s)\n\n", r.StartedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "- strategy: %s\n", r.Strategy)
	if r.Month != "" {
		fmt.Fprintf(&b, "- month: %s\n", r.Month)
	}
	counts := r.Counts()
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "- %s: %d\n", k, counts[k])
	}
	b.WriteString("\n")

	// Skips need eyes; adoptions are just the paper trail.
	order := func(action string) int {
		switch action {
		case "skip":
			return 0
		case "not_found":
			return 1
		default:
			return 2
		}
	}
	entries := make([]Entry, len(r.Entries))
	copy(entries, r.Entries)
	sort.SliceStable(entries, func(i, j int) bool {
		return order(entries[i].Action) < order(entries[j].Action)
	})

	for _, e := range entries {
		fmt.Fprintf(&b, "## %s（%s）\n\n", e.FacilityName, e.WardName)
		fmt.Fprintf(&b, "- action: %s\n- reason: %s\n", e.Action, e.Reason)
		if e.SelectedURL != "" {
			fmt.Fprintf(&b, "- adopted: %s\n", e.SelectedURL)
		}
		if e.Err != "" {
			fmt.Fprintf(&b, "- error: %s\n", e.Err)
		}
		for _, q := range e.Queries {
			fmt.Fprintf(&b, "- query: `%s`\n", q)
		}
		for i, c := range e.Candidates {
			fmt.Fprintf(&b, "%d. %s (score %d: %s)\n", i+1, c.URL, c.Score, strings.Join(c.Reasons, ", "))
		}
		for i, c := range e.ScheduleCandidates {
			fmt.Fprintf(&b, "%d. %s (%s", i+1, c.URL, c.Kind)
			if len(c.MatchedMonthHints) > 0 {
				fmt.Fprintf(&b, ", hints: %s", strings.Join(c.MatchedMonthHints, ", "))
			}
			b.WriteString(")\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}
