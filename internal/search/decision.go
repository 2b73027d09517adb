package search

import (
	"strconv"
	"strings"

	"github.com/kosodate-map/go-kosodate-backend/internal/instagram"
)

// Action is the terminal outcome of a decision policy.
type Action string

const (
	// ActionAdopt selects a candidate for registration.
	ActionAdopt Action = "adopt"
	// ActionSkip leaves the record untouched and moves on; the facility may
	// be retried later.
	ActionSkip Action = "skip"
	// ActionNotFound records that no candidate could be (safely) chosen.
	ActionNotFound Action = "not_found"
)

// Decision is the result of a decision policy. SelectedIndex is an index
// into the candidate slice passed in, or -1 when no candidate was chosen.
// Reason is a stable machine-readable string kept for audit logs.
type Decision struct {
	Action        Action `json:"action"`
	SelectedIndex int    `json:"selected_index"`
	Reason        string `json:"reason"`
}

// Profile decision reasons.
const (
	ReasonNoCandidates      = "no_candidates"
	ReasonUserSelected      = "user_selected"
	ReasonUserSkip          = "user_skip"
	ReasonUserNotFound      = "user_not_found"
	ReasonInvalidInput      = "invalid_input"
	ReasonAutoAdoptDisabled = "auto_adopt_disabled"
	ReasonAutoAdoptSingle   = "auto_adopt_single_candidate"
	ReasonAutoAdoptBlocked  = "auto_adopt_blocked_multiple_candidates"
	ReasonTopScore          = "top_score"
	ReasonUnknownCondition  = "unknown_condition"
)

// Schedule decision reasons (registration codes kept verbatim for audit
// continuity with the historical batch logs).
const (
	ReasonScheduleNoResults          = "S10_NOT_FOUND_NO_RESULTS"
	ReasonScheduleNeedsReview        = "S10_NOT_FOUND_NEEDS_REVIEW"
	ReasonScheduleMultipleCandidates = "S10_NOT_FOUND_MULTIPLE_CANDIDATES"
	ReasonScheduleNotMonthly         = "S10_NOT_FOUND_NOT_MONTHLY_SCHEDULE"
	ReasonScheduleAdopted            = "S10_ADOPTED"
)

// ProfileDecisionInput bundles everything the profile decision policy sees.
// UserInput is nil when the operator has not answered (yet); a pointer keeps
// "no answer" distinct from an empty answer.
type ProfileDecisionInput struct {
	Candidates  []Candidate
	Strategy    Strategy
	Interactive bool
	AutoAdopt   bool
	UserInput   *string
}

// DecideProfile maps a candidate set plus execution mode to
// adopt/skip/not_found. The rules apply strictly in order:
//
//  1. No candidates → not_found.
//  2. Interactive with an answer: "s"/"skip" skips, "n"/"not_found" records
//     not_found, a 1-based index in range adopts, anything else skips with
//     "invalid_input".
//  3. Non-interactive rank/hybrid: without the auto-adopt flag always skip;
//     with it, adopt only a sole candidate — an ambiguous set is never
//     auto-adopted.
//  4. Non-interactive score: adopt the top candidate (the processor already
//     filtered and ordered by score).
//  5. Anything else (e.g. interactive without an answer) → not_found with
//     "unknown_condition".
func DecideProfile(in ProfileDecisionInput) Decision {
	if len(in.Candidates) == 0 {
		return Decision{Action: ActionNotFound, SelectedIndex: -1, Reason: ReasonNoCandidates}
	}

	if in.Interactive && in.UserInput != nil {
		answer := strings.TrimSpace(strings.ToLower(*in.UserInput))
		switch answer {
		case "s", "skip":
			return Decision{Action: ActionSkip, SelectedIndex: -1, Reason: ReasonUserSkip}
		case "n", "not_found":
			return Decision{Action: ActionNotFound, SelectedIndex: -1, Reason: ReasonUserNotFound}
		}
		if k, err := strconv.Atoi(answer); err == nil && k >= 1 && k <= len(in.Candidates) {
			return Decision{Action: ActionAdopt, SelectedIndex: k - 1, Reason: ReasonUserSelected}
		}
		return Decision{Action: ActionSkip, SelectedIndex: -1, Reason: ReasonInvalidInput}
	}

	if !in.Interactive {
		switch in.Strategy {
		case StrategyRank, StrategyHybrid:
			if !in.AutoAdopt {
				return Decision{Action: ActionSkip, SelectedIndex: -1, Reason: ReasonAutoAdoptDisabled}
			}
			if len(in.Candidates) == 1 {
				return Decision{Action: ActionAdopt, SelectedIndex: 0, Reason: ReasonAutoAdoptSingle}
			}
			return Decision{Action: ActionNotFound, SelectedIndex: -1, Reason: ReasonAutoAdoptBlocked}
		case StrategyScore:
			return Decision{Action: ActionAdopt, SelectedIndex: 0, Reason: ReasonTopScore}
		}
	}

	return Decision{Action: ActionNotFound, SelectedIndex: -1, Reason: ReasonUnknownCondition}
}

// DecideSchedule maps schedule candidates for one facility/month to a final
// outcome. Reels are deliberately never auto-adopted, however well-hinted:
// a reel needs a human look before it becomes the month's schedule image.
//
// Rules, in order:
//
//  1. Empty list → S10_NOT_FOUND_NO_RESULTS.
//  2. Only reels → S10_NOT_FOUND_NEEDS_REVIEW.
//  3. Among /p/ candidates with ≥1 matched month hint: exactly one is
//     adopted; several are ambiguous (S10_NOT_FOUND_MULTIPLE_CANDIDATES);
//     none means the posts are not monthly schedules
//     (S10_NOT_FOUND_NOT_MONTHLY_SCHEDULE).
//  4. No /p/ candidates at all → S10_NOT_FOUND_NO_RESULTS.
func DecideSchedule(cands []ScheduleCandidate) Decision {
	if len(cands) == 0 {
		return Decision{Action: ActionNotFound, SelectedIndex: -1, Reason: ReasonScheduleNoResults}
	}

	var pIndexes []int
	reelSeen := false
	for i, c := range cands {
		switch c.Kind {
		case instagram.PostKindP:
			pIndexes = append(pIndexes, i)
		case instagram.PostKindReel:
			reelSeen = true
		}
	}

	if len(pIndexes) == 0 {
		if reelSeen {
			return Decision{Action: ActionNotFound, SelectedIndex: -1, Reason: ReasonScheduleNeedsReview}
		}
		return Decision{Action: ActionNotFound, SelectedIndex: -1, Reason: ReasonScheduleNoResults}
	}

	var hinted []int
	for _, i := range pIndexes {
		if len(cands[i].MatchedMonthHints) > 0 {
			hinted = append(hinted, i)
		}
	}
	switch len(hinted) {
	case 1:
		return Decision{Action: ActionAdopt, SelectedIndex: hinted[0], Reason: ReasonScheduleAdopted}
	case 0:
		return Decision{Action: ActionNotFound, SelectedIndex: -1, Reason: ReasonScheduleNotMonthly}
	default:
		return Decision{Action: ActionNotFound, SelectedIndex: -1, Reason: ReasonScheduleMultipleCandidates}
	}
}
