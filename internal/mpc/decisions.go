package mpc

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// PolicyChange is the rate action taken at a meeting.
type PolicyChange string

const (
	RateHike PolicyChange = "rate_hike"
	RateCut  PolicyChange = "rate_cut"
	RateHold PolicyChange = "rate_hold"
)

var titleCaser = cases.Title(language.English)

// Label returns the display text used in tables and in free-text search.
func (p PolicyChange) Label() string {
	switch p {
	case RateHike:
		return "Rate Hike"
	case RateCut:
		return "Rate Cut"
	case RateHold:
		return "Rate Hold"
	}
	return titleCaser.String(strings.ReplaceAll(string(p), "_", " "))
}

// Decision is one committee meeting outcome as served by /mpc/decisions/.
type Decision struct {
	ID                   int          `json:"id" validate:"required"`
	Date                 string       `json:"date" validate:"required"`
	PolicyChange         PolicyChange `json:"policy_change" validate:"required,oneof=rate_hike rate_cut rate_hold"`
	VotingPattern        string       `json:"voting_pattern"`
	ExplicitDissenter    string       `json:"explicit_dissenter"`
	ImplicitDissentScore string       `json:"implicit_dissent_score"`
}

// ImplicitScore is the parsed form of "<float> <model-name>".
type ImplicitScore struct {
	Value float64
	Model string
	Valid bool
}

// ParseImplicitScore splits raw on its first space. An empty or non-numeric
// leading token yields an invalid score instead of NaN.
func ParseImplicitScore(raw string) ImplicitScore {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ImplicitScore{}
	}
	head, tail, _ := strings.Cut(raw, " ")
	value, err := strconv.ParseFloat(head, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return ImplicitScore{Model: strings.TrimSpace(tail)}
	}
	return ImplicitScore{Value: value, Model: strings.TrimSpace(tail), Valid: true}
}

// Display renders the score for a table cell.
func (s ImplicitScore) Display() string {
	if !s.Valid {
		return "No analysis"
	}
	return strconv.FormatFloat(s.Value, 'f', 2, 64)
}

// DecisionRow is a decision with its derived columns.
type DecisionRow struct {
	Decision
	Score ImplicitScore
}

// Unanimous reports whether the voting pattern records a unanimous vote.
func (r DecisionRow) Unanimous() bool {
	return strings.Contains(r.VotingPattern, "Unanimous")
}

// Consensus reports whether the explicit dissenter column shows no dissent.
func (r DecisionRow) Consensus() bool {
	return strings.Contains(r.ExplicitDissenter, "NA") || strings.Contains(r.ExplicitDissenter, "6:0")
}

// ModelFamily groups the sentiment model label into a badge style.
func (r DecisionRow) ModelFamily() string {
	model := r.Score.Model
	switch {
	case strings.Contains(model, "VADER"):
		return "vader"
	case strings.Contains(model, "finBERT"):
		return "finbert"
	case strings.Contains(model, "Central"), strings.Contains(model, "RoBERTA"):
		return "roberta"
	}
	return "other"
}

// Rows derives the parsed columns for every decision.
func Rows(decisions []Decision) []DecisionRow {
	rows := make([]DecisionRow, 0, len(decisions))
	for _, d := range decisions {
		rows = append(rows, DecisionRow{Decision: d, Score: ParseImplicitScore(d.ImplicitDissentScore)})
	}
	return rows
}

// FilterRows keeps rows where term is a case-insensitive substring of the date,
// the policy label, the voting pattern, the explicit dissenter or the raw score.
func FilterRows(rows []DecisionRow, term string) []DecisionRow {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return rows
	}
	filtered := make([]DecisionRow, 0, len(rows))
	for _, row := range rows {
		fields := []string{
			row.Date,
			row.PolicyChange.Label(),
			row.VotingPattern,
			row.ExplicitDissenter,
			row.ImplicitDissentScore,
		}
		for _, field := range fields {
			if strings.Contains(strings.ToLower(field), term) {
				filtered = append(filtered, row)
				break
			}
		}
	}
	return filtered
}

// SortKey names a sortable decision column.
type SortKey string

const (
	SortDate      SortKey = "date"
	SortPolicy    SortKey = "policy_change"
	SortPattern   SortKey = "voting_pattern"
	SortDissenter SortKey = "explicit_dissenter"
	SortScore     SortKey = "implicit_dissent_score"
)

// SortDirection is asc or desc.
type SortDirection string

const (
	Asc  SortDirection = "asc"
	Desc SortDirection = "desc"
)

// SortState is the table's current ordering.
type SortState struct {
	Key       SortKey
	Direction SortDirection
}

// DefaultSort orders by date, newest first.
var DefaultSort = SortState{Key: SortDate, Direction: Desc}

// ParseSort reads a sort state from query values, falling back to DefaultSort.
func ParseSort(key, direction string) SortState {
	state := DefaultSort
	switch k := SortKey(key); k {
	case SortDate, SortPolicy, SortPattern, SortDissenter, SortScore:
		state.Key = k
		state.Direction = Asc
	}
	switch SortDirection(direction) {
	case Asc, Desc:
		state.Direction = SortDirection(direction)
	}
	return state
}

// Toggle returns the state after the user clicks column key: the active column
// flips direction, any other column becomes active ascending.
func (s SortState) Toggle(key SortKey) SortState {
	if s.Key == key {
		if s.Direction == Asc {
			return SortState{Key: key, Direction: Desc}
		}
		return SortState{Key: key, Direction: Asc}
	}
	return SortState{Key: key, Direction: Asc}
}

// SortRows orders rows in place; ties keep their incoming order. Rows without
// a valid score sort below every scored row.
func SortRows(rows []DecisionRow, state SortState) {
	less := func(a, b DecisionRow) int {
		switch state.Key {
		case SortPolicy:
			return strings.Compare(a.PolicyChange.Label(), b.PolicyChange.Label())
		case SortPattern:
			return strings.Compare(a.VotingPattern, b.VotingPattern)
		case SortDissenter:
			return strings.Compare(a.ExplicitDissenter, b.ExplicitDissenter)
		case SortScore:
			return compareScores(a.Score, b.Score)
		default:
			return strings.Compare(a.Date, b.Date)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		cmp := less(rows[i], rows[j])
		if state.Direction == Desc {
			return cmp > 0
		}
		return cmp < 0
	})
}

func compareScores(a, b ImplicitScore) int {
	switch {
	case !a.Valid && !b.Valid:
		return 0
	case !a.Valid:
		return -1
	case !b.Valid:
		return 1
	case a.Value < b.Value:
		return -1
	case a.Value > b.Value:
		return 1
	}
	return 0
}

// DecisionSummary feeds the cards above the decision table.
type DecisionSummary struct {
	Total      int
	Unanimous  int
	RateHikes  int
	RateCuts   int
	RateHolds  int
	AIAnalyses int
}

// Summarize counts over the full, unfiltered decision list.
func Summarize(rows []DecisionRow) DecisionSummary {
	summary := DecisionSummary{Total: len(rows)}
	for _, row := range rows {
		if row.Unanimous() {
			summary.Unanimous++
		}
		switch row.PolicyChange {
		case RateHike:
			summary.RateHikes++
		case RateCut:
			summary.RateCuts++
		case RateHold:
			summary.RateHolds++
		}
		if strings.TrimSpace(row.ImplicitDissentScore) != "" {
			summary.AIAnalyses++
		}
	}
	return summary
}
