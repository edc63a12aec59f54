package mpc

import (
	"strconv"
	"strings"
	"unicode"
)

// MemberVoting is one member's vote tally from /mpcVoting/members/.
type MemberVoting struct {
	ID         int    `json:"id" validate:"required"`
	Name       string `json:"name" validate:"required"`
	Tenure     string `json:"tenure,omitempty"`
	Hikes      int    `json:"hikes" validate:"gte=0"`
	Cuts       int    `json:"cuts" validate:"gte=0"`
	Holds      int    `json:"holds" validate:"gte=0"`
	TotalVotes int    `json:"total_votes" validate:"gte=0"`
}

// Consistent reports whether the reported total equals hikes+cuts+holds. The
// server total is displayed as-is either way.
func (m MemberVoting) Consistent() bool {
	return m.Hikes+m.Cuts+m.Holds == m.TotalVotes
}

// Initials returns up to two leading letters of the member's name parts.
func (m MemberVoting) Initials() string {
	return initials(m.Name)
}

var honorifics = map[string]bool{"dr.": true, "prof.": true, "shri": true, "smt.": true}

func initials(name string) string {
	var b strings.Builder
	for _, part := range strings.Fields(name) {
		if honorifics[strings.ToLower(part)] {
			continue
		}
		r := []rune(part)
		if !unicode.IsLetter(r[0]) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r[0]))
		if b.Len() >= 2 {
			break
		}
	}
	return b.String()
}

// DissentYear is one row of /mpcVoting/dissent/, ordered by year ascending.
type DissentYear struct {
	Year          int `json:"year" validate:"required"`
	ExplicitCount int `json:"explicit_count" validate:"gte=0"`
	ImplicitCount int `json:"implicit_count" validate:"gte=0"`
}

// Slice is one part of a vote distribution.
type Slice struct {
	Label   string
	Count   int
	Percent float64
	Color   string
}

// Distribution splits a member's votes into hike/cut/hold shares. A member
// with no votes yields three 0% slices.
func Distribution(m MemberVoting) []Slice {
	slices := []Slice{
		{Label: "Rate Hikes", Count: m.Hikes, Color: "#EF4444"},
		{Label: "Rate Cuts", Count: m.Cuts, Color: "#10B981"},
		{Label: "Rate Holds", Count: m.Holds, Color: "#6B7280"},
	}
	total := m.Hikes + m.Cuts + m.Holds
	if total <= 0 {
		return slices
	}
	for i := range slices {
		slices[i].Percent = float64(slices[i].Count) / float64(total) * 100
	}
	return slices
}

// PercentChange compares the last year to the first. It returns 0 when fewer
// than two years exist or when the first value is not positive.
func PercentChange(years []DissentYear, value func(DissentYear) int) float64 {
	if len(years) < 2 {
		return 0
	}
	first := value(years[0])
	last := value(years[len(years)-1])
	if first <= 0 {
		return 0
	}
	return float64(last-first) / float64(first) * 100
}

// ExplicitCount selects DissentYear.ExplicitCount.
func ExplicitCount(y DissentYear) int { return y.ExplicitCount }

// ImplicitCount selects DissentYear.ImplicitCount.
func ImplicitCount(y DissentYear) int { return y.ImplicitCount }

// DissentTrend is the shaped dissent history.
type DissentTrend struct {
	Years          []DissentYear
	LatestExplicit int
	LatestImplicit int
	ExplicitChange float64
	ImplicitChange float64
}

// BuildDissentTrend derives latest counts and first-to-last change.
func BuildDissentTrend(years []DissentYear) DissentTrend {
	trend := DissentTrend{
		Years:          years,
		ExplicitChange: PercentChange(years, ExplicitCount),
		ImplicitChange: PercentChange(years, ImplicitCount),
	}
	if n := len(years); n > 0 {
		trend.LatestExplicit = years[n-1].ExplicitCount
		trend.LatestImplicit = years[n-1].ImplicitCount
	}
	return trend
}

// CommitteeTotals sums the tallies of every member.
type CommitteeTotals struct {
	Members    int
	Hikes      int
	Cuts       int
	Holds      int
	TotalVotes int
	MaxVotes   int
}

// Totals aggregates members.
func Totals(members []MemberVoting) CommitteeTotals {
	totals := CommitteeTotals{Members: len(members)}
	for _, m := range members {
		totals.Hikes += m.Hikes
		totals.Cuts += m.Cuts
		totals.Holds += m.Holds
		totals.TotalVotes += m.TotalVotes
		if m.TotalVotes > totals.MaxVotes {
			totals.MaxVotes = m.TotalVotes
		}
	}
	return totals
}

// ActivityShare is the member's total votes relative to the most active
// member, in percent.
func (t CommitteeTotals) ActivityShare(m MemberVoting) float64 {
	if t.MaxVotes <= 0 {
		return 0
	}
	return float64(m.TotalVotes) / float64(t.MaxVotes) * 100
}

// SelectMember returns the member whose id matches raw, or the first member.
// ok is false only when members is empty.
func SelectMember(members []MemberVoting, raw string) (MemberVoting, bool) {
	if len(members) == 0 {
		return MemberVoting{}, false
	}
	if id, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
		for _, m := range members {
			if m.ID == id {
				return m, true
			}
		}
	}
	return members[0], true
}
