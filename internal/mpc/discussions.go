package mpc

import (
	"net/url"
	"strconv"
	"strings"
)

// MemberType partitions discussion members.
type MemberType string

const (
	Internal MemberType = "internal"
	External MemberType = "external"
)

// Label returns the selector text for the member type.
func (t MemberType) Label() string {
	return titleCaser.String(string(t))
}

// ParseMemberType accepts internal or external and defaults to internal.
func ParseMemberType(raw string) MemberType {
	if MemberType(strings.ToLower(strings.TrimSpace(raw))) == External {
		return External
	}
	return Internal
}

// DiscussionMember is one entry of /mpcDiscussions/members/.
type DiscussionMember struct {
	Name       string     `json:"name" validate:"required"`
	MemberType MemberType `json:"member_type" validate:"required,oneof=internal external"`
}

// DiscussionStatistics is the payload of /mpcDiscussions/statistics/.
type DiscussionStatistics struct {
	TotalDiscussions int `json:"total_discussions"`
	UniqueMembers    int `json:"unique_members"`
	InternalMembers  int `json:"internal_members"`
	ExternalMembers  int `json:"external_members"`
	YearsCovered     int `json:"years_covered"`
}

// CorrelationPoint is one month of the correlation series.
type CorrelationPoint struct {
	MonthYear     string  `json:"month_year" validate:"required"`
	AnalysisScore float64 `json:"analysis_score"`
	Month         string  `json:"month"`
}

// MemberAnalysis is one month of a member's forecast commentary. Every metric
// is free text.
type MemberAnalysis struct {
	MonthYear          string `json:"month_year" validate:"required"`
	Month              string `json:"month"`
	InflationActual    string `json:"inflation_actual"`
	InflationPredicted string `json:"inflation_predicted"`
	InflationError     string `json:"inflation_error"`
	GrowthActual       string `json:"growth_actual"`
	GrowthPredicted    string `json:"growth_predicted"`
	GrowthError        string `json:"growth_error"`
	GDPActual          string `json:"gdp_actual"`
	GDPPredicted       string `json:"gdp_predicted"`
	GDPError           string `json:"gdp_error"`
}

// MetricEntry is one month of one metric card.
type MetricEntry struct {
	MonthYear string
	Month     string
	Actual    string
	Predicted string
	Error     string
}

// MetricCard groups a member's months for one macro variable.
type MetricCard struct {
	Key     string
	Title   string
	Entries []MetricEntry
}

// MetricCards splits member analysis rows into inflation, growth and GDP cards.
func MetricCards(rows []MemberAnalysis) []MetricCard {
	cards := []MetricCard{
		{Key: "inflation", Title: "Inflation Analysis"},
		{Key: "growth", Title: "Growth Analysis"},
		{Key: "gdp", Title: "GDP Analysis"},
	}
	for _, row := range rows {
		cards[0].Entries = append(cards[0].Entries, MetricEntry{row.MonthYear, row.Month, row.InflationActual, row.InflationPredicted, row.InflationError})
		cards[1].Entries = append(cards[1].Entries, MetricEntry{row.MonthYear, row.Month, row.GrowthActual, row.GrowthPredicted, row.GrowthError})
		cards[2].Entries = append(cards[2].Entries, MetricEntry{row.MonthYear, row.Month, row.GDPActual, row.GDPPredicted, row.GDPError})
	}
	return cards
}

// SelectYear returns raw when it is one of years, otherwise the first year.
// ok is false only when years is empty.
func SelectYear(years []int, raw string) (int, bool) {
	if len(years) == 0 {
		return 0, false
	}
	if year, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
		for _, y := range years {
			if y == year {
				return y, true
			}
		}
	}
	return years[0], true
}

// SelectDiscussionMember returns the member named raw, or the first member.
func SelectDiscussionMember(members []DiscussionMember, raw string) (DiscussionMember, bool) {
	if len(members) == 0 {
		return DiscussionMember{}, false
	}
	raw = strings.TrimSpace(raw)
	for _, m := range members {
		if m.Name == raw {
			return m, true
		}
	}
	return members[0], true
}

// CorrelationPath builds the correlation endpoint for a year and member type.
func CorrelationPath(year int, memberType MemberType) string {
	return "/mpcDiscussions/correlation/" + strconv.Itoa(year) + "/" + string(memberType) + "/"
}

// MemberAnalysisPath builds the member-analysis endpoint with the name
// path-escaped.
func MemberAnalysisPath(year int, member string) string {
	return "/mpcDiscussions/member-analysis/" + strconv.Itoa(year) + "/" + url.PathEscape(member) + "/"
}
