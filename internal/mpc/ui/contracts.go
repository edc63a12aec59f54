package ui

import (
	"html/template"

	"github.com/samlap/samlap-web/internal/charts/svg"
	"github.com/samlap/samlap-web/internal/mpc"
)

// ChartRenderer abstracts SVG rendering for the committee views.
type ChartRenderer interface {
	Lines(width, height int, labels []string, series []svg.Series, opts svg.LineOpts) (template.HTML, error)
	Bars(width, height int, labels []string, series []svg.Series, opts svg.BarOpts) (template.HTML, error)
	Donut(size int, slices []svg.Slice, opts svg.DonutOpts) (template.HTML, error)
}

// SortHeader is one clickable column of the decisions table.
type SortHeader struct {
	Key       mpc.SortKey
	Label     string
	Active    bool
	Direction mpc.SortDirection
	Href      string
}

// DecisionsViewModel backs /mpc-decisions.
type DecisionsViewModel struct {
	Query       string
	Sort        mpc.SortState
	Headers     []SortHeader
	Rows        []mpc.DecisionRow
	Total       int
	Summary     mpc.DecisionSummary
	ExportQuery string
	Error       string
}

// MemberCard is one entry of the voting member list.
type MemberCard struct {
	mpc.MemberVoting
	Initials   string
	Active     bool
	Href       string
	Consistent bool
}

// VotingViewModel backs /mpc-voting.
type VotingViewModel struct {
	Members       []MemberCard
	Selected      *MemberCard
	Slices        []mpc.Slice
	DonutSVG      template.HTML
	ActivityShare float64
	Totals        mpc.CommitteeTotals
	Trend         mpc.DissentTrend
	DissentSVG    template.HTML
	Error         string
}

// LegendEntry pairs a trend word with its line colour.
type LegendEntry struct {
	Word  string
	Color string
}

// WordPanel is the per-year part of the word cloud page, also served alone
// by the panel endpoint.
type WordPanel struct {
	Year     int
	Words    []mpc.CloudWord
	TopWords []string
	Legend   []LegendEntry
	Months   []mpc.TrendMonth
	TrendSVG template.HTML
	Error    string
}

// WordCloudViewModel backs /word-cloud.
type WordCloudViewModel struct {
	Years            []int
	Selected         int
	Statistics       *mpc.WordStatistics
	StatsUnavailable bool
	Panel            WordPanel
	Error            string
}

// CorrelationPanel is the correlation chart for one year and member type.
type CorrelationPanel struct {
	Years      []int
	Year       int
	MemberType mpc.MemberType
	Types      []mpc.MemberType
	Points     []mpc.CorrelationPoint
	ChartSVG   template.HTML
	// Other carries the member panel selection so non-JS form posts keep it.
	OtherYear   int
	OtherMember string
	Error       string
}

// MemberPanel is one member's forecast commentary for a year.
type MemberPanel struct {
	Years   []int
	Year    int
	Members []mpc.DiscussionMember
	Member  string
	Cards   []mpc.MetricCard
	// Other carries the correlation selection so non-JS form posts keep it.
	OtherYear int
	OtherType mpc.MemberType
	Error     string
}

// DiscussionsViewModel backs /economic-discussions.
type DiscussionsViewModel struct {
	Statistics  mpc.DiscussionStatistics
	Correlation CorrelationPanel
	Member      MemberPanel
	Error       string
}
