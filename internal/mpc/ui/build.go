package ui

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/samlap/samlap-web/internal/charts/svg"
	"github.com/samlap/samlap-web/internal/mpc"
)

var decisionColumns = []struct {
	key   mpc.SortKey
	label string
}{
	{mpc.SortDate, "Date"},
	{mpc.SortPolicy, "Policy Change"},
	{mpc.SortPattern, "Voting Pattern"},
	{mpc.SortDissenter, "Explicit Dissenter"},
	{mpc.SortScore, "Implicit Dissent Score"},
}

// BuildDecisions filters, sorts and summarises decisions for the table. The
// summary cards always describe the full set.
func BuildDecisions(decisions []mpc.Decision, query string, state mpc.SortState) DecisionsViewModel {
	all := mpc.Rows(decisions)
	rows := mpc.FilterRows(all, query)
	mpc.SortRows(rows, state)

	vm := DecisionsViewModel{
		Query:       query,
		Sort:        state,
		Rows:        rows,
		Total:       len(all),
		Summary:     mpc.Summarize(all),
		ExportQuery: decisionsQuery(query, state).Encode(),
	}
	for _, col := range decisionColumns {
		next := state.Toggle(col.key)
		vm.Headers = append(vm.Headers, SortHeader{
			Key:       col.key,
			Label:     col.label,
			Active:    state.Key == col.key,
			Direction: state.Direction,
			Href:      "/mpc-decisions?" + decisionsQuery(query, next).Encode(),
		})
	}
	return vm
}

func decisionsQuery(query string, state mpc.SortState) url.Values {
	v := url.Values{}
	if query != "" {
		v.Set("q", query)
	}
	v.Set("sort", string(state.Key))
	v.Set("dir", string(state.Direction))
	return v
}

// BuildVoting shapes the voting view. rawMember is the ?member= selector.
func BuildVoting(charts ChartRenderer, data mpc.VotingData, rawMember string) (VotingViewModel, error) {
	vm := VotingViewModel{
		Totals: mpc.Totals(data.Members),
		Trend:  mpc.BuildDissentTrend(data.Dissent),
	}
	selected, ok := mpc.SelectMember(data.Members, rawMember)
	for _, m := range data.Members {
		vm.Members = append(vm.Members, MemberCard{
			MemberVoting: m,
			Initials:     m.Initials(),
			Active:       ok && m.ID == selected.ID,
			Href:         "/mpc-voting?member=" + strconv.Itoa(m.ID),
			Consistent:   m.Consistent(),
		})
	}
	if ok {
		for i := range vm.Members {
			if vm.Members[i].Active {
				vm.Selected = &vm.Members[i]
			}
		}
		vm.Slices = mpc.Distribution(selected)
		vm.ActivityShare = vm.Totals.ActivityShare(selected)
		slices := make([]svg.Slice, 0, len(vm.Slices))
		for _, s := range vm.Slices {
			slices = append(slices, svg.Slice{Label: s.Label, Value: float64(s.Count), Color: s.Color})
		}
		donut, err := charts.Donut(svg.DefaultDonutSize, slices, svg.DonutOpts{
			Title:  selected.Name + " vote distribution",
			Center: strconv.Itoa(selected.TotalVotes),
		})
		if err != nil {
			return VotingViewModel{}, fmt.Errorf("render donut: %w", err)
		}
		vm.DonutSVG = donut
	}

	if len(data.Dissent) > 0 {
		labels := make([]string, 0, len(data.Dissent))
		explicit := make([]float64, 0, len(data.Dissent))
		implicit := make([]float64, 0, len(data.Dissent))
		for _, y := range data.Dissent {
			labels = append(labels, strconv.Itoa(y.Year))
			explicit = append(explicit, float64(y.ExplicitCount))
			implicit = append(implicit, float64(y.ImplicitCount))
		}
		bars, err := charts.Bars(svg.DefaultWidth, svg.DefaultHeight, labels, []svg.Series{
			{Name: "Explicit dissent", Color: "#EF4444", Values: explicit},
			{Name: "Implicit dissent", Color: "#F59E0B", Values: implicit},
		}, svg.BarOpts{Title: "Dissent by year", Description: "Explicit and implicit dissent counts per year"})
		if err != nil {
			return VotingViewModel{}, fmt.Errorf("render dissent bars: %w", err)
		}
		vm.DissentSVG = bars
	}
	return vm, nil
}

// BuildWordPanel scales the cloud and joins the top words against the
// monthly trend.
func BuildWordPanel(charts ChartRenderer, year int, data mpc.WordYear) (WordPanel, error) {
	panel := WordPanel{
		Year:     year,
		Words:    mpc.ScaleWords(data.Cloud.Words),
		TopWords: mpc.TopWords(data.Cloud.Words, mpc.TrendWordLimit),
	}
	panel.Months = mpc.JoinMonthly(data.Trends.MonthlyData, panel.TopWords)
	series := make([]svg.Series, 0, len(panel.TopWords))
	for i, word := range panel.TopWords {
		color := mpc.TrendPalette[i%len(mpc.TrendPalette)]
		panel.Legend = append(panel.Legend, LegendEntry{Word: word, Color: color})
		series = append(series, svg.Series{Name: word, Color: color, Values: mpc.Series(panel.Months, word)})
	}
	if len(panel.Months) == 0 || len(series) == 0 {
		return panel, nil
	}
	labels := make([]string, 0, len(panel.Months))
	for _, m := range panel.Months {
		labels = append(labels, m.Label)
	}
	chart, err := charts.Lines(svg.DefaultWidth, svg.DefaultHeight, labels, series, svg.LineOpts{
		Title:       fmt.Sprintf("Top words in %d", year),
		Description: "Monthly frequency of the most frequent words",
		ShowDots:    true,
	})
	if err != nil {
		return WordPanel{}, fmt.Errorf("render word trend: %w", err)
	}
	panel.TrendSVG = chart
	return panel, nil
}

// CorrelationTypes lists the member-type selector options.
func CorrelationTypes() []mpc.MemberType {
	return []mpc.MemberType{mpc.Internal, mpc.External}
}

// BuildCorrelation renders the monthly analysis score line.
func BuildCorrelation(charts ChartRenderer, panel CorrelationPanel, points []mpc.CorrelationPoint) (CorrelationPanel, error) {
	panel.Types = CorrelationTypes()
	panel.Points = points
	if len(points) == 0 {
		return panel, nil
	}
	labels := make([]string, 0, len(points))
	scores := make([]float64, 0, len(points))
	for _, p := range points {
		label := p.Month
		if label == "" {
			label = p.MonthYear
		}
		labels = append(labels, label)
		scores = append(scores, p.AnalysisScore)
	}
	chart, err := charts.Lines(svg.DefaultWidth, svg.DefaultHeight, labels, []svg.Series{
		{Name: "Analysis score", Color: "#3B82F6", Values: scores},
	}, svg.LineOpts{
		Title:       fmt.Sprintf("%s members, %d", panel.MemberType.Label(), panel.Year),
		Description: "Monthly analysis score of economic discussions",
		ShowDots:    true,
		FillSingle:  true,
	})
	if err != nil {
		return CorrelationPanel{}, fmt.Errorf("render correlation: %w", err)
	}
	panel.ChartSVG = chart
	return panel, nil
}

// BuildMemberPanel splits analysis rows into the three metric cards.
func BuildMemberPanel(panel MemberPanel, rows []mpc.MemberAnalysis) MemberPanel {
	if len(rows) > 0 {
		panel.Cards = mpc.MetricCards(rows)
	}
	return panel
}
