package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/samlap/samlap-web/internal/mpc"
)

// WriteDecisionsCSV serialises the decisions table in its displayed order.
func WriteDecisionsCSV(w io.Writer, rows []mpc.DecisionRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"ID", "Date", "Policy Change", "Voting Pattern", "Explicit Dissenter", "Implicit Dissent Score", "Model"}); err != nil {
		return err
	}
	for _, row := range rows {
		score := ""
		if row.Score.Valid {
			score = strconv.FormatFloat(row.Score.Value, 'f', 2, 64)
		}
		if err := writer.Write([]string{
			strconv.Itoa(row.ID),
			row.Date,
			row.PolicyChange.Label(),
			row.VotingPattern,
			row.ExplicitDissenter,
			score,
			row.Score.Model,
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteSummaryCSV emits the headline counts as metric/value pairs.
func WriteSummaryCSV(w io.Writer, summary mpc.DecisionSummary) error {
	writer := csv.NewWriter(w)
	records := [][]string{
		{"Metric", "Value"},
		{"Total Decisions", strconv.Itoa(summary.Total)},
		{"Unanimous", strconv.Itoa(summary.Unanimous)},
		{"Rate Hikes", strconv.Itoa(summary.RateHikes)},
		{"Rate Cuts", strconv.Itoa(summary.RateCuts)},
		{"Rate Holds", strconv.Itoa(summary.RateHolds)},
		{"AI Analyses", strconv.Itoa(summary.AIAnalyses)},
	}
	if err := writer.WriteAll(records); err != nil {
		return err
	}
	return writer.Error()
}
