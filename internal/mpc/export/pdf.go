package export

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"time"

	"github.com/samlap/samlap-web/internal/mpc"
)

//go:embed decisions.html
var decisionsSource string

var decisionsTemplate = template.Must(template.New("decisions").Parse(decisionsSource))

// HTMLConverter turns an HTML document into PDF bytes.
type HTMLConverter interface {
	RenderHTML(ctx context.Context, html string) ([]byte, error)
}

// DecisionsPayload is the data printed into the decisions PDF.
type DecisionsPayload struct {
	Query       string
	Sort        mpc.SortState
	Rows        []mpc.DecisionRow
	Summary     mpc.DecisionSummary
	GeneratedAt time.Time
}

// PDFExporter renders decision tables through an HTML to PDF converter.
type PDFExporter struct {
	Converter HTMLConverter
}

// RenderDecisions builds the printable document and converts it.
func (p *PDFExporter) RenderDecisions(ctx context.Context, payload DecisionsPayload) ([]byte, error) {
	if p == nil || p.Converter == nil {
		return nil, fmt.Errorf("pdf exporter not initialised")
	}
	html, err := BuildDecisionsHTML(payload)
	if err != nil {
		return nil, err
	}
	return p.Converter.RenderHTML(ctx, html)
}

// BuildDecisionsHTML renders the printable decisions document.
func BuildDecisionsHTML(payload DecisionsPayload) (string, error) {
	if payload.GeneratedAt.IsZero() {
		payload.GeneratedAt = time.Now().UTC()
	}
	var buf bytes.Buffer
	if err := decisionsTemplate.Execute(&buf, payload); err != nil {
		return "", fmt.Errorf("render decisions html: %w", err)
	}
	return buf.String(), nil
}
