package svg

import (
	"fmt"
	"html/template"
	"strings"
)

// Line renders a single series. It is Lines with one run.
func Line(width, height int, labels []string, values []float64, color string, opts LineOpts) (template.HTML, error) {
	return Lines(width, height, labels, []Series{{Name: opts.Title, Color: color, Values: values}}, opts)
}

// Lines renders one polyline per series over shared x labels. A legend is
// drawn when there is more than one series.
func Lines(width, height int, labels []string, series []Series, opts LineOpts) (template.HTML, error) {
	if len(labels) == 0 || len(series) == 0 {
		return "", errNoData
	}
	runs := make([][]float64, 0, len(series))
	for _, s := range series {
		if len(s.Values) != len(labels) {
			return "", errLabels
		}
		runs = append(runs, s.Values)
	}
	f, err := newFrame(width, height, opts.Padding, opts.TickCount, opts.AxisColor, opts.GridColor, runs...)
	if err != nil {
		return "", err
	}
	series = withColors(series)

	var b strings.Builder
	f.open(&b, "line", opts.Title, fallback(opts.Description, "Trend over time"))
	f.gridAndAxes(&b)

	n := len(labels)
	for _, s := range series {
		var path strings.Builder
		for i, v := range s.Values {
			cmd := 'L'
			if i == 0 {
				cmd = 'M'
			}
			fmt.Fprintf(&path, "%c%.2f %.2f ", cmd, f.pointX(i, n), f.y(v))
		}
		d := strings.TrimSpace(path.String())
		if opts.FillSingle && len(series) == 1 {
			fmt.Fprintf(&b, `<path d="%s L%.2f %.2f L%.2f %.2f Z" fill="%s" fill-opacity="0.12" stroke="none" aria-hidden="true"></path>`,
				d, f.pointX(n-1, n), f.bottom(), f.pointX(0, n), f.bottom(), s.Color)
		}
		fmt.Fprintf(&b, `<path d="%s" fill="none" stroke="%s" stroke-width="2" stroke-linejoin="round" stroke-linecap="round"><title>%s</title></path>`, d, s.Color, esc(s.Name))
		if opts.ShowDots {
			for i, v := range s.Values {
				fmt.Fprintf(&b, `<circle cx="%.2f" cy="%.2f" r="3" fill="%s"><title>%s %s: %s</title></circle>`,
					f.pointX(i, n), f.y(v), s.Color, esc(s.Name), esc(labels[i]), esc(formatTick(v)))
			}
		}
	}
	for i, label := range labels {
		f.xLabel(&b, f.pointX(i, n), label)
	}
	if len(series) > 1 {
		f.legend(&b, series)
	}
	b.WriteString(`</svg>`)
	return template.HTML(b.String()), nil
}
