package svg

import (
	"fmt"
	"html/template"
	"strings"
)

// Bars renders grouped bars, one group per label and one bar per series.
func Bars(width, height int, labels []string, series []Series, opts BarOpts) (template.HTML, error) {
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
	f.open(&b, "bar", opts.Title, fallback(opts.Description, "Grouped comparison"))
	f.gridAndAxes(&b)

	group := f.plotW / float64(len(labels))
	bar := group * 0.7 / float64(len(series))
	zero := f.y(clamp(0, f.lo, f.hi))
	for i, label := range labels {
		left := f.pad + float64(i)*group + group*0.15
		for j, s := range series {
			top, h := zero, f.y(s.Values[i])-zero
			if h < 0 {
				top, h = f.y(s.Values[i]), -h
			}
			fmt.Fprintf(&b, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" rx="2"><title>%s %s: %s</title></rect>`,
				left+float64(j)*bar, top, bar, h, s.Color, esc(s.Name), esc(label), esc(formatTick(s.Values[i])))
		}
		f.xLabel(&b, f.pad+float64(i)*group+group/2, label)
	}
	f.legend(&b, series)
	b.WriteString(`</svg>`)
	return template.HTML(b.String()), nil
}
