package svg

import "html/template"

// Renderer exposes the chart functions as methods so handlers can depend on
// an interface and tests can substitute canned output.
type Renderer struct{}

// Lines renders a multi-series line chart.
func (Renderer) Lines(width, height int, labels []string, series []Series, opts LineOpts) (template.HTML, error) {
	return Lines(width, height, labels, series, opts)
}

// Bars renders a grouped bar chart.
func (Renderer) Bars(width, height int, labels []string, series []Series, opts BarOpts) (template.HTML, error) {
	return Bars(width, height, labels, series, opts)
}

// Donut renders a donut chart.
func (Renderer) Donut(size int, slices []Slice, opts DonutOpts) (template.HTML, error) {
	return Donut(size, slices, opts)
}
