package svg

import (
	"fmt"
	"html/template"
	"math"
	"strings"
)

// Donut renders slices as stroked arcs of one circle. Slices with a zero
// value are skipped; an all-zero donut renders an empty grey ring.
func Donut(size int, slices []Slice, opts DonutOpts) (template.HTML, error) {
	if size <= 0 {
		size = DefaultDonutSize
	}
	thickness := opts.Thickness
	if thickness <= 0 {
		thickness = float64(size) / 7
	}
	radius := (float64(size) - thickness) / 2
	if radius <= 0 {
		return "", errSmallCanvas
	}
	total := 0.0
	for _, s := range slices {
		if s.Value < 0 || math.IsNaN(s.Value) {
			return "", fmt.Errorf("svg: slice %q has invalid value", s.Label)
		}
		total += s.Value
	}

	c := float64(size) / 2
	circumference := 2 * math.Pi * radius
	titleID := makeID(opts.Title, "donut-title")
	descID := makeID(opts.Title, "donut-desc")

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" role="img" aria-labelledby="%s %s" class="chart chart-donut">`, size, size, titleID, descID)
	fmt.Fprintf(&b, `<title id="%s">%s</title>`, titleID, esc(fallback(opts.Title, "Distribution")))
	fmt.Fprintf(&b, `<desc id="%s">%s</desc>`, descID, esc(describe(slices, total)))
	fmt.Fprintf(&b, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="none" stroke="#E5E7EB" stroke-width="%.2f"></circle>`, c, c, radius, thickness)

	if total > 0 {
		fmt.Fprintf(&b, `<g transform="rotate(-90 %.2f %.2f)">`, c, c)
		offset := 0.0
		for i, s := range slices {
			if s.Value == 0 {
				continue
			}
			arc := s.Value / total * circumference
			color := fallback(s.Color, defaultPalette[i%len(defaultPalette)])
			fmt.Fprintf(&b, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="none" stroke="%s" stroke-width="%.2f" stroke-dasharray="%.2f %.2f" stroke-dashoffset="%.2f"><title>%s: %s</title></circle>`,
				c, c, radius, color, thickness, arc, circumference-arc, -offset, esc(s.Label), esc(formatTick(s.Value)))
			offset += arc
		}
		b.WriteString(`</g>`)
	}
	if opts.Center != "" {
		fmt.Fprintf(&b, `<text x="%.2f" y="%.2f" font-size="%.0f" font-weight="600" text-anchor="middle" fill="#111827">%s</text>`, c, c+6, float64(size)/9, esc(opts.Center))
	}
	b.WriteString(`</svg>`)
	return template.HTML(b.String()), nil
}

func describe(slices []Slice, total float64) string {
	if total == 0 {
		return "No data"
	}
	parts := make([]string, 0, len(slices))
	for _, s := range slices {
		parts = append(parts, fmt.Sprintf("%s %.1f%%", s.Label, s.Value/total*100))
	}
	return strings.Join(parts, ", ")
}
