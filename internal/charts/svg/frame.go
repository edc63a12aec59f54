package svg

import (
	"errors"
	"fmt"
	"html/template"
	"math"
	"strings"
)

var (
	errNoData      = errors.New("svg: at least one value required")
	errLabels      = errors.New("svg: series length must match labels")
	errSmallCanvas = errors.New("svg: viewport too small")
)

// frame is the plotting area shared by the cartesian charts.
type frame struct {
	width, height int
	pad           float64
	plotW, plotH  float64
	lo, hi        float64
	ticks         int
	axis, grid    string
}

func newFrame(width, height int, padding float64, ticks int, axis, grid string, values ...[]float64) (*frame, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	if padding <= 0 {
		padding = DefaultPadding
	}
	if ticks <= 0 {
		ticks = DefaultTicks
	}
	f := &frame{
		width:  width,
		height: height,
		pad:    padding,
		plotW:  float64(width) - 2*padding,
		plotH:  float64(height) - 2*padding,
		ticks:  ticks,
		axis:   fallback(axis, "#475569"),
		grid:   fallback(grid, "#E2E8F0"),
	}
	if f.plotW <= 0 || f.plotH <= 0 {
		return nil, errSmallCanvas
	}
	f.lo, f.hi = rangeOf(values...)
	return f, nil
}

func (f *frame) bottom() float64 { return f.pad + f.plotH }

// y maps a value to its vertical pixel position.
func (f *frame) y(v float64) float64 {
	return f.bottom() - (v-f.lo)/(f.hi-f.lo)*f.plotH
}

// pointX spreads n points across the plot, centring a single point.
func (f *frame) pointX(i, n int) float64 {
	if n <= 1 {
		return f.pad + f.plotW/2
	}
	return f.pad + float64(i)*f.plotW/float64(n-1)
}

func (f *frame) open(b *strings.Builder, kind, title, desc string) {
	titleID := makeID(title, kind+"-title")
	descID := makeID(title, kind+"-desc")
	fmt.Fprintf(b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" role="img" aria-labelledby="%s %s" class="chart chart-%s">`, f.width, f.height, titleID, descID, kind)
	fmt.Fprintf(b, `<title id="%s">%s</title>`, titleID, esc(fallback(title, "Chart")))
	fmt.Fprintf(b, `<desc id="%s">%s</desc>`, descID, esc(desc))
}

func (f *frame) gridAndAxes(b *strings.Builder) {
	for i := 0; i <= f.ticks; i++ {
		ratio := float64(i) / float64(f.ticks)
		v := f.lo + (f.hi-f.lo)*ratio
		y := f.y(v)
		fmt.Fprintf(b, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="0.5" stroke-dasharray="3,3" aria-hidden="true"></line>`, f.pad, y, f.pad+f.plotW, y, f.grid)
		fmt.Fprintf(b, `<text x="%.2f" y="%.2f" fill="%s" font-size="10" text-anchor="end">%s</text>`, f.pad-6, y+3, f.axis, esc(formatTick(v)))
	}
	zero := f.y(clamp(0, f.lo, f.hi))
	fmt.Fprintf(b, `<g stroke="%s" stroke-width="1" aria-hidden="true">`, f.axis)
	fmt.Fprintf(b, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"></line>`, f.pad, f.pad, f.pad, f.bottom())
	fmt.Fprintf(b, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"></line>`, f.pad, zero, f.pad+f.plotW, zero)
	b.WriteString(`</g>`)
}

func (f *frame) xLabel(b *strings.Builder, x float64, label string) {
	fmt.Fprintf(b, `<text x="%.2f" y="%.2f" fill="%s" font-size="10" text-anchor="middle">%s</text>`, x, f.bottom()+14, f.axis, esc(label))
}

// legend lays series swatches along the top edge.
func (f *frame) legend(b *strings.Builder, series []Series) {
	x := f.pad
	y := math.Max(f.pad-14, 10)
	for _, s := range series {
		fmt.Fprintf(b, `<rect x="%.2f" y="%.2f" width="10" height="10" rx="2" fill="%s"></rect>`, x, y-8, s.Color)
		fmt.Fprintf(b, `<text x="%.2f" y="%.2f" fill="%s" font-size="10">%s</text>`, x+14, y+1, f.axis, esc(s.Name))
		x += 24 + 6*float64(len([]rune(s.Name)))
	}
}

// rangeOf returns the value range of all runs, always including zero and
// never collapsing to a point.
func rangeOf(runs ...[]float64) (float64, float64) {
	lo, hi := 0.0, 0.0
	for _, run := range runs {
		for _, v := range run {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if almostEqual(lo, hi) {
		hi = lo + 1
	}
	return lo, hi
}

// withColors fills missing series colours from the default palette.
func withColors(series []Series) []Series {
	out := make([]Series, len(series))
	for i, s := range series {
		s.Color = fallback(s.Color, defaultPalette[i%len(defaultPalette)])
		out[i] = s
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func esc(s string) string {
	return template.HTMLEscapeString(s)
}

func fallback(value, defaultValue string) string {
	if strings.TrimSpace(value) == "" {
		return defaultValue
	}
	return value
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func makeID(base, suffix string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '-'
	}, strings.ToLower(strings.TrimSpace(base)))
	cleaned = strings.Trim(cleaned, "-")
	if cleaned == "" {
		cleaned = "chart"
	}
	return cleaned + "-" + suffix
}

func formatTick(v float64) string {
	switch abs := math.Abs(v); {
	case abs >= 1_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	case abs >= 10_000:
		return fmt.Sprintf("%.1fk", v/1_000)
	case almostEqual(v, math.Round(v)):
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}
