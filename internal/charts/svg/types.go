// Package svg renders the committee analytics charts as inline SVG so the
// pages work without client-side charting.
package svg

// Series is one named, coloured run of values aligned with the chart labels.
type Series struct {
	Name   string
	Color  string
	Values []float64
}

// LineOpts customises the line chart renderer.
type LineOpts struct {
	Title       string
	Description string
	AxisColor   string
	GridColor   string
	Padding     float64
	TickCount   int
	ShowDots    bool
	// FillSingle shades the area under the line when exactly one series is drawn.
	FillSingle bool
}

// BarOpts customises the grouped bar renderer.
type BarOpts struct {
	Title       string
	Description string
	AxisColor   string
	GridColor   string
	Padding     float64
	TickCount   int
}

// Slice is one wedge of a donut.
type Slice struct {
	Label string
	Value float64
	Color string
}

// DonutOpts customises the donut renderer.
type DonutOpts struct {
	Title       string
	Description string
	Thickness   float64
	// Center is printed in the hole, typically the total.
	Center string
}

// Defaults for the analytics charts.
const (
	DefaultWidth     = 720
	DefaultHeight    = 260
	DefaultPadding   = 32.0
	DefaultTicks     = 5
	DefaultDonutSize = 220
)

var defaultPalette = []string{"#3B82F6", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6", "#06B6D4"}
