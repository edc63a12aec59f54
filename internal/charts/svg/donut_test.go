package svg

import (
	"strings"
	"testing"
)

func TestDonutSkipsEmptySlices(t *testing.T) {
	html, err := Donut(200, []Slice{
		{Label: "Hikes", Value: 2, Color: "#EF4444"},
		{Label: "Cuts", Value: 0, Color: "#10B981"},
		{Label: "Holds", Value: 2, Color: "#6B7280"},
	}, DonutOpts{Title: "Votes", Center: "4"})
	if err != nil {
		t.Fatalf("donut renderer error: %v", err)
	}
	output := string(html)
	// Background ring plus two arcs.
	if got := strings.Count(output, "<circle"); got != 3 {
		t.Fatalf("expected 3 circles, got %d", got)
	}
	if !strings.Contains(output, "Hikes 50.0%, Cuts 0.0%, Holds 50.0%") {
		t.Fatalf("expected description with shares, got %s", output)
	}
	if !strings.Contains(output, ">4</text>") {
		t.Fatalf("expected centre label")
	}
}

func TestDonutAllZero(t *testing.T) {
	html, err := Donut(0, []Slice{{Label: "Hikes"}}, DonutOpts{})
	if err != nil {
		t.Fatalf("donut renderer error: %v", err)
	}
	if strings.Count(string(html), "<circle") != 1 || !strings.Contains(string(html), "No data") {
		t.Fatalf("expected empty ring")
	}
}

func TestDonutRejectsNegative(t *testing.T) {
	if _, err := Donut(100, []Slice{{Label: "x", Value: -1}}, DonutOpts{}); err == nil {
		t.Fatalf("expected error for negative slice")
	}
}
