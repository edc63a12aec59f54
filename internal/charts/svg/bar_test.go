package svg

import (
	"strings"
	"testing"
)

func TestBarsProducesSVG(t *testing.T) {
	html, err := Bars(420, 220, []string{"2021", "2022"}, []Series{
		{Name: "Explicit", Color: "#EF4444", Values: []float64{3, 1}},
		{Name: "Implicit", Color: "#F59E0B", Values: []float64{5, 4}},
	}, BarOpts{Title: "Dissent by year"})
	if err != nil {
		t.Fatalf("bars renderer error: %v", err)
	}
	output := string(html)
	if !strings.HasPrefix(output, "<svg") {
		t.Fatalf("expected svg output, got %s", output)
	}
	if got := strings.Count(output, "<rect"); got != 4+2 {
		t.Fatalf("expected four bars and two legend swatches, got %d rects", got)
	}
	if !strings.Contains(output, "Implicit 2022: 4") {
		t.Fatalf("expected bar tooltip")
	}
}

func TestBarsZeroValueHasNoHeight(t *testing.T) {
	html, err := Bars(0, 0, []string{"2020"}, []Series{{Name: "Explicit", Values: []float64{0}}}, BarOpts{})
	if err != nil {
		t.Fatalf("bars renderer error: %v", err)
	}
	if !strings.Contains(string(html), `height="0.00"`) {
		t.Fatalf("expected zero-height bar")
	}
}
