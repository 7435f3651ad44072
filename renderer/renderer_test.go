package renderer

import (
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	tracker "github.com/morgan8889/asset-portfolio-sub002"
)

// headings parses a markdown document and returns its heading texts, proving
// the output is structurally valid markdown and not just text that looks
// like it.
func headings(t *testing.T, doc string) []string {
	t.Helper()
	src := []byte(doc)
	root := goldmark.DefaultParser().Parse(text.NewReader(src))

	var out []string
	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if h, ok := n.(*ast.Heading); ok && entering {
			var b strings.Builder
			for c := h.FirstChild(); c != nil; c = c.NextSibling() {
				if txt, ok := c.(*ast.Text); ok {
					b.Write(txt.Value(src))
				}
			}
			out = append(out, b.String())
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		t.Fatalf("walk markdown: %v", err)
	}
	return out
}

func TestPerformance(t *testing.T) {
	r := &tracker.PerformanceReport{
		Window:      tracker.NewRange(tracker.NewDate(2024, 6, 3), tracker.NewDate(2024, 6, 6)),
		StartValue:  tracker.M(1000, "USD"),
		EndValue:    tracker.M(1100, "USD"),
		TotalChange: tracker.M(100, "USD"),
		TotalPct:    10,
		TWR:         10,
		BestDay: tracker.PerformanceSnapshot{
			Date: tracker.NewDate(2024, 6, 4), DayChangePct: 5,
		},
		WorstDay: tracker.PerformanceSnapshot{
			Date: tracker.NewDate(2024, 6, 5), DayChangePct: -2,
		},
		Interpolated: 1,
	}
	doc := Performance(r)

	got := headings(t, doc)
	if len(got) != 2 || !strings.HasPrefix(got[0], "Performance") || got[1] != "Notable Days" {
		t.Errorf("headings = %v", got)
	}
	for _, want := range []string{"$1,100.00", "+10.00%", "2024-06-04", "carried-over"} {
		if !strings.Contains(doc, want) {
			t.Errorf("document is missing %q:\n%s", want, doc)
		}
	}
}

func TestNetWorth(t *testing.T) {
	points := []tracker.NetWorthPoint{
		{
			Date:        tracker.NewDate(2024, 1, 31),
			Assets:      tracker.M(1500, "USD"),
			Liabilities: tracker.M(1000, "USD"),
			NetWorth:    tracker.M(500, "USD"),
		},
		{
			Date:        tracker.NewDate(2024, 2, 29),
			Assets:      tracker.M(1600, "USD"),
			Liabilities: tracker.M(900, "USD"),
			NetWorth:    tracker.M(700, "USD"),
			Stale:       true,
		},
	}
	doc := NetWorth(points)
	if !strings.Contains(doc, "2024-02-29 *") {
		t.Errorf("stale point not marked:\n%s", doc)
	}
	if !strings.Contains(doc, "fallback price") {
		t.Error("stale footnote missing")
	}
	if got := headings(t, doc); len(got) != 1 || got[0] != "Net Worth" {
		t.Errorf("headings = %v", got)
	}
}

func TestNetWorth_NoStaleFootnoteWhenClean(t *testing.T) {
	doc := NetWorth([]tracker.NetWorthPoint{{
		Date: tracker.NewDate(2024, 1, 31), NetWorth: tracker.M(500, "USD"),
	}})
	if strings.Contains(doc, "fallback price") {
		t.Error("footnote must only appear for stale points")
	}
}

func TestHoldings(t *testing.T) {
	doc := Holdings([]tracker.Holding{
		{
			AssetID:        "AAPL",
			Quantity:       tracker.Q(15),
			CostBasis:      tracker.M(1700, "USD"),
			AverageCost:    tracker.M(113.33, "USD"),
			CurrentValue:   tracker.M(2250, "USD"),
			UnrealizedGain: tracker.M(550, "USD"),
		},
	})
	for _, want := range []string{"AAPL", "$1,700.00", "$2,250.00", "+$550.00"} {
		if !strings.Contains(doc, want) {
			t.Errorf("document is missing %q:\n%s", want, doc)
		}
	}
}

func TestTax(t *testing.T) {
	exp := tracker.TaxExposure{
		AsOf:           tracker.NewDate(2024, 12, 31),
		ShortTermGains: tracker.M(500, "USD"),
		LongTermGains:  tracker.M(500, "USD"),
		EstimatedTax:   tracker.M(195, "USD"),
		EffectiveRate:  19.5,
	}
	aging := []tracker.AgingLot{{
		AssetID:        "AAPL",
		DaysHeld:       360,
		DaysToLongTerm: 5,
		UnrealizedGain: tracker.M(500, "USD"),
	}}

	doc := Tax(exp, aging)
	got := headings(t, doc)
	if len(got) != 2 || got[1] != "Approaching Long-Term" {
		t.Errorf("headings = %v", got)
	}
	for _, want := range []string{"$195.00", "19.50%", "360", "5"} {
		if !strings.Contains(doc, want) {
			t.Errorf("document is missing %q:\n%s", want, doc)
		}
	}

	// Without aging lots the section disappears entirely.
	doc = Tax(exp, nil)
	if strings.Contains(doc, "Approaching Long-Term") {
		t.Error("empty aging section must be omitted")
	}
}
