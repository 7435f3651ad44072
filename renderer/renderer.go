// Package renderer turns the engine's report structs into markdown
// documents, the exchange format of every view the CLI prints or publishes.
package renderer

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"

	tracker "github.com/morgan8889/asset-portfolio-sub002"
)

// Performance renders a performance report window.
func Performance(r *tracker.PerformanceReport) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Performance %s", r.Window))

	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{md.Bold("End Value"), md.Bold(r.EndValue.String())},
		Rows: [][]string{
			{"Start Value", r.StartValue.String()},
			{"Total Change", r.TotalChange.SignedString()},
			{"Total Return", r.TotalPct.SignedString()},
			{"Time-Weighted Return", r.TWR.SignedString()},
			{"Annualized Volatility", r.Volatility.String()},
		},
	})

	doc.H2("Notable Days")
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight},
		Header:    []string{"", "Date", "Change"},
		Rows: [][]string{
			{"Best Day", r.BestDay.Date.String(), r.BestDay.DayChangePct.SignedString()},
			{"Worst Day", r.WorstDay.Date.String(), r.WorstDay.DayChangePct.SignedString()},
			{"High", r.High.Date.String(), r.High.TotalValue.String()},
			{"Low", r.Low.Date.String(), r.Low.TotalValue.String()},
		},
	})

	if r.Interpolated > 0 {
		doc.PlainTextf("%d day(s) were valued with carried-over prices.", r.Interpolated)
	}
	return doc.String()
}

// NetWorth renders a net-worth series, one row per point.
func NetWorth(points []tracker.NetWorthPoint) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Net Worth")
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight},
		Header:    []string{"Date", "Assets", "Liabilities", "Net Worth"},
	}
	stale := 0
	for _, p := range points {
		date := p.Date.String()
		if p.Stale {
			date += " *"
			stale++
		}
		table.Rows = append(table.Rows, []string{
			date,
			p.Assets.String(),
			p.Liabilities.String(),
			p.NetWorth.String(),
		})
	}
	doc.Table(table)
	if stale > 0 {
		doc.PlainText("\\* valued with a fallback price for at least one holding.")
	}
	return doc.String()
}

// Holdings renders the current position list.
func Holdings(holdings []tracker.Holding) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Holdings")
	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight,
		},
		Header: []string{"Asset", "Quantity", "Cost Basis", "Avg Cost", "Value", "Gain"},
	}
	for _, h := range holdings {
		gain := fmt.Sprintf("%s (%s)", h.UnrealizedGain.SignedString(), h.UnrealizedGainPct.SignedString())
		table.Rows = append(table.Rows, []string{
			h.AssetID,
			h.Quantity.String(),
			h.CostBasis.String(),
			h.AverageCost.String(),
			h.CurrentValue.String(),
			gain,
		})
	}
	doc.Table(table)
	return doc.String()
}
