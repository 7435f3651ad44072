package renderer

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"

	tracker "github.com/morgan8889/asset-portfolio-sub002"
)

// Tax renders the unrealized tax exposure and the lots about to turn
// long-term.
func Tax(exp tracker.TaxExposure, aging []tracker.AgingLot) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Tax Exposure as of %s", exp.AsOf))
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{md.Bold("Estimated Tax"), md.Bold(exp.EstimatedTax.String())},
		Rows: [][]string{
			{"Short-Term Gains", exp.ShortTermGains.String()},
			{"Short-Term Losses", exp.ShortTermLosses.String()},
			{"Long-Term Gains", exp.LongTermGains.String()},
			{"Long-Term Losses", exp.LongTermLosses.String()},
			{"Effective Rate", exp.EffectiveRate.String()},
		},
	})

	if len(aging) == 0 {
		return doc.String()
	}

	doc.H2("Approaching Long-Term")
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight},
		Header:    []string{"Asset", "Days Held", "Days To Go", "Unrealized Gain"},
	}
	for _, a := range aging {
		table.Rows = append(table.Rows, []string{
			a.AssetID,
			fmt.Sprintf("%d", a.DaysHeld),
			fmt.Sprintf("%d", a.DaysToLongTerm),
			a.UnrealizedGain.SignedString(),
		})
	}
	doc.Table(table)
	return doc.String()
}
