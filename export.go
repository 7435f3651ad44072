package tracker

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

// ChartRow is one day of exported chart data. Values are rounded to two
// decimals on export; re-importing an export reproduces the same rows.
type ChartRow struct {
	Date          Date
	Value         decimal.Decimal
	Change        decimal.Decimal
	ChangePct     decimal.Decimal
	CumulativePct decimal.Decimal
}

var csvHeader = []string{"date", "value", "day_change", "day_change_pct", "cumulative_return_pct"}

// WriteCSV exports a window of snapshots as row-per-day chart data. The
// cumulative-return column is expressed relative to the first row's value,
// not the portfolio's inception.
func WriteCSV(w io.Writer, snaps []PerformanceSnapshot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	var startValue decimal.Decimal
	if len(snaps) > 0 {
		startValue = snaps[0].TotalValue.Decimal()
	}
	for _, s := range snaps {
		value := s.TotalValue.Decimal()
		var cumulative decimal.Decimal
		if !startValue.IsZero() {
			cumulative = value.Sub(startValue).Div(startValue).Shift(2)
		}
		row := []string{
			s.Date.String(),
			value.StringFixed(2),
			s.DayChange.Decimal().StringFixed(2),
			decimal.NewFromFloat(float64(s.DayChangePct)).StringFixed(2),
			cumulative.StringFixed(2),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row for %s: %w", s.Date, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses chart data previously produced by WriteCSV.
func ReadCSV(r io.Reader) ([]ChartRow, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	rows := make([]ChartRow, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) != len(csvHeader) {
			return nil, fmt.Errorf("csv row %d: want %d columns, got %d", i+2, len(csvHeader), len(rec))
		}
		on, err := ParseDate(rec[0])
		if err != nil {
			return nil, fmt.Errorf("csv row %d: %w", i+2, err)
		}
		row := ChartRow{Date: on}
		for j, dst := range []*decimal.Decimal{&row.Value, &row.Change, &row.ChangePct, &row.CumulativePct} {
			d, err := decimal.NewFromString(rec[j+1])
			if err != nil {
				return nil, fmt.Errorf("csv row %d column %s: %w", i+2, csvHeader[j+1], err)
			}
			*dst = d
		}
		rows = append(rows, row)
	}
	return rows, nil
}
