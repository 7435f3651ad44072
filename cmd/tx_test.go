package cmd

import (
	"testing"

	tracker "github.com/morgan8889/asset-portfolio-sub002"
)

func Test_parseWindow(t *testing.T) {
	r, all, err := parseWindow("", "2024-01-01", "2024-06-30")
	if err != nil {
		t.Fatalf("parseWindow: %v", err)
	}
	if all {
		t.Error("an explicit start date is not the full history")
	}
	want := tracker.NewRange(tracker.NewDate(2024, 1, 1), tracker.NewDate(2024, 6, 30))
	if r != want {
		t.Errorf("range = %s, want %s", r, want)
	}

	// -p buckets the end date into its calendar period.
	r, _, err = parseWindow("month", "", "2024-06-15")
	if err != nil {
		t.Fatal(err)
	}
	if r.From != tracker.NewDate(2024, 6, 1) || r.To != tracker.NewDate(2024, 6, 30) {
		t.Errorf("month window = %s", r)
	}

	// Neither -p nor -s means the full history.
	if _, all, err = parseWindow("", "", "0d"); err != nil || !all {
		t.Errorf("all = %v err = %v, want full history", all, err)
	}

	if _, _, err = parseWindow("fortnight", "", "0d"); err == nil {
		t.Error("unknown period should not parse")
	}
}
