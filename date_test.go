package tracker

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDate_Normalization(t *testing.T) {
	// Day 0 is the last day of the previous month.
	if got := NewDate(2024, 3, 0); got != NewDate(2024, 2, 29) {
		t.Errorf("NewDate(2024,3,0) = %s, want 2024-02-29", got)
	}
	if got := NewDate(2023, 13, 1); got != NewDate(2024, 1, 1) {
		t.Errorf("NewDate(2023,13,1) = %s, want 2024-01-01", got)
	}
}

func TestDate_DaysUntil(t *testing.T) {
	testCases := []struct {
		from, to string
		want     int
	}{
		{"2024-01-01", "2024-01-01", 0},
		{"2024-01-01", "2024-12-31", 365}, // leap year
		{"2023-01-01", "2023-12-31", 364},
		{"2024-06-10", "2024-06-09", -1},
	}
	for _, tc := range testCases {
		if got := MustParseDate(tc.from).DaysUntil(MustParseDate(tc.to)); got != tc.want {
			t.Errorf("DaysUntil(%s, %s) = %d, want %d", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestDate_EndOf(t *testing.T) {
	testCases := []struct {
		date   string
		period Period
		want   string
	}{
		{"2024-02-10", Monthly, "2024-02-29"},
		{"2023-02-10", Monthly, "2023-02-28"},
		{"2024-05-01", Quarterly, "2024-06-30"},
		{"2024-05-01", Yearly, "2024-12-31"},
		{"2024-05-01", Daily, "2024-05-01"},
	}
	for _, tc := range testCases {
		if got := MustParseDate(tc.date).EndOf(tc.period); got.String() != tc.want {
			t.Errorf("%s EndOf(%s) = %s, want %s", tc.date, tc.period, got, tc.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	// Lenient ISO.
	if got := MustParseDate("2025-7-1"); got != NewDate(2025, time.July, 1) {
		t.Errorf("lenient parse = %s", got)
	}
	// Relative offsets resolve against today.
	got, err := ParseDate("-30d")
	if err != nil {
		t.Fatalf("ParseDate(-30d): %v", err)
	}
	if want := Today().Add(-30); got != want {
		t.Errorf("-30d = %s, want %s", got, want)
	}
	if _, err := ParseDate("yesterday"); err == nil {
		t.Error("junk input should not parse")
	}
}

func TestDate_JSON(t *testing.T) {
	b, err := json.Marshal(NewDate(2024, 6, 9))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `"2024-06-09"` {
		t.Errorf("marshal = %s", b)
	}
	var d Date
	if err := json.Unmarshal([]byte(`"2024-6-9"`), &d); err != nil {
		t.Fatal(err)
	}
	if d != NewDate(2024, 6, 9) {
		t.Errorf("unmarshal = %s", d)
	}
}

func TestRange_MonthEnds(t *testing.T) {
	r := NewRange(MustParseDate("2024-01-15"), MustParseDate("2024-03-20"))
	var got []string
	for d := range r.MonthEnds() {
		got = append(got, d.String())
	}
	want := []string{"2024-01-31", "2024-02-29", "2024-03-20"}
	if len(got) != len(want) {
		t.Fatalf("month ends = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("month end %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestRange_Days(t *testing.T) {
	r := NewRange(MustParseDate("2024-02-27"), MustParseDate("2024-03-02"))
	n := 0
	for range r.Days() {
		n++
	}
	if n != 5 { // leap February
		t.Errorf("day count = %d, want 5", n)
	}
}
