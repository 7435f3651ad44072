package tracker

import (
	"fmt"
	"iter"
)

// Range represents an inclusive range of dates.
type Range struct{ From, To Date }

// NewRange creates a new date range. If 'from' is after 'to', they are swapped.
func NewRange(from, to Date) Range {
	if from.After(to) {
		from, to = to, from
	}
	return Range{From: from, To: to}
}

// Contains reports whether date is included in the range (boundaries included).
func (r Range) Contains(date Date) bool { return !date.Before(r.From) && !date.After(r.To) }

// Days returns an iterator that yields each date within the range, inclusive.
func (r Range) Days() iter.Seq[Date] {
	return func(yield func(Date) bool) {
		for d := r.From; !d.After(r.To); d = d.Add(1) {
			if !yield(d) {
				return
			}
		}
	}
}

// MonthEnds returns an iterator over every calendar month-end inside the
// range. When To itself is not a month-end it is yielded last, so a series
// always reaches the requested end date.
func (r Range) MonthEnds() iter.Seq[Date] {
	return func(yield func(Date) bool) {
		for d := r.From.EndOf(Monthly); !d.After(r.To); d = d.Add(1).EndOf(Monthly) {
			if !yield(d) {
				return
			}
		}
		if r.To != r.To.EndOf(Monthly) && !r.To.Before(r.From) {
			yield(r.To)
		}
	}
}

func (r Range) String() string {
	return fmt.Sprintf("%s..%s", r.From, r.To)
}
