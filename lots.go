package tracker

import (
	"errors"
	"fmt"
	"sort"
)

// ErrOversell flags a disposal of more quantity than the live lots hold.
var ErrOversell = errors.New("disposal exceeds available quantity")

// TaxLot is a discrete purchase batch of an asset, tracked separately for
// cost-basis and holding-period purposes.
//
// Invariant: 0 <= RemainingQuantity <= OriginalQuantity.
type TaxLot struct {
	ID                string        `json:"id"`
	PurchaseDate      Date          `json:"purchaseDate"`
	PurchasePrice     Money         `json:"purchasePrice"`
	OriginalQuantity  Quantity      `json:"originalQuantity"`
	RemainingQuantity Quantity      `json:"remainingQuantity"`
	Grant             *GrantDetails `json:"grant,omitempty"`
	Note              string        `json:"note,omitempty"`
}

// CostBasis returns the cost of the still-held part of the lot.
func (l TaxLot) CostBasis() Money {
	return l.PurchasePrice.Mul(l.RemainingQuantity)
}

// Depleted reports whether the lot has been fully consumed.
func (l TaxLot) Depleted() bool { return l.RemainingQuantity.IsZero() }

// DaysHeld returns the number of whole days the lot has been held as of a
// given date.
func (l TaxLot) DaysHeld(asOf Date) int { return l.PurchaseDate.DaysUntil(asOf) }

// lotBook is the working set of lots for one (portfolio, asset) pair during a
// ledger replay. Lots stay in the book once depleted so the replay can report
// them, but disposals only see the live ones.
type lotBook struct {
	lots []TaxLot
}

// acquire opens a new lot at the end of the book. The book stays ordered by
// purchase date because the ledger is replayed chronologically.
func (b *lotBook) acquire(l TaxLot) {
	b.lots = append(b.lots, l)
}

// quantity returns the total remaining quantity across live lots.
func (b *lotBook) quantity() Quantity {
	var total Quantity
	for _, l := range b.lots {
		total = total.Add(l.RemainingQuantity)
	}
	return total
}

// costBasis returns the total cost of all live lots.
func (b *lotBook) costBasis() Money {
	var total Money
	for _, l := range b.lots {
		if !l.Depleted() {
			total = total.Add(l.CostBasis())
		}
	}
	return total
}

// dispose consumes quantity from the book under the given method. For
// SpecificLot the lotID selects the single lot to consume. Consuming more
// than the live lots hold is an oversell and leaves the book untouched.
func (b *lotBook) dispose(quantity Quantity, method DisposalMethod, lotID string) error {
	if quantity.GreaterThan(b.quantity()) {
		return fmt.Errorf("%w: want %s, have %s", ErrOversell, quantity, b.quantity())
	}

	order, err := b.disposalOrder(method, lotID)
	if err != nil {
		return err
	}

	// With SpecificLot the designated lot alone must cover the disposal.
	if method == SpecificLot {
		if remaining := b.lots[order[0]].RemainingQuantity; quantity.GreaterThan(remaining) {
			return fmt.Errorf("%w: lot %s holds %s, want %s", ErrOversell, lotID, remaining, quantity)
		}
	}

	for _, i := range order {
		if quantity.IsZero() {
			break
		}
		l := &b.lots[i]
		if l.Depleted() {
			continue
		}
		if l.RemainingQuantity.GreaterThan(quantity) {
			l.RemainingQuantity = l.RemainingQuantity.Sub(quantity)
			quantity = Q(0)
		} else {
			quantity = quantity.Sub(l.RemainingQuantity)
			l.RemainingQuantity = Q(0)
		}
	}
	return nil
}

// disposalOrder returns lot indices in consumption order for a method.
func (b *lotBook) disposalOrder(method DisposalMethod, lotID string) ([]int, error) {
	switch method {
	case FIFO, LIFO:
		order := make([]int, len(b.lots))
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(x, y int) bool {
			a, c := b.lots[order[x]], b.lots[order[y]]
			if method == FIFO {
				return a.PurchaseDate.Before(c.PurchaseDate)
			}
			return a.PurchaseDate.After(c.PurchaseDate)
		})
		return order, nil
	case SpecificLot:
		if lotID == "" {
			return nil, errors.New("specific-lot disposal without lot id")
		}
		for i, l := range b.lots {
			if l.ID == lotID {
				return []int{i}, nil
			}
		}
		return nil, fmt.Errorf("lot %q not found", lotID)
	default:
		return nil, fmt.Errorf("unknown disposal method %d", method)
	}
}

// split scales every lot by num/den, scaling the purchase price inversely so
// each lot's cost basis is preserved.
func (b *lotBook) split(num, den int64) {
	n, d := Q(num), Q(den)
	for i := range b.lots {
		l := &b.lots[i]
		l.RemainingQuantity = l.RemainingQuantity.Mul(n).Div(d)
		l.OriginalQuantity = l.OriginalQuantity.Mul(n).Div(d)
		l.PurchasePrice = l.PurchasePrice.Mul(d).Div(n)
	}
}

// live returns the non-depleted lots in purchase-date order.
func (b *lotBook) live() []TaxLot {
	out := make([]TaxLot, 0, len(b.lots))
	for _, l := range b.lots {
		if !l.Depleted() {
			out = append(out, l)
		}
	}
	return out
}
