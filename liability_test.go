package tracker

import (
	"fmt"
	"testing"
)

// mortgagePayments builds n monthly payments on the 1st starting January 2024,
// with principal rising $5 per month from $500.
func mortgagePayments(n int) []LiabilityPayment {
	payments := make([]LiabilityPayment, 0, n)
	for i := 0; i < n; i++ {
		payments = append(payments, LiabilityPayment{
			ID:            fmt.Sprintf("pay-%02d", i+1),
			LiabilityID:   "mortgage",
			Date:          NewDate(2024, 1, 1).AddMonth(i),
			PrincipalPaid: M(500+5*i, "USD"),
			InterestPaid:  M(1200, "USD"),
		})
	}
	return payments
}

func TestBalanceAt(t *testing.T) {
	mortgage := Liability{
		ID:      "mortgage",
		Balance: M(95000, "USD"),
	}

	testCases := []struct {
		name     string
		payments []LiabilityPayment
		target   Date
		want     Money
	}{
		{
			// Ten payments of 500..545 all fall after 2023, so the full
			// 5225 of principal is added back.
			name:     "before any payment",
			payments: mortgagePayments(10),
			target:   NewDate(2023, 12, 31),
			want:     M(100225, "USD"),
		},
		{
			// Mid-March: the Apr..Dec payments (515..555) are reversed,
			// adding back 4815.
			name:     "mid-series",
			payments: mortgagePayments(12),
			target:   NewDate(2024, 3, 15),
			want:     M(99815, "USD"),
		},
		{
			// A payment dated exactly on the target is already reflected
			// in the balance and must not be reversed.
			name:     "payment on the target date",
			payments: mortgagePayments(12),
			target:   NewDate(2024, 3, 1),
			want:     M(99815, "USD"),
		},
		{
			name:     "after every payment",
			payments: mortgagePayments(12),
			target:   NewDate(2024, 12, 31),
			want:     M(95000, "USD"),
		},
		{
			name:   "no payment history",
			target: NewDate(2020, 1, 1),
			want:   M(95000, "USD"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := BalanceAt(mortgage, tc.payments, tc.target)
			if !got.Equal(tc.want) {
				t.Errorf("BalanceAt(%s) = %s, want %s", tc.target, got, tc.want)
			}
		})
	}
}

func TestBalanceAt_Overpaid(t *testing.T) {
	// A final overpayment can push the balance negative; reconstruction
	// still works backwards through it.
	loan := Liability{ID: "loan", Balance: M(-120, "USD")}
	payments := []LiabilityPayment{
		{LiabilityID: "loan", Date: NewDate(2024, 5, 1), PrincipalPaid: M(1000, "USD")},
		{LiabilityID: "loan", Date: NewDate(2024, 6, 1), PrincipalPaid: M(1120, "USD")},
	}
	got := BalanceAt(loan, payments, NewDate(2024, 5, 10))
	if !got.Equal(M(1000, "USD")) {
		t.Errorf("balance = %s, want $1,000", got)
	}
}
