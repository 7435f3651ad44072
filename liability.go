package tracker

import (
	"github.com/shopspring/decimal"
)

// Liability is a debt whose Balance is the current ledger head. Historical
// balances are reconstructed from the payment log, never stored.
type Liability struct {
	ID           string          `json:"id"`
	PortfolioID  string          `json:"portfolioId"`
	Name         string          `json:"name,omitempty"`
	Balance      Money           `json:"balance"`
	InterestRate decimal.Decimal `json:"interestRate,omitempty"`
	Payment      Money           `json:"payment,omitempty"`
	StartDate    Date            `json:"startDate,omitzero"`
	TermMonths   int             `json:"termMonths,omitempty"`
}

// LiabilityPayment is an immutable, append-only event recording how a payment
// split between principal and interest, and the balance it left behind.
type LiabilityPayment struct {
	ID               string `json:"id"`
	LiabilityID      string `json:"liabilityId"`
	Date             Date   `json:"date"`
	PrincipalPaid    Money  `json:"principalPaid"`
	InterestPaid     Money  `json:"interestPaid,omitempty"`
	RemainingBalance Money  `json:"remainingBalance,omitempty"`
}

// BalanceAt reconstructs the liability's balance as it stood at target.
//
// Each payment recorded PrincipalPaid as the amount by which the balance
// decreased on its date, so starting from the current balance and adding back
// the principal of every payment dated strictly after target recovers the
// balance at that date. Payments dated exactly on target are already
// reflected in the current balance and are not reversed. Plain decimal
// addition handles irregular payments, refinance lump sums and overpaid
// (negative) balances without special cases.
func BalanceAt(l Liability, payments []LiabilityPayment, target Date) Money {
	balance := l.Balance
	for _, p := range payments {
		if p.Date.After(target) {
			balance = balance.Add(p.PrincipalPaid)
		}
	}
	return balance
}
