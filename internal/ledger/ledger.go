package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/cashcopilot-dev/cashcopilot/internal/model"
)

// Stats holds quick totals over a ledger for display surfaces.
type Stats struct {
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"` // negative or zero
	Net           decimal.Decimal `json:"net"`
}

// Summarize computes income, expense and net totals.
func Summarize(txns []model.Transaction) Stats {
	var s Stats
	for _, t := range txns {
		if t.Amount.IsPositive() {
			s.TotalIncome = s.TotalIncome.Add(t.Amount)
		} else {
			s.TotalExpenses = s.TotalExpenses.Add(t.Amount)
		}
	}
	s.Net = s.TotalIncome.Add(s.TotalExpenses)
	return s
}

// WithBalance returns a copy of the ledger annotated with a running cash
// balance starting from startingBalance, in input order.
func WithBalance(txns []model.Transaction, startingBalance decimal.Decimal) []model.BalancedTransaction {
	out := make([]model.BalancedTransaction, 0, len(txns))
	balance := startingBalance
	for _, t := range txns {
		balance = balance.Add(t.Amount)
		out = append(out, model.BalancedTransaction{Transaction: t, Balance: balance})
	}
	return out
}
