package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a cleaned bank ledger row.
type Transaction struct {
	Date        time.Time       `json:"date"` // zero value = date missing or unparseable
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"` // negative = expense, positive = income
}

// Dated reports whether the transaction carries a usable date. Rows
// without one are kept for categorization but excluded from recurrence
// detection and forecasting.
func (t Transaction) Dated() bool {
	return !t.Date.IsZero()
}

// CategorizedTransaction is a Transaction augmented with a merchant key
// and a spending category.
type CategorizedTransaction struct {
	Transaction
	Merchant string `json:"merchant"`
	Category string `json:"category"`
}

// BalancedTransaction is a Transaction with a running cash balance,
// used by display surfaces.
type BalancedTransaction struct {
	Transaction
	Balance decimal.Decimal `json:"balance"`
}
