package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyPoint is one day of a projected cash trajectory.
type DailyPoint struct {
	Date             time.Time       `json:"date"`
	PredictedNet     decimal.Decimal `json:"predicted_net"`
	PredictedBalance decimal.Decimal `json:"predicted_balance"`
}

// ForecastResult is the output of a forecast run. Projection is strictly
// increasing in date. MinBalance and DaysToNegative are nil when there is
// no transaction history to project from. DaysToNegative is the 0-based
// offset of the first projected day with a negative balance.
type ForecastResult struct {
	CurrentBalance decimal.Decimal  `json:"current_balance"`
	Projection     []DailyPoint     `json:"projection"`
	MinBalance     *decimal.Decimal `json:"min_balance,omitempty"`
	DaysToNegative *int             `json:"days_to_negative,omitempty"`
}
