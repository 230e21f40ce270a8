package model

import "github.com/shopspring/decimal"

// Frequency labels how often a recurring transaction lands.
type Frequency string

const (
	FrequencyWeekly    Frequency = "Weekly"
	FrequencyMonthly   Frequency = "Monthly"
	FrequencyIrregular Frequency = "Irregular"
)

// Confidence grades how sure the detector is that a group is recurring.
type Confidence string

const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceLow    Confidence = "Low"
)

// Rank orders confidence tiers for sorting: High < Medium < Low.
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceHigh:
		return 0
	case ConfidenceMedium:
		return 1
	case ConfidenceLow:
		return 2
	}
	return 3
}

// RecurringCandidate summarizes a transaction description that repeats
// often enough to look like a recurring obligation. Amounts are rounded
// to 2 decimal places. Recomputed fresh on every analysis run.
type RecurringCandidate struct {
	Description string          `json:"description"`
	Count       int             `json:"count"`
	AvgAmount   decimal.Decimal `json:"avg_amount"`
	MinAmount   decimal.Decimal `json:"min_amount"`
	MaxAmount   decimal.Decimal `json:"max_amount"`
	Frequency   Frequency       `json:"frequency"`
	Confidence  Confidence      `json:"confidence"`
}
