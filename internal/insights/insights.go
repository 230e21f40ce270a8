// Package insights turns analysis results into short human-readable
// strings: a bridge from raw numbers to something a business owner can
// act on at a glance.
package insights

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cashcopilot-dev/cashcopilot/internal/model"
)

// Generate produces insight strings from the categorized ledger, the
// recurring table and the forecast result. Always returns at least one
// string per input surface, so empty datasets still produce readable
// output.
func Generate(
	categorized []model.CategorizedTransaction,
	candidates []model.RecurringCandidate,
	result model.ForecastResult,
) []string {
	var out []string

	if cat, ok := biggestSpendCategory(categorized); ok {
		out = append(out, fmt.Sprintf("Your biggest spending category is %s.", cat))
	} else {
		out = append(out, "No expenses detected in the dataset.")
	}

	if len(candidates) > 0 {
		out = append(out, fmt.Sprintf("You have %d recurring transactions worth reviewing.", len(candidates)))
	} else {
		out = append(out, "No clear recurring transactions detected.")
	}

	out = append(out, fmt.Sprintf("Your current balance is $%s.", result.CurrentBalance.StringFixed(2)))

	switch {
	case result.DaysToNegative != nil:
		out = append(out, fmt.Sprintf(
			"At the current pace your balance is projected to go negative in %d days.",
			*result.DaysToNegative))
	case result.MinBalance != nil:
		out = append(out, fmt.Sprintf(
			"Your projected balance stays positive; the low point is $%s.",
			result.MinBalance.StringFixed(2)))
	}

	return out
}

// biggestSpendCategory finds the category with the largest total
// outflow. Rows categorized as income are excluded even when negative.
func biggestSpendCategory(categorized []model.CategorizedTransaction) (string, bool) {
	totals := make(map[string]decimal.Decimal)
	for _, t := range categorized {
		if !t.Amount.IsNegative() || t.Category == "Income" {
			continue
		}
		totals[t.Category] = totals[t.Category].Add(t.Amount)
	}
	if len(totals) == 0 {
		return "", false
	}

	var best string
	var bestTotal decimal.Decimal
	first := true
	for cat, total := range totals {
		if first || total.LessThan(bestTotal) || (total.Equal(bestTotal) && cat < best) {
			best, bestTotal = cat, total
			first = false
		}
	}
	return best, true
}
