// Package scenario applies hypothetical what-if modifications to a
// detected recurring table. Scenarios are transient: they adjust a copy
// per run and are never persisted.
package scenario

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cashcopilot-dev/cashcopilot/internal/model"
)

// Params are the user-facing scenario knobs. ReduceAdsPercent scales the
// recurring table here; the date-shift knobs are consumed by the
// forecaster's scheduling step, since they change when an amount lands
// rather than its magnitude.
type Params struct {
	DelayRentDays      int `json:"delay_rent_days" yaml:"delay_rent_days" validate:"min=0,max=30"`
	ReduceAdsPercent   int `json:"reduce_ads_percent" yaml:"reduce_ads_percent" validate:"min=0,max=80"`
	InvoiceEarlierDays int `json:"invoice_earlier_days" yaml:"invoice_earlier_days" validate:"min=0,max=14"`
}

// adsMarker selects rows subject to the ads reduction.
const adsMarker = "GOOGLE ADS"

// Apply returns a copy of the recurring table with scenario adjustments
// applied: every row whose description contains "GOOGLE ADS"
// (case-insensitive) has its average amount scaled by
// (1 - ReduceAdsPercent/100). The input is never mutated. Empty input
// comes back unchanged.
func Apply(candidates []model.RecurringCandidate, params Params) []model.RecurringCandidate {
	if len(candidates) == 0 {
		return candidates
	}

	out := make([]model.RecurringCandidate, len(candidates))
	copy(out, candidates)

	if params.ReduceAdsPercent == 0 {
		return out
	}

	factor := decimal.NewFromInt(1).Sub(
		decimal.NewFromInt(int64(params.ReduceAdsPercent)).Div(decimal.NewFromInt(100)))
	for i := range out {
		if strings.Contains(strings.ToUpper(out[i].Description), adsMarker) {
			out[i].AvgAmount = out[i].AvgAmount.Mul(factor).Round(2)
		}
	}
	return out
}
