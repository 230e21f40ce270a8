// Package recurring detects transaction descriptions that repeat on a
// schedule: rent, payroll, subscriptions, recurring client payments.
package recurring

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cashcopilot-dev/cashcopilot/internal/model"
)

// DefaultMinCount is the occurrence floor below which a description is
// not considered recurring.
const DefaultMinCount = 3

// stabilityThreshold is the max (max-min)/mean(|amount|) ratio for the
// amount-stability heuristic.
var stabilityThreshold = decimal.NewFromFloat(0.05)

// Find groups transactions by exact description and returns the groups
// that occur at least minCount times, summarized with amount statistics,
// an inferred frequency and a confidence tier. Rows without a date or
// description are ignored. The result is ordered by confidence tier
// (High, Medium, Low) then by descending absolute average amount; ties
// fall back to description order. An empty input yields an empty,
// non-nil result.
func Find(txns []model.Transaction, minCount int) []model.RecurringCandidate {
	if minCount <= 0 {
		minCount = DefaultMinCount
	}

	groups := make(map[string][]model.Transaction)
	for _, t := range txns {
		if !t.Dated() || t.Description == "" {
			continue
		}
		groups[t.Description] = append(groups[t.Description], t)
	}

	descs := make([]string, 0, len(groups))
	for d := range groups {
		descs = append(descs, d)
	}
	sort.Strings(descs)

	out := make([]model.RecurringCandidate, 0, len(descs))
	for _, desc := range descs {
		g := groups[desc]
		if len(g) < minCount {
			continue
		}

		sum := decimal.Zero
		min := g[0].Amount
		max := g[0].Amount
		dates := make([]time.Time, 0, len(g))
		amounts := make([]decimal.Decimal, 0, len(g))
		for _, t := range g {
			sum = sum.Add(t.Amount)
			if t.Amount.LessThan(min) {
				min = t.Amount
			}
			if t.Amount.GreaterThan(max) {
				max = t.Amount
			}
			dates = append(dates, t.Date)
			amounts = append(amounts, t.Amount)
		}
		avg := sum.Div(decimal.NewFromInt(int64(len(g))))

		out = append(out, model.RecurringCandidate{
			Description: desc,
			Count:       len(g),
			AvgAmount:   avg.Round(2),
			MinAmount:   min.Round(2),
			MaxAmount:   max.Round(2),
			Frequency:   InferFrequency(dates, amounts),
			Confidence:  confidenceFromCount(len(g)),
		})
	}

	// Stable sort over the description-ordered slice keeps ties
	// alphabetical.
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := out[i].Confidence.Rank(), out[j].Confidence.Rank()
		if ri != rj {
			return ri < rj
		}
		return out[i].AvgAmount.Abs().GreaterThan(out[j].AvgAmount.Abs())
	})
	return out
}

// InferFrequency labels a group's cadence from its dates and amounts.
// The checks run as an ordered fallback chain, returning on the first
// success:
//
//  1. Amount stability: amounts within 5% of their mean magnitude across
//     at least 2 distinct months reads as Monthly. This catches rent
//     whose billing day drifts (3rd vs 30th) but whose amount barely
//     moves.
//  2. Day-of-month proximity: at least 60% of occurrences within 6 days
//     of the median day, across at least 2 months, reads as Monthly.
//  3. Median gap between consecutive dates: 6-8 days is Weekly, 27-33
//     days is Monthly.
//
// Anything else is Irregular.
func InferFrequency(dates []time.Time, amounts []decimal.Decimal) model.Frequency {
	ds := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		if !d.IsZero() {
			ds = append(ds, d)
		}
	}
	if len(ds) < 2 {
		return model.FrequencyIrregular
	}
	sort.Slice(ds, func(i, j int) bool { return ds[i].Before(ds[j]) })

	months := distinctMonths(ds)

	if len(amounts) >= 2 {
		min, max := amounts[0], amounts[0]
		sumAbs := decimal.Zero
		for _, a := range amounts {
			if a.LessThan(min) {
				min = a
			}
			if a.GreaterThan(max) {
				max = a
			}
			sumAbs = sumAbs.Add(a.Abs())
		}
		meanAbs := sumAbs.Div(decimal.NewFromInt(int64(len(amounts))))
		if meanAbs.IsZero() {
			meanAbs = decimal.NewFromInt(1)
		}
		stable := max.Sub(min).Div(meanAbs).LessThanOrEqual(stabilityThreshold)
		if months >= 2 && stable {
			return model.FrequencyMonthly
		}
	}

	if months >= 2 {
		days := make([]float64, len(ds))
		for i, d := range ds {
			days[i] = float64(d.Day())
		}
		med := median(days)
		close := 0
		for _, day := range days {
			diff := day - med
			if diff < 0 {
				diff = -diff
			}
			if diff <= 6 {
				close++
			}
		}
		if float64(close)/float64(len(days)) >= 0.6 {
			return model.FrequencyMonthly
		}
	}

	gaps := make([]float64, 0, len(ds)-1)
	for i := 1; i < len(ds); i++ {
		gaps = append(gaps, float64(daysBetween(ds[i-1], ds[i])))
	}
	if len(gaps) == 0 {
		return model.FrequencyIrregular
	}
	medianGap := median(gaps)
	switch {
	case medianGap >= 6 && medianGap <= 8:
		return model.FrequencyWeekly
	case medianGap >= 27 && medianGap <= 33:
		return model.FrequencyMonthly
	}
	return model.FrequencyIrregular
}

func confidenceFromCount(count int) model.Confidence {
	switch {
	case count >= 5:
		return model.ConfidenceHigh
	case count >= 3:
		return model.ConfidenceMedium
	}
	return model.ConfidenceLow
}

func distinctMonths(dates []time.Time) int {
	seen := make(map[int]struct{})
	for _, d := range dates {
		seen[d.Year()*100+int(d.Month())] = struct{}{}
	}
	return len(seen)
}

// median of an unsorted slice; the mean of the two middle values for an
// even count.
func median(vals []float64) float64 {
	s := make([]float64, len(vals))
	copy(s, vals)
	sort.Float64s(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}

func daysBetween(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bd.Sub(ad) / (24 * time.Hour))
}
