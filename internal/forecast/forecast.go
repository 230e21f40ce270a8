// Package forecast projects a daily cash-balance trajectory from
// historical net flow and a detected recurring schedule.
package forecast

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cashcopilot-dev/cashcopilot/internal/model"
)

// Defaults for the forecast knobs when the caller passes zero values.
const (
	DefaultHorizonDays = 60
	DefaultMAWindow    = 14
)

// Substrings selecting recurring rows subject to date-shift scenarios.
const (
	rentMarker    = "RENT"
	invoiceMarker = "INVOICE"
)

// Project forecasts the daily cash balance over horizonDays starting the
// day after the last dated transaction. The baseline predicted net per
// day is the trailing moving average of the last maWindow days of
// historical daily net flow; monthly recurring items are layered on top
// at their median historical day-of-month, clamped to the month's end.
// DelayRentDays shifts occurrences of "RENT" rows forward, and
// invoiceEarlierDays shifts "INVOICE" rows backward; shifted dates
// falling outside the horizon are dropped. Monetary outputs are rounded
// to 2 decimal places at the result boundary only.
//
// With no dated transactions the result carries the starting balance, an
// empty projection and nil risk metrics.
func Project(
	txns []model.Transaction,
	startingBalance decimal.Decimal,
	horizonDays, maWindow int,
	candidates []model.RecurringCandidate,
	delayRentDays, invoiceEarlierDays int,
) model.ForecastResult {
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}
	if maWindow <= 0 {
		maWindow = DefaultMAWindow
	}

	daily, lastDate := dailyNetFlow(txns)
	if len(daily) == 0 {
		return model.ForecastResult{
			CurrentBalance: startingBalance.Round(2),
			Projection:     []model.DailyPoint{},
		}
	}

	baseline := trailingMean(daily, maWindow)

	start := lastDate.AddDate(0, 0, 1)
	end := lastDate.AddDate(0, 0, horizonDays)
	adjustments := scheduleRecurring(txns, candidates, start, end, delayRentDays, invoiceEarlierDays)

	projection := make([]model.DailyPoint, 0, horizonDays)
	balance := startingBalance
	var minBalance decimal.Decimal
	var daysToNegative *int
	for i := 0; i < horizonDays; i++ {
		day := start.AddDate(0, 0, i)
		net := baseline
		if adj, ok := adjustments[dayKey(day)]; ok {
			net = net.Add(adj)
		}
		balance = balance.Add(net)
		if i == 0 || balance.LessThan(minBalance) {
			minBalance = balance
		}
		if daysToNegative == nil && balance.IsNegative() {
			offset := i
			daysToNegative = &offset
		}
		projection = append(projection, model.DailyPoint{
			Date:             day,
			PredictedNet:     net.Round(2),
			PredictedBalance: balance.Round(2),
		})
	}

	minRounded := minBalance.Round(2)
	return model.ForecastResult{
		CurrentBalance: startingBalance.Round(2),
		Projection:     projection,
		MinBalance:     &minRounded,
		DaysToNegative: daysToNegative,
	}
}

// dailyNetFlow sums amounts per calendar day and reindexes them to a
// continuous daily series from the first to the last dated transaction,
// filling gaps with zero. Returns the series in date order and the last
// transaction date.
func dailyNetFlow(txns []model.Transaction) ([]decimal.Decimal, time.Time) {
	sums := make(map[string]decimal.Decimal)
	var first, last time.Time
	for _, t := range txns {
		if !t.Dated() {
			continue
		}
		day := truncateDay(t.Date)
		sums[dayKey(day)] = sums[dayKey(day)].Add(t.Amount)
		if first.IsZero() || day.Before(first) {
			first = day
		}
		if last.IsZero() || day.After(last) {
			last = day
		}
	}
	if len(sums) == 0 {
		return nil, time.Time{}
	}

	var series []decimal.Decimal
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		series = append(series, sums[dayKey(day)])
	}
	return series, last
}

// trailingMean averages the last window entries, or all of them when the
// history is shorter than the window.
func trailingMean(series []decimal.Decimal, window int) decimal.Decimal {
	if len(series) < window {
		window = len(series)
	}
	sum := decimal.Zero
	for _, v := range series[len(series)-window:] {
		sum = sum.Add(v)
	}
	return sum.Div(decimal.NewFromInt(int64(window)))
}

// scheduleRecurring places each monthly recurring item's average amount
// on its representative day-of-month for every month overlapping
// [start, end], applies the scenario date shifts, and sums contributions
// per day. Rows without a frequency label are treated as monthly; Weekly
// and Irregular rows are not scheduled.
func scheduleRecurring(
	txns []model.Transaction,
	candidates []model.RecurringCandidate,
	start, end time.Time,
	delayRentDays, invoiceEarlierDays int,
) map[string]decimal.Decimal {
	adjustments := make(map[string]decimal.Decimal)
	if len(candidates) == 0 {
		return adjustments
	}

	domByDesc := medianDayByDescription(txns)

	for _, c := range candidates {
		if c.Frequency != model.FrequencyMonthly && c.Frequency != "" {
			continue
		}
		dom, ok := domByDesc[c.Description]
		if !ok {
			dom = 1
		}

		upper := strings.ToUpper(c.Description)
		for month := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC); !month.After(end); month = month.AddDate(0, 1, 0) {
			day := dom
			if last := lastDayOfMonth(month); day > last {
				day = last
			}
			occ := time.Date(month.Year(), month.Month(), day, 0, 0, 0, 0, time.UTC)

			if delayRentDays > 0 && strings.Contains(upper, rentMarker) {
				occ = occ.AddDate(0, 0, delayRentDays)
			}
			if invoiceEarlierDays > 0 && strings.Contains(upper, invoiceMarker) {
				occ = occ.AddDate(0, 0, -invoiceEarlierDays)
			}
			if occ.Before(start) || occ.After(end) {
				continue
			}
			adjustments[dayKey(occ)] = adjustments[dayKey(occ)].Add(c.AvgAmount)
		}
	}
	return adjustments
}

// medianDayByDescription computes the median day-of-month of each
// description's dated occurrences, rounded half-up to an integer day.
func medianDayByDescription(txns []model.Transaction) map[string]int {
	days := make(map[string][]float64)
	for _, t := range txns {
		if !t.Dated() {
			continue
		}
		days[t.Description] = append(days[t.Description], float64(t.Date.Day()))
	}

	out := make(map[string]int, len(days))
	for desc, ds := range days {
		sort.Float64s(ds)
		var med float64
		n := len(ds)
		if n%2 == 1 {
			med = ds[n/2]
		} else {
			med = (ds[n/2-1] + ds[n/2]) / 2
		}
		out[desc] = int(med + 0.5)
	}
	return out
}

func lastDayOfMonth(month time.Time) int {
	return time.Date(month.Year(), month.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
