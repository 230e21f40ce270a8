package forecast

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cashcopilot-dev/cashcopilot/internal/model"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func txn(d time.Time, desc, amount string) model.Transaction {
	return model.Transaction{Date: d, Description: desc, Amount: dec(amount)}
}

// 14 days of a constant -50 daily net flow ending Jan 14.
func constantHistory() []model.Transaction {
	var txns []model.Transaction
	for d := 1; d <= 14; d++ {
		txns = append(txns, txn(date(2025, 1, d), fmt.Sprintf("DAILY SPEND %d", d), "-50.00"))
	}
	return txns
}

func TestProject_MonotonicCumulation(t *testing.T) {
	result := Project(constantHistory(), dec("100.00"), 30, 14, nil, 0, 0)

	require.Len(t, result.Projection, 30)

	// Constant net n per day: balance on day k = starting + k*n.
	assert.Equal(t, "50.00", result.Projection[0].PredictedBalance.StringFixed(2))
	assert.Equal(t, "-1400.00", result.Projection[29].PredictedBalance.StringFixed(2))
	for _, p := range result.Projection {
		assert.Equal(t, "-50.00", p.PredictedNet.StringFixed(2))
	}

	// Dates strictly increasing, starting the day after the last txn.
	assert.Equal(t, date(2025, 1, 15), result.Projection[0].Date)
	for i := 1; i < len(result.Projection); i++ {
		assert.True(t, result.Projection[i].Date.After(result.Projection[i-1].Date))
	}
}

func TestProject_NegativeBalanceDetection(t *testing.T) {
	result := Project(constantHistory(), dec("100.00"), 30, 14, nil, 0, 0)

	// Balances 50, 0, -50: first negative at offset 2.
	require.NotNil(t, result.DaysToNegative)
	assert.Equal(t, 2, *result.DaysToNegative)

	require.NotNil(t, result.MinBalance)
	assert.Equal(t, "-1400.00", result.MinBalance.StringFixed(2))
}

func TestProject_EmptyInput(t *testing.T) {
	result := Project(nil, dec("25000.00"), 60, 14, nil, 0, 0)

	assert.Equal(t, "25000.00", result.CurrentBalance.StringFixed(2))
	assert.Empty(t, result.Projection)
	assert.Nil(t, result.MinBalance)
	assert.Nil(t, result.DaysToNegative)
}

func TestProject_ShortHistoryFallsBackToFullMean(t *testing.T) {
	txns := []model.Transaction{
		txn(date(2025, 1, 1), "A", "-10.00"),
		txn(date(2025, 1, 2), "B", "-20.00"),
		txn(date(2025, 1, 3), "C", "-30.00"),
	}

	result := Project(txns, dec("1000.00"), 30, 14, nil, 0, 0)
	require.NotEmpty(t, result.Projection)
	assert.Equal(t, "-20.00", result.Projection[0].PredictedNet.StringFixed(2))
}

func TestProject_GapsFilledWithZero(t *testing.T) {
	// Two txns 10 days apart: 10-day series summing -200, mean -20.
	txns := []model.Transaction{
		txn(date(2025, 1, 1), "A", "-100.00"),
		txn(date(2025, 1, 10), "B", "-100.00"),
	}

	result := Project(txns, dec("1000.00"), 30, 14, nil, 0, 0)
	require.NotEmpty(t, result.Projection)
	assert.Equal(t, "-20.00", result.Projection[0].PredictedNet.StringFixed(2))
}

func TestProject_RentDelayScheduling(t *testing.T) {
	txns := []model.Transaction{
		txn(date(2025, 1, 1), "OFFICE RENT", "-1200.00"),
		txn(date(2025, 2, 1), "OFFICE RENT", "-1200.00"),
		txn(date(2025, 3, 1), "OFFICE RENT", "-1200.00"),
	}
	candidates := []model.RecurringCandidate{
		{Description: "OFFICE RENT", Count: 3, AvgAmount: dec("-1200.00"), Frequency: model.FrequencyMonthly},
	}

	// Horizon starts Mar 2. Without a delay the April occurrence lands on
	// the 1st (median historical day-of-month).
	plain := Project(txns, dec("10000.00"), 60, 14, candidates, 0, 0)
	baseline := plain.Projection[0].PredictedNet // Mar 2, nothing scheduled
	apr1 := pointOn(t, plain, date(2025, 4, 1))
	assert.Equal(t, baseline.Add(dec("-1200.00")).StringFixed(2), apr1.PredictedNet.StringFixed(2))

	// With a 5-day delay the rent lands on the 6th instead.
	delayed := Project(txns, dec("10000.00"), 60, 14, candidates, 5, 0)
	mar6 := pointOn(t, delayed, date(2025, 3, 6))
	apr6 := pointOn(t, delayed, date(2025, 4, 6))
	assert.Equal(t, baseline.Add(dec("-1200.00")).StringFixed(2), mar6.PredictedNet.StringFixed(2))
	assert.Equal(t, baseline.Add(dec("-1200.00")).StringFixed(2), apr6.PredictedNet.StringFixed(2))
	apr1 = pointOn(t, delayed, date(2025, 4, 1))
	assert.Equal(t, baseline.StringFixed(2), apr1.PredictedNet.StringFixed(2))
}

func TestProject_InvoiceEarlierShiftAndDrop(t *testing.T) {
	txns := []model.Transaction{
		txn(date(2025, 1, 15), "CLIENT INVOICE", "5000.00"),
		txn(date(2025, 2, 15), "CLIENT INVOICE", "5000.00"),
		txn(date(2025, 3, 15), "CLIENT INVOICE", "5000.00"),
	}
	candidates := []model.RecurringCandidate{
		{Description: "CLIENT INVOICE", Count: 3, AvgAmount: dec("5000.00"), Frequency: model.FrequencyMonthly},
	}

	// Horizon Mar 16 - Apr 14: the April 15 occurrence falls just
	// outside and is dropped.
	plain := Project(txns, dec("1000.00"), 30, 14, candidates, 0, 0)
	baseline := plain.Projection[0].PredictedNet
	for _, p := range plain.Projection {
		assert.Equal(t, baseline.StringFixed(2), p.PredictedNet.StringFixed(2))
	}

	// Pulling invoices 5 days earlier brings it to April 10, inside the
	// horizon.
	earlier := Project(txns, dec("1000.00"), 30, 14, candidates, 0, 5)
	apr10 := pointOn(t, earlier, date(2025, 4, 10))
	assert.Equal(t, baseline.Add(dec("5000.00")).StringFixed(2), apr10.PredictedNet.StringFixed(2))
}

func TestProject_DayOfMonthClampedToMonthEnd(t *testing.T) {
	txns := []model.Transaction{
		txn(date(2025, 1, 31), "STORAGE UNIT", "-100.00"),
		txn(date(2025, 3, 31), "STORAGE UNIT", "-100.00"),
		txn(date(2025, 5, 31), "STORAGE UNIT", "-100.00"),
	}
	candidates := []model.RecurringCandidate{
		{Description: "STORAGE UNIT", Count: 3, AvgAmount: dec("-100.00"), Frequency: model.FrequencyMonthly},
	}

	// June has 30 days: the day-31 item lands on the 30th.
	result := Project(txns, dec("1000.00"), 30, 14, candidates, 0, 0)
	baseline := result.Projection[0].PredictedNet
	jun30 := pointOn(t, result, date(2025, 6, 30))
	assert.Equal(t, baseline.Add(dec("-100.00")).StringFixed(2), jun30.PredictedNet.StringFixed(2))
}

func TestProject_UnlabeledFrequencyTreatedAsMonthly(t *testing.T) {
	txns := []model.Transaction{
		txn(date(2025, 1, 10), "MYSTERY SUB", "-200.00"),
		txn(date(2025, 2, 10), "MYSTERY SUB", "-200.00"),
		txn(date(2025, 3, 10), "MYSTERY SUB", "-200.00"),
	}
	candidates := []model.RecurringCandidate{
		{Description: "MYSTERY SUB", Count: 3, AvgAmount: dec("-200.00"), Frequency: ""},
		{Description: "COFFEE RUN", Count: 5, AvgAmount: dec("-8.00"), Frequency: model.FrequencyWeekly},
	}

	result := Project(txns, dec("1000.00"), 31, 14, candidates, 0, 0)
	baseline := result.Projection[0].PredictedNet
	apr10 := pointOn(t, result, date(2025, 4, 10))
	// Only the unlabeled item is scheduled; the weekly row is not.
	assert.Equal(t, baseline.Add(dec("-200.00")).StringFixed(2), apr10.PredictedNet.StringFixed(2))
	for _, p := range result.Projection {
		if !p.Date.Equal(date(2025, 4, 10)) {
			assert.Equal(t, baseline.StringFixed(2), p.PredictedNet.StringFixed(2))
		}
	}
}

func pointOn(t *testing.T, result model.ForecastResult, day time.Time) model.DailyPoint {
	t.Helper()
	for _, p := range result.Projection {
		if p.Date.Equal(day) {
			return p
		}
	}
	t.Fatalf("no projection point on %s", day.Format("2006-01-02"))
	return model.DailyPoint{}
}
