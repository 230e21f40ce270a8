// Package analysis wires the full cashflow pipeline: categorize, detect
// recurring items, apply scenarios, forecast, generate insights. Each
// run is a pure function of its inputs; there is no shared state between
// runs, so analyses with different options never interfere.
package analysis

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/cashcopilot-dev/cashcopilot/internal/category"
	"github.com/cashcopilot-dev/cashcopilot/internal/forecast"
	"github.com/cashcopilot-dev/cashcopilot/internal/insights"
	"github.com/cashcopilot-dev/cashcopilot/internal/ledger"
	"github.com/cashcopilot-dev/cashcopilot/internal/model"
	"github.com/cashcopilot-dev/cashcopilot/internal/recurring"
	"github.com/cashcopilot-dev/cashcopilot/internal/scenario"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Options configures a pipeline run.
type Options struct {
	StartingBalance decimal.Decimal `json:"starting_balance"`
	HorizonDays     int             `json:"horizon_days" validate:"min=30,max=90"`
	MAWindow        int             `json:"ma_window" validate:"min=1"`
	MinCount        int             `json:"min_count" validate:"min=1"`
	Scenario        scenario.Params `json:"scenario"`

	// Rules optionally overrides the built-in categorization table.
	Rules *category.RuleSet `json:"-"`
}

// DefaultOptions returns the standard knob settings.
func DefaultOptions() Options {
	return Options{
		StartingBalance: decimal.NewFromFloat(25000.0),
		HorizonDays:     forecast.DefaultHorizonDays,
		MAWindow:        forecast.DefaultMAWindow,
		MinCount:        recurring.DefaultMinCount,
	}
}

// Validate checks the options against their allowed ranges.
func (o Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return nil
}

// Report is the full output of one analysis run.
type Report struct {
	Stats       ledger.Stats                   `json:"stats"`
	Categorized []model.CategorizedTransaction `json:"categorized"`
	Recurring   []model.RecurringCandidate     `json:"recurring"`
	Adjusted    []model.RecurringCandidate     `json:"adjusted"`
	Forecast    model.ForecastResult           `json:"forecast"`
	Insights    []string                       `json:"insights"`
}

// Run executes the pipeline over a cleaned ledger. An empty ledger
// yields a well-formed report with empty tables, not an error.
func Run(txns []model.Transaction, opts Options) (*Report, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	var categorized []model.CategorizedTransaction
	if opts.Rules != nil {
		categorized = category.CategorizeWith(txns, opts.Rules)
	} else {
		categorized = category.Categorize(txns)
	}
	candidates := recurring.Find(txns, opts.MinCount)
	adjusted := scenario.Apply(candidates, opts.Scenario)
	result := forecast.Project(
		txns,
		opts.StartingBalance,
		opts.HorizonDays,
		opts.MAWindow,
		adjusted,
		opts.Scenario.DelayRentDays,
		opts.Scenario.InvoiceEarlierDays,
	)

	return &Report{
		Stats:       ledger.Summarize(txns),
		Categorized: categorized,
		Recurring:   candidates,
		Adjusted:    adjusted,
		Forecast:    result,
		Insights:    insights.Generate(categorized, candidates, result),
	}, nil
}
