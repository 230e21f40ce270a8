package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cashcopilot-dev/cashcopilot/internal/analysis"
	"github.com/cashcopilot-dev/cashcopilot/internal/ledger"
	"github.com/cashcopilot-dev/cashcopilot/internal/scenario"
)

// analyzeRequest carries the analysis knobs. Zero values fall back to
// the defaults, so every field is optional.
type analyzeRequest struct {
	StartingBalance    float64 `query:"starting_balance" form:"starting_balance"`
	HorizonDays        int     `query:"horizon_days" form:"horizon_days" validate:"omitempty,min=30,max=90"`
	MAWindow           int     `query:"ma_window" form:"ma_window" validate:"omitempty,min=1"`
	MinCount           int     `query:"min_count" form:"min_count" validate:"omitempty,min=1"`
	DelayRentDays      int     `query:"delay_rent_days" form:"delay_rent_days" validate:"min=0,max=30"`
	ReduceAdsPercent   int     `query:"reduce_ads_percent" form:"reduce_ads_percent" validate:"min=0,max=80"`
	InvoiceEarlierDays int     `query:"invoice_earlier_days" form:"invoice_earlier_days" validate:"min=0,max=14"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type analyzeHandler struct {
	log zerolog.Logger
}

// Analyze handles POST /api/analyze: a multipart upload with a "ledger"
// CSV file plus optional knob fields, returning the full analysis
// report as JSON.
func (h *analyzeHandler) Analyze(c echo.Context) error {
	var req analyzeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request parameters"})
	}
	// Bind does not consider query params on POST; accept the knobs
	// either way.
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request parameters"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	file, err := c.FormFile("ledger")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "ledger file is required"})
	}
	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "could not open ledger file"})
	}
	defer src.Close()

	txns, err := ledger.ReadTransactions(src)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	report, err := analysis.Run(txns, req.options())
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	h.log.Info().
		Int("transactions", len(txns)).
		Int("recurring", len(report.Recurring)).
		Msg("Analysis complete")

	return c.JSON(http.StatusOK, report)
}

func (r analyzeRequest) options() analysis.Options {
	opts := analysis.DefaultOptions()
	if r.StartingBalance != 0 {
		opts.StartingBalance = decimal.NewFromFloat(r.StartingBalance)
	}
	if r.HorizonDays != 0 {
		opts.HorizonDays = r.HorizonDays
	}
	if r.MAWindow != 0 {
		opts.MAWindow = r.MAWindow
	}
	if r.MinCount != 0 {
		opts.MinCount = r.MinCount
	}
	opts.Scenario = scenario.Params{
		DelayRentDays:      r.DelayRentDays,
		ReduceAdsPercent:   r.ReduceAdsPercent,
		InvoiceEarlierDays: r.InvoiceEarlierDays,
	}
	return opts
}
