package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cashcopilot-dev/cashcopilot/internal/analysis"
	"github.com/cashcopilot-dev/cashcopilot/internal/category"
	"github.com/cashcopilot-dev/cashcopilot/internal/config"
	"github.com/cashcopilot-dev/cashcopilot/internal/ledger"
)

func newAnalyzeCommand() *cobra.Command {
	var (
		configPath         string
		startingBalance    float64
		horizonDays        int
		maWindow           int
		minCount           int
		delayRentDays      int
		reduceAdsPercent   int
		invoiceEarlierDays int
		asJSON             bool
	)

	cmd := &cobra.Command{
		Use:   "analyze <ledger.csv>",
		Short: "Analyze a bank transaction ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := analysis.DefaultOptions()
			if configPath != "" {
				cfg, err := config.Load(configPath)
				if err != nil {
					return err
				}
				opts = cfg.Options()
				if cfg.Rules.Path != "" {
					rs, err := category.LoadRules(cfg.Rules.Path)
					if err != nil {
						return err
					}
					opts.Rules = rs
				}
			}
			if cmd.Flags().Changed("starting-balance") {
				opts.StartingBalance = decimal.NewFromFloat(startingBalance)
			}
			if cmd.Flags().Changed("horizon") {
				opts.HorizonDays = horizonDays
			}
			if cmd.Flags().Changed("ma-window") {
				opts.MAWindow = maWindow
			}
			if cmd.Flags().Changed("min-count") {
				opts.MinCount = minCount
			}
			if cmd.Flags().Changed("delay-rent-days") {
				opts.Scenario.DelayRentDays = delayRentDays
			}
			if cmd.Flags().Changed("reduce-ads-percent") {
				opts.Scenario.ReduceAdsPercent = reduceAdsPercent
			}
			if cmd.Flags().Changed("invoice-earlier-days") {
				opts.Scenario.InvoiceEarlierDays = invoiceEarlierDays
			}

			return runAnalyze(cmd, args[0], opts, asJSON)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to copilot.yaml")
	cmd.Flags().Float64Var(&startingBalance, "starting-balance", 25000.0, "starting cash balance")
	cmd.Flags().IntVar(&horizonDays, "horizon", 60, "forecast horizon in days (30-90)")
	cmd.Flags().IntVar(&maWindow, "ma-window", 14, "moving average window in days")
	cmd.Flags().IntVar(&minCount, "min-count", 3, "min occurrences for a recurring item")
	cmd.Flags().IntVar(&delayRentDays, "delay-rent-days", 0, "scenario: delay rent by N days (0-30)")
	cmd.Flags().IntVar(&reduceAdsPercent, "reduce-ads-percent", 0, "scenario: cut ad spend by N percent (0-80)")
	cmd.Flags().IntVar(&invoiceEarlierDays, "invoice-earlier-days", 0, "scenario: collect invoices N days earlier (0-14)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the full report as JSON")

	return cmd
}

func runAnalyze(cmd *cobra.Command, path string, opts analysis.Options, asJSON bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}
	defer f.Close()

	txns, err := ledger.ReadTransactions(f)
	if err != nil {
		return err
	}

	report, err := analysis.Run(txns, opts)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	printReport(cmd, report)
	return nil
}

func printReport(cmd *cobra.Command, report *analysis.Report) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Transactions: %d\n", len(report.Categorized))
	fmt.Fprintf(out, "Total income:   $%s\n", report.Stats.TotalIncome.StringFixed(2))
	fmt.Fprintf(out, "Total expenses: $%s\n", report.Stats.TotalExpenses.StringFixed(2))
	fmt.Fprintf(out, "Net:            $%s\n\n", report.Stats.Net.StringFixed(2))

	fmt.Fprintln(out, "Recurring items:")
	if len(report.Adjusted) == 0 {
		fmt.Fprintln(out, "  none detected")
	} else {
		tw := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "  DESCRIPTION\tCOUNT\tAVG\tFREQUENCY\tCONFIDENCE")
		for _, r := range report.Adjusted {
			fmt.Fprintf(tw, "  %s\t%d\t%s\t%s\t%s\n",
				r.Description, r.Count, r.AvgAmount.StringFixed(2), r.Frequency, r.Confidence)
		}
		tw.Flush()
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "Forecast (%d days):\n", len(report.Forecast.Projection))
	if report.Forecast.MinBalance != nil {
		fmt.Fprintf(out, "  min balance: $%s\n", report.Forecast.MinBalance.StringFixed(2))
	}
	if report.Forecast.DaysToNegative != nil {
		fmt.Fprintf(out, "  goes negative in %d days\n", *report.Forecast.DaysToNegative)
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Insights:")
	for _, s := range report.Insights {
		fmt.Fprintf(out, "  - %s\n", s)
	}
}
