package cli

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newMetricsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "metrics <symbol>",
		Short: "Show implied-volatility metrics for a symbol",
		Long: `Compute current IV, IV rank, IV percentile, and the 52-week range
for a symbol, using the provider fallback chain and the local cache.`,
		Example: `  options-trader metrics SPY
  options-trader metrics TSLA --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			symbol := strings.ToUpper(args[0])
			metrics, err := app.Engine.GetMetrics(ctx, symbol)
			if err != nil {
				output.Error("Failed to compute metrics: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(metrics)
			}

			output.Header("Volatility Metrics: %s", symbol)
			output.Printf("  Current IV:     %s\n", FormatIV(metrics.CurrentIV))
			output.Printf("  IV Rank:        %.1f\n", metrics.IVRank)
			output.Printf("  IV Percentile:  %.1f\n", metrics.IVPercentile)
			output.Printf("  52w Range:      %s - %s\n", FormatIV(metrics.IV52wLow), FormatIV(metrics.IV52wHigh))
			output.Printf("  30d Average:    %s\n", FormatIV(metrics.IV30dAvg))
			output.Printf("  Source:         %s (confidence %s)\n", metrics.DataSource, FormatConfidence(metrics.Confidence))
			if metrics.IndexLevel > 0 {
				output.Printf("  Index Level:    %.2f\n", metrics.IndexLevel)
			}
			return nil
		},
	}
}

func newCacheCmd(app *App) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the volatility metrics cache",
	}

	cacheCmd.AddCommand(&cobra.Command{
		Use:   "clear [symbol]",
		Short: "Clear cached metrics for a symbol, or everything",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			symbol := ""
			if len(args) == 1 {
				symbol = strings.ToUpper(args[0])
			}
			app.Engine.Clear(symbol)
			if symbol == "" {
				output.Success("Cache cleared")
			} else {
				output.Success("Cache cleared for %s", symbol)
			}
			return nil
		},
	})

	return cacheCmd
}
