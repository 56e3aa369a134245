package cli

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"options-trader/internal/regime"
	"options-trader/internal/signal"
)

// analyzeRegime runs the regime analysis shared by the regime, signal,
// plan, and trade commands.
func analyzeRegime(ctx context.Context, app *App, symbol string) (regime.Snapshot, error) {
	level, err := app.Engine.GetIndexLevel(ctx)
	if err != nil {
		return regime.Snapshot{}, err
	}
	history, err := app.Provider.IndexHistory(ctx, regime.DefaultWindow)
	if err != nil {
		return regime.Snapshot{}, err
	}

	// Term structure is informative, not load-bearing: without two
	// expirations the classification falls back to flat.
	front, back, err := app.Engine.TermStructure(ctx, symbol)
	if err != nil {
		app.Logger.Debug().Err(err).Str("symbol", symbol).Msg("Term structure unavailable")
		front, back = level, level
	}

	return regime.Analyze(level, history, front, back), nil
}

func newRegimeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "regime",
		Short: "Classify the current volatility regime",
		Long: `Classify the volatility-index level into a regime bucket, with
historical percentile, spike severity, mean-reversion probability,
and term-structure shape.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			symbol, _ := cmd.Flags().GetString("symbol")
			snap, err := analyzeRegime(ctx, app, strings.ToUpper(symbol))
			if err != nil {
				output.Error("Failed to analyze regime: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(snap)
			}

			output.Header("Volatility Regime")
			output.Printf("  Index Level:    %.2f (%s)\n", snap.Index, snap.Level)
			output.Printf("  Percentile:     %.1f\n", snap.Stats.Percentile)
			output.Printf("  Z-Score:        %.2f (spike: %v, severity: %s)\n", snap.Stats.ZScore, snap.IsSpike, snap.Severity)
			output.Printf("  Mean Reversion: %.2f\n", snap.MeanReversion)
			output.Printf("  Term Structure: %s\n", snap.Term)

			rec := signal.Recommend(snap)
			output.Printf("  Risk Level:     %s\n", rec.RiskLevel)
			return nil
		},
	}
	cmd.Flags().String("symbol", "SPY", "underlying used for term-structure estimation")
	return cmd
}
