package cli

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"options-trader/internal/logging"
	"options-trader/internal/signal"
	"options-trader/internal/store"
)

func newSignalCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "signal <symbol>",
		Short: "Generate a premium-selling/buying signal",
		Long: `Combine volatility metrics and the regime analysis into a trading
signal: sell premium, buy premium, or wait, with a confidence tier
and a position-size multiplier.`,
		Example: `  options-trader signal SPY`,
		Args:    cobra.ExactArgs(1),
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
			snap, err := analyzeRegime(ctx, app, symbol)
			if err != nil {
				output.Error("Failed to analyze regime: %v", err)
				return err
			}

			rec := signal.Recommend(snap)
			multiplier := signal.PositionSizeMultiplier(snap)
			sell := signal.ShouldSellPremium(snap)
			buy := signal.ShouldBuyPremium(snap)

			tier := signal.TierLow
			rationale := "no favorable setup"
			switch rec.PrimaryAction {
			case signal.SellPremium:
				tier, rationale = sell.Tier, sell.Rationale
			case signal.BuyPremium:
				tier, rationale = buy.Tier, buy.Rationale
			}

			logging.LogSignal(app.Logger, symbol, string(rec.PrimaryAction), string(tier), multiplier)
			if app.Journal != nil {
				err := app.Journal.SaveSignal(ctx, &store.SignalRecord{
					Timestamp:  time.Now(),
					Symbol:     symbol,
					Action:     string(rec.PrimaryAction),
					Tier:       string(tier),
					Regime:     string(snap.Level),
					IVRank:     metrics.IVRank,
					Percentile: snap.Stats.Percentile,
					Multiplier: multiplier,
					Rationale:  rationale,
				})
				if err != nil {
					app.Logger.Warn().Err(err).Msg("Failed to journal signal")
				}
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"symbol":          symbol,
					"action":          rec.PrimaryAction,
					"tier":            tier,
					"rationale":       rationale,
					"multiplier":      multiplier,
					"iv_rank":         metrics.IVRank,
					"regime":          snap.Level,
					"strategies":      sell.Strategies,
					"risk_level":      rec.RiskLevel,
					"entry_rules":     rec.EntryRules,
					"exit_rules":      rec.ExitRules,
				})
			}

			output.Header("Signal: %s", symbol)
			output.Printf("  Action:          %s (%s confidence)\n", rec.PrimaryAction, tier)
			output.Printf("  Rationale:       %s\n", rationale)
			output.Printf("  Size Multiplier: %.2fx\n", multiplier)
			output.Printf("  IV Rank:         %.1f\n", metrics.IVRank)
			output.Printf("  Regime:          %s (%s)\n", snap.Level, rec.RiskLevel)
			if len(sell.Strategies) > 0 {
				names := make([]string, len(sell.Strategies))
				for i, s := range sell.Strategies {
					names[i] = string(s)
				}
				output.Printf("  Strategies:      %s\n", strings.Join(names, ", "))
			}
			output.Println()
			output.Header("Entry Rules")
			for _, rule := range rec.EntryRules {
				output.Printf("  - %s\n", rule)
			}
			output.Header("Exit Rules")
			for _, rule := range rec.ExitRules {
				output.Printf("  - %s\n", rule)
			}
			return nil
		},
	}
}
