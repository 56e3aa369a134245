package cli

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"options-trader/internal/execution"
	"options-trader/internal/logging"
	"options-trader/internal/signal"
	"options-trader/internal/store"
	"options-trader/internal/strike"
)

func newTradeCmd(app *App) *cobra.Command {
	var (
		quantity int
		force    bool
	)

	cmd := &cobra.Command{
		Use:   "trade <strategy> <symbol>",
		Short: "Build, risk-check, and submit a strategy",
		Long: `Run the full pipeline: check volatility conditions, size the
position from the current regime, select strikes, validate against the
risk gate, and submit the approved legs. Every attempt is journaled.

Submission requires paper mode; live brokers are not wired.`,
		Example: `  options-trader trade credit_spread SPY
  options-trader trade iron_condor SPY --qty 3
  options-trader trade covered_call AAPL --force`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			strategy, err := parseStrategy(args[0])
			if err != nil {
				output.Error("%v", err)
				return err
			}
			symbol := strings.ToUpper(args[1])

			if !app.Config.IsPaperMode() {
				err := fmt.Errorf("live trading is not wired; set trading mode to paper")
				output.Error("%v", err)
				return err
			}

			metrics, err := app.Engine.GetMetrics(ctx, symbol)
			if err != nil {
				output.Error("Failed to compute metrics: %v", err)
				return err
			}

			// All four strategies sell premium, so the rank floor
			// applies to every trade.
			if metrics.IVRank < app.Config.Risk.MinIVRank && !force {
				reason := fmt.Sprintf("IV rank %.1f below %.1f floor",
					metrics.IVRank, app.Config.Risk.MinIVRank)
				logging.LogRejection(app.Logger, symbol, string(strategy), reason)
				journalTrade(ctx, app, &store.TradeRecord{
					Timestamp: time.Now(),
					Symbol:    symbol,
					Strategy:  string(strategy),
					Status:    "rejected",
					Reason:    reason,
					IsPaper:   true,
				})
				output.Warning("Trade skipped: %s (use --force to override)", reason)
				return nil
			}

			snap, err := analyzeRegime(ctx, app, symbol)
			if err != nil {
				output.Error("Failed to analyze regime: %v", err)
				return err
			}
			multiplier := signal.PositionSizeMultiplier(snap)
			scaled := int(math.Floor(float64(quantity) * multiplier))
			if scaled < 1 {
				scaled = 1
			}

			plan, assessment, err := buildPlan(ctx, app, symbol, strategy, scaled)
			if err != nil {
				var selErr *strike.SelectionError
				if errors.As(err, &selErr) {
					output.Warning("No viable structure: %s", selErr.Reason)
					return nil
				}
				output.Error("Failed to build plan: %v", err)
				return err
			}

			if !assessment.Approved {
				logging.LogRejection(app.Logger, symbol, string(strategy), assessment.Reason)
				journalTrade(ctx, app, &store.TradeRecord{
					Timestamp: time.Now(),
					Symbol:    symbol,
					Strategy:  string(strategy),
					Premium:   plan.TotalPremium,
					MaxRisk:   plan.MaxRisk,
					Contracts: scaled,
					Status:    "rejected",
					Reason:    assessment.Reason,
					IsPaper:   true,
				})
				output.Warning("Risk gate: REJECTED: %s", assessment.Reason)
				return nil
			}

			if !output.IsJSON() {
				printPlan(output, plan)
				output.Printf("  Size multiplier:  %.2fx (%d -> %d contracts)\n\n",
					multiplier, quantity, scaled)
			}

			outcome, submitErr := execution.NewExecutor(app.Submitter, app.Logger).SubmitPlan(ctx, plan)

			status := "filled"
			reason := ""
			if submitErr != nil {
				status = "failed"
				if outcome.Partial {
					status = "partial"
				}
				reason = submitErr.Error()
			}
			journalTrade(ctx, app, &store.TradeRecord{
				Timestamp: time.Now(),
				Symbol:    symbol,
				Strategy:  string(strategy),
				Premium:   plan.TotalPremium,
				MaxRisk:   plan.MaxRisk,
				Contracts: scaled,
				Status:    status,
				Reason:    reason,
				OrderIDs:  orderIDs(outcome),
				IsPaper:   true,
			})

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"plan":       plan,
					"assessment": assessment,
					"multiplier": multiplier,
					"contracts":  scaled,
					"status":     status,
					"filled":     outcome.Filled,
					"partial":    outcome.Partial,
					"order_ids":  orderIDs(outcome),
					"error":      reason,
				})
			}

			switch status {
			case "filled":
				output.Success("Submitted %d legs (%s)", outcome.Filled, orderIDs(outcome))
			case "partial":
				output.Error("PARTIAL FILL: %d of %d legs filled before %v; position is unbalanced",
					outcome.Filled, len(plan.Legs), submitErr)
			default:
				output.Error("Submission failed: %v", submitErr)
			}
			if submitErr != nil {
				return submitErr
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&quantity, "qty", "q", 1, "base contracts per leg before regime sizing")
	cmd.Flags().BoolVar(&force, "force", false, "bypass the IV rank floor")
	return cmd
}

func journalTrade(ctx context.Context, app *App, rec *store.TradeRecord) {
	if app.Journal == nil {
		return
	}
	if err := app.Journal.SaveTrade(ctx, rec); err != nil {
		app.Logger.Warn().Err(err).Msg("Failed to journal trade")
	}
}

func orderIDs(outcome *execution.Outcome) string {
	var ids []string
	for _, leg := range outcome.Legs {
		if leg.Result != nil && leg.Err == nil {
			ids = append(ids, leg.Result.ID)
		}
	}
	return strings.Join(ids, ",")
}
