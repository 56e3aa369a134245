package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"options-trader/internal/models"
	"options-trader/internal/provider"
	"options-trader/internal/risk"
	"options-trader/internal/strike"
)

var strategyNames = map[string]models.StrategyType{
	"covered_call":     models.CoveredCall,
	"cash_secured_put": models.CashSecuredPut,
	"iron_condor":      models.IronCondor,
	"credit_spread":    models.CreditSpread,
}

func parseStrategy(name string) (models.StrategyType, error) {
	strategy, ok := strategyNames[strings.ToLower(name)]
	if !ok {
		valid := make([]string, 0, len(strategyNames))
		for k := range strategyNames {
			valid = append(valid, k)
		}
		return "", fmt.Errorf("unknown strategy %q (valid: %s)", name, strings.Join(valid, ", "))
	}
	return strategy, nil
}

// buildPlan runs the chain-to-plan pipeline shared by plan and trade:
// fetch the chain, select strikes, price the structure, and validate it
// against the risk gate.
func buildPlan(ctx context.Context, app *App, symbol string, strategy models.StrategyType, quantity int) (*models.StrategyPlan, *models.RiskAssessment, error) {
	spot, err := app.Provider.Spot(ctx, symbol)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching spot for %s: %w", symbol, err)
	}
	raw, err := app.Provider.Chain(ctx, symbol)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching chain for %s: %w", symbol, err)
	}
	contracts := provider.ParseChain(raw)
	if len(contracts) == 0 {
		return nil, nil, fmt.Errorf("no parseable contracts in %s chain", symbol)
	}

	builder := risk.NewBuilder(app.Config.Risk, app.Config.Strategy)
	plan, err := builder.Build(strategy, symbol, spot, contracts, quantity)
	if err != nil {
		return nil, nil, err
	}

	account := models.Account{
		Equity:      app.Config.Account.Equity,
		BuyingPower: app.Config.Account.BuyingPower,
	}
	assessment := risk.NewGate(app.Config.Risk).Validate(plan, account)
	return plan, assessment, nil
}

func newPlanCmd(app *App) *cobra.Command {
	var quantity int

	cmd := &cobra.Command{
		Use:   "plan <strategy> <symbol>",
		Short: "Construct and risk-check a strategy without submitting",
		Long: `Select strikes from the current chain, price the structure, and run
it through the risk gate. Nothing is submitted; use 'trade' to submit
an approved plan.`,
		Example: `  options-trader plan iron_condor SPY
  options-trader plan covered_call AAPL --qty 2`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			strategy, err := parseStrategy(args[0])
			if err != nil {
				output.Error("%v", err)
				return err
			}
			symbol := strings.ToUpper(args[1])

			plan, assessment, err := buildPlan(ctx, app, symbol, strategy, quantity)
			if err != nil {
				var selErr *strike.SelectionError
				if errors.As(err, &selErr) {
					output.Warning("No viable structure: %s", selErr.Reason)
					return nil
				}
				output.Error("Failed to build plan: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"plan":       plan,
					"assessment": assessment,
				})
			}

			printPlan(output, plan)
			printAssessment(output, assessment)
			return nil
		},
	}

	cmd.Flags().IntVarP(&quantity, "qty", "q", 1, "contracts per leg")
	return cmd
}

func printPlan(output *Output, plan *models.StrategyPlan) {
	output.Header("%s on %s", strings.ToUpper(string(plan.Strategy)), plan.Underlying)
	for _, leg := range plan.Legs {
		side := "BUY "
		if leg.Side == models.LegSell {
			side = "SELL"
		}
		output.Printf("  %s %dx %-21s %s %.2f @ %s\n",
			side, leg.Quantity, leg.Symbol, strings.ToUpper(string(leg.Type)),
			leg.Strike, FormatMoney(leg.Premium))
	}
	output.Println()
	output.Printf("  Net Credit:       %s/contract\n", FormatMoney(plan.TotalPremium))
	output.Printf("  Max Profit:       %s/contract\n", FormatMoney(plan.MaxProfit))
	output.Printf("  Max Risk:         %s/contract\n", FormatMoney(plan.MaxRisk))
	output.Printf("  Required Capital: %s\n", FormatMoney(plan.RequiredCapital))
	for _, be := range plan.Breakevens {
		output.Printf("  Breakeven:        %.2f\n", be)
	}
	output.Println()
}

func printAssessment(output *Output, assessment *models.RiskAssessment) {
	if assessment.Approved {
		output.Success("Risk gate: APPROVED (%.2f%% of equity, %d contracts)",
			assessment.RiskPct, assessment.TotalContracts)
		return
	}
	output.Warning("Risk gate: REJECTED: %s", assessment.Reason)
}
