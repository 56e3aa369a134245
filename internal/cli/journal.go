package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newJournalCmd(app *App) *cobra.Command {
	var (
		symbol string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "journal [signals|trades]",
		Short: "Show journaled signals and trades",
		Example: `  options-trader journal trades
  options-trader journal signals --symbol SPY --limit 10`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"signals", "trades"},
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Journal == nil {
				err := fmt.Errorf("journal database unavailable")
				output.Error("%v", err)
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			sym := strings.ToUpper(symbol)
			switch args[0] {
			case "signals":
				records, err := app.Journal.GetSignals(ctx, sym, limit)
				if err != nil {
					output.Error("Failed to read journal: %v", err)
					return err
				}
				if output.IsJSON() {
					return output.JSON(records)
				}
				output.Header("Signals (%d)", len(records))
				for _, r := range records {
					output.Printf("  %s  %-6s %-13s %-6s rank=%5.1f x%.2f  %s\n",
						r.Timestamp.Format("2006-01-02 15:04"), r.Symbol,
						r.Action, r.Tier, r.IVRank, r.Multiplier, r.Regime)
				}
			case "trades":
				records, err := app.Journal.GetTrades(ctx, sym, limit)
				if err != nil {
					output.Error("Failed to read journal: %v", err)
					return err
				}
				if output.IsJSON() {
					return output.JSON(records)
				}
				output.Header("Trades (%d)", len(records))
				for _, r := range records {
					line := fmt.Sprintf("  %s  %-6s %-16s x%d  %s  %s",
						r.Timestamp.Format("2006-01-02 15:04"), r.Symbol,
						r.Strategy, r.Contracts, FormatMoney(r.Premium), r.Status)
					if r.Reason != "" {
						line += "  (" + r.Reason + ")"
					}
					output.Println(line)
				}
			default:
				return fmt.Errorf("unknown journal view %q", args[0])
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&symbol, "symbol", "s", "", "filter by underlying symbol")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum records to show")
	return cmd
}
