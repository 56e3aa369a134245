// Package provider defines the market-data and order-submission boundary.
package provider

import (
	"context"

	"options-trader/internal/models"
	"options-trader/internal/occ"
)

// ChainQuote is the provider's raw per-contract quote, keyed by contract code.
type ChainQuote struct {
	Bid          float64
	Ask          float64
	Last         float64
	Volume       int64
	OpenInterest int64
	IV           float64
	Greeks       models.OptionGreeks
}

// QuoteProvider supplies spot prices, option chains, and the
// volatility-index series. Calls block for the provider round trip;
// cancellation is via ctx only.
type QuoteProvider interface {
	Chain(ctx context.Context, underlying string) (map[string]ChainQuote, error)
	Spot(ctx context.Context, underlying string) (float64, error)
	IndexLevel(ctx context.Context) (float64, error)
	IndexHistory(ctx context.Context, days int) ([]float64, error)
}

// OrderSubmitter accepts validated orders and returns fill/ack data.
type OrderSubmitter interface {
	Submit(ctx context.Context, order *models.Order) (*models.OrderResult, error)
}

// ParseChain validates raw chain quotes into contract snapshots.
// Entries whose code does not parse are dropped; downstream code never
// guards against missing fields.
func ParseChain(raw map[string]ChainQuote) []models.OptionContract {
	contracts := make([]models.OptionContract, 0, len(raw))
	for code, q := range raw {
		parsed, err := occ.Parse(code)
		if err != nil {
			continue
		}
		contracts = append(contracts, models.OptionContract{
			Code:         code,
			Underlying:   parsed.Underlying,
			Expiration:   parsed.Expiration,
			Type:         parsed.Type,
			Strike:       parsed.Strike,
			Bid:          q.Bid,
			Ask:          q.Ask,
			Last:         q.Last,
			Volume:       q.Volume,
			OpenInterest: q.OpenInterest,
			IV:           q.IV,
			Greeks:       q.Greeks,
		})
	}
	return contracts
}
