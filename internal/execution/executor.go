// Package execution submits plan legs through an order submitter.
package execution

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"options-trader/internal/logging"
	"options-trader/internal/models"
	"options-trader/internal/provider"
)

// LegResult is the submission outcome for one leg.
type LegResult struct {
	Leg    models.OptionLeg
	Result *models.OrderResult
	Err    error
}

// Outcome reports what was actually submitted. Legs are submitted in
// plan order with no cross-leg atomicity; Partial means some legs
// filled before a failure, leaving an unbalanced position for an
// external risk monitor to close. Nothing is auto-unwound here.
type Outcome struct {
	Legs    []LegResult
	Filled  int
	Partial bool
}

// Executor submits validated plans leg by leg.
type Executor struct {
	submitter provider.OrderSubmitter
	logger    zerolog.Logger
	now       func() time.Time
}

// NewExecutor creates an executor over a submitter.
func NewExecutor(submitter provider.OrderSubmitter, logger zerolog.Logger) *Executor {
	return &Executor{submitter: submitter, logger: logger, now: time.Now}
}

// SubmitPlan submits every leg in order, stopping at the first
// failure. The returned error is non-nil whenever any leg failed; the
// Outcome always describes what happened.
func (e *Executor) SubmitPlan(ctx context.Context, plan *models.StrategyPlan) (*Outcome, error) {
	outcome := &Outcome{}

	for _, leg := range plan.Legs {
		order := &models.Order{
			Code:       leg.Symbol,
			Quantity:   leg.Quantity,
			Side:       sideFor(leg),
			Type:       models.OrderLimit,
			LimitPrice: leg.Premium,
			PlacedAt:   e.now(),
		}

		result, err := e.submitter.Submit(ctx, order)
		outcome.Legs = append(outcome.Legs, LegResult{Leg: leg, Result: result, Err: err})
		if err != nil {
			outcome.Partial = outcome.Filled > 0
			e.logger.Error().
				Err(err).
				Str("contract", leg.Symbol).
				Int("filled_legs", outcome.Filled).
				Bool("partial", outcome.Partial).
				Msg("Leg submission failed")
			return outcome, fmt.Errorf("submitting %s: %w", leg.Symbol, err)
		}

		outcome.Filled++
		logging.LogOrder(e.logger, result.ID, leg.Symbol, string(order.Side), result.Status)
	}

	return outcome, nil
}

func sideFor(leg models.OptionLeg) models.OrderSide {
	if leg.Side == models.LegSell {
		return models.SellToOpen
	}
	return models.BuyToOpen
}
