// Package risk builds bounded-risk option structures and validates
// them against portfolio limits.
package risk

import (
	"fmt"
	"time"

	"options-trader/internal/config"
	"options-trader/internal/models"
	"options-trader/internal/strike"
)

// Builder turns a strategy choice plus a parsed chain into a
// StrategyPlan with computed credit/debit, max profit/loss, and
// breakevens. All plan P&L fields are per-contract dollars; the gate
// scales by contract count.
type Builder struct {
	selector *strike.Selector
	riskCfg  config.RiskConfig
	stratCfg config.StrategyConfig
	now      func() time.Time
}

// NewBuilder creates a plan builder.
func NewBuilder(riskCfg config.RiskConfig, stratCfg config.StrategyConfig) *Builder {
	return &Builder{
		selector: strike.NewSelector(stratCfg),
		riskCfg:  riskCfg,
		stratCfg: stratCfg,
		now:      time.Now,
	}
}

// Build constructs a plan for the strategy. Selection failures come
// back as *strike.SelectionError; callers report the reason and skip.
func (b *Builder) Build(strategy models.StrategyType, underlying string, spot float64, contracts []models.OptionContract, quantity int) (*models.StrategyPlan, error) {
	if quantity < 1 {
		quantity = 1
	}

	expiry, err := b.selector.SelectExpiration(contracts, b.riskCfg.MinDTE, b.riskCfg.MaxDTE, b.now())
	if err != nil {
		return nil, err
	}

	switch strategy {
	case models.CoveredCall:
		return b.buildCoveredCall(underlying, spot, contracts, expiry, quantity)
	case models.CashSecuredPut:
		return b.buildCashSecuredPut(underlying, contracts, expiry, quantity)
	case models.CreditSpread:
		return b.buildCreditSpread(underlying, spot, contracts, expiry, quantity)
	case models.IronCondor:
		return b.buildIronCondor(underlying, contracts, expiry, quantity)
	default:
		return nil, fmt.Errorf("unsupported strategy: %s", strategy)
	}
}

func (b *Builder) buildCoveredCall(underlying string, spot float64, contracts []models.OptionContract, expiry time.Time, quantity int) (*models.StrategyPlan, error) {
	calls, err := b.selector.Candidates(contracts, expiry, models.Call)
	if err != nil {
		return nil, err
	}
	short, err := b.selector.NearestDelta(calls, b.stratCfg.CoveredCallDelta)
	if err != nil {
		return nil, err
	}

	premium := short.Mid()
	return &models.StrategyPlan{
		Strategy:   models.CoveredCall,
		Underlying: underlying,
		Legs: []models.OptionLeg{
			sellLeg(short, quantity),
		},
		TotalPremium: premium * 100,
		MaxProfit:    (short.Strike - spot + premium) * 100,
		// Assigned stock can go to zero; premium is the only cushion.
		MaxRisk:         (spot - premium) * 100,
		Breakevens:      []float64{spot - premium},
		RequiredCapital: spot * 100,
	}, nil
}

func (b *Builder) buildCashSecuredPut(underlying string, contracts []models.OptionContract, expiry time.Time, quantity int) (*models.StrategyPlan, error) {
	puts, err := b.selector.Candidates(contracts, expiry, models.Put)
	if err != nil {
		return nil, err
	}
	short, err := b.selector.NearestDelta(puts, b.stratCfg.CashSecuredPutDelta)
	if err != nil {
		return nil, err
	}

	premium := short.Mid()
	return &models.StrategyPlan{
		Strategy:   models.CashSecuredPut,
		Underlying: underlying,
		Legs: []models.OptionLeg{
			sellLeg(short, quantity),
		},
		TotalPremium:    premium * 100,
		MaxProfit:       premium * 100,
		MaxRisk:         (short.Strike - premium) * 100,
		Breakevens:      []float64{short.Strike - premium},
		RequiredCapital: short.Strike * 100,
	}, nil
}

// buildCreditSpread builds a bull put spread: short put at target
// delta, long put one width below.
func (b *Builder) buildCreditSpread(underlying string, spot float64, contracts []models.OptionContract, expiry time.Time, quantity int) (*models.StrategyPlan, error) {
	puts, err := b.selector.Candidates(contracts, expiry, models.Put)
	if err != nil {
		return nil, err
	}
	short, err := b.selector.NearestDelta(puts, b.stratCfg.CreditSpreadDelta)
	if err != nil {
		return nil, err
	}
	long, err := b.selector.WingFor(puts, short)
	if err != nil {
		return nil, err
	}

	credit := short.Mid() - long.Mid()
	width := short.Strike - long.Strike
	maxLoss := width*100 - credit*100
	return &models.StrategyPlan{
		Strategy:   models.CreditSpread,
		Underlying: underlying,
		Legs: []models.OptionLeg{
			sellLeg(short, quantity),
			buyLeg(long, quantity),
		},
		TotalPremium:    credit * 100,
		MaxProfit:       credit * 100,
		MaxRisk:         maxLoss,
		Breakevens:      []float64{short.Strike - credit},
		RequiredCapital: maxLoss,
	}, nil
}

func (b *Builder) buildIronCondor(underlying string, contracts []models.OptionContract, expiry time.Time, quantity int) (*models.StrategyPlan, error) {
	calls, err := b.selector.Candidates(contracts, expiry, models.Call)
	if err != nil {
		return nil, err
	}
	puts, err := b.selector.Candidates(contracts, expiry, models.Put)
	if err != nil {
		return nil, err
	}

	shortCall, err := b.selector.NearestDelta(calls, b.stratCfg.CondorShortDelta)
	if err != nil {
		return nil, err
	}
	longCall, err := b.selector.NearestDelta(calls, b.stratCfg.CondorWingDelta)
	if err != nil {
		return nil, err
	}
	shortPut, err := b.selector.NearestDelta(puts, b.stratCfg.CondorShortDelta)
	if err != nil {
		return nil, err
	}
	longPut, err := b.selector.NearestDelta(puts, b.stratCfg.CondorWingDelta)
	if err != nil {
		return nil, err
	}

	if longCall.Strike <= shortCall.Strike {
		return nil, &strike.SelectionError{Reason: fmt.Sprintf(
			"call wing %.2f not above short call %.2f", longCall.Strike, shortCall.Strike)}
	}
	if longPut.Strike >= shortPut.Strike {
		return nil, &strike.SelectionError{Reason: fmt.Sprintf(
			"put wing %.2f not below short put %.2f", longPut.Strike, shortPut.Strike)}
	}

	callCredit := shortCall.Mid() - longCall.Mid()
	putCredit := shortPut.Mid() - longPut.Mid()
	totalCredit := callCredit + putCredit
	callWidth := longCall.Strike - shortCall.Strike
	putWidth := shortPut.Strike - longPut.Strike
	width := callWidth
	if putWidth < width {
		width = putWidth
	}
	maxLoss := width*100 - totalCredit*100

	return &models.StrategyPlan{
		Strategy:   models.IronCondor,
		Underlying: underlying,
		Legs: []models.OptionLeg{
			sellLeg(shortPut, quantity),
			buyLeg(longPut, quantity),
			sellLeg(shortCall, quantity),
			buyLeg(longCall, quantity),
		},
		TotalPremium: totalCredit * 100,
		MaxProfit:    totalCredit * 100,
		MaxRisk:      maxLoss,
		Breakevens: []float64{
			shortPut.Strike - totalCredit,
			shortCall.Strike + totalCredit,
		},
		RequiredCapital: maxLoss,
	}, nil
}

func sellLeg(c models.OptionContract, quantity int) models.OptionLeg {
	return models.OptionLeg{
		Symbol:     c.Code,
		Strike:     c.Strike,
		Expiration: c.Expiration,
		Type:       c.Type,
		Side:       models.LegSell,
		Quantity:   quantity,
		Premium:    c.Mid(),
	}
}

func buyLeg(c models.OptionContract, quantity int) models.OptionLeg {
	return models.OptionLeg{
		Symbol:     c.Code,
		Strike:     c.Strike,
		Expiration: c.Expiration,
		Type:       c.Type,
		Side:       models.LegBuy,
		Quantity:   quantity,
		Premium:    c.Mid(),
	}
}
