// Package signal turns a regime analysis into premium-selling or
// premium-buying decisions with confidence tiers and position sizing.
package signal

import (
	"fmt"

	"options-trader/internal/models"
	"options-trader/internal/regime"
)

// Action is the primary trading action for current conditions.
type Action string

const (
	SellPremium Action = "SELL_PREMIUM"
	BuyPremium  Action = "BUY_PREMIUM"
	Wait        Action = "WAIT"
)

// ConfidenceTier buckets decision confidence.
type ConfidenceTier string

const (
	TierHigh   ConfidenceTier = "high"
	TierMedium ConfidenceTier = "medium"
	TierLow    ConfidenceTier = "low"
)

// Decision is the outcome of a sell- or buy-premium check.
type Decision struct {
	Favorable  bool
	Tier       ConfidenceTier
	Rationale  string
	Strategies []models.StrategyType
}

// ShouldSellPremium reports whether conditions favor selling premium:
// an elevated-or-worse regime, rich percentile, and real reversion
// pressure must all hold.
func ShouldSellPremium(snap regime.Snapshot) Decision {
	regimeOK := snap.Level == regime.Elevated || snap.Level == regime.High || snap.Level == regime.Extreme
	percentileOK := snap.Stats.Percentile > 60
	reversionOK := snap.MeanReversion > 0.6

	if !regimeOK || !percentileOK || !reversionOK {
		return Decision{
			Favorable: false,
			Tier:      TierLow,
			Rationale: fmt.Sprintf(
				"sell-premium conditions not met: regime=%s percentile=%.0f reversion=%.2f",
				snap.Level, snap.Stats.Percentile, snap.MeanReversion),
		}
	}

	tier := TierMedium
	if snap.MeanReversion > 0.75 {
		tier = TierHigh
	}

	return Decision{
		Favorable: true,
		Tier:      tier,
		Rationale: fmt.Sprintf(
			"volatility rich: regime=%s percentile=%.0f reversion=%.2f",
			snap.Level, snap.Stats.Percentile, snap.MeanReversion),
		Strategies: []models.StrategyType{
			models.IronCondor,
			models.CreditSpread,
			models.CoveredCall,
			models.CashSecuredPut,
		},
	}
}

// ShouldBuyPremium reports whether conditions favor buying premium:
// cheap volatility with an inverted term structure, or a deeply washed
// out extreme-low regime regardless of term structure.
func ShouldBuyPremium(snap regime.Snapshot) Decision {
	calm := snap.Level == regime.ExtremeLow || snap.Level == regime.Low
	cheap := snap.Stats.Percentile < 40
	inverted := snap.Term == regime.Backwardation
	washedOut := snap.Level == regime.ExtremeLow && snap.Stats.Percentile < 20

	if (calm && cheap && inverted) || washedOut {
		tier := TierMedium
		if washedOut {
			tier = TierHigh
		}
		return Decision{
			Favorable: true,
			Tier:      tier,
			Rationale: fmt.Sprintf(
				"volatility cheap: regime=%s percentile=%.0f term=%s",
				snap.Level, snap.Stats.Percentile, snap.Term),
		}
	}

	return Decision{
		Favorable: false,
		Tier:      TierLow,
		Rationale: fmt.Sprintf(
			"buy-premium conditions not met: regime=%s percentile=%.0f term=%s",
			snap.Level, snap.Stats.Percentile, snap.Term),
	}
}

// baseMultipliers sizes positions inversely to regime stress.
var baseMultipliers = map[regime.Level]float64{
	regime.ExtremeLow: 1.5,
	regime.Low:        1.25,
	regime.Normal:     1.0,
	regime.Elevated:   0.75,
	regime.High:       0.5,
	regime.Extreme:    0.25,
}

// PositionSizeMultiplier returns the regime-based sizing multiplier,
// adjusted for percentile extremes and clamped to [0.1, 2.0].
func PositionSizeMultiplier(snap regime.Snapshot) float64 {
	multiplier, ok := baseMultipliers[snap.Level]
	if !ok {
		multiplier = 1.0
	}

	if snap.Stats.Percentile < 10 {
		multiplier *= 1.2
	} else if snap.Stats.Percentile > 90 {
		multiplier *= 0.8
	}

	if multiplier < 0.1 {
		return 0.1
	}
	if multiplier > 2.0 {
		return 2.0
	}
	return multiplier
}

// Recommendation is the user-facing summary of current conditions.
// Entry/exit rules are static guidance text; they inform the
// explanation, not execution.
type Recommendation struct {
	PrimaryAction Action
	RiskLevel     string
	EntryRules    []string
	ExitRules     []string
}

// Recommend derives the primary action and regime-bucket guidance.
func Recommend(snap regime.Snapshot) Recommendation {
	action := Wait
	if ShouldSellPremium(snap).Favorable {
		action = SellPremium
	} else if ShouldBuyPremium(snap).Favorable {
		action = BuyPremium
	}

	bucket := regimeBucket(snap.Level)
	return Recommendation{
		PrimaryAction: action,
		RiskLevel:     bucket,
		EntryRules:    entryRules[bucket],
		ExitRules:     exitRules[bucket],
	}
}

func regimeBucket(level regime.Level) string {
	switch level {
	case regime.High, regime.Extreme:
		return "stressed"
	case regime.ExtremeLow, regime.Low:
		return "calm"
	default:
		return "normal"
	}
}

var entryRules = map[string][]string{
	"stressed": {
		"Scale into short-premium positions across several days",
		"Keep defined-risk structures only; no naked short options",
		"Target the far end of the DTE window for extra cushion",
	},
	"calm": {
		"Favor debit structures; credits pay too little here",
		"Wait for a term-structure inversion before sizing up",
		"Keep positions small; cheap volatility can get cheaper",
	},
	"normal": {
		"Trade only when rank and percentile agree",
		"Prefer balanced structures such as iron condors",
	},
}

var exitRules = map[string][]string{
	"stressed": {
		"Take profits at 50% of maximum credit",
		"Exit on a regime downgrade to normal",
		"Close or roll at 21 DTE regardless of P&L",
	},
	"calm": {
		"Exit long premium after a volatility pop of two regimes",
		"Cut losses if the index makes a new 52-week low",
	},
	"normal": {
		"Take profits at 50-75% of maximum credit",
		"Close or roll at 21 DTE regardless of P&L",
	},
}
