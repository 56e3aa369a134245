package signal

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"options-trader/internal/models"
	"options-trader/internal/regime"
)

func snapshot(level regime.Level, percentile, reversion float64, term regime.TermStructure) regime.Snapshot {
	return regime.Snapshot{
		Level:         level,
		Stats:         regime.Stats{Percentile: percentile},
		MeanReversion: reversion,
		Term:          term,
	}
}

func TestShouldSellPremium(t *testing.T) {
	tests := []struct {
		name      string
		snap      regime.Snapshot
		favorable bool
		tier      ConfidenceTier
	}{
		{
			"all conditions met",
			snapshot(regime.High, 85, 0.70, regime.Contango),
			true, TierMedium,
		},
		{
			"strong reversion upgrades tier",
			snapshot(regime.Extreme, 95, 0.90, regime.Backwardation),
			true, TierHigh,
		},
		{
			"elevated regime qualifies",
			snapshot(regime.Elevated, 65, 0.65, regime.Contango),
			true, TierMedium,
		},
		{
			"normal regime blocks",
			snapshot(regime.Normal, 85, 0.70, regime.Contango),
			false, TierLow,
		},
		{
			"weak percentile blocks",
			snapshot(regime.High, 55, 0.70, regime.Contango),
			false, TierLow,
		},
		{
			"weak reversion blocks",
			snapshot(regime.High, 85, 0.55, regime.Contango),
			false, TierLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := ShouldSellPremium(tt.snap)
			if d.Favorable != tt.favorable {
				t.Errorf("favorable = %v, want %v (%s)", d.Favorable, tt.favorable, d.Rationale)
			}
			if d.Tier != tt.tier {
				t.Errorf("tier = %s, want %s", d.Tier, tt.tier)
			}
			if tt.favorable && len(d.Strategies) == 0 {
				t.Error("favorable decision lists no strategies")
			}
			if !tt.favorable && len(d.Strategies) != 0 {
				t.Error("unfavorable decision lists strategies")
			}
		})
	}
}

func TestShouldSellPremiumStrategies(t *testing.T) {
	d := ShouldSellPremium(snapshot(regime.High, 85, 0.80, regime.Contango))
	want := map[models.StrategyType]bool{
		models.IronCondor:     true,
		models.CreditSpread:   true,
		models.CoveredCall:    true,
		models.CashSecuredPut: true,
	}
	for _, s := range d.Strategies {
		if !want[s] {
			t.Errorf("unexpected strategy %s", s)
		}
		delete(want, s)
	}
	for s := range want {
		t.Errorf("missing strategy %s", s)
	}
}

func TestShouldBuyPremium(t *testing.T) {
	tests := []struct {
		name      string
		snap      regime.Snapshot
		favorable bool
		tier      ConfidenceTier
	}{
		{
			"calm cheap inverted",
			snapshot(regime.Low, 30, 0.30, regime.Backwardation),
			true, TierMedium,
		},
		{
			"washed out ignores term",
			snapshot(regime.ExtremeLow, 15, 0.30, regime.Contango),
			true, TierHigh,
		},
		{
			"calm but contango blocks",
			snapshot(regime.Low, 30, 0.30, regime.Contango),
			false, TierLow,
		},
		{
			"cheap but normal regime blocks",
			snapshot(regime.Normal, 30, 0.30, regime.Backwardation),
			false, TierLow,
		},
		{
			"calm but rich percentile blocks",
			snapshot(regime.Low, 55, 0.30, regime.Backwardation),
			false, TierLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := ShouldBuyPremium(tt.snap)
			if d.Favorable != tt.favorable {
				t.Errorf("favorable = %v, want %v (%s)", d.Favorable, tt.favorable, d.Rationale)
			}
			if d.Tier != tt.tier {
				t.Errorf("tier = %s, want %s", d.Tier, tt.tier)
			}
		})
	}
}

func TestPositionSizeMultiplier(t *testing.T) {
	tests := []struct {
		name string
		snap regime.Snapshot
		want float64
	}{
		{"normal baseline", snapshot(regime.Normal, 50, 0, regime.FlatTerm), 1.0},
		{"extreme low boosted", snapshot(regime.ExtremeLow, 50, 0, regime.FlatTerm), 1.5},
		{"extreme cut", snapshot(regime.Extreme, 50, 0, regime.FlatTerm), 0.25},
		{"cheap percentile boost", snapshot(regime.Normal, 5, 0, regime.FlatTerm), 1.2},
		{"rich percentile cut", snapshot(regime.Normal, 95, 0, regime.FlatTerm), 0.8},
		{"boost compounds", snapshot(regime.ExtremeLow, 5, 0, regime.FlatTerm), 1.8},
		{"cut compounds", snapshot(regime.Extreme, 95, 0, regime.FlatTerm), 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PositionSizeMultiplier(tt.snap)
			if got < tt.want-1e-9 || got > tt.want+1e-9 {
				t.Errorf("multiplier = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestProperty_MultiplierClamped checks the multiplier stays inside
// [0.1, 2.0] for every regime/percentile combination.
func TestProperty_MultiplierClamped(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	levelGen := gen.OneConstOf(
		regime.ExtremeLow, regime.Low, regime.Normal,
		regime.Elevated, regime.High, regime.Extreme,
	)
	percentileGen := gen.Float64Range(0, 100)

	properties.Property("multiplier in [0.1, 2.0]", prop.ForAll(
		func(level regime.Level, percentile float64) bool {
			m := PositionSizeMultiplier(snapshot(level, percentile, 0, regime.FlatTerm))
			return m >= 0.1 && m <= 2.0
		},
		levelGen,
		percentileGen,
	))

	properties.TestingRun(t)
}

func TestRecommend(t *testing.T) {
	sell := Recommend(snapshot(regime.High, 85, 0.80, regime.Contango))
	if sell.PrimaryAction != SellPremium {
		t.Errorf("action = %s, want SELL_PREMIUM", sell.PrimaryAction)
	}
	if sell.RiskLevel != "stressed" {
		t.Errorf("risk level = %s, want stressed", sell.RiskLevel)
	}
	if len(sell.EntryRules) == 0 || len(sell.ExitRules) == 0 {
		t.Error("stressed recommendation missing guidance")
	}

	buy := Recommend(snapshot(regime.ExtremeLow, 10, 0.30, regime.Backwardation))
	if buy.PrimaryAction != BuyPremium {
		t.Errorf("action = %s, want BUY_PREMIUM", buy.PrimaryAction)
	}
	if buy.RiskLevel != "calm" {
		t.Errorf("risk level = %s, want calm", buy.RiskLevel)
	}

	wait := Recommend(snapshot(regime.Normal, 50, 0.30, regime.FlatTerm))
	if wait.PrimaryAction != Wait {
		t.Errorf("action = %s, want WAIT", wait.PrimaryAction)
	}
	if wait.RiskLevel != "normal" {
		t.Errorf("risk level = %s, want normal", wait.RiskLevel)
	}
}
