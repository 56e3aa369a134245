// Package strike selects option contracts by liquidity and delta for
// each strategy archetype.
package strike

import (
	"fmt"
	"math"
	"sort"
	"time"

	"options-trader/internal/config"
	"options-trader/internal/models"
)

// SelectionError indicates no contract satisfied the
// delta/liquidity/width constraints. It is data, not a crash: callers
// log the reason and skip the symbol.
type SelectionError struct {
	Reason string
}

func (e *SelectionError) Error() string { return e.Reason }

func selectionErrorf(format string, args ...interface{}) *SelectionError {
	return &SelectionError{Reason: fmt.Sprintf(format, args...)}
}

// Selector applies liquidity and delta rules from configuration.
type Selector struct {
	cfg config.StrategyConfig
}

// NewSelector creates a selector with the given strategy configuration.
func NewSelector(cfg config.StrategyConfig) *Selector {
	return &Selector{cfg: cfg}
}

// FilterLiquid keeps contracts meeting the volume and open-interest
// floors, sorted by liquidity score descending. The sort is stable so
// equal scores keep their input order.
func (s *Selector) FilterLiquid(contracts []models.OptionContract) []models.OptionContract {
	liquid := make([]models.OptionContract, 0, len(contracts))
	for _, c := range contracts {
		if c.Volume >= s.cfg.MinVolume && c.OpenInterest >= s.cfg.MinOpenInterest {
			liquid = append(liquid, c)
		}
	}
	sort.SliceStable(liquid, func(i, j int) bool {
		return liquid[i].LiquidityScore() > liquid[j].LiquidityScore()
	})
	return liquid
}

// SelectExpiration picks the expiration group whose DTE falls inside
// [minDTE, maxDTE], preferring the one closest to the window midpoint.
func (s *Selector) SelectExpiration(contracts []models.OptionContract, minDTE, maxDTE int, now time.Time) (time.Time, error) {
	target := float64(minDTE+maxDTE) / 2
	var best time.Time
	bestDiff := math.MaxFloat64
	for _, c := range contracts {
		dte := c.DTE(now)
		if dte < minDTE || dte > maxDTE {
			continue
		}
		diff := math.Abs(float64(dte) - target)
		if diff < bestDiff {
			bestDiff = diff
			best = c.Expiration
		}
	}
	if best.IsZero() {
		return time.Time{}, selectionErrorf("no expiration within %d-%d DTE", minDTE, maxDTE)
	}
	return best, nil
}

// Candidates returns liquid contracts of one type for one expiration.
func (s *Selector) Candidates(contracts []models.OptionContract, expiry time.Time, optType models.OptionType) ([]models.OptionContract, error) {
	var out []models.OptionContract
	for _, c := range s.FilterLiquid(contracts) {
		if c.Type == optType && c.Expiration.Equal(expiry) {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return nil, selectionErrorf("no liquid %s contracts for %s", optType, expiry.Format("2006-01-02"))
	}
	return out, nil
}

// NearestDelta returns the candidate whose |delta| is closest to the
// target. Ties keep the first-encountered candidate.
func (s *Selector) NearestDelta(candidates []models.OptionContract, target float64) (models.OptionContract, error) {
	if len(candidates) == 0 {
		return models.OptionContract{}, selectionErrorf("no candidates for delta %.2f", target)
	}
	best := candidates[0]
	bestDiff := math.Abs(math.Abs(candidates[0].Greeks.Delta) - target)
	for _, c := range candidates[1:] {
		diff := math.Abs(math.Abs(c.Greeks.Delta) - target)
		if diff < bestDiff {
			best = c
			bestDiff = diff
		}
	}
	return best, nil
}

// WingFor finds the long leg of a spread: the listed strike at the
// configured width beyond the short leg in the risk-reducing direction
// (below for puts, above for calls), within the strike tolerance.
func (s *Selector) WingFor(candidates []models.OptionContract, short models.OptionContract) (models.OptionContract, error) {
	targetStrike := short.Strike + s.cfg.SpreadWidth
	if short.Type == models.Put {
		targetStrike = short.Strike - s.cfg.SpreadWidth
	}

	var best models.OptionContract
	bestDiff := math.MaxFloat64
	for _, c := range candidates {
		diff := math.Abs(c.Strike - targetStrike)
		if diff < bestDiff {
			best = c
			bestDiff = diff
		}
	}
	if bestDiff > s.cfg.StrikeTolerance {
		return models.OptionContract{}, selectionErrorf(
			"no %s strike near %.2f within %.2f", short.Type, targetStrike, s.cfg.StrikeTolerance)
	}
	return best, nil
}
