package provider

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"sync"
	"time"

	"options-trader/internal/models"
	"options-trader/internal/occ"
)

// PaperProvider is a deterministic synthetic quote provider for paper
// trading and tests. Chains, the index level, and its history are
// generated, not fetched; the same inputs always produce the same quotes.
type PaperProvider struct {
	mu           sync.RWMutex
	spots        map[string]float64
	indexLevel   float64
	indexHistory []float64 // most-recent-first
	orderCounter int
	rejectCodes  map[string]bool
	now          func() time.Time
}

// PaperConfig holds overrides for the paper provider.
type PaperConfig struct {
	IndexLevel   float64
	IndexHistory []float64
	Spots        map[string]float64
	Now          func() time.Time
}

// NewPaperProvider creates a paper provider with sane defaults: a
// mid-range index level and a year of slowly oscillating index history.
func NewPaperProvider(cfg PaperConfig) *PaperProvider {
	p := &PaperProvider{
		spots:        map[string]float64{},
		indexLevel:   cfg.IndexLevel,
		indexHistory: cfg.IndexHistory,
		rejectCodes:  map[string]bool{},
		now:          cfg.Now,
	}
	if p.indexLevel == 0 {
		p.indexLevel = 18.5
	}
	if p.indexHistory == nil {
		p.indexHistory = syntheticIndexHistory(models.MaxIVHistory, p.indexLevel)
	}
	for sym, spot := range cfg.Spots {
		p.spots[sym] = spot
	}
	if p.now == nil {
		p.now = time.Now
	}
	return p
}

// syntheticIndexHistory builds a deterministic series oscillating
// around the current level, most-recent-first.
func syntheticIndexHistory(n int, level float64) []float64 {
	hist := make([]float64, n)
	for i := 0; i < n; i++ {
		hist[i] = level - 2 + 4*math.Sin(float64(i)/17) + 1.5*math.Cos(float64(i)/5)
		if hist[i] < 9 {
			hist[i] = 9
		}
	}
	return hist
}

// SetSpot fixes the spot price for a symbol.
func (p *PaperProvider) SetSpot(symbol string, spot float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.spots[symbol] = spot
}

// RejectCode makes Submit fail for a specific contract code, for
// exercising partial-fill handling.
func (p *PaperProvider) RejectCode(code string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rejectCodes[code] = true
}

// Spot returns the configured spot, or a stable pseudo-price derived
// from the symbol when none was set.
func (p *PaperProvider) Spot(ctx context.Context, underlying string) (float64, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if spot, ok := p.spots[underlying]; ok {
		return spot, nil
	}
	h := fnv.New32a()
	h.Write([]byte(underlying))
	return 50 + float64(h.Sum32()%450), nil
}

// IndexLevel returns the synthetic volatility-index level.
func (p *PaperProvider) IndexLevel(ctx context.Context) (float64, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.indexLevel, nil
}

// IndexHistory returns up to days points, most-recent-first.
func (p *PaperProvider) IndexHistory(ctx context.Context, days int) ([]float64, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if days > len(p.indexHistory) {
		days = len(p.indexHistory)
	}
	out := make([]float64, days)
	copy(out, p.indexHistory[:days])
	return out, nil
}

// Chain generates a synthetic chain: two expirations (21 and 45 days
// out), $5 strike steps within +/-20% of spot, Black-Scholes quotes
// with a mild smile, and liquidity decaying away from the money.
func (p *PaperProvider) Chain(ctx context.Context, underlying string) (map[string]ChainQuote, error) {
	spot, err := p.Spot(ctx, underlying)
	if err != nil {
		return nil, err
	}
	p.mu.RLock()
	baseIV := p.indexLevel / 100
	now := p.now()
	p.mu.RUnlock()

	chain := map[string]ChainQuote{}
	for _, dte := range []int{21, 45} {
		expiry := now.AddDate(0, 0, dte).Truncate(24 * time.Hour)
		years := float64(dte) / 365
		// Back-month carries a small contango premium.
		expIV := baseIV
		if dte > 30 {
			expIV = baseIV * 1.05
		}
		low := math.Floor(spot * 0.8 / 5) * 5
		high := math.Ceil(spot * 1.2 / 5) * 5
		for strike := low; strike <= high; strike += 5 {
			moneyness := (strike - spot) / spot
			iv := expIV * (1 + 0.4*moneyness*moneyness - 0.15*moneyness)
			atmDistance := math.Abs(moneyness)
			volume := int64(math.Max(0, 2000*(1-4*atmDistance)))
			oi := int64(math.Max(0, 8000*(1-3*atmDistance)))
			for _, optType := range []models.OptionType{models.Call, models.Put} {
				isCall := optType == models.Call
				mid := bsPrice(isCall, spot, strike, years, 0.045, iv)
				code := occ.Encode(occ.Contract{
					Underlying: underlying,
					Expiration: expiry,
					Type:       optType,
					Strike:     strike,
				})
				chain[code] = ChainQuote{
					Bid:          roundCents(mid * 0.98),
					Ask:          roundCents(mid * 1.02),
					Last:         roundCents(mid),
					Volume:       volume,
					OpenInterest: oi,
					IV:           iv,
					Greeks: models.OptionGreeks{
						Delta: bsDelta(isCall, spot, strike, years, 0.045, iv),
						Vega:  spot * math.Sqrt(years) * 0.4,
						Theta: -mid / float64(dte),
					},
				}
			}
		}
	}
	return chain, nil
}

// Submit acknowledges every order as filled unless its code was
// registered with RejectCode.
func (p *PaperProvider) Submit(ctx context.Context, order *models.Order) (*models.OrderResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.rejectCodes[order.Code] {
		return nil, fmt.Errorf("paper submit rejected: %s", order.Code)
	}
	p.orderCounter++
	return &models.OrderResult{
		ID:     fmt.Sprintf("PAPER-%06d", p.orderCounter),
		Status: "filled",
	}, nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
