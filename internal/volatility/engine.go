// Package volatility computes implied-volatility metrics with a
// multi-source fallback chain and time-boxed caching.
package volatility

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"options-trader/internal/logging"
	"options-trader/internal/models"
	"options-trader/internal/provider"
)

// ErrDataUnavailable indicates every fallback tier failed. Rare by
// construction: the index-proxy tier succeeds whenever the index level
// is obtainable.
var ErrDataUnavailable = errors.New("volatility data unavailable: all sources exhausted")

const (
	// atmBandPct bounds the at-the-money band around spot.
	atmBandPct = 0.05
	// indexCorrelation scales index level into a single-name IV proxy.
	indexCorrelation = 0.6
	defaultBeta      = 1.3
)

// betaTable maps symbols to index betas for the proxy tier.
var betaTable = map[string]float64{
	"SPY":  1.0,
	"QQQ":  1.2,
	"IWM":  1.15,
	"DIA":  0.95,
	"AAPL": 1.25,
	"MSFT": 1.1,
	"AMZN": 1.3,
	"NVDA": 1.8,
	"TSLA": 2.0,
}

// source is one fallback tier. tryFetch returns not-ok instead of an
// error when the tier cannot produce metrics; real provider failures
// are logged inside the tier.
type source interface {
	name() string
	tryFetch(ctx context.Context, symbol string) (*models.VolatilityMetrics, bool)
}

// Engine computes VolatilityMetrics per symbol. Not safe for
// concurrent writers on the same symbol; serialize per symbol when
// parallelizing across processes.
type Engine struct {
	provider provider.QuoteProvider
	cache    *CacheService
	logger   zerolog.Logger
	sources  []source
	now      func() time.Time
}

// NewEngine creates a metrics engine over a provider and an injected
// cache service.
func NewEngine(p provider.QuoteProvider, cache *CacheService, logger zerolog.Logger) *Engine {
	e := &Engine{
		provider: p,
		cache:    cache,
		logger:   logger,
		now:      time.Now,
	}
	e.sources = []source{
		&primarySource{engine: e},
		&calculatedSource{},
		&indexProxySource{engine: e},
	}
	return e
}

// GetMetrics returns the volatility metrics for a symbol, serving from
// cache when fresh and walking the fallback chain otherwise. The first
// tier to produce a result wins.
func (e *Engine) GetMetrics(ctx context.Context, symbol string) (*models.VolatilityMetrics, error) {
	if m := e.cache.LoadCached(symbol, TTLMetrics); m != nil {
		return m, nil
	}

	log := logging.WithSymbol(e.logger, symbol)
	for _, src := range e.sources {
		m, ok := src.tryFetch(ctx, symbol)
		if !ok {
			log.Debug().Str("source", src.name()).Msg("Source produced no metrics")
			continue
		}
		e.finish(symbol, m)
		e.cache.Cache(symbol, m)
		log.Info().
			Str("source", string(m.DataSource)).
			Float64("current_iv", m.CurrentIV).
			Float64("iv_rank", m.IVRank).
			Msg("Volatility metrics computed")
		return m, nil
	}

	log.Error().Msg("All volatility sources exhausted")
	return nil, ErrDataUnavailable
}

// GetIndexLevel returns the volatility-index level, cached for TTLIndex.
func (e *Engine) GetIndexLevel(ctx context.Context) (float64, error) {
	if level, ok := e.cache.LoadIndex(); ok {
		return level, nil
	}
	start := e.now()
	level, err := e.provider.IndexLevel(ctx)
	logging.LogAPICall(e.logger, "index_level", e.now().Sub(start), err)
	if err != nil {
		return 0, err
	}
	e.cache.CacheIndex(level)
	return level, nil
}

// GetHistory returns up to days historical IV points for a symbol,
// most-recent-first. A cached series is reused within TTLRank;
// otherwise the index history is scaled the same way the proxy tier
// scales the current level.
func (e *Engine) GetHistory(ctx context.Context, symbol string, days int) ([]float64, error) {
	if m := e.cache.LoadCached(symbol, TTLRank); m != nil && len(m.HistoricalIV) > 0 {
		if days > len(m.HistoricalIV) {
			days = len(m.HistoricalIV)
		}
		out := make([]float64, days)
		copy(out, m.HistoricalIV[:days])
		return out, nil
	}

	indexHist, err := e.provider.IndexHistory(ctx, days)
	if err != nil {
		return nil, err
	}
	scale := indexCorrelation * betaFor(symbol) / 100
	history := make([]float64, len(indexHist))
	for i, level := range indexHist {
		history[i] = level * scale
	}
	return history, nil
}

// TermStructure returns front- and back-month at-the-money IV
// estimates in index points. Regime classification compares the two.
func (e *Engine) TermStructure(ctx context.Context, symbol string) (front, back float64, err error) {
	raw, err := e.provider.Chain(ctx, symbol)
	if err != nil {
		return 0, 0, err
	}
	spot, err := e.provider.Spot(ctx, symbol)
	if err != nil {
		return 0, 0, err
	}

	byExpiry := map[time.Time][]float64{}
	for _, c := range provider.ParseChain(raw) {
		if c.IV <= 0 || math.Abs(c.Strike-spot) > spot*atmBandPct {
			continue
		}
		byExpiry[c.Expiration] = append(byExpiry[c.Expiration], c.IV)
	}
	if len(byExpiry) < 2 {
		return 0, 0, errors.New("term structure needs at least two expirations")
	}

	expiries := make([]time.Time, 0, len(byExpiry))
	for exp := range byExpiry {
		expiries = append(expiries, exp)
	}
	sort.Slice(expiries, func(i, j int) bool { return expiries[i].Before(expiries[j]) })

	front = mean(byExpiry[expiries[0]]) * 100
	back = mean(byExpiry[expiries[len(expiries)-1]]) * 100
	return front, back, nil
}

// Clear evicts cached metrics for one symbol, or all when empty.
func (e *Engine) Clear(symbol string) {
	e.cache.Clear(symbol)
}

// finish fills the derived fields on a tier's raw result.
func (e *Engine) finish(symbol string, m *models.VolatilityMetrics) {
	m.Symbol = symbol
	m.Timestamp = e.now()
	if len(m.HistoricalIV) > models.MaxIVHistory {
		m.HistoricalIV = m.HistoricalIV[:models.MaxIVHistory]
	}
	m.IVRank = IVRank(m.CurrentIV, m.HistoricalIV)
	m.IVPercentile = IVPercentile(m.CurrentIV, m.HistoricalIV)
	if len(m.HistoricalIV) > 0 {
		lo, hi := minMax(m.HistoricalIV)
		m.IV52wLow, m.IV52wHigh = lo, hi
		window := 30
		if window > len(m.HistoricalIV) {
			window = len(m.HistoricalIV)
		}
		m.IV30dAvg = mean(m.HistoricalIV[:window])
	}
}

func betaFor(symbol string) float64 {
	if beta, ok := betaTable[symbol]; ok {
		return beta
	}
	return defaultBeta
}
