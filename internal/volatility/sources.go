package volatility

import (
	"context"
	"math"

	"options-trader/internal/logging"
	"options-trader/internal/models"
	"options-trader/internal/provider"
)

// primarySource takes the median implied volatility of contracts
// within the at-the-money band of the live chain.
type primarySource struct {
	engine *Engine
}

func (s *primarySource) name() string { return "primary" }

func (s *primarySource) tryFetch(ctx context.Context, symbol string) (*models.VolatilityMetrics, bool) {
	e := s.engine

	start := e.now()
	raw, err := e.provider.Chain(ctx, symbol)
	logging.LogAPICall(e.logger, "chain", e.now().Sub(start), err)
	if err != nil {
		e.logger.Warn().Err(err).Str("symbol", symbol).Msg("Primary source: chain fetch failed")
		return nil, false
	}
	spot, err := e.provider.Spot(ctx, symbol)
	if err != nil {
		e.logger.Warn().Err(err).Str("symbol", symbol).Msg("Primary source: spot fetch failed")
		return nil, false
	}

	var atmIVs []float64
	for _, c := range provider.ParseChain(raw) {
		if c.IV <= 0 {
			continue
		}
		if math.Abs(c.Strike-spot) <= spot*atmBandPct {
			atmIVs = append(atmIVs, c.IV)
		}
	}
	if len(atmIVs) == 0 {
		return nil, false
	}

	history, err := e.GetHistory(ctx, symbol, models.MaxIVHistory)
	if err != nil {
		e.logger.Warn().Err(err).Str("symbol", symbol).Msg("Primary source: history unavailable")
		history = nil
	}

	return &models.VolatilityMetrics{
		CurrentIV:    median(atmIVs),
		DataSource:   models.SourcePrimary,
		Confidence:   0.95,
		HistoricalIV: history,
	}, true
}

// calculatedSource is the reserved middle tier: IV derived from option
// prices when the chain carries quotes but no greeks. Not implemented;
// always defers to the next tier.
type calculatedSource struct{}

func (s *calculatedSource) name() string { return "calculated" }

func (s *calculatedSource) tryFetch(ctx context.Context, symbol string) (*models.VolatilityMetrics, bool) {
	return nil, false
}

// indexProxySource scales the volatility index by a correlation factor
// and a static per-symbol beta. Always succeeds when the index level
// is obtainable, making total fallback failure rare.
type indexProxySource struct {
	engine *Engine
}

func (s *indexProxySource) name() string { return "index_proxy" }

func (s *indexProxySource) tryFetch(ctx context.Context, symbol string) (*models.VolatilityMetrics, bool) {
	e := s.engine

	level, err := e.GetIndexLevel(ctx)
	if err != nil {
		e.logger.Warn().Err(err).Str("symbol", symbol).Msg("Index proxy: level fetch failed")
		return nil, false
	}

	scale := indexCorrelation * betaFor(symbol)
	currentIV := level / 100 * scale

	var history []float64
	if indexHist, err := e.provider.IndexHistory(ctx, models.MaxIVHistory); err == nil {
		history = make([]float64, len(indexHist))
		for i, l := range indexHist {
			history[i] = l / 100 * scale
		}
	} else {
		e.logger.Warn().Err(err).Str("symbol", symbol).Msg("Index proxy: history unavailable")
	}

	return &models.VolatilityMetrics{
		CurrentIV:    currentIV,
		DataSource:   models.SourceIndexProxy,
		Confidence:   0.40,
		IndexLevel:   level,
		HistoricalIV: history,
	}, true
}
