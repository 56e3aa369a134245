package models

import "time"

// DataSource identifies which fallback tier produced a metrics snapshot.
type DataSource string

const (
	SourcePrimary    DataSource = "primary"
	SourceCalculated DataSource = "calculated"
	SourceIndexProxy DataSource = "index_proxy"
)

// MaxIVHistory caps the historical IV series at one trading year.
const MaxIVHistory = 252

// VolatilityMetrics represents the implied-volatility picture for a symbol.
// IVRank and IVPercentile are always in [0,100]; with fewer than 20
// historical points both default to the neutral 50.
type VolatilityMetrics struct {
	Symbol       string     `json:"symbol"`
	CurrentIV    float64    `json:"current_iv"` // annualized, decimal
	IVRank       float64    `json:"iv_rank"`
	IVPercentile float64    `json:"iv_percentile"`
	IV52wHigh    float64    `json:"iv_52w_high"`
	IV52wLow     float64    `json:"iv_52w_low"`
	IV30dAvg     float64    `json:"iv_30d_avg"`
	Timestamp    time.Time  `json:"timestamp"`
	DataSource   DataSource `json:"data_source"`
	Confidence   float64    `json:"confidence"` // [0,1]
	IndexLevel   float64    `json:"index_level,omitempty"`
	HistoricalIV []float64  `json:"historical_iv,omitempty"` // most-recent-first, <= MaxIVHistory
}
