package models

import "time"

// OptionType represents the option contract type.
type OptionType string

const (
	Call OptionType = "call"
	Put  OptionType = "put"
)

// OptionGreeks represents option Greeks.
type OptionGreeks struct {
	Delta float64
	Gamma float64
	Theta float64
	Vega  float64
	Rho   float64
}

// OptionContract is a validated snapshot of a single chain entry,
// produced by parsing the provider's contract code at the boundary.
// Contracts are constructed per query and never persisted.
type OptionContract struct {
	Code         string // OCC-style contract code
	Underlying   string
	Expiration   time.Time
	Type         OptionType
	Strike       float64
	Bid          float64
	Ask          float64
	Last         float64
	Volume       int64
	OpenInterest int64
	IV           float64
	Greeks       OptionGreeks
}

// LiquidityScore weights open interest double relative to volume.
func (c OptionContract) LiquidityScore() float64 {
	return float64(c.Volume) + 2*float64(c.OpenInterest)
}

// Mid returns the bid/ask midpoint.
func (c OptionContract) Mid() float64 {
	return (c.Bid + c.Ask) / 2
}

// DTE returns whole days until expiration, measured from now.
func (c OptionContract) DTE(now time.Time) int {
	return int(c.Expiration.Sub(now).Hours() / 24)
}
