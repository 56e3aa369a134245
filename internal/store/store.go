// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"
)

// SignalRecord is one journaled strategy signal.
type SignalRecord struct {
	ID         int64
	Timestamp  time.Time
	Symbol     string
	Action     string
	Tier       string
	Regime     string
	IVRank     float64
	Percentile float64
	Multiplier float64
	Rationale  string
}

// TradeRecord is one journaled submission attempt.
type TradeRecord struct {
	ID        int64
	Timestamp time.Time
	Symbol    string
	Strategy  string
	Premium   float64 // per-contract dollars
	MaxRisk   float64
	Contracts int
	Status    string // approved, rejected, filled, partial, failed
	Reason    string
	OrderIDs  string // comma-separated
	IsPaper   bool
}

// Journal defines the trade-journal persistence interface.
type Journal interface {
	SaveSignal(ctx context.Context, rec *SignalRecord) error
	SaveTrade(ctx context.Context, rec *TradeRecord) error
	GetSignals(ctx context.Context, symbol string, limit int) ([]SignalRecord, error)
	GetTrades(ctx context.Context, symbol string, limit int) ([]TradeRecord, error)
	Close() error
}
