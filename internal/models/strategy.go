package models

import "time"

// StrategyType represents a supported option strategy archetype.
type StrategyType string

const (
	CoveredCall    StrategyType = "covered_call"
	CashSecuredPut StrategyType = "cash_secured_put"
	IronCondor     StrategyType = "iron_condor"
	CreditSpread   StrategyType = "credit_spread"
)

// LegSide represents the direction of an option leg.
type LegSide string

const (
	LegBuy  LegSide = "buy"
	LegSell LegSide = "sell"
)

// OptionLeg represents a single leg of an option strategy.
// Premium is quoted per share; dollar amounts on StrategyPlan are
// per contract (premium x 100).
type OptionLeg struct {
	Symbol     string // contract code
	Strike     float64
	Expiration time.Time
	Type       OptionType
	Side       LegSide
	Quantity   int
	Premium    float64
}

// StrategyPlan is a fully resolved multi-leg structure with computed P&L.
// TotalPremium is signed per-contract dollars: positive means a net credit.
type StrategyPlan struct {
	Strategy        StrategyType
	Underlying      string
	Legs            []OptionLeg
	TotalPremium    float64
	MaxRisk         float64
	MaxProfit       float64
	Breakevens      []float64
	RequiredCapital float64
}

// ShortContracts returns the total quantity across sell legs.
func (p *StrategyPlan) ShortContracts() int {
	total := 0
	for _, leg := range p.Legs {
		if leg.Side == LegSell {
			total += leg.Quantity
		}
	}
	return total
}

// RiskAssessment is the outcome of the risk gate for one candidate plan.
// Created fresh per validation call and never cached.
type RiskAssessment struct {
	Approved           bool
	Reason             string
	RiskPct            float64
	PremiumPerContract float64
	TotalContracts     int
}

// Account represents the portfolio state the risk gate validates against.
type Account struct {
	Equity      float64
	BuyingPower float64
}
