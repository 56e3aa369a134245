package risk

import (
	"fmt"
	"time"

	"options-trader/internal/config"
	"options-trader/internal/models"
)

// Gate validates candidate plans against portfolio risk limits. Rules
// run in a fixed order and the first failure short-circuits with its
// reason; a rejected plan is never submitted.
type Gate struct {
	cfg config.RiskConfig
	now func() time.Time
}

// NewGate creates a risk gate.
func NewGate(cfg config.RiskConfig) *Gate {
	return &Gate{cfg: cfg, now: time.Now}
}

// Validate runs the five risk rules against a plan and the account
// state. The assessment is created fresh per call and never cached.
func (g *Gate) Validate(plan *models.StrategyPlan, account models.Account) *models.RiskAssessment {
	contracts := plan.ShortContracts()

	// MaxRisk is the whole structure's max loss per lot; on a condor
	// only one wing can lose, so risk scales with lots, not with the
	// short-contract count.
	lots := maxLegQuantity(plan)
	totalRisk := plan.MaxRisk * float64(lots)

	// Rule 1: total risk within the portfolio risk budget.
	maxAllowed := account.Equity * g.cfg.MaxPortfolioRiskPct
	if totalRisk > maxAllowed {
		return reject(fmt.Sprintf(
			"max risk $%.2f exceeds %.1f%% of equity ($%.2f)",
			totalRisk, g.cfg.MaxPortfolioRiskPct*100, maxAllowed))
	}

	// Rule 2: the structure must pay at least the premium floor.
	premiumFloor := g.cfg.MinPremiumPerContract * 100
	if plan.TotalPremium < premiumFloor {
		return reject(fmt.Sprintf(
			"premium $%.2f/contract below $%.2f floor",
			plan.TotalPremium, premiumFloor))
	}

	// Rule 3: short contract count cap.
	if contracts > g.cfg.MaxPositionSize {
		return reject(fmt.Sprintf(
			"%d short contracts exceeds position limit %d",
			contracts, g.cfg.MaxPositionSize))
	}

	// Rule 4: capital requirement within buying power.
	requiredCapital := plan.RequiredCapital * float64(lots)
	if requiredCapital > account.BuyingPower {
		return reject(fmt.Sprintf(
			"required capital $%.2f exceeds buying power $%.2f",
			requiredCapital, account.BuyingPower))
	}

	// Rule 5: every leg inside the DTE window.
	now := g.now()
	for _, leg := range plan.Legs {
		dte := int(leg.Expiration.Sub(now).Hours() / 24)
		if dte < g.cfg.MinDTE || dte > g.cfg.MaxDTE {
			return reject(fmt.Sprintf(
				"leg %s at %d DTE outside %d-%d window",
				leg.Symbol, dte, g.cfg.MinDTE, g.cfg.MaxDTE))
		}
	}

	riskPct := 0.0
	if account.Equity > 0 {
		riskPct = totalRisk / account.Equity * 100
	}
	return &models.RiskAssessment{
		Approved:           true,
		Reason:             "all risk checks passed",
		RiskPct:            riskPct,
		PremiumPerContract: plan.TotalPremium,
		TotalContracts:     contracts,
	}
}

func reject(reason string) *models.RiskAssessment {
	return &models.RiskAssessment{Approved: false, Reason: reason}
}

func maxLegQuantity(plan *models.StrategyPlan) int {
	max := 1
	for _, leg := range plan.Legs {
		if leg.Quantity > max {
			max = leg.Quantity
		}
	}
	return max
}
