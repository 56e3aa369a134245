package provider

import "math"

// Black-Scholes helpers used by the paper provider to produce
// internally consistent synthetic quotes and greeks.

func normCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}

func bsD1(spot, strike, years, rate, sigma float64) float64 {
	return (math.Log(spot/strike) + (rate+0.5*sigma*sigma)*years) / (sigma * math.Sqrt(years))
}

// bsPrice returns the European option price; intrinsic value when
// expiry or volatility is degenerate.
func bsPrice(isCall bool, spot, strike, years, rate, sigma float64) float64 {
	if years <= 0 || sigma <= 0 {
		if isCall {
			return math.Max(0, spot-strike)
		}
		return math.Max(0, strike-spot)
	}
	d1 := bsD1(spot, strike, years, rate, sigma)
	d2 := d1 - sigma*math.Sqrt(years)
	if isCall {
		return spot*normCDF(d1) - strike*math.Exp(-rate*years)*normCDF(d2)
	}
	return strike*math.Exp(-rate*years)*normCDF(-d2) - spot*normCDF(-d1)
}

// bsDelta returns call delta in (0,1) or put delta in (-1,0).
func bsDelta(isCall bool, spot, strike, years, rate, sigma float64) float64 {
	if years <= 0 || sigma <= 0 {
		if isCall {
			if spot > strike {
				return 1
			}
			return 0
		}
		if spot < strike {
			return -1
		}
		return 0
	}
	d1 := bsD1(spot, strike, years, rate, sigma)
	if isCall {
		return normCDF(d1)
	}
	return normCDF(d1) - 1
}
