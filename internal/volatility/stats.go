package volatility

import "sort"

// MinHistoryPoints is the minimum historical series length for rank and
// percentile to be meaningful; below it both default to the neutral 50.
const MinHistoryPoints = 20

// IVRank places current within the historical [min, max] range, 0-100.
// Degenerate ranges (max == min) and short histories return 50.
func IVRank(current float64, history []float64) float64 {
	if len(history) < MinHistoryPoints {
		return 50
	}
	lo, hi := minMax(history)
	if hi == lo {
		return 50
	}
	rank := (current - lo) / (hi - lo) * 100
	if rank < 0 {
		return 0
	}
	if rank > 100 {
		return 100
	}
	return rank
}

// IVPercentile is the fraction of historical points strictly below
// current, x100. Short histories return 50.
func IVPercentile(current float64, history []float64) float64 {
	if len(history) < MinHistoryPoints {
		return 50
	}
	below := 0
	for _, v := range history {
		if v < current {
			below++
		}
	}
	return float64(below) / float64(len(history)) * 100
}

func minMax(values []float64) (float64, float64) {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// median returns the middle value; the input is not modified.
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
