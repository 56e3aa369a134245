// Package regime classifies volatility-index conditions. Classification
// is stateless: every call reclassifies from the current level, with no
// transition history.
package regime

import "math"

// Level represents a volatility-index regime bucket.
type Level string

const (
	ExtremeLow Level = "extreme_low" // [0, 12)
	Low        Level = "low"         // [12, 15)
	Normal     Level = "normal"      // [15, 20)
	Elevated   Level = "elevated"    // [20, 25)
	High       Level = "high"        // [25, 35)
	Extreme    Level = "extreme"     // [35, inf)
)

// DefaultWindow is the historical window used for statistics.
const DefaultWindow = 252

// DefaultSpikeThreshold is the z-score above which the index counts as
// spiking.
const DefaultSpikeThreshold = 2.0

// Classify buckets an index level. Boundaries are half-open: 15.00 is
// normal, 34.99 is high, 35.00 is extreme.
func Classify(index float64) Level {
	switch {
	case index < 12:
		return ExtremeLow
	case index < 15:
		return Low
	case index < 20:
		return Normal
	case index < 25:
		return Elevated
	case index < 35:
		return High
	default:
		return Extreme
	}
}

// Stats summarizes the current level against its historical window.
type Stats struct {
	Mean       float64
	Std        float64
	Min        float64
	Max        float64
	Percentile float64 // of current within history, 0-100
	ZScore     float64
}

// ComputeStats computes distribution statistics for the current level
// over a historical window. An empty window yields zero stats.
func ComputeStats(current float64, history []float64) Stats {
	if len(history) == 0 {
		return Stats{}
	}
	if len(history) > DefaultWindow {
		history = history[:DefaultWindow]
	}

	var s Stats
	s.Min, s.Max = history[0], history[0]
	sum := 0.0
	below := 0
	for _, v := range history {
		sum += v
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
		if v < current {
			below++
		}
	}
	s.Mean = sum / float64(len(history))

	variance := 0.0
	for _, v := range history {
		d := v - s.Mean
		variance += d * d
	}
	s.Std = math.Sqrt(variance / float64(len(history)))

	s.Percentile = float64(below) / float64(len(history)) * 100
	if s.Std > 0 {
		s.ZScore = (current - s.Mean) / s.Std
	}
	return s
}

// SpikeSeverity buckets a z-score.
type SpikeSeverity string

const (
	SpikeNone     SpikeSeverity = "none"     // z < 1
	SpikeMild     SpikeSeverity = "mild"     // z < 2
	SpikeModerate SpikeSeverity = "moderate" // z < 3
	SpikeSevere   SpikeSeverity = "severe"   // z < 4
	SpikeExtreme  SpikeSeverity = "extreme"
)

// Severity buckets a z-score into a spike severity.
func Severity(zScore float64) SpikeSeverity {
	switch {
	case zScore < 1:
		return SpikeNone
	case zScore < 2:
		return SpikeMild
	case zScore < 3:
		return SpikeModerate
	case zScore < 4:
		return SpikeSevere
	default:
		return SpikeExtreme
	}
}

// IsSpike reports whether the z-score clears the spike threshold.
func IsSpike(zScore, threshold float64) bool {
	return zScore > threshold
}

// MeanReversionProbability estimates the chance of the index reverting
// toward its mean. At or below the mean there is little reversion
// pressure; above it the probability scales with the z-score, capped at
// 0.95.
func MeanReversionProbability(current float64, s Stats) float64 {
	if current <= s.Mean {
		return 0.30
	}
	p := 0.5 + s.ZScore*0.15
	return math.Min(0.95, p)
}

// TermStructure represents the shape of the volatility term structure.
type TermStructure string

const (
	Contango      TermStructure = "contango"
	Backwardation TermStructure = "backwardation"
	FlatTerm      TermStructure = "flat"
)

// termStructureBand is the dead zone, in index points, around flat.
const termStructureBand = 0.5

// ClassifyTermStructure compares back- and front-month estimates.
func ClassifyTermStructure(front, back float64) TermStructure {
	diff := back - front
	switch {
	case diff > termStructureBand:
		return Contango
	case diff < -termStructureBand:
		return Backwardation
	default:
		return FlatTerm
	}
}

// Snapshot is a full regime analysis of the current index level.
type Snapshot struct {
	Index         float64
	Level         Level
	Stats         Stats
	IsSpike       bool
	Severity      SpikeSeverity
	MeanReversion float64
	Term          TermStructure
}

// Analyze classifies the index level against its history and the
// front/back term-structure estimates.
func Analyze(index float64, history []float64, front, back float64) Snapshot {
	stats := ComputeStats(index, history)
	return Snapshot{
		Index:         index,
		Level:         Classify(index),
		Stats:         stats,
		IsSpike:       IsSpike(stats.ZScore, DefaultSpikeThreshold),
		Severity:      Severity(stats.ZScore),
		MeanReversion: MeanReversionProbability(index, stats),
		Term:          ClassifyTermStructure(front, back),
	}
}
