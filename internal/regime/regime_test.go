package regime

import (
	"math"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		index float64
		want  Level
	}{
		{0, ExtremeLow},
		{11.99, ExtremeLow},
		{12.00, Low},
		{14.99, Low},
		{15.00, Normal},
		{19.99, Normal},
		{20.00, Elevated},
		{24.99, Elevated},
		{25.00, High},
		{34.99, High},
		{35.00, Extreme},
		{80.86, Extreme}, // intraday record
	}
	for _, tt := range tests {
		if got := Classify(tt.index); got != tt.want {
			t.Errorf("Classify(%v) = %s, want %s", tt.index, got, tt.want)
		}
	}
}

func TestComputeStats(t *testing.T) {
	history := []float64{10, 20, 30, 40}
	s := ComputeStats(25, history)

	if s.Mean != 25 {
		t.Errorf("mean = %v, want 25", s.Mean)
	}
	if s.Min != 10 || s.Max != 40 {
		t.Errorf("min/max = %v/%v, want 10/40", s.Min, s.Max)
	}
	if s.Percentile != 50 {
		t.Errorf("percentile = %v, want 50", s.Percentile)
	}
	// Population std of {10,20,30,40} is sqrt(125).
	if math.Abs(s.Std-math.Sqrt(125)) > 1e-9 {
		t.Errorf("std = %v, want %v", s.Std, math.Sqrt(125))
	}
	if s.ZScore != 0 {
		t.Errorf("z-score at mean = %v, want 0", s.ZScore)
	}

	if got := ComputeStats(25, nil); got != (Stats{}) {
		t.Errorf("empty history stats = %+v, want zero", got)
	}

	// A flat window has zero std and must not divide by it.
	flat := ComputeStats(30, []float64{20, 20, 20})
	if flat.ZScore != 0 {
		t.Errorf("flat-window z-score = %v, want 0", flat.ZScore)
	}
}

func TestComputeStatsWindowCap(t *testing.T) {
	history := make([]float64, DefaultWindow+100)
	for i := range history {
		history[i] = 20
	}
	// Points beyond the window must not count.
	history[DefaultWindow+50] = 1000

	s := ComputeStats(20, history)
	if s.Max != 20 {
		t.Errorf("max = %v, want 20 (outlier beyond window counted)", s.Max)
	}
}

func TestSeverity(t *testing.T) {
	tests := []struct {
		z    float64
		want SpikeSeverity
	}{
		{0, SpikeNone},
		{0.99, SpikeNone},
		{1.0, SpikeMild},
		{1.99, SpikeMild},
		{2.0, SpikeModerate},
		{3.0, SpikeSevere},
		{4.0, SpikeExtreme},
		{7.5, SpikeExtreme},
	}
	for _, tt := range tests {
		if got := Severity(tt.z); got != tt.want {
			t.Errorf("Severity(%v) = %s, want %s", tt.z, got, tt.want)
		}
	}
}

func TestIsSpike(t *testing.T) {
	if IsSpike(2.0, DefaultSpikeThreshold) {
		t.Error("z exactly at threshold counted as spike")
	}
	if !IsSpike(2.01, DefaultSpikeThreshold) {
		t.Error("z above threshold not counted as spike")
	}
}

func TestMeanReversionProbability(t *testing.T) {
	s := Stats{Mean: 20, Std: 4}

	if got := MeanReversionProbability(18, s); got != 0.30 {
		t.Errorf("below mean = %v, want 0.30", got)
	}
	if got := MeanReversionProbability(20, s); got != 0.30 {
		t.Errorf("at mean = %v, want 0.30", got)
	}

	s.ZScore = 1.0
	if got := MeanReversionProbability(24, s); math.Abs(got-0.65) > 1e-9 {
		t.Errorf("z=1 = %v, want 0.65", got)
	}

	s.ZScore = 3.5
	if got := MeanReversionProbability(34, s); got != 0.95 {
		t.Errorf("z=3.5 = %v, want capped 0.95", got)
	}
}

func TestClassifyTermStructure(t *testing.T) {
	tests := []struct {
		front, back float64
		want        TermStructure
	}{
		{18, 20, Contango},
		{20, 18, Backwardation},
		{20, 20, FlatTerm},
		{20, 20.5, FlatTerm}, // inside the dead zone
		{20, 19.5, FlatTerm},
		{20, 20.51, Contango},
		{20, 19.49, Backwardation},
	}
	for _, tt := range tests {
		if got := ClassifyTermStructure(tt.front, tt.back); got != tt.want {
			t.Errorf("ClassifyTermStructure(%v, %v) = %s, want %s", tt.front, tt.back, got, tt.want)
		}
	}
}

func TestAnalyze(t *testing.T) {
	history := make([]float64, 252)
	for i := range history {
		history[i] = 15 + float64(i%10) // 15..24, mean 19.5
	}

	snap := Analyze(38, history, 40, 30)
	if snap.Level != Extreme {
		t.Errorf("level = %s, want extreme", snap.Level)
	}
	if !snap.IsSpike {
		t.Error("index far above the window not flagged as spike")
	}
	if snap.MeanReversion <= 0.6 {
		t.Errorf("reversion = %v, want above 0.6 for a spike", snap.MeanReversion)
	}
	if snap.Term != Backwardation {
		t.Errorf("term = %s, want backwardation", snap.Term)
	}
	if snap.Stats.Percentile != 100 {
		t.Errorf("percentile = %v, want 100", snap.Stats.Percentile)
	}
}

// TestProperty_MeanReversionBounds checks the probability stays inside
// [0.30, 0.95] whatever the inputs.
func TestProperty_MeanReversionBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("probability in [0.30, 0.95]", prop.ForAll(
		func(current float64, history []float64) bool {
			s := ComputeStats(current, history)
			p := MeanReversionProbability(current, s)
			return p >= 0.30 && p <= 0.95
		},
		gen.Float64Range(1, 100),
		gen.SliceOfN(60, gen.Float64Range(9, 85)),
	))

	properties.TestingRun(t)
}
