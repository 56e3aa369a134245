package volatility

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func seriesOf(n int, f func(i int) float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = f(i)
	}
	return out
}

func TestIVRank(t *testing.T) {
	history := seriesOf(252, func(i int) float64 { return 0.10 + 0.001*float64(i%100) })

	tests := []struct {
		name    string
		current float64
		history []float64
		want    float64
	}{
		{"at low", 0.10, history, 0},
		{"below range clamps", 0.05, history, 0},
		{"above range clamps", 0.50, history, 100},
		{"short history neutral", 0.30, seriesOf(19, func(int) float64 { return 0.2 }), 50},
		{"flat history neutral", 0.30, seriesOf(100, func(int) float64 { return 0.2 }), 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IVRank(tt.current, tt.history); got != tt.want {
				t.Errorf("IVRank(%v) = %v, want %v", tt.current, got, tt.want)
			}
		})
	}

	mid := IVRank(0.15, history)
	if mid <= 0 || mid >= 100 {
		t.Errorf("mid-range rank = %v, want strictly inside (0, 100)", mid)
	}
}

func TestIVPercentile(t *testing.T) {
	// 100 points from 0.10 to 0.199.
	history := seriesOf(100, func(i int) float64 { return 0.10 + 0.001*float64(i) })

	if got := IVPercentile(0.15, history); got != 50 {
		t.Errorf("percentile = %v, want 50", got)
	}
	if got := IVPercentile(0.05, history); got != 0 {
		t.Errorf("percentile below all = %v, want 0", got)
	}
	if got := IVPercentile(0.25, history); got != 100 {
		t.Errorf("percentile above all = %v, want 100", got)
	}
	// Strictly below: a value equal to every point counts none.
	flat := seriesOf(50, func(int) float64 { return 0.2 })
	if got := IVPercentile(0.2, flat); got != 0 {
		t.Errorf("percentile at flat value = %v, want 0", got)
	}
	if got := IVPercentile(0.3, seriesOf(19, func(int) float64 { return 0.2 })); got != 50 {
		t.Errorf("short history percentile = %v, want neutral 50", got)
	}
}

// TestProperty_RankAndPercentileBounds checks both statistics stay in
// [0, 100] for arbitrary inputs.
func TestProperty_RankAndPercentileBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	historyGen := gen.SliceOfN(60, gen.Float64Range(0.01, 3.0))
	currentGen := gen.Float64Range(0.001, 5.0)

	properties.Property("rank and percentile in [0, 100]", prop.ForAll(
		func(current float64, history []float64) bool {
			rank := IVRank(current, history)
			pct := IVPercentile(current, history)
			return rank >= 0 && rank <= 100 && pct >= 0 && pct <= 100
		},
		currentGen,
		historyGen,
	))

	properties.TestingRun(t)
}

func TestMedian(t *testing.T) {
	if got := median([]float64{3, 1, 2}); got != 2 {
		t.Errorf("odd median = %v, want 2", got)
	}
	if got := median([]float64{4, 1, 3, 2}); got != 2.5 {
		t.Errorf("even median = %v, want 2.5", got)
	}
	if got := median(nil); got != 0 {
		t.Errorf("empty median = %v, want 0", got)
	}

	in := []float64{3, 1, 2}
	median(in)
	if in[0] != 3 || in[1] != 1 || in[2] != 2 {
		t.Error("median mutated its input")
	}
}
