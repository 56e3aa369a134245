package strike

import (
	"errors"
	"testing"
	"time"

	"options-trader/internal/config"
	"options-trader/internal/models"
)

var testNow = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

func testConfig() config.StrategyConfig {
	return config.StrategyConfig{
		SpreadWidth:     5.0,
		StrikeTolerance: 0.5,
		MinVolume:       10,
		MinOpenInterest: 50,
	}
}

func contract(strike, delta float64, optType models.OptionType, dte int, volume, oi int64) models.OptionContract {
	return models.OptionContract{
		Code:         "TEST",
		Underlying:   "TEST",
		Expiration:   testNow.AddDate(0, 0, dte),
		Type:         optType,
		Strike:       strike,
		Bid:          1.0,
		Ask:          1.1,
		Volume:       volume,
		OpenInterest: oi,
		Greeks:       models.OptionGreeks{Delta: delta},
	}
}

func TestFilterLiquid(t *testing.T) {
	s := NewSelector(testConfig())
	contracts := []models.OptionContract{
		contract(100, 0.5, models.Call, 45, 5, 100),   // volume below floor
		contract(105, 0.4, models.Call, 45, 100, 10),  // OI below floor
		contract(110, 0.3, models.Call, 45, 50, 100),  // score 250
		contract(115, 0.2, models.Call, 45, 500, 900), // score 2300
	}

	liquid := s.FilterLiquid(contracts)
	if len(liquid) != 2 {
		t.Fatalf("kept %d contracts, want 2", len(liquid))
	}
	if liquid[0].Strike != 115 || liquid[1].Strike != 110 {
		t.Errorf("order = %v, %v; want most liquid first", liquid[0].Strike, liquid[1].Strike)
	}
}

func TestSelectExpiration(t *testing.T) {
	s := NewSelector(testConfig())
	contracts := []models.OptionContract{
		contract(100, 0.5, models.Call, 21, 100, 500),
		contract(100, 0.5, models.Call, 38, 100, 500),
		contract(100, 0.5, models.Call, 58, 100, 500),
		contract(100, 0.5, models.Call, 90, 100, 500),
	}

	// Window midpoint is 45; 38 DTE is the closest in-window group.
	expiry, err := s.SelectExpiration(contracts, 30, 60, testNow)
	if err != nil {
		t.Fatalf("SelectExpiration: %v", err)
	}
	if want := testNow.AddDate(0, 0, 38); !expiry.Equal(want) {
		t.Errorf("expiration = %v, want %v", expiry, want)
	}
}

func TestSelectExpirationNoneInWindow(t *testing.T) {
	s := NewSelector(testConfig())
	contracts := []models.OptionContract{
		contract(100, 0.5, models.Call, 7, 100, 500),
		contract(100, 0.5, models.Call, 90, 100, 500),
	}

	_, err := s.SelectExpiration(contracts, 30, 60, testNow)
	var selErr *SelectionError
	if !errors.As(err, &selErr) {
		t.Fatalf("error = %v, want SelectionError", err)
	}
}

func TestNearestDelta(t *testing.T) {
	s := NewSelector(testConfig())
	candidates := []models.OptionContract{
		contract(95, 0.18, models.Call, 45, 100, 500),
		contract(90, 0.25, models.Call, 45, 100, 500),
		contract(85, 0.33, models.Call, 45, 100, 500),
	}

	got, err := s.NearestDelta(candidates, 0.30)
	if err != nil {
		t.Fatalf("NearestDelta: %v", err)
	}
	if got.Greeks.Delta != 0.33 {
		t.Errorf("delta = %v, want 0.33 (closest to 0.30)", got.Greeks.Delta)
	}
}

func TestNearestDeltaUsesAbsoluteDelta(t *testing.T) {
	s := NewSelector(testConfig())
	candidates := []models.OptionContract{
		contract(95, -0.28, models.Put, 45, 100, 500),
		contract(90, -0.10, models.Put, 45, 100, 500),
	}

	got, err := s.NearestDelta(candidates, 0.30)
	if err != nil {
		t.Fatalf("NearestDelta: %v", err)
	}
	if got.Greeks.Delta != -0.28 {
		t.Errorf("delta = %v, want -0.28", got.Greeks.Delta)
	}
}

func TestNearestDeltaTieKeepsFirst(t *testing.T) {
	s := NewSelector(testConfig())
	// 0.25 and 0.75 are exactly representable, so both diffs from 0.5
	// are exactly equal.
	candidates := []models.OptionContract{
		contract(95, 0.25, models.Call, 45, 100, 500),
		contract(90, 0.75, models.Call, 45, 100, 500),
	}

	got, err := s.NearestDelta(candidates, 0.50)
	if err != nil {
		t.Fatalf("NearestDelta: %v", err)
	}
	if got.Strike != 95 {
		t.Errorf("strike = %v, want first candidate on tie", got.Strike)
	}
}

func TestNearestDeltaEmpty(t *testing.T) {
	s := NewSelector(testConfig())
	_, err := s.NearestDelta(nil, 0.30)
	var selErr *SelectionError
	if !errors.As(err, &selErr) {
		t.Fatalf("error = %v, want SelectionError", err)
	}
}

func TestWingFor(t *testing.T) {
	s := NewSelector(testConfig())
	puts := []models.OptionContract{
		contract(100, -0.30, models.Put, 45, 100, 500),
		contract(95, -0.20, models.Put, 45, 100, 500),
		contract(90, -0.12, models.Put, 45, 100, 500),
	}

	wing, err := s.WingFor(puts, puts[0])
	if err != nil {
		t.Fatalf("WingFor: %v", err)
	}
	if wing.Strike != 95 {
		t.Errorf("put wing strike = %v, want 95 (one width below)", wing.Strike)
	}

	calls := []models.OptionContract{
		contract(100, 0.30, models.Call, 45, 100, 500),
		contract(105, 0.20, models.Call, 45, 100, 500),
	}
	wing, err = s.WingFor(calls, calls[0])
	if err != nil {
		t.Fatalf("WingFor: %v", err)
	}
	if wing.Strike != 105 {
		t.Errorf("call wing strike = %v, want 105 (one width above)", wing.Strike)
	}
}

func TestWingForOutsideTolerance(t *testing.T) {
	s := NewSelector(testConfig())
	// Nearest listed strike to the 95 target is 2 points away.
	puts := []models.OptionContract{
		contract(100, -0.30, models.Put, 45, 100, 500),
		contract(93, -0.15, models.Put, 45, 100, 500),
	}

	_, err := s.WingFor(puts, puts[0])
	var selErr *SelectionError
	if !errors.As(err, &selErr) {
		t.Fatalf("error = %v, want SelectionError", err)
	}
}

func TestCandidates(t *testing.T) {
	s := NewSelector(testConfig())
	expiry := testNow.AddDate(0, 0, 45)
	contracts := []models.OptionContract{
		contract(100, 0.30, models.Call, 45, 100, 500),
		contract(100, -0.30, models.Put, 45, 100, 500),
		contract(100, 0.40, models.Call, 21, 100, 500), // wrong expiry
		contract(105, 0.20, models.Call, 45, 1, 1),     // illiquid
	}

	calls, err := s.Candidates(contracts, expiry, models.Call)
	if err != nil {
		t.Fatalf("Candidates: %v", err)
	}
	if len(calls) != 1 || calls[0].Strike != 100 || calls[0].Type != models.Call {
		t.Errorf("candidates = %+v, want the single liquid 100 call", calls)
	}
}
