package occ

import (
	"errors"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"options-trader/internal/models"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		underlying string
		expiry     string
		optType    models.OptionType
		strike     float64
	}{
		{"spy call", "SPY251219C00600000", "SPY", "2025-12-19", models.Call, 600},
		{"spy put", "SPY251219P00595000", "SPY", "2025-12-19", models.Put, 595},
		{"single letter underlying", "F260116C00012500", "F", "2026-01-16", models.Call, 12.5},
		{"fractional strike", "AAPL250620P00187500", "AAPL", "2025-06-20", models.Put, 187.5},
		{"sub-dollar strike", "XYZ250620C00000500", "XYZ", "2025-06-20", models.Call, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Parse(tt.code)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.code, err)
			}
			if c.Underlying != tt.underlying {
				t.Errorf("underlying = %q, want %q", c.Underlying, tt.underlying)
			}
			if got := c.Expiration.Format("2006-01-02"); got != tt.expiry {
				t.Errorf("expiration = %s, want %s", got, tt.expiry)
			}
			if c.Type != tt.optType {
				t.Errorf("type = %s, want %s", c.Type, tt.optType)
			}
			if c.Strike != tt.strike {
				t.Errorf("strike = %v, want %v", c.Strike, tt.strike)
			}
		})
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"empty", ""},
		{"too short", "SPY251219C0060000"},
		{"no underlying", "251219C00600000"},
		{"bad type char", "SPY251219X00600000"},
		{"bad date", "SPY259919C00600000"},
		{"non-numeric strike", "SPY251219C0060000X"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.code)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want error", tt.code)
			}
			if !errors.Is(err, ErrInvalidCode) {
				t.Errorf("error = %v, want ErrInvalidCode", err)
			}
		})
	}
}

func TestEncode(t *testing.T) {
	c := Contract{
		Underlying: "SPY",
		Expiration: time.Date(2025, 12, 19, 0, 0, 0, 0, time.UTC),
		Type:       models.Call,
		Strike:     600,
	}
	if got := Encode(c); got != "SPY251219C00600000" {
		t.Errorf("Encode = %q, want SPY251219C00600000", got)
	}

	c.Type = models.Put
	c.Strike = 187.5
	if got := Encode(c); got != "SPY251219P00187500" {
		t.Errorf("Encode = %q, want SPY251219P00187500", got)
	}
}

// TestProperty_EncodeParseRoundTrip checks that Parse inverts Encode
// for any well-formed contract.
func TestProperty_EncodeParseRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	underlyingGen := gen.OneConstOf("SPY", "QQQ", "AAPL", "TSLA", "F", "BRKB")
	dayGen := gen.IntRange(0, 365*10)
	mantissaGen := gen.IntRange(500, 99999999) // strike in thousandths
	typeGen := gen.OneConstOf(models.Call, models.Put)

	properties.Property("Parse(Encode(c)) == c", prop.ForAll(
		func(underlying string, days, mantissa int, optType models.OptionType) bool {
			in := Contract{
				Underlying: underlying,
				Expiration: base.AddDate(0, 0, days),
				Type:       optType,
				Strike:     float64(mantissa) / 1000,
			}
			out, err := Parse(Encode(in))
			if err != nil {
				t.Logf("Parse(Encode(%+v)) error: %v", in, err)
				return false
			}
			return out.Underlying == in.Underlying &&
				out.Expiration.Equal(in.Expiration) &&
				out.Type == in.Type &&
				out.Strike == in.Strike
		},
		underlyingGen,
		dayGen,
		mantissaGen,
		typeGen,
	))

	properties.TestingRun(t)
}
