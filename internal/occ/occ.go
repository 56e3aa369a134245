// Package occ encodes and decodes OCC-style option contract codes.
//
// The format is fixed-width with no separators:
// <underlying><YYMMDD><C|P><strike x 1000, zero-padded to 8 digits>,
// e.g. "SPY251219C00600000" is the SPY 2025-12-19 600 call.
package occ

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"options-trader/internal/models"
)

// ErrInvalidCode indicates a contract code that does not match the format.
var ErrInvalidCode = errors.New("invalid contract code")

// suffixLen covers date (6) + type (1) + strike (8).
const suffixLen = 15

// Contract is the decoded form of a contract code.
type Contract struct {
	Underlying string
	Expiration time.Time
	Type       models.OptionType
	Strike     float64
}

// Parse decodes a contract code. Parse and Encode are inverses for
// well-formed codes.
func Parse(code string) (Contract, error) {
	if len(code) <= suffixLen {
		return Contract{}, fmt.Errorf("%w: %q too short", ErrInvalidCode, code)
	}

	underlying := code[:len(code)-suffixLen]
	suffix := code[len(code)-suffixLen:]

	expiry, err := time.Parse("060102", suffix[:6])
	if err != nil {
		return Contract{}, fmt.Errorf("%w: bad expiration in %q: %v", ErrInvalidCode, code, err)
	}

	var optType models.OptionType
	switch suffix[6] {
	case 'C':
		optType = models.Call
	case 'P':
		optType = models.Put
	default:
		return Contract{}, fmt.Errorf("%w: bad option type %q in %q", ErrInvalidCode, suffix[6], code)
	}

	mantissa, err := strconv.Atoi(suffix[7:])
	if err != nil {
		return Contract{}, fmt.Errorf("%w: bad strike in %q: %v", ErrInvalidCode, code, err)
	}

	return Contract{
		Underlying: underlying,
		Expiration: expiry,
		Type:       optType,
		Strike:     float64(mantissa) / 1000,
	}, nil
}

// Encode produces the contract code for a decoded contract.
func Encode(c Contract) string {
	typeChar := "C"
	if c.Type == models.Put {
		typeChar = "P"
	}
	return fmt.Sprintf("%s%s%s%08d",
		c.Underlying,
		c.Expiration.Format("060102"),
		typeChar,
		int(math.Round(c.Strike*1000)),
	)
}
