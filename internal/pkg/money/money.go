package money

import (
	"bytes"
	"database/sql/driver"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

var ErrInvalidAmount = errors.New("invalid amount")

// Amount is a value in minor units (cents). All price math happens on
// integers; the decimal form only exists on the wire.
type Amount int64

func FromMajor(units int64) Amount {
	return Amount(units * 100)
}

// maxExponent bounds the e-notation exponent Parse accepts.
const maxExponent = 20

// Parse reads a decimal string with at most two fractional digits. JSON
// e-notation such as 1e2 or 1.5e1 is accepted as long as the value still
// resolves to whole cents.
func Parse(s string) (Amount, error) {
	raw := s
	s = strings.TrimSpace(s)
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}

	mantissa, exp := s, 0
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		mantissa = s[:i]
		e, err := strconv.Atoi(s[i+1:])
		if err != nil || e > maxExponent || e < -maxExponent {
			return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
		}
		exp = e
	}

	whole, frac, _ := strings.Cut(mantissa, ".")
	if whole+frac == "" || !isDigits(whole) || !isDigits(frac) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}

	// digits holds the value scaled so that appending shift zeros yields cents
	digits := whole + frac
	shift := 2 + exp - len(frac)
	if shift < 0 {
		cut := len(digits) + shift
		if cut < 0 {
			cut = 0
		}
		if strings.Trim(digits[cut:], "0") != "" {
			return 0, fmt.Errorf("%w: more than two decimal places in %q", ErrInvalidAmount, raw)
		}
		digits = digits[:cut]
	} else {
		digits += strings.Repeat("0", shift)
	}
	if digits == "" {
		return 0, nil
	}

	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	if neg {
		v = -v
	}
	return Amount(v), nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Times multiplies by a unit count (nights, rooms).
func (a Amount) Times(n int) Amount {
	return a * Amount(n)
}

// Percent returns rate% of a, rate being a percentage such as 12.5.
// The rate is fixed to basis points and the product is taken on big
// integers, so it never wraps. The result must itself fit in an Amount,
// which holds for any rate up to 100%.
func (a Amount) Percent(rate float64) Amount {
	v := new(big.Int).Mul(big.NewInt(int64(a)), big.NewInt(int64(math.Round(rate*100))))
	half := big.NewInt(5000)
	if v.Sign() < 0 {
		half.Neg(half)
	}
	v.Add(v, half).Quo(v, big.NewInt(10000))
	return Amount(v.Int64())
}

func (a Amount) Float64() float64 {
	return float64(a) / 100
}

func (a Amount) String() string {
	sign := ""
	v := int64(a)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	v, err := Parse(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

func (a Amount) Value() (driver.Value, error) {
	return int64(a), nil
}

// Scan accepts the integer column plus the float/text forms some drivers
// return for aggregates.
func (a *Amount) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*a = 0
	case int64:
		*a = Amount(v)
	case float64:
		*a = Amount(math.Round(v))
	case []byte:
		return a.scanString(string(v))
	case string:
		return a.scanString(v)
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidAmount, src)
	}
	return nil
}

func (a *Amount) scanString(s string) error {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	*a = Amount(n)
	return nil
}
