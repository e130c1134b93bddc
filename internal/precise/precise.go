// Package precise implements exact decimal-string arithmetic for money
// paths. Vendor APIs report prices and quantities as strings with
// inconsistent trailing precision; round-tripping them through binary
// floats would silently corrupt balances and order sizes, so every
// operation here stays in arbitrary-precision decimals end to end.
//
// The empty string stands for an absent value and propagates through
// every helper, mirroring how partially populated vendor payloads flow
// through the normalization pipeline. A malformed non-empty input is a
// contract violation and panics with *ParseError.
package precise

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// defaultDivPlaces is the fractional precision used by StringDiv when
// the caller does not request a specific number of places. Trailing
// zeros are trimmed from the result.
const defaultDivPlaces = 18

// ParseError reports a non-numeric input handed to an arithmetic
// helper. It is raised via panic: by the time a value reaches the
// engine it has been extracted by a safe accessor, so a malformed
// string means the calling code wired the wrong field, not a vendor
// omission.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("precise: invalid decimal %q: %v", e.Input, e.Err)
	}
	return fmt.Sprintf("precise: invalid decimal %q", e.Input)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse converts a decimal string (optionally signed, optionally
// exponential) into an exact decimal value.
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, &ParseError{Input: s, Err: err}
	}
	return d, nil
}

// MustParse is Parse for inputs that are already known to be numeric.
func MustParse(s string) decimal.Decimal {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// StringAdd returns a+b, or "" if either operand is absent.
func StringAdd(a, b string) string {
	if a == "" || b == "" {
		return ""
	}
	return MustParse(a).Add(MustParse(b)).String()
}

// StringSub returns a-b, or "" if either operand is absent.
func StringSub(a, b string) string {
	if a == "" || b == "" {
		return ""
	}
	return MustParse(a).Sub(MustParse(b)).String()
}

// StringMul returns a*b, or "" if either operand is absent.
func StringMul(a, b string) string {
	if a == "" || b == "" {
		return ""
	}
	return MustParse(a).Mul(MustParse(b)).String()
}

// StringDiv returns a/b truncated toward zero at 18 fractional digits
// with trailing zeros trimmed, or "" if either operand is absent.
// Division by zero panics with *ParseError.
func StringDiv(a, b string) string {
	if a == "" || b == "" {
		return ""
	}
	return divTrunc(MustParse(a), MustParse(b), defaultDivPlaces).String()
}

// StringDivPlaces returns a/b truncated toward zero and rendered with
// exactly places fractional digits.
func StringDivPlaces(a, b string, places int32) string {
	if a == "" || b == "" {
		return ""
	}
	return divTrunc(MustParse(a), MustParse(b), places).StringFixed(places)
}

func divTrunc(a, b decimal.Decimal, places int32) decimal.Decimal {
	if b.IsZero() {
		panic(&ParseError{Input: "0", Err: fmt.Errorf("division by zero")})
	}
	q, _ := a.QuoRem(b, places)
	return q
}

// StringNeg returns -a, or "" if a is absent.
func StringNeg(a string) string {
	if a == "" {
		return ""
	}
	return MustParse(a).Neg().String()
}

// StringAbs returns |a|, or "" if a is absent.
func StringAbs(a string) string {
	if a == "" {
		return ""
	}
	return MustParse(a).Abs().String()
}

// StringMin returns the smaller operand, or "" if either is absent.
func StringMin(a, b string) string {
	if a == "" || b == "" {
		return ""
	}
	if MustParse(a).Cmp(MustParse(b)) <= 0 {
		return a
	}
	return b
}

// StringMax returns the larger operand, or "" if either is absent.
func StringMax(a, b string) string {
	if a == "" || b == "" {
		return ""
	}
	if MustParse(a).Cmp(MustParse(b)) >= 0 {
		return a
	}
	return b
}

// Comparison predicates are total over present operands and
// deterministic; an absent operand always compares false.

func StringEq(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return MustParse(a).Cmp(MustParse(b)) == 0
}

func StringGt(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return MustParse(a).Cmp(MustParse(b)) > 0
}

func StringGe(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return MustParse(a).Cmp(MustParse(b)) >= 0
}

func StringLt(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return MustParse(a).Cmp(MustParse(b)) < 0
}

func StringLe(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return MustParse(a).Cmp(MustParse(b)) <= 0
}
