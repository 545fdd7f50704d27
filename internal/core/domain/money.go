package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount is a monetary value stored as integer cents.
type Amount int64

// maxAmountUnits bounds what fits in an Amount with headroom for sums.
var maxAmountUnits = decimal.New(1, 15)

// AmountFromDecimal rounds d to two places (half away from zero) and converts
// it to cents.
func AmountFromDecimal(d decimal.Decimal) (Amount, error) {
	r := d.Round(2)
	if r.Abs().GreaterThan(maxAmountUnits) {
		return 0, fmt.Errorf("%w: %s out of range", ErrInvalidAmount, d.String())
	}
	return Amount(r.Shift(2).IntPart()), nil
}

// MustAmount parses a literal such as "500.00". It panics on bad input and is
// meant for constants and fixtures.
func MustAmount(s string) Amount {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	a, err := AmountFromDecimal(d)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -2)
}

func (a Amount) String() string {
	return a.Decimal().StringFixed(2)
}

// MarshalJSON writes the amount as a bare JSON number with two decimals.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	v, err := AmountFromDecimal(d)
	if err != nil {
		return err
	}
	*a = v
	return nil
}
