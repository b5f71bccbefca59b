// Package money converts between user-facing decimal amount strings and the
// integer cent values stored in the database. All amounts in the system are
// exact two-decimal quantities; float64 never touches a monetary value.
package money

import (
	"github.com/shopspring/decimal"

	apperrors "pocketbook/internal/errors"
)

var hundred = decimal.NewFromInt(100)

// ParseCents parses a decimal amount string such as "125.50" into cents.
// More than two fractional digits is rejected rather than rounded.
func ParseCents(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid amount: "+s)
	}
	if d.Exponent() < -2 {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount has more than two decimal places: "+s)
	}
	cents := d.Mul(hundred)
	if !cents.IsInteger() {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount has more than two decimal places: "+s)
	}
	return cents.IntPart(), nil
}

// ParsePositiveCents parses an amount and requires it to be greater than zero.
func ParsePositiveCents(s string) (int64, error) {
	cents, err := ParseCents(s)
	if err != nil {
		return 0, err
	}
	if cents <= 0 {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	return cents, nil
}

// FormatCents renders cents as a plain decimal string with two places,
// e.g. 12550 -> "125.50".
func FormatCents(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}
