package types

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrCurrencyMismatch is returned when arithmetic mixes currencies.
	ErrCurrencyMismatch = errors.New("money: currency mismatch")

	// ErrOverflow is returned when a result does not fit in an int64.
	ErrOverflow = errors.New("money: amount overflows int64")
)

// Money is an amount in the smallest unit of its currency. Integer only.
// Currency codes are stored lowercase ("usd", "wei").
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// New creates a Money value.
func New(amount int64, currency string) Money {
	return Money{Amount: amount, Currency: strings.ToLower(currency)}
}

// Zero returns a zero amount in currency.
func Zero(currency string) Money { return New(0, currency) }

// Add returns m + other.
func (m Money) Add(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	b := other.Amount
	if (b > 0 && m.Amount > math.MaxInt64-b) || (b < 0 && m.Amount < math.MinInt64-b) {
		return Money{}, fmt.Errorf("%w: %s + %s", ErrOverflow, m, other)
	}
	return Money{Amount: m.Amount + b, Currency: m.Currency}, nil
}

// Subtract returns m - other.
func (m Money) Subtract(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	b := other.Amount
	if (b < 0 && m.Amount > math.MaxInt64+b) || (b > 0 && m.Amount < math.MinInt64+b) {
		return Money{}, fmt.Errorf("%w: %s - %s", ErrOverflow, m, other)
	}
	return Money{Amount: m.Amount - b, Currency: m.Currency}, nil
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool { return m.Amount == 0 }

// IsPositive reports whether the amount is greater than zero.
func (m Money) IsPositive() bool { return m.Amount > 0 }

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool { return m.Amount < 0 }

// Equal reports whether amount and currency both match.
func (m Money) Equal(other Money) bool {
	return m.Amount == other.Amount && m.Currency == other.Currency
}

// String renders "<amount> <CURRENCY>", e.g. "4900 USD".
func (m Money) String() string {
	return fmt.Sprintf("%d %s", m.Amount, strings.ToUpper(m.Currency))
}

func (m Money) sameCurrency(other Money) error {
	if m.Currency != other.Currency {
		return fmt.Errorf("%w: %s != %s", ErrCurrencyMismatch, m.Currency, other.Currency)
	}
	return nil
}
