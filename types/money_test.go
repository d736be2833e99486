package types

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestMoneyConstructors(t *testing.T) {
	tests := []struct {
		name     string
		money    Money
		amount   int64
		currency string
		display  string
	}{
		{"upper currency", New(4900, "USD"), 4900, "usd", "4900 USD"},
		{"native unit", New(7, "wei"), 7, "wei", "7 WEI"},
		{"zero", Zero("EUR"), 0, "eur", "0 EUR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.money.Amount != tt.amount {
				t.Errorf("Amount: got %d, want %d", tt.money.Amount, tt.amount)
			}
			if tt.money.Currency != tt.currency {
				t.Errorf("Currency: got %s, want %s", tt.money.Currency, tt.currency)
			}
			if tt.money.String() != tt.display {
				t.Errorf("Display: got %s, want %s", tt.money.String(), tt.display)
			}
		})
	}
}

func TestMoneyArithmetic(t *testing.T) {
	sum, err := New(100, "usd").Add(New(250, "usd"))
	if err != nil {
		t.Fatal(err)
	}
	if !sum.Equal(New(350, "usd")) {
		t.Errorf("Add: got %v", sum)
	}

	diff, err := sum.Subtract(New(350, "usd"))
	if err != nil {
		t.Fatal(err)
	}
	if !diff.IsZero() {
		t.Errorf("Subtract: got %v, want zero", diff)
	}

	neg, err := diff.Subtract(New(1, "usd"))
	if err != nil {
		t.Fatal(err)
	}
	if !neg.IsNegative() || neg.IsPositive() {
		t.Errorf("expected negative amount, got %v", neg)
	}
}

func TestMoneyCurrencyMismatch(t *testing.T) {
	if _, err := New(1, "usd").Add(New(1, "eur")); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("Add: got %v, want ErrCurrencyMismatch", err)
	}
	if _, err := New(1, "usd").Subtract(New(1, "eur")); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("Subtract: got %v, want ErrCurrencyMismatch", err)
	}
}

func TestMoneyOverflow(t *testing.T) {
	tests := []struct {
		name    string
		op      func() (Money, error)
		want    int64
		wantErr error
	}{
		{"add at max", func() (Money, error) { return New(math.MaxInt64-1, "usd").Add(New(1, "usd")) }, math.MaxInt64, nil},
		{"add past max", func() (Money, error) { return New(math.MaxInt64, "usd").Add(New(1, "usd")) }, 0, ErrOverflow},
		{"add past min", func() (Money, error) { return New(math.MinInt64, "usd").Add(New(-1, "usd")) }, 0, ErrOverflow},
		{"subtract to min", func() (Money, error) { return New(math.MinInt64+1, "usd").Subtract(New(1, "usd")) }, math.MinInt64, nil},
		{"subtract past min", func() (Money, error) { return New(math.MinInt64, "usd").Subtract(New(1, "usd")) }, 0, ErrOverflow},
		{"subtract past max", func() (Money, error) { return New(math.MaxInt64, "usd").Subtract(New(-1, "usd")) }, 0, ErrOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.op()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err: got %v, want %v", err, tt.wantErr)
			}
			if err == nil && got.Amount != tt.want {
				t.Errorf("amount: got %d, want %d", got.Amount, tt.want)
			}
		})
	}
}

func TestEntityTimestamps(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	e := NewEntity(created)
	if !e.CreatedAt.Equal(created) || e.CreatedAt.Location() != time.UTC {
		t.Errorf("CreatedAt: got %v", e.CreatedAt)
	}
	if !e.UpdatedAt.Equal(e.CreatedAt) {
		t.Errorf("UpdatedAt should equal CreatedAt on creation")
	}

	later := created.Add(time.Hour)
	e.Touch(later)
	if !e.UpdatedAt.Equal(later) {
		t.Errorf("Touch: got %v, want %v", e.UpdatedAt, later)
	}
	if !e.CreatedAt.Equal(created) {
		t.Errorf("Touch must not move CreatedAt")
	}
}
