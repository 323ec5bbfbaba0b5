// Package currency provides standardized currency handling across the application.
// All monetary amounts are stored as decimal.Decimal to avoid floating-point errors.
package currency

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency represents an ISO 4217 currency code.
type Currency string

// Supported currencies.
const (
	PHP Currency = "PHP" // Philippine Peso
	USD Currency = "USD" // US Dollar
	SGD Currency = "SGD" // Singapore Dollar
)

// DefaultCurrency is the default currency when none is specified.
const DefaultCurrency = PHP

// CurrencyInfo contains metadata about a currency.
type CurrencyInfo struct {
	Code          Currency
	Name          string
	Symbol        string
	DecimalPlaces int  // Number of decimal places
	SymbolBefore  bool // Whether symbol appears before amount
}

// currencies maps currency codes to their info.
var currencies = map[Currency]CurrencyInfo{
	PHP: {Code: PHP, Name: "Philippine Peso", Symbol: "₱", DecimalPlaces: 2, SymbolBefore: true},
	USD: {Code: USD, Name: "US Dollar", Symbol: "$", DecimalPlaces: 2, SymbolBefore: true},
	SGD: {Code: SGD, Name: "Singapore Dollar", Symbol: "$", DecimalPlaces: 2, SymbolBefore: true},
}

// IsValid checks if a currency code is supported.
func IsValid(code string) bool {
	_, ok := currencies[Currency(code)]
	return ok
}

// GetInfo returns metadata for a currency code.
func GetInfo(code Currency) (CurrencyInfo, bool) {
	info, ok := currencies[code]
	return info, ok
}

// Money represents a monetary amount with currency.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency Currency        `json:"currency"`
}

// NewMoney creates a new Money value.
func NewMoney(amount decimal.Decimal, curr Currency) Money {
	if curr == "" {
		curr = DefaultCurrency
	}
	return Money{Amount: amount, Currency: curr}
}

// NewMoneyFromFloat creates a Money from a float64 value.
func NewMoneyFromFloat(amount float64, curr Currency) Money {
	return NewMoney(decimal.NewFromFloat(amount), curr)
}

// Zero returns a zero amount in the specified currency.
func Zero(curr Currency) Money {
	return NewMoney(decimal.Zero, curr)
}

// Add returns the sum of two Money values.
// Returns an error if currencies don't match.
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("currency mismatch: %s vs %s", m.Currency, other.Currency)
	}
	return NewMoney(m.Amount.Add(other.Amount), m.Currency), nil
}

// Multiply returns the Money multiplied by a factor.
func (m Money) Multiply(factor decimal.Decimal) Money {
	return NewMoney(m.Amount.Mul(factor), m.Currency)
}

// IsZero returns true if the amount is zero.
func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

// IsPositive returns true if the amount is positive.
func (m Money) IsPositive() bool {
	return m.Amount.IsPositive()
}

// Round rounds the amount to the currency's decimal places.
func (m Money) Round() Money {
	info, ok := GetInfo(m.Currency)
	if !ok {
		info = currencies[DefaultCurrency]
	}
	return NewMoney(m.Amount.Round(int32(info.DecimalPlaces)), m.Currency)
}

// Format returns a formatted string representation.
func (m Money) Format() string {
	info, ok := GetInfo(m.Currency)
	if !ok {
		return fmt.Sprintf("%s %s", m.Amount.StringFixed(2), m.Currency)
	}

	rounded := m.Amount.Round(int32(info.DecimalPlaces))

	if info.SymbolBefore {
		return fmt.Sprintf("%s%s", info.Symbol, rounded.StringFixed(int32(info.DecimalPlaces)))
	}
	return fmt.Sprintf("%s%s", rounded.StringFixed(int32(info.DecimalPlaces)), info.Symbol)
}

// String returns the amount as a plain string.
func (m Money) String() string {
	info, ok := GetInfo(m.Currency)
	if !ok {
		return m.Amount.String()
	}
	return m.Amount.Round(int32(info.DecimalPlaces)).String()
}
