package currency

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, IsValid("PHP"))
	assert.True(t, IsValid("USD"))
	assert.False(t, IsValid("XYZ"))
	assert.False(t, IsValid(""))
}

func TestNewMoneyDefaultsToPHP(t *testing.T) {
	t.Parallel()

	m := NewMoney(decimal.NewFromInt(100), "")
	assert.Equal(t, PHP, m.Currency)
}

func TestMoneyAdd(t *testing.T) {
	t.Parallel()

	a := NewMoneyFromFloat(1500.50, PHP)
	b := NewMoneyFromFloat(499.50, PHP)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.True(t, sum.Amount.Equal(decimal.NewFromInt(2000)))

	_, err = a.Add(NewMoneyFromFloat(10, USD))
	assert.Error(t, err)
}

func TestMoneyRound(t *testing.T) {
	t.Parallel()

	m := NewMoneyFromFloat(36414.3789, PHP).Round()
	assert.Equal(t, "36414.38", m.Amount.StringFixed(2))
}

func TestMoneyFormat(t *testing.T) {
	t.Parallel()

	m := NewMoneyFromFloat(1500000, PHP)
	assert.Equal(t, "₱1500000.00", m.Format())
}
