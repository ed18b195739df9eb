package models

import (
	"github.com/shopspring/decimal"

	"eerr/eerr-dashboard/internal/textnorm"
)

var hundred = decimal.NewFromInt(100)

// PercentOfBase returns (amount / base) * 100, or zero and false when base is
// zero or negative.
func PercentOfBase(amount, base decimal.Decimal) (decimal.Decimal, bool) {
	if !base.IsPositive() {
		return decimal.Zero, false
	}
	return amount.Div(base).Mul(hundred), true
}

// ManualValues holds manually entered amounts by period and account name.
type ManualValues map[Period]map[string]decimal.Decimal

// Set stores amount for (period, account), replacing any previous entry whose
// account name folds to the same key.
func (m ManualValues) Set(p Period, account string, amount decimal.Decimal) {
	accounts, ok := m[p]
	if !ok {
		accounts = make(map[string]decimal.Decimal)
		m[p] = accounts
	}
	key := textnorm.Fold(account)
	for existing := range accounts {
		if textnorm.Fold(existing) == key {
			delete(accounts, existing)
		}
	}
	accounts[account] = amount
}

// Get returns the manual amount of account in p, matching on folded names.
func (m ManualValues) Get(p Period, account string) (decimal.Decimal, bool) {
	accounts, ok := m[p]
	if !ok {
		return decimal.Zero, false
	}
	if v, ok := accounts[account]; ok {
		return v, true
	}
	key := textnorm.Fold(account)
	for name, v := range accounts {
		if textnorm.Fold(name) == key {
			return v, true
		}
	}
	return decimal.Zero, false
}

// ForPeriod returns the accounts of p (nil when none).
func (m ManualValues) ForPeriod(p Period) map[string]decimal.Decimal {
	return m[p]
}
