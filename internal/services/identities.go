package services

import (
	"strings"

	"github.com/dmitrijs2005/budgetkeeper/internal/models"
)

// IdentityStrategies decide when an imported record duplicates an existing
// one. Each function maps a record to a key; records with equal keys are
// the same record.
type IdentityStrategies struct {
	Transaction func(models.Transaction) string
	Asset       func(models.Asset) string
	Account     func(models.Account) string
}

// DefaultIdentityStrategies matches accounts and assets by name and
// transactions by date, magnitude, description and type.
func DefaultIdentityStrategies() IdentityStrategies {
	return IdentityStrategies{
		Transaction: TransactionIdentity,
		Asset:       func(a models.Asset) string { return a.Name },
		Account:     func(a models.Account) string { return a.Name },
	}
}

// TransactionIdentity is the composite key (date, |amount|, description, type).
func TransactionIdentity(t models.Transaction) string {
	return strings.Join([]string{
		t.Date, t.Amount.Abs().String(), t.Description, string(t.Type),
	}, "\x1f")
}

// merge fills the unset strategies of s from d.
func (s IdentityStrategies) merge(d IdentityStrategies) IdentityStrategies {
	if s.Transaction == nil {
		s.Transaction = d.Transaction
	}
	if s.Asset == nil {
		s.Asset = d.Asset
	}
	if s.Account == nil {
		s.Account = d.Account
	}
	return s
}
