package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a cash, bank or card container transactions can point at.
type Account struct {
	ID        string          `db:"id" json:"id"`
	UserID    string          `db:"user_id" json:"userId"`
	Name      string          `db:"name" json:"name"`
	Type      string          `db:"type" json:"type"`
	Balance   decimal.Decimal `db:"balance" json:"balance"`
	Currency  string          `db:"currency" json:"currency"`
	IsDefault bool            `db:"is_default" json:"isDefault"`
	IsActive  bool            `db:"is_active" json:"isActive"`
	CreatedAt time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time       `db:"updated_at" json:"updatedAt"`
}

type AccountPatch struct {
	Name      *string
	Type      *string
	Balance   *decimal.Decimal
	Currency  *string
	IsDefault *bool
	IsActive  *bool
}

func (p AccountPatch) Apply(a *Account) {
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Type != nil {
		a.Type = *p.Type
	}
	if p.Balance != nil {
		a.Balance = *p.Balance
	}
	if p.Currency != nil {
		a.Currency = *p.Currency
	}
	if p.IsDefault != nil {
		a.IsDefault = *p.IsDefault
	}
	if p.IsActive != nil {
		a.IsActive = *p.IsActive
	}
}
