package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

func (t TransactionType) Valid() bool {
	return t == TransactionIncome || t == TransactionExpense
}

// Transaction is a single income or expense. Amount is always a positive
// magnitude; use Signed for the direction-aware value.
type Transaction struct {
	ID            string          `db:"id" json:"id"`
	UserID        string          `db:"user_id" json:"userId"`
	AccountUserID *string         `db:"account_user_id" json:"accountUserId"`
	Date          string          `db:"date" json:"date"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	Currency      string          `db:"currency" json:"currency"`
	Type          TransactionType `db:"type" json:"type"`
	Category      string          `db:"category" json:"category"`
	Subcategory   string          `db:"subcategory" json:"subcategory"`
	Description   string          `db:"description" json:"description"`
	Tags          Tags            `db:"tags" json:"tags"`
	AccountID     *string         `db:"account_id" json:"accountId"`
	Notes         string          `db:"notes" json:"notes"`
	CreatedAt     time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updatedAt"`
}

// Signed returns the amount negated for expenses.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == TransactionExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// TransactionPatch holds the fields of a partial update. A pointer to the
// empty string clears AccountUserID or AccountID.
type TransactionPatch struct {
	AccountUserID *string
	Date          *string
	Amount        *decimal.Decimal
	Currency      *string
	Type          *TransactionType
	Category      *string
	Subcategory   *string
	Description   *string
	Tags          *Tags
	AccountID     *string
	Notes         *string
}

func (p TransactionPatch) Apply(t *Transaction) {
	if p.AccountUserID != nil {
		t.AccountUserID = StringPtr(*p.AccountUserID)
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Currency != nil {
		t.Currency = *p.Currency
	}
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Subcategory != nil {
		t.Subcategory = *p.Subcategory
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Tags != nil {
		t.Tags = *p.Tags
	}
	if p.AccountID != nil {
		t.AccountID = StringPtr(*p.AccountID)
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}
}

// TransactionFilter narrows a transaction listing. Zero fields do not
// filter. DateFrom and DateTo are inclusive YYYY-MM-DD bounds; Tags matches
// transactions carrying any of the listed tags.
type TransactionFilter struct {
	AccountUserID string
	DateFrom      string
	DateTo        string
	Type          TransactionType
	Category      string
	Currency      string
	Tags          []string
}

// Match applies the filter predicates in order.
func (f TransactionFilter) Match(t Transaction) bool {
	if f.AccountUserID != "" && Deref(t.AccountUserID) != f.AccountUserID {
		return false
	}
	if f.DateFrom != "" && t.Date < f.DateFrom {
		return false
	}
	if f.DateTo != "" && t.Date > f.DateTo {
		return false
	}
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	if f.Currency != "" && t.Currency != f.Currency {
		return false
	}
	if len(f.Tags) > 0 && !t.Tags.Any(f.Tags) {
		return false
	}
	return true
}

// Asset is a holding with a current value. Deleting an asset clears
// IsActive; inactive assets are hidden from every read.
type Asset struct {
	ID            string          `db:"id" json:"id"`
	UserID        string          `db:"user_id" json:"userId"`
	AccountUserID *string         `db:"account_user_id" json:"accountUserId"`
	Name          string          `db:"name" json:"name"`
	Type          string          `db:"type" json:"type"`
	SubType       string          `db:"sub_type" json:"subType"`
	CurrentValue  decimal.Decimal `db:"current_value" json:"currentValue"`
	PurchasePrice decimal.Decimal `db:"purchase_price" json:"purchasePrice"`
	PurchaseDate  string          `db:"purchase_date" json:"purchaseDate"`
	Currency      string          `db:"currency" json:"currency"`
	Quantity      decimal.Decimal `db:"quantity" json:"quantity"`
	Unit          string          `db:"unit" json:"unit"`
	Location      string          `db:"location" json:"location"`
	Tags          Tags            `db:"tags" json:"tags"`
	Metadata      JSONMap         `db:"metadata" json:"metadata"`
	IsActive      bool            `db:"is_active" json:"isActive"`
	CreatedAt     time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updatedAt"`
}

type AssetPatch struct {
	AccountUserID *string
	Name          *string
	Type          *string
	SubType       *string
	CurrentValue  *decimal.Decimal
	PurchasePrice *decimal.Decimal
	PurchaseDate  *string
	Currency      *string
	Quantity      *decimal.Decimal
	Unit          *string
	Location      *string
	Tags          *Tags
	Metadata      JSONMap
	IsActive      *bool
}

func (p AssetPatch) Apply(a *Asset) {
	if p.AccountUserID != nil {
		a.AccountUserID = StringPtr(*p.AccountUserID)
	}
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Type != nil {
		a.Type = *p.Type
	}
	if p.SubType != nil {
		a.SubType = *p.SubType
	}
	if p.CurrentValue != nil {
		a.CurrentValue = *p.CurrentValue
	}
	if p.PurchasePrice != nil {
		a.PurchasePrice = *p.PurchasePrice
	}
	if p.PurchaseDate != nil {
		a.PurchaseDate = *p.PurchaseDate
	}
	if p.Currency != nil {
		a.Currency = *p.Currency
	}
	if p.Quantity != nil {
		a.Quantity = *p.Quantity
	}
	if p.Unit != nil {
		a.Unit = *p.Unit
	}
	if p.Location != nil {
		a.Location = *p.Location
	}
	if p.Tags != nil {
		a.Tags = *p.Tags
	}
	if p.Metadata != nil {
		a.Metadata = p.Metadata
	}
	if p.IsActive != nil {
		a.IsActive = *p.IsActive
	}
}

type AssetFilter struct {
	AccountUserID string
	Type          string
}

func (f AssetFilter) Match(a Asset) bool {
	if f.AccountUserID != "" && Deref(a.AccountUserID) != f.AccountUserID {
		return false
	}
	if f.Type != "" && a.Type != f.Type {
		return false
	}
	return true
}
