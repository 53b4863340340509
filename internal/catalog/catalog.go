// Package catalog is the closed set of transaction categories, asset types,
// account types and currencies accepted by the stores. Both validation and
// the CLI read from here, so an unknown category fails on write instead of
// aggregating under a stray key.
package catalog

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/dmitrijs2005/budgetkeeper/internal/models"
)

var categories = map[models.TransactionType][]string{
	models.TransactionIncome: {
		"salary", "bonus", "investment", "freelance", "rental", "gift", "other",
	},
	models.TransactionExpense: {
		"food", "transport", "housing", "utilities", "healthcare", "entertainment",
		"shopping", "education", "travel", "insurance", "children", "other",
	},
}

var assetTypes = []string{
	"cash", "deposit", "stock", "fund", "bond", "real_estate", "vehicle",
	"precious_metal", "crypto", "insurance", "other",
}

var accountTypes = []string{
	"cash", "bank", "credit_card", "savings", "investment", "other",
}

// Categories returns the categories defined for t, in display order.
func Categories(t models.TransactionType) []string {
	return slices.Clone(categories[t])
}

func AssetTypes() []string { return slices.Clone(assetTypes) }

func AccountTypes() []string { return slices.Clone(accountTypes) }

func ValidateTransactionType(t models.TransactionType) error {
	if !t.Valid() {
		return fmt.Errorf("%w: unknown transaction type %q", common.ErrorValidation, t)
	}
	return nil
}

func ValidateCategory(t models.TransactionType, category string) error {
	if err := ValidateTransactionType(t); err != nil {
		return err
	}
	if !slices.Contains(categories[t], category) {
		return fmt.Errorf("%w: unknown %s category %q", common.ErrorValidation, t, category)
	}
	return nil
}

func ValidateAssetType(assetType string) error {
	if !slices.Contains(assetTypes, assetType) {
		return fmt.Errorf("%w: unknown asset type %q", common.ErrorValidation, assetType)
	}
	return nil
}

func ValidateAccountType(accountType string) error {
	if !slices.Contains(accountTypes, accountType) {
		return fmt.Errorf("%w: unknown account type %q", common.ErrorValidation, accountType)
	}
	return nil
}

// NormalizeCurrency upper-cases code and checks it against the ISO 4217
// table shipped with go-money.
func NormalizeCurrency(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || money.GetCurrency(code) == nil {
		return "", fmt.Errorf("%w: unknown currency %q", common.ErrorValidation, code)
	}
	return code, nil
}

// FormatMoney renders amount with the currency's symbol and minor units,
// e.g. "€1,234.50". Unknown currencies fall back to "<amount> <code>".
func FormatMoney(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return amount.StringFixed(2) + " " + currency
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// DefaultInclusion returns inclusion settings with every known asset type
// and category explicitly included.
func DefaultInclusion() models.InclusionSettings {
	var s models.InclusionSettings
	for _, t := range assetTypes {
		s.SetAsset(t, true)
	}
	for tt, cats := range categories {
		for _, c := range cats {
			s.SetTransaction(tt, c, true)
		}
	}
	return s
}
