package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/budgetkeeper/internal/catalog"
	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/dmitrijs2005/budgetkeeper/internal/dbx"
	"github.com/dmitrijs2005/budgetkeeper/internal/models"
	"github.com/dmitrijs2005/budgetkeeper/internal/repositories/repomanager"
)

// fallbackCurrency is used when neither the record nor its owner names one.
const fallbackCurrency = "USD"

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", common.ErrorValidation, fmt.Sprintf(format, args...))
}

func requireText(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return invalid("%s is required", field)
	}
	return nil
}

func validateDate(field, v string, required bool) error {
	if v == "" {
		if required {
			return invalid("%s is required", field)
		}
		return nil
	}
	if _, err := time.Parse(common.DateLayout, v); err != nil {
		return invalid("%s must be YYYY-MM-DD, got %q", field, v)
	}
	return nil
}

// resolveCurrency normalizes code, defaulting to the owner's currency.
func resolveCurrency(code, userDefault string) (string, error) {
	if strings.TrimSpace(code) == "" {
		code = userDefault
	}
	if strings.TrimSpace(code) == "" {
		code = fallbackCurrency
	}
	return catalog.NormalizeCurrency(code)
}

func validateTransaction(t *models.Transaction) error {
	if err := catalog.ValidateCategory(t.Type, t.Category); err != nil {
		return err
	}
	if !t.Amount.IsPositive() {
		return invalid("amount must be greater than zero")
	}
	if err := requireText("description", t.Description); err != nil {
		return err
	}
	if err := validateDate("date", t.Date, true); err != nil {
		return err
	}
	if t.Tags == nil {
		t.Tags = models.Tags{}
	}
	return nil
}

func validateAsset(a *models.Asset) error {
	if err := requireText("name", a.Name); err != nil {
		return err
	}
	if err := catalog.ValidateAssetType(a.Type); err != nil {
		return err
	}
	if a.CurrentValue.IsNegative() {
		return invalid("current value must not be negative")
	}
	if a.PurchasePrice.IsNegative() {
		return invalid("purchase price must not be negative")
	}
	if a.Quantity.IsNegative() {
		return invalid("quantity must not be negative")
	}
	if err := validateDate("purchase date", a.PurchaseDate, false); err != nil {
		return err
	}
	if a.Tags == nil {
		a.Tags = models.Tags{}
	}
	if a.Metadata == nil {
		a.Metadata = models.JSONMap{}
	}
	return nil
}

func validateAccount(a *models.Account) error {
	if err := requireText("name", a.Name); err != nil {
		return err
	}
	return catalog.ValidateAccountType(a.Type)
}

// checkRefs verifies that the optional member and account references point
// at records of the same owner.
func checkRefs(ctx context.Context, m repomanager.RepositoryManager, db dbx.DBTX, userID string, memberID, accountID *string) error {
	if memberID != nil {
		if _, err := m.Members(db).GetByID(ctx, userID, *memberID); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return invalid("unknown household member %q", *memberID)
			}
			return err
		}
	}
	if accountID != nil {
		if _, err := m.Accounts(db).GetByID(ctx, userID, *accountID); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return invalid("unknown account %q", *accountID)
			}
			return err
		}
	}
	return nil
}
