package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dmitrijs2005/budgetkeeper/internal/catalog"
	"github.com/dmitrijs2005/budgetkeeper/internal/models"
)

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	return d, nil
}

// idArg returns args[0] or prompts for an id.
func (a *App) idArg(args []string, what string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	id, err := getSimpleText(a.reader, "Enter "+what+" id", a.out)
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", errors.New(what + " id is required")
	}
	return id, nil
}

// optionalRef turns an empty answer into a nil reference.
func optionalRef(v string) *string {
	if v == "" {
		return nil
	}
	return models.StringPtr(v)
}

func (a *App) AddTransaction(ctx context.Context) error {
	typ, err := a.ask("Type (income/expense)", string(models.TransactionExpense))
	if err != nil {
		return err
	}
	t := models.TransactionType(strings.ToLower(typ))
	if err := catalog.ValidateTransactionType(t); err != nil {
		return err
	}

	raw, err := a.ask("Amount", "")
	if err != nil {
		return err
	}
	amount, err := parseAmount(raw)
	if err != nil {
		return err
	}

	category, err := a.ask("Category ("+strings.Join(catalog.Categories(t), ", ")+")", "other")
	if err != nil {
		return err
	}
	description, err := a.ask("Description", "")
	if err != nil {
		return err
	}
	date, err := a.ask("Date", a.today())
	if err != nil {
		return err
	}
	currency, err := a.ask("Currency", a.currency)
	if err != nil {
		return err
	}
	tags, err := a.ask("Tags (comma separated)", "")
	if err != nil {
		return err
	}
	member, err := a.ask("Household member id (empty for none)", "")
	if err != nil {
		return err
	}
	account, err := a.ask("Account id (empty for none)", "")
	if err != nil {
		return err
	}

	tx, err := a.ledger.CreateTransaction(ctx, a.sess, models.Transaction{
		Type:          t,
		Amount:        amount,
		Category:      strings.ToLower(category),
		Description:   description,
		Date:          date,
		Currency:      currency,
		Tags:          splitList(tags),
		AccountUserID: optionalRef(member),
		AccountID:     optionalRef(account),
	})
	if err != nil {
		return err
	}
	a.printf("Added %s %s (%s)\n", tx.Type, catalog.FormatMoney(tx.Amount, tx.Currency), tx.ID)
	return nil
}

// transactionFilter builds a filter from key=value arguments.
func transactionFilter(args []string) models.TransactionFilter {
	kv := parseArgs(args)
	f := models.TransactionFilter{
		Type:          models.TransactionType(kv["type"]),
		Category:      kv["category"],
		DateFrom:      kv["from"],
		DateTo:        kv["to"],
		AccountUserID: kv["member"],
		Currency:      strings.ToUpper(kv["currency"]),
	}
	if tag := kv["tag"]; tag != "" {
		f.Tags = splitList(tag)
	}
	return f
}

func (a *App) ListTransactions(ctx context.Context, args []string) error {
	ts, err := a.ledger.GetTransactions(ctx, a.sess, transactionFilter(args))
	if err != nil {
		return err
	}
	a.printMarkdown(transactionsMarkdown(ts))
	return nil
}

func (a *App) DeleteTransaction(ctx context.Context, args []string) error {
	id, err := a.idArg(args, "transaction")
	if err != nil {
		return err
	}
	if err := a.ledger.DeleteTransaction(ctx, a.sess, id); err != nil {
		return err
	}
	a.printf("Deleted transaction %s\n", id)
	return nil
}

func (a *App) AddAsset(ctx context.Context) error {
	name, err := a.ask("Name", "")
	if err != nil {
		return err
	}
	typ, err := a.ask("Type ("+strings.Join(catalog.AssetTypes(), ", ")+")", "other")
	if err != nil {
		return err
	}
	raw, err := a.ask("Current value", "0")
	if err != nil {
		return err
	}
	value, err := parseAmount(raw)
	if err != nil {
		return err
	}
	raw, err = a.ask("Purchase price", "0")
	if err != nil {
		return err
	}
	price, err := parseAmount(raw)
	if err != nil {
		return err
	}
	purchased, err := a.ask("Purchase date (empty for unknown)", "")
	if err != nil {
		return err
	}
	currency, err := a.ask("Currency", a.currency)
	if err != nil {
		return err
	}
	member, err := a.ask("Household member id (empty for none)", "")
	if err != nil {
		return err
	}
	md, err := GetMetadata(a.reader, a.out)
	if err != nil {
		return err
	}

	asset, err := a.ledger.CreateAsset(ctx, a.sess, models.Asset{
		Name:          name,
		Type:          strings.ToLower(typ),
		CurrentValue:  value,
		PurchasePrice: price,
		PurchaseDate:  purchased,
		Currency:      currency,
		AccountUserID: optionalRef(member),
		Metadata:      md,
	})
	if err != nil {
		return err
	}
	a.printf("Added asset %s (%s)\n", asset.Name, asset.ID)
	return nil
}

func (a *App) ListAssets(ctx context.Context, args []string) error {
	kv := parseArgs(args)
	as, err := a.ledger.GetAssets(ctx, a.sess, models.AssetFilter{Type: kv["type"], AccountUserID: kv["member"]})
	if err != nil {
		return err
	}
	a.printMarkdown(assetsMarkdown(as))
	return nil
}

func (a *App) DeleteAsset(ctx context.Context, args []string) error {
	id, err := a.idArg(args, "asset")
	if err != nil {
		return err
	}
	if err := a.ledger.DeleteAsset(ctx, a.sess, id); err != nil {
		return err
	}
	a.printf("Deleted asset %s\n", id)
	return nil
}
