package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/budgetkeeper/internal/catalog"
	"github.com/dmitrijs2005/budgetkeeper/internal/models"
)

func (a *App) ListMembers(ctx context.Context) error {
	ms, err := a.members.ListMembers(ctx, a.sess)
	if err != nil {
		return err
	}
	a.printMarkdown(membersMarkdown(ms))
	return nil
}

func (a *App) AddMember(ctx context.Context) error {
	name, err := a.ask("Name", "")
	if err != nil {
		return err
	}
	relationship, err := a.ask("Relationship", "")
	if err != nil {
		return err
	}
	birth, err := a.ask("Birth date (empty for unknown)", "")
	if err != nil {
		return err
	}
	notes, err := GetMultiline(a.reader, "Notes", a.out)
	if err != nil {
		return err
	}

	m, err := a.members.CreateMember(ctx, a.sess, models.AccountUser{
		Name:         name,
		Relationship: relationship,
		BirthDate:    birth,
		Notes:        notes,
	})
	if err != nil {
		return err
	}
	a.printf("Added household member %s (%s)\n", m.Name, m.ID)
	return nil
}

func (a *App) DeleteMember(ctx context.Context, args []string) error {
	id, err := a.idArg(args, "member")
	if err != nil {
		return err
	}
	if err := a.members.DeleteMember(ctx, a.sess, id); err != nil {
		return err
	}
	a.printf("Deleted household member %s (policy: %s)\n", id, a.members.Policy())
	return nil
}

func (a *App) ListAccounts(ctx context.Context) error {
	as, err := a.accounts.ListAccounts(ctx, a.sess)
	if err != nil {
		return err
	}
	a.printMarkdown(accountsMarkdown(as))
	return nil
}

func (a *App) AddAccount(ctx context.Context) error {
	name, err := a.ask("Name", "")
	if err != nil {
		return err
	}
	typ, err := a.ask("Type ("+strings.Join(catalog.AccountTypes(), ", ")+")", "bank")
	if err != nil {
		return err
	}
	raw, err := a.ask("Opening balance", "0")
	if err != nil {
		return err
	}
	balance, err := parseAmount(raw)
	if err != nil {
		return err
	}
	currency, err := a.ask("Currency", a.currency)
	if err != nil {
		return err
	}
	def, err := a.ask("Make default? (y/n)", "n")
	if err != nil {
		return err
	}

	acc, err := a.accounts.CreateAccount(ctx, a.sess, models.Account{
		Name:      name,
		Type:      strings.ToLower(typ),
		Balance:   balance,
		Currency:  currency,
		IsDefault: strings.HasPrefix(strings.ToLower(def), "y"),
	})
	if err != nil {
		return err
	}
	a.printf("Added account %s (%s)\n", acc.Name, acc.ID)
	return nil
}

