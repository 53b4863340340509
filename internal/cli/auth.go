package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/dmitrijs2005/budgetkeeper/internal/models"
	"github.com/dmitrijs2005/budgetkeeper/internal/session"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// ask prompts for one line; an empty answer yields def.
func (a *App) ask(prompt, def string) (string, error) {
	if def != "" {
		prompt = fmt.Sprintf("%s [%s]", prompt, def)
	}
	v, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return "", err
	}
	if v == "" {
		return def, nil
	}
	return v, nil
}

// Register prompts for the new user's details and password, creates the
// user and logs it in.
//
// The password byte slices are wiped before returning.
func (a *App) Register(ctx context.Context) error {
	username, err := a.ask("Enter user name", "")
	if err != nil {
		return err
	}
	email, err := a.ask("Enter email", "")
	if err != nil {
		return err
	}
	currency, err := a.ask("Default currency", a.config.DefaultCurrency)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword(a.out, "Repeat password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if !bytes.Equal(password, confirm) {
		return errors.New("passwords do not match")
	}

	if _, err := a.identity.Register(ctx, models.NewUser{
		Username:        username,
		Email:           email,
		Password:        password,
		DefaultCurrency: currency,
	}); err != nil {
		return err
	}

	sess, err := a.identity.Login(ctx, username, password)
	if err != nil {
		return err
	}
	if err := a.setSession(ctx, sess); err != nil {
		return err
	}

	a.printf("Success! Logged in as %s\n", a.userName)
	return nil
}

// Login prompts for a user name (or email) and password and stores the
// session for later runs.
func (a *App) Login(ctx context.Context) error {
	login, err := getSimpleText(a.reader, "Enter user name or email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	sess, err := a.identity.Login(ctx, login, password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			return errors.New("invalid credentials")
		}
		return err
	}
	if err := a.setSession(ctx, sess); err != nil {
		return err
	}

	a.printf("Login successful\n")
	return nil
}

// Logout forgets the saved session.
func (a *App) Logout(ctx context.Context) error {
	if err := a.identity.Logout(ctx); err != nil {
		return err
	}
	return a.setSession(ctx, session.Anonymous)
}
