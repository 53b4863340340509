package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/budgetkeeper/internal/session"
)

func (a *App) getStatus() string {
	if a.userName == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", a.userName)
}

// restoreSession picks up the session saved by an earlier run.
func (a *App) restoreSession(ctx context.Context) {
	sess, err := a.identity.Current(ctx)
	if err != nil {
		a.log.Warn(ctx, "cannot restore session", "error", err)
		return
	}
	if err := a.setSession(ctx, sess); err != nil {
		a.log.Warn(ctx, "cannot load session user", "error", err)
	}
}

func (a *App) setSession(ctx context.Context, sess session.Session) error {
	a.sess = sess
	a.userName, a.currency = "", ""
	if !a.isLoggedIn() {
		return nil
	}
	u, err := a.identity.GetUser(ctx, sess.UserID)
	if err != nil {
		return err
	}
	a.userName = u.Username
	a.currency = u.DefaultCurrency
	return nil
}

// Root prints the banner, restores the session and runs the REPL.
func (a *App) Root(ctx context.Context) {
	a.printf("Welcome to the budget CLI (type 'help' for commands)\n")
	a.restoreSession(ctx)
	if a.isLoggedIn() {
		a.printf("Logged in as %s\n", a.userName)
	}
	runREPL(ctx, a, a.getStatus, a.reader)
}
