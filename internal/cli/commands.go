package cli

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/dmitrijs2005/budgetkeeper/internal/config"
	"github.com/dmitrijs2005/budgetkeeper/internal/logging"
	"github.com/dmitrijs2005/budgetkeeper/internal/models"
	"github.com/dmitrijs2005/budgetkeeper/internal/services"
	"github.com/dmitrijs2005/budgetkeeper/internal/session"
)

// Runtime is what every subcommand needs: the loaded configuration and
// the process logger.
type Runtime struct {
	Config *config.Config
	Log    logging.Logger
	Out    io.Writer
}

// openServices is a test seam for OpenServices.
var openServices = OpenServices

// Commands returns the subcommands of the budget binary.
func Commands(rt *Runtime) []subcommands.Command {
	return []subcommands.Command{
		&replCmd{rt: rt},
		&exportCmd{rt: rt},
		&importCmd{rt: rt},
		&statsCmd{rt: rt},
		&resetPasswordsCmd{rt: rt},
	}
}

func fail(w io.Writer, err error) subcommands.ExitStatus {
	fmt.Fprintln(w, "Error:", err)
	return subcommands.ExitFailure
}

// withSession opens the services and runs fn with the saved session.
func (rt *Runtime) withSession(ctx context.Context, fn func(*Services, session.Session) error) error {
	svc, err := openServices(ctx, rt.Config, rt.Log)
	if err != nil {
		return err
	}
	defer svc.DB.Close()

	sess, err := svc.Identity.Current(ctx)
	if err != nil {
		return err
	}
	if sess.Require() != nil {
		return errors.New("no active session; run 'budget repl' and login first")
	}
	return fn(svc, sess)
}

func (rt *Runtime) currency(ctx context.Context, svc *Services, sess session.Session) string {
	u, err := svc.Identity.GetUser(ctx, sess.UserID)
	if err != nil {
		return rt.Config.DefaultCurrency
	}
	return u.DefaultCurrency
}

type replCmd struct{ rt *Runtime }

func (*replCmd) Name() string             { return "repl" }
func (*replCmd) Synopsis() string         { return "start the interactive client" }
func (*replCmd) Usage() string            { return "budget repl\n\n  Starts the interactive client. Type 'help' inside for commands.\n" }
func (*replCmd) SetFlags(f *flag.FlagSet) {}

func (c *replCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := NewApp(ctx, c.rt.Config, c.rt.Log)
	if err != nil {
		return fail(c.rt.Out, err)
	}
	app.Run(ctx)
	return subcommands.ExitSuccess
}

type exportCmd struct {
	rt   *Runtime
	out  string
	seal bool
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the logged-in user's data" }
func (*exportCmd) Usage() string {
	return `budget export [-o <file>] [-seal]

  Exports transactions, assets and accounts of the logged-in user. The
  backup goes to the configured backup store unless -o names a local file.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.out, "o", "", "write the backup to this local file instead of the backup store")
	f.BoolVar(&c.seal, "seal", false, "seal the backup with a passphrase")
}

func (c *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	err := c.rt.withSession(ctx, func(svc *Services, sess session.Session) error {
		doc, err := svc.Backup.Export(ctx, sess)
		if err != nil {
			return err
		}

		var passphrase []byte
		if c.seal {
			if passphrase, err = getPassword(c.rt.Out, "Passphrase"); err != nil {
				return err
			}
			defer common.WipeByteArray(passphrase)
		}
		data, err := services.EncodeBackup(doc, passphrase)
		if err != nil {
			return err
		}

		loc := c.out
		if loc != "" {
			err = os.WriteFile(loc, data, 0o600)
		} else {
			loc, err = svc.Store.Put(ctx, models.BackupFileName(doc.ExportDate), data)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(c.rt.Out, "Backup written to %s\n", loc)
		return nil
	})
	if err != nil {
		return fail(c.rt.Out, err)
	}
	return subcommands.ExitSuccess
}

type importCmd struct {
	rt       *Runtime
	file     string
	mode     string
	strategy string
	only     string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import a backup into the logged-in user" }
func (*importCmd) Usage() string {
	return `budget import [-f <file> | <name>] [-mode add|replace] [-strategy skip|overwrite] [-only kinds]

  Imports a backup from a local file (-f) or from the backup store by name.
  -only restricts the import to a comma separated list of transactions,
  assets and accounts.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "f", "", "read the backup from this local file")
	f.StringVar(&c.mode, "mode", string(models.ImportAdd), "import mode: add or replace")
	f.StringVar(&c.strategy, "strategy", string(models.MergeSkip), "duplicate handling: skip or overwrite")
	f.StringVar(&c.only, "only", "", "comma separated kinds to import (default all)")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.file == "" && f.NArg() != 1 {
		fmt.Fprint(c.rt.Out, c.Usage())
		return subcommands.ExitUsageError
	}
	opts, err := importOptions(append([]string{c.mode, c.strategy}, splitList(c.only)...))
	if err != nil {
		return fail(c.rt.Out, err)
	}

	err = c.rt.withSession(ctx, func(svc *Services, sess session.Session) error {
		var data []byte
		var err error
		if c.file != "" {
			data, err = os.ReadFile(c.file)
		} else {
			data, err = svc.Store.Get(ctx, f.Arg(0))
		}
		if err != nil {
			return err
		}

		if services.IsSealed(data) {
			passphrase, err := getPassword(c.rt.Out, "Backup passphrase")
			if err != nil {
				return err
			}
			defer common.WipeByteArray(passphrase)
			if data, err = services.OpenBackup(data, passphrase); err != nil {
				return err
			}
		}

		res, err := svc.Backup.Import(ctx, sess, data, opts)
		if err != nil {
			return err
		}
		fmt.Fprint(c.rt.Out, renderOrRaw(ImportResultMarkdown(res)))
		return nil
	})
	if err != nil {
		return fail(c.rt.Out, err)
	}
	return subcommands.ExitSuccess
}

type statsCmd struct {
	rt     *Runtime
	period string
	months int
}

func (*statsCmd) Name() string     { return "stats" }
func (*statsCmd) Synopsis() string { return "show statistics of the logged-in user" }
func (*statsCmd) Usage() string {
	return `budget stats [-period week|month|year] [-months <n>]

  Shows income, expenses, balance and assets for the period. With -months
  a month-over-month report of the last n months is shown instead.
`
}

func (c *statsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "period", "", "statistics window: week, month, year (default last 30 days)")
	f.IntVar(&c.months, "months", 0, "show a monthly report of the last n months")
}

func (c *statsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	err := c.rt.withSession(ctx, func(svc *Services, sess session.Session) error {
		cur := c.rt.currency(ctx, svc, sess)
		var md string
		if c.months > 0 {
			rows, err := svc.Stats.GetMonthlyReport(ctx, sess, c.months)
			if err != nil {
				return err
			}
			md = MonthlyReportMarkdown(rows, cur)
		} else {
			st, err := svc.Stats.GetStatistics(ctx, sess, models.Period(c.period))
			if err != nil {
				return err
			}
			md = StatisticsMarkdown(st, cur)
		}
		fmt.Fprint(c.rt.Out, renderOrRaw(md))
		return nil
	})
	if err != nil {
		return fail(c.rt.Out, err)
	}
	return subcommands.ExitSuccess
}

type resetPasswordsCmd struct{ rt *Runtime }

func (*resetPasswordsCmd) Name() string     { return "reset-passwords" }
func (*resetPasswordsCmd) Synopsis() string { return "set the same password for every user" }
func (*resetPasswordsCmd) Usage() string {
	return `budget reset-passwords

  Administrative recovery: prompts for a new password and sets it for every
  user of the database. Users that fail are listed.
`
}
func (*resetPasswordsCmd) SetFlags(f *flag.FlagSet) {}

func (c *resetPasswordsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	password, err := getPassword(c.rt.Out, "New password for all users")
	if err != nil {
		return fail(c.rt.Out, err)
	}
	defer common.WipeByteArray(password)
	confirm, err := getPassword(c.rt.Out, "Repeat password")
	if err != nil {
		return fail(c.rt.Out, err)
	}
	defer common.WipeByteArray(confirm)
	if !bytes.Equal(password, confirm) {
		return fail(c.rt.Out, errors.New("passwords do not match"))
	}

	svc, err := openServices(ctx, c.rt.Config, c.rt.Log)
	if err != nil {
		return fail(c.rt.Out, err)
	}
	defer svc.DB.Close()

	res, err := svc.Identity.ResetAllPasswords(ctx, password)
	if err != nil {
		return fail(c.rt.Out, err)
	}
	fmt.Fprintf(c.rt.Out, "Updated %d of %d users\n", res.Updated, res.Total)
	for _, f := range res.Failed {
		fmt.Fprintf(c.rt.Out, "  %s: %s\n", f.UserID, f.Error)
	}
	if len(res.Failed) > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
