package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/dmitrijs2005/budgetkeeper/internal/models"
	"github.com/dmitrijs2005/budgetkeeper/internal/services"
)

// sharer is implemented by stores that can hand out download links.
type sharer interface {
	Share(ctx context.Context, name string) (string, error)
}

// Export writes a backup of the session user to the backup store, under
// args[0] or the default dated file name. The user may seal it with a
// passphrase.
func (a *App) Export(ctx context.Context, args []string) error {
	doc, err := a.backup.Export(ctx, a.sess)
	if err != nil {
		return err
	}

	name := models.BackupFileName(doc.ExportDate)
	if len(args) > 0 {
		name = args[0]
	}

	passphrase, err := getPassword(a.out, "Passphrase to seal the backup (empty for none)")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(passphrase)

	data, err := services.EncodeBackup(doc, passphrase)
	if err != nil {
		return err
	}

	loc, err := a.store.Put(ctx, name, data)
	if err != nil {
		return err
	}
	a.printf("Exported %d transactions, %d assets and %d accounts to %s\n",
		len(doc.Transactions), len(doc.Assets), len(doc.Accounts), loc)

	if sh, ok := a.store.(sharer); ok {
		link, err := sh.Share(ctx, name)
		if err != nil {
			a.log.Warn(ctx, "cannot create download link", "name", name, "error", err)
			return nil
		}
		a.printf("Download link: %s\n", link)
	}
	return nil
}

// importOptions reads "add|replace" and "skip|overwrite" from args.
func importOptions(args []string) (models.ImportOptions, error) {
	opts := models.DefaultImportOptions()
	for _, arg := range args {
		switch v := strings.ToLower(arg); v {
		case string(models.ImportAdd), string(models.ImportReplace):
			opts.ImportMode = models.ImportMode(v)
		case string(models.MergeSkip), string(models.MergeOverwrite):
			opts.MergeStrategy = models.MergeStrategy(v)
		case "transactions", "assets", "accounts":
			// an explicit kind list replaces the default of all kinds
			if opts.IncludeTransactions && opts.IncludeAssets && opts.IncludeAccounts {
				opts.IncludeTransactions, opts.IncludeAssets, opts.IncludeAccounts = false, false, false
			}
			switch v {
			case "transactions":
				opts.IncludeTransactions = true
			case "assets":
				opts.IncludeAssets = true
			case "accounts":
				opts.IncludeAccounts = true
			}
		default:
			return opts, fmt.Errorf("unknown import option %q", arg)
		}
	}
	return opts, nil
}

// Import reads a backup from the store and imports it into the session
// user. Without a name the stored backups are listed and one is asked for.
func (a *App) Import(ctx context.Context, args []string) error {
	var name string
	if len(args) > 0 {
		name, args = args[0], args[1:]
	} else {
		names, err := a.store.List(ctx)
		if err != nil {
			return err
		}
		if len(names) == 0 {
			return errors.New("no backups found")
		}
		a.printf("Available backups:\n")
		for _, n := range names {
			a.printf("  %s\n", n)
		}
		if name, err = a.ask("Backup to import", names[len(names)-1]); err != nil {
			return err
		}
	}

	opts, err := importOptions(args)
	if err != nil {
		return err
	}

	data, err := a.store.Get(ctx, name)
	if err != nil {
		return err
	}

	if services.IsSealed(data) {
		passphrase, err := getPassword(a.out, "Backup passphrase")
		if err != nil {
			return err
		}
		defer common.WipeByteArray(passphrase)
		if data, err = services.OpenBackup(data, passphrase); err != nil {
			return err
		}
	}

	res, err := a.backup.Import(ctx, a.sess, data, opts)
	if err != nil {
		return err
	}
	a.printMarkdown(ImportResultMarkdown(res))
	return nil
}
