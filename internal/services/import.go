package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/dmitrijs2005/budgetkeeper/internal/logging"
	"github.com/dmitrijs2005/budgetkeeper/internal/models"
)

// importRun holds the state of one ImportDocument call.
type importRun struct {
	base
	log    logging.Logger
	ids    IdentityStrategies
	opts   models.ImportOptions
	user   *models.User
	result *models.ImportResult

	// remap maps account ids of the document to ids of the current user.
	remap    map[string]string
	members  map[string]bool
	accounts map[string]bool
}

func (r *importRun) fail(ctx context.Context, kind, label string, err error) {
	msg := fmt.Sprintf("%s %q: %v", kind, label, err)
	r.log.Warn(ctx, "import record failed", "kind", kind, "record", label, "error", err)
	r.result.Errors = append(r.result.Errors, msg)
}

// deleteExisting removes every record of the included kinds. Each delete
// is its own unit; failures are reported and the rest continue.
func (r *importRun) deleteExisting(ctx context.Context) {
	uid := r.user.ID
	del := &r.result.Deleted

	if r.opts.IncludeTransactions {
		repo := r.repomanager.Transactions(r.db)
		ts, err := repo.ListByUser(ctx, uid)
		if err != nil {
			r.fail(ctx, "transactions", "*", err)
		}
		for _, t := range ts {
			if err := repo.Delete(ctx, uid, t.ID); err != nil {
				r.fail(ctx, "transaction", t.ID, fmt.Errorf("delete: %w", err))
				continue
			}
			del.Transactions++
		}
	}

	if r.opts.IncludeAssets {
		repo := r.repomanager.Assets(r.db)
		as, err := repo.ListActive(ctx, uid)
		if err != nil {
			r.fail(ctx, "assets", "*", err)
		}
		for _, a := range as {
			if err := repo.SetActive(ctx, uid, a.ID, false, r.stamp()); err != nil {
				r.fail(ctx, "asset", a.Name, fmt.Errorf("delete: %w", err))
				continue
			}
			del.Assets++
		}
	}

	if r.opts.IncludeAccounts {
		as, err := r.repomanager.Accounts(r.db).ListByUser(ctx, uid)
		if err != nil {
			r.fail(ctx, "accounts", "*", err)
		}
		for _, a := range as {
			if err := deleteAccount(ctx, r.db, r.repomanager, uid, a.ID); err != nil {
				r.fail(ctx, "account", a.Name, fmt.Errorf("delete: %w", err))
				continue
			}
			del.Accounts++
		}
	}
}

// mergeSettings writes the top-level keys of incoming over the user's
// settings. Inclusion settings that do not decode are reported and left
// out.
func (r *importRun) mergeSettings(ctx context.Context, incoming models.JSONMap) {
	if _, err := incoming.ParseInclusion(); err != nil {
		r.fail(ctx, "user", "settings", err)
		incoming = incoming.Clone()
		delete(incoming, models.SettingsInclusionKey)
	}
	if len(incoming) == 0 {
		return
	}
	r.user.Settings = r.user.Settings.Merge(incoming)
	r.user.UpdatedAt = r.stamp()
	if err := r.repomanager.Users(r.db).Update(ctx, r.user); err != nil {
		r.fail(ctx, "user", "settings", err)
	}
}

func (r *importRun) loadMembers(ctx context.Context) error {
	ms, err := r.repomanager.Members(r.db).ListByOwner(ctx, r.user.ID)
	if err != nil {
		return err
	}
	r.members = make(map[string]bool, len(ms))
	for _, m := range ms {
		r.members[m.ID] = true
	}
	return nil
}

func (r *importRun) loadAccounts(ctx context.Context) error {
	as, err := r.repomanager.Accounts(r.db).ListByUser(ctx, r.user.ID)
	if err != nil {
		return err
	}
	r.accounts = make(map[string]bool, len(as))
	for _, a := range as {
		r.accounts[a.ID] = true
	}
	return nil
}

// member keeps a member reference only when it names a member of the
// current user.
func (r *importRun) member(id *string) *string {
	if id == nil || !r.members[*id] {
		return nil
	}
	return id
}

// account translates a document account reference.
func (r *importRun) account(id *string) *string {
	if id == nil {
		return nil
	}
	if mapped, ok := r.remap[*id]; ok {
		return &mapped
	}
	if r.accounts[*id] {
		return id
	}
	return nil
}

// kindImport describes how to import one entity kind.
type kindImport[T any] struct {
	kind     string
	label    func(T) string
	identity func(T) string
	// prepare validates an incoming record and re-owns it.
	prepare func(*T) error
	// matched is called for every duplicate, before skip or overwrite.
	matched   func(existing, incoming T)
	overwrite func(ctx context.Context, existing T, incoming *T) error
	create    func(ctx context.Context, incoming *T) error
}

// importRecords runs the duplicate-aware import loop shared by every kind.
func importRecords[T any](ctx context.Context, r *importRun, k kindImport[T], existing, records []T, imported, skipped *int) {
	dedupe := r.opts.ImportMode == models.ImportAdd
	index := make(map[string]T, len(existing))
	if dedupe {
		for _, e := range existing {
			key := k.identity(e)
			if _, dup := index[key]; !dup {
				index[key] = e
			}
		}
	}

	for i := range records {
		rec := records[i]
		label := k.label(rec)
		if err := k.prepare(&rec); err != nil {
			r.fail(ctx, k.kind, label, err)
			*skipped++
			continue
		}

		if ex, dup := index[k.identity(rec)]; dedupe && dup {
			if k.matched != nil {
				k.matched(ex, rec)
			}
			if r.opts.MergeStrategy == models.MergeSkip {
				*skipped++
				continue
			}
			if err := k.overwrite(ctx, ex, &rec); err != nil {
				r.fail(ctx, k.kind, label, err)
				*skipped++
				continue
			}
			*imported++
			continue
		}

		if err := k.create(ctx, &rec); err != nil {
			r.fail(ctx, k.kind, label, err)
			*skipped++
			continue
		}
		*imported++
	}
}

func (r *importRun) importAccounts(ctx context.Context, records []models.Account) {
	repo := r.repomanager.Accounts(r.db)
	existing, err := repo.ListByUser(ctx, r.user.ID)
	if err != nil {
		r.fail(ctx, "accounts", "*", err)
		return
	}
	haveDefault := hasDefault(existing)

	importRecords(ctx, r, kindImport[models.Account]{
		kind:     "account",
		label:    func(a models.Account) string { return a.Name },
		identity: r.ids.Account,
		prepare: func(a *models.Account) error {
			if err := validateAccount(a); err != nil {
				return err
			}
			var err error
			a.Currency, err = resolveCurrency(a.Currency, r.user.DefaultCurrency)
			a.UserID = r.user.ID
			return err
		},
		matched: func(ex, in models.Account) {
			r.remap[in.ID] = ex.ID
		},
		overwrite: func(ctx context.Context, ex models.Account, in *models.Account) error {
			in.ID = ex.ID
			in.IsDefault = ex.IsDefault
			in.CreatedAt = ex.CreatedAt
			in.UpdatedAt = r.stamp()
			return repo.Update(ctx, in)
		},
		create: func(ctx context.Context, in *models.Account) error {
			old := in.ID
			in.ID = common.NewID()
			if haveDefault {
				in.IsDefault = false
			}
			r.stampNew(&in.CreatedAt, &in.UpdatedAt)
			if err := repo.Create(ctx, in); err != nil {
				return err
			}
			haveDefault = haveDefault || in.IsDefault
			if old != "" {
				r.remap[old] = in.ID
			}
			return nil
		},
	}, existing, records, &r.result.Imported.Accounts, &r.result.Skipped.Accounts)
}

func (r *importRun) importAssets(ctx context.Context, records []models.Asset) {
	repo := r.repomanager.Assets(r.db)
	existing, err := repo.ListActive(ctx, r.user.ID)
	if err != nil {
		r.fail(ctx, "assets", "*", err)
		return
	}

	importRecords(ctx, r, kindImport[models.Asset]{
		kind:     "asset",
		label:    func(a models.Asset) string { return a.Name },
		identity: r.ids.Asset,
		prepare: func(a *models.Asset) error {
			if err := validateAsset(a); err != nil {
				return err
			}
			var err error
			a.Currency, err = resolveCurrency(a.Currency, r.user.DefaultCurrency)
			a.UserID = r.user.ID
			a.AccountUserID = r.member(a.AccountUserID)
			a.IsActive = true
			return err
		},
		overwrite: func(ctx context.Context, ex models.Asset, in *models.Asset) error {
			in.ID = ex.ID
			in.CreatedAt = ex.CreatedAt
			in.UpdatedAt = r.stamp()
			return repo.Update(ctx, in)
		},
		create: func(ctx context.Context, in *models.Asset) error {
			in.ID = common.NewID()
			r.stampNew(&in.CreatedAt, &in.UpdatedAt)
			return repo.Create(ctx, in)
		},
	}, existing, records, &r.result.Imported.Assets, &r.result.Skipped.Assets)
}

func (r *importRun) importTransactions(ctx context.Context, records []models.Transaction) {
	repo := r.repomanager.Transactions(r.db)
	existing, err := repo.ListByUser(ctx, r.user.ID)
	if err != nil {
		r.fail(ctx, "transactions", "*", err)
		return
	}

	importRecords(ctx, r, kindImport[models.Transaction]{
		kind:     "transaction",
		label:    func(t models.Transaction) string { return t.Date + " " + t.Description },
		identity: r.ids.Transaction,
		prepare: func(t *models.Transaction) error {
			if err := validateTransaction(t); err != nil {
				return err
			}
			var err error
			t.Currency, err = resolveCurrency(t.Currency, r.user.DefaultCurrency)
			t.UserID = r.user.ID
			t.AccountUserID = r.member(t.AccountUserID)
			t.AccountID = r.account(t.AccountID)
			return err
		},
		overwrite: func(ctx context.Context, ex models.Transaction, in *models.Transaction) error {
			in.ID = ex.ID
			in.CreatedAt = ex.CreatedAt
			in.UpdatedAt = r.stamp()
			return repo.Update(ctx, in)
		},
		create: func(ctx context.Context, in *models.Transaction) error {
			in.ID = common.NewID()
			r.stampNew(&in.CreatedAt, &in.UpdatedAt)
			return repo.Create(ctx, in)
		},
	}, existing, records, &r.result.Imported.Transactions, &r.result.Skipped.Transactions)
}

// stampNew keeps the document's creation time when present.
func (r *importRun) stampNew(created, updated *time.Time) {
	now := r.stamp()
	if created.IsZero() {
		*created = now
	} else {
		*created = created.UTC()
	}
	*updated = now
}
