package services

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/dmitrijs2005/budgetkeeper/internal/logging"
	"github.com/dmitrijs2005/budgetkeeper/internal/models"
	"github.com/dmitrijs2005/budgetkeeper/internal/repositories/repomanager"
	"github.com/dmitrijs2005/budgetkeeper/internal/session"
)

// BackupService exports a user's data to a portable document and imports
// such documents back. Exports and imports of one user never overlap.
type BackupService struct {
	base
	identities IdentityStrategies
	locks      *userLocks
}

type BackupOption func(*BackupService)

// WithIdentityStrategies overrides the duplicate detection used by
// imports. Unset fields keep their defaults.
func WithIdentityStrategies(is IdentityStrategies) BackupOption {
	return func(s *BackupService) {
		s.identities = is.merge(DefaultIdentityStrategies())
	}
}

func NewBackupService(db *sqlx.DB, m repomanager.RepositoryManager, log logging.Logger, opts ...BackupOption) *BackupService {
	s := &BackupService{
		base:       newBase(db, m, log, "backup"),
		identities: DefaultIdentityStrategies(),
		locks:      newUserLocks(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Export snapshots the session user, its transactions, active assets and
// accounts. The reads run concurrently.
func (s *BackupService) Export(ctx context.Context, sess session.Session) (*models.BackupDocument, error) {
	if err := sess.Require(); err != nil {
		return nil, err
	}
	unlock := s.locks.lock(sess.UserID)
	defer unlock()

	doc := &models.BackupDocument{
		ExportDate: s.stamp(),
		Version:    common.BackupVersion,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := s.repomanager.Users(s.db).GetByID(gctx, sess.UserID)
		doc.User = u
		return err
	})
	g.Go(func() error {
		ts, err := s.repomanager.Transactions(s.db).ListByUser(gctx, sess.UserID)
		if err == nil {
			sortTransactions(ts)
		}
		doc.Transactions = ts
		return err
	})
	g.Go(func() error {
		as, err := s.repomanager.Assets(s.db).ListActive(gctx, sess.UserID)
		doc.Assets = as
		return err
	})
	g.Go(func() error {
		as, err := s.repomanager.Accounts(s.db).ListByUser(gctx, sess.UserID)
		doc.Accounts = as
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to export user data: %w", err)
	}

	s.log.Info(ctx, "user data exported", "user_id", sess.UserID,
		"transactions", len(doc.Transactions), "assets", len(doc.Assets), "accounts", len(doc.Accounts))
	return doc, nil
}

// Import reads a plain JSON backup and imports it. See ImportDocument.
func (s *BackupService) Import(ctx context.Context, sess session.Session, data []byte, opts models.ImportOptions) (*models.ImportResult, error) {
	doc, err := DecodeBackup(data)
	if err != nil {
		return nil, err
	}
	return s.ImportDocument(ctx, sess, doc, opts)
}

func normalizeImportOptions(opts models.ImportOptions) (models.ImportOptions, error) {
	if opts.ImportMode == "" {
		opts.ImportMode = models.ImportAdd
	}
	if opts.MergeStrategy == "" {
		opts.MergeStrategy = models.MergeSkip
	}
	if opts.ImportMode != models.ImportAdd && opts.ImportMode != models.ImportReplace {
		return opts, invalid("unknown import mode %q", opts.ImportMode)
	}
	if opts.MergeStrategy != models.MergeSkip && opts.MergeStrategy != models.MergeOverwrite {
		return opts, invalid("unknown merge strategy %q", opts.MergeStrategy)
	}
	return opts, nil
}

// ImportDocument reconciles doc into the session user's data.
//
// Under ImportReplace every existing record of an included kind is removed
// first. The document's user settings are merged into the current user;
// identity fields are never imported. Accounts, assets and transactions are
// then written one by one. Under ImportAdd a record whose identity matches
// an existing one is skipped or overwritten in place according to the
// merge strategy. Per-record failures are reported in the result and
// counted as skipped; only an invalid document or invalid options fail the
// call.
func (s *BackupService) ImportDocument(ctx context.Context, sess session.Session, doc *models.BackupDocument, opts models.ImportOptions) (*models.ImportResult, error) {
	if err := sess.Require(); err != nil {
		return nil, err
	}
	if doc == nil || doc.Version == "" {
		return nil, invalid("backup has no version")
	}
	if doc.User == nil {
		return nil, invalid("backup has no user")
	}
	opts, err := normalizeImportOptions(opts)
	if err != nil {
		return nil, err
	}

	log := s.log.With("user_id", sess.UserID)
	if doc.Version != common.BackupVersion {
		log.Warn(ctx, "importing backup of unknown version", "version", doc.Version)
	}

	unlock := s.locks.lock(sess.UserID)
	defer unlock()

	u, err := s.repomanager.Users(s.db).GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}

	run := &importRun{
		base:   s.base,
		log:    log,
		ids:    s.identities,
		opts:   opts,
		user:   u,
		remap:  map[string]string{},
		result: &models.ImportResult{Success: true, Errors: []string{}},
	}

	if opts.ImportMode == models.ImportReplace {
		run.deleteExisting(ctx)
	}
	run.mergeSettings(ctx, doc.User.Settings)

	if err := run.loadMembers(ctx); err != nil {
		return nil, err
	}
	if opts.IncludeAccounts {
		run.importAccounts(ctx, doc.Accounts)
	}
	if opts.IncludeAssets {
		run.importAssets(ctx, doc.Assets)
	}
	if opts.IncludeTransactions {
		if err := run.loadAccounts(ctx); err != nil {
			return nil, err
		}
		run.importTransactions(ctx, doc.Transactions)
	}

	r := run.result
	log.Info(ctx, "user data imported",
		"mode", string(opts.ImportMode), "strategy", string(opts.MergeStrategy),
		"imported", r.Imported, "skipped", r.Skipped, "deleted", r.Deleted, "errors", len(r.Errors))
	return r, nil
}
