package services

import (
	"context"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/dmitrijs2005/budgetkeeper/internal/dbx"
	"github.com/dmitrijs2005/budgetkeeper/internal/logging"
	"github.com/dmitrijs2005/budgetkeeper/internal/models"
	"github.com/dmitrijs2005/budgetkeeper/internal/repositories/repomanager"
	"github.com/dmitrijs2005/budgetkeeper/internal/session"
)

// LedgerService owns transactions and assets.
type LedgerService struct {
	base
}

func NewLedgerService(db *sqlx.DB, m repomanager.RepositoryManager, log logging.Logger) *LedgerService {
	return &LedgerService{base: newBase(db, m, log, "ledger")}
}

func (s *LedgerService) userCurrency(ctx context.Context, db dbx.DBTX, userID string) (string, error) {
	u, err := s.repomanager.Users(db).GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return u.DefaultCurrency, nil
}

// CreateTransaction validates t and stores it for the session user. ID,
// ownership and timestamps of t are ignored. An empty currency defaults to
// the user's default currency.
func (s *LedgerService) CreateTransaction(ctx context.Context, sess session.Session, t models.Transaction) (*models.Transaction, error) {
	if err := sess.Require(); err != nil {
		return nil, err
	}
	if err := validateTransaction(&t); err != nil {
		return nil, err
	}
	def, err := s.userCurrency(ctx, s.db, sess.UserID)
	if err != nil {
		return nil, err
	}
	if t.Currency, err = resolveCurrency(t.Currency, def); err != nil {
		return nil, err
	}
	if err := checkRefs(ctx, s.repomanager, s.db, sess.UserID, t.AccountUserID, t.AccountID); err != nil {
		return nil, err
	}

	now := s.stamp()
	t.ID = common.NewID()
	t.UserID = sess.UserID
	t.CreatedAt = now
	t.UpdatedAt = now
	if err := s.repomanager.Transactions(s.db).Create(ctx, &t); err != nil {
		return nil, err
	}
	s.log.Debug(ctx, "transaction created", "user_id", sess.UserID, "id", t.ID)
	return &t, nil
}

func (s *LedgerService) GetTransaction(ctx context.Context, sess session.Session, id string) (*models.Transaction, error) {
	if err := sess.Require(); err != nil {
		return nil, err
	}
	return s.repomanager.Transactions(s.db).GetByID(ctx, sess.UserID, id)
}

// GetTransactions returns the session user's transactions matching f,
// newest date first. Equal dates are ordered by creation time, newest
// first, then by id.
func (s *LedgerService) GetTransactions(ctx context.Context, sess session.Session, f models.TransactionFilter) ([]models.Transaction, error) {
	if err := sess.Require(); err != nil {
		return nil, err
	}
	all, err := s.repomanager.Transactions(s.db).ListByUser(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}

	out := make([]models.Transaction, 0, len(all))
	for _, t := range all {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	sortTransactions(out)
	return out, nil
}

func sortTransactions(ts []models.Transaction) {
	sort.SliceStable(ts, func(i, j int) bool {
		a, b := ts[i], ts[j]
		if a.Date != b.Date {
			return a.Date > b.Date
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

// UpdateTransaction applies patch to a transaction of the session user.
func (s *LedgerService) UpdateTransaction(ctx context.Context, sess session.Session, id string, patch models.TransactionPatch) (*models.Transaction, error) {
	if err := sess.Require(); err != nil {
		return nil, err
	}
	repo := s.repomanager.Transactions(s.db)
	t, err := repo.GetByID(ctx, sess.UserID, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(t)
	if err := validateTransaction(t); err != nil {
		return nil, err
	}
	if patch.Currency != nil {
		def, err := s.userCurrency(ctx, s.db, sess.UserID)
		if err != nil {
			return nil, err
		}
		if t.Currency, err = resolveCurrency(t.Currency, def); err != nil {
			return nil, err
		}
	}
	if err := checkRefs(ctx, s.repomanager, s.db, sess.UserID, t.AccountUserID, t.AccountID); err != nil {
		return nil, err
	}
	t.UpdatedAt = s.stamp()
	if err := repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// DeleteTransaction removes a transaction permanently.
func (s *LedgerService) DeleteTransaction(ctx context.Context, sess session.Session, id string) error {
	if err := sess.Require(); err != nil {
		return err
	}
	if err := s.repomanager.Transactions(s.db).Delete(ctx, sess.UserID, id); err != nil {
		return err
	}
	s.log.Debug(ctx, "transaction deleted", "user_id", sess.UserID, "id", id)
	return nil
}

// CreateAsset validates a and stores it as an active asset of the session
// user.
func (s *LedgerService) CreateAsset(ctx context.Context, sess session.Session, a models.Asset) (*models.Asset, error) {
	if err := sess.Require(); err != nil {
		return nil, err
	}
	if err := validateAsset(&a); err != nil {
		return nil, err
	}
	def, err := s.userCurrency(ctx, s.db, sess.UserID)
	if err != nil {
		return nil, err
	}
	if a.Currency, err = resolveCurrency(a.Currency, def); err != nil {
		return nil, err
	}
	if err := checkRefs(ctx, s.repomanager, s.db, sess.UserID, a.AccountUserID, nil); err != nil {
		return nil, err
	}

	now := s.stamp()
	a.ID = common.NewID()
	a.UserID = sess.UserID
	a.IsActive = true
	a.CreatedAt = now
	a.UpdatedAt = now
	if err := s.repomanager.Assets(s.db).Create(ctx, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// GetAsset returns an active asset. Inactive assets are reported as
// common.ErrorNotFound.
func (s *LedgerService) GetAsset(ctx context.Context, sess session.Session, id string) (*models.Asset, error) {
	if err := sess.Require(); err != nil {
		return nil, err
	}
	a, err := s.repomanager.Assets(s.db).GetByID(ctx, sess.UserID, id)
	if err != nil {
		return nil, err
	}
	if !a.IsActive {
		return nil, common.ErrorNotFound
	}
	return a, nil
}

// GetAssets returns the active assets matching f, most valuable first.
func (s *LedgerService) GetAssets(ctx context.Context, sess session.Session, f models.AssetFilter) ([]models.Asset, error) {
	if err := sess.Require(); err != nil {
		return nil, err
	}
	all, err := s.repomanager.Assets(s.db).ListActive(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}

	out := make([]models.Asset, 0, len(all))
	for _, a := range all {
		if f.Match(a) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].CurrentValue.Cmp(out[j].CurrentValue); c != 0 {
			return c > 0
		}
		return strings.Compare(out[i].ID, out[j].ID) < 0
	})
	return out, nil
}

// UpdateAsset applies patch to an active asset of the session user.
func (s *LedgerService) UpdateAsset(ctx context.Context, sess session.Session, id string, patch models.AssetPatch) (*models.Asset, error) {
	a, err := s.GetAsset(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(a)
	if err := validateAsset(a); err != nil {
		return nil, err
	}
	if patch.Currency != nil {
		def, err := s.userCurrency(ctx, s.db, sess.UserID)
		if err != nil {
			return nil, err
		}
		if a.Currency, err = resolveCurrency(a.Currency, def); err != nil {
			return nil, err
		}
	}
	if err := checkRefs(ctx, s.repomanager, s.db, sess.UserID, a.AccountUserID, nil); err != nil {
		return nil, err
	}
	a.UpdatedAt = s.stamp()
	if err := s.repomanager.Assets(s.db).Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// DeleteAsset deactivates an asset. The row stays in storage with
// IsActive false and disappears from every read.
func (s *LedgerService) DeleteAsset(ctx context.Context, sess session.Session, id string) error {
	inactive := false
	_, err := s.UpdateAsset(ctx, sess, id, models.AssetPatch{IsActive: &inactive})
	return err
}
